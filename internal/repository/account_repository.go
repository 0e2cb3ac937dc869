package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"hirelane/internal/database"
	"hirelane/internal/domain/account"
	"hirelane/internal/domain/matching"
	"hirelane/internal/domain/resume"

	"github.com/google/uuid"
)

var ErrEmailTaken = errors.New("email already registered")

type PostgresAccountRepository struct {
	db database.DB
}

func NewPostgresAccountRepository(db database.DB) *PostgresAccountRepository {
	return &PostgresAccountRepository{db: db}
}

const accountColumns = `id, email, password_hash, role, full_name, skills, experience_years,
	education_level, location_preference, resume, company_name, hires_count, created_at, updated_at`

func (r *PostgresAccountRepository) Create(ctx context.Context, a account.Account) error {
	resumeJSON, err := encodeResume(a.Resume)
	if err != nil {
		return err
	}
	skills := a.Skills
	if skills == nil {
		skills = []string{}
	}

	_, err = r.db.Exec(ctx,
		`INSERT INTO accounts (id, email, password_hash, role, full_name, skills, experience_years,
			education_level, location_preference, resume, company_name, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`,
		a.ID, strings.ToLower(strings.TrimSpace(a.Email)), a.PasswordHash, string(a.Role), a.FullName,
		skills, a.ExperienceYears, string(a.EducationLevel), a.LocationPreference, resumeJSON,
		a.CompanyName, a.CreatedAt, a.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrEmailTaken
		}
		return err
	}
	return nil
}

func (r *PostgresAccountRepository) GetByID(ctx context.Context, id uuid.UUID) (account.Account, error) {
	row := r.db.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)
	return scanAccount(row)
}

func (r *PostgresAccountRepository) GetByEmail(ctx context.Context, email string) (account.Account, error) {
	row := r.db.QueryRow(ctx, `SELECT `+accountColumns+` FROM accounts WHERE email = $1`,
		strings.ToLower(strings.TrimSpace(email)))
	return scanAccount(row)
}

func (r *PostgresAccountRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var exists bool
	row := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM accounts WHERE email = $1)`,
		strings.ToLower(strings.TrimSpace(email)))
	if err := row.Scan(&exists); err != nil {
		if isNoRows(err) {
			return false, nil
		}
		return false, err
	}
	return exists, nil
}

// UpdateProfile writes the editable profile fields; credentials, role and
// counters are left alone.
func (r *PostgresAccountRepository) UpdateProfile(ctx context.Context, a account.Account) error {
	resumeJSON, err := encodeResume(a.Resume)
	if err != nil {
		return err
	}
	skills := a.Skills
	if skills == nil {
		skills = []string{}
	}

	n, err := r.db.Exec(ctx,
		`UPDATE accounts
		 SET full_name = $2, skills = $3, experience_years = $4, education_level = $5,
			location_preference = $6, resume = $7, company_name = $8, updated_at = now()
		 WHERE id = $1`,
		a.ID, a.FullName, skills, a.ExperienceYears, string(a.EducationLevel),
		a.LocationPreference, resumeJSON, a.CompanyName,
	)
	if err != nil {
		return err
	}
	if n == 0 {
		return account.ErrNotFound
	}
	return nil
}

func (r *PostgresAccountRepository) IncrementHires(ctx context.Context, id uuid.UUID) error {
	n, err := r.db.Exec(ctx, `UPDATE accounts SET hires_count = hires_count + 1, updated_at = now() WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if n == 0 {
		return account.ErrNotFound
	}
	return nil
}

func scanAccount(row database.Row) (account.Account, error) {
	var (
		a          account.Account
		role       string
		education  string
		resumeJSON []byte
	)
	err := row.Scan(
		&a.ID, &a.Email, &a.PasswordHash, &role, &a.FullName, &a.Skills, &a.ExperienceYears,
		&education, &a.LocationPreference, &resumeJSON, &a.CompanyName, &a.HiresCount,
		&a.CreatedAt, &a.UpdatedAt,
	)
	if err != nil {
		if isNoRows(err) {
			return account.Account{}, account.ErrNotFound
		}
		return account.Account{}, err
	}

	a.Role = account.Role(role)
	a.EducationLevel = matching.EducationLevel(education)
	if len(resumeJSON) > 0 {
		var res resume.Resume
		if err := json.Unmarshal(resumeJSON, &res); err != nil {
			return account.Account{}, fmt.Errorf("decode resume for account %s: %w", a.ID, err)
		}
		a.Resume = &res
	}
	return a, nil
}

func encodeResume(r *resume.Resume) ([]byte, error) {
	if r == nil {
		return nil, nil
	}
	b, err := json.Marshal(r)
	if err != nil {
		return nil, fmt.Errorf("encode resume: %w", err)
	}
	return b, nil
}
