package repository

import (
	"context"
	"fmt"

	"hirelane/internal/database"
	"hirelane/internal/domain/matching"
	"hirelane/internal/domain/opportunity"

	"github.com/google/uuid"
)

type PostgresOpportunityRepository struct {
	db database.DB
}

func NewPostgresOpportunityRepository(db database.DB) *PostgresOpportunityRepository {
	return &PostgresOpportunityRepository{db: db}
}

const opportunityColumns = `id, kind, employer_id, title, description, status, required_skills,
	min_experience_years, required_education, location_type, compensation_min, compensation_max,
	compensation_currency, applications_count, shortlisted_count, hires_count, created_at, updated_at`

func (r *PostgresOpportunityRepository) Create(ctx context.Context, o opportunity.Opportunity) error {
	req := o.Requirements
	skills := req.RequiredSkills
	if skills == nil {
		skills = []string{}
	}
	status := o.Status
	if status == "" {
		status = opportunity.StatusOpen
	}
	location := req.LocationType
	if location == "" {
		location = matching.LocationOnsite
	}

	_, err := r.db.Exec(ctx,
		`INSERT INTO opportunities (id, kind, employer_id, title, description, status, required_skills,
			min_experience_years, required_education, location_type, compensation_min, compensation_max,
			compensation_currency)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		 ON CONFLICT (id) DO NOTHING`,
		o.ID, string(o.Kind), o.EmployerID, o.Title, o.Description, string(status), skills,
		req.MinExperienceYears, string(req.RequiredEducation), string(location),
		req.Compensation.Min, req.Compensation.Max, req.Compensation.Currency,
	)
	return err
}

// GetByID only returns the opportunity when it has the requested kind, so
// a gig id cannot be used where a job is expected.
func (r *PostgresOpportunityRepository) GetByID(ctx context.Context, kind opportunity.Kind, id uuid.UUID) (opportunity.Opportunity, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+opportunityColumns+` FROM opportunities WHERE id = $1 AND kind = $2`,
		id, string(kind),
	)
	o, err := scanOpportunity(row)
	if err != nil {
		if isNoRows(err) {
			return opportunity.Opportunity{}, opportunity.ErrNotFound
		}
		return opportunity.Opportunity{}, err
	}
	return o, nil
}

func (r *PostgresOpportunityRepository) ListOpen(ctx context.Context, limit, offset int) ([]opportunity.Opportunity, error) {
	limit, offset = clampPage(limit, offset, 20, 500)

	rows, err := r.db.Query(ctx,
		`SELECT `+opportunityColumns+`
		 FROM opportunities
		 WHERE status = 'open'
		 ORDER BY created_at DESC, id
		 LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]opportunity.Opportunity, 0)
	for rows.Next() {
		o, err := scanOpportunity(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresOpportunityRepository) IncrementApplications(ctx context.Context, kind opportunity.Kind, id uuid.UUID) error {
	return r.increment(ctx, "applications_count", kind, id)
}

func (r *PostgresOpportunityRepository) IncrementShortlisted(ctx context.Context, kind opportunity.Kind, id uuid.UUID) error {
	return r.increment(ctx, "shortlisted_count", kind, id)
}

func (r *PostgresOpportunityRepository) IncrementHires(ctx context.Context, kind opportunity.Kind, id uuid.UUID) error {
	return r.increment(ctx, "hires_count", kind, id)
}

// column is always one of the constants above, never user input.
func (r *PostgresOpportunityRepository) increment(ctx context.Context, column string, kind opportunity.Kind, id uuid.UUID) error {
	q := fmt.Sprintf(`UPDATE opportunities SET %[1]s = %[1]s + 1, updated_at = now() WHERE id = $1 AND kind = $2`, column)
	n, err := r.db.Exec(ctx, q, id, string(kind))
	if err != nil {
		return err
	}
	if n == 0 {
		return opportunity.ErrNotFound
	}
	return nil
}

func scanOpportunity(row database.Row) (opportunity.Opportunity, error) {
	var (
		o         opportunity.Opportunity
		kind      string
		status    string
		education string
		location  string
	)
	err := row.Scan(
		&o.ID, &kind, &o.EmployerID, &o.Title, &o.Description, &status,
		&o.Requirements.RequiredSkills, &o.Requirements.MinExperienceYears, &education, &location,
		&o.Requirements.Compensation.Min, &o.Requirements.Compensation.Max, &o.Requirements.Compensation.Currency,
		&o.ApplicationsCount, &o.ShortlistedCount, &o.HiresCount, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return opportunity.Opportunity{}, err
	}
	o.Kind = opportunity.Kind(kind)
	o.Status = opportunity.Status(status)
	o.Requirements.RequiredEducation = matching.EducationLevel(education)
	o.Requirements.LocationType = matching.LocationType(location)
	return o, nil
}
