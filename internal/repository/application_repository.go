package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"hirelane/internal/database"
	"hirelane/internal/domain/account"
	"hirelane/internal/domain/application"

	"github.com/google/uuid"
)

// PostgresApplicationRepository keeps the status history in its own table.
// Every write touches the application row and its history in one
// transaction.
type PostgresApplicationRepository struct {
	db database.DB
}

func NewPostgresApplicationRepository(db database.DB) *PostgresApplicationRepository {
	return &PostgresApplicationRepository{db: db}
}

const applicationColumns = `id, applicant_id, employer_id, job_id, gig_id, status, candidate_snapshot,
	match_result, match_source, resume_completeness, cover_letter, interview_details, offer_details,
	decline_reason, withdraw_reason, version, created_at, updated_at`

// Create fails with application.ErrConflict when the applicant already has
// an active application for the same opportunity.
func (r *PostgresApplicationRepository) Create(ctx context.Context, app application.Application) (err error) {
	enc, err := encodeApplication(app)
	if err != nil {
		return err
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	_, err = tx.Exec(ctx,
		`INSERT INTO applications (id, applicant_id, employer_id, job_id, gig_id, status, candidate_snapshot,
			match_result, match_source, resume_completeness, cover_letter, interview_details, offer_details,
			decline_reason, withdraw_reason, version, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)`,
		app.ID, app.ApplicantID, app.EmployerID, nullUUID(app.Opportunity.JobID), nullUUID(app.Opportunity.GigID),
		string(app.Status), enc.candidate, enc.match, app.MatchSource, app.ResumeCompleteness, app.CoverLetter,
		enc.interview, enc.offer, app.DeclineReason, app.WithdrawReason, app.Version, app.CreatedAt, app.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			err = application.ErrConflict
		}
		return err
	}

	if err = insertHistory(ctx, tx, app.ID, app.History, 0); err != nil {
		return err
	}
	return tx.Commit(ctx)
}

func (r *PostgresApplicationRepository) GetByID(ctx context.Context, id uuid.UUID) (application.Application, error) {
	row := r.db.QueryRow(ctx, `SELECT `+applicationColumns+` FROM applications WHERE id = $1`, id)
	app, err := scanApplication(row)
	if err != nil {
		if isNoRows(err) {
			return application.Application{}, application.ErrNotFound
		}
		return application.Application{}, err
	}

	hist, err := r.history(ctx, []uuid.UUID{id})
	if err != nil {
		return application.Application{}, err
	}
	app.History = hist[id]
	return app, nil
}

func (r *PostgresApplicationRepository) List(ctx context.Context, f application.ListFilter) ([]application.Application, error) {
	limit, offset := clampPage(f.Limit, f.Offset, 20, 100)

	where := make([]string, 0, 3)
	args := make([]any, 0, 5)
	if f.ApplicantID != uuid.Nil {
		args = append(args, f.ApplicantID)
		where = append(where, fmt.Sprintf("applicant_id = $%d", len(args)))
	}
	if f.EmployerID != uuid.Nil {
		args = append(args, f.EmployerID)
		where = append(where, fmt.Sprintf("employer_id = $%d", len(args)))
	}
	if f.Status != "" {
		args = append(args, string(f.Status))
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}

	q := `SELECT ` + applicationColumns + ` FROM applications`
	if len(where) > 0 {
		q += ` WHERE ` + strings.Join(where, " AND ")
	}
	args = append(args, limit, offset)
	q += fmt.Sprintf(` ORDER BY created_at DESC, id LIMIT $%d OFFSET $%d`, len(args)-1, len(args))

	rows, err := r.db.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]application.Application, 0)
	ids := make([]uuid.UUID, 0)
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, app)
		ids = append(ids, app.ID)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return out, nil
	}

	hist, err := r.history(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range out {
		out[i].History = hist[out[i].ID]
	}
	return out, nil
}

func (r *PostgresApplicationRepository) ExistsActive(ctx context.Context, applicantID uuid.UUID, ref application.OpportunityRef) (bool, error) {
	var exists bool
	row := r.db.QueryRow(ctx,
		`SELECT EXISTS(
			SELECT 1 FROM applications
			WHERE applicant_id = $1 AND COALESCE(job_id, gig_id) = $2
			  AND status NOT IN ('accepted', 'rejected', 'withdrawn'))`,
		applicantID, ref.ID(),
	)
	if err := row.Scan(&exists); err != nil {
		if isNoRows(err) {
			return false, nil
		}
		return false, err
	}
	return exists, nil
}

// Update is a compare-and-swap on (version, status): the row is written
// only if it still holds what prev was read with. The history entries
// next added on top of prev are inserted in the same transaction.
func (r *PostgresApplicationRepository) Update(ctx context.Context, prev, next application.Application) (_ application.Application, err error) {
	if len(next.History) <= len(prev.History) {
		return application.Application{}, fmt.Errorf("update application %s: no new history entry", prev.ID)
	}
	enc, err := encodeApplication(next)
	if err != nil {
		return application.Application{}, err
	}

	tx, err := r.db.Begin(ctx)
	if err != nil {
		return application.Application{}, err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	n, err := tx.Exec(ctx,
		`UPDATE applications
		 SET status = $4, interview_details = $5, offer_details = $6, decline_reason = $7,
			withdraw_reason = $8, version = version + 1, updated_at = $9
		 WHERE id = $1 AND version = $2 AND status = $3`,
		prev.ID, prev.Version, string(prev.Status),
		string(next.Status), enc.interview, enc.offer, next.DeclineReason, next.WithdrawReason, next.UpdatedAt,
	)
	if err != nil {
		return application.Application{}, err
	}
	if n == 0 {
		var exists bool
		if err = tx.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM applications WHERE id = $1)`, prev.ID).Scan(&exists); err != nil {
			return application.Application{}, err
		}
		if !exists {
			err = application.ErrNotFound
		} else {
			err = application.ErrConflict
		}
		return application.Application{}, err
	}

	if err = insertHistory(ctx, tx, next.ID, next.History[len(prev.History):], len(prev.History)); err != nil {
		if isUniqueViolation(err) {
			err = application.ErrConflict
		}
		return application.Application{}, err
	}
	if err = tx.Commit(ctx); err != nil {
		return application.Application{}, err
	}

	next.Version = prev.Version + 1
	return next, nil
}

func (r *PostgresApplicationRepository) history(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID][]application.HistoryEntry, error) {
	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, id.String())
	}

	rows, err := r.db.Query(ctx,
		`SELECT application_id, status, changed_by, changed_by_role, note, created_at
		 FROM application_status_history
		 WHERE application_id = ANY($1::uuid[])
		 ORDER BY application_id, seq`,
		keys,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[uuid.UUID][]application.HistoryEntry, len(ids))
	for rows.Next() {
		var (
			appID  uuid.UUID
			e      application.HistoryEntry
			status string
			role   string
		)
		if err := rows.Scan(&appID, &status, &e.ChangedBy, &role, &e.Note, &e.Timestamp); err != nil {
			return nil, err
		}
		e.Status = application.Status(status)
		e.ChangedByRole = account.Role(role)
		out[appID] = append(out[appID], e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

type execer interface {
	Exec(ctx context.Context, query string, args ...any) (int64, error)
}

func insertHistory(ctx context.Context, tx execer, appID uuid.UUID, entries []application.HistoryEntry, firstSeq int) error {
	for i, e := range entries {
		_, err := tx.Exec(ctx,
			`INSERT INTO application_status_history (application_id, seq, status, changed_by, changed_by_role, note, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
			appID, firstSeq+i, string(e.Status), e.ChangedBy, string(e.ChangedByRole), e.Note, e.Timestamp,
		)
		if err != nil {
			return err
		}
	}
	return nil
}

type encodedApplication struct {
	candidate []byte
	match     []byte
	interview []byte
	offer     []byte
}

func encodeApplication(app application.Application) (encodedApplication, error) {
	var (
		out encodedApplication
		err error
	)
	if out.candidate, err = json.Marshal(app.Candidate); err != nil {
		return out, fmt.Errorf("encode candidate snapshot: %w", err)
	}
	if out.match, err = json.Marshal(app.Match); err != nil {
		return out, fmt.Errorf("encode match result: %w", err)
	}
	if app.Interview != nil {
		if out.interview, err = json.Marshal(app.Interview); err != nil {
			return out, fmt.Errorf("encode interview details: %w", err)
		}
	}
	if app.Offer != nil {
		if out.offer, err = json.Marshal(app.Offer); err != nil {
			return out, fmt.Errorf("encode offer details: %w", err)
		}
	}
	return out, nil
}

func scanApplication(row database.Row) (application.Application, error) {
	var (
		app                    application.Application
		jobID, gigID           uuid.NullUUID
		status                 string
		candidate, match       []byte
		interviewRaw, offerRaw []byte
	)
	err := row.Scan(
		&app.ID, &app.ApplicantID, &app.EmployerID, &jobID, &gigID, &status, &candidate,
		&match, &app.MatchSource, &app.ResumeCompleteness, &app.CoverLetter, &interviewRaw, &offerRaw,
		&app.DeclineReason, &app.WithdrawReason, &app.Version, &app.CreatedAt, &app.UpdatedAt,
	)
	if err != nil {
		return application.Application{}, err
	}

	app.Status = application.Status(status)
	if jobID.Valid {
		app.Opportunity.JobID = jobID.UUID
	}
	if gigID.Valid {
		app.Opportunity.GigID = gigID.UUID
	}
	if err := json.Unmarshal(candidate, &app.Candidate); err != nil {
		return application.Application{}, fmt.Errorf("decode candidate snapshot: %w", err)
	}
	if err := json.Unmarshal(match, &app.Match); err != nil {
		return application.Application{}, fmt.Errorf("decode match result: %w", err)
	}
	if len(interviewRaw) > 0 {
		var iv application.InterviewDetails
		if err := json.Unmarshal(interviewRaw, &iv); err != nil {
			return application.Application{}, fmt.Errorf("decode interview details: %w", err)
		}
		app.Interview = &iv
	}
	if len(offerRaw) > 0 {
		var of application.OfferDetails
		if err := json.Unmarshal(offerRaw, &of); err != nil {
			return application.Application{}, fmt.Errorf("decode offer details: %w", err)
		}
		app.Offer = &of
	}
	return app, nil
}

func nullUUID(id uuid.UUID) uuid.NullUUID {
	return uuid.NullUUID{UUID: id, Valid: id != uuid.Nil}
}
