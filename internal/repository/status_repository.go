package repository

import (
	"context"

	"hirelane/internal/database"
	"hirelane/internal/domain"
)

type StatusRepository interface {
	GetOpportunityStats(ctx context.Context) ([]domain.KindStat, error)
	GetApplicationStatusCounts(ctx context.Context) (map[string]int, error)
	GetApplicationsToday(ctx context.Context) (int, error)
}

type PostgresStatusRepository struct {
	db database.DB
}

func NewPostgresStatusRepository(db database.DB) *PostgresStatusRepository {
	return &PostgresStatusRepository{db: db}
}

func (r *PostgresStatusRepository) GetOpportunityStats(ctx context.Context) ([]domain.KindStat, error) {
	rows, err := r.db.Query(ctx,
		`SELECT kind, COUNT(*) FILTER (WHERE status = 'open'), COUNT(*)
		 FROM opportunities GROUP BY kind ORDER BY kind`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.KindStat, 0, 2)
	for rows.Next() {
		var st domain.KindStat
		if err := rows.Scan(&st.Kind, &st.Open, &st.Total); err != nil {
			return nil, err
		}
		out = append(out, st)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresStatusRepository) GetApplicationStatusCounts(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.Query(ctx, `SELECT status, COUNT(*) FROM applications GROUP BY status`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make(map[string]int)
	for rows.Next() {
		var (
			status string
			n      int
		)
		if err := rows.Scan(&status, &n); err != nil {
			return nil, err
		}
		out[status] = n
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresStatusRepository) GetApplicationsToday(ctx context.Context) (int, error) {
	row := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM applications WHERE created_at >= CURRENT_DATE`)
	var c int
	if err := row.Scan(&c); err != nil {
		return 0, err
	}
	return c, nil
}
