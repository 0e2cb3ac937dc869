package usecase

import (
	"context"
	"errors"
	"testing"

	"hirelane/internal/domain"
)

type stubStatusRepo struct {
	err error
}

func (s stubStatusRepo) GetOpportunityStats(context.Context) ([]domain.KindStat, error) {
	return []domain.KindStat{{Kind: "job", Open: 2, Total: 3}}, s.err
}

func (s stubStatusRepo) GetApplicationStatusCounts(context.Context) (map[string]int, error) {
	return map[string]int{"submitted": 4}, nil
}

func (s stubStatusRepo) GetApplicationsToday(context.Context) (int, error) {
	return 1, nil
}

type pingerFunc func(context.Context) error

func (f pingerFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestStatus_ReportsHealth(t *testing.T) {
	up := pingerFunc(func(context.Context) error { return nil })
	down := pingerFunc(func(context.Context) error { return errors.New("down") })

	uc := NewStatusUsecase(stubStatusRepo{}, up, down, true)
	st, err := uc.GetStatus(context.Background())
	if err != nil {
		t.Fatalf("status: %v", err)
	}
	if !st.DatabaseHealthy || st.RedisHealthy || !st.AIEnabled {
		t.Fatalf("unexpected health: %+v", st)
	}
	if st.Applications["submitted"] != 4 || st.ApplicationsToday != 1 || len(st.Opportunities) != 1 {
		t.Fatalf("unexpected counts: %+v", st)
	}

	db, redis := NewStatusUsecase(stubStatusRepo{}, nil, nil, false).Ready(context.Background())
	if db || redis {
		t.Fatalf("nil pingers must report unhealthy")
	}

	if _, err := NewStatusUsecase(stubStatusRepo{err: errors.New("boom")}, up, up, false).GetStatus(context.Background()); err == nil {
		t.Fatalf("expected repository error")
	}
}
