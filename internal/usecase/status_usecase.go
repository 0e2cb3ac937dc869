package usecase

import (
	"context"
	"time"

	"hirelane/internal/domain"
	"hirelane/internal/repository"
)

type Pinger interface {
	Ping(ctx context.Context) error
}

type StatusUsecase interface {
	GetStatus(ctx context.Context) (*domain.SystemStatus, error)
	Ready(ctx context.Context) (dbOK, redisOK bool)
}

type Status struct {
	repo      repository.StatusRepository
	db        Pinger
	redis     Pinger
	aiEnabled bool
	now       func() time.Time
}

// NewStatusUsecase accepts nil pingers; the matching dependency is then
// reported unhealthy.
func NewStatusUsecase(repo repository.StatusRepository, db, redis Pinger, aiEnabled bool) *Status {
	return &Status{repo: repo, db: db, redis: redis, aiEnabled: aiEnabled, now: time.Now}
}

func (u *Status) GetStatus(ctx context.Context) (*domain.SystemStatus, error) {
	opps, err := u.repo.GetOpportunityStats(ctx)
	if err != nil {
		return nil, err
	}
	byStatus, err := u.repo.GetApplicationStatusCounts(ctx)
	if err != nil {
		return nil, err
	}
	today, err := u.repo.GetApplicationsToday(ctx)
	if err != nil {
		return nil, err
	}

	dbOK, redisOK := u.Ready(ctx)
	return &domain.SystemStatus{
		Opportunities:     opps,
		Applications:      byStatus,
		ApplicationsToday: today,
		DatabaseHealthy:   dbOK,
		RedisHealthy:      redisOK,
		AIEnabled:         u.aiEnabled,
		ServerTime:        u.now().UTC(),
	}, nil
}

func (u *Status) Ready(ctx context.Context) (bool, bool) {
	return ping(ctx, u.db), ping(ctx, u.redis)
}

func ping(ctx context.Context, p Pinger) bool {
	if p == nil {
		return false
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return p.Ping(pingCtx) == nil
}
