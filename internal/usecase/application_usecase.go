package usecase

import (
	"context"
	"errors"
	"time"

	"hirelane/internal/domain/account"
	"hirelane/internal/domain/application"
	"hirelane/internal/domain/opportunity"
	"hirelane/internal/domain/resume"
	"hirelane/internal/logger"
	"hirelane/internal/metrics"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var (
	ErrOpportunityClosed    = errors.New("opportunity is closed")
	ErrDuplicateApplication = errors.New("an active application for this opportunity already exists")
	ErrApplicationNotFound  = errors.New("application not found")
)

const (
	applyLockTTL            = 30 * time.Second
	defaultApplicationLimit = 20
	maxApplicationLimit     = 100
)

// Notifier is told about every committed status change. Implementations
// must not block.
type Notifier interface {
	ApplicationStatusChanged(app application.Application)
}

type ApplyInput struct {
	JobID       uuid.UUID
	GigID       uuid.UUID
	CoverLetter string
}

type TransitionInput struct {
	Status    application.Status
	Note      string
	Interview *application.InterviewDetails
	Offer     *application.OfferDetails
}

type ApplicationListParams struct {
	Status application.Status
	Limit  int
	Offset int
}

type ApplicationUsecase interface {
	Apply(ctx context.Context, actor application.Actor, in ApplyInput) (application.Application, error)
	Get(ctx context.Context, actor application.Actor, id uuid.UUID) (application.Application, error)
	List(ctx context.Context, actor application.Actor, params ApplicationListParams) ([]application.Application, error)
	Transition(ctx context.Context, actor application.Actor, id uuid.UUID, in TransitionInput) (application.Application, error)
	AcceptOffer(ctx context.Context, actor application.Actor, id uuid.UUID) (application.Application, error)
	DeclineOffer(ctx context.Context, actor application.Actor, id uuid.UUID, reason string) (application.Application, error)
	Withdraw(ctx context.Context, actor application.Actor, id uuid.UUID, reason string) (application.Application, error)
}

type ApplicationDeps struct {
	Applications  application.Repository
	Opportunities opportunity.Repository
	Accounts      account.Repository
	Pipeline      *MatchPipeline
	Cache         Cache
	Notifier      Notifier
	Metrics       *metrics.Metrics
	Logger        *zap.Logger
}

type Applications struct {
	applications  application.Repository
	opportunities opportunity.Repository
	accounts      account.Repository
	pipeline      *MatchPipeline
	cache         Cache
	notifier      Notifier
	metrics       *metrics.Metrics
	logger        *zap.Logger
	now           func() time.Time
}

func NewApplicationUsecase(d ApplicationDeps) *Applications {
	return &Applications{
		applications:  d.Applications,
		opportunities: d.Opportunities,
		accounts:      d.Accounts,
		pipeline:      d.Pipeline,
		cache:         d.Cache,
		notifier:      d.Notifier,
		metrics:       d.Metrics,
		logger:        logger.OrNop(d.Logger).Named("applications"),
		now:           time.Now,
	}
}

// Apply submits an application for the actor. The candidate and
// requirement snapshots and the match result are frozen on the new
// application.
func (u *Applications) Apply(ctx context.Context, actor application.Actor, in ApplyInput) (application.Application, error) {
	if actor.ID == uuid.Nil {
		return application.Application{}, ErrUnauthorized
	}
	if actor.Role != account.RoleCandidate {
		return application.Application{}, application.ErrForbidden
	}

	ref := application.OpportunityRef{JobID: in.JobID, GigID: in.GigID}
	if err := ref.Validate(); err != nil {
		return application.Application{}, err
	}

	opp, err := loadOpportunity(ctx, u.opportunities, ref.Kind(), ref.ID())
	if err != nil {
		return application.Application{}, err
	}
	if !opp.IsOpen() {
		return application.Application{}, ErrOpportunityClosed
	}

	release, err := u.lockApply(ctx, actor.ID, opp.ID)
	if err != nil {
		return application.Application{}, err
	}
	defer release()

	exists, err := u.applications.ExistsActive(ctx, actor.ID, ref)
	if err != nil {
		return application.Application{}, ErrInternal
	}
	if exists {
		return application.Application{}, ErrDuplicateApplication
	}

	acc, err := loadAccount(ctx, u.accounts, actor.ID)
	if err != nil {
		return application.Application{}, err
	}

	candidate := acc.CandidateSnapshot()
	res, src := u.pipeline.Score(ctx, candidate, opp.RequirementsSnapshot())

	completeness := 0
	if acc.Resume != nil {
		completeness = resume.Completeness(*acc.Resume)
	}

	app, err := application.New(application.NewParams{
		ApplicantID:        actor.ID,
		EmployerID:         opp.EmployerID,
		Opportunity:        ref,
		Candidate:          candidate,
		Match:              res,
		MatchSource:        string(src),
		CoverLetter:        in.CoverLetter,
		ResumeCompleteness: completeness,
		Now:                u.now(),
	})
	if err != nil {
		return application.Application{}, err
	}

	if err := u.applications.Create(ctx, app); err != nil {
		if errors.Is(err, application.ErrConflict) {
			return application.Application{}, ErrDuplicateApplication
		}
		u.logger.Error("create application failed", zap.Error(err))
		return application.Application{}, ErrInternal
	}

	u.metrics.Submitted()
	if err := u.opportunities.IncrementApplications(ctx, opp.Kind, opp.ID); err != nil {
		u.counterFailed("opportunity_applications", app.ID, err)
	}

	u.logger.Info("application submitted",
		zap.String("application_id", app.ID.String()),
		zap.String("opportunity_id", opp.ID.String()),
		zap.Int("score", res.OverallScore),
		zap.String("source", string(src)),
	)
	return app, nil
}

// lockApply guards against double submits. When the cache errors the
// request continues and the unique index on active applications decides.
func (u *Applications) lockApply(ctx context.Context, candidateID, opportunityID uuid.UUID) (func(), error) {
	noop := func() {}
	if u.cache == nil {
		return noop, nil
	}

	key := ApplyLockKey(candidateID, opportunityID)
	ok, err := u.cache.AcquireLock(ctx, key, applyLockTTL)
	if err != nil {
		u.logger.Warn("apply lock unavailable", zap.Error(err))
		return noop, nil
	}
	if !ok {
		return nil, ErrDuplicateApplication
	}
	return func() {
		if err := u.cache.ReleaseLock(context.WithoutCancel(ctx), key); err != nil {
			u.logger.Debug("apply lock release failed", zap.Error(err))
		}
	}, nil
}

func (u *Applications) Get(ctx context.Context, actor application.Actor, id uuid.UUID) (application.Application, error) {
	app, err := u.load(ctx, id)
	if err != nil {
		return application.Application{}, err
	}
	if !canView(actor, app) {
		return application.Application{}, application.ErrForbidden
	}
	return app, nil
}

// List returns the actor's own applications: submitted ones for
// candidates, received ones for employers and everything for admins.
func (u *Applications) List(ctx context.Context, actor application.Actor, params ApplicationListParams) ([]application.Application, error) {
	if actor.ID == uuid.Nil {
		return nil, ErrUnauthorized
	}
	if params.Status != "" && !params.Status.Valid() {
		return nil, ErrInvalidInput
	}

	limit := params.Limit
	if limit <= 0 {
		limit = defaultApplicationLimit
	}
	if limit > maxApplicationLimit {
		limit = maxApplicationLimit
	}
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}

	f := application.ListFilter{Status: params.Status, Limit: limit, Offset: offset}
	switch actor.Role {
	case account.RoleCandidate:
		f.ApplicantID = actor.ID
	case account.RoleEmployer:
		f.EmployerID = actor.ID
	case account.RoleAdmin:
	default:
		return nil, application.ErrForbidden
	}

	apps, err := u.applications.List(ctx, f)
	if err != nil {
		return nil, ErrInternal
	}
	return apps, nil
}

func (u *Applications) Transition(ctx context.Context, actor application.Actor, id uuid.UUID, in TransitionInput) (application.Application, error) {
	return u.mutate(ctx, id, func(app application.Application, now time.Time) (application.Application, []application.Effect, error) {
		return application.Transition(app, application.TransitionRequest{
			To:        in.Status,
			Actor:     actor,
			Note:      in.Note,
			Interview: in.Interview,
			Offer:     in.Offer,
			Now:       now,
		})
	})
}

func (u *Applications) AcceptOffer(ctx context.Context, actor application.Actor, id uuid.UUID) (application.Application, error) {
	return u.mutate(ctx, id, func(app application.Application, now time.Time) (application.Application, []application.Effect, error) {
		return application.AcceptOffer(app, actor, now)
	})
}

func (u *Applications) DeclineOffer(ctx context.Context, actor application.Actor, id uuid.UUID, reason string) (application.Application, error) {
	return u.mutate(ctx, id, func(app application.Application, now time.Time) (application.Application, []application.Effect, error) {
		return application.DeclineOffer(app, actor, reason, now)
	})
}

func (u *Applications) Withdraw(ctx context.Context, actor application.Actor, id uuid.UUID, reason string) (application.Application, error) {
	return u.mutate(ctx, id, func(app application.Application, now time.Time) (application.Application, []application.Effect, error) {
		return application.Withdraw(app, actor, reason, now)
	})
}

type transitionFunc func(app application.Application, now time.Time) (application.Application, []application.Effect, error)

// mutate runs one read-modify-write cycle. The write is conditional on
// the status and version that were read, so a concurrent change makes
// this call fail with application.ErrConflict instead of overwriting it.
func (u *Applications) mutate(ctx context.Context, id uuid.UUID, fn transitionFunc) (application.Application, error) {
	prev, err := u.load(ctx, id)
	if err != nil {
		return application.Application{}, err
	}

	next, effects, err := fn(prev, u.now())
	if err != nil {
		return application.Application{}, err
	}

	saved, err := u.applications.Update(ctx, prev, next)
	if err != nil {
		switch {
		case errors.Is(err, application.ErrConflict):
			return application.Application{}, application.ErrConflict
		case errors.Is(err, application.ErrNotFound):
			return application.Application{}, ErrApplicationNotFound
		default:
			u.logger.Error("update application failed", zap.String("application_id", id.String()), zap.Error(err))
			return application.Application{}, ErrInternal
		}
	}

	u.metrics.Transition(string(saved.Status))
	u.applyEffects(ctx, saved, effects)
	if u.notifier != nil {
		u.notifier.ApplicationStatusChanged(saved)
	}

	u.logger.Info("application status changed",
		zap.String("application_id", saved.ID.String()),
		zap.String("from", string(prev.Status)),
		zap.String("to", string(saved.Status)),
	)
	return saved, nil
}

// applyEffects bumps the counters named by the transition. Failures are
// logged and counted but never undo the committed status change.
func (u *Applications) applyEffects(ctx context.Context, app application.Application, effects []application.Effect) {
	kind, oppID := app.Opportunity.Kind(), app.Opportunity.ID()
	for _, e := range effects {
		switch e {
		case application.EffectShortlisted:
			if err := u.opportunities.IncrementShortlisted(ctx, kind, oppID); err != nil {
				u.counterFailed("opportunity_shortlisted", app.ID, err)
			}
		case application.EffectHired:
			if err := u.opportunities.IncrementHires(ctx, kind, oppID); err != nil {
				u.counterFailed("opportunity_hires", app.ID, err)
			}
			if err := u.accounts.IncrementHires(ctx, app.EmployerID); err != nil {
				u.counterFailed("employer_hires", app.ID, err)
			}
		}
	}
}

func (u *Applications) counterFailed(counter string, appID uuid.UUID, err error) {
	u.metrics.CounterUpdateFailed(counter)
	u.logger.Warn("counter update failed",
		zap.String("counter", counter),
		zap.String("application_id", appID.String()),
		zap.Error(err),
	)
}

func (u *Applications) load(ctx context.Context, id uuid.UUID) (application.Application, error) {
	if id == uuid.Nil {
		return application.Application{}, ErrApplicationNotFound
	}
	app, err := u.applications.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, application.ErrNotFound) {
			return application.Application{}, ErrApplicationNotFound
		}
		return application.Application{}, ErrInternal
	}
	return app, nil
}

func canView(actor application.Actor, app application.Application) bool {
	switch {
	case actor.ID == uuid.Nil:
		return false
	case actor.Role == account.RoleAdmin:
		return true
	case actor.Role == account.RoleEmployer:
		return actor.ID == app.EmployerID
	case actor.Role == account.RoleCandidate:
		return actor.ID == app.ApplicantID
	default:
		return false
	}
}
