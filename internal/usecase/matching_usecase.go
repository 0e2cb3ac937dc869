package usecase

import (
	"context"
	"errors"

	"hirelane/internal/domain/account"
	"hirelane/internal/domain/matching"
	"hirelane/internal/domain/opportunity"

	"github.com/google/uuid"
)

var (
	ErrAccountNotFound     = errors.New("account not found")
	ErrOpportunityNotFound = errors.New("opportunity not found")
	ErrInvalidInput        = errors.New("invalid input")
)

type MatchPreview struct {
	Opportunity opportunity.Opportunity
	Result      matching.Result
	Source      MatchSource
}

type MatchingUsecase interface {
	Preview(ctx context.Context, candidateID uuid.UUID, kind opportunity.Kind, opportunityID uuid.UUID) (MatchPreview, error)
}

type Matching struct {
	accounts      account.Repository
	opportunities opportunity.Repository
	pipeline      *MatchPipeline
}

func NewMatchingUsecase(accounts account.Repository, opportunities opportunity.Repository, pipeline *MatchPipeline) *Matching {
	return &Matching{accounts: accounts, opportunities: opportunities, pipeline: pipeline}
}

// Preview scores the caller's current profile against one opportunity
// without creating an application.
func (u *Matching) Preview(ctx context.Context, candidateID uuid.UUID, kind opportunity.Kind, opportunityID uuid.UUID) (MatchPreview, error) {
	if candidateID == uuid.Nil {
		return MatchPreview{}, ErrUnauthorized
	}
	if opportunityID == uuid.Nil {
		return MatchPreview{}, ErrOpportunityNotFound
	}

	acc, err := loadAccount(ctx, u.accounts, candidateID)
	if err != nil {
		return MatchPreview{}, err
	}
	opp, err := loadOpportunity(ctx, u.opportunities, kind, opportunityID)
	if err != nil {
		return MatchPreview{}, err
	}

	res, src := u.pipeline.Score(ctx, acc.CandidateSnapshot(), opp.RequirementsSnapshot())
	return MatchPreview{Opportunity: opp, Result: res, Source: src}, nil
}

func loadAccount(ctx context.Context, accounts account.Repository, id uuid.UUID) (account.Account, error) {
	acc, err := accounts.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, account.ErrNotFound) {
			return account.Account{}, ErrAccountNotFound
		}
		return account.Account{}, ErrInternal
	}
	return acc, nil
}

func loadOpportunity(ctx context.Context, opportunities opportunity.Repository, kind opportunity.Kind, id uuid.UUID) (opportunity.Opportunity, error) {
	opp, err := opportunities.GetByID(ctx, kind, id)
	if err != nil {
		if errors.Is(err, opportunity.ErrNotFound) {
			return opportunity.Opportunity{}, ErrOpportunityNotFound
		}
		return opportunity.Opportunity{}, ErrInternal
	}
	return opp, nil
}
