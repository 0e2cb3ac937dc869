package usecase

import (
	"context"
	"sort"
	"strings"

	"hirelane/internal/domain/account"
	"hirelane/internal/domain/matching"
	"hirelane/internal/domain/opportunity"

	"github.com/google/uuid"
)

const (
	defaultRecommendationLimit = 20
	maxRecommendationLimit     = 50
	// open opportunities considered per request before ranking
	recommendationScanLimit = 500
)

type RecommendationParams struct {
	Limit    int
	Offset   int
	MinScore int
}

type RecommendationItem struct {
	Opportunity opportunity.Opportunity
	Result      matching.Result
}

type RecommendationUsecase interface {
	Recommend(ctx context.Context, candidateID uuid.UUID, params RecommendationParams) ([]RecommendationItem, error)
}

// Recommendation ranks with the deterministic scorer only.
type Recommendation struct {
	accounts      account.Repository
	opportunities opportunity.Repository
}

func NewRecommendationUsecase(accounts account.Repository, opportunities opportunity.Repository) *Recommendation {
	return &Recommendation{accounts: accounts, opportunities: opportunities}
}

func (u *Recommendation) Recommend(ctx context.Context, candidateID uuid.UUID, params RecommendationParams) ([]RecommendationItem, error) {
	if candidateID == uuid.Nil {
		return nil, ErrUnauthorized
	}

	limit := params.Limit
	if limit <= 0 {
		limit = defaultRecommendationLimit
	}
	if limit > maxRecommendationLimit {
		limit = maxRecommendationLimit
	}
	offset := params.Offset
	if offset < 0 {
		offset = 0
	}
	minScore := matching.ClampScore(params.MinScore)

	acc, err := loadAccount(ctx, u.accounts, candidateID)
	if err != nil {
		return nil, err
	}
	candidate := acc.CandidateSnapshot()

	opps, err := u.opportunities.ListOpen(ctx, recommendationScanLimit, 0)
	if err != nil {
		return nil, ErrInternal
	}

	out := make([]RecommendationItem, 0, len(opps))
	for _, o := range opps {
		if !o.IsOpen() {
			continue
		}
		res := matching.Score(candidate, o.RequirementsSnapshot())
		if res.OverallScore < minScore {
			continue
		}
		out = append(out, RecommendationItem{Opportunity: o, Result: res})
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.Result.OverallScore != b.Result.OverallScore {
			return a.Result.OverallScore > b.Result.OverallScore
		}
		ta, tb := strings.ToLower(a.Opportunity.Title), strings.ToLower(b.Opportunity.Title)
		if ta != tb {
			return ta < tb
		}
		return a.Opportunity.ID.String() < b.Opportunity.ID.String()
	})

	if offset >= len(out) {
		return []RecommendationItem{}, nil
	}
	end := offset + limit
	if end > len(out) {
		end = len(out)
	}
	return out[offset:end], nil
}
