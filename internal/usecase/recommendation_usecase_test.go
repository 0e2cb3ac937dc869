package usecase

import (
	"context"
	"errors"
	"testing"

	"hirelane/internal/domain/account"
	"hirelane/internal/domain/matching"
	"hirelane/internal/domain/opportunity"

	"github.com/google/uuid"
)

func TestRecommend_RanksAndPaginates(t *testing.T) {
	cand := account.Account{
		ID:              uuid.New(),
		Role:            account.RoleCandidate,
		Skills:          []string{"go", "postgres"},
		ExperienceYears: 4,
	}

	open := func(title string, req matching.OpportunityRequirements) opportunity.Opportunity {
		return opportunity.Opportunity{ID: uuid.New(), Kind: opportunity.KindJob, Title: title, Status: opportunity.StatusOpen, Requirements: req}
	}
	perfect := open("Backend", matching.OpportunityRequirements{RequiredSkills: []string{"go"}, LocationType: matching.LocationRemote})
	tieB := open("b-side", matching.OpportunityRequirements{RequiredSkills: []string{"go", "rust"}, LocationType: matching.LocationRemote})
	tieA := open("A-side", matching.OpportunityRequirements{RequiredSkills: []string{"go", "rust"}, LocationType: matching.LocationRemote})
	weak := open("Mainframe", matching.OpportunityRequirements{RequiredSkills: []string{"cobol"}, MinExperienceYears: 20})
	closed := open("Closed", matching.OpportunityRequirements{})
	closed.Status = opportunity.StatusClosed

	uc := NewRecommendationUsecase(newMemAccounts(cand), newMemOpportunities(perfect, tieB, tieA, weak, closed))
	ctx := context.Background()

	items, err := uc.Recommend(ctx, cand.ID, RecommendationParams{})
	if err != nil {
		t.Fatalf("recommend: %v", err)
	}
	if len(items) != 4 {
		t.Fatalf("expected 4 open opportunities, got %d", len(items))
	}
	wantOrder := []uuid.UUID{perfect.ID, tieA.ID, tieB.ID, weak.ID}
	for i, id := range wantOrder {
		if items[i].Opportunity.ID != id {
			t.Fatalf("position %d: got %s", i, items[i].Opportunity.Title)
		}
	}
	if items[0].Result.OverallScore != 100 {
		t.Fatalf("expected perfect score, got %d", items[0].Result.OverallScore)
	}

	page, err := uc.Recommend(ctx, cand.ID, RecommendationParams{Limit: 2, Offset: 1})
	if err != nil || len(page) != 2 || page[0].Opportunity.ID != tieA.ID {
		t.Fatalf("unexpected page: %v %d", err, len(page))
	}

	filtered, err := uc.Recommend(ctx, cand.ID, RecommendationParams{MinScore: 70})
	if err != nil || len(filtered) != 3 {
		t.Fatalf("expected min_score to drop the weak match: %v %d", err, len(filtered))
	}

	empty, err := uc.Recommend(ctx, cand.ID, RecommendationParams{Offset: 10})
	if err != nil || len(empty) != 0 {
		t.Fatalf("expected empty page: %v %d", err, len(empty))
	}
}

func TestRecommend_UnknownAccount(t *testing.T) {
	uc := NewRecommendationUsecase(newMemAccounts(), newMemOpportunities())
	if _, err := uc.Recommend(context.Background(), uuid.New(), RecommendationParams{}); !errors.Is(err, ErrAccountNotFound) {
		t.Fatalf("expected ErrAccountNotFound, got %v", err)
	}
}
