package dto

import (
	"hirelane/internal/domain/matching"
	"hirelane/internal/domain/opportunity"

	"github.com/google/uuid"
)

type OpportunitySummary struct {
	ID           uuid.UUID                        `json:"id"`
	Kind         string                           `json:"kind"`
	EmployerID   uuid.UUID                        `json:"employer_id"`
	Title        string                           `json:"title"`
	Status       string                           `json:"status"`
	Requirements matching.OpportunityRequirements `json:"requirements"`
}

func NewOpportunitySummary(o opportunity.Opportunity) OpportunitySummary {
	return OpportunitySummary{
		ID:           o.ID,
		Kind:         string(o.Kind),
		EmployerID:   o.EmployerID,
		Title:        o.Title,
		Status:       string(o.Status),
		Requirements: o.Requirements,
	}
}

type MatchPreviewResponse struct {
	Opportunity OpportunitySummary `json:"opportunity"`
	Source      string             `json:"source"`
	Match       matching.Result    `json:"match"`
}

type RecommendationResponse struct {
	Opportunity    OpportunitySummary `json:"opportunity"`
	OverallScore   int                `json:"overall_score"`
	Recommendation matching.Tier      `json:"recommendation_tier"`
	MatchedSkills  []string           `json:"matched_skills"`
	MissingSkills  []string           `json:"missing_skills"`
}
