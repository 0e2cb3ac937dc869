package opportunity

import (
	"strings"
	"time"

	"hirelane/internal/domain/matching"

	"github.com/google/uuid"
)

type Kind string

const (
	KindJob Kind = "job"
	KindGig Kind = "gig"
)

func ParseKind(s string) (Kind, bool) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case KindJob, "jobs":
		return KindJob, true
	case KindGig, "gigs":
		return KindGig, true
	default:
		return "", false
	}
}

type Status string

const (
	StatusOpen   Status = "open"
	StatusClosed Status = "closed"
)

// Opportunity is a job or gig posting together with the counters the
// application lifecycle maintains on it.
type Opportunity struct {
	ID           uuid.UUID                        `json:"id"`
	Kind         Kind                             `json:"kind"`
	EmployerID   uuid.UUID                        `json:"employer_id"`
	Title        string                           `json:"title"`
	Description  string                           `json:"description,omitempty"`
	Status       Status                           `json:"status"`
	Requirements matching.OpportunityRequirements `json:"requirements"`

	ApplicationsCount int `json:"applications_count"`
	ShortlistedCount  int `json:"shortlisted_count"`
	HiresCount        int `json:"hires_count"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (o Opportunity) IsOpen() bool {
	return o.Status == StatusOpen
}

// RequirementsSnapshot returns a copy safe to keep alongside a match result.
func (o Opportunity) RequirementsSnapshot() matching.OpportunityRequirements {
	r := o.Requirements
	r.RequiredSkills = append([]string(nil), o.Requirements.RequiredSkills...)
	return r
}
