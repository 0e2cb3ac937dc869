package application

import (
	"time"

	"hirelane/internal/domain/account"
	"hirelane/internal/domain/matching"
	"hirelane/internal/domain/opportunity"

	"github.com/google/uuid"
)

type Status string

const (
	StatusSubmitted   Status = "submitted"
	StatusUnderReview Status = "under_review"
	StatusShortlisted Status = "shortlisted"
	StatusInterview   Status = "interview"
	StatusOffered     Status = "offered"
	StatusAccepted    Status = "accepted"
	StatusRejected    Status = "rejected"
	StatusWithdrawn   Status = "withdrawn"
)

func (s Status) Valid() bool {
	switch s {
	case StatusSubmitted, StatusUnderReview, StatusShortlisted, StatusInterview,
		StatusOffered, StatusAccepted, StatusRejected, StatusWithdrawn:
		return true
	default:
		return false
	}
}

func (s Status) IsTerminal() bool {
	return s == StatusAccepted || s == StatusRejected || s == StatusWithdrawn
}

// OpportunityRef points at exactly one job or gig.
type OpportunityRef struct {
	JobID uuid.UUID `json:"job_id,omitempty"`
	GigID uuid.UUID `json:"gig_id,omitempty"`
}

func (r OpportunityRef) Validate() error {
	hasJob := r.JobID != uuid.Nil
	hasGig := r.GigID != uuid.Nil
	switch {
	case hasJob && hasGig:
		return validationErr("application must reference either a job or a gig, not both")
	case !hasJob && !hasGig:
		return validationErr("application must reference a job or a gig")
	default:
		return nil
	}
}

func (r OpportunityRef) Kind() opportunity.Kind {
	if r.JobID != uuid.Nil {
		return opportunity.KindJob
	}
	return opportunity.KindGig
}

func (r OpportunityRef) ID() uuid.UUID {
	if r.JobID != uuid.Nil {
		return r.JobID
	}
	return r.GigID
}

func RefFor(kind opportunity.Kind, id uuid.UUID) OpportunityRef {
	if kind == opportunity.KindGig {
		return OpportunityRef{GigID: id}
	}
	return OpportunityRef{JobID: id}
}

type HistoryEntry struct {
	Status        Status       `json:"status"`
	ChangedBy     uuid.UUID    `json:"changed_by"`
	ChangedByRole account.Role `json:"changed_by_role"`
	Note          string       `json:"note,omitempty"`
	Timestamp     time.Time    `json:"timestamp"`
}

type InterviewDetails struct {
	ScheduledAt time.Time `json:"scheduled_at"`
	Location    string    `json:"location,omitempty"`
	MeetingURL  string    `json:"meeting_url,omitempty"`
	Notes       string    `json:"notes,omitempty"`
}

type OfferDetails struct {
	Salary    float64    `json:"salary,omitempty"`
	Currency  string     `json:"currency,omitempty"`
	StartDate *time.Time `json:"start_date,omitempty"`
	ExpiresAt time.Time  `json:"expires_at"`
	Notes     string     `json:"notes,omitempty"`
}

// Application is never edited in place: every change goes through
// Transition and produces a new value.
type Application struct {
	ID          uuid.UUID                 `json:"id"`
	ApplicantID uuid.UUID                 `json:"applicant_id"`
	EmployerID  uuid.UUID                 `json:"employer_id"`
	Opportunity OpportunityRef            `json:"opportunity"`
	Status      Status                    `json:"status"`
	History     []HistoryEntry            `json:"status_history"`
	Candidate   matching.CandidateProfile `json:"candidate_snapshot"`
	Match       matching.Result           `json:"match_result"`
	MatchSource string                    `json:"match_source,omitempty"`
	CoverLetter string                    `json:"cover_letter,omitempty"`

	// completeness of the applicant's resume at submission, 0 without one
	ResumeCompleteness int `json:"resume_completeness"`

	Interview      *InterviewDetails `json:"interview_details,omitempty"`
	Offer          *OfferDetails     `json:"offer_details,omitempty"`
	DeclineReason  string            `json:"decline_reason,omitempty"`
	WithdrawReason string            `json:"withdraw_reason,omitempty"`

	Version   int64     `json:"version"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// LastEntry returns the trailing history entry; ok is false for an
// application that was never submitted.
func (a Application) LastEntry() (HistoryEntry, bool) {
	if len(a.History) == 0 {
		return HistoryEntry{}, false
	}
	return a.History[len(a.History)-1], true
}

type Actor struct {
	ID   uuid.UUID
	Role account.Role
}

// Effect names a counter the caller must bump after a successful transition.
type Effect string

const (
	EffectShortlisted Effect = "shortlisted"
	EffectHired       Effect = "hired"
)
