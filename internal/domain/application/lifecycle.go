package application

import (
	"strings"
	"time"

	"hirelane/internal/domain/account"
	"hirelane/internal/domain/matching"

	"github.com/google/uuid"
)

// allowedNext lists forward moves between statuses. Terminal statuses have
// no entry.
var allowedNext = map[Status][]Status{
	StatusSubmitted:   {StatusUnderReview, StatusShortlisted, StatusRejected, StatusWithdrawn},
	StatusUnderReview: {StatusShortlisted, StatusInterview, StatusRejected, StatusWithdrawn},
	StatusShortlisted: {StatusInterview, StatusOffered, StatusRejected, StatusWithdrawn},
	StatusInterview:   {StatusOffered, StatusRejected, StatusWithdrawn},
	StatusOffered:     {StatusAccepted, StatusRejected, StatusWithdrawn},
}

func CanTransition(from, to Status) bool {
	for _, s := range allowedNext[from] {
		if s == to {
			return true
		}
	}
	return false
}

type NewParams struct {
	ID          uuid.UUID
	ApplicantID uuid.UUID
	EmployerID  uuid.UUID
	Opportunity OpportunityRef
	Candidate   matching.CandidateProfile
	Match       matching.Result
	MatchSource string
	CoverLetter string
	Now         time.Time

	ResumeCompleteness int
}

// New creates a submitted application whose history holds the submission.
func New(p NewParams) (Application, error) {
	if err := p.Opportunity.Validate(); err != nil {
		return Application{}, err
	}
	if p.ApplicantID == uuid.Nil {
		return Application{}, validationErr("applicant is required")
	}
	if p.EmployerID == uuid.Nil {
		return Application{}, validationErr("employer is required")
	}

	id := p.ID
	if id == uuid.Nil {
		id = uuid.New()
	}
	now := resolveNow(p.Now)

	return Application{
		ID:          id,
		ApplicantID: p.ApplicantID,
		EmployerID:  p.EmployerID,
		Opportunity: p.Opportunity,
		Status:      StatusSubmitted,
		History: []HistoryEntry{{
			Status:        StatusSubmitted,
			ChangedBy:     p.ApplicantID,
			ChangedByRole: account.RoleCandidate,
			Note:          "application submitted",
			Timestamp:     now,
		}},
		Candidate:   p.Candidate,
		Match:       p.Match,
		MatchSource: p.MatchSource,
		CoverLetter: strings.TrimSpace(p.CoverLetter),
		Version:     1,

		ResumeCompleteness: p.ResumeCompleteness,
		CreatedAt:          now,
		UpdatedAt:          now,
	}, nil
}

type TransitionRequest struct {
	To        Status
	Actor     Actor
	Note      string
	Interview *InterviewDetails
	Offer     *OfferDetails
	Now       time.Time

	// set by the accept/decline operations so the offer checks always run
	offerResponse bool
}

// Transition moves app to req.To and appends one history entry. The input
// is left untouched; the returned value carries the new status and the
// counters the caller must bump.
func Transition(app Application, req TransitionRequest) (Application, []Effect, error) {
	role, err := authorize(app, req.Actor, req.To)
	if err != nil {
		return Application{}, nil, err
	}

	if app.Status.IsTerminal() {
		if req.To == StatusWithdrawn {
			return Application{}, nil, transitionErr("cannot withdraw an application that is already finalized")
		}
		return Application{}, nil, transitionErr("application is already %s", app.Status)
	}
	if !req.To.Valid() {
		return Application{}, nil, validationErr("unknown status " + string(req.To))
	}

	now := resolveNow(req.Now)

	// the applicant only reaches accepted/rejected by answering an offer
	offerResponse := req.offerResponse || req.To == StatusAccepted ||
		(role == partyApplicant && req.To == StatusRejected)
	if offerResponse {
		if err := checkOffer(app, now); err != nil {
			return Application{}, nil, err
		}
	}

	if !CanTransition(app.Status, req.To) {
		return Application{}, nil, transitionErr("cannot move from %s to %s", app.Status, req.To)
	}

	next := app
	switch req.To {
	case StatusInterview:
		if req.Interview == nil || req.Interview.ScheduledAt.IsZero() {
			return Application{}, nil, validationErr("interview details with a schedule are required")
		}
		iv := *req.Interview
		next.Interview = &iv
	case StatusOffered:
		if req.Offer == nil || req.Offer.ExpiresAt.IsZero() {
			return Application{}, nil, validationErr("offer details with an expiry are required")
		}
		if !req.Offer.ExpiresAt.After(now) {
			return Application{}, nil, validationErr("offer expiry must be in the future")
		}
		of := *req.Offer
		next.Offer = &of
	case StatusRejected:
		if offerResponse {
			next.DeclineReason = strings.TrimSpace(req.Note)
		}
	case StatusWithdrawn:
		next.WithdrawReason = strings.TrimSpace(req.Note)
	}

	history := make([]HistoryEntry, len(app.History), len(app.History)+1)
	copy(history, app.History)
	next.History = append(history, HistoryEntry{
		Status:        req.To,
		ChangedBy:     req.Actor.ID,
		ChangedByRole: req.Actor.Role,
		Note:          strings.TrimSpace(req.Note),
		Timestamp:     now,
	})
	next.Status = req.To
	next.UpdatedAt = now

	return next, effectsFor(req.To), nil
}

// AcceptOffer is the applicant's answer to an offer.
func AcceptOffer(app Application, actor Actor, now time.Time) (Application, []Effect, error) {
	return Transition(app, TransitionRequest{
		To:            StatusAccepted,
		Actor:         actor,
		Note:          "offer accepted",
		Now:           now,
		offerResponse: true,
	})
}

// DeclineOffer rejects an offer and records the reason.
func DeclineOffer(app Application, actor Actor, reason string, now time.Time) (Application, []Effect, error) {
	return Transition(app, TransitionRequest{
		To:            StatusRejected,
		Actor:         actor,
		Note:          reason,
		Now:           now,
		offerResponse: true,
	})
}

func Withdraw(app Application, actor Actor, reason string, now time.Time) (Application, []Effect, error) {
	return Transition(app, TransitionRequest{
		To:    StatusWithdrawn,
		Actor: actor,
		Note:  reason,
		Now:   now,
	})
}

type party int

const (
	partyNone party = iota
	partyAdmin
	partyEmployer
	partyApplicant
)

func authorize(app Application, actor Actor, to Status) (party, error) {
	if actor.ID == uuid.Nil {
		return partyNone, ErrForbidden
	}

	switch {
	case actor.Role == account.RoleAdmin:
		return partyAdmin, nil
	case actor.Role == account.RoleEmployer && actor.ID == app.EmployerID:
		if to == StatusWithdrawn {
			return partyEmployer, ErrForbidden
		}
		return partyEmployer, nil
	case actor.Role == account.RoleCandidate && actor.ID == app.ApplicantID:
		switch to {
		case StatusWithdrawn, StatusAccepted, StatusRejected:
			return partyApplicant, nil
		}
		return partyApplicant, ErrForbidden
	default:
		return partyNone, ErrForbidden
	}
}

func checkOffer(app Application, now time.Time) error {
	if app.Status != StatusOffered || app.Offer == nil {
		return ErrNoOfferAvailable
	}
	if now.After(app.Offer.ExpiresAt) {
		return ErrOfferExpired
	}
	return nil
}

func effectsFor(to Status) []Effect {
	switch to {
	case StatusShortlisted:
		return []Effect{EffectShortlisted}
	case StatusAccepted:
		return []Effect{EffectHired}
	default:
		return nil
	}
}

func resolveNow(t time.Time) time.Time {
	if t.IsZero() {
		return time.Now().UTC()
	}
	return t.UTC()
}
