package application

import (
	"errors"
	"testing"
	"time"

	"hirelane/internal/domain/account"
	"hirelane/internal/domain/matching"

	"github.com/google/uuid"
)

var (
	applicantID = uuid.MustParse("11111111-1111-1111-1111-111111111111")
	employerID  = uuid.MustParse("22222222-2222-2222-2222-222222222222")
	strangerID  = uuid.MustParse("33333333-3333-3333-3333-333333333333")
	adminID     = uuid.MustParse("44444444-4444-4444-4444-444444444444")

	t0 = time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
)

var (
	applicant = Actor{ID: applicantID, Role: account.RoleCandidate}
	employer  = Actor{ID: employerID, Role: account.RoleEmployer}
	stranger  = Actor{ID: strangerID, Role: account.RoleEmployer}
	admin     = Actor{ID: adminID, Role: account.RoleAdmin}
)

func newApp(t *testing.T) Application {
	t.Helper()
	app, err := New(NewParams{
		ApplicantID: applicantID,
		EmployerID:  employerID,
		Opportunity: OpportunityRef{JobID: uuid.New()},
		Match:       matching.Result{OverallScore: 80, Tier: matching.TierExcellentFit},
		Now:         t0,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return app
}

func mustMove(t *testing.T, app Application, to Status, actor Actor) Application {
	t.Helper()
	req := TransitionRequest{To: to, Actor: actor, Now: app.UpdatedAt.Add(time.Hour)}
	switch to {
	case StatusInterview:
		req.Interview = &InterviewDetails{ScheduledAt: t0.Add(72 * time.Hour)}
	case StatusOffered:
		req.Offer = &OfferDetails{ExpiresAt: req.Now.Add(7 * 24 * time.Hour)}
	}
	next, _, err := Transition(app, req)
	if err != nil {
		t.Fatalf("transition %s -> %s: %v", app.Status, to, err)
	}
	return next
}

func appIn(t *testing.T, status Status) Application {
	t.Helper()
	path := map[Status][]Status{
		StatusSubmitted:   {},
		StatusUnderReview: {StatusUnderReview},
		StatusShortlisted: {StatusShortlisted},
		StatusInterview:   {StatusUnderReview, StatusInterview},
		StatusOffered:     {StatusShortlisted, StatusOffered},
		StatusAccepted:    {StatusShortlisted, StatusOffered, StatusAccepted},
		StatusRejected:    {StatusRejected},
	}
	app := newApp(t)
	if status == StatusWithdrawn {
		next, _, err := Withdraw(app, applicant, "changed my mind", t0.Add(time.Hour))
		if err != nil {
			t.Fatalf("withdraw: %v", err)
		}
		return next
	}
	for _, s := range path[status] {
		actor := employer
		if s == StatusAccepted {
			actor = applicant
		}
		app = mustMove(t, app, s, actor)
	}
	return app
}

func TestNew_OpportunityRefValidation(t *testing.T) {
	tests := []struct {
		name string
		ref  OpportunityRef
		ok   bool
	}{
		{name: "job", ref: OpportunityRef{JobID: uuid.New()}, ok: true},
		{name: "gig", ref: OpportunityRef{GigID: uuid.New()}, ok: true},
		{name: "both", ref: OpportunityRef{JobID: uuid.New(), GigID: uuid.New()}},
		{name: "neither", ref: OpportunityRef{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(NewParams{ApplicantID: applicantID, EmployerID: employerID, Opportunity: tt.ref, Now: t0})
			if tt.ok && err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if !tt.ok && !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
		})
	}
}

func TestNew_SeedsHistory(t *testing.T) {
	app := newApp(t)
	if app.Status != StatusSubmitted {
		t.Fatalf("expected submitted, got %s", app.Status)
	}
	last, ok := app.LastEntry()
	if !ok || len(app.History) != 1 || last.Status != StatusSubmitted || last.ChangedBy != applicantID {
		t.Fatalf("unexpected history: %+v", app.History)
	}
}

func TestTransition_AppendsExactlyOneEntry(t *testing.T) {
	app := newApp(t)
	for _, to := range []Status{StatusUnderReview, StatusShortlisted, StatusInterview, StatusOffered} {
		before := len(app.History)
		next := mustMove(t, app, to, employer)
		if len(next.History) != before+1 {
			t.Fatalf("expected history %d, got %d", before+1, len(next.History))
		}
		if len(app.History) != before {
			t.Fatalf("input application was mutated")
		}
		last, _ := next.LastEntry()
		if last.Status != next.Status || next.Status != to {
			t.Fatalf("last entry %s does not match status %s", last.Status, next.Status)
		}
		app = next
	}
}

func TestTransition_WithdrawFromAnyNonTerminal(t *testing.T) {
	for _, s := range []Status{StatusSubmitted, StatusUnderReview, StatusShortlisted, StatusInterview, StatusOffered} {
		app := appIn(t, s)
		next, _, err := Withdraw(app, applicant, "found another role", app.UpdatedAt.Add(time.Minute))
		if err != nil {
			t.Fatalf("withdraw from %s: %v", s, err)
		}
		if next.Status != StatusWithdrawn || next.WithdrawReason != "found another role" {
			t.Fatalf("unexpected result: %+v", next)
		}
	}
}

func TestTransition_TerminalStatesRejectEverything(t *testing.T) {
	all := []Status{StatusSubmitted, StatusUnderReview, StatusShortlisted, StatusInterview, StatusOffered, StatusAccepted, StatusRejected, StatusWithdrawn}
	for _, term := range []Status{StatusAccepted, StatusRejected, StatusWithdrawn} {
		app := appIn(t, term)
		for _, to := range all {
			for _, actor := range []Actor{admin, employer} {
				_, _, err := Transition(app, TransitionRequest{To: to, Actor: actor, Now: app.UpdatedAt.Add(time.Minute)})
				if actor == employer && to == StatusWithdrawn {
					continue
				}
				if !errors.Is(err, ErrInvalidTransition) {
					t.Fatalf("%s -> %s by %s: expected ErrInvalidTransition, got %v", term, to, actor.Role, err)
				}
			}
		}
		if _, _, err := Withdraw(app, applicant, "", app.UpdatedAt); !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("withdraw from %s: expected ErrInvalidTransition, got %v", term, err)
		}
		if _, _, err := AcceptOffer(app, applicant, app.UpdatedAt); !errors.Is(err, ErrInvalidTransition) {
			t.Fatalf("accept from %s: expected ErrInvalidTransition, got %v", term, err)
		}
	}
}

func TestTransition_Authorization(t *testing.T) {
	app := appIn(t, StatusUnderReview)
	now := app.UpdatedAt.Add(time.Minute)

	tests := []struct {
		name    string
		actor   Actor
		to      Status
		wantErr error
	}{
		{name: "stranger employer", actor: stranger, to: StatusShortlisted, wantErr: ErrForbidden},
		{name: "applicant cannot shortlist", actor: applicant, to: StatusShortlisted, wantErr: ErrForbidden},
		{name: "employer cannot withdraw", actor: employer, to: StatusWithdrawn, wantErr: ErrForbidden},
		{name: "nil actor", actor: Actor{Role: account.RoleAdmin}, to: StatusShortlisted, wantErr: ErrForbidden},
		{name: "employer with candidate role", actor: Actor{ID: employerID, Role: account.RoleCandidate}, to: StatusShortlisted, wantErr: ErrForbidden},
		{name: "owner shortlists", actor: employer, to: StatusShortlisted},
		{name: "admin shortlists", actor: admin, to: StatusShortlisted},
		{name: "admin withdraws", actor: admin, to: StatusWithdrawn},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Transition(app, TransitionRequest{To: tt.to, Actor: tt.actor, Now: now})
			if tt.wantErr == nil && err != nil {
				t.Fatalf("unexpected err: %v", err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestTransition_ForbiddenCheckedBeforeTerminal(t *testing.T) {
	app := appIn(t, StatusRejected)
	_, _, err := Transition(app, TransitionRequest{To: StatusShortlisted, Actor: stranger})
	if !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestTransition_InvalidEdges(t *testing.T) {
	app := newApp(t)
	if _, _, err := Transition(app, TransitionRequest{To: StatusOffered, Actor: employer, Offer: &OfferDetails{ExpiresAt: t0.Add(48 * time.Hour)}, Now: t0.Add(time.Hour)}); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if _, _, err := Transition(app, TransitionRequest{To: StatusSubmitted, Actor: employer}); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("expected ErrInvalidTransition, got %v", err)
	}
	if _, _, err := Transition(app, TransitionRequest{To: "hired", Actor: employer}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestTransition_DetailsRequired(t *testing.T) {
	review := appIn(t, StatusUnderReview)
	if _, _, err := Transition(review, TransitionRequest{To: StatusInterview, Actor: employer}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation without interview, got %v", err)
	}

	short := appIn(t, StatusShortlisted)
	now := short.UpdatedAt.Add(time.Hour)
	if _, _, err := Transition(short, TransitionRequest{To: StatusOffered, Actor: employer, Now: now}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation without offer, got %v", err)
	}
	past := &OfferDetails{ExpiresAt: now.Add(-time.Hour)}
	if _, _, err := Transition(short, TransitionRequest{To: StatusOffered, Actor: employer, Offer: past, Now: now}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation for past expiry, got %v", err)
	}
}

func TestTransition_Effects(t *testing.T) {
	app := newApp(t)
	_, effects, err := Transition(app, TransitionRequest{To: StatusShortlisted, Actor: employer, Now: t0.Add(time.Hour)})
	if err != nil || len(effects) != 1 || effects[0] != EffectShortlisted {
		t.Fatalf("expected shortlist effect, got %v %v", effects, err)
	}

	offered := appIn(t, StatusOffered)
	_, effects, err = AcceptOffer(offered, applicant, offered.UpdatedAt.Add(time.Minute))
	if err != nil || len(effects) != 1 || effects[0] != EffectHired {
		t.Fatalf("expected hire effect, got %v %v", effects, err)
	}

	_, effects, err = DeclineOffer(offered, applicant, "salary", offered.UpdatedAt.Add(time.Minute))
	if err != nil || len(effects) != 0 {
		t.Fatalf("expected no effects, got %v %v", effects, err)
	}
}

func TestAcceptOffer_Expired(t *testing.T) {
	offered := appIn(t, StatusOffered)
	late := offered.Offer.ExpiresAt.Add(time.Second)

	_, _, err := AcceptOffer(offered, applicant, late)
	if !errors.Is(err, ErrOfferExpired) {
		t.Fatalf("expected ErrOfferExpired, got %v", err)
	}
	if offered.Status != StatusOffered {
		t.Fatalf("status changed to %s", offered.Status)
	}
}

func TestAcceptOffer_NoOffer(t *testing.T) {
	for _, s := range []Status{StatusSubmitted, StatusShortlisted, StatusInterview} {
		app := appIn(t, s)
		if _, _, err := AcceptOffer(app, applicant, app.UpdatedAt); !errors.Is(err, ErrNoOfferAvailable) {
			t.Fatalf("accept from %s: expected ErrNoOfferAvailable, got %v", s, err)
		}
		if _, _, err := DeclineOffer(app, applicant, "", app.UpdatedAt); !errors.Is(err, ErrNoOfferAvailable) {
			t.Fatalf("decline from %s: expected ErrNoOfferAvailable, got %v", s, err)
		}
	}
}

func TestAcceptOffer_OnlyApplicantOrAdmin(t *testing.T) {
	offered := appIn(t, StatusOffered)
	if _, _, err := AcceptOffer(offered, stranger, offered.UpdatedAt); !errors.Is(err, ErrForbidden) {
		t.Fatalf("expected ErrForbidden, got %v", err)
	}
}

func TestDeclineOffer_RecordsReason(t *testing.T) {
	offered := appIn(t, StatusOffered)
	next, _, err := DeclineOffer(offered, applicant, "  relocating  ", offered.UpdatedAt.Add(time.Minute))
	if err != nil {
		t.Fatalf("unexpected err: %v", err)
	}
	if next.Status != StatusRejected || next.DeclineReason != "relocating" {
		t.Fatalf("unexpected result: status=%s reason=%q", next.Status, next.DeclineReason)
	}
	last, _ := next.LastEntry()
	if last.ChangedByRole != account.RoleCandidate || last.Note != "relocating" {
		t.Fatalf("unexpected history entry: %+v", last)
	}
}

func TestTransition_ApplicantRejectIsDecline(t *testing.T) {
	offered := appIn(t, StatusOffered)
	next, _, err := Transition(offered, TransitionRequest{To: StatusRejected, Actor: applicant, Note: "no", Now: offered.UpdatedAt})
	if err != nil || next.DeclineReason != "no" {
		t.Fatalf("expected decline, got %+v %v", next, err)
	}

	review := appIn(t, StatusUnderReview)
	if _, _, err := Transition(review, TransitionRequest{To: StatusRejected, Actor: applicant}); !errors.Is(err, ErrNoOfferAvailable) {
		t.Fatalf("expected ErrNoOfferAvailable, got %v", err)
	}
}
