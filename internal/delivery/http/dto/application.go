package dto

import (
	"time"

	"hirelane/internal/domain/application"
	"hirelane/internal/domain/matching"

	"github.com/google/uuid"
)

type ApplyRequest struct {
	JobID       *uuid.UUID `json:"job_id"`
	GigID       *uuid.UUID `json:"gig_id"`
	CoverLetter string     `json:"cover_letter"`
}

type TransitionRequest struct {
	Status    string                        `json:"status"`
	Note      string                        `json:"note"`
	Interview *application.InterviewDetails `json:"interview"`
	Offer     *application.OfferDetails     `json:"offer"`
}

type ReasonRequest struct {
	Reason string `json:"reason"`
}

type ApplicationResponse struct {
	ID                 uuid.UUID                     `json:"id"`
	ApplicantID        uuid.UUID                     `json:"applicant_id"`
	EmployerID         uuid.UUID                     `json:"employer_id"`
	JobID              *uuid.UUID                    `json:"job_id,omitempty"`
	GigID              *uuid.UUID                    `json:"gig_id,omitempty"`
	Status             string                        `json:"status"`
	StatusHistory      []application.HistoryEntry    `json:"status_history"`
	CandidateSnapshot  matching.CandidateProfile     `json:"candidate_snapshot"`
	MatchResult        matching.Result               `json:"match_result"`
	MatchSource        string                        `json:"match_source,omitempty"`
	ResumeCompleteness int                           `json:"resume_completeness"`
	CoverLetter        string                        `json:"cover_letter,omitempty"`
	InterviewDetails   *application.InterviewDetails `json:"interview_details,omitempty"`
	OfferDetails       *application.OfferDetails     `json:"offer_details,omitempty"`
	DeclineReason      string                        `json:"decline_reason,omitempty"`
	WithdrawReason     string                        `json:"withdraw_reason,omitempty"`
	Version            int64                         `json:"version"`
	CreatedAt          time.Time                     `json:"created_at"`
	UpdatedAt          time.Time                     `json:"updated_at"`
}

func NewApplicationResponse(app application.Application) ApplicationResponse {
	out := ApplicationResponse{
		ID:                 app.ID,
		ApplicantID:        app.ApplicantID,
		EmployerID:         app.EmployerID,
		Status:             string(app.Status),
		StatusHistory:      app.History,
		CandidateSnapshot:  app.Candidate,
		MatchResult:        app.Match,
		MatchSource:        app.MatchSource,
		ResumeCompleteness: app.ResumeCompleteness,
		CoverLetter:        app.CoverLetter,
		InterviewDetails:   app.Interview,
		OfferDetails:       app.Offer,
		DeclineReason:      app.DeclineReason,
		WithdrawReason:     app.WithdrawReason,
		Version:            app.Version,
		CreatedAt:          app.CreatedAt,
		UpdatedAt:          app.UpdatedAt,
	}
	if app.Opportunity.JobID != uuid.Nil {
		id := app.Opportunity.JobID
		out.JobID = &id
	}
	if app.Opportunity.GigID != uuid.Nil {
		id := app.Opportunity.GigID
		out.GigID = &id
	}
	if out.StatusHistory == nil {
		out.StatusHistory = []application.HistoryEntry{}
	}
	return out
}
