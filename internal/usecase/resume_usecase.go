package usecase

import (
	"context"
	"errors"
	"strings"

	"hirelane/internal/ai"
	"hirelane/internal/domain/resume"
)

// ContentGenerator backs the AI resume features. Errors wrap
// ai.ErrProviderUnavailable or ai.ErrResponseUnparseable.
type ContentGenerator interface {
	GenerateResume(ctx context.Context, brief ai.ResumeBrief) (resume.Resume, error)
	ImproveSection(ctx context.Context, section, text string) (string, error)
	SuggestKeywords(ctx context.Context, resumeText, jobDescription string) ([]string, error)
}

type ResumeUsecase interface {
	Completeness(r resume.Resume) resume.CompletenessReport
	Keywords(text string) (resume.KeywordReport, error)
	Generate(ctx context.Context, brief ai.ResumeBrief) (resume.Resume, resume.CompletenessReport, error)
	Improve(ctx context.Context, section, text string) (string, error)
	SuggestKeywords(ctx context.Context, resumeText, jobDescription string) ([]string, error)
}

type Resume struct {
	content ContentGenerator
}

// NewResumeUsecase accepts a nil generator; the AI features then report
// ai.ErrProviderUnavailable.
func NewResumeUsecase(content ContentGenerator) *Resume {
	return &Resume{content: content}
}

func (u *Resume) Completeness(r resume.Resume) resume.CompletenessReport {
	return resume.Analyze(r)
}

func (u *Resume) Keywords(text string) (resume.KeywordReport, error) {
	if strings.TrimSpace(text) == "" {
		return resume.KeywordReport{}, ErrInvalidInput
	}
	return resume.ExtractKeywords(text), nil
}

func (u *Resume) Generate(ctx context.Context, brief ai.ResumeBrief) (resume.Resume, resume.CompletenessReport, error) {
	if u.content == nil {
		return resume.Resume{}, resume.CompletenessReport{}, ai.ErrProviderUnavailable
	}
	r, err := u.content.GenerateResume(ctx, brief)
	if err != nil {
		return resume.Resume{}, resume.CompletenessReport{}, mapContentErr(err)
	}
	return r, resume.Analyze(r), nil
}

func (u *Resume) Improve(ctx context.Context, section, text string) (string, error) {
	if u.content == nil {
		return "", ai.ErrProviderUnavailable
	}
	out, err := u.content.ImproveSection(ctx, section, text)
	if err != nil {
		return "", mapContentErr(err)
	}
	return out, nil
}

func (u *Resume) SuggestKeywords(ctx context.Context, resumeText, jobDescription string) ([]string, error) {
	if u.content == nil {
		return nil, ai.ErrProviderUnavailable
	}
	out, err := u.content.SuggestKeywords(ctx, resumeText, jobDescription)
	if err != nil {
		return nil, mapContentErr(err)
	}
	return out, nil
}

func mapContentErr(err error) error {
	switch {
	case errors.Is(err, ai.ErrEmptyInput):
		return ErrInvalidInput
	case errors.Is(err, ai.ErrProviderUnavailable), errors.Is(err, ai.ErrResponseUnparseable):
		return err
	default:
		return ErrInternal
	}
}
