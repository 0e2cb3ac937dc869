package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"hirelane/internal/domain/resume"
	"hirelane/internal/logger"

	"go.uber.org/zap"
)

var ErrEmptyInput = errors.New("input must not be empty")

// ContentService backs the resume writing features. These have no
// deterministic fallback, so provider failures are returned as is.
type ContentService struct {
	gen     Generator
	timeout time.Duration
	logger  *zap.Logger
}

func NewContentService(gen Generator, timeout time.Duration, log *zap.Logger) *ContentService {
	if timeout <= 0 {
		timeout = 3 * defaultAugmentTimeout
	}
	return &ContentService{gen: gen, timeout: timeout, logger: logger.OrNop(log).Named("content")}
}

type ResumeBrief struct {
	FullName    string   `json:"full_name"`
	Email       string   `json:"email,omitempty"`
	TargetRole  string   `json:"target_role"`
	Background  string   `json:"background"`
	Skills      []string `json:"skills,omitempty"`
	Preferences string   `json:"preferences,omitempty"`
}

func (s *ContentService) GenerateResume(ctx context.Context, brief ResumeBrief) (resume.Resume, error) {
	if strings.TrimSpace(brief.Background) == "" && strings.TrimSpace(brief.TargetRole) == "" {
		return resume.Resume{}, ErrEmptyInput
	}
	b, err := json.Marshal(brief)
	if err != nil {
		return resume.Resume{}, fmt.Errorf("encode brief: %w", err)
	}

	prompt := "Write a professional resume for the person described below. " +
		"Respond with JSON only, matching this shape: " +
		`{"personal_info":{"full_name":"","email":"","phone":"","location":"","linkedin":"","portfolio":""},` +
		`"summary":"","experience":[{"title":"","company":"","start_date":"","end_date":"","description":"","achievements":[""]}],` +
		`"education":[{"institution":"","degree":"","field":"","graduation_year":0}],` +
		`"skills":{"technical":[""],"soft":[""],"languages":[""],"tools":[""]},` +
		`"certifications":[{"name":"","issuer":"","year":0}],"projects":[{"name":"","description":"","url":"","technologies":[""]}]}` +
		"\nDo not invent contact details that are not given.\n\nPerson:\n" + string(b)

	var out resume.Resume
	if err := s.generate(ctx, "generate_resume", prompt, &out); err != nil {
		return resume.Resume{}, err
	}
	return out, nil
}

func (s *ContentService) ImproveSection(ctx context.Context, section, text string) (string, error) {
	section = strings.TrimSpace(section)
	text = strings.TrimSpace(text)
	if text == "" {
		return "", ErrEmptyInput
	}
	if section == "" {
		section = "general"
	}

	prompt := fmt.Sprintf("Improve the %q section of a resume. Keep facts unchanged, use active voice and quantify impact where the text allows. "+
		`Respond with JSON only: {"improved":"..."}`+"\n\nSection text:\n%s", section, text)

	var out struct {
		Improved string `json:"improved"`
	}
	if err := s.generate(ctx, "improve_section", prompt, &out); err != nil {
		return "", err
	}
	improved := strings.TrimSpace(out.Improved)
	if improved == "" {
		return "", fmt.Errorf("%w: improved text missing", ErrResponseUnparseable)
	}
	return improved, nil
}

func (s *ContentService) SuggestKeywords(ctx context.Context, resumeText, jobDescription string) ([]string, error) {
	if strings.TrimSpace(jobDescription) == "" {
		return nil, ErrEmptyInput
	}

	prompt := "List keywords from the job description that the resume is missing and should include. " +
		`Respond with JSON only: {"keywords":["..."]}` +
		"\n\nResume:\n" + strings.TrimSpace(resumeText) +
		"\n\nJob description:\n" + strings.TrimSpace(jobDescription)

	var out struct {
		Keywords []string `json:"keywords"`
	}
	if err := s.generate(ctx, "suggest_keywords", prompt, &out); err != nil {
		return nil, err
	}

	seen := make(map[string]struct{}, len(out.Keywords))
	keywords := make([]string, 0, len(out.Keywords))
	for _, k := range out.Keywords {
		k = strings.TrimSpace(k)
		key := strings.ToLower(k)
		if k == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		keywords = append(keywords, k)
	}
	return keywords, nil
}

func (s *ContentService) generate(ctx context.Context, op, prompt string, out any) error {
	if s == nil || s.gen == nil {
		return fmt.Errorf("%w: no generator configured", ErrProviderUnavailable)
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	raw, err := s.gen.GenerateContent(ctx, prompt)
	if err != nil {
		s.logger.Warn("content generation failed", zap.String("op", op), zap.Error(err))
		return classify(ctx, err)
	}
	if err := decodeJSON(raw, out); err != nil {
		s.logger.Warn("content response unparseable",
			zap.String("op", op),
			zap.String("raw", logger.TruncateForLog(raw, 300)),
		)
		return err
	}
	return nil
}
