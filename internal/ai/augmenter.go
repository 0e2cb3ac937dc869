package ai

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"hirelane/internal/domain/matching"
	"hirelane/internal/logger"

	"go.uber.org/zap"
)

const (
	defaultAugmentTimeout = 8 * time.Second
	maxHighlights         = 3
)

// Augmenter asks the generative provider for a richer match assessment.
// Its results use the same shape and ranges as matching.Score.
type Augmenter struct {
	gen     Generator
	timeout time.Duration
	logger  *zap.Logger
}

func NewAugmenter(gen Generator, timeout time.Duration, log *zap.Logger) *Augmenter {
	if timeout <= 0 {
		timeout = defaultAugmentTimeout
	}
	return &Augmenter{gen: gen, timeout: timeout, logger: logger.OrNop(log).Named("augmenter")}
}

func (a *Augmenter) Timeout() time.Duration {
	if a == nil {
		return 0
	}
	return a.timeout
}

type factorPayload struct {
	Score  *float64 `json:"score"`
	Detail string   `json:"detail"`
}

type matchPayload struct {
	OverallScore *float64                 `json:"overall_score"`
	Breakdown    map[string]factorPayload `json:"breakdown"`
	Strengths    []string                 `json:"strengths"`
	Concerns     []string                 `json:"concerns"`
}

func (a *Augmenter) Augment(ctx context.Context, candidate matching.CandidateProfile, req matching.OpportunityRequirements) (matching.Result, error) {
	if a == nil || a.gen == nil {
		return matching.Result{}, fmt.Errorf("%w: no generator configured", ErrProviderUnavailable)
	}

	ctx, cancel := context.WithTimeout(ctx, a.timeout)
	defer cancel()

	prompt, err := buildMatchPrompt(candidate, req)
	if err != nil {
		return matching.Result{}, err
	}

	raw, err := a.gen.GenerateContent(ctx, prompt)
	if err != nil {
		return matching.Result{}, classify(ctx, err)
	}

	var payload matchPayload
	if err := decodeJSON(raw, &payload); err != nil {
		a.logger.Debug("unparseable match response", zap.String("raw", logger.TruncateForLog(raw, 300)))
		return matching.Result{}, err
	}
	if payload.OverallScore == nil || math.IsNaN(*payload.OverallScore) {
		return matching.Result{}, fmt.Errorf("%w: overall_score missing", ErrResponseUnparseable)
	}

	return toResult(payload, matching.Score(candidate, req)), nil
}

// classify maps any generator failure onto the two adapter error kinds.
func classify(ctx context.Context, err error) error {
	switch {
	case errors.Is(err, ErrProviderUnavailable), errors.Is(err, ErrResponseUnparseable):
		return err
	case ctx.Err() != nil:
		return fmt.Errorf("%w: %v", ErrProviderUnavailable, ctx.Err())
	default:
		return fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}
}

// toResult clamps the provider output and fills whatever it left out from
// the deterministic baseline.
func toResult(p matchPayload, baseline matching.Result) matching.Result {
	overall := matching.ClampScore(roundScore(*p.OverallScore))

	factor := func(key string, base matching.Factor) matching.Factor {
		fp, ok := p.Breakdown[key]
		if !ok || fp.Score == nil || math.IsNaN(*fp.Score) {
			return base
		}
		score := matching.ClampScore(roundScore(*fp.Score))
		detail := strings.TrimSpace(fp.Detail)
		if detail == "" {
			detail = base.Detail
		}
		return matching.Factor{
			Score:  score,
			Points: int(math.Round(float64(score) * float64(base.Weight) / 100)),
			Weight: base.Weight,
			Detail: detail,
		}
	}

	return matching.Result{
		OverallScore: overall,
		Breakdown: matching.Breakdown{
			Skills:     factor("skills", baseline.Breakdown.Skills),
			Experience: factor("experience", baseline.Breakdown.Experience),
			Education:  factor("education", baseline.Breakdown.Education),
			Location:   factor("location", baseline.Breakdown.Location),
		},
		Strengths:     cleanList(p.Strengths, maxHighlights),
		Concerns:      cleanList(p.Concerns, maxHighlights),
		Tier:          matching.TierFor(overall),
		MatchedSkills: baseline.MatchedSkills,
		MissingSkills: baseline.MissingSkills,
	}
}

func roundScore(v float64) int {
	if math.IsInf(v, 1) {
		return 100
	}
	if math.IsInf(v, -1) {
		return 0
	}
	return int(math.Round(v))
}

func cleanList(in []string, limit int) []string {
	out := make([]string, 0, limit)
	for _, s := range in {
		s = strings.TrimSpace(s)
		if s == "" {
			continue
		}
		out = append(out, s)
		if len(out) == limit {
			break
		}
	}
	return out
}

func buildMatchPrompt(candidate matching.CandidateProfile, req matching.OpportunityRequirements) (string, error) {
	c, err := json.Marshal(candidate)
	if err != nil {
		return "", fmt.Errorf("encode candidate: %w", err)
	}
	r, err := json.Marshal(req)
	if err != nil {
		return "", fmt.Errorf("encode requirements: %w", err)
	}

	var b strings.Builder
	b.WriteString("You are a recruiting assistant. Assess how well the candidate fits the opportunity.\n")
	b.WriteString("Weigh skills 40%, experience 30%, education 20% and location 10%.\n")
	b.WriteString("Respond with JSON only, using this shape:\n")
	b.WriteString(`{"overall_score":0-100,"breakdown":{"skills":{"score":0-100,"detail":""},"experience":{"score":0-100,"detail":""},"education":{"score":0-100,"detail":""},"location":{"score":0-100,"detail":""}},"strengths":["at most 3"],"concerns":["at most 3"]}`)
	b.WriteString("\n\nCandidate:\n")
	b.Write(c)
	b.WriteString("\n\nOpportunity requirements:\n")
	b.Write(r)
	return b.String(), nil
}
