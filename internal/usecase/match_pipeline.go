package usecase

import (
	"context"
	"errors"
	"time"

	"hirelane/internal/ai"
	"hirelane/internal/domain/matching"
	"hirelane/internal/logger"
	"hirelane/internal/metrics"

	"go.uber.org/zap"
)

type MatchSource string

const (
	SourceDeterministic MatchSource = "deterministic"
	SourceAI            MatchSource = "ai"
	SourceCache         MatchSource = "cache"
)

const (
	FallbackTimeout     = "timeout"
	FallbackUnavailable = "unavailable"
	FallbackUnparseable = "unparseable"
	FallbackError       = "error"

	defaultMatchTimeout = 8 * time.Second
	maxMatchHighlights  = 3
)

// Augmenter is the optional AI stage of the match pipeline.
type Augmenter interface {
	Augment(ctx context.Context, candidate matching.CandidateProfile, req matching.OpportunityRequirements) (matching.Result, error)
}

// MatchPipeline scores deterministically, then tries the augmenter under a
// timeout. The deterministic result is returned whenever the AI stage does
// not produce a usable answer, so Score never fails.
type MatchPipeline struct {
	augmenter Augmenter
	cache     Cache
	cacheTTL  time.Duration
	timeout   time.Duration
	metrics   *metrics.Metrics
	logger    *zap.Logger
}

type MatchPipelineOptions struct {
	Augmenter Augmenter
	Cache     Cache
	CacheTTL  time.Duration
	Timeout   time.Duration
	Metrics   *metrics.Metrics
	Logger    *zap.Logger
}

func NewMatchPipeline(opts MatchPipelineOptions) *MatchPipeline {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = defaultMatchTimeout
	}
	return &MatchPipeline{
		augmenter: opts.Augmenter,
		cache:     opts.Cache,
		cacheTTL:  opts.CacheTTL,
		timeout:   timeout,
		metrics:   opts.Metrics,
		logger:    logger.OrNop(opts.Logger).Named("match"),
	}
}

// AIEnabled reports whether an augmenter is configured.
func (p *MatchPipeline) AIEnabled() bool {
	return p != nil && p.augmenter != nil
}

func (p *MatchPipeline) Score(ctx context.Context, candidate matching.CandidateProfile, req matching.OpportunityRequirements) (matching.Result, MatchSource) {
	base := matching.Score(candidate, req)
	if !p.AIEnabled() {
		p.served(SourceDeterministic)
		return base, SourceDeterministic
	}

	key := MatchCacheKey(candidate, req)
	if cached, ok := p.cached(ctx, key); ok {
		p.served(SourceCache)
		return cached, SourceCache
	}

	res, reason := p.augment(ctx, candidate, req)
	if reason != "" {
		p.metrics.MatchFallback(reason)
		p.served(SourceDeterministic)
		return base, SourceDeterministic
	}

	res = sanitizeResult(res, base)
	if p.cache != nil {
		if err := p.cache.SetJSON(ctx, key, res, p.cacheTTL); err != nil {
			p.logger.Debug("match cache write failed", zap.Error(err))
		}
	}
	p.served(SourceAI)
	return res, SourceAI
}

func (p *MatchPipeline) served(src MatchSource) {
	if p == nil {
		return
	}
	p.metrics.MatchServed(string(src))
}

func (p *MatchPipeline) cached(ctx context.Context, key string) (matching.Result, bool) {
	if p.cache == nil {
		return matching.Result{}, false
	}
	var res matching.Result
	ok, err := p.cache.GetJSON(ctx, key, &res)
	if err != nil {
		p.logger.Debug("match cache read failed", zap.Error(err))
		return matching.Result{}, false
	}
	if !ok || res.Tier == "" {
		return matching.Result{}, false
	}
	return res, true
}

type augmentOutcome struct {
	res matching.Result
	err error
}

// augment races the provider against the pipeline timeout. The goroutine
// always completes because its context is cancelled on return and the
// channel is buffered.
func (p *MatchPipeline) augment(ctx context.Context, candidate matching.CandidateProfile, req matching.OpportunityRequirements) (matching.Result, string) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	done := make(chan augmentOutcome, 1)
	go func() {
		res, err := p.augmenter.Augment(ctx, candidate, req)
		done <- augmentOutcome{res: res, err: err}
	}()

	select {
	case <-ctx.Done():
		p.logger.Warn("ai match timed out, using deterministic score", zap.Duration("timeout", p.timeout))
		return matching.Result{}, FallbackTimeout
	case out := <-done:
		if out.err == nil {
			return out.res, ""
		}
		reason := fallbackReason(ctx, out.err)
		p.logger.Warn("ai match failed, using deterministic score", zap.String("reason", reason), zap.Error(out.err))
		return matching.Result{}, reason
	}
}

func fallbackReason(ctx context.Context, err error) string {
	switch {
	case errors.Is(err, context.DeadlineExceeded), errors.Is(ctx.Err(), context.DeadlineExceeded):
		return FallbackTimeout
	case errors.Is(err, ai.ErrResponseUnparseable):
		return FallbackUnparseable
	case errors.Is(err, ai.ErrProviderUnavailable):
		return FallbackUnavailable
	default:
		return FallbackError
	}
}

// sanitizeResult forces an augmented result into the value ranges of the
// deterministic scorer.
func sanitizeResult(res, base matching.Result) matching.Result {
	res.OverallScore = matching.ClampScore(res.OverallScore)
	res.Tier = matching.TierFor(res.OverallScore)

	factor := func(f, fallback matching.Factor) matching.Factor {
		if f.Weight == 0 {
			return fallback
		}
		f.Score = matching.ClampScore(f.Score)
		f.Weight = fallback.Weight
		if f.Points < 0 {
			f.Points = 0
		}
		if f.Points > f.Weight {
			f.Points = f.Weight
		}
		return f
	}
	res.Breakdown.Skills = factor(res.Breakdown.Skills, base.Breakdown.Skills)
	res.Breakdown.Experience = factor(res.Breakdown.Experience, base.Breakdown.Experience)
	res.Breakdown.Education = factor(res.Breakdown.Education, base.Breakdown.Education)
	res.Breakdown.Location = factor(res.Breakdown.Location, base.Breakdown.Location)

	res.Strengths = capList(res.Strengths, maxMatchHighlights)
	res.Concerns = capList(res.Concerns, maxMatchHighlights)
	if res.MatchedSkills == nil {
		res.MatchedSkills = base.MatchedSkills
	}
	if res.MissingSkills == nil {
		res.MissingSkills = base.MissingSkills
	}
	return res
}

func capList(in []string, n int) []string {
	if in == nil {
		return []string{}
	}
	if len(in) > n {
		return in[:n]
	}
	return in
}
