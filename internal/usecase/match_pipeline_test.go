package usecase

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"testing"
	"time"

	"hirelane/internal/ai"
	"hirelane/internal/domain/matching"
	"hirelane/internal/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

type stubAugmenter struct {
	res   matching.Result
	err   error
	delay time.Duration
	calls int
}

func (s *stubAugmenter) Augment(ctx context.Context, _ matching.CandidateProfile, _ matching.OpportunityRequirements) (matching.Result, error) {
	s.calls++
	if s.delay > 0 {
		select {
		case <-time.After(s.delay):
		case <-ctx.Done():
			return matching.Result{}, ctx.Err()
		}
	}
	return s.res, s.err
}

func sampleInputs() (matching.CandidateProfile, matching.OpportunityRequirements) {
	return matching.CandidateProfile{
			Skills:          []string{"python", "sql"},
			ExperienceYears: 5,
			EducationLevel:  matching.EducationMaster,
		}, matching.OpportunityRequirements{
			RequiredSkills:     []string{"python", "aws"},
			MinExperienceYears: 3,
			RequiredEducation:  matching.EducationBachelor,
			LocationType:       matching.LocationRemote,
		}
}

func TestMatchPipeline_NoAugmenterIsDeterministic(t *testing.T) {
	cand, req := sampleInputs()
	p := NewMatchPipeline(MatchPipelineOptions{})

	res, src := p.Score(context.Background(), cand, req)
	if src != SourceDeterministic {
		t.Fatalf("expected deterministic source, got %s", src)
	}
	if !reflect.DeepEqual(res, matching.Score(cand, req)) {
		t.Fatalf("expected deterministic result")
	}
}

func TestMatchPipeline_FallsBackOnProviderErrors(t *testing.T) {
	cand, req := sampleInputs()
	want := matching.Score(cand, req)

	cases := []struct {
		name   string
		err    error
		reason string
	}{
		{name: "unavailable", err: fmt.Errorf("%w: no key", ai.ErrProviderUnavailable), reason: FallbackUnavailable},
		{name: "unparseable", err: fmt.Errorf("%w: bad json", ai.ErrResponseUnparseable), reason: FallbackUnparseable},
		{name: "other", err: errors.New("boom"), reason: FallbackError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := metrics.New()
			p := NewMatchPipeline(MatchPipelineOptions{
				Augmenter: &stubAugmenter{err: tc.err},
				Cache:     newMemCache(),
				Metrics:   m,
			})

			res, src := p.Score(context.Background(), cand, req)
			if src != SourceDeterministic {
				t.Fatalf("expected deterministic source, got %s", src)
			}
			if !reflect.DeepEqual(res, want) {
				t.Fatalf("expected deterministic result, got %+v", res)
			}
			n, err := testutil.GatherAndCount(m.Registry(), "hirelane_match_fallbacks_total")
			if err != nil {
				t.Fatalf("gather: %v", err)
			}
			if n != 1 {
				t.Fatalf("expected one fallback series, got %d", n)
			}
		})
	}
}

func TestMatchPipeline_TimeoutFallsBack(t *testing.T) {
	cand, req := sampleInputs()
	aug := &stubAugmenter{res: matching.Result{OverallScore: 99}, delay: time.Second}
	p := NewMatchPipeline(MatchPipelineOptions{Augmenter: aug, Timeout: 20 * time.Millisecond})

	start := time.Now()
	res, src := p.Score(context.Background(), cand, req)
	if time.Since(start) > 500*time.Millisecond {
		t.Fatalf("pipeline did not respect its timeout")
	}
	if src != SourceDeterministic || res.OverallScore != 80 {
		t.Fatalf("expected deterministic 80, got %s %d", src, res.OverallScore)
	}
}

func TestMatchPipeline_AIResultIsSanitizedAndCached(t *testing.T) {
	cand, req := sampleInputs()
	aug := &stubAugmenter{res: matching.Result{
		OverallScore: 140,
		Breakdown: matching.Breakdown{
			Skills: matching.Factor{Score: 120, Points: 90, Weight: 40, Detail: "strong"},
		},
		Strengths: []string{"a", "b", "c", "d"},
	}}
	cache := newMemCache()
	p := NewMatchPipeline(MatchPipelineOptions{Augmenter: aug, Cache: cache})

	res, src := p.Score(context.Background(), cand, req)
	if src != SourceAI {
		t.Fatalf("expected ai source, got %s", src)
	}
	if res.OverallScore != 100 || res.Tier != matching.TierExcellentFit {
		t.Fatalf("expected clamped score, got %d %s", res.OverallScore, res.Tier)
	}
	if res.Breakdown.Skills.Score != 100 || res.Breakdown.Skills.Points != 40 {
		t.Fatalf("expected clamped skills factor, got %+v", res.Breakdown.Skills)
	}
	if res.Breakdown.Experience.Weight != matching.WeightExperience {
		t.Fatalf("expected missing factor filled from baseline")
	}
	if len(res.Strengths) != 3 || res.Concerns == nil {
		t.Fatalf("expected capped lists, got %v %v", res.Strengths, res.Concerns)
	}

	again, src := p.Score(context.Background(), cand, req)
	if src != SourceCache {
		t.Fatalf("expected cache source, got %s", src)
	}
	if aug.calls != 1 {
		t.Fatalf("expected one provider call, got %d", aug.calls)
	}
	if again.OverallScore != res.OverallScore {
		t.Fatalf("cached result differs")
	}
}

func TestMatchPipeline_CacheErrorsAreIgnored(t *testing.T) {
	cand, req := sampleInputs()
	cache := newMemCache()
	cache.err = errors.New("redis down")
	p := NewMatchPipeline(MatchPipelineOptions{
		Augmenter: &stubAugmenter{res: matching.Score(cand, req)},
		Cache:     cache,
	})

	if _, src := p.Score(context.Background(), cand, req); src != SourceAI {
		t.Fatalf("expected ai source, got %s", src)
	}
}

func TestMatchCacheKey_Normalizes(t *testing.T) {
	cand, req := sampleInputs()
	k1 := MatchCacheKey(cand, req)

	cand.Skills = []string{" SQL ", "Python", "python"}
	k2 := MatchCacheKey(cand, req)
	if k1 != k2 {
		t.Fatalf("expected equal keys for equivalent inputs")
	}

	req.MinExperienceYears = 4
	if MatchCacheKey(cand, req) == k1 {
		t.Fatalf("expected different key for different requirement")
	}
}
