package ai

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"hirelane/internal/config"
	"hirelane/internal/logger"
	"hirelane/internal/metrics"

	"github.com/sony/gobreaker/v2"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
	"google.golang.org/genai"
)

const defaultModel = "gemini-2.5-flash"

// GeminiGenerator calls the Gemini API behind a rate limiter and a circuit
// breaker.
type GeminiGenerator struct {
	client      *genai.Client
	model       string
	temperature float32
	breaker     *gobreaker.CircuitBreaker[string]
	limiter     *rate.Limiter
	metrics     *metrics.Metrics
	logger      *zap.Logger
}

func NewGeminiGenerator(ctx context.Context, cfg config.AIConfig, m *metrics.Metrics, log *zap.Logger) (*GeminiGenerator, error) {
	apiKey := strings.TrimSpace(cfg.APIKey)
	if apiKey == "" {
		return nil, fmt.Errorf("%w: gemini api key is required", ErrProviderUnavailable)
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("create genai client: %w", err)
	}

	model := strings.TrimSpace(cfg.Model)
	if model == "" {
		model = defaultModel
	}

	log = logger.OrNop(log).Named("gemini")
	return &GeminiGenerator{
		client:      client,
		model:       model,
		temperature: cfg.Temperature,
		breaker:     newBreaker(cfg.Breaker, log),
		limiter:     newLimiter(cfg.RatePerMinute, cfg.Burst),
		metrics:     m,
		logger:      log,
	}, nil
}

func newBreaker(cfg config.BreakerConfig, log *zap.Logger) *gobreaker.CircuitBreaker[string] {
	minRequests := cfg.MinRequests
	if minRequests == 0 {
		minRequests = 5
	}
	ratio := cfg.FailureRatio
	if ratio <= 0 || ratio > 1 {
		ratio = 0.6
	}

	return gobreaker.NewCircuitBreaker[string](gobreaker.Settings{
		Name:        "gemini",
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < minRequests {
				return false
			}
			return float64(counts.TotalFailures)/float64(counts.Requests) >= ratio
		},
		IsSuccessful: func(err error) bool {
			// bad payloads and caller cancellations say nothing about provider health
			return err == nil || errors.Is(err, ErrResponseUnparseable) || errors.Is(err, context.Canceled)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn("circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	})
}

func newLimiter(perMinute, burst int) *rate.Limiter {
	if perMinute <= 0 {
		return rate.NewLimiter(rate.Inf, 0)
	}
	if burst <= 0 {
		burst = 1
	}
	return rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMinute)), burst)
}

func (g *GeminiGenerator) GenerateContent(ctx context.Context, prompt string) (string, error) {
	if g == nil || g.client == nil {
		return "", fmt.Errorf("%w: generator is not initialized", ErrProviderUnavailable)
	}
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return "", errors.New("prompt must not be empty")
	}

	if err := g.limiter.Wait(ctx); err != nil {
		g.metrics.AICall("rate_limited")
		return "", fmt.Errorf("%w: rate limit: %v", ErrProviderUnavailable, err)
	}

	out, err := g.breaker.Execute(func() (string, error) {
		return g.call(ctx, prompt)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			g.metrics.AICall("breaker_open")
			return "", fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
		}
		if errors.Is(err, ErrResponseUnparseable) {
			g.metrics.AICall("unparseable")
		} else {
			g.metrics.AICall("error")
		}
		return "", err
	}

	g.metrics.AICall("ok")
	return out, nil
}

func (g *GeminiGenerator) call(ctx context.Context, prompt string) (string, error) {
	temp := g.temperature
	cfg := &genai.GenerateContentConfig{
		Temperature:      &temp,
		ResponseMIMEType: "application/json",
	}

	start := time.Now()
	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(prompt), cfg)
	if err != nil {
		g.logger.Debug("generate content failed",
			zap.Error(err),
			zap.Duration("latency", time.Since(start)),
			zap.String("prompt", logger.TruncateForLog(prompt, 200)),
		)
		return "", fmt.Errorf("%w: %v", ErrProviderUnavailable, err)
	}

	text := ""
	if resp != nil {
		text = strings.TrimSpace(resp.Text())
	}
	g.logger.Debug("generate content",
		zap.String("model", g.model),
		zap.Duration("latency", time.Since(start)),
		zap.String("response", logger.TruncateForLog(text, 200)),
	)
	if text == "" {
		return "", fmt.Errorf("%w: empty response", ErrResponseUnparseable)
	}
	return text, nil
}

func (g *GeminiGenerator) Model() string {
	if g == nil {
		return ""
	}
	return g.model
}
