package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// Generator turns a prompt into text. Implementations report failures as
// ErrProviderUnavailable or ErrResponseUnparseable.
type Generator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// extractJSON strips markdown code fences some models wrap around JSON.
func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	raw = strings.Trim(raw, "`")
	raw = strings.TrimSpace(raw)

	// tolerate prose around a single JSON object
	if !strings.HasPrefix(raw, "{") && !strings.HasPrefix(raw, "[") {
		start := strings.IndexAny(raw, "{[")
		end := strings.LastIndexAny(raw, "}]")
		if start >= 0 && end > start {
			raw = raw[start : end+1]
		}
	}
	return raw
}

func decodeJSON(raw string, out any) error {
	payload := extractJSON(raw)
	if payload == "" {
		return fmt.Errorf("%w: empty response", ErrResponseUnparseable)
	}
	if err := json.Unmarshal([]byte(payload), out); err != nil {
		return fmt.Errorf("%w: %v", ErrResponseUnparseable, err)
	}
	return nil
}
