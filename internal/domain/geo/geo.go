// Package geo models a query's geographic constraint within the region.
package geo

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"

	"github.com/Davg883/Sovereign-Isle/internal/domain/temporal"
)

// Confidence bounds and the trigger for web-first retrieval.
const (
	MinConfidence     = 1
	MaxConfidence     = 10
	DefaultConfidence = 5
	TriggerConfidence = 7
)

// Intent is the geographic constraint extracted from a query.
type Intent struct {
	HasConstraint bool    `json:"hasConstraint"`
	Location      *string `json:"location"`
	Confidence    int     `json:"confidence"`
}

// None is the conservative fallback used when extraction fails.
func None() Intent {
	return Intent{HasConstraint: false, Location: nil, Confidence: MinConfidence}
}

// LocationName returns the extracted location or "".
func (i Intent) LocationName() string {
	if i.Location == nil {
		return ""
	}
	return *i.Location
}

// Triggers reports whether the constraint is strong enough to run web search first.
func (i Intent) Triggers() bool {
	return i.HasConstraint && i.Confidence >= TriggerConfidence
}

// ParseClassification decodes a classifier reply.
// hasConstraint follows JSON truthiness, a non-string location becomes nil and a
// non-numeric confidence becomes DefaultConfidence.
func ParseClassification(raw string) (Intent, error) {
	var parsed map[string]any
	if err := json.Unmarshal([]byte(temporal.StripCodeFence(raw)), &parsed); err != nil {
		return Intent{}, fmt.Errorf("decode geographic classification: %w", err)
	}

	out := Intent{
		HasConstraint: truthy(parsed["hasConstraint"]),
		Confidence:    DefaultConfidence,
	}
	if loc, ok := parsed["location"].(string); ok {
		out.Location = &loc
	}
	if c, ok := parsed["confidence"].(float64); ok {
		out.Confidence = clampScore(c)
	}
	return out, nil
}

func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case float64:
		return t != 0
	case string:
		return t != ""
	default:
		return true
	}
}

// clampScore bounds in float64 first so huge model values cannot overflow int.
// Halves round up.
func clampScore(f float64) int {
	f = math.Max(MinConfidence, math.Min(MaxConfidence, f))
	return int(math.Floor(f + 0.5))
}

// Contains reports whether haystack contains needle, ignoring case.
func Contains(haystack, needle string) bool {
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
