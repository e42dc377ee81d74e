// Package temporal models the date window a query refers to.
package temporal

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/oapi-codegen/runtime/types"
)

// Intent describes where the window sits relative to the reference date.
type Intent string

const (
	// Past is a window entirely before the reference date.
	Past Intent = "PAST"
	// Present is the reference date itself.
	Present Intent = "PRESENT"
	// ImmediateFuture is today or the next few days (e.g. this weekend).
	ImmediateFuture Intent = "IMMEDIATE_FUTURE"
	// BroaderFuture is a longer forward horizon (e.g. next month, coming up).
	BroaderFuture Intent = "BROADER_FUTURE"
)

// ParseIntent normalises a case-insensitive intent label.
func ParseIntent(s string) (Intent, bool) {
	switch i := Intent(strings.ToUpper(strings.TrimSpace(s))); i {
	case Past, Present, ImmediateFuture, BroaderFuture:
		return i, true
	}
	return "", false
}

// Range is a resolved date window. Start is never after End.
type Range struct {
	Start  types.Date `json:"start"`
	End    types.Date `json:"end"`
	Intent Intent     `json:"intent"`
}

// NewRange builds a Range, swapping the bounds when they arrive reversed.
func NewRange(start, end time.Time, intent Intent) Range {
	if start.After(end) {
		start, end = end, start
	}
	return Range{
		Start:  types.Date{Time: start},
		End:    types.Date{Time: end},
		Intent: intent,
	}
}

// StartISO returns the start bound as YYYY-MM-DD.
func (r Range) StartISO() string { return r.Start.Format(types.DateFormat) }

// EndISO returns the end bound as YYYY-MM-DD.
func (r Range) EndISO() string { return r.End.Format(types.DateFormat) }

// SingleDay reports whether the window covers exactly one date.
func (r Range) SingleDay() bool { return r.StartISO() == r.EndISO() }

var isoDate = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// classification is the JSON shape the temporal classifier is asked to return.
type classification struct {
	StartDate      *string `json:"start_date"`
	EndDate        *string `json:"end_date"`
	TemporalIntent *string `json:"temporal_intent"`
}

// ParseClassification decodes a classifier reply into a Range.
// The reply may be wrapped in a ```json fence. Either date failing the
// YYYY-MM-DD check or an unknown intent rejects the whole reply.
func ParseClassification(raw string) (Range, error) {
	var c classification
	if err := json.Unmarshal([]byte(StripCodeFence(raw)), &c); err != nil {
		return Range{}, fmt.Errorf("decode temporal classification: %w", err)
	}
	if c.StartDate == nil || c.EndDate == nil || c.TemporalIntent == nil {
		return Range{}, fmt.Errorf("temporal classification is missing fields")
	}

	start, err := parseISODate(*c.StartDate)
	if err != nil {
		return Range{}, fmt.Errorf("start_date: %w", err)
	}
	end, err := parseISODate(*c.EndDate)
	if err != nil {
		return Range{}, fmt.Errorf("end_date: %w", err)
	}
	intent, ok := ParseIntent(*c.TemporalIntent)
	if !ok {
		return Range{}, fmt.Errorf("unknown temporal_intent %q", *c.TemporalIntent)
	}

	return NewRange(start, end, intent), nil
}

func parseISODate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if !isoDate.MatchString(s) {
		return time.Time{}, fmt.Errorf("%q is not YYYY-MM-DD", s)
	}
	t, err := time.Parse(types.DateFormat, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse %q: %w", s, err)
	}
	return t, nil
}

// StripCodeFence removes a leading ```json (or ```) fence and a trailing ``` fence.
func StripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	if strings.HasPrefix(s, "```") {
		s = strings.TrimPrefix(s, "```")
		if len(s) >= 4 && strings.EqualFold(s[:4], "json") {
			s = s[4:]
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}

// NumericDate encodes an ISO-ish date string as the 8-digit integer stored
// alongside DataVault records. Non-digits are dropped; fewer than eight
// remaining digits yields false.
func NumericDate(s string) (int, bool) {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	digits := b.String()
	if len(digits) < 8 {
		return 0, false
	}
	n, err := strconv.Atoi(digits[:8])
	if err != nil {
		return 0, false
	}
	return n, true
}

// NumericDateOf encodes a calendar date as YYYYMMDD.
func NumericDateOf(t time.Time) int {
	return t.Year()*10000 + int(t.Month())*100 + t.Day()
}
