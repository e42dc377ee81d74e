package temporal

import (
	"encoding/json"
	"testing"
	"time"
)

func TestParseClassification_HalloweenExample(t *testing.T) {
	raw := `{"start_date": "2025-10-30", "end_date": "2025-11-30", "temporal_intent": "BROADER_FUTURE"}`

	r, err := ParseClassification(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.StartISO() != "2025-10-30" || r.EndISO() != "2025-11-30" {
		t.Errorf("unexpected window %s..%s", r.StartISO(), r.EndISO())
	}
	if r.Intent != BroaderFuture {
		t.Errorf("expected BROADER_FUTURE, got %s", r.Intent)
	}
}

func TestParseClassification_SwapsReversedRange(t *testing.T) {
	raw := "```json\n{\"start_date\": \"2025-11-02\", \"end_date\": \"2025-10-31\", \"temporal_intent\": \"immediate_future\"}\n```"

	r, err := ParseClassification(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if r.StartISO() != "2025-10-31" || r.EndISO() != "2025-11-02" {
		t.Errorf("expected swapped window, got %s..%s", r.StartISO(), r.EndISO())
	}
	if r.Intent != ImmediateFuture {
		t.Errorf("expected IMMEDIATE_FUTURE, got %s", r.Intent)
	}
	if r.Start.After(r.End.Time) {
		t.Error("start must not be after end")
	}
}

func TestParseClassification_Rejects(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", "next weekend probably"},
		{"bad start", `{"start_date": "30/10/2025", "end_date": "2025-11-30", "temporal_intent": "PAST"}`},
		{"bad end", `{"start_date": "2025-10-30", "end_date": "2025-11", "temporal_intent": "PAST"}`},
		{"impossible date", `{"start_date": "2025-02-30", "end_date": "2025-03-01", "temporal_intent": "PAST"}`},
		{"unknown intent", `{"start_date": "2025-10-30", "end_date": "2025-11-30", "temporal_intent": "SOON"}`},
		{"missing intent", `{"start_date": "2025-10-30", "end_date": "2025-11-30"}`},
		{"numeric date", `{"start_date": 20251030, "end_date": "2025-11-30", "temporal_intent": "PAST"}`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := ParseClassification(tc.raw); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestRange_JSON(t *testing.T) {
	r := NewRange(
		time.Date(2025, 10, 31, 0, 0, 0, 0, time.UTC),
		time.Date(2025, 11, 2, 0, 0, 0, 0, time.UTC),
		ImmediateFuture,
	)
	data, err := json.Marshal(r)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `{"start":"2025-10-31","end":"2025-11-02","intent":"IMMEDIATE_FUTURE"}`
	if string(data) != want {
		t.Errorf("got %s, want %s", data, want)
	}
}

func TestNumericDate(t *testing.T) {
	tests := []struct {
		in     string
		want   int
		wantOK bool
	}{
		{"2025-10-30", 20251030, true},
		{"2025-10-30T18:00:00Z", 20251030, true},
		{"2025/1/3", 0, false},
		{"", 0, false},
	}
	for _, tc := range tests {
		got, ok := NumericDate(tc.in)
		if got != tc.want || ok != tc.wantOK {
			t.Errorf("NumericDate(%q) = %d, %v; want %d, %v", tc.in, got, ok, tc.want, tc.wantOK)
		}
	}
}

func TestNumericDateOf(t *testing.T) {
	if got := NumericDateOf(time.Date(2025, 3, 7, 12, 0, 0, 0, time.UTC)); got != 20250307 {
		t.Errorf("expected 20250307, got %d", got)
	}
}

func TestStripCodeFence(t *testing.T) {
	tests := map[string]string{
		"```json\n{}\n```": "{}",
		"```JSON {}```":    "{}",
		"```\n{}\n```":     "{}",
		"  {}  ":           "{}",
	}
	for in, want := range tests {
		if got := StripCodeFence(in); got != want {
			t.Errorf("StripCodeFence(%q) = %q, want %q", in, got, want)
		}
	}
}
