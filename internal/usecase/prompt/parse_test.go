package prompt

import (
	"reflect"
	"testing"
)

func TestParseResponse(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		answer  string
		paths   []string
		wantErr bool
	}{
		{
			name:   "no marker",
			raw:    "  Cowes awaits.  ",
			answer: "Cowes awaits.",
		},
		{
			name:   "chunk paths",
			raw:    "Stay at the Albion.\nCITED_SOURCES_JSON: [\"admin/albion-hotel-chunk-0\", \"admin/albion-hotel-chunk-1\"]",
			answer: "Stay at the Albion.",
			paths:  []string{"admin/albion-hotel-chunk-0", "admin/albion-hotel-chunk-1"},
		},
		{
			name:   "last marker wins",
			raw:    "I will end with CITED_SOURCES_JSON: as asked.\nThe answer.\nCITED_SOURCES_JSON: [\"admin/a\"]",
			answer: "I will end with CITED_SOURCES_JSON: as asked.\nThe answer.",
			paths:  []string{"admin/a"},
		},
		{
			name:   "non-string entries skipped",
			raw:    "Answer CITED_SOURCES_JSON: [\"admin/a\", 3, null, \"admin/b\"]",
			answer: "Answer",
			paths:  []string{"admin/a", "admin/b"},
		},
		{
			name:   "empty array",
			raw:    "Answer\nCITED_SOURCES_JSON: []",
			answer: "Answer",
			paths:  []string{},
		},
		{
			name:    "malformed tail keeps raw answer",
			raw:     "Answer\nCITED_SOURCES_JSON: [\"admin/a\"",
			answer:  "Answer\nCITED_SOURCES_JSON: [\"admin/a\"",
			wantErr: true,
		},
		{
			name:    "object tail keeps raw answer",
			raw:     "Answer\nCITED_SOURCES_JSON: {\"a\": 1}",
			answer:  "Answer\nCITED_SOURCES_JSON: {\"a\": 1}",
			wantErr: true,
		},
		{
			name:    "prose after array keeps raw answer",
			raw:     "Answer text.\nCITED_SOURCES_JSON: [\"admin/x\"]\nEnjoy your stay!",
			answer:  "Answer text.\nCITED_SOURCES_JSON: [\"admin/x\"]\nEnjoy your stay!",
			wantErr: true,
		},
		{
			name:    "second value after array keeps raw answer",
			raw:     "Answer\nCITED_SOURCES_JSON: [\"admin/a\"] [\"admin/b\"]",
			answer:  "Answer\nCITED_SOURCES_JSON: [\"admin/a\"] [\"admin/b\"]",
			wantErr: true,
		},
		{
			name:    "null tail keeps raw answer",
			raw:     "Answer text.\nCITED_SOURCES_JSON: null",
			answer:  "Answer text.\nCITED_SOURCES_JSON: null",
			wantErr: true,
		},
		{
			name:    "empty tail keeps raw answer",
			raw:     "Answer\nCITED_SOURCES_JSON:   ",
			answer:  "Answer\nCITED_SOURCES_JSON:",
			wantErr: true,
		},
		{
			name:   "trailing whitespace after array",
			raw:    "Answer\nCITED_SOURCES_JSON: [\"admin/a\"]\n\n",
			answer: "Answer",
			paths:  []string{"admin/a"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			answer, paths, err := ParseResponse(tt.raw)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if answer != tt.answer {
				t.Errorf("answer = %q, want %q", answer, tt.answer)
			}
			if len(paths) != len(tt.paths) || (len(paths) > 0 && !reflect.DeepEqual(paths, tt.paths)) {
				t.Errorf("paths = %q, want %q", paths, tt.paths)
			}
		})
	}
}
