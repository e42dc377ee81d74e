package db

import (
	"strings"
	"testing"
)

func TestIndexBuilder_DataVaultSchema(t *testing.T) {
	idx, err := NewIndex("datavault").
		Prefix("datavault:rec:").
		Tag("type").
		Tag("source").
		Numeric("start_date_numeric").
		Numeric("end_date_numeric").
		VectorHNSW("vector", 1536, DistanceCosine, 16, 200).
		Build()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if idx.StorageType != StorageHash {
		t.Errorf("storage = %q, want HASH", idx.StorageType)
	}
	if len(idx.Fields) != 5 {
		t.Fatalf("fields count = %d, want 5", len(idx.Fields))
	}
	vec := idx.Fields[4]
	if vec.Type != IndexFieldVector || vec.VectorAlgo != VectorHNSW || vec.VectorDim != 1536 {
		t.Errorf("unexpected vector field %+v", vec)
	}

	s := idx.String()
	for _, part := range []string{"FT.CREATE datavault ON HASH", "PREFIX datavault:rec:", "type TAG", "start_date_numeric NUMERIC", "vector VECTOR HNSW"} {
		if !strings.Contains(s, part) {
			t.Errorf("String() = %q, missing %q", s, part)
		}
	}
}

func TestIndexBuilder_Invalid(t *testing.T) {
	tests := []struct {
		name string
		b    *IndexBuilder
	}{
		{"empty name", NewIndex("").Tag("type")},
		{"bad name", NewIndex("data vault").Tag("type")},
		{"no fields", NewIndex("datavault")},
		{"duplicate", NewIndex("datavault").Tag("type").Tag("type")},
		{"zero dim", NewIndex("datavault").VectorHNSW("vector", 0, DistanceCosine, 0, 0)},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := tc.b.Build(); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestIsValidIdentifier(t *testing.T) {
	for _, s := range []string{"datavault", "dv:events", "dv_2025-10"} {
		if !IsValidIdentifier(s) {
			t.Errorf("%q should be valid", s)
		}
	}
	for _, s := range []string{"", "has space", "semi;colon"} {
		if IsValidIdentifier(s) {
			t.Errorf("%q should be invalid", s)
		}
	}
}
