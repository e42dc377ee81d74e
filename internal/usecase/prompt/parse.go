package prompt

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// CitationMarker introduces the JSON array of cited source paths.
const CitationMarker = "CITED_SOURCES_JSON:"

// FallbackAnswer is returned when the model produces no content.
const FallbackAnswer = "I am still gathering the right passages. May I hear a little more about what you need?"

// ParseResponse splits the answer from the cited-sources trailer at the last
// marker. Without a marker, or when everything after it is not exactly one JSON
// array, the whole reply is the answer and no paths are cited. Non-string entries are skipped.
func ParseResponse(raw string) (string, []string, error) {
	idx := strings.LastIndex(raw, CitationMarker)
	if idx < 0 {
		return strings.TrimSpace(raw), nil, nil
	}

	entries, err := decodeTrailer(raw[idx+len(CitationMarker):])
	if err != nil {
		return strings.TrimSpace(raw), nil, err
	}

	paths := make([]string, 0, len(entries))
	for _, e := range entries {
		if p, ok := e.(string); ok {
			paths = append(paths, p)
		}
	}
	return strings.TrimSpace(raw[:idx]), paths, nil
}

func decodeTrailer(tail string) ([]any, error) {
	dec := json.NewDecoder(strings.NewReader(tail))
	var entries []any
	if err := dec.Decode(&entries); err != nil {
		return nil, fmt.Errorf("decode cited sources: %w", err)
	}
	if entries == nil {
		return nil, errors.New("decode cited sources: not an array")
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, errors.New("decode cited sources: trailing content after array")
	}
	return entries, nil
}
