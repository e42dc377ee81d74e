// Package source holds the records surfaced to the answer synthesizer:
// DataVault matches and live web results.
package source

import (
	"regexp"
	"strings"
)

// MatchType ranks a DataVault match against a geographic constraint.
type MatchType string

const (
	// Direct is web-verified and in the requested location.
	Direct MatchType = "direct"
	// Indirect is a good match stored against a different location.
	Indirect MatchType = "indirect"
	// Orphan carries no location signal either way.
	Orphan MatchType = "orphan"
)

// Retrieved is one DataVault match mapped into a uniform shape.
// Optional metadata is nil when the stored record lacks it.
type Retrieved struct {
	ID               string
	Title            string
	Summary          *string
	SourcePath       string
	URL              *string
	Score            *float64
	StartDate        *string
	EndDate          *string
	StartTime        *string
	EndTime          *string
	StartDateNumeric *int
	EndDateNumeric   *int
	FullText         string
	Location         *string
	Type             *string
	MatchType        MatchType
}

// LocationName returns the stored location or "".
func (r Retrieved) LocationName() string {
	if r.Location == nil {
		return ""
	}
	return *r.Location
}

// Excerpt returns up to n runes of the full text, trimmed, and whether the
// text was cut.
func (r Retrieved) Excerpt(n int) (string, bool) {
	runes := []rune(r.FullText)
	if len(runes) <= n {
		return strings.TrimSpace(r.FullText), false
	}
	return strings.TrimSpace(string(runes[:n])), true
}

// WebResult is one live web search hit.
type WebResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet,omitempty"`
}

var chunkSuffix = regexp.MustCompile(`-chunk-\d+$`)

// BasePath strips a trailing -chunk-N suffix so every chunk of a document
// shares one provenance key.
func BasePath(path string) string {
	return chunkSuffix.ReplaceAllString(strings.TrimSpace(path), "")
}

// Dedup keeps the first source for each source path, preserving order.
func Dedup(sources []Retrieved) []Retrieved {
	seen := make(map[string]struct{}, len(sources))
	out := make([]Retrieved, 0, len(sources))
	for _, s := range sources {
		if _, ok := seen[s.SourcePath]; ok {
			continue
		}
		seen[s.SourcePath] = struct{}{}
		out = append(out, s)
	}
	return out
}

// Cited picks the sources whose path appears in paths, falling back to the top
// source when nothing matches, then deduplicates by path.
func Cited(sources []Retrieved, paths []string) []Retrieved {
	wanted := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		wanted[BasePath(p)] = struct{}{}
	}

	var cited []Retrieved
	for _, s := range sources {
		if _, ok := wanted[BasePath(s.SourcePath)]; ok {
			cited = append(cited, s)
		}
	}
	if len(cited) == 0 && len(sources) > 0 {
		cited = []Retrieved{sources[0]}
	}
	return Dedup(cited)
}

// Citation is the caller-facing shape of a cited source.
type Citation struct {
	ID        string   `json:"id"`
	Title     string   `json:"title"`
	Summary   *string  `json:"summary"`
	Source    string   `json:"source"`
	URL       *string  `json:"url"`
	Score     *float64 `json:"score"`
	StartDate *string  `json:"startDate"`
	EndDate   *string  `json:"endDate"`
	StartTime *string  `json:"startTime"`
	EndTime   *string  `json:"endTime"`
}

// Citation shapes the source for the response payload.
func (r Retrieved) Citation() Citation {
	return Citation{
		ID:        r.ID,
		Title:     r.Title,
		Summary:   r.Summary,
		Source:    r.SourcePath,
		URL:       r.URL,
		Score:     r.Score,
		StartDate: r.StartDate,
		EndDate:   r.EndDate,
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
	}
}
