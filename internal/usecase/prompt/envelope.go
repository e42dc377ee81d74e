package prompt

import (
	"fmt"
	"strings"

	"github.com/Davg883/Sovereign-Isle/internal/domain/source"
	"github.com/Davg883/Sovereign-Isle/internal/domain/temporal"
)

const (
	noneFound       = "None Found."
	summaryRunes    = 240
	ellipsis        = "…"
	noContextNotice = "No context available."
)

// Tier labels in presentation order.
const (
	labelDirect   = "Direct Matches (Sovereign + Web-Verified)"
	labelCurated  = "Curated Sovereign Entries"
	labelIndirect = "Thematically Related (Different Location)"
)

// NoResultsLine is always present in the envelope; it carries the instruction
// for the case where neither source produced anything.
const NoResultsLine = "If both Direct Matches and Web Findings are empty, politely state that you could not find any specific recommendations for the requested location at this time."

// RenderContext renders one block per source with its provenance path,
// schedule fields and full text.
func RenderContext(sources []source.Retrieved) string {
	blocks := make([]string, len(sources))
	for i, s := range sources {
		var b strings.Builder
		fmt.Fprintf(&b, "SOURCE %d\nsourcePath: %s\ntitle: %s", i+1, s.SourcePath, s.Title)
		for _, f := range []struct {
			name  string
			value *string
		}{
			{"startDate", s.StartDate},
			{"endDate", s.EndDate},
			{"startTime", s.StartTime},
			{"endTime", s.EndTime},
		} {
			if f.value != nil && *f.value != "" {
				fmt.Fprintf(&b, "\n%s: %s", f.name, *f.value)
			}
		}
		fmt.Fprintf(&b, "\ntext: %s", s.FullText)
		blocks[i] = b.String()
	}
	return strings.Join(blocks, "\n\n")
}

// SummarizeSources renders a numbered summary list, or "None Found.".
func SummarizeSources(sources []source.Retrieved) string {
	if len(sources) == 0 {
		return noneFound
	}
	blocks := make([]string, len(sources))
	for i, s := range sources {
		var schedule []string
		if v := deref(s.StartDate); v != "" {
			schedule = append(schedule, "start: "+v)
		}
		if v := deref(s.EndDate); v != "" && v != deref(s.StartDate) {
			schedule = append(schedule, "end: "+v)
		}
		scheduleText := ""
		if len(schedule) > 0 {
			scheduleText = " (" + strings.Join(schedule, " | ") + ")"
		}

		summary := deref(s.Summary)
		if summary == "" {
			excerpt, cut := s.Excerpt(summaryRunes)
			summary = excerpt
			if cut {
				summary += ellipsis
			}
		}
		blocks[i] = fmt.Sprintf("Result %d: %s%s\nSource: %s\nSummary: %s", i+1, s.Title, scheduleText, s.SourcePath, summary)
	}
	return strings.Join(blocks, "\n\n")
}

// SummarizeWeb renders the live web findings, or "None Found.".
func SummarizeWeb(results []source.WebResult) string {
	if len(results) == 0 {
		return noneFound
	}
	blocks := make([]string, len(results))
	for i, r := range results {
		blocks[i] = fmt.Sprintf("Result %d: %s\nURL: %s", i+1, r.Title, r.URL)
		if r.Snippet != "" {
			blocks[i] += "\nSnippet: " + r.Snippet
		}
	}
	return strings.Join(blocks, "\n\n")
}

// TieredSummary groups sources by match type: direct, then curated
// (orphan), then different-location matches.
func TieredSummary(sources []source.Retrieved) string {
	var direct, curated, indirect []source.Retrieved
	for _, s := range sources {
		switch s.MatchType {
		case source.Direct:
			direct = append(direct, s)
		case source.Indirect:
			indirect = append(indirect, s)
		default:
			curated = append(curated, s)
		}
	}

	var sections []string
	for _, tier := range []struct {
		label   string
		sources []source.Retrieved
	}{
		{labelDirect, direct},
		{labelCurated, curated},
		{labelIndirect, indirect},
	} {
		if len(tier.sources) > 0 {
			sections = append(sections, "\n"+tier.label+":\n"+SummarizeSources(tier.sources))
		}
	}
	if len(sections) == 0 {
		return noneFound
	}
	return strings.Join(sections, "\n")
}

// Narrative phrases a resolved date window as a focus sentence, or "" for nil.
func Narrative(r *temporal.Range) string {
	if r == nil {
		return ""
	}
	start, end := r.StartISO(), r.EndISO()

	if r.SingleDay() {
		switch r.Intent {
		case temporal.Present:
			return fmt.Sprintf("Focus on happenings unfolding on %s.", start)
		case temporal.Past:
			return fmt.Sprintf("Reflect on happenings that occurred on %s.", start)
		default:
			return fmt.Sprintf("Focus only on happenings occurring on %s.", start)
		}
	}

	switch r.Intent {
	case temporal.BroaderFuture:
		return fmt.Sprintf("Consider forthcoming happenings spanning %s through %s, highlighting seasonally relevant milestones.", start, end)
	case temporal.Past:
		return fmt.Sprintf("Focus on happenings that took place between %s and %s.", start, end)
	default:
		return fmt.Sprintf("Focus on happenings occurring between %s and %s.", start, end)
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
