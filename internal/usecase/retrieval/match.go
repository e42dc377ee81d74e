package retrieval

import (
	"strings"

	"github.com/Davg883/Sovereign-Isle/internal/domain/geo"
	"github.com/Davg883/Sovereign-Isle/internal/domain/source"
)

// titlePrefixWords is how much of a web title must appear in a DataVault title
// for the two to count as the same place.
const titlePrefixWords = 3

// ClassifyMatches grades each source against the query location. Without a
// geographic constraint every source is an orphan. The input is not modified.
func ClassifyMatches(sources []source.Retrieved, web []source.WebResult, g geo.Intent) []source.Retrieved {
	out := make([]source.Retrieved, len(sources))
	copy(out, sources)

	queryLoc := strings.ToLower(strings.TrimSpace(g.LocationName()))
	if !g.HasConstraint || queryLoc == "" {
		for i := range out {
			out[i].MatchType = source.Orphan
		}
		return out
	}

	webTitles := make([]string, 0, len(web))
	for _, r := range web {
		if t := strings.ToLower(strings.TrimSpace(r.Title)); t != "" {
			webTitles = append(webTitles, t)
		}
	}

	for i := range out {
		out[i].MatchType = matchType(out[i], webTitles, queryLoc)
	}
	return out
}

func matchType(src source.Retrieved, webTitles []string, queryLoc string) source.MatchType {
	loc := strings.ToLower(strings.TrimSpace(src.LocationName()))
	if loc == "" {
		return source.Orphan
	}
	if !strings.Contains(loc, queryLoc) {
		return source.Indirect
	}
	if appearsInWeb(strings.ToLower(strings.TrimSpace(src.Title)), webTitles) {
		return source.Direct
	}
	return source.Orphan
}

// appearsInWeb reports whether title names the same entity as a web result:
// the web title contains it, or it contains the web title's leading words.
func appearsInWeb(title string, webTitles []string) bool {
	if title == "" {
		return false
	}
	for _, w := range webTitles {
		if strings.Contains(w, title) {
			return true
		}
		words := strings.Fields(w)
		if len(words) > titlePrefixWords {
			words = words[:titlePrefixWords]
		}
		if strings.Contains(title, strings.Join(words, " ")) {
			return true
		}
	}
	return false
}
