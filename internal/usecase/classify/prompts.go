package classify

import (
	"fmt"
	"strings"

	"github.com/Davg883/Sovereign-Isle/internal/domain/intent"
)

func intentPrompt() string {
	labels := make([]string, len(intent.All))
	for i, l := range intent.All {
		labels[i] = "'" + string(l) + "'"
	}
	return "You are a classification agent. Classify the user's request into one of the following categories: " +
		strings.Join(labels[:len(labels)-1], ", ") + ", or " + labels[len(labels)-1] +
		". Respond with only the category name."
}

func temporalPrompt(todayISO string) string {
	return strings.Join([]string{
		fmt.Sprintf("Analyze the user's query and the current date (%s). Respond with a JSON object that includes a start_date, an end_date, and a temporal_intent.", todayISO),
		"temporal_intent can be one of: PAST, PRESENT, IMMEDIATE_FUTURE (e.g., today/this weekend), BROADER_FUTURE (e.g., next month/coming up).",
		"When the query is ambiguous, make a sensible assumption and choose the most contextually appropriate window.",
		"Ensure the start_date is never after the end_date.",
		"Examples:",
		`"What happened yesterday?" -> {"start_date": "2025-10-29", "end_date": "2025-10-29", "temporal_intent": "PAST"}`,
		`"what halloween events are coming up" -> {"start_date": "2025-10-30", "end_date": "2025-11-30", "temporal_intent": "BROADER_FUTURE"}`,
		`"What's happening this weekend?" -> {"start_date": "2025-10-31", "end_date": "2025-11-02", "temporal_intent": "IMMEDIATE_FUTURE"}`,
	}, "\n")
}

func geoPrompt(region string, locations []string) string {
	lines := []string{
		fmt.Sprintf("Analyze the user's query to determine if they are asking about a specific location on the %s.", region),
		"Respond with a JSON object containing:",
		"- hasConstraint (boolean): true if the query mentions a specific town, village, or area",
		"- location (string | null): the extracted location name, or null if no constraint",
		"- confidence (number 1-10): how confident you are about the location constraint",
	}
	if len(locations) > 0 {
		lines = append(lines, fmt.Sprintf("Common %s locations: %s, etc.", region, strings.Join(locations, ", ")))
	}
	lines = append(lines,
		"Examples:",
		`"where can I eat in Cowes" -> {"hasConstraint": true, "location": "Cowes", "confidence": 10}`,
		`"restaurants in Brighstone" -> {"hasConstraint": true, "location": "Brighstone", "confidence": 10}`,
		`"best pubs near Ryde" -> {"hasConstraint": true, "location": "Ryde", "confidence": 9}`,
		`"where can I eat" -> {"hasConstraint": false, "location": null, "confidence": 10}`,
		`"cozy pubs with fires" -> {"hasConstraint": false, "location": null, "confidence": 10}`,
	)
	return strings.Join(lines, "\n")
}
