// Package intent defines the coarse content category a query asks about.
package intent

import "strings"

// Intent is the classified category of a query.
type Intent string

const (
	// Accommodation covers hotels, B&Bs and other places to stay.
	Accommodation Intent = "Accommodation"
	// Restaurant covers restaurants, pubs and cafes.
	Restaurant Intent = "Restaurant"
	// Event covers dated happenings.
	Event Intent = "Event"
	// General is everything else and the fallback for unparseable labels.
	General Intent = "General"
)

// All lists every intent in the order presented to the classifier.
var All = []Intent{Accommodation, Restaurant, Event, General}

// Parse maps a model label onto an Intent.
// Surrounding whitespace, quotes and a trailing full stop are ignored; anything
// that is not one of the known labels yields General.
func Parse(label string) Intent {
	cleaned := strings.TrimSpace(label)
	cleaned = strings.Trim(cleaned, "\"'`")
	cleaned = strings.TrimSuffix(cleaned, ".")
	cleaned = strings.TrimSpace(cleaned)
	for _, i := range All {
		if strings.EqualFold(cleaned, string(i)) {
			return i
		}
	}
	return General
}

// IsTyped reports whether the intent maps onto a stored record type.
func (i Intent) IsTyped() bool {
	return i == Accommodation || i == Restaurant || i == Event
}
