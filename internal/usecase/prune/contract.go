package prune

import "context"

// EventStore deletes Event records that ended before a YYYYMMDD date.
type EventStore interface {
	DeleteEventsEndedBefore(ctx context.Context, numericDate int) (int, error)
}
