package retrieval

import (
	"fmt"

	"github.com/Davg883/Sovereign-Isle/internal/domain/intent"
	"github.com/Davg883/Sovereign-Isle/internal/domain/search/filter"
	"github.com/Davg883/Sovereign-Isle/internal/domain/temporal"
)

// Stored metadata keys used in pre-filters.
const (
	fieldType             = "type"
	fieldStartDateNumeric = "start_date_numeric"
	fieldEndDateNumeric   = "end_date_numeric"
)

// BuildFilter constructs the primary pre-filter. Events additionally require
// the stored date span to overlap window; General queries are unfiltered.
func BuildFilter(in intent.Intent, window *temporal.Range) (filter.Expression, error) {
	if !in.IsTyped() {
		return filter.Expression{}, nil
	}

	typeCond, err := filter.NewMatch(fieldType, string(in))
	if err != nil {
		return filter.Expression{}, fmt.Errorf("type condition: %w", err)
	}
	must := []filter.Condition{typeCond}

	if in == intent.Event && window != nil {
		startNum, okStart := temporal.NumericDate(window.StartISO())
		endNum, okEnd := temporal.NumericDate(window.EndISO())
		if okStart && okEnd {
			overlap, err := overlapConditions(float64(startNum), float64(endNum))
			if err != nil {
				return filter.Expression{}, err
			}
			must = append(must, overlap...)
		}
	}

	return filter.NewExpression(must, nil, nil)
}

// overlapConditions match records whose [start, end] span intersects [lo, hi].
func overlapConditions(lo, hi float64) ([]filter.Condition, error) {
	startsBefore, err := filter.NewRangeFilter(nil, nil, nil, &hi)
	if err != nil {
		return nil, fmt.Errorf("start bound: %w", err)
	}
	endsAfter, err := filter.NewRangeFilter(nil, &lo, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("end bound: %w", err)
	}

	startCond, err := filter.NewRange(fieldStartDateNumeric, startsBefore)
	if err != nil {
		return nil, err
	}
	endCond, err := filter.NewRange(fieldEndDateNumeric, endsAfter)
	if err != nil {
		return nil, err
	}
	return []filter.Condition{startCond, endCond}, nil
}

// RelaxFilter drops temporal bounds, keeping only the type match.
func RelaxFilter(in intent.Intent) (filter.Expression, error) {
	return BuildFilter(in, nil)
}
