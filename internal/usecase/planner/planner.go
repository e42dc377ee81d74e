// Package planner decides which knowledge sources a query consults.
package planner

import (
	"fmt"
	"strings"

	"github.com/Davg883/Sovereign-Isle/internal/domain/geo"
	"github.com/Davg883/Sovereign-Isle/internal/domain/intent"
	"github.com/Davg883/Sovereign-Isle/internal/domain/plan"
	"github.com/Davg883/Sovereign-Isle/internal/domain/temporal"
)

// broadKeywords mark open-ended outlook queries.
var broadKeywords = []string{"coming up", "upcoming", "future", "ideas", "anything", "what's on", "happening"}

// Planner selects tool plans. It is stateless and safe for concurrent use.
type Planner struct {
	region string
}

// New creates a Planner whose rationales name region.
func New(region string) *Planner {
	return &Planner{region: region}
}

// Select picks the plan for a query. The first matching rule wins.
func (p *Planner) Select(window *temporal.Range, query string, in intent.Intent) plan.Plan {
	if window == nil {
		if in == intent.General {
			return plan.New(plan.BranchGeneral, fmt.Sprintf(
				"General query: begin with an %s web reconnaissance, then verify against the Sovereign DataVault.", p.region))
		}
		if isBroad(query) {
			return plan.New(plan.BranchBroadOutlook,
				"Query wording implies a broad outlook; scout the open web and then surface any Sovereign confirmations.")
		}
		return p.fallback()
	}

	switch window.Intent {
	case temporal.Present, temporal.ImmediateFuture:
		return plan.New(plan.BranchImmediate, fmt.Sprintf(
			"Prioritising an %s web pulse before validating present or near-future needs with Sovereign memories.", p.region))
	case temporal.BroaderFuture:
		return plan.New(plan.BranchBroaderFuture,
			"Broader future horizon detected; blend curated DataVault memories with live web augmentation.")
	}
	return p.fallback()
}

// ApplyGeo overrides the rationale when a confident location constraint
// moves web search ahead of DataVault retrieval. Other plans pass through.
func (p *Planner) ApplyGeo(pl plan.Plan, g geo.Intent) plan.Plan {
	if !g.Triggers() {
		return pl
	}
	return pl.WithReason(plan.BranchGeographic, fmt.Sprintf(
		"Geographic constraint detected (%s): web reconnaissance first, then Sovereign DataVault cross-reference.",
		g.LocationName()))
}

func (p *Planner) fallback() plan.Plan {
	return plan.New(plan.BranchDefault, fmt.Sprintf(
		"Initiate with a live %s web scan, then cross-reference the Sovereign DataVault.", p.region))
}

func isBroad(query string) bool {
	q := strings.ToLower(query)
	for _, k := range broadKeywords {
		if strings.Contains(q, k) {
			return true
		}
	}
	return false
}
