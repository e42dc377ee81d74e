// Package plan describes which knowledge sources a request consults.
package plan

// DefaultConfidenceThreshold is the DataVault confidence below which web search is consulted.
const DefaultConfidenceThreshold = 8

// Branch names the planner rule that produced a plan.
type Branch string

// Planner branches, plus the geographic override applied by the pipeline.
const (
	BranchGeneral       Branch = "general"
	BranchBroadOutlook  Branch = "broad_outlook"
	BranchDefault       Branch = "default"
	BranchImmediate     Branch = "immediate"
	BranchBroaderFuture Branch = "broader_future"
	BranchGeographic    Branch = "geographic"
)

// Plan is an immutable tool-selection decision. The With* methods return
// modified copies.
type Plan struct {
	runDatavault    bool
	runWeb          bool
	fallbackOnEmpty bool
	reason          string
	branch          Branch
	threshold       int
	confidence      *int
}

// New creates a plan that consults both sources with fallback enabled.
func New(branch Branch, reason string) Plan {
	return Plan{
		runDatavault:    true,
		runWeb:          true,
		fallbackOnEmpty: true,
		reason:          reason,
		branch:          branch,
		threshold:       DefaultConfidenceThreshold,
	}
}

// RunDatavault reports whether the vector store is consulted.
func (p Plan) RunDatavault() bool { return p.runDatavault }

// RunWeb reports whether live web search may be consulted.
func (p Plan) RunWeb() bool { return p.runWeb }

// FallbackOnEmpty reports whether an empty DataVault forces a last web search attempt.
func (p Plan) FallbackOnEmpty() bool { return p.fallbackOnEmpty }

// Reason is a human-readable rationale, used for observability only.
func (p Plan) Reason() string { return p.reason }

// Branch is the rule that produced the plan.
func (p Plan) Branch() Branch { return p.branch }

// ConfidenceThreshold is the DataVault confidence gate for web search.
func (p Plan) ConfidenceThreshold() int { return p.threshold }

// DatavaultConfidence returns the scored confidence, if any.
func (p Plan) DatavaultConfidence() (int, bool) {
	if p.confidence == nil {
		return 0, false
	}
	return *p.confidence, true
}

// WithConfidence records the DataVault confidence score.
func (p Plan) WithConfidence(score int) Plan {
	p.confidence = &score
	return p
}

// WithReason replaces the rationale, e.g. when the geographic trigger overrides ordering.
func (p Plan) WithReason(branch Branch, reason string) Plan {
	p.branch = branch
	p.reason = reason
	return p
}

// ShouldQueryWeb is the web-search gate evaluated after the first retrieval.
func (p Plan) ShouldQueryWeb(confidence, sources int) bool {
	return p.runWeb && (confidence < p.threshold || sources == 0)
}

// View is the JSON shape of a plan in API responses.
type View struct {
	RunDatavault                     bool   `json:"runDatavault"`
	RunGoogle                        bool   `json:"runGoogle"`
	FallbackToGoogleOnEmptyDatavault bool   `json:"fallbackToGoogleOnEmptyDatavault"`
	Reason                           string `json:"reason"`
	ConfidenceThreshold              int    `json:"confidenceThreshold"`
	DatavaultConfidence              *int   `json:"datavaultConfidence,omitempty"`
}

// View renders the plan for the response payload.
func (p Plan) View() View {
	v := View{
		RunDatavault:                     p.runDatavault,
		RunGoogle:                        p.runWeb,
		FallbackToGoogleOnEmptyDatavault: p.fallbackOnEmpty,
		Reason:                           p.reason,
		ConfidenceThreshold:              p.threshold,
	}
	if p.confidence != nil {
		c := *p.confidence
		v.DatavaultConfidence = &c
	}
	return v
}
