// Package prompt assembles the answer-synthesis prompt and parses the model's
// cited-sources trailer.
package prompt

import (
	"fmt"
	"strings"

	"github.com/Davg883/Sovereign-Isle/internal/domain"
	"github.com/Davg883/Sovereign-Isle/internal/domain/geo"
	"github.com/Davg883/Sovereign-Isle/internal/domain/plan"
	"github.com/Davg883/Sovereign-Isle/internal/domain/source"
	"github.com/Davg883/Sovereign-Isle/internal/domain/temporal"
)

// Config sets the persona and the region answers are confined to.
type Config struct {
	Region string
	// Persona replaces the default persona paragraph when set.
	Persona string
}

// Assembler builds answer-synthesis prompts. It holds no per-request state.
type Assembler struct {
	region  string
	persona string
}

// New creates an Assembler.
func New(cfg Config) *Assembler {
	persona := cfg.Persona
	if persona == "" {
		persona = defaultPersona(cfg.Region)
	}
	return &Assembler{region: cfg.Region, persona: persona}
}

// Input is everything the synthesizer sees for one request.
type Input struct {
	Query string
	// Sources are already graded by match type.
	Sources []source.Retrieved
	Web     []source.WebResult
	// Temporal is the classifier's window, reported in the envelope.
	Temporal *temporal.Range
	// Focus is the window applied to retrieval; it drives the narrative sentence.
	Focus *temporal.Range
	Plan  plan.Plan
	Geo   geo.Intent
}

// Build returns the system persona, the question, the DataVault context and
// the synthesizer envelope as chat messages.
func (a *Assembler) Build(in Input) []domain.ChatMessage {
	question := in.Query
	if n := Narrative(in.Focus); n != "" {
		question += "\n\n" + n
	}

	vaultContext := RenderContext(in.Sources)
	if vaultContext == "" {
		vaultContext = noContextNotice
	}

	return []domain.ChatMessage{
		domain.SystemMessage(a.persona + "\n\n" + ragInstruction(a.region) + "\n" + citationInstruction),
		domain.UserMessage(question),
		domain.UserMessage("Sovereign DataVault Context:\n" + vaultContext),
		domain.UserMessage(a.Envelope(in)),
	}
}

// Envelope renders the structured synthesis instructions.
func (a *Assembler) Envelope(in Input) string {
	temporalLine := "Temporal Interpretation: not determined."
	if in.Temporal != nil {
		temporalLine = fmt.Sprintf("Temporal Interpretation: %s window from %s to %s.",
			in.Temporal.Intent, in.Temporal.StartISO(), in.Temporal.EndISO())
	}

	coverageLine := fmt.Sprintf("DataVault Coverage: Curated %s sources located.", a.region)
	if len(in.Sources) == 0 {
		coverageLine = "DataVault Coverage: None; acknowledge the gap and note that these memories require future curation."
	}

	webLine := "Google Provenance: No live web findings retrieved."
	if len(in.Web) > 0 {
		webLine = "Google Provenance: Treat these as Web Findings (pending Sovereign verification) and invite future curation into the DataVault."
	}

	return strings.Join([]string{
		"Based on the following search results, provide a helpful and poetic answer.",
		"DataVault Results:\n" + TieredSummary(in.Sources),
		"Google Search Results:\n" + SummarizeWeb(in.Web),
		fmt.Sprintf("User's Request: '%s'", in.Query),
		temporalLine,
		"Tool Strategy: " + in.Plan.Reason(),
		coverageLine,
		webLine,
		hierarchy(in.Sources, in.Geo),
		NoResultsLine,
		fmt.Sprintf("Absolute Guardrail: You must never mention or recommend locations outside the %[1]s. If neither the DataVault nor Google provide %[1]s specifics, state that you currently lack the local details rather than offering mainland alternatives.", a.region),
	}, "\n\n")
}

// hierarchy orders recommendations. Under a location constraint it forbids
// presenting a different-location match as a primary recommendation.
func hierarchy(sources []source.Retrieved, g geo.Intent) string {
	if !g.HasConstraint {
		return "Instruction: When Sovereign DataVault entries exist, lead with them as your premier, verified recommendations. Present the Web Findings afterwards as supportive suggestions labeled 'Web Findings (pending Sovereign verification)'."
	}

	elsewhere := "another town"
	for _, s := range sources {
		if s.MatchType == source.Indirect && s.LocationName() != "" {
			elsewhere = s.LocationName()
			break
		}
	}
	requested := g.LocationName()
	if requested == "" {
		requested = "the requested location"
	}

	return strings.Join([]string{
		"PRIORITIZATION HIERARCHY (CRITICAL):",
		"1. Direct Matches: If present, LEAD with these as your premier, verified recommendations. These are the crown jewels.",
		"2. Web Findings Only: If Direct Matches are absent but Google has relevant results, present them as 'Web Findings (pending Sovereign verification)'.",
		fmt.Sprintf("3. Thematically Related (Different Location): If a DataVault source is in a DIFFERENT location than requested (e.g., %[1]s when user asked about %[2]s), you may ONLY mention it AFTER addressing the user's primary request, using phrasing like: \"Should your travels take you to %[1]s, you may wish to experience...\"", elsewhere, requested),
		"4. NEVER present an indirect match as a primary recommendation for the requested location.",
	}, "\n")
}

const citationInstruction = "Always append a line starting with " + CitationMarker +
	" followed by a JSON array of the sourcePath values from the context that you actually used to craft the answer."

func defaultPersona(region string) string {
	return fmt.Sprintf("You are Isabella, the AI concierge and Sovereign Guide to the %s. "+
		"Your persona is authoritative, intelligent, charismatic and welcoming. "+
		"Speak elegantly and confidently, favour authentic local experiences over generic tourist traps, "+
		"and introduce curated discoveries with a brief narrative rather than a bare list.", region)
}

func ragInstruction(region string) string {
	return fmt.Sprintf("You answer like an eloquent concierge who blends poetry with precision. "+
		"CRITICAL INSTRUCTION: Your knowledge, recommendations, and storytelling must be strictly limited to locations, events, and lore on the %[1]s. "+
		"Under no circumstances may you mention or suggest attractions outside the island or any mainland destination. "+
		"Use only the factual material provided inside the Sovereign DataVault context (and any sanctioned live search results). "+
		"You are FORBIDDEN from fabricating or recommending any location, event, or detail that is not explicitly present in the provided context. "+
		"If the context is empty or insufficient, explicitly state that you do not have the specific %[1]s details at this time and invite the guest to share more, rather than inventing or relying on general knowledge. "+
		"Provide graceful, compact paragraphs followed by optional curated recommendations in list form. "+
		"When referencing specific knowledge, weave in the source title naturally.", region)
}
