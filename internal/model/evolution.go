package model

// EvolutionType is one of the four fixed transformation categories applied to
// a base question.
type EvolutionType string

const (
	EvolutionSimple       EvolutionType = "simple"
	EvolutionMultiContext EvolutionType = "multi_context"
	EvolutionReasoning    EvolutionType = "reasoning"
	EvolutionComplex      EvolutionType = "complex"
)

// AllEvolutionTypes lists the evolution branches in their canonical order.
// Branch execution order carries no semantic meaning; this ordering exists
// only for deterministic iteration.
var AllEvolutionTypes = []EvolutionType{
	EvolutionSimple,
	EvolutionMultiContext,
	EvolutionReasoning,
	EvolutionComplex,
}

// complexityLevels is the static complexity mapping per evolution type.
// Levels are assigned by category, never computed from content.
var complexityLevels = map[EvolutionType]int{
	EvolutionSimple:       2,
	EvolutionMultiContext: 3,
	EvolutionReasoning:    4,
	EvolutionComplex:      5,
}

// ComplexityLevel returns the fixed complexity level for the evolution type.
// Unknown types map to level 1.
func (t EvolutionType) ComplexityLevel() int {
	if lvl, ok := complexityLevels[t]; ok {
		return lvl
	}
	return 1
}

// Valid reports whether t is one of the four known evolution types.
func (t EvolutionType) Valid() bool {
	_, ok := complexityLevels[t]
	return ok
}

// EvolvedQuestion is a question produced by one evolution branch. Immutable
// after creation.
type EvolvedQuestion struct {
	ID               string        `json:"id"`
	Question         string        `json:"question"`
	EvolutionType    EvolutionType `json:"evolution_type"`
	SourceContextIDs []string      `json:"source_context_ids"`
	ComplexityLevel  int           `json:"complexity_level"`
}

// ExecutionMode selects how the evolution branches are scheduled.
type ExecutionMode string

const (
	ExecutionConcurrent ExecutionMode = "concurrent"
	ExecutionSequential ExecutionMode = "sequential"
)

// GenerationSettings are the per-request knobs for the generation pipeline.
// Zero values are replaced with configured defaults at the boundary.
type GenerationSettings struct {
	ExecutionMode              ExecutionMode `json:"execution_mode,omitempty"`
	FastMode                   bool          `json:"fast_mode,omitempty"`
	MaxBaseQuestionsPerDoc     int           `json:"max_base_questions_per_doc,omitempty"`
	SimpleEvolutionCount       int           `json:"simple_evolution_count,omitempty"`
	MultiContextEvolutionCount int           `json:"multi_context_evolution_count,omitempty"`
	ReasoningEvolutionCount    int           `json:"reasoning_evolution_count,omitempty"`
	ComplexEvolutionCount      int           `json:"complex_evolution_count,omitempty"`
	Temperature                float64       `json:"temperature,omitempty"`
	MaxTokens                  int64         `json:"max_tokens,omitempty"`
}

// CountFor returns the configured evolution count for the given type.
func (s GenerationSettings) CountFor(t EvolutionType) int {
	switch t {
	case EvolutionSimple:
		return s.SimpleEvolutionCount
	case EvolutionMultiContext:
		return s.MultiContextEvolutionCount
	case EvolutionReasoning:
		return s.ReasoningEvolutionCount
	case EvolutionComplex:
		return s.ComplexEvolutionCount
	}
	return 0
}
