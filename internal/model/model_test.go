package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDocumentTitle(t *testing.T) {
	tests := []struct {
		name string
		doc  Document
		idx  int
		want string
	}{
		{"source with extension", Document{Metadata: map[string]string{"source": "loans_guide.pdf"}}, 0, "loans_guide"},
		{"source with path", Document{Metadata: map[string]string{"source": "docs/2024/grants.txt"}}, 0, "grants"},
		{"windows path", Document{Metadata: map[string]string{"source": `C:\docs\grants.txt`}}, 0, "grants"},
		{"filename fallback", Document{Metadata: map[string]string{"filename": "forgiveness.md"}}, 0, "forgiveness"},
		{"no metadata", Document{}, 2, "Document 3"},
		{"empty source", Document{Metadata: map[string]string{"source": ""}}, 0, "Document 1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.doc.Title(tt.idx))
		})
	}
}

func TestEvolutionTypeComplexity(t *testing.T) {
	assert.Equal(t, 2, EvolutionSimple.ComplexityLevel())
	assert.Equal(t, 3, EvolutionMultiContext.ComplexityLevel())
	assert.Equal(t, 4, EvolutionReasoning.ComplexityLevel())
	assert.Equal(t, 5, EvolutionComplex.ComplexityLevel())
	assert.Equal(t, 1, EvolutionType("novel").ComplexityLevel())
}

func TestEvolutionTypeValid(t *testing.T) {
	for _, evoType := range AllEvolutionTypes {
		assert.True(t, evoType.Valid())
	}
	assert.False(t, EvolutionType("novel").Valid())
}

func TestGenerationSettingsCountFor(t *testing.T) {
	s := GenerationSettings{
		SimpleEvolutionCount:       3,
		MultiContextEvolutionCount: 2,
		ReasoningEvolutionCount:    1,
		ComplexEvolutionCount:      4,
	}
	assert.Equal(t, 3, s.CountFor(EvolutionSimple))
	assert.Equal(t, 2, s.CountFor(EvolutionMultiContext))
	assert.Equal(t, 1, s.CountFor(EvolutionReasoning))
	assert.Equal(t, 4, s.CountFor(EvolutionComplex))
	assert.Equal(t, 0, s.CountFor(EvolutionType("novel")))
}

func TestTokenUsageAdd(t *testing.T) {
	u := TokenUsage{InputTokens: 100, OutputTokens: 40, Cost: 0.01}
	u.Add(TokenUsage{InputTokens: 50, OutputTokens: 10, Cost: 0.005})

	assert.Equal(t, 150, u.InputTokens)
	assert.Equal(t, 50, u.OutputTokens)
	assert.InDelta(t, 0.015, u.Cost, 0.0001)
}

func TestKnownMetric(t *testing.T) {
	for _, metric := range DefaultEvaluationMetrics {
		assert.True(t, KnownMetric(metric))
	}
	assert.False(t, KnownMetric("vibes"))
}
