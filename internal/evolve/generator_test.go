package evolve

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/evolsynth-api/internal/cache"
	"github.com/sells-group/evolsynth-api/internal/model"
	"github.com/sells-group/evolsynth-api/pkg/llm"
)

func testDefaults() model.GenerationSettings {
	return model.GenerationSettings{
		ExecutionMode:              model.ExecutionConcurrent,
		MaxBaseQuestionsPerDoc:     2,
		SimpleEvolutionCount:       2,
		MultiContextEvolutionCount: 1,
		ReasoningEvolutionCount:    1,
		ComplexEvolutionCount:      1,
		Temperature:                0.7,
		MaxTokens:                  512,
	}
}

// deepModeClient serves every pipeline phase with a plausible canned
// response, routed by prompt shape.
func deepModeClient() *mockLLM {
	client := new(mockLLM)
	client.On("CreateMessage", mock.Anything, promptContaining("numbered 1 to")).
		Return(textResponse("1. What is the repayment term?\n2. When does interest accrue?"), nil)
	client.On("CreateMessage", mock.Anything, promptContaining("rewritten question")).
		Return(textResponse("What is the revised repayment question?"), nil)
	client.On("CreateMessage", mock.Anything, promptContaining("Respond with only the answer")).
		Return(textResponse("Repayment takes ten years."), nil)
	return client
}

// countingClient records the peak number of concurrent CreateMessage calls.
type countingClient struct {
	mu       sync.Mutex
	inFlight int
	peak     int
}

func (c *countingClient) CreateMessage(ctx context.Context, req llm.MessageRequest) (*llm.MessageResponse, error) {
	c.mu.Lock()
	c.inFlight++
	if c.inFlight > c.peak {
		c.peak = c.inFlight
	}
	c.mu.Unlock()

	time.Sleep(2 * time.Millisecond)

	c.mu.Lock()
	c.inFlight--
	c.mu.Unlock()
	return textResponse("1. What is the repayment term?\n2. When does interest accrue?"), nil
}

func (c *countingClient) peakInFlight() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.peak
}

func TestGenerate_ConcurrencyLimitSpansAllPhases(t *testing.T) {
	client := &countingClient{}
	cfg := testConfig()
	cfg.MaxConcurrency = 1

	gen := NewGenerator(client, nil, cfg, testDefaults())
	result, _, err := gen.Generate(context.Background(), testDocs(), model.GenerationSettings{})
	require.NoError(t, err)
	require.NotEmpty(t, result.EvolvedQuestions)

	// Base extraction, all four evolution branches, answer synthesis, and
	// context extraction share one worker pool, so the limit holds even
	// while every phase is fanning out at once.
	assert.LessOrEqual(t, client.peakInFlight(), 1,
		"in-flight LLM calls exceeded the configured concurrency")
}

func TestGenerate_DeepMode_JoinIntegrity(t *testing.T) {
	gen := NewGenerator(deepModeClient(), nil, testConfig(), testDefaults())

	result, cached, err := gen.Generate(context.Background(), testDocs(), model.GenerationSettings{})
	require.NoError(t, err)
	assert.False(t, cached)
	require.NotEmpty(t, result.EvolvedQuestions)
	assert.NotEmpty(t, result.GenerationID)

	answersByID := map[string]int{}
	for _, a := range result.Answers {
		answersByID[a.QuestionID]++
	}
	contextsByID := map[string]int{}
	for _, c := range result.Contexts {
		contextsByID[c.QuestionID]++
	}
	for _, q := range result.EvolvedQuestions {
		assert.Equal(t, 1, answersByID[q.ID], "exactly one answer per question")
		assert.Equal(t, 1, contextsByID[q.ID], "exactly one context record per question")
	}

	assert.Equal(t, len(result.EvolvedQuestions), result.Metrics.QuestionsGenerated)
	assert.Equal(t, len(result.Answers), result.Metrics.AnswersGenerated)
	assert.Equal(t, string(model.ExecutionConcurrent), result.Metrics.ExecutionMode)
	assert.Positive(t, result.TokenUsage.InputTokens)
}

func TestGenerate_SummarizeContextsConfig(t *testing.T) {
	client := deepModeClient()
	client.On("CreateMessage", mock.Anything, promptContaining("Summarize only the parts")).
		Return(textResponse("Loans enter repayment six months after graduation."), nil)

	cfg := testConfig()
	cfg.SummarizeContexts = true
	gen := NewGenerator(client, nil, cfg, testDefaults())

	result, _, err := gen.Generate(context.Background(), testDocs(), model.GenerationSettings{})
	require.NoError(t, err)
	require.NotEmpty(t, result.Contexts)

	client.AssertCalled(t, "CreateMessage", mock.Anything, promptContaining("Summarize only the parts"))
	assert.Equal(t, "Loans enter repayment six months after graduation.", result.Contexts[0].Contexts[0].Text)
}

func TestGenerate_AllLLMFailures_StillCompleteResult(t *testing.T) {
	client := new(mockLLM)
	client.On("CreateMessage", mock.Anything, mock.Anything).
		Return(nil, eris.New("service down"))

	gen := NewGenerator(client, nil, testConfig(), testDefaults())
	result, cached, err := gen.Generate(context.Background(), testDocs(), model.GenerationSettings{})

	require.NoError(t, err, "per-item failures never fail the request")
	assert.False(t, cached)
	require.NotNil(t, result)
	assert.NotEmpty(t, result.GenerationID)

	// With base extraction down there is nothing to evolve, but counts
	// must still line up.
	assert.Len(t, result.Answers, len(result.EvolvedQuestions))
	assert.Len(t, result.Contexts, len(result.EvolvedQuestions))
}

func TestGenerate_CacheHitSkipsPipeline(t *testing.T) {
	client := deepModeClient()
	rc := cache.NewResultCache(cache.NewMemory(), time.Hour, "memory")
	gen := NewGenerator(client, rc, testConfig(), testDefaults())
	ctx := context.Background()

	first, cached, err := gen.Generate(ctx, testDocs(), model.GenerationSettings{})
	require.NoError(t, err)
	assert.False(t, cached)
	callsAfterFirst := len(client.Calls)

	second, cached, err := gen.Generate(ctx, testDocs(), model.GenerationSettings{})
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, first.GenerationID, second.GenerationID)
	assert.Equal(t, callsAfterFirst, len(client.Calls), "cache hit must not invoke the LLM")
}

func TestGenerate_SettingsChangeMissesCache(t *testing.T) {
	client := deepModeClient()
	rc := cache.NewResultCache(cache.NewMemory(), time.Hour, "memory")
	gen := NewGenerator(client, rc, testConfig(), testDefaults())
	ctx := context.Background()

	_, _, err := gen.Generate(ctx, testDocs(), model.GenerationSettings{})
	require.NoError(t, err)

	_, cached, err := gen.Generate(ctx, testDocs(), model.GenerationSettings{SimpleEvolutionCount: 3})
	require.NoError(t, err)
	assert.False(t, cached)
}

func TestGenerate_FastMode(t *testing.T) {
	client := new(mockLLM)
	client.On("CreateMessage", mock.Anything, promptContaining("TYPE | QUESTION | ANSWER")).
		Return(textResponse(
			"simple | What is the repayment term? | Ten years.\n"+
				"reasoning | Why does interest accrue from disbursement? | Because loans are unsubsidized.\n"+
				"garbled line without separators\n"+
				"unknown_type | Skipped? | Yes.",
		), nil)

	gen := NewGenerator(client, nil, testConfig(), testDefaults())
	result, cached, err := gen.Generate(context.Background(), testDocs(), model.GenerationSettings{FastMode: true})

	require.NoError(t, err)
	assert.False(t, cached)
	require.Len(t, result.EvolvedQuestions, 2, "malformed and unknown-type lines are dropped")
	assert.Len(t, result.Answers, 2)
	assert.Len(t, result.Contexts, 2)

	assert.Equal(t, model.EvolutionSimple, result.EvolvedQuestions[0].EvolutionType)
	assert.Equal(t, 2, result.EvolvedQuestions[0].ComplexityLevel)
	assert.Equal(t, model.EvolutionReasoning, result.EvolvedQuestions[1].EvolutionType)
	assert.Equal(t, 4, result.EvolvedQuestions[1].ComplexityLevel)

	client.AssertNumberOfCalls(t, "CreateMessage", 1)
}

func TestGenerate_FastModeFailure_DegradedEmptyResult(t *testing.T) {
	client := new(mockLLM)
	client.On("CreateMessage", mock.Anything, mock.Anything).
		Return(nil, eris.New("timeout"))

	gen := NewGenerator(client, nil, testConfig(), testDefaults())
	result, _, err := gen.Generate(context.Background(), testDocs(), model.GenerationSettings{FastMode: true})

	require.NoError(t, err)
	require.NotNil(t, result)
	assert.Empty(t, result.EvolvedQuestions)
	assert.NotNil(t, result.EvolvedQuestions, "degraded result keeps empty slices, not nils")
	assert.NotEmpty(t, result.GenerationID)
}

func TestParseFastLine(t *testing.T) {
	tests := []struct {
		name     string
		line     string
		wantType model.EvolutionType
		wantOK   bool
	}{
		{"simple", "simple | Q? | A.", model.EvolutionSimple, true},
		{"hyphenated type", "multi-context | Q? | A.", model.EvolutionMultiContext, true},
		{"spaced type", "Multi Context | Q? | A.", model.EvolutionMultiContext, true},
		{"unknown type", "novel | Q? | A.", "", false},
		{"missing answer", "simple | Q?", "", false},
		{"empty question", "simple |  | A.", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gotType, _, _, ok := parseFastLine(tt.line)
			assert.Equal(t, tt.wantOK, ok)
			if tt.wantOK {
				assert.Equal(t, tt.wantType, gotType)
			}
		})
	}
}

func TestGenerate_EmptyDocuments_SentinelResult(t *testing.T) {
	client := new(mockLLM)
	client.On("CreateMessage", mock.Anything, mock.Anything).
		Return(textResponse("simple | What is covered? | Nothing."), nil)

	gen := NewGenerator(client, nil, testConfig(), testDefaults())
	result, _, err := gen.Generate(context.Background(), nil, model.GenerationSettings{FastMode: true})

	require.NoError(t, err)
	require.Len(t, result.Contexts, 1)
	require.Len(t, result.Contexts[0].Contexts, 1)
	assert.Equal(t, -1, result.Contexts[0].Contexts[0].DocumentIndex)
}
