package evolve

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sells-group/evolsynth-api/internal/model"
	"github.com/sells-group/evolsynth-api/internal/textclean"
	"github.com/sells-group/evolsynth-api/pkg/llm"
)

// fastStrategy generates all questions and answers with a single LLM call,
// then derives contexts locally via keyword matching. Trades quality for
// latency.
type fastStrategy struct {
	llm       llm.Client
	extractor *ContextExtractor
	cfg       Config
}

func (s *fastStrategy) Name() string { return "fast" }

func (s *fastStrategy) Run(ctx context.Context, docs []model.Document, settings model.GenerationSettings) (*model.GenerationResult, llm.TokenUsage) {
	result := &model.GenerationResult{
		EvolvedQuestions: []model.EvolvedQuestion{},
		Answers:          []model.Answer{},
		Contexts:         []model.ContextRecord{},
	}

	req := llm.UserPrompt(s.cfg.Model, fastModePrompt(docs, settings), settings.MaxTokens, &settings.Temperature)
	text, usage, err := llm.CompleteText(ctx, s.llm, req, s.cfg.LLMTimeout)
	if err != nil {
		// Degraded but valid: an empty result, never an error.
		zap.L().Warn("fast mode generation failed, returning empty result", zap.Error(err))
		return result, usage
	}

	for _, line := range strings.Split(text, "\n") {
		evoType, question, answer, ok := parseFastLine(line)
		if !ok {
			continue
		}

		q := model.EvolvedQuestion{
			ID:              uuid.NewString(),
			Question:        textclean.Clean(question),
			EvolutionType:   evoType,
			ComplexityLevel: evoType.ComplexityLevel(),
		}
		result.EvolvedQuestions = append(result.EvolvedQuestions, q)
		result.Answers = append(result.Answers, model.Answer{
			QuestionID: q.ID,
			Answer:     textclean.Clean(answer),
		})

		record, u := s.extractor.Extract(ctx, q, docs)
		usage.Add(u)
		result.Contexts = append(result.Contexts, record)
	}

	return result, usage
}

// parseFastLine parses one "TYPE | QUESTION | ANSWER" response line. Lines
// with an unknown type or missing fields are rejected.
func parseFastLine(line string) (model.EvolutionType, string, string, bool) {
	parts := strings.SplitN(line, "|", 3)
	if len(parts) != 3 {
		return "", "", "", false
	}

	rawType := strings.ToLower(strings.TrimSpace(parts[0]))
	evoType := model.EvolutionType(strings.ReplaceAll(strings.ReplaceAll(rawType, "-", "_"), " ", "_"))
	question := strings.TrimSpace(parts[1])
	answer := strings.TrimSpace(parts[2])

	if !evoType.Valid() || question == "" || answer == "" {
		return "", "", "", false
	}
	return evoType, question, answer, true
}
