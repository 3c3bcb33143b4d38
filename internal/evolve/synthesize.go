package evolve

import (
	"context"
	"sort"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/sells-group/evolsynth-api/internal/model"
	"github.com/sells-group/evolsynth-api/internal/relevance"
	"github.com/sells-group/evolsynth-api/internal/textclean"
	"github.com/sells-group/evolsynth-api/pkg/llm"
)

// FallbackAnswer is returned when answer synthesis fails for a question.
const FallbackAnswer = "Unable to generate answer based on provided context."

const (
	answerExcerptBudget = 800
	maxAnswerExcerpts   = 3
)

// Synthesizer generates one answer per evolved question from document
// excerpts.
type Synthesizer struct {
	llm llm.Client
	cfg Config
	sem *semaphore.Weighted
}

// NewSynthesizer creates an answer synthesizer.
func NewSynthesizer(client llm.Client, cfg Config) *Synthesizer {
	return &Synthesizer{llm: client, cfg: cfg, sem: semaphore.NewWeighted(int64(cfg.maxConcurrency()))}
}

// Synthesize answers one question from the given excerpts. It always returns
// an Answer: LLM failure substitutes the fixed fallback string so the rest of
// the batch can proceed.
func (s *Synthesizer) Synthesize(ctx context.Context, question model.EvolvedQuestion, excerpts []string, settings model.GenerationSettings) (model.Answer, llm.TokenUsage) {
	if len(excerpts) > maxAnswerExcerpts {
		excerpts = excerpts[:maxAnswerExcerpts]
	}
	bounded := make([]string, len(excerpts))
	for i, ex := range excerpts {
		bounded[i] = truncate(ex, answerExcerptBudget)
	}

	req := llm.UserPrompt(s.cfg.Model, answerPrompt(question.Question, bounded), settings.MaxTokens, &settings.Temperature)
	text, usage, err := llm.CompleteText(ctx, s.llm, req, s.cfg.LLMTimeout)
	if err != nil {
		zap.L().Warn("answer synthesis failed, using fallback",
			zap.String("question_id", question.ID),
			zap.Error(err),
		)
		return model.Answer{QuestionID: question.ID, Answer: FallbackAnswer}, usage
	}

	return model.Answer{QuestionID: question.ID, Answer: textclean.Clean(text)}, usage
}

// SynthesizeAll answers every question concurrently within the shared worker
// limit. Excerpts are the top documents by relevance to each question.
func (s *Synthesizer) SynthesizeAll(ctx context.Context, questions []model.EvolvedQuestion, docs []model.Document, settings model.GenerationSettings) ([]model.Answer, llm.TokenUsage) {
	answers := make([]model.Answer, len(questions))
	usage := &usageTracker{}

	g, gctx := errgroup.WithContext(ctx)

	for i, q := range questions {
		g.Go(func() error {
			if err := s.sem.Acquire(gctx, 1); err != nil {
				return nil
			}
			defer s.sem.Release(1)

			answer, u := s.Synthesize(gctx, q, rankedExcerpts(q.Question, docs), settings)
			usage.add(u)
			answers[i] = answer
			return nil
		})
	}
	_ = g.Wait()

	return answers, usage.snapshot()
}

// rankedExcerpts returns the most relevant documents' leading content,
// highest relevance first.
func rankedExcerpts(question string, docs []model.Document) []string {
	type scored struct {
		idx   int
		score float64
	}
	ranked := make([]scored, len(docs))
	for i, doc := range docs {
		ranked[i] = scored{idx: i, score: relevance.Score(question, doc.Content)}
	}
	sort.SliceStable(ranked, func(a, b int) bool { return ranked[a].score > ranked[b].score })

	n := min(maxAnswerExcerpts, len(ranked))
	out := make([]string, 0, n)
	for _, r := range ranked[:n] {
		out = append(out, truncate(docs[r.idx].Content, answerExcerptBudget))
	}
	return out
}
