package evolve

import (
	"context"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/sells-group/evolsynth-api/internal/model"
	"github.com/sells-group/evolsynth-api/internal/textclean"
	"github.com/sells-group/evolsynth-api/pkg/llm"
)

// Config holds the static pipeline knobs. Per-request overrides live in
// model.GenerationSettings.
type Config struct {
	Model            string
	BatchSize        int
	MaxConcurrency   int
	ContextMaxLength int
	LLMTimeout       time.Duration

	// SummarizeContexts switches context extraction from keyword snippets
	// to LLM summarization of the selected document.
	SummarizeContexts bool
}

func (c Config) batchSize() int {
	if c.BatchSize < 1 {
		return 5
	}
	return c.BatchSize
}

func (c Config) maxConcurrency() int {
	if c.MaxConcurrency < 1 {
		return 8
	}
	return c.MaxConcurrency
}

func (c Config) contextMaxLength() int {
	if c.ContextMaxLength < 1 {
		return 300
	}
	return c.ContextMaxLength
}

// usageTracker accumulates token usage across concurrent workers.
type usageTracker struct {
	mu    sync.Mutex
	total llm.TokenUsage
}

func (t *usageTracker) add(u llm.TokenUsage) {
	t.mu.Lock()
	t.total.Add(u)
	t.mu.Unlock()
}

func (t *usageTracker) snapshot() llm.TokenUsage {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.total
}

// Engine produces base questions from documents and evolves them across the
// four transformation categories.
type Engine struct {
	llm llm.Client
	cfg Config

	// sem bounds in-flight LLM calls. NewGenerator shares one semaphore
	// between the engine, synthesizer, and context extractor so the
	// configured concurrency holds across every phase, not per phase.
	sem *semaphore.Weighted
}

// NewEngine creates an evolution engine backed by the given LLM client.
func NewEngine(client llm.Client, cfg Config) *Engine {
	return &Engine{llm: client, cfg: cfg, sem: semaphore.NewWeighted(int64(cfg.maxConcurrency()))}
}

// GenerateBaseQuestions extracts up to perDoc questions from each document
// with one LLM call per document, run concurrently. A failed document is
// skipped; it never aborts the batch.
func (e *Engine) GenerateBaseQuestions(ctx context.Context, docs []model.Document, settings model.GenerationSettings) ([]model.BaseQuestion, llm.TokenUsage) {
	perDoc := settings.MaxBaseQuestionsPerDoc
	if perDoc < 1 {
		perDoc = 3
	}

	perDocResults := make([][]model.BaseQuestion, len(docs))
	usage := &usageTracker{}

	g, gctx := errgroup.WithContext(ctx)

	for i, doc := range docs {
		if strings.TrimSpace(doc.Content) == "" {
			continue
		}
		g.Go(func() error {
			if err := e.sem.Acquire(gctx, 1); err != nil {
				return nil
			}
			defer e.sem.Release(1)

			req := llm.UserPrompt(e.cfg.Model, baseQuestionsPrompt(doc.Content, perDoc), settings.MaxTokens, &settings.Temperature)
			text, u, err := llm.CompleteText(gctx, e.llm, req, e.cfg.LLMTimeout)
			usage.add(u)
			if err != nil {
				zap.L().Warn("base question extraction failed",
					zap.Int("document_index", i),
					zap.Error(err),
				)
				return nil // skip this document, keep the rest
			}

			questions := parseQuestionList(text, perDoc)
			out := make([]model.BaseQuestion, 0, len(questions))
			for _, q := range questions {
				out = append(out, model.BaseQuestion{
					ID:                  uuid.NewString(),
					Question:            q,
					SourceDocumentIndex: i,
					Context:             truncate(doc.Content, excerptLen),
				})
			}
			perDocResults[i] = out
			return nil
		})
	}
	_ = g.Wait()

	var all []model.BaseQuestion
	for _, qs := range perDocResults {
		all = append(all, qs...)
	}
	return all, usage.snapshot()
}

// Evolve produces up to count evolved questions of the given type from the
// base question set. Questions are processed in fixed-size batches; batches
// run concurrently within the shared worker limit, items within a batch
// sequentially. A failed LLM call degrades to the original question text.
func (e *Engine) Evolve(ctx context.Context, base []model.BaseQuestion, docs []model.Document, evoType model.EvolutionType, count int, settings model.GenerationSettings) ([]model.EvolvedQuestion, llm.TokenUsage) {
	usage := &usageTracker{}
	if count < 1 || len(base) == 0 {
		return nil, usage.snapshot()
	}
	if evoType == model.EvolutionMultiContext && len(docs) < 2 {
		zap.L().Debug("skipping multi_context evolution, fewer than two documents")
		return nil, usage.snapshot()
	}

	if count > len(base) {
		count = len(base)
	}
	selected := base[:count]

	results := make([]model.EvolvedQuestion, len(selected))
	batchSize := e.cfg.batchSize()

	g, gctx := errgroup.WithContext(ctx)

	for start := 0; start < len(selected); start += batchSize {
		end := min(start+batchSize, len(selected))
		g.Go(func() error {
			if err := e.sem.Acquire(gctx, 1); err != nil {
				return nil
			}
			defer e.sem.Release(1)

			for idx := start; idx < end; idx++ {
				results[idx] = e.evolveOne(gctx, selected[idx], docs, evoType, settings, usage)
			}
			return nil
		})
	}
	_ = g.Wait()

	return results, usage.snapshot()
}

func (e *Engine) evolveOne(ctx context.Context, q model.BaseQuestion, docs []model.Document, evoType model.EvolutionType, settings model.GenerationSettings, usage *usageTracker) model.EvolvedQuestion {
	excerpt := q.Context
	if excerpt == "" && q.SourceDocumentIndex >= 0 && q.SourceDocumentIndex < len(docs) {
		excerpt = truncate(docs[q.SourceDocumentIndex].Content, excerptLen)
	}

	var prompt string
	if evoType == model.EvolutionMultiContext {
		other := otherDocumentIndex(q.SourceDocumentIndex, len(docs))
		prompt = multiContextEvolutionPrompt(q.Question, excerpt, truncate(docs[other].Content, excerptLen))
	} else {
		prompt = evolutionPrompt(evoType, q.Question, excerpt)
	}

	question := q.Question
	req := llm.UserPrompt(e.cfg.Model, prompt, settings.MaxTokens, &settings.Temperature)
	text, u, err := llm.CompleteText(ctx, e.llm, req, e.cfg.LLMTimeout)
	usage.add(u)
	if err != nil {
		zap.L().Warn("evolution call failed, falling back to original question",
			zap.String("evolution_type", string(evoType)),
			zap.String("base_question_id", q.ID),
			zap.Error(err),
		)
	} else {
		question = text
	}

	return model.EvolvedQuestion{
		ID:               uuid.NewString(),
		Question:         textclean.Clean(question),
		EvolutionType:    evoType,
		SourceContextIDs: []string{q.ID},
		ComplexityLevel:  evoType.ComplexityLevel(),
	}
}

// EvolveAll runs all four evolution branches over the same base question set
// and concatenates the results. Branches run concurrently unless the settings
// request sequential execution. Result order across branches is not
// meaningful.
func (e *Engine) EvolveAll(ctx context.Context, base []model.BaseQuestion, docs []model.Document, settings model.GenerationSettings) ([]model.EvolvedQuestion, llm.TokenUsage) {
	usage := &usageTracker{}
	branchResults := make([][]model.EvolvedQuestion, len(model.AllEvolutionTypes))

	if settings.ExecutionMode == model.ExecutionSequential {
		for i, t := range model.AllEvolutionTypes {
			evolved, u := e.Evolve(ctx, base, docs, t, settings.CountFor(t), settings)
			usage.add(u)
			branchResults[i] = evolved
		}
	} else {
		g, gctx := errgroup.WithContext(ctx)
		for i, t := range model.AllEvolutionTypes {
			g.Go(func() error {
				evolved, u := e.Evolve(gctx, base, docs, t, settings.CountFor(t), settings)
				usage.add(u)
				branchResults[i] = evolved
				return nil
			})
		}
		_ = g.Wait()
	}

	var all []model.EvolvedQuestion
	for _, evolved := range branchResults {
		all = append(all, evolved...)
	}
	return all, usage.snapshot()
}

// otherDocumentIndex picks the first document index different from source.
func otherDocumentIndex(source, docCount int) int {
	if source == 0 && docCount > 1 {
		return 1
	}
	return 0
}

var questionLinePrefix = regexp.MustCompile(`^\s*(?:\d{1,3}[.)]|[-*•])\s*`)

// parseQuestionList extracts up to limit question lines from an LLM numbered
// list response.
func parseQuestionList(text string, limit int) []string {
	var out []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(questionLinePrefix.ReplaceAllString(line, ""))
		if line == "" || !strings.HasSuffix(line, "?") {
			continue
		}
		out = append(out, line)
		if len(out) == limit {
			break
		}
	}
	return out
}
