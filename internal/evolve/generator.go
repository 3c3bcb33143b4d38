package evolve

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/sells-group/evolsynth-api/internal/cache"
	"github.com/sells-group/evolsynth-api/internal/model"
	"github.com/sells-group/evolsynth-api/pkg/llm"
)

// Strategy is one named way of producing a GenerationResult from documents.
// Implementations never fail a request for per-item LLM errors; they return
// degraded content instead.
type Strategy interface {
	Name() string
	Run(ctx context.Context, docs []model.Document, settings model.GenerationSettings) (*model.GenerationResult, llm.TokenUsage)
}

// Generator is the composition root of the synthesis pipeline: it applies
// setting defaults, consults the result cache, dispatches to the deep or
// fast strategy, and fills in run metrics.
type Generator struct {
	deep  Strategy
	fast  Strategy
	cache *cache.ResultCache
	cfg   Config

	defaults model.GenerationSettings
	now      func() time.Time
}

// NewGenerator wires a generator from an LLM client and configuration.
// resultCache may be nil; generation then always computes fresh.
func NewGenerator(client llm.Client, resultCache *cache.ResultCache, cfg Config, defaults model.GenerationSettings) *Generator {
	engine := NewEngine(client, cfg)
	synth := NewSynthesizer(client, cfg)
	extractor := NewContextExtractor(client, cfg)
	if cfg.SummarizeContexts {
		extractor = NewSummarizingContextExtractor(client, cfg)
	}

	// One worker pool for the whole pipeline: the configured concurrency
	// caps in-flight LLM calls across all phases together.
	sem := semaphore.NewWeighted(int64(cfg.maxConcurrency()))
	engine.sem = sem
	synth.sem = sem
	extractor.sem = sem

	return &Generator{
		deep: &deepStrategy{
			engine:    engine,
			synth:     synth,
			extractor: extractor,
		},
		fast:     &fastStrategy{llm: client, extractor: extractor, cfg: cfg},
		cache:    resultCache,
		cfg:      cfg,
		defaults: defaults,
		now:      time.Now,
	}
}

// Generate runs the pipeline for the given documents. The bool result reports
// whether the result was served from cache. A complete GenerationResult is
// always returned, possibly with degraded placeholder content for failed
// items.
func (g *Generator) Generate(ctx context.Context, docs []model.Document, settings model.GenerationSettings) (*model.GenerationResult, bool, error) {
	settings = g.applyDefaults(settings)

	key := cache.DeriveKey(docs, settings)
	if g.cache != nil {
		if cached, ok := g.cache.Get(ctx, key); ok {
			zap.L().Info("generation served from cache", zap.String("generation_id", cached.GenerationID))
			return cached, true, nil
		}
	}

	strategy := g.deep
	if settings.FastMode {
		strategy = g.fast
	}

	start := g.now()
	result, usage := strategy.Run(ctx, docs, settings)
	elapsed := g.now().Sub(start).Seconds()

	result.GenerationID = uuid.NewString()
	result.TokenUsage = model.TokenUsage{
		InputTokens:         int(usage.InputTokens),
		OutputTokens:        int(usage.OutputTokens),
		CacheCreationTokens: int(usage.CacheCreationInputTokens),
		CacheReadTokens:     int(usage.CacheReadInputTokens),
		Cost:                usage.EstimateCost(g.cfg.Model),
	}
	result.Metrics = model.PerformanceMetrics{
		ExecutionTimeSeconds: elapsed,
		QuestionsGenerated:   len(result.EvolvedQuestions),
		AnswersGenerated:     len(result.Answers),
		ContextsExtracted:    len(result.Contexts),
		ExecutionMode:        string(executionMode(settings)),
	}
	if elapsed > 0 {
		result.Metrics.QuestionsPerSecond = float64(len(result.EvolvedQuestions)) / elapsed
	}

	usage.LogCost(g.cfg.Model, "generation/"+strategy.Name())
	zap.L().Info("generation complete",
		zap.String("generation_id", result.GenerationID),
		zap.String("strategy", strategy.Name()),
		zap.Int("questions", len(result.EvolvedQuestions)),
		zap.Float64("seconds", elapsed),
	)

	if g.cache != nil {
		g.cache.Set(ctx, key, result)
	}
	return result, false, nil
}

func (g *Generator) applyDefaults(s model.GenerationSettings) model.GenerationSettings {
	d := g.defaults
	if s.ExecutionMode == "" {
		s.ExecutionMode = d.ExecutionMode
	}
	if s.MaxBaseQuestionsPerDoc < 1 {
		s.MaxBaseQuestionsPerDoc = d.MaxBaseQuestionsPerDoc
	}
	if s.SimpleEvolutionCount < 1 {
		s.SimpleEvolutionCount = d.SimpleEvolutionCount
	}
	if s.MultiContextEvolutionCount < 1 {
		s.MultiContextEvolutionCount = d.MultiContextEvolutionCount
	}
	if s.ReasoningEvolutionCount < 1 {
		s.ReasoningEvolutionCount = d.ReasoningEvolutionCount
	}
	if s.ComplexEvolutionCount < 1 {
		s.ComplexEvolutionCount = d.ComplexEvolutionCount
	}
	if s.Temperature == 0 {
		s.Temperature = d.Temperature
	}
	if s.MaxTokens < 1 {
		s.MaxTokens = d.MaxTokens
	}
	return s
}

func executionMode(s model.GenerationSettings) model.ExecutionMode {
	if s.ExecutionMode == model.ExecutionSequential {
		return model.ExecutionSequential
	}
	return model.ExecutionConcurrent
}

// deepStrategy is the per-branch multi-call pipeline: base question
// extraction, four concurrent evolution branches, then answer synthesis and
// context extraction fanned out over the merged question set.
type deepStrategy struct {
	engine    *Engine
	synth     *Synthesizer
	extractor *ContextExtractor
}

func (s *deepStrategy) Name() string { return "deep" }

func (s *deepStrategy) Run(ctx context.Context, docs []model.Document, settings model.GenerationSettings) (*model.GenerationResult, llm.TokenUsage) {
	usage := &usageTracker{}

	base, u := s.engine.GenerateBaseQuestions(ctx, docs, settings)
	usage.add(u)

	evolved, u := s.engine.EvolveAll(ctx, base, docs, settings)
	usage.add(u)

	var (
		answers  []model.Answer
		contexts []model.ContextRecord
	)
	if settings.ExecutionMode == model.ExecutionSequential {
		answers, u = s.synth.SynthesizeAll(ctx, evolved, docs, settings)
		usage.add(u)
		contexts, u = s.extractor.ExtractAll(ctx, evolved, docs)
		usage.add(u)
	} else {
		g, gctx := errgroup.WithContext(ctx)
		g.Go(func() error {
			a, au := s.synth.SynthesizeAll(gctx, evolved, docs, settings)
			usage.add(au)
			answers = a
			return nil
		})
		g.Go(func() error {
			c, cu := s.extractor.ExtractAll(gctx, evolved, docs)
			usage.add(cu)
			contexts = c
			return nil
		})
		_ = g.Wait()
	}

	return &model.GenerationResult{
		EvolvedQuestions: evolved,
		Answers:          answers,
		Contexts:         contexts,
	}, usage.snapshot()
}
