package main

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/evolsynth-api/internal/cache"
	"github.com/sells-group/evolsynth-api/internal/evolve"
	"github.com/sells-group/evolsynth-api/internal/judge"
	"github.com/sells-group/evolsynth-api/internal/model"
	"github.com/sells-group/evolsynth-api/internal/store"
	"github.com/sells-group/evolsynth-api/pkg/llm"
)

// appEnv holds the wired application dependencies. Lifecycle is owned here,
// at the composition root.
type appEnv struct {
	Generator *evolve.Generator
	Judge     *judge.Scorer
	Cache     *cache.ResultCache
	Store     *store.SQLiteStore
}

func (e *appEnv) Close() {
	if e.Store != nil {
		_ = e.Store.Close()
	}
	if e.Cache != nil {
		_ = e.Cache.Close()
	}
}

// initEnv wires the LLM client, cache, store, and pipelines from config.
func initEnv(ctx context.Context) (*appEnv, error) {
	if cfg.Anthropic.Key == "" {
		return nil, eris.New("EVOLSYNTH_ANTHROPIC_KEY is required")
	}

	client := llm.RateLimited(
		llm.NewClient(cfg.Anthropic.Key),
		cfg.Anthropic.RequestsPerSec,
		cfg.Anthropic.RateLimitBurst,
	)

	resultCache := initCache(ctx)

	st, err := store.NewSQLite(cfg.Store.Path)
	if err != nil {
		return nil, eris.Wrap(err, "open run store")
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate run store")
	}

	genCfg := evolve.Config{
		Model:             cfg.Anthropic.Model,
		BatchSize:         cfg.Generation.BatchSize,
		MaxConcurrency:    cfg.Generation.MaxConcurrency,
		ContextMaxLength:  cfg.Generation.ContextMaxLength,
		LLMTimeout:        cfg.Anthropic.Timeout(),
		SummarizeContexts: cfg.Generation.SummarizeContexts,
	}
	defaults := model.GenerationSettings{
		ExecutionMode:              model.ExecutionConcurrent,
		MaxBaseQuestionsPerDoc:     cfg.Generation.MaxBaseQuestionsPerDoc,
		SimpleEvolutionCount:       cfg.Generation.SimpleEvolutionCount,
		MultiContextEvolutionCount: cfg.Generation.MultiContextEvolutionCount,
		ReasoningEvolutionCount:    cfg.Generation.ReasoningEvolutionCount,
		ComplexEvolutionCount:      cfg.Generation.ComplexEvolutionCount,
		Temperature:                cfg.Generation.Temperature,
		MaxTokens:                  cfg.Anthropic.DefaultMaxTokens,
	}

	judgeCfg := judge.Config{
		Model:          cfg.Anthropic.Model,
		MaxConcurrency: cfg.Evaluation.MaxConcurrency,
		LLMTimeout:     cfg.Anthropic.Timeout(),
		MaxTokens:      cfg.Evaluation.MaxTokens,
	}

	return &appEnv{
		Generator: evolve.NewGenerator(client, resultCache, genCfg, defaults),
		Judge:     judge.NewScorer(client, judgeCfg),
		Cache:     resultCache,
		Store:     st,
	}, nil
}

// initCache connects to Redis when configured, falling back to the in-memory
// store when Redis is absent or unreachable.
func initCache(ctx context.Context) *cache.ResultCache {
	if cfg.Cache.RedisURL != "" {
		redisStore, err := cache.NewRedis(ctx, cfg.Cache.RedisURL)
		if err == nil {
			zap.L().Info("result cache using redis")
			return cache.NewResultCache(redisStore, cfg.Cache.TTL(), "redis")
		}
		zap.L().Warn("redis unavailable, falling back to in-memory cache", zap.Error(err))
	}
	return cache.NewResultCache(cache.NewMemory(), cfg.Cache.TTL(), "memory")
}
