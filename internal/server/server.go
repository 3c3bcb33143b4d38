package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/sells-group/evolsynth-api/internal/cache"
	"github.com/sells-group/evolsynth-api/internal/model"
	"github.com/sells-group/evolsynth-api/internal/store"
	"github.com/sells-group/evolsynth-api/pkg/llm"
)

// GenerationService runs the synthesis pipeline. The bool result reports a
// cache hit.
type GenerationService interface {
	Generate(ctx context.Context, docs []model.Document, settings model.GenerationSettings) (*model.GenerationResult, bool, error)
}

// EvaluationService runs LLM-as-judge scoring over generated triples.
type EvaluationService interface {
	Evaluate(ctx context.Context, questions []model.EvolvedQuestion, answers []model.Answer, metrics []string) (*model.EvaluationResult, llm.TokenUsage)
}

// Options configures a Server.
type Options struct {
	Generator      GenerationService
	Judge          EvaluationService
	Cache          *cache.ResultCache
	Store          store.Store // may be nil; run history is then kept in memory only
	AllowedOrigins []string
}

// Server is the HTTP surface of the synthesis API.
type Server struct {
	router   chi.Router
	gen      GenerationService
	judge    EvaluationService
	cache    *cache.ResultCache
	store    store.Store
	registry *runRegistry
}

// New assembles the server and its routes.
func New(opts Options) *Server {
	s := &Server{
		gen:      opts.Generator,
		judge:    opts.Judge,
		cache:    opts.Cache,
		store:    opts.Store,
		registry: newRunRegistry(),
	}

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))
	r.Use(requestLogger)

	r.Get("/health", s.handleHealth)
	r.Post("/generate", s.handleGenerate)
	r.Get("/generate/status/{id}", s.handleGenerationStatus)
	r.Post("/evaluate", s.handleEvaluate)
	r.Get("/documents/sample", s.handleSampleDocuments)
	r.Delete("/cache/clear", s.handleCacheClear)
	r.Get("/cache/stats", s.handleCacheStats)
	r.Get("/runs", s.handleListRuns)

	s.router = r
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe blocks serving HTTP until ctx is canceled, then drains
// in-flight requests.
func (s *Server) ListenAndServe(ctx context.Context, port int) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", port),
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		zap.L().Info("http server listening", zap.Int("port", port))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return eris.Wrap(err, "server: listen")
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return eris.Wrap(err, "server: shutdown")
	}
	zap.L().Info("http server stopped")
	return nil
}
