package server

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/sells-group/evolsynth-api/internal/model"
)

type generateRequest struct {
	Documents []model.Document         `json:"documents"`
	Settings  model.GenerationSettings `json:"settings"`
}

type generateResponse struct {
	*model.GenerationResult
	RunID    string `json:"run_id"`
	CacheHit bool   `json:"cache_hit"`
}

type evaluateRequest struct {
	Questions []model.EvolvedQuestion `json:"evolved_questions"`
	Answers   []model.Answer          `json:"question_answers"`
	Metrics   []string                `json:"metrics,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := map[string]any{
		"status":  "ok",
		"service": "evolsynth-api",
	}

	deps := map[string]string{}
	if s.cache != nil {
		if err := s.cache.Ping(r.Context()); err != nil {
			deps["cache"] = "unavailable"
			health["status"] = "degraded"
		} else {
			deps["cache"] = "ok"
		}
	}
	if s.store != nil {
		deps["store"] = "ok"
	}
	health["dependencies"] = deps

	writeJSON(w, http.StatusOK, health)
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req generateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validateDocuments(req.Documents); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	runID := uuid.NewString()
	start := time.Now()
	s.recordRun(r, model.GenerationRun{
		ID:            runID,
		Status:        model.RunRunning,
		DocumentCount: len(req.Documents),
		FastMode:      req.Settings.FastMode,
		CreatedAt:     start.UTC(),
	})

	result, cacheHit, err := s.gen.Generate(r.Context(), req.Documents, req.Settings)
	if err != nil {
		s.finishRun(r, model.GenerationRun{
			ID:            runID,
			Status:        model.RunFailed,
			DocumentCount: len(req.Documents),
			FastMode:      req.Settings.FastMode,
			DurationMs:    time.Since(start).Milliseconds(),
			Error:         err.Error(),
			CreatedAt:     start.UTC(),
		})
		writeError(w, http.StatusInternalServerError, "generation failed")
		return
	}

	s.finishRun(r, model.GenerationRun{
		ID:            runID,
		Status:        model.RunCompleted,
		DocumentCount: len(req.Documents),
		Questions:     len(result.EvolvedQuestions),
		Answers:       len(result.Answers),
		Contexts:      len(result.Contexts),
		CacheHit:      cacheHit,
		FastMode:      req.Settings.FastMode,
		DurationMs:    time.Since(start).Milliseconds(),
		CreatedAt:     start.UTC(),
	})

	writeJSON(w, http.StatusOK, generateResponse{GenerationResult: result, RunID: runID, CacheHit: cacheHit})
}

func (s *Server) handleGenerationStatus(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	if run, ok := s.registry.get(id); ok {
		writeJSON(w, http.StatusOK, run)
		return
	}

	if s.store != nil {
		run, err := s.store.GetRun(r.Context(), id)
		if err != nil {
			zap.L().Error("run lookup failed", zap.String("id", id), zap.Error(err))
			writeError(w, http.StatusInternalServerError, "run lookup failed")
			return
		}
		if run != nil {
			writeJSON(w, http.StatusOK, run)
			return
		}
	}

	writeError(w, http.StatusNotFound, "generation not found")
}

func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	var req evaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if len(req.Questions) == 0 {
		writeError(w, http.StatusBadRequest, "at least one evolved question is required")
		return
	}
	for _, metric := range req.Metrics {
		if !model.KnownMetric(metric) {
			writeError(w, http.StatusBadRequest, "unknown metric: "+metric)
			return
		}
	}

	result, _ := s.judge.Evaluate(r.Context(), req.Questions, req.Answers, req.Metrics)
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleSampleDocuments(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"documents": SampleDocuments(),
	})
}

func (s *Server) handleCacheClear(w http.ResponseWriter, r *http.Request) {
	if s.cache == nil {
		writeError(w, http.StatusServiceUnavailable, "cache not configured")
		return
	}
	cleared, err := s.cache.Clear(r.Context())
	if err != nil {
		zap.L().Error("cache clear failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "cache clear failed")
		return
	}
	writeJSON(w, http.StatusOK, map[string]int{"cleared": cleared})
}

func (s *Server) handleCacheStats(w http.ResponseWriter, r *http.Request) {
	if s.cache == nil {
		writeError(w, http.StatusServiceUnavailable, "cache not configured")
		return
	}
	writeJSON(w, http.StatusOK, s.cache.Stats())
}

func (s *Server) handleListRuns(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeError(w, http.StatusServiceUnavailable, "run history not configured")
		return
	}
	runs, err := s.store.ListRuns(r.Context(), 50)
	if err != nil {
		zap.L().Error("list runs failed", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "list runs failed")
		return
	}
	if runs == nil {
		runs = []model.GenerationRun{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"runs": runs})
}

// recordRun stores a new run in the in-memory registry and, when configured,
// the persistent store.
func (s *Server) recordRun(r *http.Request, run model.GenerationRun) {
	s.registry.put(run)
	if s.store == nil {
		return
	}
	if err := s.store.InsertRun(r.Context(), run); err != nil {
		zap.L().Warn("failed to persist generation run", zap.String("id", run.ID), zap.Error(err))
	}
}

// finishRun records the terminal state of a run created by recordRun.
func (s *Server) finishRun(r *http.Request, run model.GenerationRun) {
	s.registry.put(run)
	if s.store == nil {
		return
	}
	if err := s.store.UpdateRunOutcome(r.Context(), run); err != nil {
		zap.L().Warn("failed to update generation run", zap.String("id", run.ID), zap.Error(err))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("failed to encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
