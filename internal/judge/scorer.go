package judge

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/sells-group/evolsynth-api/internal/model"
	"github.com/sells-group/evolsynth-api/pkg/llm"
)

// globalScoreCeiling is the hard upper bound on every normalized score. No
// result may read as perfect.
const globalScoreCeiling = 0.95

// missingAnswerRawScore is assigned without an LLM call when a question has
// no answer to judge.
const missingAnswerRawScore = 2.0

// metricRawCaps bounds the raw 1-9 score per metric before normalization, a
// second safety layer under the global ceiling. The constants are business
// rules; keep them exactly.
var metricRawCaps = map[string]float64{
	model.MetricQuestionQuality:        8.8,
	model.MetricAnswerAccuracy:         8.5,
	model.MetricEvolutionEffectiveness: 8.7,
}

// Config holds the judge pipeline knobs.
type Config struct {
	Model          string
	MaxConcurrency int
	LLMTimeout     time.Duration
	MaxTokens      int64
}

func (c Config) maxConcurrency() int {
	if c.MaxConcurrency < 1 {
		return 8
	}
	return c.MaxConcurrency
}

func (c Config) maxTokens() int64 {
	if c.MaxTokens < 1 {
		return 1024
	}
	return c.MaxTokens
}

// Scorer runs LLM-as-judge evaluation over generated question/answer pairs.
type Scorer struct {
	llm llm.Client
	cfg Config
}

// NewScorer creates an evaluation scorer.
func NewScorer(client llm.Client, cfg Config) *Scorer {
	return &Scorer{llm: client, cfg: cfg}
}

// ScoreMetric judges one question on one metric and returns a normalized
// score in [0.0, 0.95]. An LLM failure yields the fixed mid-scale fallback
// rather than an error; a missing answer for answer_accuracy yields a fixed
// low score without invoking the LLM.
func (s *Scorer) ScoreMetric(ctx context.Context, metric string, question model.EvolvedQuestion, answer string) (float64, llm.TokenUsage) {
	if metric == model.MetricAnswerAccuracy && answer == "" {
		return normalize(metric, missingAnswerRawScore), llm.TokenUsage{}
	}

	var prompt string
	switch metric {
	case model.MetricAnswerAccuracy:
		prompt = answerAccuracyPrompt(question, answer)
	case model.MetricEvolutionEffectiveness:
		prompt = evolutionEffectivenessPrompt(question)
	default:
		prompt = questionQualityPrompt(question)
	}

	req := llm.UserPrompt(s.cfg.Model, prompt, s.cfg.maxTokens(), nil)
	text, usage, err := llm.CompleteText(ctx, s.llm, req, s.cfg.LLMTimeout)
	if err != nil {
		zap.L().Warn("judge call failed, using mid-scale fallback",
			zap.String("metric", metric),
			zap.String("question_id", question.ID),
			zap.Error(err),
		)
		return normalize(metric, fallbackRawScore), usage
	}

	return normalize(metric, extractScore(text)), usage
}

// normalize applies the per-metric raw cap, maps the 1-9 scale to [0,1], and
// enforces the global ceiling.
func normalize(metric string, raw float64) float64 {
	if limit, ok := metricRawCaps[metric]; ok && raw > limit {
		raw = limit
	}
	score := (raw - 1) / 8
	if score < 0 {
		score = 0
	}
	if score > globalScoreCeiling {
		score = globalScoreCeiling
	}
	return score
}

// Evaluate judges every question on every requested metric, questions fanned
// out concurrently up to the configured worker width. A per-question failure
// degrades to fallback scores; the evaluation always completes.
func (s *Scorer) Evaluate(ctx context.Context, questions []model.EvolvedQuestion, answers []model.Answer, metrics []string) (*model.EvaluationResult, llm.TokenUsage) {
	if len(metrics) == 0 {
		metrics = model.DefaultEvaluationMetrics
	}

	answerByID := make(map[string]string, len(answers))
	for _, a := range answers {
		answerByID[a.QuestionID] = a.Answer
	}

	start := time.Now()
	detailed := make([]model.QuestionEvaluation, len(questions))

	var mu sync.Mutex
	var usage llm.TokenUsage

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.cfg.maxConcurrency())

	for i, q := range questions {
		g.Go(func() error {
			scores := make(map[string]float64, len(metrics))
			for _, metric := range metrics {
				score, u := s.ScoreMetric(gctx, metric, q, answerByID[q.ID])
				scores[metric] = score
				mu.Lock()
				usage.Add(u)
				mu.Unlock()
			}
			detailed[i] = model.QuestionEvaluation{QuestionID: q.ID, Scores: scores}
			return nil
		})
	}
	_ = g.Wait()

	result := &model.EvaluationResult{
		EvaluationID:          uuid.NewString(),
		OverallScores:         overallScores(detailed, metrics),
		DetailedResults:       detailed,
		Summary:               summarize(questions, detailed),
		EvaluationTimeSeconds: time.Since(start).Seconds(),
		Timestamp:             time.Now().UTC(),
	}

	usage.LogCost(s.cfg.Model, "evaluation")
	return result, usage
}

// overallScores averages each metric over all evaluated questions.
func overallScores(detailed []model.QuestionEvaluation, metrics []string) map[string]float64 {
	overall := make(map[string]float64, len(metrics))
	if len(detailed) == 0 {
		return overall
	}
	for _, metric := range metrics {
		var sum float64
		for _, d := range detailed {
			sum += d.Scores[metric]
		}
		overall[metric] = sum / float64(len(detailed))
	}
	return overall
}

func summarize(questions []model.EvolvedQuestion, detailed []model.QuestionEvaluation) model.EvaluationSummary {
	summary := model.EvaluationSummary{
		TotalQuestionsEvaluated:   len(questions),
		EvolutionTypeDistribution: make(map[string]int),
	}
	if len(questions) == 0 {
		return summary
	}

	var complexitySum int
	for _, q := range questions {
		complexitySum += q.ComplexityLevel
		summary.EvolutionTypeDistribution[string(q.EvolutionType)]++
	}
	summary.AverageComplexity = float64(complexitySum) / float64(len(questions))

	scored := 0
	for _, d := range detailed {
		if len(d.Scores) > 0 {
			scored++
		}
	}
	summary.EvaluationCoverage = float64(scored) / float64(len(questions))
	return summary
}
