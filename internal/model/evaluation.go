package model

import "time"

// Evaluation metric names accepted by the judge pipeline.
const (
	MetricQuestionQuality        = "question_quality"
	MetricAnswerAccuracy         = "answer_accuracy"
	MetricEvolutionEffectiveness = "evolution_effectiveness"
)

// DefaultEvaluationMetrics is the full metric set, used when a request does
// not name specific metrics.
var DefaultEvaluationMetrics = []string{
	MetricQuestionQuality,
	MetricAnswerAccuracy,
	MetricEvolutionEffectiveness,
}

// KnownMetric reports whether name is a supported evaluation metric.
func KnownMetric(name string) bool {
	switch name {
	case MetricQuestionQuality, MetricAnswerAccuracy, MetricEvolutionEffectiveness:
		return true
	}
	return false
}

// QuestionEvaluation holds the per-metric scores for one question. Scores are
// normalized to [0.0, 0.95].
type QuestionEvaluation struct {
	QuestionID string             `json:"question_id"`
	Scores     map[string]float64 `json:"scores"`
}

// EvaluationSummary aggregates statistics over an evaluation run.
type EvaluationSummary struct {
	TotalQuestionsEvaluated   int            `json:"total_questions_evaluated"`
	AverageComplexity         float64        `json:"average_complexity"`
	EvolutionTypeDistribution map[string]int `json:"evolution_type_distribution"`
	EvaluationCoverage        float64        `json:"evaluation_coverage"`
}

// EvaluationResult is the output of one LLM-as-judge evaluation run.
type EvaluationResult struct {
	EvaluationID          string               `json:"evaluation_id"`
	OverallScores         map[string]float64   `json:"overall_scores"`
	DetailedResults       []QuestionEvaluation `json:"detailed_results"`
	Summary               EvaluationSummary    `json:"summary_statistics"`
	EvaluationTimeSeconds float64              `json:"evaluation_time_seconds"`
	Timestamp             time.Time            `json:"timestamp"`
}
