package model

import (
	"path"
	"strconv"
	"strings"
)

// Document is an input document for synthetic data generation. The pipeline
// only reads it; the caller owns the content and metadata.
type Document struct {
	Content  string            `json:"content"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// Source returns the document's source identifier from metadata, checking
// "source" first and "filename" second. Returns "" if neither is set.
func (d Document) Source() string {
	if s := d.Metadata["source"]; s != "" {
		return s
	}
	return d.Metadata["filename"]
}

// Title derives a human-readable title for the document at the given index.
// Path components and the file extension are stripped from the source
// identifier; documents without one are titled "Document N" (1-based).
func (d Document) Title(index int) string {
	src := d.Source()
	if src == "" {
		return "Document " + strconv.Itoa(index+1)
	}
	base := path.Base(strings.ReplaceAll(src, "\\", "/"))
	if ext := path.Ext(base); ext != "" && len(ext) < len(base) {
		base = strings.TrimSuffix(base, ext)
	}
	if base == "" || base == "." || base == "/" {
		return "Document " + strconv.Itoa(index+1)
	}
	return base
}

// BaseQuestion is an unevolved question extracted directly from one document.
type BaseQuestion struct {
	ID                  string `json:"id"`
	Question            string `json:"question"`
	SourceDocumentIndex int    `json:"source_document_index"`
	Context             string `json:"context"`
}

// Answer pairs a generated answer with its question. The relationship to
// EvolvedQuestion is 1:1, joined by QuestionID.
type Answer struct {
	QuestionID string `json:"question_id"`
	Answer     string `json:"answer"`
}

// ContextEntry is a single supporting excerpt with source attribution.
type ContextEntry struct {
	Text          string `json:"text"`
	Source        string `json:"source"`
	DocumentIndex int    `json:"document_index"`
}

// ContextRecord holds the supporting contexts selected for one question.
type ContextRecord struct {
	QuestionID string         `json:"question_id"`
	Contexts   []ContextEntry `json:"contexts"`
}

// PerformanceMetrics summarizes one generation run.
type PerformanceMetrics struct {
	ExecutionTimeSeconds float64 `json:"execution_time_seconds"`
	QuestionsGenerated   int     `json:"questions_generated"`
	AnswersGenerated     int     `json:"answers_generated"`
	ContextsExtracted    int     `json:"contexts_extracted"`
	QuestionsPerSecond   float64 `json:"questions_per_second"`
	ExecutionMode        string  `json:"execution_mode"`
}

// GenerationResult is the complete output of one generation request.
// Callers must join answers and contexts to questions by question ID; array
// positions carry no meaning across the concurrently produced slices.
type GenerationResult struct {
	GenerationID     string             `json:"generation_id"`
	EvolvedQuestions []EvolvedQuestion  `json:"evolved_questions"`
	Answers          []Answer           `json:"question_answers"`
	Contexts         []ContextRecord    `json:"question_contexts"`
	Metrics          PerformanceMetrics `json:"performance_metrics"`
	TokenUsage       TokenUsage         `json:"token_usage"`
}

// TokenUsage tracks token consumption across pipeline phases.
type TokenUsage struct {
	InputTokens         int     `json:"input_tokens"`
	OutputTokens        int     `json:"output_tokens"`
	CacheCreationTokens int     `json:"cache_creation_tokens"`
	CacheReadTokens     int     `json:"cache_read_tokens"`
	Cost                float64 `json:"cost"`
}

// Add merges token usage from another instance.
func (t *TokenUsage) Add(other TokenUsage) {
	t.InputTokens += other.InputTokens
	t.OutputTokens += other.OutputTokens
	t.CacheCreationTokens += other.CacheCreationTokens
	t.CacheReadTokens += other.CacheReadTokens
	t.Cost += other.Cost
}

