package evolve

import (
	"context"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/sells-group/evolsynth-api/internal/model"
	"github.com/sells-group/evolsynth-api/internal/relevance"
	"github.com/sells-group/evolsynth-api/pkg/llm"
)

// ContextExtractor selects the single most relevant document per question and
// extracts a bounded supporting excerpt from it.
type ContextExtractor struct {
	llm llm.Client
	cfg Config
	sem *semaphore.Weighted

	// summarize switches from keyword snippet extraction to LLM
	// summarization of the selected document.
	summarize bool
}

// NewContextExtractor creates a keyword-path context extractor.
func NewContextExtractor(client llm.Client, cfg Config) *ContextExtractor {
	return &ContextExtractor{llm: client, cfg: cfg, sem: semaphore.NewWeighted(int64(cfg.maxConcurrency()))}
}

// NewSummarizingContextExtractor creates an extractor that asks the LLM to
// summarize the question-relevant portion of the selected document.
func NewSummarizingContextExtractor(client llm.Client, cfg Config) *ContextExtractor {
	x := NewContextExtractor(client, cfg)
	x.summarize = true
	return x
}

// Extract returns exactly one context entry for the question: the best
// document by relevance score, or the first document's leading content when
// nothing scores above zero. With no documents at all it returns a sentinel
// record rather than failing.
func (x *ContextExtractor) Extract(ctx context.Context, question model.EvolvedQuestion, docs []model.Document) (model.ContextRecord, llm.TokenUsage) {
	if len(docs) == 0 {
		return model.ContextRecord{
			QuestionID: question.ID,
			Contexts: []model.ContextEntry{{
				Text:          "No source documents were available for this question.",
				Source:        "none",
				DocumentIndex: -1,
			}},
		}, llm.TokenUsage{}
	}

	bestIdx, bestScore := 0, 0.0
	for i, doc := range docs {
		if score := relevance.Score(question.Question, doc.Content); score > bestScore {
			bestIdx, bestScore = i, score
		}
	}

	var usage llm.TokenUsage
	var text string
	switch {
	case bestScore <= 0:
		// Nothing matched; fall back to the first document's leading content.
		bestIdx = 0
		text = strings.TrimSpace(truncate(docs[0].Content, x.cfg.contextMaxLength()))
	case x.summarize:
		text, usage = x.summarizeDocument(ctx, question.Question, docs[bestIdx])
		if text == "" {
			text = relevance.Snippet(question.Question, docs[bestIdx].Content, x.cfg.contextMaxLength())
		}
	default:
		text = relevance.Snippet(question.Question, docs[bestIdx].Content, x.cfg.contextMaxLength())
	}

	return model.ContextRecord{
		QuestionID: question.ID,
		Contexts: []model.ContextEntry{{
			Text:          text,
			Source:        docs[bestIdx].Title(bestIdx),
			DocumentIndex: bestIdx,
		}},
	}, usage
}

// summarizeDocument asks the LLM for a question-focused summary. Returns ""
// when the call fails or the model reports nothing relevant, so the caller
// can use the keyword path instead.
func (x *ContextExtractor) summarizeDocument(ctx context.Context, question string, doc model.Document) (string, llm.TokenUsage) {
	req := llm.UserPrompt(x.cfg.Model, summarizePrompt(question, doc.Content), 512, nil)
	text, usage, err := llm.CompleteText(ctx, x.llm, req, x.cfg.LLMTimeout)
	if err != nil {
		zap.L().Warn("context summarization failed, using keyword snippet", zap.Error(err))
		return "", usage
	}
	if strings.Contains(strings.ToLower(text), "no relevant information") {
		return "", usage
	}
	return strings.TrimSpace(text), usage
}

// ExtractAll extracts one context record per question, concurrently within
// the shared worker limit.
func (x *ContextExtractor) ExtractAll(ctx context.Context, questions []model.EvolvedQuestion, docs []model.Document) ([]model.ContextRecord, llm.TokenUsage) {
	records := make([]model.ContextRecord, len(questions))
	usage := &usageTracker{}

	g, gctx := errgroup.WithContext(ctx)

	for i, q := range questions {
		g.Go(func() error {
			if err := x.sem.Acquire(gctx, 1); err != nil {
				return nil
			}
			defer x.sem.Release(1)

			record, u := x.Extract(gctx, q, docs)
			usage.add(u)
			records[i] = record
			return nil
		})
	}
	_ = g.Wait()

	return records, usage.snapshot()
}
