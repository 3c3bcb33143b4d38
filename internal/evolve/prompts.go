package evolve

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/sells-group/evolsynth-api/internal/model"
)

// excerptLen bounds the document excerpt embedded in evolution prompts.
const excerptLen = 1500

func baseQuestionsPrompt(content string, count int) string {
	return fmt.Sprintf(`You are generating evaluation questions for a document. Read the document below and write exactly %d distinct questions that can be answered from its content alone.

Document:
%s

Rules:
- Output only the questions, one per line, numbered 1 to %d.
- Each question must end with a question mark.
- Do not include answers, commentary, or any other text.`, count, truncate(content, excerptLen*2), count)
}

func simpleEvolutionPrompt(question, excerpt string) string {
	return fmt.Sprintf(`Rewrite the question below so it is clearer and more specific, while staying answerable from the supporting text.

Supporting text:
%s

Question: %s

Respond with only the rewritten question text. No preamble, no label.`, excerpt, question)
}

func multiContextEvolutionPrompt(question, primaryExcerpt, secondaryExcerpt string) string {
	return fmt.Sprintf(`Rewrite the question below so that answering it requires synthesizing information from BOTH of the texts that follow. The rewritten question must not be answerable from either text alone.

Text A:
%s

Text B:
%s

Question: %s

Respond with only the rewritten question text. No preamble, no label.`, primaryExcerpt, secondaryExcerpt, question)
}

func reasoningEvolutionPrompt(question, excerpt string) string {
	return fmt.Sprintf(`Rewrite the question below so that answering it requires multi-step reasoning over the supporting text, such as comparing conditions, tracing an implication, or combining two stated facts.

Supporting text:
%s

Question: %s

Respond with only the rewritten question text. No preamble, no label.`, excerpt, question)
}

func complexEvolutionPrompt(question, excerpt string) string {
	return fmt.Sprintf(`Rewrite the question below into a more complex question that layers a constraint or hypothetical scenario on top of the original, while remaining answerable from the supporting text.

Supporting text:
%s

Question: %s

Respond with only the rewritten question text. No preamble, no label.`, excerpt, question)
}

func evolutionPrompt(t model.EvolutionType, question, excerpt string) string {
	switch t {
	case model.EvolutionReasoning:
		return reasoningEvolutionPrompt(question, excerpt)
	case model.EvolutionComplex:
		return complexEvolutionPrompt(question, excerpt)
	default:
		return simpleEvolutionPrompt(question, excerpt)
	}
}

func answerPrompt(question string, excerpts []string) string {
	var b strings.Builder
	for i, ex := range excerpts {
		fmt.Fprintf(&b, "Excerpt %d:\n%s\n\n", i+1, ex)
	}
	return fmt.Sprintf(`Answer the question using only the excerpts below. If the excerpts do not fully cover the question, answer with what they do support.

%sQuestion: %s

Respond with only the answer text. No preamble, no label.`, b.String(), question)
}

func summarizePrompt(question, content string) string {
	return fmt.Sprintf(`Summarize only the parts of the document below that are relevant to the question, in under 200 words. If nothing in the document is relevant, respond with exactly: no relevant information.

Question: %s

Document:
%s`, question, truncate(content, excerptLen*2))
}

func fastModePrompt(docs []model.Document, settings model.GenerationSettings) string {
	var b strings.Builder
	for i, doc := range docs {
		fmt.Fprintf(&b, "Document %d (%s):\n%s\n\n", i+1, doc.Title(i), truncate(doc.Content, excerptLen))
	}

	var wants []string
	for _, t := range model.AllEvolutionTypes {
		if n := settings.CountFor(t); n > 0 {
			wants = append(wants, fmt.Sprintf("%d of type %s", n, t))
		}
	}

	return fmt.Sprintf(`Generate question/answer pairs from the documents below: %s.

Type meanings: simple = clear factual question; multi_context = requires combining two documents; reasoning = requires multi-step inference; complex = layers a constraint or scenario.

%sOutput one pair per line in exactly this format, with no other text:
TYPE | QUESTION | ANSWER`, strings.Join(wants, ", "), b.String())
}

// truncate bounds s to at most n bytes without splitting a UTF-8 sequence.
func truncate(s string, n int) string {
	if n <= 0 || len(s) <= n {
		return s
	}
	cut := s[:n]
	for len(cut) > 0 && !utf8.ValidString(cut) {
		cut = cut[:len(cut)-1]
	}
	return cut
}
