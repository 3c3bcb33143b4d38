// Package relevance scores how well a block of text supports a question
// using keyword overlap. Scores rank candidate documents during context
// extraction; nothing here calls out to a model.
package relevance

import (
	"sort"
	"strings"
)

// stopWords are excluded from keyword extraction.
var stopWords = map[string]bool{
	"the": true, "and": true, "for": true, "are": true, "was": true,
	"were": true, "been": true, "have": true, "has": true, "had": true,
	"this": true, "that": true, "with": true, "from": true, "what": true,
	"how": true, "does": true, "which": true, "where": true, "when": true,
	"who": true, "why": true, "can": true, "will": true, "not": true,
	"its": true, "their": true, "there": true, "about": true, "into": true,
}

// Keywords returns deduplicated lowercase terms of 3+ characters from text,
// excluding stop words. Order follows first appearance.
func Keywords(text string) []string {
	words := strings.Fields(strings.ToLower(text))
	var keywords []string
	seen := make(map[string]bool)
	for _, w := range words {
		w = strings.Trim(w, "?.,!;:'\"()[]{}")
		if len(w) < 3 || stopWords[w] || seen[w] {
			continue
		}
		seen[w] = true
		keywords = append(keywords, w)
	}
	return keywords
}

// Score rates content relevance to a question. Per keyword it awards up to 10
// points for occurrences (2 per occurrence) plus a positional bonus: +3 when
// the first occurrence falls within the first 200 characters, +1 within the
// first 500. The total is normalized by content length in thousands of
// characters so longer documents are not rewarded for sheer size.
// Deterministic and side-effect free.
func Score(question, content string) float64 {
	if content == "" {
		return 0
	}
	keywords := Keywords(question)
	if len(keywords) == 0 {
		return 0
	}

	lower := strings.ToLower(content)
	var score float64
	for _, kw := range keywords {
		occurrences := strings.Count(lower, kw)
		if occurrences == 0 {
			continue
		}
		pts := float64(occurrences * 2)
		if pts > 10 {
			pts = 10
		}
		score += pts

		switch idx := strings.Index(lower, kw); {
		case idx < 200:
			score += 3
		case idx < 500:
			score += 1
		}
	}

	if score == 0 {
		return 0
	}
	return score / (float64(len(content)) / 1000.0)
}

// sentenceEnd reports whether r terminates a sentence.
func sentenceEnd(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

// splitSentences breaks content into trimmed sentences. Newlines also act as
// boundaries so list items and headings are scored individually.
func splitSentences(content string) []string {
	var sentences []string
	var current strings.Builder
	for _, r := range content {
		current.WriteRune(r)
		if sentenceEnd(r) || r == '\n' {
			if s := strings.TrimSpace(current.String()); s != "" {
				sentences = append(sentences, s)
			}
			current.Reset()
		}
	}
	if s := strings.TrimSpace(current.String()); s != "" {
		sentences = append(sentences, s)
	}
	return sentences
}

// Snippet extracts a bounded excerpt of content relevant to the question.
// Sentences are scored by keyword overlap; the top three are concatenated in
// their original order and the result truncated to maxLen characters. When no
// sentence matches any keyword, the leading content is returned instead.
func Snippet(question, content string, maxLen int) string {
	if maxLen <= 0 || content == "" {
		return ""
	}
	if len(content) <= maxLen {
		return content
	}

	keywords := Keywords(question)
	sentences := splitSentences(content)

	type scored struct {
		idx   int
		score int
	}
	var matches []scored
	for i, sentence := range sentences {
		lower := strings.ToLower(sentence)
		overlap := 0
		for _, kw := range keywords {
			if strings.Contains(lower, kw) {
				overlap++
			}
		}
		if overlap > 0 {
			matches = append(matches, scored{idx: i, score: overlap})
		}
	}

	if len(matches) == 0 {
		return strings.TrimSpace(content[:maxLen])
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})
	if len(matches) > 3 {
		matches = matches[:3]
	}
	sort.Slice(matches, func(i, j int) bool {
		return matches[i].idx < matches[j].idx
	})

	var b strings.Builder
	for _, m := range matches {
		if b.Len() > 0 {
			b.WriteString(" ")
		}
		b.WriteString(sentences[m.idx])
	}
	out := b.String()
	if len(out) > maxLen {
		out = strings.TrimSpace(out[:maxLen])
	}
	return out
}
