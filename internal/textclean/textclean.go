// Package textclean strips conversational boilerplate from model responses.
// Rule order matters: specific patterns run before generic ones so a broad
// rule cannot eat text a narrow rule would have handled cleanly.
package textclean

import (
	"regexp"
	"strings"
)

// prefixRules remove preambles and meta-labels anchored at the start of the
// text. They are applied repeatedly until none matches, so a label following
// a preamble ("Sure! Evolved Question: ...") is also removed.
var prefixRules = []*regexp.Regexp{
	// Specific chatty preambles first.
	regexp.MustCompile(`(?i)^here(?:'|’)?s (?:an?|the|your) (?:evolved |rewritten |revised |more complex |new )?(?:question|answer|version|summary)[^:\n]*:\s*`),
	regexp.MustCompile(`(?i)^here is (?:an?|the|your) (?:evolved |rewritten |revised |more complex |new )?(?:question|answer|version|summary)[^:\n]*:\s*`),
	regexp.MustCompile(`(?i)^(?:certainly|sure|of course|absolutely|great)[!.,]?\s+`),
	// Meta-labels the model echoes back from the prompt.
	regexp.MustCompile(`(?i)^(?:evolved question|evolved|question|answer|response|summary|rewritten question)\s*[:\-]\s*`),
	// Leading list markers.
	regexp.MustCompile(`^(?:[-*•]|\d{1,2}[.)])\s+`),
}

// trailingConnectors are dangling words at the end of a truncated response.
// Only stripped when the text lacks terminal punctuation, so complete
// sentences ending in "that?" are left alone.
var trailingConnectors = regexp.MustCompile(`(?i)[\s,]+(?:that|which|and|or|but|with|to)$`)

var (
	whitespaceRun  = regexp.MustCompile(`\s+`)
	interrogatives = regexp.MustCompile(`(?i)\b(?:what|which|who|whom|whose|when|where|why|how|is|are|was|were|do|does|did|can|could|would|should)\b`)
)

// trailing characters that are artifacts rather than terminal punctuation.
const trailingArtifacts = "\"'`*_:;,-–—([{ \t"
const leadingArtifacts = "\"'`*_>)-–— \t"

// Clean normalizes a model response into a bare question or answer: it drops
// preambles and labels, collapses whitespace, trims punctuation artifacts,
// strips dangling connector words, and guarantees terminal punctuation
// (a question mark when the text reads as a question). Idempotent:
// Clean(Clean(x)) == Clean(x).
func Clean(text string) string {
	s := strings.TrimSpace(text)

	for {
		before := s
		s = unwrapQuotes(s)
		for _, rule := range prefixRules {
			s = rule.ReplaceAllString(s, "")
		}
		s = strings.TrimSpace(s)
		if s == before {
			break
		}
	}

	s = whitespaceRun.ReplaceAllString(s, " ")
	s = strings.TrimLeft(s, leadingArtifacts)
	s = strings.TrimRight(s, trailingArtifacts)
	s = strings.TrimSpace(s)

	if s == "" {
		return s
	}

	if !hasTerminalPunctuation(s) {
		for {
			stripped := trailingConnectors.ReplaceAllString(s, "")
			stripped = strings.TrimRight(stripped, trailingArtifacts)
			if stripped == s {
				break
			}
			s = stripped
		}
		if s == "" {
			return s
		}
		if interrogatives.MatchString(s) {
			s += "?"
		} else {
			s += "."
		}
	}

	return s
}

// unwrapQuotes removes matching quote characters wrapping the whole text.
func unwrapQuotes(s string) string {
	for len(s) >= 2 {
		first, last := s[0], s[len(s)-1]
		if (first == '"' && last == '"') || (first == '\'' && last == '\'') || (first == '`' && last == '`') {
			s = strings.TrimSpace(s[1 : len(s)-1])
			continue
		}
		break
	}
	return s
}

func hasTerminalPunctuation(s string) bool {
	switch s[len(s)-1] {
	case '.', '?', '!':
		return true
	}
	return false
}
