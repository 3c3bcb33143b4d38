package judge

import (
	"regexp"
	"strconv"
	"strings"
)

// fallbackRawScore is used when no numeric score can be recovered from the
// judge response.
const fallbackRawScore = 5.0

var (
	scoreLabelPattern = regexp.MustCompile(`(?i)score\s*[:=]?\s*(\d+(?:\.\d+)?)`)
	scoreRatioPattern = regexp.MustCompile(`(\d+(?:\.\d+)?)\s*/\s*(?:10|9)\b`)
	bareNumberPattern = regexp.MustCompile(`\b(\d+(?:\.\d+)?)\b`)
)

// keywordScores maps judgment vocabulary to a raw score when the model
// returns prose instead of a number.
var keywordScores = []struct {
	word  string
	score float64
}{
	{"excellent", 8.5},
	{"good", 7.0},
	{"fair", 6.0},
	{"poor", 4.0},
	{"terrible", 2.0},
}

// extractScore recovers a raw 1-9 scale score from a judge response. The
// patterns are tried most specific first: an explicit "Score: N" label, an
// "N/10" or "N/9" ratio, any bare number in [1,10], then judgment keywords.
// Nothing recoverable yields the fixed mid-scale fallback.
func extractScore(text string) float64 {
	if m := scoreLabelPattern.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			return clampRaw(v)
		}
	}

	if m := scoreRatioPattern.FindStringSubmatch(text); m != nil {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil {
			return clampRaw(v)
		}
	}

	for _, m := range bareNumberPattern.FindAllStringSubmatch(text, -1) {
		if v, err := strconv.ParseFloat(m[1], 64); err == nil && v >= 1 && v <= 10 {
			return clampRaw(v)
		}
	}

	lowered := strings.ToLower(text)
	for _, kw := range keywordScores {
		if strings.Contains(lowered, kw.word) {
			return kw.score
		}
	}

	return fallbackRawScore
}

// clampRaw bounds a recovered number to the 1-9 raw judge scale.
func clampRaw(v float64) float64 {
	if v < 1 {
		return 1
	}
	if v > 9 {
		return 9
	}
	return v
}
