package relevance

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKeywords(t *testing.T) {
	kws := Keywords("What is the company's annual revenue for 2024?")

	assert.Contains(t, kws, "annual")
	assert.Contains(t, kws, "revenue")
	assert.Contains(t, kws, "2024")
	assert.NotContains(t, kws, "the")
	assert.NotContains(t, kws, "is")
}

func TestKeywords_Dedup(t *testing.T) {
	kws := Keywords("revenue revenue REVENUE")
	assert.Equal(t, []string{"revenue"}, kws)
}

func TestScore_Deterministic(t *testing.T) {
	question := "How do interest rates affect loan repayment?"
	content := "Interest rates determine monthly loan repayment amounts. Higher rates raise the cost of repayment."

	first := Score(question, content)
	second := Score(question, content)

	assert.Greater(t, first, 0.0)
	assert.Equal(t, first, second)
}

func TestScore_RareTermSelectsRightDocument(t *testing.T) {
	question := "What is the capital of Borovia?"
	matching := "Borovia is a small landlocked nation. The capital of Borovia is Borograd."
	other1 := "France is famous for its wine regions and its capital Paris."
	other2 := "The annual budget covers infrastructure and education."

	assert.Greater(t, Score(question, matching), Score(question, other1))
	assert.Greater(t, Score(question, matching), Score(question, other2))
}

func TestScore_NormalizedByLength(t *testing.T) {
	question := "What is photosynthesis?"
	short := "Photosynthesis converts light into chemical energy."
	// Same single occurrence buried in a much longer document.
	long := short + strings.Repeat(" Unrelated filler text about many other topics entirely.", 200)

	assert.Greater(t, Score(question, short), Score(question, long))
}

func TestScore_OccurrenceCap(t *testing.T) {
	question := "Explain gravity."
	base := strings.Repeat("gravity ", 5)     // 5 occurrences: capped at 10 pts
	heavy := strings.Repeat("gravity ", 50)   // 50 occurrences: still 10 pts
	padded := heavy + strings.Repeat("x", len(base)*10-len(heavy))

	// Per-keyword points are capped, so extra occurrences in equal-length
	// content cannot raise the score past the cap.
	assert.InDelta(t, Score(question, base+strings.Repeat("x", len(padded)-len(base))), Score(question, padded), 0.001)
}

func TestScore_Empty(t *testing.T) {
	assert.Zero(t, Score("anything", ""))
	assert.Zero(t, Score("", "content here"))
	assert.Zero(t, Score("is it?", "no keyword terms survive stopword filtering"))
}

func TestSnippet_ShortContentReturnedWhole(t *testing.T) {
	content := "Short and relevant."
	assert.Equal(t, content, Snippet("anything relevant", content, 300))
}

func TestSnippet_PicksMatchingSentences(t *testing.T) {
	content := "The weather was mild in spring. Loan repayment begins six months after graduation. " +
		"Many students enjoy campus life. Repayment plans include income-driven options. " +
		strings.Repeat("Unrelated filler sentence about gardening. ", 20)

	out := Snippet("When does loan repayment begin?", content, 300)

	assert.Contains(t, out, "Repayment")
	assert.NotContains(t, out, "gardening")
	assert.LessOrEqual(t, len(out), 300)
}

func TestSnippet_NoMatchFallsBackToLeadingContent(t *testing.T) {
	content := strings.Repeat("Completely unrelated filler. ", 50)
	out := Snippet("quantum chromodynamics", content, 100)

	assert.LessOrEqual(t, len(out), 100)
	assert.True(t, strings.HasPrefix(content, out[:20]))
}
