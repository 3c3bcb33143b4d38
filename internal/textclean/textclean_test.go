package textclean

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClean_StripsPreambles(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "heres preamble",
			in:   "Here's an evolved question: What factors influence loan eligibility?",
			want: "What factors influence loan eligibility?",
		},
		{
			name: "here is preamble",
			in:   "Here is the rewritten question: How do repayment plans differ?",
			want: "How do repayment plans differ?",
		},
		{
			name: "certainly preamble with label",
			in:   "Certainly! Evolved Question: Why does interest accrue during deferment?",
			want: "Why does interest accrue during deferment?",
		},
		{
			name: "bare label",
			in:   "Question: What is the grace period?",
			want: "What is the grace period?",
		},
		{
			name: "list marker",
			in:   "1. What documents are required?",
			want: "What documents are required?",
		},
		{
			name: "quoted response",
			in:   `"How are subsidized loans different?"`,
			want: "How are subsidized loans different?",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Clean(tt.in))
		})
	}
}

func TestClean_CollapsesWhitespace(t *testing.T) {
	in := "What   happens\n\nwhen payments   stop?"
	assert.Equal(t, "What happens when payments stop?", Clean(in))
}

func TestClean_DanglingConnectors(t *testing.T) {
	assert.Equal(t, "Explain the eligibility rules.", Clean("Explain the eligibility rules that"))
	assert.Equal(t, "Summarize the repayment options.", Clean("Summarize the repayment options which"))
	assert.Equal(t, "Compare the two programs.", Clean("Compare the two programs and"))
}

func TestClean_TrailingColon(t *testing.T) {
	assert.Equal(t, "List the requirements.", Clean("List the requirements:"))
}

func TestClean_TerminalPunctuation(t *testing.T) {
	// Interrogative content gets a question mark.
	assert.Equal(t, "What drives inflation?", Clean("What drives inflation"))
	// Declarative content gets a period.
	assert.Equal(t, "Inflation erodes purchasing power.", Clean("Inflation erodes purchasing power"))
	// Existing punctuation is preserved.
	assert.Equal(t, "Rates rose sharply!", Clean("Rates rose sharply!"))
}

func TestClean_CompleteSentenceEndingInThatIsKept(t *testing.T) {
	// "that" before terminal punctuation is not dangling.
	assert.Equal(t, "What is the reason for that?", Clean("What is the reason for that?"))
}

func TestClean_Idempotent(t *testing.T) {
	inputs := []string{
		"Here's an evolved question: What factors influence loan eligibility?",
		"Certainly! Question: Why   does interest accrue during deferment",
		"Sure, here is the answer: Payments resume after the grace period ends that",
		`"Evolved: How do the two grant programs compare?"`,
		"plain statement without punctuation",
		"2. What changed in 2024?",
	}

	for _, in := range inputs {
		once := Clean(in)
		assert.Equal(t, once, Clean(once), "input %q", in)
	}
}

func TestClean_Empty(t *testing.T) {
	assert.Equal(t, "", Clean(""))
	assert.Equal(t, "", Clean("   \n\t "))
	assert.Equal(t, "", Clean(`""`))
}
