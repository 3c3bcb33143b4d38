package judge

import (
	"fmt"

	"github.com/sells-group/evolsynth-api/internal/model"
)

func questionQualityPrompt(q model.EvolvedQuestion) string {
	return fmt.Sprintf(`You are judging the quality of a synthetically generated question.

Question: %s
Evolution type: %s
Complexity level: %d

Assess clarity, specificity, and whether the question is well-formed for its evolution type. Explain your reasoning briefly, then end with a line of the form:
Score: <1-9>

Never award a perfect score; even excellent questions have room to improve.`, q.Question, q.EvolutionType, q.ComplexityLevel)
}

func answerAccuracyPrompt(q model.EvolvedQuestion, answer string) string {
	return fmt.Sprintf(`You are judging whether an answer is accurate and grounded for its question.

Question: %s
Answer: %s

Assess factual grounding, completeness, and directness. Explain your reasoning briefly, then end with a line of the form:
Score: <1-9>

Never award a perfect score; even excellent answers have room to improve.`, q.Question, answer)
}

func evolutionEffectivenessPrompt(q model.EvolvedQuestion) string {
	return fmt.Sprintf(`You are judging how well a question realizes its intended evolution type.

Question: %s
Intended evolution type: %s (%s)
Complexity level: %d

Assess whether the question actually exhibits the intended transformation. Explain your reasoning briefly, then end with a line of the form:
Score: <1-9>

Never award a perfect score; even excellent evolutions have room to improve.`, q.Question, q.EvolutionType, evolutionTypeDescription(q.EvolutionType), q.ComplexityLevel)
}

func evolutionTypeDescription(t model.EvolutionType) string {
	switch t {
	case model.EvolutionSimple:
		return "clearer and more specific rewrite"
	case model.EvolutionMultiContext:
		return "requires synthesizing multiple documents"
	case model.EvolutionReasoning:
		return "requires multi-step inference"
	case model.EvolutionComplex:
		return "layers a constraint or scenario"
	}
	return "unknown transformation"
}
