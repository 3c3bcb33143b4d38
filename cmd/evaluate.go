package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/evolsynth-api/internal/model"
)

var (
	evaluateResultPath string
	evaluateMetrics    []string
)

var evaluateCmd = &cobra.Command{
	Use:   "evaluate",
	Short: "Score a generation result with LLM-as-judge metrics",
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(evaluateResultPath)
		if err != nil {
			return eris.Wrapf(err, "read result file %s", evaluateResultPath)
		}

		var result model.GenerationResult
		if err := json.Unmarshal(raw, &result); err != nil {
			return eris.Wrapf(err, "parse result file %s", evaluateResultPath)
		}
		if len(result.EvolvedQuestions) == 0 {
			return eris.Errorf("no evolved questions in %s", evaluateResultPath)
		}
		for _, metric := range evaluateMetrics {
			if !model.KnownMetric(metric) {
				return eris.Errorf("unknown metric %q", metric)
			}
		}

		env, err := initEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		evaluation, _ := env.Judge.Evaluate(cmd.Context(), result.EvolvedQuestions, result.Answers, evaluateMetrics)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(evaluation), "encode evaluation")
	},
}

func init() {
	evaluateCmd.Flags().StringVar(&evaluateResultPath, "result", "", "path to a generation result JSON file")
	evaluateCmd.Flags().StringSliceVar(&evaluateMetrics, "metrics", nil, "metrics to score (default: all)")
	_ = evaluateCmd.MarkFlagRequired("result")
	rootCmd.AddCommand(evaluateCmd)
}
