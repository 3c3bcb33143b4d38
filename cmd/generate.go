package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/evolsynth-api/internal/model"
	"github.com/sells-group/evolsynth-api/internal/server"
)

var (
	generateDocsPath string
	generateFastMode bool
	generateSample   bool
)

// documentsFile is the YAML input format for the generate command.
type documentsFile struct {
	Documents []model.Document `yaml:"documents"`
}

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate evolved Q/A triples from a documents file",
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := initEnv(cmd.Context())
		if err != nil {
			return err
		}
		defer env.Close()

		var docs []model.Document
		switch {
		case generateSample:
			docs = server.SampleDocuments()
		case generateDocsPath != "":
			docs, err = loadDocuments(generateDocsPath)
			if err != nil {
				return err
			}
		default:
			return eris.New("either --docs or --sample is required")
		}

		settings := model.GenerationSettings{FastMode: generateFastMode}
		result, cacheHit, err := env.Generator.Generate(cmd.Context(), docs, settings)
		if err != nil {
			return eris.Wrap(err, "generate")
		}

		out := struct {
			*model.GenerationResult
			CacheHit bool `json:"cache_hit"`
		}{result, cacheHit}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return eris.Wrap(enc.Encode(out), "encode result")
	},
}

func loadDocuments(path string) ([]model.Document, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "read documents file %s", path)
	}

	var f documentsFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, eris.Wrapf(err, "parse documents file %s", path)
	}
	if len(f.Documents) == 0 {
		return nil, eris.Errorf("no documents in %s", path)
	}
	return f.Documents, nil
}

func init() {
	generateCmd.Flags().StringVar(&generateDocsPath, "docs", "", "path to a YAML documents file")
	generateCmd.Flags().BoolVar(&generateFastMode, "fast", false, "single-call fast mode (lower quality, lower latency)")
	generateCmd.Flags().BoolVar(&generateSample, "sample", false, "use the built-in sample documents")
	rootCmd.AddCommand(generateCmd)
}
