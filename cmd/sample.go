package main

import (
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sells-group/evolsynth-api/internal/server"
)

var sampleCmd = &cobra.Command{
	Use:   "sample",
	Short: "Print the built-in sample documents as YAML",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := documentsFile{Documents: server.SampleDocuments()}

		enc := yaml.NewEncoder(os.Stdout)
		enc.SetIndent(2)
		defer enc.Close()
		return eris.Wrap(enc.Encode(out), "encode sample documents")
	},
}

func init() {
	rootCmd.AddCommand(sampleCmd)
}
