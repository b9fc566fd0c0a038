package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/sells-group/invoice-extract/internal/pipeline"
	"github.com/sells-group/invoice-extract/internal/store"
)

var extractCmd = &cobra.Command{
	Use:   "extract <document>",
	Short: "Extract fields from a single document",
	Long:  "Materializes the document's text (plain text directly, PDFs via pdftotext), runs every field locator, and prints the record as JSON.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		extractor, err := newExtractor()
		if err != nil {
			return err
		}

		runner := pipeline.New(extractor, newSource(), store.Noop{}, cfg.Batch)
		record, err := runner.ProcessDocument(cmd.Context(), args[0])
		if err != nil {
			return eris.Wrap(err, "extract")
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(record)
	},
}

func init() {
	rootCmd.AddCommand(extractCmd)
}
