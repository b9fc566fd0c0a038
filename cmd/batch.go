package main

import (
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/invoice-extract/internal/export"
	"github.com/sells-group/invoice-extract/internal/model"
	"github.com/sells-group/invoice-extract/internal/pipeline"
)

var batchOut string

var batchCmd = &cobra.Command{
	Use:   "batch <dir>",
	Short: "Extract fields from every document in a directory",
	Long:  "Processes all supported documents in the directory concurrently, records the run, and writes one output row per document in input order. Output format follows the --out extension (.csv or .xlsx).",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		extractor, err := newExtractor()
		if err != nil {
			return err
		}

		st, err := openStore(ctx)
		if err != nil {
			return err
		}
		defer st.Close()

		dir := args[0]
		paths, err := pipeline.ListDocuments(dir)
		if err != nil {
			return err
		}
		if len(paths) == 0 {
			zap.L().Info("no documents found", zap.String("dir", dir))
			return nil
		}

		runner := pipeline.New(extractor, newSource(), st, cfg.Batch)
		result, err := runner.ProcessBatch(ctx, dir, paths)
		if err != nil {
			return err
		}

		return writeExport(batchOut, result.Records)
	},
}

func init() {
	batchCmd.Flags().StringVar(&batchOut, "out", "invoices.csv", "output file (.csv or .xlsx)")
	rootCmd.AddCommand(batchCmd)
}

// writeExport serializes records in the format implied by the output
// extension.
func writeExport(path string, records []model.InvoiceRecord) error {
	f, err := os.Create(path)
	if err != nil {
		return eris.Wrapf(err, "batch: create %s", path)
	}
	defer f.Close()

	switch strings.ToLower(filepath.Ext(path)) {
	case ".xlsx":
		err = export.WriteXLSX(f, records)
	case ".csv":
		err = export.WriteCSV(f, records)
	default:
		return eris.Errorf("batch: unsupported output format %q", filepath.Ext(path))
	}
	if err != nil {
		return err
	}

	zap.L().Info("export written", zap.String("path", path), zap.Int("rows", len(records)))
	return nil
}
