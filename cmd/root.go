package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/invoice-extract/internal/config"
	"github.com/sells-group/invoice-extract/internal/extract"
	"github.com/sells-group/invoice-extract/internal/ocr"
	"github.com/sells-group/invoice-extract/internal/store"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "invoice-extract",
	Short: "Extract structured fields from OCR'd invoice documents",
	Long:  "Locates invoice number, order date, customer, US state, and total due inside noisy OCR text using layout-agnostic heuristics, and exports per-document records.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

// newExtractor builds the locator set from the loaded configuration.
func newExtractor() (*extract.Extractor, error) {
	opts, err := cfg.ExtractorOptions()
	if err != nil {
		return nil, err
	}
	return extract.New(opts)
}

// newSource builds the document text source.
func newSource() *ocr.Router {
	return ocr.NewRouter(cfg.OCR.PdfToTextPath)
}

// openStore opens and migrates the configured run store.
func openStore(ctx context.Context) (store.Store, error) {
	st, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.DSN)
	if err != nil {
		return nil, err
	}
	if err := st.Migrate(ctx); err != nil {
		st.Close()
		return nil, err
	}
	return st, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
