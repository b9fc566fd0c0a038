// Package store persists batch runs and their extracted records.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/invoice-extract/internal/model"
)

// Store defines the persistence interface for batch extraction.
type Store interface {
	CreateRun(ctx context.Context, sourceDir string) (*model.BatchRun, error)
	FinishRun(ctx context.Context, runID string, status model.RunStatus, documents, succeeded, failed int) error
	InsertRecord(ctx context.Context, runID string, rec model.InvoiceRecord) error
	ListRuns(ctx context.Context, limit int) ([]model.BatchRun, error)
	ListRecords(ctx context.Context, runID string) ([]model.InvoiceRecord, error)

	Migrate(ctx context.Context) error
	Close() error
}

// Open creates a Store for the configured driver. Driver "none" disables
// persistence.
func Open(ctx context.Context, driver, dsn string) (Store, error) {
	switch driver {
	case "sqlite":
		return NewSQLite(dsn)
	case "postgres":
		return NewPostgres(ctx, dsn)
	case "none":
		return Noop{}, nil
	default:
		return nil, eris.Errorf("store: unknown driver %q", driver)
	}
}

// Noop discards everything; used when persistence is disabled.
type Noop struct{}

func (Noop) CreateRun(ctx context.Context, sourceDir string) (*model.BatchRun, error) {
	return &model.BatchRun{SourceDir: sourceDir, Status: model.RunStatusRunning}, nil
}

func (Noop) FinishRun(ctx context.Context, runID string, status model.RunStatus, documents, succeeded, failed int) error {
	return nil
}

func (Noop) InsertRecord(ctx context.Context, runID string, rec model.InvoiceRecord) error {
	return nil
}

func (Noop) ListRuns(ctx context.Context, limit int) ([]model.BatchRun, error) {
	return nil, nil
}

func (Noop) ListRecords(ctx context.Context, runID string) ([]model.InvoiceRecord, error) {
	return nil, nil
}

func (Noop) Migrate(ctx context.Context) error { return nil }
func (Noop) Close() error                      { return nil }
