// Package pipeline assembles the extraction stages: text source in, ordered
// invoice records out.
package pipeline

import (
	"context"
	"path/filepath"
	"sync/atomic"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/sells-group/invoice-extract/internal/config"
	"github.com/sells-group/invoice-extract/internal/extract"
	"github.com/sells-group/invoice-extract/internal/model"
	"github.com/sells-group/invoice-extract/internal/ocr"
	"github.com/sells-group/invoice-extract/internal/store"
)

// Runner drives extraction over one or many documents. The extractor and
// source are immutable after construction, so documents can be processed
// concurrently without shared mutable state.
type Runner struct {
	extractor *extract.Extractor
	source    ocr.Source
	store     store.Store

	concurrency     int
	limiter         *rate.Limiter
	failedRowPolicy string
}

// New builds a Runner. docsPerSec <= 0 disables start-rate limiting.
func New(extractor *extract.Extractor, source ocr.Source, st store.Store, cfg config.BatchConfig) *Runner {
	var limiter *rate.Limiter
	if cfg.DocsPerSec > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.DocsPerSec), 1)
	}
	return &Runner{
		extractor:       extractor,
		source:          source,
		store:           st,
		concurrency:     cfg.MaxConcurrentDocs,
		limiter:         limiter,
		failedRowPolicy: cfg.FailedRowPolicy,
	}
}

// ProcessDocument materializes one document's text and extracts its record.
func (r *Runner) ProcessDocument(ctx context.Context, path string) (model.InvoiceRecord, error) {
	text, err := r.source.Text(ctx, path)
	if err != nil {
		return model.InvoiceRecord{}, eris.Wrapf(err, "pipeline: text source for %s", path)
	}
	return r.extractor.Extract(text, filepath.Base(path)), nil
}

// BatchResult holds one batch run's outcome. Records are ordered by input
// position.
type BatchResult struct {
	Run     *model.BatchRun
	Records []model.InvoiceRecord
}

// ProcessBatch extracts every document concurrently and returns records in
// input order. A document whose text source fails is isolated: it is logged,
// counted, and either kept as an all-sentinel row or omitted per the
// configured policy. Only batch-level cancellation stops the remaining
// documents, checked cooperatively between document starts.
func (r *Runner) ProcessBatch(ctx context.Context, sourceDir string, paths []string) (*BatchResult, error) {
	run, err := r.store.CreateRun(ctx, sourceDir)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: create run")
	}

	zap.L().Info("processing batch",
		zap.String("run_id", run.ID),
		zap.Int("documents", len(paths)),
		zap.Int("concurrency", r.concurrency),
	)

	type slot struct {
		record model.InvoiceRecord
		failed bool
		done   bool
	}
	slots := make([]slot, len(paths))

	var succeeded, failed atomic.Int64

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.concurrency)

	for i, path := range paths {
		if err := gctx.Err(); err != nil {
			break
		}
		if r.limiter != nil {
			if err := r.limiter.Wait(gctx); err != nil {
				break
			}
		}

		g.Go(func() error {
			log := zap.L().With(zap.String("document", path))

			record, err := r.ProcessDocument(gctx, path)
			if err != nil {
				failed.Add(1)
				log.Warn("document failed", zap.Error(err))
				slots[i] = slot{record: model.FailedRecord(filepath.Base(path)), failed: true, done: true}
				return nil // don't abort the batch on individual failure
			}

			succeeded.Add(1)
			slots[i] = slot{record: record, done: true}
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, eris.Wrap(err, "pipeline: batch")
	}

	records := make([]model.InvoiceRecord, 0, len(paths))
	for _, s := range slots {
		if !s.done {
			// Batch was cancelled before this document started.
			continue
		}
		if s.failed && r.failedRowPolicy == config.FailedRowOmit {
			zap.L().Warn("omitting failed document row", zap.String("document", s.record.SourceDocument))
			continue
		}
		records = append(records, s.record)
	}

	// Persist what was processed even when the batch was cancelled midway.
	storeCtx := context.WithoutCancel(ctx)
	for _, rec := range records {
		if err := r.store.InsertRecord(storeCtx, run.ID, rec); err != nil {
			return nil, eris.Wrap(err, "pipeline: insert record")
		}
	}

	status := model.RunStatusCompleted
	if ctx.Err() != nil {
		status = model.RunStatusFailed
	}
	if err := r.store.FinishRun(storeCtx, run.ID, status, len(paths), int(succeeded.Load()), int(failed.Load())); err != nil {
		return nil, eris.Wrap(err, "pipeline: finish run")
	}

	zap.L().Info("batch complete",
		zap.String("run_id", run.ID),
		zap.Int64("succeeded", succeeded.Load()),
		zap.Int64("failed", failed.Load()),
	)

	run.Status = status
	run.Documents = len(paths)
	run.Succeeded = int(succeeded.Load())
	run.Failed = int(failed.Load())
	return &BatchResult{Run: run, Records: records}, nil
}
