package pipeline

import (
	"context"
	"sync"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/invoice-extract/internal/config"
	"github.com/sells-group/invoice-extract/internal/extract"
	"github.com/sells-group/invoice-extract/internal/model"
	"github.com/sells-group/invoice-extract/internal/store"
)

// fakeSource serves canned text per path; paths in errs fail instead.
type fakeSource struct {
	texts map[string]string
	errs  map[string]error
}

func (f fakeSource) Text(ctx context.Context, path string) (string, error) {
	if err, ok := f.errs[path]; ok {
		return "", err
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	return f.texts[path], nil
}

// memStore records store calls for assertions.
type memStore struct {
	store.Noop
	mu       sync.Mutex
	records  []model.InvoiceRecord
	finished bool
	status   model.RunStatus
}

func (m *memStore) CreateRun(ctx context.Context, sourceDir string) (*model.BatchRun, error) {
	return &model.BatchRun{ID: "run-1", SourceDir: sourceDir, Status: model.RunStatusRunning}, nil
}

func (m *memStore) InsertRecord(ctx context.Context, runID string, rec model.InvoiceRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.records = append(m.records, rec)
	return nil
}

func (m *memStore) FinishRun(ctx context.Context, runID string, status model.RunStatus, documents, succeeded, failed int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.finished = true
	m.status = status
	return nil
}

func testExtractor(t *testing.T) *extract.Extractor {
	t.Helper()
	e, err := extract.New(extract.Options{
		InvoiceLabels:       extract.DefaultInvoiceLabels,
		TotalLabels:         extract.DefaultTotalLabels,
		CurrencySuffixes:    extract.DefaultCurrencySuffixes,
		CustomerTerminators: extract.DefaultCustomerTerminators,
		CustomerDenylist:    extract.DefaultCustomerDenylist,
		FuzzyThreshold:      85,
		DateStrategy:        extract.DateFromDocument,
	})
	require.NoError(t, err)
	return e
}

func batchConfig() config.BatchConfig {
	return config.BatchConfig{
		MaxConcurrentDocs: 3,
		FailedRowPolicy:   config.FailedRowSentinel,
	}
}

func TestProcessDocument(t *testing.T) {
	src := fakeSource{texts: map[string]string{
		"/docs/a.txt": "Invoice No: A-1\nTOTAL DUE: 10.00",
	}}
	r := New(testExtractor(t), src, store.Noop{}, batchConfig())

	rec, err := r.ProcessDocument(context.Background(), "/docs/a.txt")
	require.NoError(t, err)
	assert.Equal(t, "A-1", rec.InvoiceNumber)
	assert.Equal(t, "10.00", rec.TotalDue)
	assert.Equal(t, "a.txt", rec.SourceDocument)
}

func TestProcessDocument_SourceError(t *testing.T) {
	src := fakeSource{errs: map[string]error{"/docs/bad.pdf": eris.New("ocr exploded")}}
	r := New(testExtractor(t), src, store.Noop{}, batchConfig())

	_, err := r.ProcessDocument(context.Background(), "/docs/bad.pdf")
	assert.Error(t, err)
}

func TestProcessBatch_PreservesInputOrder(t *testing.T) {
	src := fakeSource{texts: map[string]string{
		"/docs/a.txt": "Invoice No: A-1",
		"/docs/b.txt": "Invoice No: B-2",
		"/docs/c.txt": "Invoice No: C-3",
		"/docs/d.txt": "Invoice No: D-4",
	}}
	st := &memStore{}
	r := New(testExtractor(t), src, st, batchConfig())

	result, err := r.ProcessBatch(context.Background(), "/docs",
		[]string{"/docs/a.txt", "/docs/b.txt", "/docs/c.txt", "/docs/d.txt"})
	require.NoError(t, err)

	require.Len(t, result.Records, 4)
	assert.Equal(t, "A-1", result.Records[0].InvoiceNumber)
	assert.Equal(t, "B-2", result.Records[1].InvoiceNumber)
	assert.Equal(t, "C-3", result.Records[2].InvoiceNumber)
	assert.Equal(t, "D-4", result.Records[3].InvoiceNumber)

	assert.Equal(t, 4, result.Run.Succeeded)
	assert.Equal(t, 0, result.Run.Failed)
	assert.True(t, st.finished)
	assert.Equal(t, model.RunStatusCompleted, st.status)
	assert.Len(t, st.records, 4)
}

func TestProcessBatch_FailureIsolatedWithSentinelRow(t *testing.T) {
	src := fakeSource{
		texts: map[string]string{
			"/docs/a.txt": "Invoice No: A-1",
			"/docs/c.txt": "Invoice No: C-3",
		},
		errs: map[string]error{"/docs/b.txt": eris.New("unreadable")},
	}
	r := New(testExtractor(t), src, &memStore{}, batchConfig())

	result, err := r.ProcessBatch(context.Background(), "/docs",
		[]string{"/docs/a.txt", "/docs/b.txt", "/docs/c.txt"})
	require.NoError(t, err)

	require.Len(t, result.Records, 3, "sentinel policy keeps one row per input")
	assert.Equal(t, "A-1", result.Records[0].InvoiceNumber)
	assert.Equal(t, model.SentinelNotFound, result.Records[1].InvoiceNumber)
	assert.Equal(t, model.SentinelUnknown, result.Records[1].State)
	assert.Equal(t, "b.txt", result.Records[1].SourceDocument)
	assert.Equal(t, "C-3", result.Records[2].InvoiceNumber)

	assert.Equal(t, 2, result.Run.Succeeded)
	assert.Equal(t, 1, result.Run.Failed)
}

func TestProcessBatch_FailureOmittedUnderOmitPolicy(t *testing.T) {
	src := fakeSource{
		texts: map[string]string{"/docs/a.txt": "Invoice No: A-1"},
		errs:  map[string]error{"/docs/b.txt": eris.New("unreadable")},
	}
	cfg := batchConfig()
	cfg.FailedRowPolicy = config.FailedRowOmit
	r := New(testExtractor(t), src, &memStore{}, cfg)

	result, err := r.ProcessBatch(context.Background(), "/docs",
		[]string{"/docs/a.txt", "/docs/b.txt"})
	require.NoError(t, err)

	require.Len(t, result.Records, 1)
	assert.Equal(t, "A-1", result.Records[0].InvoiceNumber)
}

func TestProcessBatch_CancelledBeforeStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	src := fakeSource{texts: map[string]string{"/docs/a.txt": "Invoice No: A-1"}}
	st := &memStore{}
	r := New(testExtractor(t), src, st, batchConfig())

	result, err := r.ProcessBatch(ctx, "/docs", []string{"/docs/a.txt"})
	require.NoError(t, err)

	assert.Empty(t, result.Records, "no documents start after cancellation")
	assert.Equal(t, model.RunStatusFailed, st.status)
}

func TestProcessBatch_RateLimiterConfigured(t *testing.T) {
	src := fakeSource{texts: map[string]string{
		"/docs/a.txt": "Invoice No: A-1",
		"/docs/b.txt": "Invoice No: B-2",
	}}
	cfg := batchConfig()
	cfg.DocsPerSec = 1000 // fast enough to not slow the test
	r := New(testExtractor(t), src, &memStore{}, cfg)

	result, err := r.ProcessBatch(context.Background(), "/docs",
		[]string{"/docs/a.txt", "/docs/b.txt"})
	require.NoError(t, err)
	assert.Len(t, result.Records, 2)
}
