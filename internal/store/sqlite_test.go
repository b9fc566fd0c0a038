package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/invoice-extract/internal/model"
)

func newTestSQLite(t *testing.T) *SQLiteStore {
	t.Helper()

	st, err := NewSQLite(filepath.Join(t.TempDir(), "invoices.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })

	require.NoError(t, st.Migrate(context.Background()))
	return st
}

func TestSQLite_RunLifecycle(t *testing.T) {
	ctx := context.Background()
	st := newTestSQLite(t)

	run, err := st.CreateRun(ctx, "/data/invoices")
	require.NoError(t, err)
	require.NotEmpty(t, run.ID)
	assert.Equal(t, model.RunStatusRunning, run.Status)
	assert.Equal(t, "/data/invoices", run.SourceDir)
	assert.Nil(t, run.FinishedAt)

	require.NoError(t, st.FinishRun(ctx, run.ID, model.RunStatusCompleted, 3, 2, 1))

	runs, err := st.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 1)

	got := runs[0]
	assert.Equal(t, run.ID, got.ID)
	assert.Equal(t, model.RunStatusCompleted, got.Status)
	assert.Equal(t, 3, got.Documents)
	assert.Equal(t, 2, got.Succeeded)
	assert.Equal(t, 1, got.Failed)
	require.NotNil(t, got.FinishedAt)
}

func TestSQLite_FinishRunUnknownID(t *testing.T) {
	st := newTestSQLite(t)

	err := st.FinishRun(context.Background(), "no-such-run", model.RunStatusCompleted, 0, 0, 0)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestSQLite_RecordsPreserveOrder(t *testing.T) {
	ctx := context.Background()
	st := newTestSQLite(t)

	run, err := st.CreateRun(ctx, "/data")
	require.NoError(t, err)

	docs := []string{"a.pdf", "b.pdf", "c.pdf"}
	for _, doc := range docs {
		rec := model.InvoiceRecord{
			InvoiceNumber:  "INV-" + doc,
			OrderDate:      model.SentinelNotFound,
			Customer:       "Acme",
			State:          "NY",
			TotalDue:       "10.00",
			SourceDocument: doc,
		}
		require.NoError(t, st.InsertRecord(ctx, run.ID, rec))
	}

	recs, err := st.ListRecords(ctx, run.ID)
	require.NoError(t, err)
	require.Len(t, recs, 3)
	for i, doc := range docs {
		assert.Equal(t, doc, recs[i].SourceDocument)
		assert.Equal(t, "INV-"+doc, recs[i].InvoiceNumber)
	}
}

func TestSQLite_RecordsScopedToRun(t *testing.T) {
	ctx := context.Background()
	st := newTestSQLite(t)

	first, err := st.CreateRun(ctx, "/first")
	require.NoError(t, err)
	second, err := st.CreateRun(ctx, "/second")
	require.NoError(t, err)

	require.NoError(t, st.InsertRecord(ctx, first.ID, model.InvoiceRecord{SourceDocument: "one.pdf"}))
	require.NoError(t, st.InsertRecord(ctx, second.ID, model.InvoiceRecord{SourceDocument: "two.pdf"}))

	recs, err := st.ListRecords(ctx, first.ID)
	require.NoError(t, err)
	require.Len(t, recs, 1)
	assert.Equal(t, "one.pdf", recs[0].SourceDocument)
}

func TestSQLite_ListRunsEmpty(t *testing.T) {
	st := newTestSQLite(t)

	runs, err := st.ListRuns(context.Background(), 10)
	require.NoError(t, err)
	assert.Empty(t, runs)
}
