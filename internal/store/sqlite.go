package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/invoice-extract/internal/model"
)

// SQLiteStore implements Store using modernc.org/sqlite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLite opens a SQLite database at the given path and configures WAL mode.
func NewSQLite(dsn string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: open")
	}
	for _, pragma := range []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA synchronous=NORMAL",
	} {
		if _, err := db.Exec(pragma); err != nil {
			db.Close()
			return nil, eris.Wrapf(err, "sqlite: exec %s", pragma)
		}
	}
	return &SQLiteStore{db: db}, nil
}

const sqliteMigration = `
CREATE TABLE IF NOT EXISTS batch_runs (
	id          TEXT PRIMARY KEY,
	status      TEXT NOT NULL DEFAULT 'running',
	source_dir  TEXT NOT NULL,
	documents   INTEGER NOT NULL DEFAULT 0,
	succeeded   INTEGER NOT NULL DEFAULT 0,
	failed      INTEGER NOT NULL DEFAULT 0,
	started_at  DATETIME NOT NULL DEFAULT (datetime('now')),
	finished_at DATETIME
);

CREATE TABLE IF NOT EXISTS records (
	id             TEXT PRIMARY KEY,
	run_id         TEXT NOT NULL REFERENCES batch_runs(id),
	position       INTEGER NOT NULL,
	invoice_number TEXT NOT NULL,
	order_date     TEXT NOT NULL,
	customer       TEXT NOT NULL,
	state          TEXT NOT NULL,
	total_due      TEXT NOT NULL,
	source_doc     TEXT NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_batch_runs_status ON batch_runs(status);
CREATE INDEX IF NOT EXISTS idx_records_run_id ON records(run_id);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) CreateRun(ctx context.Context, sourceDir string) (*model.BatchRun, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO batch_runs (id, status, source_dir, started_at) VALUES (?, ?, ?, ?)`,
		id, string(model.RunStatusRunning), sourceDir, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: insert run")
	}

	return &model.BatchRun{
		ID:        id,
		Status:    model.RunStatusRunning,
		SourceDir: sourceDir,
		StartedAt: now,
	}, nil
}

func (s *SQLiteStore) FinishRun(ctx context.Context, runID string, status model.RunStatus, documents, succeeded, failed int) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE batch_runs SET status = ?, documents = ?, succeeded = ?, failed = ?, finished_at = ? WHERE id = ?`,
		string(status), documents, succeeded, failed, time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: finish run %s", runID)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "sqlite: rows affected")
	}
	if n == 0 {
		return eris.Errorf("sqlite: run %s not found", runID)
	}
	return nil
}

func (s *SQLiteStore) InsertRecord(ctx context.Context, runID string, rec model.InvoiceRecord) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO records (id, run_id, position, invoice_number, order_date, customer, state, total_due, source_doc)
		 VALUES (?, ?, (SELECT COUNT(*) FROM records WHERE run_id = ?), ?, ?, ?, ?, ?, ?)`,
		uuid.New().String(), runID, runID,
		rec.InvoiceNumber, rec.OrderDate, rec.Customer, rec.State, rec.TotalDue, rec.SourceDocument,
	)
	return eris.Wrapf(err, "sqlite: insert record for run %s", runID)
}

func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]model.BatchRun, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, status, source_dir, documents, succeeded, failed, started_at, finished_at
		 FROM batch_runs ORDER BY started_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list runs")
	}
	defer rows.Close()

	var runs []model.BatchRun
	for rows.Next() {
		var r model.BatchRun
		var status string
		var finished sql.NullTime
		if err := rows.Scan(&r.ID, &status, &r.SourceDir, &r.Documents, &r.Succeeded, &r.Failed, &r.StartedAt, &finished); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan run")
		}
		r.Status = model.RunStatus(status)
		if finished.Valid {
			t := finished.Time
			r.FinishedAt = &t
		}
		runs = append(runs, r)
	}
	return runs, eris.Wrap(rows.Err(), "sqlite: iterate runs")
}

func (s *SQLiteStore) ListRecords(ctx context.Context, runID string) ([]model.InvoiceRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT invoice_number, order_date, customer, state, total_due, source_doc
		 FROM records WHERE run_id = ? ORDER BY position`, runID)
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: list records for run %s", runID)
	}
	defer rows.Close()

	var recs []model.InvoiceRecord
	for rows.Next() {
		var r model.InvoiceRecord
		if err := rows.Scan(&r.InvoiceNumber, &r.OrderDate, &r.Customer, &r.State, &r.TotalDue, &r.SourceDocument); err != nil {
			return nil, eris.Wrap(err, "sqlite: scan record")
		}
		recs = append(recs, r)
	}
	return recs, eris.Wrap(rows.Err(), "sqlite: iterate records")
}
