package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"

	"github.com/sells-group/invoice-extract/internal/model"
)

// Pool is the subset of pgxpool.Pool the store uses; pgxmock satisfies it in
// tests.
type Pool interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Close()
}

// PostgresStore implements Store using pgxpool.
type PostgresStore struct {
	pool Pool
}

// NewPostgres creates a PostgresStore with a connection pool.
func NewPostgres(ctx context.Context, connString string) (*PostgresStore, error) {
	pgxCfg, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: parse config")
	}
	pgxCfg.MaxConns = 10
	pgxCfg.MinConns = 2
	pgxCfg.MaxConnLifetime = 30 * time.Minute
	pgxCfg.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: create pool")
	}

	return &PostgresStore{pool: pool}, nil
}

// NewPostgresWithPool wraps an existing pool; tests use this with pgxmock.
func NewPostgresWithPool(pool Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const postgresMigration = `
CREATE TABLE IF NOT EXISTS batch_runs (
	id          TEXT PRIMARY KEY,
	status      TEXT NOT NULL DEFAULT 'running',
	source_dir  TEXT NOT NULL,
	documents   INTEGER NOT NULL DEFAULT 0,
	succeeded   INTEGER NOT NULL DEFAULT 0,
	failed      INTEGER NOT NULL DEFAULT 0,
	started_at  TIMESTAMPTZ NOT NULL DEFAULT now(),
	finished_at TIMESTAMPTZ
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

func (s *PostgresStore) Migrate(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, postgresMigration)
	return eris.Wrap(err, "postgres: migrate")
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func (s *PostgresStore) CreateRun(ctx context.Context, sourceDir string) (*model.BatchRun, error) {
	id := uuid.New().String()
	now := time.Now().UTC()

	_, err := s.pool.Exec(ctx,
		`INSERT INTO batch_runs (id, status, source_dir, started_at) VALUES ($1, $2, $3, $4)`,
		id, string(model.RunStatusRunning), sourceDir, now,
	)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: insert run")
	}

	return &model.BatchRun{
		ID:        id,
		Status:    model.RunStatusRunning,
		SourceDir: sourceDir,
		StartedAt: now,
	}, nil
}

func (s *PostgresStore) FinishRun(ctx context.Context, runID string, status model.RunStatus, documents, succeeded, failed int) error {
	tag, err := s.pool.Exec(ctx,
		`UPDATE batch_runs SET status = $1, documents = $2, succeeded = $3, failed = $4, finished_at = $5 WHERE id = $6`,
		string(status), documents, succeeded, failed, time.Now().UTC(), runID,
	)
	if err != nil {
		return eris.Wrapf(err, "postgres: finish run %s", runID)
	}
	if tag.RowsAffected() == 0 {
		return eris.Errorf("postgres: run %s not found", runID)
	}
	return nil
}

func (s *PostgresStore) InsertRecord(ctx context.Context, runID string, rec model.InvoiceRecord) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO records (id, run_id, position, invoice_number, order_date, customer, state, total_due, source_doc)
		 VALUES ($1, $2, (SELECT COUNT(*) FROM records WHERE run_id = $2), $3, $4, $5, $6, $7, $8)`,
		uuid.New().String(), runID,
		rec.InvoiceNumber, rec.OrderDate, rec.Customer, rec.State, rec.TotalDue, rec.SourceDocument,
	)
	return eris.Wrapf(err, "postgres: insert record for run %s", runID)
}

func (s *PostgresStore) ListRuns(ctx context.Context, limit int) ([]model.BatchRun, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.Query(ctx,
		`SELECT id, status, source_dir, documents, succeeded, failed, started_at, finished_at
		 FROM batch_runs ORDER BY started_at DESC LIMIT $1`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "postgres: list runs")
	}
	defer rows.Close()

	var runs []model.BatchRun
	for rows.Next() {
		var r model.BatchRun
		var status string
		var finished sql.NullTime
		if err := rows.Scan(&r.ID, &status, &r.SourceDir, &r.Documents, &r.Succeeded, &r.Failed, &r.StartedAt, &finished); err != nil {
			return nil, eris.Wrap(err, "postgres: scan run")
		}
		r.Status = model.RunStatus(status)
		if finished.Valid {
			t := finished.Time
			r.FinishedAt = &t
		}
		runs = append(runs, r)
	}
	return runs, eris.Wrap(rows.Err(), "postgres: iterate runs")
}

func (s *PostgresStore) ListRecords(ctx context.Context, runID string) ([]model.InvoiceRecord, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT invoice_number, order_date, customer, state, total_due, source_doc
		 FROM records WHERE run_id = $1 ORDER BY position`, runID)
	if err != nil {
		return nil, eris.Wrapf(err, "postgres: list records for run %s", runID)
	}
	defer rows.Close()

	var recs []model.InvoiceRecord
	for rows.Next() {
		var r model.InvoiceRecord
		if err := rows.Scan(&r.InvoiceNumber, &r.OrderDate, &r.Customer, &r.State, &r.TotalDue, &r.SourceDocument); err != nil {
			return nil, eris.Wrap(err, "postgres: scan record")
		}
		recs = append(recs, r)
	}
	return recs, eris.Wrap(rows.Err(), "postgres: iterate records")
}
