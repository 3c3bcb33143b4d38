package store

import (
	"context"
	"database/sql"
	"time"

	"github.com/rotisserie/eris"
	_ "modernc.org/sqlite"

	"github.com/sells-group/evolsynth-api/internal/model"
)

// Store persists the generation run history.
type Store interface {
	Migrate(ctx context.Context) error
	InsertRun(ctx context.Context, run model.GenerationRun) error
	UpdateRunStatus(ctx context.Context, runID string, status model.RunStatus, errMsg string) error
	UpdateRunOutcome(ctx context.Context, run model.GenerationRun) error
	GetRun(ctx context.Context, runID string) (*model.GenerationRun, error)
	ListRuns(ctx context.Context, limit int) ([]model.GenerationRun, error)
	Close() error
}

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
CREATE TABLE IF NOT EXISTS generation_runs (
	id             TEXT PRIMARY KEY,
	status         TEXT NOT NULL DEFAULT 'running',
	document_count INTEGER NOT NULL DEFAULT 0,
	questions      INTEGER NOT NULL DEFAULT 0,
	answers        INTEGER NOT NULL DEFAULT 0,
	contexts       INTEGER NOT NULL DEFAULT 0,
	cache_hit      INTEGER NOT NULL DEFAULT 0,
	fast_mode      INTEGER NOT NULL DEFAULT 0,
	duration_ms    INTEGER NOT NULL DEFAULT 0,
	error          TEXT NOT NULL DEFAULT '',
	created_at     DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_generation_runs_status ON generation_runs(status);
CREATE INDEX IF NOT EXISTS idx_generation_runs_created_at ON generation_runs(created_at);
`

func (s *SQLiteStore) Migrate(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, sqliteMigration)
	return eris.Wrap(err, "sqlite: migrate")
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) InsertRun(ctx context.Context, run model.GenerationRun) error {
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO generation_runs
			(id, status, document_count, questions, answers, contexts, cache_hit, fast_mode, duration_ms, error, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, string(run.Status), run.DocumentCount, run.Questions, run.Answers, run.Contexts,
		boolToInt(run.CacheHit), boolToInt(run.FastMode), run.DurationMs, run.Error, run.CreatedAt,
	)
	return eris.Wrapf(err, "sqlite: insert run %s", run.ID)
}

func (s *SQLiteStore) UpdateRunStatus(ctx context.Context, runID string, status model.RunStatus, errMsg string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE generation_runs SET status = ?, error = ? WHERE id = ?`,
		string(status), errMsg, runID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update run status %s", runID)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "sqlite: rows affected")
	}
	if affected == 0 {
		return eris.Errorf("sqlite: run %s not found", runID)
	}
	return nil
}

// UpdateRunOutcome records the final counts and duration for a run.
func (s *SQLiteStore) UpdateRunOutcome(ctx context.Context, run model.GenerationRun) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE generation_runs
		 SET status = ?, questions = ?, answers = ?, contexts = ?, cache_hit = ?, duration_ms = ?, error = ?
		 WHERE id = ?`,
		string(run.Status), run.Questions, run.Answers, run.Contexts,
		boolToInt(run.CacheHit), run.DurationMs, run.Error, run.ID,
	)
	if err != nil {
		return eris.Wrapf(err, "sqlite: update run outcome %s", run.ID)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return eris.Wrap(err, "sqlite: rows affected")
	}
	if affected == 0 {
		return eris.Errorf("sqlite: run %s not found", run.ID)
	}
	return nil
}

func (s *SQLiteStore) GetRun(ctx context.Context, runID string) (*model.GenerationRun, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, status, document_count, questions, answers, contexts, cache_hit, fast_mode, duration_ms, error, created_at
		 FROM generation_runs WHERE id = ?`, runID)

	run, err := scanRun(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrapf(err, "sqlite: get run %s", runID)
	}
	return run, nil
}

func (s *SQLiteStore) ListRuns(ctx context.Context, limit int) ([]model.GenerationRun, error) {
	if limit < 1 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, status, document_count, questions, answers, contexts, cache_hit, fast_mode, duration_ms, error, created_at
		 FROM generation_runs ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, eris.Wrap(err, "sqlite: list runs")
	}
	defer rows.Close()

	var runs []model.GenerationRun
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, eris.Wrap(err, "sqlite: scan run")
		}
		runs = append(runs, *run)
	}
	return runs, eris.Wrap(rows.Err(), "sqlite: iterate runs")
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*model.GenerationRun, error) {
	var run model.GenerationRun
	var status string
	var cacheHit, fastMode int
	if err := row.Scan(
		&run.ID, &status, &run.DocumentCount, &run.Questions, &run.Answers, &run.Contexts,
		&cacheHit, &fastMode, &run.DurationMs, &run.Error, &run.CreatedAt,
	); err != nil {
		return nil, err
	}
	run.Status = model.RunStatus(status)
	run.CacheHit = cacheHit != 0
	run.FastMode = fastMode != 0
	return &run, nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
