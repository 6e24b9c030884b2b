package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "github.com/tursodatabase/go-libsql"

	"github.com/HenryWConklin/blackjack/pkg/schema"
)

// LibSQLStore implements the Store interface using libSQL (embedded SQLite fork).
type LibSQLStore struct {
	db *sql.DB
}

// NewLibSQLStore opens a libSQL database at the given path and returns a Store.
// The path should be a file URI, e.g. "file:/path/to/graphs.db".
func NewLibSQLStore(dbPath string) (*LibSQLStore, error) {
	db, err := sql.Open("libsql", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open libsql: %w", err)
	}
	db.SetMaxOpenConns(1)

	// Apply connection-level PRAGMAs. Some PRAGMAs return rows so we use QueryRow.
	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA synchronous=NORMAL",
		"PRAGMA busy_timeout=5000",
		"PRAGMA foreign_keys=ON",
		"PRAGMA temp_store=MEMORY",
	}
	for _, p := range pragmas {
		var result string
		_ = db.QueryRow(p).Scan(&result)
	}

	return &LibSQLStore{db: db}, nil
}

// Close closes the database.
func (s *LibSQLStore) Close() error { return s.db.Close() }

// Migrate runs all pending database migrations.
func (s *LibSQLStore) Migrate(ctx context.Context) error {
	return runMigrations(ctx, s.db)
}

// --- Graphs ---

func (s *LibSQLStore) SaveGraph(ctx context.Context, rec *GraphRecord) error {
	if rec == nil || rec.ID == "" {
		return schema.NewError(schema.ErrCodeValidation, "graph record needs an id")
	}
	definition, err := json.Marshal(rec.Definition)
	if err != nil {
		return schema.NewError(schema.ErrCodeStore, "marshal graph definition").WithCause(err)
	}
	now := time.Now().UTC()
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO graphs (id, name, definition, created_at, updated_at) VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET name=excluded.name, definition=excluded.definition, updated_at=excluded.updated_at`,
		rec.ID, rec.Name, string(definition), now, now,
	)
	if err != nil {
		return schema.NewErrorf(schema.ErrCodeStore, "save graph %s: %s", rec.ID, err.Error()).WithCause(err)
	}
	return nil
}

func (s *LibSQLStore) GetGraph(ctx context.Context, id string) (*GraphRecord, error) {
	rec := &GraphRecord{}
	var definition string
	err := s.db.QueryRowContext(ctx,
		`SELECT id, name, definition, created_at, updated_at FROM graphs WHERE id = ?`, id,
	).Scan(&rec.ID, &rec.Name, &definition, &rec.CreatedAt, &rec.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, storeNotFound("graph", id)
	}
	if err != nil {
		return nil, schema.NewErrorf(schema.ErrCodeStore, "get graph %s: %s", id, err.Error()).WithCause(err)
	}
	if err := json.Unmarshal([]byte(definition), &rec.Definition); err != nil {
		return nil, schema.NewErrorf(schema.ErrCodeStore, "unmarshal graph %s: %s", id, err.Error()).WithCause(err)
	}
	return rec, nil
}

func (s *LibSQLStore) ListGraphs(ctx context.Context) ([]*GraphRecord, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, name, definition, created_at, updated_at FROM graphs ORDER BY name, id`)
	if err != nil {
		return nil, schema.NewErrorf(schema.ErrCodeStore, "list graphs: %s", err.Error()).WithCause(err)
	}
	defer rows.Close()

	var recs []*GraphRecord
	for rows.Next() {
		rec := &GraphRecord{}
		var definition string
		if err := rows.Scan(&rec.ID, &rec.Name, &definition, &rec.CreatedAt, &rec.UpdatedAt); err != nil {
			return nil, schema.NewErrorf(schema.ErrCodeStore, "scan graph: %s", err.Error()).WithCause(err)
		}
		if err := json.Unmarshal([]byte(definition), &rec.Definition); err != nil {
			return nil, schema.NewErrorf(schema.ErrCodeStore, "unmarshal graph %s: %s", rec.ID, err.Error()).WithCause(err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

func (s *LibSQLStore) DeleteGraph(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM graphs WHERE id = ?`, id)
	if err != nil {
		return schema.NewErrorf(schema.ErrCodeStore, "delete graph %s: %s", id, err.Error()).WithCause(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return storeNotFound("graph", id)
	}
	return nil
}

// --- External parameter values ---

func (s *LibSQLStore) SaveParams(ctx context.Context, graphID string, values schema.ExternalParameterValues) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return schema.NewErrorf(schema.ErrCodeStore, "begin save params: %s", err.Error()).WithCause(err)
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM graph_params WHERE graph_id = ?`, graphID); err != nil {
		_ = tx.Rollback()
		return schema.NewErrorf(schema.ErrCodeStore, "clear params for %s: %s", graphID, err.Error()).WithCause(err)
	}
	for param, value := range values {
		encoded, err := json.Marshal(value)
		if err != nil {
			_ = tx.Rollback()
			return schema.NewErrorf(schema.ErrCodeStore,
				"marshal param %s.%s: %s", param.NodeID, param.ParamName, err.Error()).WithCause(err)
		}
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO graph_params (graph_id, node_id, param_name, value) VALUES (?, ?, ?, ?)`,
			graphID, string(param.NodeID), param.ParamName, string(encoded),
		); err != nil {
			_ = tx.Rollback()
			return schema.NewErrorf(schema.ErrCodeStore,
				"save param %s.%s: %s", param.NodeID, param.ParamName, err.Error()).WithCause(err)
		}
	}
	if err := tx.Commit(); err != nil {
		return schema.NewErrorf(schema.ErrCodeStore, "commit save params: %s", err.Error()).WithCause(err)
	}
	return nil
}

func (s *LibSQLStore) GetParams(ctx context.Context, graphID string) (schema.ExternalParameterValues, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT node_id, param_name, value FROM graph_params WHERE graph_id = ?`, graphID)
	if err != nil {
		return nil, schema.NewErrorf(schema.ErrCodeStore, "get params for %s: %s", graphID, err.Error()).WithCause(err)
	}
	defer rows.Close()

	values := make(schema.ExternalParameterValues)
	for rows.Next() {
		var nodeID, paramName, encoded string
		if err := rows.Scan(&nodeID, &paramName, &encoded); err != nil {
			return nil, schema.NewErrorf(schema.ErrCodeStore, "scan param: %s", err.Error()).WithCause(err)
		}
		var value any
		if err := json.Unmarshal([]byte(encoded), &value); err != nil {
			return nil, schema.NewErrorf(schema.ErrCodeStore,
				"unmarshal param %s.%s: %s", nodeID, paramName, err.Error()).WithCause(err)
		}
		values.Set(schema.NewExternalParameter(schema.NodeID(nodeID), paramName), value)
	}
	return values, rows.Err()
}

// --- Bake jobs ---

func (s *LibSQLStore) SaveBakeJob(ctx context.Context, job *BakeJob) error {
	if job == nil || job.ID == "" {
		return schema.NewError(schema.ErrCodeValidation, "bake job needs an id")
	}
	now := time.Now().UTC()
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO bake_jobs (id, graph_id, cron_expression, enabled, last_run_at, next_run_at, last_run_status, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
		   graph_id=excluded.graph_id, cron_expression=excluded.cron_expression,
		   enabled=excluded.enabled, next_run_at=excluded.next_run_at, updated_at=excluded.updated_at`,
		job.ID, job.GraphID, job.CronExpression, job.Enabled,
		job.LastRunAt, job.NextRunAt, job.LastRunStatus, now, now,
	)
	if err != nil {
		return schema.NewErrorf(schema.ErrCodeStore, "save bake job %s: %s", job.ID, err.Error()).WithCause(err)
	}
	return nil
}

func (s *LibSQLStore) ListBakeJobs(ctx context.Context, enabledOnly bool) ([]*BakeJob, error) {
	query := `SELECT id, graph_id, cron_expression, enabled, last_run_at, next_run_at, last_run_status, created_at, updated_at
	 FROM bake_jobs`
	if enabledOnly {
		query += ` WHERE enabled = 1`
	}
	query += ` ORDER BY id`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, schema.NewErrorf(schema.ErrCodeStore, "list bake jobs: %s", err.Error()).WithCause(err)
	}
	defer rows.Close()

	var jobs []*BakeJob
	for rows.Next() {
		job := &BakeJob{}
		var lastRun, nextRun sql.NullTime
		if err := rows.Scan(&job.ID, &job.GraphID, &job.CronExpression, &job.Enabled,
			&lastRun, &nextRun, &job.LastRunStatus, &job.CreatedAt, &job.UpdatedAt); err != nil {
			return nil, schema.NewErrorf(schema.ErrCodeStore, "scan bake job: %s", err.Error()).WithCause(err)
		}
		if lastRun.Valid {
			t := lastRun.Time
			job.LastRunAt = &t
		}
		if nextRun.Valid {
			t := nextRun.Time
			job.NextRunAt = &t
		}
		jobs = append(jobs, job)
	}
	return jobs, rows.Err()
}

func (s *LibSQLStore) UpdateBakeJob(ctx context.Context, id string, update BakeJobUpdate) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE bake_jobs SET
		   last_run_at = COALESCE(?, last_run_at),
		   next_run_at = COALESCE(?, next_run_at),
		   last_run_status = CASE WHEN ? != '' THEN ? ELSE last_run_status END,
		   updated_at = ?
		 WHERE id = ?`,
		update.LastRunAt, update.NextRunAt, update.LastRunStatus, update.LastRunStatus,
		time.Now().UTC(), id,
	)
	if err != nil {
		return schema.NewErrorf(schema.ErrCodeStore, "update bake job %s: %s", id, err.Error()).WithCause(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return storeNotFound("bake job", id)
	}
	return nil
}

func (s *LibSQLStore) DeleteBakeJob(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM bake_jobs WHERE id = ?`, id)
	if err != nil {
		return schema.NewErrorf(schema.ErrCodeStore, "delete bake job %s: %s", id, err.Error()).WithCause(err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return storeNotFound("bake job", id)
	}
	return nil
}

// --- Runs ---

func (s *LibSQLStore) RecordRun(ctx context.Context, run *RunRecord) error {
	if run == nil || run.ID == "" {
		return schema.NewError(schema.ErrCodeValidation, "run record needs an id")
	}
	var renderable sql.NullString
	if len(run.Renderable) > 0 {
		renderable = sql.NullString{String: string(run.Renderable), Valid: true}
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (id, graph_id, target, status, renderable, error, started_at, completed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		run.ID, run.GraphID, string(run.Target), run.Status, renderable, run.Error,
		run.StartedAt, run.CompletedAt,
	)
	if err != nil {
		return schema.NewErrorf(schema.ErrCodeStore, "record run %s: %s", run.ID, err.Error()).WithCause(err)
	}
	return nil
}

func (s *LibSQLStore) ListRuns(ctx context.Context, graphID string, limit int) ([]*RunRecord, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, graph_id, target, status, renderable, error, started_at, completed_at
		 FROM runs WHERE graph_id = ? ORDER BY started_at DESC LIMIT ?`, graphID, limit)
	if err != nil {
		return nil, schema.NewErrorf(schema.ErrCodeStore, "list runs for %s: %s", graphID, err.Error()).WithCause(err)
	}
	defer rows.Close()

	var runs []*RunRecord
	for rows.Next() {
		run := &RunRecord{}
		var target string
		var renderable sql.NullString
		if err := rows.Scan(&run.ID, &run.GraphID, &target, &run.Status,
			&renderable, &run.Error, &run.StartedAt, &run.CompletedAt); err != nil {
			return nil, schema.NewErrorf(schema.ErrCodeStore, "scan run: %s", err.Error()).WithCause(err)
		}
		run.Target = schema.NodeID(target)
		if renderable.Valid {
			run.Renderable = json.RawMessage(renderable.String)
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

func storeNotFound(kind, id string) *schema.Error {
	return schema.NewErrorf(schema.ErrCodeNotFound, "%s not found: %s", kind, id)
}

var _ Store = (*LibSQLStore)(nil)
