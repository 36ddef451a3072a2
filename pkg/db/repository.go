package db

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/printpath/printpath/pkg/errors"
	_ "modernc.org/sqlite"
)

// Repository provides database operations for runs and snapshot records.
type Repository struct {
	db *sql.DB
}

// NewRepository opens the database and creates the schema.
func NewRepository(dbPath string) (*Repository, error) {
	slog.Info("database_init", "db_path", dbPath)

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		slog.Error("database_open_failed", "db_path", dbPath, "error", err)
		return nil, errors.Wrap(err, "failed to open database")
	}

	if _, err := db.Exec(Schema); err != nil {
		db.Close()
		slog.Error("database_schema_failed", "db_path", dbPath, "error", err)
		return nil, errors.Wrap(err, "failed to create schema")
	}

	slog.Info("database_ready", "db_path", dbPath)
	return &Repository{db: db}, nil
}

// Close closes the database connection.
func (r *Repository) Close() error {
	return r.db.Close()
}

// CreateRun inserts a new run record and fills in its ID.
func (r *Repository) CreateRun(run *Run) error {
	slog.Info("database_create_run", "input_path", run.InputPath, "generator", run.Generator)

	query := `
		INSERT INTO runs (input_path, output_path, generator, status, layers_detected, snapshot_count, error_message)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	result, err := r.db.Exec(query,
		run.InputPath, run.OutputPath, run.Generator, run.Status,
		run.LayersDetected, run.SnapshotCount, run.ErrorMessage)
	if err != nil {
		slog.Error("database_insert_failed", "input_path", run.InputPath, "error", err)
		return errors.Wrap(err, "failed to insert run")
	}

	id, err := result.LastInsertId()
	if err != nil {
		return errors.Wrap(err, "failed to get last insert id")
	}
	run.ID = id

	slog.Info("database_run_created", "run_id", run.ID, "input_path", run.InputPath)
	return nil
}

// UpdateRun updates an existing run record.
func (r *Repository) UpdateRun(run *Run) error {
	query := `
		UPDATE runs
		SET output_path = ?, generator = ?, status = ?,
		    layers_detected = ?, snapshot_count = ?, error_message = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`
	result, err := r.db.Exec(query,
		run.OutputPath, run.Generator, run.Status,
		run.LayersDetected, run.SnapshotCount, run.ErrorMessage, run.ID)
	if err != nil {
		slog.Error("database_update_failed", "run_id", run.ID, "error", err)
		return errors.Wrap(err, "failed to update run")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "failed to get rows affected")
	}
	if rows == 0 {
		return fmt.Errorf("run not found: id=%d", run.ID)
	}

	slog.Info("database_run_updated", "run_id", run.ID, "status", run.Status)
	return nil
}

// UpdateRunStatus updates only the status and error message.
func (r *Repository) UpdateRunStatus(id int64, status, errorMessage string) error {
	query := `UPDATE runs SET status = ?, error_message = ?, updated_at = CURRENT_TIMESTAMP WHERE id = ?`
	if _, err := r.db.Exec(query, status, errorMessage, id); err != nil {
		slog.Error("database_status_update_failed", "run_id", id, "status", status, "error", err)
		return errors.Wrap(err, "failed to update status")
	}
	slog.Info("database_status_updated", "run_id", id, "status", status)
	return nil
}

// GetLatestByInput retrieves the most recent run for an input path, or nil.
func (r *Repository) GetLatestByInput(inputPath string) (*Run, error) {
	query := `
		SELECT id, input_path, output_path, generator, status,
		       layers_detected, snapshot_count, error_message, created_at, updated_at
		FROM runs WHERE input_path = ? ORDER BY id DESC LIMIT 1
	`
	run, err := scanRun(r.db.QueryRow(query, inputPath))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		slog.Error("database_query_failed", "input_path", inputPath, "error", err)
		return nil, errors.Wrap(err, "failed to query run")
	}
	return run, nil
}

// GetRun retrieves a run by ID, or nil when absent.
func (r *Repository) GetRun(id int64) (*Run, error) {
	query := `
		SELECT id, input_path, output_path, generator, status,
		       layers_detected, snapshot_count, error_message, created_at, updated_at
		FROM runs WHERE id = ?
	`
	run, err := scanRun(r.db.QueryRow(query, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "failed to query run")
	}
	return run, nil
}

// ListRuns retrieves all runs, newest first.
func (r *Repository) ListRuns() ([]*Run, error) {
	query := `
		SELECT id, input_path, output_path, generator, status,
		       layers_detected, snapshot_count, error_message, created_at, updated_at
		FROM runs ORDER BY created_at DESC
	`
	rows, err := r.db.Query(query)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list runs")
	}
	defer rows.Close()

	var runs []*Run
	for rows.Next() {
		run, err := scanRun(rows)
		if err != nil {
			return nil, errors.Wrap(err, "failed to scan row")
		}
		runs = append(runs, run)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "rows error")
	}
	return runs, nil
}

// InsertSnapshots stores all snapshot records for a run in one transaction.
func (r *Repository) InsertSnapshots(runID int64, snaps []Snapshot) error {
	tx, err := r.db.Begin()
	if err != nil {
		return errors.Wrap(err, "failed to begin transaction")
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO snapshots (run_id, sequence_index, layer_index, x, y, z)
		VALUES (?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return errors.Wrap(err, "failed to prepare insert")
	}
	defer stmt.Close()

	for _, s := range snaps {
		if _, err := stmt.Exec(runID, s.Sequence, s.Layer, s.X, s.Y, s.Z); err != nil {
			return errors.Wrap(err, "failed to insert snapshot")
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Wrap(err, "failed to commit transaction")
	}

	slog.Info("database_snapshots_stored", "run_id", runID, "snapshot_count", len(snaps))
	return nil
}

// ListSnapshots retrieves a run's snapshot records ordered by sequence.
func (r *Repository) ListSnapshots(runID int64) ([]Snapshot, error) {
	query := `
		SELECT id, run_id, sequence_index, layer_index, x, y, z
		FROM snapshots WHERE run_id = ? ORDER BY sequence_index
	`
	rows, err := r.db.Query(query, runID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list snapshots")
	}
	defer rows.Close()

	var snaps []Snapshot
	for rows.Next() {
		var s Snapshot
		if err := rows.Scan(&s.ID, &s.RunID, &s.Sequence, &s.Layer, &s.X, &s.Y, &s.Z); err != nil {
			return nil, errors.Wrap(err, "failed to scan snapshot")
		}
		snaps = append(snaps, s)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Wrap(err, "rows error")
	}
	return snaps, nil
}

// DeleteRun deletes a run and, via the cascade, its snapshot records.
func (r *Repository) DeleteRun(id int64) error {
	if _, err := r.db.Exec(`DELETE FROM snapshots WHERE run_id = ?`, id); err != nil {
		return errors.Wrap(err, "failed to delete snapshots")
	}
	if _, err := r.db.Exec(`DELETE FROM runs WHERE id = ?`, id); err != nil {
		return errors.Wrap(err, "failed to delete run")
	}
	slog.Info("database_run_deleted", "run_id", id)
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (*Run, error) {
	var run Run
	var outputPath, errorMessage sql.NullString

	err := row.Scan(
		&run.ID, &run.InputPath, &outputPath, &run.Generator, &run.Status,
		&run.LayersDetected, &run.SnapshotCount, &errorMessage,
		&run.CreatedAt, &run.UpdatedAt)
	if err != nil {
		return nil, err
	}

	run.OutputPath = outputPath.String
	run.ErrorMessage = errorMessage.String
	return &run, nil
}
