package state

// sqlite_runs.go - evaluation run history

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// CreateEvalRun inserts a new running evaluation for the dataset.
func (s *SQLiteStore) CreateEvalRun(dataset string) (*EvalRun, error) {
	if err := s.ensureOpen(); err != nil {
		return nil, err
	}

	run := &EvalRun{
		ID:        uuid.New().String(),
		Dataset:   dataset,
		Status:    RunStatusRunning,
		StartedAt: time.Now().UTC(),
	}

	_, err := s.db.Exec(
		`INSERT INTO eval_runs (id, dataset, status, started_at) VALUES (?, ?, ?, ?)`,
		run.ID, run.Dataset, run.Status, run.StartedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create eval run: %w", err)
	}
	return run, nil
}

// CompleteEvalRun records the final status and aggregate metrics of a
// run. The run's CompletedAt is set here.
func (s *SQLiteStore) CompleteEvalRun(run *EvalRun) error {
	if err := s.ensureOpen(); err != nil {
		return err
	}

	now := time.Now().UTC()
	run.CompletedAt = &now

	result, err := s.db.Exec(
		`UPDATE eval_runs
		 SET status = ?, completed_at = ?, rows = ?, macro_f1 = ?, micro_f1 = ?, weighted_f1 = ?, accuracy = ?, error = ?
		 WHERE id = ?`,
		run.Status, now, run.Rows, run.MacroF1, run.MicroF1, run.WeightedF1, run.Accuracy, run.Error, run.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to complete eval run: %w", err)
	}

	affected, _ := result.RowsAffected()
	if affected == 0 {
		return fmt.Errorf("eval run not found: %s", run.ID)
	}
	return nil
}

// SaveLabelMetrics stores the per-label metric rows for a run.
func (s *SQLiteStore) SaveLabelMetrics(runID string, metrics []LabelMetric) error {
	if err := s.ensureOpen(); err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.Prepare(
		`INSERT OR REPLACE INTO label_metrics (run_id, label, kind, precision, recall, f1, support)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, m := range metrics {
		if _, err := stmt.Exec(runID, m.Label, m.Kind, m.Precision, m.Recall, m.F1, m.Support); err != nil {
			return fmt.Errorf("failed to insert metric %s/%s: %w", m.Kind, m.Label, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit metrics: %w", err)
	}
	return nil
}

// ListEvalRuns returns the most recent runs, newest first.
func (s *SQLiteStore) ListEvalRuns(limit int) ([]EvalRun, error) {
	if err := s.ensureOpen(); err != nil {
		return nil, err
	}
	if limit <= 0 {
		limit = 20
	}

	rows, err := s.db.Query(
		`SELECT id, dataset, status, started_at, completed_at, rows, macro_f1, micro_f1, weighted_f1, accuracy, error
		 FROM eval_runs ORDER BY started_at DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list eval runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []EvalRun
	for rows.Next() {
		var run EvalRun
		var completedAt sql.NullTime
		if err := rows.Scan(
			&run.ID, &run.Dataset, &run.Status, &run.StartedAt, &completedAt,
			&run.Rows, &run.MacroF1, &run.MicroF1, &run.WeightedF1, &run.Accuracy, &run.Error,
		); err != nil {
			return nil, fmt.Errorf("failed to scan eval run: %w", err)
		}
		if completedAt.Valid {
			run.CompletedAt = &completedAt.Time
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}

// LabelMetricsForRun returns the stored metrics for a run, finals
// first, then intermediates, each alphabetically.
func (s *SQLiteStore) LabelMetricsForRun(runID string) ([]LabelMetric, error) {
	if err := s.ensureOpen(); err != nil {
		return nil, err
	}

	rows, err := s.db.Query(
		`SELECT run_id, label, kind, precision, recall, f1, support
		 FROM label_metrics WHERE run_id = ? ORDER BY kind, label`,
		runID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list metrics: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var metrics []LabelMetric
	for rows.Next() {
		var m LabelMetric
		if err := rows.Scan(&m.RunID, &m.Label, &m.Kind, &m.Precision, &m.Recall, &m.F1, &m.Support); err != nil {
			return nil, fmt.Errorf("failed to scan metric: %w", err)
		}
		metrics = append(metrics, m)
	}
	return metrics, rows.Err()
}
