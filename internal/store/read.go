package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/big"

	"github.com/arvindvenkat01/macmahon-prime-detectors/internal/verify"
)

// ErrRunNotFound is returned when a run ID does not exist in the store.
var ErrRunNotFound = errors.New("run not found")

// RunSummary is the runs-table view of one verification run.
type RunSummary struct {
	ID          string `json:"id"`
	Detector    string `json:"detector"`
	Min         int64  `json:"min"`
	Max         int64  `json:"max"`
	Total       int    `json:"total"`
	Matches     int    `json:"matches"`
	Mismatches  int    `json:"mismatches"`
	Interrupted bool   `json:"interrupted"`
	Finalized   bool   `json:"finalized"`
	CreatedAt   string `json:"created_at"`
}

// ListRuns returns all stored runs, newest first.
func (s *Store) ListRuns(ctx context.Context) ([]RunSummary, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, detector, n_min, n_max, total, matches, mismatches, interrupted, finalized, created_at
		FROM runs
		ORDER BY created_at DESC, id
	`)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	var runs []RunSummary
	for rows.Next() {
		var r RunSummary
		if err := rows.Scan(&r.ID, &r.Detector, &r.Min, &r.Max, &r.Total, &r.Matches,
			&r.Mismatches, &r.Interrupted, &r.Finalized, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("list runs: %w", err)
		}
		runs = append(runs, r)
	}
	return runs, rows.Err()
}

// GetRun reconstructs the full report for a stored run, including every
// per-integer record in range order.
func (s *Store) GetRun(ctx context.Context, runID string) (*verify.Report, error) {
	var summary RunSummary
	err := s.db.QueryRowContext(ctx, `
		SELECT id, detector, n_min, n_max, interrupted
		FROM runs WHERE id = ?
	`, runID).Scan(&summary.ID, &summary.Detector, &summary.Min, &summary.Max, &summary.Interrupted)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrRunNotFound, runID)
	}
	if err != nil {
		return nil, fmt.Errorf("get run: %w", err)
	}

	records, err := s.ReadRecords(ctx, runID)
	if err != nil {
		return nil, err
	}

	report := &verify.Report{
		RunID:       summary.ID,
		Detector:    summary.Detector,
		Min:         summary.Min,
		Max:         summary.Max,
		Interrupted: summary.Interrupted,
	}
	for _, rec := range records {
		report.Records = append(report.Records, rec)
		report.Total++
		if rec.OK {
			report.Matches++
		} else {
			report.Mismatches = append(report.Mismatches, rec)
		}
	}
	return report, nil
}

// ReadRecords returns the per-integer results of a run ordered by n.
func (s *Store) ReadRecords(ctx context.Context, runID string) ([]verify.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT n, value, is_prime, ok
		FROM results WHERE run_id = ?
		ORDER BY n
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("read records: %w", err)
	}
	defer rows.Close()

	var records []verify.Record
	for rows.Next() {
		var rec verify.Record
		var value string
		if err := rows.Scan(&rec.N, &value, &rec.IsPrime, &rec.OK); err != nil {
			return nil, fmt.Errorf("read records: %w", err)
		}
		v, ok := new(big.Int).SetString(value, 10)
		if !ok {
			return nil, fmt.Errorf("read records: corrupt value %q for n=%d", value, rec.N)
		}
		rec.Value = v
		records = append(records, rec)
	}
	return records, rows.Err()
}

// Mismatches returns only the failing records of a run ordered by n.
func (s *Store) Mismatches(ctx context.Context, runID string) ([]verify.Record, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT n, value, is_prime, ok
		FROM results WHERE run_id = ? AND ok = 0
		ORDER BY n
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("read mismatches: %w", err)
	}
	defer rows.Close()

	var records []verify.Record
	for rows.Next() {
		var rec verify.Record
		var value string
		if err := rows.Scan(&rec.N, &value, &rec.IsPrime, &rec.OK); err != nil {
			return nil, fmt.Errorf("read mismatches: %w", err)
		}
		v, ok := new(big.Int).SetString(value, 10)
		if !ok {
			return nil, fmt.Errorf("read mismatches: corrupt value %q for n=%d", value, rec.N)
		}
		rec.Value = v
		records = append(records, rec)
	}
	return records, rows.Err()
}
