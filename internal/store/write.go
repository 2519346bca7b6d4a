package store

import (
	"context"
	"fmt"

	"github.com/arvindvenkat01/macmahon-prime-detectors/internal/verify"
)

// BeginRun inserts the run row before any results are written.
// Uses ON CONFLICT(id) DO NOTHING for idempotency.
func (s *Store) BeginRun(ctx context.Context, runID, detectorName string, nMin, nMax int64) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, detector, n_min, n_max)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(id) DO NOTHING
	`, runID, detectorName, nMin, nMax)
	if err != nil {
		return fmt.Errorf("begin run: %w", err)
	}
	return nil
}

// WriteRecord inserts one per-integer result for a run.
// Uses ON CONFLICT DO NOTHING for idempotency - rewriting the same (run, n)
// is silently ignored, which makes checkpoint replays safe.
func (s *Store) WriteRecord(ctx context.Context, runID string, rec verify.Record) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO results (run_id, n, value, is_prime, ok)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT DO NOTHING
	`, runID, rec.N, rec.Value.String(), rec.IsPrime, rec.OK)
	if err != nil {
		return fmt.Errorf("write record n=%d: %w", rec.N, err)
	}
	return nil
}

// FinalizeRun stamps the run row with the report summary.
// Safe to call again with the same report (the update is absolute).
func (s *Store) FinalizeRun(ctx context.Context, runID string, report *verify.Report) error {
	_, err := s.db.ExecContext(ctx, `
		UPDATE runs
		SET total = ?, matches = ?, mismatches = ?, interrupted = ?, finalized = 1
		WHERE id = ?
	`, report.Total, report.Matches, len(report.Mismatches), report.Interrupted, runID)
	if err != nil {
		return fmt.Errorf("finalize run: %w", err)
	}
	return nil
}

// RunSink adapts a store to the driver's RecordSink interface, streaming
// records into one run as the scan produces them.
type RunSink struct {
	Store *Store
	RunID string
}

// WriteRecord implements verify.RecordSink.
func (s *RunSink) WriteRecord(ctx context.Context, rec verify.Record) error {
	return s.Store.WriteRecord(ctx, s.RunID, rec)
}
