// Package verify drives detector verification over a range of integers.
//
// For each n in [Min, Max] the driver computes the partition statistics,
// evaluates the detector, asks the independent primality oracle, and records
// whether "detector vanishes" and "n is prime" agree. Disagreements are
// findings, not errors: they are collected in the report's mismatch list and
// surface as a verification failure, never as a Go error.
//
// The scan is deterministic and embarrassingly parallel. With Workers > 1
// the range is split into contiguous chunks, each chunk scanned by a worker
// owning its own partition engine (no shared cache, no locking); chunk
// results are merged back in range order, so parallel and sequential runs
// produce byte-identical reports.
//
// Cancellation is honored between iterations of the scan loop: an
// interrupted run returns the contiguous prefix of records computed so far
// with Interrupted set, and anything already handed to the record sink
// stays persisted. Partial results are valid results.
package verify
