package verify

import (
	"context"
	"math/big"
)

// Record is the outcome of checking a single integer.
type Record struct {
	// N is the integer checked.
	N int64 `json:"n"`

	// Value is the exact detector value D(N).
	Value *big.Int `json:"value"`

	// IsPrime is the oracle's verdict for N.
	IsPrime bool `json:"is_prime"`

	// OK is true when the detector agrees with the oracle:
	// Value == 0 exactly when N is prime.
	OK bool `json:"ok"`
}

// RecordSink receives records as the scan produces them, in range order.
// Sinks are the checkpoint mechanism: a sink that persists records makes an
// interrupted run resumable by inspection. A sink error aborts the run.
type RecordSink interface {
	WriteRecord(ctx context.Context, rec Record) error
}
