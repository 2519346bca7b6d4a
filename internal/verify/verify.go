package verify

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/arvindvenkat01/macmahon-prime-detectors/internal/detector"
	"github.com/arvindvenkat01/macmahon-prime-detectors/internal/partition"
	"github.com/arvindvenkat01/macmahon-prime-detectors/internal/primes"
)

// OptionsError reports invalid verification options. It fails the run
// before any integer is checked.
type OptionsError struct {
	Field   string // offending option
	Message string // human-readable description
}

// Error implements the error interface.
func (e *OptionsError) Error() string {
	return fmt.Sprintf("invalid option %s: %s", e.Field, e.Message)
}

// IsOptionsError returns true if the error is an options validation error.
func IsOptionsError(err error) bool {
	var oe *OptionsError
	return errors.As(err, &oe)
}

// Options configure a verification run.
type Options struct {
	// Min and Max delimit the inclusive range to scan. Min is clamped up to
	// the detector's MinN floor before scanning.
	Min int64
	Max int64

	// Detector is the formula under test. Required.
	Detector detector.Detector

	// Workers sets the scan parallelism. Values below 2 select the strictly
	// sequential path.
	Workers int

	// Sink, when non-nil, receives every record in range order as it is
	// produced. A sink error aborts the run.
	Sink RecordSink
}

func (o *Options) validate() error {
	if o.Detector == nil {
		return &OptionsError{Field: "detector", Message: "detector is required"}
	}
	if o.Min < 0 {
		return &OptionsError{Field: "min", Message: fmt.Sprintf("must be non-negative, got %d", o.Min)}
	}
	if o.Min > o.Max {
		return &OptionsError{Field: "range", Message: fmt.Sprintf("min %d exceeds max %d", o.Min, o.Max)}
	}
	return nil
}

// Verify scans [opts.Min, opts.Max] and reports, for every n, whether the
// detector's vanishing agrees with the primality oracle.
//
// Mismatches are findings recorded in the report, never errors. The only
// error paths are invalid options, engine failures, and sink failures.
// Cancelling ctx between iterations yields a partial report with
// Interrupted set and a nil error.
func Verify(ctx context.Context, opts Options) (*Report, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	det := opts.Detector
	min := opts.Min
	if floor := det.MinN(); min < floor {
		min = floor
	}

	report := &Report{
		Detector: det.Name(),
		Min:      min,
		Max:      opts.Max,
	}
	if min > opts.Max {
		// Requested range lies entirely below the detector's floor.
		return report, nil
	}

	var records []Record
	var err error
	if opts.Workers > 1 {
		records, err = scanParallel(ctx, det, min, opts.Max, opts.Workers)
	} else {
		records, err = scanSequential(ctx, det, min, opts.Max)
	}
	if err != nil {
		return nil, err
	}

	report.Interrupted = int64(len(records)) < opts.Max-min+1

	// Sink writes survive cancellation: an interrupted scan must still
	// checkpoint the prefix it computed.
	sinkCtx := context.WithoutCancel(ctx)
	for _, rec := range records {
		if opts.Sink != nil {
			if sinkErr := opts.Sink.WriteRecord(sinkCtx, rec); sinkErr != nil {
				return nil, fmt.Errorf("record sink: %w", sinkErr)
			}
		}
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

// check evaluates the detector at a single n.
func check(eng *partition.Engine, det detector.Detector, n int64) (Record, error) {
	stats, err := eng.Stats(n)
	if err != nil {
		return Record{}, fmt.Errorf("statistics for n=%d: %w", n, err)
	}
	val := det.Eval(n, stats)
	isPrime := primes.IsPrime(n)
	return Record{
		N:       n,
		Value:   val,
		IsPrime: isPrime,
		OK:      (val.Sign() == 0) == isPrime,
	}, nil
}

// scanSequential checks min..max in order with a single engine, stopping at
// cancellation. A short result slice signals an interrupted scan.
func scanSequential(ctx context.Context, det detector.Detector, min, max int64) ([]Record, error) {
	eng := partition.NewEngine(det.MaxK())
	records := make([]Record, 0, max-min+1)
	for n := min; n <= max; n++ {
		select {
		case <-ctx.Done():
			return records, nil
		default:
		}
		rec, err := check(eng, det, n)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// scanParallel splits the range into one contiguous chunk per worker. Each
// worker owns its own engine; sharing the memo cache across workers would
// buy less than the coordination costs at the ranges this tool scans.
// Results are merged in range order, truncated at the first chunk left
// incomplete by cancellation, so the partial-prefix semantics match the
// sequential path.
func scanParallel(ctx context.Context, det detector.Detector, min, max int64, workers int) ([]Record, error) {
	total := max - min + 1
	if int64(workers) > total {
		workers = int(total)
	}

	chunks := make([][]Record, workers)
	g, gctx := errgroup.WithContext(ctx)

	chunkSize := total / int64(workers)
	extra := total % int64(workers)
	start := min
	for w := 0; w < workers; w++ {
		lo := start
		hi := lo + chunkSize - 1
		if int64(w) < extra {
			hi++
		}
		start = hi + 1

		w := w
		g.Go(func() error {
			recs, err := scanSequential(gctx, det, lo, hi)
			if err != nil {
				return err
			}
			chunks[w] = recs
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var records []Record
	for w := 0; w < workers; w++ {
		records = append(records, chunks[w]...)
		if int64(len(chunks[w])) < chunkLen(min, max, workers, w) {
			break // cancelled mid-chunk; keep only the contiguous prefix
		}
	}
	return records, nil
}

// chunkLen returns the planned length of worker w's chunk under the same
// split arithmetic scanParallel uses.
func chunkLen(min, max int64, workers, w int) int64 {
	total := max - min + 1
	size := total / int64(workers)
	if int64(w) < total%int64(workers) {
		size++
	}
	return size
}
