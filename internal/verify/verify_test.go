package verify

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arvindvenkat01/macmahon-prime-detectors/internal/detector"
	"github.com/arvindvenkat01/macmahon-prime-detectors/internal/primes"
)

// alwaysZero claims every n is prime; composites become mismatches.
type alwaysZero struct{}

func (alwaysZero) Name() string { return "always-zero" }
func (alwaysZero) MinN() int64  { return 2 }
func (alwaysZero) MaxK() int    { return 1 }

func (alwaysZero) Eval(int64, []*big.Int) *big.Int { return new(big.Int) }

// collectSink records everything it is handed, optionally failing at one n.
type collectSink struct {
	records []Record
	failAt  int64
}

func (s *collectSink) WriteRecord(_ context.Context, rec Record) error {
	if s.failAt != 0 && rec.N == s.failAt {
		return errors.New("sink full")
	}
	s.records = append(s.records, rec)
	return nil
}

func TestVerifyQuarticRange(t *testing.T) {
	report, err := Verify(context.Background(), Options{
		Min:      2,
		Max:      100,
		Detector: detector.Quartic(),
	})
	require.NoError(t, err)

	assert.Equal(t, "quartic", report.Detector)
	assert.Equal(t, int64(2), report.Min)
	assert.Equal(t, int64(100), report.Max)
	assert.Equal(t, 99, report.Total)
	assert.Equal(t, 99, report.Matches)
	assert.Empty(t, report.Mismatches)
	assert.True(t, report.Passed())
	assert.False(t, report.Interrupted)
	require.Len(t, report.Records, 99)

	for i, rec := range report.Records {
		assert.Equal(t, int64(2+i), rec.N)
		assert.Equal(t, primes.IsPrime(rec.N), rec.IsPrime)
		assert.Equal(t, rec.Value.Sign() == 0, rec.IsPrime)
	}
}

func TestVerifyBinomialCubicRange(t *testing.T) {
	report, err := Verify(context.Background(), Options{
		Min:      2,
		Max:      100,
		Detector: detector.BinomialCubic(),
	})
	require.NoError(t, err)
	assert.True(t, report.Passed())
	assert.Equal(t, 99, report.Total)
}

func TestVerifyCountsMismatches(t *testing.T) {
	report, err := Verify(context.Background(), Options{
		Min:      2,
		Max:      12,
		Detector: alwaysZero{},
	})
	require.NoError(t, err)

	// Composites in 2..12: 4, 6, 8, 9, 10, 12.
	assert.False(t, report.Passed())
	assert.Equal(t, 11, report.Total)
	assert.Equal(t, 5, report.Matches)
	require.Len(t, report.Mismatches, 6)

	var failed []int64
	for _, rec := range report.Mismatches {
		assert.False(t, rec.IsPrime)
		assert.False(t, rec.OK)
		failed = append(failed, rec.N)
	}
	assert.Equal(t, []int64{4, 6, 8, 9, 10, 12}, failed)
}

func TestVerifyParallelMatchesSequential(t *testing.T) {
	seq, err := Verify(context.Background(), Options{
		Min:      2,
		Max:      120,
		Detector: detector.Quartic(),
	})
	require.NoError(t, err)

	for _, workers := range []int{2, 3, 7, 500} {
		par, err := Verify(context.Background(), Options{
			Min:      2,
			Max:      120,
			Detector: detector.Quartic(),
			Workers:  workers,
		})
		require.NoError(t, err)

		require.Len(t, par.Records, len(seq.Records), "workers=%d", workers)
		assert.Equal(t, seq.Total, par.Total)
		assert.Equal(t, seq.Matches, par.Matches)
		for i := range seq.Records {
			assert.Equal(t, seq.Records[i].N, par.Records[i].N)
			assert.Zero(t, seq.Records[i].Value.Cmp(par.Records[i].Value),
				"workers=%d n=%d", workers, seq.Records[i].N)
		}
	}
}

func TestVerifyClampsToDetectorFloor(t *testing.T) {
	report, err := Verify(context.Background(), Options{
		Min:      0,
		Max:      20,
		Detector: detector.Quartic(),
	})
	require.NoError(t, err)
	assert.Equal(t, int64(2), report.Min)
	assert.Equal(t, 19, report.Total)
}

func TestVerifyRangeBelowFloor(t *testing.T) {
	report, err := Verify(context.Background(), Options{
		Min:      0,
		Max:      1,
		Detector: detector.Quartic(),
	})
	require.NoError(t, err)
	assert.Zero(t, report.Total)
	assert.True(t, report.Passed())
	assert.False(t, report.Interrupted)
}

func TestVerifyInvalidOptions(t *testing.T) {
	_, err := Verify(context.Background(), Options{Min: 2, Max: 10})
	require.Error(t, err)
	assert.True(t, IsOptionsError(err))

	_, err = Verify(context.Background(), Options{Min: 10, Max: 2, Detector: detector.Quartic()})
	require.Error(t, err)
	assert.True(t, IsOptionsError(err))

	_, err = Verify(context.Background(), Options{Min: -1, Max: 2, Detector: detector.Quartic()})
	require.Error(t, err)
	assert.True(t, IsOptionsError(err))

	assert.False(t, IsOptionsError(errors.New("other")))
}

func TestVerifyCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := Verify(ctx, Options{
		Min:      2,
		Max:      1000,
		Detector: detector.Quartic(),
	})
	require.NoError(t, err)
	assert.True(t, report.Interrupted)
	assert.Zero(t, report.Total)
}

func TestVerifySinkReceivesRecordsInOrder(t *testing.T) {
	sink := &collectSink{}
	report, err := Verify(context.Background(), Options{
		Min:      2,
		Max:      30,
		Detector: detector.Quartic(),
		Workers:  3,
		Sink:     sink,
	})
	require.NoError(t, err)

	require.Len(t, sink.records, report.Total)
	for i, rec := range sink.records {
		assert.Equal(t, int64(2+i), rec.N)
	}
}

func TestVerifySinkErrorAborts(t *testing.T) {
	sink := &collectSink{failAt: 10}
	_, err := Verify(context.Background(), Options{
		Min:      2,
		Max:      30,
		Detector: detector.Quartic(),
		Sink:     sink,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "record sink")
}
