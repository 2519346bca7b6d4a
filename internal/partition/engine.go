package partition

import "math/big"

// DefaultMaxK is the size budget used by the prime detectors: no detector
// consumes statistics beyond M_4.
const DefaultMaxK = 4

// stateKey identifies one recursion state.
type stateKey struct {
	remaining int64 // amount left to partition
	minPart   int64 // minimum allowed next part size
	used      int   // distinct part sizes chosen so far
}

// cell holds the completed results for one recursion state.
//
// count[k] is the number of ways to complete the state so that the finished
// partition has exactly k distinct part sizes in total; weighted[k] is the
// corresponding sum of multiplicity products. Index 0 is only populated for
// the empty partition of 0, which no statistic counts.
type cell struct {
	count    []*big.Int
	weighted []*big.Int
}

func newCell(maxK int) *cell {
	c := &cell{
		count:    make([]*big.Int, maxK+1),
		weighted: make([]*big.Int, maxK+1),
	}
	for i := 0; i <= maxK; i++ {
		c.count[i] = new(big.Int)
		c.weighted[i] = new(big.Int)
	}
	return c
}

// Engine computes partition statistics with a bounded number of distinct
// part sizes. The memoization cache is append-only: cells are written once
// when a state is first solved and never mutated afterwards.
//
// Not safe for concurrent use; create one engine per goroutine.
type Engine struct {
	maxK  int
	cache map[stateKey]*cell
}

// NewEngine creates an engine with the given distinct-size budget.
// A maxK below 1 is raised to DefaultMaxK.
func NewEngine(maxK int) *Engine {
	if maxK < 1 {
		maxK = DefaultMaxK
	}
	return &Engine{
		maxK:  maxK,
		cache: make(map[stateKey]*cell),
	}
}

// MaxK returns the engine's distinct-size budget.
func (e *Engine) MaxK() int {
	return e.maxK
}

// Count returns the number of partitions of n with exactly k distinct part
// sizes. Returns an InvalidArgument error when n < 0, k < 1, or k exceeds
// the engine's budget.
func (e *Engine) Count(n int64, k int) (*big.Int, error) {
	if err := e.checkArgs(n, k); err != nil {
		return nil, err
	}
	c := e.solve(n, 1, 0)
	return new(big.Int).Set(c.count[k]), nil
}

// Weighted returns the MacMahonesque statistic M_k(n): the sum over
// partitions of n with exactly k distinct part sizes of the product of the
// part multiplicities. Returns an InvalidArgument error when n < 0, k < 1,
// or k exceeds the engine's budget.
func (e *Engine) Weighted(n int64, k int) (*big.Int, error) {
	if err := e.checkArgs(n, k); err != nil {
		return nil, err
	}
	c := e.solve(n, 1, 0)
	return new(big.Int).Set(c.weighted[k]), nil
}

// Stats returns the vector (M_1(n), ..., M_maxK(n)) in one pass.
// The returned slice is indexed by k-1 and owned by the caller.
func (e *Engine) Stats(n int64) ([]*big.Int, error) {
	if n < 0 {
		return nil, invalidArgumentf("n must be non-negative, got %d", n)
	}
	c := e.solve(n, 1, 0)
	stats := make([]*big.Int, e.maxK)
	for k := 1; k <= e.maxK; k++ {
		stats[k-1] = new(big.Int).Set(c.weighted[k])
	}
	return stats, nil
}

func (e *Engine) checkArgs(n int64, k int) error {
	if n < 0 {
		return invalidArgumentf("n must be non-negative, got %d", n)
	}
	if k < 1 {
		return invalidArgumentf("k must be positive, got %d", k)
	}
	if k > e.maxK {
		return invalidArgumentf("k=%d exceeds engine budget maxK=%d", k, e.maxK)
	}
	return nil
}

// solve resolves one recursion state, consulting and populating the cache.
//
// Distinct part sizes are chosen in strictly increasing order so each
// multiset of parts is counted exactly once. Adding size s with
// multiplicity m contributes the child's counts unchanged and the child's
// weighted sums scaled by m.
func (e *Engine) solve(remaining, minPart int64, used int) *cell {
	k := stateKey{remaining: remaining, minPart: minPart, used: used}
	if c, ok := e.cache[k]; ok {
		return c
	}

	c := newCell(e.maxK)
	switch {
	case remaining == 0:
		// Completed partition; the empty product of future multiplicities is 1.
		if used >= 1 && used <= e.maxK {
			c.count[used].SetInt64(1)
			c.weighted[used].SetInt64(1)
		}
	case used < e.maxK:
		var scaled big.Int
		for s := minPart; s <= remaining; s++ {
			for m := int64(1); m*s <= remaining; m++ {
				child := e.solve(remaining-m*s, s+1, used+1)
				mult := big.NewInt(m)
				for j := used + 1; j <= e.maxK; j++ {
					if child.count[j].Sign() == 0 {
						continue
					}
					c.count[j].Add(c.count[j], child.count[j])
					c.weighted[j].Add(c.weighted[j], scaled.Mul(mult, child.weighted[j]))
				}
			}
		}
		// used == maxK with remaining > 0: any further part would need a new
		// distinct size, so the state contributes nothing.
	}

	e.cache[k] = c
	return c
}
