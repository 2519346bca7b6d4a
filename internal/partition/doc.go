// Package partition computes partition statistics restricted to a bounded
// number of distinct part sizes.
//
// The central quantity is the MacMahonesque statistic M_k(n): the sum, over
// all partitions of n with exactly k distinct part sizes, of the product of
// the part multiplicities. The unweighted variant (a plain count of such
// partitions) is exposed alongside it. M_1(n) equals sigma(n), the sum of
// divisors of n.
//
// ALGORITHM:
//
// Partitions are enumerated by their distinct part sizes in strictly
// increasing order, so each multiset of parts is visited exactly once. The
// recursion state is (remaining amount, minimum allowed next part size,
// distinct sizes used so far); choosing a new size s with multiplicity m
// consumes s*m and recurses with the minimum size raised to s+1. Because no
// caller needs more than a handful of distinct sizes, branches that would
// exceed the engine's size budget are pruned immediately.
//
// Without memoization the search space is exponential; the engine caches
// every recursion state, which makes the computation polynomial in n for a
// fixed size budget. Cached cells are write-once and never mutated, so the
// engine is a pure function of its inputs: repeated calls return equal
// values regardless of cache state.
//
// All results are exact *big.Int values. The weighted statistics grow
// polynomially in n with degree increasing in k, and overflow int64 well
// within the ranges the verifier scans.
//
// An Engine is NOT safe for concurrent use. Callers that parallelize give
// each worker its own engine; recomputation is cheap relative to the cost
// of coordinating a shared cache.
package partition
