// Package primes provides the primality oracle the verifier compares
// detector values against. It is deliberately independent of the partition
// statistics so the verification is not circular.
package primes

import "math/big"

// IsPrime reports whether n is prime.
//
// Backed by big.Int.ProbablyPrime(0), which applies the Baillie-PSW test.
// ProbablyPrime is 100% accurate for inputs below 2^64, so for the int64
// domain this is a deterministic test, not a probabilistic one.
func IsPrime(n int64) bool {
	if n < 2 {
		return false
	}
	return big.NewInt(n).ProbablyPrime(0)
}
