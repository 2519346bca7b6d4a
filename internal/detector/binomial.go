package detector

import "math/big"

// binomialCubic is the binomial-basis cubic detector
//
//	D2(n) = 2*C(n-1,2) * (M1(n) + M2(n)) - 5*(n-1)*M2(n) - 80*M3(n)
//
// a reduced-operation reformulation of the cubic family: M1 and M2 share
// the same binomial coefficient 2*C(n-1,2) = (n-1)(n-2). Conjectured to
// satisfy D2(n) == 0 exactly when n is prime.
//
// D2 is NOT numerically equal to the quartic detector; the two agree only
// on where they vanish.
type binomialCubic struct{}

// BinomialCubic returns the binomial-basis cubic detector D2.
func BinomialCubic() Detector { return binomialCubic{} }

// Name implements Detector.
func (binomialCubic) Name() string { return "binomial-cubic" }

// MinN implements Detector.
func (binomialCubic) MinN() int64 { return 2 }

// MaxK implements Detector.
func (binomialCubic) MaxK() int { return 3 }

// Eval implements Detector.
func (binomialCubic) Eval(n int64, stats []*big.Int) *big.Int {
	m1, m2, m3 := stats[0], stats[1], stats[2]

	// 2*C(n-1,2) == (n-1)(n-2); Binomial handles n < 3 (C is 0).
	binom := new(big.Int).Binomial(n-1, 2)
	binom.Lsh(binom, 1)

	total := new(big.Int).Add(m1, m2)
	total.Mul(total, binom)

	scratch := new(big.Int).SetInt64(5 * (n - 1))
	total.Sub(total, scratch.Mul(scratch, m2))

	total.Sub(total, scratch.Mul(big.NewInt(80), m3))
	return total
}
