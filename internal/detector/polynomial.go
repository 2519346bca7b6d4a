package detector

import (
	"fmt"
	"math/big"
	"sort"
)

// Term couples one partition statistic with an integer polynomial in n:
// the term contributes (sum over powers p of Coeffs[p] * n^p) * M_Stat(n).
type Term struct {
	// Stat is the statistic order k of M_k(n). Must be >= 1.
	Stat int

	// Coeffs maps a power of n to its integer coefficient.
	Coeffs map[int]*big.Int
}

// Polynomial is a detector given by an explicit term table. The built-in
// quartic detector is expressed this way, as are custom detectors compiled
// from CUE specs.
type Polynomial struct {
	name  string
	minN  int64
	maxK  int
	terms []Term
}

// NewPolynomial validates a term table and builds a detector from it.
func NewPolynomial(name string, minN int64, terms []Term) (*Polynomial, error) {
	if name == "" {
		return nil, fmt.Errorf("detector name must not be empty")
	}
	if len(terms) == 0 {
		return nil, fmt.Errorf("detector %q has no terms", name)
	}
	maxK := 0
	for i, t := range terms {
		if t.Stat < 1 {
			return nil, fmt.Errorf("detector %q: term %d has stat %d, must be >= 1", name, i, t.Stat)
		}
		if len(t.Coeffs) == 0 {
			return nil, fmt.Errorf("detector %q: term %d (stat %d) has no coefficients", name, i, t.Stat)
		}
		for p := range t.Coeffs {
			if p < 0 {
				return nil, fmt.Errorf("detector %q: term %d has negative power %d", name, i, p)
			}
		}
		if t.Stat > maxK {
			maxK = t.Stat
		}
	}
	return &Polynomial{name: name, minN: minN, maxK: maxK, terms: terms}, nil
}

// Name implements Detector.
func (p *Polynomial) Name() string { return p.name }

// MinN implements Detector.
func (p *Polynomial) MinN() int64 { return p.minN }

// MaxK implements Detector.
func (p *Polynomial) MaxK() int { return p.maxK }

// Terms returns a copy of the term table, coefficients sorted by power.
// Used by the compile command to print canonical term listings.
func (p *Polynomial) Terms() []Term {
	out := make([]Term, len(p.terms))
	for i, t := range p.terms {
		coeffs := make(map[int]*big.Int, len(t.Coeffs))
		for pow, c := range t.Coeffs {
			coeffs[pow] = new(big.Int).Set(c)
		}
		out[i] = Term{Stat: t.Stat, Coeffs: coeffs}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Stat < out[j].Stat })
	return out
}

// Eval implements Detector. Evaluation is exact: each term's polynomial in
// n is accumulated in big.Int and multiplied against the statistic.
func (p *Polynomial) Eval(n int64, stats []*big.Int) *big.Int {
	bigN := big.NewInt(n)
	total := new(big.Int)
	poly := new(big.Int)
	scratch := new(big.Int)
	for _, t := range p.terms {
		stat := stats[t.Stat-1]
		if stat.Sign() == 0 {
			continue
		}
		poly.SetInt64(0)
		for pow, coeff := range t.Coeffs {
			scratch.Exp(bigN, big.NewInt(int64(pow)), nil)
			scratch.Mul(scratch, coeff)
			poly.Add(poly, scratch)
		}
		total.Add(total, scratch.Mul(poly, stat))
	}
	return total
}

// quarticTerms is the coefficient table of the quartic detector
//
//	L4(n) = (-4305n^3 + 12915n^2 - 8610n) M1(n)
//	      + (-2296n^3 + 18368n^2)         M2(n)
//	      + (-3200n^3 + 48640n^2)         M3(n)
//	      +  967680n                      M4(n)
//
// conjectured to satisfy L4(n) == 0 exactly when n is prime.
func quarticTerms() []Term {
	c := func(v int64) *big.Int { return big.NewInt(v) }
	return []Term{
		{Stat: 1, Coeffs: map[int]*big.Int{3: c(-4305), 2: c(12915), 1: c(-8610)}},
		{Stat: 2, Coeffs: map[int]*big.Int{3: c(-2296), 2: c(18368)}},
		{Stat: 3, Coeffs: map[int]*big.Int{3: c(-3200), 2: c(48640)}},
		{Stat: 4, Coeffs: map[int]*big.Int{1: c(967680)}},
	}
}

// Quartic returns the quartic MacMahonesque detector D1.
func Quartic() *Polynomial {
	p, err := NewPolynomial("quartic", 2, quarticTerms())
	if err != nil {
		panic(err) // static table, cannot fail
	}
	return p
}
