// Package detector implements closed-form prime detectors over the
// MacMahonesque partition statistics.
//
// A detector is a fixed integer-coefficient combination of the statistics
// M_1(n)..M_k(n) that is conjectured to vanish exactly when n is prime.
// Detectors are pure: evaluation has no state and no side effects, and all
// arithmetic is exact via math/big.
package detector

import "math/big"

// Detector evaluates a prime-detecting combination of partition statistics.
type Detector interface {
	// Name identifies the detector in CLI flags, configs, and reports.
	Name() string

	// MinN is the smallest n the formula is claimed to cover. Verification
	// ranges are clamped to this floor.
	MinN() int64

	// MaxK is the highest statistic order the detector consumes; Eval
	// requires stats of at least this length.
	MaxK() int

	// Eval computes the detector value for n given stats[k-1] = M_k(n).
	// The result is owned by the caller.
	Eval(n int64, stats []*big.Int) *big.Int
}

// Builtins returns the detectors shipped with the tool, in presentation order.
func Builtins() []Detector {
	return []Detector{Quartic(), BinomialCubic()}
}

// Lookup resolves a built-in detector by name.
func Lookup(name string) (Detector, bool) {
	for _, d := range Builtins() {
		if d.Name() == name {
			return d, true
		}
	}
	return nil, false
}

// Names returns the names of all built-in detectors.
func Names() []string {
	builtins := Builtins()
	names := make([]string, len(builtins))
	for i, d := range builtins {
		names[i] = d.Name()
	}
	return names
}
