// Package compiler turns CUE detector specs into evaluable detectors.
//
// A spec declares a named integer-coefficient term table:
//
//	detector: {
//		name:  "quartic"
//		min_n: 2
//		terms: [
//			{stat: 1, coeffs: {"3": -4305, "2": 12915, "1": -8610}},
//			{stat: 2, coeffs: {"3": -2296, "2": 18368}},
//		]
//	}
//
// Each term contributes (sum of coeffs[p] * n^p) * M_stat(n) to the
// detector value. Coefficient keys are decimal powers of n; values may be
// arbitrarily large integers.
//
// Uses the CUE SDK's Go API directly (not CLI subprocess).
package compiler

import (
	"fmt"
	"math/big"
	"os"
	"strconv"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueerrors "cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/arvindvenkat01/macmahon-prime-detectors/internal/detector"
)

// CompileError reports a malformed detector spec.
type CompileError struct {
	// Field names the offending spec field.
	Field string

	// Message is a human-readable description.
	Message string

	// Pos locates the error in the source file, when known.
	Pos token.Pos
}

// Error implements the error interface.
func (e *CompileError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("detector spec: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("detector spec: %s", e.Message)
}

// CompileFile reads and compiles a CUE detector spec from disk.
func CompileFile(path string) (*detector.Polynomial, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read detector spec: %w", err)
	}
	return CompileBytes(path, data)
}

// CompileBytes compiles a CUE detector spec from raw source. The filename
// is used only for error positions.
func CompileBytes(filename string, data []byte) (*detector.Polynomial, error) {
	ctx := cuecontext.New()
	root := ctx.CompileBytes(data, cue.Filename(filename))
	if err := root.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	v := root.LookupPath(cue.ParsePath("detector"))
	if !v.Exists() {
		return nil, &CompileError{
			Field:   "detector",
			Message: "top-level detector struct is required",
			Pos:     root.Pos(),
		}
	}
	return Compile(v)
}

// Compile parses a CUE value holding the detector struct itself.
func Compile(v cue.Value) (*detector.Polynomial, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	// name (required)
	nameVal := v.LookupPath(cue.ParsePath("name"))
	if !nameVal.Exists() {
		return nil, &CompileError{Field: "name", Message: "name is required", Pos: v.Pos()}
	}
	name, err := nameVal.String()
	if err != nil {
		return nil, formatCUEError(err)
	}

	// min_n (optional, defaults to 2: the smallest integer with a primality verdict)
	minN := int64(2)
	if minVal := v.LookupPath(cue.ParsePath("min_n")); minVal.Exists() {
		minN, err = minVal.Int64()
		if err != nil {
			return nil, formatCUEError(err)
		}
		if minN < 0 {
			return nil, &CompileError{Field: "min_n", Message: "must be non-negative", Pos: minVal.Pos()}
		}
	}

	terms, err := parseTerms(v)
	if err != nil {
		return nil, err
	}

	poly, err := detector.NewPolynomial(name, minN, terms)
	if err != nil {
		return nil, &CompileError{Field: "terms", Message: err.Error(), Pos: v.Pos()}
	}
	return poly, nil
}

// parseTerms parses the terms list (required, at least one entry).
func parseTerms(v cue.Value) ([]detector.Term, error) {
	termsVal := v.LookupPath(cue.ParsePath("terms"))
	if !termsVal.Exists() {
		return nil, &CompileError{Field: "terms", Message: "terms list is required", Pos: v.Pos()}
	}

	iter, err := termsVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var terms []detector.Term
	for iter.Next() {
		term, err := parseTerm(iter.Value())
		if err != nil {
			return nil, err
		}
		terms = append(terms, term)
	}
	if len(terms) == 0 {
		return nil, &CompileError{Field: "terms", Message: "at least one term is required", Pos: termsVal.Pos()}
	}
	return terms, nil
}

// parseTerm parses one {stat, coeffs} entry.
func parseTerm(v cue.Value) (detector.Term, error) {
	statVal := v.LookupPath(cue.ParsePath("stat"))
	if !statVal.Exists() {
		return detector.Term{}, &CompileError{Field: "stat", Message: "term stat is required", Pos: v.Pos()}
	}
	stat, err := statVal.Int64()
	if err != nil {
		return detector.Term{}, formatCUEError(err)
	}
	if stat < 1 {
		return detector.Term{}, &CompileError{
			Field:   "stat",
			Message: fmt.Sprintf("must be >= 1, got %d", stat),
			Pos:     statVal.Pos(),
		}
	}

	coeffsVal := v.LookupPath(cue.ParsePath("coeffs"))
	if !coeffsVal.Exists() {
		return detector.Term{}, &CompileError{Field: "coeffs", Message: "term coeffs are required", Pos: v.Pos()}
	}
	fields, err := coeffsVal.Fields()
	if err != nil {
		return detector.Term{}, formatCUEError(err)
	}

	coeffs := make(map[int]*big.Int)
	for fields.Next() {
		label := fields.Selector().Unquoted()
		power, err := strconv.Atoi(label)
		if err != nil || power < 0 {
			return detector.Term{}, &CompileError{
				Field:   "coeffs",
				Message: fmt.Sprintf("coefficient key %q is not a power of n", label),
				Pos:     fields.Value().Pos(),
			}
		}
		coeff := new(big.Int)
		if _, err := fields.Value().Int(coeff); err != nil {
			return detector.Term{}, formatCUEError(err)
		}
		coeffs[power] = coeff
	}

	return detector.Term{Stat: int(stat), Coeffs: coeffs}, nil
}

// formatCUEError converts a CUE error into a positioned CompileError.
func formatCUEError(err error) error {
	for _, e := range cueerrors.Errors(err) {
		return &CompileError{
			Message: e.Error(),
			Pos:     e.Position(),
		}
	}
	return &CompileError{Message: err.Error()}
}
