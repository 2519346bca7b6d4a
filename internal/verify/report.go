package verify

import (
	"fmt"
	"io"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Report is the immutable outcome of one verification run.
type Report struct {
	// RunID correlates the report with a persisted run. Empty when the run
	// was not stored.
	RunID string `json:"run_id,omitempty"`

	// Detector is the name of the detector that was evaluated.
	Detector string `json:"detector"`

	// Min and Max delimit the range actually scanned, after clamping the
	// requested minimum to the detector's validity floor.
	Min int64 `json:"min"`
	Max int64 `json:"max"`

	// Total is the number of integers checked.
	Total int `json:"total"`

	// Matches counts integers where the detector agreed with the oracle.
	Matches int `json:"matches"`

	// Mismatches lists every integer where the equivalence failed.
	Mismatches []Record `json:"mismatches,omitempty"`

	// Interrupted is true when the scan was cancelled before reaching Max;
	// the report then covers the contiguous prefix that completed.
	Interrupted bool `json:"interrupted,omitempty"`

	// Records holds the full per-n outcomes in range order.
	Records []Record `json:"records,omitempty"`
}

// Passed reports whether the detector matched the oracle on every checked n.
func (r *Report) Passed() bool {
	return len(r.Mismatches) == 0
}

// Render writes the human-readable report. With verbose set, every checked
// integer gets a table row; otherwise only the summary and any
// counterexamples are printed.
func (r *Report) Render(w io.Writer, verbose bool) {
	p := message.NewPrinter(language.English)

	if r.RunID != "" {
		fmt.Fprintf(w, "Run: %s\n", r.RunID)
	}
	fmt.Fprintf(w, "Detector verification: %s\n", r.Detector)
	p.Fprintf(w, "Range: %d..%d (%d checked)\n", r.Min, r.Max, r.Total)

	if verbose && len(r.Records) > 0 {
		fmt.Fprintf(w, "\n%6s | %9s | %20s | %s\n", "n", "type", "D(n)", "status")
		fmt.Fprintln(w, "-------+-----------+----------------------+-------")
		for _, rec := range r.Records {
			fmt.Fprintf(w, "%6d | %9s | %20d | %s\n",
				rec.N, primalityLabel(rec.IsPrime), rec.Value, statusLabel(rec.OK))
		}
		fmt.Fprintln(w)
	}

	p.Fprintf(w, "Matches: %d\n", r.Matches)
	p.Fprintf(w, "Mismatches: %d\n", len(r.Mismatches))

	if len(r.Mismatches) > 0 {
		fmt.Fprintln(w, "Counterexamples:")
		for _, rec := range r.Mismatches {
			fmt.Fprintf(w, "  n = %d, prime = %v, D(n) = %d\n", rec.N, rec.IsPrime, rec.Value)
		}
	}

	if r.Interrupted {
		if r.Total > 0 {
			fmt.Fprintf(w, "Interrupted: scan stopped after n = %d\n", r.Min+int64(r.Total)-1)
		} else {
			fmt.Fprintln(w, "Interrupted: scan stopped before any integer was checked")
		}
	}

	if r.Passed() {
		fmt.Fprintln(w, "Result: PASS")
	} else {
		fmt.Fprintln(w, "Result: FAIL")
	}
}

func primalityLabel(isPrime bool) string {
	if isPrime {
		return "prime"
	}
	return "composite"
}

func statusLabel(ok bool) string {
	if ok {
		return "OK"
	}
	return "FAIL"
}
