package harness

import (
	"errors"

	"github.com/achilleasa/aovtest/aov"
	"github.com/achilleasa/aovtest/codec"
	"github.com/achilleasa/aovtest/compare"
	"github.com/achilleasa/aovtest/renderer"
	"github.com/achilleasa/aovtest/store"
)

// Status classifies the outcome of a single AOV test.
type Status uint8

const (
	Generated Status = iota
	Passed
	Failed
	MissingBaseline
	DimensionMismatch
	IOFailure
	Errored
)

func (s Status) String() string {
	switch s {
	case Generated:
		return "generated"
	case Passed:
		return "pass"
	case Failed:
		return "FAIL"
	case MissingBaseline:
		return "missing-baseline"
	case DimensionMismatch:
		return "dim-mismatch"
	case IOFailure:
		return "io-error"
	}
	return "error"
}

// The outcome of running one AOV test.
type Result struct {
	Test string
	Kind aov.Kind

	// Set in Verify mode when the comparison ran.
	Verdict *compare.Verdict

	Stats renderer.Stats

	// Set when the test aborted before producing a verdict.
	Err error
}

// Classify the result.
func (r Result) Status() Status {
	if r.Err != nil {
		var (
			missing *store.MissingBaselineError
			dims    *compare.DimensionMismatchError
			ioErr   *codec.IOError
		)
		switch {
		case errors.As(r.Err, &missing):
			return MissingBaseline
		case errors.As(r.Err, &dims):
			return DimensionMismatch
		case errors.As(r.Err, &ioErr):
			return IOFailure
		}
		return Errored
	}

	if r.Verdict == nil {
		return Generated
	}
	if r.Verdict.Passed {
		return Passed
	}
	return Failed
}

// Returns true unless the test generated a reference or passed verification.
func (r Result) Failed() bool {
	s := r.Status()
	return s != Generated && s != Passed
}

// The results of a suite run.
type Report struct {
	Mode    store.Mode
	Results []Result
}

// Count failed tests.
func (r Report) Failed() int {
	count := 0
	for _, res := range r.Results {
		if res.Failed() {
			count++
		}
	}
	return count
}

// Returns true if every test generated a reference or passed.
func (r Report) OK() bool {
	return r.Failed() == 0
}
