package store

import (
	"errors"
	"fmt"
)

var (
	ErrMissingDir      = errors.New("store: reference and output directories must be set")
	ErrRemoteReference = errors.New("store: cannot generate references into a remote location")
	ErrUnknownMode     = errors.New("store: unknown mode")
	ErrInvalidTestName = errors.New("store: invalid test name")
)

// MissingBaselineError is returned in Verify mode when no reference image
// exists for a test. It signals a setup problem rather than a regression.
type MissingBaselineError struct {
	Test string
	Path string
}

func (e *MissingBaselineError) Error() string {
	return fmt.Sprintf("store: no reference image for %s at %s", e.Test, e.Path)
}
