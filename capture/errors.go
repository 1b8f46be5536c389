package capture

import "errors"

var (
	ErrInvalidBundle = errors.New("capture: invalid bundle")
	ErrEmptyBundle   = errors.New("capture: bundle contains no entries")
)
