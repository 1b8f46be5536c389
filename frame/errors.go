package frame

import "errors"

var (
	ErrInvalidDims   = errors.New("frame: width and height must be non-zero")
	ErrSampleCount   = errors.New("frame: sample count does not match frame dimensions")
	ErrUnknownPolicy = errors.New("frame: unknown zero-weight policy")
)
