package compare

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownMetric    = errors.New("compare: unknown metric")
	ErrInvalidThreshold = errors.New("compare: threshold must be a non-negative finite number")
)

// DimensionMismatchError is returned when the output and reference images
// differ in size. It is a structural problem, not a pixel-level regression.
type DimensionMismatchError struct {
	Output    [2]uint32
	Reference [2]uint32
}

func (e *DimensionMismatchError) Error() string {
	return fmt.Sprintf(
		"compare: output is %dx%d but reference is %dx%d",
		e.Output[0], e.Output[1], e.Reference[0], e.Reference[1],
	)
}
