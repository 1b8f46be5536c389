package renderer

import "fmt"

// The number of accumulation passes used when Options.Iterations is zero.
const DefaultIterations uint32 = 100

type Options struct {
	// Frame dims.
	FrameW uint32
	FrameH uint32

	// Number of render passes to accumulate before capturing an output.
	Iterations uint32
}

// Validate options and fill in defaults.
func (o *Options) Validate() error {
	if o.FrameW == 0 || o.FrameH == 0 {
		return fmt.Errorf("renderer: invalid frame dims %dx%d", o.FrameW, o.FrameH)
	}
	if o.Iterations == 0 {
		o.Iterations = DefaultIterations
	}
	return nil
}
