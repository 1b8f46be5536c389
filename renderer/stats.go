package renderer

import "time"

// Statistics for capturing a single output.
type Stats struct {
	// Number of accumulation passes.
	Iterations uint32

	// Time spent compiling the scene.
	CompileTime time.Duration

	// Total render time across all passes.
	RenderTime time.Duration
}

// Average time per pass.
func (s Stats) TimePerIteration() time.Duration {
	if s.Iterations == 0 {
		return 0
	}
	return s.RenderTime / time.Duration(s.Iterations)
}
