package renderer

import (
	"github.com/achilleasa/aovtest/aov"
	"github.com/achilleasa/aovtest/frame"
)

// The Renderer interface is implemented by renderer integrations that can
// accumulate AOV samples into a raw buffer.
type Renderer interface {
	// Bind the raw buffer that receives samples for the given output. The
	// renderer owns the buffer until the harness reads it back. Passing a
	// nil buffer unbinds the output.
	SetOutput(sel aov.Selector, out *frame.RawBuffer) error

	// Reset the accumulated samples of all bound outputs.
	Clear() error

	// Compile the scene into the renderer's internal representation.
	CompileScene() error

	// Run one accumulation pass.
	Render() error

	// Shutdown renderer and release any resources.
	Close()
}
