package capture

import (
	"fmt"

	"github.com/achilleasa/aovtest/aov"
	"github.com/achilleasa/aovtest/frame"
	"github.com/achilleasa/aovtest/renderer"
)

// Replay is a renderer.Renderer that plays back recorded raw buffers. Each
// Render call adds the recorded samples to every bound output, so after any
// number of passes the normalized result equals the recorded one.
type Replay struct {
	bundle   *Bundle
	outputs  map[aov.Selector]*frame.RawBuffer
	compiled bool
}

// Create a replay renderer for a bundle.
func NewReplay(b *Bundle) *Replay {
	return &Replay{
		bundle:  b,
		outputs: make(map[aov.Selector]*frame.RawBuffer),
	}
}

func (r *Replay) SetOutput(sel aov.Selector, out *frame.RawBuffer) error {
	rec, ok := r.bundle.Get(sel)
	if !ok {
		return fmt.Errorf("%w: %q not present in capture", renderer.ErrUnsupportedOutput, sel)
	}
	if out == nil {
		delete(r.outputs, sel)
		return nil
	}
	if out.Width != rec.Width || out.Height != rec.Height {
		return fmt.Errorf("%w: output is %dx%d, capture is %dx%d", renderer.ErrSizeMismatch, out.Width, out.Height, rec.Width, rec.Height)
	}

	r.outputs[sel] = out
	return nil
}

func (r *Replay) Clear() error {
	for _, out := range r.outputs {
		out.Clear()
	}
	return nil
}

func (r *Replay) CompileScene() error {
	r.compiled = true
	return nil
}

func (r *Replay) Render() error {
	if !r.compiled {
		return renderer.ErrSceneNotCompiled
	}
	if len(r.outputs) == 0 {
		return renderer.ErrNoOutput
	}

	for sel, out := range r.outputs {
		rec, _ := r.bundle.Get(sel)
		for i, s := range rec.Samples {
			out.Samples[i] = out.Samples[i].Add(s)
		}
	}
	return nil
}

// Unbind all outputs.
func (r *Replay) Close() {
	r.outputs = make(map[aov.Selector]*frame.RawBuffer)
	r.compiled = false
}
