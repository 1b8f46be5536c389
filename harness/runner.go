// Package harness drives a renderer through the capture, normalize and
// compare pipeline for each AOV test.
package harness

import (
	"time"

	"github.com/achilleasa/aovtest/aov"
	"github.com/achilleasa/aovtest/frame"
	"github.com/achilleasa/aovtest/log"
	"github.com/achilleasa/aovtest/renderer"
	"github.com/achilleasa/aovtest/store"
)

// A Runner executes AOV tests sequentially against a single renderer.
type Runner struct {
	logger   log.Logger
	renderer renderer.Renderer
	store    *store.Store
	opts     renderer.Options
	policy   frame.ZeroWeightPolicy
}

// Create a runner. Options are validated and defaults are applied.
func NewRunner(r renderer.Renderer, st *store.Store, opts renderer.Options, policy frame.ZeroWeightPolicy) (*Runner, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	return &Runner{
		logger:   log.New("harness"),
		renderer: r,
		store:    st,
		opts:     opts,
		policy:   policy,
	}, nil
}

// Get the validated render options.
func (r *Runner) Options() renderer.Options {
	return r.opts
}

// Run the test for a single AOV. Errors abort this test only and are
// reported through the result.
func (r *Runner) Run(kind aov.Kind) Result {
	res := Result{
		Test: kind.TestName(),
		Kind: kind,
	}

	img, stats, err := r.capture(kind)
	res.Stats = stats
	if err != nil {
		r.logger.Errorf("%s: %s", res.Test, err.Error())
		res.Err = err
		return res
	}

	res.Verdict, res.Err = r.store.Save(res.Test, img)
	if res.Err != nil {
		r.logger.Errorf("%s: %s", res.Test, res.Err.Error())
	}
	return res
}

// Run the tests for all kinds. A failing test never stops the run.
func (r *Runner) RunAll(kinds []aov.Kind) Report {
	report := Report{
		Mode:    r.store.Mode(),
		Results: make([]Result, 0, len(kinds)),
	}

	r.logger.Noticef("running %d AOV test(s) in %s mode (%dx%d, %d iterations)", len(kinds), report.Mode, r.opts.FrameW, r.opts.FrameH, r.opts.Iterations)
	start := time.Now()
	for _, kind := range kinds {
		report.Results = append(report.Results, r.Run(kind))
	}
	r.logger.Noticef("completed %d test(s) with %d failure(s) in %d ms", len(kinds), report.Failed(), time.Since(start).Nanoseconds()/1000000)

	return report
}

// Render an AOV and normalize the accumulated buffer. Renderer errors are
// returned unmodified.
func (r *Runner) capture(kind aov.Kind) (*frame.Image, renderer.Stats, error) {
	var stats renderer.Stats

	sel := kind.Selector()
	out := frame.NewRawBuffer(r.opts.FrameW, r.opts.FrameH)
	if err := r.renderer.SetOutput(sel, out); err != nil {
		return nil, stats, err
	}
	defer r.renderer.SetOutput(sel, nil)

	if err := r.renderer.Clear(); err != nil {
		return nil, stats, err
	}

	start := time.Now()
	if err := r.renderer.CompileScene(); err != nil {
		return nil, stats, err
	}
	stats.CompileTime = time.Since(start)
	r.logger.Debugf("%s: scene compiled in %d ms", kind.TestName(), stats.CompileTime.Nanoseconds()/1000000)

	start = time.Now()
	for stats.Iterations < r.opts.Iterations {
		if err := r.renderer.Render(); err != nil {
			r.logger.Debugf("%s: render pass %d failed", kind.TestName(), stats.Iterations)
			stats.RenderTime = time.Since(start)
			return nil, stats, err
		}
		stats.Iterations++
	}
	stats.RenderTime = time.Since(start)
	r.logger.Infof("%s: rendered %d passes in %d ms", kind.TestName(), stats.Iterations, stats.RenderTime.Nanoseconds()/1000000)

	img, err := frame.Normalize(out, r.policy)
	if err != nil {
		return nil, stats, err
	}
	if zw := out.ZeroWeightCount(); zw > 0 {
		r.logger.Debugf("%s: %d pixel(s) received no samples (%s)", kind.TestName(), zw, r.policy)
	}
	return img, stats, nil
}
