// Package compare judges whether a rendered AOV image matches its reference.
package compare

import (
	"fmt"
	"math"

	"github.com/achilleasa/aovtest/codec"
	"github.com/achilleasa/aovtest/frame"
	"github.com/achilleasa/aovtest/types"
)

// DefaultThreshold tolerates the noise left by stochastic sampling after the
// default iteration count.
const DefaultThreshold = 0.01

// The outcome of a single comparison.
type Verdict struct {
	Test      string
	Passed    bool
	Metric    Metric
	Value     float64
	Threshold float64
}

func (v Verdict) String() string {
	status := "pass"
	if !v.Passed {
		status = "FAIL"
	}
	return fmt.Sprintf("%s: %s (%s %g, threshold %g)", v.Test, status, v.Metric, v.Value, v.Threshold)
}

// A Comparator loads two images and evaluates a metric against a threshold.
type Comparator struct {
	codec     *codec.Codec
	metric    Metric
	threshold float64
}

// An Option configures a Comparator.
type Option func(*Comparator) error

// Use the given metric.
func WithMetric(m Metric) Option {
	return func(c *Comparator) error {
		if m > MaxAbs {
			return fmt.Errorf("%w: %d", ErrUnknownMetric, m)
		}
		c.metric = m
		return nil
	}
}

// Use the given threshold. Verdicts pass when the metric value is less than
// or equal to the threshold.
func WithThreshold(t float64) Option {
	return func(c *Comparator) error {
		if t < 0 || math.IsNaN(t) || math.IsInf(t, 0) {
			return fmt.Errorf("%w: %g", ErrInvalidThreshold, t)
		}
		c.threshold = t
		return nil
	}
}

// Load images with the given codec.
func WithCodec(cd *codec.Codec) Option {
	return func(c *Comparator) error {
		c.codec = cd
		return nil
	}
}

// Create a comparator. Defaults to MAE with DefaultThreshold.
func New(opts ...Option) (*Comparator, error) {
	c := &Comparator{
		codec:     codec.New(codec.Half),
		metric:    MAE,
		threshold: DefaultThreshold,
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Get the configured metric.
func (c *Comparator) Metric() Metric {
	return c.metric
}

// Get the configured threshold.
func (c *Comparator) Threshold() float64 {
	return c.threshold
}

// Compare the image at outPath against the reference at refPath. I/O failures
// are reported as *codec.IOError and size differences as
// *DimensionMismatchError.
func (c *Comparator) Compare(test, outPath, refPath string) (Verdict, error) {
	out, err := c.codec.Read(outPath)
	if err != nil {
		return Verdict{}, err
	}
	ref, err := c.codec.Read(refPath)
	if err != nil {
		return Verdict{}, err
	}
	return c.CompareImages(test, out, ref)
}

// Compare two in-memory images. Neither image is modified.
func (c *Comparator) CompareImages(test string, out, ref *frame.Image) (Verdict, error) {
	if err := checkDims(out, ref); err != nil {
		return Verdict{}, err
	}

	value, err := c.metric.eval(out, ref)
	if err != nil {
		return Verdict{}, err
	}

	return Verdict{
		Test:      test,
		Passed:    value <= c.threshold,
		Metric:    c.metric,
		Value:     value,
		Threshold: c.threshold,
	}, nil
}

// Diff builds an image holding the per-channel absolute difference between
// out and ref. Channels that differ by a non-finite amount are set to +Inf.
func Diff(out, ref *frame.Image) (*frame.Image, error) {
	if err := checkDims(out, ref); err != nil {
		return nil, err
	}

	diff := frame.NewImage(out.Width, out.Height)
	for i := range out.Pix {
		if out.Pix[i].IsFinite() && ref.Pix[i].IsFinite() {
			diff.Pix[i] = out.Pix[i].Sub(ref.Pix[i]).Abs()
			continue
		}

		var px types.Vec3
		for c := 0; c < 3; c++ {
			px[c] = float32(channelDiff(out.Pix[i][c], ref.Pix[i][c]))
		}
		diff.Pix[i] = px
	}
	return diff, nil
}

func checkDims(out, ref *frame.Image) error {
	if err := out.Validate(); err != nil {
		return err
	}
	if err := ref.Validate(); err != nil {
		return err
	}
	if !out.SameSize(ref) {
		return &DimensionMismatchError{
			Output:    [2]uint32{out.Width, out.Height},
			Reference: [2]uint32{ref.Width, ref.Height},
		}
	}
	return nil
}

// Visualize rescales a difference image so that its largest finite value maps
// to 1. Non-finite differences are painted magenta.
func Visualize(diff *frame.Image) *frame.Image {
	var peak float32
	for _, px := range diff.Pix {
		if px.IsFinite() {
			peak = float32(math.Max(float64(peak), float64(px.MaxComponent())))
		}
	}

	scale := float32(1)
	if peak > 0 {
		scale = 1 / peak
	}

	out := frame.NewImage(diff.Width, diff.Height)
	for i, px := range diff.Pix {
		if !px.IsFinite() {
			out.Pix[i] = types.XYZ(1, 0, 1)
			continue
		}
		out.Pix[i] = px.Mul(scale)
	}
	return out
}
