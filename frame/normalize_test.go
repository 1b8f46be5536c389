package frame

import (
	"errors"
	"math"
	"testing"

	"github.com/achilleasa/aovtest/types"
)

func TestNormalizeFlipsRows(t *testing.T) {
	raw := NewRawBuffer(3, 4)
	for y := uint32(0); y < raw.Height; y++ {
		for x := uint32(0); x < raw.Width; x++ {
			raw.Set(x, y, types.XYZW(float32(x), float32(y), 0, 1))
		}
	}

	img, err := Normalize(raw, ClampZero)
	if err != nil {
		t.Fatal(err)
	}

	for y := uint32(0); y < img.Height; y++ {
		for x := uint32(0); x < img.Width; x++ {
			exp := types.XYZ(float32(x), float32(raw.Height-1-y), 0)
			if got := img.At(x, y); got != exp {
				t.Fatalf("expected pixel (%d, %d) to be %v; got %v", x, y, exp, got)
			}
		}
	}
}

func TestNormalizePreflippedRoundTrip(t *testing.T) {
	raw := NewRawBuffer(5, 3)
	for i := range raw.Samples {
		raw.Samples[i] = types.XYZW(float32(i), float32(2*i), float32(3*i), 1)
	}

	// Normalizing a pre-flipped buffer must reproduce the original row order.
	img, err := Normalize(raw.FlipRows(), ClampZero)
	if err != nil {
		t.Fatal(err)
	}

	for i, s := range raw.Samples {
		if img.Pix[i] != s.Vec3() {
			t.Fatalf("expected pixel %d to be %v; got %v", i, s.Vec3(), img.Pix[i])
		}
	}
}

func TestFlipRowsIsInvolution(t *testing.T) {
	raw := NewRawBuffer(2, 5)
	for i := range raw.Samples {
		raw.Samples[i] = types.XYZW(float32(i), 0, 0, float32(i))
	}

	twice := raw.FlipRows().FlipRows()
	for i := range raw.Samples {
		if twice.Samples[i] != raw.Samples[i] {
			t.Fatalf("expected sample %d to survive a double flip; got %v", i, twice.Samples[i])
		}
	}
}

func TestNormalizeUnpremultiply(t *testing.T) {
	type spec struct {
		sample types.Vec4
		exp    types.Vec3
	}
	specs := []spec{
		{types.XYZW(1, 2, 3, 1), types.XYZ(1, 2, 3)},
		{types.XYZW(4, 8, 12, 4), types.XYZ(1, 2, 3)},
		{types.XYZW(1.5, 3, 4.5, 3), types.XYZ(0.5, 1, 1.5)},
		{types.XYZW(-5, 5, 100, 0.5), types.XYZ(-10, 10, 200)},
	}

	for index, s := range specs {
		raw := NewRawBuffer(1, 1)
		raw.Samples[0] = s.sample

		img, err := Normalize(raw, ClampZero)
		if err != nil {
			t.Fatal(err)
		}

		if img.Pix[0] != s.exp {
			t.Fatalf("[spec %d] expected %v; got %v", index, s.exp, img.Pix[0])
		}
	}
}

func TestNormalizeZeroWeightClamp(t *testing.T) {
	raw := NewRawBuffer(2, 2)
	raw.Samples[0] = types.XYZW(1, 1, 1, 0)
	raw.Samples[1] = types.XYZW(0, 0, 0, 0)
	raw.Samples[2] = types.XYZW(2, 2, 2, 2)
	raw.Samples[3] = types.XYZW(-1, 0, 1, 0)

	img, err := Normalize(raw, ClampZero)
	if err != nil {
		t.Fatal(err)
	}

	for i, px := range img.Pix {
		if !px.IsFinite() {
			t.Fatalf("expected pixel %d to be finite; got %v", i, px)
		}
	}

	// Raw index 2 is row 1 (bottom-up) which becomes canonical row 0.
	if img.At(0, 0) != types.XYZ(1, 1, 1) {
		t.Fatalf("expected weighted pixel to normalize to (1, 1, 1); got %v", img.At(0, 0))
	}
	for _, p := range [][2]uint32{{1, 0}, {0, 1}, {1, 1}} {
		if got := img.At(p[0], p[1]); got != (types.Vec3{}) {
			t.Fatalf("expected zero-weight pixel %v to be clamped to zero; got %v", p, got)
		}
	}
}

func TestNormalizeZeroWeightPropagate(t *testing.T) {
	raw := NewRawBuffer(3, 1)
	raw.Samples[0] = types.XYZW(1, 0, -1, 0)
	raw.Samples[1] = types.XYZW(0, 0, 0, 0)
	raw.Samples[2] = types.XYZW(5, 0, 0, 0)

	img, err := Normalize(raw, Propagate)
	if err != nil {
		t.Fatal(err)
	}

	px := img.Pix[0]
	if !math.IsInf(float64(px[0]), 1) || !math.IsNaN(float64(px[1])) || !math.IsInf(float64(px[2]), -1) {
		t.Fatalf("expected (+Inf, NaN, -Inf); got %v", px)
	}
	for i, px := range img.Pix[1:] {
		if !math.IsNaN(float64(px[1])) || !math.IsNaN(float64(px[2])) {
			t.Fatalf("expected zero channels of pixel %d to be NaN; got %v", i+1, px)
		}
	}
	if !math.IsNaN(float64(img.Pix[1][0])) || !math.IsInf(float64(img.Pix[2][0]), 1) {
		t.Fatalf("unexpected red channels: %v, %v", img.Pix[1], img.Pix[2])
	}
}

func TestNormalizeDoesNotMutateInput(t *testing.T) {
	raw := NewRawBuffer(2, 1)
	raw.Samples[0] = types.XYZW(2, 4, 6, 2)
	raw.Samples[1] = types.XYZW(1, 1, 1, 0)
	orig := append([]types.Vec4(nil), raw.Samples...)

	if _, err := Normalize(raw, Propagate); err != nil {
		t.Fatal(err)
	}
	for i := range orig {
		if raw.Samples[i] != orig[i] {
			t.Fatalf("expected raw sample %d to be unchanged; got %v", i, raw.Samples[i])
		}
	}
}

func TestNormalizeTwoByTwoScene(t *testing.T) {
	// Renderer rows are bottom-up: row 0 = {red, green}, row 1 = {blue, white}.
	raw := &RawBuffer{
		Width:  2,
		Height: 2,
		Samples: []types.Vec4{
			types.XYZW(1, 0, 0, 1), types.XYZW(0, 1, 0, 1),
			types.XYZW(0, 0, 1, 1), types.XYZW(1, 1, 1, 1),
		},
	}

	img, err := Normalize(raw, ClampZero)
	if err != nil {
		t.Fatal(err)
	}

	exp := []types.Vec3{
		types.XYZ(0, 0, 1), types.XYZ(1, 1, 1),
		types.XYZ(1, 0, 0), types.XYZ(0, 1, 0),
	}
	for i := range exp {
		if img.Pix[i] != exp[i] {
			t.Fatalf("expected canonical pixel %d to be %v; got %v", i, exp[i], img.Pix[i])
		}
	}
}

func TestNormalizeErrors(t *testing.T) {
	if _, err := Normalize(&RawBuffer{}, ClampZero); !errors.Is(err, ErrInvalidDims) {
		t.Fatalf("expected ErrInvalidDims; got %v", err)
	}

	raw := &RawBuffer{Width: 2, Height: 2, Samples: make([]types.Vec4, 3)}
	if _, err := Normalize(raw, ClampZero); !errors.Is(err, ErrSampleCount) {
		t.Fatalf("expected ErrSampleCount; got %v", err)
	}

	if _, err := Normalize(NewRawBuffer(1, 1), ZeroWeightPolicy(9)); !errors.Is(err, ErrUnknownPolicy) {
		t.Fatalf("expected ErrUnknownPolicy; got %v", err)
	}
}

func TestParseZeroWeightPolicy(t *testing.T) {
	p, err := ParseZeroWeightPolicy("Propagate")
	if err != nil || p != Propagate {
		t.Fatalf("expected Propagate; got %v, %v", p, err)
	}
	p, err = ParseZeroWeightPolicy("clamp")
	if err != nil || p != ClampZero {
		t.Fatalf("expected ClampZero; got %v, %v", p, err)
	}
	if _, err = ParseZeroWeightPolicy("nan"); !errors.Is(err, ErrUnknownPolicy) {
		t.Fatalf("expected ErrUnknownPolicy; got %v", err)
	}
}

func TestZeroWeightCount(t *testing.T) {
	raw := NewRawBuffer(2, 2)
	raw.Samples[1] = types.XYZW(1, 1, 1, 1)
	if got := raw.ZeroWeightCount(); got != 3 {
		t.Fatalf("expected 3 zero-weight samples; got %d", got)
	}

	raw.Clear()
	if got := raw.ZeroWeightCount(); got != 4 {
		t.Fatalf("expected cleared buffer to have 4 zero-weight samples; got %d", got)
	}
}
