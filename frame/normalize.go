// Package frame converts raw renderer accumulation buffers into canonical
// images that can be written to disk and compared.
package frame

import (
	"fmt"
	"strings"

	"github.com/achilleasa/aovtest/types"
)

// ZeroWeightPolicy selects how pixels that received no samples are normalized.
type ZeroWeightPolicy uint8

const (
	// Emit (0, 0, 0) for pixels with zero weight.
	ClampZero ZeroWeightPolicy = iota

	// Divide by zero anyway. Yields NaN for black pixels and +/-Inf otherwise;
	// matches references produced by unguarded normalizers.
	Propagate
)

func (p ZeroWeightPolicy) String() string {
	switch p {
	case ClampZero:
		return "clamp"
	case Propagate:
		return "propagate"
	}
	return fmt.Sprintf("ZeroWeightPolicy(%d)", uint8(p))
}

// Parse a policy name ("clamp" or "propagate").
func ParseZeroWeightPolicy(name string) (ZeroWeightPolicy, error) {
	switch strings.ToLower(name) {
	case "clamp", "zero":
		return ClampZero, nil
	case "propagate":
		return Propagate, nil
	}
	return ClampZero, fmt.Errorf("%w: %q", ErrUnknownPolicy, name)
}

// Normalize converts a raw buffer to a canonical image. The output row y is
// read from source row H-1-y and its color is divided by the accumulated
// weight. The weight channel is dropped. The raw buffer is not modified.
func Normalize(raw *RawBuffer, policy ZeroWeightPolicy) (*Image, error) {
	if err := raw.validate(); err != nil {
		return nil, err
	}
	if policy != ClampZero && policy != Propagate {
		return nil, fmt.Errorf("%w: %d", ErrUnknownPolicy, policy)
	}

	w, h := raw.Width, raw.Height
	img := NewImage(w, h)
	for y := uint32(0); y < h; y++ {
		srcRow := (h - 1 - y) * w
		dstRow := y * w
		for x := uint32(0); x < w; x++ {
			img.Pix[dstRow+x] = unpremultiply(raw.Samples[srcRow+x], policy)
		}
	}

	return img, nil
}

func unpremultiply(s types.Vec4, policy ZeroWeightPolicy) types.Vec3 {
	if s[3] == 0 && policy == ClampZero {
		return types.Vec3{}
	}
	return s.Vec3().Div(s[3])
}
