package frame

import "github.com/achilleasa/aovtest/types"

// A RawBuffer holds the per-pixel accumulation values produced by the renderer.
// Each sample stores (R, G, B, weight). Row 0 is the bottom row of the image.
type RawBuffer struct {
	Width  uint32
	Height uint32

	Samples []types.Vec4
}

// Create a zeroed raw buffer with the given dimensions.
func NewRawBuffer(width, height uint32) *RawBuffer {
	return &RawBuffer{
		Width:   width,
		Height:  height,
		Samples: make([]types.Vec4, int(width)*int(height)),
	}
}

// Get the sample at (x, y) using the renderer's bottom-up row order.
func (b *RawBuffer) At(x, y uint32) types.Vec4 {
	return b.Samples[y*b.Width+x]
}

// Set the sample at (x, y) using the renderer's bottom-up row order.
func (b *RawBuffer) Set(x, y uint32, v types.Vec4) {
	b.Samples[y*b.Width+x] = v
}

// Reset all samples to zero.
func (b *RawBuffer) Clear() {
	for i := range b.Samples {
		b.Samples[i] = types.Vec4{}
	}
}

// Count samples whose accumulated weight is zero.
func (b *RawBuffer) ZeroWeightCount() int {
	count := 0
	for _, s := range b.Samples {
		if s[3] == 0 {
			count++
		}
	}
	return count
}

// Return a copy of the buffer with its rows in reverse order.
func (b *RawBuffer) FlipRows() *RawBuffer {
	out := NewRawBuffer(b.Width, b.Height)
	w := int(b.Width)
	for y := 0; y < int(b.Height); y++ {
		src := (int(b.Height) - 1 - y) * w
		copy(out.Samples[y*w:(y+1)*w], b.Samples[src:src+w])
	}
	return out
}

func (b *RawBuffer) validate() error {
	if b == nil || b.Width == 0 || b.Height == 0 {
		return ErrInvalidDims
	}
	if len(b.Samples) != int(b.Width)*int(b.Height) {
		return ErrSampleCount
	}
	return nil
}

// An Image is the canonical 3-component representation of an AOV. Pixels are
// stored top-down, left-to-right.
type Image struct {
	Width  uint32
	Height uint32

	Pix []types.Vec3
}

// Create a zeroed image with the given dimensions.
func NewImage(width, height uint32) *Image {
	return &Image{
		Width:  width,
		Height: height,
		Pix:    make([]types.Vec3, int(width)*int(height)),
	}
}

// Get the pixel at (x, y); row 0 is the top row.
func (im *Image) At(x, y uint32) types.Vec3 {
	return im.Pix[y*im.Width+x]
}

// Set the pixel at (x, y); row 0 is the top row.
func (im *Image) Set(x, y uint32, v types.Vec3) {
	im.Pix[y*im.Width+x] = v
}

// Returns true if both images have the same dimensions.
func (im *Image) SameSize(other *Image) bool {
	return im.Width == other.Width && im.Height == other.Height
}

// Validate image dimensions against the pixel slice.
func (im *Image) Validate() error {
	if im == nil || im.Width == 0 || im.Height == 0 {
		return ErrInvalidDims
	}
	if len(im.Pix) != int(im.Width)*int(im.Height) {
		return ErrSampleCount
	}
	return nil
}
