// Package codec reads and writes canonical images. Images are stored as
// 3-channel 16-bit PNG files; see Encoding for the sample layouts. Reading
// also accepts 8-bit PNG, JPEG, TIFF and BMP files so that references
// produced by other tools can be compared.
package codec

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	_ "image/jpeg"
	"image/png"
	"io"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/achilleasa/aovtest/asset"
	"github.com/achilleasa/aovtest/frame"
	"github.com/achilleasa/aovtest/log"
	"github.com/achilleasa/aovtest/types"
	"github.com/x448/float16"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
)

var logger = log.New("codec")

// A Codec encodes canonical images using a fixed sample encoding. Decoding
// detects the encoding from the file contents.
type Codec struct {
	Encoding Encoding
}

// Create a codec using the given encoding.
func New(enc Encoding) *Codec {
	return &Codec{Encoding: enc}
}

// Write an image to path. The image is encoded into a temporary file in the
// target directory which is renamed into place once fully written; a failed
// write never leaves a partial file at path.
func (c *Codec) Write(path string, img *frame.Image) error {
	start := time.Now()

	var buf bytes.Buffer
	if err := c.Encode(&buf, img); err != nil {
		return &IOError{Op: "encode", Path: path, Err: err}
	}

	if err := writeAtomic(path, buf.Bytes()); err != nil {
		return &IOError{Op: "write", Path: path, Err: err}
	}

	logger.Debugf(`wrote %dx%d %s image to "%s" in %d ms`, img.Width, img.Height, c.Encoding, path, time.Since(start).Nanoseconds()/1000000)
	return nil
}

// Encode an image as PNG.
func (c *Codec) Encode(w io.Writer, img *frame.Image) error {
	if err := img.Validate(); err != nil {
		return err
	}

	var (
		out       *image.RGBA64
		chunkData string
	)
	switch c.Encoding {
	case Half:
		if err := checkHalfRange(img); err != nil {
			return err
		}
		out, chunkData = encodeSamples(img, halfBits), halfChunkData
	case Unorm16:
		out = encodeSamples(img, unorm16)
	case Float32:
		out, chunkData = encodeFloat32(img), singleChunkData
	default:
		return fmt.Errorf("%w: %d", ErrUnsupportedEncoding, c.Encoding)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, out); err != nil {
		return err
	}

	data := buf.Bytes()
	if chunkData != "" {
		data = insertChunk(data, floatChunkType, []byte(chunkData))
	}
	_, err := w.Write(data)
	return err
}

// Store one 16-bit sample per channel.
func encodeSamples(img *frame.Image, toU16 func(float32) uint16) *image.RGBA64 {
	out := image.NewRGBA64(image.Rect(0, 0, int(img.Width), int(img.Height)))
	for y := 0; y < int(img.Height); y++ {
		for x := 0; x < int(img.Width); x++ {
			px := img.Pix[y*int(img.Width)+x]
			out.SetRGBA64(x, y, color.RGBA64{R: toU16(px[0]), G: toU16(px[1]), B: toU16(px[2]), A: 0xffff})
		}
	}
	return out
}

// Split every channel into its high and low 16-bit words, stored in two
// adjacent PNG pixels.
func encodeFloat32(img *frame.Image) *image.RGBA64 {
	out := image.NewRGBA64(image.Rect(0, 0, 2*int(img.Width), int(img.Height)))
	for y := 0; y < int(img.Height); y++ {
		for x := 0; x < int(img.Width); x++ {
			px := img.Pix[y*int(img.Width)+x]
			r, g, b := math.Float32bits(px[0]), math.Float32bits(px[1]), math.Float32bits(px[2])
			out.SetRGBA64(2*x, y, color.RGBA64{R: uint16(r >> 16), G: uint16(g >> 16), B: uint16(b >> 16), A: 0xffff})
			out.SetRGBA64(2*x+1, y, color.RGBA64{R: uint16(r), G: uint16(g), B: uint16(b), A: 0xffff})
		}
	}
	return out
}

// Finite values that would round to Inf in binary16 cannot be stored.
func checkHalfRange(img *frame.Image) error {
	for i, px := range img.Pix {
		for c := 0; c < 3; c++ {
			v := px[c]
			if math.IsInf(float64(v), 0) || math.IsNaN(float64(v)) {
				continue
			}
			if float16.Fromfloat32(v).IsInf(0) {
				return fmt.Errorf("%w: value %g at pixel (%d, %d) exceeds the half-float range; use the float32 encoding", ErrUnsupportedFormat, v, i%int(img.Width), i/int(img.Width))
			}
		}
	}
	return nil
}

// Read an image from a local path or an http(s) URL.
func (c *Codec) Read(path string) (*frame.Image, error) {
	start := time.Now()

	res, err := asset.NewResource(path)
	if err != nil {
		return nil, &IOError{Op: "open", Path: path, Err: err}
	}
	defer res.Close()

	img, err := Decode(res)
	if err != nil {
		return nil, &IOError{Op: "decode", Path: path, Err: err}
	}

	logger.Debugf(`read %dx%d image from "%s" in %d ms`, img.Width, img.Height, path, time.Since(start).Nanoseconds()/1000000)
	return img, nil
}

// Decode an image stream into its canonical form.
func Decode(r io.Reader) (*frame.Image, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}

	src, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}

	bounds := src.Bounds()
	if bounds.Empty() {
		return nil, fmt.Errorf("%w: empty image", ErrUnsupportedFormat)
	}

	payload, tagged := findChunk(data, floatChunkType)
	if !tagged {
		return decodeNormalized(src), nil
	}
	switch string(payload) {
	case halfChunkData:
		return decodeHalf(src)
	case singleChunkData:
		return decodeFloat32(src)
	}
	return nil, fmt.Errorf("%w: unknown float sample layout %q", ErrUnsupportedFormat, payload)
}

// Decode a half-float tagged image. Samples must be 16-bit and opaque.
func decodeHalf(src image.Image) (*frame.Image, error) {
	rgba, ok := src.(*image.RGBA64)
	if !ok {
		return nil, fmt.Errorf("%w: half-float samples require a 16-bit RGB image; got %T", ErrUnsupportedFormat, src)
	}

	bounds := rgba.Bounds()
	img := frame.NewImage(uint32(bounds.Dx()), uint32(bounds.Dy()))
	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			c := rgba.RGBA64At(bounds.Min.X+x, bounds.Min.Y+y)
			if c.A != 0xffff {
				return nil, fmt.Errorf("%w: half-float samples must be opaque", ErrUnsupportedFormat)
			}
			img.Pix[y*bounds.Dx()+x] = types.XYZ(
				float16.Frombits(c.R).Float32(),
				float16.Frombits(c.G).Float32(),
				float16.Frombits(c.B).Float32(),
			)
		}
	}
	return img, nil
}

// Decode a float32 tagged image. Every image pixel spans two opaque 16-bit
// PNG pixels.
func decodeFloat32(src image.Image) (*frame.Image, error) {
	rgba, ok := src.(*image.RGBA64)
	if !ok {
		return nil, fmt.Errorf("%w: float32 samples require a 16-bit RGB image; got %T", ErrUnsupportedFormat, src)
	}

	bounds := rgba.Bounds()
	if bounds.Dx()%2 != 0 {
		return nil, fmt.Errorf("%w: float32 samples require an even PNG width; got %d", ErrUnsupportedFormat, bounds.Dx())
	}

	width := bounds.Dx() / 2
	img := frame.NewImage(uint32(width), uint32(bounds.Dy()))
	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < width; x++ {
			hi := rgba.RGBA64At(bounds.Min.X+2*x, bounds.Min.Y+y)
			lo := rgba.RGBA64At(bounds.Min.X+2*x+1, bounds.Min.Y+y)
			if hi.A != 0xffff || lo.A != 0xffff {
				return nil, fmt.Errorf("%w: float32 samples must be opaque", ErrUnsupportedFormat)
			}
			img.Pix[y*width+x] = types.XYZ(
				math.Float32frombits(uint32(hi.R)<<16|uint32(lo.R)),
				math.Float32frombits(uint32(hi.G)<<16|uint32(lo.G)),
				math.Float32frombits(uint32(hi.B)<<16|uint32(lo.B)),
			)
		}
	}
	return img, nil
}

// Decode an integer image into [0, 1] floats. Alpha is dropped.
func decodeNormalized(src image.Image) *frame.Image {
	bounds := src.Bounds()
	img := frame.NewImage(uint32(bounds.Dx()), uint32(bounds.Dy()))
	for y := 0; y < bounds.Dy(); y++ {
		for x := 0; x < bounds.Dx(); x++ {
			c := color.NRGBA64Model.Convert(src.At(bounds.Min.X+x, bounds.Min.Y+y)).(color.NRGBA64)
			img.Pix[y*bounds.Dx()+x] = types.XYZ(
				float32(c.R)/0xffff,
				float32(c.G)/0xffff,
				float32(c.B)/0xffff,
			)
		}
	}
	return img
}

func halfBits(v float32) uint16 {
	return float16.Fromfloat32(v).Bits()
}

func unorm16(v float32) uint16 {
	if !(v > 0) {
		// Also catches NaN.
		return 0
	}
	if v >= 1 {
		return 0xffff
	}
	return uint16(math.Round(float64(v) * 0xffff))
}

func writeAtomic(path string, data []byte) error {
	dir, base := filepath.Split(path)
	if dir == "" {
		dir = "."
	}

	f, err := os.CreateTemp(dir, "."+base+".*.tmp")
	if err != nil {
		return err
	}
	tmpName := f.Name()

	_, err = f.Write(data)
	if err == nil {
		err = f.Chmod(0o644)
	}
	if err == nil {
		err = f.Sync()
	}
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err == nil {
		err = os.Rename(tmpName, path)
	}
	if err != nil {
		os.Remove(tmpName)
	}
	return err
}
