package codec

import (
	"fmt"
	"strings"
)

// Encoding selects how float channels are stored in 16-bit PNG samples.
type Encoding uint8

const (
	// Store IEEE-754 binary16 bits. Keeps values outside [0, 1] as well as
	// Inf and NaN. Finite values beyond the binary16 range are rejected.
	// Files are tagged with a private ancillary chunk.
	Half Encoding = iota

	// Clamp to [0, 1] and quantize to 16 bits. Files open in any viewer.
	Unorm16

	// Store IEEE-754 binary32 bits losslessly. Each pixel occupies two PNG
	// pixels: the high 16 bits of every channel followed by the low 16 bits,
	// so the PNG is twice as wide as the image. Tagged like Half.
	Float32
)

func (e Encoding) String() string {
	switch e {
	case Half:
		return "half"
	case Unorm16:
		return "unorm16"
	case Float32:
		return "float32"
	}
	return fmt.Sprintf("Encoding(%d)", uint8(e))
}

// Parse an encoding name.
func ParseEncoding(name string) (Encoding, error) {
	switch strings.ToLower(name) {
	case "half", "float16":
		return Half, nil
	case "unorm16", "png16":
		return Unorm16, nil
	case "float32", "float", "binary32":
		return Float32, nil
	}
	return Half, fmt.Errorf("%w: %q", ErrUnsupportedEncoding, name)
}
