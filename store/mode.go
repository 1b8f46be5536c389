package store

import "fmt"

// Mode selects whether the store writes new references or verifies against
// existing ones. It is fixed for the lifetime of a Store.
type Mode uint8

const (
	Verify Mode = iota
	Generate
)

func (m Mode) String() string {
	switch m {
	case Verify:
		return "verify"
	case Generate:
		return "generate"
	}
	return fmt.Sprintf("Mode(%d)", uint8(m))
}

// Map a generate flag to a Mode.
func ModeFromFlag(generate bool) Mode {
	if generate {
		return Generate
	}
	return Verify
}
