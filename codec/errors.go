package codec

import (
	"errors"
	"fmt"
)

var (
	ErrUnsupportedFormat   = errors.New("codec: unsupported pixel format")
	ErrUnsupportedEncoding = errors.New("codec: unsupported encoding")
)

// IOError reports a failure to read or write an image file. It wraps the
// underlying cause so callers can match it with errors.Is (for example
// against fs.ErrNotExist).
type IOError struct {
	Op   string
	Path string
	Err  error
}

func (e *IOError) Error() string {
	return fmt.Sprintf("codec: %s %s: %v", e.Op, e.Path, e.Err)
}

func (e *IOError) Unwrap() error { return e.Err }
