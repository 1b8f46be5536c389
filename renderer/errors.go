package renderer

import "errors"

var (
	ErrNoOutput          = errors.New("renderer: no output bound")
	ErrUnsupportedOutput = errors.New("renderer: unsupported output")
	ErrSceneNotCompiled  = errors.New("renderer: scene not compiled")
	ErrSizeMismatch      = errors.New("renderer: output size does not match frame size")
)
