package compositor

import (
	"errors"
	"fmt"
)

// Image sources named in decode errors
const (
	SourcePhoto    = "photo"
	SourceTemplate = "template"
)

// ErrInvalidViewport is returned when the captured preview size is not positive
var ErrInvalidViewport = errors.New("viewport size must be positive")

// ImageDecodeError reports which input image could not be loaded or decoded
type ImageDecodeError struct {
	Source string
	Err    error
}

func (e *ImageDecodeError) Error() string {
	return fmt.Sprintf("failed to decode %s image: %v", e.Source, e.Err)
}

func (e *ImageDecodeError) Unwrap() error {
	return e.Err
}

// TaintedCanvasError reports a template served without a permissive
// Access-Control-Allow-Origin header. A browser would refuse to read its pixels.
type TaintedCanvasError struct {
	URL         string
	AllowOrigin string
}

func (e *TaintedCanvasError) Error() string {
	if e.AllowOrigin == "" {
		return fmt.Sprintf("template %s is not served with CORS headers", e.URL)
	}
	return fmt.Sprintf("template %s only allows origin %q", e.URL, e.AllowOrigin)
}
