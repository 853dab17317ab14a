package pipeline

import (
	"context"
	"errors"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrDecode       = errors.New("decode source image")
	ErrEncode       = errors.New("encode output image")

	// ErrTooManyPixels accompanies ErrDecode or ErrInvalidInput when a source
	// or output raster exceeds MaxPixels.
	ErrTooManyPixels = errors.New("image exceeds maximum pixel count")
)

// ErrorKind labels an error returned by the pipeline for metrics and spans.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, ErrDecode):
		return "decode"
	case errors.Is(err, ErrEncode):
		return "encode"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return "canceled"
	default:
		return "unknown"
	}
}
