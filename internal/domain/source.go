package domain

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gabriel-vasile/mimetype"
)

const MaxSourceBytes = 50 * 1024 * 1024

var (
	ErrEmptySource         = errors.New("source image is empty")
	ErrSourceTooLarge      = errors.New("source image exceeds size limit")
	ErrUnsupportedMIMEType = errors.New("unsupported source mime type")
)

var acceptedMIMETypes = map[string]struct{}{
	"image/jpeg": {},
	"image/jpg":  {},
	"image/png":  {},
	"image/webp": {},
}

// SourceImage is borrowed by the pipeline for the duration of one call and
// never mutated. Width and Height are the declared natural size; the decoded
// raster is authoritative when they disagree.
type SourceImage struct {
	Name     string
	MIMEType string
	Data     []byte
	Width    int
	Height   int
}

// NewSourceImage builds a SourceImage and sniffs its MIME type from content.
func NewSourceImage(name string, data []byte) SourceImage {
	return SourceImage{
		Name:     name,
		MIMEType: mimetype.Detect(data).String(),
		Data:     data,
	}
}

func (s SourceImage) Size() int {
	return len(s.Data)
}

// Validate applies the input boundary checks callers run before handing an
// image to the pipeline. maxBytes <= 0 selects MaxSourceBytes.
func (s SourceImage) Validate(maxBytes int) error {
	if maxBytes <= 0 {
		maxBytes = MaxSourceBytes
	}
	if len(s.Data) == 0 {
		return ErrEmptySource
	}
	if len(s.Data) > maxBytes {
		return fmt.Errorf("%w: %d > %d bytes", ErrSourceTooLarge, len(s.Data), maxBytes)
	}
	mimeType := strings.ToLower(strings.TrimSpace(s.MIMEType))
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}
	if _, ok := acceptedMIMETypes[mimeType]; !ok {
		return fmt.Errorf("%w: %q", ErrUnsupportedMIMEType, s.MIMEType)
	}
	return nil
}
