package domain

import (
	"fmt"
	"strings"
)

type Format string

const (
	FormatJPEG Format = "jpeg"
	FormatPNG  Format = "png"
	FormatWEBP Format = "webp"
)

// ParseFormat accepts the output format names understood by the pipeline.
// "jpg" is folded into "jpeg".
func ParseFormat(in string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(in)) {
	case "jpeg", "jpg":
		return FormatJPEG, nil
	case "png":
		return FormatPNG, nil
	case "webp":
		return FormatWEBP, nil
	default:
		return "", fmt.Errorf("unsupported format: %q", in)
	}
}

func (f Format) Valid() bool {
	switch f {
	case FormatJPEG, FormatPNG, FormatWEBP:
		return true
	default:
		return false
	}
}

func (f Format) Extension() string {
	return string(f)
}

func (f Format) MIMEType() string {
	return "image/" + string(f)
}

// Lossy reports whether quality affects the encoder output.
func (f Format) Lossy() bool {
	return f == FormatJPEG || f == FormatWEBP
}

func (f Format) String() string {
	return string(f)
}
