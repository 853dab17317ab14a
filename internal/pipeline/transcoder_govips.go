//go:build govips && cgo

package pipeline

import (
	"context"
	"fmt"

	"github.com/davidbyttow/govips/v2/vips"
	"github.com/dunamismax/pixelpress/internal/domain"
)

type govipsRaster struct {
	img *vips.ImageRef
}

func (r govipsRaster) Size() (int, int) {
	return r.img.Width(), r.img.Height()
}

func (r govipsRaster) Close() {
	r.img.Close()
}

type govipsTranscoder struct{}

func (govipsTranscoder) Decode(ctx context.Context, input []byte) (Raster, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	if len(input) == 0 {
		return nil, fmt.Errorf("%w: empty buffer", ErrDecode)
	}
	img, err := vips.NewImageFromBuffer(input)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if exceedsPixelLimit(img.Width(), img.Height()) {
		width, height := img.Width(), img.Height()
		img.Close()
		return nil, fmt.Errorf("%w: %w: source %dx%d", ErrDecode, ErrTooManyPixels, width, height)
	}
	return govipsRaster{img: img}, nil
}

func (govipsTranscoder) Transcode(ctx context.Context, src Raster, width, height int, format domain.Format, quality int) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	raster, ok := src.(govipsRaster)
	if !ok {
		return nil, fmt.Errorf("%w: raster %T was not produced by this transcoder", ErrInvalidInput, src)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: output dimensions %dx%d", ErrInvalidInput, width, height)
	}
	if exceedsPixelLimit(width, height) {
		return nil, fmt.Errorf("%w: %w: output %dx%d", ErrInvalidInput, ErrTooManyPixels, width, height)
	}

	// Each call works on its own copy so the decoded source stays untouched.
	surface, err := raster.img.Copy()
	if err != nil {
		return nil, fmt.Errorf("%w: copy raster: %w", ErrEncode, err)
	}
	defer surface.Close()

	if surface.Width() != width || surface.Height() != height {
		if err := surface.ThumbnailWithSize(width, height, vips.InterestingNone, vips.SizeForce); err != nil {
			return nil, fmt.Errorf("%w: resize: %w", ErrEncode, err)
		}
	}
	if surface.Width() != width || surface.Height() != height {
		return nil, fmt.Errorf("%w: resized to %dx%d, want %dx%d", ErrEncode, surface.Width(), surface.Height(), width, height)
	}

	data, err := exportGovipsImage(surface, format, qualityFraction(quality))
	if err != nil {
		return nil, err
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s encoder produced no output", ErrEncode, format)
	}
	return data, nil
}

func exportGovipsImage(img *vips.ImageRef, format domain.Format, quality float64) ([]byte, error) {
	switch format {
	case domain.FormatJPEG:
		params := vips.NewJpegExportParams()
		params.Quality = encoderQuality(quality)
		data, _, err := img.ExportJpeg(params)
		if err != nil {
			return nil, fmt.Errorf("%w: jpeg: %w", ErrEncode, err)
		}
		return data, nil
	case domain.FormatPNG:
		data, _, err := img.ExportPng(vips.NewPngExportParams())
		if err != nil {
			return nil, fmt.Errorf("%w: png: %w", ErrEncode, err)
		}
		return data, nil
	case domain.FormatWEBP:
		params := vips.NewWebpExportParams()
		params.Quality = encoderQuality(quality)
		data, _, err := img.ExportWebp(params)
		if err != nil {
			return nil, fmt.Errorf("%w: webp: %w", ErrEncode, err)
		}
		return data, nil
	default:
		return nil, fmt.Errorf("%w: unsupported output format: %s", ErrInvalidInput, format)
	}
}
