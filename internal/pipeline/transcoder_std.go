package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"github.com/chai2010/webp"
	"github.com/dunamismax/pixelpress/internal/domain"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

type stdlibRaster struct {
	img image.Image
}

func (r stdlibRaster) Size() (int, int) {
	b := r.img.Bounds()
	return b.Dx(), b.Dy()
}

func (stdlibRaster) Close() {}

type stdlibTranscoder struct {
	surfaces *surfacePool
}

func newStdlibTranscoder() stdlibTranscoder {
	return stdlibTranscoder{surfaces: &surfacePool{}}
}

func (t stdlibTranscoder) Decode(ctx context.Context, input []byte) (Raster, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(input))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	if exceedsPixelLimit(cfg.Width, cfg.Height) {
		return nil, fmt.Errorf("%w: %w: source %dx%d", ErrDecode, ErrTooManyPixels, cfg.Width, cfg.Height)
	}

	img, _, err := image.Decode(bytes.NewReader(input))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}
	return stdlibRaster{img: img}, nil
}

func (t stdlibTranscoder) Transcode(ctx context.Context, src Raster, width, height int, format domain.Format, quality int) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	raster, ok := src.(stdlibRaster)
	if !ok {
		return nil, fmt.Errorf("%w: raster %T was not produced by this transcoder", ErrInvalidInput, src)
	}
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: output dimensions %dx%d", ErrInvalidInput, width, height)
	}
	if exceedsPixelLimit(width, height) {
		return nil, fmt.Errorf("%w: %w: output %dx%d", ErrInvalidInput, ErrTooManyPixels, width, height)
	}

	surface := t.surfaces.get(width, height)
	defer t.surfaces.put(surface)

	rasterize(surface, raster.img)
	return encodeImage(surface, format, qualityFraction(quality))
}

// rasterize fills dst with src scaled to dst's bounds. Same-size sources are
// copied pixel for pixel.
func rasterize(dst *image.RGBA, src image.Image) {
	srcBounds := src.Bounds()
	if srcBounds.Dx() == dst.Rect.Dx() && srcBounds.Dy() == dst.Rect.Dy() {
		draw.Draw(dst, dst.Rect, src, srcBounds.Min, draw.Src)
		return
	}
	draw.BiLinear.Scale(dst, dst.Rect, src, srcBounds, draw.Src, nil)
}

func encodeImage(img image.Image, format domain.Format, quality float64) ([]byte, error) {
	var buf bytes.Buffer

	switch format {
	case domain.FormatJPEG:
		if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: encoderQuality(quality)}); err != nil {
			return nil, fmt.Errorf("%w: jpeg: %w", ErrEncode, err)
		}
	case domain.FormatPNG:
		encoder := png.Encoder{CompressionLevel: png.DefaultCompression}
		if err := encoder.Encode(&buf, img); err != nil {
			return nil, fmt.Errorf("%w: png: %w", ErrEncode, err)
		}
	case domain.FormatWEBP:
		opts := &webp.Options{Quality: float32(encoderQuality(quality))}
		if err := webp.Encode(&buf, img, opts); err != nil {
			return nil, fmt.Errorf("%w: webp: %w", ErrEncode, err)
		}
	default:
		return nil, fmt.Errorf("%w: unsupported output format: %s", ErrInvalidInput, format)
	}

	if buf.Len() == 0 {
		return nil, fmt.Errorf("%w: %s encoder produced no output", ErrEncode, format)
	}
	return buf.Bytes(), nil
}
