package pipeline

import (
	"context"

	"github.com/dunamismax/pixelpress/internal/domain"
)

// Raster is a decoded source image owned by a single call.
type Raster interface {
	Size() (width, height int)
	Close()
}

// Transcoder decodes source bytes into a Raster and re-encodes a raster at a
// concrete output size. Decode failures wrap ErrDecode and encode failures
// wrap ErrEncode.
type Transcoder interface {
	Decode(ctx context.Context, input []byte) (Raster, error)
	Transcode(ctx context.Context, src Raster, width, height int, format domain.Format, quality int) ([]byte, error)
}

func qualityFraction(quality int) float64 {
	return float64(quality) / 100
}

// encoderQuality converts a quality fraction back to the integer scale the
// encoders take.
func encoderQuality(fraction float64) int {
	q := int(fraction*100 + 0.5)
	if q < domain.MinQuality {
		return domain.MinQuality
	}
	if q > domain.MaxQuality {
		return domain.MaxQuality
	}
	return q
}
