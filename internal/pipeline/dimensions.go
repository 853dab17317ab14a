package pipeline

import "math"

// MaxPixels bounds both decoded sources and output surfaces.
const MaxPixels = 100_000_000

func exceedsPixelLimit(width, height int) bool {
	if width <= 0 || height <= 0 {
		return false
	}
	return width > MaxPixels/height
}

// Resolve computes output dimensions from the natural source size and an
// optional requested size, where zero means "not requested". A single
// requested axis keeps the source aspect ratio; both axes are used verbatim.
// Results are rounded to the nearest pixel and never drop below 1.
func Resolve(sourceWidth, sourceHeight, requestedWidth, requestedHeight int) (int, int) {
	switch {
	case requestedWidth <= 0 && requestedHeight <= 0:
		return sourceWidth, sourceHeight
	case requestedWidth > 0 && requestedHeight > 0:
		return requestedWidth, requestedHeight
	}

	aspectRatio := float64(sourceWidth) / float64(sourceHeight)
	if requestedWidth > 0 {
		return requestedWidth, roundPixels(float64(requestedWidth) / aspectRatio)
	}
	return roundPixels(float64(requestedHeight) * aspectRatio), requestedHeight
}

func roundPixels(v float64) int {
	return max(1, int(math.Round(v)))
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
