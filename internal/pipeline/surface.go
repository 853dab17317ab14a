package pipeline

import (
	"image"
	"sync"

	"golang.org/x/image/draw"
)

// surfacePool hands out exclusive RGBA drawing surfaces. A reused surface is
// resized to the requested bounds and cleared to transparent before it is
// returned.
type surfacePool struct {
	pool sync.Pool
}

func (p *surfacePool) get(width, height int) *image.RGBA {
	rect := image.Rect(0, 0, width, height)
	n := 4 * width * height

	if s, ok := p.pool.Get().(*image.RGBA); ok && cap(s.Pix) >= n {
		s.Pix = s.Pix[:n]
		s.Stride = 4 * width
		s.Rect = rect
		draw.Draw(s, rect, image.Transparent, image.Point{}, draw.Src)
		return s
	}
	return image.NewRGBA(rect)
}

func (p *surfacePool) put(s *image.RGBA) {
	if s == nil {
		return
	}
	p.pool.Put(s)
}
