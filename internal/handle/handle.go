// Package handle provides explicit, caller-owned references to image bytes
// for display and download. A Handle stays readable until Release is called.
package handle

import (
	"errors"
	"sync"

	"github.com/dunamismax/pixelpress/internal/id"
)

const urlPrefix = "blob:pixelpress/"

var ErrReleased = errors.New("handle has been released")

type Handle struct {
	id       string
	mimeType string

	mu       sync.RWMutex
	data     []byte
	released bool
}

// New wraps data without copying it. The caller must not mutate data while
// the handle is live.
func New(data []byte, mimeType string) *Handle {
	return &Handle{
		id:       id.New(),
		mimeType: mimeType,
		data:     data,
	}
}

func (h *Handle) ID() string {
	return h.id
}

func (h *Handle) URL() string {
	return urlPrefix + h.id
}

func (h *Handle) MIMEType() string {
	return h.mimeType
}

func (h *Handle) Bytes() ([]byte, error) {
	h.mu.RLock()
	defer h.mu.RUnlock()
	if h.released {
		return nil, ErrReleased
	}
	return h.data, nil
}

// Release drops the buffer reference. Calling it more than once is a no-op.
func (h *Handle) Release() {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.data = nil
	h.released = true
}

func (h *Handle) Released() bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.released
}
