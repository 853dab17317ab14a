package handle

import (
	"errors"
	"strings"
	"testing"
)

func TestHandleBytesUntilRelease(t *testing.T) {
	h := New([]byte{1, 2, 3}, "image/png")

	data, err := h.Bytes()
	if err != nil {
		t.Fatalf("bytes returned error: %v", err)
	}
	if len(data) != 3 {
		t.Fatalf("expected 3 bytes, got %d", len(data))
	}
	if h.MIMEType() != "image/png" {
		t.Fatalf("expected image/png, got %s", h.MIMEType())
	}

	h.Release()
	h.Release()

	if !h.Released() {
		t.Fatal("expected handle to report released")
	}
	if _, err := h.Bytes(); !errors.Is(err, ErrReleased) {
		t.Fatalf("expected ErrReleased, got %v", err)
	}
}

func TestHandleURLsAreUnique(t *testing.T) {
	a := New(nil, "image/jpeg")
	b := New(nil, "image/jpeg")

	if a.URL() == b.URL() {
		t.Fatalf("expected distinct urls, both were %s", a.URL())
	}
	if !strings.HasPrefix(a.URL(), urlPrefix) {
		t.Fatalf("unexpected url %s", a.URL())
	}
	if !strings.HasSuffix(a.URL(), a.ID()) {
		t.Fatalf("expected url %s to end with id %s", a.URL(), a.ID())
	}
}
