//go:build govips && cgo

package pipeline

import (
	"context"
	"errors"
	"testing"

	"github.com/dunamismax/pixelpress/internal/domain"
)

func TestGovipsProcessor_PNGOutputHasRequestedSize(t *testing.T) {
	processor := newTestProcessor(t)
	if _, ok := processor.transcoder.(govipsTranscoder); !ok {
		t.Fatalf("expected govips transcoder, got %T", processor.transcoder)
	}

	src := domain.SourceImage{Name: "diagram.png", MIMEType: "image/png", Data: buildTestPNG(t, 800, 600)}
	cases := []domain.ProcessingOptions{
		{Format: domain.FormatPNG, Quality: 80, Width: 400},
		{Format: domain.FormatPNG, Quality: 80, Height: 150},
		{Format: domain.FormatPNG, Quality: 80, Width: 123, Height: 457},
		{Format: domain.FormatPNG, Quality: 80},
	}
	want := [][2]int{{400, 300}, {200, 150}, {123, 457}, {800, 600}}

	for i, opts := range cases {
		result, err := processor.Process(context.Background(), src, opts)
		if err != nil {
			t.Fatalf("options %+v: %v", opts, err)
		}
		if result.Width != want[i][0] || result.Height != want[i][1] {
			t.Fatalf("options %+v: expected %dx%d, got %dx%d", opts, want[i][0], want[i][1], result.Width, result.Height)
		}
		verifyImageSize(t, result.Data, want[i][0], want[i][1])
	}
}

func TestGovipsProcessor_DecodeFailures(t *testing.T) {
	processor := newTestProcessor(t)

	inputs := map[string][]byte{
		"empty":   {},
		"corrupt": []byte("definitely not an image"),
	}
	for name, data := range inputs {
		t.Run(name, func(t *testing.T) {
			_, err := processor.Process(context.Background(), domain.SourceImage{
				Name:     "broken.png",
				MIMEType: "image/png",
				Data:     data,
			}, domain.ProcessingOptions{Format: domain.FormatPNG, Quality: 80})
			if !errors.Is(err, ErrDecode) {
				t.Fatalf("expected ErrDecode, got %v", err)
			}
		})
	}
}

func TestGovipsTranscoder_RejectsOversizedOutput(t *testing.T) {
	transcoder, err := newTranscoder()
	if err != nil {
		t.Fatalf("new transcoder: %v", err)
	}

	raster, err := transcoder.Decode(context.Background(), buildTestPNG(t, 10, 10))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	defer raster.Close()

	_, err = transcoder.Transcode(context.Background(), raster, 60000, 60000, domain.FormatPNG, 80)
	if !errors.Is(err, ErrInvalidInput) || !errors.Is(err, ErrTooManyPixels) {
		t.Fatalf("expected ErrInvalidInput and ErrTooManyPixels, got %v", err)
	}
}
