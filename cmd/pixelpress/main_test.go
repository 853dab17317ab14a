package main

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/dunamismax/pixelpress/internal/config"
	"github.com/dunamismax/pixelpress/internal/domain"
)

func TestRunWritesProcessedImage(t *testing.T) {
	tmp := t.TempDir()
	inputPath := filepath.Join(tmp, "poster.final.png")
	outDir := filepath.Join(tmp, "out")
	metricsPath := filepath.Join(tmp, "pixelpress.prom")

	if err := os.WriteFile(inputPath, buildTestPNG(t, 240, 120), 0o644); err != nil {
		t.Fatalf("write input image: %v", err)
	}

	cfg := testConfig()
	cfg.Telemetry.MetricsFile = metricsPath

	if err := run(cfg, log.New(io.Discard, "", 0), inputPath, outDir, "jpg", 75, 80, 0); err != nil {
		t.Fatalf("run: %v", err)
	}

	f, err := os.Open(filepath.Join(outDir, "poster.jpeg"))
	if err != nil {
		t.Fatalf("open output: %v", err)
	}
	defer f.Close()

	cfgImg, format, err := image.DecodeConfig(f)
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	if format != "jpeg" || cfgImg.Width != 80 || cfgImg.Height != 40 {
		t.Fatalf("expected jpeg 80x40, got %s %dx%d", format, cfgImg.Width, cfgImg.Height)
	}

	if _, err := os.Stat(metricsPath); err != nil {
		t.Fatalf("expected metrics textfile: %v", err)
	}
}

func TestRunRejectsInvalidInput(t *testing.T) {
	tmp := t.TempDir()
	logger := log.New(io.Discard, "", 0)

	if err := run(testConfig(), logger, "", tmp, "png", 80, 0, 0); err == nil {
		t.Fatal("expected error for missing input")
	}

	textPath := filepath.Join(tmp, "notes.txt")
	if err := os.WriteFile(textPath, []byte("hello"), 0o644); err != nil {
		t.Fatalf("write text file: %v", err)
	}
	if err := run(testConfig(), logger, textPath, tmp, "png", 80, 0, 0); !errors.Is(err, domain.ErrUnsupportedMIMEType) {
		t.Fatalf("expected ErrUnsupportedMIMEType, got %v", err)
	}

	if err := run(testConfig(), logger, textPath, tmp, "tiff", 80, 0, 0); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestRunRefusesToOverwriteSource(t *testing.T) {
	tmp := t.TempDir()
	inputPath := filepath.Join(tmp, "same.png")
	if err := os.WriteFile(inputPath, buildTestPNG(t, 10, 10), 0o644); err != nil {
		t.Fatalf("write input image: %v", err)
	}

	if err := run(testConfig(), log.New(io.Discard, "", 0), inputPath, tmp, "png", 80, 0, 0); err == nil {
		t.Fatal("expected overwrite refusal")
	}
}

func testConfig() config.Config {
	return config.Config{
		Defaults: config.DefaultsConfig{Format: "jpeg", Quality: 80},
		Pipeline: config.PipelineConfig{Concurrency: 1, MaxSourceBytes: domain.MaxSourceBytes},
		Telemetry: config.TelemetryConfig{
			TraceExporter: "none",
		},
	}
}

func buildTestPNG(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{
				R: uint8((x * 255) / w),
				G: uint8((y * 255) / h),
				B: 140,
				A: 255,
			})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode source png: %v", err)
	}
	return buf.Bytes()
}
