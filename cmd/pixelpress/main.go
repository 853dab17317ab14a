package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/dunamismax/pixelpress/internal/config"
	"github.com/dunamismax/pixelpress/internal/domain"
	"github.com/dunamismax/pixelpress/internal/pipeline"
	"github.com/dunamismax/pixelpress/internal/telemetry"
)

func main() {
	cfg := config.Load()
	logger := log.New(os.Stderr, "[pixelpress] ", log.LstdFlags|log.Lmsgprefix)

	var (
		input   = flag.String("in", "", "source image path (jpeg, png or webp)")
		outDir  = flag.String("out", cfg.Output.Dir, "directory for the processed image")
		format  = flag.String("format", cfg.Defaults.Format, "output format: jpeg, png or webp")
		quality = flag.Int("quality", cfg.Defaults.Quality, "output quality 1-100, ignored for png")
		width   = flag.Int("width", 0, "output width in pixels, 0 derives it from the source aspect ratio")
		height  = flag.Int("height", 0, "output height in pixels, 0 derives it from the source aspect ratio")
	)
	flag.Parse()

	if err := run(cfg, logger, *input, *outDir, *format, *quality, *width, *height); err != nil {
		logger.Fatalf("failed: %v", err)
	}
}

func run(cfg config.Config, logger *log.Logger, input, outDir, formatName string, quality, width, height int) error {
	if input == "" {
		return errors.New("-in is required")
	}

	format, err := domain.ParseFormat(formatName)
	if err != nil {
		return err
	}
	opts := domain.ProcessingOptions{
		Format:  format,
		Quality: quality,
		Width:   width,
		Height:  height,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := telemetry.SetupTracing(ctx, cfg.Telemetry.TraceConfig(), logger)
	if err != nil {
		return fmt.Errorf("setup tracing: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := shutdownTracing(shutdownCtx); err != nil {
			logger.Printf("tracing shutdown failed: %v", err)
		}
	}()

	if err := pipeline.Startup(); err != nil {
		return fmt.Errorf("start pipeline runtime: %w", err)
	}
	defer pipeline.Shutdown()

	processor, err := pipeline.NewProcessor(cfg.Pipeline.Concurrency)
	if err != nil {
		return fmt.Errorf("initialize processor: %w", err)
	}
	defer processor.Close()

	data, err := os.ReadFile(input)
	if err != nil {
		return fmt.Errorf("read input file %s: %w", input, err)
	}
	src := domain.NewSourceImage(filepath.Base(input), data)
	if err := src.Validate(cfg.Pipeline.MaxSourceBytes); err != nil {
		return fmt.Errorf("validate %s: %w", input, err)
	}

	result, err := processor.Process(ctx, src, opts)
	if metricsErr := writeMetrics(processor, cfg.Telemetry.MetricsFile); metricsErr != nil {
		logger.Printf("metrics export failed path=%s err=%v", cfg.Telemetry.MetricsFile, metricsErr)
	}
	if err != nil {
		return fmt.Errorf("process %s kind=%s: %w", input, pipeline.ErrorKind(err), err)
	}
	defer result.Release()

	outputPath, err := writeResult(input, outDir, result)
	if err != nil {
		return err
	}

	logger.Printf(
		"processed input=%s output=%s format=%s quality=%d size=%dx%d original=%s processed=%s saved=%s",
		input,
		outputPath,
		result.Format,
		result.Quality,
		result.Width,
		result.Height,
		domain.FormatFileSize(int64(result.OriginalSize)),
		domain.FormatFileSize(int64(result.ProcessedSize)),
		result.CompressionRatio(),
	)
	return nil
}

func writeResult(input, outDir string, result domain.ProcessedImage) (string, error) {
	data, err := result.ProcessedHandle.Bytes()
	if err != nil {
		return "", fmt.Errorf("read processed image: %w", err)
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	fullPath := filepath.Join(outDir, result.Filename)
	if samePath(input, fullPath) {
		return "", fmt.Errorf("refusing to overwrite source image %s", input)
	}
	if err := os.WriteFile(fullPath, data, 0o644); err != nil {
		return "", fmt.Errorf("write output file: %w", err)
	}
	return fullPath, nil
}

func writeMetrics(processor *pipeline.Processor, path string) error {
	if path == "" {
		return nil
	}
	return processor.WriteMetrics(path)
}

func samePath(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}
