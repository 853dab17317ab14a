package pipeline

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/dunamismax/pixelpress/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Processor runs the decode, resize and encode pipeline for one image per
// call. Calls are safe for concurrent use; they share only the bounded worker
// pool and the surface pool, which hands each call its own surface.
type Processor struct {
	transcoder Transcoder
	pool       pond.ResultPool[transcoded]
	metrics    *metrics
	tracer     trace.Tracer
}

func NewProcessor(concurrency int) (*Processor, error) {
	transcoder, err := newTranscoder()
	if err != nil {
		return nil, fmt.Errorf("build transcoder: %w", err)
	}
	return newProcessor(transcoder, concurrency), nil
}

func newProcessor(transcoder Transcoder, concurrency int) *Processor {
	return &Processor{
		transcoder: transcoder,
		pool:       pond.NewResultPool[transcoded](max(1, concurrency)),
		metrics:    newMetrics(),
		tracer:     otel.Tracer("pixelpress/pipeline"),
	}
}

// Process transcodes src according to opts. It blocks until the result is
// ready or ctx is done; an abandoned call returns ctx.Err() and its pooled
// work is discarded. src.Data is only read before Process returns, though the
// result's OriginalHandle keeps referencing it. On error no ProcessedImage is
// produced.
func (p *Processor) Process(ctx context.Context, src domain.SourceImage, opts domain.ProcessingOptions) (domain.ProcessedImage, error) {
	startedAt := time.Now()

	ctx, span := p.tracer.Start(ctx, "pipeline.process", trace.WithSpanKind(trace.SpanKindInternal))
	span.SetAttributes(
		attribute.String("image.name", src.Name),
		attribute.String("image.mime_type", src.MIMEType),
		attribute.Int("image.source_bytes", src.Size()),
		attribute.String("image.format", opts.Format.String()),
		attribute.Int("image.quality", opts.Quality),
		attribute.Int("image.requested_width", opts.Width),
		attribute.Int("image.requested_height", opts.Height),
	)
	defer span.End()

	result, err := p.process(ctx, src, opts)
	p.metrics.observe(opts.Format, result, err, time.Since(startedAt))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, ErrorKind(err))
		return domain.ProcessedImage{}, err
	}

	span.SetAttributes(
		attribute.Int("image.output_bytes", result.ProcessedSize),
		attribute.Int("image.output_width", result.Width),
		attribute.Int("image.output_height", result.Height),
	)
	span.SetStatus(codes.Ok, "processed")
	return result, nil
}

func (p *Processor) process(ctx context.Context, src domain.SourceImage, opts domain.ProcessingOptions) (domain.ProcessedImage, error) {
	if err := opts.Validate(); err != nil {
		return domain.ProcessedImage{}, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	if err := ctx.Err(); err != nil {
		return domain.ProcessedImage{}, err
	}

	p.metrics.activeCalls.Inc()
	defer p.metrics.activeCalls.Dec()

	// The pooled task may outlive an abandoned call, so it reads a private copy.
	input := bytes.Clone(src.Data)
	task := p.pool.SubmitErr(func() (transcoded, error) {
		return p.transcode(ctx, input, opts)
	})

	select {
	case <-ctx.Done():
		return domain.ProcessedImage{}, ctx.Err()
	case <-task.Done():
	}

	out, err := task.Wait()
	if err != nil {
		return domain.ProcessedImage{}, err
	}
	return assembleResult(src, out, opts), nil
}

func (p *Processor) transcode(ctx context.Context, input []byte, opts domain.ProcessingOptions) (transcoded, error) {
	raster, err := p.transcoder.Decode(ctx, input)
	if err != nil {
		return transcoded{}, fmt.Errorf("decode stage: %w", err)
	}
	defer raster.Close()

	sourceWidth, sourceHeight := raster.Size()
	if sourceWidth <= 0 || sourceHeight <= 0 {
		return transcoded{}, fmt.Errorf("%w: source has invalid dimensions %dx%d", ErrInvalidInput, sourceWidth, sourceHeight)
	}

	width, height := Resolve(sourceWidth, sourceHeight, opts.Width, opts.Height)
	if exceedsPixelLimit(width, height) {
		return transcoded{}, fmt.Errorf("%w: %w: output %dx%d", ErrInvalidInput, ErrTooManyPixels, width, height)
	}
	data, err := p.transcoder.Transcode(ctx, raster, width, height, opts.Format, opts.Quality)
	if err != nil {
		return transcoded{}, fmt.Errorf("encode stage format=%s size=%dx%d: %w", opts.Format, width, height, err)
	}

	return transcoded{data: data, width: width, height: height}, nil
}

// WriteMetrics writes the processor's metrics in the Prometheus text format,
// suitable for the node_exporter textfile collector.
func (p *Processor) WriteMetrics(path string) error {
	if path == "" {
		return errors.New("metrics path is required")
	}
	if err := prometheus.WriteToTextfile(path, p.metrics.registry); err != nil {
		return fmt.Errorf("write metrics textfile: %w", err)
	}
	return nil
}

// Close waits for in-flight work and stops the worker pool.
func (p *Processor) Close() {
	p.pool.StopAndWait()
}
