package pipeline

import (
	"time"

	"github.com/dunamismax/pixelpress/internal/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

type metrics struct {
	registry             *prometheus.Registry
	imagesTotal          *prometheus.CounterVec
	processDuration      *prometheus.HistogramVec
	activeCalls          prometheus.Gauge
	sourceBytesTotal     prometheus.Counter
	outputBytesTotal     prometheus.Counter
	bytesSavedTotal      prometheus.Counter
	pixelsProcessedTotal prometheus.Counter
}

func newMetrics() *metrics {
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	m := &metrics{
		registry: registry,
		imagesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "pixelpress_pipeline_images_total",
			Help: "Total processing calls by output format and result.",
		}, []string{"format", "result"}),
		processDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "pixelpress_pipeline_process_duration_seconds",
			Help:    "Duration of decode, resize and encode per call.",
			Buckets: prometheus.DefBuckets,
		}, []string{"format", "result"}),
		activeCalls: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "pixelpress_pipeline_active_calls",
			Help: "Processing calls currently waiting on or running in the pool.",
		}),
		sourceBytesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pixelpress_pipeline_source_bytes_total",
			Help: "Total source bytes of successfully processed images.",
		}),
		outputBytesTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pixelpress_pipeline_output_bytes_total",
			Help: "Total encoded output bytes.",
		}),
		bytesSavedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pixelpress_pipeline_bytes_saved_total",
			Help: "Total bytes saved by re-encoding, ignoring outputs that grew.",
		}),
		pixelsProcessedTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "pixelpress_pipeline_pixels_processed_total",
			Help: "Total output pixels produced.",
		}),
	}

	registry.MustRegister(
		m.imagesTotal,
		m.processDuration,
		m.activeCalls,
		m.sourceBytesTotal,
		m.outputBytesTotal,
		m.bytesSavedTotal,
		m.pixelsProcessedTotal,
	)
	return m
}

func (m *metrics) observe(format domain.Format, result domain.ProcessedImage, err error, elapsed time.Duration) {
	kind := ErrorKind(err)
	m.imagesTotal.WithLabelValues(format.String(), kind).Inc()
	m.processDuration.WithLabelValues(format.String(), kind).Observe(elapsed.Seconds())
	if err != nil {
		return
	}

	m.sourceBytesTotal.Add(float64(result.OriginalSize))
	m.outputBytesTotal.Add(float64(result.ProcessedSize))
	m.bytesSavedTotal.Add(float64(result.BytesSaved()))
	m.pixelsProcessedTotal.Add(float64(result.Width * result.Height))
}
