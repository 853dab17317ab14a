package config

import (
	"os"
	"runtime"
	"strconv"

	"github.com/dunamismax/pixelpress/internal/domain"
	"github.com/dunamismax/pixelpress/internal/telemetry"
)

type Config struct {
	Defaults  DefaultsConfig
	Pipeline  PipelineConfig
	Output    OutputConfig
	Telemetry TelemetryConfig
}

// DefaultsConfig holds the processing options used when the caller does not
// supply them.
type DefaultsConfig struct {
	Format  string
	Quality int
}

type PipelineConfig struct {
	Concurrency    int
	MaxSourceBytes int
}

type OutputConfig struct {
	Dir string
}

type TelemetryConfig struct {
	ServiceName   string
	TraceExporter string
	OTLPEndpoint  string
	OTLPInsecure  bool
	MetricsFile   string
}

func (t TelemetryConfig) TraceConfig() telemetry.TraceConfig {
	return telemetry.TraceConfig{
		ServiceName:  t.ServiceName,
		Exporter:     t.TraceExporter,
		OTLPEndpoint: t.OTLPEndpoint,
		OTLPInsecure: t.OTLPInsecure,
	}
}

func Load() Config {
	return Config{
		Defaults: DefaultsConfig{
			Format:  env("PIXELPRESS_FORMAT", string(domain.FormatJPEG)),
			Quality: envInt("PIXELPRESS_QUALITY", 80),
		},
		Pipeline: PipelineConfig{
			Concurrency:    envInt("PIXELPRESS_CONCURRENCY", max(1, runtime.NumCPU()/2)),
			MaxSourceBytes: envInt("PIXELPRESS_MAX_SOURCE_BYTES", domain.MaxSourceBytes),
		},
		Output: OutputConfig{
			Dir: env("PIXELPRESS_OUTPUT_DIR", "."),
		},
		Telemetry: TelemetryConfig{
			ServiceName:   env("OTEL_SERVICE_NAME", "pixelpress"),
			TraceExporter: env("OTEL_TRACES_EXPORTER", "none"),
			OTLPEndpoint:  env("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			OTLPInsecure:  envBool("OTEL_EXPORTER_OTLP_INSECURE", false),
			MetricsFile:   env("PIXELPRESS_METRICS_FILE", ""),
		},
	}
}

func env(key, fallback string) string {
	value, ok := os.LookupEnv(key)
	if !ok || value == "" {
		return fallback
	}
	return value
}

func envInt(key string, fallback int) int {
	value := env(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func envBool(key string, fallback bool) bool {
	value := env(key, "")
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
