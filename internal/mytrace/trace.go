// Package mytrace installs a process-wide tracer provider whose spans are
// mirrored into the structured log instead of being exported anywhere.
package mytrace

import (
	"log/slog"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// Init sets the global tracer provider. The returned provider must be shut
// down by the caller on exit.
func Init(logger *slog.Logger, verbose bool) *sdktrace.TracerProvider {
	tp := sdktrace.NewTracerProvider(
		sdktrace.WithSpanProcessor(&loggingSpanProcessor{
			verbose: verbose,
			logger:  logger,
		}),
	)
	otel.SetTracerProvider(tp)
	return tp
}
