package ports

import (
	"context"
	"io"

	"go.trai.ch/bud/internal/core/domain"
)

//go:generate go run go.uber.org/mock/mockgen -source=telemetry.go -destination=mocks/mock_telemetry.go -package=mocks

// Tracer is the entry point for creating spans.
type Tracer interface {
	// Start creates a new span.
	Start(ctx context.Context, name string) (context.Context, Span)
	// EmitPlan signals that a set of tasks is planned for execution.
	EmitPlan(ctx context.Context, taskNames []string)
}

// TracerSwitch is a Tracer whose backend is selected at runtime.
type TracerSwitch interface {
	Tracer
	// Use activates the backend for kind. The returned function flushes and
	// releases the backend and restores the no-op tracer.
	Use(kind domain.TelemetryKind) (func(context.Context) error, error)
}

// Span represents a unit of work.
type Span interface {
	io.Writer
	// End completes the span.
	End()
	// RecordError records an error for the span.
	RecordError(err error)
	// SetAttribute adds a key-value pair to the span.
	SetAttribute(key string, value any)
	// MarkCached records that the work was satisfied from the cache.
	MarkCached()
}
