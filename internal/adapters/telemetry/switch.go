package telemetry

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.trai.ch/bud/internal/adapters/telemetry/progrock"
	"go.trai.ch/bud/internal/core/domain"
	"go.trai.ch/bud/internal/core/ports"
	"go.trai.ch/zerr"
)

const instrumentationName = "go.trai.ch/bud"

var _ ports.TracerSwitch = (*Switch)(nil)

// Switch is a ports.Tracer that forwards to the backend selected with Use.
// It starts out with the no-op tracer.
type Switch struct {
	logger ports.Logger

	mu      sync.RWMutex
	current ports.Tracer
}

// NewSwitch creates a Switch. Summaries of OpenTelemetry runs are written to logger.
func NewSwitch(logger ports.Logger) *Switch {
	return &Switch{
		logger:  logger,
		current: NewNoOpTracer(),
	}
}

// Start creates a span on the active backend.
func (s *Switch) Start(ctx context.Context, name string) (context.Context, ports.Span) {
	return s.active().Start(ctx, name)
}

// EmitPlan forwards the plan to the active backend.
func (s *Switch) EmitPlan(ctx context.Context, taskNames []string) {
	s.active().EmitPlan(ctx, taskNames)
}

// Use activates the backend for kind.
func (s *Switch) Use(kind domain.TelemetryKind) (func(context.Context) error, error) {
	var (
		tracer  ports.Tracer
		release func(context.Context) error
	)

	switch kind {
	case domain.TelemetryOTel:
		summary := NewSummaryProcessor()
		provider := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(summary))
		otel.SetTracerProvider(provider)
		tracer = NewOTelTracer(instrumentationName)
		release = func(ctx context.Context) error {
			if err := provider.Shutdown(ctx); err != nil {
				return zerr.Wrap(err, "failed to shut down tracer provider")
			}
			if report := summary.Report(); report != "" {
				s.logger.Info(report)
			}
			return nil
		}
	case domain.TelemetryProgrock:
		rec := progrock.New()
		tracer = rec
		release = func(context.Context) error {
			return rec.Close()
		}
	case domain.TelemetryNone, "":
		tracer = NewNoOpTracer()
		release = func(context.Context) error { return nil }
	default:
		return nil, zerr.With(domain.ErrUnknownTelemetry, "telemetry", string(kind))
	}

	s.set(tracer)
	return func(ctx context.Context) error {
		s.set(NewNoOpTracer())
		return release(ctx)
	}, nil
}

func (s *Switch) active() ports.Tracer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

func (s *Switch) set(t ports.Tracer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.current = t
}
