package telemetry

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

// TaskSummary is the outcome of one finished task span.
type TaskSummary struct {
	Name     string
	Duration time.Duration
	Cached   bool
	Failed   bool
}

// SummaryProcessor implements sdktrace.SpanProcessor and collects finished task spans.
// Only spans carrying the task attribute are recorded.
type SummaryProcessor struct {
	mu    sync.Mutex
	tasks []TaskSummary
}

// NewSummaryProcessor returns a new SummaryProcessor.
func NewSummaryProcessor() *SummaryProcessor {
	return &SummaryProcessor{}
}

// OnStart does nothing.
func (p *SummaryProcessor) OnStart(_ context.Context, _ sdktrace.ReadWriteSpan) {}

// OnEnd records s if it is a task span.
func (p *SummaryProcessor) OnEnd(s sdktrace.ReadOnlySpan) {
	summary := TaskSummary{
		Duration: s.EndTime().Sub(s.StartTime()),
		Failed:   s.Status().Code == codes.Error,
	}

	isTask := false
	for _, kv := range s.Attributes() {
		switch string(kv.Key) {
		case AttrTask:
			isTask = true
			summary.Name = kv.Value.AsString()
		case AttrCached:
			summary.Cached = kv.Value.AsBool()
		}
	}
	if !isTask {
		return
	}

	p.mu.Lock()
	defer p.mu.Unlock()
	p.tasks = append(p.tasks, summary)
}

// ForceFlush does nothing.
func (p *SummaryProcessor) ForceFlush(_ context.Context) error {
	return nil
}

// Shutdown does nothing.
func (p *SummaryProcessor) Shutdown(_ context.Context) error {
	return nil
}

// Tasks returns the recorded task spans, slowest first.
func (p *SummaryProcessor) Tasks() []TaskSummary {
	p.mu.Lock()
	tasks := slices.Clone(p.tasks)
	p.mu.Unlock()

	slices.SortStableFunc(tasks, func(a, b TaskSummary) int {
		return cmp.Compare(b.Duration, a.Duration)
	})
	return tasks
}

// Report renders the recorded task spans as one line, or "" if none were recorded.
func (p *SummaryProcessor) Report() string {
	tasks := p.Tasks()
	if len(tasks) == 0 {
		return ""
	}

	var cached, failed int
	for _, t := range tasks {
		if t.Cached {
			cached++
		}
		if t.Failed {
			failed++
		}
	}

	return fmt.Sprintf("Traced %d tasks (%d cached, %d failed). Slowest: %s (%.3fs).",
		len(tasks), cached, failed, tasks[0].Name, tasks[0].Duration.Seconds())
}
