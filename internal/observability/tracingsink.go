package observability

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/skyforge/observer-engine/core"
)

const tracerName = "github.com/skyforge/observer-engine/internal/observability"

// TracingSink emits one span per journey, from departure to arrival, with
// frame switches recorded as span events. It forwards every event to the
// wrapped sink, so it can decorate a metrics collector.
type TracingSink struct {
	tracer trace.Tracer
	next   core.EventSink

	mu   sync.Mutex
	span trace.Span
}

var _ core.EventSink = (*TracingSink)(nil)

// NewTracingSink wraps next with journey span emission. next may be nil. The
// tracer comes from the global provider, so InitTracing may run before or
// after construction.
func NewTracingSink(next core.EventSink) *TracingSink {
	return &TracingSink{
		tracer: otel.Tracer(tracerName),
		next:   next,
	}
}

// JourneyStarted implements core.EventSink.
func (s *TracingSink) JourneyStarted(traj core.TrajectoryType) {
	s.mu.Lock()
	if s.span != nil {
		// A new journey pre-empts the one in flight.
		s.span.AddEvent("superseded")
		s.span.End()
	}
	_, span := s.tracer.Start(context.Background(), "observer.journey",
		trace.WithAttributes(attribute.String("trajectory", traj.String())))
	s.span = span
	s.mu.Unlock()

	if s.next != nil {
		s.next.JourneyStarted(traj)
	}
}

// JourneyCompleted implements core.EventSink.
func (s *TracingSink) JourneyCompleted() {
	s.mu.Lock()
	if s.span != nil {
		s.span.End()
		s.span = nil
	}
	s.mu.Unlock()

	if s.next != nil {
		s.next.JourneyCompleted()
	}
}

// FrameSwitched implements core.EventSink.
func (s *TracingSink) FrameSwitched(cs core.CoordinateSystem) {
	s.mu.Lock()
	if s.span != nil {
		s.span.AddEvent("frame switch",
			trace.WithAttributes(attribute.String("coord_sys", cs.String())))
	}
	s.mu.Unlock()

	if s.next != nil {
		s.next.FrameSwitched(cs)
	}
}
