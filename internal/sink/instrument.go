package sink

import (
	"media-tracker/internal/media"
	"media-tracker/internal/platform/metrics"
)

// Instrumented counts deliveries and failures of next in Prometheus.
type Instrumented struct {
	next    media.Sink
	metrics *metrics.Metrics
}

// Instrument wraps next. A nil m returns next unchanged.
func Instrument(next media.Sink, m *metrics.Metrics) media.Sink {
	if m == nil {
		return next
	}
	return &Instrumented{next: next, metrics: m}
}

// LogBaseEvent implements media.Sink.
func (s *Instrumented) LogBaseEvent(ev media.BaseEvent) error {
	if err := s.next.LogBaseEvent(ev); err != nil {
		s.metrics.IncSinkErrors()
		return err
	}
	if ev.Kind() == media.MessagePageEvent {
		s.metrics.IncPageEvents()
	} else {
		s.metrics.IncEvents(ev.EventName())
	}
	return nil
}
