package media

import "github.com/samber/mo"

// payload fills in the action-specific fields of an Event while it is being
// built. Each action has exactly one payload type, so an event can only carry
// the fields that belong to it.
type payload interface {
	apply(e *Event)
}

type noPayload struct{}

func (noPayload) apply(*Event) {}

type adBreakPayload struct{ adBreak *AdBreak }

func (p adBreakPayload) apply(e *Event) {
	if p.adBreak != nil {
		b := *p.adBreak
		e.AdBreak = &b
	}
}

type adPayload struct{ ad *AdContent }

func (p adPayload) apply(e *Event) {
	if p.ad != nil {
		a := *p.ad
		e.AdContent = &a
	}
}

type segmentPayload struct{ segment *Segment }

func (p segmentPayload) apply(e *Event) {
	if p.segment != nil {
		s := *p.segment
		e.Segment = &s
	}
}

type seekPayload struct{ position float64 }

func (p seekPayload) apply(e *Event) {
	e.SeekPosition = mo.Some(p.position)
}

type bufferPayload struct {
	duration, percent, position float64
}

func (p bufferPayload) apply(e *Event) {
	e.BufferDuration = mo.Some(p.duration)
	e.BufferPercent = mo.Some(p.percent)
	e.BufferPosition = mo.Some(p.position)
}

type playheadPayload struct{ position float64 }

func (p playheadPayload) apply(e *Event) {
	e.PlayheadPosition = mo.Some(p.position)
}

type qosPayload struct{ qos QoS }

func (p qosPayload) apply(e *Event) {
	q := p.qos
	e.QoS = &q
}
