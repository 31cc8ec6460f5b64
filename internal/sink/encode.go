package sink

import (
	"encoding/json"
	"fmt"
	"math"
	"time"

	"media-tracker/internal/media"
)

// Envelope is the wire form of a delivered event.
type Envelope struct {
	MessageType media.MessageType `json:"message_type"`
	Name        string            `json:"name"`
	Event       any               `json:"event"`
	At          int64             `json:"at"`
}

// Encode renders ev as a JSON Envelope stamped with at. Media events are
// encoded in their server-model shape, page events as-is. Non-finite numbers
// in attribute maps become null since JSON cannot represent them.
func Encode(ev media.BaseEvent, at time.Time) ([]byte, error) {
	env := Envelope{
		MessageType: ev.Kind(),
		Name:        ev.EventName(),
		At:          at.UnixMilli(),
	}
	switch e := ev.(type) {
	case *media.Event:
		obj := e.ToEventAPIObject()
		obj.EventAttributes = Scrub(obj.EventAttributes)
		env.Event = obj
	case media.PageEvent:
		e.Data = Scrub(e.Data)
		env.Event = e
	default:
		return nil, fmt.Errorf("encode %s: unsupported event type %T", ev.EventName(), ev)
	}
	body, err := json.Marshal(env)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", ev.EventName(), err)
	}
	return body, nil
}

// Scrub returns a copy of attrs with NaN and infinite floats replaced by nil.
// attrs is returned unchanged when it holds none.
func Scrub(attrs media.Attributes) media.Attributes {
	dirty := false
	for _, v := range attrs {
		if isNonFinite(v) {
			dirty = true
			break
		}
	}
	if !dirty {
		return attrs
	}
	out := make(media.Attributes, len(attrs))
	for k, v := range attrs {
		if isNonFinite(v) {
			out[k] = nil
			continue
		}
		out[k] = v
	}
	return out
}

func isNonFinite(v any) bool {
	f, ok := v.(float64)
	return ok && (math.IsNaN(f) || math.IsInf(f, 0))
}
