package sink

import "media-tracker/internal/media"

// Multi delivers each event to every sink in order and stops at the first
// failure, returning its error.
type Multi []media.Sink

// LogBaseEvent implements media.Sink.
func (m Multi) LogBaseEvent(ev media.BaseEvent) error {
	for _, s := range m {
		if err := s.LogBaseEvent(ev); err != nil {
			return err
		}
	}
	return nil
}
