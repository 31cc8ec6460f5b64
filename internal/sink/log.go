package sink

import (
	"context"
	"log/slog"

	"media-tracker/internal/media"
)

// LogSink writes one structured log record per delivered event.
type LogSink struct {
	log   *slog.Logger
	level slog.Level
}

// NewLogSink returns a sink that logs at info level.
func NewLogSink(log *slog.Logger) *LogSink {
	return &LogSink{log: log, level: slog.LevelInfo}
}

// LogBaseEvent implements media.Sink. It never fails.
func (s *LogSink) LogBaseEvent(ev media.BaseEvent) error {
	attrs := []slog.Attr{
		slog.String("event", ev.EventName()),
		slog.Int("message_type", int(ev.Kind())),
	}
	switch e := ev.(type) {
	case *media.Event:
		attrs = append(attrs,
			slog.String("event_id", e.ID),
			slog.String("media_session_id", e.SessionID),
			slog.String("content_id", e.ContentID),
		)
	case media.PageEvent:
		if sid, ok := e.Data[media.KeyMediaSessionID].(string); ok {
			attrs = append(attrs, slog.String("media_session_id", sid))
		}
		attrs = append(attrs, slog.Int("attributes", len(e.Data)))
	}
	s.log.LogAttrs(context.Background(), s.level, "media event", attrs...)
	return nil
}
