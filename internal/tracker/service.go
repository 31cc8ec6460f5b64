package tracker

import (
	"errors"
	"fmt"
	"sort"

	"github.com/samber/lo"

	"media-tracker/internal/media"
	"media-tracker/internal/sink"
)

var (
	// ErrUnknownAction is returned for an action name the service does not know.
	ErrUnknownAction = errors.New("unknown action")

	// ErrInvalidRequest is returned when a request is missing a field its
	// action needs or carries an invalid value.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrDelivery wraps a sink failure reported by a media session.
	ErrDelivery = errors.New("event delivery failed")
)

type actionFunc func(s *media.Session, req ActionRequest) error

var actions = map[string]actionFunc{
	"session-start": func(s *media.Session, req ActionRequest) error { return s.LogMediaSessionStart(req.options()) },
	"session-end":   func(s *media.Session, req ActionRequest) error { return s.LogMediaSessionEnd(req.options()) },
	"content-end":   func(s *media.Session, req ActionRequest) error { return s.LogMediaContentEnd(req.options()) },
	"play":          func(s *media.Session, req ActionRequest) error { return s.LogPlay(req.options()) },
	"pause":         func(s *media.Session, req ActionRequest) error { return s.LogPause(req.options()) },
	"playhead": func(s *media.Session, req ActionRequest) error {
		if req.Playhead == nil {
			return fmt.Errorf("%w: playhead is required", ErrInvalidRequest)
		}
		return s.LogPlayheadPosition(*req.Playhead)
	},
	"qos": func(s *media.Session, req ActionRequest) error {
		if req.QoS == nil {
			return fmt.Errorf("%w: qos is required", ErrInvalidRequest)
		}
		return s.LogQoS(req.QoS.qos(), req.options())
	},
	"seek-start": func(s *media.Session, req ActionRequest) error { return s.LogSeekStart(req.Position, req.options()) },
	"seek-end":   func(s *media.Session, req ActionRequest) error { return s.LogSeekEnd(req.Position, req.options()) },
	"buffer-start": func(s *media.Session, req ActionRequest) error {
		return s.LogBufferStart(req.Duration, req.Percent, req.Position, req.options())
	},
	"buffer-end": func(s *media.Session, req ActionRequest) error {
		return s.LogBufferEnd(req.Duration, req.Percent, req.Position, req.options())
	},
	"ad-break-start": func(s *media.Session, req ActionRequest) error {
		if req.AdBreak == nil {
			return fmt.Errorf("%w: ad_break is required", ErrInvalidRequest)
		}
		return s.LogAdBreakStart(*req.AdBreak, req.options())
	},
	"ad-break-end": func(s *media.Session, req ActionRequest) error { return s.LogAdBreakEnd(req.options()) },
	"ad-start": func(s *media.Session, req ActionRequest) error {
		if req.Ad == nil {
			return fmt.Errorf("%w: ad is required", ErrInvalidRequest)
		}
		return s.LogAdStart(req.Ad.content(), req.options())
	},
	"ad-end":  func(s *media.Session, req ActionRequest) error { return s.LogAdEnd(req.options()) },
	"ad-skip": func(s *media.Session, req ActionRequest) error { return s.LogAdSkip(req.options()) },
	"ad-click": func(s *media.Session, req ActionRequest) error {
		if req.Ad == nil {
			return fmt.Errorf("%w: ad is required", ErrInvalidRequest)
		}
		return s.LogAdClick(req.Ad.content(), req.options())
	},
	"segment-start": func(s *media.Session, req ActionRequest) error {
		if req.Segment == nil {
			return fmt.Errorf("%w: segment is required", ErrInvalidRequest)
		}
		return s.LogSegmentStart(req.Segment.segment(), req.options())
	},
	"segment-end":  func(s *media.Session, req ActionRequest) error { return s.LogSegmentEnd(req.options()) },
	"segment-skip": func(s *media.Session, req ActionRequest) error { return s.LogSegmentSkip(req.options()) },
}

// Actions returns the names of the supported actions, sorted.
func Actions() []string {
	names := lo.Keys(actions)
	sort.Strings(names)
	return names
}

// Service creates tracked sessions and dispatches playback actions to them.
// Every session shares one sink; per-session settings start from base.
type Service struct {
	repo Repository
	sink media.Sink
	base media.Config
}

// NewService returns a Service that stores sessions in repo and delivers
// their events to sink. base supplies the defaults for every new session;
// a nil Clock or IDs falls back to the system clock and UUIDs.
func NewService(repo Repository, sink media.Sink, base media.Config) *Service {
	if base.Clock == nil {
		base.Clock = media.SystemClock{}
	}
	if base.IDs == nil {
		base.IDs = media.UUIDGenerator{}
	}
	return &Service{repo: repo, sink: sink, base: base}
}

// Create starts tracking a new session for the requested content.
func (s *Service) Create(req CreateSessionRequest) (Key, error) {
	if !req.ContentType.Valid() {
		return "", fmt.Errorf("%w: content_type %q", ErrInvalidRequest, req.ContentType)
	}
	if !req.StreamType.Valid() {
		return "", fmt.Errorf("%w: stream_type %q", ErrInvalidRequest, req.StreamType)
	}

	cfg := s.base
	if req.LogPageEvent != nil {
		cfg.LogPageEvent = *req.LogPageEvent
	}
	if req.LogMediaEvent != nil {
		cfg.LogMediaEvent = *req.LogMediaEvent
	}
	if req.ExcludeAdBreaks != nil {
		cfg.ExcludeAdBreaksFromContentTime = *req.ExcludeAdBreaks
	}
	if req.CompleteLimit != nil {
		cfg.ContentCompleteLimit = *req.CompleteLimit
	}
	if req.SessionAttributes != nil {
		cfg.SessionAttributes = lo.Assign(s.base.SessionAttributes, req.SessionAttributes)
	}

	session, err := media.NewSession(s.sink, req.MediaContent, cfg)
	if err != nil {
		return "", err
	}

	t := &TrackedSession{
		Key:       Key(cfg.IDs.NewID()),
		CreatedAt: cfg.Clock.Now(),
		session:   session,
	}
	session.SetListener(t.observe)
	s.repo.Add(t)
	return t.Key, nil
}

// Do runs the named action on the session stored under key. A sink failure
// is returned wrapped in ErrDelivery.
func (s *Service) Do(key Key, action string, req ActionRequest) error {
	fn, ok := actions[action]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknownAction, action)
	}
	return s.repo.With(key, func(t *TrackedSession) error {
		err := fn(t.session, req)
		if err != nil && !errors.Is(err, ErrInvalidRequest) {
			return fmt.Errorf("%w: %w", ErrDelivery, err)
		}
		return err
	})
}

// PageEvent delivers a caller-defined page event carrying the session's
// current attributes.
func (s *Service) PageEvent(key Key, req PageEventRequest) error {
	if req.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidRequest)
	}
	return s.repo.With(key, func(t *TrackedSession) error {
		if err := s.sink.LogBaseEvent(t.session.CreatePageEvent(req.Name, req.Attributes)); err != nil {
			return fmt.Errorf("%w: %w", ErrDelivery, err)
		}
		return nil
	})
}

// Events returns the server-model rendition of every event the session has
// produced. Non-finite numbers are replaced by nil.
func (s *Service) Events(key Key) ([]media.EventAPIObject, error) {
	var out []media.EventAPIObject
	err := s.repo.With(key, func(t *TrackedSession) error {
		out = lo.Map(t.Events(), func(ev *media.Event, _ int) media.EventAPIObject {
			obj := ev.ToEventAPIObject()
			obj.EventAttributes = sink.Scrub(obj.EventAttributes)
			return obj
		})
		return nil
	})
	return out, err
}

// Attributes returns the session's current flattened attributes.
func (s *Service) Attributes(key Key) (AttributesResponse, error) {
	var out AttributesResponse
	err := s.repo.With(key, func(t *TrackedSession) error {
		out = AttributesResponse{
			Attributes: t.session.Attributes(),
			QoS:        t.session.QoSAttributes(),
		}
		return nil
	})
	return out, err
}

// Delete stops tracking the session stored under key.
func (s *Service) Delete(key Key) error {
	return s.repo.Remove(key)
}

// Count returns the number of tracked sessions.
func (s *Service) Count() int {
	return s.repo.Count()
}
