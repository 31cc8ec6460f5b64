package tracker

import (
	"sync"
	"time"

	"github.com/samber/mo"

	"media-tracker/internal/media"
)

// Key uniquely identifies a tracked session.
type Key string

// TrackedSession is one media.Session driven through the HTTP API together
// with the events its listener observed. All access goes through the
// Repository, which holds mu for the duration of each call.
type TrackedSession struct {
	Key       Key
	CreatedAt time.Time

	mu      sync.Mutex
	session *media.Session
	events  []*media.Event
}

// Events returns the events observed so far, oldest first. Call it only from
// inside Repository.With.
func (t *TrackedSession) Events() []*media.Event {
	return append([]*media.Event(nil), t.events...)
}

func (t *TrackedSession) observe(ev *media.Event) {
	t.events = append(t.events, ev)
}

// CreateSessionRequest is the input JSON payload for creating a session.
// Unset flags fall back to the service defaults.
type CreateSessionRequest struct {
	media.MediaContent

	LogPageEvent      *bool            `json:"log_page_event,omitempty"`
	LogMediaEvent     *bool            `json:"log_media_event,omitempty"`
	SessionAttributes media.Attributes `json:"session_attributes,omitempty"`
	ExcludeAdBreaks   *bool            `json:"exclude_ad_breaks,omitempty"`
	CompleteLimit     *float64         `json:"complete_limit,omitempty"`
}

// CreateSessionResponse is returned for a created session.
type CreateSessionResponse struct {
	Key Key `json:"key"`
}

// ActionRequest is the body of POST /sessions/{key}/actions/{action}. Which
// fields are read depends on the action.
type ActionRequest struct {
	Playhead   *float64         `json:"playhead,omitempty"`
	Attributes media.Attributes `json:"attributes,omitempty"`

	AdBreak *media.AdBreak  `json:"ad_break,omitempty"`
	Ad      *AdRequest      `json:"ad,omitempty"`
	Segment *SegmentRequest `json:"segment,omitempty"`
	QoS     *QoSRequest     `json:"qos,omitempty"`

	// Position is the seek or buffer position.
	Position float64 `json:"position"`
	Duration float64 `json:"duration"`
	Percent  float64 `json:"percent"`
}

func (r ActionRequest) options() media.Options {
	return media.Options{
		CurrentPlayheadPosition: option(r.Playhead),
		CustomAttributes:        r.Attributes,
	}
}

// AdRequest describes an ad. Placement and Position are optional and keep
// their presence through to the flattened attributes.
type AdRequest struct {
	ID         string  `json:"id"`
	Title      string  `json:"title"`
	Duration   float64 `json:"duration"`
	Advertiser string  `json:"advertiser,omitempty"`
	Campaign   string  `json:"campaign,omitempty"`
	Creative   string  `json:"creative,omitempty"`
	Placement  *string `json:"placement,omitempty"`
	Position   *int    `json:"position,omitempty"`
	SiteID     string  `json:"siteid,omitempty"`
}

func (a AdRequest) content() media.AdContent {
	return media.AdContent{
		ID:         a.ID,
		Title:      a.Title,
		Duration:   a.Duration,
		Advertiser: a.Advertiser,
		Campaign:   a.Campaign,
		Creative:   a.Creative,
		Placement:  option(a.Placement),
		Position:   option(a.Position),
		SiteID:     a.SiteID,
	}
}

// SegmentRequest describes a chapter or segment.
type SegmentRequest struct {
	Title    string  `json:"title"`
	Index    int     `json:"index"`
	Duration float64 `json:"duration"`
}

func (s SegmentRequest) segment() media.Segment {
	return media.Segment{Title: s.Title, Index: s.Index, Duration: s.Duration}
}

// QoSRequest is a quality-of-service sample; absent fields are left as they were.
type QoSRequest struct {
	StartupTime   *float64 `json:"startup_time,omitempty"`
	DroppedFrames *float64 `json:"dropped_frames,omitempty"`
	BitRate       *float64 `json:"bitrate,omitempty"`
	FPS           *float64 `json:"fps,omitempty"`
}

func (q QoSRequest) qos() media.QoS {
	return media.QoS{
		StartupTime:   option(q.StartupTime),
		DroppedFrames: option(q.DroppedFrames),
		BitRate:       option(q.BitRate),
		FPS:           option(q.FPS),
	}
}

// PageEventRequest is the body of POST /sessions/{key}/page-events.
type PageEventRequest struct {
	Name       string           `json:"name"`
	Attributes media.Attributes `json:"attributes,omitempty"`
}

// AttributesResponse is the current flattened state of a session.
type AttributesResponse struct {
	Attributes media.Attributes `json:"attributes"`
	QoS        media.Attributes `json:"qos"`
}

func option[T any](p *T) mo.Option[T] {
	if p == nil {
		return mo.None[T]()
	}
	return mo.Some(*p)
}
