package media

import (
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// ContentType distinguishes video from audio content.
type ContentType string

const (
	ContentVideo ContentType = "Video"
	ContentAudio ContentType = "Audio"
)

// Valid reports whether t is one of the known content types.
func (t ContentType) Valid() bool {
	return t == ContentVideo || t == ContentAudio
}

// StreamType describes how the content is delivered.
type StreamType string

const (
	StreamLive      StreamType = "LiveStream"
	StreamOnDemand  StreamType = "OnDemand"
	StreamLinear    StreamType = "Linear"
	StreamPodcast   StreamType = "Podcast"
	StreamAudiobook StreamType = "Audiobook"
)

// Valid reports whether t is one of the known stream types.
func (t StreamType) Valid() bool {
	return lo.Contains([]StreamType{StreamLive, StreamOnDemand, StreamLinear, StreamPodcast, StreamAudiobook}, t)
}

// MessageType is the message type code understood by the analytics collector.
type MessageType int

const (
	MessagePageEvent MessageType = 4
	MessageMedia     MessageType = 20
)

// EventCategoryMedia is the event-type code attached to page events.
const EventCategoryMedia = 9

// EventType identifies a playback action or a summary.
type EventType int

const (
	EventPlay                   EventType = 23
	EventPause                  EventType = 24
	EventContentEnd             EventType = 25
	EventSessionStart           EventType = 30
	EventSessionEnd             EventType = 31
	EventSeekStart              EventType = 32
	EventSeekEnd                EventType = 33
	EventBufferStart            EventType = 34
	EventBufferEnd              EventType = 35
	EventUpdatePlayheadPosition EventType = 36
	EventAdClick                EventType = 37
	EventAdBreakStart           EventType = 38
	EventAdBreakEnd             EventType = 39
	EventAdStart                EventType = 40
	EventAdEnd                  EventType = 41
	EventAdSkip                 EventType = 42
	EventSegmentStart           EventType = 43
	EventSegmentEnd             EventType = 44
	EventSegmentSkip            EventType = 45
	EventUpdateQoS              EventType = 46
	EventSessionSummary         EventType = 47
	EventSegmentSummary         EventType = 48
	EventAdSummary              EventType = 49
)

var eventNames = map[EventType]string{
	EventPlay:                   "Play",
	EventPause:                  "Pause",
	EventContentEnd:             "Media Content End",
	EventSessionStart:           "Media Session Start",
	EventSessionEnd:             "Media Session End",
	EventSeekStart:              "Seek Start",
	EventSeekEnd:                "Seek End",
	EventBufferStart:            "Buffer Start",
	EventBufferEnd:              "Buffer End",
	EventUpdatePlayheadPosition: "Update Playhead Position",
	EventAdClick:                "Ad Click",
	EventAdBreakStart:           "Ad Break Start",
	EventAdBreakEnd:             "Ad Break End",
	EventAdStart:                "Ad Start",
	EventAdEnd:                  "Ad End",
	EventAdSkip:                 "Ad Skip",
	EventSegmentStart:           "Segment Start",
	EventSegmentEnd:             "Segment End",
	EventSegmentSkip:            "Segment Skip",
	EventUpdateQoS:              "Update QoS",
	EventSessionSummary:         "Media Session Summary",
	EventSegmentSummary:         "Media Segment Summary",
	EventAdSummary:              "Media Ad Summary",
}

// String returns the display name used as the event name on the wire.
func (t EventType) String() string {
	if name, ok := eventNames[t]; ok {
		return name
	}
	return "Unknown"
}

// Attributes is a flat attribute map. Values are strings, numbers, bools or,
// for the session summary ad id list, a []string.
type Attributes map[string]any

// MediaContent identifies the content being watched. It is fixed for the
// lifetime of a Session.
type MediaContent struct {
	ContentID   string      `json:"content_id"`
	Title       string      `json:"title"`
	Duration    float64     `json:"duration"`
	ContentType ContentType `json:"content_type"`
	StreamType  StreamType  `json:"stream_type"`
}

// AdBreak is a group of ads, e.g. a pre-roll or mid-roll.
type AdBreak struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Duration float64 `json:"duration"`
}

// AdContent is a single ad. The timestamp and outcome fields are set by the
// Session, never by the caller.
type AdContent struct {
	ID         string            `json:"id"`
	Title      string            `json:"title"`
	Duration   float64           `json:"duration"`
	Advertiser string            `json:"advertiser,omitempty"`
	Campaign   string            `json:"campaign,omitempty"`
	Creative   string            `json:"creative,omitempty"`
	Placement  mo.Option[string] `json:"placement"`
	Position   mo.Option[int]    `json:"position"`
	SiteID     string            `json:"siteid,omitempty"`

	StartTimestamp mo.Option[int64] `json:"adStartTimestamp"`
	EndTimestamp   mo.Option[int64] `json:"adEndTimestamp"`
	Skipped        mo.Option[bool]  `json:"adSkipped"`
	Completed      mo.Option[bool]  `json:"adCompleted"`
}

// Segment is a chapter or segment of the content. Index starts at 0.
type Segment struct {
	Title    string  `json:"title"`
	Index    int     `json:"index"`
	Duration float64 `json:"duration"`

	StartTimestamp mo.Option[int64] `json:"segmentStartTimestamp"`
	EndTimestamp   mo.Option[int64] `json:"segmentEndTimestamp"`
	Skipped        mo.Option[bool]  `json:"segmentSkipped"`
	Completed      mo.Option[bool]  `json:"segmentCompleted"`
}

// QoS is a quality-of-service sample. Unset fields are left untouched when a
// sample is merged into the session's current QoS.
type QoS struct {
	StartupTime   mo.Option[float64] `json:"startupTime"`
	DroppedFrames mo.Option[float64] `json:"droppedFrames"`
	BitRate       mo.Option[float64] `json:"bitRate"`
	FPS           mo.Option[float64] `json:"fps"`
}

// merge returns q with every field present in other copied over it.
func (q QoS) merge(other QoS) QoS {
	if other.StartupTime.IsPresent() {
		q.StartupTime = other.StartupTime
	}
	if other.DroppedFrames.IsPresent() {
		q.DroppedFrames = other.DroppedFrames
	}
	if other.BitRate.IsPresent() {
		q.BitRate = other.BitRate
	}
	if other.FPS.IsPresent() {
		q.FPS = other.FPS
	}
	return q
}

// Options carries the optional per-call parameters of every action method.
type Options struct {
	CurrentPlayheadPosition mo.Option[float64]
	CustomAttributes        Attributes
}

// At returns Options that report the given playhead position.
func At(position float64) Options {
	return Options{CurrentPlayheadPosition: mo.Some(position)}
}

// WithAttributes returns Options carrying the given custom attributes.
func WithAttributes(attrs Attributes) Options {
	return Options{CustomAttributes: attrs}
}

// collapseOptions folds a variadic option list into one. Later playhead
// positions win and custom attributes are layered in order.
func collapseOptions(opts []Options) Options {
	var out Options
	for _, o := range opts {
		if o.CurrentPlayheadPosition.IsPresent() {
			out.CurrentPlayheadPosition = o.CurrentPlayheadPosition
		}
		if o.CustomAttributes != nil {
			out.CustomAttributes = lo.Assign(out.CustomAttributes, o.CustomAttributes)
		}
	}
	return out
}

// PlaybackState records why content time is or is not accruing.
type PlaybackState int

const (
	PlaybackIdle PlaybackState = iota
	PlaybackPlaying
	PlaybackPausedByUser
	PlaybackPausedByAdBreak
)

// String returns a human-readable label for the playback state.
func (s PlaybackState) String() string {
	switch s {
	case PlaybackPlaying:
		return "playing"
	case PlaybackPausedByUser:
		return "pausedByUser"
	case PlaybackPausedByAdBreak:
		return "pausedByAdBreak"
	default:
		return "idle"
	}
}
