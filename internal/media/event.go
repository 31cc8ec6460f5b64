package media

import (
	"github.com/samber/lo"
	"github.com/samber/mo"
)

// BaseEvent is anything a Sink can be handed: a media Event in server-model
// form or its PageEvent rendition.
type BaseEvent interface {
	EventName() string
	Kind() MessageType
}

// Sink is the analytics collector the Session hands finished events to.
// A returned error aborts the remaining side effects of the action method
// that triggered the delivery and is returned to its caller.
type Sink interface {
	LogBaseEvent(event BaseEvent) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(event BaseEvent) error

// LogBaseEvent implements Sink.
func (f SinkFunc) LogBaseEvent(event BaseEvent) error { return f(event) }

// Event is one playback action or summary. It is not modified after
// construction; only the payload fields relevant to its Type are set.
type Event struct {
	ID   string
	Name string
	Type EventType

	ContentTitle string
	ContentID    string
	Duration     float64
	ContentType  ContentType
	StreamType   StreamType
	SessionID    string

	PlayheadPosition mo.Option[float64]
	CustomAttributes Attributes

	AdContent      *AdContent
	AdBreak        *AdBreak
	Segment        *Segment
	SeekPosition   mo.Option[float64]
	BufferDuration mo.Option[float64]
	BufferPercent  mo.Option[float64]
	BufferPosition mo.Option[float64]
	QoS            *QoS
}

// NewEvent builds an Event of the given type for content, stamped with a
// fresh id from ids. The playhead position and custom attributes are taken
// from opts as-is.
func NewEvent(ids IDGenerator, typ EventType, content MediaContent, sessionID string, opts Options) *Event {
	return &Event{
		ID:               ids.NewID(),
		Name:             typ.String(),
		Type:             typ,
		ContentTitle:     content.Title,
		ContentID:        content.ContentID,
		Duration:         content.Duration,
		ContentType:      content.ContentType,
		StreamType:       content.StreamType,
		SessionID:        sessionID,
		PlayheadPosition: opts.CurrentPlayheadPosition,
		CustomAttributes: opts.CustomAttributes,
	}
}

// EventName implements BaseEvent.
func (e *Event) EventName() string { return e.Name }

// Kind implements BaseEvent. Media events always travel as MessageMedia.
func (e *Event) Kind() MessageType { return MessageMedia }

// SessionAttributes returns the content identity attributes of the event.
func (e *Event) SessionAttributes() Attributes {
	attrs := Attributes{
		KeyContentTitle:   e.ContentTitle,
		KeyDuration:       e.Duration,
		KeyContentID:      e.ContentID,
		KeyContentType:    string(e.ContentType),
		KeyStreamType:     string(e.StreamType),
		KeyMediaSessionID: e.SessionID,
	}
	if pos, ok := e.PlayheadPosition.Get(); ok {
		attrs[KeyPlayheadPosition] = pos
	}
	return attrs
}

// EventAttributes returns the action-specific attributes of the event.
//
// Most fields are emitted only when they hold a non-zero value, matching the
// historical wire format. A zero seek position, a zero buffer value and
// segment index 0 (the first chapter) therefore never appear in the map.
// QoS fields, ad placement and ad position are presence-based instead, so a
// reported 0 survives.
func (e *Event) EventAttributes() Attributes {
	attrs := Attributes{}
	putNonZero(attrs, KeySeekPosition, e.SeekPosition.OrEmpty())
	putNonZero(attrs, KeyBufferDuration, e.BufferDuration.OrEmpty())
	putNonZero(attrs, KeyBufferPercent, e.BufferPercent.OrEmpty())
	putNonZero(attrs, KeyBufferPosition, e.BufferPosition.OrEmpty())

	if e.QoS != nil {
		putPresent(attrs, KeyQoSBitrate, e.QoS.BitRate)
		putPresent(attrs, KeyQoSFPS, e.QoS.FPS)
		putPresent(attrs, KeyQoSStartupTime, e.QoS.StartupTime)
		putPresent(attrs, KeyQoSDroppedFrames, e.QoS.DroppedFrames)
	}

	if ad := e.AdContent; ad != nil {
		putNonZero(attrs, KeyAdTitle, ad.Title)
		putNonZero(attrs, KeyAdID, ad.ID)
		putNonZero(attrs, KeyAdAdvertiser, ad.Advertiser)
		putNonZero(attrs, KeyAdSiteID, ad.SiteID)
		putPresent(attrs, KeyAdPlacement, ad.Placement)
		putPresent(attrs, KeyAdPosition, ad.Position)
		putNonZero(attrs, KeyAdDuration, ad.Duration)
		putNonZero(attrs, KeyAdCreative, ad.Creative)
		putNonZero(attrs, KeyAdCampaign, ad.Campaign)
	}

	if br := e.AdBreak; br != nil {
		putNonZero(attrs, KeyAdBreakID, br.ID)
		putNonZero(attrs, KeyAdBreakTitle, br.Title)
		putNonZero(attrs, KeyAdBreakDuration, br.Duration)
	}

	if seg := e.Segment; seg != nil {
		putNonZero(attrs, KeySegmentTitle, seg.Title)
		// Index 0 is dropped here. Summaries report the index unconditionally.
		putNonZero(attrs, KeySegmentIndex, seg.Index)
		putNonZero(attrs, KeySegmentDuration, seg.Duration)
	}

	return attrs
}

// Attributes flattens the event into one map: session identity, then event
// attributes, then custom attributes, later layers winning on collision.
func (e *Event) Attributes() Attributes {
	return lo.Assign(e.SessionAttributes(), e.EventAttributes(), e.CustomAttributes)
}

// PageEvent is the generic page-event rendition of an Event.
type PageEvent struct {
	Name        string      `json:"name"`
	EventType   int         `json:"eventType"`
	MessageType MessageType `json:"messageType"`
	Data        Attributes  `json:"data"`
}

// EventName implements BaseEvent.
func (p PageEvent) EventName() string { return p.Name }

// Kind implements BaseEvent.
func (p PageEvent) Kind() MessageType { return p.MessageType }

// ToPageEvent wraps the flattened attributes for delivery as a page event.
func (e *Event) ToPageEvent() PageEvent {
	return PageEvent{
		Name:        e.Name,
		EventType:   EventCategoryMedia,
		MessageType: MessagePageEvent,
		Data:        e.Attributes(),
	}
}

// EventAPIObject is the verbose server-model rendition of an Event. Unset
// fields are kept and encode as null.
type EventAPIObject struct {
	EventName     string      `json:"EventName"`
	EventCategory EventType   `json:"EventCategory"`
	EventDataType MessageType `json:"EventDataType"`

	AdContent        *AdContent         `json:"AdContent"`
	AdBreak          *AdBreak           `json:"AdBreak"`
	Segment          *Segment           `json:"Segment"`
	SeekPosition     mo.Option[float64] `json:"SeekPosition"`
	BufferDuration   mo.Option[float64] `json:"BufferDuration"`
	BufferPercent    mo.Option[float64] `json:"BufferPercent"`
	BufferPosition   mo.Option[float64] `json:"BufferPosition"`
	PlayheadPosition mo.Option[float64] `json:"PlayheadPosition"`
	QoS              *QoS               `json:"QoS"`
	ContentTitle     string             `json:"ContentTitle"`
	ContentID        string             `json:"ContentId"`
	Duration         float64            `json:"Duration"`
	ContentType      string             `json:"ContentType"`
	StreamType       string             `json:"StreamType"`

	EventAttributes Attributes `json:"EventAttributes"`
}

// ToEventAPIObject returns the server-model rendition of the event.
func (e *Event) ToEventAPIObject() EventAPIObject {
	return EventAPIObject{
		EventName:        e.Name,
		EventCategory:    e.Type,
		EventDataType:    MessageMedia,
		AdContent:        e.AdContent,
		AdBreak:          e.AdBreak,
		Segment:          e.Segment,
		SeekPosition:     e.SeekPosition,
		BufferDuration:   e.BufferDuration,
		BufferPercent:    e.BufferPercent,
		BufferPosition:   e.BufferPosition,
		PlayheadPosition: e.PlayheadPosition,
		QoS:              e.QoS,
		ContentTitle:     e.ContentTitle,
		ContentID:        e.ContentID,
		Duration:         e.Duration,
		ContentType:      string(e.ContentType),
		StreamType:       string(e.StreamType),
		EventAttributes:  e.CustomAttributes,
	}
}

func putNonZero[T comparable](attrs Attributes, key string, v T) {
	var zero T
	if v != zero {
		attrs[key] = v
	}
}

func putPresent[T any](attrs Attributes, key string, v mo.Option[T]) {
	if val, ok := v.Get(); ok {
		attrs[key] = val
	}
}
