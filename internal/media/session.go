package media

import (
	"errors"

	"github.com/samber/lo"
	"github.com/samber/mo"
)

// DefaultContentCompleteLimit is the completion threshold, in percent of the
// content duration, at which playhead-based auto-completion is disabled.
const DefaultContentCompleteLimit = 100

// ErrNilSink is returned by NewSession when no sink is supplied.
var ErrNilSink = errors.New("media: nil sink")

// Config holds the construction-time settings of a Session.
type Config struct {
	// LogPageEvent additionally delivers every event (except playhead
	// updates) in PageEvent form.
	LogPageEvent bool
	// LogMediaEvent delivers every event in server-model form.
	LogMediaEvent bool
	// SessionAttributes are merged under the custom attributes of every event.
	SessionAttributes Attributes
	// ExcludeAdBreaksFromContentTime stops content time from accruing while
	// an ad break is open.
	ExcludeAdBreaksFromContentTime bool
	// ContentCompleteLimit is the playhead percentage that marks the content
	// complete. Values <= 0 are treated as DefaultContentCompleteLimit.
	ContentCompleteLimit float64
	// ResetOnSessionStart clears accumulated totals and the summary latch
	// every time LogMediaSessionStart runs.
	ResetOnSessionStart bool

	Clock Clock
	IDs   IDGenerator
}

// DefaultConfig returns the default settings: media events on, page events
// off, no ad-break exclusion, a 100% completion limit, real clock and UUIDs.
func DefaultConfig() Config {
	return Config{
		LogMediaEvent:        true,
		ContentCompleteLimit: DefaultContentCompleteLimit,
		Clock:                SystemClock{},
		IDs:                  UUIDGenerator{},
	}
}

// Session models one piece of content being watched. It turns playback
// actions into events, keeps the session totals and emits the session,
// segment and ad summaries.
//
// A Session is not safe for concurrent use; callers driving it from several
// goroutines must serialize access.
type Session struct {
	sink     Sink
	content  MediaContent
	cfg      Config
	clock    Clock
	ids      IDGenerator
	listener func(*Event)

	sessionID        string
	playhead         mo.Option[float64]
	qos              QoS
	customAttributes Attributes
	adBreak          *AdBreak
	adContent        *AdContent
	segment          *Segment

	completeLimit      float64
	contentComplete    bool
	segmentTotal       int
	adTotal            int
	adIDs              []string
	totalAdTimeSpent   int64
	storedPlaybackTime int64
	summarySent        bool

	startTimestamp int64
	endTimestamp   mo.Option[int64]
	playbackStart  mo.Option[int64]
	state          PlaybackState
}

// NewSession returns a Session for content that delivers events to sink.
// No event is emitted.
func NewSession(sink Sink, content MediaContent, cfg Config) (*Session, error) {
	if sink == nil {
		return nil, ErrNilSink
	}
	if cfg.Clock == nil {
		cfg.Clock = SystemClock{}
	}
	if cfg.IDs == nil {
		cfg.IDs = UUIDGenerator{}
	}
	s := &Session{
		sink:          sink,
		content:       content,
		cfg:           cfg,
		clock:         cfg.Clock,
		ids:           cfg.IDs,
		listener:      func(*Event) {},
		qos:           zeroQoS(),
		completeLimit: completeLimit(cfg.ContentCompleteLimit),
	}
	s.startTimestamp = s.now()
	return s, nil
}

// SetListener registers fn to observe every event, synchronously and
// regardless of the delivery flags. A nil fn removes the listener.
func (s *Session) SetListener(fn func(*Event)) {
	if fn == nil {
		fn = func(*Event) {}
	}
	s.listener = fn
}

// SetContentCompleteLimit changes the completion threshold in percent.
// Values <= 0 restore DefaultContentCompleteLimit.
func (s *Session) SetContentCompleteLimit(pct float64) {
	s.completeLimit = completeLimit(pct)
}

// ContentCompleteLimit returns the completion threshold in percent.
func (s *Session) ContentCompleteLimit() float64 { return s.completeLimit }

// Content returns the identity of the content being watched.
func (s *Session) Content() MediaContent { return s.content }

// SessionID returns the current session id; empty until the first
// LogMediaSessionStart.
func (s *Session) SessionID() string { return s.sessionID }

// PlayheadPosition returns the last known play position.
func (s *Session) PlayheadPosition() mo.Option[float64] { return s.playhead }

// PlaybackState returns why content time is or is not accruing.
func (s *Session) PlaybackState() PlaybackState { return s.state }

// AdBreak returns the open ad break, if any.
func (s *Session) AdBreak() (AdBreak, bool) {
	if s.adBreak == nil {
		return AdBreak{}, false
	}
	return *s.adBreak, true
}

// AdContent returns the current ad, if any.
func (s *Session) AdContent() (AdContent, bool) {
	if s.adContent == nil {
		return AdContent{}, false
	}
	return *s.adContent, true
}

// Segment returns the open segment, if any.
func (s *Session) Segment() (Segment, bool) {
	if s.segment == nil {
		return Segment{}, false
	}
	return *s.segment, true
}

// ContentComplete reports whether the content has been marked complete.
func (s *Session) ContentComplete() bool { return s.contentComplete }

// SegmentTotal returns the number of segments started.
func (s *Session) SegmentTotal() int { return s.segmentTotal }

// AdTotal returns the number of ads started.
func (s *Session) AdTotal() int { return s.adTotal }

// AdIDs returns the ids of the started ads, in start order.
func (s *Session) AdIDs() []string { return append([]string(nil), s.adIDs...) }

// TotalAdTimeSpent returns the accumulated ad exposure in milliseconds.
func (s *Session) TotalAdTimeSpent() int64 { return s.totalAdTimeSpent }

// TimeSpent returns the milliseconds between session start and the most
// recent activity, or now when there has been none.
func (s *Session) TimeSpent() int64 {
	return s.endTimestamp.OrElse(s.now()) - s.startTimestamp
}

// ContentTimeSpent returns the milliseconds of content playback, including
// the currently open playback interval.
func (s *Session) ContentTimeSpent() int64 {
	if start, ok := s.playbackStart.Get(); ok {
		return s.storedPlaybackTime + (s.now() - start)
	}
	return s.storedPlaybackTime
}

// AdTimeSpentRate returns ad time as a percentage of content time. It is
// NaN or +Inf when no content time has accrued.
func (s *Session) AdTimeSpentRate() float64 {
	return float64(s.totalAdTimeSpent) / float64(s.ContentTimeSpent()) * 100
}

// Attributes returns the content identity of the session as a flat map.
func (s *Session) Attributes() Attributes {
	attrs := Attributes{
		KeyContentTitle:   s.content.Title,
		KeyDuration:       s.content.Duration,
		KeyContentID:      s.content.ContentID,
		KeyContentType:    string(s.content.ContentType),
		KeyStreamType:     string(s.content.StreamType),
		KeyMediaSessionID: s.sessionID,
	}
	putNonZero(attrs, KeyPlayheadPosition, s.playhead.OrEmpty())
	return attrs
}

// QoSAttributes returns the non-zero fields of the current QoS sample.
func (s *Session) QoSAttributes() Attributes {
	attrs := Attributes{}
	putNonZero(attrs, KeyQoSBitrate, s.qos.BitRate.OrEmpty())
	putNonZero(attrs, KeyQoSStartupTime, s.qos.StartupTime.OrEmpty())
	putNonZero(attrs, KeyQoSFPS, s.qos.FPS.OrEmpty())
	putNonZero(attrs, KeyQoSDroppedFrames, s.qos.DroppedFrames.OrEmpty())
	return attrs
}

// CreatePageEvent builds a custom page event outside the fixed action
// vocabulary. attrs win over the session and QoS attributes. The event is
// returned, not delivered.
func (s *Session) CreatePageEvent(name string, attrs Attributes) PageEvent {
	return PageEvent{
		Name:        name,
		EventType:   EventCategoryMedia,
		MessageType: MessagePageEvent,
		Data:        lo.Assign(s.Attributes(), s.QoSAttributes(), attrs),
	}
}

// LogMediaSessionStart begins a logical session with a fresh session id.
func (s *Session) LogMediaSessionStart(opts ...Options) error {
	s.sessionID = s.ids.NewID()
	s.startTimestamp = s.now()
	if s.cfg.ResetOnSessionStart {
		s.resetTotals()
	}
	return s.emit(EventSessionStart, opts, noPayload{})
}

// LogMediaSessionEnd closes the session and emits the session summary the
// first time it is called.
func (s *Session) LogMediaSessionEnd(opts ...Options) error {
	if err := s.emit(EventSessionEnd, opts, noPayload{}); err != nil {
		return err
	}
	return s.logSessionSummary()
}

// LogMediaContentEnd marks the content complete and stops content time.
func (s *Session) LogMediaContentEnd(opts ...Options) error {
	s.contentComplete = true
	s.closePlaybackInterval()
	s.state = PlaybackIdle
	return s.emit(EventContentEnd, opts, noPayload{})
}

// LogAdBreakStart opens an ad break.
func (s *Session) LogAdBreakStart(adBreak AdBreak, opts ...Options) error {
	s.adBreak = &adBreak
	if s.cfg.ExcludeAdBreaksFromContentTime && s.state == PlaybackPlaying {
		s.closePlaybackInterval()
		s.state = PlaybackPausedByAdBreak
	}
	return s.emit(EventAdBreakStart, opts, adBreakPayload{s.adBreak})
}

// LogAdBreakEnd closes the open ad break.
func (s *Session) LogAdBreakEnd(opts ...Options) error {
	if s.cfg.ExcludeAdBreaksFromContentTime && s.state == PlaybackPausedByAdBreak {
		s.playbackStart = mo.Some(s.now())
		s.state = PlaybackPlaying
	}
	if err := s.emit(EventAdBreakEnd, opts, adBreakPayload{s.adBreak}); err != nil {
		return err
	}
	s.adBreak = nil
	return nil
}

// LogAdStart starts playback of an ad.
func (s *Session) LogAdStart(ad AdContent, opts ...Options) error {
	s.adTotal++
	s.adIDs = append(s.adIDs, ad.ID)
	ad.StartTimestamp = mo.Some(s.now())
	s.adContent = &ad
	return s.emit(EventAdStart, opts, adPayload{s.adContent})
}

// LogAdEnd records that the current ad played to completion.
func (s *Session) LogAdEnd(opts ...Options) error {
	return s.closeAd(EventAdEnd, false, opts)
}

// LogAdSkip records that the current ad was skipped.
func (s *Session) LogAdSkip(opts ...Options) error {
	return s.closeAd(EventAdSkip, true, opts)
}

// LogAdClick records a click on ad, which becomes the current ad.
func (s *Session) LogAdClick(ad AdContent, opts ...Options) error {
	s.adContent = &ad
	return s.emit(EventAdClick, opts, adPayload{s.adContent})
}

// LogBufferStart records the start of buffering.
func (s *Session) LogBufferStart(duration, percent, position float64, opts ...Options) error {
	return s.emit(EventBufferStart, opts, bufferPayload{duration, percent, position})
}

// LogBufferEnd records the end of buffering.
func (s *Session) LogBufferEnd(duration, percent, position float64, opts ...Options) error {
	return s.emit(EventBufferEnd, opts, bufferPayload{duration, percent, position})
}

// LogPlay starts or resumes content playback.
func (s *Session) LogPlay(opts ...Options) error {
	if s.playbackStart.IsAbsent() {
		s.playbackStart = mo.Some(s.now())
	}
	if err := s.emit(EventPlay, opts, noPayload{}); err != nil {
		return err
	}
	s.state = PlaybackPlaying
	return nil
}

// LogPause pauses content playback.
func (s *Session) LogPause(opts ...Options) error {
	s.closePlaybackInterval()
	if err := s.emit(EventPause, opts, noPayload{}); err != nil {
		return err
	}
	s.state = PlaybackPausedByUser
	return nil
}

// LogSegmentStart opens a segment.
func (s *Session) LogSegmentStart(segment Segment, opts ...Options) error {
	s.segmentTotal++
	segment.StartTimestamp = mo.Some(s.now())
	s.segment = &segment
	return s.emit(EventSegmentStart, opts, segmentPayload{s.segment})
}

// LogSegmentEnd records that the open segment played to completion.
func (s *Session) LogSegmentEnd(opts ...Options) error {
	return s.closeSegment(EventSegmentEnd, false, opts)
}

// LogSegmentSkip records that the open segment was skipped.
func (s *Session) LogSegmentSkip(opts ...Options) error {
	return s.closeSegment(EventSegmentSkip, true, opts)
}

// LogSeekStart records the start of a seek.
func (s *Session) LogSeekStart(position float64, opts ...Options) error {
	return s.emit(EventSeekStart, opts, seekPayload{position})
}

// LogSeekEnd records the end of a seek.
func (s *Session) LogSeekEnd(position float64, opts ...Options) error {
	return s.emit(EventSeekEnd, opts, seekPayload{position})
}

// LogPlayheadPosition updates the current play position.
func (s *Session) LogPlayheadPosition(position float64) error {
	s.playhead = mo.Some(position)
	return s.emit(EventUpdatePlayheadPosition, nil, playheadPayload{position})
}

// LogQoS merges qos into the current sample and reports the result.
func (s *Session) LogQoS(qos QoS, opts ...Options) error {
	s.qos = s.qos.merge(qos)
	return s.emit(EventUpdateQoS, opts, qosPayload{s.qos})
}

func (s *Session) closeAd(typ EventType, skipped bool, opts []Options) error {
	if ad := s.adContent; ad != nil {
		if start, ok := ad.StartTimestamp.Get(); ok {
			end := s.now()
			ad.EndTimestamp = mo.Some(end)
			ad.Skipped = mo.Some(skipped)
			ad.Completed = mo.Some(!skipped)
			s.totalAdTimeSpent += end - start
		}
	}
	if err := s.emit(typ, opts, adPayload{s.adContent}); err != nil {
		return err
	}
	return s.logAdSummary()
}

func (s *Session) closeSegment(typ EventType, skipped bool, opts []Options) error {
	if seg := s.segment; seg != nil && seg.StartTimestamp.IsPresent() {
		seg.EndTimestamp = mo.Some(s.now())
		seg.Skipped = mo.Some(skipped)
		seg.Completed = mo.Some(!skipped)
	}
	if err := s.emit(typ, opts, segmentPayload{s.segment}); err != nil {
		return err
	}
	return s.logSegmentSummary()
}

func (s *Session) closePlaybackInterval() {
	if start, ok := s.playbackStart.Get(); ok {
		s.storedPlaybackTime += s.now() - start
		s.playbackStart = mo.None[int64]()
	}
}

func (s *Session) resetTotals() {
	s.summarySent = false
	s.contentComplete = false
	s.segmentTotal = 0
	s.adTotal = 0
	s.adIDs = nil
	s.totalAdTimeSpent = 0
	s.storedPlaybackTime = 0
	if s.playbackStart.IsPresent() {
		s.playbackStart = mo.Some(s.startTimestamp)
	}
	s.endTimestamp = mo.None[int64]()
}

func (s *Session) emit(typ EventType, opts []Options, p payload) error {
	return s.logEvent(s.createMediaEvent(typ, collapseOptions(opts), p))
}

// createMediaEvent builds an event from the live session state. A playhead
// position in opts replaces the stored one; without one the stored value is
// kept. Event-level custom attributes override session-level ones.
func (s *Session) createMediaEvent(typ EventType, opts Options, p payload) *Event {
	if opts.CurrentPlayheadPosition.IsPresent() {
		s.playhead = opts.CurrentPlayheadPosition
	}
	s.customAttributes = lo.Assign(s.cfg.SessionAttributes, opts.CustomAttributes)

	ev := NewEvent(s.ids, typ, s.content, s.sessionID, Options{
		CurrentPlayheadPosition: s.playhead,
		CustomAttributes:        s.customAttributes,
	})
	p.apply(ev)
	return ev
}

// logEvent stamps the activity time, checks the completion threshold,
// notifies the listener and delivers ev to the sink.
func (s *Session) logEvent(ev *Event) error {
	s.endTimestamp = mo.Some(s.now())

	// Playhead-based completion only runs for a non-default limit.
	if s.completeLimit != DefaultContentCompleteLimit {
		pos := s.playhead.OrEmpty()
		if s.content.Duration != 0 && pos != 0 && pos/s.content.Duration >= s.completeLimit/100 {
			s.contentComplete = true
		}
	}

	s.listener(ev)

	if s.cfg.LogMediaEvent {
		if err := s.sink.LogBaseEvent(ev); err != nil {
			return err
		}
	}
	if s.cfg.LogPageEvent && ev.Type != EventUpdatePlayheadPosition {
		if err := s.sink.LogBaseEvent(ev.ToPageEvent()); err != nil {
			return err
		}
	}
	return nil
}

func completeLimit(pct float64) float64 {
	if pct <= 0 {
		return DefaultContentCompleteLimit
	}
	return pct
}

// zeroQoS is the sample a session starts from: every field reported as 0, so
// the first QoS update carries all four fields.
func zeroQoS() QoS {
	return QoS{
		StartupTime:   mo.Some(0.0),
		DroppedFrames: mo.Some(0.0),
		BitRate:       mo.Some(0.0),
		FPS:           mo.Some(0.0),
	}
}

func (s *Session) now() int64 {
	return millis(s.clock)
}
