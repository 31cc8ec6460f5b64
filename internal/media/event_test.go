package media

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/samber/mo"
)

func newTestEvent(typ EventType, opts Options, p payload) *Event {
	ev := NewEvent(&seqIDs{prefix: "ev"}, typ, immigrantSong(), "sess-1", opts)
	p.apply(ev)
	return ev
}

func TestNewEvent_name_and_identity(t *testing.T) {
	ev := newTestEvent(EventSegmentSummary, Options{}, noPayload{})
	if ev.Name != "Media Segment Summary" {
		t.Errorf("Name = %q", ev.Name)
	}
	if ev.ID != "ev-1" {
		t.Errorf("ID = %q", ev.ID)
	}
	if ev.Kind() != MessageMedia {
		t.Errorf("Kind = %d, want %d", ev.Kind(), MessageMedia)
	}
}

func TestEventType_String_unknown(t *testing.T) {
	if got := EventType(7).String(); got != "Unknown" {
		t.Errorf("String() = %q", got)
	}
}

func TestEvent_Attributes_idempotent(t *testing.T) {
	ev := newTestEvent(EventAdStart, At(32), adPayload{&AdContent{ID: "a1", Title: "Ad", Duration: 15000}})
	first := ev.Attributes()
	second := ev.Attributes()
	if !reflect.DeepEqual(first, second) {
		t.Errorf("Attributes not idempotent:\n%v\n%v", first, second)
	}
}

func TestEvent_Attributes_layering(t *testing.T) {
	opts := Options{
		CurrentPlayheadPosition: mo.Some(32.0),
		CustomAttributes:        Attributes{"content_title": "Overridden", "content_rating": "epic"},
	}
	ev := newTestEvent(EventSeekStart, opts, seekPayload{position: 4500})
	attrs := ev.Attributes()

	if attrs[KeyContentTitle] != "Overridden" {
		t.Errorf("custom attribute should win, got %v", attrs[KeyContentTitle])
	}
	if attrs["content_rating"] != "epic" {
		t.Errorf("custom attribute missing: %v", attrs)
	}
	if attrs[KeyPlayheadPosition] != 32.0 {
		t.Errorf("playhead_position = %v", attrs[KeyPlayheadPosition])
	}
	if attrs[KeySeekPosition] != 4500.0 {
		t.Errorf("seek_position = %v", attrs[KeySeekPosition])
	}
	if attrs[KeyMediaSessionID] != "sess-1" {
		t.Errorf("media_session_id = %v", attrs[KeyMediaSessionID])
	}
}

func TestEvent_Attributes_zero_playhead_is_kept(t *testing.T) {
	ev := newTestEvent(EventPlay, At(0), noPayload{})
	if v, ok := ev.Attributes()[KeyPlayheadPosition]; !ok || v != 0.0 {
		t.Errorf("numeric playhead 0 should be present, got %v ok=%v", v, ok)
	}
}

func TestEvent_EventAttributes_drops_zero_values(t *testing.T) {
	ev := newTestEvent(EventBufferStart, Options{}, bufferPayload{duration: 0, percent: 25, position: 0})
	attrs := ev.EventAttributes()
	if _, ok := attrs[KeyBufferDuration]; ok {
		t.Error("zero buffer duration should be omitted")
	}
	if _, ok := attrs[KeyBufferPosition]; ok {
		t.Error("zero buffer position should be omitted")
	}
	if attrs[KeyBufferPercent] != 25.0 {
		t.Errorf("buffer_percent = %v", attrs[KeyBufferPercent])
	}
}

func TestEvent_EventAttributes_segment_index_zero_dropped(t *testing.T) {
	first := newTestEvent(EventSegmentStart, Options{}, segmentPayload{&Segment{Title: "Ch1", Index: 0, Duration: 36000}})
	if _, ok := first.EventAttributes()[KeySegmentIndex]; ok {
		t.Error("segment index 0 should not be flattened")
	}

	second := newTestEvent(EventSegmentStart, Options{}, segmentPayload{&Segment{Title: "Ch2", Index: 1, Duration: 36000}})
	attrs := second.EventAttributes()
	if attrs[KeySegmentIndex] != 1 || attrs[KeySegmentTitle] != "Ch2" || attrs[KeySegmentDuration] != 36000.0 {
		t.Errorf("segment attributes = %v", attrs)
	}
}

func TestEvent_EventAttributes_ad_presence_fields(t *testing.T) {
	ad := &AdContent{
		ID:         "4423210",
		Title:      "Dancing Link",
		Duration:   10000,
		Advertiser: "Fancy Pants",
		Campaign:   "Big Savings",
		Creative:   "Link Dance",
		Placement:  mo.Some(""),
		Position:   mo.Some(0),
		SiteID:     "moms",
	}
	attrs := newTestEvent(EventAdStart, Options{}, adPayload{ad}).EventAttributes()

	want := Attributes{
		KeyAdID:         "4423210",
		KeyAdTitle:      "Dancing Link",
		KeyAdDuration:   10000.0,
		KeyAdAdvertiser: "Fancy Pants",
		KeyAdCampaign:   "Big Savings",
		KeyAdCreative:   "Link Dance",
		KeyAdPlacement:  "",
		KeyAdPosition:   0,
		KeyAdSiteID:     "moms",
	}
	if !reflect.DeepEqual(attrs, want) {
		t.Errorf("ad attributes:\n got %v\nwant %v", attrs, want)
	}
}

func TestEvent_EventAttributes_qos_zero_is_kept(t *testing.T) {
	q := QoS{DroppedFrames: mo.Some(0.0), FPS: mo.Some(30.0)}
	attrs := newTestEvent(EventUpdateQoS, Options{}, qosPayload{q}).EventAttributes()
	if v, ok := attrs[KeyQoSDroppedFrames]; !ok || v != 0.0 {
		t.Errorf("qos_dropped_frames = %v ok=%v", v, ok)
	}
	if attrs[KeyQoSFPS] != 30.0 {
		t.Errorf("qos_fps = %v", attrs[KeyQoSFPS])
	}
	if _, ok := attrs[KeyQoSBitrate]; ok {
		t.Error("unset bitrate should be omitted")
	}
}

func TestEvent_EventAttributes_ad_break(t *testing.T) {
	attrs := newTestEvent(EventAdBreakStart, Options{}, adBreakPayload{&AdBreak{ID: "08123410", Title: "mid-roll", Duration: 10000}}).EventAttributes()
	want := Attributes{KeyAdBreakID: "08123410", KeyAdBreakTitle: "mid-roll", KeyAdBreakDuration: 10000.0}
	if !reflect.DeepEqual(attrs, want) {
		t.Errorf("ad break attributes = %v", attrs)
	}
}

func TestEvent_ToPageEvent(t *testing.T) {
	ev := newTestEvent(EventPause, Options{}, noPayload{})
	pe := ev.ToPageEvent()
	if pe.Name != "Pause" || pe.EventType != EventCategoryMedia || pe.MessageType != MessagePageEvent {
		t.Errorf("page event header = %+v", pe)
	}
	if pe.Kind() != MessagePageEvent || pe.EventName() != "Pause" {
		t.Errorf("BaseEvent methods: %q %d", pe.EventName(), pe.Kind())
	}
	if !reflect.DeepEqual(pe.Data, ev.Attributes()) {
		t.Errorf("page event data should be the flattened attributes")
	}
}

func TestEvent_ToEventAPIObject_keeps_unset_fields(t *testing.T) {
	ev := newTestEvent(EventSeekEnd, Options{}, seekPayload{position: 120})
	b, err := json.Marshal(ev.ToEventAPIObject())
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}

	for _, key := range []string{"AdContent", "AdBreak", "Segment", "BufferDuration", "PlayheadPosition", "QoS", "EventAttributes"} {
		v, ok := m[key]
		if !ok {
			t.Errorf("%s should be present", key)
			continue
		}
		if v != nil {
			t.Errorf("%s = %v, want null", key, v)
		}
	}
	if m["EventName"] != "Seek End" || m["EventCategory"] != float64(EventSeekEnd) || m["EventDataType"] != float64(MessageMedia) {
		t.Errorf("header = %v %v %v", m["EventName"], m["EventCategory"], m["EventDataType"])
	}
	if m["SeekPosition"] != 120.0 || m["ContentType"] != "Video" || m["StreamType"] != "OnDemand" || m["ContentId"] != "023134" {
		t.Errorf("body = %v", m)
	}
}
