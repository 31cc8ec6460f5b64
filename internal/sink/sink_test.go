package sink

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"

	"media-tracker/internal/media"
	"media-tracker/internal/platform/logger"
	"media-tracker/internal/platform/metrics"
)

type fixedIDs struct{}

func (fixedIDs) NewID() string { return "ev-1" }

func testContent() media.MediaContent {
	return media.MediaContent{
		ContentID:   "023134",
		Title:       "Immigrant Song",
		Duration:    120000,
		ContentType: media.ContentVideo,
		StreamType:  media.StreamOnDemand,
	}
}

func testEvent(typ media.EventType) *media.Event {
	return media.NewEvent(fixedIDs{}, typ, testContent(), "sess-1", media.At(12))
}

type recorder struct {
	got []media.BaseEvent
	err error
}

func (r *recorder) LogBaseEvent(ev media.BaseEvent) error {
	if r.err != nil {
		return r.err
	}
	r.got = append(r.got, ev)
	return nil
}

type fakePublisher struct {
	channel string
	body    []byte
	err     error
}

func (p *fakePublisher) Publish(ctx context.Context, channel string, message interface{}) *redis.IntCmd {
	p.channel = channel
	p.body, _ = message.([]byte)
	return redis.NewIntResult(1, p.err)
}

func TestEncode_media_event(t *testing.T) {
	at := time.UnixMilli(5000)
	b, err := Encode(testEvent(media.EventPlay), at)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	var env struct {
		MessageType int            `json:"message_type"`
		Name        string         `json:"name"`
		At          int64          `json:"at"`
		Event       map[string]any `json:"event"`
	}
	if err := json.Unmarshal(b, &env); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if env.MessageType != int(media.MessageMedia) || env.Name != "Play" || env.At != 5000 {
		t.Errorf("envelope header = %+v", env)
	}
	if env.Event["EventName"] != "Play" || env.Event["ContentId"] != "023134" {
		t.Errorf("event body = %v", env.Event)
	}
}

func TestEncode_page_event_scrubs_non_finite(t *testing.T) {
	pe := media.PageEvent{
		Name:        "Media Session Summary",
		EventType:   media.EventCategoryMedia,
		MessageType: media.MessagePageEvent,
		Data:        media.Attributes{media.KeyAdTimeSpentRate: math.NaN(), media.KeyTimeSpent: 12.0},
	}
	b, err := Encode(pe, time.UnixMilli(0))
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	if !strings.Contains(string(b), `"`+media.KeyAdTimeSpentRate+`":null`) {
		t.Errorf("NaN should be encoded as null: %s", b)
	}
	if !math.IsNaN(pe.Data[media.KeyAdTimeSpentRate].(float64)) {
		t.Error("Encode must not modify the caller's attributes")
	}
}

func TestScrub_returns_input_when_clean(t *testing.T) {
	attrs := media.Attributes{"a": 1.0, "b": "x"}
	out := Scrub(attrs)
	out["c"] = true
	if _, ok := attrs["c"]; !ok {
		t.Error("clean attributes should be returned as-is")
	}
	if Scrub(media.Attributes{"inf": math.Inf(1)})["inf"] != nil {
		t.Error("Inf should become nil")
	}
}

func TestMulti_stops_at_first_error(t *testing.T) {
	boom := errors.New("boom")
	first := &recorder{}
	failing := &recorder{err: boom}
	last := &recorder{}

	err := Multi{first, failing, last}.LogBaseEvent(testEvent(media.EventPause))
	if !errors.Is(err, boom) {
		t.Fatalf("err = %v, want boom", err)
	}
	if len(first.got) != 1 || len(last.got) != 0 {
		t.Errorf("deliveries: first=%d last=%d", len(first.got), len(last.got))
	}
}

func TestInstrument_counts(t *testing.T) {
	m := metrics.New()
	rec := &recorder{}
	s := Instrument(rec, m)

	_ = s.LogBaseEvent(testEvent(media.EventPlay))
	_ = s.LogBaseEvent(testEvent(media.EventPlay).ToPageEvent())
	rec.err = errors.New("down")
	if err := s.LogBaseEvent(testEvent(media.EventPause)); err == nil {
		t.Fatal("expected error to propagate")
	}

	if got := counterValue(t, m, "media_events_total"); got != 1 {
		t.Errorf("media_events_total = %v", got)
	}
	if got := counterValue(t, m, "media_page_events_total"); got != 1 {
		t.Errorf("media_page_events_total = %v", got)
	}
	if got := counterValue(t, m, "media_sink_errors_total"); got != 1 {
		t.Errorf("media_sink_errors_total = %v", got)
	}
}

func TestInstrument_nil_metrics(t *testing.T) {
	rec := &recorder{}
	if got := Instrument(rec, nil); got != media.Sink(rec) {
		t.Error("nil metrics should return the wrapped sink")
	}
}

func TestRedisSink_publishes_envelope(t *testing.T) {
	pub := &fakePublisher{}
	s := NewRedisSink(pub, "media:events", logger.Discard())
	s.now = func() time.Time { return time.UnixMilli(42) }

	if err := s.LogBaseEvent(testEvent(media.EventSeekStart)); err != nil {
		t.Fatalf("LogBaseEvent: %v", err)
	}
	if pub.channel != "media:events" {
		t.Errorf("channel = %q", pub.channel)
	}
	var env Envelope
	if err := json.Unmarshal(pub.body, &env); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if env.Name != "Seek Start" || env.At != 42 {
		t.Errorf("envelope = %+v", env)
	}
}

func TestRedisSink_publish_error(t *testing.T) {
	pub := &fakePublisher{err: errors.New("connection refused")}
	s := NewRedisSink(pub, "media:events", logger.Discard())
	err := s.LogBaseEvent(testEvent(media.EventPlay))
	if err == nil || !strings.Contains(err.Error(), "connection refused") {
		t.Errorf("err = %v", err)
	}
}

func TestLogSink_writes_record(t *testing.T) {
	var buf bytes.Buffer
	s := NewLogSink(slog.New(slog.NewJSONHandler(&buf, nil)))
	if err := s.LogBaseEvent(testEvent(media.EventBufferStart)); err != nil {
		t.Fatalf("LogBaseEvent: %v", err)
	}
	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("log output not JSON: %v", err)
	}
	if rec["event"] != "Buffer Start" || rec["media_session_id"] != "sess-1" || rec["event_id"] != "ev-1" {
		t.Errorf("record = %v", rec)
	}
}

func counterValue(t *testing.T, m *metrics.Metrics, name string) float64 {
	t.Helper()
	families, err := m.Registry().Gather()
	if err != nil {
		t.Fatalf("Gather: %v", err)
	}
	total := 0.0
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, metric := range f.GetMetric() {
			total += metric.GetCounter().GetValue()
		}
	}
	return total
}
