package media

import (
	"fmt"
	"testing"
	"time"
)

type fakeClock struct {
	ms int64
}

func (c *fakeClock) Now() time.Time { return time.UnixMilli(c.ms) }

func (c *fakeClock) Advance(ms int64) { c.ms += ms }

type seqIDs struct {
	prefix string
	n      int
}

func (g *seqIDs) NewID() string {
	g.n++
	return fmt.Sprintf("%s-%d", g.prefix, g.n)
}

type recordingSink struct {
	delivered []BaseEvent
	failOn    func(BaseEvent) error
}

func (r *recordingSink) LogBaseEvent(ev BaseEvent) error {
	if r.failOn != nil {
		if err := r.failOn(ev); err != nil {
			return err
		}
	}
	r.delivered = append(r.delivered, ev)
	return nil
}

type harness struct {
	session *Session
	clock   *fakeClock
	sink    *recordingSink
	events  []*Event
}

func (h *harness) names() []string {
	out := make([]string, 0, len(h.events))
	for _, ev := range h.events {
		out = append(out, ev.Name)
	}
	return out
}

func (h *harness) last() *Event {
	if len(h.events) == 0 {
		return nil
	}
	return h.events[len(h.events)-1]
}

func (h *harness) find(typ EventType) *Event {
	for _, ev := range h.events {
		if ev.Type == typ {
			return ev
		}
	}
	return nil
}

func (h *harness) count(typ EventType) int {
	n := 0
	for _, ev := range h.events {
		if ev.Type == typ {
			n++
		}
	}
	return n
}

func immigrantSong() MediaContent {
	return MediaContent{
		ContentID:   "023134",
		Title:       "Immigrant Song",
		Duration:    120000,
		ContentType: ContentVideo,
		StreamType:  StreamOnDemand,
	}
}

// newHarness builds a Session over immigrantSong with a fake clock at 1000ms
// and sequential ids. mutate may adjust the config before construction.
func newHarness(t *testing.T, mutate func(*Config)) *harness {
	t.Helper()
	h := &harness{clock: &fakeClock{ms: 1000}, sink: &recordingSink{}}
	cfg := DefaultConfig()
	cfg.Clock = h.clock
	cfg.IDs = &seqIDs{prefix: "id"}
	if mutate != nil {
		mutate(&cfg)
	}
	s, err := NewSession(h.sink, immigrantSong(), cfg)
	if err != nil {
		t.Fatalf("NewSession: %v", err)
	}
	s.SetListener(func(ev *Event) { h.events = append(h.events, ev) })
	h.session = s
	return h
}

func mustOK(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}
