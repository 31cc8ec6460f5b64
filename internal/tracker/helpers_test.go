package tracker

import (
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"media-tracker/internal/media"
)

type fakeClock struct {
	mu sync.Mutex
	ms int64
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return time.UnixMilli(c.ms)
}

func (c *fakeClock) Advance(ms int64) {
	c.mu.Lock()
	c.ms += ms
	c.mu.Unlock()
}

type seqIDs struct {
	mu sync.Mutex
	n  int
}

func (g *seqIDs) NewID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.n++
	return fmt.Sprintf("id-%d", g.n)
}

type recordingSink struct {
	mu        sync.Mutex
	delivered []media.BaseEvent
	fail      bool
}

var errSinkDown = errors.New("sink down")

func (r *recordingSink) LogBaseEvent(ev media.BaseEvent) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return errSinkDown
	}
	r.delivered = append(r.delivered, ev)
	return nil
}

func (r *recordingSink) names() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.delivered))
	for _, ev := range r.delivered {
		out = append(out, ev.EventName())
	}
	return out
}

func newTestService(t *testing.T) (*Service, *recordingSink, *fakeClock) {
	t.Helper()
	clk := &fakeClock{ms: 1000}
	rec := &recordingSink{}
	cfg := media.DefaultConfig()
	cfg.Clock = clk
	cfg.IDs = &seqIDs{}
	return NewService(NewInMemoryRepository(), rec, cfg), rec, clk
}

func videoRequest() CreateSessionRequest {
	return CreateSessionRequest{
		MediaContent: media.MediaContent{
			ContentID:   "023134",
			Title:       "Immigrant Song",
			Duration:    120000,
			ContentType: media.ContentVideo,
			StreamType:  media.StreamOnDemand,
		},
	}
}


func ptr[T any](v T) *T { return &v }
