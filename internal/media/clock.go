package media

import (
	"time"

	"github.com/google/uuid"
)

// Clock supplies wall-clock time. Monotonicity is not assumed.
type Clock interface {
	Now() time.Time
}

// IDGenerator produces opaque, statistically unique identifiers for events
// and sessions.
type IDGenerator interface {
	NewID() string
}

// SystemClock reads the real wall clock.
type SystemClock struct{}

// Now implements Clock.
func (SystemClock) Now() time.Time { return time.Now() }

// UUIDGenerator issues random (version 4) UUID strings.
type UUIDGenerator struct{}

// NewID implements IDGenerator.
func (UUIDGenerator) NewID() string { return uuid.NewString() }

func millis(c Clock) int64 {
	return c.Now().UnixMilli()
}
