package timezone

import (
	"sync"
	"time"
)

// DefaultTimezone is the server's own local zone. Every date and time in the
// scheduler is a naive wall-clock value in this single location.
const DefaultTimezone = "Local"

func IsValid(tz string) bool {
	if tz == "" {
		return false
	}
	_, err := time.LoadLocation(tz)
	return err == nil
}

func Location(tz string) *time.Location {
	if IsValid(tz) {
		if loc, err := time.LoadLocation(tz); err == nil {
			return loc
		}
	}
	return time.Local
}

// ======================================================
// Clock
// ======================================================

// Clock supplies "now". Use cases never call time.Now directly.
type Clock interface {
	Now() time.Time
}

type SystemClock struct {
	Loc *time.Location
}

func NewSystemClock(tz string) SystemClock {
	return SystemClock{Loc: Location(tz)}
}

func (c SystemClock) Now() time.Time {
	if c.Loc == nil {
		return time.Now()
	}
	return time.Now().In(c.Loc)
}

// FixedClock always reports the same instant until Set is called.
type FixedClock struct {
	mu  sync.RWMutex
	now time.Time
}

func NewFixedClock(now time.Time) *FixedClock {
	return &FixedClock{now: now}
}

func (c *FixedClock) Now() time.Time {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.now
}

func (c *FixedClock) Set(now time.Time) {
	c.mu.Lock()
	c.now = now
	c.mu.Unlock()
}
