package scheduler

import (
	"time"

	"TopicBridge/internal/ports"
)

// SystemClock implements ports.Clock on top of the wall clock.
type SystemClock struct{}

var _ ports.Clock = SystemClock{}

// NewSystemClock returns the wall-clock implementation.
func NewSystemClock() SystemClock {
	return SystemClock{}
}

// Now returns the current local time.
func (SystemClock) Now() time.Time {
	return time.Now()
}

// NewTicker wraps time.Ticker.
func (SystemClock) NewTicker(d time.Duration) ports.Ticker {
	return &systemTicker{ticker: time.NewTicker(d)}
}

// After delegates to time.After.
func (SystemClock) After(d time.Duration) <-chan time.Time {
	return time.After(d)
}

type systemTicker struct {
	ticker *time.Ticker
}

func (t *systemTicker) C() <-chan time.Time {
	return t.ticker.C
}

func (t *systemTicker) Stop() {
	t.ticker.Stop()
}
