package clock

import "time"

// Clock abstracts time to keep usecases deterministic in tests.
type Clock interface {
	Now() time.Time
}

// Ticker is a cancelable periodic tick source.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickSource creates tickers. The focus controller owns at most one at a time.
type TickSource interface {
	NewTicker(d time.Duration) Ticker
}

// SystemClock reports local wall-clock time, since the block grid is laid
// out on the user's day.
type SystemClock struct{}

func (SystemClock) Now() time.Time {
	return time.Now()
}

func (SystemClock) NewTicker(d time.Duration) Ticker {
	return systemTicker{t: time.NewTicker(d)}
}

type systemTicker struct {
	t *time.Ticker
}

func (s systemTicker) C() <-chan time.Time { return s.t.C }

func (s systemTicker) Stop() { s.t.Stop() }
