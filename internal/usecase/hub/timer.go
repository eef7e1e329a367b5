package hub

import (
	"time"
)

const minFallInterval = time.Millisecond

// fallTimer adapts time.Ticker to domain.FallTimer. It is created stopped.
// Start and Stop drop a tick that is already waiting in the channel, so a
// restart always waits a full interval.
type fallTimer struct {
	ticker *time.Ticker
}

func newFallTimer() *fallTimer {
	ticker := time.NewTicker(time.Hour)
	ticker.Stop()
	return &fallTimer{ticker: ticker}
}

func (t *fallTimer) Start(interval time.Duration) {
	t.ticker.Stop()
	t.drain()
	t.ticker.Reset(max(interval, minFallInterval))
}

func (t *fallTimer) Stop() {
	t.ticker.Stop()
	t.drain()
}

func (t *fallTimer) drain() {
	select {
	case <-t.ticker.C:
	default:
	}
}

func (t *fallTimer) C() <-chan time.Time {
	return t.ticker.C
}
