package testutil

import (
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/studymate/internal/engine"
)

// ManualTicker fires only when the test says so.
type ManualTicker struct {
	ch      chan time.Time
	mu      sync.Mutex
	stopped bool
}

func (m *ManualTicker) C() <-chan time.Time { return m.ch }

func (m *ManualTicker) Stop() {
	m.mu.Lock()
	m.stopped = true
	m.mu.Unlock()
}

func (m *ManualTicker) Stopped() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopped
}

// ManualClock hands out ManualTickers to a Runner.
type ManualClock struct {
	mu      sync.Mutex
	tickers []*ManualTicker
}

// RunnerConfig returns runner options driven by this clock.
func (c *ManualClock) RunnerConfig() engine.RunnerConfig {
	return engine.RunnerConfig{TickInterval: time.Millisecond, NewTicker: c.newTicker}
}

func (c *ManualClock) newTicker(time.Duration) engine.Ticker {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := &ManualTicker{ch: make(chan time.Time)}
	c.tickers = append(c.tickers, t)
	return t
}

// Active returns the number of tickers not yet stopped.
func (c *ManualClock) Active() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, t := range c.tickers {
		if !t.Stopped() {
			n++
		}
	}
	return n
}

// Fire delivers n ticks to the newest ticker, failing the test if the tick
// loop stops listening.
func (c *ManualClock) Fire(t *testing.T, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		c.mu.Lock()
		if len(c.tickers) == 0 {
			c.mu.Unlock()
			t.Fatal("no ticker was created")
		}
		latest := c.tickers[len(c.tickers)-1]
		c.mu.Unlock()

		select {
		case latest.ch <- time.Now():
		case <-time.After(2 * time.Second):
			t.Fatalf("tick loop not listening (tick %d of %d)", i+1, n)
		}
	}
}
