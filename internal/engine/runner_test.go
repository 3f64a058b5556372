package engine

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/studymate/internal/domain"
)

type manualTicker struct {
	ch      chan time.Time
	mu      sync.Mutex
	stopped bool
}

func (m *manualTicker) C() <-chan time.Time { return m.ch }

func (m *manualTicker) Stop() {
	m.mu.Lock()
	m.stopped = true
	m.mu.Unlock()
}

func (m *manualTicker) isStopped() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopped
}

type tickerFactory struct {
	mu      sync.Mutex
	tickers []*manualTicker
}

func (f *tickerFactory) New(time.Duration) Ticker {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := &manualTicker{ch: make(chan time.Time)}
	f.tickers = append(f.tickers, t)
	return t
}

func (f *tickerFactory) latest() *manualTicker {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.tickers[len(f.tickers)-1]
}

func (f *tickerFactory) created() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tickers)
}

func (f *tickerFactory) active() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, t := range f.tickers {
		if !t.isStopped() {
			n++
		}
	}
	return n
}

type runnerHarness struct {
	runner  *Runner
	tickers *tickerFactory
	effects chan Effect
}

func newRunnerHarness(t *testing.T, d domain.Durations) *runnerHarness {
	t.Helper()
	e, err := New(d)
	require.NoError(t, err)

	h := &runnerHarness{
		tickers: &tickerFactory{},
		effects: make(chan Effect, 256),
	}
	h.runner = NewRunner(e, SinkFunc(func(effects []Effect) {
		for _, ef := range effects {
			h.effects <- ef
		}
	}), RunnerConfig{TickInterval: time.Millisecond, NewTicker: h.tickers.New})
	t.Cleanup(h.runner.Close)
	return h
}

func (h *runnerHarness) next(t *testing.T) Effect {
	t.Helper()
	select {
	case ef := <-h.effects:
		return ef
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for effect")
		return Effect{}
	}
}

func (h *runnerHarness) fire(t *testing.T) Effect {
	t.Helper()
	select {
	case h.tickers.latest().ch <- time.Now():
	case <-time.After(2 * time.Second):
		t.Fatal("tick loop not listening")
	}
	return h.next(t)
}

func TestRunner_OneDecrementPerTick(t *testing.T) {
	h := newRunnerHarness(t, domain.Durations{WorkMin: 1, ShortBreakMin: 1, LongBreakMin: 1})

	h.runner.Do((*Engine).Start)
	assert.Equal(t, EffectRunningChanged, h.next(t).Kind)
	assert.True(t, h.runner.Ticking())

	for want := 59; want >= 55; want-- {
		ef := h.fire(t)
		assert.Equal(t, EffectTick, ef.Kind)
		assert.Equal(t, want, ef.State.RemainingSeconds)
	}
	assert.Equal(t, 55, h.runner.State().RemainingSeconds)
}

func TestRunner_NoDuplicateTickersAcrossStartPause(t *testing.T) {
	h := newRunnerHarness(t, domain.Durations{WorkMin: 25, ShortBreakMin: 5, LongBreakMin: 15})

	for i := 0; i < 5; i++ {
		h.runner.Do((*Engine).Start)
		h.runner.Do((*Engine).Start)
		h.runner.Do((*Engine).Pause)
	}
	assert.Equal(t, 5, h.tickers.created())
	assert.False(t, h.runner.Ticking())
	assert.Eventually(t, func() bool { return h.tickers.active() == 0 }, 2*time.Second, time.Millisecond)

	h.runner.Do((*Engine).Start)
	assert.Equal(t, 6, h.tickers.created())
	assert.Eventually(t, func() bool { return h.tickers.active() == 1 }, 2*time.Second, time.Millisecond)
}

func TestRunner_StopsTickingAfterTransition(t *testing.T) {
	h := newRunnerHarness(t, domain.Durations{WorkMin: 1, ShortBreakMin: 1, LongBreakMin: 1})
	h.runner.Do((*Engine).Start)
	h.next(t)

	for i := 0; i < 59; i++ {
		h.fire(t)
	}
	completed := h.fire(t)
	assert.Equal(t, EffectPhaseCompleted, completed.Kind)
	for i := 0; i < 5; i++ {
		h.next(t)
	}

	assert.Equal(t, domain.PhaseShortBreak, h.runner.State().Phase)
	assert.False(t, h.runner.Ticking())
	assert.Eventually(t, func() bool { return h.tickers.active() == 0 }, 2*time.Second, time.Millisecond)
}

func TestRunner_RestartWhileRunningReplacesTicker(t *testing.T) {
	h := newRunnerHarness(t, domain.Durations{WorkMin: 25, ShortBreakMin: 5, LongBreakMin: 15})
	h.runner.Do((*Engine).Start)
	h.runner.Do((*Engine).BeginFocus)

	assert.Equal(t, 2, h.tickers.created())
	assert.True(t, h.runner.Ticking())
	assert.Eventually(t, func() bool { return h.tickers.active() == 1 }, 2*time.Second, time.Millisecond)
}

func TestRunner_ApplySettingsPropagatesError(t *testing.T) {
	h := newRunnerHarness(t, domain.Durations{WorkMin: 25, ShortBreakMin: 5, LongBreakMin: 15})

	_, err := h.runner.ApplySettings(func(e *Engine) ([]Effect, error) {
		return e.ApplySettings(domain.Durations{})
	})
	assert.ErrorIs(t, err, domain.ErrInvalidDuration)
}

func TestRunner_CloseStopsLoop(t *testing.T) {
	h := newRunnerHarness(t, domain.Durations{WorkMin: 25, ShortBreakMin: 5, LongBreakMin: 15})
	h.runner.Do((*Engine).Start)

	h.runner.Close()

	assert.False(t, h.runner.Ticking())
	assert.True(t, h.tickers.latest().isStopped())

	h.runner.Do((*Engine).Pause)
	h.runner.Do((*Engine).Start)
	assert.Equal(t, 1, h.tickers.created())
}
