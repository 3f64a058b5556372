package engine

import (
	"sync"
	"time"
)

// EffectSink receives effects in the order the engine produced them. It is
// called with the runner's lock held and must not call back into the Runner.
type EffectSink interface {
	HandleEffects(effects []Effect)
}

// SinkFunc adapts a function to EffectSink.
type SinkFunc func(effects []Effect)

func (f SinkFunc) HandleEffects(effects []Effect) { f(effects) }

// Ticker is the tick source driving a Runner.
type Ticker interface {
	C() <-chan time.Time
	Stop()
}

// TickerFactory creates a ticker firing every interval.
type TickerFactory func(interval time.Duration) Ticker

type clockTicker struct{ t *time.Ticker }

func (c clockTicker) C() <-chan time.Time { return c.t.C }
func (c clockTicker) Stop()               { c.t.Stop() }

// NewClockTicker is the wall-clock TickerFactory.
func NewClockTicker(interval time.Duration) Ticker {
	return clockTicker{t: time.NewTicker(interval)}
}

// RunnerConfig contains runtime options for a Runner.
type RunnerConfig struct {
	TickInterval time.Duration
	NewTicker    TickerFactory
}

// Runner drives an Engine with a single ticker. Commands and ticks are
// serialized by one mutex.
type Runner struct {
	mu      sync.Mutex
	engine  *Engine
	sink    EffectSink
	options RunnerConfig

	stopCh chan struct{}
	doneCh chan struct{}
	closed bool
}

// NewRunner wraps engine. A nil sink discards effects.
func NewRunner(engine *Engine, sink EffectSink, options RunnerConfig) *Runner {
	if options.TickInterval <= 0 {
		options.TickInterval = time.Second
	}
	if options.NewTicker == nil {
		options.NewTicker = NewClockTicker
	}
	if sink == nil {
		sink = SinkFunc(func([]Effect) {})
	}
	return &Runner{engine: engine, sink: sink, options: options}
}

// Do applies cmd to the engine, hands the resulting effects to the sink and
// reconciles the ticker with the engine's running state.
func (r *Runner) Do(cmd func(e *Engine) []Effect) []Effect {
	r.mu.Lock()
	defer r.mu.Unlock()

	before := r.engine.State()
	effects := cmd(r.engine)
	after := r.engine.State()

	if !r.closed {
		switch {
		case !after.Running:
			r.stopTickerLocked()
		case !before.Running || reloaded(effects):
			r.stopTickerLocked()
			r.startTickerLocked()
		}
	}
	if len(effects) > 0 {
		r.sink.HandleEffects(effects)
	}
	return effects
}

// ApplySettings is Do for the one engine command that can fail.
func (r *Runner) ApplySettings(apply func(e *Engine) ([]Effect, error)) ([]Effect, error) {
	var err error
	effects := r.Do(func(e *Engine) []Effect {
		var out []Effect
		out, err = apply(e)
		return out
	})
	return effects, err
}

// State returns the engine snapshot.
func (r *Runner) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.engine.State()
}

// Ticking reports whether a tick loop is active.
func (r *Runner) Ticking() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stopCh != nil
}

// Close stops the tick loop and waits for it to exit. Later commands still
// update the engine but no longer start a ticker.
func (r *Runner) Close() {
	r.mu.Lock()
	r.closed = true
	done := r.doneCh
	r.stopTickerLocked()
	r.mu.Unlock()

	if done != nil {
		<-done
	}
}

func reloaded(effects []Effect) bool {
	for _, e := range effects {
		if e.Kind == EffectReset || e.Kind == EffectPhaseChanged {
			return true
		}
	}
	return false
}

func (r *Runner) startTickerLocked() {
	stop := make(chan struct{})
	done := make(chan struct{})
	r.stopCh = stop
	r.doneCh = done
	go r.run(r.options.NewTicker(r.options.TickInterval), stop, done)
}

// stopTickerLocked signals the loop without waiting: the loop needs the lock
// to notice it was superseded.
func (r *Runner) stopTickerLocked() {
	if r.stopCh == nil {
		return
	}
	close(r.stopCh)
	r.stopCh = nil
	r.doneCh = nil
}

func (r *Runner) run(ticker Ticker, stop <-chan struct{}, done chan<- struct{}) {
	defer close(done)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C():
			if !r.tick(stop) {
				return
			}
		}
	}
}

// tick reports whether the loop should keep running.
func (r *Runner) tick(stop <-chan struct{}) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	select {
	case <-stop:
		return false
	default:
	}

	effects := r.engine.Tick()
	if len(effects) > 0 {
		r.sink.HandleEffects(effects)
	}
	if !r.engine.State().Running {
		r.stopCh = nil
		r.doneCh = nil
		return false
	}
	return true
}
