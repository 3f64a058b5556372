package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/studymate/internal/domain"
)

func newTestEngine(t *testing.T, d domain.Durations) *Engine {
	t.Helper()
	e, err := New(d)
	require.NoError(t, err)
	return e
}

// finishPhase starts the engine and ticks until the current phase ends.
func finishPhase(t *testing.T, e *Engine) []Effect {
	t.Helper()
	e.Start()
	phase := e.State().Phase
	for i := 0; i < 200*60; i++ {
		effects := e.Tick()
		if e.State().Phase != phase {
			return effects
		}
	}
	t.Fatalf("phase %s never completed", phase)
	return nil
}

func TestNew_InitialState(t *testing.T) {
	e := newTestEngine(t, domain.Durations{WorkMin: 25, ShortBreakMin: 5, LongBreakMin: 15})

	assert.Equal(t, State{Phase: domain.PhaseWork, RemainingSeconds: 1500}, e.State())
}

func TestNew_RejectsNonPositiveDurations(t *testing.T) {
	_, err := New(domain.Durations{WorkMin: 0, ShortBreakMin: 5, LongBreakMin: 15})
	assert.ErrorIs(t, err, domain.ErrInvalidDuration)
}

func TestTick_PausedIsNoop(t *testing.T) {
	e := newTestEngine(t, domain.Durations{WorkMin: 1, ShortBreakMin: 1, LongBreakMin: 1})

	assert.Empty(t, e.Tick())
	assert.Equal(t, 60, e.State().RemainingSeconds)
}

func TestTick_DecrementsByOne(t *testing.T) {
	e := newTestEngine(t, domain.Durations{WorkMin: 1, ShortBreakMin: 1, LongBreakMin: 1})
	e.Start()

	effects := e.Tick()
	require.Len(t, effects, 1)
	assert.Equal(t, EffectTick, effects[0].Kind)
	assert.Equal(t, 59, effects[0].State.RemainingSeconds)
	assert.Equal(t, 59, e.State().RemainingSeconds)
}

func TestWorkCompletion_GoesToShortBreak(t *testing.T) {
	e := newTestEngine(t, domain.Durations{WorkMin: 2, ShortBreakMin: 3, LongBreakMin: 4})
	e.Start()

	for i := 0; i < 119; i++ {
		e.Tick()
	}
	assert.Equal(t, domain.PhaseWork, e.State().Phase)
	assert.Equal(t, 1, e.State().RemainingSeconds)

	effects := e.Tick()

	st := e.State()
	assert.Equal(t, domain.PhaseShortBreak, st.Phase)
	assert.Equal(t, 180, st.RemainingSeconds)
	assert.Equal(t, 1, st.CompletedWorkSessions)
	assert.False(t, st.Running)

	assert.Equal(t, []EffectKind{
		EffectPhaseCompleted,
		EffectPhaseChanged,
		EffectRunningChanged,
		EffectMessage,
		EffectPlayPhaseEnd,
		EffectPlayPhaseStart,
	}, Kinds(effects))
	assert.Equal(t, domain.PhaseWork, effects[0].Phase)
	assert.Equal(t, 2, effects[0].PlannedMinutes)
	assert.Equal(t, domain.KindTimer, effects[3].MessageKind)
	assert.Equal(t,
		[]string{"✨ Great job! Focus session complete. Take a 3-minute break to recharge."},
		Messages(effects))
}

func TestLongBreakCadence(t *testing.T) {
	e := newTestEngine(t, domain.Durations{WorkMin: 1, ShortBreakMin: 1, LongBreakMin: 2})

	for n := 1; n <= 8; n++ {
		effects := finishPhase(t, e)
		st := e.State()
		assert.Equal(t, n, st.CompletedWorkSessions)

		if n%4 == 0 {
			assert.Equal(t, domain.PhaseLongBreak, st.Phase, "session %d", n)
			assert.Equal(t, 120, st.RemainingSeconds)
			assert.Equal(t,
				[]string{"🎉 Amazing work! You've completed 4 focus sessions. Time for a well-deserved 2-minute long break!"},
				Messages(effects))
		} else {
			assert.Equal(t, domain.PhaseShortBreak, st.Phase, "session %d", n)
			assert.Equal(t, 60, st.RemainingSeconds)
		}

		effects = finishPhase(t, e)
		assert.Equal(t, domain.PhaseWork, e.State().Phase)
		assert.Equal(t, 60, e.State().RemainingSeconds)
		assert.Equal(t, n, e.State().CompletedWorkSessions, "breaks do not count")
		assert.Equal(t,
			[]string{"💪 Break's over! Ready to crush another 1-minute focus session? Let's do this!"},
			Messages(effects))
	}
}

func TestPauseResume_PreservesRemaining(t *testing.T) {
	e := newTestEngine(t, domain.Durations{WorkMin: 25, ShortBreakMin: 5, LongBreakMin: 15})
	e.Start()
	for i := 0; i < 42; i++ {
		e.Tick()
	}

	effects := e.Pause()
	assert.Equal(t, []EffectKind{EffectRunningChanged}, Kinds(effects))
	assert.Equal(t, 1458, e.State().RemainingSeconds)

	e.Tick()
	e.Tick()
	assert.Equal(t, 1458, e.State().RemainingSeconds)

	e.Start()
	assert.True(t, e.State().Running)
	assert.Equal(t, 1458, e.State().RemainingSeconds)
}

func TestStartPause_Idempotent(t *testing.T) {
	e := newTestEngine(t, domain.Durations{WorkMin: 25, ShortBreakMin: 5, LongBreakMin: 15})

	assert.Empty(t, e.Pause())
	assert.Len(t, e.Start(), 1)
	assert.Empty(t, e.Start())
}

func TestToggle(t *testing.T) {
	e := newTestEngine(t, domain.Durations{WorkMin: 25, ShortBreakMin: 5, LongBreakMin: 15})

	e.Toggle()
	assert.True(t, e.State().Running)
	e.Toggle()
	assert.False(t, e.State().Running)
}

func TestRestart_ResetsCurrentPhase(t *testing.T) {
	e := newTestEngine(t, domain.Durations{WorkMin: 1, ShortBreakMin: 3, LongBreakMin: 15})
	finishPhase(t, e)
	e.Start()
	for i := 0; i < 10; i++ {
		e.Tick()
	}

	effects := e.Restart()

	st := e.State()
	assert.Equal(t, domain.PhaseShortBreak, st.Phase)
	assert.Equal(t, 180, st.RemainingSeconds)
	assert.False(t, st.Running)
	assert.Equal(t, 1, st.CompletedWorkSessions)
	assert.Equal(t, []EffectKind{EffectReset, EffectRunningChanged}, Kinds(effects))
}

func TestBeginFocus_FromBreak(t *testing.T) {
	e := newTestEngine(t, domain.Durations{WorkMin: 1, ShortBreakMin: 3, LongBreakMin: 15})
	finishPhase(t, e)

	effects := e.BeginFocus()

	st := e.State()
	assert.Equal(t, domain.PhaseWork, st.Phase)
	assert.Equal(t, 60, st.RemainingSeconds)
	assert.True(t, st.Running)
	assert.Equal(t, 1, st.CompletedWorkSessions)
	assert.Equal(t, []EffectKind{EffectPhaseChanged, EffectRunningChanged}, Kinds(effects))
}

func TestApplySettings_PausedRederivesRemaining(t *testing.T) {
	e := newTestEngine(t, domain.Durations{WorkMin: 25, ShortBreakMin: 5, LongBreakMin: 15})
	e.Start()
	e.Tick()
	e.Pause()

	effects, err := e.ApplySettings(domain.Durations{WorkMin: 50, ShortBreakMin: 5, LongBreakMin: 15})
	require.NoError(t, err)

	assert.Equal(t, []EffectKind{EffectReset}, Kinds(effects))
	assert.Equal(t, 3000, e.State().RemainingSeconds)
}

func TestApplySettings_RunningKeepsCountdown(t *testing.T) {
	e := newTestEngine(t, domain.Durations{WorkMin: 1, ShortBreakMin: 5, LongBreakMin: 15})
	e.Start()
	e.Tick()

	effects, err := e.ApplySettings(domain.Durations{WorkMin: 50, ShortBreakMin: 7, LongBreakMin: 15})
	require.NoError(t, err)

	assert.Empty(t, effects)
	assert.Equal(t, 59, e.State().RemainingSeconds)
	assert.True(t, e.State().Running)

	// New durations take effect at the next transition.
	for i := 0; i < 59; i++ {
		e.Tick()
	}
	assert.Equal(t, domain.PhaseShortBreak, e.State().Phase)
	assert.Equal(t, 7*60, e.State().RemainingSeconds)
}

func TestApplySettings_UnchangedDurationsKeepRemaining(t *testing.T) {
	d := domain.Durations{WorkMin: 25, ShortBreakMin: 5, LongBreakMin: 15}
	e := newTestEngine(t, d)
	e.Start()
	e.Tick()
	e.Pause()

	effects, err := e.ApplySettings(d)
	require.NoError(t, err)
	assert.Empty(t, effects)
	assert.Equal(t, 1499, e.State().RemainingSeconds)
}

func TestApplySettings_Invalid(t *testing.T) {
	e := newTestEngine(t, domain.Durations{WorkMin: 25, ShortBreakMin: 5, LongBreakMin: 15})

	_, err := e.ApplySettings(domain.Durations{WorkMin: 25, ShortBreakMin: 0, LongBreakMin: 15})
	assert.ErrorIs(t, err, domain.ErrInvalidDuration)
	assert.Equal(t, 25, e.Durations().WorkMin)
}
