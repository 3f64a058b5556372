package cli

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/studymate/internal/domain"
	"github.com/alexanderramin/studymate/internal/engine"
	"github.com/alexanderramin/studymate/internal/events"
	"github.com/alexanderramin/studymate/internal/teatest"
	"github.com/alexanderramin/studymate/internal/testutil"
)

func newTUIDriver(t *testing.T, env *testEnv) *teatest.Driver {
	t.Helper()
	d := teatest.New(t, newTUIModel(context.Background(), env.app, nil), teatest.WithSize(100, 40))
	d.DrainInit()
	return d
}

func tuiState(t *testing.T, d *teatest.Driver) tuiModel {
	t.Helper()
	m, ok := d.Model.(tuiModel)
	require.True(t, ok, "model is %T", d.Model)
	return m
}

func TestTUI_WelcomeAndHeader(t *testing.T) {
	env := newTestEnv(t)
	d := newTUIDriver(t, env)

	view := d.View()
	assert.Contains(t, view, "Welcome to your AI Study Companion")
	assert.Contains(t, view, "Focus Time")
	assert.Contains(t, view, "25:00")
	assert.Contains(t, view, "ctrl+t")
}

func TestTUI_SubmitStartRunsTimer(t *testing.T) {
	env := newTestEnv(t)
	d := newTUIDriver(t, env)

	d.Submit("start")

	m := tuiState(t, d)
	assert.True(t, m.session.Running)
	assert.Equal(t, "", m.input.Value(), "input is cleared after send")
	require.Len(t, m.messages, 2)
	assert.Equal(t, domain.RoleUser, m.messages[0].Role)
	assert.Equal(t, domain.KindTimer, m.messages[1].Kind)
	assert.Contains(t, d.View(), "RUNNING")
	assert.NotContains(t, d.View(), "Welcome to your AI Study Companion")
}

func TestTUI_BlankInputIsIgnored(t *testing.T) {
	env := newTestEnv(t)
	d := newTUIDriver(t, env)

	d.Submit("   ")
	assert.Empty(t, tuiState(t, d).messages)
}

func TestTUI_ToggleAndRestart(t *testing.T) {
	env := newTestEnv(t)
	d := newTUIDriver(t, env)

	d.Press(tea.KeyCtrlT)
	assert.True(t, tuiState(t, d).session.Running)
	assert.True(t, env.companion.Snapshot().Running)

	d.Press(tea.KeyCtrlT)
	assert.False(t, tuiState(t, d).session.Running)

	d.Press(tea.KeyCtrlR)
	st := tuiState(t, d).session
	assert.False(t, st.Running)
	assert.Equal(t, 1500, st.RemainingSeconds)
}

func TestTUI_FlipFlashcard(t *testing.T) {
	env := newTestEnv(t)
	d := newTUIDriver(t, env)

	d.Press(tea.KeyCtrlF)
	assert.Contains(t, tuiState(t, d).status, "No flashcard to flip")

	d.Submit("quiz me")
	m := tuiState(t, d)
	require.NotEmpty(t, m.messages)
	last := m.messages[len(m.messages)-1]
	require.NotNil(t, last.Flashcard)
	assert.Contains(t, d.View(), "press ctrl+f to flip")
	assert.False(t, m.revealed[last.ID])

	d.Press(tea.KeyCtrlF)
	assert.True(t, tuiState(t, d).revealed[last.ID])
	assert.NotContains(t, d.View(), "press ctrl+f to flip")

	d.Press(tea.KeyCtrlF)
	assert.False(t, tuiState(t, d).revealed[last.ID])
}

func TestTUI_VoiceToggle(t *testing.T) {
	env := newTestEnv(t)
	d := newTUIDriver(t, env)

	d.Press(tea.KeyCtrlV)
	m := tuiState(t, d)
	assert.True(t, m.settings.VoiceEnabled)
	assert.True(t, env.app.Settings.Settings().VoiceEnabled)
	assert.Contains(t, m.status, "Voice")
}

func TestTUI_AppliesEvents(t *testing.T) {
	env := newTestEnv(t, testutil.WithDurations(30, 5, 15))
	d := newTUIDriver(t, env)

	d.Send(eventMsg(events.Event{
		Type:    events.SessionTick,
		Session: &engine.State{Phase: domain.PhaseWork, RemainingSeconds: 754, Running: true},
	}))
	m := tuiState(t, d)
	assert.Equal(t, 754, m.session.RemainingSeconds)
	assert.Contains(t, d.View(), "12:34")

	d.Send(eventMsg(events.Event{Type: events.GenerationFailed, Error: "backend down"}))
	assert.Contains(t, tuiState(t, d).status, "backend down")

	updated := env.app.Settings.Settings()
	updated.VoiceEnabled = true
	d.Send(eventMsg(events.Event{Type: events.SettingsUpdated, Settings: &updated}))
	assert.True(t, tuiState(t, d).settings.VoiceEnabled)
}

func TestTUI_Quit(t *testing.T) {
	env := newTestEnv(t)
	d := newTUIDriver(t, env)

	d.Press(tea.KeyCtrlC)
	assert.True(t, d.Quitting)
	assert.Empty(t, d.View())
}
