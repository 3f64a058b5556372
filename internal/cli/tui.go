package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/studymate/internal/cli/formatter"
	"github.com/alexanderramin/studymate/internal/domain"
	"github.com/alexanderramin/studymate/internal/engine"
	"github.com/alexanderramin/studymate/internal/events"
)

var welcomeLines = []string{
	"Welcome to your AI Study Companion! 👋",
	"I'm here to help you stay focused and motivated.",
	"Ask me for flashcards, motivation, or to start a study session!",
}

// eventMsg carries one companion event into Update.
type eventMsg events.Event

type streamClosedMsg struct{}

// tuiModel is the root bubbletea Model: timer header, chat transcript and
// chat input.
type tuiModel struct {
	app    *App
	ctx    context.Context
	keys   tuiKeyMap
	stream <-chan events.Event

	input    textinput.Model
	viewport viewport.Model

	session  engine.State
	settings domain.StudySettings
	messages []domain.ChatMessage
	revealed map[string]bool
	status   string

	width    int
	height   int
	quitting bool
}

func newTUIModel(ctx context.Context, app *App, stream <-chan events.Event) tuiModel {
	ti := textinput.New()
	ti.Placeholder = "Ask for a flashcard, motivation, or type start..."
	ti.Prompt = "› "
	ti.CharLimit = 500
	ti.Focus()

	vp := viewport.New(0, 0)
	vp.MouseWheelEnabled = true

	m := tuiModel{
		app:      app,
		ctx:      ctx,
		keys:     defaultTUIKeys(),
		stream:   stream,
		input:    ti,
		viewport: vp,
		session:  app.Session.Snapshot(),
		settings: app.Settings.Settings(),
		messages: app.Chat.Messages(),
		revealed: make(map[string]bool),
	}
	m.refreshTranscript()
	return m
}

// runTUI runs the interactive companion until the user quits.
func runTUI(ctx context.Context, app *App) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	var stream <-chan events.Event
	if app.Events != nil {
		s, err := app.Events.Subscribe(ctx, 128)
		if err != nil {
			return fmt.Errorf("subscribing to session events: %w", err)
		}
		stream = s
	}

	p := tea.NewProgram(newTUIModel(ctx, app, stream), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	return err
}

// ── bubbletea interface ──────────────────────────────────────────────────────

func (m tuiModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.waitForEvent())
}

func (m tuiModel) waitForEvent() tea.Cmd {
	if m.stream == nil {
		return nil
	}
	stream := m.stream
	return func() tea.Msg {
		ev, open := <-stream
		if !open {
			return streamClosedMsg{}
		}
		return eventMsg(ev)
	}
}

func (m tuiModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(10, msg.Width-4)
		m.resize()
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case eventMsg:
		m.applyEvent(events.Event(msg))
		return m, m.waitForEvent()

	case streamClosedMsg:
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m tuiModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Toggle):
		m.session = m.app.Session.Toggle(m.ctx)
		return m, nil

	case key.Matches(msg, m.keys.Restart):
		m.session = m.app.Session.Restart(m.ctx)
		return m, nil

	case key.Matches(msg, m.keys.Flip):
		m.flipLastCard()
		return m, nil

	case key.Matches(msg, m.keys.Voice):
		s, err := m.app.Settings.SetVoiceEnabled(m.ctx, !m.settings.VoiceEnabled)
		if err != nil {
			m.status = err.Error()
			return m, nil
		}
		m.settings = s
		m.status = "Voice " + formatter.OnOff(s.VoiceEnabled)
		m.syncMessages()
		return m, nil

	case key.Matches(msg, m.keys.ScrollUp), key.Matches(msg, m.keys.ScrollDown):
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case key.Matches(msg, m.keys.Send):
		text := strings.TrimSpace(m.input.Value())
		m.input.Reset()
		if text == "" {
			return m, nil
		}
		m.status = ""
		if _, err := m.app.Chat.Send(m.ctx, text); err != nil {
			m.status = err.Error()
		}
		m.session = m.app.Session.Snapshot()
		m.syncMessages()
		return m, nil
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// applyEvent folds a companion event into the model.
func (m *tuiModel) applyEvent(ev events.Event) {
	if ev.Session != nil {
		m.session = *ev.Session
	}
	switch ev.Type {
	case events.ChatMessage:
		m.syncMessages()
	case events.SettingsUpdated:
		if ev.Settings != nil {
			m.settings = *ev.Settings
		}
	case events.GenerationFailed:
		m.status = "Flashcard generation failed: " + ev.Error
	}
}

func (m *tuiModel) syncMessages() {
	m.messages = m.app.Chat.Messages()
	m.refreshTranscript()
}

// flipLastCard reveals or hides the back of the newest flashcard message.
func (m *tuiModel) flipLastCard() {
	for i := len(m.messages) - 1; i >= 0; i-- {
		if m.messages[i].Flashcard != nil {
			id := m.messages[i].ID
			m.revealed[id] = !m.revealed[id]
			m.refreshTranscript()
			return
		}
	}
	m.status = "No flashcard to flip. Ask for one!"
}

func (m *tuiModel) resize() {
	header := m.header()
	// input, help and status lines plus a blank separator
	m.viewport.Width = m.width
	m.viewport.Height = max(3, m.height-lipgloss.Height(header)-4)
	m.refreshTranscript()
}

func (m *tuiModel) refreshTranscript() {
	var content string
	if len(m.messages) == 0 {
		content = formatter.StylePurple.Render(welcomeLines[0]) + "\n" +
			formatter.Dim(strings.Join(welcomeLines[1:], "\n"))
	} else {
		parts := make([]string, len(m.messages))
		for i, msg := range m.messages {
			parts[i] = formatter.FormatMessage(msg, m.revealed[msg.ID])
		}
		content = strings.Join(parts, "\n\n")
	}
	if m.viewport.Width > 0 {
		content = lipgloss.NewStyle().Width(m.viewport.Width).Render(content)
	}
	m.viewport.SetContent(content)
	m.viewport.GotoBottom()
}

func (m tuiModel) header() string {
	total := m.settings.Durations().SecondsFor(m.session.Phase)
	return formatter.FormatTimerHeader(m.session, total, m.width)
}

func (m tuiModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(m.header())
	b.WriteString("\n")
	b.WriteString(m.viewport.View())
	b.WriteString("\n")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(formatter.StyleYellow.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(renderHelp(m.keys.ShortHelp()))
	return b.String()
}
