package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/studymate/internal/coach"
	"github.com/alexanderramin/studymate/internal/domain"
	"github.com/alexanderramin/studymate/internal/engine"
)

// FormatSessionLine renders the one-line timer status:
//
//	🎯 Focus Time  24:59  ● RUNNING  session 3
func FormatSessionLine(st engine.State) string {
	return fmt.Sprintf("%s  %s  %s  %s",
		PhaseBadge(st.Phase),
		Bold(coach.FormatClock(st.RemainingSeconds)),
		RunningIndicator(st.Running),
		Dim(fmt.Sprintf("session %d", st.CompletedWorkSessions+1)),
	)
}

// FormatTimerHeader renders the boxed timer shown at the top of the TUI.
// total is the full length of the current phase in seconds.
func FormatTimerHeader(st engine.State, total, width int) string {
	var b strings.Builder
	b.WriteString(PhaseBadge(st.Phase))
	b.WriteString("   ")
	b.WriteString(RunningIndicator(st.Running))
	b.WriteString("\n\n")
	b.WriteString(PhaseStyle(st.Phase).Render(coach.FormatClock(st.RemainingSeconds)))
	b.WriteString("  ")

	barWidth := width - 30
	if barWidth > 40 {
		barWidth = 40
	}
	b.WriteString(RenderProgress(PhaseProgress(st.RemainingSeconds, total), barWidth))
	b.WriteString("\n")
	b.WriteString(Dim(fmt.Sprintf("Completed sessions: %d", st.CompletedWorkSessions)))
	return RenderBox("", b.String())
}

// PhaseProgress is the elapsed fraction of a phase.
func PhaseProgress(remaining, total int) float64 {
	if total <= 0 {
		return 0
	}
	return float64(total-remaining) / float64(total)
}

// FormatMessage renders one transcript entry. Flashcard messages show the
// back only when revealed is set.
func FormatMessage(m domain.ChatMessage, revealed bool) string {
	if m.Role == domain.RoleUser {
		return StyleBlue.Render("you") + Dim(" › ") + m.Content
	}

	var prefix string
	switch m.Kind {
	case domain.KindTimer:
		prefix = "⏱  "
	case domain.KindMotivation:
		prefix = "✨ "
	case domain.KindNotice:
		return Dim("ℹ  " + m.Content)
	}
	line := StylePurple.Render("coach") + Dim(" › ") + prefix + m.Content

	if m.Flashcard == nil {
		return line
	}
	card := "📚 " + Bold(m.Flashcard.Front)
	if revealed {
		card += "\n   " + StyleGreen.Render(m.Flashcard.Back)
	} else {
		card += "\n   " + Dim("(press ctrl+f to flip)")
	}
	return line + "\n   " + card
}
