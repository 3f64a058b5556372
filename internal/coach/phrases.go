package coach

import "fmt"

var motivationalLines = []string{
	"You're doing great! Keep up the amazing work!",
	"Stay focused! Every minute of study brings you closer to your goals.",
	"Remember why you started. You've got this!",
	"Your dedication is impressive. Keep pushing forward!",
	"You're building your future with every study session.",
	"Great job staying focused! Your hard work will pay off.",
	"Keep going! Success is just around the corner.",
	"You're making excellent progress. Don't give up now!",
}

var helpLines = []string{
	"I'm here to help you study! You can ask me to 'start' a session, show a 'flashcard', give you 'motivation', or check your 'status'.",
	"Let's make today productive! Try asking me to start a focus session or review a flashcard.",
	"I'm your study companion! I can help you with focus sessions, flashcards, and motivation. What would you like to do?",
}

const (
	msgAlreadyActive = "You already have an active session! Keep going, you're doing great!"
	msgPaused        = "Session paused. Take a moment if you need it, but remember your goals! Type 'resume' when you're ready."
	msgNothingPaused = "No active session to pause. Type 'start' when you want to begin!"
	msgResumed       = "Welcome back! Resuming your session. Let's finish strong! 💪"
	msgCannotResume  = "Type 'start' to begin a new focus session!"
	msgFlashcard     = "Here's a flashcard to review! Click on it to flip between question and answer."
	msgNoFlashcards  = "You don't have any flashcards yet. Add some in the settings menu!"
	msgIdleStatus    = "No active session. Type 'start' to begin a focus session!"

	// VoiceUnsupported is posted once when speech is requested but unavailable.
	VoiceUnsupported = "Voice motivation is not supported on this system."
)

func startedMessage(workMin int) string {
	return fmt.Sprintf("🚀 Let's get started! Your %d-minute focus session is now active. I'll be here to keep you motivated!", workMin)
}

func statusMessage(phaseName string, remaining, session int) string {
	return fmt.Sprintf("⏱️ Current %s session: %s remaining. You're on session %d!",
		phaseName, FormatClock(remaining), session)
}

// FormatClock renders seconds as M:SS.
func FormatClock(seconds int) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%d:%02d", seconds/60, seconds%60)
}
