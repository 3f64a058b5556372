package engine

import (
	"fmt"

	"github.com/alexanderramin/studymate/internal/domain"
)

func longBreakMessage(longMin int) string {
	return fmt.Sprintf("🎉 Amazing work! You've completed %d focus sessions. Time for a well-deserved %d-minute long break!",
		domain.LongBreakEvery, longMin)
}

func shortBreakMessage(shortMin int) string {
	return fmt.Sprintf("✨ Great job! Focus session complete. Take a %d-minute break to recharge.", shortMin)
}

func backToFocusMessage(workMin int) string {
	return fmt.Sprintf("💪 Break's over! Ready to crush another %d-minute focus session? Let's do this!", workMin)
}
