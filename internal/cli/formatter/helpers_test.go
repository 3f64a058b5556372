package formatter

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAgoFrom(t *testing.T) {
	now := time.Date(2026, 2, 7, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name  string
		input time.Time
		want  string
	}{
		{"zero", time.Time{}, "never"},
		{"seconds", now.Add(-10 * time.Second), "10 seconds ago"},
		{"minutes", now.Add(-25 * time.Minute), "25 minutes ago"},
		{"hours", now.Add(-3 * time.Hour), "3 hours ago"},
		{"days", now.Add(-3 * 24 * time.Hour), "3 days ago"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AgoFrom(tt.input, now))
		})
	}
}

func TestFormatMinutes(t *testing.T) {
	assert.Equal(t, "0m", FormatMinutes(0))
	assert.Equal(t, "0m", FormatMinutes(-5))
	assert.Equal(t, "25m", FormatMinutes(25))
	assert.Equal(t, "1h", FormatMinutes(60))
	assert.Equal(t, "1h 15m", FormatMinutes(75))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
	assert.Equal(t, "What is...", Truncate("What is the Pomodoro Technique?", 10))
	assert.Equal(t, "🍅🍅🍅...", Truncate("🍅🍅🍅🍅🍅🍅🍅", 6))
}

func TestTruncID(t *testing.T) {
	assert.Contains(t, TruncID("0123456789abcdef"), "01234567")
	assert.NotContains(t, TruncID("0123456789abcdef"), "89")
	assert.Contains(t, TruncID("1"), "1")
}

func TestOrdinal(t *testing.T) {
	assert.Equal(t, "1st", Ordinal(1))
	assert.Equal(t, "2nd", Ordinal(2))
	assert.Equal(t, "4th", Ordinal(4))
}

func TestRenderTable(t *testing.T) {
	out := RenderTable([]string{"ID", "FRONT"}, [][]string{
		{"1", "What is the Pomodoro Technique?"},
		{"22", "Why take breaks?"},
	})
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	assert.Len(t, lines, 4)
	assert.Contains(t, lines[0], "FRONT")
	assert.Contains(t, lines[1], "──")
	assert.Equal(t, strings.Index(lines[2], "What"), strings.Index(lines[3], "Why"), "columns align")

	assert.Empty(t, RenderTable(nil, nil))
}

func TestRenderBox(t *testing.T) {
	out := RenderBox("Flashcards", "body")
	assert.Contains(t, out, "FLASHCARDS")
	assert.Contains(t, out, "body")
	assert.Contains(t, out, "╭")
}
