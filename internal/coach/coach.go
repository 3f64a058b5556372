// Package coach interprets chat input and produces the assistant's replies.
package coach

import (
	"math/rand"
	"strings"

	"github.com/alexanderramin/studymate/internal/domain"
	"github.com/alexanderramin/studymate/internal/engine"
)

// IntentName enumerates what a chat message can ask for.
type IntentName string

const (
	IntentStart     IntentName = "start"
	IntentPause     IntentName = "pause"
	IntentResume    IntentName = "resume"
	IntentFlashcard IntentName = "flashcard"
	IntentMotivate  IntentName = "motivate"
	IntentStatus    IntentName = "status"
	IntentChat      IntentName = "chat"
)

// intentKeywords is checked in order; the first class with a keyword
// contained in the input wins.
var intentKeywords = []struct {
	intent IntentName
	words  []string
}{
	{IntentStart, []string{"start", "begin", "focus"}},
	{IntentPause, []string{"stop", "pause"}},
	{IntentResume, []string{"resume", "continue"}},
	{IntentFlashcard, []string{"flashcard", "quiz", "review"}},
	{IntentMotivate, []string{"motivate", "encourage", "help"}},
	{IntentStatus, []string{"status", "time"}},
}

// Classify maps free text to an intent by case-insensitive substring match.
func Classify(text string) IntentName {
	lower := strings.ToLower(text)
	for _, class := range intentKeywords {
		for _, w := range class.words {
			if strings.Contains(lower, w) {
				return class.intent
			}
		}
	}
	return IntentChat
}

// Picker chooses an index in [0, n). Tests inject a fixed picker.
type Picker interface {
	IntN(n int) int
}

type randPicker struct{}

func (randPicker) IntN(n int) int { return rand.Intn(n) }

// FixedPicker always picks the same index, clamped to the range.
type FixedPicker int

func (f FixedPicker) IntN(n int) int {
	i := int(f)
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}

// Reply is an assistant message produced by the coach.
type Reply struct {
	Intent    IntentName
	Kind      domain.MessageKind
	Text      string
	Flashcard *domain.CardFace
}

type Coach struct {
	picker Picker
}

// New returns a coach. A nil picker uses math/rand.
func New(picker Picker) *Coach {
	if picker == nil {
		picker = randPicker{}
	}
	return &Coach{picker: picker}
}

// Respond interprets text against the session held by e, applying any
// session command it implies. Call it under the Runner's lock so the state it
// reads and the command it applies are consistent.
func (c *Coach) Respond(text string, e *engine.Engine, cards []domain.Flashcard) (Reply, []engine.Effect) {
	intent := Classify(text)
	st := e.State()

	switch intent {
	case IntentStart:
		if st.Running {
			return textReply(intent, msgAlreadyActive), nil
		}
		effects := e.BeginFocus()
		return Reply{Intent: intent, Kind: domain.KindTimer, Text: startedMessage(e.Durations().WorkMin)}, effects

	case IntentPause:
		if !st.Running {
			return textReply(intent, msgNothingPaused), nil
		}
		return textReply(intent, msgPaused), e.Pause()

	case IntentResume:
		if st.Running || st.RemainingSeconds <= 0 {
			return textReply(intent, msgCannotResume), nil
		}
		return textReply(intent, msgResumed), e.Start()

	case IntentFlashcard:
		if len(cards) == 0 {
			return textReply(intent, msgNoFlashcards), nil
		}
		card := cards[c.picker.IntN(len(cards))]
		return Reply{
			Intent:    intent,
			Kind:      domain.KindFlashcard,
			Text:      msgFlashcard,
			Flashcard: &domain.CardFace{Front: card.Front, Back: card.Back},
		}, nil

	case IntentMotivate:
		return Reply{Intent: intent, Kind: domain.KindMotivation, Text: c.Motivation()}, nil

	case IntentStatus:
		if !st.Running {
			return textReply(intent, msgIdleStatus), nil
		}
		return textReply(intent, statusMessage(st.Phase.ChatName(), st.RemainingSeconds, st.CompletedWorkSessions+1)), nil
	}

	return textReply(IntentChat, c.pick(helpLines)), nil
}

// Motivation returns a random encouragement line.
func (c *Coach) Motivation() string {
	return c.pick(motivationalLines)
}

func (c *Coach) pick(lines []string) string {
	return lines[c.picker.IntN(len(lines))]
}

func textReply(intent IntentName, text string) Reply {
	return Reply{Intent: intent, Kind: domain.KindText, Text: text}
}
