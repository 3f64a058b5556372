package service

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/studymate/internal/coach"
	"github.com/alexanderramin/studymate/internal/domain"
	"github.com/alexanderramin/studymate/internal/engine"
	"github.com/alexanderramin/studymate/internal/events"
)

// Send records the user's message, lets the coach act on it and returns the
// assistant's reply.
func (c *Companion) Send(ctx context.Context, text string) (reply domain.ChatMessage, err error) {
	fields := map[string]any{}
	done := c.observe(ctx, "chat", fields)
	defer func() { done(err) }()

	text = strings.TrimSpace(text)
	if text == "" {
		return domain.ChatMessage{}, ErrEmptyMessage
	}
	c.appendMessage(newMessage(domain.RoleUser, domain.KindText, text, nil))

	cards := c.Flashcards()
	var r coach.Reply
	c.runner.Do(func(e *engine.Engine) []engine.Effect {
		var effects []engine.Effect
		r, effects = c.coach.Respond(text, e, cards)
		return effects
	})
	fields["intent"] = string(r.Intent)

	return c.appendMessage(newMessage(domain.RoleAssistant, r.Kind, r.Text, r.Flashcard)), nil
}

// Messages returns a copy of the transcript, oldest first.
func (c *Companion) Messages() []domain.ChatMessage {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.ChatMessage, len(c.messages))
	copy(out, c.messages)
	return out
}

func newMessage(role domain.MessageRole, kind domain.MessageKind, text string, card *domain.CardFace) domain.ChatMessage {
	if kind == "" {
		kind = domain.KindText
	}
	return domain.ChatMessage{
		ID:        uuid.NewString(),
		Role:      role,
		Content:   text,
		Kind:      kind,
		Timestamp: time.Now().UTC(),
		Flashcard: card,
	}
}

// appendMessage adds msg to the transcript, publishes it and speaks
// assistant messages when voice is on. Notices are never spoken.
func (c *Companion) appendMessage(msg domain.ChatMessage) domain.ChatMessage {
	c.mu.Lock()
	c.messages = append(c.messages, msg)
	if len(c.messages) > maxTranscript {
		c.messages = append([]domain.ChatMessage(nil), c.messages[len(c.messages)-maxTranscript:]...)
	}
	speak := msg.Role == domain.RoleAssistant && msg.Kind != domain.KindNotice && c.settings.VoiceEnabled
	voice := c.settings.VoiceSettings
	c.mu.Unlock()

	c.publish(events.Event{Type: events.ChatMessage, Message: &msg})
	if speak {
		c.voice.Say(msg.Content, voice)
	}
	return msg
}
