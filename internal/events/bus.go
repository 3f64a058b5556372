// Package events fans session, chat and settings changes out to the
// surfaces (TUI, websocket clients) over an in-process pub/sub.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/alexanderramin/studymate/internal/domain"
	"github.com/alexanderramin/studymate/internal/engine"
)

// Topic carries every companion event.
const Topic = "studymate.events"

// Type identifies an event.
type Type string

const (
	SessionTick      Type = "session.tick"
	SessionReset     Type = "session.reset"
	SessionRunning   Type = "session.running"
	PhaseCompleted   Type = "session.phase_completed"
	PhaseChanged     Type = "session.phase_changed"
	ChatMessage      Type = "chat.message"
	AudioCue         Type = "audio.cue"
	SettingsUpdated  Type = "settings.updated"
	GenerationFailed Type = "flashcards.generation_failed"
)

// Event is the JSON payload published on Topic.
type Event struct {
	Type     Type                  `json:"type"`
	At       time.Time             `json:"at"`
	Session  *engine.State         `json:"session,omitempty"`
	Phase    domain.Phase          `json:"phase,omitempty"`
	Message  *domain.ChatMessage   `json:"message,omitempty"`
	Settings *domain.StudySettings `json:"settings,omitempty"`
	AudioURL string                `json:"audioUrl,omitempty"`
	Error    string                `json:"error,omitempty"`
}

// Bus publishes events to every current subscriber in order.
type Bus struct {
	pubsub *gochannel.GoChannel
	log    zerolog.Logger
}

func NewBus(log zerolog.Logger) *Bus {
	return &Bus{
		pubsub: gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer: 64,
			// Keeps delivery order equal to publish order.
			BlockPublishUntilSubscriberAck: true,
		}, watermill.NopLogger{}),
		log: log.With().Str("component", "events").Logger(),
	}
}

// Publish stamps and sends ev. With no subscribers it is dropped.
func (b *Bus) Publish(ev Event) error {
	if ev.At.IsZero() {
		ev.At = time.Now().UTC()
	}
	payload, err := json.Marshal(ev)
	if err != nil {
		return fmt.Errorf("encoding %s event: %w", ev.Type, err)
	}
	msg := message.NewMessage(uuid.NewString(), payload)
	msg.Metadata.Set("type", string(ev.Type))
	if err := b.pubsub.Publish(Topic, msg); err != nil {
		return fmt.Errorf("publishing %s event: %w", ev.Type, err)
	}
	return nil
}

// Subscribe returns a channel of decoded events that closes when ctx ends or
// the bus closes. A subscriber that falls more than buffer events behind
// loses events rather than stalling publishers.
func (b *Bus) Subscribe(ctx context.Context, buffer int) (<-chan Event, error) {
	if buffer <= 0 {
		buffer = 1
	}
	msgs, err := b.pubsub.Subscribe(ctx, Topic)
	if err != nil {
		return nil, fmt.Errorf("subscribing to %s: %w", Topic, err)
	}

	out := make(chan Event, buffer)
	go func() {
		defer close(out)
		for msg := range msgs {
			var ev Event
			if err := json.Unmarshal(msg.Payload, &ev); err != nil {
				b.log.Warn().Err(err).Str("message_uuid", msg.UUID).Msg("dropping undecodable event")
				msg.Ack()
				continue
			}
			select {
			case out <- ev:
			default:
				b.log.Debug().Str("type", string(ev.Type)).Msg("subscriber behind, event dropped")
			}
			msg.Ack()
		}
	}()
	return out, nil
}

func (b *Bus) Close() error {
	return b.pubsub.Close()
}
