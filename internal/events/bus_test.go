package events

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/studymate/internal/domain"
	"github.com/alexanderramin/studymate/internal/engine"
)

func receive(t *testing.T, ch <-chan Event) Event {
	t.Helper()
	select {
	case ev, ok := <-ch:
		require.True(t, ok, "channel closed")
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return Event{}
	}
}

func TestBus_DeliversInOrderToEverySubscriber(t *testing.T) {
	bus := NewBus(zerolog.Nop())
	defer bus.Close()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	a, err := bus.Subscribe(ctx, 16)
	require.NoError(t, err)
	b, err := bus.Subscribe(ctx, 16)
	require.NoError(t, err)

	for i := 3; i > 0; i-- {
		st := engine.State{Phase: domain.PhaseWork, RemainingSeconds: i, Running: true}
		require.NoError(t, bus.Publish(Event{Type: SessionTick, Session: &st}))
	}

	for _, ch := range []<-chan Event{a, b} {
		for want := 3; want > 0; want-- {
			ev := receive(t, ch)
			assert.Equal(t, SessionTick, ev.Type)
			require.NotNil(t, ev.Session)
			assert.Equal(t, want, ev.Session.RemainingSeconds)
			assert.False(t, ev.At.IsZero())
		}
	}
}

func TestBus_CarriesChatMessage(t *testing.T) {
	bus := NewBus(zerolog.Nop())
	defer bus.Close()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch, err := bus.Subscribe(ctx, 4)
	require.NoError(t, err)

	msg := domain.ChatMessage{
		ID:        "m1",
		Role:      domain.RoleAssistant,
		Content:   "Here's a flashcard",
		Kind:      domain.KindFlashcard,
		Timestamp: time.Now().UTC(),
		Flashcard: &domain.CardFace{Front: "Q", Back: "A"},
	}
	require.NoError(t, bus.Publish(Event{Type: ChatMessage, Message: &msg}))

	ev := receive(t, ch)
	require.NotNil(t, ev.Message)
	assert.Equal(t, "m1", ev.Message.ID)
	assert.Equal(t, domain.CardFace{Front: "Q", Back: "A"}, *ev.Message.Flashcard)
}

func TestBus_SubscriptionClosesWithContext(t *testing.T) {
	bus := NewBus(zerolog.Nop())
	defer bus.Close()
	ctx, cancel := context.WithCancel(context.Background())

	ch, err := bus.Subscribe(ctx, 1)
	require.NoError(t, err)
	cancel()

	assert.Eventually(t, func() bool {
		select {
		case _, ok := <-ch:
			return !ok
		default:
			return false
		}
	}, 2*time.Second, time.Millisecond)
}

func TestBus_PublishWithoutSubscribers(t *testing.T) {
	bus := NewBus(zerolog.Nop())
	defer bus.Close()

	assert.NoError(t, bus.Publish(Event{Type: SettingsUpdated}))
}
