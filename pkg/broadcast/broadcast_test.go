package broadcast_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/medicore/pkg/broadcast"
)

func TestPublishReachesOnlyTargetUser(t *testing.T) {
	hub := broadcast.NewHub()

	aliceCh, cancelAlice := hub.Subscribe(1)
	defer cancelAlice()
	bobCh, cancelBob := hub.Subscribe(2)
	defer cancelBob()

	hub.Publish(1, broadcast.Event{Name: "notifications", Payload: "hello"})

	select {
	case ev := <-aliceCh:
		assert.Equal(t, "notifications", ev.Name)
		assert.Equal(t, "hello", ev.Payload)
	default:
		t.Fatal("expected event for user 1")
	}

	select {
	case <-bobCh:
		t.Fatal("user 2 must not receive user 1's event")
	default:
	}
}

func TestMultipleSubscriptionsSameUser(t *testing.T) {
	hub := broadcast.NewHub()

	ch1, cancel1 := hub.Subscribe(7)
	defer cancel1()
	ch2, cancel2 := hub.Subscribe(7)
	defer cancel2()

	require.Equal(t, 2, hub.SubscriberCount(7))

	hub.Publish(7, broadcast.Event{Name: "orders", Payload: 42})

	for _, ch := range []<-chan broadcast.Event{ch1, ch2} {
		select {
		case ev := <-ch:
			assert.Equal(t, "orders", ev.Name)
		default:
			t.Fatal("both tabs of the same user should receive the event")
		}
	}
}

func TestCancelRemovesSubscription(t *testing.T) {
	hub := broadcast.NewHub()

	_, cancel := hub.Subscribe(3)
	require.Equal(t, 1, hub.SubscriberCount(3))

	cancel()
	assert.Equal(t, 0, hub.SubscriberCount(3))

	// Publishing to a user with no subscribers must not panic.
	hub.Publish(3, broadcast.Event{Name: "notifications"})
}

func TestSlowSubscriberDoesNotBlockPublisher(t *testing.T) {
	hub := broadcast.NewHub()

	ch, cancel := hub.Subscribe(5)
	defer cancel()

	// Overfill the buffer; Publish must never block and the newest
	// events must win over the oldest.
	for i := 0; i < 100; i++ {
		hub.Publish(5, broadcast.Event{Name: "notifications", Payload: i})
	}

	var received []int
	for {
		select {
		case ev := <-ch:
			received = append(received, ev.Payload.(int))
			continue
		default:
		}
		break
	}

	require.NotEmpty(t, received)
	assert.LessOrEqual(t, len(received), 16)
	assert.Equal(t, 99, received[len(received)-1], "newest event should survive the drops")
}
