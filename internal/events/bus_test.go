package events

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBusPublishReachesAllSubscribers(t *testing.T) {
	bus := NewBus()

	ch1, unsub1 := bus.Subscribe()
	ch2, unsub2 := bus.Subscribe()
	defer unsub1()
	defer unsub2()

	bus.Publish(Event{Type: TypeItemFound, ItemID: "abc", FoundCount: 1, Total: 10})

	for _, ch := range []chan Event{ch1, ch2} {
		select {
		case ev := <-ch:
			assert.Equal(t, TypeItemFound, ev.Type)
			assert.Equal(t, "abc", ev.ItemID)
			assert.False(t, ev.Timestamp.IsZero(), "Publish should stamp the event")
		case <-time.After(time.Second):
			t.Fatal("subscriber did not receive event")
		}
	}
}

func TestBusUnsubscribeClosesChannel(t *testing.T) {
	bus := NewBus()

	ch, unsub := bus.Subscribe()
	require.Equal(t, 1, bus.SubscriberCount())

	unsub()
	assert.Equal(t, 0, bus.SubscriberCount())

	_, open := <-ch
	assert.False(t, open, "channel should be closed after unsubscribe")

	// Publishing with no subscribers must not panic.
	bus.Publish(Event{Type: TypeReset})
}

func TestBusSlowSubscriberDoesNotBlock(t *testing.T) {
	bus := NewBus()

	_, unsub := bus.Subscribe()
	defer unsub()

	done := make(chan struct{})
	go func() {
		// Overflow the subscriber buffer; Publish must never block.
		for i := 0; i < 100; i++ {
			bus.Publish(Event{Type: TypeItemFound, FoundCount: i})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Publish blocked on a slow subscriber")
	}
}
