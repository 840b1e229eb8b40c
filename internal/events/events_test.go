package events

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubscribePublish(t *testing.T) {
	bus := NewEventBus()

	var received []*Event
	bus.Subscribe("booking_confirmed", func(e *Event) error {
		received = append(received, e)
		return nil
	})
	bus.Subscribe("booking_confirmed", func(e *Event) error {
		received = append(received, e)
		return nil
	})
	bus.Subscribe("booking_cancelled", func(e *Event) error {
		t.Fatal("handler for another type must not fire")
		return nil
	})

	bus.Publish(&Event{Type: "booking_confirmed", Payload: []byte(`{}`)})

	require.Len(t, received, 2)
	assert.Equal(t, "booking_confirmed", received[0].Type)
	assert.False(t, received[0].CreatedAt.IsZero())
}

func TestPublishJSON(t *testing.T) {
	bus := NewEventBus()

	var payload BookingEventPayload
	bus.Subscribe(EventBookingConfirmed, func(e *Event) error {
		return json.Unmarshal(e.Payload, &payload)
	})

	err := bus.PublishJSON(EventBookingConfirmed, BookingEventPayload{
		BookingID: "b1",
		Status:    "CONFIRMED",
		ChangedBy: "vendor",
	})
	require.NoError(t, err)
	assert.Equal(t, "b1", payload.BookingID)
	assert.Equal(t, "CONFIRMED", payload.Status)
}

func TestPublishJSONUnserializable(t *testing.T) {
	bus := NewEventBus()
	err := bus.PublishJSON("bad", make(chan int))
	assert.Error(t, err)
}

func TestHandlerErrorDoesNotStopOthers(t *testing.T) {
	bus := NewEventBus()

	var secondRan bool
	bus.Subscribe("evt", func(e *Event) error {
		return errors.New("handler failed")
	})
	bus.Subscribe("evt", func(e *Event) error {
		secondRan = true
		return nil
	})

	bus.Publish(&Event{Type: "evt"})
	assert.True(t, secondRan)
}

func TestPublishWithoutSubscribers(t *testing.T) {
	bus := NewEventBus()
	// Must not panic.
	bus.Publish(&Event{Type: "nobody_listens"})
	require.NoError(t, bus.PublishJSON("nobody_listens", struct{}{}))
}
