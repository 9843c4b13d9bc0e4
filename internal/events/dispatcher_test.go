package events

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDispatcherDeliversToSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()
	var got []string
	d.Subscribe(EventLoginFailed, func(_ context.Context, e Event) error {
		got = append(got, "first:"+e.Subject)
		return errors.New("sink down")
	})
	d.Subscribe(EventLoginFailed, func(_ context.Context, e Event) error {
		got = append(got, "second:"+e.Subject)
		return nil
	})
	d.Subscribe(EventLoginSucceeded, func(context.Context, Event) error {
		got = append(got, "wrong type")
		return nil
	})

	err := d.Publish(context.Background(), Event{Type: EventLoginFailed, Subject: "alice@example.com"})

	assert.EqualError(t, err, "sink down")
	assert.Equal(t, []string{"first:alice@example.com", "second:alice@example.com"}, got)
}

func TestDispatcherNoSubscribers(t *testing.T) {
	d := NewInMemoryDispatcher()
	assert.NoError(t, d.Publish(context.Background(), Event{Type: EventUserRegistered}))
}
