package realtime

import (
	"encoding/json"
	"io"
	"log/slog"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHub() *Hub {
	return NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestHubPublish(t *testing.T) {
	t.Run("delivers to joined subscribers", func(t *testing.T) {
		hub := newTestHub()
		channel := UserChannel(uuid.New())

		sub1 := NewSubscriber(4)
		sub2 := NewSubscriber(4)
		hub.Join(sub1, channel)
		hub.Join(sub2, channel)

		err := hub.Publish(channel, EventNewNotification, map[string]string{"hello": "world"})
		require.NoError(t, err)

		for _, sub := range []*Subscriber{sub1, sub2} {
			select {
			case msg := <-sub.C:
				assert.Equal(t, EventNewNotification, msg.Event)
				var payload map[string]string
				require.NoError(t, json.Unmarshal(msg.Payload, &payload))
				assert.Equal(t, "world", payload["hello"])
			default:
				t.Fatal("expected a buffered message")
			}
		}
	})

	t.Run("returns ErrNoSubscribers on empty channel", func(t *testing.T) {
		hub := newTestHub()

		err := hub.Publish(UserChannel(uuid.New()), EventNewNotification, "payload")
		assert.ErrorIs(t, err, ErrNoSubscribers)
	})

	t.Run("does not deliver across channels", func(t *testing.T) {
		hub := newTestHub()
		sub := NewSubscriber(4)
		hub.Join(sub, WorkspaceChannel(uuid.New()))

		err := hub.Publish(WorkspaceChannel(uuid.New()), EventWorkspaceNotification, "payload")
		assert.ErrorIs(t, err, ErrNoSubscribers)
		assert.Empty(t, sub.C)
	})

	t.Run("drops events for full subscriber buffers", func(t *testing.T) {
		hub := newTestHub()
		channel := UserChannel(uuid.New())
		sub := NewSubscriber(1)
		hub.Join(sub, channel)

		require.NoError(t, hub.Publish(channel, EventNewNotification, 1))
		// Buffer is full; this one is dropped, not blocked on
		require.NoError(t, hub.Publish(channel, EventNewNotification, 2))

		assert.Len(t, sub.C, 1)
	})
}

func TestHubLeave(t *testing.T) {
	t.Run("leave removes subscriber from channel", func(t *testing.T) {
		hub := newTestHub()
		channel := UserChannel(uuid.New())
		sub := NewSubscriber(4)

		hub.Join(sub, channel)
		hub.Leave(sub, channel)

		err := hub.Publish(channel, EventNewNotification, "payload")
		assert.ErrorIs(t, err, ErrNoSubscribers)
	})

	t.Run("leave all removes subscriber everywhere", func(t *testing.T) {
		hub := newTestHub()
		userCh := UserChannel(uuid.New())
		wsCh := WorkspaceChannel(uuid.New())
		sub := NewSubscriber(4)

		hub.Join(sub, userCh)
		hub.Join(sub, wsCh)
		hub.LeaveAll(sub)

		assert.ErrorIs(t, hub.Publish(userCh, EventNewNotification, "p"), ErrNoSubscribers)
		assert.ErrorIs(t, hub.Publish(wsCh, EventWorkspaceNotification, "p"), ErrNoSubscribers)
	})

	t.Run("leaving an unjoined channel is a no-op", func(t *testing.T) {
		hub := newTestHub()
		hub.Leave(NewSubscriber(1), "nowhere")
	})
}

func TestChannelNames(t *testing.T) {
	userID := uuid.MustParse("11111111-2222-3333-4444-555555555555")
	assert.Equal(t, "user-11111111-2222-3333-4444-555555555555", UserChannel(userID))
	assert.Equal(t, "workspace-11111111-2222-3333-4444-555555555555", WorkspaceChannel(userID))
}
