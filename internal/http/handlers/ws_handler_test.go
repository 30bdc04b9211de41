package handlers

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/ads-marketplace/adcopy/internal/config"
	"github.com/ads-marketplace/adcopy/internal/events"
	"github.com/gofiber/contrib/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type recordingConn struct {
	mu   sync.Mutex
	msgs []events.Event
}

func (r *recordingConn) WriteMessage(messageType int, data []byte) error {
	var e events.Event
	if err := json.Unmarshal(data, &e); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if messageType == websocket.TextMessage {
		r.msgs = append(r.msgs, e)
	}
	return nil
}

func (r *recordingConn) received() []events.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]events.Event(nil), r.msgs...)
}

func TestWSHubDeliversToSubjectOnly(t *testing.T) {
	bus := events.NewMemoryBus()
	hub := NewWSHub(&config.Config{}, bus, zap.NewNop())
	require.NoError(t, hub.Start(context.Background()))

	alice1, alice2, bob := &recordingConn{}, &recordingConn{}, &recordingConn{}
	hub.register("alice", alice1)
	hub.register("alice", alice2)
	hub.register("bob", bob)

	ev := events.Event{
		Type:    events.EventPlatformGenerated,
		Subject: "alice",
		Payload: map[string]any{"run_id": "r1", "platform": "Facebook"},
	}
	require.NoError(t, bus.Publish(context.Background(), events.StreamGeneration, ev))

	for _, c := range []*recordingConn{alice1, alice2} {
		got := c.received()
		require.Len(t, got, 1)
		assert.Equal(t, events.EventPlatformGenerated, got[0].Type)
		assert.Equal(t, "alice", got[0].Subject)
		assert.Equal(t, "Facebook", got[0].Payload["platform"])
	}
	assert.Empty(t, bob.received())
}

func TestWSHubDropsEventsWithoutSubject(t *testing.T) {
	bus := events.NewMemoryBus()
	hub := NewWSHub(&config.Config{}, bus, zap.NewNop())
	require.NoError(t, hub.Start(context.Background()))

	conn := &recordingConn{}
	hub.register("", conn)
	hub.register("alice", &recordingConn{})

	require.NoError(t, bus.Publish(context.Background(), events.StreamGeneration, events.Event{Type: events.EventGenerationCompleted}))
	assert.Empty(t, conn.received())
}

func TestWSHubUnregister(t *testing.T) {
	bus := events.NewMemoryBus()
	hub := NewWSHub(&config.Config{}, bus, zap.NewNop())
	require.NoError(t, hub.Start(context.Background()))

	first, second := &recordingConn{}, &recordingConn{}
	wc1 := hub.register("alice", first)
	wc2 := hub.register("alice", second)

	hub.unregister("alice", wc1)
	hub.SendToSubject("alice", events.Event{Type: events.EventGenerationCompleted, Subject: "alice"})
	assert.Empty(t, first.received())
	assert.Len(t, second.received(), 1)

	hub.unregister("alice", wc2)
	hub.mu.RLock()
	_, ok := hub.connections["alice"]
	hub.mu.RUnlock()
	assert.False(t, ok, "subject entry is removed with its last connection")
}
