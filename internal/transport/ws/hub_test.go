package ws

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func waitForMessage(t *testing.T, ch chan []byte) []byte {
	t.Helper()
	select {
	case data := <-ch:
		return data
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for hub message")
		return nil
	}
}

func TestHub_BroadcastToUser(t *testing.T) {
	hub := NewHub()

	conn := &Connection{ID: "c1", UserID: "u1", Send: make(chan []byte, 8), Hub: hub}
	other := &Connection{ID: "c2", UserID: "u2", Send: make(chan []byte, 8), Hub: hub}
	hub.Register(conn)
	hub.Register(other)

	hub.BroadcastToUser("u1", string(MsgIntelligenceUpdate), map[string]int{"totalInterviews": 3})

	data := waitForMessage(t, conn.Send)
	var msg Message
	require.NoError(t, json.Unmarshal(data, &msg))
	assert.Equal(t, MsgIntelligenceUpdate, msg.Type)
	assert.JSONEq(t, `{"totalInterviews":3}`, string(msg.Payload))

	// The other user's connection stays quiet
	select {
	case <-other.Send:
		t.Fatal("message leaked to another user")
	case <-time.After(100 * time.Millisecond):
	}
}

func TestHub_MultipleTabs(t *testing.T) {
	hub := NewHub()

	tab1 := &Connection{ID: "c1", UserID: "u1", Send: make(chan []byte, 8), Hub: hub}
	tab2 := &Connection{ID: "c2", UserID: "u1", Send: make(chan []byte, 8), Hub: hub}
	hub.Register(tab1)
	hub.Register(tab2)

	hub.BroadcastToUser("u1", string(MsgIntelligenceUpdate), map[string]int{"totalInterviews": 1})

	waitForMessage(t, tab1.Send)
	waitForMessage(t, tab2.Send)
}

func TestHub_UnregisterClosesSend(t *testing.T) {
	hub := NewHub()

	conn := &Connection{ID: "c1", UserID: "u1", Send: make(chan []byte, 8), Hub: hub}
	hub.Register(conn)
	hub.Unregister(conn)

	select {
	case _, open := <-conn.Send:
		assert.False(t, open)
	case <-time.After(2 * time.Second):
		t.Fatal("send channel never closed")
	}

	// Broadcasting to a user with no connections is a no-op
	hub.BroadcastToUser("u1", string(MsgIntelligenceUpdate), nil)
}
