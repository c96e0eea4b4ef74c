//go:build e2e

package test

import (
	"encoding/json"
	"net/http"
	"testing"
	"time"

	gorillaws "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type wsFrame struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

func dialWS(t *testing.T, wsURL, token string) *gorillaws.Conn {
	t.Helper()

	dialer := gorillaws.Dialer{HandshakeTimeout: 5 * time.Second}
	conn, _, err := dialer.Dial(wsURL+"?token="+token, nil)
	require.NoError(t, err, "could not establish WebSocket connection")
	t.Cleanup(func() {
		_ = conn.Close()
	})
	return conn
}

func sendWS(t *testing.T, conn *gorillaws.Conn, eventType string, data any) {
	t.Helper()
	frame := map[string]any{"type": eventType}
	if data != nil {
		frame["data"] = data
	}
	require.NoError(t, conn.WriteJSON(frame))
}

// readUntil drains frames until one of the wanted type arrives.
func readUntil(t *testing.T, conn *gorillaws.Conn, eventType string, timeout time.Duration) wsFrame {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().UTC().Add(timeout)))

	for {
		var frame wsFrame
		err := conn.ReadJSON(&frame)
		require.NoError(t, err, "expected a %s frame before the deadline", eventType)
		if frame.Type == eventType {
			return frame
		}
	}
}

func TestRealtimeChatE2E(t *testing.T) {
	env := SetupTestEnvironment(t)

	aliceToken := loginFor(t, env.Client, env.BaseURL, "Alice Chat", "alice.chat@example.com")
	bobToken := loginFor(t, env.Client, env.BaseURL, "Bob Chat", "bob.chat@example.com")

	alice := dialWS(t, env.WSURL, aliceToken)
	bob := dialWS(t, env.WSURL, bobToken)

	sendWS(t, alice, "user:join", map[string]string{"name": "Alice"})
	sendWS(t, bob, "user:join", map[string]string{"name": "Bob"})

	t.Run("presence reaches everyone", func(t *testing.T) {
		frame := readUntil(t, alice, "users:active", 3*time.Second)
		var present []map[string]any
		require.NoError(t, json.Unmarshal(frame.Data, &present))
		require.NotEmpty(t, present)
	})

	sendWS(t, alice, "room:join", map[string]string{"room_id": "standup"})
	sendWS(t, bob, "room:join", map[string]string{"room_id": "standup"})

	// Bob's join notice tells us both are in the room
	readUntil(t, alice, "message:notification", 3*time.Second)

	t.Run("room scoped chat", func(t *testing.T) {
		sendWS(t, alice, "message:send", map[string]string{"room_id": "standup", "text": "morning all"})

		for _, conn := range []*gorillaws.Conn{alice, bob} {
			frame := readUntil(t, conn, "message:received", 3*time.Second)
			var msg map[string]any
			require.NoError(t, json.Unmarshal(frame.Data, &msg))
			assert.Equal(t, "morning all", msg["text"])
			assert.Equal(t, "standup", msg["room_id"])
		}
	})

	t.Run("typing indicator excludes the sender", func(t *testing.T) {
		sendWS(t, alice, "user:typing", map[string]string{"room_id": "standup"})
		readUntil(t, bob, "user:typing", 3*time.Second)
	})

	t.Run("rest send relays into the room", func(t *testing.T) {
		ExecuteHTTPJSONStep(t, HTTPJSONStep{
			Name:           "send via REST",
			Method:         "POST",
			URL:            messagesEndpoint,
			Body:           map[string]string{"room_id": "standup", "text": "from the REST side"},
			Headers:        bearer(aliceToken),
			ExpectedStatus: http.StatusCreated,
		}, env.BaseURL)

		frame := readUntil(t, bob, "message:received", 3*time.Second)
		var msg map[string]any
		require.NoError(t, json.Unmarshal(frame.Data, &msg))
		assert.Equal(t, "from the REST side", msg["text"])

		// and the room history keeps it
		hist := ExecuteHTTPJSONStep(t, HTTPJSONStep{
			Name:           "room history",
			Method:         "GET",
			URL:            messagesEndpoint + "/room/standup",
			Headers:        bearer(aliceToken),
			ExpectedStatus: http.StatusOK,
		}, env.BaseURL)
		msgs := hist["messages"].([]any)
		require.NotEmpty(t, msgs)
	})

	t.Run("note notifications require subscription", func(t *testing.T) {
		sendWS(t, bob, "notify:subscribe", nil)
		// small pause so the subscription lands before the write
		time.Sleep(200 * time.Millisecond)

		ExecuteHTTPJSONStep(t, HTTPJSONStep{
			Name:           "create note triggers notification",
			Method:         "POST",
			URL:            notesEndpoint,
			Body:           map[string]any{"title": "Ping", "content": "pong"},
			Headers:        bearer(aliceToken),
			ExpectedStatus: http.StatusCreated,
		}, env.BaseURL)

		frame := readUntil(t, bob, "notification:note", 3*time.Second)
		var payload map[string]any
		require.NoError(t, json.Unmarshal(frame.Data, &payload))
		assert.Equal(t, "note_created", payload["type"])
	})

	t.Run("unauthenticated socket is refused", func(t *testing.T) {
		dialer := gorillaws.Dialer{HandshakeTimeout: 5 * time.Second}
		conn, resp, err := dialer.Dial(env.WSURL, nil)
		require.Error(t, err)
		if conn != nil {
			_ = conn.Close()
		}
		require.NotNil(t, resp)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})
}
