package main

import (
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zyren-ai/zyren/internal/assistant"
	"github.com/zyren-ai/zyren/internal/models"
)

type wsFrame struct {
	Type string            `json:"type"`
	Data map[string]string `json:"data"`
}

func dialChat(t *testing.T, env *testEnv) *websocket.Conn {
	t.Helper()
	// Establish the session cookie over plain HTTP first.
	env.do(t, env.client, http.MethodGet, "/api/predictor", nil)

	dialer := websocket.Dialer{Jar: env.client.Jar, HandshakeTimeout: 5 * time.Second}
	url := "ws" + strings.TrimPrefix(env.ts.URL, "http") + "/api/chat/ws"
	conn, resp, err := dialer.Dial(url, nil)
	require.NoError(t, err)
	resp.Body.Close()
	t.Cleanup(func() { conn.Close() })
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	return conn
}

func readUntil(t *testing.T, conn *websocket.Conn, types ...string) []wsFrame {
	t.Helper()
	var frames []wsFrame
	for {
		var f wsFrame
		require.NoError(t, conn.ReadJSON(&f))
		frames = append(frames, f)
		for _, typ := range types {
			if f.Type == typ {
				return frames
			}
		}
	}
}

func TestChatWSStreams(t *testing.T) {
	env := newTestEnv(t, &stubBackend{chunks: []string{"Ha", "lo", "!"}})
	conn := dialChat(t, env)

	require.NoError(t, conn.WriteJSON(models.WsMsg{Type: models.WsSend, Data: map[string]string{"message": "hai"}}))
	frames := readUntil(t, conn, models.WsDone, models.WsError)
	require.Len(t, frames, 4)
	var text strings.Builder
	for _, f := range frames[:3] {
		assert.Equal(t, models.WsChunk, f.Type)
		text.WriteString(f.Data["text"])
	}
	assert.Equal(t, "Halo!", text.String())
	assert.Equal(t, models.WsDone, frames[3].Type)
	assert.Equal(t, "Halo!", frames[3].Data["reply"])

	// The websocket shares the cookie session with the HTTP API.
	_, body := env.do(t, env.client, http.MethodGet, "/api/chat/history", nil)
	assert.Contains(t, string(body), `"text": "Halo!"`)

	require.NoError(t, conn.WriteJSON(models.WsMsg{Type: models.WsReset}))
	frames = readUntil(t, conn, models.WsReset)
	assert.Len(t, frames, 1)
	_, body = env.do(t, env.client, http.MethodGet, "/api/chat/history", nil)
	assert.JSONEq(t, `[]`, string(body))
}

func TestChatWSFallback(t *testing.T) {
	env := newTestEnv(t, &stubBackend{err: errors.New("boom")})
	conn := dialChat(t, env)

	require.NoError(t, conn.WriteJSON(models.WsMsg{Type: models.WsSend, Data: map[string]string{"message": "hai"}}))
	frames := readUntil(t, conn, models.WsDone, models.WsError)
	require.Len(t, frames, 1)
	assert.Equal(t, models.WsError, frames[0].Type)
	assert.Equal(t, assistant.FallbackError, frames[0].Data["message"])
}

// A stream that breaks midway keeps its chunks and shows the fallback once.
func TestChatWSFallbackAfterPartialStream(t *testing.T) {
	env := newTestEnv(t, &stubBackend{chunks: []string{"Ha", "lo"}, err: errors.New("stream broke")})
	conn := dialChat(t, env)

	require.NoError(t, conn.WriteJSON(models.WsMsg{Type: models.WsSend, Data: map[string]string{"message": "hai"}}))
	frames := readUntil(t, conn, models.WsDone, models.WsError)
	require.Len(t, frames, 3)
	assert.Equal(t, "Ha", frames[0].Data["text"])
	assert.Equal(t, "lo", frames[1].Data["text"])
	assert.Equal(t, models.WsError, frames[2].Type)
	assert.Equal(t, assistant.FallbackError, frames[2].Data["message"])

	var fallbacks int
	for _, f := range frames {
		fallbacks += strings.Count(f.Data["text"]+f.Data["message"], assistant.FallbackError)
	}
	assert.Equal(t, 1, fallbacks)

	_, body := env.do(t, env.client, http.MethodGet, "/api/chat/history", nil)
	assert.JSONEq(t, `[]`, string(body))
}

func TestChatWSRejectsBadFrames(t *testing.T) {
	env := newTestEnv(t, &stubBackend{})
	conn := dialChat(t, env)

	require.NoError(t, conn.WriteJSON(models.WsMsg{Type: models.WsSend, Data: map[string]string{"message": " "}}))
	frames := readUntil(t, conn, models.WsError)
	assert.Equal(t, "message is empty", frames[0].Data["message"])

	require.NoError(t, conn.WriteJSON(models.WsMsg{Type: "dance"}))
	frames = readUntil(t, conn, models.WsError)
	assert.Contains(t, frames[0].Data["message"], "dance")
}
