package main

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/zyren-ai/zyren/internal/models"
	"github.com/zyren-ai/zyren/internal/session"
)

const wsWriteWait = 10 * time.Second

type clientIn struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// GET /api/chat/ws -> streamed chat on the caller's session
func (s *server) handleChatWS(w http.ResponseWriter, r *http.Request) {
	st := s.state(r)
	// The upgrade response bypasses w, so carry a freshly issued cookie over.
	conn, err := s.upgrader.Upgrade(w, r, http.Header{"Set-Cookie": w.Header().Values("Set-Cookie")})
	if err != nil {
		s.log.Warn("ws: upgrade failed", "error", err)
		return
	}
	log := s.log.With("session", st.ID)
	log.Info("ws: connect", "from", r.RemoteAddr)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go func() {
		<-ctx.Done()
		_ = conn.Close()
	}()
	s.wsReader(ctx, conn, st, log)
	log.Info("ws: closed")
}

// wsReader is the only goroutine writing to conn.
func (s *server) wsReader(ctx context.Context, conn *websocket.Conn, st *session.State, log *slog.Logger) {
	for {
		var in clientIn
		if err := conn.ReadJSON(&in); err != nil {
			if ctx.Err() == nil && !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Debug("ws: read failed", "error", err)
			}
			return
		}

		switch in.Type {
		case models.WsSend:
			var body models.ChatRequest
			if err := json.Unmarshal(in.Data, &body); err != nil || strings.TrimSpace(body.Message) == "" {
				if !sendTo(conn, models.WsMsg{Type: models.WsError, Data: map[string]string{"message": "message is empty"}}) {
					return
				}
				continue
			}
			if !s.streamReply(ctx, conn, st, body.Message) {
				return
			}
		case models.WsReset:
			st.Lock()
			st.Chat.Reset()
			st.Unlock()
			if !sendTo(conn, models.WsMsg{Type: models.WsReset}) {
				return
			}
		default:
			log.Debug("ws: unknown message", "type", in.Type)
			if !sendTo(conn, models.WsMsg{Type: models.WsError, Data: map[string]string{"message": "unknown message type " + in.Type}}) {
				return
			}
		}
	}
}

// streamReply relays the answer as chunk frames and ends with done. When the
// assistant fell back, the fallback text travels only in the error frame.
func (s *server) streamReply(ctx context.Context, conn *websocket.Conn, st *session.State, message string) bool {
	ok := true
	text, err := s.assistant.Stream(ctx, s.history(st), message, func(chunk string) {
		if ok {
			ok = sendTo(conn, models.WsMsg{Type: models.WsChunk, Data: map[string]string{"text": chunk}})
		}
	})
	if !ok {
		return false
	}
	if err != nil {
		s.log.Info("chat: answered with fallback", "session", st.ID, "error", err)
		return sendTo(conn, models.WsMsg{Type: models.WsError, Data: map[string]string{"message": text}})
	}
	s.remember(st, message, text)
	return sendTo(conn, models.WsMsg{Type: models.WsDone, Data: map[string]string{"reply": text}})
}

func sendTo(conn *websocket.Conn, m models.WsMsg) bool {
	_ = conn.SetWriteDeadline(time.Now().Add(wsWriteWait))
	return conn.WriteJSON(m) == nil
}
