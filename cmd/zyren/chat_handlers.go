package main

import (
	"context"
	"net/http"
	"strings"

	"github.com/zyren-ai/zyren/internal/assistant"
	"github.com/zyren-ai/zyren/internal/models"
	"github.com/zyren-ai/zyren/internal/session"
)

// POST /api/chat {message} -> {reply}; gateway faults answer with fallback text
func (s *server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req models.ChatRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if strings.TrimSpace(req.Message) == "" {
		writeError(w, http.StatusBadRequest, "message is empty")
		return
	}
	st := s.state(r)
	reply := s.reply(r.Context(), st, req.Message)
	writeJSON(w, models.ChatReply{Reply: reply})
}

// reply asks the assistant with the session's history and records the
// exchange when it succeeded.
func (s *server) reply(ctx context.Context, st *session.State, message string) string {
	text, err := s.assistant.Reply(ctx, s.history(st), message)
	if err != nil {
		s.log.Info("chat: answered with fallback", "session", st.ID, "error", err)
		return text
	}
	s.remember(st, message, text)
	return text
}

func (s *server) history(st *session.State) []assistant.Message {
	st.Lock()
	defer st.Unlock()
	return st.Chat.Messages()
}

// remember stores a successful exchange. Fallback answers are never stored.
func (s *server) remember(st *session.State, message, reply string) {
	st.Lock()
	defer st.Unlock()
	st.Chat.Append(assistant.RoleUser, message)
	st.Chat.Append(assistant.RoleModel, reply)
}

// POST /api/chat/reset -> forget the conversation
func (s *server) handleChatReset(w http.ResponseWriter, r *http.Request) {
	st := s.state(r)
	st.Lock()
	st.Chat.Reset()
	st.Unlock()
	w.WriteHeader(http.StatusNoContent)
}

// GET /api/chat/history -> [{role, text}]
func (s *server) handleChatHistory(w http.ResponseWriter, r *http.Request) {
	st := s.state(r)
	st.Lock()
	msgs := st.Chat.Messages()
	st.Unlock()
	if msgs == nil {
		msgs = []assistant.Message{}
	}
	writeJSON(w, msgs)
}
