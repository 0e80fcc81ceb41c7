package main

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/zyren-ai/zyren/internal/assistant"
	"github.com/zyren-ai/zyren/internal/config"
	"github.com/zyren-ai/zyren/internal/logging"
	"github.com/zyren-ai/zyren/internal/metrics"
	"github.com/zyren-ai/zyren/internal/models"
	"github.com/zyren-ai/zyren/internal/predict"
	"github.com/zyren-ai/zyren/internal/session"
)

const maxBodyBytes = 1 << 20

type server struct {
	cfg       *config.Settings
	sessions  *session.Store
	cookies   *session.Cookies
	assistant *assistant.Service
	metrics   *metrics.Metrics
	log       *slog.Logger
	upgrader  websocket.Upgrader
}

func newServer(s *config.Settings, m *metrics.Metrics, b assistant.Backend) (*server, error) {
	engineCfg, err := s.EngineConfig()
	if err != nil {
		return nil, err
	}
	cookies, err := session.NewCookies(session.CookieConfig{
		Name:   s.Session.Cookie,
		Secret: s.Session.Secret,
		TTL:    s.Session.TTL,
		Secure: s.Session.Secure,
	})
	if err != nil {
		return nil, err
	}
	store := session.NewStore(session.StoreConfig{
		TTL:          s.Session.TTL,
		HistoryLimit: s.Gemini.HistoryLimit,
		NewEngine:    func() *predict.Engine { return predict.New(engineCfg, nil) },
		Metrics:      m,
	})
	svc := assistant.NewService(b, assistant.Options{
		RatePerMinute: s.Gemini.RatePerMinute,
		Timeout:       s.Gemini.Timeout,
		Metrics:       m,
	})
	return &server{
		cfg:       s,
		sessions:  store,
		cookies:   cookies,
		assistant: svc,
		metrics:   m,
		log:       logging.New("http"),
		upgrader:  websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }},
	}, nil
}

func (s *server) routes() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/api/healthz", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, map[string]string{"status": "ok"})
	}).Methods(http.MethodGet)
	r.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	api.Use(s.cookies.Middleware)

	api.HandleFunc("/predictor", s.handlePredictor).Methods(http.MethodGet)
	api.HandleFunc("/predictor/draft", s.handleDraft).Methods(http.MethodPut)
	api.HandleFunc("/predictor/roster", s.handleRoster).Methods(http.MethodPost)
	api.HandleFunc("/predictor/extend", s.handleExtend).Methods(http.MethodPost)
	api.HandleFunc("/predictor/override", s.handleOverride).Methods(http.MethodPost)
	api.HandleFunc("/predictor/reset", s.handlePredictorReset).Methods(http.MethodPost)

	api.HandleFunc("/chat", s.handleChat).Methods(http.MethodPost)
	api.HandleFunc("/chat/reset", s.handleChatReset).Methods(http.MethodPost)
	api.HandleFunc("/chat/history", s.handleChatHistory).Methods(http.MethodGet)
	api.HandleFunc("/chat/ws", s.handleChatWS).Methods(http.MethodGet)

	api.HandleFunc("/image", s.handleImage).Methods(http.MethodPost)

	// Serve the web client from the public dir at root
	r.PathPrefix("/").Handler(http.FileServer(http.Dir(s.cfg.Server.PublicDir))).Methods(http.MethodGet, http.MethodHead)
	return withCORS(s.cfg.Server.CORSOrigin, r)
}

// state returns the session resolved by the cookie middleware.
func (s *server) state(r *http.Request) *session.State {
	id, _ := session.IDFrom(r.Context())
	return s.sessions.Get(id)
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeErrorBody(w, models.ErrorBody{Message: msg, Status: code})
}

func writeErrorBody(w http.ResponseWriter, body models.ErrorBody) {
	body.Error = http.StatusText(body.Status)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(body.Status)
	_ = json.NewEncoder(w).Encode(body)
}

// decodeJSON reads a bounded JSON body into v, answering 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body: "+err.Error())
		return false
	}
	return true
}

// withCORS allows origin to call the API. Sessions ride on a cookie, so a
// named origin is also allowed credentials; browsers never send credentials to
// a "*" origin, which therefore only suits a same-origin client.
func withCORS(origin string, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		if origin != "*" {
			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Add("Vary", "Origin")
		}
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
