package session

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/securecookie"
	"github.com/gorilla/sessions"

	"github.com/zyren-ai/zyren/internal/logging"
)

const idKey = "id"

type ctxKey struct{}

// CookieConfig configures the session cookie.
type CookieConfig struct {
	Name   string
	Secret string // empty generates a per-process key
	TTL    time.Duration
	Secure bool
}

// Cookies issues and reads the signed cookie carrying the session ID.
type Cookies struct {
	store *sessions.CookieStore
	name  string
}

func NewCookies(cfg CookieConfig) (*Cookies, error) {
	if cfg.Name == "" {
		return nil, errors.New("session: cookie name is required")
	}
	key := []byte(cfg.Secret)
	if len(key) == 0 {
		key = securecookie.GenerateRandomKey(32)
		if key == nil {
			return nil, errors.New("session: cannot generate cookie key")
		}
		logging.New("session").Warn("session: no secret configured, cookies will not survive a restart")
	}
	store := sessions.NewCookieStore(key)
	store.Options = &sessions.Options{
		Path:     "/",
		MaxAge:   int(cfg.TTL / time.Second),
		HttpOnly: true,
		Secure:   cfg.Secure,
		SameSite: http.SameSiteLaxMode,
	}
	return &Cookies{store: store, name: cfg.Name}, nil
}

// ID returns the session ID of r, issuing a new cookie on w when r has none
// or carries one that fails verification. A valid cookie is written again so
// its MaxAge slides with the server-side TTL.
func (c *Cookies) ID(w http.ResponseWriter, r *http.Request) (string, error) {
	// A cookie that fails to decode still yields a usable new session.
	sess, _ := c.store.Get(r, c.name)
	id, _ := sess.Values[idKey].(string)
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.NewString()
		sess.Values[idKey] = id
	}
	if err := sess.Save(r, w); err != nil {
		return "", err
	}
	return id, nil
}

// Middleware resolves the session ID and stores it in the request context.
func (c *Cookies) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, err := c.ID(w, r)
		if err != nil {
			http.Error(w, "session unavailable", http.StatusInternalServerError)
			return
		}
		next.ServeHTTP(w, r.WithContext(WithID(r.Context(), id)))
	})
}

// WithID attaches a session ID to ctx.
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxKey{}, id)
}

// IDFrom returns the session ID placed by Middleware.
func IDFrom(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(ctxKey{}).(string)
	return id, ok && id != ""
}
