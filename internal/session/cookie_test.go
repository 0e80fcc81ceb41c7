package session

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCookies(t *testing.T, secret string) *Cookies {
	t.Helper()
	c, err := NewCookies(CookieConfig{Name: "zyren_session", Secret: secret, TTL: time.Hour})
	require.NoError(t, err)
	return c
}

func TestCookieIssuesAndReuses(t *testing.T) {
	t.Parallel()

	c := newCookies(t, "test-secret")
	rec := httptest.NewRecorder()
	id, err := c.ID(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	_, err = uuid.Parse(id)
	require.NoError(t, err)

	cookies := rec.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, "zyren_session", cookies[0].Name)
	assert.True(t, cookies[0].HttpOnly)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(cookies[0])
	again, err := c.ID(httptest.NewRecorder(), req)
	require.NoError(t, err)
	assert.Equal(t, id, again)
}

func TestCookieRefreshedOnReuse(t *testing.T) {
	t.Parallel()

	c := newCookies(t, "test-secret")
	rec := httptest.NewRecorder()
	id, err := c.ID(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)
	issued := rec.Result().Cookies()
	require.Len(t, issued, 1)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(issued[0])
	rec = httptest.NewRecorder()
	again, err := c.ID(rec, req)
	require.NoError(t, err)
	assert.Equal(t, id, again)

	refreshed := rec.Result().Cookies()
	require.Len(t, refreshed, 1, "a reused session is written back")
	assert.Equal(t, "zyren_session", refreshed[0].Name)
	assert.Equal(t, int(time.Hour/time.Second), refreshed[0].MaxAge)
	assert.False(t, refreshed[0].Expires.IsZero())
}

func TestCookieForgedValueGetsNewSession(t *testing.T) {
	t.Parallel()

	c := newCookies(t, "")
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "zyren_session", Value: "tampered"})
	rec := httptest.NewRecorder()
	id, err := c.ID(rec, req)
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.NotEmpty(t, rec.Result().Cookies())
}

func TestCookieFromOtherKeyRejected(t *testing.T) {
	t.Parallel()

	rec := httptest.NewRecorder()
	first, err := newCookies(t, "key-one").ID(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(rec.Result().Cookies()[0])
	second, err := newCookies(t, "key-two").ID(httptest.NewRecorder(), req)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
}

func TestMiddlewarePutsIDInContext(t *testing.T) {
	t.Parallel()

	c := newCookies(t, "s")
	var seen string
	h := c.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen, _ = IDFrom(r.Context())
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/predictor", nil))
	assert.NotEmpty(t, seen)

	_, ok := IDFrom(httptest.NewRequest(http.MethodGet, "/", nil).Context())
	assert.False(t, ok)
}

func TestNewCookiesRequiresName(t *testing.T) {
	t.Parallel()

	_, err := NewCookies(CookieConfig{})
	assert.Error(t, err)
}
