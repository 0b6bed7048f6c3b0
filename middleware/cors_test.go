package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvidhttp/corvid"
)

func TestCORSAllowsWildcardOrigin(t *testing.T) {
	mw := CORSDefault()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/x", nil)
	req.Header.Set("Origin", "https://example.com")
	c := corvid.NewContext(rec, req, "req-1")

	h := mw(func(c *corvid.Context) error { return c.NoContent() })
	require.NoError(t, h(c))
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSRestrictsToAllowedOrigins(t *testing.T) {
	mw := CORS(AllowOrigins("https://allowed.com"))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/x", nil)
	req.Header.Set("Origin", "https://denied.com")
	c := corvid.NewContext(rec, req, "req-1")

	h := mw(func(c *corvid.Context) error { return c.NoContent() })
	require.NoError(t, h(c))
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSWithCredentialsEchoesOrigin(t *testing.T) {
	mw := CORS(AllowOriginsWithCredentials("https://allowed.com"))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/x", nil)
	req.Header.Set("Origin", "https://allowed.com")
	c := corvid.NewContext(rec, req, "req-1")

	h := mw(func(c *corvid.Context) error { return c.NoContent() })
	require.NoError(t, h(c))
	assert.Equal(t, "https://allowed.com", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "true", rec.Header().Get("Access-Control-Allow-Credentials"))
}

func TestCORSPreflightShortCircuits(t *testing.T) {
	mw := CORSDefault()

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("OPTIONS", "/x", nil)
	req.Header.Set("Origin", "https://example.com")
	c := corvid.NewContext(rec, req, "req-1")

	called := false
	h := mw(func(c *corvid.Context) error {
		called = true
		return c.NoContent()
	})
	require.NoError(t, h(c))
	assert.False(t, called)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("Access-Control-Allow-Methods"))
}
