package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/corvidhttp/corvid"
)

func validUser(token string) (interface{}, error) {
	if token == "good" {
		return "alice", nil
	}
	return nil, errors.New("invalid")
}

func TestAuthHeaderExtractionAndValidation(t *testing.T) {
	mw := Auth(validUser)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/x", nil)
	req.Header.Set("Authorization", "Bearer good")
	c := corvid.NewContext(rec, req, "req-1")

	var stashed interface{}
	h := mw(func(c *corvid.Context) error {
		stashed = c.Get("user")
		return c.NoContent()
	})
	require.NoError(t, h(c))
	assert.Equal(t, "alice", stashed)
}

func TestAuthMissingTokenReturnsUnauthorized(t *testing.T) {
	mw := Auth(validUser)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/x", nil)
	c := corvid.NewContext(rec, req, "req-1")
	c.Writer = rec

	h := mw(func(c *corvid.Context) error { return c.NoContent() })
	require.NoError(t, h(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthInvalidTokenReturnsUnauthorized(t *testing.T) {
	mw := Auth(validUser)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/x", nil)
	req.Header.Set("Authorization", "Bearer bad")
	c := corvid.NewContext(rec, req, "req-1")
	c.Writer = rec

	h := mw(func(c *corvid.Context) error { return c.NoContent() })
	require.NoError(t, h(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestAuthSkipperBypasses(t *testing.T) {
	mw := AuthWithConfig(AuthConfig{
		Validator:   validUser,
		TokenLookup: "header:Authorization",
		AuthScheme:  "Bearer",
		ContextKey:  "user",
		Skipper:     SkipPaths("/public"),
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/public", nil)
	c := corvid.NewContext(rec, req, "req-1")

	called := false
	h := mw(func(c *corvid.Context) error {
		called = true
		return c.NoContent()
	})
	require.NoError(t, h(c))
	assert.True(t, called)
}

func TestAuthQueryExtractor(t *testing.T) {
	mw := AuthWithConfig(AuthConfig{Validator: validUser, TokenLookup: "query:token", ContextKey: "user"})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/x?token=good", nil)
	c := corvid.NewContext(rec, req, "req-1")

	var stashed interface{}
	h := mw(func(c *corvid.Context) error {
		stashed = c.Get("user")
		return c.NoContent()
	})
	require.NoError(t, h(c))
	assert.Equal(t, "alice", stashed)
}

func TestAuthCookieExtractor(t *testing.T) {
	mw := AuthWithConfig(AuthConfig{Validator: validUser, TokenLookup: "cookie:session", ContextKey: "user"})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/x", nil)
	req.AddCookie(&http.Cookie{Name: "session", Value: "good"})
	c := corvid.NewContext(rec, req, "req-1")

	var stashed interface{}
	h := mw(func(c *corvid.Context) error {
		stashed = c.Get("user")
		return c.NoContent()
	})
	require.NoError(t, h(c))
	assert.Equal(t, "alice", stashed)
}

func TestAuthPanicsOnMissingValidator(t *testing.T) {
	assert.Panics(t, func() {
		AuthWithConfig(AuthConfig{})
	})
}

func TestAuthPanicsOnInvalidTokenLookup(t *testing.T) {
	assert.Panics(t, func() {
		AuthWithConfig(AuthConfig{Validator: validUser, TokenLookup: "malformed"})
	})
}

func TestBasicAuthChallengesMissingCredentials(t *testing.T) {
	mw := BasicAuth(func(u, p string) (interface{}, error) { return "alice", nil })
	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/x", nil)
	c := corvid.NewContext(rec, req, "req-1")
	c.Writer = rec

	h := mw(func(c *corvid.Context) error { return c.NoContent() })
	require.NoError(t, h(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.NotEmpty(t, rec.Header().Get("WWW-Authenticate"))
}

func TestBasicAuthAcceptsValidCredentials(t *testing.T) {
	mw := BasicAuth(func(u, p string) (interface{}, error) {
		if u == "alice" && p == "secret" {
			return "alice", nil
		}
		return nil, errors.New("invalid")
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/x", nil)
	req.SetBasicAuth("alice", "secret")
	c := corvid.NewContext(rec, req, "req-1")
	c.Writer = rec

	var stashed interface{}
	h := mw(func(c *corvid.Context) error {
		stashed = c.Get("user")
		return c.NoContent()
	})
	require.NoError(t, h(c))
	assert.Equal(t, "alice", stashed)
}

func TestRequireAuthRejectsWhenKeyAbsent(t *testing.T) {
	mw := RequireAuth("user")
	rec := httptest.NewRecorder()
	c := newCtx("GET", "/x")
	c.Writer = rec

	h := mw(func(c *corvid.Context) error { return c.NoContent() })
	require.NoError(t, h(c))
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuthPassesWhenKeyPresent(t *testing.T) {
	mw := RequireAuth("user")
	c := newCtx("GET", "/x")
	c.Set("user", "alice")

	called := false
	h := mw(func(c *corvid.Context) error {
		called = true
		return c.NoContent()
	})
	require.NoError(t, h(c))
	assert.True(t, called)
}

func TestSkipPathPrefixes(t *testing.T) {
	skipper := SkipPathPrefixes("/public")
	c := newCtx("GET", "/public/assets/x.css")
	assert.True(t, skipper(c))

	c2 := newCtx("GET", "/private")
	assert.False(t, skipper(c2))
}
