package adapter

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/corvidhttp/corvid"
)

func TestBridgeServesMatchedRoute(t *testing.T) {
	router := corvid.New()
	router.GET("/ping", func(c *corvid.Context) error {
		return c.String(http.StatusOK, "pong")
	})
	b := New(router, "")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/ping", nil)
	b.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "pong", rec.Body.String())
}

func TestBridgeReturns404ForUnmatchedRoute(t *testing.T) {
	router := corvid.New()
	b := New(router, "")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/nowhere", nil)
	b.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestBridgeReturns500OnHandlerFailure(t *testing.T) {
	router := corvid.New()
	router.GET("/boom", func(c *corvid.Context) error {
		return assert.AnError
	})
	b := New(router, "")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/boom", nil)
	b.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestBridgeGeneratesRequestIDWhenHeaderAbsent(t *testing.T) {
	var seen string
	router := corvid.New()
	router.GET("/id", func(c *corvid.Context) error {
		seen = c.Request.ID
		return c.NoContent()
	})
	b := New(router, "")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/id", nil)
	b.ServeHTTP(rec, req)

	assert.NotEmpty(t, seen)
}

func TestBridgePropagatesExistingRequestIDHeader(t *testing.T) {
	var seen string
	router := corvid.New()
	router.GET("/id", func(c *corvid.Context) error {
		seen = c.Request.ID
		return c.NoContent()
	})
	b := New(router, "X-Trace-Id")

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/id", nil)
	req.Header.Set("X-Trace-Id", "trace-42")
	b.ServeHTTP(rec, req)

	assert.Equal(t, "trace-42", seen)
}

func TestBridgeDefaultsRequestIDHeaderName(t *testing.T) {
	b := New(corvid.New(), "")
	assert.Equal(t, "X-Request-Id", b.RequestIDHeader)
}
