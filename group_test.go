package corvid

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func recordingMiddleware(tag string, order *[]string) MiddlewareFunc {
	return func(next HandlerFunc) HandlerFunc {
		return func(c *Context) error {
			*order = append(*order, tag+":before")
			err := next(c)
			*order = append(*order, tag+":after")
			return err
		}
	}
}

func TestGroupPrefixAndHandler(t *testing.T) {
	r := New()
	g := r.Group("/api")
	g.GET("/ping", func(c *Context) error { return c.String(http.StatusOK, "pong") })

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/ping", nil)
	c := NewContext(rec, req, "req-1")
	require.NoError(t, r.Route(c))
	assert.Equal(t, "pong", rec.Body.String())
}

func TestGroupPrefixTrimsTrailingSlash(t *testing.T) {
	r := New()
	g := r.Group("/api/")
	assert.Equal(t, "/api", g.Prefix())
}

func TestGroupMiddlewareAppliesToOwnRoutes(t *testing.T) {
	var order []string
	r := New()
	g := r.Group("/api").Use(recordingMiddleware("g", &order))
	g.GET("/x", func(c *Context) error {
		order = append(order, "handler")
		return c.NoContent()
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/x", nil)
	c := NewContext(rec, req, "req-1")
	require.NoError(t, r.Route(c))
	assert.Equal(t, []string{"g:before", "handler", "g:after"}, order)
}

func TestNestedGroupInheritsParentMiddleware(t *testing.T) {
	var order []string
	r := New()
	parent := r.Group("/api").Use(recordingMiddleware("outer", &order))
	child := parent.Group("/v1").Use(recordingMiddleware("inner", &order))
	child.GET("/y", func(c *Context) error {
		order = append(order, "handler")
		return c.NoContent()
	})

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/v1/y", nil)
	c := NewContext(rec, req, "req-1")
	require.NoError(t, r.Route(c))
	assert.Equal(t, []string{"outer:before", "inner:before", "handler", "inner:after", "outer:after"}, order)
}

func TestNestedGroupDoesNotMutateParentMiddleware(t *testing.T) {
	r := New()
	var order []string
	parent := r.Group("/api").Use(recordingMiddleware("outer", &order))
	_ = parent.Group("/v1").Use(recordingMiddleware("inner", &order))

	assert.Len(t, parent.middleware, 1)
}

func TestGroupPerRouteMiddleware(t *testing.T) {
	var order []string
	r := New()
	g := r.Group("/api")
	g.GET("/z", func(c *Context) error {
		order = append(order, "handler")
		return c.NoContent()
	}, recordingMiddleware("route", &order))

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/api/z", nil)
	c := NewContext(rec, req, "req-1")
	require.NoError(t, r.Route(c))
	assert.Equal(t, []string{"route:before", "handler", "route:after"}, order)
}
