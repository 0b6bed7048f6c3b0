package corvid

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustRoute(t *testing.T, method HttpMethod, pattern, name string, h HandlerFunc) *Route {
	t.Helper()
	p, err := CompilePattern(pattern)
	require.NoError(t, err)
	r, err := NewRoute(method, p, h, name, name)
	require.NoError(t, err)
	return r
}

func TestRoutingTablePreservesRegistrationOrder(t *testing.T) {
	tbl := NewRoutingTable()
	tbl.Register(mustRoute(t, MethodGet, "/a", "a", func(*Context) error { return nil }))
	tbl.Register(mustRoute(t, MethodGet, "/b", "b", func(*Context) error { return nil }))

	routes := tbl.Routes()
	require.Len(t, routes, 2)
	assert.Equal(t, "a", routes[0].Name)
	assert.Equal(t, "b", routes[1].Name)
}

func TestRoutingTableDedupsByIdentitySilently(t *testing.T) {
	tbl := NewRoutingTable()
	h := func(*Context) error { return nil }
	p, err := CompilePattern("/a")
	require.NoError(t, err)
	r1, err := NewRoute(MethodGet, p, h, "a", "shared")
	require.NoError(t, err)
	r2, err := NewRoute(MethodGet, p, h, "a", "shared")
	require.NoError(t, err)

	tbl.Register(r1)
	tbl.Register(r2)
	assert.Equal(t, 1, tbl.Len())
}

func TestRoutingTableEmitsDuplicateRouteDiagnostic(t *testing.T) {
	tbl := NewRoutingTable()
	var events []DiagnosticEvent
	tbl.Diagnostics = DiagnosticHandlerFunc(func(e DiagnosticEvent) { events = append(events, e) })

	h := func(*Context) error { return nil }
	p, err := CompilePattern("/a")
	require.NoError(t, err)
	r1, err := NewRoute(MethodGet, p, h, "a", "shared")
	require.NoError(t, err)
	r2, err := NewRoute(MethodGet, p, h, "a", "shared")
	require.NoError(t, err)

	tbl.Register(r1)
	assert.Empty(t, events)
	tbl.Register(r2)
	require.Len(t, events, 1)
	assert.Equal(t, DiagEventDuplicateRoute, events[0].Kind)
	assert.Equal(t, "/a", events[0].Path)
}

func TestRoutingTableRegisterPanicsAfterServing(t *testing.T) {
	tbl := NewRoutingTable()
	tbl.startServing()
	assert.Panics(t, func() {
		tbl.Register(mustRoute(t, MethodGet, "/late", "late", func(*Context) error { return nil }))
	})
}

func TestRoutingTableRouteForSkipsDisabledAndNonMatching(t *testing.T) {
	tbl := NewRoutingTable()
	enabled := mustRoute(t, MethodGet, "/users/:id", "get-user", func(*Context) error { return nil })
	disabled := mustRoute(t, MethodPost, "/users/:id", "post-user", func(*Context) error { return nil })
	disabled.Enabled = false

	tbl.Register(enabled)
	tbl.Register(disabled)

	ctx := newTestContext(http.MethodGet, "/users/5")
	matched := tbl.RouteFor(ctx)
	require.Len(t, matched, 1)
	assert.Equal(t, "get-user", matched[0].Route.Name)
	assert.Equal(t, "5", matched[0].Params["id"])
}

func TestRoutingTableRouteForReturnsAllHits(t *testing.T) {
	tbl := NewRoutingTable()
	tbl.Register(mustRoute(t, MethodGet, "/x", "first", func(*Context) error { return nil }))
	tbl.Register(mustRoute(t, MethodAll, "/x", "second", func(*Context) error { return nil }))

	ctx := newTestContext(http.MethodGet, "/x")
	matched := tbl.RouteFor(ctx)
	require.Len(t, matched, 2)
	assert.Equal(t, "first", matched[0].Route.Name)
	assert.Equal(t, "second", matched[1].Route.Name)
}

func TestRoutingTableImportIsIdempotent(t *testing.T) {
	src := NewRoutingTable()
	src.Register(mustRoute(t, MethodGet, "/a", "a", func(*Context) error { return nil }))

	dst := NewRoutingTable()
	dst.Import(src)
	dst.Import(src)
	assert.Equal(t, 1, dst.Len())
}
