package corvid

import "strings"

// Group is a sub-router scoped under a path prefix, combining its own
// middleware with any middleware inherited from its parent — grounded
// on the teacher's RouteGroup, generalized to register into a shared
// RoutingTable rather than a standalone router so that names stay
// unique and dedup/import semantics (spec.md §4.5) keep working across
// group boundaries exactly as they do for top-level registration.
type Group struct {
	prefix     string
	router     *Router
	middleware []MiddlewareFunc
}

func newGroup(r *Router, prefix string, mw []MiddlewareFunc) *Group {
	return &Group{
		prefix:     strings.TrimSuffix(prefix, "/"),
		router:     r,
		middleware: mw,
	}
}

// Use appends middleware applied to every route registered on g (and
// on any nested group created afterward) from this point on.
func (g *Group) Use(mw ...MiddlewareFunc) *Group {
	g.middleware = append(g.middleware, mw...)
	return g
}

// Group returns a nested group whose prefix concatenates with g's and
// whose middleware chain extends g's (group outer, nested inner).
func (g *Group) Group(prefix string) *Group {
	combined := make([]MiddlewareFunc, len(g.middleware))
	copy(combined, g.middleware)
	return newGroup(g.router, g.prefix+strings.TrimSuffix(prefix, "/"), combined)
}

func (g *Group) handle(method HttpMethod, pattern string, h HandlerFunc, mw ...MiddlewareFunc) *Router {
	all := make([]MiddlewareFunc, 0, len(g.middleware)+len(mw))
	all = append(all, g.middleware...)
	all = append(all, mw...)
	wrapped := WrapMiddleware(h, all...)
	return g.router.Handle(method, g.prefix+pattern, wrapped)
}

func (g *Group) GET(pattern string, h HandlerFunc, mw ...MiddlewareFunc) *Router {
	return g.handle(MethodGet, pattern, h, mw...)
}
func (g *Group) POST(pattern string, h HandlerFunc, mw ...MiddlewareFunc) *Router {
	return g.handle(MethodPost, pattern, h, mw...)
}
func (g *Group) PUT(pattern string, h HandlerFunc, mw ...MiddlewareFunc) *Router {
	return g.handle(MethodPut, pattern, h, mw...)
}
func (g *Group) PATCH(pattern string, h HandlerFunc, mw ...MiddlewareFunc) *Router {
	return g.handle(MethodPatch, pattern, h, mw...)
}
func (g *Group) DELETE(pattern string, h HandlerFunc, mw ...MiddlewareFunc) *Router {
	return g.handle(MethodDelete, pattern, h, mw...)
}
func (g *Group) OPTIONS(pattern string, h HandlerFunc, mw ...MiddlewareFunc) *Router {
	return g.handle(MethodOptions, pattern, h, mw...)
}
func (g *Group) HEAD(pattern string, h HandlerFunc, mw ...MiddlewareFunc) *Router {
	return g.handle(MethodHead, pattern, h, mw...)
}
func (g *Group) Any(pattern string, h HandlerFunc, mw ...MiddlewareFunc) *Router {
	return g.handle(MethodAll, pattern, h, mw...)
}

// Prefix returns the group's path prefix.
func (g *Group) Prefix() string { return g.prefix }
