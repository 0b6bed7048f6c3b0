package corvid

// HandlerFunc is the routing core's handler contract: it receives the
// per-request Context, may mutate it or replace fields on it, and sets
// Responded when it has produced a response. A returned error is a
// HandlerFailure; the core itself never recovers from it.
type HandlerFunc func(*Context) error

// MiddlewareFunc decorates a HandlerFunc with cross-cutting behavior
// (logging, recovery, CORS, metrics). It composes around a single
// matched route's handler, distinct from the router-wide Before/After
// hook chain the Dispatcher runs (see dispatcher.go).
type MiddlewareFunc func(HandlerFunc) HandlerFunc

// WrapMiddleware applies mw around h, outermost first, so mw[0] sees
// the request before mw[1], and so on.
func WrapMiddleware(h HandlerFunc, mw ...MiddlewareFunc) HandlerFunc {
	for i := len(mw) - 1; i >= 0; i-- {
		h = mw[i](h)
	}
	return h
}

// Chain composes mw into a single MiddlewareFunc, applied in the order
// given (mw[0] outermost), so a Group or Router can store and reuse one
// combined middleware instead of re-wrapping the slice per route.
func Chain(mw ...MiddlewareFunc) MiddlewareFunc {
	return func(next HandlerFunc) HandlerFunc {
		return WrapMiddleware(next, mw...)
	}
}

// identity is the tuple that decides route equality for dedup:
// (method, pattern source, handler identity).
type identity struct {
	method     HttpMethod
	patternSrc string
	handlerID  string
}

// Route is an immutable (method, pattern, handler) triple plus a
// mutable Enabled flag and a human Name.
type Route struct {
	Method  HttpMethod
	Pattern *Pattern
	Handler HandlerFunc
	Name    string
	Enabled bool

	id identity
}

// NewRoute builds a Route. handlerID is the caller-supplied identity
// used for deduplication (see Identity below); it must be stable across
// registrations of what should be considered "the same" route and
// distinct otherwise. handler must be non-nil.
func NewRoute(method HttpMethod, pattern *Pattern, handler HandlerFunc, name, handlerID string) (*Route, error) {
	if handler == nil {
		return nil, newError(KindDiscoveryError, "route handler must not be nil")
	}
	return &Route{
		Method:  method,
		Pattern: pattern,
		Handler: handler,
		Name:    name,
		Enabled: true,
		id: identity{
			method:     method,
			patternSrc: pattern.Source(),
			handlerID:  handlerID,
		},
	}, nil
}

// Identity returns the dedup key: two routes are equal iff their
// identities are equal.
func (r *Route) Identity() (method HttpMethod, patternSource, handlerID string) {
	return r.id.method, r.id.patternSrc, r.id.handlerID
}

// Matches reports whether the route accepts ctx's method and path,
// independent of its Enabled flag (callers filter on Enabled
// themselves, per RoutingTable.RouteFor).
func (r *Route) Matches(ctx *Context) (ok bool, params map[string]string) {
	if !r.Method.Matches(ctx.Request.Method) {
		return false, nil
	}
	return r.Pattern.Match(ctx.Request.Path)
}

// Invoke merges the matched params into ctx.Request.Params (overwriting
// same-named keys for this call only) and runs the handler.
func (r *Route) Invoke(ctx *Context, params map[string]string) error {
	for k, v := range params {
		ctx.Request.Params[k] = v
	}
	if err := r.Handler(ctx); err != nil {
		return HandlerFailure(err)
	}
	return nil
}
