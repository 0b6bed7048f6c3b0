package corvid

// RoutingTable is an ordered, deduplicated sequence of routes. Insertion
// order is preserved and is the dispatch order, per spec.md §3/§4.5.
type RoutingTable struct {
	routes      []*Route
	seen        map[identity]bool
	started     bool // true once serving has begun; guards mutation
	Diagnostics DiagnosticHandler
}

// NewRoutingTable returns an empty table with a no-op diagnostics sink.
func NewRoutingTable() *RoutingTable {
	return &RoutingTable{seen: make(map[identity]bool), Diagnostics: NopDiagnosticHandler{}}
}

// Register appends r iff its identity is not already present; otherwise
// it is a silent no-op as far as the return value goes, but per spec.md
// §7 DuplicateRoute is not swallowed outright — a trace-level
// DiagnosticEvent fires so an operator (or a test) can observe the
// collision. Registering after serving has begun panics: spec.md §9
// leaves this case unspecified and forbidden, enforced here with an
// explicit phase guard rather than silently corrupting dispatch order.
func (t *RoutingTable) Register(r *Route) {
	if t.started {
		panic("corvid: Register called after serving has begun")
	}
	if t.seen[r.id] {
		t.Diagnostics.Emit(DiagnosticEvent{
			Kind:    DiagEventDuplicateRoute,
			Path:    r.Pattern.Source(),
			Type:    string(r.Method),
			Message: "route " + r.Name + " already registered, skipping",
		})
		return
	}
	t.seen[r.id] = true
	t.routes = append(t.routes, r)
}

// Import appends every route of other via Register, preserving other's
// order, so repeated imports of the same source table stay idempotent.
func (t *RoutingTable) Import(other *RoutingTable) {
	for _, r := range other.routes {
		t.Register(r)
	}
}

// RouteFor returns the sublist of routes where r.Enabled && r.Matches,
// in registration order, along with the captured params for each. No
// precedence rule beyond registration order applies.
func (t *RoutingTable) RouteFor(ctx *Context) []MatchedRoute {
	var matched []MatchedRoute
	for _, r := range t.routes {
		if !r.Enabled {
			continue
		}
		if ok, params := r.Matches(ctx); ok {
			matched = append(matched, MatchedRoute{Route: r, Params: params})
		}
	}
	return matched
}

// MatchedRoute pairs a Route with the parameters captured for one
// particular request.
type MatchedRoute struct {
	Route  *Route
	Params map[string]string
}

// Routes returns a snapshot copy of the table's routes, in registration
// order — for introspection (Router.Routes, diagnostics, tests), not
// for mutation.
func (t *RoutingTable) Routes() []*Route {
	out := make([]*Route, len(t.routes))
	copy(out, t.routes)
	return out
}

// Len reports how many distinct routes are registered.
func (t *RoutingTable) Len() int { return len(t.routes) }

// startServing transitions the table into its read-only serving phase;
// Dispatcher.Dispatch calls it on every request, and only the first call
// changes anything.
func (t *RoutingTable) startServing() { t.started = true }
