package corvid

import (
	"reflect"
	"strconv"
	"unsafe"
)

// Option configures a Router at construction time, following the
// teacher's functional-options idiom.
type Option func(*Router)

// WithLogger installs l as the router's Logger (default NopLogger).
func WithLogger(l Logger) Option {
	return func(r *Router) {
		r.logger = l
		r.dispatcher.Logger = l
	}
}

// WithDiagnostics installs h as the router's DiagnosticHandler (default
// NopDiagnosticHandler).
func WithDiagnostics(h DiagnosticHandler) Option {
	return func(r *Router) {
		r.diagnostics = h
		r.dispatcher.Diagnostics = h
		r.table.Diagnostics = h
	}
}

// WithScope sets the scope discovery filters candidate resources
// against (empty means "accept all scopes", per spec.md §9).
func WithScope(scope string) Option {
	return func(r *Router) { r.scope = scope }
}

// WithContinueAfterResponse toggles the dispatcher's
// continue-after-response flag (default false: first responding route
// short-circuits the loop).
func WithContinueAfterResponse(v bool) Option {
	return func(r *Router) { r.dispatcher.ContinueAfterResponse = v }
}

// WithContainer installs a construction Container RouteDiscovery
// consults for resources needing more than a zero-arg constructor.
func WithContainer(c *Container) Option {
	return func(r *Router) { r.discovery.Container = c }
}

// Router is the facade that composes Exclusions, RoutingTable, and
// Dispatcher behind a fluent registration surface and exposes the
// single Route(ctx) entry point, per spec.md §4.7/§2.
type Router struct {
	table       *RoutingTable
	exclusions  *Exclusions
	dispatcher  *Dispatcher
	discovery   *Discovery
	named       map[string]*Route
	scope       string
	logger      Logger
	diagnostics DiagnosticHandler
}

// New returns a Router ready for registration.
func New(opts ...Option) *Router {
	table := NewRoutingTable()
	r := &Router{
		table:       table,
		exclusions:  NewExclusions(),
		dispatcher:  NewDispatcher(table),
		discovery:   NewDiscovery(),
		named:       make(map[string]*Route),
		logger:      NopLogger{},
		diagnostics: NopDiagnosticHandler{},
	}
	for _, opt := range opts {
		opt(r)
	}
	r.discovery.Exclusions = r.exclusions
	r.discovery.Scope = r.scope
	r.discovery.Logger = r.logger
	r.discovery.Diagnostics = r.diagnostics
	r.table.Diagnostics = r.diagnostics
	return r
}

// For builds a Router by handing it to configFn and returning it — the
// builder entry point of spec.md §4.7.
func For(configFn func(*Router), scope string) *Router {
	r := New(WithScope(scope))
	configFn(r)
	return r
}

// Handle registers a direct-function route: method, pattern, handler.
// name is an optional human label used for RouteNamed/EnableRoute; when
// omitted, the pattern source is used.
func (r *Router) Handle(method HttpMethod, pattern string, h HandlerFunc, name ...string) *Router {
	compiled, err := CompilePattern(pattern)
	if err != nil {
		panic(err)
	}
	label := pattern
	if len(name) > 0 && name[0] != "" {
		label = name[0]
	}
	route, err := NewRoute(method, compiled, h, label, handlerIdentity(h))
	if err != nil {
		panic(err)
	}
	r.table.Register(route)
	if label != "" {
		r.named[label] = route
	}
	return r
}

// handlerIdentity derives a dedup identity for a functional handler
// from the address of its closure record, per spec.md §9: closures over
// the same function but different captures are distinct routes because
// each closure value has its own record (reflect.Value.Pointer would
// return the shared code pointer instead).
func handlerIdentity(h HandlerFunc) string {
	closure := *(*unsafe.Pointer)(unsafe.Pointer(&h))
	return "func@" + strconv.FormatUint(uint64(uintptr(closure)), 16)
}

func (r *Router) GET(pattern string, h HandlerFunc, name ...string) *Router {
	return r.Handle(MethodGet, pattern, h, name...)
}
func (r *Router) POST(pattern string, h HandlerFunc, name ...string) *Router {
	return r.Handle(MethodPost, pattern, h, name...)
}
func (r *Router) PUT(pattern string, h HandlerFunc, name ...string) *Router {
	return r.Handle(MethodPut, pattern, h, name...)
}
func (r *Router) PATCH(pattern string, h HandlerFunc, name ...string) *Router {
	return r.Handle(MethodPatch, pattern, h, name...)
}
func (r *Router) DELETE(pattern string, h HandlerFunc, name ...string) *Router {
	return r.Handle(MethodDelete, pattern, h, name...)
}
func (r *Router) OPTIONS(pattern string, h HandlerFunc, name ...string) *Router {
	return r.Handle(MethodOptions, pattern, h, name...)
}
func (r *Router) HEAD(pattern string, h HandlerFunc, name ...string) *Router {
	return r.Handle(MethodHead, pattern, h, name...)
}
func (r *Router) Any(pattern string, h HandlerFunc, name ...string) *Router {
	return r.Handle(MethodAll, pattern, h, name...)
}

// RegisterMethod registers a reflected-method route: receiver is an
// instance, methodName is bound via reflect.ValueOf(receiver).MethodByName.
func (r *Router) RegisterMethod(method HttpMethod, pattern string, receiver interface{}, methodName string) *Router {
	value := reflect.ValueOf(receiver)
	methodValue := value.MethodByName(methodName)
	if !methodValue.IsValid() {
		panic(WrapDiscoveryError("no method "+methodName+" on "+value.Type().String(), nil))
	}
	handlerFn, ok := methodValue.Interface().(func(*Context) error)
	if !ok {
		panic(DiscoveryError("method " + value.Type().String() + "." + methodName + " does not implement HandlerFunc"))
	}
	compiled, err := CompilePattern(pattern)
	if err != nil {
		panic(err)
	}
	handlerID := value.Type().String() + "." + methodName
	route, err := NewRoute(method, compiled, handlerFn, handlerID, handlerID)
	if err != nil {
		panic(err)
	}
	r.table.Register(route)
	r.named[handlerID] = route
	return r
}

// RegisterType runs RouteDiscovery over a single type (spec.md §4.4),
// proto being a nil pointer of the resource type, e.g.
// r.RegisterType((*UserResource)(nil)).
func (r *Router) RegisterType(proto RouteProvider) *Router {
	t := reflect.TypeOf(proto)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if r.exclusions.IsExcluded(t) {
		return r
	}
	routes, err := r.discovery.DiscoverType(t)
	if err != nil {
		panic(err)
	}
	for _, route := range routes {
		r.table.Register(route)
		r.named[route.Name] = route
	}
	return r
}

// RegisterAssembly runs RouteDiscovery over every type added via
// RegisterResource, skipping excluded candidates (spec.md §4.4's
// "assembly" algorithm).
func (r *Router) RegisterAssembly() *Router {
	routes, err := r.discovery.DiscoverAssembly()
	if err != nil {
		panic(err)
	}
	for _, route := range routes {
		r.table.Register(route)
		r.named[route.Name] = route
	}
	return r
}

// Exclude marks proto's type as excluded from subsequent discovery
// calls (RegisterType/RegisterAssembly consult the same Exclusions).
func (r *Router) Exclude(proto interface{}) *Router {
	t := reflect.TypeOf(proto)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	r.exclusions.ExcludeType(t)
	return r
}

// ExcludeNamespace marks every type in package path ns as excluded.
func (r *Router) ExcludeNamespace(ns string) *Router {
	r.exclusions.ExcludeNamespace(ns)
	return r
}

// Import appends other's table into r's, via RoutingTable.Import
// (silent dedup, preserving other's order) — spec.md §4.7/Scenario 5.
func (r *Router) Import(other *Router) *Router {
	r.table.Import(other.table)
	for name, route := range other.named {
		if _, exists := r.named[name]; !exists {
			r.named[name] = route
		}
	}
	return r
}

// Before appends h to the ordered before-hook chain (spec.md §9 permits
// generalizing the single before function to a chain).
func (r *Router) Before(h HookFunc) *Router {
	r.dispatcher.Before = append(r.dispatcher.Before, h)
	return r
}

// After appends h to the ordered after-hook chain.
func (r *Router) After(h HookFunc) *Router {
	r.dispatcher.After = append(r.dispatcher.After, h)
	return r
}

// Route is the single entry point the server calls per request,
// per spec.md §2/§4.7.
func (r *Router) Route(ctx *Context) error {
	return r.dispatcher.Dispatch(ctx)
}

// RouteNamed looks up a previously registered route by its name.
func (r *Router) RouteNamed(name string) (*Route, bool) {
	route, ok := r.named[name]
	return route, ok
}

// EnableRoute/DisableRoute toggle a named route's Enabled flag without
// removing it from the table, per spec.md §3's mutable enabled field.
func (r *Router) EnableRoute(name string) bool {
	if route, ok := r.named[name]; ok {
		route.Enabled = true
		return true
	}
	return false
}

func (r *Router) DisableRoute(name string) bool {
	if route, ok := r.named[name]; ok {
		route.Enabled = false
		return true
	}
	return false
}

// Routes returns a snapshot of every registered route, in registration
// order.
func (r *Router) Routes() []*Route {
	return r.table.Routes()
}

// RouteNames returns every registered route name, sorted, for
// introspection (diagnostics, admin endpoints) where a stable order
// matters more than registration order.
func (r *Router) RouteNames() []string {
	return sortedKeys(r.named)
}

// Group returns a sub-router scoped under prefix that registers into
// the same underlying table (see group.go).
func (r *Router) Group(prefix string) *Group {
	return newGroup(r, prefix, nil)
}
