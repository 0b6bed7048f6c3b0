package corvid

import (
	"reflect"
	"sort"
)

// ResourceMeta carries the Resource annotation's fields per spec.md
// §4.4: basePath and scope, both defaulting to "".
type ResourceMeta struct {
	BasePath string
	Scope    string
}

// Resource is the structural stand-in for the Resource annotation: Go
// methods cannot carry runtime annotations, so a discoverable type
// instead implements this one method. Only types implementing Resource
// are considered for discovery.
type Resource interface {
	ResourceMeta() ResourceMeta
}

// RouteAttr carries one RouteAttr annotation's fields per spec.md
// §4.4: the HTTP method (defaulting to MethodAll) and the path info
// (defaulting to ""), plus the name of the receiver method to bind —
// this module's "equivalent programmatic registration API" for
// platforms without reflection-based annotations, anticipated by
// spec.md §6 and §9.
type RouteAttr struct {
	Method   HttpMethod
	PathInfo string
	Handler  string
}

// RouteProvider is a Resource that additionally declares its route
// attributes. A method may be named by more than one RouteAttr; each
// produces a distinct Route.
type RouteProvider interface {
	Resource
	RouteAttrs() []RouteAttr
}

// registryEntry is one RegisterResource call, kept in registration
// order — the Go equivalent of "assembly declaration order", since Go
// has no runtime type enumeration over a loaded package the way a
// reflection-based host can enumerate an assembly.
type registryEntry struct {
	t reflect.Type
}

var registry []registryEntry

// RegisterResource adds T to the package-level registry consulted by
// DiscoverAssembly, standing in for assembly-wide reflection scanning
// (grounded on the database/sql.Register / image.RegisterFormat idiom:
// call from an init() function in the package that defines the
// resource). proto is a nil pointer of the resource type, e.g.
// RegisterResource((*UserResource)(nil)).
func RegisterResource(proto RouteProvider) {
	t := reflect.TypeOf(proto)
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	registry = append(registry, registryEntry{t: t})
}

// Discovery runs the RouteDiscovery algorithm of spec.md §4.4 over
// either a single type or the full registry.
type Discovery struct {
	Container   *Container
	Exclusions  *Exclusions
	Scope       string
	Diagnostics DiagnosticHandler
	Logger      Logger
}

// NewDiscovery returns a Discovery with an empty exclusion set and a
// no-op logger/diagnostics sink.
func NewDiscovery() *Discovery {
	return &Discovery{
		Container:   NewContainer(),
		Exclusions:  NewExclusions(),
		Diagnostics: NopDiagnosticHandler{},
		Logger:      NopLogger{},
	}
}

// DiscoverType runs the per-type algorithm of spec.md §4.4 step-for-
// step: construct an instance, confirm it's a Resource, check scope,
// normalize basePath, then emit one Route per RouteAttr in declared
// order.
func (d *Discovery) DiscoverType(t reflect.Type) ([]*Route, error) {
	instance, err := d.construct(t)
	if err != nil {
		return nil, err
	}

	resource, ok := instance.(Resource)
	if !ok {
		return nil, nil // lacks the Resource annotation: empty, not an error
	}

	meta := resource.ResourceMeta()
	if d.Scope != "" && meta.Scope != d.Scope {
		d.Logger.Trace("discovery: skipping %s, scope %q does not match router scope %q", t, meta.Scope, d.Scope)
		d.Diagnostics.Emit(DiagnosticEvent{Kind: DiagEventScopeSkip, Type: t.String(), Message: meta.Scope})
		return nil, nil
	}

	provider, ok := instance.(RouteProvider)
	if !ok {
		return nil, nil // a Resource with no declared routes contributes nothing
	}

	basePath := normalizeBasePath(meta.BasePath)
	value := reflect.ValueOf(instance)

	var routes []*Route
	for _, attr := range provider.RouteAttrs() {
		method := attr.Method
		if method == "" {
			method = MethodAll
		}

		finalPattern, err := composePattern(basePath, attr.PathInfo)
		if err != nil {
			return nil, err
		}
		pattern, err := CompilePattern(finalPattern)
		if err != nil {
			return nil, err
		}

		methodValue := value.MethodByName(attr.Handler)
		if !methodValue.IsValid() {
			return nil, WrapDiscoveryError("type "+t.String()+" has no method "+attr.Handler, nil)
		}
		handlerFn, ok := methodValue.Interface().(func(*Context) error)
		if !ok {
			return nil, DiscoveryError("method " + t.String() + "." + attr.Handler + " does not implement HandlerFunc")
		}

		handlerID := t.String() + "." + attr.Handler
		route, err := NewRoute(method, pattern, handlerFn, handlerID, handlerID)
		if err != nil {
			return nil, err
		}
		routes = append(routes, route)
	}
	return routes, nil
}

// DiscoverAssembly enumerates every type added via RegisterResource, in
// registration order, skipping excluded candidates, and recurses
// per-type via DiscoverType.
func (d *Discovery) DiscoverAssembly() ([]*Route, error) {
	var all []*Route
	for _, entry := range registry {
		if d.Exclusions != nil && d.Exclusions.IsExcluded(entry.t) {
			d.Logger.Trace("discovery: excluding %s", entry.t)
			d.Diagnostics.Emit(DiagnosticEvent{Kind: DiagEventNamespaceSkip, Type: entry.t.String()})
			continue
		}
		routes, err := d.DiscoverType(entry.t)
		if err != nil {
			return nil, err
		}
		all = append(all, routes...)
	}
	return all, nil
}

// construct builds an instance of t: via the Container when a factory
// is registered, otherwise via reflect.New (the zero-arg constructor
// equivalent). A type without exported fields still constructs fine
// under reflect.New; the DiscoveryError this produces in the original
// system (no zero-arg constructor, abstract type) instead surfaces here
// only when the Container's factory itself fails.
func (d *Discovery) construct(t reflect.Type) (interface{}, error) {
	if d.Container != nil && d.Container.Has(t) {
		instance, err := d.Container.Build(t)
		if err != nil {
			return nil, WrapDiscoveryError("constructing "+t.String(), err)
		}
		return instance, nil
	}
	return reflect.New(t).Interface(), nil
}

func normalizeBasePath(basePath string) string {
	if basePath == "" {
		return ""
	}
	if basePath[0] != '/' {
		basePath = "/" + basePath
	}
	for len(basePath) > 1 && basePath[len(basePath)-1] == '/' {
		basePath = basePath[:len(basePath)-1]
	}
	return basePath
}

// composePattern implements spec.md §4.4's pathInfo/prefix/basePath
// composition: a leading ^ on pathInfo is split off as a regex-form
// prefix, with the remainder forced to start with /; otherwise pathInfo
// itself is forced to start with /.
func composePattern(basePath, pathInfo string) (string, error) {
	prefix := ""
	if pathInfo != "" && pathInfo[0] == '^' {
		prefix = "^"
		pathInfo = pathInfo[1:]
	}
	if pathInfo == "" || pathInfo[0] != '/' {
		pathInfo = "/" + pathInfo
	}
	return prefix + basePath + pathInfo, nil
}

// RegisteredTypes returns the registry's contents in registration
// order, for introspection and tests.
func RegisteredTypes() []reflect.Type {
	out := make([]reflect.Type, len(registry))
	for i, e := range registry {
		out[i] = e.t
	}
	return out
}

// sortedKeys is a small helper kept for deterministic iteration where a
// map is otherwise the natural structure (used by Router.RouteNames).
func sortedKeys(m map[string]*Route) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
