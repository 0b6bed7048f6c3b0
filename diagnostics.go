package corvid

// DiagEventKind classifies a non-fatal routing anomaly worth surfacing
// to an operator without treating it as an error — duplicate-route
// dedup, a scope mismatch during discovery, a namespace skip.
type DiagEventKind int

const (
	DiagEventDuplicateRoute DiagEventKind = iota
	DiagEventScopeSkip
	DiagEventNamespaceSkip
	DiagEventNotFound
)

func (k DiagEventKind) String() string {
	switch k {
	case DiagEventDuplicateRoute:
		return "duplicate_route"
	case DiagEventScopeSkip:
		return "scope_skip"
	case DiagEventNamespaceSkip:
		return "namespace_skip"
	case DiagEventNotFound:
		return "not_found"
	default:
		return "unknown"
	}
}

// DiagnosticEvent is one occurrence of the above, carrying enough
// context to act on without forcing every caller through the Logger
// interface's string formatting.
type DiagnosticEvent struct {
	Kind    DiagEventKind
	Path    string
	Type    string // discovery candidate, when applicable
	Message string
}

// DiagnosticHandler is an optional, structured sink distinct from
// Logger — modeled on the observability-hook pattern of exposing a
// typed event to callers who want to count or alert on it (a metrics
// or tracing middleware, for instance) rather than grep log lines.
type DiagnosticHandler interface {
	Emit(DiagnosticEvent)
}

// NopDiagnosticHandler discards every event. It is the default.
type NopDiagnosticHandler struct{}

func (NopDiagnosticHandler) Emit(DiagnosticEvent) {}

// DiagnosticHandlerFunc adapts a plain function to DiagnosticHandler.
type DiagnosticHandlerFunc func(DiagnosticEvent)

func (f DiagnosticHandlerFunc) Emit(e DiagnosticEvent) { f(e) }
