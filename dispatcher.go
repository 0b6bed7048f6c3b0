package corvid

// HookFunc is a before/after lifecycle hook, per spec.md §4.6: a
// function of (ctx) -> ctx, realized in Go as a function that mutates
// ctx in place and may fail.
type HookFunc func(*Context) error

// Dispatcher runs the per-request lifecycle described in spec.md §4.6:
// match -> before -> invoke matched routes in order -> after. Spec.md
// §9 permits generalizing the single before/after function into an
// ordered chain as long as single-function behavior is preserved; this
// is that generalization, grounded on the teacher's middleware.Chain.
type Dispatcher struct {
	Table                  *RoutingTable
	Before                 []HookFunc
	After                  []HookFunc
	ContinueAfterResponse  bool
	Logger                 Logger
	Diagnostics            DiagnosticHandler
}

// NewDispatcher returns a Dispatcher over table with a no-op logger and
// diagnostics sink.
func NewDispatcher(table *RoutingTable) *Dispatcher {
	return &Dispatcher{
		Table:       table,
		Logger:      NopLogger{},
		Diagnostics: NopDiagnosticHandler{},
	}
}

// Dispatch runs one request through the lifecycle state machine:
//
//	START -> (match) -> MATCHED -> (before?) -> INVOKING
//	INVOKING -[next route, !responded || continueAfter]-> INVOKING
//	INVOKING -[responded && !continueAfter]-> AFTER
//	INVOKING -[routes exhausted]-> AFTER
//	AFTER -> DONE
//	START -> (no match) -> NOT_FOUND (terminal)
//
// after always runs, even when no route was invoked because a handler
// threw, matching Testable Property 4. The matched-route count is what
// gets logged at START->MATCHED; the invoked count is tracked
// separately and logged at AFTER->DONE — spec.md §9's first open
// question, resolved as: begin logs matched, end logs invoked/matched,
// not the source's apparently swapped counters.
func (d *Dispatcher) Dispatch(ctx *Context) error {
	d.Table.startServing()

	matched := d.Table.RouteFor(ctx)
	if len(matched) == 0 {
		d.Diagnostics.Emit(DiagnosticEvent{Kind: DiagEventNotFound, Path: ctx.Request.Path})
		return NotFoundError("no enabled route matches " + string(ctx.Request.Method) + " " + ctx.Request.Path)
	}
	d.Logger.Trace("matched %d route(s) for %s %s", len(matched), ctx.Request.Method, ctx.Request.Path)

	if ctx.Responded {
		return nil
	}

	var dispatchErr error
	invoked := 0

	defer func() {
		if afterErr := d.runHooks(d.After, ctx); afterErr != nil {
			d.Logger.Error("after hook failed: %v", afterErr)
		}
		d.Logger.Trace("invoked %d/%d matched route(s) for %s %s", invoked, len(matched), ctx.Request.Method, ctx.Request.Path)
	}()

	if dispatchErr = d.runHooks(d.Before, ctx); dispatchErr == nil {
		for _, m := range matched {
			invoked++
			if err := m.Route.Invoke(ctx, m.Params); err != nil {
				dispatchErr = err
				break
			}
			if d.ContinueAfterResponse {
				continue
			}
			if ctx.Responded {
				break
			}
		}
	}

	return dispatchErr
}

func (d *Dispatcher) runHooks(hooks []HookFunc, ctx *Context) error {
	for _, h := range hooks {
		if err := h(ctx); err != nil {
			return HandlerFailure(err)
		}
	}
	return nil
}
