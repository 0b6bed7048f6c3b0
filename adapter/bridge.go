// Package adapter bridges the routing core to net/http — the listener
// layer spec.md §1 treats as an external collaborator. It is the
// minimal translation a hosting process needs: build a corvid.Context
// from an *http.Request, call Router.Route, map a NotFound/
// HandlerFailure into an HTTP status when the handler itself didn't
// already write one.
package adapter

import (
	"net/http"
	"sync"

	"github.com/google/uuid"

	"github.com/corvidhttp/corvid"
)

// Bridge adapts a *corvid.Router to http.Handler, pooling Context
// values the way the teacher pooled its own Context for zero-allocation
// steady-state serving.
type Bridge struct {
	Router          *corvid.Router
	RequestIDHeader string

	pool sync.Pool
}

// New returns a Bridge over r. requestIDHeader names the inbound header
// consulted for an existing request id (falling back to a generated
// UUIDv4 when absent or empty); "" defaults to "X-Request-Id".
func New(r *corvid.Router, requestIDHeader string) *Bridge {
	if requestIDHeader == "" {
		requestIDHeader = "X-Request-Id"
	}
	b := &Bridge{Router: r, RequestIDHeader: requestIDHeader}
	b.pool.New = func() interface{} {
		return &corvid.Context{}
	}
	return b
}

// ServeHTTP implements http.Handler.
func (b *Bridge) ServeHTTP(w http.ResponseWriter, req *http.Request) {
	requestID := req.Header.Get(b.RequestIDHeader)
	if requestID == "" {
		requestID = uuid.NewString()
	}

	ctx := b.pool.Get().(*corvid.Context)
	ctx.Reset(w, req, requestID)
	defer b.pool.Put(ctx)

	err := b.Router.Route(ctx)
	if err == nil || ctx.Responded {
		return
	}

	switch {
	case corvid.IsNotFound(err):
		http.Error(w, "not found", http.StatusNotFound)
	case corvid.IsHandlerFailure(err):
		http.Error(w, "internal server error", http.StatusInternalServerError)
	default:
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
