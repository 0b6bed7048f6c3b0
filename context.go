package corvid

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
)

// RequestInfo is the HttpContext contract's request-facing fields per
// spec.md §6: the fields the core reads and writes during dispatch.
type RequestInfo struct {
	Method HttpMethod
	Path   string
	ID     string
	Name   string
	Params map[string]string
}

// Context is this module's realization of the external HttpContext
// abstraction spec.md treats as out of scope: the core only depends on
// the fields above, but a usable embeddable library needs a concrete
// type to carry them alongside the underlying net/http request/writer,
// exactly as the teacher's Context did for its own handler contract.
type Context struct {
	Request *RequestInfo
	Raw     *http.Request
	Writer  http.ResponseWriter

	// Responded is observed by the dispatcher to short-circuit the
	// route loop; handlers set it when they've produced a response.
	Responded bool

	store map[string]interface{}
}

// NewContext builds a Context from a raw net/http request/writer pair.
// requestID is the opaque id to stamp onto Request.ID (the adapter
// layer is responsible for generating one when absent).
func NewContext(w http.ResponseWriter, r *http.Request, requestID string) *Context {
	return &Context{
		Request: &RequestInfo{
			Method: HttpMethod(r.Method),
			Path:   r.URL.Path,
			ID:     requestID,
			Params: make(map[string]string),
		},
		Raw:    r,
		Writer: w,
		store:  make(map[string]interface{}),
	}
}

// Reset reinitializes a pooled Context for reuse (see adapter.Bridge).
// Callers must only do this between requests: a Context mid-dispatch is
// single-threaded and owned by that request, per spec.md §5.
func (c *Context) Reset(w http.ResponseWriter, r *http.Request, requestID string) {
	if c.Request == nil {
		c.Request = &RequestInfo{Params: make(map[string]string)}
	}
	c.Request.Method = HttpMethod(r.Method)
	c.Request.Path = r.URL.Path
	c.Request.ID = requestID
	c.Request.Name = ""
	for k := range c.Request.Params {
		delete(c.Request.Params, k)
	}
	c.Raw = r
	c.Writer = w
	c.Responded = false
	if c.store == nil {
		c.store = make(map[string]interface{})
	}
	for k := range c.store {
		delete(c.store, k)
	}
}

// StdContext returns the request's context.Context, for handlers that
// need cancellation/deadline propagation (not modeled by the core
// itself, per spec.md §5).
func (c *Context) StdContext() context.Context {
	return c.Raw.Context()
}

// Param returns a captured path parameter by name.
func (c *Context) Param(name string) string {
	return c.Request.Params[name]
}

// ParamInt returns a path parameter parsed as int64.
func (c *Context) ParamInt(name string) (int64, error) {
	val := c.Request.Params[name]
	if val == "" {
		return 0, newError(KindHandlerFailure, "missing parameter: "+name)
	}
	return strconv.ParseInt(val, 10, 64)
}

// Query returns a query string parameter by name.
func (c *Context) Query(name string) string {
	return c.Raw.URL.Query().Get(name)
}

// Header returns a request header value.
func (c *Context) Header(name string) string {
	return c.Raw.Header.Get(name)
}

// SetHeader sets a response header.
func (c *Context) SetHeader(name, value string) {
	c.Writer.Header().Set(name, value)
}

// Get retrieves a value from the per-request store.
func (c *Context) Get(key string) interface{} {
	return c.store[key]
}

// Set stores a value in the per-request store, for handlers and
// middleware to pass data down the chain.
func (c *Context) Set(key string, value interface{}) {
	c.store[key] = value
}

// Bind decodes the request body as JSON into v and runs Validate over
// it. A decode failure surfaces as a KindHandlerFailure RouterError; a
// failed validation surfaces as a KindValidation RouterError carrying
// the ValidationErrors, retrievable with AsValidationErrors and turned
// into a response with Context.ValidationFailed.
func (c *Context) Bind(v interface{}) error {
	defer c.Raw.Body.Close()
	if err := json.NewDecoder(c.Raw.Body).Decode(v); err != nil {
		return wrapError(KindHandlerFailure, "decode request body", err)
	}
	if errs := Validate(v); errs.HasErrors() {
		return ValidationFailure(errs)
	}
	return nil
}

// RealIP returns the client's real IP, checking X-Real-IP and
// X-Forwarded-For before falling back to RemoteAddr.
func (c *Context) RealIP() string {
	if ip := c.Header("X-Real-IP"); ip != "" {
		return ip
	}
	if xff := c.Header("X-Forwarded-For"); xff != "" {
		if idx := strings.Index(xff, ","); idx != -1 {
			return strings.TrimSpace(xff[:idx])
		}
		return xff
	}
	addr := c.Raw.RemoteAddr
	if idx := strings.LastIndex(addr, ":"); idx != -1 {
		return addr[:idx]
	}
	return addr
}
