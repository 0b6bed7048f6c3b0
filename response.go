package corvid

import (
	"encoding/json"
	"net/http"
)

// M is a shorthand for map[string]interface{}, used by the JSON
// response helpers below.
type M map[string]interface{}

// JSON writes a JSON response and marks the context Responded. This and
// the helpers below are not part of the routing core's contract (the
// Response implementation is out of scope per spec.md §1); they exist
// so Context is directly usable from handlers and tests without a
// second, parallel response type.
func (c *Context) JSON(code int, data interface{}) error {
	c.SetHeader("Content-Type", "application/json; charset=utf-8")
	c.Writer.WriteHeader(code)
	c.Responded = true

	if data == nil {
		return nil
	}
	return json.NewEncoder(c.Writer).Encode(data)
}

// String writes a plain text response.
func (c *Context) String(code int, s string) error {
	c.SetHeader("Content-Type", "text/plain; charset=utf-8")
	c.Writer.WriteHeader(code)
	c.Responded = true
	_, err := c.Writer.Write([]byte(s))
	return err
}

// NoContent writes a 204 No Content response.
func (c *Context) NoContent() error {
	c.Writer.WriteHeader(http.StatusNoContent)
	c.Responded = true
	return nil
}

// Error writes an error JSON envelope with the given status code.
func (c *Context) Error(code int, message string) error {
	return c.JSON(code, M{
		"error": M{
			"code":    code,
			"message": message,
		},
	})
}

// ErrorWithDetails writes an error JSON envelope carrying a details map,
// the shape ValidationErrors.ToMap() produces for field-level errors.
func (c *Context) ErrorWithDetails(code int, message string, details map[string]string) error {
	return c.JSON(code, M{
		"error": M{
			"code":    code,
			"message": message,
			"details": details,
		},
	})
}

// ValidationFailed writes a 422 Unprocessable Entity envelope for a
// failed Context.Bind call, keyed by field name — the counterpart to
// AsValidationErrors extracting errs from the returned error.
func (c *Context) ValidationFailed(errs ValidationErrors) error {
	return c.ErrorWithDetails(http.StatusUnprocessableEntity, "validation failed", errs.ToMap())
}
