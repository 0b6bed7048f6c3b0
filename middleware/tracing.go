package middleware

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/corvidhttp/corvid"
)

// TracingConfig configures Tracing.
type TracingConfig struct {
	// TracerName names the otel.Tracer obtained via otel.Tracer(name).
	TracerName string
}

// Tracing wraps each dispatched request in a span named "<method> <path>"
// carrying the method, request path and request id as attributes (the
// matched route's pattern is not recorded), and records any error the
// wrapped handler returns as a span error — the otel-based counterpart to the
// Prometheus Metrics middleware, both observing the same dispatch
// outcome from different angles.
func Tracing(config TracingConfig) corvid.MiddlewareFunc {
	name := config.TracerName
	if name == "" {
		name = "github.com/corvidhttp/corvid"
	}
	tracer := otel.Tracer(name)

	return func(next corvid.HandlerFunc) corvid.HandlerFunc {
		return func(c *corvid.Context) error {
			spanName := string(c.Request.Method) + " " + c.Request.Path

			ctx, span := tracer.Start(c.StdContext(), spanName,
				trace.WithAttributes(
					attribute.String("http.method", string(c.Request.Method)),
					attribute.String("http.path", c.Request.Path),
					attribute.String("corvid.request_id", c.Request.ID),
				),
			)
			defer span.End()

			c.Raw = c.Raw.WithContext(ctx)

			err := next(c)
			if err != nil {
				span.RecordError(err)
				span.SetStatus(codes.Error, err.Error())
			}
			return err
		}
	}
}
