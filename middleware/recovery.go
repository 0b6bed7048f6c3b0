package middleware

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"runtime"

	"github.com/corvidhttp/corvid"
)

// RecoveryConfig configures Recovery.
type RecoveryConfig struct {
	// StackSize is the maximum size of the stack trace to capture.
	StackSize int

	// DisableStackAll disables capturing stack traces from all goroutines.
	DisableStackAll bool

	// DisablePrintStack disables printing stack traces.
	DisablePrintStack bool

	// Output is the writer panic info is written to.
	Output io.Writer

	// Handler is a custom handler invoked when a panic occurs. If nil, a
	// default JSON error envelope is sent.
	Handler func(*corvid.Context, interface{}, []byte) error
}

// DefaultRecoveryConfig is the default recovery configuration.
var DefaultRecoveryConfig = RecoveryConfig{
	StackSize:         4 << 10,
	DisableStackAll:   false,
	DisablePrintStack: false,
	Output:            os.Stderr,
}

// Recovery is the routing core's panic safety net, per SPEC_FULL.md
// §4.6: handler errors propagate as normal Go errors through
// HandlerFunc, but Recovery still exists to catch the unexpected panic
// (nil map write, index out of range) that a handler's error return
// can't express: the panic is answered with a 500 JSON envelope (or the
// configured Handler's response) and the wrapped handler returns nil
// instead of crashing the server.
func Recovery() corvid.MiddlewareFunc {
	return RecoveryWithConfig(DefaultRecoveryConfig)
}

// RecoveryWithConfig returns a Recovery middleware with the given
// configuration.
func RecoveryWithConfig(config RecoveryConfig) corvid.MiddlewareFunc {
	if config.StackSize == 0 {
		config.StackSize = DefaultRecoveryConfig.StackSize
	}
	if config.Output == nil {
		config.Output = DefaultRecoveryConfig.Output
	}

	return func(next corvid.HandlerFunc) corvid.HandlerFunc {
		return func(c *corvid.Context) (err error) {
			defer func() {
				if r := recover(); r != nil {
					stack := make([]byte, config.StackSize)
					length := runtime.Stack(stack, !config.DisableStackAll)
					stack = stack[:length]

					if !config.DisablePrintStack {
						fmt.Fprintf(config.Output, "[PANIC RECOVER] %v\n%s\n", r, stack)
					}

					if config.Handler != nil {
						if handlerErr := config.Handler(c, r, stack); handlerErr != nil {
							sendDefaultPanicResponse(c)
						}
						err = nil
						return
					}

					sendDefaultPanicResponse(c)
					err = nil
				}
			}()

			return next(c)
		}
	}
}

func sendDefaultPanicResponse(c *corvid.Context) {
	if c.Responded {
		return
	}
	c.JSON(http.StatusInternalServerError, corvid.M{
		"error": corvid.M{
			"code":    http.StatusInternalServerError,
			"message": "Internal Server Error",
		},
	})
}

// RecoveryWithHandler returns a Recovery middleware with a custom panic
// handler.
func RecoveryWithHandler(handler func(*corvid.Context, interface{}, []byte) error) corvid.MiddlewareFunc {
	config := DefaultRecoveryConfig
	config.Handler = handler
	return RecoveryWithConfig(config)
}

// DebugRecovery includes panic details in the response. Only use this
// in development.
func DebugRecovery() corvid.MiddlewareFunc {
	return RecoveryWithHandler(func(c *corvid.Context, recovered interface{}, stack []byte) error {
		return c.JSON(http.StatusInternalServerError, corvid.M{
			"error": corvid.M{
				"code":    http.StatusInternalServerError,
				"message": "Internal Server Error",
				"panic":   fmt.Sprintf("%v", recovered),
				"stack":   string(stack),
			},
		})
	})
}
