package middleware

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/corvidhttp/corvid"
)

// LoggerConfig configures Logger.
type LoggerConfig struct {
	// Output is the writer logs are written to.
	Output io.Writer

	// Format is the log line template. Available fields: ${time},
	// ${method}, ${path}, ${status}, ${latency}, ${ip}, ${request_id}.
	Format string

	// TimeFormat is the time.Layout used for ${time}.
	TimeFormat string

	// SkipPaths lists request paths to skip logging for.
	SkipPaths []string
}

// DefaultLoggerConfig is the default logger configuration.
var DefaultLoggerConfig = LoggerConfig{
	Output:     os.Stdout,
	Format:     "${time} | ${status} | ${latency} | ${ip} | ${method} ${path} | ${request_id}",
	TimeFormat: "2006/01/02 15:04:05",
}

// Logger returns a request-logging middleware with default
// configuration.
func Logger() corvid.MiddlewareFunc {
	return LoggerWithConfig(DefaultLoggerConfig)
}

// LoggerWithConfig returns a request-logging middleware.
func LoggerWithConfig(config LoggerConfig) corvid.MiddlewareFunc {
	if config.Output == nil {
		config.Output = os.Stdout
	}
	if config.Format == "" {
		config.Format = DefaultLoggerConfig.Format
	}
	if config.TimeFormat == "" {
		config.TimeFormat = DefaultLoggerConfig.TimeFormat
	}

	skipPaths := make(map[string]bool, len(config.SkipPaths))
	for _, path := range config.SkipPaths {
		skipPaths[path] = true
	}

	return func(next corvid.HandlerFunc) corvid.HandlerFunc {
		return func(c *corvid.Context) error {
			if skipPaths[c.Request.Path] {
				return next(c)
			}

			start := time.Now()
			sw := &statusWriter{ResponseWriter: c.Writer, status: http.StatusOK}
			c.Writer = sw

			err := next(c)

			status := sw.status
			if err != nil {
				status = http.StatusInternalServerError
				if re, ok := asRouterError(err); ok && re.Kind() == corvid.KindNotFound {
					status = http.StatusNotFound
				}
			}

			line := config.Format
			line = replaceTag(line, "${time}", start.Format(config.TimeFormat))
			line = replaceTag(line, "${method}", string(c.Request.Method))
			line = replaceTag(line, "${path}", c.Request.Path)
			line = replaceTag(line, "${status}", fmt.Sprintf("%d", status))
			line = replaceTag(line, "${latency}", formatLatency(time.Since(start)))
			line = replaceTag(line, "${ip}", c.RealIP())
			line = replaceTag(line, "${request_id}", c.Request.ID)

			fmt.Fprintln(config.Output, line)
			return err
		}
	}
}

func asRouterError(err error) (*corvid.RouterError, bool) {
	re, ok := err.(*corvid.RouterError)
	return re, ok
}

// statusWriter wraps http.ResponseWriter to capture the status code.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func formatLatency(d time.Duration) string {
	switch {
	case d < time.Microsecond:
		return fmt.Sprintf("%dns", d.Nanoseconds())
	case d < time.Millisecond:
		return fmt.Sprintf("%.2fµs", float64(d.Nanoseconds())/1000)
	case d < time.Second:
		return fmt.Sprintf("%.2fms", float64(d.Nanoseconds())/1000000)
	default:
		return fmt.Sprintf("%.2fs", d.Seconds())
	}
}

func replaceTag(format, tag, value string) string {
	for i := 0; i+len(tag) <= len(format); i++ {
		if format[i:i+len(tag)] == tag {
			return format[:i] + value + format[i+len(tag):]
		}
	}
	return format
}

// LoggerWithSkipPaths returns a logger that skips the given paths.
func LoggerWithSkipPaths(paths ...string) corvid.MiddlewareFunc {
	config := DefaultLoggerConfig
	config.SkipPaths = paths
	return LoggerWithConfig(config)
}

// LoggerWithOutput returns a logger writing to w.
func LoggerWithOutput(w io.Writer) corvid.MiddlewareFunc {
	config := DefaultLoggerConfig
	config.Output = w
	return LoggerWithConfig(config)
}
