package middleware

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/corvidhttp/corvid"
)

// CORSConfig configures CORS.
type CORSConfig struct {
	AllowOrigins     []string
	AllowMethods     []string
	AllowHeaders     []string
	ExposeHeaders    []string
	AllowCredentials bool
	MaxAge           int
}

// DefaultCORSConfig is the default CORS configuration.
var DefaultCORSConfig = CORSConfig{
	AllowOrigins: []string{"*"},
	AllowMethods: []string{
		http.MethodGet,
		http.MethodPost,
		http.MethodPut,
		http.MethodPatch,
		http.MethodDelete,
		http.MethodOptions,
		http.MethodHead,
	},
	AllowHeaders: []string{
		"Origin",
		"Content-Type",
		"Accept",
		"Authorization",
		"X-Requested-With",
	},
	ExposeHeaders:    []string{},
	AllowCredentials: false,
	MaxAge:           86400,
}

// CORS returns a CORS middleware with the given configuration.
func CORS(config CORSConfig) corvid.MiddlewareFunc {
	allowAllOrigins := false
	allowedOrigins := make(map[string]bool)
	for _, origin := range config.AllowOrigins {
		if origin == "*" {
			allowAllOrigins = true
			break
		}
		allowedOrigins[origin] = true
	}

	allowMethodsHeader := strings.Join(config.AllowMethods, ", ")
	allowHeadersHeader := strings.Join(config.AllowHeaders, ", ")
	exposeHeadersHeader := strings.Join(config.ExposeHeaders, ", ")
	maxAgeHeader := strconv.Itoa(config.MaxAge)

	return func(next corvid.HandlerFunc) corvid.HandlerFunc {
		return func(c *corvid.Context) error {
			origin := c.Header("Origin")

			var allowedOrigin string
			if origin != "" {
				if allowAllOrigins {
					if config.AllowCredentials {
						allowedOrigin = origin
					} else {
						allowedOrigin = "*"
					}
				} else if allowedOrigins[origin] {
					allowedOrigin = origin
				}
			}

			if allowedOrigin != "" {
				c.SetHeader("Access-Control-Allow-Origin", allowedOrigin)
				if config.AllowCredentials {
					c.SetHeader("Access-Control-Allow-Credentials", "true")
				}
				if exposeHeadersHeader != "" {
					c.SetHeader("Access-Control-Expose-Headers", exposeHeadersHeader)
				}
			}

			if c.Request.Method == corvid.MethodOptions {
				if allowedOrigin != "" {
					c.SetHeader("Access-Control-Allow-Methods", allowMethodsHeader)
					c.SetHeader("Access-Control-Allow-Headers", allowHeadersHeader)
					c.SetHeader("Access-Control-Max-Age", maxAgeHeader)
				}
				c.SetHeader("Content-Length", "0")
				c.Writer.WriteHeader(http.StatusNoContent)
				c.Responded = true
				return nil
			}

			return next(c)
		}
	}
}

// CORSDefault returns a CORS middleware with the default configuration.
func CORSDefault() corvid.MiddlewareFunc {
	return CORS(DefaultCORSConfig)
}

// AllowOrigins creates a CORS config with specific allowed origins.
func AllowOrigins(origins ...string) CORSConfig {
	config := DefaultCORSConfig
	config.AllowOrigins = origins
	return config
}

// AllowOriginsWithCredentials creates a CORS config with specific
// origins and credentials enabled.
func AllowOriginsWithCredentials(origins ...string) CORSConfig {
	config := DefaultCORSConfig
	config.AllowOrigins = origins
	config.AllowCredentials = true
	return config
}
