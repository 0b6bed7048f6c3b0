package middleware

import (
	"net/http"
	"strings"

	"github.com/corvidhttp/corvid"
)

// AuthConfig configures Auth.
type AuthConfig struct {
	// Validator validates the extracted token, returning opaque user
	// data to stash in the context store.
	Validator func(token string) (interface{}, error)

	// TokenLookup is "<source>:<name>", e.g. "header:Authorization",
	// "query:token", "cookie:token".
	TokenLookup string

	// AuthScheme is the scheme prefix (e.g. "Bearer") stripped from a
	// header-sourced token.
	AuthScheme string

	// ContextKey is the Context.Set key the validated user is stored
	// under.
	ContextKey string

	// Skipper optionally bypasses the middleware for a given request.
	Skipper func(*corvid.Context) bool
}

// DefaultAuthConfig is the default auth configuration.
var DefaultAuthConfig = AuthConfig{
	TokenLookup: "header:Authorization",
	AuthScheme:  "Bearer",
	ContextKey:  "user",
}

// Auth returns a token-authentication middleware using validator.
func Auth(validator func(token string) (interface{}, error)) corvid.MiddlewareFunc {
	config := DefaultAuthConfig
	config.Validator = validator
	return AuthWithConfig(config)
}

// AuthWithConfig returns a token-authentication middleware.
func AuthWithConfig(config AuthConfig) corvid.MiddlewareFunc {
	if config.Validator == nil {
		panic("auth middleware requires a validator function")
	}
	if config.TokenLookup == "" {
		config.TokenLookup = DefaultAuthConfig.TokenLookup
	}
	if config.ContextKey == "" {
		config.ContextKey = DefaultAuthConfig.ContextKey
	}

	parts := strings.Split(config.TokenLookup, ":")
	if len(parts) != 2 {
		panic("invalid TokenLookup format, expected <source>:<name>")
	}
	source, name := parts[0], parts[1]

	var extractor func(*corvid.Context) string
	switch source {
	case "header":
		extractor = headerExtractor(name, config.AuthScheme)
	case "query":
		extractor = queryExtractor(name)
	case "cookie":
		extractor = cookieExtractor(name)
	default:
		panic("invalid token source: " + source)
	}

	return func(next corvid.HandlerFunc) corvid.HandlerFunc {
		return func(c *corvid.Context) error {
			if config.Skipper != nil && config.Skipper(c) {
				return next(c)
			}

			token := extractor(c)
			if token == "" {
				return c.Error(http.StatusUnauthorized, "missing or invalid token")
			}

			user, err := config.Validator(token)
			if err != nil {
				return c.Error(http.StatusUnauthorized, "invalid token")
			}

			c.Set(config.ContextKey, user)
			return next(c)
		}
	}
}

func headerExtractor(header, scheme string) func(*corvid.Context) string {
	return func(c *corvid.Context) string {
		auth := c.Header(header)
		if auth == "" {
			return ""
		}
		if scheme != "" {
			prefix := scheme + " "
			if len(auth) > len(prefix) && strings.EqualFold(auth[:len(prefix)], prefix) {
				return auth[len(prefix):]
			}
			return ""
		}
		return auth
	}
}

func queryExtractor(name string) func(*corvid.Context) string {
	return func(c *corvid.Context) string {
		return c.Query(name)
	}
}

func cookieExtractor(name string) func(*corvid.Context) string {
	return func(c *corvid.Context) string {
		cookie, err := c.Raw.Cookie(name)
		if err != nil {
			return ""
		}
		return cookie.Value
	}
}

// APIKey returns an API-key authentication middleware reading
// X-API-Key.
func APIKey(validator func(key string) (interface{}, error)) corvid.MiddlewareFunc {
	return AuthWithConfig(AuthConfig{
		Validator:   validator,
		TokenLookup: "header:X-API-Key",
		ContextKey:  "api_key_user",
	})
}

// SkipPaths returns a skipper that bypasses the given exact paths.
func SkipPaths(paths ...string) func(*corvid.Context) bool {
	pathMap := make(map[string]bool, len(paths))
	for _, path := range paths {
		pathMap[path] = true
	}
	return func(c *corvid.Context) bool {
		return pathMap[c.Request.Path]
	}
}

// SkipPathPrefixes returns a skipper that bypasses paths with any of
// the given prefixes.
func SkipPathPrefixes(prefixes ...string) func(*corvid.Context) bool {
	return func(c *corvid.Context) bool {
		for _, prefix := range prefixes {
			if strings.HasPrefix(c.Request.Path, prefix) {
				return true
			}
		}
		return false
	}
}

// BasicAuth returns a Basic authentication middleware.
func BasicAuth(validator func(username, password string) (interface{}, error)) corvid.MiddlewareFunc {
	return func(next corvid.HandlerFunc) corvid.HandlerFunc {
		return func(c *corvid.Context) error {
			username, password, ok := c.Raw.BasicAuth()
			if !ok {
				c.SetHeader("WWW-Authenticate", `Basic realm="Restricted"`)
				return c.Error(http.StatusUnauthorized, "authentication required")
			}

			user, err := validator(username, password)
			if err != nil {
				c.SetHeader("WWW-Authenticate", `Basic realm="Restricted"`)
				return c.Error(http.StatusUnauthorized, "invalid credentials")
			}

			c.Set("user", user)
			return next(c)
		}
	}
}

// RequireAuth requires contextKey to already be set (typically by Auth
// run earlier in the chain).
func RequireAuth(contextKey string) corvid.MiddlewareFunc {
	if contextKey == "" {
		contextKey = "user"
	}
	return func(next corvid.HandlerFunc) corvid.HandlerFunc {
		return func(c *corvid.Context) error {
			if c.Get(contextKey) == nil {
				return c.Error(http.StatusUnauthorized, "authentication required")
			}
			return next(c)
		}
	}
}
