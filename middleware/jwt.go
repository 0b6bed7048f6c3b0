package middleware

import (
	"net/http"
	"strings"

	"github.com/corvidhttp/corvid"
	"github.com/corvidhttp/corvid/jwt"
)

// JWTConfig configures JWT.
type JWTConfig struct {
	// JWT is the handler used to parse and validate tokens.
	JWT *jwt.JWT

	// TokenLookup is "<source>:<name>", as in AuthConfig.
	TokenLookup string

	// AuthScheme is the scheme prefix stripped from a header-sourced
	// token.
	AuthScheme string

	// ContextKey is where the raw *jwt.Token is stashed.
	ContextKey string

	// ClaimsContextKey is where the *jwt.Claims is stashed.
	ClaimsContextKey string

	Skipper      func(*corvid.Context) bool
	ErrorHandler func(*corvid.Context, error) error
}

// DefaultJWTConfig returns the default configuration for j.
func DefaultJWTConfig(j *jwt.JWT) JWTConfig {
	return JWTConfig{
		JWT:              j,
		TokenLookup:      "header:Authorization",
		AuthScheme:       "Bearer",
		ContextKey:       "token",
		ClaimsContextKey: "claims",
	}
}

// JWT returns a JWT-authentication middleware using j with the default
// configuration.
func JWT(j *jwt.JWT) corvid.MiddlewareFunc {
	return JWTWithConfig(DefaultJWTConfig(j))
}

// JWTWithConfig returns a JWT-authentication middleware.
func JWTWithConfig(config JWTConfig) corvid.MiddlewareFunc {
	if config.JWT == nil {
		panic("jwt middleware requires a JWT handler")
	}
	if config.TokenLookup == "" {
		config.TokenLookup = "header:Authorization"
	}
	if config.ContextKey == "" {
		config.ContextKey = "token"
	}
	if config.ClaimsContextKey == "" {
		config.ClaimsContextKey = "claims"
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

			tokenString := extractor(c)
			if tokenString == "" {
				if config.ErrorHandler != nil {
					return config.ErrorHandler(c, unauthorized("missing token"))
				}
				return c.Error(http.StatusUnauthorized, "missing token")
			}

			token, err := config.JWT.Parse(tokenString)
			if err != nil {
				if config.ErrorHandler != nil {
					return config.ErrorHandler(c, err)
				}
				return c.Error(http.StatusUnauthorized, err.Error())
			}

			c.Set(config.ContextKey, token)
			c.Set(config.ClaimsContextKey, &token.Claims)
			return next(c)
		}
	}
}

type unauthorized string

func (u unauthorized) Error() string { return string(u) }

// GetToken retrieves the parsed token stashed by JWT.
func GetToken(c *corvid.Context) *jwt.Token {
	if t, ok := c.Get("token").(*jwt.Token); ok {
		return t
	}
	return nil
}

// GetClaims retrieves the claims stashed by JWT.
func GetClaims(c *corvid.Context) *jwt.Claims {
	if claims, ok := c.Get("claims").(*jwt.Claims); ok {
		return claims
	}
	return nil
}

// RequireRoles requires every role in roles be present in the "roles"
// custom claim.
func RequireRoles(roles ...string) corvid.MiddlewareFunc {
	return func(next corvid.HandlerFunc) corvid.HandlerFunc {
		return func(c *corvid.Context) error {
			claims := GetClaims(c)
			if claims == nil {
				return c.Error(http.StatusUnauthorized, "authentication required")
			}

			roleSet := make(map[string]bool)
			for _, r := range claims.GetStringSlice("roles") {
				roleSet[r] = true
			}
			for _, required := range roles {
				if !roleSet[required] {
					return c.Error(http.StatusForbidden, "insufficient permissions")
				}
			}
			return next(c)
		}
	}
}

// RequireAnyRole requires at least one role in roles be present.
func RequireAnyRole(roles ...string) corvid.MiddlewareFunc {
	return func(next corvid.HandlerFunc) corvid.HandlerFunc {
		return func(c *corvid.Context) error {
			claims := GetClaims(c)
			if claims == nil {
				return c.Error(http.StatusUnauthorized, "authentication required")
			}

			roleSet := make(map[string]bool)
			for _, r := range claims.GetStringSlice("roles") {
				roleSet[r] = true
			}
			for _, r := range roles {
				if roleSet[r] {
					return next(c)
				}
			}
			return c.Error(http.StatusForbidden, "insufficient permissions")
		}
	}
}
