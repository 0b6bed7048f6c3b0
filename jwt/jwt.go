// Package jwt signs and verifies compact JWTs (HS256 only) using nothing
// beyond the standard library — grounded on the teacher's stdlib-only
// contrib/jwt package, restructured so Parse and the unvalidated decode
// path Refresh needs share one decoder instead of two near-duplicate
// functions.
package jwt

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
)

const AlgorithmHS256 = "HS256"

var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token has expired")
	ErrTokenNotYetValid = errors.New("token is not yet valid")
	ErrInvalidSignature = errors.New("invalid signature")
)

// Header is the JWT header, HS256 always being the only alg this
// package emits or accepts.
type Header struct {
	Algorithm string `json:"alg"`
	Type      string `json:"typ"`
}

// Token is a decoded JWT. Valid is false when it was decoded via the
// no-validation path (see Refresh).
type Token struct {
	Header    Header
	Claims    Claims
	Signature string
	Raw       string
	Valid     bool
}

// Config holds the signing secret plus the optional issuer/audience/
// leeway checks Generate and Parse apply.
type Config struct {
	Secret           []byte
	Issuer           string
	Audience         string
	ExpiresIn        time.Duration
	NotBeforeLeeway  time.Duration
	ExpirationLeeway time.Duration
}

// DefaultConfig returns Config with a 24h expiry and no issuer/audience
// checks.
func DefaultConfig(secret []byte) Config {
	return Config{Secret: secret, ExpiresIn: 24 * time.Hour}
}

// JWT signs and verifies tokens under one Config.
type JWT struct {
	config Config
}

// New builds a JWT handler from an explicit Config.
func New(config Config) *JWT { return &JWT{config: config} }

// NewWithSecret builds a JWT handler with DefaultConfig(secret).
func NewWithSecret(secret []byte) *JWT { return New(DefaultConfig(secret)) }

// Generate stamps iat/exp/iss/aud onto claims from the handler's Config
// wherever the caller left them unset, then signs.
func (j *JWT) Generate(claims Claims) (string, error) {
	now := time.Now()
	if claims.IssuedAt == 0 {
		claims.IssuedAt = now.Unix()
	}
	if claims.ExpiresAt == 0 && j.config.ExpiresIn > 0 {
		claims.ExpiresAt = now.Add(j.config.ExpiresIn).Unix()
	}
	if claims.Issuer == "" {
		claims.Issuer = j.config.Issuer
	}
	if claims.Audience == "" {
		claims.Audience = j.config.Audience
	}
	return j.Sign(claims)
}

// Sign encodes header.claims and appends an HMAC-SHA256 signature,
// without touching expiry/issuer defaults (Generate does that).
func (j *JWT) Sign(claims Claims) (string, error) {
	headerJSON, err := json.Marshal(Header{Algorithm: AlgorithmHS256, Type: "JWT"})
	if err != nil {
		return "", fmt.Errorf("marshal header: %w", err)
	}
	claimsJSON, err := json.Marshal(claims)
	if err != nil {
		return "", fmt.Errorf("marshal claims: %w", err)
	}

	signingInput := base64URLEncode(headerJSON) + "." + base64URLEncode(claimsJSON)
	return signingInput + "." + j.sign(signingInput), nil
}

// Parse decodes tokenString, verifies its signature, and validates its
// registered claims (expiry, not-before, issuer, audience).
func (j *JWT) Parse(tokenString string) (*Token, error) {
	token, err := j.decode(tokenString)
	if err != nil {
		return nil, err
	}
	if err := j.validateClaims(&token.Claims); err != nil {
		return nil, err
	}
	token.Valid = true
	return token, nil
}

// decode splits, base64-decodes, and signature-checks tokenString
// without applying any claim validation — the part Parse and Refresh's
// expired-token fallback both need, split out so neither reimplements
// the other.
func (j *JWT) decode(tokenString string) (*Token, error) {
	parts := strings.Split(tokenString, ".")
	if len(parts) != 3 {
		return nil, ErrInvalidToken
	}

	headerJSON, err := base64URLDecode(parts[0])
	if err != nil {
		return nil, fmt.Errorf("decode header: %w", err)
	}
	var header Header
	if err := json.Unmarshal(headerJSON, &header); err != nil {
		return nil, fmt.Errorf("unmarshal header: %w", err)
	}
	if header.Algorithm != AlgorithmHS256 {
		return nil, fmt.Errorf("unsupported algorithm: %s", header.Algorithm)
	}

	claimsJSON, err := base64URLDecode(parts[1])
	if err != nil {
		return nil, fmt.Errorf("decode claims: %w", err)
	}
	var claims Claims
	if err := json.Unmarshal(claimsJSON, &claims); err != nil {
		return nil, fmt.Errorf("unmarshal claims: %w", err)
	}

	signingInput := parts[0] + "." + parts[1]
	if !hmac.Equal([]byte(parts[2]), []byte(j.sign(signingInput))) {
		return nil, ErrInvalidSignature
	}

	return &Token{Header: header, Claims: claims, Signature: parts[2], Raw: tokenString}, nil
}

// validateClaims checks exp/nbf/iss/aud against the handler's Config.
func (j *JWT) validateClaims(claims *Claims) error {
	now := time.Now().Unix()

	if claims.ExpiresAt > 0 && now > claims.ExpiresAt+int64(j.config.ExpirationLeeway.Seconds()) {
		return ErrExpiredToken
	}
	if claims.NotBefore > 0 && now < claims.NotBefore-int64(j.config.NotBeforeLeeway.Seconds()) {
		return ErrTokenNotYetValid
	}
	if j.config.Issuer != "" && claims.Issuer != j.config.Issuer {
		return fmt.Errorf("invalid issuer: expected %s, got %s", j.config.Issuer, claims.Issuer)
	}
	if j.config.Audience != "" && claims.Audience != j.config.Audience {
		return fmt.Errorf("invalid audience: expected %s, got %s", j.config.Audience, claims.Audience)
	}
	return nil
}

func (j *JWT) sign(input string) string {
	h := hmac.New(sha256.New, j.config.Secret)
	h.Write([]byte(input))
	return base64URLEncode(h.Sum(nil))
}

// Refresh re-signs tokenString's claims with a fresh iat/exp, accepting
// an expired token (but no other validation failure) so a client can
// renew a session without having to hold a still-valid token at hand.
func (j *JWT) Refresh(tokenString string) (string, error) {
	token, err := j.Parse(tokenString)
	if err != nil {
		if !errors.Is(err, ErrExpiredToken) {
			return "", err
		}
		token, err = j.decode(tokenString)
		if err != nil {
			return "", err
		}
		unexpired := token.Claims
		unexpired.ExpiresAt = 0
		if err := j.validateClaims(&unexpired); err != nil {
			return "", err
		}
	}

	now := time.Now()
	token.Claims.IssuedAt = now.Unix()
	token.Claims.ExpiresAt = now.Add(j.config.ExpiresIn).Unix()
	return j.Sign(token.Claims)
}

func base64URLEncode(data []byte) string {
	return strings.TrimRight(base64.URLEncoding.EncodeToString(data), "=")
}

func base64URLDecode(s string) ([]byte, error) {
	switch len(s) % 4 {
	case 2:
		s += "=="
	case 3:
		s += "="
	}
	return base64.URLEncoding.DecodeString(s)
}
