package jwt

import (
	"encoding/json"
	"time"
)

// Claims is the payload of a token: the RFC 7519 registered claims plus
// an open bag of custom ones, flattened into one JSON object on the
// wire rather than nested under a "custom" key.
type Claims struct {
	Issuer    string `json:"iss,omitempty"`
	Subject   string `json:"sub,omitempty"`
	Audience  string `json:"aud,omitempty"`
	ExpiresAt int64  `json:"exp,omitempty"`
	NotBefore int64  `json:"nbf,omitempty"`
	IssuedAt  int64  `json:"iat,omitempty"`
	ID        string `json:"jti,omitempty"`

	Custom map[string]interface{} `json:"-"`
}

// registeredField is one registered claim's wire key paired with its
// current value, used by MarshalJSON to flatten Claims into a single
// object without seven repeated if-statements.
type registeredField struct {
	key string
	val interface{}
}

func (c Claims) registeredFields() []registeredField {
	return []registeredField{
		{"iss", c.Issuer}, {"sub", c.Subject}, {"aud", c.Audience},
		{"exp", c.ExpiresAt}, {"nbf", c.NotBefore}, {"iat", c.IssuedAt}, {"jti", c.ID},
	}
}

func isZeroClaim(v interface{}) bool {
	switch x := v.(type) {
	case string:
		return x == ""
	case int64:
		return x == 0
	default:
		return v == nil
	}
}

// MarshalJSON flattens the registered claims and Custom into one object.
func (c Claims) MarshalJSON() ([]byte, error) {
	m := make(map[string]interface{}, len(c.Custom)+len(c.registeredFields()))
	for k, v := range c.Custom {
		m[k] = v
	}
	for _, f := range c.registeredFields() {
		if !isZeroClaim(f.val) {
			m[f.key] = f.val
		}
	}
	return json.Marshal(m)
}

// UnmarshalJSON extracts the registered claims by key and collects every
// other key into Custom.
func (c *Claims) UnmarshalJSON(data []byte) error {
	var m map[string]interface{}
	if err := json.Unmarshal(data, &m); err != nil {
		return err
	}

	assignString := func(key string, dst *string) {
		if v, ok := m[key].(string); ok {
			*dst = v
		}
	}
	assignUnix := func(key string, dst *int64) {
		if v, ok := m[key].(float64); ok {
			*dst = int64(v)
		}
	}

	assignString("iss", &c.Issuer)
	assignString("sub", &c.Subject)
	assignString("aud", &c.Audience)
	assignUnix("exp", &c.ExpiresAt)
	assignUnix("nbf", &c.NotBefore)
	assignUnix("iat", &c.IssuedAt)
	assignString("jti", &c.ID)

	registered := map[string]bool{"iss": true, "sub": true, "aud": true, "exp": true, "nbf": true, "iat": true, "jti": true}
	c.Custom = make(map[string]interface{}, len(m))
	for k, v := range m {
		if !registered[k] {
			c.Custom[k] = v
		}
	}
	return nil
}

// NewClaims builds Claims for subject, stamping iat now and exp
// expiresIn from now.
func NewClaims(subject string, expiresIn time.Duration) Claims {
	now := time.Now()
	return Claims{
		Subject:   subject,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(expiresIn).Unix(),
	}
}

// WithCustom returns c with key/value added to Custom.
func (c Claims) WithCustom(key string, value interface{}) Claims {
	if c.Custom == nil {
		c.Custom = make(map[string]interface{})
	}
	c.Custom[key] = value
	return c
}

// WithCustomMap returns c with every entry of m merged into Custom.
func (c Claims) WithCustomMap(m map[string]interface{}) Claims {
	if c.Custom == nil {
		c.Custom = make(map[string]interface{}, len(m))
	}
	for k, v := range m {
		c.Custom[k] = v
	}
	return c
}

// Get returns a custom claim's raw value, or nil if absent.
func (c *Claims) Get(key string) interface{} {
	if c.Custom == nil {
		return nil
	}
	return c.Custom[key]
}

// GetString returns a custom claim coerced to string.
func (c *Claims) GetString(key string) string {
	v, _ := c.Get(key).(string)
	return v
}

// GetBool returns a custom claim coerced to bool.
func (c *Claims) GetBool(key string) bool {
	v, _ := c.Get(key).(bool)
	return v
}

// asInt64 coerces a custom claim to int64 across the three numeric
// shapes JSON decoding and direct construction can produce (float64 from
// json.Unmarshal, int/int64 from values set in-process).
func (c *Claims) asInt64(key string) (int64, bool) {
	switch v := c.Get(key).(type) {
	case int64:
		return v, true
	case int:
		return int64(v), true
	case float64:
		return int64(v), true
	default:
		return 0, false
	}
}

// GetInt returns a custom claim coerced to int.
func (c *Claims) GetInt(key string) int {
	v, _ := c.asInt64(key)
	return int(v)
}

// GetInt64 returns a custom claim coerced to int64.
func (c *Claims) GetInt64(key string) int64 {
	v, _ := c.asInt64(key)
	return v
}

// GetStringSlice returns a custom claim coerced to []string, accepting
// both a native []string (set in-process) and a []interface{} of
// strings (the shape json.Unmarshal produces for a JSON array).
func (c *Claims) GetStringSlice(key string) []string {
	switch v := c.Get(key).(type) {
	case []string:
		return v
	case []interface{}:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}

// IsExpired reports whether exp has passed. A zero exp never expires.
func (c *Claims) IsExpired() bool {
	return c.ExpiresAt != 0 && time.Now().Unix() > c.ExpiresAt
}

// ExpiresIn returns the duration remaining until exp (negative once
// expired). A zero exp returns zero.
func (c *Claims) ExpiresIn() time.Duration {
	if c.ExpiresAt == 0 {
		return 0
	}
	return time.Until(time.Unix(c.ExpiresAt, 0))
}

// UserClaims extends Claims with the fields a user-session token
// typically needs beyond the registered set, so callers don't have to
// round-trip every field through Custom's untyped map.
type UserClaims struct {
	Claims
	UserID   int64    `json:"user_id,omitempty"`
	Username string   `json:"username,omitempty"`
	Email    string   `json:"email,omitempty"`
	Roles    []string `json:"roles,omitempty"`
}

// NewUserClaims builds UserClaims for a user session.
func NewUserClaims(userID int64, username string, expiresIn time.Duration) UserClaims {
	return UserClaims{
		Claims:   NewClaims(username, expiresIn),
		UserID:   userID,
		Username: username,
	}
}

// HasRole reports whether role is present in Roles.
func (c *UserClaims) HasRole(role string) bool {
	for _, r := range c.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// HasAnyRole reports whether any of roles is present in Roles.
func (c *UserClaims) HasAnyRole(roles ...string) bool {
	want := make(map[string]bool, len(roles))
	for _, r := range roles {
		want[r] = true
	}
	for _, r := range c.Roles {
		if want[r] {
			return true
		}
	}
	return false
}
