package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseRoundTrip(t *testing.T) {
	j := NewWithSecret([]byte("secret"))
	claims := NewClaims("user-1", time.Hour).WithCustom("roles", []string{"admin"})

	tok, err := j.Generate(claims)
	require.NoError(t, err)
	require.NotEmpty(t, tok)

	parsed, err := j.Parse(tok)
	require.NoError(t, err)
	assert.Equal(t, "user-1", parsed.Claims.Subject)
	assert.True(t, parsed.Valid)
	assert.Equal(t, []string{"admin"}, parsed.Claims.GetStringSlice("roles"))
}

func TestParseRejectsTamperedSignature(t *testing.T) {
	j := NewWithSecret([]byte("secret"))
	tok, err := j.Generate(NewClaims("user-1", time.Hour))
	require.NoError(t, err)

	_, err = NewWithSecret([]byte("different")).Parse(tok)
	assert.ErrorIs(t, err, ErrInvalidSignature)
}

func TestParseRejectsExpiredToken(t *testing.T) {
	j := NewWithSecret([]byte("secret"))
	tok, err := j.Generate(NewClaims("user-1", -time.Hour))
	require.NoError(t, err)

	_, err = j.Parse(tok)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestParseRejectsMalformedToken(t *testing.T) {
	j := NewWithSecret([]byte("secret"))
	_, err := j.Parse("not.a.token.at.all")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestParseValidatesIssuerAndAudience(t *testing.T) {
	j := New(Config{Secret: []byte("secret"), Issuer: "corvid", Audience: "api"})
	claims := Claims{Subject: "user-1", Issuer: "corvid", Audience: "api"}
	tok, err := j.Generate(claims)
	require.NoError(t, err)

	_, err = j.Parse(tok)
	require.NoError(t, err)

	other := New(Config{Secret: []byte("secret"), Issuer: "other"})
	tok2, err := other.Generate(Claims{Subject: "user-1", Audience: "api"})
	require.NoError(t, err)
	_, err = j.Parse(tok2)
	assert.Error(t, err)
}

func TestRefreshExtendsExpiration(t *testing.T) {
	j := NewWithSecret([]byte("secret"))
	tok, err := j.Generate(NewClaims("user-1", time.Minute))
	require.NoError(t, err)

	refreshed, err := j.Refresh(tok)
	require.NoError(t, err)

	parsed, err := j.Parse(refreshed)
	require.NoError(t, err)
	assert.Equal(t, "user-1", parsed.Claims.Subject)
}
