package jwtx_test

import (
	"strings"
	"testing"
	"time"

	"github.com/aussiebroadwan/notes/pkg/jwtx"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func TestValidateAudience(t *testing.T) {
	c := &jwtx.Claims{RegisteredClaims: jwt.RegisteredClaims{Audience: []string{"notes-test"}}}

	require.NoError(t, c.ValidateAudience([]string{"notes-test"}))
	require.NoError(t, c.ValidateAudience(nil))
	require.ErrorIs(t, c.ValidateAudience([]string{"other"}), jwtx.ErrAudience)
}

func TestValidateSubject(t *testing.T) {
	c := &jwtx.Claims{}
	require.ErrorIs(t, c.ValidateSubject(), jwtx.ErrInvalidClaim)

	c.Subject = strings.Repeat("x", 129)
	require.ErrorIs(t, c.ValidateSubject(), jwtx.ErrInvalidClaim)

	c.Subject = "uid"
	require.NoError(t, c.ValidateSubject())
}

func TestValidateTimes(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	c := jwtx.NewIDClaims("p", "uid", "a@b.c", now, now)

	require.NoError(t, c.ValidateTimes(now, 0))
	require.NoError(t, c.ValidateTimes(now.Add(jwtx.IDTokenTTL+10*time.Second), 30*time.Second))
	require.ErrorIs(t, c.ValidateTimes(now.Add(jwtx.IDTokenTTL+time.Minute), 30*time.Second), jwtx.ErrExpired)
	require.ErrorIs(t, c.ValidateTimes(now.Add(-time.Minute), 0), jwtx.ErrNotYetValid)

	c.ExpiresAt = nil
	require.ErrorIs(t, c.ValidateTimes(now, 0), jwtx.ErrExpired)
}

func TestAsMap(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	c := jwtx.NewIDClaims("p", "uid", "a@b.c", now, now)
	m := c.AsMap()

	require.Equal(t, "uid", m["user_id"])
	require.Equal(t, "a@b.c", m["email"])
	require.Equal(t, now.Unix(), m["auth_time"])
	require.Equal(t, now.Add(jwtx.IDTokenTTL).Unix(), m["exp"])
}
