// Copyright (C) 2025 FamChat contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ankondeadlarx/FamChat/backend/models"
)

func TestSessionRoundTrip(t *testing.T) {
	sessions := NewSessions([]byte("test-secret"))

	token, err := sessions.Issue(42, "alice")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := sessions.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
}

func TestSessionLifetimeIsSevenDays(t *testing.T) {
	sessions := NewSessions([]byte("test-secret"))

	token, err := sessions.Issue(1, "alice")
	require.NoError(t, err)

	claims, err := sessions.Verify(token)
	require.NoError(t, err)

	lifetime := claims.ExpiresAt.Sub(claims.IssuedAt.Time)
	assert.Equal(t, SessionLifetime, lifetime)
}

func TestVerifyRejectsBadTokens(t *testing.T) {
	sessions := NewSessions([]byte("test-secret"))

	otherToken, err := NewSessions([]byte("other-secret")).Issue(1, "alice")
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"empty", ""},
		{"garbage", "not-a-token"},
		{"malformed", "a.b.c"},
		{"wrong secret", otherToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := sessions.Verify(tt.token)
			assert.ErrorIs(t, err, models.ErrInvalidSession)
		})
	}
}

func TestVerifyRejectsExpiredToken(t *testing.T) {
	secret := []byte("test-secret")
	sessions := NewSessions(secret)

	// Hand-build a token that expired an hour ago.
	now := time.Now()
	claims := &Claims{
		UserID:   7,
		Username: "bob",
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now.Add(-8 * 24 * time.Hour)),
			ExpiresAt: jwt.NewNumericDate(now.Add(-time.Hour)),
		},
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(secret)
	require.NoError(t, err)

	_, err = sessions.Verify(token)
	assert.ErrorIs(t, err, models.ErrInvalidSession)
}

func TestVerifyRejectsUnsignedAlgorithm(t *testing.T) {
	sessions := NewSessions([]byte("test-secret"))

	claims := &Claims{UserID: 7, Username: "bob"}
	token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).
		SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	_, err = sessions.Verify(token)
	assert.ErrorIs(t, err, models.ErrInvalidSession)
}
