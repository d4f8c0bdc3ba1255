// Copyright (C) 2025 FamChat contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Package auth mints and verifies session tokens and hashes credentials.
// A session is a signed, time-bounded claim of identity; nothing is stored
// server-side, so logout is purely the client discarding its copy.
package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ankondeadlarx/FamChat/backend/models"
)

// SessionLifetime is fixed at issuance. There is no revocation list.
const SessionLifetime = 7 * 24 * time.Hour

// Claims carried by every session token.
type Claims struct {
	UserID   int64  `json:"user_id"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Sessions issues and verifies HS256-signed session tokens. The signing
// secret is process configuration, never user input.
type Sessions struct {
	secret []byte
}

func NewSessions(secret []byte) *Sessions {
	return &Sessions{secret: secret}
}

// Issue mints a token for the given user, expiring SessionLifetime from now.
func (s *Sessions) Issue(userID int64, username string) (string, error) {
	now := time.Now()
	claims := &Claims{
		UserID:   userID,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(SessionLifetime)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.secret)
}

// Verify parses and validates a token. A bad signature, malformed payload
// or expired claim all surface as models.ErrInvalidSession.
func (s *Sessions) Verify(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrInvalidSession, err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid || claims.UserID == 0 {
		return nil, models.ErrInvalidSession
	}
	return claims, nil
}
