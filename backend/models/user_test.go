// Copyright (C) 2025 FamChat contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitizeStripsCredentialHash(t *testing.T) {
	u := &User{
		ID:           1,
		Username:     "alice",
		Email:        "alice@example.com",
		PasswordHash: "$2a$10$secrethashvalue",
		DisplayName:  "Alice",
		CreatedAt:    time.Now(),
		LastSeen:     time.Now(),
	}

	pub := u.Sanitize()
	require.NotNil(t, pub)
	assert.Equal(t, u.ID, pub.ID)
	assert.Equal(t, u.Username, pub.Username)
	assert.Equal(t, u.Email, pub.Email)

	raw, err := json.Marshal(pub)
	require.NoError(t, err)
	body := string(raw)
	assert.NotContains(t, body, "secrethashvalue")
	assert.NotContains(t, strings.ToLower(body), "password")
	assert.NotContains(t, strings.ToLower(body), "hash")
}

func TestSanitizeNilIsNil(t *testing.T) {
	var u *User
	assert.Nil(t, u.Sanitize())
}

func TestUserJSONOmitsHash(t *testing.T) {
	// Even the unsanitized struct must not leak the hash if it is ever
	// marshaled by accident.
	u := &User{Username: "alice", PasswordHash: "supersecret"}
	raw, err := json.Marshal(u)
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "supersecret")
}
