// Copyright (C) 2025 FamChat contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package models

import "time"

// User is the full persisted user row, including the credential hash.
// It must never be serialized to a client; use Sanitize first.
type User struct {
	ID           int64     `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	DisplayName  string    `json:"display_name"`
	PublicKey    string    `json:"public_key,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	LastSeen     time.Time `json:"last_seen"`
}

// PublicUser is a User with the credential hash stripped. The hash field
// does not exist on this type at all, so no marshaling path can leak it.
type PublicUser struct {
	ID          int64     `json:"id"`
	Username    string    `json:"username"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	PublicKey   string    `json:"public_key,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	LastSeen    time.Time `json:"last_seen"`
}

// Sanitize returns a copy of the user safe to hand to a client.
// Sanitize of nil is nil.
func (u *User) Sanitize() *PublicUser {
	if u == nil {
		return nil
	}
	return &PublicUser{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		DisplayName: u.DisplayName,
		PublicKey:   u.PublicKey,
		CreatedAt:   u.CreatedAt,
		LastSeen:    u.LastSeen,
	}
}
