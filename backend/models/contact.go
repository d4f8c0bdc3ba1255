// Copyright (C) 2025 FamChat contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package models

import "time"

// Contact edge statuses. A rejected or removed edge is deleted, not marked.
const (
	ContactPending  = "pending"
	ContactAccepted = "accepted"
)

// ContactEdge is a directed contact row. Direction (UserID requested
// ContactID) only matters while the edge is pending; an accepted edge is
// symmetric for every query.
type ContactEdge struct {
	ID        int64     `json:"id"`
	UserID    int64     `json:"user_id"`
	ContactID int64     `json:"contact_id"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// ContactEntry is one row of a user's accepted contact list, joined with
// the other user's public profile.
type ContactEntry struct {
	UserID      int64     `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	LastSeen    time.Time `json:"last_seen"`
	Since       time.Time `json:"since"`
	Online      bool      `json:"online"`
}

// ContactRequest is a pending edge joined with the counterpart's profile.
// For incoming requests the profile is the requester's; for sent requests
// it is the target's.
type ContactRequest struct {
	UserID      int64     `json:"id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}
