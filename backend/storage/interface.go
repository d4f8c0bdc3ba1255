// Copyright (C) 2025 FamChat contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package storage

import (
	"github.com/ankondeadlarx/FamChat/backend/models"
)

// UserStore persists user identity and credentials. Find methods return
// (nil, nil) when no user matches; absence is not an error.
type UserStore interface {
	// CreateUser inserts a new user. The password must already be hashed.
	// A username or email collision returns *models.DuplicateIdentityError.
	CreateUser(username, email, passwordHash, displayName string) (*models.User, error)
	FindUserByID(id int64) (*models.User, error)
	FindUserByUsername(username string) (*models.User, error)
	FindUserByEmail(email string) (*models.User, error)
	TouchLastSeen(id int64) error
	SetPublicKey(id int64, publicKey string) error
}

// ContactStore maintains the directed request/accept relation between
// users. At most one edge exists per unordered pair, enforced atomically by
// the insert itself, never by a check-then-act.
type ContactStore interface {
	// AddContact creates a pending edge from requester to the user named by
	// targetUsername and returns the target's id. Fails with
	// models.ErrNotFound, models.ErrSelfReference or models.ErrAlreadyExists.
	AddContact(requesterID int64, targetUsername string) (int64, error)
	// AcceptContact flips a pending edge to accepted. Only the request's
	// target may accept; anything else is models.ErrNotFound.
	AcceptContact(approverID, requesterID int64) error
	// RejectContact deletes a pending edge, with the same role check as
	// AcceptContact.
	RejectContact(approverID, requesterID int64) error
	// RemoveContact deletes any edge between the pair in either direction
	// and any status. Idempotent.
	RemoveContact(userID, otherID int64) error
	// ListContacts returns users connected to userID by an accepted edge,
	// ordered by the other user's last_seen descending.
	ListContacts(userID int64) ([]models.ContactEntry, error)
	// ListPendingRequests returns pending edges targeting userID, newest
	// first, joined with the requester's profile.
	ListPendingRequests(userID int64) ([]models.ContactRequest, error)
	// ListSentRequests returns pending edges created by userID, newest
	// first, joined with the target's profile.
	ListSentRequests(userID int64) ([]models.ContactRequest, error)
	// AreConnected reports whether an accepted edge exists between the
	// unordered pair.
	AreConnected(a, b int64) (bool, error)
}

// MessageStore persists encrypted messages. It performs no authorization;
// callers must consult the delivery gate before every write and read.
type MessageStore interface {
	CreateMessage(senderID, receiverID int64, encryptedContent, iv string) (*models.Message, error)
	// Conversation returns the most recent limit messages between the pair
	// in chronological (oldest-first) order.
	Conversation(userID, otherID int64, limit int) ([]models.Message, error)
	// MarkMessageRead sets read_at to now, only if readerID is the
	// receiver and read_at is still null. Otherwise it is a silent no-op.
	MarkMessageRead(messageID, readerID int64) error
	UnreadCount(userID int64) (int, error)
}

// PresenceStore tracks ephemeral online status for the contact list. It is
// best-effort display state, not a routing mechanism; entries expire on
// their own if a process dies without cleaning up.
type PresenceStore interface {
	MarkOnline(userID int64) error
	MarkOffline(userID int64) error
	Online(userIDs []int64) (map[int64]bool, error)
}

type Store interface {
	UserStore
	ContactStore
	MessageStore
}
