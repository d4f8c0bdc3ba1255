// Copyright (C) 2025 FamChat contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package memory

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ankondeadlarx/FamChat/backend/models"
)

func newTestUsers(t *testing.T, s *Store, names ...string) map[string]*models.User {
	t.Helper()
	users := make(map[string]*models.User, len(names))
	for _, name := range names {
		u, err := s.CreateUser(name, name+"@example.com", "hash", name)
		require.NoError(t, err)
		users[name] = u
	}
	return users
}

func TestCreateUserDuplicates(t *testing.T) {
	s := NewStore()
	newTestUsers(t, s, "alice")

	_, err := s.CreateUser("alice", "other@example.com", "hash", "Alice")
	var dup *models.DuplicateIdentityError
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "username", dup.Field)

	_, err = s.CreateUser("alice2", "alice@example.com", "hash", "Alice")
	require.ErrorAs(t, err, &dup)
	assert.Equal(t, "email", dup.Field)
}

func TestFindUserAbsentIsNilNotError(t *testing.T) {
	s := NewStore()

	u, err := s.FindUserByID(123)
	require.NoError(t, err)
	assert.Nil(t, u)

	u, err = s.FindUserByUsername("ghost")
	require.NoError(t, err)
	assert.Nil(t, u)

	u, err = s.FindUserByEmail("ghost@example.com")
	require.NoError(t, err)
	assert.Nil(t, u)
}

func TestAddContactPairSymmetry(t *testing.T) {
	s := NewStore()
	users := newTestUsers(t, s, "alice", "bob")

	targetID, err := s.AddContact(users["alice"].ID, "bob")
	require.NoError(t, err)
	assert.Equal(t, users["bob"].ID, targetID)

	// The reverse direction collides with the same unordered pair.
	_, err = s.AddContact(users["bob"].ID, "alice")
	assert.ErrorIs(t, err, models.ErrAlreadyExists)

	// And so does a repeat of the original.
	_, err = s.AddContact(users["alice"].ID, "bob")
	assert.ErrorIs(t, err, models.ErrAlreadyExists)
}

func TestAddContactSelfAndUnknown(t *testing.T) {
	s := NewStore()
	users := newTestUsers(t, s, "alice")

	_, err := s.AddContact(users["alice"].ID, "alice")
	assert.ErrorIs(t, err, models.ErrSelfReference)

	_, err = s.AddContact(users["alice"].ID, "nonexistent")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestAcceptOnlyByTarget(t *testing.T) {
	s := NewStore()
	users := newTestUsers(t, s, "alice", "bob")
	alice, bob := users["alice"].ID, users["bob"].ID

	_, err := s.AddContact(alice, "bob")
	require.NoError(t, err)

	// The requester cannot accept their own request.
	assert.ErrorIs(t, s.AcceptContact(alice, bob), models.ErrNotFound)

	connected, err := s.AreConnected(alice, bob)
	require.NoError(t, err)
	assert.False(t, connected)

	// The target can.
	require.NoError(t, s.AcceptContact(bob, alice))

	for _, pair := range [][2]int64{{alice, bob}, {bob, alice}} {
		connected, err := s.AreConnected(pair[0], pair[1])
		require.NoError(t, err)
		assert.True(t, connected)
	}

	// A second accept finds no pending edge.
	assert.ErrorIs(t, s.AcceptContact(bob, alice), models.ErrNotFound)
}

func TestRejectDeletesPendingEdge(t *testing.T) {
	s := NewStore()
	users := newTestUsers(t, s, "alice", "bob")
	alice, bob := users["alice"].ID, users["bob"].ID

	_, err := s.AddContact(alice, "bob")
	require.NoError(t, err)

	// Wrong role cannot reject.
	assert.ErrorIs(t, s.RejectContact(alice, bob), models.ErrNotFound)

	require.NoError(t, s.RejectContact(bob, alice))
	assert.ErrorIs(t, s.RejectContact(bob, alice), models.ErrNotFound)

	// The pair is free again after a reject.
	_, err = s.AddContact(bob, "alice")
	assert.NoError(t, err)
}

func TestRemoveContactIsIdempotent(t *testing.T) {
	s := NewStore()
	users := newTestUsers(t, s, "alice", "bob")
	alice, bob := users["alice"].ID, users["bob"].ID

	_, err := s.AddContact(alice, "bob")
	require.NoError(t, err)
	require.NoError(t, s.AcceptContact(bob, alice))

	// Either side may remove, regardless of original direction.
	require.NoError(t, s.RemoveContact(bob, alice))

	connected, err := s.AreConnected(alice, bob)
	require.NoError(t, err)
	assert.False(t, connected)

	// Second remove is a no-op, not an error.
	require.NoError(t, s.RemoveContact(bob, alice))
	require.NoError(t, s.RemoveContact(alice, bob))
}

func TestListContactsExcludesPendingAndSelf(t *testing.T) {
	s := NewStore()
	users := newTestUsers(t, s, "alice", "bob", "carol")
	alice, bob := users["alice"].ID, users["bob"].ID

	_, err := s.AddContact(alice, "bob")
	require.NoError(t, err)
	_, err = s.AddContact(alice, "carol")
	require.NoError(t, err)
	require.NoError(t, s.AcceptContact(bob, alice))

	contacts, err := s.ListContacts(alice)
	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.Equal(t, "bob", contacts[0].Username)

	// The pending carol sees nothing yet.
	contacts, err = s.ListContacts(users["carol"].ID)
	require.NoError(t, err)
	assert.Empty(t, contacts)
}

func TestPendingAndSentRequests(t *testing.T) {
	s := NewStore()
	users := newTestUsers(t, s, "alice", "bob", "carol")
	alice := users["alice"].ID

	_, err := s.AddContact(alice, "bob")
	require.NoError(t, err)
	_, err = s.AddContact(users["carol"].ID, "alice")
	require.NoError(t, err)

	incoming, err := s.ListPendingRequests(users["bob"].ID)
	require.NoError(t, err)
	require.Len(t, incoming, 1)
	assert.Equal(t, "alice", incoming[0].Username)

	incoming, err = s.ListPendingRequests(alice)
	require.NoError(t, err)
	require.Len(t, incoming, 1)
	assert.Equal(t, "carol", incoming[0].Username)

	sent, err := s.ListSentRequests(alice)
	require.NoError(t, err)
	require.Len(t, sent, 1)
	assert.Equal(t, "bob", sent[0].Username)
}

func connect(t *testing.T, s *Store, a, b *models.User) {
	t.Helper()
	_, err := s.AddContact(a.ID, b.Username)
	require.NoError(t, err)
	require.NoError(t, s.AcceptContact(b.ID, a.ID))
}

func TestConversationLimitAndOrder(t *testing.T) {
	s := NewStore()
	users := newTestUsers(t, s, "alice", "bob")
	alice, bob := users["alice"], users["bob"]
	connect(t, s, alice, bob)

	for i := 0; i < 10; i++ {
		from, to := alice.ID, bob.ID
		if i%2 == 1 {
			from, to = bob.ID, alice.ID
		}
		_, err := s.CreateMessage(from, to, fmt.Sprintf("ct-%d", i), "iv")
		require.NoError(t, err)
	}

	window, err := s.Conversation(alice.ID, bob.ID, 5)
	require.NoError(t, err)
	require.Len(t, window, 5)

	// The window is the most recent five, oldest first.
	for i, m := range window {
		assert.Equal(t, fmt.Sprintf("ct-%d", i+5), m.EncryptedContent)
		if i > 0 {
			assert.False(t, m.Timestamp.Before(window[i-1].Timestamp))
		}
	}

	// Both participants see the same conversation.
	mirror, err := s.Conversation(bob.ID, alice.ID, 5)
	require.NoError(t, err)
	assert.Equal(t, window, mirror)

	full, err := s.Conversation(alice.ID, bob.ID, 50)
	require.NoError(t, err)
	assert.Len(t, full, 10)
	assert.Equal(t, full[5:], window)
}

func TestMarkReadRules(t *testing.T) {
	s := NewStore()
	users := newTestUsers(t, s, "alice", "bob", "carol")
	alice, bob := users["alice"], users["bob"]
	connect(t, s, alice, bob)

	msg, err := s.CreateMessage(alice.ID, bob.ID, "ct", "iv")
	require.NoError(t, err)
	require.Nil(t, msg.ReadAt)

	// Neither the sender nor a third party can mark it read.
	require.NoError(t, s.MarkMessageRead(msg.ID, alice.ID))
	require.NoError(t, s.MarkMessageRead(msg.ID, users["carol"].ID))

	got, err := s.Conversation(alice.ID, bob.ID, 1)
	require.NoError(t, err)
	require.Nil(t, got[0].ReadAt)

	// The receiver can, exactly once.
	require.NoError(t, s.MarkMessageRead(msg.ID, bob.ID))
	got, err = s.Conversation(alice.ID, bob.ID, 1)
	require.NoError(t, err)
	require.NotNil(t, got[0].ReadAt)

	firstRead := *got[0].ReadAt
	require.NoError(t, s.MarkMessageRead(msg.ID, bob.ID))
	got, err = s.Conversation(alice.ID, bob.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, firstRead, *got[0].ReadAt)

	// An unknown message id is also silent.
	require.NoError(t, s.MarkMessageRead(9999, bob.ID))
}

func TestUnreadCountTracksMarkRead(t *testing.T) {
	s := NewStore()
	users := newTestUsers(t, s, "alice", "bob")
	alice, bob := users["alice"], users["bob"]
	connect(t, s, alice, bob)

	var ids []int64
	for i := 0; i < 3; i++ {
		m, err := s.CreateMessage(alice.ID, bob.ID, "ct", "iv")
		require.NoError(t, err)
		ids = append(ids, m.ID)
	}

	count, err := s.UnreadCount(bob.ID)
	require.NoError(t, err)
	assert.Equal(t, 3, count)

	// The sender has nothing unread.
	count, err = s.UnreadCount(alice.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	// Each distinct mark-read decrements by exactly one; repeats do not.
	require.NoError(t, s.MarkMessageRead(ids[0], bob.ID))
	require.NoError(t, s.MarkMessageRead(ids[0], bob.ID))

	count, err = s.UnreadCount(bob.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}
