// Copyright (C) 2025 FamChat contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Package memory provides an in-memory storage.Store used by tests and
// local development. It mirrors the postgres implementation's semantics,
// including the unordered-pair contact constraint and the silent
// mark-read rules.
package memory

import (
	"sort"
	"sync"
	"time"

	"github.com/ankondeadlarx/FamChat/backend/models"
)

type Store struct {
	mu sync.RWMutex

	nextUserID    int64
	nextContactID int64
	nextMessageID int64

	users    map[int64]*models.User
	contacts []*models.ContactEdge
	messages []*models.Message
}

func NewStore() *Store {
	return &Store{users: make(map[int64]*models.User)}
}

func (s *Store) CreateUser(username, email, passwordHash, displayName string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, u := range s.users {
		if u.Username == username {
			return nil, &models.DuplicateIdentityError{Field: "username"}
		}
		if u.Email == email {
			return nil, &models.DuplicateIdentityError{Field: "email"}
		}
	}

	s.nextUserID++
	now := time.Now()
	u := &models.User{
		ID:           s.nextUserID,
		Username:     username,
		Email:        email,
		PasswordHash: passwordHash,
		DisplayName:  displayName,
		CreatedAt:    now,
		LastSeen:     now,
	}
	s.users[u.ID] = u

	out := *u
	return &out, nil
}

func (s *Store) FindUserByID(id int64) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if u, ok := s.users[id]; ok {
		out := *u
		return &out, nil
	}
	return nil, nil
}

func (s *Store) FindUserByUsername(username string) (*models.User, error) {
	return s.findUser(func(u *models.User) bool { return u.Username == username })
}

func (s *Store) FindUserByEmail(email string) (*models.User, error) {
	return s.findUser(func(u *models.User) bool { return u.Email == email })
}

func (s *Store) findUser(match func(*models.User) bool) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if match(u) {
			out := *u
			return &out, nil
		}
	}
	return nil, nil
}

func (s *Store) TouchLastSeen(id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		u.LastSeen = time.Now()
	}
	return nil
}

func (s *Store) SetPublicKey(id int64, publicKey string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u, ok := s.users[id]; ok {
		u.PublicKey = publicKey
	}
	return nil
}

func (s *Store) AddContact(requesterID int64, targetUsername string) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var targetID int64
	for _, u := range s.users {
		if u.Username == targetUsername {
			targetID = u.ID
			break
		}
	}
	if targetID == 0 {
		return 0, models.ErrNotFound
	}
	if targetID == requesterID {
		return 0, models.ErrSelfReference
	}

	for _, e := range s.contacts {
		if samePair(e, requesterID, targetID) {
			return 0, models.ErrAlreadyExists
		}
	}

	s.nextContactID++
	s.contacts = append(s.contacts, &models.ContactEdge{
		ID:        s.nextContactID,
		UserID:    requesterID,
		ContactID: targetID,
		Status:    models.ContactPending,
		CreatedAt: time.Now(),
	})
	return targetID, nil
}

func (s *Store) AcceptContact(approverID, requesterID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, e := range s.contacts {
		if e.UserID == requesterID && e.ContactID == approverID && e.Status == models.ContactPending {
			e.Status = models.ContactAccepted
			return nil
		}
	}
	return models.ErrNotFound
}

func (s *Store) RejectContact(approverID, requesterID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i, e := range s.contacts {
		if e.UserID == requesterID && e.ContactID == approverID && e.Status == models.ContactPending {
			s.contacts = append(s.contacts[:i], s.contacts[i+1:]...)
			return nil
		}
	}
	return models.ErrNotFound
}

func (s *Store) RemoveContact(userID, otherID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.contacts[:0]
	for _, e := range s.contacts {
		if !samePair(e, userID, otherID) {
			kept = append(kept, e)
		}
	}
	s.contacts = kept
	return nil
}

func (s *Store) ListContacts(userID int64) ([]models.ContactEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var entries []models.ContactEntry
	for _, e := range s.contacts {
		if e.Status != models.ContactAccepted {
			continue
		}
		var otherID int64
		switch userID {
		case e.UserID:
			otherID = e.ContactID
		case e.ContactID:
			otherID = e.UserID
		default:
			continue
		}
		if otherID == userID {
			continue
		}
		u := s.users[otherID]
		if u == nil {
			continue
		}
		entries = append(entries, models.ContactEntry{
			UserID:      u.ID,
			Username:    u.Username,
			DisplayName: u.DisplayName,
			LastSeen:    u.LastSeen,
			Since:       e.CreatedAt,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].LastSeen.After(entries[j].LastSeen)
	})
	return entries, nil
}

func (s *Store) ListPendingRequests(userID int64) ([]models.ContactRequest, error) {
	return s.listRequests(func(e *models.ContactEdge) int64 {
		if e.ContactID == userID {
			return e.UserID
		}
		return 0
	})
}

func (s *Store) ListSentRequests(userID int64) ([]models.ContactRequest, error) {
	return s.listRequests(func(e *models.ContactEdge) int64 {
		if e.UserID == userID {
			return e.ContactID
		}
		return 0
	})
}

// listRequests collects pending edges whose counterpart, as chosen by
// pick, is non-zero.
func (s *Store) listRequests(pick func(*models.ContactEdge) int64) ([]models.ContactRequest, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var requests []models.ContactRequest
	for _, e := range s.contacts {
		if e.Status != models.ContactPending {
			continue
		}
		otherID := pick(e)
		if otherID == 0 {
			continue
		}
		u := s.users[otherID]
		if u == nil {
			continue
		}
		requests = append(requests, models.ContactRequest{
			UserID:      u.ID,
			Username:    u.Username,
			DisplayName: u.DisplayName,
			CreatedAt:   e.CreatedAt,
		})
	}

	sort.SliceStable(requests, func(i, j int) bool {
		return requests[i].CreatedAt.After(requests[j].CreatedAt)
	})
	return requests, nil
}

func (s *Store) AreConnected(a, b int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, e := range s.contacts {
		if samePair(e, a, b) && e.Status == models.ContactAccepted {
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) CreateMessage(senderID, receiverID int64, encryptedContent, iv string) (*models.Message, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextMessageID++
	m := &models.Message{
		ID:               s.nextMessageID,
		SenderID:         senderID,
		ReceiverID:       receiverID,
		EncryptedContent: encryptedContent,
		IV:               iv,
		Timestamp:        time.Now(),
	}
	s.messages = append(s.messages, m)

	out := *m
	return &out, nil
}

func (s *Store) Conversation(userID, otherID int64, limit int) ([]models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	// Messages are appended in creation order, so the conversation is the
	// chronological suffix of the pair's history.
	var all []models.Message
	for _, m := range s.messages {
		if (m.SenderID == userID && m.ReceiverID == otherID) ||
			(m.SenderID == otherID && m.ReceiverID == userID) {
			all = append(all, *m)
		}
	}
	if limit > 0 && len(all) > limit {
		all = all[len(all)-limit:]
	}
	return all, nil
}

func (s *Store) MarkMessageRead(messageID, readerID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, m := range s.messages {
		if m.ID == messageID && m.ReceiverID == readerID && m.ReadAt == nil {
			now := time.Now()
			m.ReadAt = &now
			return nil
		}
	}
	// Wrong reader, already read, or no such message: silent no-op.
	return nil
}

func (s *Store) UnreadCount(userID int64) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	count := 0
	for _, m := range s.messages {
		if m.ReceiverID == userID && m.ReadAt == nil {
			count++
		}
	}
	return count, nil
}

func samePair(e *models.ContactEdge, a, b int64) bool {
	return (e.UserID == a && e.ContactID == b) || (e.UserID == b && e.ContactID == a)
}
