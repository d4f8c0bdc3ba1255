// Copyright (C) 2025 FamChat contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package memory

import (
	"sync"
	"time"
)

// PresenceStore is an in-memory storage.PresenceStore with the same TTL
// behavior as the Redis implementation.
type PresenceStore struct {
	mu      sync.Mutex
	ttl     time.Duration
	expires map[int64]time.Time
}

func NewPresenceStore(ttl time.Duration) *PresenceStore {
	return &PresenceStore{
		ttl:     ttl,
		expires: make(map[int64]time.Time),
	}
}

func (s *PresenceStore) MarkOnline(userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.expires[userID] = time.Now().Add(s.ttl)
	return nil
}

func (s *PresenceStore) MarkOffline(userID int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.expires, userID)
	return nil
}

func (s *PresenceStore) Online(userIDs []int64) (map[int64]bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now()
	online := make(map[int64]bool, len(userIDs))
	for _, id := range userIDs {
		deadline, ok := s.expires[id]
		online[id] = ok && deadline.After(now)
	}
	return online, nil
}
