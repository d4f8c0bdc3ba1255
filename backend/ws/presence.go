// Copyright (C) 2025 FamChat contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Package ws carries the real-time channel: the process-local presence
// registry and the websocket client it routes to. Live pushes are a
// latency optimization only; the message store remains the source of
// truth.
package ws

import "sync"

type presenceEntry struct {
	connID string
	send   chan []byte
}

// Presence maps a user id to their single active connection. It is
// constructed explicitly and injected into whatever needs it; every
// operation is atomic under one mutex.
type Presence struct {
	mu     sync.Mutex
	byUser map[int64]presenceEntry
}

func NewPresence() *Presence {
	return &Presence{byUser: make(map[int64]presenceEntry)}
}

// Register claims the user's slot, silently evicting any prior connection
// from receiving live pushes. The evicted connection stays open and keeps
// its REST access; it just stops being the push target.
func (p *Presence) Register(userID int64, connID string, send chan []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.byUser[userID] = presenceEntry{connID: connID, send: send}
}

// Unregister removes the user's entry only if connID still owns it, so a
// stale disconnect from an already-replaced connection cannot evict its
// successor. Reports whether an entry was removed.
func (p *Presence) Unregister(userID int64, connID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	if entry, ok := p.byUser[userID]; ok && entry.connID == connID {
		delete(p.byUser, userID)
		return true
	}
	return false
}

// RouteIfPresent delivers payload to the user's registered connection if
// one exists. No queuing, no retry: a missing entry or a full send buffer
// drops the payload. Reports whether the payload was handed off.
//
// The send happens under the mutex so it is serialized with Unregister;
// a connection closes its channel only after unregistering, so a routed
// payload can never hit a closed channel.
func (p *Presence) RouteIfPresent(userID int64, payload []byte) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	entry, ok := p.byUser[userID]
	if !ok {
		return false
	}

	select {
	case entry.send <- payload:
		return true
	default:
		return false
	}
}
