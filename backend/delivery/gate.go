// Copyright (C) 2025 FamChat contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

// Package delivery couples the contact graph to messaging: a message may
// only be sent or read between users joined by an accepted contact edge.
// This check runs server-side on every message write and every
// conversation read; it is never trusted from the client.
package delivery

import (
	"github.com/ankondeadlarx/FamChat/backend/models"
	"github.com/ankondeadlarx/FamChat/backend/storage"
)

type Gate struct {
	contacts storage.ContactStore
}

func NewGate(contacts storage.ContactStore) *Gate {
	return &Gate{contacts: contacts}
}

// CanExchange reports whether the pair may exchange messages.
func (g *Gate) CanExchange(a, b int64) (bool, error) {
	return g.contacts.AreConnected(a, b)
}

// Authorize returns models.ErrNotConnected unless the pair is connected.
func (g *Gate) Authorize(a, b int64) error {
	connected, err := g.CanExchange(a, b)
	if err != nil {
		return err
	}
	if !connected {
		return models.ErrNotConnected
	}
	return nil
}
