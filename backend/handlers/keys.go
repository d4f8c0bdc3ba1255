// Copyright (C) 2025 FamChat contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/ankondeadlarx/FamChat/backend/middleware"
	"github.com/ankondeadlarx/FamChat/backend/storage"
)

// KeysHandler stores client-published key material. Encryption itself is
// entirely client-side; the server only keeps the opaque public part so
// other clients can fetch it.
type KeysHandler struct {
	users storage.UserStore
}

func NewKeysHandler(users storage.UserStore) *KeysHandler {
	return &KeysHandler{users: users}
}

func (h *KeysHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r)

	var req struct {
		PublicKey string `json:"public_key"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.PublicKey == "" {
		respondMessage(w, http.StatusBadRequest, "public_key is required")
		return
	}

	if err := h.users.SetPublicKey(userID, req.PublicKey); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "public key updated"})
}
