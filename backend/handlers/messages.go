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
	"strconv"

	"github.com/ankondeadlarx/FamChat/backend/delivery"
	"github.com/ankondeadlarx/FamChat/backend/middleware"
	"github.com/ankondeadlarx/FamChat/backend/models"
	"github.com/ankondeadlarx/FamChat/backend/storage"
	"github.com/ankondeadlarx/FamChat/backend/ws"
)

const (
	defaultConversationLimit = 50
	maxConversationLimit     = 200
)

type MessagesHandler struct {
	messages storage.MessageStore
	gate     *delivery.Gate
	presence *ws.Presence // may be nil
}

func NewMessagesHandler(messages storage.MessageStore, gate *delivery.Gate, presence *ws.Presence) *MessagesHandler {
	return &MessagesHandler{messages: messages, gate: gate, presence: presence}
}

// Send stores an encrypted message after the delivery gate approves the
// pair, then opportunistically pushes a live copy to the receiver.
func (h *MessagesHandler) Send(w http.ResponseWriter, r *http.Request) {
	senderID, _ := middleware.GetUserID(r)

	var req struct {
		ReceiverID       int64  `json:"receiver_id"`
		EncryptedContent string `json:"encrypted_content"`
		IV               string `json:"iv"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.ReceiverID == 0 || req.EncryptedContent == "" || req.IV == "" {
		respondMessage(w, http.StatusBadRequest, "missing required fields")
		return
	}

	if err := h.gate.Authorize(senderID, req.ReceiverID); err != nil {
		respondError(w, err)
		return
	}

	message, err := h.messages.CreateMessage(senderID, req.ReceiverID, req.EncryptedContent, req.IV)
	if err != nil {
		respondError(w, err)
		return
	}

	h.pushNewMessage(message)

	respondJSON(w, http.StatusCreated, map[string]any{"message": message})
}

// Conversation returns the most recent messages with the other user,
// oldest first. The gate check applies to reads exactly as to writes.
func (h *MessagesHandler) Conversation(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r)
	otherID, ok := pathID(r, "userId")
	if !ok {
		respondMessage(w, http.StatusBadRequest, "invalid user id")
		return
	}

	if err := h.gate.Authorize(userID, otherID); err != nil {
		respondError(w, err)
		return
	}

	limit := defaultConversationLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 || n > maxConversationLimit {
			respondMessage(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	messages, err := h.messages.Conversation(userID, otherID, limit)
	if err != nil {
		respondError(w, err)
		return
	}
	if messages == nil {
		messages = []models.Message{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"messages": messages})
}

// MarkRead records the read timestamp. The store enforces the
// receiver-only, exactly-once rule; anything else is a silent no-op, so
// this endpoint never reveals whether a message id exists.
func (h *MessagesHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r)
	messageID, ok := pathID(r, "messageId")
	if !ok {
		respondMessage(w, http.StatusBadRequest, "invalid message id")
		return
	}

	if err := h.messages.MarkMessageRead(messageID, userID); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "message marked as read"})
}

func (h *MessagesHandler) Unread(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r)

	count, err := h.messages.UnreadCount(userID)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]int{"count": count})
}

func (h *MessagesHandler) pushNewMessage(message *models.Message) {
	if h.presence == nil {
		return
	}
	payload, err := json.Marshal(map[string]any{
		"type":    "new_message",
		"message": message,
	})
	if err != nil {
		return
	}
	h.presence.RouteIfPresent(message.ReceiverID, payload)
}
