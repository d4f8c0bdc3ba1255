// Copyright (C) 2025 FamChat contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/ankondeadlarx/FamChat/backend/middleware"
	"github.com/ankondeadlarx/FamChat/backend/models"
	"github.com/ankondeadlarx/FamChat/backend/storage"
)

type ContactsHandler struct {
	contacts storage.ContactStore
	online   storage.PresenceStore // may be nil
}

func NewContactsHandler(contacts storage.ContactStore, online storage.PresenceStore) *ContactsHandler {
	return &ContactsHandler{contacts: contacts, online: online}
}

// Add sends a contact request to the user named in the body.
func (h *ContactsHandler) Add(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r)

	var req struct {
		Username string `json:"username"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Username == "" {
		respondMessage(w, http.StatusBadRequest, "username is required")
		return
	}

	contactID, err := h.contacts.AddContact(userID, req.Username)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"message":    "contact request sent",
		"contact_id": contactID,
	})
}

// Accept approves a pending request that targets the caller.
func (h *ContactsHandler) Accept(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r)
	requesterID, ok := pathID(r, "userId")
	if !ok {
		respondMessage(w, http.StatusBadRequest, "invalid user id")
		return
	}

	if err := h.contacts.AcceptContact(userID, requesterID); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "contact request accepted"})
}

// Reject deletes a pending request that targets the caller.
func (h *ContactsHandler) Reject(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r)
	requesterID, ok := pathID(r, "userId")
	if !ok {
		respondMessage(w, http.StatusBadRequest, "invalid user id")
		return
	}

	if err := h.contacts.RejectContact(userID, requesterID); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "contact request rejected"})
}

// Remove deletes any edge with the other user, in either direction and
// status. Removing a non-existent contact succeeds.
func (h *ContactsHandler) Remove(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r)
	otherID, ok := pathID(r, "userId")
	if !ok {
		respondMessage(w, http.StatusBadRequest, "invalid user id")
		return
	}

	if err := h.contacts.RemoveContact(userID, otherID); err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, map[string]string{"message": "contact removed"})
}

// List returns accepted contacts annotated with best-effort online status.
func (h *ContactsHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r)

	contacts, err := h.contacts.ListContacts(userID)
	if err != nil {
		respondError(w, err)
		return
	}

	h.annotateOnline(contacts)
	if contacts == nil {
		contacts = []models.ContactEntry{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"contacts": contacts})
}

func (h *ContactsHandler) Pending(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r)
	requests, err := h.contacts.ListPendingRequests(userID)
	h.respondRequests(w, requests, err)
}

func (h *ContactsHandler) Sent(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r)
	requests, err := h.contacts.ListSentRequests(userID)
	h.respondRequests(w, requests, err)
}

func (h *ContactsHandler) respondRequests(w http.ResponseWriter, requests []models.ContactRequest, err error) {
	if err != nil {
		respondError(w, err)
		return
	}
	if requests == nil {
		requests = []models.ContactRequest{}
	}
	respondJSON(w, http.StatusOK, map[string]any{"requests": requests})
}

// annotateOnline fills the Online flag from the presence store. Failures
// are logged and leave everyone offline; the listing itself still works.
func (h *ContactsHandler) annotateOnline(contacts []models.ContactEntry) {
	if h.online == nil || len(contacts) == 0 {
		return
	}

	ids := make([]int64, len(contacts))
	for i, c := range contacts {
		ids[i] = c.UserID
	}

	online, err := h.online.Online(ids)
	if err != nil {
		log.Printf("online lookup failed: %v", err)
		return
	}
	for i := range contacts {
		contacts[i].Online = online[contacts[i].UserID]
	}
}

func pathID(r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)[name], 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
