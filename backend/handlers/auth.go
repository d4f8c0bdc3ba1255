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
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/ankondeadlarx/FamChat/backend/auth"
	"github.com/ankondeadlarx/FamChat/backend/middleware"
	"github.com/ankondeadlarx/FamChat/backend/models"
	"github.com/ankondeadlarx/FamChat/backend/storage"
)

const (
	minUsernameLen = 3
	minPasswordLen = 6
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

type AuthHandler struct {
	users    storage.UserStore
	sessions *auth.Sessions
}

func NewAuthHandler(users storage.UserStore, sessions *auth.Sessions) *AuthHandler {
	return &AuthHandler{users: users, sessions: sessions}
}

// Register creates a user and issues a session token. All validation runs
// before any storage access, so a rejected request writes nothing.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username    string `json:"username"`
		Email       string `json:"email"`
		Password    string `json:"password"`
		DisplayName string `json:"display_name"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	req.Username = strings.TrimSpace(req.Username)
	req.Email = strings.TrimSpace(req.Email)

	if err := validateRegistration(req.Username, req.Email, req.Password); err != nil {
		respondError(w, err)
		return
	}

	displayName := strings.TrimSpace(req.DisplayName)
	if displayName == "" {
		displayName = req.Username
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		respondError(w, err)
		return
	}

	user, err := h.users.CreateUser(req.Username, req.Email, hash, displayName)
	if err != nil {
		respondError(w, err)
		return
	}

	token, err := h.sessions.Issue(user.ID, user.Username)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"token": token,
		"user":  user.Sanitize(),
	})
}

// Login verifies credentials and issues a session token. The username
// field also accepts an email address. Unknown user and wrong password are
// indistinguishable to the caller.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondMessage(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if req.Username == "" || req.Password == "" {
		respondMessage(w, http.StatusBadRequest, "username and password are required")
		return
	}

	user, err := h.users.FindUserByUsername(req.Username)
	if err != nil {
		respondError(w, err)
		return
	}
	if user == nil {
		user, err = h.users.FindUserByEmail(req.Username)
		if err != nil {
			respondError(w, err)
			return
		}
	}

	if user == nil || !auth.CheckPassword(user.PasswordHash, req.Password) {
		respondMessage(w, http.StatusUnauthorized, "invalid credentials")
		return
	}

	if err := h.users.TouchLastSeen(user.ID); err != nil {
		respondError(w, err)
		return
	}

	token, err := h.sessions.Issue(user.ID, user.Username)
	if err != nil {
		respondError(w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  user.Sanitize(),
	})
}

// Me returns the authenticated user's own sanitized profile.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	userID, _ := middleware.GetUserID(r)

	user, err := h.users.FindUserByID(userID)
	if err != nil {
		respondError(w, err)
		return
	}
	if user == nil {
		respondError(w, models.ErrNotFound)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"user": user.Sanitize()})
}

func validateRegistration(username, email, password string) error {
	if username == "" || email == "" || password == "" {
		return models.Validationf("username, email, and password are required")
	}
	// Characters, not bytes, so a multibyte name is measured fairly.
	if utf8.RuneCountInString(username) < minUsernameLen {
		return models.Validationf("username must be at least %d characters", minUsernameLen)
	}
	if len(password) < minPasswordLen {
		return models.Validationf("password must be at least %d characters", minPasswordLen)
	}
	if !emailPattern.MatchString(email) {
		return models.Validationf("invalid email format")
	}
	return nil
}
