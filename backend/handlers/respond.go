// Copyright (C) 2025 FamChat contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/ankondeadlarx/FamChat/backend/models"
)

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondMessage(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{"error": msg})
}

// respondError translates the domain error taxonomy to response codes.
// Unknown errors are logged and surface as an opaque 500.
func respondError(w http.ResponseWriter, err error) {
	var validation *models.ValidationError
	var duplicate *models.DuplicateIdentityError

	switch {
	case errors.As(err, &validation):
		respondMessage(w, http.StatusBadRequest, validation.Msg)
	case errors.Is(err, models.ErrSelfReference):
		respondMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrInvalidSession):
		respondMessage(w, http.StatusUnauthorized, "invalid or expired session")
	case errors.Is(err, models.ErrNotConnected):
		respondMessage(w, http.StatusForbidden, err.Error())
	case errors.Is(err, models.ErrNotFound):
		respondMessage(w, http.StatusNotFound, err.Error())
	case errors.As(err, &duplicate):
		respondMessage(w, http.StatusConflict, duplicate.Error())
	case errors.Is(err, models.ErrAlreadyExists):
		respondMessage(w, http.StatusConflict, err.Error())
	default:
		log.Printf("internal error: %v", err)
		respondMessage(w, http.StatusInternalServerError, "internal server error")
	}
}
