// Copyright (C) 2025 FamChat contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package models

import (
	"errors"
	"fmt"
)

// Domain error taxonomy. Handlers translate these to response codes;
// nothing in this list is fatal to the process.
var (
	ErrNotFound       = errors.New("not found")
	ErrSelfReference  = errors.New("cannot add yourself as a contact")
	ErrAlreadyExists  = errors.New("contact request already exists")
	ErrNotConnected   = errors.New("not connected with this user")
	ErrInvalidSession = errors.New("invalid or expired session")
)

// DuplicateIdentityError is returned when a unique identity column
// (username or email) collides on registration. The storage layer maps the
// database's unique-constraint violation to this type; callers must never
// parse error text.
type DuplicateIdentityError struct {
	Field string
}

func (e *DuplicateIdentityError) Error() string {
	return fmt.Sprintf("%s already exists", e.Field)
}

// ValidationError reports malformed or missing input. It is raised before
// any storage access, so a failed validation has no side effects.
type ValidationError struct {
	Msg string
}

func (e *ValidationError) Error() string {
	return e.Msg
}

func Validationf(format string, args ...any) error {
	return &ValidationError{Msg: fmt.Sprintf(format, args...)}
}
