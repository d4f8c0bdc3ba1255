// Copyright (C) 2025 FamChat contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package postgres

import (
	"database/sql"

	"github.com/ankondeadlarx/FamChat/backend/models"
)

const userColumns = `id, username, email, password_hash, display_name, public_key, created_at, last_seen`

func (s *Store) CreateUser(username, email, passwordHash, displayName string) (*models.User, error) {
	row := s.db.QueryRow(`
		INSERT INTO users (username, email, password_hash, display_name)
		VALUES ($1, $2, $3, $4)
		RETURNING `+userColumns,
		username, email, passwordHash, displayName)

	user, err := scanUser(row)
	if err != nil {
		switch constraintName(err) {
		case "users_username_key":
			return nil, &models.DuplicateIdentityError{Field: "username"}
		case "users_email_key":
			return nil, &models.DuplicateIdentityError{Field: "email"}
		}
		return nil, err
	}
	return user, nil
}

func (s *Store) FindUserByID(id int64) (*models.User, error) {
	return s.findUser(`SELECT `+userColumns+` FROM users WHERE id = $1`, id)
}

func (s *Store) FindUserByUsername(username string) (*models.User, error) {
	return s.findUser(`SELECT `+userColumns+` FROM users WHERE username = $1`, username)
}

func (s *Store) FindUserByEmail(email string) (*models.User, error) {
	return s.findUser(`SELECT `+userColumns+` FROM users WHERE email = $1`, email)
}

func (s *Store) findUser(query string, arg any) (*models.User, error) {
	user, err := scanUser(s.db.QueryRow(query, arg))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}

func (s *Store) TouchLastSeen(id int64) error {
	_, err := s.db.Exec(`UPDATE users SET last_seen = CURRENT_TIMESTAMP WHERE id = $1`, id)
	return err
}

func (s *Store) SetPublicKey(id int64, publicKey string) error {
	_, err := s.db.Exec(`UPDATE users SET public_key = $1 WHERE id = $2`, publicKey, id)
	return err
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (*models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Username, &u.Email, &u.PasswordHash,
		&u.DisplayName, &u.PublicKey, &u.CreatedAt, &u.LastSeen)
	if err != nil {
		return nil, err
	}
	return &u, nil
}
