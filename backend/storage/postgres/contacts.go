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

func (s *Store) AddContact(requesterID int64, targetUsername string) (int64, error) {
	var targetID int64
	err := s.db.QueryRow(`SELECT id FROM users WHERE username = $1`, targetUsername).Scan(&targetID)
	if err == sql.ErrNoRows {
		return 0, models.ErrNotFound
	}
	if err != nil {
		return 0, err
	}

	if targetID == requesterID {
		return 0, models.ErrSelfReference
	}

	// The unordered-pair unique index makes this insert the existence
	// check; a concurrent add from either side loses here, not in a
	// pre-check.
	_, err = s.db.Exec(`
		INSERT INTO contacts (user_id, contact_id, status)
		VALUES ($1, $2, $3)`,
		requesterID, targetID, models.ContactPending)
	if err != nil {
		if constraintName(err) != "" {
			return 0, models.ErrAlreadyExists
		}
		return 0, err
	}

	return targetID, nil
}

func (s *Store) AcceptContact(approverID, requesterID int64) error {
	res, err := s.db.Exec(`
		UPDATE contacts SET status = $1
		WHERE user_id = $2 AND contact_id = $3 AND status = $4`,
		models.ContactAccepted, requesterID, approverID, models.ContactPending)
	if err != nil {
		return err
	}
	return requireChange(res)
}

func (s *Store) RejectContact(approverID, requesterID int64) error {
	res, err := s.db.Exec(`
		DELETE FROM contacts
		WHERE user_id = $1 AND contact_id = $2 AND status = $3`,
		requesterID, approverID, models.ContactPending)
	if err != nil {
		return err
	}
	return requireChange(res)
}

func (s *Store) RemoveContact(userID, otherID int64) error {
	_, err := s.db.Exec(`
		DELETE FROM contacts
		WHERE (user_id = $1 AND contact_id = $2)
		   OR (user_id = $2 AND contact_id = $1)`,
		userID, otherID)
	return err
}

func (s *Store) ListContacts(userID int64) ([]models.ContactEntry, error) {
	rows, err := s.db.Query(`
		SELECT u.id, u.username, u.display_name, u.last_seen, c.created_at
		FROM contacts c
		JOIN users u ON u.id = CASE WHEN c.user_id = $1 THEN c.contact_id ELSE c.user_id END
		WHERE (c.user_id = $1 OR c.contact_id = $1)
		  AND c.status = 'accepted'
		  AND u.id <> $1
		ORDER BY u.last_seen DESC`,
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contacts []models.ContactEntry
	for rows.Next() {
		var c models.ContactEntry
		if err := rows.Scan(&c.UserID, &c.Username, &c.DisplayName, &c.LastSeen, &c.Since); err != nil {
			return nil, err
		}
		contacts = append(contacts, c)
	}
	return contacts, rows.Err()
}

func (s *Store) ListPendingRequests(userID int64) ([]models.ContactRequest, error) {
	return s.listRequests(`
		SELECT u.id, u.username, u.display_name, c.created_at
		FROM contacts c
		JOIN users u ON u.id = c.user_id
		WHERE c.contact_id = $1 AND c.status = 'pending'
		ORDER BY c.created_at DESC`,
		userID)
}

func (s *Store) ListSentRequests(userID int64) ([]models.ContactRequest, error) {
	return s.listRequests(`
		SELECT u.id, u.username, u.display_name, c.created_at
		FROM contacts c
		JOIN users u ON u.id = c.contact_id
		WHERE c.user_id = $1 AND c.status = 'pending'
		ORDER BY c.created_at DESC`,
		userID)
}

func (s *Store) listRequests(query string, userID int64) ([]models.ContactRequest, error) {
	rows, err := s.db.Query(query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var requests []models.ContactRequest
	for rows.Next() {
		var r models.ContactRequest
		if err := rows.Scan(&r.UserID, &r.Username, &r.DisplayName, &r.CreatedAt); err != nil {
			return nil, err
		}
		requests = append(requests, r)
	}
	return requests, rows.Err()
}

func (s *Store) AreConnected(a, b int64) (bool, error) {
	var connected bool
	err := s.db.QueryRow(`
		SELECT EXISTS(
			SELECT 1 FROM contacts
			WHERE ((user_id = $1 AND contact_id = $2)
			    OR (user_id = $2 AND contact_id = $1))
			  AND status = 'accepted'
		)`, a, b).Scan(&connected)
	return connected, err
}

func requireChange(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return models.ErrNotFound
	}
	return nil
}
