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

const messageColumns = `id, sender_id, receiver_id, encrypted_content, iv, timestamp, read_at`

func (s *Store) CreateMessage(senderID, receiverID int64, encryptedContent, iv string) (*models.Message, error) {
	row := s.db.QueryRow(`
		INSERT INTO messages (sender_id, receiver_id, encrypted_content, iv)
		VALUES ($1, $2, $3, $4)
		RETURNING `+messageColumns,
		senderID, receiverID, encryptedContent, iv)
	return scanMessage(row)
}

func (s *Store) Conversation(userID, otherID int64, limit int) ([]models.Message, error) {
	rows, err := s.db.Query(`
		SELECT `+messageColumns+`
		FROM messages
		WHERE (sender_id = $1 AND receiver_id = $2)
		   OR (sender_id = $2 AND receiver_id = $1)
		ORDER BY timestamp DESC, id DESC
		LIMIT $3`,
		userID, otherID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var messages []models.Message
	for rows.Next() {
		msg, err := scanMessage(rows)
		if err != nil {
			return nil, err
		}
		messages = append(messages, *msg)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	// Query fetched newest-first to apply the limit; clients want
	// chronological order.
	for i, j := 0, len(messages)-1; i < j; i, j = i+1, j-1 {
		messages[i], messages[j] = messages[j], messages[i]
	}
	return messages, nil
}

func (s *Store) MarkMessageRead(messageID, readerID int64) error {
	// Receiver-only, once, from null. Anything else matches no row and is
	// a silent no-op.
	_, err := s.db.Exec(`
		UPDATE messages SET read_at = CURRENT_TIMESTAMP
		WHERE id = $1 AND receiver_id = $2 AND read_at IS NULL`,
		messageID, readerID)
	return err
}

func (s *Store) UnreadCount(userID int64) (int, error) {
	var count int
	err := s.db.QueryRow(`
		SELECT COUNT(*) FROM messages
		WHERE receiver_id = $1 AND read_at IS NULL`,
		userID).Scan(&count)
	return count, err
}

func scanMessage(row rowScanner) (*models.Message, error) {
	var m models.Message
	var readAt sql.NullTime
	err := row.Scan(&m.ID, &m.SenderID, &m.ReceiverID,
		&m.EncryptedContent, &m.IV, &m.Timestamp, &readAt)
	if err != nil {
		return nil, err
	}
	if readAt.Valid {
		m.ReadAt = &readAt.Time
	}
	return &m, nil
}
