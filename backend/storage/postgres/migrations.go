// Copyright (C) 2025 FamChat contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <https://www.gnu.org/licenses/>.

package postgres

func (s *Store) Migrate() error {
	migrations := []string{
		// Users table
		`CREATE TABLE IF NOT EXISTS users (
			id BIGSERIAL PRIMARY KEY,
			username TEXT NOT NULL,
			email TEXT NOT NULL,
			password_hash TEXT NOT NULL,
			display_name TEXT NOT NULL DEFAULT '',
			public_key TEXT NOT NULL DEFAULT '',
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			last_seen TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			CONSTRAINT users_username_key UNIQUE (username),
			CONSTRAINT users_email_key UNIQUE (email)
		)`,

		// Contact edges. Direction records who must accept while pending.
		`CREATE TABLE IF NOT EXISTS contacts (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			contact_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			status TEXT NOT NULL CHECK (status IN ('pending', 'accepted')),
			created_at TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			CONSTRAINT contacts_directed_pair UNIQUE (user_id, contact_id),
			CONSTRAINT contacts_no_self CHECK (user_id <> contact_id)
		)`,

		// One edge per unordered pair, whichever side requested. Makes the
		// insert itself the uniqueness check, so two users racing to add
		// each other cannot create both directions.
		`CREATE UNIQUE INDEX IF NOT EXISTS contacts_unordered_pair
		ON contacts (LEAST(user_id, contact_id), GREATEST(user_id, contact_id))`,

		// Index for pending-request listings
		`CREATE INDEX IF NOT EXISTS idx_contacts_pending
		ON contacts(contact_id, created_at DESC)
		WHERE status = 'pending'`,

		// Encrypted messages. Content and IV are opaque to the server.
		`CREATE TABLE IF NOT EXISTS messages (
			id BIGSERIAL PRIMARY KEY,
			sender_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			receiver_id BIGINT NOT NULL REFERENCES users(id) ON DELETE CASCADE,
			encrypted_content TEXT NOT NULL,
			iv TEXT NOT NULL,
			timestamp TIMESTAMPTZ NOT NULL DEFAULT CURRENT_TIMESTAMP,
			read_at TIMESTAMPTZ
		)`,

		// Index for conversation retrieval
		`CREATE INDEX IF NOT EXISTS idx_messages_pair
		ON messages (LEAST(sender_id, receiver_id), GREATEST(sender_id, receiver_id), timestamp DESC)`,

		// Index for the unread badge
		`CREATE INDEX IF NOT EXISTS idx_messages_unread
		ON messages(receiver_id)
		WHERE read_at IS NULL`,
	}

	for _, migration := range migrations {
		if _, err := s.db.Exec(migration); err != nil {
			return err
		}
	}

	return nil
}
