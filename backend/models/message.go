// Copyright (C) 2025 FamChat contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package models

import "time"

// Message is an encrypted direct message. The content and IV are opaque
// blobs produced by the sender's client; the server never decrypts them.
// A message is immutable after creation except for the single null -> set
// transition of ReadAt.
type Message struct {
	ID               int64      `json:"id"`
	SenderID         int64      `json:"sender_id"`
	ReceiverID       int64      `json:"receiver_id"`
	EncryptedContent string     `json:"encrypted_content"`
	IV               string     `json:"iv"`
	Timestamp        time.Time  `json:"timestamp"`
	ReadAt           *time.Time `json:"read_at,omitempty"`
}
