// Copyright (C) 2025 FamChat contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package ws

import (
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/ankondeadlarx/FamChat/backend/auth"
	"github.com/ankondeadlarx/FamChat/backend/storage"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
)

// Client is one websocket connection. A connection starts anonymous and
// must send an auth event carrying a session token before it is routed to.
type Client struct {
	presence *Presence
	online   storage.PresenceStore // may be nil
	sessions *auth.Sessions

	conn   *websocket.Conn
	send   chan []byte
	connID string

	userID int64
	authed bool
}

func NewClient(presence *Presence, online storage.PresenceStore, sessions *auth.Sessions, conn *websocket.Conn) *Client {
	return &Client{
		presence: presence,
		online:   online,
		sessions: sessions,
		conn:     conn,
		send:     make(chan []byte, 256),
		connID:   uuid.New().String(),
	}
}

// envelope is the client-to-server event frame.
type envelope struct {
	Type     string `json:"type"`
	Token    string `json:"token,omitempty"`
	To       int64  `json:"to,omitempty"`
	IsTyping bool   `json:"is_typing,omitempty"`
}

func (c *Client) Serve() {
	go c.writePump()
	c.readPump()
}

func (c *Client) readPump() {
	defer c.teardown()

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		if c.authed && c.online != nil {
			_ = c.online.MarkOnline(c.userID)
		}
		return nil
	})

	for {
		_, raw, err := c.conn.ReadMessage()
		if err != nil {
			return
		}

		var env envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			c.sendError("invalid_json")
			continue
		}

		switch env.Type {
		case "auth":
			c.handleAuth(env.Token)
		case "typing":
			c.handleTyping(env)
		default:
			c.sendError("unsupported_type")
		}
	}
}

func (c *Client) handleAuth(token string) {
	claims, err := c.sessions.Verify(token)
	if err != nil {
		c.sendError("invalid_token")
		return
	}

	// Re-auth under a different identity releases the old slot first, so
	// no stale entry pointing at this connection can outlive the switch.
	if c.authed && c.userID != claims.UserID {
		if c.presence.Unregister(c.userID, c.connID) && c.online != nil {
			_ = c.online.MarkOffline(c.userID)
		}
	}

	c.userID = claims.UserID
	c.authed = true
	c.presence.Register(c.userID, c.connID, c.send)
	if c.online != nil {
		_ = c.online.MarkOnline(c.userID)
	}

	ack, _ := json.Marshal(map[string]any{"type": "authenticated", "user_id": c.userID})
	c.send <- ack
}

func (c *Client) handleTyping(env envelope) {
	if !c.authed {
		c.sendError("not_authenticated")
		return
	}
	payload, _ := json.Marshal(map[string]any{
		"type":      "user_typing",
		"user_id":   c.userID,
		"is_typing": env.IsTyping,
	})
	// Best effort: a receiver without a live connection just misses it.
	c.presence.RouteIfPresent(env.To, payload)
}

func (c *Client) sendError(code string) {
	payload, _ := json.Marshal(map[string]string{"type": "error", "error": code})
	select {
	case c.send <- payload:
	default:
	}
}

func (c *Client) teardown() {
	if c.authed {
		// Only the connection that still owns the presence slot may mark
		// the user offline; a replaced connection must not clobber its
		// successor's state.
		if c.presence.Unregister(c.userID, c.connID) && c.online != nil {
			_ = c.online.MarkOffline(c.userID)
		}
	}
	close(c.send)
	_ = c.conn.Close()
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				log.Printf("ws write to user %d failed: %v", c.userID, err)
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
