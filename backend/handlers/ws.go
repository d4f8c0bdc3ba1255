// Copyright (C) 2025 FamChat contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package handlers

import (
	"log"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/ankondeadlarx/FamChat/backend/auth"
	"github.com/ankondeadlarx/FamChat/backend/storage"
	"github.com/ankondeadlarx/FamChat/backend/ws"
)

// WSHandler upgrades connections for the real-time channel. The upgrade
// itself is unauthenticated; the connection is only registered for pushes
// once the client sends its auth event with a valid session token.
type WSHandler struct {
	presence *ws.Presence
	online   storage.PresenceStore
	sessions *auth.Sessions
	upgrader websocket.Upgrader
}

func NewWSHandler(presence *ws.Presence, online storage.PresenceStore, sessions *auth.Sessions, allowedOrigin string) *WSHandler {
	return &WSHandler{
		presence: presence,
		online:   online,
		sessions: sessions,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return origin == "" || origin == allowedOrigin
			},
		},
	}
}

func (h *WSHandler) Handle(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}

	client := ws.NewClient(h.presence, h.online, h.sessions, conn)
	go client.Serve()
}
