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

// Package server assembles the HTTP surface: handlers, middleware and
// routes. It owns no storage or socket state of its own; everything is
// injected so tests can run the full router against in-memory stores.
package server

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/ankondeadlarx/FamChat/backend/auth"
	"github.com/ankondeadlarx/FamChat/backend/delivery"
	"github.com/ankondeadlarx/FamChat/backend/handlers"
	"github.com/ankondeadlarx/FamChat/backend/middleware"
	"github.com/ankondeadlarx/FamChat/backend/storage"
	"github.com/ankondeadlarx/FamChat/backend/ws"
)

type Config struct {
	Store    storage.Store
	Sessions *auth.Sessions
	Presence *ws.Presence
	Online   storage.PresenceStore // optional
	// HealthCheck reports backing-store liveness, typically db.Ping.
	HealthCheck   func() error
	AllowedOrigin string
}

type Server struct {
	cfg    Config
	router *mux.Router
}

func New(cfg Config) *Server {
	s := &Server{cfg: cfg, router: mux.NewRouter()}
	s.routes()
	return s
}

// Handler returns the full HTTP surface. CORS wraps the router from the
// outside so preflight requests get headers even when no route matches
// their method.
func (s *Server) Handler() http.Handler {
	return middleware.CORS(s.cfg.AllowedOrigin)(s.router)
}

func (s *Server) routes() {
	gate := delivery.NewGate(s.cfg.Store)

	authHandler := handlers.NewAuthHandler(s.cfg.Store, s.cfg.Sessions)
	keysHandler := handlers.NewKeysHandler(s.cfg.Store)
	contactsHandler := handlers.NewContactsHandler(s.cfg.Store, s.cfg.Online)
	messagesHandler := handlers.NewMessagesHandler(s.cfg.Store, gate, s.cfg.Presence)
	wsHandler := handlers.NewWSHandler(s.cfg.Presence, s.cfg.Online, s.cfg.Sessions, s.cfg.AllowedOrigin)

	r := s.router
	r.HandleFunc("/health", s.health).Methods("GET")
	r.HandleFunc("/ws", wsHandler.Handle).Methods("GET")

	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	api.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	protected := api.NewRoute().Subrouter()
	protected.Use(middleware.NewAuthMiddleware(s.cfg.Sessions))

	protected.HandleFunc("/auth/me", authHandler.Me).Methods("GET")
	protected.HandleFunc("/auth/keys", keysHandler.Update).Methods("POST")

	protected.HandleFunc("/contacts/add", contactsHandler.Add).Methods("POST")
	protected.HandleFunc("/contacts/accept/{userId:[0-9]+}", contactsHandler.Accept).Methods("POST")
	protected.HandleFunc("/contacts/reject/{userId:[0-9]+}", contactsHandler.Reject).Methods("POST")
	protected.HandleFunc("/contacts/remove/{userId:[0-9]+}", contactsHandler.Remove).Methods("DELETE")
	protected.HandleFunc("/contacts/list", contactsHandler.List).Methods("GET")
	protected.HandleFunc("/contacts/pending", contactsHandler.Pending).Methods("GET")
	protected.HandleFunc("/contacts/sent", contactsHandler.Sent).Methods("GET")

	protected.HandleFunc("/messages/send", messagesHandler.Send).Methods("POST")
	protected.HandleFunc("/messages/conversation/{userId:[0-9]+}", messagesHandler.Conversation).Methods("GET")
	protected.HandleFunc("/messages/read/{messageId:[0-9]+}", messagesHandler.MarkRead).Methods("POST")
	protected.HandleFunc("/messages/unread", messagesHandler.Unread).Methods("GET")
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	if s.cfg.HealthCheck != nil {
		if err := s.cfg.HealthCheck(); err != nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			_, _ = w.Write([]byte("database unavailable"))
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
