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

package main

import (
	"database/sql"
	"log"
	"net/http"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	goredis "github.com/redis/go-redis/v9"

	"github.com/ankondeadlarx/FamChat/backend/auth"
	"github.com/ankondeadlarx/FamChat/backend/config"
	"github.com/ankondeadlarx/FamChat/backend/server"
	"github.com/ankondeadlarx/FamChat/backend/storage"
	"github.com/ankondeadlarx/FamChat/backend/storage/postgres"
	redisstore "github.com/ankondeadlarx/FamChat/backend/storage/redis"
	"github.com/ankondeadlarx/FamChat/backend/ws"
)

func main() {
	_ = godotenv.Load()
	cfg := config.FromEnv()

	if cfg.JWTSecret == "" {
		log.Fatal("JWT_SECRET environment variable is required")
	}

	db, err := sql.Open("postgres", cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer db.Close()

	store := postgres.NewStore(db)
	if err := store.Migrate(); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	var online storage.PresenceStore
	if cfg.RedisURL != "" {
		rdb := goredis.NewClient(&goredis.Options{Addr: cfg.RedisURL})
		online = redisstore.NewPresenceStore(rdb)
		log.Printf("Online-status tracking enabled via redis at %s", cfg.RedisURL)
	}

	srv := server.New(server.Config{
		Store:         store,
		Sessions:      auth.NewSessions([]byte(cfg.JWTSecret)),
		Presence:      ws.NewPresence(),
		Online:        online,
		HealthCheck:   db.Ping,
		AllowedOrigin: cfg.FrontendOrigin,
	})

	log.Printf("FamChat server starting on port %s", cfg.Port)
	if err := http.ListenAndServe(":"+cfg.Port, srv.Handler()); err != nil {
		log.Fatalf("Server failed to start: %v", err)
	}
}
