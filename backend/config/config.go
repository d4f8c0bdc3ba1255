// Copyright (C) 2025 FamChat contributors
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.

package config

import "os"

type Config struct {
	Port        string
	DatabaseURL string
	// RedisURL is optional; when empty the server runs without the
	// online-status tracker.
	RedisURL       string
	JWTSecret      string
	FrontendOrigin string
}

func FromEnv() Config {
	return Config{
		Port:           getenv("PORT", "8080"),
		DatabaseURL:    getenv("DATABASE_URL", "postgres://localhost/famchat?sslmode=disable"),
		RedisURL:       os.Getenv("REDIS_URL"),
		JWTSecret:      os.Getenv("JWT_SECRET"),
		FrontendOrigin: getenv("FRONTEND_URL", "http://localhost:5173"),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
