package config

import (
	"log/slog"
	"os"
)

// JwtKey signs session tokens. Kept as a package global the same way DB is.
var JwtKey []byte

func LoadJwtKey() {
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		slog.Error("JWT_SECRET environment variable is not set")
		os.Exit(1)
	}
	JwtKey = []byte(secret)
}
