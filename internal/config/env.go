package config

import (
	"os"
	"strings"

	"github.com/joho/godotenv"
)

type Env struct {
	AppAddr   string
	GinMode   string
	DBPath    string
	JWTSecret string
	HubOrigin string
}

// LoadEnv reads configuration from the environment, with a best-effort
// .env autoload for local development.
func LoadEnv() Env {
	_ = godotenv.Load()

	appAddr := strings.TrimSpace(os.Getenv("APP_ADDR"))
	if appAddr == "" {
		appAddr = ":8080"
	}

	dbPath := strings.TrimSpace(os.Getenv("DB_PATH"))
	if dbPath == "" {
		dbPath = "busline.db"
	}

	secret := strings.TrimSpace(os.Getenv("JWT_SECRET"))
	if secret == "" {
		secret = "busline-dev-secret-change-me"
	}

	// The catalog models a single hub: every route departs from here.
	hub := strings.TrimSpace(os.Getenv("HUB_ORIGIN"))
	if hub == "" {
		hub = "Khon Kaen"
	}

	return Env{
		AppAddr:   appAddr,
		GinMode:   strings.TrimSpace(os.Getenv("GIN_MODE")),
		DBPath:    dbPath,
		JWTSecret: secret,
		HubOrigin: hub,
	}
}
