package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	ServerPort  string
	DatabaseURL string

	JWT struct {
		Secret string
		TTL    time.Duration
	}
}

// Load reads the server configuration from the environment.
func Load() (*Config, error) {
	// Load .env file if it exists (useful for local dev)
	_ = godotenv.Load()

	serverPort := os.Getenv("SERVER_PORT")
	if serverPort == "" {
		serverPort = "4000"
	}

	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL must be set")
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET must be set")
	}

	ttl := 12 * time.Hour
	if raw := os.Getenv("TOKEN_TTL"); raw != "" {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid TOKEN_TTL: %w", err)
		}
		ttl = parsed
	}

	cfg := &Config{
		ServerPort:  serverPort,
		DatabaseURL: databaseURL,
	}
	cfg.JWT.Secret = jwtSecret
	cfg.JWT.TTL = ttl
	return cfg, nil
}

type ClientConfig struct {
	APIURL    string
	Username  string
	Password  string
	TokenPath string
}

// LoadClient reads the configuration used by the client-side tools
// (cmd/pos, cmd/dailycut).
func LoadClient() (*ClientConfig, error) {
	_ = godotenv.Load()

	apiURL := os.Getenv("POS_API_URL")
	if apiURL == "" {
		apiURL = "http://localhost:4000"
	}

	tokenPath := os.Getenv("POS_TOKEN_PATH")
	if tokenPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home dir: %w", err)
		}
		tokenPath = filepath.Join(home, ".ohana-pos", "token")
	}

	return &ClientConfig{
		APIURL:    apiURL,
		Username:  os.Getenv("POS_USERNAME"),
		Password:  os.Getenv("POS_PASSWORD"),
		TokenPath: tokenPath,
	}, nil
}
