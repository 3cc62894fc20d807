package confs

import (
	"fmt"
	"log"
	"net"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	StorePostgres = "postgres"
	StoreSQLite   = "sqlite"
	StoreMemory   = "memory"
)

// Config holds every runtime setting of the API server.
type Config struct {
	Host    string `env:"HOST" envDefault:"0.0.0.0"`
	Port    string `env:"PORT" envDefault:"3536"`
	GinMode string `env:"GIN_MODE" envDefault:"debug"`

	// Store selects the persistence backend: postgres, sqlite or memory.
	Store string `env:"STORE" envDefault:"postgres"`

	DBURL      string `env:"DB_URL"`
	DBHost     string `env:"DB_HOST"`
	DBPort     string `env:"DB_PORT"`
	DBUser     string `env:"DB_USER"`
	DBPassword string `env:"DB_PASSWORD"`
	DBName     string `env:"DB_NAME"`
	DBDebug    bool   `env:"DB_DEBUG" envDefault:"false"`
	SQLitePath string `env:"SQLITE_PATH" envDefault:"commands.db"`

	// AllowedOrigins restricts CORS; empty allows all origins.
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:","`
}

// Addr is the listen address for the HTTP server.
func (c Config) Addr() string {
	return net.JoinHostPort(c.Host, c.Port)
}

// LoadConfig loads environment variables from a .env file if present
// and parses them into a Config.
func LoadConfig() (Config, error) {
	// Load .env if it exists; ignore error if file not found
	if err := godotenv.Load(); err != nil {
		if !os.IsNotExist(err) {
			log.Printf("warning: could not load .env: %v", err)
		}
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}

	switch cfg.Store {
	case StorePostgres, StoreSQLite, StoreMemory:
	default:
		return Config{}, fmt.Errorf("unsupported STORE %q (want postgres, sqlite or memory)", cfg.Store)
	}
	return cfg, nil
}
