package config

import (
	"fmt"
	"strings"

	"github.com/caarlos0/env/v11"
)

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Store selects and locates the house store. Shared by the server and the
// admin tool.
type Store struct {
	Driver        string `env:"MAPSTATE_DB_DRIVER" envDefault:"postgres"`
	DSN           string `env:"MAPSTATE_DB_DSN"`
	MigrationsDir string `env:"MAPSTATE_MIGRATIONS_DIR"`
}

// Validate checks the driver name and that a DSN is present where one is
// needed.
func (s Store) Validate() error {
	switch strings.ToLower(strings.TrimSpace(s.Driver)) {
	case "postgres", "sqlite":
		if strings.TrimSpace(s.DSN) == "" {
			return fmt.Errorf("MAPSTATE_DB_DSN is required for driver %q", s.Driver)
		}
	case "memory":
	default:
		return fmt.Errorf("unknown MAPSTATE_DB_DRIVER %q (want postgres, sqlite or memory)", s.Driver)
	}
	return nil
}
