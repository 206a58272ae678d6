// Package settings reads runtime settings from the environment and an
// optional .env file.
package settings

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v9"
	"github.com/joho/godotenv"
)

// DefaultEnvFile is read from the working directory when no file is named.
const DefaultEnvFile = ".env"

// Settings are the process-level knobs of sipri. Flags override them.
type Settings struct {
	DataDir   string `env:"SIPRI_DATA_DIR" envDefault:"."`
	HistoryDB string `env:"SIPRI_HISTORY_DB" envDefault:"history.db"`
	History   bool   `env:"SIPRI_HISTORY" envDefault:"true"`
	LogLevel  string `env:"SIPRI_LOG_LEVEL" envDefault:"warn"`
	Format    string `env:"SIPRI_FORMAT" envDefault:"text"`
}

// Load reads envFile (DefaultEnvFile when empty) and overlays the process
// environment. A missing env file is not an error.
func Load(envFile string) (Settings, error) {
	return LoadEnviron(envFile, os.Environ())
}

// LoadEnviron is Load with an explicit environment in "KEY=value" form.
// Variables in environ win over the env file.
func LoadEnviron(envFile string, environ []string) (Settings, error) {
	if envFile == "" {
		envFile = DefaultEnvFile
	}

	vars := map[string]string{}
	fileVars, err := godotenv.Read(envFile)
	switch {
	case err == nil:
		for k, v := range fileVars {
			vars[k] = v
		}
	case errors.Is(err, os.ErrNotExist):
		// Configuration may come from the environment alone.
	default:
		return Settings{}, fmt.Errorf("failed loading env file %s: %w", envFile, err)
	}

	for _, kv := range environ {
		if k, v, ok := strings.Cut(kv, "="); ok {
			vars[k] = v
		}
	}

	var s Settings
	if err := env.ParseWithOptions(&s, env.Options{Environment: vars}); err != nil {
		return Settings{}, fmt.Errorf("failed to parse settings: %w", err)
	}
	if err := s.Validate(); err != nil {
		return Settings{}, err
	}
	return s, nil
}

// Validate rejects values no command can work with.
func (s Settings) Validate() error {
	if s.DataDir == "" {
		return errors.New("SIPRI_DATA_DIR must not be empty")
	}
	switch s.Format {
	case "text", "json":
	default:
		return fmt.Errorf("SIPRI_FORMAT must be text or json, got %q", s.Format)
	}
	return nil
}

// HistoryPath resolves HistoryDB against DataDir unless it is absolute.
func (s Settings) HistoryPath() string {
	if filepath.IsAbs(s.HistoryDB) {
		return s.HistoryDB
	}
	return filepath.Join(s.DataDir, s.HistoryDB)
}
