package main

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/gasometer/backfill/internal/config"
	"github.com/gasometer/backfill/internal/monitoring"
)

// envFiles lists the .env files consulted for the credential, in order.
// godotenv.Load never overrides a variable that is already set, so the
// shell environment wins, then the working directory, then the user config.
func envFiles() []string {
	files := []string{".env"}
	if home, err := os.UserHomeDir(); err == nil {
		files = append(files, filepath.Join(home, ".config", "gasometer", ".env"))
	}
	return files
}

// loadEnvFiles loads each existing file. Missing files are not an error.
func loadEnvFiles(files ...string) {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			log.Warn().Err(err).Str("path", f).Msg("failed to load env file")
		}
	}
}

// setupLogging configures the global logger and tags it with a fresh run id.
func setupLogging(cfg *config.Config, debug bool) (io.Closer, string, error) {
	logCfg := cfg.Logger
	if debug {
		logCfg.Level = "debug"
	}
	closer, err := monitoring.SetupLogging(logCfg)
	if err != nil {
		return nil, "", err
	}
	runID := uuid.NewString()
	monitoring.WithRunID(runID)
	return closer, runID, nil
}
