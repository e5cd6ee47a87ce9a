package config

import (
	"os"
	"path/filepath"
)

const appName = "checkin-manager"

// DefaultDir returns ~/.config/checkin-manager (or the working directory as fallback).
func DefaultDir() string {
	home, err := os.UserHomeDir()
	if err == nil && home != "" {
		return filepath.Join(home, ".config", appName)
	}
	cwd, _ := os.Getwd()
	return cwd
}

// DefaultPath returns the location of the optional application config file.
func DefaultPath() string {
	return filepath.Join(DefaultDir(), "config.yaml")
}

// DefaultStatePath returns where the check-in settings are stored.
func DefaultStatePath() string {
	return filepath.Join(DefaultDir(), "state.json")
}

// DefaultSQLitePath is used instead of DefaultStatePath for sqlite storage.
func DefaultSQLitePath() string {
	return filepath.Join(DefaultDir(), "state.db")
}
