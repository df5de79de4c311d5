package config

import (
	"os"
	"path/filepath"
)

const appName = "hostfetch"

// GetAppDir returns the per-user configuration directory for hostfetch.
func GetAppDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, appName)
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "."+appName)
	}
	return filepath.Join(dir, appName)
}

// GetStateDir holds the history database.
func GetStateDir() string {
	return filepath.Join(GetAppDir(), "state")
}

// GetLogsDir holds the debug logs.
func GetLogsDir() string {
	return filepath.Join(GetAppDir(), "logs")
}

// GetSettingsPath returns the location of settings.yaml.
func GetSettingsPath() string {
	return filepath.Join(GetAppDir(), "settings.yaml")
}

// EnsureDirs creates the app, state and logs directories.
func EnsureDirs() error {
	for _, dir := range []string{GetAppDir(), GetStateDir(), GetLogsDir()} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}
