// Package storage persists magic-set validation reports so a set only has
// to be proven collision free once per machine.
package storage

import (
	"os"
	"path/filepath"
	"runtime"
)

const appName = "attacktables"

// userDataRoot is the per-user directory applications keep data under:
// Application Support on macOS, APPDATA on Windows, XDG_DATA_HOME elsewhere.
func userDataRoot() (string, error) {
	home, err := os.UserHomeDir()
	switch runtime.GOOS {
	case "darwin":
		if err != nil {
			return "", err
		}
		return filepath.Join(home, "Library", "Application Support"), nil
	case "windows":
		if dir := os.Getenv("APPDATA"); dir != "" {
			return dir, nil
		}
		if err != nil {
			return "", err
		}
		return filepath.Join(home, "AppData", "Roaming"), nil
	default:
		if dir := os.Getenv("XDG_DATA_HOME"); dir != "" {
			return dir, nil
		}
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".local", "share"), nil
	}
}

func mkdir(parts ...string) (string, error) {
	dir := filepath.Join(parts...)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	return dir, nil
}

// GetDataDir returns the attacktables directory under the user data root,
// creating it if needed.
func GetDataDir() (string, error) {
	root, err := userDataRoot()
	if err != nil {
		return "", err
	}
	return mkdir(root, appName)
}

// GetDatabaseDir returns where Open keeps the report database when no
// directory is given.
func GetDatabaseDir() (string, error) {
	dataDir, err := GetDataDir()
	if err != nil {
		return "", err
	}
	return mkdir(dataDir, "db")
}
