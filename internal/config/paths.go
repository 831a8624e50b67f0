// Package config handles configuration loading, saving, and path management.
package config

import (
	"os"
	"path/filepath"
)

const (
	// GlobalDirName is the name of the global PopSearch directory.
	GlobalDirName = ".popsearch"

	// HomeEnv overrides the global directory when set.
	HomeEnv = "POPSEARCH_HOME"
)

// File names
const (
	InstanceFileName = "instance.yaml"
	SettingsFileName = "settings.yaml"
	CatalogFileName  = "catalog.yaml"
	LockFileName     = "popsearch.lock"
	SocketFileName   = "popsearch.sock"
)

// GlobalDir returns the path to the global PopSearch directory
// ($POPSEARCH_HOME, or ~/.popsearch/).
func GlobalDir() (string, error) {
	if dir := os.Getenv(HomeEnv); dir != "" {
		return dir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, GlobalDirName), nil
}

func globalFile(name string) (string, error) {
	dir, err := GlobalDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, name), nil
}

// GlobalInstanceFile returns the path to the instance.yaml file.
func GlobalInstanceFile() (string, error) { return globalFile(InstanceFileName) }

// GlobalSettingsFile returns the path to the settings.yaml file.
func GlobalSettingsFile() (string, error) { return globalFile(SettingsFileName) }

// GlobalCatalogFile returns the path to the catalog.yaml file.
func GlobalCatalogFile() (string, error) { return globalFile(CatalogFileName) }

// GlobalLockFile returns the path to the single-instance lock file.
func GlobalLockFile() (string, error) { return globalFile(LockFileName) }

// GlobalSocketFile returns the path to the primary's unix socket.
func GlobalSocketFile() (string, error) { return globalFile(SocketFileName) }

// EnsureGlobalDir creates the global PopSearch directory if it doesn't exist.
func EnsureGlobalDir() error {
	dir, err := GlobalDir()
	if err != nil {
		return err
	}
	return os.MkdirAll(dir, 0o755)
}
