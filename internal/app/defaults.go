package app

import (
	"fmt"
	"os"
	"path/filepath"
)

// GetDefaults returns application default paths, checking environment variables first.
// Environment variables:
//   - SHA2_CONFIG_PATH: config file location (default: ~/.config/sha2.toml)
//   - SHA2_HOME: base directory for ledger data and logs (default: ~/.local/share/sha2)
func GetDefaults() (map[string]string, error) {
	configPath, err := envOrHome("SHA2_CONFIG_PATH", ".config", "sha2.toml")
	if err != nil {
		return nil, err
	}

	baseDir, err := envOrHome("SHA2_HOME", ".local", "share", "sha2")
	if err != nil {
		return nil, err
	}

	return map[string]string{
		"config_path": configPath,
		"base_dir":    baseDir,
		"log_dir":     filepath.Join(baseDir, "log"),
	}, nil
}

// envOrHome returns the value of env if set, otherwise the path built from
// the user's home directory and elem.
func envOrHome(env string, elem ...string) (string, error) {
	if path := os.Getenv(env); path != "" {
		return path, nil
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("cannot determine home directory: %w", err)
	}
	return filepath.Join(append([]string{homeDir}, elem...)...), nil
}
