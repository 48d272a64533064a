package app

import (
	"os"
	"path/filepath"
	"testing"
)

func TestGetDefaults(t *testing.T) {
	t.Run("uses env vars when set", func(t *testing.T) {
		t.Setenv("SHA2_CONFIG_PATH", "/custom/sha2.toml")
		t.Setenv("SHA2_HOME", "/custom/sha2")

		defaults, err := GetDefaults()
		if err != nil {
			t.Fatalf("GetDefaults() error = %v", err)
		}

		if defaults["config_path"] != "/custom/sha2.toml" {
			t.Errorf("config_path = %q, want %q", defaults["config_path"], "/custom/sha2.toml")
		}
		if defaults["base_dir"] != "/custom/sha2" {
			t.Errorf("base_dir = %q, want %q", defaults["base_dir"], "/custom/sha2")
		}
		if defaults["log_dir"] != "/custom/sha2/log" {
			t.Errorf("log_dir = %q, want %q", defaults["log_dir"], "/custom/sha2/log")
		}
	})

	t.Run("falls back to home dir defaults", func(t *testing.T) {
		t.Setenv("SHA2_CONFIG_PATH", "")
		t.Setenv("SHA2_HOME", "")

		defaults, err := GetDefaults()
		if err != nil {
			t.Fatalf("GetDefaults() error = %v", err)
		}

		homeDir, _ := os.UserHomeDir()

		wantConfig := filepath.Join(homeDir, ".config", "sha2.toml")
		if defaults["config_path"] != wantConfig {
			t.Errorf("config_path = %q, want %q", defaults["config_path"], wantConfig)
		}

		wantBase := filepath.Join(homeDir, ".local", "share", "sha2")
		if defaults["base_dir"] != wantBase {
			t.Errorf("base_dir = %q, want %q", defaults["base_dir"], wantBase)
		}
		if want := filepath.Join(wantBase, "log"); defaults["log_dir"] != want {
			t.Errorf("log_dir = %q, want %q", defaults["log_dir"], want)
		}
	})
}
