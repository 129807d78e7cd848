package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeConfigFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(contents), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	path := writeConfigFile(t, `
pool:
  base_url: "http://localhost:9000"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() = %v, want nil", err)
	}

	if cfg.Server.Port != 8085 {
		t.Errorf("server port = %d, want 8085", cfg.Server.Port)
	}
	if cfg.Confirmation.MaxWait != 70*time.Second {
		t.Errorf("confirmation max_wait = %v, want 70s", cfg.Confirmation.MaxWait)
	}
	if cfg.Confirmation.PollInterval != 2*time.Second {
		t.Errorf("confirmation poll_interval = %v, want 2s", cfg.Confirmation.PollInterval)
	}
	if cfg.Pool.NetworkID != 1 {
		t.Errorf("pool network_id = %d, want 1", cfg.Pool.NetworkID)
	}
	if cfg.Database.Enabled() {
		t.Error("database enabled without a host")
	}
	if cfg.Logging.Level != "info" || cfg.Logging.Format != "json" {
		t.Errorf("logging = %s/%s, want info/json", cfg.Logging.Level, cfg.Logging.Format)
	}
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfigFile(t, `
server:
  port: 9090
pool:
  base_url: "http://pool.internal:9000"
  network_id: 137
  local_derivation: true
confirmation:
  max_wait: "30s"
  poll_interval: "500ms"
database:
  host: "db.internal"
  user: "trader"
  password: "secret"
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() = %v, want nil", err)
	}

	if cfg.Server.Port != 9090 {
		t.Errorf("server port = %d, want 9090", cfg.Server.Port)
	}
	if cfg.Pool.NetworkID != 137 {
		t.Errorf("pool network_id = %d, want 137", cfg.Pool.NetworkID)
	}
	if !cfg.Pool.LocalDerivation {
		t.Error("local_derivation = false, want true")
	}
	if cfg.Confirmation.MaxWait != 30*time.Second {
		t.Errorf("confirmation max_wait = %v, want 30s", cfg.Confirmation.MaxWait)
	}
	if cfg.Confirmation.PollInterval != 500*time.Millisecond {
		t.Errorf("confirmation poll_interval = %v, want 500ms", cfg.Confirmation.PollInterval)
	}
	if !cfg.Database.Enabled() {
		t.Error("database enabled = false, want true with a host")
	}
	if cfg.Database.Port != 5432 {
		t.Errorf("database port = %d, want default 5432", cfg.Database.Port)
	}
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name     string
		contents string
	}{
		{"missing base_url", `
pool:
  network_id: 1
`},
		{"zero network_id", `
pool:
  base_url: "http://localhost:9000"
  network_id: 0
`},
		{"non-positive max_wait", `
pool:
  base_url: "http://localhost:9000"
confirmation:
  max_wait: "0s"
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfigFile(t, tt.contents)
			if _, err := Load(path); err == nil {
				t.Error("Load() = nil, want validation error")
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Load() = nil, want error for missing file")
	}
}
