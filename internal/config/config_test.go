package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BackendURL != defaultBackendURL {
		t.Fatalf("backend url = %q", cfg.BackendURL)
	}
	if cfg.Scope.NamedInsured != "John Doe" {
		t.Fatalf("scope default lost: %+v", cfg.Scope)
	}
}

func TestLoadFileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "intake.yaml")
	body := []byte(`
backend_url: http://localhost:8080
timeout: 5s
scope:
  policy_id: pol-42
  named_insured: Jane Roe
`)
	if err := os.WriteFile(path, body, 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BackendURL != "http://localhost:8080" {
		t.Fatalf("backend url = %q", cfg.BackendURL)
	}
	if cfg.Timeout != Duration(5*time.Second) {
		t.Fatalf("timeout = %v", cfg.Timeout)
	}
	if cfg.Scope.PolicyID != "pol-42" || cfg.Scope.NamedInsured != "Jane Roe" {
		t.Fatalf("scope = %+v", cfg.Scope)
	}
	// Fields the file omits keep their defaults.
	if cfg.Scope.Make != "Honda" {
		t.Fatalf("make = %q", cfg.Scope.Make)
	}
}

func TestEnvOverridesFile(t *testing.T) {
	t.Setenv("INTAKE_BACKEND_URL", "http://env-wins:9000")
	t.Setenv("INTAKE_POLICY_ID", "pol-env")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.BackendURL != "http://env-wins:9000" {
		t.Fatalf("backend url = %q", cfg.BackendURL)
	}
	if cfg.Scope.PolicyID != "pol-env" {
		t.Fatalf("policy id = %q", cfg.Scope.PolicyID)
	}
}

func TestValidateRejectsEmptyBackend(t *testing.T) {
	cfg := Default()
	cfg.BackendURL = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error")
	}
}
