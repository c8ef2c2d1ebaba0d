package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefault_IsValid(t *testing.T) {
	if err := Default().Validate(); err != nil {
		t.Fatalf("default config invalid: %v", err)
	}
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	doc := []byte(`
analysis:
  policy: hybrid-conc
generator:
  num_tasks: 4
  num_gpu_tasks: 2
logging:
  level: debug
  format: json
`)
	if err := os.WriteFile(path, doc, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Analysis.Policy != "hybrid-conc" {
		t.Errorf("policy = %s, want hybrid-conc", cfg.Analysis.Policy)
	}
	if cfg.Generator.NumTasks != 4 || cfg.Generator.NumGPUTasks != 2 {
		t.Errorf("generator counts = (%d, %d), want (4, 2)", cfg.Generator.NumTasks, cfg.Generator.NumGPUTasks)
	}
	if cfg.Logging.Level != "debug" || cfg.Logging.Format != "json" {
		t.Errorf("logging = (%s, %s)", cfg.Logging.Level, cfg.Logging.Format)
	}
	// Untouched sections keep their defaults.
	if cfg.Server.Port != 8080 {
		t.Errorf("server port = %d, want default 8080", cfg.Server.Port)
	}
}

func TestLoad_RejectsBadPolicy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	doc := []byte("analysis:\n  policy: nonsense\n")
	if err := os.WriteFile(path, doc, 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Error("expected validation error for unknown policy")
	}
}

func TestLoad_SubstitutesEnvVars(t *testing.T) {
	t.Setenv("ACCELSCHED_TEST_SECRET", "hunter2")

	path := filepath.Join(t.TempDir(), "config.yaml")
	doc := []byte(`
server:
  auth:
    enabled: true
    secret: ${ACCELSCHED_TEST_SECRET}
`)
	if err := os.WriteFile(path, doc, 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Auth.Secret != "hunter2" {
		t.Errorf("secret = %q, want substituted value", cfg.Server.Auth.Secret)
	}
}

func TestLoadOrDefault_FallsBack(t *testing.T) {
	cfg := LoadOrDefault("")
	if cfg.Analysis.Policy != "request-driven" {
		t.Errorf("policy = %s, want default", cfg.Analysis.Policy)
	}

	cfg = LoadOrDefault("/nonexistent/path.yaml")
	if cfg.Analysis.Policy != "request-driven" {
		t.Errorf("policy = %s, want default on missing file", cfg.Analysis.Policy)
	}
}

func TestValidate_Errors(t *testing.T) {
	cfg := Default()
	cfg.Server.Port = 0
	cfg.Generator.CPUUtil = -1
	cfg.Logging.Level = "loud"

	err := cfg.Validate()
	if err == nil {
		t.Fatal("expected validation errors")
	}
}
