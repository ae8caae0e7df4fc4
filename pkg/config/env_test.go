package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseEnvDefaults(t *testing.T) {
	t.Setenv("SAFETELEOP_CONFIG_DIR", "")
	os.Unsetenv("SAFETELEOP_CONFIG_DIR")

	got, err := ParseEnv()
	if err != nil {
		t.Fatalf("ParseEnv failed: %v", err)
	}
	if got.ConfigDir != "./config" {
		t.Errorf("Expected default config dir './config', got %q", got.ConfigDir)
	}
}

func TestEnvOverridesApply(t *testing.T) {
	safetyPath := filepath.Join(t.TempDir(), "safety.yaml")
	if err := os.WriteFile(safetyPath, []byte("max_linear_vel: 0.4\n"), 0644); err != nil {
		t.Fatalf("Failed to write safety file: %v", err)
	}

	t.Setenv("SAFETELEOP_CONFIG_DIR", "/etc/safeteleop")
	t.Setenv("SAFETELEOP_SAFETY_CONFIG", safetyPath)
	t.Setenv("PORT", "9191")
	t.Setenv("SAFETELEOP_LOG_LEVEL", "debug")

	overrides, err := ParseEnv()
	if err != nil {
		t.Fatalf("ParseEnv failed: %v", err)
	}
	want := EnvOverrides{
		ConfigDir:    "/etc/safeteleop",
		SafetyConfig: safetyPath,
		Port:         9191,
		LogLevel:     "debug",
	}
	if diff := cmp.Diff(want, overrides); diff != "" {
		t.Errorf("Overrides mismatch (-want +got):\n%s", diff)
	}

	cfg := DefaultBootstrapConfig()
	cfg.ZeroMQ.ScanSubscribeAddress = "tcp://localhost:5557"
	if err := overrides.Apply(&cfg); err != nil {
		t.Fatalf("Apply failed: %v", err)
	}

	if cfg.Server.HTTPPort != 9191 {
		t.Errorf("Expected port 9191, got %d", cfg.Server.HTTPPort)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("Expected level debug, got %q", cfg.Logging.Level)
	}
	if cfg.Safety.MaxLinearVel != 0.4 {
		t.Errorf("Expected max_linear_vel 0.4, got %v", cfg.Safety.MaxLinearVel)
	}
	if cfg.Safety.MaxAngularVel != DefaultMaxAngularVel {
		t.Errorf("Expected default max_angular_vel, got %v", cfg.Safety.MaxAngularVel)
	}
}

func TestEnvOverridesRejectBadPort(t *testing.T) {
	t.Setenv("PORT", "not-a-port")
	if _, err := ParseEnv(); err == nil {
		t.Fatal("Expected error for non-numeric PORT")
	}

	cfg := DefaultBootstrapConfig()
	cfg.ZeroMQ.ScanSubscribeAddress = "tcp://localhost:5557"
	err := EnvOverrides{Port: 70000}.Apply(&cfg)
	if err == nil || !strings.Contains(err.Error(), "http_port") {
		t.Errorf("Expected http_port range error, got %v", err)
	}
}
