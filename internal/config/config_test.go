package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

// clearEnv blanks every variable Load reads so tests are hermetic.
func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"DIDATA_USER", "DIDATA_PASSWORD", "DD_AUTH_METHOD", "DD_CREDENTIALS_FILE",
		"DD_API_ENDPOINT", "BACKUP_SERVICE",
		"ARCHIVE_STORAGE_ACCOUNT", "ARCHIVE_STORAGE_CONTAINER", "ARCHIVE_STORAGE_SAS", "ARCHIVE_PREFIX",
		"AZURE_CLIENT_ID", "AZURE_CLIENT_SECRET", "AZURE_TENANT_ID",
		"RETRY_MAX_ATTEMPTS", "RETRY_INITIAL_DELAY", "RETRY_MAX_DELAY", "RETRY_MULTIPLIER", "RETRY_JITTER",
	} {
		t.Setenv(k, "")
	}
	// An inherited HOME dotfile must not leak into auth resolution.
	t.Setenv("DD_CREDENTIALS_FILE", filepath.Join(t.TempDir(), "absent"))
}

func TestLoad_EnvCredentials(t *testing.T) {
	clearEnv(t)
	t.Setenv("DIDATA_USER", "devops")
	t.Setenv("DIDATA_PASSWORD", "secret")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Auth.Method != "env" || cfg.Auth.User != "devops" || cfg.Auth.Password != "secret" {
		t.Fatalf("auth = %+v", cfg.Auth)
	}
	if cfg.Service != "cloudcontrol" {
		t.Fatalf("service = %q", cfg.Service)
	}
}

func TestLoad_FileCredentialsFallback(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), "creds")
	if err := os.WriteFile(path, []byte("devops:secret\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("DD_CREDENTIALS_FILE", path)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Auth.Method != "file" || cfg.Auth.File != path {
		t.Fatalf("auth = %+v", cfg.Auth)
	}
}

func TestLoad_NoCredentials(t *testing.T) {
	clearEnv(t)
	if _, err := Load(); err == nil {
		t.Fatalf("want error, got nil")
	}
}

func TestLoad_ExplicitEnvMethodRequiresBothVars(t *testing.T) {
	clearEnv(t)
	t.Setenv("DD_AUTH_METHOD", "env")
	t.Setenv("DIDATA_USER", "devops")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "DIDATA_PASSWORD") {
		t.Fatalf("err = %v, want missing password error", err)
	}
}

func TestLoad_UnsupportedService(t *testing.T) {
	clearEnv(t)
	t.Setenv("DIDATA_USER", "u")
	t.Setenv("DIDATA_PASSWORD", "p")
	t.Setenv("BACKUP_SERVICE", "teleport")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "unsupported backup service") {
		t.Fatalf("err = %v", err)
	}
}

func TestLoad_ArchiveMustBePaired(t *testing.T) {
	clearEnv(t)
	t.Setenv("DIDATA_USER", "u")
	t.Setenv("DIDATA_PASSWORD", "p")
	t.Setenv("ARCHIVE_STORAGE_ACCOUNT", "acct")

	if _, err := Load(); err == nil || !strings.Contains(err.Error(), "ARCHIVE_STORAGE_CONTAINER") {
		t.Fatalf("err = %v", err)
	}
}

func TestLoad_RetryOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("DIDATA_USER", "u")
	t.Setenv("DIDATA_PASSWORD", "p")
	t.Setenv("RETRY_MAX_ATTEMPTS", "2")
	t.Setenv("RETRY_INITIAL_DELAY", "50ms")
	t.Setenv("RETRY_JITTER", "false")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	ro := cfg.RetryOptions()
	if ro.MaxAttempts != 2 || ro.InitialDelay != 50*time.Millisecond || ro.Jitter {
		t.Fatalf("retry options = %+v", ro)
	}
}
