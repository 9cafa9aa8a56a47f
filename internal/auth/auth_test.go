package auth

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/Chapsvision-dev/cloudcontrol-backup-client/internal/config"
)

func TestEnvProvider_ReturnsPair(t *testing.T) {
	p, err := New(config.Config{Auth: config.AuthConfig{Method: "env", User: "devops", Password: "secret"}})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	creds, err := p.Acquire(context.Background())
	if err != nil {
		t.Fatalf("Acquire: %v", err)
	}
	if creds.User != "devops" || creds.Key != "secret" {
		t.Fatalf("creds = %+v", creds)
	}
}

func TestFileProvider_ParsesDotfile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dimensiondata")
	content := "# CloudControl credentials\n\ndevops:s3cret:with:colons\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}

	creds, err := AcquireCredentials(context.Background(),
		config.Config{Auth: config.AuthConfig{Method: "file", File: path}})
	if err != nil {
		t.Fatalf("AcquireCredentials: %v", err)
	}
	// Only the first colon separates user from secret.
	if creds.User != "devops" || creds.Key != "s3cret:with:colons" {
		t.Fatalf("creds = %+v", creds)
	}
}

func TestFileProvider_EmptyFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dimensiondata")
	if err := os.WriteFile(path, []byte("# nothing here\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := AcquireCredentials(context.Background(),
		config.Config{Auth: config.AuthConfig{Method: "file", File: path}})
	if !errors.Is(err, ErrNoCredentials) {
		t.Fatalf("err = %v, want ErrNoCredentials", err)
	}
}

func TestFileProvider_MalformedLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dimensiondata")
	if err := os.WriteFile(path, []byte("justausername\n"), 0o600); err != nil {
		t.Fatal(err)
	}

	_, err := AcquireCredentials(context.Background(),
		config.Config{Auth: config.AuthConfig{Method: "file", File: path}})
	if err == nil {
		t.Fatalf("want error, got nil")
	}
}

func TestNew_UnsupportedMethod(t *testing.T) {
	if _, err := New(config.Config{Auth: config.AuthConfig{Method: "oauth"}}); err == nil {
		t.Fatalf("want error, got nil")
	}
}
