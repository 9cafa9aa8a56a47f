package auth

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/Chapsvision-dev/cloudcontrol-backup-client/internal/config"
)

var ErrNoCredentials = errors.New("no CloudControl credentials available")

// Credentials is the user/secret pair used for CloudControl basic auth.
type Credentials struct {
	User string
	Key  string
}

// Provider abstracts how we acquire CloudControl credentials (no refresh).
type Provider interface {
	Acquire(ctx context.Context) (Credentials, error)
}

// New selects the provider based on cfg.Auth.Method.
// NOTE: This package never initializes logging; main() does via logx.InitFromEnv().
func New(cfg config.Config) (Provider, error) {
	method := strings.ToLower(strings.TrimSpace(cfg.Auth.Method))
	switch method {
	case "env":
		log.Debug().
			Str("action", "auth_new").
			Str("method", "env").
			Msg("credential provider selected")
		return &envProvider{user: strings.TrimSpace(cfg.Auth.User), key: strings.TrimSpace(cfg.Auth.Password)}, nil

	case "file":
		log.Debug().
			Str("action", "auth_new").
			Str("method", "file").
			Str("path", cfg.Auth.File).
			Msg("credential provider selected")
		return &fileProvider{path: cfg.Auth.File}, nil

	default:
		return nil, errors.New("unsupported auth method: " + method)
	}
}
