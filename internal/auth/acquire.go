package auth

import (
	"context"

	"github.com/Chapsvision-dev/cloudcontrol-backup-client/internal/config"
)

// AcquireCredentials is a convenience for call sites that only need the pair.
func AcquireCredentials(ctx context.Context, cfg config.Config) (Credentials, error) {
	p, err := New(cfg)
	if err != nil {
		return Credentials{}, err
	}
	return p.Acquire(ctx)
}
