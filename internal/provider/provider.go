package provider

import (
	"context"

	"github.com/Chapsvision-dev/cloudcontrol-backup-client/internal/backup"
)

// BackupService defines the contract for the vendor backup API used by the
// reconciler. Server ids are opaque strings owned by the cloud provider.
type BackupService interface {
	// TargetDetails returns the backup view of one server, including its
	// currently attached backup clients.
	TargetDetails(ctx context.Context, serverID string) (backup.TargetDetails, error)

	// AddClient attaches a new backup client to the server.
	AddClient(ctx context.Context, serverID string, spec backup.ClientSpec) error

	// RemoveClient detaches an existing backup client from the server.
	RemoveClient(ctx context.Context, serverID, clientID string) error

	// ModifyTarget re-applies a service plan to the server.
	ModifyTarget(ctx context.Context, serverID, servicePlan string) error

	// Name returns the service identifier (e.g. "cloudcontrol").
	Name() string
}
