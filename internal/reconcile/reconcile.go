package reconcile

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Chapsvision-dev/cloudcontrol-backup-client/internal/backup"
	"github.com/Chapsvision-dev/cloudcontrol-backup-client/internal/params"
	"github.com/Chapsvision-dev/cloudcontrol-backup-client/internal/provider"
)

// Result aggregates one run. Backups holds the post-reconciliation client
// state keyed by server id; targets absent both before and after contribute
// no entry and no change.
type Result struct {
	Changed bool
	Backups map[string]backup.Client
}

// Run drives the minimal corrective action for every target, strictly
// sequentially and in input order. Repeated ids reconcile independently;
// the last occurrence wins in the result map. The first fatal error aborts
// the run; provider-side mutations already applied are not rolled back.
func Run(ctx context.Context, svc provider.BackupService, p params.Params) (Result, error) {
	res := Result{Backups: map[string]backup.Client{}}

	for _, serverID := range p.NodeIDs {
		start := time.Now()
		details, err := readDetails(ctx, svc, serverID)
		if err != nil {
			return Result{}, err
		}

		existing := details.FindClient(p.Spec.Type)
		action, err := Decide(p.State, existing != nil)
		if err != nil {
			return Result{}, err
		}

		log.Debug().
			Str("action", "reconcile_target").
			Str("server_id", serverID).
			Str("client_type", string(p.Spec.Type)).
			Str("decision", action.String()).
			Msg("corrective action decided")

		switch action {
		case ActionNone:
			// Absent before and after: no write, no report entry.

		case ActionRemove:
			if err := svc.RemoveClient(ctx, serverID, existing.ID); err != nil {
				return Result{}, fmt.Errorf("removing client from server %s: %w", serverID, err)
			}
			res.Changed = true

		case ActionAdd:
			if err := svc.AddClient(ctx, serverID, p.Spec); err != nil {
				return Result{}, fmt.Errorf("adding client to server %s: %w", serverID, err)
			}
			res.Changed = true
			// Re-read to pick up the provider-assigned id and download URL.
			details, err = readDetails(ctx, svc, serverID)
			if err != nil {
				return Result{}, err
			}
			created := details.FindClient(p.Spec.Type)
			if created == nil {
				return Result{}, fmt.Errorf("server %s: %s client not visible after add", serverID, p.Spec.Type)
			}
			res.Backups[serverID] = *created

		case ActionModify:
			// Re-applies the target's current service plan. Counted as a
			// change even when nothing differs, and reported as the
			// pre-modify snapshot: modify is idempotent at the provider but
			// locally always a change.
			if err := svc.ModifyTarget(ctx, serverID, details.ServicePlan); err != nil {
				return Result{}, fmt.Errorf("modifying backup for server %s: %w", serverID, err)
			}
			res.Changed = true
			res.Backups[serverID] = *existing
		}

		log.Info().
			Str("action", "reconcile_target").
			Str("server_id", serverID).
			Str("decision", action.String()).
			Dur("elapsed_ms", time.Since(start)).
			Msg("target reconciled")
	}

	return res, nil
}

// readDetails fetches the backup view of one server, mapping the
// never-provisioned condition to a message naming the target.
func readDetails(ctx context.Context, svc provider.BackupService, serverID string) (backup.TargetDetails, error) {
	details, err := svc.TargetDetails(ctx, serverID)
	if err != nil {
		if errors.Is(err, provider.ErrTargetNotProvisioned) {
			return backup.TargetDetails{}, fmt.Errorf("server %s does not have backup enabled", serverID)
		}
		return backup.TargetDetails{}, fmt.Errorf("finding backup info for server %s: %w", serverID, err)
	}
	return details, nil
}
