package cloudcontrol

import (
	"context"
	"encoding/xml"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Chapsvision-dev/cloudcontrol-backup-client/internal/backup"
	"github.com/Chapsvision-dev/cloudcontrol-backup-client/internal/provider"
)

const backupNS = "http://oec.api.opsource.net/schemas/backup"

// notProvisionedSuffix is how the vendor words the never-enabled condition in
// Status resultDetail.
const notProvisionedSuffix = "has not been provisioned for backup"

type xmlBackupDetails struct {
	XMLName     xml.Name          `xml:"BackupDetails"`
	AssetID     string            `xml:"assetId,attr"`
	ServicePlan string            `xml:"servicePlan,attr"`
	State       string            `xml:"state,attr"`
	Clients     []xmlBackupClient `xml:"backupClient"`
}

type xmlBackupClient struct {
	ID                 string        `xml:"id,attr"`
	Type               xmlClientType `xml:"type"`
	SchedulePolicyName string        `xml:"schedulePolicyName"`
	StoragePolicyName  string        `xml:"storagePolicyName"`
	DownloadURL        string        `xml:"downloadUrl"`
}

type xmlClientType struct {
	Type string `xml:"type,attr"`
}

type xmlAlerting struct {
	Trigger      string `xml:"trigger,attr"`
	EmailAddress string `xml:"emailAddress"`
}

type xmlNewBackupClient struct {
	XMLName            xml.Name     `xml:"NewBackupClient"`
	NS                 string       `xml:"xmlns,attr"`
	Type               string       `xml:"type"`
	StoragePolicyName  string       `xml:"storagePolicyName"`
	SchedulePolicyName string       `xml:"schedulePolicyName"`
	Alerting           *xmlAlerting `xml:"alerting"`
}

type xmlModifyBackup struct {
	XMLName     xml.Name `xml:"ModifyBackup"`
	NS          string   `xml:"xmlns,attr"`
	ServicePlan string   `xml:"servicePlan,attr"`
}

// TargetDetails returns the backup view of one server.
func (c *Client) TargetDetails(ctx context.Context, serverID string) (backup.TargetDetails, error) {
	org, err := c.orgID(ctx)
	if err != nil {
		return backup.TargetDetails{}, err
	}

	start := time.Now()
	path := fmt.Sprintf("%s/%s/server/%s/backup", apiVersion, org, serverID)
	body, err := c.call(ctx, "backup_details", http.MethodGet, path, nil)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && strings.HasSuffix(apiErr.Detail, notProvisionedSuffix) {
			return backup.TargetDetails{}, fmt.Errorf("%s: %w", apiErr.Detail, provider.ErrTargetNotProvisioned)
		}
		return backup.TargetDetails{}, err
	}

	var xd xmlBackupDetails
	if err := xml.Unmarshal(body, &xd); err != nil {
		return backup.TargetDetails{}, fmt.Errorf("parse backup details: %w", err)
	}

	details := backup.TargetDetails{
		AssetID:     xd.AssetID,
		ServicePlan: xd.ServicePlan,
		State:       xd.State,
	}
	for _, xc := range xd.Clients {
		details.Clients = append(details.Clients, backup.Client{
			ID:             xc.ID,
			Type:           backup.ClientType(xc.Type.Type),
			StoragePolicy:  backup.StoragePolicy(xc.StoragePolicyName),
			SchedulePolicy: backup.SchedulePolicy(xc.SchedulePolicyName),
			DownloadURL:    xc.DownloadURL,
		})
	}

	log.Debug().
		Str("action", "cloudcontrol_backup_details").
		Str("server_id", serverID).
		Int("clients", len(details.Clients)).
		Dur("elapsed_ms", time.Since(start)).
		Msg("backup details OK")
	return details, nil
}

// AddClient attaches a new backup client to the server.
func (c *Client) AddClient(ctx context.Context, serverID string, spec backup.ClientSpec) error {
	org, err := c.orgID(ctx)
	if err != nil {
		return err
	}

	doc := xmlNewBackupClient{
		NS:                 backupNS,
		Type:               string(spec.Type),
		StoragePolicyName:  string(spec.StoragePolicy),
		SchedulePolicyName: string(spec.SchedulePolicy),
		Alerting: &xmlAlerting{
			Trigger:      string(spec.NotifyTrigger),
			EmailAddress: spec.NotifyEmail,
		},
	}
	reqBody, err := xml.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode new backup client: %w", err)
	}

	start := time.Now()
	path := fmt.Sprintf("%s/%s/server/%s/backup/client", apiVersion, org, serverID)
	if _, err := c.call(ctx, "add_client", http.MethodPost, path, reqBody); err != nil {
		return err
	}

	log.Info().
		Str("action", "cloudcontrol_add_client").
		Str("server_id", serverID).
		Str("client_type", string(spec.Type)).
		Dur("elapsed_ms", time.Since(start)).
		Msg("backup client added")
	return nil
}

// RemoveClient detaches an existing backup client from the server.
func (c *Client) RemoveClient(ctx context.Context, serverID, clientID string) error {
	org, err := c.orgID(ctx)
	if err != nil {
		return err
	}

	start := time.Now()
	path := fmt.Sprintf("%s/%s/server/%s/backup/client/%s?remove", apiVersion, org, serverID, clientID)
	if _, err := c.call(ctx, "remove_client", http.MethodGet, path, nil); err != nil {
		return err
	}

	log.Info().
		Str("action", "cloudcontrol_remove_client").
		Str("server_id", serverID).
		Str("client_id", clientID).
		Dur("elapsed_ms", time.Since(start)).
		Msg("backup client removed")
	return nil
}

// ModifyTarget re-applies a service plan to the server.
func (c *Client) ModifyTarget(ctx context.Context, serverID, servicePlan string) error {
	org, err := c.orgID(ctx)
	if err != nil {
		return err
	}

	reqBody, err := xml.Marshal(xmlModifyBackup{NS: backupNS, ServicePlan: servicePlan})
	if err != nil {
		return fmt.Errorf("encode modify backup: %w", err)
	}

	start := time.Now()
	path := fmt.Sprintf("%s/%s/server/%s/backup/modify", apiVersion, org, serverID)
	if _, err := c.call(ctx, "modify_backup", http.MethodPost, path, reqBody); err != nil {
		return err
	}

	log.Info().
		Str("action", "cloudcontrol_modify_backup").
		Str("server_id", serverID).
		Str("service_plan", servicePlan).
		Dur("elapsed_ms", time.Since(start)).
		Msg("service plan re-applied")
	return nil
}
