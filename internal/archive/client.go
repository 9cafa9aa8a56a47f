package archive

import (
	"fmt"
	"os"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"

	"github.com/Chapsvision-dev/cloudcontrol-backup-client/internal/config"
	"github.com/Chapsvision-dev/cloudcontrol-backup-client/internal/retry"
)

// Archiver uploads reconciliation reports to blob storage for audit.
type Archiver struct {
	client     *azblob.Client
	account    string
	container  string
	prefix     string
	endpoint   string // e.g. https://<account>.blob.core.windows.net/
	sas        string // raw SAS without leading "?"
	authViaSAS bool
	ro         retry.Options
}

// Build client from config and capture endpoint/SAS for HEAD validation.
// Priority: 1) SAS  2) Service Principal  3) DefaultAzureCredential.
func newClientFromConfig(c config.ArchiveConfig) (*azblob.Client, string, string, bool, error) {
	endpoint := os.Getenv("ARCHIVE_BLOB_ENDPOINT")
	if endpoint == "" {
		endpoint = fmt.Sprintf("https://%s.blob.core.windows.net/", c.Account)
	}

	// 1) SAS
	if sasRaw := strings.TrimSpace(c.SASToken); sasRaw != "" {
		sas := strings.TrimPrefix(sasRaw, "?")
		url := endpoint + "?" + sas
		cl, err := azblob.NewClientWithNoCredential(url, nil)
		return cl, endpoint, sas, true, err
	}

	// 2) Service Principal
	if c.ClientID != "" && c.ClientSecret != "" && c.TenantID != "" {
		cred, err := azidentity.NewClientSecretCredential(
			c.TenantID, c.ClientID, c.ClientSecret, nil,
		)
		if err != nil {
			return nil, "", "", false, err
		}
		cl, err := azblob.NewClient(endpoint, cred, nil)
		return cl, endpoint, "", false, err
	}

	// 3) Managed Identity / DefaultAzureCredential
	defCred, err := azidentity.NewDefaultAzureCredential(nil)
	if err != nil {
		return nil, "", "", false, err
	}
	cl, err := azblob.NewClient(endpoint, defCred, nil)
	return cl, endpoint, "", false, err
}

// New builds an Archiver from archive config. Callers should check
// cfg.Enabled() first; New fails on an unconfigured account.
func New(cfg config.ArchiveConfig, ro retry.Options) (*Archiver, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("archive: storage account and container are not configured")
	}
	client, endpoint, sas, viaSAS, err := newClientFromConfig(cfg)
	if err != nil {
		return nil, err
	}
	return &Archiver{
		client:     client,
		account:    cfg.Account,
		container:  cfg.Container,
		prefix:     strings.Trim(strings.TrimSpace(cfg.Prefix), "/"),
		endpoint:   endpoint,
		sas:        sas,
		authViaSAS: viaSAS,
		ro:         ro,
	}, nil
}
