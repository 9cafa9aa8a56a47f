package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"

	"github.com/Chapsvision-dev/cloudcontrol-backup-client/internal/archive"
	"github.com/Chapsvision-dev/cloudcontrol-backup-client/internal/auth"
	"github.com/Chapsvision-dev/cloudcontrol-backup-client/internal/config"
	"github.com/Chapsvision-dev/cloudcontrol-backup-client/internal/logx"
	"github.com/Chapsvision-dev/cloudcontrol-backup-client/internal/params"
	"github.com/Chapsvision-dev/cloudcontrol-backup-client/internal/provider"
	"github.com/Chapsvision-dev/cloudcontrol-backup-client/internal/provider/cloudcontrol"
	"github.com/Chapsvision-dev/cloudcontrol-backup-client/internal/reconcile"
	"github.com/Chapsvision-dev/cloudcontrol-backup-client/internal/report"
	"github.com/Chapsvision-dev/cloudcontrol-backup-client/internal/version"
)

// Test seams — overridden in unit tests. Keep signatures in sync with packages.
var (
	loadConfig   func() (config.Config, error)                                                          = config.Load
	acquireCreds func(context.Context, config.Config) (auth.Credentials, error)                         = auth.AcquireCredentials
	newService   func(name string, cfg any) (provider.BackupService, error)                             = provider.New
	reconcileRun func(context.Context, provider.BackupService, params.Params) (reconcile.Result, error) = reconcile.Run
	archiveStore func(ctx context.Context, cfg config.Config, payload []byte) error                     = archiveReport
	exit         func(int)                                                                              = os.Exit
)

const usage = `
Usage:
  backupctl apply [key=value ...]
  backupctl version | --version | -v
  backupctl help    | --help    | -h

Parameters:
  state=present|absent         desired backup client presence (default: present)
  node_ids=<id>[,<id>...]      server ids to reconcile (aliases: node_id, server_id, server_ids)
  client_type=<type>           FA.Win | FA.AD | FA.Linux | MySQL | PostgreSQL
  storage_policy=<name>        retention tier, required when state=present
  schedule_policy=<window>     backup window, required when state=present
  notify_email=<address>       default: nobody@example.com
  notify_trigger=<trigger>     ON_FAILURE | ON_SUCCESS (default: ON_FAILURE)
  region=<code>                CloudControl region (default: na)
  verify_ssl_cert=true|false   default: true

Notes:
  - Credentials come from DIDATA_USER / DIDATA_PASSWORD, or a user:password
    line in ~/.dimensiondata (override with DD_CREDENTIALS_FILE).
  - Set ARCHIVE_STORAGE_ACCOUNT and ARCHIVE_STORAGE_CONTAINER to archive
    reconciliation reports to blob storage.
`

// main wires CLI -> params -> config -> service -> reconcile -> report.
// Exit codes: 0 success, 1 runtime error, 2 usage error.
func main() {
	_ = godotenv.Load() // best-effort
	logx.InitFromEnv()

	args := os.Args[1:]
	if len(args) < 1 {
		fmt.Print(usage)
		exit(2)
	}
	action := strings.ToLower(args[0])

	// Handle version command
	if action == "version" || action == "--version" || action == "-v" {
		fmt.Printf("cloudcontrol-backupctl %s\n", version.Info())
		exit(0)
	}

	// Handle help command
	if action == "help" || action == "--help" || action == "-h" {
		fmt.Print(usage)
		exit(0)
	}

	if action != "apply" {
		fmt.Print(usage)
		exit(2)
	}

	// Fail-fast: parameter and configuration errors are surfaced before any
	// provider call.
	p, err := params.Parse(args[1:])
	if err != nil {
		fail(fmt.Errorf("parameter error: %w", err))
		return
	}

	cfg, err := loadConfig()
	if err != nil {
		fail(fmt.Errorf("config error: %w", err))
		return
	}

	ctx := withSignals(context.Background())

	creds, err := acquireCreds(ctx, cfg)
	if err != nil {
		log.Error().Err(err).Str("method", cfg.Auth.Method).Msg("credential acquisition failed")
		fail(err)
		return
	}

	svc, err := newService(cfg.Service, cloudcontrol.Config{
		Credentials:   creds,
		Region:        p.Region,
		VerifySSLCert: p.VerifySSLCert,
		Endpoint:      cfg.APIEndpoint,
		Retry:         cfg.RetryOptions(),
	})
	if err != nil {
		log.Error().Err(err).Str("service", cfg.Service).Msg("service init error")
		fail(err)
		return
	}

	start := time.Now()
	res, err := reconcileRun(ctx, svc, p)
	if err != nil {
		log.Error().
			Err(err).
			Str("action", "reconcile").
			Str("state", string(p.State)).
			Dur("elapsed_ms", time.Since(start)).
			Msg("reconcile failed")
		fail(err)
		return
	}
	log.Info().
		Str("action", "reconcile").
		Str("state", string(p.State)).
		Int("targets", len(p.NodeIDs)).
		Bool("changed", res.Changed).
		Dur("elapsed_ms", time.Since(start)).
		Msg("reconcile OK")

	rep := report.FromResult(res)
	if err := report.Write(os.Stdout, rep); err != nil {
		fail(fmt.Errorf("write report: %w", err))
		return
	}

	// Audit copy is best-effort: the provider-side changes already happened.
	if cfg.Archive.Enabled() {
		payload, err := json.Marshal(rep)
		if err == nil {
			err = archiveStore(ctx, cfg, payload)
		}
		if err != nil {
			log.Warn().Err(err).Str("action", "archive").Msg("report archive failed")
		}
	}
}

// fail emits the failure document on stdout and exits 1.
func fail(err error) {
	_ = report.Write(os.Stdout, report.Fail(err))
	exit(1)
}

// archiveReport uploads the report payload to the configured blob container.
func archiveReport(ctx context.Context, cfg config.Config, payload []byte) error {
	a, err := archive.New(cfg.Archive, cfg.RetryOptions())
	if err != nil {
		return err
	}
	key, err := a.Store(ctx, payload, time.Now())
	if err != nil {
		return err
	}
	log.Info().Str("action", "archive").Str("key", key).Msg("report archived")
	return nil
}

func withSignals(parent context.Context) context.Context {
	ctx, cancel := context.WithCancel(parent)
	go func() {
		ch := make(chan os.Signal, 1)
		signal.Notify(ch, os.Interrupt, syscall.SIGTERM)
		<-ch
		cancel()
	}()
	return ctx
}
