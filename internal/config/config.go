package config

import (
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/Chapsvision-dev/cloudcontrol-backup-client/internal/retry"
)

type Config struct {
	// Service selects the backup service implementation (registry name).
	Service string

	// APIEndpoint overrides the region-derived CloudControl endpoint when
	// set (mainly for private MCP installs and tests).
	APIEndpoint string

	Auth AuthConfig

	Archive ArchiveConfig

	RetryMaxAttempts  int
	RetryInitialDelay time.Duration
	RetryMaxDelay     time.Duration
	RetryMultiplier   float64
	RetryEnableJitter bool
}

type AuthConfig struct {
	Method   string // "env" or "file"
	User     string // only if Method == env
	Password string // only if Method == env
	File     string // credentials file path, default ~/.dimensiondata
}

// ArchiveConfig enables the optional report archive when Account and
// Container are set. Credential priority mirrors the uploader:
// SAS, then service principal, then default credential chain.
type ArchiveConfig struct {
	Account   string
	Container string
	Prefix    string
	SASToken  string

	ClientID     string
	ClientSecret string
	TenantID     string
}

// Enabled reports whether report archiving is configured at all.
func (a ArchiveConfig) Enabled() bool {
	return a.Account != "" && a.Container != ""
}

// Load reads config from environment variables, applies defaults and validates.
func Load() (Config, error) {
	get := func(key, def string) string {
		if v, ok := os.LookupEnv(key); ok {
			return v
		}
		return def
	}

	parseInt := func(key string, def int) int {
		if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
			if n, err := strconv.Atoi(v); err == nil && n >= 0 {
				return n
			}
		}
		return def
	}

	parseDur := func(key string, def time.Duration) time.Duration {
		if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
			if d, err := time.ParseDuration(v); err == nil {
				return d
			}
		}
		return def
	}

	parseFloat := func(key string, def float64) float64 {
		if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
				return f
			}
		}
		return def
	}

	parseBool := func(key string, def bool) bool {
		if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
			switch strings.ToLower(v) {
			case "1", "true", "yes", "y", "on":
				return true
			case "0", "false", "no", "n", "off":
				return false
			}
		}
		return def
	}

	fileReadable := func(path string) bool {
		if strings.TrimSpace(path) == "" {
			return false
		}
		f, err := os.Open(path)
		if err != nil {
			return false
		}
		_ = f.Close()
		return true
	}

	// -------------------------
	// Credential resolution (fallbacks)
	// -------------------------
	defaultCredFile := ""
	if home, err := os.UserHomeDir(); err == nil {
		defaultCredFile = filepath.Join(home, ".dimensiondata")
	}
	credFile := strings.TrimSpace(get("DD_CREDENTIALS_FILE", defaultCredFile))

	method := strings.ToLower(strings.TrimSpace(get("DD_AUTH_METHOD", "")))
	user := strings.TrimSpace(get("DIDATA_USER", ""))
	password := strings.TrimSpace(get("DIDATA_PASSWORD", ""))

	if method == "" {
		switch {
		case user != "" && password != "":
			method = "env"
		case fileReadable(credFile):
			method = "file"
		default:
			return Config{}, errors.New("no credentials configured: set DIDATA_USER and DIDATA_PASSWORD, or provide a readable DD_CREDENTIALS_FILE")
		}
	}

	auth := AuthConfig{Method: method, File: credFile}
	switch method {
	case "env":
		auth.User = user
		auth.Password = password
		if auth.User == "" || auth.Password == "" {
			return Config{}, errors.New("auth method env requires DIDATA_USER and DIDATA_PASSWORD")
		}
	case "file":
		if !fileReadable(auth.File) {
			return Config{}, errors.New("auth method file requires a readable DD_CREDENTIALS_FILE")
		}
	default:
		return Config{}, errors.New("unsupported auth method: " + method)
	}

	cfg := Config{
		Service:     strings.ToLower(get("BACKUP_SERVICE", "cloudcontrol")),
		APIEndpoint: strings.TrimSpace(get("DD_API_ENDPOINT", "")),
		Auth:        auth,

		Archive: ArchiveConfig{
			Account:      get("ARCHIVE_STORAGE_ACCOUNT", ""),
			Container:    get("ARCHIVE_STORAGE_CONTAINER", ""),
			Prefix:       get("ARCHIVE_PREFIX", "backup-reports"),
			SASToken:     get("ARCHIVE_STORAGE_SAS", ""),
			ClientID:     get("AZURE_CLIENT_ID", ""),
			ClientSecret: get("AZURE_CLIENT_SECRET", ""),
			TenantID:     get("AZURE_TENANT_ID", ""),
		},

		RetryMaxAttempts:  parseInt("RETRY_MAX_ATTEMPTS", retry.Default.MaxAttempts),
		RetryInitialDelay: parseDur("RETRY_INITIAL_DELAY", retry.Default.InitialDelay),
		RetryMaxDelay:     parseDur("RETRY_MAX_DELAY", retry.Default.MaxDelay),
		RetryMultiplier:   parseFloat("RETRY_MULTIPLIER", retry.Default.Multiplier),
		RetryEnableJitter: parseBool("RETRY_JITTER", retry.Default.Jitter),
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// validate checks service and archive requirements.
func (c *Config) validate() error {
	switch c.Service {
	case "cloudcontrol":
	default:
		return errors.New("unsupported backup service: " + c.Service)
	}
	// Archive is optional, but half a config is a mistake worth surfacing.
	if (c.Archive.Account == "") != (c.Archive.Container == "") {
		return errors.New("archive: ARCHIVE_STORAGE_ACCOUNT and ARCHIVE_STORAGE_CONTAINER must be set together")
	}
	return nil
}

// RetryOptions converts retry-related config values to retry.Options.
func (c Config) RetryOptions() retry.Options {
	return retry.Options{
		MaxAttempts:  c.RetryMaxAttempts,
		InitialDelay: c.RetryInitialDelay,
		MaxDelay:     c.RetryMaxDelay,
		Multiplier:   c.RetryMultiplier,
		Jitter:       c.RetryEnableJitter,
	}
}
