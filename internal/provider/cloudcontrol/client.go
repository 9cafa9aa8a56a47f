package cloudcontrol

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/xml"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/Chapsvision-dev/cloudcontrol-backup-client/internal/auth"
	"github.com/Chapsvision-dev/cloudcontrol-backup-client/internal/provider"
	"github.com/Chapsvision-dev/cloudcontrol-backup-client/internal/retry"
)

const apiVersion = "oec/0.9"

// Config builds a CloudControl client. Endpoint overrides the
// region-derived base URL when set.
type Config struct {
	Credentials   auth.Credentials
	Region        string
	VerifySSLCert bool
	Endpoint      string
	Retry         retry.Options
}

// Client talks to the CloudControl backup API for one organization.
// The org id is discovered on first use and cached for the process lifetime.
type Client struct {
	http     *http.Client
	endpoint string
	creds    auth.Credentials
	ro       retry.Options

	org string
}

func NewClient(c Config) (*Client, error) {
	endpoint := strings.TrimRight(strings.TrimSpace(c.Endpoint), "/")
	if endpoint == "" {
		ep, err := Endpoint(c.Region)
		if err != nil {
			return nil, err
		}
		endpoint = ep
	}
	if c.Credentials.User == "" || c.Credentials.Key == "" {
		return nil, fmt.Errorf("cloudcontrol: credentials are required")
	}

	transport := http.DefaultTransport
	if !c.VerifySSLCert {
		transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}
	return &Client{
		http: &http.Client{
			Timeout:   2 * time.Minute,
			Transport: transport,
		},
		endpoint: endpoint,
		creds:    c.Credentials,
		ro:       c.Retry,
	}, nil
}

func (c *Client) Name() string { return "cloudcontrol" }

// orgID resolves the caller's organization id via GET /oec/0.9/myaccount.
func (c *Client) orgID(ctx context.Context) (string, error) {
	if c.org != "" {
		return c.org, nil
	}
	body, err := c.call(ctx, "myaccount", http.MethodGet, apiVersion+"/myaccount", nil)
	if err != nil {
		return "", fmt.Errorf("resolve org id: %w", err)
	}
	var acct struct {
		XMLName xml.Name `xml:"Account"`
		OrgID   string   `xml:"orgId"`
	}
	if err := xml.Unmarshal(body, &acct); err != nil {
		return "", fmt.Errorf("resolve org id: parse account: %w", err)
	}
	if strings.TrimSpace(acct.OrgID) == "" {
		return "", fmt.Errorf("resolve org id: account has no orgId")
	}
	c.org = acct.OrgID
	return c.org, nil
}

// call performs one authenticated API request with retries. A 200 response
// can still carry a Status ERROR document; that is surfaced as *APIError
// and never retried.
func (c *Client) call(ctx context.Context, op, method, path string, reqBody []byte) ([]byte, error) {
	url := c.endpoint + "/" + path

	var out []byte
	attempt := 0
	once := func(ctx context.Context) error {
		attempt++
		log.Debug().
			Str("action", "cloudcontrol_"+op).
			Str("method", method).
			Str("url", url).
			Int("attempt", attempt).
			Msg("starting attempt")

		var rd io.Reader = http.NoBody
		if len(reqBody) > 0 {
			rd = bytes.NewReader(reqBody)
		}
		req, err := http.NewRequestWithContext(ctx, method, url, rd)
		if err != nil {
			return err
		}
		req.SetBasicAuth(c.creds.User, c.creds.Key)
		if len(reqBody) > 0 {
			req.Header.Set("Content-Type", "text/xml")
		}

		resp, err := c.http.Do(req)
		if err != nil {
			log.Debug().Err(err).Str("action", "cloudcontrol_"+op).Int("attempt", attempt).Msg("request error")
			return err
		}
		defer func() { _ = resp.Body.Close() }()

		body, err := io.ReadAll(resp.Body)
		if err != nil {
			return err
		}

		if apiErr := parseStatusError(body); apiErr != nil {
			log.Debug().
				Str("action", "cloudcontrol_"+op).
				Str("result_code", apiErr.ResultCode).
				Int("attempt", attempt).
				Msg("vendor error response")
			return apiErr
		}
		if resp.StatusCode != http.StatusOK {
			log.Debug().Int("status", resp.StatusCode).
				Str("action", "cloudcontrol_"+op).Int("attempt", attempt).Msg("non-200 response")
			return &httpStatusError{StatusCode: resp.StatusCode}
		}

		out = body
		return nil
	}

	if err := retry.Do(ctx, c.ro, isRetryable, once); err != nil {
		return nil, err
	}
	return out, nil
}

func init() {
	provider.Register("cloudcontrol", func(cfg any) (provider.BackupService, error) {
		c, ok := cfg.(Config)
		if !ok {
			return nil, fmt.Errorf("cloudcontrol: invalid config type")
		}
		return NewClient(c)
	})
}
