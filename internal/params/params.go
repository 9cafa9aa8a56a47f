package params

import (
	"fmt"
	"strings"

	"github.com/Chapsvision-dev/cloudcontrol-backup-client/internal/backup"
)

// State is the desired presence of the backup client on each target.
type State string

const (
	StatePresent State = "present"
	StateAbsent  State = "absent"
)

// Params are the declarative inputs of one run, parsed from ordered
// key=value tokens. Immutable after Parse.
type Params struct {
	State         State
	NodeIDs       []string
	Region        string
	VerifySSLCert bool
	Spec          backup.ClientSpec
}

// nodeIDAliases are accepted for the node_ids field.
var nodeIDAliases = []string{"node_ids", "node_id", "server_id", "server_ids"}

// Parse builds Params from key=value tokens, applying defaults and
// validating every enum value. Validation is fail-fast: a Params value is
// only returned when the whole run can proceed without a configuration error.
func Parse(tokens []string) (Params, error) {
	p := Params{
		State:         StatePresent,
		Region:        "na",
		VerifySSLCert: true,
		Spec: backup.ClientSpec{
			NotifyEmail:   "nobody@example.com",
			NotifyTrigger: backup.TriggerOnFailure,
		},
	}

	seen := map[string]bool{}
	for _, tok := range tokens {
		key, val, ok := splitToken(tok)
		if !ok {
			return Params{}, fmt.Errorf("malformed parameter %q: want key=value", tok)
		}
		if seen[key] {
			return Params{}, fmt.Errorf("duplicate parameter %q", key)
		}
		seen[key] = true

		switch key {
		case "state":
			switch State(val) {
			case StatePresent, StateAbsent:
				p.State = State(val)
			default:
				return Params{}, fmt.Errorf("state must be present or absent, got %q", val)
			}

		case "region":
			if val == "" {
				return Params{}, fmt.Errorf("region must not be empty")
			}
			p.Region = val

		case "verify_ssl_cert":
			b, err := parseBool(val)
			if err != nil {
				return Params{}, fmt.Errorf("verify_ssl_cert: %w", err)
			}
			p.VerifySSLCert = b

		case "client_type":
			ct := backup.ClientType(val)
			if !ct.Valid() {
				return Params{}, fmt.Errorf("unknown client_type %q", val)
			}
			p.Spec.Type = ct

		case "storage_policy":
			sp := backup.StoragePolicy(val)
			if !sp.Valid() {
				return Params{}, fmt.Errorf("unknown storage_policy %q", val)
			}
			p.Spec.StoragePolicy = sp

		case "schedule_policy":
			sp := backup.SchedulePolicy(val)
			if !sp.Valid() {
				return Params{}, fmt.Errorf("unknown schedule_policy %q", val)
			}
			p.Spec.SchedulePolicy = sp

		case "notify_email":
			if val == "" {
				return Params{}, fmt.Errorf("notify_email must not be empty")
			}
			p.Spec.NotifyEmail = val

		case "notify_trigger":
			tr := backup.NotifyTrigger(val)
			if !tr.Valid() {
				return Params{}, fmt.Errorf("notify_trigger must be ON_FAILURE or ON_SUCCESS, got %q", val)
			}
			p.Spec.NotifyTrigger = tr

		default:
			if isNodeIDKey(key) {
				p.NodeIDs = splitList(val)
				continue
			}
			return Params{}, fmt.Errorf("unknown parameter %q", key)
		}
	}

	return p, p.validate()
}

// validate enforces cross-field requirements after all tokens are read.
func (p Params) validate() error {
	if len(p.NodeIDs) == 0 {
		return fmt.Errorf("node_ids is required and must list at least one server id")
	}
	if p.Spec.Type == "" {
		return fmt.Errorf("client_type is required")
	}
	if p.State == StatePresent {
		// Fail before any provider call is made.
		if err := p.Spec.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func isNodeIDKey(key string) bool {
	for _, a := range nodeIDAliases {
		if key == a {
			return true
		}
	}
	return false
}

// splitToken splits "key=value" and strips one level of surrounding quotes
// from the value so policy names with spaces survive shell quoting.
func splitToken(tok string) (key, val string, ok bool) {
	i := strings.Index(tok, "=")
	if i <= 0 {
		return "", "", false
	}
	key = strings.TrimSpace(tok[:i])
	val = strings.TrimSpace(tok[i+1:])
	if len(val) >= 2 {
		if (val[0] == '"' && val[len(val)-1] == '"') || (val[0] == '\'' && val[len(val)-1] == '\'') {
			val = val[1 : len(val)-1]
		}
	}
	return key, val, true
}

// splitList parses a comma-separated id list, dropping empty entries.
// Repeated ids are kept: each occurrence reconciles independently.
func splitList(val string) []string {
	var out []string
	for _, part := range strings.Split(val, ",") {
		if s := strings.TrimSpace(part); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func parseBool(val string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(val)) {
	case "1", "true", "yes", "y", "on":
		return true, nil
	case "0", "false", "no", "n", "off":
		return false, nil
	}
	return false, fmt.Errorf("invalid boolean %q", val)
}
