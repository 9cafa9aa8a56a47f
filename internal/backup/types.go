package backup

import (
	"fmt"
	"strings"
)

// ClientType identifies the backup agent kind bound to a server.
type ClientType string

const (
	ClientFAWin      ClientType = "FA.Win"
	ClientFAAD       ClientType = "FA.AD"
	ClientFALinux    ClientType = "FA.Linux"
	ClientMySQL      ClientType = "MySQL"
	ClientPostgreSQL ClientType = "PostgreSQL"
)

// ClientTypes lists every supported agent kind.
var ClientTypes = []ClientType{
	ClientFAWin, ClientFAAD, ClientFALinux, ClientMySQL, ClientPostgreSQL,
}

func (t ClientType) Valid() bool {
	for _, ct := range ClientTypes {
		if t == ct {
			return true
		}
	}
	return false
}

// SchedulePolicy is one of the four fixed 6-hour backup windows.
type SchedulePolicy string

var SchedulePolicies = []SchedulePolicy{
	"12AM - 6AM", "6AM - 12PM", "12PM - 6PM", "6PM - 12AM",
}

func (s SchedulePolicy) Valid() bool {
	for _, sp := range SchedulePolicies {
		if s == sp {
			return true
		}
	}
	return false
}

// storagePolicyLengths are the retention tiers CloudControl offers; each tier
// exists plain and with a "+ Secondary Copy" variant.
var storagePolicyLengths = []string{
	"14 Day", "30 Day", "60 Day", "90 Day", "180 Day",
	"1 Year", "2 Year", "3 Year", "4 Year", "5 Year", "6 Year", "7 Year",
}

// StoragePolicy is a named retention tier, e.g. "30 Day Storage Policy" or
// "1 Year Storage Policy + Secondary Copy".
type StoragePolicy string

// StoragePolicies returns the full set of accepted storage policy names.
func StoragePolicies() []StoragePolicy {
	out := make([]StoragePolicy, 0, len(storagePolicyLengths)*2)
	for _, l := range storagePolicyLengths {
		out = append(out, StoragePolicy(l+" Storage Policy"))
		out = append(out, StoragePolicy(l+" Storage Policy + Secondary Copy"))
	}
	return out
}

func (s StoragePolicy) Valid() bool {
	for _, sp := range StoragePolicies() {
		if s == sp {
			return true
		}
	}
	return false
}

// NotifyTrigger controls when the notification email fires.
type NotifyTrigger string

const (
	TriggerOnFailure NotifyTrigger = "ON_FAILURE"
	TriggerOnSuccess NotifyTrigger = "ON_SUCCESS"
)

func (t NotifyTrigger) Valid() bool {
	return t == TriggerOnFailure || t == TriggerOnSuccess
}

// ClientSpec is the desired backup client configuration, shared read-only
// across all targets of a run.
type ClientSpec struct {
	Type           ClientType
	StoragePolicy  StoragePolicy
	SchedulePolicy SchedulePolicy
	NotifyEmail    string
	NotifyTrigger  NotifyTrigger
}

// Validate checks the fields required to add a client.
func (s ClientSpec) Validate() error {
	var missing []string
	if s.Type == "" {
		missing = append(missing, "client_type")
	}
	if s.StoragePolicy == "" {
		missing = append(missing, "storage_policy")
	}
	if s.SchedulePolicy == "" {
		missing = append(missing, "schedule_policy")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required field(s) for state=present: %s", strings.Join(missing, ", "))
	}
	return nil
}

// Client is the observed backup client on one target, as reported by the
// provider. Held only for the duration of a single target's reconciliation.
type Client struct {
	ID             string
	Type           ClientType
	StoragePolicy  StoragePolicy
	SchedulePolicy SchedulePolicy
	DownloadURL    string
}

// TargetDetails is the provider's backup view of one server.
type TargetDetails struct {
	AssetID     string
	ServicePlan string
	State       string
	Clients     []Client
}

// FindClient returns the first client matching the given agent type, or nil.
// The provider is expected to hold at most one client per type.
func (d TargetDetails) FindClient(t ClientType) *Client {
	for i := range d.Clients {
		if d.Clients[i].Type == t {
			return &d.Clients[i]
		}
	}
	return nil
}
