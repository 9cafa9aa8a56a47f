package params

import (
	"strings"
	"testing"

	"github.com/Chapsvision-dev/cloudcontrol-backup-client/internal/backup"
)

func TestParse_DefaultsApplied(t *testing.T) {
	p, err := Parse([]string{"node_ids=A", "client_type=MySQL",
		"storage_policy=30 Day Storage Policy", "schedule_policy=12AM - 6AM"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.State != StatePresent {
		t.Errorf("state = %q, want present", p.State)
	}
	if p.Region != "na" {
		t.Errorf("region = %q, want na", p.Region)
	}
	if !p.VerifySSLCert {
		t.Errorf("verify_ssl_cert = false, want true")
	}
	if p.Spec.NotifyEmail != "nobody@example.com" {
		t.Errorf("notify_email = %q", p.Spec.NotifyEmail)
	}
	if p.Spec.NotifyTrigger != backup.TriggerOnFailure {
		t.Errorf("notify_trigger = %q", p.Spec.NotifyTrigger)
	}
}

func TestParse_NodeIDAliasesAndLists(t *testing.T) {
	for _, alias := range []string{"node_ids", "node_id", "server_id", "server_ids"} {
		p, err := Parse([]string{alias + "=A, B ,C", "client_type=FA.Linux", "state=absent"})
		if err != nil {
			t.Fatalf("Parse with %s: %v", alias, err)
		}
		if strings.Join(p.NodeIDs, ",") != "A,B,C" {
			t.Errorf("%s: node ids = %v", alias, p.NodeIDs)
		}
	}
}

func TestParse_RepeatedIDsKept(t *testing.T) {
	p, err := Parse([]string{"node_ids=A,A", "client_type=FA.Win", "state=absent"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(p.NodeIDs) != 2 {
		t.Fatalf("node ids = %v, want both occurrences kept", p.NodeIDs)
	}
}

func TestParse_QuotedValues(t *testing.T) {
	p, err := Parse([]string{"node_ids=A", "client_type=PostgreSQL",
		`storage_policy="1 Year Storage Policy + Secondary Copy"`,
		`schedule_policy='6AM - 12PM'`})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.Spec.StoragePolicy != "1 Year Storage Policy + Secondary Copy" {
		t.Errorf("storage_policy = %q", p.Spec.StoragePolicy)
	}
	if p.Spec.SchedulePolicy != "6AM - 12PM" {
		t.Errorf("schedule_policy = %q", p.Spec.SchedulePolicy)
	}
}

func TestParse_FailFastPresentWithoutStoragePolicy(t *testing.T) {
	_, err := Parse([]string{"node_ids=A", "client_type=MySQL", "schedule_policy=12AM - 6AM"})
	if err == nil {
		t.Fatalf("want configuration error, got nil")
	}
	if !strings.Contains(err.Error(), "storage_policy") {
		t.Fatalf("error %q does not name storage_policy", err)
	}
}

func TestParse_AbsentNeedsNoPolicies(t *testing.T) {
	p, err := Parse([]string{"node_ids=A", "client_type=MySQL", "state=absent"})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if p.State != StateAbsent {
		t.Fatalf("state = %q", p.State)
	}
}

func TestParse_Rejections(t *testing.T) {
	cases := []struct {
		name   string
		tokens []string
	}{
		{"missing node_ids", []string{"client_type=MySQL", "state=absent"}},
		{"missing client_type", []string{"node_ids=A", "state=absent"}},
		{"bad state", []string{"node_ids=A", "client_type=MySQL", "state=paused"}},
		{"bad client_type", []string{"node_ids=A", "client_type=Oracle", "state=absent"}},
		{"bad storage_policy", []string{"node_ids=A", "client_type=MySQL", "storage_policy=Forever", "schedule_policy=12AM - 6AM"}},
		{"bad schedule_policy", []string{"node_ids=A", "client_type=MySQL", "storage_policy=30 Day Storage Policy", "schedule_policy=3AM - 4AM"}},
		{"bad trigger", []string{"node_ids=A", "client_type=MySQL", "state=absent", "notify_trigger=SOMETIMES"}},
		{"bad bool", []string{"node_ids=A", "client_type=MySQL", "state=absent", "verify_ssl_cert=maybe"}},
		{"unknown key", []string{"node_ids=A", "client_type=MySQL", "state=absent", "wait_time=500"}},
		{"duplicate key", []string{"node_ids=A", "node_ids=B", "client_type=MySQL", "state=absent"}},
		{"malformed token", []string{"node_ids=A", "client_type=MySQL", "state=absent", "region"}},
	}
	for _, tc := range cases {
		if _, err := Parse(tc.tokens); err == nil {
			t.Errorf("%s: want error, got nil", tc.name)
		}
	}
}
