package report

import (
	"bytes"
	"encoding/json"
	"errors"
	"testing"

	"github.com/Chapsvision-dev/cloudcontrol-backup-client/internal/backup"
	"github.com/Chapsvision-dev/cloudcontrol-backup-client/internal/reconcile"
)

func TestFromResult_MapsClients(t *testing.T) {
	res := reconcile.Result{
		Changed: true,
		Backups: map[string]backup.Client{
			"A": {
				ID:             "c-1",
				Type:           backup.ClientMySQL,
				StoragePolicy:  "30 Day Storage Policy",
				SchedulePolicy: "12AM - 6AM",
				DownloadURL:    "https://backup.example.com/c-1",
			},
		},
	}
	rep := FromResult(res)
	if !rep.Changed || rep.Msg != "Success" {
		t.Fatalf("report = %+v", rep)
	}
	got := rep.Backups["A"]
	if got.ID != "c-1" || got.ClientType != "MySQL" || got.DownloadURL == "" {
		t.Fatalf("record = %+v", got)
	}
}

func TestFromResult_EmptyRunSerializesEmptyMap(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, FromResult(reconcile.Result{Backups: map[string]backup.Client{}})); err != nil {
		t.Fatalf("Write: %v", err)
	}
	// The host contract wants "backups":{} rather than null.
	if !bytes.Contains(buf.Bytes(), []byte(`"backups":{}`)) {
		t.Fatalf("output = %s", buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte(`"changed":false`)) {
		t.Fatalf("output = %s", buf.String())
	}
}

func TestFail_RoundTrips(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, Fail(errors.New("server A does not have backup enabled"))); err != nil {
		t.Fatalf("Write: %v", err)
	}
	var f Failure
	if err := json.Unmarshal(buf.Bytes(), &f); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !f.Failed || f.Msg != "server A does not have backup enabled" {
		t.Fatalf("failure = %+v", f)
	}
}
