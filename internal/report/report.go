package report

import (
	"encoding/json"
	"io"

	"github.com/Chapsvision-dev/cloudcontrol-backup-client/internal/reconcile"
)

// ClientRecord is the serialized shape of one backup client in the report.
type ClientRecord struct {
	ID             string `json:"id"`
	ClientType     string `json:"client_type"`
	StoragePolicy  string `json:"storage_policy"`
	SchedulePolicy string `json:"schedule_policy"`
	DownloadURL    string `json:"download_url"`
}

// Report is the success document emitted on stdout after a full run.
type Report struct {
	Changed bool                    `json:"changed"`
	Msg     string                  `json:"msg"`
	Backups map[string]ClientRecord `json:"backups"`
}

// Failure is the document emitted when a run aborts. Partial successes are
// discarded; only the failing target and cause are reported.
type Failure struct {
	Failed bool   `json:"failed"`
	Msg    string `json:"msg"`
}

// FromResult converts a reconciliation result into the report document.
func FromResult(res reconcile.Result) Report {
	r := Report{
		Changed: res.Changed,
		Msg:     "Success",
		Backups: map[string]ClientRecord{},
	}
	for serverID, c := range res.Backups {
		r.Backups[serverID] = ClientRecord{
			ID:             c.ID,
			ClientType:     string(c.Type),
			StoragePolicy:  string(c.StoragePolicy),
			SchedulePolicy: string(c.SchedulePolicy),
			DownloadURL:    c.DownloadURL,
		}
	}
	return r
}

// Fail builds a failure document from an error.
func Fail(err error) Failure {
	return Failure{Failed: true, Msg: err.Error()}
}

// Write serializes a document as a single JSON line.
func Write(w io.Writer, doc any) error {
	enc := json.NewEncoder(w)
	return enc.Encode(doc)
}
