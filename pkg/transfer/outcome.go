package transfer

import (
	"time"

	"github.com/walteh/tabmigrate/pkg/remote"
)

// 📊 Status is where a record stands in a migration run.
type Status int

const (
	StatusPending      Status = iota
	StatusUpdateNeeded        // passed the staleness filter, not yet migrated
	StatusSkipped             // not stale or no timestamp
	StatusSuccess
	StatusFailed
)

// String returns a string representation of Status
func (s Status) String() string {
	switch s {
	case StatusUpdateNeeded:
		return "update_needed"
	case StatusSkipped:
		return "skipped"
	case StatusSuccess:
		return "success"
	case StatusFailed:
		return "failed"
	default:
		return "pending"
	}
}

// Final reports whether the status can no longer change.
func (s Status) Final() bool {
	return s == StatusSkipped || s == StatusSuccess || s == StatusFailed
}

// 📄 Outcome is what happened to one data source during a run.
type Outcome struct {
	ID        string        // Source data source id
	Name      string        // Name it is published under
	UpdatedAt string        // Last modification as displayed, "N/A" when unknown
	OwnerID   string        // Owner on the source site
	Status    Status        // Current status
	Err       string        // Error message when Status is StatusFailed
	Size      int64         // Bytes downloaded
	Duration  time.Duration // Time spent transferring

	cause error
}

// NewOutcome starts an outcome for record in status.
func NewOutcome(record remote.DataSource, status Status) Outcome {
	return Outcome{
		ID:        record.ID,
		Name:      record.Name,
		UpdatedAt: record.UpdatedAtString(),
		OwnerID:   record.OwnerID,
		Status:    status,
	}
}

// Cause returns the error that failed the transfer.
func (o Outcome) Cause() error {
	return o.cause
}

func (o *Outcome) fail(err error) {
	o.Status = StatusFailed
	o.Err = err.Error()
	o.cause = err
}
