package migration

import (
	"github.com/walteh/tabmigrate/pkg/transfer"
)

const (
	ModeAll     = "all"
	ModeUpdated = "updated"
)

// Counts are the buckets printed at the end of a run.
type Counts struct {
	Total   int // records listed
	Updated int // records the staleness filter selected, updated mode only
	Success int
	Failed  int
	Skipped int
	Pending int // records left untouched, dry runs only
}

// 📊 Report collects one outcome per record of a run, keyed by record id so
// data sources sharing a name never overwrite each other.
type Report struct {
	Mode   string
	DryRun bool

	order    []string
	outcomes map[string]*transfer.Outcome
	updated  int
}

func newReport(mode string, dryRun bool) *Report {
	return &Report{
		Mode:     mode,
		DryRun:   dryRun,
		outcomes: map[string]*transfer.Outcome{},
	}
}

// put stores o, replacing any outcome with the same id in place.
func (r *Report) put(o transfer.Outcome) {
	if existing, ok := r.outcomes[o.ID]; ok {
		*existing = o
		return
	}
	r.order = append(r.order, o.ID)
	r.outcomes[o.ID] = &o
}

// Get returns the outcome for record id.
func (r *Report) Get(id string) (transfer.Outcome, bool) {
	o, ok := r.outcomes[id]
	if !ok {
		return transfer.Outcome{}, false
	}
	return *o, true
}

// Outcomes returns every outcome in listing order.
func (r *Report) Outcomes() []transfer.Outcome {
	out := make([]transfer.Outcome, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.outcomes[id])
	}
	return out
}

// Failures returns the failed outcomes in listing order.
func (r *Report) Failures() []transfer.Outcome {
	var out []transfer.Outcome
	for _, o := range r.Outcomes() {
		if o.Status == transfer.StatusFailed {
			out = append(out, o)
		}
	}
	return out
}

func (r *Report) Counts() Counts {
	c := Counts{Total: len(r.order), Updated: r.updated}
	for _, o := range r.outcomes {
		switch o.Status {
		case transfer.StatusSuccess:
			c.Success++
		case transfer.StatusFailed:
			c.Failed++
		case transfer.StatusSkipped:
			c.Skipped++
		default:
			c.Pending++
		}
	}
	return c
}
