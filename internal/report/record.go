package report

import "github.com/ostafen/carver/internal/format"

// Verdict is the outcome of the validation of a carved file.
type Verdict int

const (
	Rejected Verdict = iota
	Accepted
)

func (v Verdict) String() string {
	if v == Accepted {
		return "accepted"
	}
	return "rejected"
}

// Record describes a carved file once it has been written and validated.
type Record struct {
	Format  format.Label
	Size    uint64
	Start   uint64
	End     uint64
	Path    string
	Verdict Verdict
	Hash    string // set for accepted records only
}
