package spec

// Status classifies the result of a single operation.
type Status string

const (
	StatusSuccess Status = "success"
	StatusFailed  Status = "failed"
	StatusSkipped Status = "skipped"
)

// Outcome records the result of one attempted operation. Every fallible step
// returns an Outcome instead of aborting; the driver aggregates them and
// decides the process exit status.
type Outcome struct {
	Target string // resource address or artifact file name
	Action string // "create", "drop", "attach", "sync"
	Status Status
	Fatal  bool // blocks everything downstream of this run
	Err    error
}

// Succeeded reports whether the operation completed (including no-ops).
func (o Outcome) Succeeded() bool {
	return o.Status == StatusSuccess
}

// AnyFatal reports whether any outcome in the list is fatal.
func AnyFatal(outcomes []Outcome) bool {
	for _, o := range outcomes {
		if o.Fatal {
			return true
		}
	}
	return false
}

// CountByStatus tallies outcomes per status for summary reporting.
func CountByStatus(outcomes []Outcome) map[Status]int {
	counts := make(map[Status]int)
	for _, o := range outcomes {
		counts[o.Status]++
	}
	return counts
}
