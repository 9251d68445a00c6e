package reconcile

import "fmt"

// Status is the terminal state of one processed row.
type Status string

const (
	// StatusUpdated means the row's field updates were applied.
	StatusUpdated Status = "updated"
	// StatusRegistered means the row's user was newly registered and the
	// remaining field updates applied.
	StatusRegistered Status = "registered"
	// StatusFailed means the row was reported and skipped.
	StatusFailed Status = "failed"
)

// Outcome is the per-row result record the engine reports. Key is the row's
// identifying email, or the registration id for explicit token edits.
type Outcome struct {
	Key    string
	Status Status
	Err    error
}

// Message renders the outcome for an operator. Anticipated row errors show
// just their message; unexpected ones are prefixed with their category so
// the two stay distinguishable in a report.
func (o Outcome) Message() string {
	if o.Err == nil {
		return string(o.Status)
	}
	if ExpectedRowError(o.Err) {
		return o.Err.Error()
	}
	return fmt.Sprintf("%s: %s", errorCategory(o.Err), o.Err.Error())
}
