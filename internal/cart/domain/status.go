package domain

// Status represents a record's position in the abandoned-cart reminder lifecycle.
//
// The sequence moves strictly forward:
//
//	pending_1 -> sent_1_pending_2 -> sent_2_pending_3 -> sent_3_pending_4 -> completed
//
// Converted is reachable from any non-completed status via an external
// purchase-completed signal. Completed and Converted are terminal: nothing
// transitions out of them except record deletion.
type Status string

// Lifecycle statuses in sequence order.
const (
	StatusPending1      Status = "pending_1"
	StatusSent1Pending2 Status = "sent_1_pending_2"
	StatusSent2Pending3 Status = "sent_2_pending_3"
	StatusSent3Pending4 Status = "sent_3_pending_4"
	StatusCompleted     Status = "completed"
	StatusConverted     Status = "converted"
)

// ReminderStepCount is the number of reminder steps in the sequence.
const ReminderStepCount = 4

// statusOrder defines the total order used for monotonicity checks.
// Converted sits alongside completed at the end of the order.
var statusOrder = map[Status]int{
	StatusPending1:      0,
	StatusSent1Pending2: 1,
	StatusSent2Pending3: 2,
	StatusSent3Pending4: 3,
	StatusCompleted:     4,
	StatusConverted:     4,
}

// ParseStatus converts a stored string into a Status.
// Returns false for unknown values.
func ParseStatus(s string) (Status, bool) {
	status := Status(s)
	_, ok := statusOrder[status]
	return status, ok
}

// IsValid reports whether the status is one of the defined lifecycle values.
func (s Status) IsValid() bool {
	_, ok := statusOrder[s]
	return ok
}

// IsTerminal reports whether the status ends reminder-sequence progress.
func (s Status) IsTerminal() bool {
	return s == StatusCompleted || s == StatusConverted
}

// Order returns the status position in the lifecycle's total order.
// Unknown statuses return -1.
func (s Status) Order() int {
	order, ok := statusOrder[s]
	if !ok {
		return -1
	}
	return order
}

// PendingStep returns the reminder step (1-4) the record is waiting on.
// Returns false for terminal statuses.
func (s Status) PendingStep() (int, bool) {
	switch s {
	case StatusPending1:
		return 1, true
	case StatusSent1Pending2:
		return 2, true
	case StatusSent2Pending3:
		return 3, true
	case StatusSent3Pending4:
		return 4, true
	default:
		return 0, false
	}
}

// AfterStep returns the status a record holds once the given reminder step
// has been dispatched. Dispatching the final step completes the sequence.
func AfterStep(step int) (Status, bool) {
	switch step {
	case 1:
		return StatusSent1Pending2, true
	case 2:
		return StatusSent2Pending3, true
	case 3:
		return StatusSent3Pending4, true
	case 4:
		return StatusCompleted, true
	default:
		return "", false
	}
}

// CanTransition reports whether moving from s to next is a legal lifecycle
// transition: one step forward in the sequence, or to converted from any
// non-completed status. Backward and skip-level moves are rejected; the
// documented reset-on-stale case replaces the whole record instead of
// transitioning it, so it never goes through here.
func (s Status) CanTransition(next Status) bool {
	if !s.IsValid() || !next.IsValid() {
		return false
	}
	if s.IsTerminal() {
		return false
	}
	if next == StatusConverted {
		return true
	}
	return next.Order() == s.Order()+1 && next != StatusConverted
}
