package session

import "fmt"

// StateViolation reports an illegal session-table mutation — join on a
// non-Pending session, a duplicate player, or an unknown session id — per
// spec.md §7's SessionStateViolation error kind. Callers surface it as 4xx.
type StateViolation struct {
	SessionID string
	Reason    string
}

func (e *StateViolation) Error() string {
	return fmt.Sprintf("session %s: %s", e.SessionID, e.Reason)
}
