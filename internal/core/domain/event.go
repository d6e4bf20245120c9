package domain

import "time"

// Attendance audit actions.
const (
	ActionCheckIn  = "check_in"
	ActionCheckOut = "check_out"
)

// AttendanceEvent is an audit-trail entry emitted after a successful
// check-in or check-out transition.
type AttendanceEvent struct {
	UserID    string
	Action    string
	Date      string // YYYY-MM-DD key of the affected record
	Timestamp time.Time
}
