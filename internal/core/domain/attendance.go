package domain

import (
	"errors"
	"time"
)

// AttendanceStatus represents the lifecycle state of a user's day.
type AttendanceStatus string

const (
	StatusAbsent     AttendanceStatus = "absent"
	StatusCheckedIn  AttendanceStatus = "checked_in"
	StatusCheckedOut AttendanceStatus = "checked_out"
)

// validTransitions defines the allowed state machine transitions.
// CheckedOut is terminal for a given date.
var validTransitions = map[AttendanceStatus][]AttendanceStatus{
	StatusAbsent:    {StatusCheckedIn},
	StatusCheckedIn: {StatusCheckedOut},
}

var ErrAlreadyCheckedIn = errors.New("already checked in")
var ErrNotCheckedIn = errors.New("not checked in")
var ErrAlreadyCheckedOut = errors.New("already checked out")
var ErrRecordNotFound = errors.New("attendance record not found")
var ErrDuplicateRecord = errors.New("attendance record already exists")
var ErrCheckOutNotAfterCheckIn = errors.New("check-out must be after check-in")

// CanTransitionTo reports whether a transition from the current status to next is valid.
func (s AttendanceStatus) CanTransitionTo(next AttendanceStatus) bool {
	for _, allowed := range validTransitions[s] {
		if allowed == next {
			return true
		}
	}
	return false
}

// DateKeyLayout is the calendar-date key format shared with older deployments.
// Keys are always the UTC date sliced from an ISO-8601 timestamp.
const DateKeyLayout = "2006-01-02"

// DateKey returns the YYYY-MM-DD key for the UTC calendar date of t.
func DateKey(t time.Time) string {
	return t.UTC().Format(DateKeyLayout)
}

// Record is the per-(user, date) attendance entity. At most one record exists
// per key; CheckOut is never set while CheckIn is null.
type Record struct {
	UserID   string     `json:"user_id" bson:"user_id"`
	Date     string     `json:"date" bson:"date"`
	CheckIn  *time.Time `json:"check_in" bson:"check_in"`
	CheckOut *time.Time `json:"check_out" bson:"check_out"`
}

// Status derives the state-machine position of the record.
func (r *Record) Status() AttendanceStatus {
	switch {
	case r == nil || r.CheckIn == nil:
		return StatusAbsent
	case r.CheckOut == nil:
		return StatusCheckedIn
	default:
		return StatusCheckedOut
	}
}

// Present reports whether the record counts as a present day.
func (r *Record) Present() bool {
	return r != nil && r.CheckIn != nil
}
