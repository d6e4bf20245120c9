package ports

import (
	"context"
	"time"

	"github.com/govtech/attendance-system/internal/core/domain"
)

// AttendanceRepository defines persistence operations for attendance records.
// Implementations must guarantee at most one record per (user, date) and expose
// the conditional updates the service relies on to serialize same-day writes.
type AttendanceRepository interface {
	// Insert creates the record for its (user, date) key.
	// Returns domain.ErrDuplicateRecord when a record already exists.
	Insert(ctx context.Context, rec *domain.Record) error

	// FindByUserAndDate retrieves a single record.
	// Returns domain.ErrRecordNotFound when no record exists.
	FindByUserAndDate(ctx context.Context, userID, date string) (*domain.Record, error)

	// SetCheckIn sets check_in on an existing record, but only while it is
	// still null. Returns domain.ErrAlreadyCheckedIn when the conditional
	// update matches nothing.
	SetCheckIn(ctx context.Context, userID, date string, t time.Time) error

	// SetCheckOut sets check_out, but only while check_in is set and
	// check_out is still null. A miss is classified as
	// domain.ErrNotCheckedIn or domain.ErrAlreadyCheckedOut.
	SetCheckOut(ctx context.Context, userID, date string, t time.Time) error

	// ListByUser returns all records for the user, ascending by date.
	ListByUser(ctx context.Context, userID string) ([]*domain.Record, error)
}
