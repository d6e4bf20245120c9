package ports

import (
	"context"

	"github.com/govtech/attendance-system/internal/core/domain"
)

// EventRepository persists attendance audit events.
type EventRepository interface {
	// InsertEvent appends an event to the attendance_events audit collection.
	InsertEvent(ctx context.Context, event *domain.AttendanceEvent) error
}
