package ports

import (
	"context"
	"time"
)

// AttendanceEventInput is the DTO handed from the attendance service to the
// asynchronous audit pipeline.
type AttendanceEventInput struct {
	UserID    string
	Action    string // domain.ActionCheckIn or domain.ActionCheckOut
	Date      string // YYYY-MM-DD key of the affected record
	Timestamp time.Time
}

// EventService processes attendance audit events.
type EventService interface {
	Process(ctx context.Context, event AttendanceEventInput) error
}
