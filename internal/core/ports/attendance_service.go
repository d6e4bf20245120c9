package ports

import (
	"context"
	"time"

	"github.com/govtech/attendance-system/internal/core/domain"
)

// ChartPoint is one renderable data point of the presence chart.
type ChartPoint struct {
	Date    string `json:"date"`
	Present bool   `json:"present"`
}

// Dashboard is the derived-metrics view returned for a single user.
type Dashboard struct {
	PresentDays   int                     // present days within the chart window
	CurrentStreak int                     // consecutive present days ending today or yesterday
	LastCheckIn   *time.Time              // most recent check-in, nil when none exists
	TodayStatus   domain.AttendanceStatus // state-machine position for today
	Chart         []ChartPoint            // oldest-first, fixed window length
}

// AttendanceService defines the check-in/check-out use cases and derived views.
type AttendanceService interface {
	// CheckIn records the start of today's attendance for the user.
	CheckIn(ctx context.Context, userID string) (*domain.Record, error)

	// CheckOut records the end of today's attendance for the user.
	CheckOut(ctx context.Context, userID string) (*domain.Record, error)

	// ListRecords returns the user's full history, ascending by date.
	ListRecords(ctx context.Context, userID string) ([]*domain.Record, error)

	// Dashboard computes the presence metrics and chart projection.
	Dashboard(ctx context.Context, userID string) (*Dashboard, error)
}
