package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/govtech/attendance-system/internal/core/domain"
	"github.com/govtech/attendance-system/internal/core/ports"
)

// ---------------------------------------------------------------------------
// Stub attendance service
// ---------------------------------------------------------------------------

type stubAttendanceService struct {
	record    *domain.Record
	records   []*domain.Record
	dashboard *ports.Dashboard
	err       error
}

func (s *stubAttendanceService) CheckIn(_ context.Context, userID string) (*domain.Record, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.record, nil
}

func (s *stubAttendanceService) CheckOut(_ context.Context, userID string) (*domain.Record, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.record, nil
}

func (s *stubAttendanceService) ListRecords(_ context.Context, userID string) ([]*domain.Record, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.records, nil
}

func (s *stubAttendanceService) Dashboard(_ context.Context, userID string) (*ports.Dashboard, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.dashboard, nil
}

// ---------------------------------------------------------------------------
// Check-in / check-out
// ---------------------------------------------------------------------------

func TestAttendanceHandler_CheckIn_OK(t *testing.T) {
	h := NewAttendanceHandler(&stubAttendanceService{record: &domain.Record{Date: "2024-03-10"}})
	c, rec := authedContext(http.MethodPost, "/v1/attendance/checkin", "")

	if err := h.CheckIn(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Errorf("expected 200, got %d", rec.Code)
	}

	var resp okResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if !resp.OK {
		t.Error("expected ok=true")
	}
}

func TestAttendanceHandler_CheckIn_ConflictPropagates(t *testing.T) {
	h := NewAttendanceHandler(&stubAttendanceService{err: domain.ErrAlreadyCheckedIn})
	c, _ := authedContext(http.MethodPost, "/v1/attendance/checkin", "")

	err := h.CheckIn(c)
	if !errors.Is(err, domain.ErrAlreadyCheckedIn) {
		t.Fatalf("expected ErrAlreadyCheckedIn to reach the error handler, got %v", err)
	}
}

func TestAttendanceHandler_CheckIn_MissingClaims(t *testing.T) {
	h := NewAttendanceHandler(&stubAttendanceService{})
	c, _ := newAuthContext(http.MethodPost, "/v1/attendance/checkin", "")

	err := h.CheckIn(c)
	he, ok := err.(*echo.HTTPError)
	if !ok {
		t.Fatalf("expected *echo.HTTPError, got %T (%v)", err, err)
	}
	if he.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", he.Code)
	}
}

func TestAttendanceHandler_CheckOut_WithoutCheckInPropagates(t *testing.T) {
	h := NewAttendanceHandler(&stubAttendanceService{err: domain.ErrNotCheckedIn})
	c, _ := authedContext(http.MethodPost, "/v1/attendance/checkout", "")

	err := h.CheckOut(c)
	if !errors.Is(err, domain.ErrNotCheckedIn) {
		t.Fatalf("expected ErrNotCheckedIn, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// List
// ---------------------------------------------------------------------------

func TestAttendanceHandler_List_SerializesRecords(t *testing.T) {
	in := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	out := time.Date(2024, 3, 10, 17, 30, 0, 0, time.UTC)
	open := time.Date(2024, 3, 11, 9, 15, 0, 0, time.UTC)

	h := NewAttendanceHandler(&stubAttendanceService{records: []*domain.Record{
		{UserID: "u1", Date: "2024-03-10", CheckIn: &in, CheckOut: &out},
		{UserID: "u1", Date: "2024-03-11", CheckIn: &open},
	}})
	c, rec := authedContext(http.MethodGet, "/v1/attendance", "")

	if err := h.List(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var resp listRecordsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if len(resp.Records) != 2 {
		t.Fatalf("expected 2 records, got %d", len(resp.Records))
	}

	closed := resp.Records[0]
	if closed.Duration != "8h 30m" {
		t.Errorf("expected duration %q on closed day, got %q", "8h 30m", closed.Duration)
	}
	if closed.CheckIn == nil || *closed.CheckIn != "2024-03-10T09:00:00Z" {
		t.Errorf("unexpected check_in: %v", closed.CheckIn)
	}

	openDay := resp.Records[1]
	if openDay.Duration != "" {
		t.Errorf("open day must have no duration, got %q", openDay.Duration)
	}
	if openDay.CheckOut != nil {
		t.Errorf("open day must have null check_out, got %v", *openDay.CheckOut)
	}
}

func TestAttendanceHandler_List_EmptyHistory(t *testing.T) {
	h := NewAttendanceHandler(&stubAttendanceService{})
	c, rec := authedContext(http.MethodGet, "/v1/attendance", "")

	if err := h.List(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var resp listRecordsResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if len(resp.Records) != 0 {
		t.Errorf("expected empty list, got %d records", len(resp.Records))
	}
}

// ---------------------------------------------------------------------------
// Dashboard
// ---------------------------------------------------------------------------

func TestAttendanceHandler_Dashboard_SerializesMetrics(t *testing.T) {
	last := time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)
	h := NewAttendanceHandler(&stubAttendanceService{dashboard: &ports.Dashboard{
		PresentDays:   3,
		CurrentStreak: 3,
		LastCheckIn:   &last,
		TodayStatus:   domain.StatusCheckedIn,
		Chart: []ports.ChartPoint{
			{Date: "2024-03-04", Present: false},
			{Date: "2024-03-05", Present: true},
		},
	}})
	c, rec := authedContext(http.MethodGet, "/v1/attendance/dashboard", "")

	if err := h.Dashboard(c); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var resp dashboardResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response body: %v", err)
	}
	if resp.PresentDays != 3 || resp.CurrentStreak != 3 {
		t.Errorf("unexpected metrics: %+v", resp)
	}
	if resp.TodayStatus != string(domain.StatusCheckedIn) {
		t.Errorf("expected today_status %q, got %q", domain.StatusCheckedIn, resp.TodayStatus)
	}
	if resp.LastCheckIn == nil || *resp.LastCheckIn != "2024-03-10T09:00:00Z" {
		t.Errorf("unexpected last_check_in: %v", resp.LastCheckIn)
	}
	if len(resp.Chart) != 2 || !resp.Chart[1].Present {
		t.Errorf("unexpected chart: %+v", resp.Chart)
	}
}
