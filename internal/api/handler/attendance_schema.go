package handler

import (
	"time"

	"github.com/govtech/attendance-system/internal/core/domain"
	"github.com/govtech/attendance-system/internal/core/ports"
	"github.com/govtech/attendance-system/internal/core/stats"
)

// okResponse acknowledges a successful state transition.
type okResponse struct {
	OK bool `json:"ok"`
}

// recordResponse is one attendance row. Timestamps are RFC3339 or null;
// duration is present only once the day is fully closed.
type recordResponse struct {
	Date     string  `json:"date"`
	CheckIn  *string `json:"check_in"`
	CheckOut *string `json:"check_out"`
	Duration string  `json:"duration,omitempty"`
}

type listRecordsResponse struct {
	Records []recordResponse `json:"records"`
}

type chartPointResponse struct {
	Date    string `json:"date"`
	Present bool   `json:"present"`
}

type dashboardResponse struct {
	PresentDays   int                  `json:"present_days"`
	CurrentStreak int                  `json:"current_streak"`
	LastCheckIn   *string              `json:"last_check_in"`
	TodayStatus   string               `json:"today_status"`
	Chart         []chartPointResponse `json:"chart"`
}

func toRecordResponse(r *domain.Record) recordResponse {
	resp := recordResponse{
		Date:     r.Date,
		CheckIn:  formatTime(r.CheckIn),
		CheckOut: formatTime(r.CheckOut),
	}
	if d, ok := stats.Duration(r.CheckIn, r.CheckOut); ok {
		resp.Duration = d
	}
	return resp
}

func toListResponse(records []*domain.Record) listRecordsResponse {
	out := make([]recordResponse, len(records))
	for i, r := range records {
		out[i] = toRecordResponse(r)
	}
	return listRecordsResponse{Records: out}
}

func toDashboardResponse(d *ports.Dashboard) dashboardResponse {
	chart := make([]chartPointResponse, len(d.Chart))
	for i, p := range d.Chart {
		chart[i] = chartPointResponse{Date: p.Date, Present: p.Present}
	}
	return dashboardResponse{
		PresentDays:   d.PresentDays,
		CurrentStreak: d.CurrentStreak,
		LastCheckIn:   formatTime(d.LastCheckIn),
		TodayStatus:   string(d.TodayStatus),
		Chart:         chart,
	}
}

func formatTime(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := t.UTC().Format(time.RFC3339)
	return &s
}
