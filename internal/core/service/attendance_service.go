package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/govtech/attendance-system/internal/core/domain"
	"github.com/govtech/attendance-system/internal/core/ports"
	"github.com/govtech/attendance-system/internal/core/stats"
)

const defaultChartWindow = 7

// EventQueue abstracts the asynchronous audit pipeline (queue.Dispatcher).
type EventQueue interface {
	Enqueue(event ports.AttendanceEventInput)
}

// DashboardCache abstracts the short-TTL dashboard cache (Redis).
// Get returns (nil, nil) on a cache miss.
type DashboardCache interface {
	Get(ctx context.Context, userID string) (*ports.Dashboard, error)
	Set(ctx context.Context, userID string, d *ports.Dashboard) error
	Invalidate(ctx context.Context, userID string) error
}

// AttendanceService enforces the per-(user, date) check-in/check-out state
// machine and computes the derived dashboard views.
type AttendanceService struct {
	repo      ports.AttendanceRepository
	clock     Clock
	queue     EventQueue     // optional
	cache     DashboardCache // optional
	logger    zerolog.Logger
	chartDays int
}

func NewAttendanceService(repo ports.AttendanceRepository, clock Clock, queue EventQueue, cache DashboardCache, logger zerolog.Logger) *AttendanceService {
	if clock == nil {
		clock = SystemClock()
	}
	return &AttendanceService{
		repo:      repo,
		clock:     clock,
		queue:     queue,
		cache:     cache,
		logger:    logger,
		chartDays: defaultChartWindow,
	}
}

// CheckIn opens today's attendance record. Re-check-in on the same date is
// rejected regardless of checkout state; a pre-existing record with a null
// check_in (not produced by the normal creation path, but tolerated) is
// claimed via a conditional update instead.
func (s *AttendanceService) CheckIn(ctx context.Context, userID string) (*domain.Record, error) {
	now := s.clock.Now().UTC()
	today := domain.DateKey(now)

	rec := &domain.Record{UserID: userID, Date: today, CheckIn: &now}
	err := s.repo.Insert(ctx, rec)
	switch {
	case err == nil:
		// fresh record for today
	case errors.Is(err, domain.ErrDuplicateRecord):
		existing, findErr := s.repo.FindByUserAndDate(ctx, userID, today)
		if findErr != nil {
			return nil, findErr
		}
		if existing.CheckIn != nil {
			return nil, domain.ErrAlreadyCheckedIn
		}
		if err := s.repo.SetCheckIn(ctx, userID, today, now); err != nil {
			return nil, err
		}
		existing.CheckIn = &now
		rec = existing
	default:
		s.logger.Error().Err(err).Str("user_id", userID).Msg("failed to create attendance record")
		return nil, err
	}

	s.afterTransition(ctx, userID, domain.ActionCheckIn, today, now)
	return rec, nil
}

// CheckOut closes today's attendance record. The conditional store update
// keeps the transition atomic even when two checkouts race.
func (s *AttendanceService) CheckOut(ctx context.Context, userID string) (*domain.Record, error) {
	now := s.clock.Now().UTC()
	today := domain.DateKey(now)

	rec, err := s.repo.FindByUserAndDate(ctx, userID, today)
	if err != nil {
		if errors.Is(err, domain.ErrRecordNotFound) {
			return nil, domain.ErrNotCheckedIn
		}
		return nil, err
	}

	switch rec.Status() {
	case domain.StatusAbsent:
		return nil, domain.ErrNotCheckedIn
	case domain.StatusCheckedOut:
		return nil, domain.ErrAlreadyCheckedOut
	}

	if !now.After(*rec.CheckIn) {
		return nil, domain.ErrCheckOutNotAfterCheckIn
	}

	if err := s.repo.SetCheckOut(ctx, userID, today, now); err != nil {
		return nil, err
	}
	rec.CheckOut = &now

	s.afterTransition(ctx, userID, domain.ActionCheckOut, today, now)
	return rec, nil
}

// ListRecords returns the user's full attendance history, ascending by date.
func (s *AttendanceService) ListRecords(ctx context.Context, userID string) ([]*domain.Record, error) {
	return s.repo.ListByUser(ctx, userID)
}

// Dashboard computes the derived metrics and chart projection from a snapshot
// of the user's records, consulting the cache first when one is wired.
func (s *AttendanceService) Dashboard(ctx context.Context, userID string) (*ports.Dashboard, error) {
	if s.cache != nil {
		cached, err := s.cache.Get(ctx, userID)
		if err != nil {
			s.logger.Warn().Err(err).Str("user_id", userID).Msg("dashboard cache read failed, recomputing")
		} else if cached != nil {
			return cached, nil
		}
	}

	records, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now().UTC()
	today := domain.DateKey(now)

	todayStatus := domain.StatusAbsent
	for _, r := range records {
		if r.Date == today {
			todayStatus = r.Status()
			break
		}
	}

	points := stats.Project(records, now, s.chartDays)
	chart := make([]ports.ChartPoint, len(points))
	for i, p := range points {
		chart[i] = ports.ChartPoint{Date: p.Date, Present: p.Present}
	}

	d := &ports.Dashboard{
		PresentDays:   stats.PresentDaysInWindow(records, now, s.chartDays),
		CurrentStreak: stats.CurrentStreak(records, now),
		LastCheckIn:   stats.LastCheckIn(records),
		TodayStatus:   todayStatus,
		Chart:         chart,
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, userID, d); err != nil {
			s.logger.Warn().Err(err).Str("user_id", userID).Msg("dashboard cache write failed")
		}
	}
	return d, nil
}

// afterTransition runs the post-commit side effects of a successful state
// change: audit event, cache invalidation, logging. None of them can fail the
// already-committed transition.
func (s *AttendanceService) afterTransition(ctx context.Context, userID, action, date string, ts time.Time) {
	if s.queue != nil {
		s.queue.Enqueue(ports.AttendanceEventInput{
			UserID:    userID,
			Action:    action,
			Date:      date,
			Timestamp: ts,
		})
	}
	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, userID); err != nil {
			s.logger.Warn().Err(err).Str("user_id", userID).Msg("dashboard cache invalidation failed")
		}
	}
	s.logger.Info().
		Str("user_id", userID).
		Str("date", date).
		Str("action", action).
		Msg("attendance transition recorded")
}
