package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/govtech/attendance-system/internal/core/domain"
	"github.com/govtech/attendance-system/internal/core/ports"
)

// DedupChecker abstracts the idempotency store (Redis) guarding the audit
// trail against replayed events.
type DedupChecker interface {
	IsDuplicate(ctx context.Context, userID, action string, ts time.Time) (bool, error)
	Mark(ctx context.Context, userID, action string, ts time.Time) error
}

type eventService struct {
	eventRepo ports.EventRepository
	dedup     DedupChecker
	log       zerolog.Logger
}

// NewEventService returns an EventService implementation.
func NewEventService(eventRepo ports.EventRepository, dedup DedupChecker, log zerolog.Logger) ports.EventService {
	return &eventService{eventRepo: eventRepo, dedup: dedup, log: log}
}

// Process deduplicates and persists a single attendance audit event.
func (s *eventService) Process(ctx context.Context, in ports.AttendanceEventInput) error {
	isDup, err := s.dedup.IsDuplicate(ctx, in.UserID, in.Action, in.Timestamp)
	if err != nil {
		s.log.Warn().Err(err).Str("user_id", in.UserID).Msg("dedup check failed, processing anyway")
	} else if isDup {
		s.log.Debug().Str("user_id", in.UserID).Str("action", in.Action).Msg("duplicate event skipped")
		return nil
	}

	// Mark before writing so a crashed retry cannot double-insert.
	if markErr := s.dedup.Mark(ctx, in.UserID, in.Action, in.Timestamp); markErr != nil {
		s.log.Warn().Err(markErr).Str("user_id", in.UserID).Msg("failed to set dedup key")
	}

	event := &domain.AttendanceEvent{
		UserID:    in.UserID,
		Action:    in.Action,
		Date:      in.Date,
		Timestamp: in.Timestamp,
	}
	if err := s.eventRepo.InsertEvent(ctx, event); err != nil {
		return fmt.Errorf("process event: insert: %w", err)
	}

	s.log.Info().
		Str("user_id", in.UserID).
		Str("action", in.Action).
		Str("date", in.Date).
		Msg("audit event recorded")

	return nil
}
