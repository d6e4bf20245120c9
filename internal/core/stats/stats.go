// Package stats derives presence metrics from a user's raw attendance
// records. Every function is pure: the caller supplies the full record set
// and the reference "now", so results are deterministic and trivially
// testable with a pinned clock.
package stats

import (
	"fmt"
	"time"

	"github.com/govtech/attendance-system/internal/core/domain"
)

// presentSet collects the date keys of all records counting as present.
func presentSet(records []*domain.Record) map[string]struct{} {
	set := make(map[string]struct{}, len(records))
	for _, r := range records {
		if r.Present() {
			set[r.Date] = struct{}{}
		}
	}
	return set
}

// PresentDaysInWindow counts the distinct present dates among the most recent
// windowDays calendar dates ending today (inclusive).
func PresentDaysInWindow(records []*domain.Record, now time.Time, windowDays int) int {
	set := presentSet(records)
	day := now.UTC()

	count := 0
	for i := 0; i < windowDays; i++ {
		if _, ok := set[domain.DateKey(day.AddDate(0, 0, -i))]; ok {
			count++
		}
	}
	return count
}

// CurrentStreak counts consecutive present days ending today or yesterday.
// When today has no record yet the cursor starts at yesterday, so a streak is
// not reported as broken until a full day has actually been missed. A gap of
// two or more days resets the streak to zero.
func CurrentStreak(records []*domain.Record, now time.Time) int {
	set := presentSet(records)

	cursor := now.UTC()
	if _, ok := set[domain.DateKey(cursor)]; !ok {
		cursor = cursor.AddDate(0, 0, -1)
	}

	streak := 0
	for {
		if _, ok := set[domain.DateKey(cursor)]; !ok {
			return streak
		}
		streak++
		cursor = cursor.AddDate(0, 0, -1)
	}
}

// LastCheckIn returns the check-in timestamp of the most recent present
// record. Records are expected ascending by date (store order); nil is
// returned when the user has never checked in.
func LastCheckIn(records []*domain.Record) *time.Time {
	for i := len(records) - 1; i >= 0; i-- {
		if records[i].Present() {
			return records[i].CheckIn
		}
	}
	return nil
}

// Duration formats the elapsed wall-clock time between check-in and check-out
// as whole hours and remainder whole minutes, both floored ("8h 30m").
// ok is false when either timestamp is missing.
func Duration(checkIn, checkOut *time.Time) (s string, ok bool) {
	if checkIn == nil || checkOut == nil {
		return "", false
	}
	elapsed := checkOut.Sub(*checkIn)
	h := int(elapsed.Hours())
	m := int(elapsed.Minutes()) - h*60
	return fmt.Sprintf("%dh %dm", h, m), true
}
