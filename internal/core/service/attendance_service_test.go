package service

import (
	"context"
	"errors"
	"sort"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/govtech/attendance-system/internal/core/domain"
	"github.com/govtech/attendance-system/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repository
// ---------------------------------------------------------------------------

type stubAttendanceRepo struct {
	records   map[string]*domain.Record // key: userID + "|" + date
	insertErr error                     // if set, Insert returns this error
}

func newStubAttendanceRepo() *stubAttendanceRepo {
	return &stubAttendanceRepo{records: make(map[string]*domain.Record)}
}

func (r *stubAttendanceRepo) key(userID, date string) string { return userID + "|" + date }

func (r *stubAttendanceRepo) Insert(_ context.Context, rec *domain.Record) error {
	if r.insertErr != nil {
		return r.insertErr
	}
	k := r.key(rec.UserID, rec.Date)
	if _, exists := r.records[k]; exists {
		return domain.ErrDuplicateRecord
	}
	clone := *rec
	r.records[k] = &clone
	return nil
}

func (r *stubAttendanceRepo) FindByUserAndDate(_ context.Context, userID, date string) (*domain.Record, error) {
	rec, ok := r.records[r.key(userID, date)]
	if !ok {
		return nil, domain.ErrRecordNotFound
	}
	clone := *rec
	return &clone, nil
}

func (r *stubAttendanceRepo) SetCheckIn(_ context.Context, userID, date string, t time.Time) error {
	rec, ok := r.records[r.key(userID, date)]
	if !ok || rec.CheckIn != nil {
		return domain.ErrAlreadyCheckedIn
	}
	ts := t
	rec.CheckIn = &ts
	return nil
}

func (r *stubAttendanceRepo) SetCheckOut(_ context.Context, userID, date string, t time.Time) error {
	rec, ok := r.records[r.key(userID, date)]
	switch {
	case !ok || rec.CheckIn == nil:
		return domain.ErrNotCheckedIn
	case rec.CheckOut != nil:
		return domain.ErrAlreadyCheckedOut
	}
	ts := t
	rec.CheckOut = &ts
	return nil
}

func (r *stubAttendanceRepo) ListByUser(_ context.Context, userID string) ([]*domain.Record, error) {
	var out []*domain.Record
	for _, rec := range r.records {
		if rec.UserID == userID {
			clone := *rec
			out = append(out, &clone)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out, nil
}

// ---------------------------------------------------------------------------
// Stub queue and cache
// ---------------------------------------------------------------------------

type stubQueue struct {
	enqueued []ports.AttendanceEventInput
}

func (q *stubQueue) Enqueue(e ports.AttendanceEventInput) { q.enqueued = append(q.enqueued, e) }

type stubCache struct {
	stored      map[string]*ports.Dashboard
	invalidated []string
	getErr      error
}

func newStubCache() *stubCache {
	return &stubCache{stored: make(map[string]*ports.Dashboard)}
}

func (c *stubCache) Get(_ context.Context, userID string) (*ports.Dashboard, error) {
	if c.getErr != nil {
		return nil, c.getErr
	}
	return c.stored[userID], nil
}

func (c *stubCache) Set(_ context.Context, userID string, d *ports.Dashboard) error {
	c.stored[userID] = d
	return nil
}

func (c *stubCache) Invalidate(_ context.Context, userID string) error {
	delete(c.stored, userID)
	c.invalidated = append(c.invalidated, userID)
	return nil
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var discardLogger = zerolog.Nop()

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

var testNow = time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)

func newSvc(repo *stubAttendanceRepo, now time.Time) *AttendanceService {
	return NewAttendanceService(repo, fixedClock{t: now}, nil, nil, discardLogger)
}

func seedRecord(repo *stubAttendanceRepo, userID string, day time.Time, in, out *time.Time) {
	date := domain.DateKey(day)
	repo.records[repo.key(userID, date)] = &domain.Record{
		UserID:   userID,
		Date:     date,
		CheckIn:  in,
		CheckOut: out,
	}
}

func tp(t time.Time) *time.Time { return &t }

// ---------------------------------------------------------------------------
// CheckIn tests
// ---------------------------------------------------------------------------

func TestAttendanceService_CheckIn_CreatesRecord(t *testing.T) {
	repo := newStubAttendanceRepo()
	svc := newSvc(repo, testNow)

	rec, err := svc.CheckIn(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.Date != "2024-03-10" {
		t.Errorf("expected date 2024-03-10, got %s", rec.Date)
	}
	if rec.CheckIn == nil || !rec.CheckIn.Equal(testNow) {
		t.Errorf("check_in must equal the clock time, got %v", rec.CheckIn)
	}
	if rec.CheckOut != nil {
		t.Errorf("check_out must be nil on a fresh record")
	}

	// round-trip through the store
	stored, err := repo.FindByUserAndDate(context.Background(), "u1", "2024-03-10")
	if err != nil {
		t.Fatalf("record not stored: %v", err)
	}
	if !stored.CheckIn.Equal(testNow) || stored.CheckOut != nil {
		t.Errorf("stored record does not match written timestamps")
	}
}

func TestAttendanceService_CheckIn_Twice_Rejected(t *testing.T) {
	repo := newStubAttendanceRepo()
	svc := newSvc(repo, testNow)

	if _, err := svc.CheckIn(context.Background(), "u1"); err != nil {
		t.Fatalf("first check-in failed: %v", err)
	}
	_, err := svc.CheckIn(context.Background(), "u1")
	if !errors.Is(err, domain.ErrAlreadyCheckedIn) {
		t.Fatalf("expected ErrAlreadyCheckedIn, got %v", err)
	}
	if len(repo.records) != 1 {
		t.Errorf("expected exactly 1 stored record, got %d", len(repo.records))
	}
}

func TestAttendanceService_CheckIn_AfterCheckout_Rejected(t *testing.T) {
	repo := newStubAttendanceRepo()
	seedRecord(repo, "u1", testNow, tp(testNow.Add(-2*time.Hour)), tp(testNow.Add(-time.Hour)))
	svc := newSvc(repo, testNow)

	_, err := svc.CheckIn(context.Background(), "u1")
	if !errors.Is(err, domain.ErrAlreadyCheckedIn) {
		t.Fatalf("re-check-in on a closed day must fail with ErrAlreadyCheckedIn, got %v", err)
	}
}

func TestAttendanceService_CheckIn_ClaimsRecordWithNullCheckIn(t *testing.T) {
	// A record without check_in should not occur through the normal creation
	// path, but the defensive claim keeps older data usable.
	repo := newStubAttendanceRepo()
	seedRecord(repo, "u1", testNow, nil, nil)
	svc := newSvc(repo, testNow)

	rec, err := svc.CheckIn(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.CheckIn == nil || !rec.CheckIn.Equal(testNow) {
		t.Errorf("expected claimed check_in at %v, got %v", testNow, rec.CheckIn)
	}
}

func TestAttendanceService_CheckIn_EmitsAuditEventAndInvalidatesCache(t *testing.T) {
	repo := newStubAttendanceRepo()
	queue := &stubQueue{}
	cache := newStubCache()
	svc := NewAttendanceService(repo, fixedClock{t: testNow}, queue, cache, discardLogger)

	if _, err := svc.CheckIn(context.Background(), "u1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(queue.enqueued) != 1 {
		t.Fatalf("expected 1 audit event, got %d", len(queue.enqueued))
	}
	ev := queue.enqueued[0]
	if ev.UserID != "u1" || ev.Action != domain.ActionCheckIn || ev.Date != "2024-03-10" {
		t.Errorf("unexpected audit event: %+v", ev)
	}
	if len(cache.invalidated) != 1 || cache.invalidated[0] != "u1" {
		t.Errorf("expected dashboard cache invalidation for u1, got %v", cache.invalidated)
	}
}

func TestAttendanceService_CheckIn_RepoError(t *testing.T) {
	repo := newStubAttendanceRepo()
	repo.insertErr = errors.New("db unavailable")
	svc := newSvc(repo, testNow)

	if _, err := svc.CheckIn(context.Background(), "u1"); err == nil {
		t.Fatal("expected error when repo fails, got nil")
	}
}

// ---------------------------------------------------------------------------
// CheckOut tests
// ---------------------------------------------------------------------------

func TestAttendanceService_CheckOut_WithoutCheckIn(t *testing.T) {
	repo := newStubAttendanceRepo()
	svc := newSvc(repo, testNow)

	_, err := svc.CheckOut(context.Background(), "u1")
	if !errors.Is(err, domain.ErrNotCheckedIn) {
		t.Fatalf("expected ErrNotCheckedIn, got %v", err)
	}
}

func TestAttendanceService_CheckOut_ClosesRecord(t *testing.T) {
	repo := newStubAttendanceRepo()
	checkIn := testNow.Add(-8 * time.Hour)
	seedRecord(repo, "u1", testNow, tp(checkIn), nil)
	svc := newSvc(repo, testNow)

	rec, err := svc.CheckOut(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if rec.CheckOut == nil || !rec.CheckOut.Equal(testNow) {
		t.Errorf("expected check_out %v, got %v", testNow, rec.CheckOut)
	}
	if rec.Status() != domain.StatusCheckedOut {
		t.Errorf("expected terminal status checked_out, got %s", rec.Status())
	}
}

func TestAttendanceService_CheckOut_Twice(t *testing.T) {
	repo := newStubAttendanceRepo()
	checkIn := testNow.Add(-8 * time.Hour)
	seedRecord(repo, "u1", testNow, tp(checkIn), nil)
	svc := newSvc(repo, testNow)

	if _, err := svc.CheckOut(context.Background(), "u1"); err != nil {
		t.Fatalf("first check-out failed: %v", err)
	}
	_, err := svc.CheckOut(context.Background(), "u1")
	if !errors.Is(err, domain.ErrAlreadyCheckedOut) {
		t.Fatalf("expected ErrAlreadyCheckedOut, got %v", err)
	}
}

func TestAttendanceService_CheckOut_RejectsBackwardClock(t *testing.T) {
	repo := newStubAttendanceRepo()
	seedRecord(repo, "u1", testNow, tp(testNow.Add(time.Hour)), nil) // check-in "in the future"
	svc := newSvc(repo, testNow)

	_, err := svc.CheckOut(context.Background(), "u1")
	if !errors.Is(err, domain.ErrCheckOutNotAfterCheckIn) {
		t.Fatalf("expected ErrCheckOutNotAfterCheckIn, got %v", err)
	}
}

// ---------------------------------------------------------------------------
// Dashboard tests
// ---------------------------------------------------------------------------

func TestAttendanceService_Dashboard_ComputesMetrics(t *testing.T) {
	repo := newStubAttendanceRepo()
	// present today, yesterday, and two days ago; absent three days ago
	for i := 0; i < 3; i++ {
		day := testNow.AddDate(0, 0, -i)
		seedRecord(repo, "u1", day, tp(day), nil)
	}
	// an old record far outside the window
	old := testNow.AddDate(0, 0, -30)
	seedRecord(repo, "u1", old, tp(old), nil)

	svc := newSvc(repo, testNow)
	d, err := svc.Dashboard(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if d.PresentDays != 3 {
		t.Errorf("expected 3 present days in window, got %d", d.PresentDays)
	}
	if d.CurrentStreak != 3 {
		t.Errorf("expected streak 3, got %d", d.CurrentStreak)
	}
	if d.LastCheckIn == nil || !d.LastCheckIn.Equal(testNow) {
		t.Errorf("expected last check-in %v, got %v", testNow, d.LastCheckIn)
	}
	if d.TodayStatus != domain.StatusCheckedIn {
		t.Errorf("expected today status checked_in, got %s", d.TodayStatus)
	}
	if len(d.Chart) != 7 {
		t.Fatalf("expected 7 chart points, got %d", len(d.Chart))
	}
	if !d.Chart[6].Present || d.Chart[6].Date != "2024-03-10" {
		t.Errorf("last chart point must be today and present: %+v", d.Chart[6])
	}
	if d.Chart[0].Present {
		t.Errorf("oldest chart point should be absent: %+v", d.Chart[0])
	}
}

func TestAttendanceService_Dashboard_ServedFromCache(t *testing.T) {
	repo := newStubAttendanceRepo()
	cache := newStubCache()
	cached := &ports.Dashboard{CurrentStreak: 42}
	cache.stored["u1"] = cached

	svc := NewAttendanceService(repo, fixedClock{t: testNow}, nil, cache, discardLogger)
	d, err := svc.Dashboard(context.Background(), "u1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if d != cached {
		t.Errorf("expected cached dashboard to be returned")
	}
}

func TestAttendanceService_Dashboard_CacheErrorFallsBack(t *testing.T) {
	repo := newStubAttendanceRepo()
	cache := newStubCache()
	cache.getErr = errors.New("redis down")

	svc := NewAttendanceService(repo, fixedClock{t: testNow}, nil, cache, discardLogger)
	d, err := svc.Dashboard(context.Background(), "u1")
	if err != nil {
		t.Fatalf("cache failure must not fail the dashboard: %v", err)
	}
	if d.CurrentStreak != 0 || d.PresentDays != 0 {
		t.Errorf("expected empty dashboard for user with no records")
	}
}
