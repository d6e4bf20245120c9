package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/govtech/attendance-system/internal/core/domain"
)

const collectionAttendance = "attendance"

// AttendanceRepository implements ports.AttendanceRepository on MongoDB.
// The unique (user_id, date) index makes Insert the atomic
// insert-if-absent primitive; the Set* methods are conditional updates whose
// filters encode the state-machine preconditions, so two racing writers can
// never both succeed.
type AttendanceRepository struct {
	col *mongo.Collection
}

func NewAttendanceRepository(db *mongo.Database) *AttendanceRepository {
	return &AttendanceRepository{col: db.Collection(collectionAttendance)}
}

// Insert creates the record for its (user, date) key.
func (r *AttendanceRepository) Insert(ctx context.Context, rec *domain.Record) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	_, err := r.col.InsertOne(ctx, rec)
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return domain.ErrDuplicateRecord
		}
		return err
	}
	return nil
}

// FindByUserAndDate retrieves the single record for (userID, date).
func (r *AttendanceRepository) FindByUserAndDate(ctx context.Context, userID, date string) (*domain.Record, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var rec domain.Record
	err := r.col.FindOne(ctx, bson.M{"user_id": userID, "date": date}).Decode(&rec)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrRecordNotFound
		}
		return nil, err
	}
	return &rec, nil
}

// SetCheckIn claims a record whose check_in is still null.
func (r *AttendanceRepository) SetCheckIn(ctx context.Context, userID, date string, t time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{"user_id": userID, "date": date, "check_in": nil}
	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"check_in": t.UTC()}})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrAlreadyCheckedIn
	}
	return nil
}

// SetCheckOut closes a record that is checked in and not yet checked out.
// A missed conditional update is re-read to classify the conflict.
func (r *AttendanceRepository) SetCheckOut(ctx context.Context, userID, date string, t time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	filter := bson.M{
		"user_id":   userID,
		"date":      date,
		"check_in":  bson.M{"$ne": nil},
		"check_out": nil,
	}
	res, err := r.col.UpdateOne(ctx, filter, bson.M{"$set": bson.M{"check_out": t.UTC()}})
	if err != nil {
		return err
	}
	if res.MatchedCount > 0 {
		return nil
	}

	rec, err := r.FindByUserAndDate(ctx, userID, date)
	switch {
	case errors.Is(err, domain.ErrRecordNotFound):
		return domain.ErrNotCheckedIn
	case err != nil:
		return err
	case rec.CheckIn == nil:
		return domain.ErrNotCheckedIn
	default:
		return domain.ErrAlreadyCheckedOut
	}
}

// ListByUser returns all of the user's records, ascending by date.
func (r *AttendanceRepository) ListByUser(ctx context.Context, userID string) ([]*domain.Record, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "date", Value: 1}})
	cur, err := r.col.Find(ctx, bson.M{"user_id": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var records []*domain.Record
	if err := cur.All(ctx, &records); err != nil {
		return nil, err
	}
	return records, nil
}

// EnsureIndexes creates the unique compound key backing the one-record-per-day
// invariant.
func (r *AttendanceRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "user_id", Value: 1}, {Key: "date", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
