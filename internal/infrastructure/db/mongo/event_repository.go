package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/govtech/attendance-system/internal/core/domain"
	"github.com/govtech/attendance-system/internal/core/ports"
)

const collectionEvents = "attendance_events"

// EventRepository implements ports.EventRepository using MongoDB.
type EventRepository struct {
	db *mongo.Database
}

// NewEventRepository creates a new EventRepository.
func NewEventRepository(db *mongo.Database) ports.EventRepository {
	return &EventRepository{db: db}
}

// InsertEvent persists an audit event to the attendance_events collection.
func (r *EventRepository) InsertEvent(ctx context.Context, event *domain.AttendanceEvent) error {
	doc := bson.M{
		"user_id":      event.UserID,
		"action":       event.Action,
		"date":         event.Date,
		"timestamp":    event.Timestamp.UTC(),
		"processed_at": time.Now().UTC(),
	}

	_, err := r.db.Collection(collectionEvents).InsertOne(ctx, doc)
	return err
}
