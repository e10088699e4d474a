package mongo

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/protorh/protorh-api/internal/core/domain"
	"github.com/protorh/protorh-api/internal/core/ports"
)

// AuditCollection receives one document per HR request mutation.
const AuditCollection = "hr_request_events"

// inserter is the part of *mongo.Collection the sink needs.
type inserter interface {
	InsertOne(ctx context.Context, document interface{}, opts ...*options.InsertOneOptions) (*mongo.InsertOneResult, error)
}

// auditDocument is the stored shape of a domain.AuditEvent. The event id is
// the document _id.
type auditDocument struct {
	ID         string    `bson:"_id"`
	Kind       string    `bson:"kind"`
	RequestID  int64     `bson:"request_id"`
	ActorID    int64     `bson:"actor_id"`
	ActorRole  string    `bson:"actor_role"`
	Author     int64     `bson:"author,omitempty"`
	HistoryLen int       `bson:"history_len"`
	Content    string    `bson:"content,omitempty"`
	OccurredAt time.Time `bson:"occurred_at"`
	RecordedAt time.Time `bson:"recorded_at"`
}

func toAuditDocument(event domain.AuditEvent, recordedAt time.Time) auditDocument {
	return auditDocument{
		ID:         event.EventID,
		Kind:       string(event.Kind),
		RequestID:  event.RequestID,
		ActorID:    event.ActorID,
		ActorRole:  string(event.ActorRole),
		Author:     int64(event.Author),
		HistoryLen: event.HistoryLen,
		Content:    event.Content,
		OccurredAt: event.OccurredAt.UTC(),
		RecordedAt: recordedAt.UTC(),
	}
}

// AuditSink implements ports.AuditSink on a MongoDB collection.
type AuditSink struct {
	coll inserter
	now  func() time.Time
}

var _ ports.AuditSink = (*AuditSink)(nil)

// NewAuditSink writes to the hr_request_events collection of db.
func NewAuditSink(db *mongo.Database) *AuditSink {
	return newAuditSink(db.Collection(AuditCollection))
}

func newAuditSink(coll inserter) *AuditSink {
	return &AuditSink{coll: coll, now: time.Now}
}

func (s *AuditSink) Name() string { return "mongo" }

// Write inserts the event. event_id is stored as _id so a redelivered event
// fails with a duplicate key instead of producing a second document.
func (s *AuditSink) Write(ctx context.Context, event domain.AuditEvent) error {
	doc := toAuditDocument(event, s.now())
	if _, err := s.coll.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil
		}
		return fmt.Errorf("insert audit event: %w", err)
	}
	return nil
}
