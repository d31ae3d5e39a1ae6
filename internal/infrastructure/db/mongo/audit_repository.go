package mongo

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/mongo"

	"github.com/programming-notes/user-registration-and-authentication-challenge/internal/core/domain"
)

const auditCollection = "auth_events"

// MongoAuditRepository appends auth lifecycle events. Records are
// write-once; nothing in the service updates or deletes them.
type MongoAuditRepository struct {
	coll *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *MongoAuditRepository {
	return &MongoAuditRepository{coll: db.Collection(auditCollection)}
}

type mongoAuthEvent struct {
	ID      string `bson:"_id"`
	Type    string `bson:"type"`
	Subject string `bson:"subject"`
	UserID  string `bson:"user_id,omitempty"`
	At      int64  `bson:"at"`
}

func (r *MongoAuditRepository) Insert(ctx context.Context, event *domain.AuthEvent) error {
	doc := mongoAuthEvent{
		ID:      event.ID,
		Type:    string(event.Type),
		Subject: event.Subject,
		UserID:  event.UserID,
		At:      event.At.Unix(),
	}

	if _, err := r.coll.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert auth event: %w", err)
	}
	return nil
}
