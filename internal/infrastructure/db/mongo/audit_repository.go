package mongo

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/carehub/clinic-system/internal/core/ports"
)

const collectionAuditEvents = "appointment_events"

// AuditRepository persists status transition events to the audit collection.
type AuditRepository struct {
	col *mongo.Collection
}

func NewAuditRepository(db *mongo.Database) *AuditRepository {
	return &AuditRepository{col: db.Collection(collectionAuditEvents)}
}

// InsertTransition appends one transition event to the audit trail.
func (r *AuditRepository) InsertTransition(ctx context.Context, event *ports.TransitionEvent) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	doc := bson.M{
		"appointmentId": event.AppointmentID,
		"from":          string(event.From),
		"to":            string(event.To),
		"actorId":       event.ActorID,
		"actorRole":     string(event.ActorRole),
		"timestamp":     event.Timestamp.UTC(),
		"recorded_at":   time.Now().UTC(),
	}

	_, err := r.col.InsertOne(ctx, doc)
	return err
}
