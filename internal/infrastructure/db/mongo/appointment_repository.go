package mongo

import (
	"context"
	"errors"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/carehub/clinic-system/internal/core/domain"
	"github.com/carehub/clinic-system/internal/core/ports"
)

const collectionAppointments = "appointments"

type appointmentDoc struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty"`
	PatientID      primitive.ObjectID  `bson:"patientId"`
	StaffID        *primitive.ObjectID `bson:"staffId,omitempty"`
	Date           time.Time           `bson:"date"`
	Status         string              `bson:"status"`
	ChiefComplaint string              `bson:"chiefComplaint"`
	Notes          string              `bson:"notes,omitempty"`
	CreatedAt      time.Time           `bson:"created_at"`
	UpdatedAt      time.Time           `bson:"updated_at"`
}

func (d *appointmentDoc) toDomain() *domain.Appointment {
	a := &domain.Appointment{
		ID:             d.ID.Hex(),
		PatientID:      d.PatientID.Hex(),
		Date:           d.Date.UTC(),
		Status:         domain.Status(d.Status),
		ChiefComplaint: d.ChiefComplaint,
		Notes:          d.Notes,
		CreatedAt:      d.CreatedAt.UTC(),
		UpdatedAt:      d.UpdatedAt.UTC(),
	}
	if d.StaffID != nil {
		a.StaffID = d.StaffID.Hex()
	}
	return a
}

type AppointmentRepository struct {
	col *mongo.Collection
}

func NewAppointmentRepository(db *mongo.Database) *AppointmentRepository {
	return &AppointmentRepository{col: db.Collection(collectionAppointments)}
}

// Create inserts a new appointment document and backfills the generated id.
func (r *AppointmentRepository) Create(ctx context.Context, a *domain.Appointment) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	patientOID, err := primitive.ObjectIDFromHex(a.PatientID)
	if err != nil {
		return domain.ErrInvalidID
	}

	doc := appointmentDoc{
		PatientID:      patientOID,
		Date:           a.Date.UTC(),
		Status:         string(a.Status),
		ChiefComplaint: a.ChiefComplaint,
		Notes:          a.Notes,
		CreatedAt:      a.CreatedAt.UTC(),
		UpdatedAt:      a.UpdatedAt.UTC(),
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		a.ID = oid.Hex()
	}
	return nil
}

func (r *AppointmentRepository) FindByID(ctx context.Context, id string) (*domain.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	var doc appointmentDoc
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAppointmentNotFound
		}
		return nil, err
	}
	return doc.toDomain(), nil
}

// UpdateStatus performs the compare-and-set write: the filter matches both
// the id and the status the caller previously read, so a concurrent
// transition makes this update match nothing. In that case the document is
// re-checked to distinguish a lost race from a missing appointment.
func (r *AppointmentRepository) UpdateStatus(ctx context.Context, id string, expected domain.Status, update ports.StatusUpdate) (*domain.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, domain.ErrInvalidID
	}

	set := bson.M{
		"status":     string(update.Status),
		"updated_at": time.Now().UTC(),
	}
	if update.StaffID != "" {
		staffOID, err := primitive.ObjectIDFromHex(update.StaffID)
		if err != nil {
			return nil, domain.ErrInvalidID
		}
		set["staffId"] = staffOID
	}

	filter := bson.M{"_id": oid, "status": string(expected)}
	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)

	var doc appointmentDoc
	err = r.col.FindOneAndUpdate(ctx, filter, bson.M{"$set": set}, opts).Decode(&doc)
	if err == nil {
		return doc.toDomain(), nil
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return nil, err
	}

	// No match: either the appointment is gone or its status moved under us.
	if err := r.col.FindOne(ctx, bson.M{"_id": oid}).Err(); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrAppointmentNotFound
		}
		return nil, err
	}
	return nil, domain.ErrConflict
}

// List returns one page of appointments matching filter, newest first.
func (r *AppointmentRepository) List(ctx context.Context, filter ports.ListAppointmentsFilter) ([]*domain.Appointment, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query, err := buildAppointmentQuery(filter)
	if err != nil {
		return nil, err
	}

	skip := int64((filter.Page - 1) * filter.Limit)
	opts := options.Find().
		SetSkip(skip).
		SetLimit(int64(filter.Limit)).
		SetSort(bson.D{{Key: "created_at", Value: -1}})

	cur, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []*domain.Appointment
	for cur.Next(ctx) {
		var doc appointmentDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toDomain())
	}
	return out, cur.Err()
}

// buildAppointmentQuery translates the filter into a Mongo query. Every
// present parameter narrows the result with a logical AND; search matches
// case-insensitively against chiefComplaint and notes; date bounds are
// inclusive on whichever side is supplied.
func buildAppointmentQuery(filter ports.ListAppointmentsFilter) (bson.M, error) {
	query := bson.M{}

	if filter.Status != "" {
		query["status"] = filter.Status
	}

	if !filter.DateFrom.IsZero() || !filter.DateTo.IsZero() {
		dateRange := bson.M{}
		if !filter.DateFrom.IsZero() {
			dateRange["$gte"] = filter.DateFrom.UTC()
		}
		if !filter.DateTo.IsZero() {
			dateRange["$lte"] = filter.DateTo.UTC()
		}
		query["date"] = dateRange
	}

	if filter.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(filter.Search), Options: "i"}
		query["$or"] = bson.A{
			bson.M{"chiefComplaint": pattern},
			bson.M{"notes": pattern},
		}
	}

	if filter.PatientID != "" {
		oid, err := primitive.ObjectIDFromHex(filter.PatientID)
		if err != nil {
			return nil, domain.ErrInvalidID
		}
		query["patientId"] = oid
	}

	return query, nil
}

// EnsureIndexes creates the indexes backing the list filters and the CAS
// write path.
func (r *AppointmentRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "patientId", Value: 1}}},
		{Keys: bson.D{{Key: "status", Value: 1}}},
		{Keys: bson.D{{Key: "date", Value: 1}}},
		{Keys: bson.D{{Key: "created_at", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
