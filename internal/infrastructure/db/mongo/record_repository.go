package mongo

import (
	"context"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/carehub/clinic-system/internal/core/domain"
	"github.com/carehub/clinic-system/internal/core/ports"
)

const collectionRecords = "medical-records"

type recordDoc struct {
	ID             primitive.ObjectID  `bson:"_id,omitempty"`
	PatientID      primitive.ObjectID  `bson:"patientId"`
	AppointmentID  *primitive.ObjectID `bson:"appointmentId,omitempty"`
	StaffCreatedID primitive.ObjectID  `bson:"staffCreatedId"`
	VisitDate      time.Time           `bson:"visitDate"`
	ChiefComplaint string              `bson:"chiefComplaint"`
	Notes          string              `bson:"notes,omitempty"`
	Diagnosis      string              `bson:"diagnosis"`
	VitalSigns     *domain.VitalSigns  `bson:"vitalSigns,omitempty"`
	CreatedAt      time.Time           `bson:"created_at"`
	UpdatedAt      time.Time           `bson:"updated_at"`
}

func (d *recordDoc) toDomain() *domain.MedicalRecord {
	r := &domain.MedicalRecord{
		ID:             d.ID.Hex(),
		PatientID:      d.PatientID.Hex(),
		StaffCreatedID: d.StaffCreatedID.Hex(),
		VisitDate:      d.VisitDate.UTC(),
		ChiefComplaint: d.ChiefComplaint,
		Notes:          d.Notes,
		Diagnosis:      d.Diagnosis,
		VitalSigns:     d.VitalSigns,
		CreatedAt:      d.CreatedAt.UTC(),
		UpdatedAt:      d.UpdatedAt.UTC(),
	}
	if d.AppointmentID != nil {
		r.AppointmentID = d.AppointmentID.Hex()
	}
	return r
}

type RecordRepository struct {
	col *mongo.Collection
}

func NewRecordRepository(db *mongo.Database) *RecordRepository {
	return &RecordRepository{col: db.Collection(collectionRecords)}
}

func (r *RecordRepository) Create(ctx context.Context, rec *domain.MedicalRecord) error {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	patientOID, err := primitive.ObjectIDFromHex(rec.PatientID)
	if err != nil {
		return domain.ErrInvalidID
	}
	staffOID, err := primitive.ObjectIDFromHex(rec.StaffCreatedID)
	if err != nil {
		return domain.ErrInvalidID
	}

	doc := recordDoc{
		PatientID:      patientOID,
		StaffCreatedID: staffOID,
		VisitDate:      rec.VisitDate.UTC(),
		ChiefComplaint: rec.ChiefComplaint,
		Notes:          rec.Notes,
		Diagnosis:      rec.Diagnosis,
		VitalSigns:     rec.VitalSigns,
		CreatedAt:      rec.CreatedAt.UTC(),
		UpdatedAt:      rec.UpdatedAt.UTC(),
	}
	if rec.AppointmentID != "" {
		apptOID, err := primitive.ObjectIDFromHex(rec.AppointmentID)
		if err != nil {
			return domain.ErrInvalidID
		}
		doc.AppointmentID = &apptOID
	}

	res, err := r.col.InsertOne(ctx, doc)
	if err != nil {
		return err
	}
	if oid, ok := res.InsertedID.(primitive.ObjectID); ok {
		rec.ID = oid.Hex()
	}
	return nil
}

// List returns one page of records matching filter, most recent visit first.
// The filter shape mirrors the appointment query builder; search additionally
// covers the diagnosis field and the date range applies to visitDate.
func (r *RecordRepository) List(ctx context.Context, filter ports.ListRecordsFilter) ([]*domain.MedicalRecord, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	query := bson.M{}

	if filter.PatientID != "" {
		oid, err := primitive.ObjectIDFromHex(filter.PatientID)
		if err != nil {
			return nil, domain.ErrInvalidID
		}
		query["patientId"] = oid
	}
	if filter.StaffID != "" {
		oid, err := primitive.ObjectIDFromHex(filter.StaffID)
		if err != nil {
			return nil, domain.ErrInvalidID
		}
		query["staffCreatedId"] = oid
	}
	if filter.Diagnosis != "" {
		query["diagnosis"] = primitive.Regex{Pattern: regexp.QuoteMeta(filter.Diagnosis), Options: "i"}
	}
	if !filter.DateFrom.IsZero() || !filter.DateTo.IsZero() {
		dateRange := bson.M{}
		if !filter.DateFrom.IsZero() {
			dateRange["$gte"] = filter.DateFrom.UTC()
		}
		if !filter.DateTo.IsZero() {
			dateRange["$lte"] = filter.DateTo.UTC()
		}
		query["visitDate"] = dateRange
	}
	if filter.Search != "" {
		pattern := primitive.Regex{Pattern: regexp.QuoteMeta(filter.Search), Options: "i"}
		query["$or"] = bson.A{
			bson.M{"chiefComplaint": pattern},
			bson.M{"notes": pattern},
			bson.M{"diagnosis": pattern},
		}
	}

	skip := int64((filter.Page - 1) * filter.Limit)
	opts := options.Find().
		SetSkip(skip).
		SetLimit(int64(filter.Limit)).
		SetSort(bson.D{{Key: "visitDate", Value: -1}})

	cur, err := r.col.Find(ctx, query, opts)
	if err != nil {
		return nil, err
	}
	defer cur.Close(ctx)

	var out []*domain.MedicalRecord
	for cur.Next(ctx) {
		var doc recordDoc
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toDomain())
	}
	return out, cur.Err()
}

func (r *RecordRepository) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	indexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "patientId", Value: 1}}},
		{Keys: bson.D{{Key: "staffCreatedId", Value: 1}}},
		{Keys: bson.D{{Key: "visitDate", Value: -1}}},
	}

	_, err := r.col.Indexes().CreateMany(ctx, indexes)
	return err
}
