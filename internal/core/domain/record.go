package domain

import (
	"errors"
	"time"
)

var ErrRecordNotFound = errors.New("medical record not found")

// VitalSigns captures optional measurements taken during a visit.
// All fields are optional; zero values are omitted from storage.
type VitalSigns struct {
	BloodPressure    string  `json:"bloodPressure,omitempty" bson:"bloodPressure,omitempty"`
	HeartRate        float64 `json:"heartRate,omitempty" bson:"heartRate,omitempty"`
	Temperature      float64 `json:"temperature,omitempty" bson:"temperature,omitempty"`
	RespiratoryRate  float64 `json:"respiratoryRate,omitempty" bson:"respiratoryRate,omitempty"`
	OxygenSaturation float64 `json:"oxygenSaturation,omitempty" bson:"oxygenSaturation,omitempty"`
	Weight           float64 `json:"weight,omitempty" bson:"weight,omitempty"`
	Height           float64 `json:"height,omitempty" bson:"height,omitempty"`
	BMI              float64 `json:"bmi,omitempty" bson:"bmi,omitempty"`
}

// MedicalRecord documents one clinical visit. StaffCreatedID is always the
// staff/admin actor who wrote the record, never supplied by the client.
type MedicalRecord struct {
	ID             string      `json:"id" bson:"_id,omitempty"`
	PatientID      string      `json:"patientId" bson:"patientId"`
	AppointmentID  string      `json:"appointmentId,omitempty" bson:"appointmentId,omitempty"`
	StaffCreatedID string      `json:"staffCreatedId" bson:"staffCreatedId"`
	VisitDate      time.Time   `json:"visitDate" bson:"visitDate"`
	ChiefComplaint string      `json:"chiefComplaint" bson:"chiefComplaint"`
	Notes          string      `json:"notes,omitempty" bson:"notes,omitempty"`
	Diagnosis      string      `json:"diagnosis" bson:"diagnosis"`
	VitalSigns     *VitalSigns `json:"vitalSigns,omitempty" bson:"vitalSigns,omitempty"`
	CreatedAt      time.Time   `json:"created_at" bson:"created_at"`
	UpdatedAt      time.Time   `json:"updated_at" bson:"updated_at"`
}
