package partner

import (
	"context"

	"github.com/google/uuid"
	"github.com/labcore/backend/internal/domain/shared"
)

// ErrPatientNotFound is returned when an order references an unknown patient
var ErrPatientNotFound = shared.NewDomainError("PATIENT_NOT_FOUND", "Patient not found")

func init() {
	shared.RegisterErrorCategory(shared.CategoryNotFound, ErrPatientNotFound.Code)
}

// PatientRepository reads patients
type PatientRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Patient, error)
}

// DoctorRepository reads referring doctors
type DoctorRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*Doctor, error)
}
