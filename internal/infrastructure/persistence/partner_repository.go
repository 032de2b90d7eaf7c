package persistence

import (
	"context"

	"github.com/google/uuid"
	"github.com/labcore/backend/internal/domain/partner"
	"github.com/labcore/backend/internal/domain/shared"
	"gorm.io/gorm"
)

// GormPatientRepository reads patients
type GormPatientRepository struct {
	db *gorm.DB
}

// NewGormPatientRepository creates a new GormPatientRepository
func NewGormPatientRepository(db *gorm.DB) *GormPatientRepository {
	return &GormPatientRepository{db: db}
}

// FindByID finds a patient by ID
func (r *GormPatientRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Patient, error) {
	var patient partner.Patient
	if err := r.db.WithContext(ctx).First(&patient, "id = ?", id).Error; err != nil {
		return nil, notFoundAs(err, shared.ErrNotFound)
	}
	return &patient, nil
}

// GormDoctorRepository reads referring doctors
type GormDoctorRepository struct {
	db *gorm.DB
}

// NewGormDoctorRepository creates a new GormDoctorRepository
func NewGormDoctorRepository(db *gorm.DB) *GormDoctorRepository {
	return &GormDoctorRepository{db: db}
}

// FindByID finds a doctor by ID
func (r *GormDoctorRepository) FindByID(ctx context.Context, id uuid.UUID) (*partner.Doctor, error) {
	var doctor partner.Doctor
	if err := r.db.WithContext(ctx).First(&doctor, "id = ?", id).Error; err != nil {
		return nil, notFoundAs(err, shared.ErrNotFound)
	}
	return &doctor, nil
}

var (
	_ partner.PatientRepository = (*GormPatientRepository)(nil)
	_ partner.DoctorRepository  = (*GormDoctorRepository)(nil)
)
