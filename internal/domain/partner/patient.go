package partner

import (
	"time"

	"github.com/labcore/backend/internal/domain/shared"
	"github.com/labcore/backend/internal/domain/shared/valueobject"
)

// Patient is the subject of a lab order. Registration captures either a
// date of birth or an age in years.
type Patient struct {
	shared.BaseEntity
	Name        string             `gorm:"type:varchar(200);not null"`
	Gender      valueobject.Gender `gorm:"type:varchar(10);not null"`
	AgeYears    int                `gorm:"not null;default:0"`
	DateOfBirth *time.Time         `gorm:"type:date"`
	Phone       string             `gorm:"type:varchar(50)"`
}

// TableName returns the table name for GORM
func (Patient) TableName() string {
	return "patients"
}

// NewPatient registers a patient with an age in years
func NewPatient(name string, gender valueobject.Gender, ageYears int) (*Patient, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Patient name cannot be empty")
	}
	if gender != valueobject.GenderMale && gender != valueobject.GenderFemale {
		return nil, shared.NewDomainError("INVALID_GENDER", "Patient gender must be Male or Female")
	}
	if ageYears < 0 {
		return nil, shared.NewDomainError("INVALID_AGE", "Age cannot be negative")
	}
	return &Patient{
		BaseEntity: shared.NewBaseEntity(),
		Name:       name,
		Gender:     gender,
		AgeYears:   ageYears,
	}, nil
}

// AgeAt returns the patient's age in whole years at the given instant
func (p *Patient) AgeAt(at time.Time) int {
	if p.DateOfBirth == nil {
		return p.AgeYears
	}
	dob := *p.DateOfBirth
	age := at.Year() - dob.Year()
	if at.Month() < dob.Month() || (at.Month() == dob.Month() && at.Day() < dob.Day()) {
		age--
	}
	if age < 0 {
		return 0
	}
	return age
}
