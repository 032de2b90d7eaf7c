package lab

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

// ResultStatus represents the status of a single result row
type ResultStatus string

const (
	ResultStatusPending   ResultStatus = "PENDING"
	ResultStatusCompleted ResultStatus = "COMPLETED"
)

// Result is one test of an order. Value is free text and may be numeric or qualitative.
type Result struct {
	ID          uuid.UUID    `gorm:"type:uuid;primaryKey"`
	OrderID     uuid.UUID    `gorm:"type:uuid;not null;index"`
	TestID      uuid.UUID    `gorm:"type:uuid;not null;index"`
	TestName    string       `gorm:"type:varchar(200)"`
	Position    int          `gorm:"not null;default:0"`
	Value       string       `gorm:"type:text"`
	Abnormal    bool         `gorm:"not null;default:false"`
	Remarks     string       `gorm:"type:varchar(20)"`
	PerformedBy string       `gorm:"type:varchar(100)"`
	PerformedAt *time.Time
	Status      ResultStatus `gorm:"type:varchar(20);not null;default:'PENDING'"`
	CreatedAt   time.Time    `gorm:"not null"`
	UpdatedAt   time.Time    `gorm:"not null"`
}

// TableName returns the table name for GORM
func (Result) TableName() string {
	return "lab_results"
}

func newResult(orderID, testID uuid.UUID, testName string, position int, now time.Time) Result {
	return Result{
		ID:        uuid.New(),
		OrderID:   orderID,
		TestID:    testID,
		TestName:  testName,
		Position:  position,
		Status:    ResultStatusPending,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// IsFilled reports whether a non-blank value has been entered
func (r *Result) IsFilled() bool {
	return strings.TrimSpace(r.Value) != ""
}

// HasActivity reports whether anyone has started working on the result
func (r *Result) HasActivity() bool {
	return r.IsFilled() || strings.TrimSpace(r.PerformedBy) != "" || r.PerformedAt != nil
}

// enter stores value and its classification. performer is stamped when given.
func (r *Result) enter(value, performer string, at time.Time, bounds BoundsLookup) {
	r.Value = strings.TrimSpace(value)
	c := Classify(r.Value, bounds(r.TestID))
	r.Abnormal = c.Abnormal
	r.Remarks = c.Remarks
	if performer != "" {
		r.PerformedBy = performer
	}
	r.PerformedAt = &at
	r.Status = ResultStatusCompleted
	r.UpdatedAt = at
}
