package lab

import (
	"strings"

	"github.com/google/uuid"
	"github.com/labcore/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// Remarks written by classification
const (
	RemarksLow    = "LOW"
	RemarksHigh   = "HIGH"
	RemarksNormal = "Normal"
)

// Classification is the outcome of comparing an entered value with its bounds
type Classification struct {
	Abnormal bool
	Remarks  string
}

// Classify compares a free-text result value against bounds. Values that do not
// parse as a decimal are qualitative: not abnormal, no remarks, no range check.
func Classify(value string, bounds catalog.Bounds) Classification {
	v, err := decimal.NewFromString(strings.TrimSpace(value))
	if err != nil {
		return Classification{}
	}
	if bounds.Min.Valid && v.LessThan(bounds.Min.Decimal) {
		return Classification{Abnormal: true, Remarks: RemarksLow}
	}
	if bounds.Max.Valid && v.GreaterThan(bounds.Max.Decimal) {
		return Classification{Abnormal: true, Remarks: RemarksHigh}
	}
	return Classification{Remarks: RemarksNormal}
}

// BoundsLookup resolves the bounds for a test, already scoped to the patient
type BoundsLookup func(testID uuid.UUID) catalog.Bounds
