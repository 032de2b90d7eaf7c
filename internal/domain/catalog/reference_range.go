package catalog

import (
	"sort"

	"github.com/google/uuid"
	"github.com/labcore/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ReferenceRange is an age and gender scoped numeric band.
// Nil ages are unbounded. Ages are in whole years.
type ReferenceRange struct {
	ID       uuid.UUID           `gorm:"type:uuid;primaryKey"`
	TestID   uuid.UUID           `gorm:"type:uuid;not null;index"`
	Gender   valueobject.Gender  `gorm:"type:varchar(10);not null;default:'Both'"`
	MinAge   *int
	MaxAge   *int
	MinVal   decimal.NullDecimal `gorm:"type:decimal(18,4)"`
	MaxVal   decimal.NullDecimal `gorm:"type:decimal(18,4)"`
	Position int                 `gorm:"not null;default:0"`
}

// TableName returns the table name for GORM
func (ReferenceRange) TableName() string {
	return "lab_reference_ranges"
}

// Matches reports whether the range applies to a patient
func (r ReferenceRange) Matches(gender valueobject.Gender, age int) bool {
	if !r.Gender.Covers(gender) {
		return false
	}
	if r.MinAge != nil && age < *r.MinAge {
		return false
	}
	if r.MaxAge != nil && age > *r.MaxAge {
		return false
	}
	return true
}

// Bounds returns the numeric bounds of the range
func (r ReferenceRange) Bounds() Bounds {
	return Bounds{Min: r.MinVal, Max: r.MaxVal}
}

// Bounds are the optional lower and upper limits a numeric result is compared against
type Bounds struct {
	Min decimal.NullDecimal
	Max decimal.NullDecimal
}

// IsEmpty reports whether neither bound is set
func (b Bounds) IsEmpty() bool {
	return !b.Min.Valid && !b.Max.Valid
}

// SelectReferenceRange picks the best matching range for a patient.
// Exact gender beats Both; then the smallest MinAge wins, with nil last.
// Remaining ties fall back to MaxAge (nil last), position and id so the
// outcome does not depend on the order of the input slice.
func SelectReferenceRange(ranges []ReferenceRange, gender valueobject.Gender, age int) (ReferenceRange, bool) {
	candidates := make([]ReferenceRange, 0, len(ranges))
	for _, r := range ranges {
		if r.Matches(gender, age) {
			candidates = append(candidates, r)
		}
	}
	if len(candidates) == 0 {
		return ReferenceRange{}, false
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return rangeLess(candidates[i], candidates[j])
	})
	return candidates[0], true
}

func rangeLess(a, b ReferenceRange) bool {
	aExact, bExact := a.Gender != valueobject.GenderBoth, b.Gender != valueobject.GenderBoth
	if aExact != bExact {
		return aExact
	}
	if c := compareNullableAge(a.MinAge, b.MinAge); c != 0 {
		return c < 0
	}
	if c := compareNullableAge(a.MaxAge, b.MaxAge); c != 0 {
		return c < 0
	}
	if a.Position != b.Position {
		return a.Position < b.Position
	}
	return a.ID.String() < b.ID.String()
}

// compareNullableAge orders nil after every concrete age
func compareNullableAge(a, b *int) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	case *a < *b:
		return -1
	case *a > *b:
		return 1
	}
	return 0
}
