package valueobject

import (
	"fmt"
	"strings"
)

// Gender scopes a reference range or describes a patient.
// Both is only meaningful on reference ranges.
type Gender string

const (
	GenderMale   Gender = "Male"
	GenderFemale Gender = "Female"
	GenderBoth   Gender = "Both"
)

// ParseGender accepts the canonical names case-insensitively, plus M/F/B
func ParseGender(s string) (Gender, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "male", "m":
		return GenderMale, nil
	case "female", "f":
		return GenderFemale, nil
	case "both", "b", "any":
		return GenderBoth, nil
	}
	return "", fmt.Errorf("unknown gender %q", s)
}

// IsValid reports whether g is one of the known values
func (g Gender) IsValid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderBoth:
		return true
	}
	return false
}

// Covers reports whether a range scoped to g applies to a patient of the given gender
func (g Gender) Covers(patient Gender) bool {
	return g == GenderBoth || g == patient
}

func (g Gender) String() string {
	return string(g)
}
