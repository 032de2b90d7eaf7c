package catalog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/labcore/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(v int) *int { return &v }

func rng(g valueobject.Gender, minAge, maxAge *int, lo, hi float64) ReferenceRange {
	return ReferenceRange{
		ID:     uuid.New(),
		Gender: g,
		MinAge: minAge,
		MaxAge: maxAge,
		MinVal: decimal.NewNullDecimal(decimal.NewFromFloat(lo)),
		MaxVal: decimal.NewNullDecimal(decimal.NewFromFloat(hi)),
	}
}

func TestSelectReferenceRange(t *testing.T) {
	adultBoth := rng(valueobject.GenderBoth, intPtr(18), nil, 12, 16)
	adultMale := rng(valueobject.GenderMale, intPtr(18), nil, 13, 17)
	anyAgeFemale := rng(valueobject.GenderFemale, nil, nil, 11, 15)
	child := rng(valueobject.GenderBoth, intPtr(1), intPtr(12), 10, 14)

	t.Run("exact gender beats Both", func(t *testing.T) {
		got, ok := SelectReferenceRange([]ReferenceRange{adultBoth, adultMale}, valueobject.GenderMale, 40)
		require.True(t, ok)
		assert.Equal(t, adultMale.ID, got.ID)
	})

	t.Run("Both applies when no exact gender matches", func(t *testing.T) {
		got, ok := SelectReferenceRange([]ReferenceRange{adultMale, adultBoth}, valueobject.GenderFemale, 40)
		require.True(t, ok)
		assert.Equal(t, adultBoth.ID, got.ID)
	})

	t.Run("age window filters ranges", func(t *testing.T) {
		got, ok := SelectReferenceRange([]ReferenceRange{adultBoth, child}, valueobject.GenderMale, 8)
		require.True(t, ok)
		assert.Equal(t, child.ID, got.ID)
	})

	t.Run("smallest min age wins with nil last", func(t *testing.T) {
		older := rng(valueobject.GenderFemale, intPtr(50), nil, 1, 2)
		got, ok := SelectReferenceRange([]ReferenceRange{anyAgeFemale, older}, valueobject.GenderFemale, 60)
		require.True(t, ok)
		assert.Equal(t, older.ID, got.ID)
	})

	t.Run("outcome is independent of input order", func(t *testing.T) {
		a := rng(valueobject.GenderBoth, intPtr(0), intPtr(99), 1, 2)
		b := rng(valueobject.GenderBoth, intPtr(0), intPtr(99), 3, 4)
		first, _ := SelectReferenceRange([]ReferenceRange{a, b}, valueobject.GenderMale, 30)
		second, _ := SelectReferenceRange([]ReferenceRange{b, a}, valueobject.GenderMale, 30)
		assert.Equal(t, first.ID, second.ID)
	})

	t.Run("no match", func(t *testing.T) {
		_, ok := SelectReferenceRange([]ReferenceRange{adultMale}, valueobject.GenderFemale, 30)
		assert.False(t, ok)
		_, ok = SelectReferenceRange(nil, valueobject.GenderFemale, 30)
		assert.False(t, ok)
	})
}

func TestTestDefinition_BoundsFor(t *testing.T) {
	test, err := NewTestDefinition("Hemoglobin", "HB", "Hematology")
	require.NoError(t, err)
	test.DefaultMin = decimal.NewNullDecimal(decimal.NewFromInt(5))
	test.DefaultMax = decimal.NewNullDecimal(decimal.NewFromInt(9))

	t.Run("defaults when there are no ranges", func(t *testing.T) {
		b := test.BoundsFor(valueobject.GenderMale, 30)
		assert.True(t, b.Min.Decimal.Equal(decimal.NewFromInt(5)))
		assert.True(t, b.Max.Decimal.Equal(decimal.NewFromInt(9)))
	})

	t.Run("ranges that do not match give empty bounds", func(t *testing.T) {
		test.AddReferenceRange(rng(valueobject.GenderFemale, nil, nil, 11, 15))
		assert.True(t, test.BoundsFor(valueobject.GenderMale, 30).IsEmpty())
	})

	t.Run("matching range", func(t *testing.T) {
		b := test.BoundsFor(valueobject.GenderFemale, 30)
		assert.True(t, b.Min.Decimal.Equal(decimal.NewFromInt(11)))
		assert.Equal(t, test.ID, test.ReferenceRanges[0].TestID)
	})
}

func TestNewTestDefinition_Validation(t *testing.T) {
	_, err := NewTestDefinition("", "X", "")
	assert.Error(t, err)

	test, err := NewTestDefinition("Glucose", "GLU", "Biochemistry")
	require.NoError(t, err)
	assert.False(t, test.Price.Valid)
	assert.Error(t, test.SetPrice(decimal.NewFromInt(-1)))
	require.NoError(t, test.SetPrice(decimal.NewFromInt(650)))
	assert.True(t, test.Price.Valid)
}
