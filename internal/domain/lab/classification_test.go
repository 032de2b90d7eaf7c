package lab

import (
	"testing"

	"github.com/labcore/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func bounds(lo, hi float64) catalog.Bounds {
	return catalog.Bounds{
		Min: decimal.NewNullDecimal(decimal.NewFromFloat(lo)),
		Max: decimal.NewNullDecimal(decimal.NewFromFloat(hi)),
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name   string
		value  string
		bounds catalog.Bounds
		want   Classification
	}{
		{name: "below range", value: "9.9", bounds: bounds(12, 16), want: Classification{Abnormal: true, Remarks: RemarksLow}},
		{name: "above range", value: "16.5", bounds: bounds(12, 16), want: Classification{Abnormal: true, Remarks: RemarksHigh}},
		{name: "within range", value: "14", bounds: bounds(12, 16), want: Classification{Remarks: RemarksNormal}},
		{name: "on the boundary", value: "12", bounds: bounds(12, 16), want: Classification{Remarks: RemarksNormal}},
		{name: "surrounding whitespace", value: "  20 ", bounds: bounds(12, 16), want: Classification{Abnormal: true, Remarks: RemarksHigh}},
		{name: "qualitative value", value: "Positive", bounds: bounds(12, 16), want: Classification{}},
		{name: "numeric without bounds", value: "3", bounds: catalog.Bounds{}, want: Classification{Remarks: RemarksNormal}},
		{name: "only lower bound", value: "100", bounds: catalog.Bounds{Min: decimal.NewNullDecimal(decimal.NewFromInt(5))}, want: Classification{Remarks: RemarksNormal}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Classify(tt.value, tt.bounds))
		})
	}
}
