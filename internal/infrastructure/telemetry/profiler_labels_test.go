package telemetry

import (
	"context"
	"runtime/pprof"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func TestProfileLabels_Do(t *testing.T) {
	t.Run("attaches pprof labels", func(t *testing.T) {
		var got string
		ForOperation(OperationCancelLabOrder).Do(context.Background(), func(ctx context.Context) {
			got, _ = pprof.Label(ctx, ProfilingLabelOperation)
		})
		assert.Equal(t, OperationCancelLabOrder, got)
	})

	t.Run("runs fn without labels", func(t *testing.T) {
		calls := 0
		ProfileLabels(nil).Do(context.Background(), func(context.Context) { calls++ })
		ForHandler("", "", "").Do(context.Background(), func(context.Context) { calls++ })
		assert.Equal(t, 2, calls)
	})
}

func TestProfileLabels_Pairs(t *testing.T) {
	pairs := ProfileLabels{
		"Route Name": "/api/v1/lab/orders",
		"order_id":   "7f1c",
		"Order-ID":   "7f1d",
		"empty":      "",
		"long":       strings.Repeat("x", MaxLabelValueLength+10),
		"é":          "dropped key",
	}.pairs()

	assert.Equal(t, []string{"route_name", "/api/v1/lab/orders", "long", strings.Repeat("x", MaxLabelValueLength)}, pairs)
}

func TestForHandler(t *testing.T) {
	pairs := ForHandler("LabOrderHandler", "/orders/:id", "").pairs()
	assert.Equal(t, []string{"controller", "LabOrderHandler", "route", "/orders/:id"}, pairs)
}

func TestNewProfiler(t *testing.T) {
	t.Run("disabled", func(t *testing.T) {
		p, err := NewProfiler(ProfilerConfig{}, zap.NewNop())
		assert.NoError(t, err)
		assert.False(t, p.IsEnabled())
		assert.NoError(t, p.Stop())
	})

	t.Run("requires server address", func(t *testing.T) {
		_, err := NewProfiler(ProfilerConfig{Enabled: true, ApplicationName: "lab"}, zap.NewNop())
		assert.Error(t, err)
	})
}
