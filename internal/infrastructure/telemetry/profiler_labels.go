package telemetry

import (
	"context"
	"maps"
	"slices"
	"strings"
	"unicode"

	"github.com/grafana/pyroscope-go"
)

// Profile label keys
const (
	ProfilingLabelController = "controller"
	ProfilingLabelRoute      = "route"
	ProfilingLabelMethod     = "method"
	ProfilingLabelOperation  = "operation"
)

// Operation names shared by profile labels and the conflict retry counter
const (
	OperationCreateLabOrder = "create_lab_order"
	OperationSaveResults    = "save_lab_results"
	OperationCancelLabOrder = "cancel_lab_order"
)

// MaxLabelValueLength caps label values
const MaxLabelValueLength = 128

// per-entity ids would give every order its own profile series
var unboundedLabels = []string{"order_id", "result_id", "patient_id", "request_id", "user_id", "trace_id"}

// ProfileLabels are pyroscope tags for a unit of work. Empty values are
// ignored.
type ProfileLabels map[string]string

// ForOperation labels a service operation such as OperationCancelLabOrder
func ForOperation(operation string) ProfileLabels {
	return ProfileLabels{ProfilingLabelOperation: operation}
}

// ForHandler labels an HTTP handler invocation
func ForHandler(controller, route, method string) ProfileLabels {
	return ProfileLabels{
		ProfilingLabelController: controller,
		ProfilingLabelRoute:      route,
		ProfilingLabelMethod:     method,
	}
}

// Do runs fn with the labels attached to CPU samples taken meanwhile. fn
// runs exactly once, labelled or not.
func (l ProfileLabels) Do(ctx context.Context, fn func(context.Context)) {
	pairs := l.pairs()
	if len(pairs) == 0 {
		fn(ctx)
		return
	}
	pyroscope.TagWrapper(ctx, pyroscope.Labels(pairs...), fn)
}

// pairs flattens the labels in key order after normalising keys and
// dropping id-like labels
func (l ProfileLabels) pairs() []string {
	var out []string
	for _, raw := range slices.Sorted(maps.Keys(l)) {
		key, value := labelKey(raw), l[raw]
		if key == "" || value == "" || slices.Contains(unboundedLabels, key) {
			continue
		}
		if len(value) > MaxLabelValueLength {
			value = value[:MaxLabelValueLength]
		}
		out = append(out, key, value)
	}
	return out
}

// labelKey lowercases key, turns spaces and dashes into underscores and
// drops anything else outside [a-z0-9_]
func labelKey(key string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r == ' ' || r == '-':
			return '_'
		case r == '_' || r < unicode.MaxASCII && (unicode.IsDigit(r) || unicode.IsLetter(r)):
			return unicode.ToLower(r)
		}
		return -1
	}, key)
}
