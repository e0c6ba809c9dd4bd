package query

import (
	"fmt"

	"github.com/matzehuels/facetkit/pkg/errors"
	"github.com/matzehuels/facetkit/pkg/record"
)

// Metric table columns.
const (
	ColRunHash       = "run.hash"
	ColMetricName    = "metric.name"
	ColMetricContext = "metric.context"
	ColStep          = "step"
	ColValue         = "value"
)

// MetricObject is the metric collection. Metric records carry "run",
// "name", "context", "steps" and "values".
type MetricObject struct {
	*Object
}

// DataFrame reshapes metric i of the last query into one row per step.
func (m *MetricObject) DataFrame(i int) (*record.Frame, error) {
	items := m.Items()
	if i < 0 || i >= len(items) {
		return nil, errors.New(errors.ErrCodeNotFound, "metric %d not found (%d metrics loaded)", i, len(items))
	}
	metric := items[i]

	steps, ok := sequence(metric["steps"])
	if !ok {
		return nil, errors.New(errors.ErrCodeInvalidInput, "metric %d has no step sequence", i)
	}
	values, ok := sequence(metric["values"])
	if !ok || len(values) < len(steps) {
		return nil, errors.New(errors.ErrCodeInvalidInput, "metric %d has %d steps but %d values", i, len(steps), len(values))
	}

	hash := record.Value(metric, record.FieldRun+"."+record.FieldHash)
	name := metric["name"]
	ctx := record.String(metric["context"])

	f := record.NewFrame(ColRunHash, ColMetricName, ColMetricContext, ColStep, ColValue)
	for j := range steps {
		if err := f.Append(hash, name, ctx, steps[j], values[j]); err != nil {
			return nil, fmt.Errorf("metric %d: %w", i, err)
		}
	}
	return f, nil
}

func sequence(v any) ([]any, bool) {
	switch s := v.(type) {
	case []any:
		return s, true
	case []float64:
		out := make([]any, len(s))
		for i, x := range s {
			out[i] = x
		}
		return out, true
	case []int:
		out := make([]any, len(s))
		for i, x := range s {
			out[i] = x
		}
		return out, true
	}
	return nil, false
}
