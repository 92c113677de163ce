package rrv

import (
	"context"
	"strconv"

	"github.com/respira-lab/respira/internal/core/signal"
)

// MetricKeys is the required respiratory-rate-variability metric set, in the
// order the keys appear in output feature rows. A Computer must produce every
// key; callers treat a missing key as a failed computation.
var MetricKeys = []string{
	"SDBB", "RMSSD", "SDSD",
	"VLF", "LF", "HF", "LFHF", "LFn", "HFn",
	"SD1", "SD2", "SD2SD1",
	"ApEn", "SampEn", "DFA",
}

// Computer computes respiratory-rate-variability metrics for a recording.
// The metric internals (frequency-domain, Poincaré, entropy, fractal) live
// behind this interface; this module only consumes the result.
type Computer interface {
	Compute(ctx context.Context, rec *signal.Recording, samplingRate int) (map[string]any, error)
}

// ComputerFunc adapts a plain function to the Computer interface.
type ComputerFunc func(ctx context.Context, rec *signal.Recording, samplingRate int) (map[string]any, error)

func (f ComputerFunc) Compute(ctx context.Context, rec *signal.Recording, samplingRate int) (map[string]any, error) {
	return f(ctx, rec, samplingRate)
}

// FloatValue coerces a metric value produced by a Computer to float64.
// JSON numbers decode to float64, the common path; integer and string forms
// are accepted for collaborators wired over other transports.
func FloatValue(v any) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int64:
		return float64(val), true
	case int32:
		return float64(val), true
	case string:
		f, err := strconv.ParseFloat(val, 64)
		if err == nil {
			return f, true
		}
	}
	return 0, false
}
