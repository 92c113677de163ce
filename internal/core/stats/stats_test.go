package stats

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMean(t *testing.T) {
	tests := []struct {
		name   string
		values []float64
		want   float64
	}{
		{name: "empty", values: nil, want: 0},
		{name: "single", values: []float64{7}, want: 7},
		{name: "rates", values: []float64{10, 12, 14}, want: 12},
		{name: "amplitudes", values: []float64{0.5, 0.7, 0.6}, want: 0.6},
		{name: "negatives", values: []float64{-1, 1}, want: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.InDelta(t, tc.want, Mean(tc.values), 1e-12)
		})
	}
}
