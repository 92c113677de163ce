package rrv

import (
	"context"
	"fmt"
	"os"

	"github.com/respira-lab/respira/internal/core/signal"
	"gopkg.in/yaml.v3"
)

// Static is a Computer that returns a fixed metric map regardless of input.
// It serves deployments whose real collaborator runs out-of-process (metrics
// precomputed per session) and deterministic pipeline tests.
type Static struct {
	Metrics map[string]float64
}

// Compute returns the configured metrics. Every required key must be present.
func (s Static) Compute(_ context.Context, _ *signal.Recording, _ int) (map[string]any, error) {
	out := make(map[string]any, len(s.Metrics))
	for key, value := range s.Metrics {
		out[key] = value
	}
	for _, key := range MetricKeys {
		if _, ok := s.Metrics[key]; !ok {
			return nil, fmt.Errorf("static metrics missing required key %q", key)
		}
	}
	return out, nil
}

// Zero returns a Static computer with every required metric set to 0.
func Zero() Static {
	metrics := make(map[string]float64, len(MetricKeys))
	for _, key := range MetricKeys {
		metrics[key] = 0
	}
	return Static{Metrics: metrics}
}

// LoadStatic reads a YAML file mapping metric name to value and returns a
// Static computer. The file must cover the full required key set.
func LoadStatic(path string) (Static, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Static{}, fmt.Errorf("reading rrv metrics file: %w", err)
	}

	var metrics map[string]float64
	if err := yaml.Unmarshal(data, &metrics); err != nil {
		return Static{}, fmt.Errorf("parsing rrv metrics file %s: %w", path, err)
	}

	for _, key := range MetricKeys {
		if _, ok := metrics[key]; !ok {
			return Static{}, fmt.Errorf("rrv metrics file %s missing required key %q", path, key)
		}
	}

	return Static{Metrics: metrics}, nil
}
