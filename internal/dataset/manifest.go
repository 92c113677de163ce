package dataset

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/respira-lab/respira/internal/core/signal"
	"gopkg.in/yaml.v3"
)

// Manifest describes a named set of epoch recordings on disk. CSV paths are
// resolved relative to the manifest file unless absolute.
type Manifest struct {
	// SamplingRate applies to every epoch; optional, 0 means caller default.
	SamplingRate int `yaml:"sampling_rate"`

	// Epochs maps epoch name to the recording CSV path.
	Epochs map[string]string `yaml:"epochs"`

	dir string
}

// LoadManifest reads and validates an epoch manifest YAML file.
func LoadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}

	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}

	if len(m.Epochs) == 0 {
		return nil, fmt.Errorf("manifest %s declares no epochs", path)
	}
	if m.SamplingRate < 0 {
		return nil, fmt.Errorf("manifest %s: sampling_rate must not be negative", path)
	}
	for name, csvPath := range m.Epochs {
		if name == "" {
			return nil, fmt.Errorf("manifest %s: epoch name must not be empty", path)
		}
		if csvPath == "" {
			return nil, fmt.Errorf("manifest %s: epoch %q has no recording path", path, name)
		}
	}

	m.dir = filepath.Dir(path)
	return &m, nil
}

// LoadCollection loads every epoch recording declared by the manifest.
func (m *Manifest) LoadCollection() (signal.Collection, error) {
	epochs := make(signal.Collection, len(m.Epochs))
	for name, csvPath := range m.Epochs {
		if !filepath.IsAbs(csvPath) {
			csvPath = filepath.Join(m.dir, csvPath)
		}
		rec, err := LoadRecording(csvPath)
		if err != nil {
			return nil, fmt.Errorf("epoch %q: %w", name, err)
		}
		epochs[name] = rec
	}
	return epochs, nil
}
