package dataset

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestLoadManifest_LoadCollection(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "baseline.csv"), "RSP_Rate,RSP_Amplitude\n14,0.8\n16,1.0\n")
	writeFile(t, filepath.Join(dir, "stimulus.csv"), "RSP_Rate,RSP_Amplitude\n18,1.0\n22,1.2\n")

	manifestPath := filepath.Join(dir, "epochs.yaml")
	writeFile(t, manifestPath, `
sampling_rate: 100
epochs:
  baseline: baseline.csv
  stimulus: stimulus.csv
`)

	m, err := LoadManifest(manifestPath)
	require.NoError(t, err)
	require.Equal(t, 100, m.SamplingRate)
	require.Len(t, m.Epochs, 2)

	epochs, err := m.LoadCollection()
	require.NoError(t, err)
	require.Equal(t, []string{"baseline", "stimulus"}, epochs.Names())

	rate, ok := epochs["baseline"].Column("RSP_Rate")
	require.True(t, ok)
	require.Equal(t, []float64{14, 16}, rate)
}

func TestLoadManifest_Failures(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name    string
		content string
	}{
		{name: "no epochs", content: "sampling_rate: 100\n"},
		{name: "negative sampling rate", content: "sampling_rate: -1\nepochs:\n  a: a.csv\n"},
		{name: "empty path", content: "epochs:\n  a: \"\"\n"},
		{name: "malformed yaml", content: "epochs: [a, b\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(dir, "manifest.yaml")
			writeFile(t, path, tc.content)
			_, err := LoadManifest(path)
			require.Error(t, err)
		})
	}

	t.Run("missing file", func(t *testing.T) {
		_, err := LoadManifest(filepath.Join(dir, "nope.yaml"))
		require.Error(t, err)
	})
}

func TestLoadCollection_MissingRecordingFails(t *testing.T) {
	dir := t.TempDir()
	manifestPath := filepath.Join(dir, "epochs.yaml")
	writeFile(t, manifestPath, "epochs:\n  gone: gone.csv\n")

	m, err := LoadManifest(manifestPath)
	require.NoError(t, err)

	_, err = m.LoadCollection()
	require.Error(t, err)
	require.Contains(t, err.Error(), `epoch "gone"`)
}
