package analysis

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/respira-lab/respira/internal/core/signal"
	"github.com/respira-lab/respira/internal/core/storage"
	"github.com/respira-lab/respira/internal/intervals"
	"github.com/respira-lab/respira/internal/rrv"
	"github.com/stretchr/testify/require"
)

// memoryStore is an in-memory FeatureStore for service tests.
type memoryStore struct {
	saved   map[uuid.UUID]*intervals.ResultTable
	headers []storage.Analysis
	saveErr error
}

func newMemoryStore() *memoryStore {
	return &memoryStore{saved: make(map[uuid.UUID]*intervals.ResultTable)}
}

func (m *memoryStore) SaveResult(_ context.Context, analysis storage.Analysis, table *intervals.ResultTable) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved[analysis.ID] = table
	m.headers = append(m.headers, analysis)
	return nil
}

func (m *memoryStore) GetResult(_ context.Context, id uuid.UUID) (*intervals.ResultTable, error) {
	table, ok := m.saved[id]
	if !ok {
		return nil, storage.ErrNotFound
	}
	return table, nil
}

func (m *memoryStore) ListAnalyses(_ context.Context, limit int) ([]storage.Analysis, error) {
	if limit > len(m.headers) {
		limit = len(m.headers)
	}
	return m.headers[:limit], nil
}

func testRecording(t *testing.T) *signal.Recording {
	t.Helper()
	rec := signal.NewRecording()
	require.NoError(t, rec.AddColumn("RSP_Rate", []float64{10, 12, 14}))
	require.NoError(t, rec.AddColumn("RSP_Amplitude", []float64{0.5, 0.7, 0.6}))
	return rec
}

func TestService_AnalyzeRecordingPersists(t *testing.T) {
	store := newMemoryStore()
	svc := NewService(rrv.Zero(), store, 100)
	svc.nowFn = func() time.Time { return time.Date(2026, 8, 20, 9, 0, 0, 0, time.UTC) }

	id, table, err := svc.AnalyzeRecording(context.Background(), testRecording(t), 0)
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, id)
	require.Equal(t, 1, table.Len())
	require.Len(t, table.Columns(), 17)

	stored, err := svc.GetFeatures(context.Background(), id)
	require.NoError(t, err)
	require.Equal(t, table.Columns(), stored.Columns())

	analyses, err := svc.ListAnalyses(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, analyses, 1)
	require.Equal(t, storage.KindInterval, analyses[0].Kind)
	require.Equal(t, 1, analyses[0].RowCount)
}

func TestService_AnalyzeRecordingWithoutStore(t *testing.T) {
	svc := NewService(rrv.Zero(), nil, 100)

	id, table, err := svc.AnalyzeRecording(context.Background(), testRecording(t), 0)
	require.NoError(t, err)
	require.Equal(t, uuid.Nil, id)
	require.Equal(t, 1, table.Len())

	_, err = svc.GetFeatures(context.Background(), uuid.New())
	require.ErrorIs(t, err, storage.ErrNotFound)
}

func TestService_AnalyzeRecordingStoreFailureAborts(t *testing.T) {
	store := newMemoryStore()
	store.saveErr = errors.New("connection reset")
	svc := NewService(rrv.Zero(), store, 100)

	_, _, err := svc.AnalyzeRecording(context.Background(), testRecording(t), 0)
	require.Error(t, err)
	require.Contains(t, err.Error(), "persisting interval analysis")
}

func TestService_AnalyzeEpochs(t *testing.T) {
	store := newMemoryStore()
	svc := NewService(rrv.Zero(), store, 100)

	epochs := signal.Collection{
		"A": testRecording(t),
		"B": testRecording(t),
	}

	id, table, err := svc.AnalyzeEpochs(context.Background(), epochs)
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, id)
	require.Equal(t, 2, table.Len())
	require.Equal(t, []string{"RSP_Rate_Mean", "RSP_Amplitude_Mean"}, table.Columns())

	analyses, err := svc.ListAnalyses(context.Background(), 10)
	require.NoError(t, err)
	require.Equal(t, storage.KindEpochs, analyses[0].Kind)
}

func TestService_AnalyzeEpochsValidationFailureDoesNotPersist(t *testing.T) {
	store := newMemoryStore()
	svc := NewService(rrv.Zero(), store, 100)

	bad := signal.NewRecording()
	require.NoError(t, bad.AddColumn("RSP_Amplitude", []float64{0.5}))

	_, _, err := svc.AnalyzeEpochs(context.Background(), signal.Collection{"bad": bad})
	require.ErrorIs(t, err, intervals.ErrMissingColumn)
	require.Empty(t, store.saved)
}

func TestNewService_PanicsWithoutComputer(t *testing.T) {
	require.Panics(t, func() {
		NewService(nil, nil, 100)
	})
}
