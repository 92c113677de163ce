package analysis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/respira-lab/respira/internal/core/signal"
	"github.com/respira-lab/respira/internal/core/storage"
	"github.com/respira-lab/respira/internal/intervals"
	"github.com/respira-lab/respira/internal/rrv"
)

// Service runs interval-related feature extraction and, when a store is
// configured, persists the resulting tables for later group-level queries.
// Calls share no mutable state, so one Service is safe for concurrent use.
type Service struct {
	computer     rrv.Computer
	store        storage.FeatureStore // nil disables persistence
	samplingRate int
	nowFn        func() time.Time
	newID        func() uuid.UUID
}

// NewService creates an analysis service. store may be nil; computer must
// not be.
func NewService(computer rrv.Computer, store storage.FeatureStore, samplingRate int) *Service {
	if computer == nil {
		panic("analysis: rrv computer must not be nil")
	}
	if samplingRate <= 0 {
		samplingRate = intervals.DefaultSamplingRate
	}
	return &Service{
		computer:     computer,
		store:        store,
		samplingRate: samplingRate,
		nowFn: func() time.Time {
			return time.Now().UTC()
		},
		newID: uuid.New,
	}
}

// AnalyzeRecording extracts the full feature row (means + variability
// metrics) from one recording. A samplingRate of 0 uses the server default.
// Returns the persisted analysis ID, or uuid.Nil when persistence is off.
func (s *Service) AnalyzeRecording(ctx context.Context, rec *signal.Recording, samplingRate int) (uuid.UUID, *intervals.ResultTable, error) {
	if samplingRate <= 0 {
		samplingRate = s.samplingRate
	}

	table, err := intervals.AnalyzeRecording(ctx, rec, s.computer, samplingRate)
	if err != nil {
		return uuid.Nil, nil, err
	}

	id, err := s.persist(ctx, storage.KindInterval, table)
	if err != nil {
		return uuid.Nil, nil, err
	}
	return id, table, nil
}

// AnalyzeEpochs extracts per-epoch rate and amplitude means from a named
// collection of recordings.
func (s *Service) AnalyzeEpochs(ctx context.Context, epochs signal.Collection) (uuid.UUID, *intervals.ResultTable, error) {
	table, err := intervals.AnalyzeCollection(epochs)
	if err != nil {
		return uuid.Nil, nil, err
	}

	id, err := s.persist(ctx, storage.KindEpochs, table)
	if err != nil {
		return uuid.Nil, nil, err
	}
	return id, table, nil
}

// GetFeatures returns a previously persisted feature table.
func (s *Service) GetFeatures(ctx context.Context, id uuid.UUID) (*intervals.ResultTable, error) {
	if s.store == nil {
		return nil, storage.ErrNotFound
	}
	return s.store.GetResult(ctx, id)
}

// ListAnalyses returns stored analysis headers, newest first.
func (s *Service) ListAnalyses(ctx context.Context, limit int) ([]storage.Analysis, error) {
	if s.store == nil {
		return nil, nil
	}
	return s.store.ListAnalyses(ctx, limit)
}

func (s *Service) persist(ctx context.Context, kind string, table *intervals.ResultTable) (uuid.UUID, error) {
	if s.store == nil {
		return uuid.Nil, nil
	}

	analysis := storage.Analysis{
		ID:        s.newID(),
		Kind:      kind,
		RowCount:  table.Len(),
		CreatedAt: s.nowFn(),
	}
	if err := s.store.SaveResult(ctx, analysis, table); err != nil {
		return uuid.Nil, fmt.Errorf("persisting %s analysis: %w", kind, err)
	}

	slog.Info("Persisted analysis",
		"analysis_id", analysis.ID,
		"kind", kind,
		"rows", analysis.RowCount)
	return analysis.ID, nil
}
