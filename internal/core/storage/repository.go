package storage

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/respira-lab/respira/internal/intervals"
)

// ErrNotFound is returned when no analysis exists for the requested ID.
var ErrNotFound = errors.New("analysis not found")

// Analysis kinds. Interval analyses carry the full variability metric set;
// epoch analyses carry per-epoch means only.
const (
	KindInterval = "interval"
	KindEpochs   = "epochs"
)

// Analysis is the stored header of one feature-extraction run.
type Analysis struct {
	ID        uuid.UUID
	Kind      string
	RowCount  int
	CreatedAt time.Time
}

// FeatureStore persists extracted feature tables for later group-level
// queries.
type FeatureStore interface {
	// SaveResult stores the analysis header and every feature value of the
	// table atomically.
	SaveResult(ctx context.Context, analysis Analysis, table *intervals.ResultTable) error

	// GetResult reconstructs the stored table, preserving row and feature
	// order. Returns ErrNotFound for an unknown analysis ID.
	GetResult(ctx context.Context, id uuid.UUID) (*intervals.ResultTable, error)

	// ListAnalyses returns stored analysis headers, newest first.
	ListAnalyses(ctx context.Context, limit int) ([]Analysis, error)
}
