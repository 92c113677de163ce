package analysis

import (
	"fmt"

	"github.com/respira-lab/respira/internal/core/signal"
	"github.com/respira-lab/respira/internal/report"
)

// ColumnPayload is one named column of a recording in an API request.
type ColumnPayload struct {
	Name   string    `json:"name" binding:"required"`
	Values []float64 `json:"values"`
}

// RecordingPayload is the wire form of a processed recording.
type RecordingPayload struct {
	Columns []ColumnPayload `json:"columns" binding:"required"`
}

// AnalyzeRequest is the body of POST /v1/analyze.
type AnalyzeRequest struct {
	SamplingRate int              `json:"sampling_rate"` // 0 means server default
	Recording    RecordingPayload `json:"recording" binding:"required"`
}

// EpochsRequest is the body of POST /v1/epochs/analyze.
type EpochsRequest struct {
	Epochs map[string]RecordingPayload `json:"epochs" binding:"required"`
}

// AnalyzeResponse carries the extracted feature table. AnalysisID is set
// only when the result was persisted.
type AnalyzeResponse struct {
	AnalysisID string       `json:"analysis_id,omitempty"`
	Kind       string       `json:"kind"`
	Table      report.Table `json:"table"`
}

// toRecording converts the wire form into a Recording, enforcing the same
// column constraints (unique names, equal lengths).
func (p RecordingPayload) toRecording() (*signal.Recording, error) {
	if len(p.Columns) == 0 {
		return nil, fmt.Errorf("recording has no columns")
	}
	rec := signal.NewRecording()
	for _, col := range p.Columns {
		if err := rec.AddColumn(col.Name, col.Values); err != nil {
			return nil, err
		}
	}
	return rec, nil
}
