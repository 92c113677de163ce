// Package intervals aggregates processed respiratory recordings into one
// scalar feature row per recording, for group-level analysis of longer
// (typically resting-state) periods.
//
// A single recording yields rate and amplitude means plus the full
// variability metric set from the rrv collaborator, all under the RSP_
// prefix. A named collection of recordings (epochs) yields one row per
// epoch with rate and amplitude means only.
package intervals

import (
	"context"
	"fmt"

	"github.com/respira-lab/respira/internal/core/signal"
	"github.com/respira-lab/respira/internal/core/stats"
	"github.com/respira-lab/respira/internal/rrv"
)

const (
	rateColumn      = "RSP_Rate"
	amplitudeColumn = "RSP_Amplitude"
	outputPrefix    = "RSP_"

	// DefaultSamplingRate is assumed when the caller supplies none, in
	// samples per second. It is passed through to the rrv collaborator
	// unchanged and not otherwise validated here.
	DefaultSamplingRate = 1000
)

// Analyze dispatches on the shape of input: a *signal.Recording runs the
// single-recording path (with variability metrics), a signal.Collection runs
// the per-epoch path (means only). Any other shape fails with
// ErrInvalidInput.
func Analyze(ctx context.Context, input any, computer rrv.Computer, samplingRate int) (*ResultTable, error) {
	switch data := input.(type) {
	case *signal.Recording:
		return AnalyzeRecording(ctx, data, computer, samplingRate)
	case signal.Collection:
		return AnalyzeCollection(data)
	case map[string]*signal.Recording:
		return AnalyzeCollection(signal.Collection(data))
	default:
		return nil, fmt.Errorf("%w: got %T", ErrInvalidInput, input)
	}
}

// AnalyzeRecording extracts interval-related features from one recording.
// Exactly one column matching RSP_Rate and one matching RSP_Amplitude must
// be present; ambiguity counts as absence. The first failing validation
// aborts the call; no partial row is returned. The variability collaborator
// is invoked after rate validation and before amplitude validation.
func AnalyzeRecording(ctx context.Context, rec *signal.Recording, computer rrv.Computer, samplingRate int) (*ResultTable, error) {
	if samplingRate <= 0 {
		samplingRate = DefaultSamplingRate
	}

	features := NewFeatureRow()

	rateCols := rec.MatchColumns(rateColumn)
	if len(rateCols) != 1 {
		return nil, &MissingColumnError{Fragment: rateColumn, Matches: len(rateCols)}
	}
	rate, _ := rec.Column(rateCols[0])
	features.Set("Rate_Mean", stats.Mean(rate))

	if computer == nil {
		return nil, fmt.Errorf("%w: no collaborator configured", ErrRRV)
	}
	metrics, err := computer.Compute(ctx, rec, samplingRate)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRRV, err)
	}
	for _, key := range rrv.MetricKeys {
		raw, ok := metrics[key]
		if !ok {
			return nil, fmt.Errorf("%w: collaborator omitted metric %q", ErrRRV, key)
		}
		value, ok := rrv.FloatValue(raw)
		if !ok {
			return nil, fmt.Errorf("%w: metric %q is not numeric (%T)", ErrRRV, key, raw)
		}
		features.Set("RRV_"+key, value)
	}

	ampCols := rec.MatchColumns(amplitudeColumn)
	if len(ampCols) != 1 {
		return nil, &MissingColumnError{Fragment: amplitudeColumn, Matches: len(ampCols)}
	}
	amplitude, _ := rec.Column(ampCols[0])
	features.Set("Amplitude_Mean", stats.Mean(amplitude))

	prefixed := NewFeatureRow()
	for _, key := range features.Keys() {
		value, _ := features.Get(key)
		prefixed.Set(outputPrefix+key, value)
	}

	table := NewResultTable()
	table.Append("0", prefixed)
	return table, nil
}

// AnalyzeCollection extracts rate and amplitude means per named recording.
// Rows are emitted in sorted epoch-name order, labelled by epoch name. A
// validation failure on any epoch aborts the whole call.
//
// Unlike the single-recording path, epochs are validated for column absence
// only (any match count >= 1 passes) and the means are then read from the
// exact column names.
func AnalyzeCollection(epochs signal.Collection) (*ResultTable, error) {
	table := NewResultTable()
	for _, name := range epochs.Names() {
		features, err := epochFeatures(epochs[name])
		if err != nil {
			return nil, fmt.Errorf("epoch %q: %w", name, err)
		}
		table.Append(name, features)
	}
	return table, nil
}

func epochFeatures(rec *signal.Recording) (*FeatureRow, error) {
	if len(rec.MatchColumns(rateColumn)) == 0 {
		return nil, &MissingColumnError{Fragment: rateColumn}
	}
	if len(rec.MatchColumns(amplitudeColumn)) == 0 {
		return nil, &MissingColumnError{Fragment: amplitudeColumn}
	}

	rate, ok := rec.Column(rateColumn)
	if !ok {
		return nil, &MissingColumnError{Fragment: rateColumn}
	}
	amplitude, ok := rec.Column(amplitudeColumn)
	if !ok {
		return nil, &MissingColumnError{Fragment: amplitudeColumn}
	}

	features := NewFeatureRow()
	features.Set(outputPrefix+"Rate_Mean", stats.Mean(rate))
	features.Set(outputPrefix+"Amplitude_Mean", stats.Mean(amplitude))
	return features, nil
}
