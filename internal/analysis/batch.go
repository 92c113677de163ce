package analysis

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/respira-lab/respira/internal/dataset"
	"github.com/respira-lab/respira/internal/intervals"
	"golang.org/x/sync/errgroup"
)

// AnalyzeFiles runs the single-recording path over many recording CSV files
// concurrently. Analyses share no state, so each file is one independent
// call; the merged table keeps the input file order, one row per file,
// labelled by file stem. The first failure cancels outstanding work and
// fails the whole batch.
//
// Batch results are not persisted; batch mode is a one-shot export path.
func (s *Service) AnalyzeFiles(ctx context.Context, paths []string, samplingRate, workers int) (*intervals.ResultTable, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no recording files supplied")
	}
	if samplingRate <= 0 {
		samplingRate = s.samplingRate
	}
	if workers <= 0 {
		workers = 1
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	tables := make([]*intervals.ResultTable, len(paths))
	for i, path := range paths {
		g.Go(func() error {
			rec, err := dataset.LoadRecording(path)
			if err != nil {
				return err
			}
			table, err := intervals.AnalyzeRecording(ctx, rec, s.computer, samplingRate)
			if err != nil {
				return fmt.Errorf("recording %s: %w", path, err)
			}
			tables[i] = table
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := intervals.NewResultTable()
	for i, path := range paths {
		merged.Append(fileStem(path), tables[i].Rows()[0].Features)
	}
	return merged, nil
}

func fileStem(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
