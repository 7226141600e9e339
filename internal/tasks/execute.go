package tasks

import (
	"context"
	"time"

	"github.com/sudo-tiz/dns-compare-go/internal/compare"
	"github.com/sudo-tiz/dns-compare-go/internal/input"
	"github.com/sudo-tiz/dns-compare-go/internal/models"
	"github.com/sudo-tiz/dns-compare-go/internal/runner"
)

// ExecuteCompare runs a validated comparison request to completion and
// aggregates the results. Shared by the in-memory backend and the Asynq
// worker so both modes produce identical payloads.
func ExecuteCompare(ctx context.Context, req models.CompareRequest, q runner.Querier) (*models.CompareResults, error) {
	entries := make([]input.Entry, 0, len(req.Entries))
	for _, e := range req.Entries {
		entries = append(entries, input.Entry{Domain: e.Domain, QTypes: e.QTypes})
	}

	results := &models.CompareResults{
		Primary:   req.Primary,
		Secondary: req.Secondary,
		Details:   []models.ComparisonResult{},
	}

	start := time.Now()
	r := runner.New(q, req.Primary, req.Secondary)
	err := r.Run(ctx, entries, func(c compare.Comparison) {
		results.Details = append(results.Details, models.NewComparisonResult(c))
		switch c.Outcome {
		case compare.OutcomeSuccess:
			results.Success++
		case compare.OutcomeWarning:
			results.Warning++
		case compare.OutcomeError:
			results.Error++
		}
	})
	results.Duration = time.Since(start).Seconds()

	if err != nil {
		return nil, err
	}
	return results, nil
}
