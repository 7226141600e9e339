// Package runner drives a comparison run: for every entry and record type,
// query the primary then the secondary nameserver, strictly sequentially,
// and emit the comparison in input order.
package runner

import (
	"context"

	"github.com/sudo-tiz/dns-compare-go/internal/compare"
	"github.com/sudo-tiz/dns-compare-go/internal/input"
	"github.com/sudo-tiz/dns-compare-go/internal/metrics"
	"github.com/sudo-tiz/dns-compare-go/internal/resolver"
)

// Querier issues a single DNS query against one nameserver target.
// resolver.Client is the production implementation.
type Querier interface {
	Query(ctx context.Context, target, domain, qtype string) (resolver.Result, error)
}

// Runner holds the run configuration. One query is in flight at any time;
// parallelizing would only need one Querier per worker since the target is a
// per-call parameter.
type Runner struct {
	querier   Querier
	primary   string
	secondary string
}

// New creates a runner for a primary/secondary nameserver pair. Both targets
// must be prenormalized.
func New(q Querier, primary, secondary string) *Runner {
	return &Runner{querier: q, primary: primary, secondary: secondary}
}

// Run processes entries in order and calls emit for every comparison.
// A query error (invalid record type, cancellation) aborts the run; per-query
// network failures are comparison inputs, not errors.
func (r *Runner) Run(ctx context.Context, entries []input.Entry, emit func(compare.Comparison)) error {
	for _, entry := range entries {
		for _, qtype := range entry.QTypes {
			primaryResult, err := r.querier.Query(ctx, r.primary, entry.Domain, qtype)
			if err != nil {
				return err
			}
			secondaryResult, err := r.querier.Query(ctx, r.secondary, entry.Domain, qtype)
			if err != nil {
				return err
			}

			c := compare.Compare(entry.Domain, qtype, primaryResult, secondaryResult)
			metrics.ComparisonsTotal.WithLabelValues(c.Outcome.String()).Inc()
			emit(c)
		}
	}
	return nil
}
