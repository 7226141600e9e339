// Package compare classifies pairs of query results from the primary and
// secondary nameservers.
package compare

import (
	"fmt"

	"github.com/sudo-tiz/dns-compare-go/internal/resolver"
)

// Outcome classifies one comparison.
type Outcome int

const (
	// OutcomeSuccess means both nameservers returned element-wise equal
	// answer sets (including both empty).
	OutcomeSuccess Outcome = iota
	// OutcomeWarning means at least one response was unobtainable
	// (timeout), so the pair needs manual follow-up.
	OutcomeWarning
	// OutcomeError means both responses were obtained and they differ.
	OutcomeError
)

// String implements fmt.Stringer for reports, metrics and API payloads.
func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeWarning:
		return "warning"
	case OutcomeError:
		return "error"
	default:
		return fmt.Sprintf("outcome(%d)", int(o))
	}
}

// Comparison carries everything needed to report one (domain, qtype) pair.
type Comparison struct {
	Domain    string
	QType     string
	Primary   resolver.Result
	Secondary resolver.Result
	Outcome   Outcome
}

// Compare classifies a result pair. Classification order, first match wins:
// any timeout -> warning, equal answers -> success, otherwise error.
func Compare(domain, qtype string, primary, secondary resolver.Result) Comparison {
	c := Comparison{
		Domain:    domain,
		QType:     qtype,
		Primary:   primary,
		Secondary: secondary,
	}

	switch {
	case primary.Status == resolver.StatusTimeout || secondary.Status == resolver.StatusTimeout:
		c.Outcome = OutcomeWarning
	case primary.Status == secondary.Status && equalAnswers(primary.Answers, secondary.Answers):
		c.Outcome = OutcomeSuccess
	default:
		c.Outcome = OutcomeError
	}
	return c
}

// equalAnswers is exact ordinal sequence equality. Answers are pre-sorted by
// the resolver, so this is set equality that still catches differing
// multiplicities ([A A B] != [A B]).
func equalAnswers(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
