// Package report renders comparison results as colorized text blocks,
// one per (domain, record type) pair, plus an end-of-run summary.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/sudo-tiz/dns-compare-go/internal/compare"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
)

// Reporter writes comparison blocks to w. Quiet mode suppresses success
// blocks only; warnings and errors are always printed.
type Reporter struct {
	w         io.Writer
	primary   string
	secondary string
	quiet     bool
	color     bool

	success int
	warning int
	failure int
}

// New creates a reporter. primary and secondary identify the nameservers in
// warning and error blocks.
func New(w io.Writer, primary, secondary string, quiet, color bool) *Reporter {
	return &Reporter{w: w, primary: primary, secondary: secondary, quiet: quiet, color: color}
}

// Report prints one comparison block unless it is a quiet-suppressed success.
// Counting happens before filtering so the summary stays complete.
func (r *Reporter) Report(c compare.Comparison) {
	switch c.Outcome {
	case compare.OutcomeSuccess:
		r.success++
		if r.quiet {
			return
		}
		fmt.Fprintf(r.w, "%sSuccess! %s - %s record.\nResponse:\n%s%s\n\n",
			r.paint(colorGreen), c.Domain, c.QType, joinAnswers(c.Primary.Answers), r.unpaint())
	case compare.OutcomeWarning:
		r.warning++
		fmt.Fprintf(r.w, "%sWarning! At least 1 response was unobtainable, which means we were "+
			"unable to get any type of response. This could have happened because of an error.\n"+
			"Please manually verify the check for: %s - %s record.\n"+
			"Primary NS (%s):\n%s\nSecondary NS (%s):\n%s%s\n\n",
			r.paint(colorYellow), c.Domain, c.QType,
			r.primary, joinAnswers(c.Primary.Answers),
			r.secondary, joinAnswers(c.Secondary.Answers), r.unpaint())
	case compare.OutcomeError:
		r.failure++
		fmt.Fprintf(r.w, "%sError! Difference in DNS responses for %s - %s record.\n"+
			"Primary NS (%s):\n%s\nSecondary NS (%s):\n%s%s\n\n",
			r.paint(colorRed), c.Domain, c.QType,
			r.primary, joinAnswers(c.Primary.Answers),
			r.secondary, joinAnswers(c.Secondary.Answers), r.unpaint())
	}
}

// Summary prints per-outcome totals for the whole run.
func (r *Reporter) Summary() {
	fmt.Fprintf(r.w, "--------- Summary ---------\n")
	fmt.Fprintf(r.w, "%sSuccess:  %d%s\n", r.paint(colorGreen), r.success, r.unpaint())
	fmt.Fprintf(r.w, "%sWarning:  %d%s\n", r.paint(colorYellow), r.warning, r.unpaint())
	fmt.Fprintf(r.w, "%sError:    %d%s\n", r.paint(colorRed), r.failure, r.unpaint())
}

// HasFailures reports whether any warning or error outcome was seen.
func (r *Reporter) HasFailures() bool {
	return r.warning > 0 || r.failure > 0
}

func (r *Reporter) paint(code string) string {
	if !r.color {
		return ""
	}
	return code
}

func (r *Reporter) unpaint() string {
	if !r.color {
		return ""
	}
	return colorReset
}

// joinAnswers renders an answer list one value per line. Timeout and empty
// results have no answers and render as a single empty line, the way the
// original tool printed its sentinels.
func joinAnswers(answers []string) string {
	return strings.Join(answers, "\n")
}
