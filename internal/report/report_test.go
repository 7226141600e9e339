package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/sudo-tiz/dns-compare-go/internal/compare"
	"github.com/sudo-tiz/dns-compare-go/internal/resolver"
)

const (
	primaryNS   = "udp://208.67.222.222:53"
	secondaryNS = "udp://9.9.9.9:53"
)

func success() compare.Comparison {
	return compare.Compare("example.org", "A",
		resolver.Result{Status: resolver.StatusAnswers, Answers: []string{"1.2.3.4"}},
		resolver.Result{Status: resolver.StatusAnswers, Answers: []string{"1.2.3.4"}})
}

func mismatch() compare.Comparison {
	return compare.Compare("example.org", "A",
		resolver.Result{Status: resolver.StatusAnswers, Answers: []string{"1.2.3.4"}},
		resolver.Result{Status: resolver.StatusAnswers, Answers: []string{"5.6.7.8"}})
}

func timedOut() compare.Comparison {
	return compare.Compare("example.org", "MX",
		resolver.Result{Status: resolver.StatusAnswers, Answers: []string{"10 mail.example.org"}},
		resolver.Result{Status: resolver.StatusTimeout})
}

func TestReportSuccess(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, primaryNS, secondaryNS, false, false)

	r.Report(success())

	out := buf.String()
	if !strings.Contains(out, "Success! example.org - A record.") {
		t.Errorf("missing success line in output:\n%s", out)
	}
	if !strings.Contains(out, "1.2.3.4") {
		t.Errorf("missing shared response in output:\n%s", out)
	}
}

func TestReportError(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, primaryNS, secondaryNS, false, false)

	r.Report(mismatch())

	out := buf.String()
	if !strings.Contains(out, "Error! Difference in DNS responses for example.org - A record.") {
		t.Errorf("missing error line in output:\n%s", out)
	}
	for _, want := range []string{"1.2.3.4", "5.6.7.8", primaryNS, secondaryNS} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %q in output:\n%s", want, out)
		}
	}
}

func TestReportWarning(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, primaryNS, secondaryNS, false, false)

	r.Report(timedOut())

	out := buf.String()
	if !strings.Contains(out, "Warning!") {
		t.Errorf("missing warning in output:\n%s", out)
	}
	if !strings.Contains(out, "example.org - MX record") {
		t.Errorf("missing pair identification in output:\n%s", out)
	}
}

func TestQuietSuppressesOnlySuccess(t *testing.T) {
	var loud, quiet bytes.Buffer
	loudReporter := New(&loud, primaryNS, secondaryNS, false, false)
	quietReporter := New(&quiet, primaryNS, secondaryNS, true, false)

	for _, c := range []compare.Comparison{success(), timedOut(), mismatch()} {
		loudReporter.Report(c)
		quietReporter.Report(c)
	}

	if strings.Contains(quiet.String(), "Success!") {
		t.Errorf("quiet mode printed a success block:\n%s", quiet.String())
	}

	// Warning and error blocks are byte-identical with and without quiet.
	loudTail := strings.SplitN(loud.String(), "Warning!", 2)
	quietTail := strings.SplitN(quiet.String(), "Warning!", 2)
	if len(loudTail) != 2 || len(quietTail) != 2 || loudTail[1] != quietTail[1] {
		t.Error("warning/error output differs between quiet and non-quiet mode")
	}
}

func TestSummaryCountsIncludeSuppressed(t *testing.T) {
	var buf bytes.Buffer
	r := New(&buf, primaryNS, secondaryNS, true, false)

	r.Report(success())
	r.Report(success())
	r.Report(mismatch())
	r.Summary()

	out := buf.String()
	if !strings.Contains(out, "Success:  2") {
		t.Errorf("summary missing suppressed successes:\n%s", out)
	}
	if !strings.Contains(out, "Error:    1") {
		t.Errorf("summary missing error count:\n%s", out)
	}
	if !r.HasFailures() {
		t.Error("HasFailures() = false, want true")
	}
}

func TestColorToggle(t *testing.T) {
	var plain, colored bytes.Buffer
	New(&plain, primaryNS, secondaryNS, false, false).Report(success())
	New(&colored, primaryNS, secondaryNS, false, true).Report(success())

	if strings.Contains(plain.String(), "\033[") {
		t.Error("plain output contains ANSI escapes")
	}
	if !strings.Contains(colored.String(), "\033[32m") {
		t.Error("colored output missing green escape")
	}
}
