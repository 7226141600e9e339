// Package resolver performs DNS queries using AdGuard dnsproxy for
// multi-protocol support (Do53, DoT, DoH, DoQ) and renders answers to
// sorted text so that two nameservers' responses compare byte for byte.
package resolver

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/AdguardTeam/dnsproxy/upstream"
	"github.com/miekg/dns"
	"github.com/sudo-tiz/dns-compare-go/internal/metrics"
	"github.com/sudo-tiz/dns-compare-go/internal/normalize"
)

// Status tags a query result. It replaces the empty-string / nil sentinels
// of the original Python tool with an explicit variant.
type Status int

const (
	// StatusAnswers means the nameserver returned one or more records.
	StatusAnswers Status = iota
	// StatusEmpty means a usable response with no records (NXDOMAIN, no
	// answer, or no reachable nameserver). Empty compares equal to Empty.
	StatusEmpty
	// StatusTimeout means the query timed out. A timeout on either side
	// makes the comparison a warning, never a success or error.
	StatusTimeout
)

// String implements fmt.Stringer for logs and API payloads.
func (s Status) String() string {
	switch s {
	case StatusAnswers:
		return "answers"
	case StatusEmpty:
		return "empty"
	case StatusTimeout:
		return "timeout"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Result is the outcome of one query against one nameserver.
// Answers are textually rendered and sorted ascending (ordinal sort).
type Result struct {
	Status  Status
	Answers []string
}

// Client issues queries with a fixed per-query timeout. The target
// nameserver is a per-call parameter, so a single Client is safe for
// concurrent use.
type Client struct {
	timeout            time.Duration
	insecureSkipVerify bool
}

// New creates a query client. timeout applies to each individual query.
func New(timeout time.Duration, insecureSkipVerify bool) *Client {
	return &Client{timeout: timeout, insecureSkipVerify: insecureSkipVerify}
}

// Query sends one question to the target nameserver and classifies the
// response. The target must be prenormalized (normalize.Target). The only
// error returns are an invalid record type and context cancellation; network
// failures are values, not errors.
func (c *Client) Query(ctx context.Context, target, domain, qtype string) (Result, error) {
	dnsType, ok := dns.StringToType[strings.ToUpper(qtype)]
	if !ok {
		metrics.QueryErrors.WithLabelValues(target, "invalid_qtype").Inc()
		return Result{}, fmt.Errorf("%s contains invalid DNS record type: %s", domain, qtype)
	}

	msg := new(dns.Msg)
	msg.SetQuestion(dns.Fqdn(domain), dnsType)
	msg.RecursionDesired = true

	start := time.Now()
	response, err := c.exchange(ctx, msg, target)
	elapsed := time.Since(start).Seconds()

	if ctx.Err() != nil {
		metrics.QueryErrors.WithLabelValues(target, "context_cancelled").Inc()
		return Result{}, fmt.Errorf("query cancelled: %w", ctx.Err())
	}

	if err != nil {
		if isTimeout(err) {
			slog.Warn("timeout while querying nameserver",
				"qtype", qtype, "domain", domain, "target", target)
			metrics.RecordQuery(target, qtype, StatusTimeout.String(), elapsed)
			return Result{Status: StatusTimeout}, nil
		}
		// Unreachable or refusing nameservers collapse into the empty
		// outcome, same as an answerless response.
		slog.Debug("query failed", "domain", domain, "qtype", qtype,
			"target", target, "error", err)
		metrics.QueryErrors.WithLabelValues(target, "query_failed").Inc()
		metrics.RecordQuery(target, qtype, StatusEmpty.String(), elapsed)
		return Result{Status: StatusEmpty}, nil
	}

	if response.Rcode != dns.RcodeSuccess || len(response.Answer) == 0 {
		metrics.RecordQuery(target, qtype, StatusEmpty.String(), elapsed)
		return Result{Status: StatusEmpty}, nil
	}

	answers := make([]string, 0, len(response.Answer))
	for _, rr := range response.Answer {
		answers = append(answers, renderAnswer(rr))
	}
	sort.Strings(answers)

	metrics.RecordQuery(target, qtype, StatusAnswers.String(), elapsed)
	return Result{Status: StatusAnswers, Answers: answers}, nil
}

// exchange delegates DNS query execution to AdGuard upstream library.
// A fresh upstream per call keeps the nameserver an immutable per-call
// value instead of shared mutable state.
func (c *Client) exchange(ctx context.Context, msg *dns.Msg, target string) (*dns.Msg, error) {
	opts := &upstream.Options{
		Timeout: c.timeout,
	}
	if c.insecureSkipVerify {
		// #nosec G402 - user-controlled for testing encrypted protocols
		opts.InsecureSkipVerify = true
	}

	// AdGuard upstream.AddressToUpstream handles scheme parsing, port
	// defaults, IPv6 brackets.
	up, err := upstream.AddressToUpstream(target, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create upstream: %w", err)
	}
	defer func() {
		_ = up.Close()
	}()

	// Run Exchange in goroutine to enable context cancellation.
	type exchangeResult struct {
		resp *dns.Msg
		err  error
	}
	resultCh := make(chan exchangeResult, 1)

	go func() {
		resp, err := up.Exchange(msg)
		resultCh <- exchangeResult{resp: resp, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("query cancelled: %w", ctx.Err())
	case res := <-resultCh:
		if res.err != nil {
			return nil, fmt.Errorf("DNS query failed: %w", res.err)
		}
		return res.resp, nil
	}
}

func isTimeout(err error) bool {
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}
	return os.IsTimeout(err) || errors.Is(err, context.DeadlineExceeded)
}

// renderAnswer converts a resource record to comparable text. Both
// nameservers' answers go through the same rendering, so formatting
// differences can never show up as mismatches.
func renderAnswer(rr dns.RR) string {
	switch v := rr.(type) {
	case *dns.A:
		return v.A.String()
	case *dns.AAAA:
		return v.AAAA.String()
	case *dns.CNAME:
		return strings.TrimSuffix(v.Target, ".")
	case *dns.MX:
		return fmt.Sprintf("%d %s", v.Preference, strings.TrimSuffix(v.Mx, "."))
	case *dns.NS:
		return strings.TrimSuffix(v.Ns, ".")
	case *dns.PTR:
		return strings.TrimSuffix(v.Ptr, ".")
	case *dns.TXT:
		return strings.Join(v.Txt, " ")
	case *dns.SOA:
		return fmt.Sprintf("%s %s %d %d %d %d %d",
			strings.TrimSuffix(v.Ns, "."),
			strings.TrimSuffix(v.Mbox, "."),
			v.Serial, v.Refresh, v.Retry, v.Expire, v.Minttl)
	case *dns.SRV:
		return fmt.Sprintf("%d %d %d %s",
			v.Priority, v.Weight, v.Port, strings.TrimSuffix(v.Target, "."))
	case *dns.CAA:
		return fmt.Sprintf("%d %s %s", v.Flag, v.Tag, v.Value)
	default:
		return rr.String()
	}
}

// Protocol reports the transport display name for a normalized target.
func Protocol(target string) string {
	return normalize.Protocol(target)
}
