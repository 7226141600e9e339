package models

import (
	"testing"

	"github.com/sudo-tiz/dns-compare-go/internal/compare"
	"github.com/sudo-tiz/dns-compare-go/internal/resolver"
)

func validRequest() CompareRequest {
	return CompareRequest{
		Primary:   "208.67.222.222",
		Secondary: "udp://9.9.9.9:53",
		Entries: []CompareEntry{
			{Domain: "example.org", QTypes: []string{"a", "mx"}},
		},
	}
}

func TestCompareRequestValidate(t *testing.T) {
	req := validRequest()
	if err := req.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}

	if req.Primary != "udp://208.67.222.222:53" {
		t.Errorf("primary not normalized: %q", req.Primary)
	}
	if req.Entries[0].QTypes[0] != "A" || req.Entries[0].QTypes[1] != "MX" {
		t.Errorf("qtypes not normalized: %v", req.Entries[0].QTypes)
	}
}

func TestCompareRequestValidateErrors(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*CompareRequest)
	}{
		{"missing secondary", func(r *CompareRequest) { r.Secondary = "" }},
		{"bad secondary", func(r *CompareRequest) { r.Secondary = "not-an-ip" }},
		{"bad primary", func(r *CompareRequest) { r.Primary = "999.1.1.1" }},
		{"no entries", func(r *CompareRequest) { r.Entries = nil }},
		{"empty domain", func(r *CompareRequest) { r.Entries[0].Domain = "" }},
		{"no qtypes", func(r *CompareRequest) { r.Entries[0].QTypes = nil }},
		{"meta qtype", func(r *CompareRequest) { r.Entries[0].QTypes = []string{"ANY"} }},
		{"unknown qtype", func(r *CompareRequest) { r.Entries[0].QTypes = []string{"BOGUS"} }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(&req)
			if err := req.Validate(); err == nil {
				t.Fatal("expected validation error, got nil")
			}
		})
	}
}

func TestCompareRequestDefaultsPrimary(t *testing.T) {
	req := validRequest()
	req.Primary = ""
	if err := req.Validate(); err != nil {
		t.Fatalf("Validate() error = %v", err)
	}
	if req.Primary != "udp://208.67.222.222:53" {
		t.Errorf("primary default = %q", req.Primary)
	}
}

func TestCompareRequestTooManyEntries(t *testing.T) {
	req := validRequest()
	for i := 0; i <= MaxEntriesPerReq; i++ {
		req.Entries = append(req.Entries, CompareEntry{Domain: "example.org", QTypes: []string{"A"}})
	}
	if err := req.Validate(); err == nil {
		t.Fatal("expected error for too many entries")
	}
}

func TestNewComparisonResult(t *testing.T) {
	c := compare.Compare("example.org", "A",
		resolver.Result{Status: resolver.StatusAnswers, Answers: []string{"1.2.3.4"}},
		resolver.Result{Status: resolver.StatusTimeout})

	got := NewComparisonResult(c)
	if got.Outcome != "warning" {
		t.Errorf("Outcome = %q, want warning", got.Outcome)
	}
	if got.Primary.Status != "answers" || got.Secondary.Status != "timeout" {
		t.Errorf("statuses = %q/%q", got.Primary.Status, got.Secondary.Status)
	}
	if len(got.Primary.Answers) != 1 || got.Primary.Answers[0] != "1.2.3.4" {
		t.Errorf("primary answers = %v", got.Primary.Answers)
	}
}
