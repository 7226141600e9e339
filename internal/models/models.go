// Package models defines API request/response structures.
package models

import (
	"fmt"
	"time"

	"github.com/sudo-tiz/dns-compare-go/internal/compare"
	"github.com/sudo-tiz/dns-compare-go/internal/normalize"
)

const (
	// MaxEntriesPerReq limits entries per request to prevent resource
	// exhaustion; a run is fully sequential, so entries cost wall time.
	MaxEntriesPerReq = 100
)

// CompareEntry is one domain with its record types, mirroring one input line
// @Description Domain and record types to compare
type CompareEntry struct {
	Domain string   `json:"domain" example:"example.org"`    // Domain name to query
	QTypes []string `json:"qtypes" example:"A,MX"`           // Record types, compared in order
}

// CompareRequest represents a comparison API request
// @Description Comparison request with nameserver pair and entries
type CompareRequest struct {
	Primary               string         `json:"primary" example:"udp://208.67.222.222:53"` // Primary nameserver target
	Secondary             string         `json:"secondary" example:"udp://9.9.9.9:53"`      // Secondary nameserver target
	Entries               []CompareEntry `json:"entries"`                                   // Domain/record-type pairs
	TLSInsecureSkipVerify bool           `json:"tls_insecure_skip_verify,omitempty"`        // Skip TLS certificate verification (testing only)
}

// Validate normalizes both targets and every entry in place.
func (r *CompareRequest) Validate() error {
	if r.Primary == "" {
		r.Primary = normalize.SchemeUDP + "://208.67.222.222:53"
	}
	primary, err := normalize.Target(r.Primary)
	if err != nil {
		return fmt.Errorf("invalid primary nameserver: %w", err)
	}
	r.Primary = primary

	if r.Secondary == "" {
		return fmt.Errorf("secondary nameserver is required")
	}
	secondary, err := normalize.Target(r.Secondary)
	if err != nil {
		return fmt.Errorf("invalid secondary nameserver: %w", err)
	}
	r.Secondary = secondary

	if len(r.Entries) == 0 {
		return fmt.Errorf("at least one entry is required")
	}
	if len(r.Entries) > MaxEntriesPerReq {
		return fmt.Errorf("too many entries: %d (maximum allowed: %d)", len(r.Entries), MaxEntriesPerReq)
	}

	for i := range r.Entries {
		domain, err := normalize.Domain(r.Entries[i].Domain)
		if err != nil {
			return fmt.Errorf("entry %d: %w", i, err)
		}
		r.Entries[i].Domain = domain

		if len(r.Entries[i].QTypes) == 0 {
			return fmt.Errorf("entry %d (%s): at least one record type is required", i, domain)
		}
		for j, token := range r.Entries[i].QTypes {
			qtype, err := normalize.QType(token)
			if err != nil {
				return fmt.Errorf("entry %d (%s): %w", i, domain, err)
			}
			r.Entries[i].QTypes[j] = qtype
		}
	}

	return nil
}

// TaskResponse is returned when a comparison task is enqueued
// @Description Task submission response with unique task ID
type TaskResponse struct {
	TaskID  string `json:"task_id" example:"abc123def456789"`    // Unique task identifier for polling
	Message string `json:"message" example:"comparison enqueued"` // Status message
}

// QueryResult is one nameserver's answer set for a pair
// @Description Tagged query result: answers, empty, or timeout
type QueryResult struct {
	Status  string   `json:"status" example:"answers"` // answers, empty or timeout
	Answers []string `json:"answers,omitempty"`        // Rendered record values, sorted
}

// ComparisonResult is the outcome for one (domain, qtype) pair
// @Description Classified comparison of primary and secondary responses
type ComparisonResult struct {
	Domain    string      `json:"domain" example:"example.org"` // Domain name
	QType     string      `json:"qtype" example:"A"`            // Record type
	Outcome   string      `json:"outcome" example:"success"`    // success, warning or error
	Primary   QueryResult `json:"primary"`                      // Primary nameserver result
	Secondary QueryResult `json:"secondary"`                    // Secondary nameserver result
}

// NewComparisonResult converts a compare.Comparison to its API shape.
func NewComparisonResult(c compare.Comparison) ComparisonResult {
	return ComparisonResult{
		Domain:  c.Domain,
		QType:   c.QType,
		Outcome: c.Outcome.String(),
		Primary: QueryResult{
			Status:  c.Primary.Status.String(),
			Answers: c.Primary.Answers,
		},
		Secondary: QueryResult{
			Status:  c.Secondary.Status.String(),
			Answers: c.Secondary.Answers,
		},
	}
}

// CompareResults aggregates one whole run
// @Description Results for all pairs in a comparison run
type CompareResults struct {
	Primary   string             `json:"primary"`                  // Primary nameserver target
	Secondary string             `json:"secondary"`                // Secondary nameserver target
	Details   []ComparisonResult `json:"details"`                  // Per-pair results in input order
	Success   int                `json:"success" example:"12"`     // Pairs with matching responses
	Warning   int                `json:"warning" example:"1"`      // Pairs with an unobtainable response
	Error     int                `json:"error" example:"2"`        // Pairs with differing responses
	Duration  float64            `json:"duration" example:"0.125"` // Total run duration in seconds
}

// TaskStatusResponse represents task status and optional result
// @Description Task status response with result when completed
type TaskStatusResponse struct {
	TaskID      string          `json:"task_id" example:"abc123def456789"`        // Task identifier
	Status      string          `json:"task_status" example:"SUCCESS"`            // Task status (PENDING, ACTIVE, SUCCESS, FAILURE)
	Result      *CompareResults `json:"task_result,omitempty"`                    // Run results (populated when status is SUCCESS)
	Error       *string         `json:"error,omitempty" example:"worker timeout"` // Error message (populated when status is FAILURE)
	CreatedAt   time.Time       `json:"created_at,omitempty"`                     // Task creation timestamp
	CompletedAt time.Time       `json:"completed_at,omitempty"`                   // Task completion timestamp
}

// HealthResponse indicates API health status
// @Description Health check response
type HealthResponse struct {
	Status  string `json:"status" example:"ok"`                                    // Health status (ok, degraded)
	Warning string `json:"warning,omitempty" example:"no active workers detected"` // Warning message if degraded
}

// ErrorResponse represents an API error response
// @Description Error response returned for failed requests
type ErrorResponse struct {
	Error string `json:"error" example:"rate limit exceeded"` // Error message
}
