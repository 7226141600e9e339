// Package input parses the domain list file: one entry per line in the form
// "<domain> <comma-separated-record-types>". Blank lines and lines whose
// first non-whitespace character is '#' are ignored.
package input

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/sudo-tiz/dns-compare-go/internal/normalize"
)

// Entry is one parsed line: a domain and its record types in file order.
type Entry struct {
	Domain string
	QTypes []string
}

// ParseFile reads and validates the whole file before returning. A malformed
// line or an unknown record type anywhere in the file fails the run before
// any query is issued.
func ParseFile(path string) ([]Entry, error) {
	// #nosec G304 -- path is user-controlled via CLI flag by design
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to access input file: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	var entries []Entry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		entry, err := parseLine(line)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading input file: %w", err)
	}

	return entries, nil
}

// parseLine splits on the first space into domain and comma-separated types.
func parseLine(line string) (Entry, error) {
	domainToken, typesToken, found := strings.Cut(line, " ")
	if !found || strings.TrimSpace(typesToken) == "" {
		return Entry{}, fmt.Errorf("malformed input line (expected '<domain> <types>'): %q", line)
	}

	domain, err := normalize.Domain(domainToken)
	if err != nil {
		return Entry{}, fmt.Errorf("line %q: %w", line, err)
	}

	var qtypes []string
	for _, token := range strings.Split(typesToken, ",") {
		qtype, err := normalize.QType(token)
		if err != nil {
			return Entry{}, fmt.Errorf("%s: %w", domain, err)
		}
		qtypes = append(qtypes, qtype)
	}

	return Entry{Domain: domain, QTypes: qtypes}, nil
}
