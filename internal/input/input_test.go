package input

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "domains.txt")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestParseFile(t *testing.T) {
	content := `# comment line
example.org A,MX

  # indented comment
example.com cname
quad9.net a,aaaa,TXT
`
	entries, err := ParseFile(writeFile(t, content))
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}

	want := []Entry{
		{Domain: "example.org", QTypes: []string{"A", "MX"}},
		{Domain: "example.com", QTypes: []string{"CNAME"}},
		{Domain: "quad9.net", QTypes: []string{"A", "AAAA", "TXT"}},
	}
	if !reflect.DeepEqual(entries, want) {
		t.Errorf("ParseFile() = %+v, want %+v", entries, want)
	}
}

func TestParseFileMalformedLine(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing types", "example.org A,MX\nexample.com\n"},
		{"trailing space only", "example.org \n"},
		{"unknown record type", "example.org A,BOGUS\n"},
		{"meta query type", "example.org ANY\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseFile(writeFile(t, tt.content)); err == nil {
				t.Fatal("expected parse error, got nil")
			}
		})
	}
}

func TestParseFileMalformedLineAbortsBeforeValidOnes(t *testing.T) {
	// The whole file is validated up front: a bad line anywhere yields no entries.
	content := "example.org A\nbroken-line-without-types\nexample.com MX\n"
	entries, err := ParseFile(writeFile(t, content))
	if err == nil {
		t.Fatal("expected parse error, got nil")
	}
	if entries != nil {
		t.Errorf("expected no entries on parse failure, got %+v", entries)
	}
}

func TestParseFileUnreadable(t *testing.T) {
	if _, err := ParseFile(filepath.Join(t.TempDir(), "missing.txt")); err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestParseFileEmpty(t *testing.T) {
	entries, err := ParseFile(writeFile(t, "\n# only comments\n\n"))
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}
	if len(entries) != 0 {
		t.Errorf("expected no entries, got %+v", entries)
	}
}
