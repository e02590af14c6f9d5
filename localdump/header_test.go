package localdump

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestRenderWithHeader(t *testing.T) {
	header := MarkdownHeader{
		Title:     "Test Page",
		ObjectID:  "123456",
		URI:       "https://wiki.example.com/wiki/spaces/T/pages/123456/Test+Page",
		Timestamp: time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC),
	}

	got, err := RenderWithHeader(header, "# Test Page\n\nBody text.\n")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.HasPrefix(got, "---\n") {
		t.Errorf("expected YAML frontmatter fence at the start, got:\n%s", got)
	}
	for _, want := range []string{
		"title: Test Page",
		`id: "123456"`,
		"uri: https://wiki.example.com/wiki/spaces/T/pages/123456/Test+Page",
		"\n---\n# Test Page",
		"Body text.",
	} {
		if !strings.Contains(got, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, got)
		}
	}
}

func TestWriteMarkdown(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "dir", "page.md")

	if err := WriteMarkdown("# contents\n", path); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("couldn't read back file: %v", err)
	}
	if string(data) != "# contents\n" {
		t.Errorf("round trip mismatch, got %q", string(data))
	}

	// Overwrites happily.
	if err := WriteMarkdown("new contents", path); err != nil {
		t.Fatalf("unexpected error on overwrite: %v", err)
	}
	data, err = os.ReadFile(path)
	if err != nil {
		t.Fatalf("couldn't read back file: %v", err)
	}
	if string(data) != "new contents" {
		t.Errorf("overwrite mismatch, got %q", string(data))
	}
}
