package localdump

import (
	"path/filepath"
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		name      string
		title     string
		maxLength int
		want      string
	}{
		{
			name:  "invalid characters become spaces",
			title: `Page: With/Invalid\Chars?`,
			want:  "Page With Invalid Chars",
		},
		{
			name:  "angle brackets and pipes",
			title: `<Draft> Q3 | Planning *final*`,
			want:  "Draft Q3 Planning final",
		},
		{
			name:  "dash and whitespace runs collapse",
			title: "My - Page --  Name",
			want:  "My Page Name",
		},
		{
			name:  "trailing dots and spaces trimmed",
			title: "Release notes... ",
			want:  "Release notes",
		},
		{
			name:  "empty title",
			title: "",
			want:  "untitled",
		},
		{
			name:  "fully invalid title",
			title: `???///\\\`,
			want:  "untitled",
		},
		{
			name:      "long title truncated",
			title:     strings.Repeat("A", 300),
			maxLength: 50,
			want:      strings.Repeat("A", 50),
		},
		{
			name:      "multibyte title truncated on rune boundaries",
			title:     strings.Repeat("ページ", 40),
			maxLength: 50,
			want:      strings.Repeat("ページ", 16) + "ペー",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeFilename(tt.title, tt.maxLength); got != tt.want {
				t.Errorf("SanitizeFilename(%q) = %q, want %q", tt.title, got, tt.want)
			}
		})
	}
}

func TestSanitizeFilename_PreservesValidUTF8(t *testing.T) {
	got := SanitizeFilename(strings.Repeat("ページ", 40), 50)
	if !utf8.ValidString(got) {
		t.Errorf("truncated filename is not valid UTF-8: %q", got)
	}
	if n := utf8.RuneCountInString(got); n != 50 {
		t.Errorf("expected 50 runes after truncation, got %d", n)
	}
}

func TestSanitizeFilename_DefaultLengthBound(t *testing.T) {
	got := SanitizeFilename(strings.Repeat("word ", 100), 0)
	if len(got) > DefaultMaxFilenameLength {
		t.Errorf("expected filename capped at %d, got length %d", DefaultMaxFilenameLength, len(got))
	}
	if strings.HasSuffix(got, " ") {
		t.Errorf("truncation should not leave a trailing space, got %q", got)
	}
}

func TestMarkdownPath(t *testing.T) {
	if got := MarkdownPath("Hello World", ""); got != "Hello World.md" {
		t.Errorf("expected %q, got %q", "Hello World.md", got)
	}

	want := filepath.Join("out", "exports", "Page With Invalid Chars.md")
	if got := MarkdownPath(`Page: With/Invalid\Chars?`, filepath.Join("out", "exports")); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}
