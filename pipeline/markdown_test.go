package pipeline

import (
	"strings"
	"testing"
)

func TestMarkdownConverter_Convert(t *testing.T) {
	tests := []struct {
		name         string
		markdown     string
		wantContains []string
		wantNot      []string
	}{
		{
			name:         "heading",
			markdown:     "# Hello World",
			wantContains: []string{"<h1", "Hello World", "</h1>"},
		},
		{
			name:         "emphasis",
			markdown:     "Some **bold** and *italic* text",
			wantContains: []string{"<strong>bold</strong>", "<em>italic</em>"},
		},
		{
			name:         "gfm table",
			markdown:     "| a | b |\n|---|---|\n| 1 | 2 |",
			wantContains: []string{"<table>", "<th>a</th>", "<td>1</td>"},
		},
		{
			name:         "gfm strikethrough",
			markdown:     "~~gone~~",
			wantContains: []string{"<del>gone</del>"},
		},
		{
			name:         "gfm autolink",
			markdown:     "see https://example.com/page",
			wantContains: []string{`<a href="https://example.com/page"`},
		},
		{
			name:     "fenced code block gets inline styles",
			markdown: "```go\npackage main\n```",
			wantContains: []string{
				"<pre",
				"package",
				// chroma emits style attributes, not classes
				"style=",
			},
			wantNot: []string{`class="chroma"`},
		},
		{
			name:         "raw html passes through",
			markdown:     `before <span data-x="1">kept</span> after`,
			wantContains: []string{`<span data-x="1">kept</span>`},
		},
		{
			name:         "empty input yields empty output",
			markdown:     "",
			wantContains: []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewMarkdownConverter().Convert(tt.markdown)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			for _, want := range tt.wantContains {
				if !strings.Contains(got, want) {
					t.Errorf("expected output to contain %q, got:\n%s", want, got)
				}
			}
			for _, not := range tt.wantNot {
				if strings.Contains(got, not) {
					t.Errorf("expected output to not contain %q, got:\n%s", not, got)
				}
			}
		})
	}
}
