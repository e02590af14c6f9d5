package pipeline

import (
	"bytes"
	"fmt"

	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/renderer/html"
)

// MarkdownConverter converts page Markdown to an HTML fragment using goldmark.
type MarkdownConverter struct {
	md goldmark.Markdown
}

// NewMarkdownConverter creates a converter with GFM extensions (tables,
// strikethrough, autolinks) and chroma syntax highlighting.  Highlighting uses
// inline styles rather than CSS classes: email clients drop class-based styling
// but keep style attributes.
func NewMarkdownConverter() *MarkdownConverter {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle("github"),
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(false),
				),
			),
		),
		goldmark.WithRendererOptions(
			// Confluence-derived Markdown routinely embeds raw HTML; it passes
			// through here and the sanitizer stage decides what survives.
			html.WithUnsafe(),
		),
	)
	return &MarkdownConverter{md: md}
}

// Convert turns Markdown into an HTML fragment.  Malformed Markdown degrades
// into literal text or partial markup rather than failing; goldmark only
// reports hard rendering errors, which come back wrapped.
func (c *MarkdownConverter) Convert(markdown string) (string, error) {
	var buf bytes.Buffer
	if err := c.md.Convert([]byte(markdown), &buf); err != nil {
		return "", fmt.Errorf("pipeline: %w: %v", ErrMarkdownConversion, err)
	}
	return buf.String(), nil
}
