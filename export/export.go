// Package export runs the page-to-EML pipeline: fetch, Markdown→HTML,
// sanitize, inline CSS, embed images, assemble MIME, write files.
package export

import (
	"context"
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"github.com/dauletle/confluence2eml/confluence"
	"github.com/dauletle/confluence2eml/eml"
	"github.com/dauletle/confluence2eml/localdump"
	"github.com/dauletle/confluence2eml/pipeline"
)

// Exporter holds everything one export run needs.  Construct it once per run;
// it is not safe for concurrent use (the image processor's HTTP session is
// owned by exactly one run).
type Exporter struct {
	API *confluence.API

	PageID  string
	BaseURL string

	// Credentials re-used for image downloads (same page-view access as the
	// API fetch).
	User  string
	Token string

	// Destination of the .eml file; the intermediate Markdown lands in the
	// same directory.
	OutputPath string

	// Optional envelope overrides; empty means the eml package defaults.
	FromAddr string
	ToAddr   string

	// Optional substitute HTTP client for image downloads (VCR, tests).
	ImageClient *http.Client

	// Optional debug logger.
	Debugf func(format string, a ...any)
}

// Result reports what a successful run wrote.
type Result struct {
	Title        string
	MarkdownPath string
	EMLPath      string
}

// Run executes the pipeline stages strictly in sequence.  Every stage failure
// is fatal except per-image download failures, which the image processor
// swallows one image at a time.
func (e *Exporter) Run(ctx context.Context) (Result, error) {
	debugf := e.Debugf
	if debugf == nil {
		debugf = func(string, ...any) {}
	}

	content, err := e.API.FetchPageContent(ctx, e.PageID)
	if err != nil {
		return Result{}, fmt.Errorf("export: couldn't fetch page content: %w", err)
	}
	debugf("fetched page %s: %q (%d bytes of Markdown)\n", content.PageID, content.Title, len(content.Markdown))

	// The Markdown rendition is always written, before any conversion stage
	// gets a chance to fail.
	outputDir := filepath.Dir(e.OutputPath)
	if outputDir == "." {
		outputDir = ""
	}
	markdownPath := localdump.MarkdownPath(content.Title, outputDir)

	withHeader, err := localdump.RenderWithHeader(localdump.MarkdownHeader{
		Title:     content.Title,
		ObjectID:  content.PageID,
		URI:       content.URL,
		Timestamp: time.Now(),
	}, content.Markdown)
	if err != nil {
		return Result{}, fmt.Errorf("export: couldn't render Markdown header: %w", err)
	}
	if err := localdump.WriteMarkdown(withHeader, markdownPath); err != nil {
		return Result{}, fmt.Errorf("export: couldn't save Markdown: %w", err)
	}
	debugf("wrote Markdown to %s\n", markdownPath)

	htmlContent, err := pipeline.NewMarkdownConverter().Convert(content.Markdown)
	if err != nil {
		return Result{}, fmt.Errorf("export: couldn't convert Markdown: %w", err)
	}
	debugf("converted Markdown to %d bytes of HTML\n", len(htmlContent))

	sanitized, err := pipeline.NewSanitizer().Sanitize(htmlContent)
	if err != nil {
		return Result{}, fmt.Errorf("export: couldn't sanitize HTML: %w", err)
	}

	inliner := &pipeline.CSSInliner{BaseURL: e.BaseURL}
	inlined, err := inliner.Inline(sanitized, true, "")
	if err != nil {
		return Result{}, fmt.Errorf("export: couldn't inline CSS: %w", err)
	}
	debugf("inlined CSS, HTML now %d bytes\n", len(inlined))

	imgOpts := []pipeline.ImageOption{pipeline.WithLogger(debugf)}
	if e.ImageClient != nil {
		imgOpts = append(imgOpts, pipeline.WithHTTPClient(e.ImageClient))
	}
	processor, err := pipeline.NewImageProcessor(e.BaseURL, e.User, e.Token, imgOpts...)
	if err != nil {
		return Result{}, fmt.Errorf("export: couldn't set up image processor: %w", err)
	}
	defer processor.Close()

	embedded, images, err := processor.Process(ctx, inlined)
	if err != nil {
		return Result{}, fmt.Errorf("export: couldn't process images: %w", err)
	}
	debugf("embedded %d image(s)\n", len(images))

	subject := "Confluence Export: " + content.Title
	message, err := eml.NewGenerator().CreateMessage(subject, embedded, "", e.FromAddr, e.ToAddr, images)
	if err != nil {
		return Result{}, fmt.Errorf("export: couldn't create MIME message: %w", err)
	}

	savedPath, err := eml.SaveToFile(message, e.OutputPath)
	if err != nil {
		return Result{}, fmt.Errorf("export: couldn't save EML file: %w", err)
	}
	debugf("wrote EML to %s\n", savedPath)

	return Result{
		Title:        content.Title,
		MarkdownPath: markdownPath,
		EMLPath:      savedPath,
	}, nil
}
