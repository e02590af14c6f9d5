package pipeline

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/google/uuid"
)

const defaultDownloadTimeout = 30 * time.Second

// cidDomain tags generated Content-IDs, Message-ID style.
const cidDomain = "confluence-export"

// ImageProcessor finds <img> references, downloads them with page-view
// credentials, and rewrites their src to cid: URIs.  It owns an authenticated
// HTTP client for its whole lifetime; call Close when done with it.
type ImageProcessor struct {
	baseURL  *url.URL
	username string
	token    string
	timeout  time.Duration
	client   *http.Client
	logf     func(format string, a ...any)
}

// ImageOption configures an ImageProcessor.
type ImageOption func(*ImageProcessor)

// WithTimeout bounds each image download.
func WithTimeout(d time.Duration) ImageOption {
	return func(p *ImageProcessor) {
		p.timeout = d
	}
}

// WithHTTPClient substitutes the HTTP client - you can plug in VCR or a test
// transport here.
func WithHTTPClient(client *http.Client) ImageOption {
	return func(p *ImageProcessor) {
		p.client = client
	}
}

// WithLogger routes skip/failure diagnostics through f instead of the global
// logger.
func WithLogger(f func(format string, a ...any)) ImageOption {
	return func(p *ImageProcessor) {
		p.logf = f
	}
}

// NewImageProcessor creates a processor downloading via baseURL with the given
// credentials.  The base URL is validated here so a bad configuration fails at
// construction, not halfway through a page.
func NewImageProcessor(baseURL, username, token string, opts ...ImageOption) (*ImageProcessor, error) {
	if baseURL == "" {
		return nil, fmt.Errorf("pipeline: %w: base URL is empty", ErrImageProcessing)
	}

	u, err := url.ParseRequestURI(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("pipeline: %w: couldn't parse base URL: %v", ErrImageProcessing, err)
	}

	p := &ImageProcessor{
		baseURL:  u,
		username: username,
		token:    token,
		timeout:  defaultDownloadTimeout,
		client:   &http.Client{},
		logf:     log.Printf,
	}
	for _, opt := range opts {
		opt(p)
	}

	return p, nil
}

// Process rewrites every downloadable <img> to a cid: reference and returns
// the rewritten HTML plus one ImageRecord per successful download, in document
// order.  Images with a missing src, data: URIs and existing cid: references
// are left alone.  A failed download skips that one image - its src stays
// pointed at the original URL and processing continues - so a single broken
// attachment never sinks the whole export.  Context cancellation is not a
// per-image failure: it aborts the batch and comes back as an error.
func (p *ImageProcessor) Process(ctx context.Context, htmlContent string) (string, []ImageRecord, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return "", nil, fmt.Errorf("pipeline: %w: %v", ErrImageProcessing, err)
	}

	var records []ImageRecord
	var aborted error

	doc.Find("img").EachWithBreak(func(i int, img *goquery.Selection) bool {
		src, ok := img.Attr("src")
		if !ok || src == "" {
			p.logf("pipeline: image %d has no src attribute, skipping\n", i+1)
			return true
		}
		if strings.HasPrefix(src, "data:") || strings.HasPrefix(src, "cid:") {
			return true
		}

		imgURL := p.resolveImageURL(src)

		data, contentType, err := p.download(ctx, imgURL)
		if err != nil {
			if ctx.Err() != nil {
				aborted = fmt.Errorf("pipeline: image downloads aborted: %w", ctx.Err())
				return false
			}
			// Per-image failure: leave the src as-is and carry on.
			p.logf("pipeline: couldn't download image %d (%s): %v\n", i+1, imgURL, err)
			return true
		}

		if contentType == "" {
			contentType = sniffImageType(data)
		}

		cid := uuid.NewString() + "@" + cidDomain

		records = append(records, ImageRecord{
			ContentID:   cid,
			Data:        data,
			ContentType: contentType,
			Filename:    filenameFromURL(imgURL),
		})

		img.SetAttr("src", "cid:"+cid)
		return true
	})

	if aborted != nil {
		return "", nil, aborted
	}

	out, err := renderLikeInput(doc, htmlContent)
	if err != nil {
		return "", nil, fmt.Errorf("pipeline: %w: %v", ErrImageProcessing, err)
	}

	return out, records, nil
}

// Close releases the processor's HTTP connections.
func (p *ImageProcessor) Close() {
	p.client.CloseIdleConnections()
}

// resolveImageURL turns a possibly-relative img src into an absolute URL.
func (p *ImageProcessor) resolveImageURL(src string) string {
	if strings.HasPrefix(src, "http://") || strings.HasPrefix(src, "https://") {
		return src
	}
	if strings.HasPrefix(src, "/") {
		return p.baseURL.String() + src
	}
	return p.baseURL.String() + "/" + src
}

// download fetches one image with basic auth over a bounded timeout.  Any
// transport failure, non-2xx status or empty body comes back as
// ErrImageDownload.
func (p *ImageProcessor) download(ctx context.Context, imgURL string) ([]byte, string, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, "GET", imgURL, nil)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrImageDownload, err)
	}

	if p.username != "" && p.token != "" {
		req.SetBasicAuth(p.username, p.token)
	} else if p.token != "" {
		req.Header.Set("Authorization", "Bearer "+p.token)
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %v", ErrImageDownload, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, "", fmt.Errorf("%w: unexpected status %s", ErrImageDownload, resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, "", fmt.Errorf("%w: reading body: %v", ErrImageDownload, err)
	}
	if len(data) == 0 {
		return nil, "", fmt.Errorf("%w: downloaded image is empty", ErrImageDownload)
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType != "" {
		contentType, _, _ = strings.Cut(contentType, ";")
		contentType = strings.TrimSpace(contentType)
	}

	return data, contentType, nil
}

// sniffImageType detects an image MIME type from file-signature magic bytes,
// falling back to image/png.  net/http's DetectContentType misses SVG, hence
// the hand-rolled table.
func sniffImageType(data []byte) string {
	switch {
	case bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")):
		return "image/png"
	case bytes.HasPrefix(data, []byte("\xff\xd8\xff")):
		return "image/jpeg"
	case bytes.HasPrefix(data, []byte("GIF87a")), bytes.HasPrefix(data, []byte("GIF89a")):
		return "image/gif"
	case bytes.HasPrefix(data, []byte("RIFF")) && len(data) >= 12 && bytes.Equal(data[8:12], []byte("WEBP")):
		return "image/webp"
	case bytes.HasPrefix(data, []byte("<svg")), bytes.HasPrefix(data, []byte("<?xml")):
		return "image/svg+xml"
	}
	return "image/png"
}

// filenameFromURL extracts a best-effort filename: the final path segment, if
// it looks like a file (contains a dot).
func filenameFromURL(imgURL string) string {
	u, err := url.Parse(imgURL)
	if err != nil || u.Path == "" {
		return ""
	}

	segments := strings.Split(u.Path, "/")
	last := segments[len(segments)-1]
	if strings.Contains(last, ".") {
		return last
	}
	return ""
}
