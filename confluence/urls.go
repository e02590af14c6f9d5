package confluence

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// Confluence hands out page URLs in a few shapes.  We can resolve the ones that
// carry a numeric page ID:
//
//	https://org.atlassian.net/wiki/spaces/SPACE/pages/123456/Page+Title
//	https://org.atlassian.net/wiki/pages/viewpage.action?pageId=123456
//
// Legacy server "display" URLs (/display/SPACE/Page+Title) only name the page by
// title, and resolving those means an extra search round-trip we don't perform.
var (
	prettyURLPattern   = regexp.MustCompile(`/spaces/[^/]+/pages/(\d+)`)
	viewpageURLPattern = regexp.MustCompile(`[?&]pageId=(\d+)`)
)

// ExtractPageID pulls the numeric page ID out of a Confluence page URL.
func ExtractPageID(pageURL string) (string, error) {
	if pageURL == "" {
		return "", fmt.Errorf("confluence: %w: URL is empty", ErrUnrecognizedURL)
	}

	if m := prettyURLPattern.FindStringSubmatch(pageURL); m != nil {
		return m[1], nil
	}

	if m := viewpageURLPattern.FindStringSubmatch(pageURL); m != nil {
		return m[1], nil
	}

	if strings.Contains(pageURL, "/display/") {
		return "", fmt.Errorf("confluence: %w: legacy display URLs need API resolution, please use a pageId-based URL: %s",
			ErrUnrecognizedURL, pageURL)
	}

	return "", fmt.Errorf("confluence: %w: expected /spaces/.../pages/PAGE_ID or ?pageId=PAGE_ID: %s",
		ErrUnrecognizedURL, pageURL)
}

// ExtractBaseURL reduces a page URL to scheme://host, the base every other
// request gets resolved against.
func ExtractBaseURL(pageURL string) (string, error) {
	if pageURL == "" {
		return "", fmt.Errorf("confluence: %w: URL is empty", ErrUnrecognizedURL)
	}

	u, err := url.Parse(pageURL)
	if err != nil {
		return "", fmt.Errorf("confluence: %w: %v", ErrUnrecognizedURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("confluence: %w: expected https://domain/path, got %s", ErrUnrecognizedURL, pageURL)
	}

	return fmt.Sprintf("%s://%s", u.Scheme, u.Host), nil
}
