package confluence

import (
	"fmt"
	"net/http"
	"net/url"
	"strings"
)

func NewAPI(baseURL string, username string, token string) (*API, error) {

	if baseURL == "" {
		return &API{}, fmt.Errorf("confluence: base URL is empty, pass the page URL you want to export")
	}
	if username == "" {
		return &API{}, fmt.Errorf("confluence: configure your Confluence username with --user or CONFLUENCE_USER")
	}
	if token == "" {
		return &API{}, fmt.Errorf("confluence: auth token is empty, use --token or CONFLUENCE_TOKEN")
	}

	u, err := url.ParseRequestURI(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't parse REST API URL: %w", err)
	}

	a := &API{
		BaseURI:  u,
		token:    token,
		username: username,
	}
	a.Client = &http.Client{}

	return a, nil
}

type API struct {
	// The base URL of the Confluence instance, e.g. https://INSTANCE.atlassian.net
	BaseURI *url.URL

	// An HTTP client - you can substitute VCR or whatnot.
	Client *http.Client

	// Auth info
	username, token string
}
