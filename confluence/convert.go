package confluence

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	md "github.com/JohannesKaufmann/html-to-markdown"
	mdplugin "github.com/JohannesKaufmann/html-to-markdown/plugin"
	"github.com/PuerkitoBio/goquery"
)

// FetchPageContent downloads one page in its rendered "view" representation and
// converts the body to Markdown.  This is the only Confluence round-trip the
// export pipeline needs.
func (api *API) FetchPageContent(ctx context.Context, pageID string) (*PageContent, error) {
	id, err := strconv.Atoi(pageID)
	if err != nil {
		return nil, fmt.Errorf("confluence: page ID %q not an int: %w", pageID, err)
	}

	page, err := api.GetPageByID(ctx, GetPageByIDQuery{
		ID:         id,
		BodyFormat: "view",
	})
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't fetch page %s: %w", pageID, err)
	}

	markdown, err := api.ConvertToMarkdown(page)
	if err != nil {
		return nil, fmt.Errorf("confluence: couldn't convert page %s body: %w", pageID, err)
	}

	itemWebURI := api.BaseURI.String() + page.Links.WebUI
	if _, err := url.Parse(itemWebURI); err != nil {
		return nil, fmt.Errorf("confluence: generated URL is bunk: %w", err)
	}

	return &PageContent{
		Markdown: markdown,
		Title:    page.Title,
		PageID:   page.ID,
		URL:      itemWebURI,
	}, nil
}

// ConvertToMarkdown turns a page's rendered view HTML into Markdown.  The
// conversion is best-effort: Confluence macro output degrades into whatever
// plain markup html-to-markdown makes of it.
func (api *API) ConvertToMarkdown(content *Page) (string, error) {
	// Oh my, this is pretty awful.  md.NewConverter should really accept a BaseURI but actually it
	// only accepts a hostname.  So we have this hack, adapted from:
	// https://github.com/JohannesKaufmann/html-to-markdown/issues/44
	opt := &md.Options{
		GetAbsoluteURL: func(selec *goquery.Selection, rawURL string, domain string) string {
			// Function `DefaultGetAbsoluteURL` copied from
			// https://github.com/JohannesKaufmann/html-to-markdown, for us to be able to mess with
			// u.Scheme in this block.
			if domain == "" {
				return rawURL
			}

			u, err := url.Parse(rawURL)
			if err != nil {
				// we can't do anything with this url because it is invalid
				return rawURL
			}

			if u.Scheme == "data" {
				// this is a data uri (for example an inline base64 image)
				return rawURL
			}

			if u.Scheme == "" {
				u.Scheme = api.BaseURI.Scheme
			}
			if u.Host == "" {
				u.Host = domain // this comes from the first arg to md.NewConverter
			}

			return u.String()
		},
	}

	converter := md.NewConverter(api.BaseURI.Host, true, opt)
	// Github flavoured Markdown knows about tables 👍
	converter.Use(mdplugin.GitHubFlavored())

	if content.Body.View == nil {
		return "", fmt.Errorf("confluence: found nil .Body.View field for page ID %s", content.ID)
	}

	markdown, err := converter.ConvertString(content.Body.View.Value)
	if err != nil {
		return "", fmt.Errorf("confluence: failed to convert to Markdown: %w", err)
	}

	return markdown, nil
}
