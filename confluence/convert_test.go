package confluence

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"testing"
)

func TestFetchPageContent(t *testing.T) {
	api := testAPI(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, pageJSON)
	})

	content, err := api.FetchPageContent(context.Background(), "123456")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if content.Title != "Test Page" {
		t.Errorf("expected title 'Test Page', got %q", content.Title)
	}
	if content.PageID != "123456" {
		t.Errorf("expected page ID 123456, got %q", content.PageID)
	}
	if !strings.Contains(content.Markdown, "# Hello") {
		t.Errorf("expected heading in Markdown, got:\n%s", content.Markdown)
	}
	if !strings.Contains(content.Markdown, "World") {
		t.Errorf("expected paragraph text in Markdown, got:\n%s", content.Markdown)
	}
	if !strings.HasSuffix(content.URL, "/wiki/spaces/TEAM/pages/123456/Test+Page") {
		t.Errorf("expected page URL built from webui link, got %q", content.URL)
	}
}

func TestFetchPageContent_RejectsNonNumericID(t *testing.T) {
	api := testAPI(t, func(w http.ResponseWriter, r *http.Request) {
		t.Error("no request should be made for a bad page ID")
	})

	if _, err := api.FetchPageContent(context.Background(), "not-a-number"); err == nil {
		t.Error("expected error for non-numeric page ID")
	}
}

func TestConvertToMarkdown(t *testing.T) {
	api := testAPI(t, func(w http.ResponseWriter, r *http.Request) {})

	page := &Page{
		ID: "1",
		Body: Body{
			View: &Storage{
				Representation: "view",
				Value: `<h1>Doc</h1>` +
					`<p>See <a href="/wiki/spaces/T/pages/2/Other">the other page</a>.</p>` +
					`<table><tr><th>k</th></tr><tr><td>v</td></tr></table>`,
			},
		},
	}

	markdown, err := api.ConvertToMarkdown(page)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(markdown, "# Doc") {
		t.Errorf("expected heading, got:\n%s", markdown)
	}
	// Relative links get absolutized against the instance URL.
	if !strings.Contains(markdown, api.BaseURI.String()+"/wiki/spaces/T/pages/2/Other") {
		t.Errorf("expected absolutized link, got:\n%s", markdown)
	}
	// GFM gives us pipe tables.
	if !strings.Contains(markdown, "| k |") {
		t.Errorf("expected a pipe table, got:\n%s", markdown)
	}
}

func TestConvertToMarkdown_NilViewBody(t *testing.T) {
	api := testAPI(t, func(w http.ResponseWriter, r *http.Request) {})

	if _, err := api.ConvertToMarkdown(&Page{ID: "1"}); err == nil {
		t.Error("expected error for a page without a view body")
	}
}
