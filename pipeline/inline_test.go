package pipeline

import (
	"strings"
	"testing"
)

// squash removes whitespace so assertions don't depend on how the CSS engine
// formats declarations.
func squash(s string) string {
	return strings.Join(strings.Fields(s), "")
}

func TestCSSInliner_InlineOwnStylesheet(t *testing.T) {
	input := `<html><head><style>p { color: red; }</style></head><body><p>x</p></body></html>`

	inliner := &CSSInliner{}
	got, err := inliner.Inline(input, false, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(got, "<p style=") {
		t.Errorf("expected an inline style attribute on <p>, got:\n%s", got)
	}
	if !strings.Contains(squash(got), "color:red") {
		t.Errorf("expected the rule to be inlined, got:\n%s", got)
	}
}

func TestCSSInliner_WrapsFragmentWithDefaultCSS(t *testing.T) {
	inliner := &CSSInliner{}
	got, err := inliner.Inline("<p>hello</p><h1>title</h1>", true, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(got, "<html") || !strings.Contains(got, "<body") {
		t.Errorf("expected a full document shell, got:\n%s", got)
	}
	squashed := squash(got)
	if !strings.Contains(squashed, "font-size:14px") {
		t.Errorf("expected the body rule from the default stylesheet, got:\n%s", got)
	}
	if !strings.Contains(got, "<h1 style=") || !strings.Contains(got, "<p style=") {
		t.Errorf("expected element rules to be inlined, got:\n%s", got)
	}
}

func TestCSSInliner_CustomStylesheet(t *testing.T) {
	inliner := &CSSInliner{}
	got, err := inliner.Inline("<p>x</p>", true, "p { font-weight: bold; }")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(squash(got), "font-weight:bold") {
		t.Errorf("expected the custom rule inlined, got:\n%s", got)
	}
	if strings.Contains(squash(got), "font-size:14px") {
		t.Errorf("default stylesheet should not apply when a custom one is given, got:\n%s", got)
	}
}

func TestCSSInliner_KeepStyleTags(t *testing.T) {
	inliner := &CSSInliner{KeepStyleTags: true}
	got, err := inliner.Inline("<p>x</p>", true, "p { color: blue; }")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(got, "<style") {
		t.Errorf("expected the stylesheet to survive as a <style> block, got:\n%s", got)
	}
	if !strings.Contains(squash(got), "color:blue") {
		t.Errorf("expected the rule to also be inlined, got:\n%s", got)
	}
}

func TestCSSInliner_AbsolutizesRelativeURLs(t *testing.T) {
	inliner := &CSSInliner{BaseURL: "https://wiki.example.com"}
	input := `<a href="/wiki/page">link</a>` +
		`<img src="/download/attachments/1/pic.png">` +
		`<a href="#section">anchor</a>` +
		`<img src="cid:abc@confluence-export">` +
		`<img src="data:image/png;base64,AAAA">` +
		`<a href="https://other.example.com/x">absolute</a>`

	got, err := inliner.Inline(input, true, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	wantContains := []string{
		`href="https://wiki.example.com/wiki/page"`,
		`src="https://wiki.example.com/download/attachments/1/pic.png"`,
		`href="#section"`,
		`src="cid:abc@confluence-export"`,
		`src="data:image/png;base64,AAAA"`,
		`href="https://other.example.com/x"`,
	}
	for _, want := range wantContains {
		if !strings.Contains(got, want) {
			t.Errorf("expected output to contain %q, got:\n%s", want, got)
		}
	}
}

func TestCSSInliner_AbsolutizesKeptStylesheetURLs(t *testing.T) {
	inliner := &CSSInliner{
		BaseURL:       "https://wiki.example.com",
		KeepStyleTags: true,
	}

	css := "div { background: url('/images/bg.png'); }"
	got, err := inliner.Inline("<div>x</div>", true, css)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(got, "<style") {
		t.Fatalf("expected the stylesheet to survive, got:\n%s", got)
	}
	if !strings.Contains(got, "url('https://wiki.example.com/images/bg.png')") {
		t.Errorf("expected the kept stylesheet's url() rewritten against the base, got:\n%s", got)
	}
	if strings.Contains(got, "url('/images/bg.png')") {
		t.Errorf("relative url() should not survive in the kept stylesheet, got:\n%s", got)
	}
}

func TestCSSInliner_NoBaseURLLeavesRelativeURLs(t *testing.T) {
	inliner := &CSSInliner{}
	got, err := inliner.Inline(`<a href="/wiki/page">link</a>`, true, "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !strings.Contains(got, `href="/wiki/page"`) {
		t.Errorf("relative URL should stay relative without a base, got:\n%s", got)
	}
}
