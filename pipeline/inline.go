package pipeline

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/vanng822/go-premailer/premailer"
)

// DefaultCSS is the stylesheet applied to exported pages.  It gets pushed into
// inline style attributes by Inline, so it stays deliberately plain: no
// pseudo-classes, no media queries, nothing Outlook chokes on.
const DefaultCSS = `body {
  font-family: -apple-system, 'Segoe UI', Helvetica, Arial, sans-serif;
  font-size: 14px;
  line-height: 1.6;
  color: #172b4d;
  margin: 0;
  padding: 16px;
}

h1, h2, h3, h4, h5, h6 {
  color: #172b4d;
  line-height: 1.3;
  margin: 1.2em 0 0.5em 0;
}

h1 {
  font-size: 24px;
  border-bottom: 1px solid #dfe1e6;
  padding-bottom: 8px;
}

h2 {
  font-size: 20px;
}

h3 {
  font-size: 16px;
}

p {
  margin: 0 0 1em 0;
}

a {
  color: #0052cc;
  text-decoration: none;
}

code {
  font-family: SFMono-Regular, Consolas, Menlo, monospace;
  font-size: 0.9em;
  background-color: #f4f5f7;
  border-radius: 3px;
  padding: 1px 4px;
}

pre {
  font-family: SFMono-Regular, Consolas, Menlo, monospace;
  font-size: 0.85em;
  background-color: #f4f5f7;
  border-radius: 3px;
  padding: 8px 12px;
  overflow: auto;
}

blockquote {
  border-left: 2px solid #dfe1e6;
  color: #5e6c84;
  margin: 1em 0;
  padding-left: 12px;
}

table {
  border-collapse: collapse;
  margin: 1em 0;
}

th, td {
  border: 1px solid #c1c7d0;
  padding: 6px 10px;
  text-align: left;
}

th {
  background-color: #f4f5f7;
}

ul, ol {
  margin: 0 0 1em 0;
  padding-left: 2em;
}

img {
  max-width: 100%;
}

hr {
  border: 0;
  border-top: 1px solid #dfe1e6;
  margin: 1.5em 0;
}
`

// CSSInliner pushes stylesheet rules into inline style attributes.  Email
// clients (Outlook and Gmail above all) strip <style> blocks and external
// stylesheets, so inline attributes are the only styling that reliably
// survives delivery.
type CSSInliner struct {
	// BaseURL, when set, is used to rewrite relative href/src/url() references
	// to absolute ones.
	BaseURL string

	// StripImportant drops !important flags during inlining.
	StripImportant bool

	// KeepStyleTags re-injects the consumed stylesheet after inlining.
	KeepStyleTags bool
}

var (
	styleBlockPattern = regexp.MustCompile(`(?is)<style[^>]*>(.*?)</style>`)
	headClosePattern  = regexp.MustCompile(`(?i)</head>`)
	cssURLPattern     = regexp.MustCompile(`url\(\s*['"]?([^'")\s]+)['"]?\s*\)`)
)

// Inline wraps the fragment in a document shell with the stylesheet (unless
// wrapWithCSS is false or the input already is a full document, in which case
// the stylesheet is injected into its head), runs the premailer transform, and
// absolutizes relative URLs against BaseURL.  Pass cssContent == "" for the
// default stylesheet.
func (c *CSSInliner) Inline(htmlContent string, wrapWithCSS bool, cssContent string) (string, error) {
	if cssContent == "" {
		cssContent = DefaultCSS
	}

	if wrapWithCSS {
		htmlContent = wrapHTMLWithCSS(htmlContent, cssContent)
	}

	var keptStyles []string
	if c.KeepStyleTags {
		for _, m := range styleBlockPattern.FindAllStringSubmatch(htmlContent, -1) {
			keptStyles = append(keptStyles, m[1])
		}
	}

	options := premailer.NewOptions()
	options.RemoveClasses = false
	options.CssToAttributes = true
	options.KeepBangImportant = !c.StripImportant

	prem, err := premailer.NewPremailerFromString(htmlContent, options)
	if err != nil {
		return "", fmt.Errorf("pipeline: %w: %v", ErrCSSInlining, err)
	}

	inlined, err := prem.Transform()
	if err != nil {
		return "", fmt.Errorf("pipeline: %w: %v", ErrCSSInlining, err)
	}

	if len(keptStyles) > 0 {
		inlined = injectStyleBlock(inlined, strings.Join(keptStyles, "\n"))
	}

	if c.BaseURL != "" {
		inlined, err = c.absolutizeURLs(inlined)
		if err != nil {
			return "", err
		}
	}

	return inlined, nil
}

// wrapHTMLWithCSS puts fragment content into a full document shell carrying the
// stylesheet.  Input that already has html, head and body tags keeps its shell;
// the stylesheet goes into the existing head instead.
func wrapHTMLWithCSS(htmlContent, cssContent string) string {
	lower := strings.ToLower(htmlContent)
	if strings.Contains(lower, "<html") && strings.Contains(lower, "<head") && strings.Contains(lower, "<body") {
		return injectStyleBlock(htmlContent, cssContent)
	}

	return fmt.Sprintf(`<!DOCTYPE html>
<html>
<head>
<meta charset="utf-8">
<style type="text/css">
%s
</style>
</head>
<body>
%s
</body>
</html>`, cssContent, htmlContent)
}

// injectStyleBlock inserts a <style> element before </head>, or prepends one
// when there is no head to speak of.
func injectStyleBlock(htmlContent, cssContent string) string {
	styleBlock := "<style type=\"text/css\">\n" + cssContent + "\n</style>"

	if loc := headClosePattern.FindStringIndex(htmlContent); loc != nil {
		return htmlContent[:loc[0]] + styleBlock + htmlContent[loc[0]:]
	}
	return styleBlock + htmlContent
}

// absolutizeURLs rewrites relative href/src attributes and url() references in
// inline styles against BaseURL.  Absolute URLs and data:/cid: URIs pass
// through untouched.
func (c *CSSInliner) absolutizeURLs(htmlContent string) (string, error) {
	base, err := url.Parse(c.BaseURL)
	if err != nil {
		return "", fmt.Errorf("pipeline: %w: bad base URL %q: %v", ErrCSSInlining, c.BaseURL, err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return "", fmt.Errorf("pipeline: %w: %v", ErrCSSInlining, err)
	}

	for _, attr := range []string{"href", "src"} {
		attr := attr
		doc.Find("[" + attr + "]").Each(func(_ int, sel *goquery.Selection) {
			val, _ := sel.Attr(attr)
			if resolved, ok := resolveAgainst(base, val); ok {
				sel.SetAttr(attr, resolved)
			}
		})
	}

	rewriteCSSURLs := func(css string) string {
		return cssURLPattern.ReplaceAllStringFunc(css, func(m string) string {
			ref := cssURLPattern.FindStringSubmatch(m)[1]
			if resolved, ok := resolveAgainst(base, ref); ok {
				return "url('" + resolved + "')"
			}
			return m
		})
	}

	doc.Find("[style]").Each(func(_ int, sel *goquery.Selection) {
		style, _ := sel.Attr("style")
		if rewritten := rewriteCSSURLs(style); rewritten != style {
			sel.SetAttr("style", rewritten)
		}
	})

	// Stylesheets kept via KeepStyleTags carry url() references too.
	doc.Find("style").Each(func(_ int, sel *goquery.Selection) {
		css := sel.Text()
		if rewritten := rewriteCSSURLs(css); rewritten != css {
			sel.SetText(rewritten)
		}
	})

	out, err := doc.Html()
	if err != nil {
		return "", fmt.Errorf("pipeline: %w: %v", ErrCSSInlining, err)
	}
	return out, nil
}

// resolveAgainst resolves ref against base, reporting whether a rewrite
// happened.  Anchors, data:/cid: URIs and anything already absolute stay put.
func resolveAgainst(base *url.URL, ref string) (string, bool) {
	if ref == "" || strings.HasPrefix(ref, "#") ||
		strings.HasPrefix(ref, "data:") || strings.HasPrefix(ref, "cid:") {
		return "", false
	}

	u, err := url.Parse(ref)
	if err != nil || u.IsAbs() {
		return "", false
	}

	return base.ResolveReference(u).String(), true
}
