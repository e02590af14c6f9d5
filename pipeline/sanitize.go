package pipeline

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Elements dropped for security: their whole subtree goes.
var unsafeElements = []string{
	"script", "iframe", "object", "embed", "form",
	"input", "button", "select", "textarea",
}

// Elements email clients don't support well.  Overlap with the unsafe set is
// fine; removal is idempotent.
var emailIncompatibleElements = []string{
	"iframe", "object", "embed", "form",
	"video", "audio", "canvas", "svg",
}

// Event-handler attributes stripped from every element.  net/html lowercases
// attribute names during parsing, so this lookup is effectively
// case-insensitive.
var unsafeAttributes = map[string]bool{
	"onclick":     true,
	"onerror":     true,
	"onload":      true,
	"onmouseover": true,
	"onfocus":     true,
	"onblur":      true,
	"onchange":    true,
	"onsubmit":    true,
	"onkeydown":   true,
	"onkeyup":     true,
	"onkeypress":  true,
}

// Sanitizer strips unsafe and email-incompatible markup.  Each behavior can be
// toggled independently; the zero value disables everything, so use
// NewSanitizer for the defaults.
type Sanitizer struct {
	RemoveUnsafeElements    bool
	RemoveEmailIncompatible bool
	RemoveStyleTags         bool
	StripEventHandlers      bool
	EnsureImageAlt          bool

	// Alt text applied to images missing one.
	DefaultImageAlt string
}

// NewSanitizer returns a Sanitizer with every behavior enabled and "Image" as
// the default alt text.
func NewSanitizer() *Sanitizer {
	return &Sanitizer{
		RemoveUnsafeElements:    true,
		RemoveEmailIncompatible: true,
		RemoveStyleTags:         true,
		StripEventHandlers:      true,
		EnsureImageAlt:          true,
		DefaultImageAlt:         "Image",
	}
}

// Sanitize applies the configured policy and returns the cleaned HTML.
// Fragments come back as fragments, full documents as full documents, which
// makes the operation idempotent.  Tag soup is recovered, not rejected.
func (s *Sanitizer) Sanitize(htmlContent string) (string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return "", fmt.Errorf("pipeline: %w: %v", ErrHTMLSanitization, err)
	}

	if s.RemoveUnsafeElements {
		doc.Find(strings.Join(unsafeElements, ", ")).Remove()
	}
	if s.RemoveEmailIncompatible {
		doc.Find(strings.Join(emailIncompatibleElements, ", ")).Remove()
	}
	if s.RemoveStyleTags {
		doc.Find("style").Remove()
	}

	if s.StripEventHandlers {
		doc.Find("*").Each(func(_ int, sel *goquery.Selection) {
			for _, node := range sel.Nodes {
				for _, attr := range node.Attr {
					if unsafeAttributes[strings.ToLower(attr.Key)] {
						sel.RemoveAttr(attr.Key)
					}
				}
			}
		})
	}

	if s.EnsureImageAlt {
		doc.Find("img").Each(func(_ int, img *goquery.Selection) {
			if alt, _ := img.Attr("alt"); alt == "" {
				img.SetAttr("alt", s.DefaultImageAlt)
			}
		})
	}

	return renderLikeInput(doc, htmlContent)
}

// BodyContent returns the inner markup of <body> if the input has one, else the
// input unchanged.
func (s *Sanitizer) BodyContent(htmlContent string) (string, error) {
	if !strings.Contains(strings.ToLower(htmlContent), "<body") {
		return htmlContent, nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return "", fmt.Errorf("pipeline: %w: %v", ErrHTMLSanitization, err)
	}

	inner, err := doc.Find("body").Html()
	if err != nil {
		return "", fmt.Errorf("pipeline: %w: %v", ErrHTMLSanitization, err)
	}
	return inner, nil
}

// renderLikeInput serializes the parsed document in the same shape the input
// had: net/html always wraps fragments in html/head/body during parsing, and
// we don't want a fragment to grow a document shell just by being sanitized.
func renderLikeInput(doc *goquery.Document, input string) (string, error) {
	if strings.Contains(strings.ToLower(input), "<html") {
		out, err := doc.Html()
		if err != nil {
			return "", fmt.Errorf("pipeline: %w: %v", ErrHTMLSanitization, err)
		}
		return out, nil
	}

	inner, err := doc.Find("body").Html()
	if err != nil {
		return "", fmt.Errorf("pipeline: %w: %v", ErrHTMLSanitization, err)
	}
	return inner, nil
}
