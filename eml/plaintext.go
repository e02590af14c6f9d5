package eml

import (
	"regexp"
	"strings"
)

var (
	scriptContentPattern = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	styleContentPattern  = regexp.MustCompile(`(?is)<style[^>]*>.*?</style>`)
	blockClosePattern    = regexp.MustCompile(`(?i)</(p|div|h[1-6]|li|tr|br)[^>]*>`)
	anyTagPattern        = regexp.MustCompile(`<[^>]+>`)
	tripleNewlinePattern = regexp.MustCompile(`\n\s*\n\s*\n+`)
)

// entityReplacer decodes the handful of entities that actually show up in
// exported pages.  Anything more exotic stays literal in the fallback text.
var entityReplacer = strings.NewReplacer(
	"&nbsp;", " ",
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&quot;", `"`,
	"&#39;", "'",
)

// DerivePlainText produces the text/plain fallback for an HTML body: script
// and style subtrees are dropped wholesale, block-level closing tags become
// newlines, remaining tags are stripped, basic entities are decoded, and runs
// of blank lines collapse to one.
func DerivePlainText(htmlContent string) string {
	text := scriptContentPattern.ReplaceAllString(htmlContent, "")
	text = styleContentPattern.ReplaceAllString(text, "")
	text = blockClosePattern.ReplaceAllString(text, "\n")
	text = anyTagPattern.ReplaceAllString(text, "")
	text = entityReplacer.Replace(text)
	text = tripleNewlinePattern.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
