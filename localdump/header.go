package localdump

import (
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// MarkdownHeader is the YAML frontmatter written above the exported Markdown,
// so the file stays traceable to the page it came from.
type MarkdownHeader struct {
	Title     string    `yaml:"title"`
	ObjectID  string    `yaml:"id"`
	URI       string    `yaml:"uri"`
	Timestamp time.Time `yaml:"timestamp"`
}

// RenderWithHeader prepends the frontmatter block to the Markdown body.
func RenderWithHeader(header MarkdownHeader, markdown string) (string, error) {
	yamlHeader, err := yaml.Marshal(header)
	if err != nil {
		return "", fmt.Errorf("localdump: couldn't marshal header YAML: %w", err)
	}

	return fmt.Sprintf(`---
%s
---
%s
`,
		strings.TrimSpace(string(yamlHeader)),
		markdown), nil
}
