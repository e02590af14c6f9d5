// Package localdump writes the intermediate Markdown rendition of an exported
// page next to the .eml output.
package localdump

import (
	"path/filepath"
	"regexp"
	"strings"
)

// DefaultMaxFilenameLength bounds generated filenames; most filesystems cap
// names at 255 bytes and page titles can be arbitrarily long.
const DefaultMaxFilenameLength = 200

var (
	// < > : " / \ | ? * and control characters are invalid somewhere between
	// Windows, macOS and Linux; replace the lot.
	invalidFilenameChars = regexp.MustCompile(`[<>:"/\\|?*\x00-\x1f]`)
	filenameRuns         = regexp.MustCompile(`[\s\-]+`)
)

// SanitizeFilename turns a page title into a safe filename (no extension).
// Empty or fully-invalid titles come back as "untitled".
func SanitizeFilename(title string, maxLength int) string {
	if maxLength <= 0 {
		maxLength = DefaultMaxFilenameLength
	}

	filename := strings.TrimSpace(title)
	filename = invalidFilenameChars.ReplaceAllString(filename, " ")
	filename = filenameRuns.ReplaceAllString(filename, " ")
	// Windows refuses trailing dots and spaces.
	filename = strings.Trim(filename, " .")

	// Truncate on rune boundaries so multibyte titles stay valid UTF-8.
	if runes := []rune(filename); len(runes) > maxLength {
		filename = strings.TrimRight(string(runes[:maxLength]), " ")
	}

	if filename == "" {
		return "untitled"
	}
	return filename
}

// MarkdownPath builds the output path for the Markdown file derived from a
// page title.  An empty outputDir means the current directory.
func MarkdownPath(title string, outputDir string) string {
	name := SanitizeFilename(title, DefaultMaxFilenameLength) + ".md"
	if outputDir == "" {
		return name
	}
	return filepath.Join(outputDir, name)
}
