package pipeline

import "strings"

// ImageRecord is one downloaded image destined to become an inline MIME part.
// ContentID is Message-ID-shaped (without angle brackets) and unique per image.
type ImageRecord struct {
	ContentID   string
	Data        []byte
	ContentType string // "type/subtype"
	Filename    string // best-effort, may be empty
}

// MainType returns the main MIME type, e.g. "image".
func (r ImageRecord) MainType() string {
	main, _, _ := strings.Cut(r.ContentType, "/")
	return main
}

// SubType returns the MIME subtype, e.g. "png".
func (r ImageRecord) SubType() string {
	_, sub, ok := strings.Cut(r.ContentType, "/")
	if !ok || sub == "" {
		return "octet-stream"
	}
	return sub
}
