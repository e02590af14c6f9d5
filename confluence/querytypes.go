package confluence

// GetPageByIDQuery defines the query parameters for:
// https://developer.atlassian.com/cloud/confluence/rest/v2/api-group-page/#api-pages-id-get
type GetPageByIDQuery struct {
	ID int `url:"-"` // ID of the page; required

	// The content format types to be returned in the body field of the response.  If available,
	// the representation will be available under a response field of the same name under the body
	// field.  Valid values: storage, atlas_doc_format, view, export_view, anonymous_export_view
	BodyFormat string `url:"body-format,omitempty"`
	GetDraft   bool   `url:"get-draft,omitempty"`
	Version    int    `url:"version,omitempty"` // Allows you to retrieve a previously published version.
}
