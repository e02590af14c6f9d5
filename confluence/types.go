package confluence

// See https://developer.atlassian.com/cloud/confluence/rest/v2/api-group-page/#api-pages-id-get.
type Page struct {
	ID       string `json:"id,omitempty"`
	Status   string `json:"status,omitempty"` // current, archived, deleted, trashed
	Title    string `json:"title,omitempty"`
	SpaceID  string `json:"spaceId,omitempty"`
	ParentID string `json:"parentId,omitempty"`
	AuthorID string `json:"authorId,omitempty"`

	CreatedAt string   `json:"createdAt"`
	Version   *Version `json:"version,omitempty"`

	Body Body `json:"body"`

	Links struct {
		WebUI  string `json:"webui"`
		EditUI string `json:"editui"`
		TinyUI string `json:"tinyui"`
	} `json:"_links"`
}

// Version defines the content version number
type Version struct {
	CreatedAt string `json:"createdAt"`
	Message   string `json:"message,omitempty"`
	Number    int    `json:"number"`
	MinorEdit bool   `json:"minorEdit"`
	AuthorID  string `json:"authorId,omitempty"`
}

// Body holds the storage information
type Body struct {
	Storage        Storage  `json:"storage"`
	AtlasDocFormat *Storage `json:"atlas_doc_format,omitempty"`
	View           *Storage `json:"view,omitempty"`
}

// Storage defines the storage information
type Storage struct {
	Representation string `json:"representation"`
	Value          string `json:"value"`
}

// PageContent is what the export pipeline consumes: one page, already converted
// to Markdown.  Attachments is declared for parity with the REST shape but is
// not populated by FetchPageContent.
type PageContent struct {
	Markdown    string
	Title       string
	Attachments []string
	PageID      string
	URL         string
}
