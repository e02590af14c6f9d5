package confluence

import "errors"

// Sentinel errors for client and URL-resolution failures.
var (
	ErrAuthenticationFailed = errors.New("authentication failed")
	ErrPageNotFound         = errors.New("page not found")
	ErrUnrecognizedURL      = errors.New("unrecognised Confluence URL")
)
