package pipeline

import "errors"

// Sentinel errors for the transformation stages.
var (
	ErrMarkdownConversion = errors.New("markdown conversion failed")
	ErrHTMLSanitization   = errors.New("HTML sanitization failed")
	ErrCSSInlining        = errors.New("CSS inlining failed")

	// ErrImageProcessing covers structural failures; ErrImageDownload is the
	// per-image transport failure that gets recovered locally and never
	// propagates out of Process.
	ErrImageProcessing = errors.New("image processing failed")
	ErrImageDownload   = errors.New("image download failed")
)
