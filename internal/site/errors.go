package site

import "errors"

var (
	// ErrPageRender is wrapped around any failure while turning a single
	// source document into its output document.
	ErrPageRender = errors.New("page render failed")

	// ErrSiteWrite is wrapped around failures writing the site skeleton
	// (output directories, shared assets, the redirect stub).
	ErrSiteWrite = errors.New("site write failed")
)
