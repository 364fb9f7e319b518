package discovery

import "errors"

var (
	// ErrNoPagesFound indicates the input tree contains no Markdown documents.
	// This is fatal to the whole build.
	ErrNoPagesFound = errors.New("no markdown pages found")

	// ErrWalkFailed indicates filesystem traversal of the input tree failed.
	ErrWalkFailed = errors.New("input directory walk failed")

	// ErrFileReadFailed indicates reading a discovered document failed.
	ErrFileReadFailed = errors.New("page read failed")
)
