package astrodb

import "errors"

// Errors returned by object registration and removal. Lookup misses are
// reported as nil objects or catalog.InvalidIndex, never as errors.
var (
	ErrDuplicateIndex = errors.New("canonical index already in use")
	ErrNotFound       = errors.New("object not found")
	ErrNilObject      = errors.New("nil object")
	ErrObjectOwned    = errors.New("object already belongs to a database")
	ErrNotPositioned  = errors.New("object kind has no catalog position")
)
