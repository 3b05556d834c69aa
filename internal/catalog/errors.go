package catalog

import "errors"

// Errors returned by catalog registration. Lookup misses are never errors.
var (
	ErrDuplicateMapping    = errors.New("catalog number or index already mapped")
	ErrDuplicateCatalog    = errors.New("catalog id already registered")
	ErrInvalidCatalog      = errors.New("unknown catalog id")
	ErrIndexSpaceExhausted = errors.New("canonical index space exhausted")
	ErrRangeOverflow       = errors.New("catalog range overflows the index space")
	ErrInvalidMapping      = errors.New("invalid catalog number or index")
)
