package ingest

import "errors"

// Errors returned while reading a catalog file.
var (
	ErrReadCatalog   = errors.New("failed to read catalog")
	ErrMissingColumn = errors.New("catalog is missing a required column")
)
