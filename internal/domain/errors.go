// Path: internal/domain/errors.go
package domain

import "errors"

var (
	// ErrUnknownStore is returned when a caller names a store that is not
	// in the registry.
	ErrUnknownStore = errors.New("unknown store")

	// ErrInvalidQuery is returned when a query term is empty after trimming.
	ErrInvalidQuery = errors.New("invalid query term")

	// ErrStorageUnavailable marks cache/registry backend failures. The core
	// degrades to empty reads and dropped writes instead of propagating it.
	ErrStorageUnavailable = errors.New("storage unavailable")
)
