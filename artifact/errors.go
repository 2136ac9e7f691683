package artifact

import "fmt"

var (
	// ErrNotFound is returned when a document with the given name does not
	// exist in the underlying store.
	ErrNotFound = fmt.Errorf("document not found")

	// ErrInvalidName is returned for names that are empty or would escape the
	// store's root.
	ErrInvalidName = fmt.Errorf("invalid document name")
)
