package services

import "fmt"

// ValidationError rejects malformed input before anything touches the
// database. It is reported to the caller and never broadcast.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func validationErr(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// StorageError wraps a persistence-layer fault with the operation and
// collection it hit.
type StorageError struct {
	Op         string
	Collection string
	Err        error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Collection, e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func storageErr(op, collection string, err error) error {
	return &StorageError{Op: op, Collection: collection, Err: err}
}
