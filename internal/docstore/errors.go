package docstore

import (
	"fmt"

	"github.com/go-faster/errors"
)

// The error types below form the failure taxonomy tests assert on. No
// operation in the doubles fails with these on its own; tests inject them
// to simulate the corresponding driver failures.

// ServerSelectionError indicates no reachable server could be selected
// within the selection timeout.
type ServerSelectionError struct {
	Addr string
}

func (e *ServerSelectionError) Error() string {
	return fmt.Sprintf("server selection timed out: %s", e.Addr)
}

// NetworkError indicates an I/O failure while talking to a server.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("network error during %s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// ValidationError indicates a document failed schema validation.
type ValidationError struct {
	Model  string
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s validation failed: %s: %s", e.Model, e.Field, e.Reason)
}

// CastError indicates a value could not be cast to the schema type at the
// given path, most commonly a malformed object ID.
type CastError struct {
	Path  string
	Value any
}

func (e *CastError) Error() string {
	return fmt.Sprintf("cast to ObjectId failed for value %v at path %q", e.Value, e.Path)
}

// NotFoundError indicates no document matched the query.
type NotFoundError struct {
	Model string
	ID    string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Model, e.ID)
}

// IsNotFound reports whether err is, or wraps, a NotFoundError.
func IsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}

// IsValidation reports whether err is, or wraps, a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// IsCast reports whether err is, or wraps, a CastError.
func IsCast(err error) bool {
	var ce *CastError
	return errors.As(err, &ce)
}
