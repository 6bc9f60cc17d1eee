package storage

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/google/uuid"
)

// ReceiptExtension is appended to every generated receipt name
const ReceiptExtension = ".pdf"

// ErrReceiptNotFound is returned when a receipt blob does not exist
var ErrReceiptNotFound = errors.New("receipt not found")

// StorageError represents an error that occurred within a receipt store
type StorageError struct {
	// Op is the operation that failed
	Op string

	// Err is the underlying error
	Err error
}

// Error returns a string representation of the error
func (e *StorageError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return e.Op
}

// Unwrap returns the underlying error
func (e *StorageError) Unwrap() error {
	return e.Err
}

// ReceiptStore persists receipt blobs and hands back the reference that is
// stored on the purchase row
type ReceiptStore interface {
	// Save writes content under name and returns the stored reference
	Save(ctx context.Context, name string, content io.Reader) (string, error)

	// Remove deletes the blob behind ref. It returns ErrReceiptNotFound when
	// there is nothing to delete.
	Remove(ctx context.Context, ref string) error

	// Exists reports whether the blob behind ref is present
	Exists(ctx context.Context, ref string) (bool, error)
}

// NewReceiptName generates a random 128-bit receipt file name
func NewReceiptName() string {
	return uuid.NewString() + ReceiptExtension
}
