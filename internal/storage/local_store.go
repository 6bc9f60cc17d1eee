package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
)

// LocalReceiptStore keeps receipts as files in a single directory
type LocalReceiptStore struct {
	baseDir string
}

// NewLocalReceiptStore creates the upload directory if needed
func NewLocalReceiptStore(baseDir string) (*LocalReceiptStore, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, &StorageError{
			Op:  "create_store",
			Err: fmt.Errorf("failed to create upload directory: %w", err),
		}
	}

	return &LocalReceiptStore{baseDir: baseDir}, nil
}

// BaseDir returns the directory receipts are written to
func (s *LocalReceiptStore) BaseDir() string {
	return s.baseDir
}

// Save writes the receipt to <baseDir>/<name> and returns that path.
// A partially written file is removed before the error is returned.
func (s *LocalReceiptStore) Save(ctx context.Context, name string, content io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", &StorageError{Op: "save_receipt", Err: err}
	}

	filePath := filepath.Join(s.baseDir, name)

	f, err := os.OpenFile(filePath, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0644)
	if err != nil {
		return "", &StorageError{
			Op:  "save_receipt",
			Err: fmt.Errorf("failed to create receipt file: %w", err),
		}
	}

	if _, err := io.Copy(f, content); err != nil {
		f.Close()
		os.Remove(filePath)
		return "", &StorageError{
			Op:  "save_receipt",
			Err: fmt.Errorf("failed to write receipt file: %w", err),
		}
	}

	if err := f.Close(); err != nil {
		os.Remove(filePath)
		return "", &StorageError{
			Op:  "save_receipt",
			Err: fmt.Errorf("failed to close receipt file: %w", err),
		}
	}

	return filePath, nil
}

// Remove deletes the receipt file at ref
func (s *LocalReceiptStore) Remove(ctx context.Context, ref string) error {
	if err := os.Remove(ref); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return ErrReceiptNotFound
		}
		return &StorageError{
			Op:  "remove_receipt",
			Err: fmt.Errorf("failed to remove receipt file: %w", err),
		}
	}
	return nil
}

// Exists reports whether a receipt file is present at ref
func (s *LocalReceiptStore) Exists(ctx context.Context, ref string) (bool, error) {
	_, err := os.Stat(ref)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, &StorageError{Op: "stat_receipt", Err: err}
}
