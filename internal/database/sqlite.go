package database

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"
)

// SQLiteDB manages an embedded SQLite database
type SQLiteDB struct {
	db *sql.DB
}

// NewSQLiteDB opens the SQLite database at dsn. ":memory:" gives a private
// in-memory database.
func NewSQLiteDB(ctx context.Context, dsn string) (*SQLiteDB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open sqlite database: %w", err)
	}

	// SQLite has a single writer, and an in-memory database only lives on
	// the connection that created it.
	db.SetMaxOpenConns(1)

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping sqlite database: %w", err)
	}

	return &SQLiteDB{db: db}, nil
}

// Close closes the database
func (s *SQLiteDB) Close() error {
	return s.db.Close()
}

// DB returns the underlying handle
func (s *SQLiteDB) DB() *sql.DB {
	return s.db
}

// Migrate applies the embedded SQLite schema
func (s *SQLiteDB) Migrate(ctx context.Context) error {
	statements, err := loadMigrations(DialectSQLite)
	if err != nil {
		return err
	}

	for _, m := range statements {
		if _, err := s.db.ExecContext(ctx, m.sql); err != nil {
			return fmt.Errorf("failed to apply migration %s: %w", m.name, err)
		}
	}

	return nil
}

// ExecuteTransaction runs txFunc inside a transaction, committing on success
func (s *SQLiteDB) ExecuteTransaction(ctx context.Context, txFunc func(*sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	if err := txFunc(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("error: %v, rollback error: %w", err, rbErr)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}
