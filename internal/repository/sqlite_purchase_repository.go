package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ridwanfathin/purchase-manager-service/internal/database"
	"github.com/ridwanfathin/purchase-manager-service/internal/domain"
)

// SQLitePurchaseRepository implements PurchaseRepository on an embedded SQLite database
type SQLitePurchaseRepository struct {
	db *database.SQLiteDB
}

// NewSQLitePurchaseRepository creates a new SQLite purchase repository
func NewSQLitePurchaseRepository(db *database.SQLiteDB) *SQLitePurchaseRepository {
	return &SQLitePurchaseRepository{db: db}
}

// CreatePurchase saves a new purchase and sets its generated ID
func (r *SQLitePurchaseRepository) CreatePurchase(ctx context.Context, purchase *domain.Purchase) (*domain.Purchase, error) {
	result, err := r.db.DB().ExecContext(ctx, `
		INSERT INTO purchases (customer_name, customer_surname, customer_cf, credit_card, product_name, price, date, receipt_path)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, purchase.CustomerName, purchase.CustomerSurname, purchase.CustomerCF, purchase.CreditCard,
		purchase.ProductName, purchase.Price, purchase.Date, purchase.ReceiptPath)
	if err != nil {
		return nil, &RepositoryError{
			Op:  "create_purchase",
			Err: fmt.Errorf("failed to insert purchase: %w", err),
		}
	}

	id, err := result.LastInsertId()
	if err != nil {
		return nil, &RepositoryError{
			Op:  "create_purchase",
			Err: fmt.Errorf("failed to read purchase id: %w", err),
		}
	}
	purchase.ID = id

	return purchase, nil
}

// GetPurchaseByID retrieves a purchase by its ID
func (r *SQLitePurchaseRepository) GetPurchaseByID(ctx context.Context, purchaseID int64) (*domain.Purchase, error) {
	row := r.db.DB().QueryRowContext(ctx, `SELECT `+purchaseColumns+` FROM purchases WHERE id = ?`, purchaseID)

	purchase, err := scanPurchase(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrPurchaseNotFound
		}
		return nil, &RepositoryError{
			Op:  "get_purchase",
			Err: fmt.Errorf("failed to get purchase: %w", err),
		}
	}

	return &purchase, nil
}

// SearchPurchases retrieves purchases matching the filter, ordered by ID
func (r *SQLitePurchaseRepository) SearchPurchases(ctx context.Context, filter domain.PurchaseFilter) ([]domain.Purchase, error) {
	query, args := buildSearchQuery(filter, sqliteDialect)

	rows, err := r.db.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, &RepositoryError{
			Op:  "search_purchases",
			Err: fmt.Errorf("failed to query purchases: %w", err),
		}
	}
	defer rows.Close()

	purchases := []domain.Purchase{}
	for rows.Next() {
		purchase, err := scanPurchase(rows)
		if err != nil {
			return nil, &RepositoryError{
				Op:  "search_purchases",
				Err: fmt.Errorf("failed to scan purchase: %w", err),
			}
		}
		purchases = append(purchases, purchase)
	}

	if err := rows.Err(); err != nil {
		return nil, &RepositoryError{
			Op:  "search_purchases",
			Err: fmt.Errorf("error iterating purchases: %w", err),
		}
	}

	return purchases, nil
}

// DeletePurchase deletes a purchase by its ID within a transaction
func (r *SQLitePurchaseRepository) DeletePurchase(ctx context.Context, purchaseID int64, beforeCommit func(*domain.Purchase) error) error {
	err := r.db.ExecuteTransaction(ctx, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, `SELECT `+purchaseColumns+` FROM purchases WHERE id = ?`, purchaseID)

		purchase, err := scanPurchase(row)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				return domain.ErrPurchaseNotFound
			}
			return fmt.Errorf("failed to read purchase: %w", err)
		}

		if _, err := tx.ExecContext(ctx, `DELETE FROM purchases WHERE id = ?`, purchaseID); err != nil {
			return fmt.Errorf("failed to delete purchase: %w", err)
		}

		if beforeCommit != nil {
			return beforeCommit(&purchase)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrPurchaseNotFound) {
			return domain.ErrPurchaseNotFound
		}
		return &RepositoryError{Op: "delete_purchase", Err: err}
	}

	return nil
}
