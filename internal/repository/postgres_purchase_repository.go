package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/ridwanfathin/purchase-manager-service/internal/database"
	"github.com/ridwanfathin/purchase-manager-service/internal/domain"
)

// PostgresPurchaseRepository implements PurchaseRepository using PostgreSQL
type PostgresPurchaseRepository struct {
	db *database.PostgresDB
}

// NewPostgresPurchaseRepository creates a new PostgreSQL purchase repository
func NewPostgresPurchaseRepository(db *database.PostgresDB) *PostgresPurchaseRepository {
	return &PostgresPurchaseRepository{
		db: db,
	}
}

// CreatePurchase saves a new purchase and sets its generated ID
func (r *PostgresPurchaseRepository) CreatePurchase(ctx context.Context, purchase *domain.Purchase) (*domain.Purchase, error) {
	err := r.db.GetPool().QueryRow(ctx, `
		INSERT INTO purchases (customer_name, customer_surname, customer_cf, credit_card, product_name, price, date, receipt_path)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`, purchase.CustomerName, purchase.CustomerSurname, purchase.CustomerCF, purchase.CreditCard,
		purchase.ProductName, purchase.Price, purchase.Date, purchase.ReceiptPath,
	).Scan(&purchase.ID)
	if err != nil {
		return nil, &RepositoryError{
			Op:  "create_purchase",
			Err: fmt.Errorf("failed to insert purchase: %w", err),
		}
	}

	return purchase, nil
}

// GetPurchaseByID retrieves a purchase by its ID
func (r *PostgresPurchaseRepository) GetPurchaseByID(ctx context.Context, purchaseID int64) (*domain.Purchase, error) {
	row := r.db.GetPool().QueryRow(ctx, `SELECT `+purchaseColumns+` FROM purchases WHERE id = $1`, purchaseID)

	purchase, err := scanPurchase(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
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
func (r *PostgresPurchaseRepository) SearchPurchases(ctx context.Context, filter domain.PurchaseFilter) ([]domain.Purchase, error) {
	query, args := buildSearchQuery(filter, postgresDialect)

	rows, err := r.db.GetPool().Query(ctx, query, args...)
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
func (r *PostgresPurchaseRepository) DeletePurchase(ctx context.Context, purchaseID int64, beforeCommit func(*domain.Purchase) error) error {
	err := r.db.ExecuteTransaction(ctx, func(tx pgx.Tx) error {
		row := tx.QueryRow(ctx, `SELECT `+purchaseColumns+` FROM purchases WHERE id = $1 FOR UPDATE`, purchaseID)

		purchase, err := scanPurchase(row)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.ErrPurchaseNotFound
			}
			return fmt.Errorf("failed to lock purchase: %w", err)
		}

		if _, err := tx.Exec(ctx, `DELETE FROM purchases WHERE id = $1`, purchaseID); err != nil {
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
