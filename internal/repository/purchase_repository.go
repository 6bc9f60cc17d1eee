package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/ridwanfathin/purchase-manager-service/internal/domain"
)

// RepositoryError represents an error that occurred within a repository
type RepositoryError struct {
	// Op is the operation that failed
	Op string

	// Err is the underlying error
	Err error
}

// Error returns a string representation of the error
func (e *RepositoryError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return e.Op
}

// Unwrap returns the underlying error
func (e *RepositoryError) Unwrap() error {
	return e.Err
}

// PurchaseRepository defines the interface for purchase data operations.
// Lookups of a missing ID return domain.ErrPurchaseNotFound.
type PurchaseRepository interface {
	CreatePurchase(ctx context.Context, purchase *domain.Purchase) (*domain.Purchase, error)
	GetPurchaseByID(ctx context.Context, purchaseID int64) (*domain.Purchase, error)
	SearchPurchases(ctx context.Context, filter domain.PurchaseFilter) ([]domain.Purchase, error)

	// DeletePurchase removes the row inside a transaction. beforeCommit runs
	// after the row is deleted but before the commit; a non-nil error from it
	// rolls the deletion back.
	DeletePurchase(ctx context.Context, purchaseID int64, beforeCommit func(*domain.Purchase) error) error
}

const purchaseColumns = `id, customer_name, customer_surname, customer_cf, credit_card,
		product_name, price, date, COALESCE(receipt_path, '')`

// scanner is satisfied by pgx.Row, pgx.Rows, *sql.Row and *sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

func scanPurchase(row scanner) (domain.Purchase, error) {
	var p domain.Purchase
	err := row.Scan(
		&p.ID, &p.CustomerName, &p.CustomerSurname, &p.CustomerCF, &p.CreditCard,
		&p.ProductName, &p.Price, &p.Date, &p.ReceiptPath,
	)
	return p, err
}

// searchDialect describes the SQL differences between backends
type searchDialect struct {
	like        string
	placeholder func(n int) string
}

var (
	postgresDialect = searchDialect{
		like:        "ILIKE",
		placeholder: func(n int) string { return fmt.Sprintf("$%d", n) },
	}
	sqliteDialect = searchDialect{
		like:        "LIKE",
		placeholder: func(int) string { return "?" },
	}
)

// buildSearchQuery renders the SELECT for a filter. Results are ordered by
// id so repeated searches over the same data are stable.
func buildSearchQuery(filter domain.PurchaseFilter, d searchDialect) (string, []any) {
	conditions := []string{}
	args := []any{}
	argCount := 1

	substring := func(column, value string) {
		if value == "" {
			return
		}
		conditions = append(conditions, fmt.Sprintf(`%s %s %s ESCAPE '\'`, column, d.like, d.placeholder(argCount)))
		args = append(args, likePattern(value))
		argCount++
	}

	substring("customer_cf", filter.CustomerCF)
	substring("customer_name", filter.CustomerName)
	substring("customer_surname", filter.CustomerSurname)
	substring("credit_card", filter.CreditCard)
	substring("product_name", filter.ProductName)

	if filter.Date != "" {
		conditions = append(conditions, fmt.Sprintf("date = %s", d.placeholder(argCount)))
		args = append(args, filter.Date)
		argCount++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf(`SELECT %s FROM purchases %s ORDER BY id`, purchaseColumns, whereClause)

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %s OFFSET %s", d.placeholder(argCount), d.placeholder(argCount+1))
		args = append(args, filter.Limit, max(filter.Offset, 0))
	}

	return query, args
}

// likePattern wraps value in % wildcards, escaping LIKE metacharacters
func likePattern(value string) string {
	escaper := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return "%" + escaper.Replace(value) + "%"
}
