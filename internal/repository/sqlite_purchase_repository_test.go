package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/ridwanfathin/purchase-manager-service/internal/database"
	"github.com/ridwanfathin/purchase-manager-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRepository(t *testing.T) *SQLitePurchaseRepository {
	t.Helper()
	ctx := context.Background()

	db, err := database.NewSQLiteDB(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	require.NoError(t, db.Migrate(ctx))
	return NewSQLitePurchaseRepository(db)
}

func samplePurchase(name, cf string) *domain.Purchase {
	return &domain.Purchase{
		CustomerName:    name,
		CustomerSurname: "Rossi",
		CustomerCF:      cf,
		CreditCard:      "4111111111111111",
		ProductName:     "Wireless Headphones",
		Price:           99.99,
		Date:            "2024-03-15",
		ReceiptPath:     "./uploads/" + cf + ".pdf",
	}
}

func TestSQLitePurchaseRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	created, err := repo.CreatePurchase(ctx, samplePurchase("Mario", "RSSMRA85M01H501Z"))
	require.NoError(t, err)
	assert.Positive(t, created.ID)

	second, err := repo.CreatePurchase(ctx, samplePurchase("Luigi", "VRDLGU90A01F205X"))
	require.NoError(t, err)
	assert.NotEqual(t, created.ID, second.ID)

	fetched, err := repo.GetPurchaseByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, *created, *fetched)

	_, err = repo.GetPurchaseByID(ctx, 9999)
	assert.ErrorIs(t, err, domain.ErrPurchaseNotFound)
}

func TestSQLitePurchaseRepository_Search(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	mario, err := repo.CreatePurchase(ctx, samplePurchase("Mario", "RSSMRA85M01H501Z"))
	require.NoError(t, err)
	luigi, err := repo.CreatePurchase(ctx, samplePurchase("Luigi", "VRDLGU90A01F205X"))
	require.NoError(t, err)
	anna := samplePurchase("Anna", "BNCNNA75C41L219K")
	anna.Date = "2024-04-01"
	anna.ProductName = "Coffee_Machine"
	anna, err = repo.CreatePurchase(ctx, anna)
	require.NoError(t, err)

	ids := func(purchases []domain.Purchase) []int64 {
		out := []int64{}
		for _, p := range purchases {
			out = append(out, p.ID)
		}
		return out
	}

	t.Run("no filter returns everything", func(t *testing.T) {
		all, err := repo.SearchPurchases(ctx, domain.PurchaseFilter{})
		require.NoError(t, err)
		assert.Equal(t, []int64{mario.ID, luigi.ID, anna.ID}, ids(all))
	})

	t.Run("tax code substring is case-insensitive", func(t *testing.T) {
		found, err := repo.SearchPurchases(ctx, domain.PurchaseFilter{CustomerCF: "rssmra"})
		require.NoError(t, err)
		assert.Equal(t, []int64{mario.ID}, ids(found))
	})

	t.Run("repeated search is stable", func(t *testing.T) {
		first, err := repo.SearchPurchases(ctx, domain.PurchaseFilter{CustomerCF: "0"})
		require.NoError(t, err)
		second, err := repo.SearchPurchases(ctx, domain.PurchaseFilter{CustomerCF: "0"})
		require.NoError(t, err)
		assert.Equal(t, ids(first), ids(second))
	})

	t.Run("extra filters", func(t *testing.T) {
		found, err := repo.SearchPurchases(ctx, domain.PurchaseFilter{CustomerName: "lui"})
		require.NoError(t, err)
		assert.Equal(t, []int64{luigi.ID}, ids(found))

		found, err = repo.SearchPurchases(ctx, domain.PurchaseFilter{Date: "2024-04-01"})
		require.NoError(t, err)
		assert.Equal(t, []int64{anna.ID}, ids(found))
	})

	t.Run("wildcards in input are literal", func(t *testing.T) {
		found, err := repo.SearchPurchases(ctx, domain.PurchaseFilter{ProductName: "_"})
		require.NoError(t, err)
		assert.Equal(t, []int64{anna.ID}, ids(found))

		found, err = repo.SearchPurchases(ctx, domain.PurchaseFilter{CustomerCF: "%"})
		require.NoError(t, err)
		assert.Empty(t, found)
	})

	t.Run("pagination", func(t *testing.T) {
		page, err := repo.SearchPurchases(ctx, domain.PurchaseFilter{Limit: 2, Offset: 1})
		require.NoError(t, err)
		assert.Equal(t, []int64{luigi.ID, anna.ID}, ids(page))
	})
}

func TestSQLitePurchaseRepository_Delete(t *testing.T) {
	ctx := context.Background()
	repo := newTestRepository(t)

	created, err := repo.CreatePurchase(ctx, samplePurchase("Mario", "RSSMRA85M01H501Z"))
	require.NoError(t, err)

	t.Run("hook failure rolls back", func(t *testing.T) {
		hookErr := errors.New("disk error")
		err := repo.DeletePurchase(ctx, created.ID, func(*domain.Purchase) error { return hookErr })
		require.Error(t, err)
		assert.ErrorIs(t, err, hookErr)

		_, err = repo.GetPurchaseByID(ctx, created.ID)
		assert.NoError(t, err)
	})

	t.Run("hook sees the deleted row", func(t *testing.T) {
		var seen *domain.Purchase
		err := repo.DeletePurchase(ctx, created.ID, func(p *domain.Purchase) error {
			seen = p
			return nil
		})
		require.NoError(t, err)
		require.NotNil(t, seen)
		assert.Equal(t, created.ReceiptPath, seen.ReceiptPath)

		_, err = repo.GetPurchaseByID(ctx, created.ID)
		assert.ErrorIs(t, err, domain.ErrPurchaseNotFound)
	})

	t.Run("missing id", func(t *testing.T) {
		called := false
		err := repo.DeletePurchase(ctx, created.ID, func(*domain.Purchase) error {
			called = true
			return nil
		})
		assert.ErrorIs(t, err, domain.ErrPurchaseNotFound)
		assert.False(t, called)
	})
}

func TestBuildSearchQuery(t *testing.T) {
	query, args := buildSearchQuery(domain.PurchaseFilter{CustomerCF: "abc", Date: "2024-01-01", Limit: 10}, postgresDialect)
	assert.Contains(t, query, `customer_cf ILIKE $1 ESCAPE '\'`)
	assert.Contains(t, query, "date = $2")
	assert.Contains(t, query, "LIMIT $3 OFFSET $4")
	assert.Equal(t, []any{"%abc%", "2024-01-01", 10, 0}, args)

	query, args = buildSearchQuery(domain.PurchaseFilter{}, sqliteDialect)
	assert.NotContains(t, query, "WHERE")
	assert.NotContains(t, query, "LIMIT")
	assert.Empty(t, args)

	assert.Equal(t, `%50\%\_off\\%`, likePattern(`50%_off\`))
}
