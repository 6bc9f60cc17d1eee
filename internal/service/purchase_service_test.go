package service

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ridwanfathin/purchase-manager-service/internal/database"
	"github.com/ridwanfathin/purchase-manager-service/internal/domain"
	"github.com/ridwanfathin/purchase-manager-service/internal/logging"
	"github.com/ridwanfathin/purchase-manager-service/internal/repository"
	"github.com/ridwanfathin/purchase-manager-service/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	service PurchaseService
	repo    repository.PurchaseRepository
	store   *storage.LocalReceiptStore
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	ctx := context.Background()

	db, err := database.NewSQLiteDB(ctx, ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.Migrate(ctx))

	store, err := storage.NewLocalReceiptStore(filepath.Join(t.TempDir(), "uploads"))
	require.NoError(t, err)

	repo := repository.NewSQLitePurchaseRepository(db)
	return fixture{
		service: NewPurchaseService(repo, store, logging.Discard()),
		repo:    repo,
		store:   store,
	}
}

func sampleInput(cf string) domain.PurchaseInput {
	return domain.PurchaseInput{
		CustomerName:    "Mario",
		CustomerSurname: "Rossi",
		CustomerCF:      cf,
		CreditCard:      "4111111111111111",
		ProductName:     "Wireless Headphones",
		Price:           99.99,
		Date:            "2024-03-15",
	}
}

func receiptFiles(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := []string{}
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}

// failingRepository fails every insert
type failingRepository struct {
	repository.PurchaseRepository
	err error
}

func (r failingRepository) CreatePurchase(context.Context, *domain.Purchase) (*domain.Purchase, error) {
	return nil, r.err
}

// stubbornStore cannot remove anything
type stubbornStore struct {
	*storage.LocalReceiptStore
	err error
}

func (s stubbornStore) Remove(context.Context, string) error {
	return s.err
}

func TestUploadPurchase(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	result, err := f.service.UploadPurchase(ctx, sampleInput("RSSMRA85M01H501Z"), strings.NewReader("%PDF-1.4 receipt"))
	require.NoError(t, err)
	assert.Positive(t, result.PurchaseID)
	assert.Equal(t, f.store.BaseDir(), filepath.Dir(result.ReceiptPath))
	assert.True(t, strings.HasSuffix(result.ReceiptPath, storage.ReceiptExtension))

	data, err := os.ReadFile(result.ReceiptPath)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 receipt", string(data))

	purchase, found, err := f.service.GetPurchaseByID(ctx, result.PurchaseID)
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, result.ReceiptPath, purchase.ReceiptPath)
	assert.Equal(t, "RSSMRA85M01H501Z", purchase.CustomerCF)

	second, err := f.service.UploadPurchase(ctx, sampleInput("RSSMRA85M01H501Z"), strings.NewReader("%PDF-1.4 other"))
	require.NoError(t, err)
	assert.NotEqual(t, result.PurchaseID, second.PurchaseID)
	assert.NotEqual(t, result.ReceiptPath, second.ReceiptPath)
}

func TestUploadPurchase_RemovesReceiptWhenInsertFails(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	insertErr := errors.New("connection reset")
	repoErr := &repository.RepositoryError{Op: "create_purchase", Err: insertErr}
	svc := NewPurchaseService(failingRepository{err: repoErr}, f.store, logging.Discard())

	result, err := svc.UploadPurchase(ctx, sampleInput("RSSMRA85M01H501Z"), strings.NewReader("%PDF-1.4"))
	require.Error(t, err)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, insertErr)

	var svcErr *PurchaseServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "save_purchase", svcErr.Op)
	assert.Equal(t, "save_purchase: create_purchase: connection reset", err.Error())

	assert.Empty(t, receiptFiles(t, f.store.BaseDir()))
}

type brokenReader struct{}

func (brokenReader) Read([]byte) (int, error) { return 0, io.ErrUnexpectedEOF }

func TestUploadPurchase_StoreFailureWritesNoRow(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	_, err := f.service.UploadPurchase(ctx, sampleInput("RSSMRA85M01H501Z"), brokenReader{})
	require.Error(t, err)

	var svcErr *PurchaseServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "store_receipt", svcErr.Op)

	all, err := f.service.SearchPurchases(ctx, domain.PurchaseFilter{})
	require.NoError(t, err)
	assert.Empty(t, all)
	assert.Empty(t, receiptFiles(t, f.store.BaseDir()))
}

func TestSearchPurchases(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	first, err := f.service.UploadPurchase(ctx, sampleInput("RSSMRA85M01H501Z"), strings.NewReader("a"))
	require.NoError(t, err)
	_, err = f.service.UploadPurchase(ctx, sampleInput("VRDLGU90A01F205X"), strings.NewReader("b"))
	require.NoError(t, err)

	found, err := f.service.SearchPurchases(ctx, domain.PurchaseFilter{CustomerCF: "rssmra"})
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, first.PurchaseID, found[0].ID)

	all, err := f.service.SearchPurchases(ctx, domain.PurchaseFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)

	none, err := f.service.SearchPurchases(ctx, domain.PurchaseFilter{CustomerCF: "ZZZ"})
	require.NoError(t, err)
	assert.NotNil(t, none)
	assert.Empty(t, none)
}

func TestGetPurchaseByID_Missing(t *testing.T) {
	f := newFixture(t)

	purchase, found, err := f.service.GetPurchaseByID(context.Background(), 42)
	require.NoError(t, err)
	assert.False(t, found)
	assert.Nil(t, purchase)
}

func TestDeletePurchase(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	result, err := f.service.UploadPurchase(ctx, sampleInput("RSSMRA85M01H501Z"), strings.NewReader("%PDF"))
	require.NoError(t, err)

	deleted, err := f.service.DeletePurchase(ctx, result.PurchaseID)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.NoFileExists(t, result.ReceiptPath)

	_, found, err := f.service.GetPurchaseByID(ctx, result.PurchaseID)
	require.NoError(t, err)
	assert.False(t, found)

	deleted, err = f.service.DeletePurchase(ctx, result.PurchaseID)
	require.NoError(t, err)
	assert.False(t, deleted)
}

func TestDeletePurchase_UnknownIDLeavesStorageUntouched(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	kept, err := f.service.UploadPurchase(ctx, sampleInput("RSSMRA85M01H501Z"), strings.NewReader("%PDF-1.4 kept"))
	require.NoError(t, err)
	other, err := f.service.UploadPurchase(ctx, sampleInput("VRDLGU90A01F205X"), strings.NewReader("%PDF-1.4 other"))
	require.NoError(t, err)
	before := receiptFiles(t, f.store.BaseDir())
	require.Len(t, before, 2)

	deleted, err := f.service.DeletePurchase(ctx, other.PurchaseID+100)
	require.NoError(t, err)
	assert.False(t, deleted)

	assert.Equal(t, before, receiptFiles(t, f.store.BaseDir()))
	data, err := os.ReadFile(kept.ReceiptPath)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.4 kept", string(data))
	assert.FileExists(t, other.ReceiptPath)

	all, err := f.service.SearchPurchases(ctx, domain.PurchaseFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestDeletePurchase_MissingReceiptStillDeletes(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	result, err := f.service.UploadPurchase(ctx, sampleInput("RSSMRA85M01H501Z"), strings.NewReader("%PDF"))
	require.NoError(t, err)
	require.NoError(t, os.Remove(result.ReceiptPath))

	deleted, err := f.service.DeletePurchase(ctx, result.PurchaseID)
	require.NoError(t, err)
	assert.True(t, deleted)
}

func TestDeletePurchase_RemoveFailureKeepsRow(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	result, err := f.service.UploadPurchase(ctx, sampleInput("RSSMRA85M01H501Z"), strings.NewReader("%PDF"))
	require.NoError(t, err)

	removeErr := errors.New("permission denied")
	svc := NewPurchaseService(f.repo, stubbornStore{LocalReceiptStore: f.store, err: removeErr}, logging.Discard())

	deleted, err := svc.DeletePurchase(ctx, result.PurchaseID)
	require.Error(t, err)
	assert.False(t, deleted)
	assert.ErrorIs(t, err, removeErr)

	_, found, err := f.service.GetPurchaseByID(ctx, result.PurchaseID)
	require.NoError(t, err)
	assert.True(t, found)
	assert.FileExists(t, result.ReceiptPath)
}
