package service

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/ridwanfathin/purchase-manager-service/internal/domain"
	"github.com/ridwanfathin/purchase-manager-service/internal/logging"
	"github.com/ridwanfathin/purchase-manager-service/internal/repository"
	"github.com/ridwanfathin/purchase-manager-service/internal/storage"
	"github.com/sirupsen/logrus"
)

// PurchaseServiceError represents an error in the purchase service
type PurchaseServiceError struct {
	Op  string
	Err error
}

func (e *PurchaseServiceError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return e.Op
}

func (e *PurchaseServiceError) Unwrap() error {
	return e.Err
}

// PurchaseService defines the purchase use cases. Input is expected to be
// validated by the caller.
type PurchaseService interface {
	UploadPurchase(ctx context.Context, input domain.PurchaseInput, receipt io.Reader) (*domain.UploadResult, error)
	SearchPurchases(ctx context.Context, filter domain.PurchaseFilter) ([]domain.Purchase, error)

	// GetPurchaseByID reports found=false, with a nil error, when no purchase has the ID
	GetPurchaseByID(ctx context.Context, purchaseID int64) (*domain.Purchase, bool, error)

	// DeletePurchase returns false, with a nil error, when no purchase has the ID
	DeletePurchase(ctx context.Context, purchaseID int64) (bool, error)
}

// PurchaseServiceImpl implements the PurchaseService interface
type PurchaseServiceImpl struct {
	repository repository.PurchaseRepository
	receipts   storage.ReceiptStore
	logger     *logrus.Logger
}

// NewPurchaseService creates a new PurchaseService
func NewPurchaseService(repo repository.PurchaseRepository, receipts storage.ReceiptStore, logger *logrus.Logger) PurchaseService {
	if logger == nil {
		logger = logging.Default()
	}
	return &PurchaseServiceImpl{
		repository: repo,
		receipts:   receipts,
		logger:     logger,
	}
}

// UploadPurchase stores the receipt under a fresh name, then inserts the
// purchase. If the insert fails the stored receipt is removed again.
func (s *PurchaseServiceImpl) UploadPurchase(ctx context.Context, input domain.PurchaseInput, receipt io.Reader) (*domain.UploadResult, error) {
	receiptPath, err := s.receipts.Save(ctx, storage.NewReceiptName(), receipt)
	if err != nil {
		return nil, &PurchaseServiceError{
			Op:  "store_receipt",
			Err: err,
		}
	}

	purchase, err := s.repository.CreatePurchase(ctx, domain.NewPurchase(input, receiptPath))
	if err != nil {
		s.discardReceipt(ctx, receiptPath)
		return nil, &PurchaseServiceError{
			Op:  "save_purchase",
			Err: err,
		}
	}

	s.logger.WithFields(logrus.Fields{
		"purchase_id":  purchase.ID,
		"receipt_path": receiptPath,
	}).Info("purchase uploaded")

	return &domain.UploadResult{
		PurchaseID:  purchase.ID,
		ReceiptPath: receiptPath,
	}, nil
}

// discardReceipt undoes a receipt write whose purchase row was never created
func (s *PurchaseServiceImpl) discardReceipt(ctx context.Context, receiptPath string) {
	err := s.receipts.Remove(context.WithoutCancel(ctx), receiptPath)
	if err != nil && !errors.Is(err, storage.ErrReceiptNotFound) {
		logging.LogError(s.logger, "service", "UploadPurchase", "remove orphaned receipt", receiptPath, err)
	}
}

// SearchPurchases returns the purchases matching filter
func (s *PurchaseServiceImpl) SearchPurchases(ctx context.Context, filter domain.PurchaseFilter) ([]domain.Purchase, error) {
	purchases, err := s.repository.SearchPurchases(ctx, filter)
	if err != nil {
		return nil, &PurchaseServiceError{
			Op:  "search_purchases",
			Err: err,
		}
	}
	return purchases, nil
}

// GetPurchaseByID retrieves a purchase by ID
func (s *PurchaseServiceImpl) GetPurchaseByID(ctx context.Context, purchaseID int64) (*domain.Purchase, bool, error) {
	purchase, err := s.repository.GetPurchaseByID(ctx, purchaseID)
	if err != nil {
		if errors.Is(err, domain.ErrPurchaseNotFound) {
			return nil, false, nil
		}
		return nil, false, &PurchaseServiceError{
			Op:  "get_purchase",
			Err: err,
		}
	}
	return purchase, true, nil
}

// DeletePurchase deletes a purchase and its receipt. The row delete and the
// receipt removal share one transaction: a failed removal keeps the row.
// A receipt that is already gone does not block the delete.
func (s *PurchaseServiceImpl) DeletePurchase(ctx context.Context, purchaseID int64) (bool, error) {
	var removedReceipt string

	err := s.repository.DeletePurchase(ctx, purchaseID, func(p *domain.Purchase) error {
		if p.ReceiptPath == "" {
			return nil
		}
		if err := s.receipts.Remove(ctx, p.ReceiptPath); err != nil {
			if errors.Is(err, storage.ErrReceiptNotFound) {
				return nil
			}
			return fmt.Errorf("failed to remove receipt: %w", err)
		}
		removedReceipt = p.ReceiptPath
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrPurchaseNotFound) {
			return false, nil
		}
		if removedReceipt != "" {
			// only a failed commit gets here after the receipt is gone
			logging.LogError(s.logger, "service", "DeletePurchase", "receipt removed but purchase kept",
				map[string]any{"purchase_id": purchaseID, "receipt_path": removedReceipt}, err)
		}
		return false, &PurchaseServiceError{
			Op:  "delete_purchase",
			Err: err,
		}
	}

	s.logger.WithField("purchase_id", purchaseID).Info("purchase deleted")
	return true, nil
}
