package handler

import (
	"fmt"
	"math"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ridwanfathin/purchase-manager-service/internal/logging"
	"github.com/ridwanfathin/purchase-manager-service/internal/model"
	"github.com/ridwanfathin/purchase-manager-service/internal/service"
	"github.com/sirupsen/logrus"
)

// multipartOverhead is the allowance for the text fields and part headers
// that travel with the receipt in the upload body
const multipartOverhead = 1 << 20

// PurchaseHandler handles HTTP requests for purchase-related operations
type PurchaseHandler struct {
	purchaseService service.PurchaseService
	maxReceiptSize  int64
	logger          *logrus.Logger
}

// NewPurchaseHandler creates a new purchase handler. maxReceiptSize <= 0
// disables the receipt size limit.
func NewPurchaseHandler(purchaseService service.PurchaseService, maxReceiptSize int64, logger *logrus.Logger) *PurchaseHandler {
	useFormFieldNames()
	if logger == nil {
		logger = logging.Default()
	}
	return &PurchaseHandler{
		purchaseService: purchaseService,
		maxReceiptSize:  maxReceiptSize,
		logger:          logger,
	}
}

// UploadPurchase handles the POST /upload/ endpoint
// @Summary Upload a purchase
// @Description Store a PDF receipt and create the purchase record that references it
// @Tags purchases
// @Accept multipart/form-data
// @Produce json
// @Param customer_name formData string true "Customer name"
// @Param customer_surname formData string true "Customer surname"
// @Param customer_cf formData string true "Customer tax code (Codice Fiscale)"
// @Param credit_card formData string true "Credit card number"
// @Param product_name formData string true "Product name"
// @Param price formData number true "Price"
// @Param date formData string true "Purchase date (YYYY-MM-DD)"
// @Param receipt formData file true "Receipt PDF"
// @Success 200 {object} model.UploadPurchaseResponse "Purchase uploaded"
// @Failure 413 {object} model.ErrorResponse "Receipt too large"
// @Failure 422 {object} model.ErrorResponse "Missing or malformed fields"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Router /upload/ [post]
func (h *PurchaseHandler) UploadPurchase(c *gin.Context) {
	if h.maxReceiptSize > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxReceiptSize+multipartOverhead)
	}

	var req model.UploadPurchaseRequest
	if err := c.ShouldBind(&req); err != nil {
		if isBodyTooLarge(err) {
			respondTooLarge(c, ErrReceiptTooLarge)
			return
		}
		respondUnprocessableEntity(c, ErrInvalidInput, bindingErrorDetails(err)...)
		return
	}

	if math.IsNaN(*req.Price) || math.IsInf(*req.Price, 0) {
		respondUnprocessableEntity(c, ErrInvalidInput, newErrorDetail("price", "value is not a valid number"))
		return
	}

	if h.maxReceiptSize > 0 && req.Receipt.Size > h.maxReceiptSize {
		respondTooLarge(c, ErrReceiptTooLarge)
		return
	}

	receipt, err := req.Receipt.Open()
	if err != nil {
		logging.LogError(h.logger, "handler", "UploadPurchase", "open receipt", nil, err)
		respondInternalServerError(c, fmt.Sprintf("Failed to upload purchase: %v", err))
		return
	}
	defer receipt.Close()

	result, err := h.purchaseService.UploadPurchase(c.Request.Context(), req.ToInput(), receipt)
	if err != nil {
		logging.LogError(h.logger, "handler", "UploadPurchase", "upload purchase", nil, err)
		respondInternalServerError(c, fmt.Sprintf("Failed to upload purchase: %v", err))
		return
	}

	respondOK(c, model.UploadPurchaseResponse{
		Message:     MsgPurchaseUploaded,
		PurchaseID:  result.PurchaseID,
		ReceiptPath: result.ReceiptPath,
	})
}

// SearchPurchases handles the GET /search endpoint
// @Summary Search purchases
// @Description Case-insensitive substring search, primarily on the customer tax code. No filter returns every purchase.
// @Tags purchases
// @Produce json
// @Param cf query string false "Tax code substring"
// @Param name query string false "Customer name substring"
// @Param surname query string false "Customer surname substring"
// @Param cc query string false "Credit card substring"
// @Param product query string false "Product name substring"
// @Param date query string false "Exact purchase date (YYYY-MM-DD)"
// @Param limit query int false "Maximum number of results, 0 for all"
// @Param offset query int false "Number of results to skip"
// @Success 200 {array} model.PurchaseResponse "Matching purchases"
// @Failure 422 {object} model.ErrorResponse "Invalid query parameters"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Router /search [get]
func (h *PurchaseHandler) SearchPurchases(c *gin.Context) {
	var query model.SearchPurchasesQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondUnprocessableEntity(c, ErrInvalidQueryParams, bindingErrorDetails(err)...)
		return
	}

	purchases, err := h.purchaseService.SearchPurchases(c.Request.Context(), query.ToFilter())
	if err != nil {
		logging.LogError(h.logger, "handler", "SearchPurchases", "search purchases", nil, err)
		respondInternalServerError(c, fmt.Sprintf("Failed to search purchases: %v", err))
		return
	}

	respondOK(c, model.NewPurchaseResponses(purchases))
}

// GetPurchase handles the GET /purchase/{id} endpoint
// @Summary Get a purchase by ID
// @Tags purchases
// @Produce json
// @Param id path int true "Purchase ID"
// @Success 200 {object} model.PurchaseResponse "Purchase details"
// @Failure 404 {object} model.ErrorResponse "Purchase not found"
// @Failure 422 {object} model.ErrorResponse "Invalid purchase ID"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Router /purchase/{id} [get]
func (h *PurchaseHandler) GetPurchase(c *gin.Context) {
	id, err := getPathID(c, "id")
	if err != nil {
		respondUnprocessableEntity(c, err.Error(), newErrorDetail("id", err.Error()))
		return
	}

	purchase, found, err := h.purchaseService.GetPurchaseByID(c.Request.Context(), id)
	if err != nil {
		logging.LogError(h.logger, "handler", "GetPurchase", "get purchase", id, err)
		respondInternalServerError(c, fmt.Sprintf("Failed to get purchase: %v", err))
		return
	}
	if !found {
		respondNotFound(c, ErrPurchaseNotFound)
		return
	}

	respondOK(c, model.NewPurchaseResponse(*purchase))
}

// DeletePurchase handles the DELETE /purchase/{id} endpoint
// @Summary Delete a purchase
// @Description Delete a purchase together with its stored receipt
// @Tags purchases
// @Produce json
// @Param id path int true "Purchase ID"
// @Success 200 {object} model.MessageResponse "Purchase deleted"
// @Failure 404 {object} model.ErrorResponse "Purchase not found"
// @Failure 422 {object} model.ErrorResponse "Invalid purchase ID"
// @Failure 500 {object} model.ErrorResponse "Internal server error"
// @Router /purchase/{id} [delete]
func (h *PurchaseHandler) DeletePurchase(c *gin.Context) {
	id, err := getPathID(c, "id")
	if err != nil {
		respondUnprocessableEntity(c, err.Error(), newErrorDetail("id", err.Error()))
		return
	}

	deleted, err := h.purchaseService.DeletePurchase(c.Request.Context(), id)
	if err != nil {
		logging.LogError(h.logger, "handler", "DeletePurchase", "delete purchase", id, err)
		respondInternalServerError(c, fmt.Sprintf("Failed to delete purchase: %v", err))
		return
	}
	if !deleted {
		respondNotFound(c, ErrPurchaseNotFound)
		return
	}

	respondOK(c, model.MessageResponse{Message: MsgPurchaseDeleted})
}

// Health handles the GET /health endpoint
// @Summary Health check
// @Tags system
// @Produce json
// @Success 200 {object} model.HealthResponse
// @Router /health [get]
func (h *PurchaseHandler) Health(c *gin.Context) {
	respondOK(c, model.HealthResponse{Status: "ok"})
}
