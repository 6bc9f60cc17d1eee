package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ridwanfathin/purchase-manager-service/internal/model"
)

// HTTP status codes as constants for consistency
const (
	StatusOK                    = http.StatusOK
	StatusNotFound              = http.StatusNotFound
	StatusRequestEntityTooLarge = http.StatusRequestEntityTooLarge
	StatusUnprocessableEntity   = http.StatusUnprocessableEntity
	StatusInternalServerError   = http.StatusInternalServerError
)

// Common messages
const (
	ErrInvalidInput       = "Invalid input format"
	ErrInvalidQueryParams = "Invalid query parameters"
	ErrPurchaseNotFound   = "Purchase not found"
	ErrReceiptTooLarge    = "Receipt file too large"

	MsgPurchaseUploaded = "Purchase uploaded successfully."
	MsgPurchaseDeleted  = "Purchase deleted successfully"
)

// respondWithError sends a standardized error response
func respondWithError(c *gin.Context, statusCode int, message string, details ...model.ErrorDetail) {
	c.JSON(statusCode, model.ErrorResponse{
		Detail:  message,
		Details: details,
	})
}

// respondNotFound sends a 404 Not Found response
func respondNotFound(c *gin.Context, message string) {
	respondWithError(c, StatusNotFound, message)
}

// respondTooLarge sends a 413 Request Entity Too Large response
func respondTooLarge(c *gin.Context, message string) {
	respondWithError(c, StatusRequestEntityTooLarge, message)
}

// respondUnprocessableEntity sends a 422 Unprocessable Entity response
func respondUnprocessableEntity(c *gin.Context, message string, details ...model.ErrorDetail) {
	respondWithError(c, StatusUnprocessableEntity, message, details...)
}

// respondInternalServerError sends a 500 Internal Server Error response
func respondInternalServerError(c *gin.Context, message string) {
	respondWithError(c, StatusInternalServerError, message)
}

// respondOK sends a 200 OK response with data
func respondOK(c *gin.Context, data any) {
	c.JSON(StatusOK, data)
}

// newErrorDetail creates a new error detail
func newErrorDetail(field, message string) model.ErrorDetail {
	return model.ErrorDetail{
		Field:   field,
		Message: message,
	}
}
