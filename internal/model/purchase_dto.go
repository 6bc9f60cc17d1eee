package model

import (
	"mime/multipart"

	"github.com/ridwanfathin/purchase-manager-service/internal/domain"
)

// UploadPurchaseRequest is the multipart form accepted by POST /upload/
type UploadPurchaseRequest struct {
	CustomerName    string                `form:"customer_name" binding:"required"`
	CustomerSurname string                `form:"customer_surname" binding:"required"`
	CustomerCF      string                `form:"customer_cf" binding:"required"`
	CreditCard      string                `form:"credit_card" binding:"required"`
	ProductName     string                `form:"product_name" binding:"required"`
	Price           *float64              `form:"price" binding:"required"`
	Date            string                `form:"date" binding:"required"`
	Receipt         *multipart.FileHeader `form:"receipt" binding:"required"`
}

// ToInput converts the form into service input
func (r UploadPurchaseRequest) ToInput() domain.PurchaseInput {
	var price float64
	if r.Price != nil {
		price = *r.Price
	}
	return domain.PurchaseInput{
		CustomerName:    r.CustomerName,
		CustomerSurname: r.CustomerSurname,
		CustomerCF:      r.CustomerCF,
		CreditCard:      r.CreditCard,
		ProductName:     r.ProductName,
		Price:           price,
		Date:            r.Date,
	}
}

// SearchPurchasesQuery holds the query parameters of GET /search
type SearchPurchasesQuery struct {
	CF      string `form:"cf"`
	Name    string `form:"name"`
	Surname string `form:"surname"`
	CC      string `form:"cc"`
	Product string `form:"product"`
	Date    string `form:"date"`
	Limit   int    `form:"limit" binding:"omitempty,min=0"`
	Offset  int    `form:"offset" binding:"omitempty,min=0"`
}

// ToFilter converts the query into a repository filter
func (q SearchPurchasesQuery) ToFilter() domain.PurchaseFilter {
	return domain.PurchaseFilter{
		CustomerCF:      q.CF,
		CustomerName:    q.Name,
		CustomerSurname: q.Surname,
		CreditCard:      q.CC,
		ProductName:     q.Product,
		Date:            q.Date,
		Limit:           q.Limit,
		Offset:          q.Offset,
	}
}

// PurchaseResponse is the wire form of a purchase. Every stored attribute
// is included under its column name.
type PurchaseResponse struct {
	ID              int64   `json:"id" example:"1"`
	CustomerName    string  `json:"customer_name" example:"Mario"`
	CustomerSurname string  `json:"customer_surname" example:"Rossi"`
	CustomerCF      string  `json:"customer_cf" example:"RSSMRA85M01H501Z"`
	CreditCard      string  `json:"credit_card" example:"4111111111111111"`
	ProductName     string  `json:"product_name" example:"Wireless Headphones"`
	Price           float64 `json:"price" example:"99.99"`
	Date            string  `json:"date" example:"2024-03-15"`
	ReceiptPath     string  `json:"receipt_path" example:"./uploads/3f0c1a9e-5b7d-4c1e-9a55-2f8d6b7e4c10.pdf"`
}

// NewPurchaseResponse converts a domain purchase to its wire form
func NewPurchaseResponse(p domain.Purchase) PurchaseResponse {
	return PurchaseResponse{
		ID:              p.ID,
		CustomerName:    p.CustomerName,
		CustomerSurname: p.CustomerSurname,
		CustomerCF:      p.CustomerCF,
		CreditCard:      p.CreditCard,
		ProductName:     p.ProductName,
		Price:           p.Price,
		Date:            p.Date,
		ReceiptPath:     p.ReceiptPath,
	}
}

// NewPurchaseResponses converts a slice, never returning nil
func NewPurchaseResponses(purchases []domain.Purchase) []PurchaseResponse {
	out := make([]PurchaseResponse, 0, len(purchases))
	for _, p := range purchases {
		out = append(out, NewPurchaseResponse(p))
	}
	return out
}

// ToDomain converts the wire form back to a domain purchase
func (r PurchaseResponse) ToDomain() domain.Purchase {
	return domain.Purchase{
		ID:              r.ID,
		CustomerName:    r.CustomerName,
		CustomerSurname: r.CustomerSurname,
		CustomerCF:      r.CustomerCF,
		CreditCard:      r.CreditCard,
		ProductName:     r.ProductName,
		Price:           r.Price,
		Date:            r.Date,
		ReceiptPath:     r.ReceiptPath,
	}
}

// UploadPurchaseResponse is returned by POST /upload/
type UploadPurchaseResponse struct {
	Message     string `json:"message" example:"Purchase uploaded successfully."`
	PurchaseID  int64  `json:"purchase_id" example:"1"`
	ReceiptPath string `json:"receipt_path" example:"./uploads/3f0c1a9e-5b7d-4c1e-9a55-2f8d6b7e4c10.pdf"`
}

// MessageResponse carries a human readable outcome
type MessageResponse struct {
	Message string `json:"message" example:"Purchase deleted successfully"`
}

// HealthResponse is returned by GET /health
type HealthResponse struct {
	Status string `json:"status" example:"ok"`
}

// ErrorResponse represents an error response
type ErrorResponse struct {
	Detail  string        `json:"detail" example:"Purchase not found"`
	Details []ErrorDetail `json:"details,omitempty"`
}

// ErrorDetail represents detailed error information
type ErrorDetail struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}
