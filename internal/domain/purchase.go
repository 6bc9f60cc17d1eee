package domain

import (
	"errors"
)

// ErrPurchaseNotFound is returned when no purchase matches the requested ID
var ErrPurchaseNotFound = errors.New("purchase not found")

// Purchase represents a customer purchase together with its stored receipt
type Purchase struct {
	ID              int64   `json:"id"`
	CustomerName    string  `json:"customer_name"`
	CustomerSurname string  `json:"customer_surname"`
	CustomerCF      string  `json:"customer_cf"`
	CreditCard      string  `json:"credit_card"`
	ProductName     string  `json:"product_name"`
	Price           float64 `json:"price"`
	Date            string  `json:"date"`
	ReceiptPath     string  `json:"receipt_path"`
}

// PurchaseInput holds the caller-supplied fields of a new purchase.
// ID and ReceiptPath are assigned during upload.
type PurchaseInput struct {
	CustomerName    string
	CustomerSurname string
	CustomerCF      string
	CreditCard      string
	ProductName     string
	Price           float64
	Date            string
}

// NewPurchase builds a purchase row from input and the stored receipt path
func NewPurchase(input PurchaseInput, receiptPath string) *Purchase {
	return &Purchase{
		CustomerName:    input.CustomerName,
		CustomerSurname: input.CustomerSurname,
		CustomerCF:      input.CustomerCF,
		CreditCard:      input.CreditCard,
		ProductName:     input.ProductName,
		Price:           input.Price,
		Date:            input.Date,
		ReceiptPath:     receiptPath,
	}
}

// PurchaseFilter shapes a search query. Empty fields are ignored.
// CustomerCF, CustomerName, CustomerSurname, CreditCard and ProductName are
// case-insensitive substring matches; Date is an exact YYYY-MM-DD match.
type PurchaseFilter struct {
	CustomerCF      string
	CustomerName    string
	CustomerSurname string
	CreditCard      string
	ProductName     string
	Date            string

	// Limit <= 0 means unbounded
	Limit  int
	Offset int
}

// IsEmpty reports whether the filter selects every purchase
func (f PurchaseFilter) IsEmpty() bool {
	return f.CustomerCF == "" && f.CustomerName == "" && f.CustomerSurname == "" &&
		f.CreditCard == "" && f.ProductName == "" && f.Date == ""
}

// UploadResult is returned by a successful purchase upload
type UploadResult struct {
	PurchaseID  int64
	ReceiptPath string
}
