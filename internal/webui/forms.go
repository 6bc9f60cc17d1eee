package webui

import (
	"mime/multipart"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/ridwanfathin/purchase-manager-service/internal/domain"
	"github.com/ridwanfathin/purchase-manager-service/internal/validation"
)

const (
	msgMissingFields = "Please fill in all required fields marked with *"
	msgInvalidPrice  = "Price must be a number"
	msgInvalidDate   = "Purchase date must be a valid date (YYYY-MM-DD)"
	msgNotPDF        = "Receipt must be a PDF file"

	isoDate = "2006-01-02"
)

// UploadForm is the purchase form as typed by the user
type UploadForm struct {
	CustomerName    string `form:"customer_name"`
	CustomerSurname string `form:"customer_surname"`
	CustomerCF      string `form:"customer_cf"`
	CreditCard      string `form:"credit_card"`
	ProductName     string `form:"product_name"`
	Price           string `form:"price"`
	Date            string `form:"date"`

	Receipt *multipart.FileHeader `form:"receipt"`
}

// Validate runs every field rule and returns all failures, in form order.
// An empty result means the form can be submitted.
func (f UploadForm) Validate(maxReceiptSize int64) []string {
	messages := []string{}

	if f.CustomerName == "" || f.CustomerSurname == "" || f.CustomerCF == "" ||
		f.CreditCard == "" || f.ProductName == "" || f.Price == "" || f.Date == "" ||
		f.Receipt == nil {
		messages = append(messages, msgMissingFields)
	}

	var results []validation.Result
	if f.CustomerName != "" {
		results = append(results, validation.Name(f.CustomerName, "Customer Name"))
	}
	if f.CustomerSurname != "" {
		results = append(results, validation.Name(f.CustomerSurname, "Customer Surname"))
	}
	if f.CustomerCF != "" {
		results = append(results, validation.TaxCode(f.CustomerCF))
	}
	if f.CreditCard != "" {
		results = append(results, validation.CreditCard(f.CreditCard))
	}
	messages = append(messages, validation.Messages(results...)...)

	if f.Price != "" {
		price, err := strconv.ParseFloat(strings.TrimSpace(f.Price), 64)
		if err != nil {
			messages = append(messages, msgInvalidPrice)
		} else if r := validation.Price(price); !r.Valid {
			messages = append(messages, r.Message)
		}
	}

	if f.Date != "" {
		if _, err := time.Parse(isoDate, f.Date); err != nil {
			messages = append(messages, msgInvalidDate)
		}
	}

	if f.Receipt != nil {
		if !strings.EqualFold(filepath.Ext(f.Receipt.Filename), ".pdf") {
			messages = append(messages, msgNotPDF)
		}
		if r := validation.FileSize(f.Receipt.Size, maxReceiptSize); !r.Valid {
			messages = append(messages, r.Message)
		}
	}

	return messages
}

// Input converts a validated form into API input
func (f UploadForm) Input() domain.PurchaseInput {
	price, _ := strconv.ParseFloat(strings.TrimSpace(f.Price), 64)
	return domain.PurchaseInput{
		CustomerName:    f.CustomerName,
		CustomerSurname: f.CustomerSurname,
		CustomerCF:      f.CustomerCF,
		CreditCard:      f.CreditCard,
		ProductName:     f.ProductName,
		Price:           price,
		Date:            f.Date,
	}
}

// SearchForm holds the search filters. All fields are optional.
type SearchForm struct {
	Name    string `form:"name"`
	Surname string `form:"surname"`
	CF      string `form:"cf"`
	CC      string `form:"cc"`
	Product string `form:"product"`
	Date    string `form:"date"`
}

// Filter converts the form to a search filter, trimming blanks
func (f SearchForm) Filter() domain.PurchaseFilter {
	return domain.PurchaseFilter{
		CustomerName:    strings.TrimSpace(f.Name),
		CustomerSurname: strings.TrimSpace(f.Surname),
		CustomerCF:      strings.TrimSpace(f.CF),
		CreditCard:      strings.TrimSpace(f.CC),
		ProductName:     strings.TrimSpace(f.Product),
		Date:            strings.TrimSpace(f.Date),
	}
}

func searchFormFrom(filter *domain.PurchaseFilter) SearchForm {
	if filter == nil {
		return SearchForm{}
	}
	return SearchForm{
		Name:    filter.CustomerName,
		Surname: filter.CustomerSurname,
		CF:      filter.CustomerCF,
		CC:      filter.CreditCard,
		Product: filter.ProductName,
		Date:    filter.Date,
	}
}
