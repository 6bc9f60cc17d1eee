package webui

import (
	"mime/multipart"
	"testing"

	"github.com/ridwanfathin/purchase-manager-service/internal/domain"
	"github.com/stretchr/testify/assert"
)

func validForm() UploadForm {
	return UploadForm{
		CustomerName:    "Mario",
		CustomerSurname: "Rossi",
		CustomerCF:      "RSSMRA85M01H501Z",
		CreditCard:      "4111111111111111",
		ProductName:     "Headphones",
		Price:           "99.99",
		Date:            "2024-03-15",
		Receipt:         &multipart.FileHeader{Filename: "receipt.PDF", Size: 100},
	}
}

func TestUploadForm_Validate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*UploadForm)
		want   []string
	}{
		{"valid", func(*UploadForm) {}, []string{}},
		{"missing product", func(f *UploadForm) { f.ProductName = "" }, []string{msgMissingFields}},
		{"missing receipt", func(f *UploadForm) { f.Receipt = nil }, []string{msgMissingFields}},
		{"bad name", func(f *UploadForm) { f.CustomerName = "M" }, []string{"Customer Name must be at least 2 characters long"}},
		{"bad tax code", func(f *UploadForm) { f.CustomerCF = "RSSMRA85M01H501!" }, []string{"Codice Fiscale must contain only letters and numbers"}},
		{"zero price", func(f *UploadForm) { f.Price = "0" }, []string{"Price must be greater than 0"}},
		{"nan price", func(f *UploadForm) { f.Price = "NaN" }, []string{msgInvalidPrice}},
		{"infinite price", func(f *UploadForm) { f.Price = "Inf" }, []string{"Price is too high (max: €999,999.99)"}},
		{"negative infinite price", func(f *UploadForm) { f.Price = "-Inf" }, []string{"Price must be greater than 0"}},
		{"bad date", func(f *UploadForm) { f.Date = "15/03/2024" }, []string{msgInvalidDate}},
		{"not pdf", func(f *UploadForm) { f.Receipt.Filename = "receipt.png" }, []string{msgNotPDF}},
		{"too large", func(f *UploadForm) { f.Receipt.Size = 2048 }, []string{"File too large (0.0MB). Maximum size: 0.0MB"}},
		{
			"several",
			func(f *UploadForm) { f.CustomerSurname = ""; f.CreditCard = "abc"; f.Price = "x" },
			[]string{msgMissingFields, "Credit card must contain only numbers", msgInvalidPrice},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := validForm()
			tt.modify(&f)
			assert.Equal(t, tt.want, f.Validate(1024))
		})
	}
}

func TestUploadForm_Input(t *testing.T) {
	f := validForm()
	f.Price = " 12.50 "
	assert.Equal(t, 12.5, f.Input().Price)
	assert.Equal(t, "RSSMRA85M01H501Z", f.Input().CustomerCF)
}

func TestSearchForm_RoundTrip(t *testing.T) {
	form := SearchForm{Name: " Mario ", CF: "RSS", Date: "2024-03-15"}
	filter := form.Filter()
	assert.Equal(t, domain.PurchaseFilter{CustomerName: "Mario", CustomerCF: "RSS", Date: "2024-03-15"}, filter)
	assert.Equal(t, SearchForm{Name: "Mario", CF: "RSS", Date: "2024-03-15"}, searchFormFrom(&filter))
	assert.Equal(t, SearchForm{}, searchFormFrom(nil))
}
