package webui

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/ridwanfathin/purchase-manager-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func purchase(id int64, name, cf string, price float64) domain.Purchase {
	return domain.Purchase{
		ID:              id,
		CustomerName:    name,
		CustomerSurname: "Rossi",
		CustomerCF:      cf,
		CreditCard:      "4111111111111111",
		ProductName:     "Headphones, wireless",
		Price:           price,
		Date:            "2024-03-15",
		ReceiptPath:     fmt.Sprintf("./uploads/%d.pdf", id),
	}
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, []domain.Purchase{purchase(1, "Mario", "RSSMRA85M01H501Z", 99.99)}))

	assert.Equal(t,
		"ID,Customer Name,Customer Surname,Codice Fiscale,Credit Card,Product,Price,Date,Receipt Path\n"+
			"1,Mario,Rossi,RSSMRA85M01H501Z,4111111111111111,\"Headphones, wireless\",99.99,2024-03-15,./uploads/1.pdf\n",
		buf.String())
}

func TestSummary(t *testing.T) {
	purchases := []domain.Purchase{
		purchase(1, "Mario", "AAA", 10),
		purchase(2, "Luigi", "BBB", 20.5),
		purchase(3, "Mario", "AAA", 0.1),
	}

	want := "Purchase Summary\n" +
		"================\n" +
		"Total Purchases: 3\n" +
		"Unique Customers: 2\n" +
		"Total Amount: €30.60\n" +
		"Average Purchase: €10.20\n" +
		"\n" +
		"Recent Purchases:\n" +
		"- Mario Rossi: €10.00 (Headphones, wireless)\n" +
		"- Luigi Rossi: €20.50 (Headphones, wireless)\n" +
		"- Mario Rossi: €0.10 (Headphones, wireless)\n"
	assert.Equal(t, want, Summary(purchases))
}

func TestSummary_MoreThanFive(t *testing.T) {
	purchases := []domain.Purchase{}
	for i := int64(1); i <= 7; i++ {
		purchases = append(purchases, purchase(i, "Mario", "AAA", 1))
	}

	summary := Summary(purchases)
	assert.Equal(t, 5, strings.Count(summary, "- Mario Rossi"))
	assert.True(t, strings.HasSuffix(summary, "... and 2 more purchases"))
}

func TestSummary_Empty(t *testing.T) {
	summary := Summary(nil)
	assert.Contains(t, summary, "Total Purchases: 0\n")
	assert.Contains(t, summary, "Average Purchase: €0.00\n")
}

func TestXLSX(t *testing.T) {
	data, err := XLSX([]domain.Purchase{purchase(1, "Mario", "RSSMRA85M01H501Z", 99.99)})
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Purchases")
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, exportHeaders, rows[0])
	assert.Equal(t, "Mario", rows[1][1])
	assert.Equal(t, "4111111111111111", rows[1][4])
	assert.Equal(t, "99.99", rows[1][6])
}
