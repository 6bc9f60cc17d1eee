package webui

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/ridwanfathin/purchase-manager-service/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// summaryPreviewSize is how many purchases the text summary lists
const summaryPreviewSize = 5

var exportHeaders = []string{
	"ID",
	"Customer Name",
	"Customer Surname",
	"Codice Fiscale",
	"Credit Card",
	"Product",
	"Price",
	"Date",
	"Receipt Path",
}

func exportRow(p domain.Purchase) []string {
	return []string{
		strconv.FormatInt(p.ID, 10),
		p.CustomerName,
		p.CustomerSurname,
		p.CustomerCF,
		p.CreditCard,
		p.ProductName,
		strconv.FormatFloat(p.Price, 'f', -1, 64),
		p.Date,
		p.ReceiptPath,
	}
}

// WriteCSV writes purchases as CSV with a header row
func WriteCSV(w io.Writer, purchases []domain.Purchase) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeaders); err != nil {
		return fmt.Errorf("csv header: %w", err)
	}
	for _, p := range purchases {
		if err := cw.Write(exportRow(p)); err != nil {
			return fmt.Errorf("csv row %d: %w", p.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// Summary renders the plain-text summary of purchases: totals and the
// first few entries
func Summary(purchases []domain.Purchase) string {
	total := decimal.Zero
	customers := make(map[string]struct{})
	for _, p := range purchases {
		total = total.Add(decimal.NewFromFloat(p.Price))
		customers[p.CustomerCF] = struct{}{}
	}

	average := decimal.Zero
	if len(purchases) > 0 {
		average = total.Div(decimal.NewFromInt(int64(len(purchases))))
	}

	var b strings.Builder
	b.WriteString("Purchase Summary\n")
	b.WriteString("================\n")
	fmt.Fprintf(&b, "Total Purchases: %d\n", len(purchases))
	fmt.Fprintf(&b, "Unique Customers: %d\n", len(customers))
	fmt.Fprintf(&b, "Total Amount: €%s\n", total.StringFixed(2))
	fmt.Fprintf(&b, "Average Purchase: €%s\n", average.StringFixed(2))
	b.WriteString("\nRecent Purchases:\n")

	for i, p := range purchases {
		if i == summaryPreviewSize {
			fmt.Fprintf(&b, "... and %d more purchases", len(purchases)-summaryPreviewSize)
			break
		}
		fmt.Fprintf(&b, "- %s %s: €%s (%s)\n", p.CustomerName, p.CustomerSurname,
			decimal.NewFromFloat(p.Price).StringFixed(2), p.ProductName)
	}

	return b.String()
}

// XLSX returns purchases as a single-sheet workbook
func XLSX(purchases []domain.Purchase) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Purchases"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, fmt.Errorf("xlsx sheet: %w", err)
	}

	rows := make([][]any, 0, len(purchases)+1)
	header := make([]any, len(exportHeaders))
	for i, h := range exportHeaders {
		header[i] = h
	}
	rows = append(rows, header)
	for _, p := range purchases {
		// card numbers stay text so spreadsheets do not round them
		rows = append(rows, []any{
			p.ID, p.CustomerName, p.CustomerSurname, p.CustomerCF, p.CreditCard,
			p.ProductName, p.Price, p.Date, p.ReceiptPath,
		})
	}

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return nil, fmt.Errorf("xlsx row %d: %w", i+1, err)
		}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("xlsx row %d: %w", i+1, err)
		}
	}

	widths := []struct {
		from, to string
		width    float64
	}{
		{"A", "A", 8},
		{"B", "C", 20},
		{"D", "E", 22},
		{"F", "F", 32},
		{"G", "H", 12},
		{"I", "I", 60},
	}
	for _, w := range widths {
		if err := f.SetColWidth(sheet, w.from, w.to, w.width); err != nil {
			return nil, fmt.Errorf("xlsx column width %s: %w", w.from, err)
		}
	}

	var buf bytes.Buffer
	if _, err := f.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}
