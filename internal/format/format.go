// Package format renders stored purchase values for display.
package format

import (
	"fmt"
	"path"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

const (
	isoDate     = "2006-01-02"
	displayDate = "02/01/2006"
	ellipsis    = "..."
	maskChar    = "*"
)

// Currency renders an amount in euros with thousands grouping, e.g. €1,234.56
func Currency(amount float64) string {
	return "€" + humanize.FormatFloat("#,###.##", amount)
}

// Date converts a YYYY-MM-DD date to DD/MM/YYYY.
// Values that do not parse are returned unchanged.
func Date(value string) string {
	t, err := time.Parse(isoDate, value)
	if err != nil {
		return value
	}
	return t.Format(displayDate)
}

// CreditCard masks every character but the last four
func CreditCard(cc string) string {
	runes := []rune(cc)
	if len(runes) < 4 {
		return strings.Repeat(maskChar, len(runes))
	}
	return strings.Repeat(maskChar, len(runes)-4) + string(runes[len(runes)-4:])
}

// Truncate shortens text to maxLength characters, ellipsis included
func Truncate(text string, maxLength int) string {
	runes := []rune(text)
	if len(runes) <= maxLength {
		return text
	}
	if maxLength <= len(ellipsis) {
		return string(runes[:max(maxLength, 0)])
	}
	return string(runes[:maxLength-len(ellipsis)]) + ellipsis
}

// FileSize renders a byte count as B, KB or MB
func FileSize(sizeBytes int64) string {
	switch {
	case sizeBytes < 1024:
		return fmt.Sprintf("%d B", sizeBytes)
	case sizeBytes < 1024*1024:
		return fmt.Sprintf("%.1f KB", float64(sizeBytes)/1024)
	default:
		return fmt.Sprintf("%.1f MB", float64(sizeBytes)/(1024*1024))
	}
}

// ReceiptName returns the file name part of a stored receipt path
func ReceiptName(receiptPath string) string {
	if receiptPath == "" {
		return "N/A"
	}
	return path.Base(receiptPath)
}
