package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCurrency(t *testing.T) {
	assert.Equal(t, "€1,234.56", Currency(1234.56))
	assert.Equal(t, "€0.50", Currency(0.5))
	assert.Equal(t, "€999,999.99", Currency(999999.99))
	assert.Equal(t, "€12.00", Currency(12))
}

func TestDate(t *testing.T) {
	assert.Equal(t, "15/03/2024", Date("2024-03-15"))
	assert.Equal(t, "not a date", Date("not a date"))
	assert.Equal(t, "", Date(""))
}

func TestCreditCard(t *testing.T) {
	assert.Equal(t, "************3456", CreditCard("1234567890123456"))
	assert.Equal(t, "***", CreditCard("123"))
	assert.Equal(t, "1234", CreditCard("1234"))
}

func TestTruncate(t *testing.T) {
	text := "This is a very long text that should be truncated"
	result := Truncate(text, 20)
	assert.Equal(t, "This is a very lo...", result)
	assert.Len(t, result, 20)

	assert.Equal(t, "Short text", Truncate("Short text", 20))
	assert.Equal(t, "Exactly", Truncate("Exactly", 7))
	assert.Equal(t, "ab", Truncate("abcdef", 2))
}

func TestFileSize(t *testing.T) {
	assert.Equal(t, "512 B", FileSize(512))
	assert.Equal(t, "1.5 KB", FileSize(1536))
	assert.Equal(t, "2.0 MB", FileSize(2*1024*1024))
}

func TestReceiptName(t *testing.T) {
	assert.Equal(t, "abc.pdf", ReceiptName("./uploads/abc.pdf"))
	assert.Equal(t, "N/A", ReceiptName(""))
}
