// Package validation holds the field-level business rules applied to a
// purchase before it is submitted. Every check is a pure function.
package validation

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode/utf8"
)

const (
	// TaxCodeLength is the fixed length of a Codice Fiscale
	TaxCodeLength = 16

	// MaxPrice is the highest accepted purchase price
	MaxPrice = 999999.99

	// DefaultMaxFileSize is the default receipt size limit (10 MiB)
	DefaultMaxFileSize int64 = 10 * 1024 * 1024

	minCardDigits = 13
	maxCardDigits = 19
	minNameLength = 2
	maxNameLength = 50
)

var (
	taxCodePattern    = regexp.MustCompile(`^[A-Z0-9]{16}$`)
	cardStripPattern  = regexp.MustCompile(`[\s-]`)
	cardDigitsPattern = regexp.MustCompile(`^[0-9]+$`)
	namePattern       = regexp.MustCompile(`^[A-Za-zÀ-ÿ\s'-]+$`)
)

// Result is the verdict of a single rule
type Result struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message"`
}

func ok(message string) Result {
	return Result{Valid: true, Message: message}
}

func fail(message string) Result {
	return Result{Valid: false, Message: message}
}

// TaxCode validates an Italian Codice Fiscale: 16 letters or digits.
// The value is upper-cased for the character check only.
func TaxCode(cf string) Result {
	if cf == "" {
		return fail("Codice Fiscale is required")
	}

	if utf8.RuneCountInString(cf) != TaxCodeLength {
		return fail("Codice Fiscale must be 16 characters long")
	}

	if !taxCodePattern.MatchString(strings.ToUpper(cf)) {
		return fail("Codice Fiscale must contain only letters and numbers")
	}

	return ok("Valid Codice Fiscale")
}

// CreditCard performs a format check on a card number.
// Spaces and hyphens are ignored.
func CreditCard(cc string) Result {
	if cc == "" {
		return fail("Credit card number is required")
	}

	clean := cardStripPattern.ReplaceAllString(cc, "")

	if !cardDigitsPattern.MatchString(clean) {
		return fail("Credit card must contain only numbers")
	}

	if len(clean) < minCardDigits || len(clean) > maxCardDigits {
		return fail("Credit card must be between 13-19 digits")
	}

	return ok("Valid credit card format")
}

// Price accepts 0 < price <= MaxPrice. NaN is rejected.
func Price(price float64) Result {
	if math.IsNaN(price) {
		return fail("Price must be a number")
	}

	if price <= 0 {
		return fail("Price must be greater than 0")
	}

	if price > MaxPrice {
		return fail("Price is too high (max: €999,999.99)")
	}

	return ok("Valid price")
}

// Name validates a person name. label is used in the messages,
// e.g. "Customer Name".
func Name(name, label string) Result {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return fail(fmt.Sprintf("%s is required", label))
	}

	length := utf8.RuneCountInString(trimmed)
	if length < minNameLength {
		return fail(fmt.Sprintf("%s must be at least 2 characters long", label))
	}

	if length > maxNameLength {
		return fail(fmt.Sprintf("%s must be less than 50 characters", label))
	}

	if !namePattern.MatchString(trimmed) {
		return fail(fmt.Sprintf("%s contains invalid characters", label))
	}

	return ok(fmt.Sprintf("Valid %s", strings.ToLower(label)))
}

// FileSize rejects receipts larger than maxSize bytes.
// A maxSize <= 0 falls back to DefaultMaxFileSize.
func FileSize(size, maxSize int64) Result {
	if maxSize <= 0 {
		maxSize = DefaultMaxFileSize
	}

	if size > maxSize {
		const mb = 1024 * 1024
		return fail(fmt.Sprintf("File too large (%.1fMB). Maximum size: %.1fMB",
			float64(size)/mb, float64(maxSize)/mb))
	}

	return ok("Valid file size")
}

// Messages collects the messages of every failed result, in order
func Messages(results ...Result) []string {
	var messages []string
	for _, r := range results {
		if !r.Valid {
			messages = append(messages, r.Message)
		}
	}
	return messages
}
