package parser

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestExtractAmountPriority(t *testing.T) {
	// Currency-symbol pattern outranks the keyword pattern
	amount := ExtractAmount("Your order total: 300 was charged ₹500 today")
	assert.Equal(t, 500.0, amount)
}

func TestExtractAmountFormats(t *testing.T) {
	tests := []struct {
		name string
		body string
		want float64
	}{
		{"rupee symbol", "Paid ₹250 at checkout", 250},
		{"rupee with thousands", "Paid ₹1,250.50 at checkout", 1250.50},
		{"rs prefix", "Charged Rs. 899 for your order", 899},
		{"dollar", "Receipt: $42.50 paid", 42.50},
		{"currency word suffix", "You spent 320 rupees today", 320},
		{"amount keyword", "Amount: 1500", 1500},
		{"total keyword", "Order Total: 99.99", 99.99},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractAmount(tt.body))
		})
	}
}

func TestExtractAmountRejectsOutOfRange(t *testing.T) {
	// 2,000,000 fails the sanity bound; the cascade falls through to the
	// lower-priority keyword pattern
	assert.Equal(t, 300.0, ExtractAmount("₹2000000 charged, total: 300"))

	assert.Equal(t, 0.0, ExtractAmount("₹0 due"))
	assert.Equal(t, 0.0, ExtractAmount("no numbers here"))
}

func TestExtractDateFormats(t *testing.T) {
	fallback := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name string
		body string
		want time.Time
	}{
		{"slash numeric", "charged on 03/15/2024 via card", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"iso dash", "date: 2024-03-15", time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)},
		{"textual", "Paid on 15 Jan 2024", time.Date(2024, 1, 15, 0, 0, 0, 0, time.UTC)},
		{"textual lowercase", "paid on 7 mar 2023", time.Date(2023, 3, 7, 0, 0, 0, 0, time.UTC)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExtractDate(tt.body, fallback)
			assert.Equal(t, tt.want.Year(), got.Year())
			assert.Equal(t, tt.want.Month(), got.Month())
			assert.Equal(t, tt.want.Day(), got.Day())
		})
	}
}

func TestExtractDateFallsBackToProcessingTime(t *testing.T) {
	fallback := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, fallback, ExtractDate("no date in here", fallback))
}

func TestExtractVendor(t *testing.T) {
	assert.Equal(t, "Amazon", ExtractVendor("from: Amazon\nTotal: ₹500"))
	assert.Equal(t, "Starbucks", ExtractVendor("merchant: Starbucks\npaid today"))
	assert.Equal(t, "", ExtractVendor("nothing labeled here"))

	// from outranks merchant
	assert.Equal(t, "Swiggy", ExtractVendor("from: Swiggy\nmerchant: Zomato\n"))
}

func TestExtractTitleSynthesis(t *testing.T) {
	got := Extract("from: Amazon\n₹500 charged", map[string]string{})
	assert.Equal(t, "Amazon - ₹500", got.Title)
	assert.Equal(t, 500.0, got.Amount)

	// Vendor without a sane amount
	got = Extract("from: Amazon\nthanks for shopping", map[string]string{})
	assert.Equal(t, "Amazon - Expense", got.Title)
	assert.Equal(t, 0.0, got.Amount)

	// No vendor: subject truncated to 50 characters
	subject := strings.Repeat("x", 80)
	got = Extract("₹100 charged", map[string]string{"subject": subject})
	assert.Equal(t, subject[:50], got.Title)

	// Neither vendor nor subject
	got = Extract("₹100 charged", map[string]string{})
	assert.Equal(t, FallbackTitle, got.Title)
}

func TestExtractIsPure(t *testing.T) {
	body := "from: Amazon\n₹500 on 15 Jan 2024"
	first := Extract(body, nil)
	second := Extract(body, nil)
	assert.Equal(t, first.Title, second.Title)
	assert.Equal(t, first.Amount, second.Amount)
	assert.Equal(t, first.Vendor, second.Vendor)
}
