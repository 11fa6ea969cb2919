// Package parser extracts expense fields from unstructured email text. It is
// best-effort pattern matching: false positives and negatives are expected and
// only bounded by the sanity checks on the parsed amount.
package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// Amounts outside (0, 1000000) are rejected as misparsed numbers.
const maxAmount = 1000000

// FallbackTitle is used when neither a vendor nor a subject is available.
const FallbackTitle = "Gmail Import"

const maxTitleLength = 50

// ParsedExpense is a candidate expense mined from an email body.
type ParsedExpense struct {
	Title  string
	Amount float64
	Date   time.Time
	Vendor string
}

// AmountPatterns are evaluated in priority order; the first pattern whose
// first match yields a sane value wins. Currency-symbol forms outrank
// keyword-prefixed ones.
var AmountPatterns = []*regexp.Regexp{
	regexp.MustCompile(`₹\s*(\d+(?:,\d{3})*(?:\.\d{2})?)`),         // Indian Rupees
	regexp.MustCompile(`(?i)Rs\.?\s*(\d+(?:,\d{3})*(?:\.\d{2})?)`), // Rs format
	regexp.MustCompile(`\$\s*(\d+(?:,\d{3})*(?:\.\d{2})?)`),        // US Dollars
	regexp.MustCompile(`(?i)(\d+(?:,\d{3})*(?:\.\d{2})?)\s*(?:rupees?|rs|dollars?|usd)`),
	regexp.MustCompile(`(?i)amount[:\s]\s*(\d+(?:,\d{3})*(?:\.\d{2})?)`),
	regexp.MustCompile(`(?i)total[:\s]\s*(\d+(?:,\d{3})*(?:\.\d{2})?)`),
}

// DatePattern pairs a matcher with the layouts used to parse its matches.
type DatePattern struct {
	Re      *regexp.Regexp
	Layouts []string
}

// DatePatterns are evaluated in order; the first successfully parsed match
// wins. When nothing parses, the processing time is used.
var DatePatterns = []DatePattern{
	{
		Re:      regexp.MustCompile(`\d{1,2}[/\-]\d{1,2}[/\-]\d{2,4}`),
		Layouts: []string{"01/02/2006", "1/2/2006", "01-02-2006", "1-2-2006", "01/02/06", "1/2/06", "01-02-06", "1-2-06"},
	},
	{
		Re:      regexp.MustCompile(`\d{4}[/\-]\d{1,2}[/\-]\d{1,2}`),
		Layouts: []string{"2006/01/02", "2006-01-02", "2006/1/2", "2006-1-2"},
	},
	{
		Re:      regexp.MustCompile(`(?i)\d{1,2}\s+(?:Jan|Feb|Mar|Apr|May|Jun|Jul|Aug|Sep|Oct|Nov|Dec)\s+\d{2,4}`),
		Layouts: []string{"2 Jan 2006", "2 Jan 06"},
	},
}

// VendorPatterns match label-prefixed merchant names; the first capture wins.
var VendorPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)from[:\s]\s*([A-Za-z][A-Za-z ]*)`),
	regexp.MustCompile(`(?i)merchant[:\s]\s*([A-Za-z][A-Za-z ]*)`),
	regexp.MustCompile(`(?i)vendor[:\s]\s*([A-Za-z][A-Za-z ]*)`),
	regexp.MustCompile(`(?i)store[:\s]\s*([A-Za-z][A-Za-z ]*)`),
}

// Extract mines expense fields from an email body and its lowercased header
// map. It is a pure function; it never fails. A zero Amount means no sane
// amount was found and the caller should reject the candidate.
func Extract(body string, headers map[string]string) ParsedExpense {
	expense := ParsedExpense{
		Title:  FallbackTitle,
		Amount: ExtractAmount(body),
		Date:   ExtractDate(body, time.Now()),
		Vendor: ExtractVendor(body),
	}

	if expense.Vendor != "" {
		if expense.Amount > 0 {
			expense.Title = fmt.Sprintf("%s - ₹%s", expense.Vendor, formatAmount(expense.Amount))
		} else {
			expense.Title = expense.Vendor + " - Expense"
		}
	} else if subject := headers["subject"]; subject != "" {
		expense.Title = truncate(subject, maxTitleLength)
	}

	return expense
}

// ExtractAmount returns the first sane amount matched by the pattern cascade,
// or 0 when none is found. Thousands separators are stripped before parsing.
func ExtractAmount(body string) float64 {
	for _, pattern := range AmountPatterns {
		match := pattern.FindStringSubmatch(body)
		if match == nil {
			continue
		}
		raw := strings.ReplaceAll(match[1], ",", "")
		amount, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			continue
		}
		if amount > 0 && amount < maxAmount {
			return amount
		}
		// Out-of-range value: fall through to the next pattern
	}
	return 0
}

// ExtractDate returns the first parseable date matched by the pattern
// cascade, or fallback when none parses.
func ExtractDate(body string, fallback time.Time) time.Time {
	for _, pattern := range DatePatterns {
		match := pattern.Re.FindString(body)
		if match == "" {
			continue
		}
		normalized := normalizeMonth(match)
		for _, layout := range pattern.Layouts {
			if parsed, err := time.Parse(layout, normalized); err == nil {
				return parsed
			}
		}
	}
	return fallback
}

// ExtractVendor returns the first label-prefixed merchant name, or "".
func ExtractVendor(body string) string {
	for _, pattern := range VendorPatterns {
		match := pattern.FindStringSubmatch(body)
		if match != nil {
			return strings.TrimSpace(match[1])
		}
	}
	return ""
}

// normalizeMonth title-cases the month token so textual dates like
// "12 jan 2024" parse against Go's "Jan" layout element.
func normalizeMonth(s string) string {
	fields := strings.Fields(s)
	if len(fields) != 3 {
		return s
	}
	month := strings.ToLower(fields[1])
	fields[1] = strings.ToUpper(month[:1]) + month[1:]
	return strings.Join(fields, " ")
}

func formatAmount(amount float64) string {
	return strconv.FormatFloat(amount, 'f', -1, 64)
}

func truncate(s string, limit int) string {
	if len(s) > limit {
		return s[:limit]
	}
	return s
}
