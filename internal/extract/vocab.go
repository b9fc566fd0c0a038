package extract

import (
	"regexp"
	"sort"
	"strings"
)

// Default vocabularies. These cover the label spellings seen across vendor
// templates so far; deployments extend them through configuration rather
// than code changes.

// DefaultInvoiceLabels are the recognized invoice-number label synonyms.
var DefaultInvoiceLabels = []string{
	"invoice number",
	"invoice no",
	"invoice #",
	"draft invoice #",
	"bill no",
	"bill #",
	"invoice",
}

// DefaultTotalLabels are the total-due label phrases in priority order.
var DefaultTotalLabels = []string{
	"total due",
	"order total",
	"amount due",
	"total",
	"amount",
	"total invoice",
	"balance due",
	"outstanding",
}

// DefaultCurrencySuffixes are tokens that trail a bare numeral and mark it as
// a monetary amount. "uss" is a recurring OCR misread of "US$".
var DefaultCurrencySuffixes = []string{"uss", "us$", "usd"}

// DefaultCustomerTerminators are the section headers that end a customer
// block.
var DefaultCustomerTerminators = []string{
	"license", "ship to", "bill to", "batch", "contact", "invoice",
}

// DefaultCustomerDenylist holds boilerplate stripped from customer blocks.
// Issuer-specific noise strings belong in configuration, not here.
var DefaultCustomerDenylist = []string{
	"pay to the order of n/a",
	"payment terms",
}

var spaceRuns = regexp.MustCompile(` +`)

// alternation builds a regex alternation from literal phrases: longest phrase
// first so "invoice number" wins over "invoice", with phrase-internal spaces
// matching any whitespace run. Callers apply case-insensitivity.
func alternation(phrases []string) string {
	sorted := make([]string, len(phrases))
	copy(sorted, phrases)
	sort.SliceStable(sorted, func(i, j int) bool {
		return len(sorted[i]) > len(sorted[j])
	})

	quoted := make([]string, 0, len(sorted))
	for _, p := range sorted {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		q := regexp.QuoteMeta(p)
		q = spaceRuns.ReplaceAllString(q, `\s+`)
		quoted = append(quoted, q)
	}
	return strings.Join(quoted, "|")
}
