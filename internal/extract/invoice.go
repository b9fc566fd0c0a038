package extract

import (
	"regexp"

	"github.com/sells-group/invoice-extract/internal/model"
)

// invoiceLocator finds the first labeled invoice number. The label is matched
// case-insensitively; the captured identifier is a contiguous run of
// uppercase letters, digits, and hyphens. No checksum or format validation
// beyond the character class.
type invoiceLocator struct {
	re *regexp.Regexp
}

func newInvoiceLocator(labels []string) *invoiceLocator {
	return &invoiceLocator{
		re: regexp.MustCompile(`(?i:` + alternation(labels) + `)\s*[:#.\-]?\s*([A-Z0-9][A-Z0-9\-]*)`),
	}
}

func (l *invoiceLocator) locate(doc string) model.Field {
	m := l.re.FindStringSubmatch(doc)
	if m == nil {
		return model.NotFound()
	}
	return model.Found(m[1], m[0])
}
