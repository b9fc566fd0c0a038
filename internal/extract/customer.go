package extract

import (
	"regexp"

	"github.com/sells-group/invoice-extract/internal/model"
	"github.com/sells-group/invoice-extract/internal/normalize"
)

// customerLocator captures the text between the "Customer" section header and
// the first terminator header. The capture may span lines; cleanup (line-break
// collapsing, denylist stripping, trimming) is delegated to the normalizer.
type customerLocator struct {
	re      *regexp.Regexp
	cleaner *normalize.CustomerCleaner
}

func newCustomerLocator(terminators, denylist []string) *customerLocator {
	return &customerLocator{
		re:      regexp.MustCompile(`(?is)customer[:\s]\s*(.*?)(?:` + alternation(terminators) + `)`),
		cleaner: normalize.NewCustomerCleaner(denylist),
	}
}

func (l *customerLocator) locate(doc string) model.Field {
	m := l.re.FindStringSubmatch(doc)
	if m == nil {
		return model.NotFound()
	}
	cleaned := l.cleaner.Clean(m[1])
	if cleaned == "" {
		return model.NotFound()
	}
	return model.Found(cleaned, m[1])
}
