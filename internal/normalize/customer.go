package normalize

import (
	"regexp"
	"strings"
)

var (
	lineBreaks = regexp.MustCompile(`\n+`)
	multiSpace = regexp.MustCompile(`[ \t]{2,}`)
)

// CustomerCleaner strips issuer-specific boilerplate out of captured customer
// blocks. The denylist is data, not logic: it is supplied by configuration
// and compiled once, so the cleaner is immutable and safe to share across
// concurrent documents.
type CustomerCleaner struct {
	denied []*regexp.Regexp
}

// NewCustomerCleaner compiles the denylist phrases for case-insensitive
// literal removal. Empty phrases are ignored.
func NewCustomerCleaner(denylist []string) *CustomerCleaner {
	c := &CustomerCleaner{}
	for _, phrase := range denylist {
		phrase = strings.TrimSpace(phrase)
		if phrase == "" {
			continue
		}
		// Literal match, but let runs of whitespace in the phrase match any
		// whitespace run in OCR output.
		pattern := regexp.QuoteMeta(phrase)
		pattern = regexp.MustCompile(` +`).ReplaceAllString(pattern, `\s+`)
		c.denied = append(c.denied, regexp.MustCompile(`(?i)`+pattern))
	}
	return c
}

// Clean collapses internal line breaks to single spaces, removes every
// denylist phrase, and trims the result.
func (c *CustomerCleaner) Clean(raw string) string {
	s := lineBreaks.ReplaceAllString(raw, " ")
	for _, re := range c.denied {
		s = re.ReplaceAllString(s, "")
	}
	s = multiSpace.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}
