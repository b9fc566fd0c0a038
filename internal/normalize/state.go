package normalize

import (
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
)

// AllStates is the default whitelist: the fifty US states plus DC, in postal
// order.
var AllStates = []string{
	"AL", "AK", "AZ", "AR", "CA", "CO", "CT", "DE", "FL", "GA",
	"HI", "ID", "IL", "IN", "IA", "KS", "KY", "LA", "ME", "MD",
	"MA", "MI", "MN", "MS", "MO", "MT", "NE", "NV", "NH", "NJ",
	"NM", "NY", "NC", "ND", "OH", "OK", "OR", "PA", "RI", "SC",
	"SD", "TN", "TX", "UT", "VT", "VA", "WA", "WV", "WI", "WY",
	"DC",
}

// StateSet is a closed, ordered whitelist of two-letter state codes. Matching
// is whole-token only ("NY" inside "SUNNY" never matches) and case-sensitive:
// postal abbreviations are uppercase in OCR text, and folding the haystack
// would turn ordinary words like "in", "or", "me" into state hits. Iteration
// order is the configured insertion order, which makes the tie-break
// deterministic when noisy OCR text contains several candidate codes.
type StateSet struct {
	codes    []string
	patterns []*regexp.Regexp
}

// NewStateSet builds a StateSet from the configured codes. Codes are
// upper-cased; duplicates keep their first position.
func NewStateSet(codes []string) (*StateSet, error) {
	if len(codes) == 0 {
		return nil, eris.New("normalize: state whitelist is empty")
	}

	s := &StateSet{}
	seen := make(map[string]bool, len(codes))
	for _, code := range codes {
		code = strings.ToUpper(strings.TrimSpace(code))
		if len(code) != 2 {
			return nil, eris.Errorf("normalize: invalid state code %q", code)
		}
		if seen[code] {
			continue
		}
		seen[code] = true
		s.codes = append(s.codes, code)
		s.patterns = append(s.patterns, regexp.MustCompile(`\b`+code+`\b`))
	}
	return s, nil
}

// Codes returns the whitelist in iteration order.
func (s *StateSet) Codes() []string {
	return s.codes
}

// Match returns the first whitelist code with a whole-word uppercase
// occurrence in text, scanning codes in configured order.
func (s *StateSet) Match(text string) (string, bool) {
	for i, re := range s.patterns {
		if re.MatchString(text) {
			return s.codes[i], true
		}
	}
	return "", false
}
