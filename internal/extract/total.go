package extract

import (
	"regexp"
	"strings"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"github.com/sells-group/invoice-extract/internal/model"
	"github.com/sells-group/invoice-extract/internal/normalize"
)

// numeralPattern is the grammar shared by every total-due strategy: optional
// currency glyph, 1-3 leading digits, zero or more 3-digit groups each
// optionally preceded by a separator, optional separator plus exactly two
// decimal digits. The separator inside a group is optional so unseparated
// amounts ("1400") match whole instead of as a truncated digit run. Which
// glyph plays which role is resolved later by the normalizer.
const numeralPattern = `[$€]?\s?(\d{1,3}(?:[.,]?\d{3})*(?:[.,]\d{2})?)`

// totalLocator reconciles the three numeric conventions seen in the corpus:
// suffix-currency numerals, label-prefixed numerals, and fuzzy label matches.
// Strategies run in that fixed order; the first successful extraction wins.
type totalLocator struct {
	suffixRe  *regexp.Regexp
	numeralRe *regexp.Regexp
	labels    []string
	labelRes  []*regexp.Regexp
	threshold int
}

func newTotalLocator(labels, suffixes []string, threshold int) *totalLocator {
	l := &totalLocator{
		suffixRe:  regexp.MustCompile(`(?i)` + numeralPattern + `\s*(?:` + alternation(suffixes) + `)`),
		numeralRe: regexp.MustCompile(numeralPattern),
		labels:    labels,
		threshold: threshold,
	}
	for _, label := range labels {
		l.labelRes = append(l.labelRes, regexp.MustCompile(`(?i)\b`+alternation([]string{label})+`\b`))
	}
	return l
}

func (l *totalLocator) locate(doc string) model.Field {
	if f, ok := l.bySuffix(doc); ok {
		return f
	}

	lines := strings.Split(doc, "\n")
	if f, ok := l.byLabel(lines); ok {
		return f
	}
	if f, ok := l.byFuzzyLabel(lines); ok {
		return f
	}
	return model.NotFound()
}

// bySuffix scans the whole document for a numeral trailed by a currency
// suffix token, e.g. "1.400,00 uss".
func (l *totalLocator) bySuffix(doc string) (model.Field, bool) {
	m := l.suffixRe.FindStringSubmatch(doc)
	if m == nil {
		return model.Field{}, false
	}
	return l.parse(m[1], m[0]), true
}

// byLabel scans lines top-to-bottom; on each line, label phrases are tried in
// priority order. A labeled line missing a numeral gets one more chance on
// the immediately following line.
func (l *totalLocator) byLabel(lines []string) (model.Field, bool) {
	for i, line := range lines {
		for _, re := range l.labelRes {
			loc := re.FindStringIndex(line)
			if loc == nil {
				continue
			}
			if f, ok := l.amountAfter(lines, i, line[loc[1]:]); ok {
				return f, true
			}
		}
	}
	return model.Field{}, false
}

// byFuzzyLabel is the last resort: approximate similarity between each label
// phrase and each line, using the same numeral grammar on accepted lines.
func (l *totalLocator) byFuzzyLabel(lines []string) (model.Field, bool) {
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		for _, label := range l.labels {
			if fuzzy.PartialRatio(strings.ToLower(label), strings.ToLower(trimmed)) <= l.threshold {
				continue
			}
			if f, ok := l.amountAfter(lines, i, line); ok {
				return f, true
			}
		}
	}
	return model.Field{}, false
}

// amountAfter extracts a numeral from rest (the text after the label on its
// line), falling back to the next physical line.
func (l *totalLocator) amountAfter(lines []string, i int, rest string) (model.Field, bool) {
	if m := l.numeralRe.FindStringSubmatch(rest); m != nil {
		return l.parse(m[1], m[0]), true
	}
	if i+1 < len(lines) {
		if m := l.numeralRe.FindStringSubmatch(lines[i+1]); m != nil {
			return l.parse(m[1], m[0]), true
		}
	}
	return model.Field{}, false
}

// parse normalizes the captured numeral. A label was located by this point,
// so an unparseable numeral is a distinct invalid-format outcome, never a
// silent miss and never a usable value.
func (l *totalLocator) parse(numeral, raw string) model.Field {
	amt, err := normalize.ParseAmount(numeral, "USD")
	if err != nil {
		return model.Invalid(strings.TrimSpace(raw))
	}
	return model.Found(amt.String(), strings.TrimSpace(raw))
}
