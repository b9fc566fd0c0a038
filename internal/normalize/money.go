package normalize

import (
	"strings"

	"github.com/rotisserie/eris"

	"github.com/sells-group/invoice-extract/internal/model"
)

// ParseAmount canonicalizes a raw numeral matched in document text into an
// Amount. OCR'd invoices mix European grouping ("1.400,00") and American
// grouping ("1,400.00"), sometimes within one corpus, so the separator roles
// are inferred from position rather than glyph:
//
//   - both '.' and ',' present: the one closer to the end is the decimal
//     separator, the other is grouping;
//   - a single separator type followed by exactly two trailing digits is the
//     decimal separator;
//   - anything else is grouping.
func ParseAmount(raw, currency string) (model.Amount, error) {
	s := strings.TrimSpace(raw)
	s = strings.TrimLeft(s, "$€ \t")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return model.Amount{}, eris.New("normalize: empty amount")
	}

	lastDot := strings.LastIndexByte(s, '.')
	lastComma := strings.LastIndexByte(s, ',')

	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastDot > lastComma {
			s = strings.ReplaceAll(s, ",", "")
		} else {
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		}
	case lastDot >= 0:
		s = resolveSingleSeparator(s, '.')
	case lastComma >= 0:
		s = resolveSingleSeparator(s, ',')
	}

	amt, err := model.NewAmount(s, currency)
	if err != nil {
		return model.Amount{}, eris.Wrapf(err, "normalize: parse amount %q", raw)
	}
	return amt, nil
}

// resolveSingleSeparator handles a numeral containing only one separator
// glyph. A single occurrence with exactly two trailing digits is decimal;
// repeated occurrences, or other trailing lengths, mean grouping.
func resolveSingleSeparator(s string, sep byte) string {
	sepStr := string(sep)
	last := strings.LastIndexByte(s, sep)
	decimal := strings.Count(s, sepStr) == 1 && len(s)-last-1 == 2

	if decimal {
		if sep == ',' {
			return strings.Replace(s, ",", ".", 1)
		}
		return s
	}
	return strings.ReplaceAll(s, sepStr, "")
}
