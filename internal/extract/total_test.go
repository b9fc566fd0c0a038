package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sells-group/invoice-extract/internal/model"
)

func newTestTotalLocator() *totalLocator {
	return newTotalLocator(DefaultTotalLabels, DefaultCurrencySuffixes, 85)
}

func TestTotalLocator_SuffixCurrencyEuropean(t *testing.T) {
	l := newTestTotalLocator()

	f := l.locate("some header\n1.400,00 uss\nfooter")
	require.True(t, f.OK())
	assert.Equal(t, "1,400.00", f.Value)
}

func TestTotalLocator_SuffixCurrencyAmerican(t *testing.T) {
	l := newTestTotalLocator()

	f := l.locate("pay 1,400.00 US$ promptly")
	require.True(t, f.OK())
	assert.Equal(t, "1,400.00", f.Value)
}

func TestTotalLocator_SuffixBeatsLabel(t *testing.T) {
	// Strategy (a) scans the whole document before any label strategy runs.
	l := newTestTotalLocator()

	f := l.locate("TOTAL DUE: 999.99\n250,00 uss")
	require.True(t, f.OK())
	assert.Equal(t, "250.00", f.Value)
}

func TestTotalLocator_LabelSameLine(t *testing.T) {
	l := newTestTotalLocator()

	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"total due", "TOTAL DUE: $1,234.56", "1,234.56"},
		{"amount due", "Amount Due - 42.00", "42.00"},
		{"balance due", "balance due 7,000", "7,000.00"},
		{"order total", "Order Total: 100", "100.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := l.locate(tt.doc)
			require.True(t, f.OK(), "expected a match in %q", tt.doc)
			assert.Equal(t, tt.want, f.Value)
		})
	}
}

func TestTotalLocator_UnseparatedAmounts(t *testing.T) {
	// Amounts with no grouping separator must match the whole digit run,
	// never a truncated prefix or suffix of it.
	l := newTestTotalLocator()

	tests := []struct {
		name string
		doc  string
		want string
	}{
		{"label four digits", "TOTAL DUE: 1400", "1,400.00"},
		{"suffix four digits", "amount 1400 uss", "1,400.00"},
		{"label six digits", "Amount Due: 123456", "123,456.00"},
		{"label digits with decimals", "TOTAL DUE: 1400.00", "1,400.00"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := l.locate(tt.doc)
			require.True(t, f.OK(), "expected a match in %q", tt.doc)
			assert.Equal(t, tt.want, f.Value)
		})
	}
}

func TestTotalLocator_LabelNumeralOnNextLine(t *testing.T) {
	l := newTestTotalLocator()

	f := l.locate("TOTAL DUE\n$ 1,234.56\n")
	require.True(t, f.OK())
	assert.Equal(t, "1,234.56", f.Value)
}

func TestTotalLocator_LabelPriorityOrder(t *testing.T) {
	// "total due" outranks plain "total" on the same line.
	l := newTestTotalLocator()

	f := l.locate("Subtotal total 10.00 and TOTAL DUE 20.00")
	require.True(t, f.OK())
	assert.Equal(t, "20.00", f.Value)
}

func TestTotalLocator_GenericLabelsOutrankTailPhrases(t *testing.T) {
	// Plain "total" ranks ahead of "balance due" in the default vocabulary,
	// so on a line carrying both it picks the numeral after "total".
	l := newTestTotalLocator()

	f := l.locate("Total 10.00 Balance Due 20.00")
	require.True(t, f.OK())
	assert.Equal(t, "10.00", f.Value)
}

func TestTotalLocator_FuzzyLabelFallback(t *testing.T) {
	l := newTestTotalLocator()

	// OCR mangled the label ("TOTAI DUE"); no exact phrase matches, so the
	// partial-ratio fallback accepts the line.
	f := l.locate("invoice body\nTOTAI DUE: 1.400,00\n")
	require.True(t, f.OK())
	assert.Equal(t, "1,400.00", f.Value)
}

func TestTotalLocator_FuzzyRespectsThreshold(t *testing.T) {
	strict := newTotalLocator(DefaultTotalLabels, DefaultCurrencySuffixes, 99)

	f := strict.locate("invoice body\nTOTAI DUE: 1.400,00\n")
	assert.Equal(t, model.FieldNotFound, f.State)
}

func TestTotalLocator_NoLabelAnywhere(t *testing.T) {
	l := newTestTotalLocator()

	f := l.locate("nothing resembling a monetary line here")
	assert.Equal(t, model.FieldNotFound, f.State)
}

func TestTotalLocator_LabeledLineWithoutNumeralKeepsScanning(t *testing.T) {
	l := newTestTotalLocator()

	f := l.locate("TOTAL DUE: to be advised\nno number here\nAMOUNT DUE: 55.10")
	require.True(t, f.OK())
	assert.Equal(t, "55.10", f.Value)
}

func TestTotalLocator_InvalidNumeralMarksInvalidFormat(t *testing.T) {
	l := newTestTotalLocator()

	// A located label with an unparseable numeral is a distinct outcome,
	// never a silent miss and never a synthetic value.
	f := l.parse("", "TOTAL DUE: ???")
	assert.Equal(t, model.FieldInvalid, f.State)
	assert.Empty(t, f.Value)
}
