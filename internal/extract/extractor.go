// Package extract implements the field locators: layout-agnostic heuristics
// that pull invoice number, order date, customer, state, and total due out of
// noisy OCR text. Every locator is a pure function of the document text and
// the immutable options compiled at construction, so one Extractor is safe to
// share across concurrently processed documents.
package extract

import (
	"time"

	"github.com/rotisserie/eris"

	"github.com/sells-group/invoice-extract/internal/model"
	"github.com/sells-group/invoice-extract/internal/normalize"
)

// DateStrategy selects which clock an extracted record's date comes from.
// The two strategies answer different questions ("when invoiced" vs "when
// extracted") and must never be mixed silently.
type DateStrategy string

const (
	// DateFromDocument parses the date stated in the document text.
	DateFromDocument DateStrategy = "document"
	// DateFromCapture stamps the processing time in a fixed reference zone.
	DateFromCapture DateStrategy = "capture"
)

// Options holds the static configuration for all locators. Label sets and
// lists are treated as data: they vary per invoice issuer and are supplied by
// configuration, never hard-coded into matching logic.
type Options struct {
	InvoiceLabels       []string
	TotalLabels         []string
	CurrencySuffixes    []string
	CustomerTerminators []string
	CustomerDenylist    []string
	StateWhitelist      []string
	FuzzyThreshold      int
	DateStrategy        DateStrategy
	CaptureZone         *time.Location

	// Now is the clock used by the capture strategy. Defaults to time.Now;
	// tests inject a fixed clock.
	Now func() time.Time
}

// Extractor runs all five locators against a document. Construct once via
// New, share freely.
type Extractor struct {
	invoice  *invoiceLocator
	total    *totalLocator
	date     *dateLocator
	customer *customerLocator
	states   *normalize.StateSet
}

// New validates the options and pre-compiles every pattern. Empty
// vocabularies are a configuration error: each locator depends on its label
// set, so this fails before any document is processed.
func New(opts Options) (*Extractor, error) {
	if len(opts.InvoiceLabels) == 0 {
		return nil, eris.New("extract: invoice label vocabulary is empty")
	}
	if len(opts.TotalLabels) == 0 {
		return nil, eris.New("extract: total label vocabulary is empty")
	}
	if len(opts.CurrencySuffixes) == 0 {
		return nil, eris.New("extract: currency suffix list is empty")
	}
	if len(opts.CustomerTerminators) == 0 {
		return nil, eris.New("extract: customer terminator list is empty")
	}
	if opts.FuzzyThreshold < 1 || opts.FuzzyThreshold > 100 {
		return nil, eris.Errorf("extract: fuzzy threshold %d outside 1..100", opts.FuzzyThreshold)
	}

	switch opts.DateStrategy {
	case DateFromDocument:
	case DateFromCapture:
		if opts.CaptureZone == nil {
			return nil, eris.New("extract: capture date strategy requires a reference time zone")
		}
	default:
		return nil, eris.Errorf("extract: unknown date strategy %q", opts.DateStrategy)
	}

	whitelist := opts.StateWhitelist
	if len(whitelist) == 0 {
		whitelist = normalize.AllStates
	}
	states, err := normalize.NewStateSet(whitelist)
	if err != nil {
		return nil, err
	}

	now := opts.Now
	if now == nil {
		now = time.Now
	}

	return &Extractor{
		invoice:  newInvoiceLocator(opts.InvoiceLabels),
		total:    newTotalLocator(opts.TotalLabels, opts.CurrencySuffixes, opts.FuzzyThreshold),
		date:     newDateLocator(opts.DateStrategy, opts.CaptureZone, now),
		customer: newCustomerLocator(opts.CustomerTerminators, opts.CustomerDenylist),
		states:   states,
	}, nil
}

// Extract runs every locator and assembles one record. The state locator
// consumes the customer locator's output before it falls back to the full
// document, so that ordering is explicit here.
func (e *Extractor) Extract(doc, source string) model.InvoiceRecord {
	customer := e.customer.locate(doc)

	fields := model.FieldResults{
		InvoiceNumber: e.invoice.locate(doc),
		OrderDate:     e.date.locate(doc),
		Customer:      customer,
		TotalDue:      e.total.locate(doc),
		State:         e.locateState(doc, customer),
	}
	return model.NewInvoiceRecord(source, fields)
}

// locateState searches the customer block first, then the whole document.
func (e *Extractor) locateState(doc string, customer model.Field) model.Field {
	if customer.OK() {
		if code, ok := e.states.Match(customer.Value); ok {
			return model.Found(code, code)
		}
	}
	if code, ok := e.states.Match(doc); ok {
		return model.Found(code, code)
	}
	return model.NotFound()
}
