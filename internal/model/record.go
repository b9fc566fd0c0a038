package model

// FieldResults holds the typed per-field outcomes for one document, for
// programmatic consumers that need more than the rendered strings.
type FieldResults struct {
	InvoiceNumber Field `json:"invoice_number"`
	OrderDate     Field `json:"order_date"`
	Customer      Field `json:"customer"`
	State         Field `json:"state"`
	TotalDue      Field `json:"total_due"`
}

// InvoiceRecord is the per-document aggregate. All five field strings are
// always present; misses and parse failures surface as sentinel values, never
// as absent fields, so tabular exports stay fixed-width.
type InvoiceRecord struct {
	InvoiceNumber  string       `json:"invoiceNumber"`
	OrderDate      string       `json:"orderDate"`
	Customer       string       `json:"customer"`
	State          string       `json:"state"`
	TotalDue       string       `json:"totalDue"`
	SourceDocument string       `json:"sourceDocument,omitempty"`
	Fields         FieldResults `json:"-"`
}

// NewInvoiceRecord renders the typed field results into the exported record.
func NewInvoiceRecord(source string, fields FieldResults) InvoiceRecord {
	return InvoiceRecord{
		InvoiceNumber:  fields.InvoiceNumber.Render(SentinelNotFound),
		OrderDate:      fields.OrderDate.Render(SentinelNotFound),
		Customer:       fields.Customer.Render(SentinelNotFound),
		State:          fields.State.Render(SentinelUnknown),
		TotalDue:       fields.TotalDue.Render(SentinelNotFound),
		SourceDocument: source,
		Fields:         fields,
	}
}

// FailedRecord builds an all-sentinel record for a document whose text source
// failed, used when the batch policy keeps one row per input.
func FailedRecord(source string) InvoiceRecord {
	return NewInvoiceRecord(source, FieldResults{
		InvoiceNumber: NotFound(),
		OrderDate:     NotFound(),
		Customer:      NotFound(),
		State:         NotFound(),
		TotalDue:      NotFound(),
	})
}

// ExportColumns is the fixed batch export header. Column order is part of the
// downstream contract and must not change.
var ExportColumns = []string{
	"Invoice Number",
	"Order Placed Date",
	"Customer",
	"State",
	"Total Due",
	"File Name",
}

// Row returns the record's cells in ExportColumns order.
func (r InvoiceRecord) Row() []string {
	return []string{
		r.InvoiceNumber,
		r.OrderDate,
		r.Customer,
		r.State,
		r.TotalDue,
		r.SourceDocument,
	}
}
