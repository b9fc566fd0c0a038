// Package export serializes batch results into tabular formats. Column order
// is fixed by model.ExportColumns and is part of the downstream contract.
package export

import (
	"encoding/csv"
	"io"

	"github.com/rotisserie/eris"

	"github.com/sells-group/invoice-extract/internal/model"
)

// WriteCSV writes records as CSV with the fixed header.
func WriteCSV(w io.Writer, records []model.InvoiceRecord) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(model.ExportColumns); err != nil {
		return eris.Wrap(err, "export: write csv header")
	}
	for _, rec := range records {
		if err := cw.Write(rec.Row()); err != nil {
			return eris.Wrap(err, "export: write csv row")
		}
	}

	cw.Flush()
	return eris.Wrap(cw.Error(), "export: flush csv")
}
