package export

import (
	"io"

	"github.com/rotisserie/eris"
	"github.com/tealeg/xlsx/v2"

	"github.com/sells-group/invoice-extract/internal/model"
)

// WriteXLSX writes records as a single-sheet workbook with the fixed header.
func WriteXLSX(w io.Writer, records []model.InvoiceRecord) error {
	f := xlsx.NewFile()
	sheet, err := f.AddSheet("Invoices")
	if err != nil {
		return eris.Wrap(err, "export: add sheet")
	}

	header := sheet.AddRow()
	for _, col := range model.ExportColumns {
		header.AddCell().Value = col
	}

	for _, rec := range records {
		row := sheet.AddRow()
		for _, cell := range rec.Row() {
			row.AddCell().Value = cell
		}
	}

	return eris.Wrap(f.Write(w), "export: write workbook")
}
