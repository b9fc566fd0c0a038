// Package ocr is the text-source boundary: it turns a document file into the
// normalized text blob the locators consume. OCR quality is not a contract —
// garbled text is expected input downstream, not an error here.
package ocr

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/rotisserie/eris"
	"golang.org/x/text/unicode/norm"
)

// Source materializes the text of one document. Implementations must honor
// ctx cancellation; any blocking (subprocess, file I/O) lives behind this
// interface, never in the extraction core.
type Source interface {
	Text(ctx context.Context, path string) (string, error)
}

// Router dispatches by file extension: PDFs go to pdftotext, anything else is
// read as already-OCR'd plain text.
type Router struct {
	pdf   Source
	plain Source
}

// NewRouter builds the default source set. pdfToTextPath may be empty to use
// the binary from PATH.
func NewRouter(pdfToTextPath string) *Router {
	return &Router{
		pdf:   NewPdfToText(pdfToTextPath),
		plain: PlainText{},
	}
}

// Text returns the normalized document text for path.
func (r *Router) Text(ctx context.Context, path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".pdf":
		return r.pdf.Text(ctx, path)
	case ".txt", ".text", ".ocr":
		return r.plain.Text(ctx, path)
	default:
		return "", eris.Errorf("ocr: unsupported file type %q", filepath.Ext(path))
	}
}

// Normalize canonicalizes raw extractor output: NFC unicode form, \n line
// endings, and form feeds (pdftotext's page breaks) replaced by blank-line
// page separators.
func Normalize(raw string) string {
	s := norm.NFC.String(raw)
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = strings.ReplaceAll(s, "\r", "\n")
	s = strings.ReplaceAll(s, "\f", "\n\n")
	return s
}
