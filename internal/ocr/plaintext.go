package ocr

import (
	"context"
	"os"

	"github.com/rotisserie/eris"
)

// PlainText reads a file that already contains OCR output.
type PlainText struct{}

// Text reads and normalizes the file contents.
func (PlainText) Text(ctx context.Context, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", eris.Wrap(err, "ocr: context cancelled")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return "", eris.Wrapf(err, "ocr: read %s", path)
	}
	return Normalize(string(b)), nil
}
