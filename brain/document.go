package brain

import (
	"path/filepath"
	"strings"

	"github.com/aithena-labs/aithena/errors"
	"github.com/gen2brain/go-fitz"
)

// ExtractPDFText pulls the text layer of every page, concatenated in page
// order with blank-line separators.
func ExtractPDFText(data []byte) (string, error) {
	doc, err := fitz.NewFromMemory(data)
	if err != nil {
		return "", errors.Wrapf(err, "failed to open PDF")
	}
	defer doc.Close()

	pages := make([]string, 0, doc.NumPage())
	for pageNum := 0; pageNum < doc.NumPage(); pageNum++ {
		text, err := doc.Text(pageNum)
		if err != nil {
			return "", errors.Wrapf(err, "failed to extract text from page %d", pageNum+1)
		}
		pages = append(pages, text)
	}

	return strings.Join(pages, "\n\n"), nil
}

// ExtractText routes an uploaded document to the right extractor: PDFs go
// through the text layer, everything else is treated as plain text.
func ExtractText(filename string, data []byte) (string, error) {
	if strings.EqualFold(filepath.Ext(filename), ".pdf") {
		return ExtractPDFText(data)
	}
	return string(data), nil
}
