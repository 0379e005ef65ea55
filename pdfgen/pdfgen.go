// Package pdfgen renders an invoice record as a two-column (field, value)
// tabular PDF under the managed upload directory.
package pdfgen

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jung-kurt/gofpdf"
)

// transientField is accepted on the wire but never rendered or persisted.
const transientField = "bill_of_entry_number"

// Field is one (key, value) row of the rendered table. Keys are the wire
// names; underscores are replaced with spaces for display.
type Field struct {
	Key   string
	Value string
}

// Renderer writes invoice PDFs into Dir. Dir must exist before the first
// Render call; main ensures that at startup.
type Renderer struct {
	Dir string
}

// Render lays the given fields out as a table titled "Invoice" and writes
// the document to disk, returning the public reference path
// (/uploads/<name>). The file is fully flushed before Render returns.
//
// File names combine a millisecond timestamp with a random token so that
// concurrent requests within the same clock tick cannot collide.
func (r *Renderer) Render(fields []Field) (string, error) {
	name := fmt.Sprintf("invoice_%d_%s.pdf",
		time.Now().UnixMilli(), uuid.NewString()[:8])
	abs := filepath.Join(r.Dir, name)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(15, 15, 15)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 20)
	pdf.CellFormat(0, 12, "Invoice", "", 1, "C", false, 0, "")
	pdf.Ln(4)

	rows := make([]Field, 0, len(fields))
	for _, f := range fields {
		if f.Key == transientField {
			continue
		}
		rows = append(rows, f)
	}

	if len(rows) == 0 {
		pdf.SetFont("Helvetica", "", 12)
		pdf.CellFormat(0, 10, "No data available", "", 1, "C", false, 0, "")
	} else {
		pdf.SetFont("Helvetica", "B", 10)
		pdf.SetFillColor(230, 230, 230)
		pdf.CellFormat(60, 8, "Field", "1", 0, "L", true, 0, "")
		pdf.CellFormat(120, 8, "Value", "1", 1, "L", true, 0, "")

		pdf.SetFont("Helvetica", "", 10)
		for _, row := range rows {
			label := strings.ReplaceAll(row.Key, "_", " ")
			pdf.CellFormat(60, 8, label, "1", 0, "L", false, 0, "")
			pdf.CellFormat(120, 8, row.Value, "1", 1, "L", false, 0, "")
		}
	}

	if err := pdf.OutputFileAndClose(abs); err != nil {
		return "", fmt.Errorf("writing %s: %w", abs, err)
	}
	return "/uploads/" + name, nil
}
