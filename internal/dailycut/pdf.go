// Package dailycut renders the end-of-day sales summary as a PDF: header,
// totals line, and one table row per sale.
package dailycut

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/ohana-pos/pos/internal/posapi"
	"github.com/ohana-pos/pos/internal/report"
)

// FileName is the date-stamped name the report is saved under.
func FileName(date time.Time) string {
	return fmt.Sprintf("daily_cut_%s.pdf", date.Format("2006-01-02"))
}

// WritePDF renders the report for the given day into w.
func WritePDF(w io.Writer, date time.Time, sales []posapi.Sale) error {
	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "Daily Cut - Ohana POS")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, "Date: "+date.Format("2006-01-02"))
	pdf.Ln(8)
	pdf.Cell(0, 8, fmt.Sprintf("Total sold: $%.2f", report.Sum(sales)))
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "B", 11)
	pdf.CellFormat(45, 8, "Time", "1", 0, "L", false, 0, "")
	pdf.CellFormat(60, 8, "Client", "1", 0, "L", false, 0, "")
	pdf.CellFormat(30, 8, "Items", "1", 0, "R", false, 0, "")
	pdf.CellFormat(35, 8, "Total", "1", 1, "R", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	for _, s := range sales {
		when := "no date"
		if t, ok := s.When(); ok {
			when = t.Format("15:04:05")
		}
		client := s.ClientName
		if client == "" {
			client = "walk-in"
		}
		pdf.CellFormat(45, 8, when, "1", 0, "L", false, 0, "")
		pdf.CellFormat(60, 8, client, "1", 0, "L", false, 0, "")
		pdf.CellFormat(30, 8, fmt.Sprintf("%d", len(s.Items)), "1", 0, "R", false, 0, "")
		pdf.CellFormat(35, 8, fmt.Sprintf("$%.2f", s.Total), "1", 1, "R", false, 0, "")
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render pdf: %w", err)
	}
	return nil
}

// WriteFile writes the report into dir under its date-stamped name and
// returns the full path.
func WriteFile(dir string, date time.Time, sales []posapi.Sale) (string, error) {
	path := filepath.Join(dir, FileName(date))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create report file: %w", err)
	}
	defer f.Close()

	if err := WritePDF(f, date, sales); err != nil {
		return "", err
	}
	if err := f.Close(); err != nil {
		return "", fmt.Errorf("failed to close report file: %w", err)
	}
	return path, nil
}
