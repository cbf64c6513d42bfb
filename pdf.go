package main

import (
	"fmt"
	"strings"

	"github.com/jung-kurt/gofpdf"
)

const (
	pdfPageWidth  = 210 // A4 width in mm
	pdfMargin     = 10  // margin in mm
	pdfLineHeight = 5   // line height in mm
	pdfFontSize   = 9
)

// writeReportPDF renders the already-formatted report text into a
// monospace PDF at outputPath.
func writeReportPDF(report, outputPath string) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(pdfMargin, pdfMargin, pdfMargin)
	pdf.SetAutoPageBreak(true, pdfMargin)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", pdfFontSize+2)
	pdf.SetTextColor(0, 0, 0)
	pdf.MultiCell(pdfPageWidth-2*pdfMargin, pdfLineHeight, "fitsaudit report", "", "L", false)
	pdf.Ln(pdfLineHeight / 2)

	pdf.SetFont("Courier", "", pdfFontSize)
	for _, line := range strings.Split(report, "\n") {
		// Table borders from the console renderer use box-drawing runes
		// that the core PDF fonts cannot encode.
		pdf.MultiCell(pdfPageWidth-2*pdfMargin, pdfLineHeight, asciiSafe(line), "", "L", false)
	}

	if err := pdf.OutputFileAndClose(outputPath); err != nil {
		return fmt.Errorf("saving PDF to %s: %w", outputPath, err)
	}
	return nil
}

// asciiSafe downgrades non-ASCII runes to their closest ASCII stand-in.
func asciiSafe(s string) string {
	var b strings.Builder
	for _, r := range s {
		switch {
		case r < 128:
			b.WriteRune(r)
		case r == '─':
			b.WriteByte('-')
		case r == '│':
			b.WriteByte('|')
		default:
			b.WriteByte('+')
		}
	}
	return b.String()
}
