package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/atotto/clipboard"
	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
)

var (
	statusOK      = color.New(color.FgGreen).SprintFunc()
	statusInvalid = color.New(color.FgRed).SprintFunc()
)

// renderVerifyReport produces the per-file status lines plus the final
// summary table for verification mode.
func renderVerifyReport(records []FileRecord, summary RunSummary) string {
	var b strings.Builder
	for _, rec := range records {
		if rec.Valid {
			fmt.Fprintf(&b, "%s  %s\n", statusOK("OK     "), rec.Path)
		} else {
			fmt.Fprintf(&b, "%s  %s: %s\n", statusInvalid("INVALID"), rec.Path, rec.ErrorMessage)
		}
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"Scanned", "Valid", "Invalid"})
	t.AppendRow(table.Row{summary.Scanned, summary.Valid, summary.Invalid})
	b.WriteString(t.Render())
	b.WriteString("\n")

	if summary.Invalid == 0 {
		fmt.Fprintf(&b, "PASS: %d file(s) scanned, all valid\n", summary.Scanned)
	} else {
		fmt.Fprintf(&b, "FAIL: %d of %d file(s) invalid\n", summary.Invalid, summary.Scanned)
	}
	return b.String()
}

// renderMetadataReport serializes one JSON object per record, keys in
// FieldSpec order, one line per file.
func renderMetadataReport(records []MetadataRecord) (string, error) {
	var b strings.Builder
	for _, rec := range records {
		line, err := json.Marshal(rec)
		if err != nil {
			return "", fmt.Errorf("encoding metadata: %w", err)
		}
		b.Write(line)
		b.WriteString("\n")
	}
	return b.String(), nil
}

// renderInspection produces the structural view of one file: an HDU table
// followed by the primary header cards.
func renderInspection(insp fileInspection) string {
	var b strings.Builder
	fmt.Fprintf(&b, "File: %s (%s)\n", insp.Record.Path, humanize.Bytes(uint64(insp.Size)))

	if !insp.Record.Valid {
		fmt.Fprintf(&b, "%s  %s\n\n", statusInvalid("INVALID"), insp.Record.ErrorMessage)
		return b.String()
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.AppendHeader(table.Row{"#", "Name", "Ver", "Type", "Bitpix", "Dimensions"})
	for _, hdu := range insp.HDUs {
		t.AppendRow(table.Row{hdu.Index, hdu.Name, hdu.Version, hdu.Type, hdu.Bitpix, formatAxes(hdu.Axes)})
	}
	b.WriteString(t.Render())
	b.WriteString("\n")

	for _, card := range insp.Cards {
		if card.Name == "" {
			continue
		}
		if card.Comment != "" {
			fmt.Fprintf(&b, "%-8s = %v / %s\n", card.Name, card.Value, card.Comment)
		} else {
			fmt.Fprintf(&b, "%-8s = %v\n", card.Name, card.Value)
		}
	}
	b.WriteString("\n")
	return b.String()
}

func formatAxes(axes []int) string {
	if len(axes) == 0 {
		return "-"
	}
	parts := make([]string, len(axes))
	for i, n := range axes {
		parts[i] = fmt.Sprintf("%d", n)
	}
	return strings.Join(parts, " x ")
}

// emitReport writes the rendered report to its destination: a file, the
// clipboard, a PDF, or stdout. Only stdout keeps color escapes.
func emitReport(report string, dest outputDest) error {
	switch {
	case dest.PDFPath != "":
		if err := writeReportPDF(report, dest.PDFPath); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "Report saved to %s\n", dest.PDFPath)
	case dest.FilePath != "":
		if err := os.WriteFile(dest.FilePath, []byte(report), 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", dest.FilePath, err)
		}
		fmt.Fprintf(os.Stderr, "Report saved to %s\n", dest.FilePath)
	case dest.Clipboard:
		if err := clipboard.WriteAll(report); err != nil {
			return fmt.Errorf("writing to clipboard: %w", err)
		}
		fmt.Fprintln(os.Stderr, "Report copied to clipboard.")
	default:
		fmt.Print(report)
	}
	return nil
}

type outputDest struct {
	FilePath  string
	Clipboard bool
	PDFPath   string
}

// redirected reports whether output goes anywhere other than stdout, in
// which case color escapes are disabled up front.
func (d outputDest) redirected() bool {
	return d.FilePath != "" || d.Clipboard || d.PDFPath != ""
}
