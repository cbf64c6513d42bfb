package main

import (
	"bytes"
	"compress/gzip"
	"fmt"
	"os"
	"path/filepath"
	"testing"
)

const fitsBlockSize = 2880

// fitsCard pads a header card to the fixed 80-byte FITS card width.
func fitsCard(s string) string {
	return fmt.Sprintf("%-80s", s)
}

func strCard(key, val string) string {
	return fmt.Sprintf("%-8s= '%-8s'", key, val)
}

func intCard(key string, val int) string {
	return fmt.Sprintf("%-8s= %20d", key, val)
}

func floatCard(key string, val float64) string {
	return fmt.Sprintf("%-8s= %20.6f", key, val)
}

// buildFITS assembles a minimal single-HDU FITS file: mandatory primary
// header cards, the given extra cards, END, padded to a full 2880-byte
// block. NAXIS=0 means no data unit follows.
func buildFITS(cards ...string) []byte {
	var b bytes.Buffer
	b.WriteString(fitsCard("SIMPLE  =                    T / conforms to FITS standard"))
	b.WriteString(fitsCard("BITPIX  =                    8"))
	b.WriteString(fitsCard("NAXIS   =                    0"))
	for _, c := range cards {
		b.WriteString(fitsCard(c))
	}
	b.WriteString(fitsCard("END"))
	for b.Len()%fitsBlockSize != 0 {
		b.WriteByte(' ')
	}
	return b.Bytes()
}

func writeTestFITS(t *testing.T, dir, name string, cards ...string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buildFITS(cards...), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func writeTestFITSGz(t *testing.T, dir, name string, cards ...string) string {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	if _, err := zw.Write(buildFITS(cards...)); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// writeCorruptFITS writes a file that is not a FITS file at all.
func writeCorruptFITS(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte("this is not a FITS file"), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// writeTruncatedFITS writes the first 100 bytes of an otherwise valid
// header, cutting it off mid-block.
func writeTruncatedFITS(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buildFITS()[:100], 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}
