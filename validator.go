package main

import (
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/astrogo/fitsio"
)

// headerIndex is a case-insensitive view of a decoded primary header.
// Key order is preserved for info output.
type headerIndex struct {
	keys   []string
	values map[string]interface{}
}

func newHeaderIndex(hdr *fitsio.Header) *headerIndex {
	idx := &headerIndex{values: make(map[string]interface{})}
	for _, key := range hdr.Keys() {
		card := hdr.Get(key)
		if card == nil {
			continue
		}
		value := card.Value
		// FITS pads string values to eight characters inside the quotes;
		// the padding is not significant.
		if s, ok := value.(string); ok {
			value = strings.TrimRight(s, " ")
		}
		upper := strings.ToUpper(key)
		if _, seen := idx.values[upper]; !seen {
			idx.keys = append(idx.keys, key)
		}
		idx.values[upper] = value
	}
	return idx
}

// lookup returns the header value for name, matching case-insensitively.
func (h *headerIndex) lookup(name string) (interface{}, bool) {
	v, ok := h.values[strings.ToUpper(name)]
	return v, ok
}

// gzipFITSReader closes both the gzip layer and the underlying file.
type gzipFITSReader struct {
	*gzip.Reader
	file *os.File
}

func (r *gzipFITSReader) Close() error {
	zerr := r.Reader.Close()
	ferr := r.file.Close()
	if zerr != nil {
		return zerr
	}
	return ferr
}

// openFITSStream opens path for reading, transparently layering gzip
// decompression for .gz files.
func openFITSStream(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if !isCompressedPath(path) {
		return f, nil
	}
	zr, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("gzip: %w", err)
	}
	return &gzipFITSReader{Reader: zr, file: f}, nil
}

// probeFile opens and decodes path, returning its FileRecord and, when the
// file is structurally valid, the indexed primary header. Decoder failures
// are captured in the record, never returned as errors: validation
// failures are data. The file handle is released before returning.
func probeFile(path string) (FileRecord, *headerIndex) {
	rec := FileRecord{Path: path, Compressed: isCompressedPath(path)}

	r, err := openFITSStream(path)
	if err != nil {
		rec.ErrorMessage = err.Error()
		return rec, nil
	}
	defer r.Close()

	// fitsio decodes the whole HDU chain at open time, so a malformed
	// secondary header surfaces here and marks the file invalid.
	f, err := fitsio.Open(r)
	if err != nil {
		rec.ErrorMessage = err.Error()
		return rec, nil
	}
	defer f.Close()

	hdus := f.HDUs()
	if len(hdus) == 0 {
		rec.ErrorMessage = "no HDUs found"
		return rec, nil
	}

	rec.Valid = true
	return rec, newHeaderIndex(hdus[0].Header())
}

// validateFile classifies a single candidate path as valid or invalid.
func validateFile(path string) FileRecord {
	rec, _ := probeFile(path)
	return rec
}

// hduSummary describes one header-data unit for info output.
type hduSummary struct {
	Index   int
	Name    string
	Version int
	Type    string
	Bitpix  int
	Axes    []int
}

// cardEntry is one primary-header card for info output.
type cardEntry struct {
	Name    string
	Value   interface{}
	Comment string
}

// fileInspection is the full structural view of one file.
type fileInspection struct {
	Record FileRecord
	Size   int64
	HDUs   []hduSummary
	Cards  []cardEntry
}

func hduTypeString(t fitsio.HDUType) string {
	switch t {
	case fitsio.IMAGE_HDU:
		return "IMAGE"
	case fitsio.ASCII_TBL:
		return "ASCII_TBL"
	case fitsio.BINARY_TBL:
		return "BINARY_TBL"
	default:
		return "UNKNOWN"
	}
}

// inspectFile decodes path and collects per-HDU structure plus the primary
// header cards. Like probeFile, decode failures land in the record.
func inspectFile(path string) fileInspection {
	insp := fileInspection{
		Record: FileRecord{Path: path, Compressed: isCompressedPath(path)},
	}
	if info, err := os.Stat(path); err == nil {
		insp.Size = info.Size()
	}

	r, err := openFITSStream(path)
	if err != nil {
		insp.Record.ErrorMessage = err.Error()
		return insp
	}
	defer r.Close()

	f, err := fitsio.Open(r)
	if err != nil {
		insp.Record.ErrorMessage = err.Error()
		return insp
	}
	defer f.Close()

	hdus := f.HDUs()
	if len(hdus) == 0 {
		insp.Record.ErrorMessage = "no HDUs found"
		return insp
	}
	insp.Record.Valid = true

	for i, hdu := range hdus {
		hdr := hdu.Header()
		insp.HDUs = append(insp.HDUs, hduSummary{
			Index:   i,
			Name:    hdu.Name(),
			Version: hdu.Version(),
			Type:    hduTypeString(hdu.Type()),
			Bitpix:  hdr.Bitpix(),
			Axes:    hdr.Axes(),
		})
	}

	primary := hdus[0].Header()
	for _, key := range primary.Keys() {
		card := primary.Get(key)
		if card == nil {
			continue
		}
		insp.Cards = append(insp.Cards, cardEntry{
			Name:    card.Name,
			Value:   card.Value,
			Comment: card.Comment,
		})
	}
	return insp
}
