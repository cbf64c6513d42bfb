package main

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// fileNameKey is a pseudo field that yields the file's path instead of a
// header lookup.
const fileNameKey = "file name or path"

// alternateKeys maps archive-style field names to the standard FITS
// keywords that carry them.
var alternateKeys = map[string]string{
	"spatial_axis_1_number_bins": "NAXIS1",
	"spatial_axis_2_number_bins": "NAXIS2",
	"start_time":                 "DATE-OBS",
	"facility_name":              "INSTRUME",
	"instrument_name":            "TELESCOP",
	"obs_creator_name":           "OBSERVER",
	"obs_title":                  "OBJECT",
}

// defaultMetadataKeys is the built-in FieldSpec, used when no keyfile is
// supplied. A copy ships as metadata-keys.txt.
var defaultMetadataKeys = []string{
	fileNameKey,
	"OBJECT",
	"DATE-OBS",
	"TELESCOP",
	"INSTRUME",
	"OBSERVER",
	"EXPTIME",
	"NAXIS1",
	"NAXIS2",
	"CRVAL1",
	"CRVAL2",
	"right_ascension",
	"declination",
	"EQUINOX",
	"FILTER",
}

// FieldSpec is the ordered, deduplicated list of header field names to
// extract. Loaded once at startup and read-only afterwards.
type FieldSpec []string

// newFieldSpec drops duplicate names, keeping first-occurrence order.
func newFieldSpec(names []string) FieldSpec {
	seen := make(map[string]bool, len(names))
	spec := make(FieldSpec, 0, len(names))
	for _, name := range names {
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		spec = append(spec, name)
	}
	return spec
}

// loadFieldSpec returns the FieldSpec for the run: the keyfile contents
// when a path is given, the built-in defaults otherwise. A keyfile fully
// replaces the defaults.
func loadFieldSpec(keyfilePath string) (FieldSpec, error) {
	if keyfilePath == "" {
		return newFieldSpec(defaultMetadataKeys), nil
	}

	f, err := os.Open(keyfilePath)
	if err != nil {
		return nil, fmt.Errorf("keyfile %s: %w", keyfilePath, err)
	}
	defer f.Close()

	var names []string
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		names = append(names, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("keyfile %s: %w", keyfilePath, err)
	}
	return newFieldSpec(names), nil
}

// extractMetadata builds the MetadataRecord for one valid file. Every
// FieldSpec name gets exactly one entry, in order; absent fields are null.
// Values pass through with no type enforcement.
func extractMetadata(path string, hdr *headerIndex, spec FieldSpec) MetadataRecord {
	rec := MetadataRecord{
		Fields: spec,
		Values: make(map[string]interface{}, len(spec)),
	}
	for _, name := range spec {
		rec.Values[name] = resolveField(path, hdr, name)
	}
	return rec
}

// resolveField looks up one field name, applying pseudo-key and
// alternate-key handling before falling back to a direct header lookup.
func resolveField(path string, hdr *headerIndex, name string) interface{} {
	switch {
	case name == fileNameKey:
		return path
	case name == "right_ascension":
		return resolveWorldCoord(hdr, "RA")
	case name == "declination":
		return resolveWorldCoord(hdr, "DEC")
	}
	if standard, ok := alternateKeys[name]; ok {
		name = standard
	}
	if v, ok := hdr.lookup(name); ok {
		return v
	}
	return nil
}

// resolveWorldCoord finds the CRVALn whose CTYPEn names the wanted axis.
// See https://fits.gsfc.nasa.gov/fits_standard.html for how CRVAL relates
// to CTYPE.
func resolveWorldCoord(hdr *headerIndex, axis string) interface{} {
	for _, n := range []string{"1", "2"} {
		ctype, ok := hdr.lookup("CTYPE" + n)
		if !ok {
			continue
		}
		name, ok := ctype.(string)
		if !ok {
			continue
		}
		if strings.Contains(strings.ToUpper(name), axis) {
			if v, ok := hdr.lookup("CRVAL" + n); ok {
				return v
			}
		}
	}
	return nil
}
