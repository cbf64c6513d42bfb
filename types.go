package main

import (
	"bytes"
	"encoding/json"
)

// FileRecord holds the validation outcome for a single discovered file.
type FileRecord struct {
	Path         string
	Compressed   bool
	Valid        bool
	ErrorMessage string // cause of the failure when Valid is false
}

// MetadataRecord is an ordered field-name -> value mapping extracted from
// one valid file. Field order follows the FieldSpec that produced it.
type MetadataRecord struct {
	Fields []string
	Values map[string]interface{}
}

// MarshalJSON preserves FieldSpec order, which a plain map would lose.
func (m MetadataRecord) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range m.Fields {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(m.Values[name])
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// RunSummary holds aggregated counts for the whole run.
type RunSummary struct {
	Scanned int
	Valid   int
	Invalid int
}

func summarize(records []FileRecord) RunSummary {
	var s RunSummary
	for _, rec := range records {
		s.Scanned++
		if rec.Valid {
			s.Valid++
		} else {
			s.Invalid++
		}
	}
	return s
}
