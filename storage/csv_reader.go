package storage

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"rental-explorer/models"
)

// ReadCSV loads a comma-delimited listings file. The first line is the
// header row defining field names; blank lines are skipped. Quoted fields,
// embedded delimiters and embedded newlines follow standard CSV rules.
//
// Ragged rows are tolerated: a short row leaves its missing fields out of
// the record, a long row keeps only the headed columns.
func ReadCSV(path string) (header []string, records []models.Record, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("csv: open %q: %w", path, err)
	}
	defer f.Close()

	header, records, err = decodeCSV(f)
	if err != nil {
		return nil, nil, fmt.Errorf("csv: parse %q: %w", path, err)
	}
	return header, records, nil
}

func decodeCSV(r io.Reader) ([]string, []models.Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read header: %w", err)
	}

	var records []models.Record
	for {
		row, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read row %d: %w", len(records)+2, err)
		}

		rec := make(models.Record, len(header))
		for i, field := range header {
			if i < len(row) {
				rec[field] = row[i]
			}
		}
		records = append(records, rec)
	}
	return header, records, nil
}
