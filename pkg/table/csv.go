package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/matzehuels/techflow/pkg/errors"
)

// ReadCSV decodes a CSV document with a header row.
//
// Rows may have fewer or more fields than the header. A UTF-8 byte order
// mark on the first header cell is removed, and header names are trimmed.
func ReadCSV(r io.Reader) (*Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	records, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidInput, err, "decode CSV")
	}
	if len(records) == 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "CSV has no header row")
	}

	header := records[0]
	for i, h := range header {
		if i == 0 {
			h = strings.TrimPrefix(h, "\ufeff")
		}
		header[i] = strings.TrimSpace(h)
	}
	return New(header, records[1:]), nil
}

// ReadCSVFile reads a CSV file at path with [ReadCSV].
func ReadCSVFile(path string) (*Table, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadCSV(f)
}

// WriteCSV encodes the table, header first.
func (t *Table) WriteCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.header); err != nil {
		return err
	}
	if err := cw.WriteAll(t.rows); err != nil {
		return fmt.Errorf("encode CSV: %w", err)
	}
	return nil
}
