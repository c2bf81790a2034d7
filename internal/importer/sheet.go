package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/Skufu/heartcheck/internal/assessment"
)

// ErrUnreadable is returned when the bytes are neither a workbook nor CSV.
var ErrUnreadable = errors.New("unreadable spreadsheet")

var (
	zipMagic = []byte("PK\x03\x04")
	utf8BOM  = []byte{0xEF, 0xBB, 0xBF}
)

// ReadSheet parses the first sheet of an xlsx workbook, or a CSV file, into
// rows keyed by the header row. Every row carries one cell per header, empty
// when the source row is short.
func ReadSheet(data []byte) ([]assessment.Row, error) {
	var (
		records [][]string
		err     error
	)
	if bytes.HasPrefix(data, zipMagic) {
		records, err = readWorkbook(data)
	} else {
		records, err = readCSV(data)
	}
	if err != nil {
		return nil, err
	}
	return toRows(records), nil
}

func readWorkbook(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: open workbook: %v", ErrUnreadable, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrUnreadable)
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("%w: read sheet %q: %v", ErrUnreadable, sheet, err)
	}
	return rows, nil
}

func readCSV(data []byte) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(bytes.TrimPrefix(data, utf8BOM)))
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	var out [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: csv: %v", ErrUnreadable, err)
		}
		out = append(out, rec)
	}
	return out, nil
}

func toRows(records [][]string) []assessment.Row {
	if len(records) < 2 {
		return nil
	}
	header := records[0]
	rows := make([]assessment.Row, 0, len(records)-1)
	for _, rec := range records[1:] {
		row := make(assessment.Row, len(header))
		for i, h := range header {
			row[i].Header = h
			if i < len(rec) {
				row[i].Value = rec[i]
			}
		}
		rows = append(rows, row)
	}
	return rows
}
