// Package roster turns uploaded participant spreadsheets into validated records.
package roster

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/KpG782/qr-registration/internal/domain"
	"github.com/xuri/excelize/v2"
)

var ErrUnsupportedFormat = errors.New("unsupported file format: upload a .csv or .xlsx file")

var (
	emailHeaders    = []string{"email", "Email"}
	fullNameHeaders = []string{"full_name", "fullName", "Full Name", "name", "Name"}
	schoolHeaders   = []string{"school_institution", "schoolInstitution", "school", "School"}
)

// Record is one valid roster row, trimmed and ready for bulk creation.
type Record struct {
	Email             string
	FullName          string
	SchoolInstitution string
}

// Result holds the valid records and the per-row errors in row order.
type Result struct {
	Records []Record
	Errors  []string
}

// Empty reports whether no row survived validation.
func (r Result) Empty() bool {
	return len(r.Records) == 0
}

// Parse decodes a roster file, choosing the decoder by file extension.
// Only undecodable input is returned as an error; invalid rows end up in Result.Errors.
func Parse(fileName string, data []byte) (Result, error) {
	var (
		rows [][]string
		err  error
	)
	switch strings.ToLower(filepath.Ext(fileName)) {
	case ".csv", ".txt":
		rows, err = readCSV(data)
	case ".xlsx":
		rows, err = readXLSX(data)
	default:
		return Result{}, ErrUnsupportedFormat
	}
	if err != nil {
		return Result{}, err
	}
	return parseRows(rows), nil
}

// ParseRows validates already-decoded rows; the first row is the header.
func ParseRows(rows [][]string) Result {
	return parseRows(rows)
}

func readCSV(data []byte) ([][]string, error) {
	r := csv.NewReader(bytes.NewReader(data))
	r.FieldsPerRecord = -1

	var rows [][]string
	for {
		rec, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		rows = append(rows, rec)
	}
	return rows, nil
}

func readXLSX(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, nil
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	return rows, nil
}

func parseRows(rows [][]string) Result {
	var res Result
	if len(rows) == 0 {
		return res
	}

	header := make(map[string]int, len(rows[0]))
	for i, name := range rows[0] {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		name = strings.TrimSpace(name)
		if _, seen := header[name]; !seen {
			header[name] = i
		}
	}

	n := 0
	for _, row := range rows[1:] {
		if blank(row) {
			continue
		}
		n++

		email := firstValue(header, row, emailHeaders)
		fullName := firstValue(header, row, fullNameHeaders)
		school := firstValue(header, row, schoolHeaders)

		if strings.TrimSpace(email) == "" {
			res.Errors = append(res.Errors, fmt.Sprintf("Row %d: Missing email", n))
			continue
		}
		if strings.TrimSpace(fullName) == "" {
			res.Errors = append(res.Errors, fmt.Sprintf("Row %d: Missing full name", n))
			continue
		}
		if !domain.ValidEmail(email) {
			res.Errors = append(res.Errors, fmt.Sprintf("Row %d: Invalid email format (%s)", n, email))
			continue
		}

		res.Records = append(res.Records, Record{
			Email:             strings.TrimSpace(email),
			FullName:          strings.TrimSpace(fullName),
			SchoolInstitution: strings.TrimSpace(school),
		})
	}
	return res
}

func firstValue(header map[string]int, row []string, aliases []string) string {
	for _, alias := range aliases {
		idx, ok := header[alias]
		if !ok || idx >= len(row) {
			continue
		}
		if row[idx] != "" {
			return row[idx]
		}
	}
	return ""
}

func blank(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
