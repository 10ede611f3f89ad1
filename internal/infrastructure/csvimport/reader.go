// Package csvimport reads and validates CSV files for bulk loading ledger
// data: inventory items with their opening stock and stock movements.
package csvimport

import (
	"bufio"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"
)

var (
	// ErrEmptyFile is returned when the input has no bytes at all
	ErrEmptyFile = errors.New("CSV file is empty")
	// ErrInvalidEncoding is returned when the input is not UTF-8
	ErrInvalidEncoding = errors.New("CSV file is not valid UTF-8")
	// ErrMissingHeader is returned when the first record is missing or blank
	ErrMissingHeader = errors.New("CSV file missing header row")
)

const encodingProbeSize = 4096

// Reader yields header-keyed rows. Line numbers count the header as line 1.
type Reader struct {
	csv     *csv.Reader
	headers []string
	index   map[string]int
	line    int
}

// Row is one data record keyed by header name
type Row struct {
	Line   int
	Values map[string]string
}

// Get returns the trimmed value of column, empty when absent
func (r Row) Get(column string) string {
	return r.Values[column]
}

func (r Row) blank() bool {
	for _, v := range r.Values {
		if v != "" {
			return false
		}
	}
	return true
}

// NewReader strips a UTF-8 byte order mark, checks the encoding and reads the header
func NewReader(r io.Reader) (*Reader, error) {
	br := bufio.NewReader(r)
	if bom, err := br.Peek(3); err == nil && bom[0] == 0xEF && bom[1] == 0xBB && bom[2] == 0xBF {
		_, _ = br.Discard(3)
	}

	probe, err := br.Peek(encodingProbeSize)
	if err != nil && !errors.Is(err, io.EOF) && !errors.Is(err, bufio.ErrBufferFull) {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	if len(probe) == 0 {
		return nil, ErrEmptyFile
	}
	if !utf8.Valid(trimPartialRune(probe)) {
		return nil, ErrInvalidEncoding
	}

	cr := csv.NewReader(br)
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrMissingHeader
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	rd := &Reader{csv: cr, index: make(map[string]int, len(header)), line: 1}
	for i, h := range header {
		h = strings.ToLower(strings.TrimSpace(h))
		rd.headers = append(rd.headers, h)
		if h != "" {
			rd.index[h] = i
		}
	}
	if len(rd.index) == 0 {
		return nil, ErrMissingHeader
	}
	return rd, nil
}

// trimPartialRune drops a multi-byte sequence cut off by the probe boundary
func trimPartialRune(b []byte) []byte {
	for i := 0; i < utf8.UTFMax && len(b) > 0; i++ {
		if r, size := utf8.DecodeLastRune(b); r != utf8.RuneError || size > 1 {
			return b
		}
		b = b[:len(b)-1]
	}
	return b
}

// Headers returns the normalized (lower-case, trimmed) header names
func (r *Reader) Headers() []string {
	return r.headers
}

// Missing returns the required columns absent from the header
func (r *Reader) Missing(required ...string) []string {
	var missing []string
	for _, col := range required {
		if _, ok := r.index[col]; !ok {
			missing = append(missing, col)
		}
	}
	return missing
}

// Next returns the next non-blank row, or io.EOF
func (r *Reader) Next() (Row, error) {
	for {
		record, err := r.csv.Read()
		if errors.Is(err, io.EOF) {
			return Row{}, io.EOF
		}
		r.line++
		if err != nil {
			return Row{}, fmt.Errorf("line %d: %w", r.line, err)
		}

		row := Row{Line: r.line, Values: make(map[string]string, len(r.index))}
		for col, i := range r.index {
			if i < len(record) {
				row.Values[col] = strings.TrimSpace(record[i])
			} else {
				row.Values[col] = ""
			}
		}
		if !row.blank() {
			return row, nil
		}
	}
}

// All reads every remaining non-blank row
func (r *Reader) All() ([]Row, error) {
	var rows []Row
	for {
		row, err := r.Next()
		if errors.Is(err, io.EOF) {
			return rows, nil
		}
		if err != nil {
			return rows, err
		}
		rows = append(rows, row)
	}
}
