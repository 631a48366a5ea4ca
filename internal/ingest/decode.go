package ingest

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/korean"
)

// Encoding reports which text decoding produced a sheet.
type Encoding string

const (
	EncodingUTF8  Encoding = "utf-8"
	EncodingCP949 Encoding = "cp949"
	// EncodingLossy means neither decoding was clean and invalid bytes were replaced.
	EncodingLossy Encoding = "utf-8-lossy"
	EncodingXLSX  Encoding = "xlsx"
)

var (
	utf8BOM  = []byte{0xEF, 0xBB, 0xBF}
	zipMagic = []byte("PK\x03\x04")
)

// Sheet is a decoded file: a trimmed header plus data rows padded or cut to
// the header width.
type Sheet struct {
	Header   []string
	Rows     [][]string
	Encoding Encoding
}

func (s *Sheet) Len() int { return len(s.Rows) }

// Decode reads an uploaded file. XLSX workbooks are detected by their ZIP
// signature; everything else is treated as CSV.
func Decode(data []byte) (*Sheet, error) {
	if bytes.HasPrefix(data, zipMagic) {
		return DecodeXLSX(data)
	}
	return DecodeCSV(data)
}

// DecodeText turns raw bytes into text: UTF-8 (BOM stripped), then CP949.
// When neither is clean, both are decoded leniently with invalid bytes
// replaced by U+FFFD and the one with fewer replacements wins; ties go to
// UTF-8.
func DecodeText(data []byte) (string, Encoding) {
	if utf8.Valid(data) {
		return string(bytes.TrimPrefix(data, utf8BOM)), EncodingUTF8
	}
	cp949, err := korean.EUCKR.NewDecoder().Bytes(data)
	if err == nil && !bytes.ContainsRune(cp949, utf8.RuneError) {
		return string(cp949), EncodingCP949
	}
	lossy := strings.ToValidUTF8(string(bytes.TrimPrefix(data, utf8BOM)), string(utf8.RuneError))
	if err == nil && replacements(string(cp949)) < replacements(lossy) {
		return string(cp949), EncodingLossy
	}
	return lossy, EncodingLossy
}

func replacements(s string) int { return strings.Count(s, string(utf8.RuneError)) }

func DecodeCSV(data []byte) (*Sheet, error) {
	text, enc := DecodeText(data)

	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	s := fromRecords(records)
	s.Encoding = enc
	return s, nil
}

func DecodeXLSX(data []byte) (*Sheet, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errors.New("xlsx has no sheets")
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read xlsx sheet %q: %w", sheets[0], err)
	}
	s := fromRecords(records)
	s.Encoding = EncodingXLSX
	return s, nil
}

func fromRecords(records [][]string) *Sheet {
	s := &Sheet{Header: []string{}, Rows: [][]string{}}
	if len(records) == 0 {
		return s
	}
	s.Header = make([]string, len(records[0]))
	for i, h := range records[0] {
		s.Header[i] = strings.TrimSpace(h)
	}
	width := len(s.Header)
	for _, rec := range records[1:] {
		if isBlank(rec) {
			continue
		}
		row := make([]string, width)
		copy(row, rec)
		s.Rows = append(s.Rows, row)
	}
	return s
}

// isBlank matches rows with no cells at all, which excelize yields for empty
// spreadsheet rows.
func isBlank(rec []string) bool { return len(rec) == 0 }
