package services

import (
	"bufio"
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/aarondl/null/v8"
	"github.com/xuri/excelize/v2"
)

var errMissingHeader = errors.New("file has no header row")

// Record is one data row keyed by header column. Cells hold nil, a bool or a string.
type Record map[string]interface{}

type ParsedFile struct {
	Header  []string
	Records []Record
}

// normalizeCell maps "" to nil and true/false (any case) to a bool.
func normalizeCell(raw string) interface{} {
	v := strings.TrimSpace(raw)
	if v == "" {
		return nil
	}
	switch strings.ToLower(v) {
	case "true":
		return true
	case "false":
		return false
	}
	return v
}

func isCommentLine(line string) bool {
	return strings.HasPrefix(strings.TrimSpace(line), "#")
}

// StripComments drops a leading BOM, '#' comment lines and blank lines.
func StripComments(r io.Reader) ([]byte, error) {
	br := bufio.NewReader(r)
	if b, err := br.Peek(3); err == nil && bytes.Equal(b, []byte{0xEF, 0xBB, 0xBF}) {
		_, _ = br.Discard(3)
	}

	var out bytes.Buffer
	sc := bufio.NewScanner(br)
	sc.Buffer(make([]byte, 64*1024), 4*1024*1024)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" || isCommentLine(line) {
			continue
		}
		out.WriteString(line)
		out.WriteByte('\n')
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}
	return out.Bytes(), nil
}

func ParseCSV(r io.Reader) (*ParsedFile, error) {
	cleaned, err := StripComments(r)
	if err != nil {
		return nil, err
	}

	cr := csv.NewReader(bytes.NewReader(cleaned))
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errMissingHeader
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	var rows [][]string
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parse csv: %w", err)
		}
		rows = append(rows, row)
	}
	return buildParsedFile(header, rows), nil
}

// ParseXLSX reads the first sheet with the same rules as ParseCSV.
func ParseXLSX(r io.Reader) (*ParsedFile, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open xlsx: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, errMissingHeader
	}
	all, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}

	var header []string
	var rows [][]string
	for _, row := range all {
		if isBlankRow(row) || (len(row) > 0 && isCommentLine(row[0])) {
			continue
		}
		if header == nil {
			header = row
			continue
		}
		rows = append(rows, row)
	}
	if header == nil {
		return nil, errMissingHeader
	}
	return buildParsedFile(header, rows), nil
}

func isBlankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}

func buildParsedFile(header []string, rows [][]string) *ParsedFile {
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}
	pf := &ParsedFile{Header: header, Records: make([]Record, 0, len(rows))}
	for _, row := range rows {
		rec := make(Record, len(header))
		for i, col := range header {
			if col == "" {
				continue
			}
			if i < len(row) {
				rec[col] = normalizeCell(row[i])
			} else {
				rec[col] = nil
			}
		}
		pf.Records = append(pf.Records, rec)
	}
	return pf
}

func (r Record) text(field string) (string, bool) {
	switch v := r[field].(type) {
	case nil:
		return "", false
	case bool:
		return strconv.FormatBool(v), true
	case string:
		return v, true
	default:
		return fmt.Sprint(v), true
	}
}

func (r Record) String(field string) null.String {
	s, ok := r.text(field)
	if !ok {
		return null.String{}
	}
	return null.StringFrom(s)
}

func (r Record) Int64(field string) (null.Int64, error) {
	s, ok := r.text(field)
	if !ok {
		return null.Int64{}, nil
	}
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return null.Int64{}, fmt.Errorf("invalid value %q for %s: expected an integer", s, field)
	}
	return null.Int64From(n), nil
}

func (r Record) Bool(field string) (null.Bool, error) {
	switch v := r[field].(type) {
	case nil:
		return null.Bool{}, nil
	case bool:
		return null.BoolFrom(v), nil
	}
	s, _ := r.text(field)
	switch strings.ToLower(s) {
	case "1", "yes", "y":
		return null.BoolFrom(true), nil
	case "0", "no", "n":
		return null.BoolFrom(false), nil
	}
	return null.Bool{}, fmt.Errorf("invalid value %q for %s: expected true or false", s, field)
}

var dateLayouts = []string{"2006-01-02", "01/02/2006", time.RFC3339}

func (r Record) Date(field string) (null.Time, error) {
	s, ok := r.text(field)
	if !ok {
		return null.Time{}, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return null.TimeFrom(t), nil
		}
	}
	return null.Time{}, fmt.Errorf("invalid value %q for %s: expected a date (YYYY-MM-DD)", s, field)
}

var (
	nullStringType = reflect.TypeOf(null.String{})
	nullInt64Type  = reflect.TypeOf(null.Int64{})
	nullBoolType   = reflect.TypeOf(null.Bool{})
	nullTimeType   = reflect.TypeOf(null.Time{})
)

// Decode fills the `csv`-tagged null.* fields of dst, recursing into embedded structs.
func (r Record) Decode(dst interface{}) error {
	v := reflect.ValueOf(dst)
	if v.Kind() != reflect.Ptr || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("decode target must be a pointer to struct, got %T", dst)
	}
	return r.decodeStruct(v.Elem())
}

func (r Record) decodeStruct(v reflect.Value) error {
	t := v.Type()
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		fv := v.Field(i)
		if sf.Anonymous && sf.Type.Kind() == reflect.Struct {
			if err := r.decodeStruct(fv); err != nil {
				return err
			}
			continue
		}
		col := sf.Tag.Get("csv")
		if col == "" || col == "-" {
			continue
		}

		var val interface{}
		var err error
		switch sf.Type {
		case nullStringType:
			val = r.String(col)
		case nullInt64Type:
			val, err = r.Int64(col)
		case nullBoolType:
			val, err = r.Bool(col)
		case nullTimeType:
			val, err = r.Date(col)
		default:
			return fmt.Errorf("unsupported import field type %s for %s", sf.Type, col)
		}
		if err != nil {
			return err
		}
		fv.Set(reflect.ValueOf(val))
	}
	return nil
}

// Columns lists the `csv` tags of a row type in declaration order.
func Columns(row interface{}) []string {
	var out []string
	collectColumns(reflect.TypeOf(row), &out)
	return out
}

func collectColumns(t reflect.Type, out *[]string) {
	if t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if sf.Anonymous && sf.Type.Kind() == reflect.Struct {
			collectColumns(sf.Type, out)
			continue
		}
		if col := sf.Tag.Get("csv"); col != "" && col != "-" {
			*out = append(*out, col)
		}
	}
}
