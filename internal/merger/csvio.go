package merger

import (
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"golang.org/x/xerrors"
)

const bom = "\ufeff"

// SourceRow maps a (BOM-stripped) column name to its value.
type SourceRow map[string]string

func normalizeHeader(field string) string {
	return strings.TrimLeft(field, bom)
}

// recordReader splits csv text into records with minimal-quoting rules:
// a field is quoted only when it starts with '"', a doubled quote inside a
// quoted field is a literal quote, and line breaks inside quoted fields are
// kept byte for byte. A blank line yields an empty record.
type recordReader struct {
	data []byte
	pos  int
}

// newRecordReader decodes UTF-8 and drops a leading BOM if there is one.
func newRecordReader(r io.Reader) (*recordReader, error) {
	dec := unicode.BOMOverride(unicode.UTF8.NewDecoder())
	data, err := io.ReadAll(transform.NewReader(r, dec))
	if err != nil {
		return nil, err
	}
	return &recordReader{data: data}, nil
}

// Read returns the next record or io.EOF. Malformed quoting is accepted the
// lenient way: text after a closing quote is appended to the field and an
// unterminated quoted field runs to the end of input.
func (r *recordReader) Read() ([]string, error) {
	if r.pos >= len(r.data) {
		return nil, io.EOF
	}

	var (
		fields  []string
		field   []byte
		quoted  bool
		atStart = true
		blank   = true
	)

	for r.pos < len(r.data) {
		c := r.data[r.pos]
		r.pos++

		if quoted {
			if c != '"' {
				field = append(field, c)
				continue
			}
			if r.pos < len(r.data) && r.data[r.pos] == '"' {
				field = append(field, '"')
				r.pos++
				continue
			}
			quoted = false
			continue
		}

		switch c {
		case '"':
			blank = false
			if atStart {
				quoted = true
				atStart = false
				continue
			}
			field = append(field, c)
		case ',':
			blank = false
			fields = append(fields, string(field))
			field = field[:0]
			atStart = true
		case '\r', '\n':
			if c == '\r' && r.pos < len(r.data) && r.data[r.pos] == '\n' {
				r.pos++
			}
			if blank {
				return []string{}, nil
			}
			return append(fields, string(field)), nil
		default:
			blank = false
			atStart = false
			field = append(field, c)
		}
	}

	return append(fields, string(field)), nil
}

// readCSVRows reads a header-driven csv file. A file without a header yields
// no columns and no rows; blank lines are skipped.
func readCSVRows(path string) ([]string, []SourceRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, xerrors.Errorf("opening %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	rr, err := newRecordReader(f)
	if err != nil {
		return nil, nil, xerrors.Errorf("reading %s: %w", filepath.Base(path), err)
	}

	raw, err := rr.Read()
	if err == io.EOF || len(raw) == 0 {
		return nil, nil, nil
	}

	header := make([]string, len(raw))
	for i, name := range raw {
		header[i] = normalizeHeader(name)
	}

	var rows []SourceRow
	for {
		rec, err := rr.Read()
		if err == io.EOF {
			break
		}
		if len(rec) == 0 {
			continue
		}

		row := make(SourceRow, len(header))
		for i, name := range header {
			if i < len(rec) {
				row[name] = rec[i]
			} else {
				row[name] = ""
			}
		}
		rows = append(rows, row)
	}

	return header, rows, nil
}

// project lays a source row out in the output column order. Unknown source
// columns are dropped and absent ones become empty strings.
func project(row SourceRow, columns []string) []string {
	out := make([]string, len(columns))
	for i, col := range columns {
		out[i] = row[col]
	}
	return out
}

func isRegularFile(path string) bool {
	st, err := os.Stat(path)
	return err == nil && st.Mode().IsRegular()
}
