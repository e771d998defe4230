package merger

import (
	"bufio"
	"io"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
	"golang.org/x/xerrors"
)

// WriteCombined writes header and rows as UTF-8 csv with a BOM, creating
// parent directories as needed. An existing file is overwritten.
func WriteCombined(path string, columns []string, rows [][]string, crlf bool) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return xerrors.Errorf("creating output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return xerrors.Errorf("creating %s: %w", path, err)
	}
	defer f.Close() //nolint:errcheck

	eol := "\n"
	if crlf {
		eol = "\r\n"
	}

	enc := transform.NewWriter(f, unicode.UTF8BOM.NewEncoder())
	w := bufio.NewWriter(enc)

	if err := writeRecord(w, columns, eol); err != nil {
		return xerrors.Errorf("writing header: %w", err)
	}
	for i, row := range rows {
		if err := writeRecord(w, row, eol); err != nil {
			return xerrors.Errorf("writing row %d: %w", i+1, err)
		}
	}
	if err := w.Flush(); err != nil {
		return xerrors.Errorf("flushing %s: %w", path, err)
	}
	if err := enc.Close(); err != nil {
		return xerrors.Errorf("flushing %s: %w", path, err)
	}

	return f.Close()
}

// writeRecord quotes a field only when it holds a comma, a quote or a line
// break; field bytes are otherwise written unchanged, embedded line breaks
// included. A record made of a single empty field is written as "" so that
// it is not read back as a blank line.
func writeRecord(w io.StringWriter, rec []string, eol string) error {
	var sb strings.Builder
	for i, field := range rec {
		if i > 0 {
			sb.WriteByte(',')
		}
		switch {
		case len(rec) == 1 && field == "":
			sb.WriteString(`""`)
		case strings.ContainsAny(field, ",\"\r\n"):
			sb.WriteByte('"')
			sb.WriteString(strings.ReplaceAll(field, `"`, `""`))
			sb.WriteByte('"')
		default:
			sb.WriteString(field)
		}
	}
	sb.WriteString(eol)

	_, err := w.WriteString(sb.String())
	return err
}
