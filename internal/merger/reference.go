package merger

import (
	"errors"
	"io"
	"os"
	"strings"

	"golang.org/x/xerrors"
)

const (
	sectionMarkerPrefix = "//"
	sectionMarkerSuffix = ".csv"
)

var (
	ErrEmptyReference = errors.New("reference combined file is empty")
	ErrNoSections     = errors.New("no section markers found in reference combined file")
)

// ParseReference reads a known-good combined file and returns its header
// (the output column order) and the section file names in the order their
// marker rows appear. Duplicate markers are kept.
func ParseReference(path string) ([]string, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, xerrors.Errorf("opening reference combined: %w", err)
	}
	defer f.Close() //nolint:errcheck

	rr, err := newRecordReader(f)
	if err != nil {
		return nil, nil, xerrors.Errorf("reading reference combined: %w", err)
	}

	raw, err := rr.Read()
	if err == io.EOF {
		return nil, nil, xerrors.Errorf("%s: %w", path, ErrEmptyReference)
	}

	header := make([]string, len(raw))
	for i, name := range raw {
		header[i] = normalizeHeader(name)
	}

	var order []string
	for {
		rec, err := rr.Read()
		if err == io.EOF {
			break
		}
		if len(rec) == 0 {
			continue
		}
		if name, ok := sectionName(rec[0]); ok {
			order = append(order, name)
		}
	}

	if len(order) == 0 {
		return nil, nil, xerrors.Errorf("%s: %w", path, ErrNoSections)
	}

	return header, order, nil
}

// sectionName reports whether cell is a "// name.csv" marker and returns name.
func sectionName(cell string) (string, bool) {
	first := strings.TrimSpace(cell)
	if !strings.HasPrefix(first, sectionMarkerPrefix) || !strings.HasSuffix(first, sectionMarkerSuffix) {
		return "", false
	}
	return strings.TrimSpace(strings.TrimPrefix(first, sectionMarkerPrefix)), true
}

func markerCell(name string) string {
	return sectionMarkerPrefix + " " + name
}
