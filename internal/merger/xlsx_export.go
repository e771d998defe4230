package merger

import (
	"os"
	"path/filepath"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/xerrors"
)

const (
	reviewSheet = "combined"
	minColWidth = 8
	maxColWidth = 80
)

// XLSXExporter streams a combined table into a single-sheet workbook so
// translators can review it in a spreadsheet.
type XLSXExporter struct {
	Headers      []string
	HeaderStyle  int
	MarkerStyle  int
	OutFile      *excelize.File
	StreamWriter *excelize.StreamWriter
	RowCounter   int
}

func NewXLSXExporter(headers []string) *XLSXExporter {
	return &XLSXExporter{Headers: headers}
}

// Export writes header and rows to path, overwriting it.
func (xe *XLSXExporter) Export(path string, rows [][]string) error {
	if err := xe.newOutput(rows); err != nil {
		return err
	}
	defer xe.OutFile.Close() //nolint:errcheck

	headerRow := make([]interface{}, len(xe.Headers))
	for i, h := range xe.Headers {
		headerRow[i] = excelize.Cell{Value: h, StyleID: xe.HeaderStyle}
	}
	if err := xe.setRow(headerRow); err != nil {
		return xerrors.Errorf("writing header: %w", err)
	}

	for _, row := range rows {
		style := 0
		if len(row) > 0 {
			if _, ok := sectionName(row[0]); ok {
				style = xe.MarkerStyle
			}
		}
		rowData := make([]interface{}, len(row))
		for i, v := range row {
			rowData[i] = excelize.Cell{Value: v, StyleID: style}
		}
		if err := xe.setRow(rowData); err != nil {
			return xerrors.Errorf("writing row %d: %w", xe.RowCounter, err)
		}
	}

	if err := xe.StreamWriter.Flush(); err != nil {
		return xerrors.Errorf("flushing stream: %w", err)
	}

	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return xerrors.Errorf("creating workbook directory: %w", err)
		}
	}
	if err := xe.OutFile.SaveAs(path); err != nil {
		return xerrors.Errorf("saving workbook: %w", err)
	}
	return nil
}

func (xe *XLSXExporter) newOutput(rows [][]string) error {
	xe.OutFile = excelize.NewFile()
	defaultSheet := xe.OutFile.GetSheetName(0)

	if _, err := xe.OutFile.NewSheet(reviewSheet); err != nil {
		return xerrors.Errorf("creating sheet: %w", err)
	}
	if defaultSheet != reviewSheet {
		if err := xe.OutFile.DeleteSheet(defaultSheet); err != nil {
			return xerrors.Errorf("removing default sheet: %w", err)
		}
	}
	idx, err := xe.OutFile.GetSheetIndex(reviewSheet)
	if err != nil {
		return xerrors.Errorf("locating sheet: %w", err)
	}
	xe.OutFile.SetActiveSheet(idx)

	if xe.HeaderStyle, err = xe.OutFile.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
	}); err != nil {
		return xerrors.Errorf("header style: %w", err)
	}
	if xe.MarkerStyle, err = xe.OutFile.NewStyle(&excelize.Style{
		Font: &excelize.Font{Italic: true, Color: "808080"},
	}); err != nil {
		return xerrors.Errorf("marker style: %w", err)
	}

	xe.StreamWriter, err = xe.OutFile.NewStreamWriter(reviewSheet)
	if err != nil {
		return xerrors.Errorf("creating stream writer: %w", err)
	}

	// column widths and panes must be set before the first row
	for col, width := range columnWidths(xe.Headers, rows) {
		if err := xe.StreamWriter.SetColWidth(col+1, col+1, width); err != nil {
			return xerrors.Errorf("column width: %w", err)
		}
	}
	if err := xe.StreamWriter.SetPanes(&excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return xerrors.Errorf("freezing header: %w", err)
	}

	xe.RowCounter = 1
	return nil
}

func (xe *XLSXExporter) setRow(values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, xe.RowCounter)
	if err != nil {
		return err
	}
	if err := xe.StreamWriter.SetRow(cell, values); err != nil {
		return err
	}
	xe.RowCounter++
	return nil
}

// columnWidths sizes every column to its longest value. Marker cells are
// skipped so that the first column is not stretched by "// name.csv".
func columnWidths(headers []string, rows [][]string) []float64 {
	widths := make([]float64, len(headers))
	fit := func(i int, v string) {
		n := float64(utf8.RuneCountInString(v) + 2)
		if n > widths[i] {
			widths[i] = n
		}
	}
	for i, h := range headers {
		fit(i, h)
	}
	for _, row := range rows {
		for i, v := range row {
			if i >= len(widths) {
				break
			}
			if i == 0 {
				if _, ok := sectionName(v); ok {
					continue
				}
			}
			fit(i, v)
		}
	}
	for i := range widths {
		switch {
		case widths[i] < minColWidth:
			widths[i] = minColWidth
		case widths[i] > maxColWidth:
			widths[i] = maxColWidth
		}
	}
	return widths
}
