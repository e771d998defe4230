package merger

import (
	"path/filepath"
	"strings"

	logging "github.com/ipfs/go-log/v2"
)

var log = logging.Logger("merger")

const (
	additionsFile = "additions.csv"
	keyColumn     = "KEY"
)

// Language rows are taken from additions.csv only and always open the file.
var languageKeys = map[string]struct{}{
	"CURRENT_LANGUAGE_NAME":      {},
	"CURRENT_LANGUAGE_SHIPPABLE": {},
}

func isLanguageRow(row SourceRow) bool {
	_, ok := languageKeys[strings.TrimSpace(row[keyColumn])]
	return ok
}

// BuildRows assembles the body of a combined file: language rows, a blank
// row, then one marker-delimited block per section. Missing section files
// become warnings and keep only their marker row.
func BuildRows(textDir string, columns, sections []string) ([][]string, []string, error) {
	bm := &BaseMerger{Headers: columns, Sections: sections}
	return bm.buildRows(textDir)
}

func (bm *BaseMerger) buildRows(textDir string) ([][]string, []string, error) {
	var (
		rows     [][]string
		warnings []string
	)

	// CURRENT_LANGUAGE_* идут первыми строками combined
	languageRows := 0
	additionsPath := filepath.Join(textDir, additionsFile)
	if isRegularFile(additionsPath) {
		_, src, err := readCSVRows(additionsPath)
		if err != nil {
			return nil, nil, err
		}
		for _, row := range src {
			if isLanguageRow(row) {
				rows = append(rows, project(row, bm.Headers))
				languageRows++
			}
		}
	}
	if languageRows == 0 {
		warnings = append(warnings, "no CURRENT_LANGUAGE_* rows found in additions.csv, combined will start without language rows")
	}

	rows = append(rows, bm.blankRow())

	for i, name := range bm.Sections {
		marker := bm.blankRow()
		if len(marker) > 0 {
			marker[0] = markerCell(name)
		}
		rows = append(rows, marker)

		path := filepath.Join(textDir, name)
		if !isRegularFile(path) {
			warnings = append(warnings, "missing file, section kept empty: "+name)
		} else {
			_, src, err := readCSVRows(path)
			if err != nil {
				return nil, nil, err
			}
			added := 0
			for _, row := range src {
				if name == additionsFile && isLanguageRow(row) {
					continue
				}
				rows = append(rows, project(row, bm.Headers))
				added++
			}
			log.Debugw("section assembled", "file", name, "rows", added)
		}

		// пустая строка между секциями, после последней не ставим
		if i < len(bm.Sections)-1 {
			rows = append(rows, bm.blankRow())
		}
	}

	return rows, warnings, nil
}
