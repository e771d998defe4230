package merger

import (
	"github.com/ryabkov82/csv-combiner/internal/config"
)

type FileMerger interface {
	MergeFiles(cfg *config.Config) (*Result, error)
}

// Result описывает итог одного прогона.
type Result struct {
	Columns     []string
	Sections    []string
	Rows        [][]string
	Warnings    []string
	OutputFiles []string
}

type BaseMerger struct {
	Headers  []string
	Sections []string
}

// Init инициализирует базовые поля
func (bm *BaseMerger) Init() {
	bm.Headers = make([]string, 0)
	bm.Sections = make([]string, 0)
}

// blankRow returns a row of empty cells aligned to the headers.
func (bm *BaseMerger) blankRow() []string {
	return make([]string, len(bm.Headers))
}
