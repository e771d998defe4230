package merger

import (
	"github.com/ryabkov82/csv-combiner/internal/config"
)

// CombinedMerger rebuilds combined.csv from its split per-section files.
type CombinedMerger struct {
	BaseMerger
}

func NewCombinedMerger() FileMerger {
	cm := &CombinedMerger{}
	cm.BaseMerger.Init()
	return cm
}

// MergeFiles runs reference parsing, assembly and writing. Warnings are
// returned in the result; any error means the run failed.
func (cm *CombinedMerger) MergeFiles(cfg *config.Config) (*Result, error) {
	headers, sections, err := ParseReference(cfg.ReferencePath)
	if err != nil {
		return nil, err
	}
	cm.Headers = headers
	cm.Sections = sections

	rows, warnings, err := cm.buildRows(cfg.TextDir)
	if err != nil {
		return nil, err
	}

	res := &Result{
		Columns:  cm.Headers,
		Sections: cm.Sections,
		Rows:     rows,
		Warnings: warnings,
	}

	if err := WriteCombined(cfg.OutputPath, cm.Headers, rows, cfg.LineEnding != config.LineEndingLF); err != nil {
		return nil, err
	}
	res.OutputFiles = append(res.OutputFiles, cfg.OutputPath)
	log.Debugw("combined written", "path", cfg.OutputPath, "rows", len(rows))

	if cfg.XLSXPath != "" {
		if err := NewXLSXExporter(cm.Headers).Export(cfg.XLSXPath, rows); err != nil {
			return nil, err
		}
		res.OutputFiles = append(res.OutputFiles, cfg.XLSXPath)
		log.Debugw("review workbook written", "path", cfg.XLSXPath)
	}

	return res, nil
}
