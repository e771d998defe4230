package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/fatih/color"
	logging "github.com/ipfs/go-log/v2"
	"github.com/urfave/cli/v2"

	"github.com/ryabkov82/csv-combiner/internal/config"
	"github.com/ryabkov82/csv-combiner/internal/merger"
)

var log = logging.Logger("csv-combiner")

type Output struct {
	Success     bool     `json:"success"`
	OutputFiles []string `json:"output_files,omitempty"`
	Sections    int      `json:"sections"`
	RowCount    int      `json:"row_count"`
	Warnings    []string `json:"warnings,omitempty"`
	Error       string   `json:"error,omitempty"`
	Duration    string   `json:"duration"`
}

func main() {
	logging.SetLogLevel("*", "INFO") //nolint:errcheck

	app := &cli.App{
		Name:      "csv-combiner",
		Usage:     "Rebuild combined.csv from split localization files using the game's combined.csv as reference",
		ArgsUsage: "<text_dir>",
		Flags: append(config.Flags(), &cli.StringFlag{
			Name:  "log-level",
			Value: "info",
		}),
		Before: func(cctx *cli.Context) error {
			if err := logging.SetLogLevel("csv-combiner", cctx.String("log-level")); err != nil {
				return err
			}
			return logging.SetLogLevel("merger", cctx.String("log-level"))
		},
		Action: run,
	}

	if err := app.Run(os.Args); err != nil {
		log.Errorf("%+v", err)
		os.Exit(1)
	}
}

func run(cctx *cli.Context) error {
	start := time.Now()

	cfg, err := config.FromCLI(cctx)
	if err != nil {
		if cctx.Bool("json") {
			emitJSON(cctx.App.Writer, Output{
				Error:    fmt.Sprintf("configuration: %v", err),
				Duration: time.Since(start).String(),
			})
		}
		return err
	}

	res, err := merger.NewCombinedMerger().MergeFiles(cfg)
	if err != nil {
		if cfg.JSON {
			emitJSON(cctx.App.Writer, Output{
				Error:    fmt.Sprintf("merge: %v", err),
				Duration: time.Since(start).String(),
			})
		}
		return err
	}

	if cfg.JSON {
		emitJSON(cctx.App.Writer, Output{
			Success:     true,
			OutputFiles: res.OutputFiles,
			Sections:    len(res.Sections),
			RowCount:    len(res.Rows),
			Warnings:    res.Warnings,
			Duration:    time.Since(start).String(),
		})
		return nil
	}

	printReport(cctx.App.Writer, res)
	return nil
}

func printReport(w io.Writer, res *merger.Result) {
	fmt.Fprintf(w, "sections: %d\n", len(res.Sections))
	fmt.Fprintf(w, "rows written (without header): %d\n", len(res.Rows))
	if len(res.Warnings) > 0 {
		fmt.Fprintln(w, color.YellowString("warnings:"))
		for _, msg := range res.Warnings {
			fmt.Fprintf(w, "  - %s\n", msg)
		}
	}
	for i, path := range res.OutputFiles {
		if i == 0 {
			fmt.Fprintf(w, "combined written: %s\n", path)
			continue
		}
		fmt.Fprintf(w, "workbook written: %s\n", path)
	}
}

func emitJSON(w io.Writer, out Output) {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(out); err != nil {
		log.Errorf("encoding JSON report: %v", err)
	}
}
