package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"github.com/urfave/cli/v2"
	"golang.org/x/xerrors"
)

// DefaultReferencePath is where the game installation keeps its own combined file.
const DefaultReferencePath = `D:\steam\steamapps\common\Mewgenics\Output\data\text\combined.csv`

const (
	defaultOutputName = "combined.csv"

	LineEndingCRLF = "crlf"
	LineEndingLF   = "lf"
)

type Config struct {
	TextDir       string // папка с разделёнными csv
	ReferencePath string // эталонный combined.csv: порядок колонок и секций
	OutputPath    string
	XLSXPath      string // необязательная книга для вычитки
	LineEnding    string
	JSON          bool
}

// Flags returns the command line flags understood by FromCLI.
func Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "reference-combined",
			Usage:   "reference combined.csv used for column and section order",
			EnvVars: []string{"CSV_COMBINER_REFERENCE"},
			Value:   DefaultReferencePath,
		},
		&cli.StringFlag{
			Name:    "output",
			Usage:   "output path, defaults to <text_dir>/combined.csv",
			EnvVars: []string{"CSV_COMBINER_OUTPUT"},
		},
		&cli.StringFlag{
			Name:    "xlsx",
			Usage:   "also export the combined table as an xlsx workbook for review",
			EnvVars: []string{"CSV_COMBINER_XLSX"},
		},
		&cli.StringFlag{
			Name:  "line-ending",
			Usage: "line terminator of the written csv: crlf or lf",
			Value: LineEndingCRLF,
		},
		&cli.BoolFlag{
			Name:  "json",
			Usage: "print the run report as JSON",
		},
	}
}

func FromCLI(cctx *cli.Context) (*Config, error) {
	if cctx.NArg() != 1 {
		return nil, xerrors.New("expected exactly one argument: the text directory")
	}

	cfg := &Config{
		TextDir:       cctx.Args().First(),
		ReferencePath: cctx.String("reference-combined"),
		OutputPath:    cctx.String("output"),
		XLSXPath:      cctx.String("xlsx"),
		LineEnding:    cctx.String("line-ending"),
		JSON:          cctx.Bool("json"),
	}

	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Normalize expands and absolutizes paths, fills defaults and checks that
// the inputs exist.
func (c *Config) Normalize() error {
	var err error

	if strings.TrimSpace(c.TextDir) == "" {
		return xerrors.New("text directory is required")
	}
	if c.TextDir, err = absPath(c.TextDir); err != nil {
		return err
	}
	if st, err := os.Stat(c.TextDir); err != nil || !st.IsDir() {
		return xerrors.Errorf("input directory does not exist: %s", c.TextDir)
	}

	if strings.TrimSpace(c.ReferencePath) == "" {
		c.ReferencePath = DefaultReferencePath
	}
	if c.ReferencePath, err = absPath(c.ReferencePath); err != nil {
		return err
	}
	if st, err := os.Stat(c.ReferencePath); err != nil || !st.Mode().IsRegular() {
		return xerrors.Errorf("reference combined file does not exist: %s", c.ReferencePath)
	}

	if strings.TrimSpace(c.OutputPath) == "" {
		c.OutputPath = filepath.Join(c.TextDir, defaultOutputName)
	} else if c.OutputPath, err = absPath(c.OutputPath); err != nil {
		return err
	}

	if strings.TrimSpace(c.XLSXPath) != "" {
		if c.XLSXPath, err = absPath(c.XLSXPath); err != nil {
			return err
		}
	}

	switch strings.ToLower(c.LineEnding) {
	case "", LineEndingCRLF:
		c.LineEnding = LineEndingCRLF
	case LineEndingLF:
		c.LineEnding = LineEndingLF
	default:
		return xerrors.Errorf("unknown line ending %q, want crlf or lf", c.LineEnding)
	}

	return nil
}

func absPath(p string) (string, error) {
	expanded, err := homedir.Expand(strings.TrimSpace(p))
	if err != nil {
		return "", xerrors.Errorf("expanding path %s: %w", p, err)
	}
	abs, err := filepath.Abs(expanded)
	if err != nil {
		return "", xerrors.Errorf("resolving path %s: %w", p, err)
	}
	return filepath.Clean(abs), nil
}
