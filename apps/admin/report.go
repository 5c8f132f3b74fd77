package main

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"

	"github.com/trezcool/alama/core/report"
	"github.com/trezcool/alama/core/roster"
	"github.com/trezcool/alama/storage/spreadsheet"
)

// generateReport runs the full pipeline offline: read each class workbook,
// normalize, merge, aggregate and write the report workbook to out.
func (cli *commandLine) generateReport(out string, files []string) error {
	datasets := make([]roster.ClassDataset, 0, len(files))
	for _, path := range files {
		ds, err := readWorkbook(path)
		if err != nil {
			return err
		}
		datasets = append(datasets, ds)
	}

	merged, err := roster.Merge(datasets...)
	if err != nil {
		return err
	}

	opts := report.DefaultOptions()
	rep := report.Aggregate(merged, opts)
	doc, err := report.BuildDocument(rep, opts)
	if err != nil {
		return err
	}
	buf, err := cli.codec.WriteDocument(doc)
	if err != nil {
		return errors.Wrap(err, "encoding report workbook")
	}

	if err := os.WriteFile(out, buf.Bytes(), 0o644); err != nil {
		return errors.Wrapf(err, "writing %q", out)
	}
	logger.Printf("report written to %s (%d students, %d classes)", out, len(rep.Students), len(rep.Classes))
	return nil
}

func readWorkbook(path string) (roster.ClassDataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return roster.ClassDataset{}, errors.Wrapf(err, "opening %q", path)
	}
	defer f.Close()

	table, err := spreadsheet.ReadTable(f)
	if err != nil {
		return roster.ClassDataset{}, errors.Wrapf(err, "reading %q", path)
	}

	base := filepath.Base(path)
	class := roster.ClassLabel(table, strings.TrimSuffix(base, filepath.Ext(base)))
	return roster.Normalize(table, class)
}
