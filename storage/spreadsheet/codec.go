// Package spreadsheet is the workbook codec: it decodes one uploaded
// class workbook into a roster.RawTable and encodes a report.Document
// into a multi-sheet workbook (one sheet per section, plus a bar chart
// of the subject averages).
package spreadsheet

import (
	"bytes"
	"fmt"
	"io"
	"strconv"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/trezcool/alama/core"
	"github.com/trezcool/alama/core/report"
	"github.com/trezcool/alama/core/roster"
)

var errNoRows = errors.New("workbook has no data rows")

// ReadTable decodes the first sheet of a workbook into a raw table
// (header row + data rows, all cells as strings).
func ReadTable(r io.Reader) (roster.RawTable, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return roster.RawTable{}, core.NewValidationError(errors.Wrap(err, "opening workbook"))
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return roster.RawTable{}, core.NewValidationError(errors.New("workbook has no sheets"))
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return roster.RawTable{}, core.NewValidationError(errors.Wrapf(err, "reading sheet %q", sheet))
	}
	if len(rows) < 2 {
		return roster.RawTable{}, core.NewValidationError(errNoRows)
	}
	return roster.RawTable{Header: rows[0], Rows: rows[1:]}, nil
}

// Codec encodes report documents; it implements report.Codec.
type Codec struct{}

var _ report.Codec = (*Codec)(nil)

func NewCodec() *Codec { return &Codec{} }

// WriteDocument renders one sheet per section, in document order, and
// charts the subject averages. Cell values that parse as numbers are
// written as numbers so the chart and downstream tooling see them as
// such; everything else stays text.
func (c *Codec) WriteDocument(doc report.Document) (*bytes.Buffer, error) {
	f := excelize.NewFile()
	defer f.Close()

	headerStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return nil, errors.Wrap(err, "creating header style")
	}

	for i, sec := range doc.Sections {
		if i == 0 {
			// reuse the default sheet for the first section
			if err := f.SetSheetName(f.GetSheetName(0), sec.Name); err != nil {
				return nil, errors.Wrapf(err, "naming sheet %q", sec.Name)
			}
		} else if _, err := f.NewSheet(sec.Name); err != nil {
			return nil, errors.Wrapf(err, "creating sheet %q", sec.Name)
		}
		if err := c.writeSection(f, sec, headerStyle); err != nil {
			return nil, err
		}
	}

	if err := c.chartSubjectAverages(f, doc); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, errors.Wrap(err, "serializing workbook")
	}
	return buf, nil
}

func (c *Codec) writeSection(f *excelize.File, sec report.Section, headerStyle int) error {
	for col, name := range sec.Columns {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return errors.Wrap(err, "resolving header cell")
		}
		if err := f.SetCellValue(sec.Name, cell, name); err != nil {
			return errors.Wrapf(err, "writing header of sheet %q", sec.Name)
		}
	}
	lastCol, err := excelize.CoordinatesToCellName(len(sec.Columns), 1)
	if err != nil {
		return errors.Wrap(err, "resolving last header cell")
	}
	if err := f.SetCellStyle(sec.Name, "A1", lastCol, headerStyle); err != nil {
		return errors.Wrapf(err, "styling header of sheet %q", sec.Name)
	}

	for r, row := range sec.Rows {
		for col, val := range row {
			cell, err := excelize.CoordinatesToCellName(col+1, r+2)
			if err != nil {
				return errors.Wrap(err, "resolving cell")
			}
			if n, nErr := strconv.ParseFloat(val, 64); nErr == nil {
				err = f.SetCellValue(sec.Name, cell, n)
			} else {
				err = f.SetCellValue(sec.Name, cell, val)
			}
			if err != nil {
				return errors.Wrapf(err, "writing sheet %q", sec.Name)
			}
		}
	}

	lastColName, err := excelize.ColumnNumberToName(len(sec.Columns))
	if err != nil {
		return errors.Wrap(err, "resolving last column name")
	}
	return f.SetColWidth(sec.Name, "A", lastColName, 22)
}

// chartSubjectAverages adds a column chart next to the subject-averages
// table, mirroring the dashboard's average-marks bar chart.
func (c *Codec) chartSubjectAverages(f *excelize.File, doc report.Document) error {
	var sec *report.Section
	for i := range doc.Sections {
		if doc.Sections[i].Name == report.SectionSubjectAverages {
			sec = &doc.Sections[i]
			break
		}
	}
	if sec == nil || len(sec.Rows) == 0 {
		return nil
	}

	lastRow := len(sec.Rows) + 1
	return f.AddChart(sec.Name, "D2", &excelize.Chart{
		Type: excelize.Col,
		Series: []excelize.ChartSeries{{
			Name:       fmt.Sprintf("'%s'!$B$1", sec.Name),
			Categories: fmt.Sprintf("'%s'!$A$2:$A$%d", sec.Name, lastRow),
			Values:     fmt.Sprintf("'%s'!$B$2:$B$%d", sec.Name, lastRow),
		}},
		Title: []excelize.RichTextRun{{Text: "Average Marks by Subject"}},
	})
}
