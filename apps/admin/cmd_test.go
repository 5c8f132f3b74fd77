package main

import (
	"io"
	"log"
	"os"
	"path/filepath"
	"testing"

	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"

	"github.com/trezcool/alama/core"
	"github.com/trezcool/alama/storage/spreadsheet"
)

func setup() *commandLine {
	logger = log.New(io.Discard, "", 0)
	return &commandLine{
		conf:  core.Conf,
		codec: spreadsheet.NewCodec(),
	}
}

func writeWorkbook(t *testing.T, dir, name string, rows [][]string) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for r, row := range rows {
		for c, val := range row {
			cell, err := excelize.CoordinatesToCellName(c+1, r+1)
			if err != nil {
				t.Fatalf("CoordinatesToCellName() failed: %v", err)
			}
			if err := f.SetCellValue(sheet, cell, val); err != nil {
				t.Fatalf("SetCellValue() failed: %v", err)
			}
		}
	}
	path := filepath.Join(dir, name)
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("SaveAs() failed: %v", err)
	}
	return path
}

func marksRows(class string, rows ...[]string) [][]string {
	header := []string{"Reg.no", "Name", "Class", "OOPs C++", "DSA C++", "Mathematics",
		"Applied Data Science", "Embedded Systems", "Cloud Management"}
	all := [][]string{header}
	for _, row := range rows {
		all = append(all, append([]string{row[0], row[1], class}, row[2:]...))
	}
	return all
}

type cliTest struct {
	name    string
	args    []string // without program name
	wantErr error
}

func Test_commandLine_run(t *testing.T) {
	cli := setup()

	tests := []cliTest{
		{name: "no command", wantErr: errHelp},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp},
		{name: "report: no workbooks", args: []string{"report"}, wantErr: errHelp},
	}
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			if err := cli.run(args); err != tt.wantErr {
				t.Errorf("cli.run() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func Test_commandLine_generateReport(t *testing.T) {
	cli := setup()
	dir := t.TempDir()

	a := writeWorkbook(t, dir, "cse_a_marks.xlsx", marksRows("CSE-A",
		[]string{"R001", "Asha", "90", "85", "95", "100", "90", "100"},
		[]string{"R002", "Brian", "70", "35", "95", "100", "90", "90"},
	))
	b := writeWorkbook(t, dir, "cse_b_marks.xlsx", marksRows("CSE-B",
		[]string{"R003", "Chitra", "100", "95", "95", "100", "100", "100"},
	))
	out := filepath.Join(dir, "report.xlsx")

	if err := cli.run([]string{"admin", "report", "-out", out, a, b}); err != nil {
		t.Fatalf("cli.run() failed: %v", err)
	}

	f, err := excelize.OpenFile(out)
	if err != nil {
		t.Fatalf("OpenFile() failed: %v", err)
	}
	defer f.Close()

	for _, sheet := range []string{"Subject Averages", "Top 3 Students", "Weak Students", "Class Breakdown"} {
		if idx, _ := f.GetSheetIndex(sheet); idx < 0 {
			t.Errorf("missing sheet %q", sheet)
		}
	}
	// top student across the merged classes
	if got, _ := f.GetCellValue("Top 3 Students", "B2"); got != "R003" {
		t.Errorf("top reg id = %q, want R003", got)
	}
}

func Test_commandLine_generateReport_errors(t *testing.T) {
	cli := setup()
	dir := t.TempDir()

	bad := writeWorkbook(t, dir, "bad.xlsx", marksRows("CSE-A",
		[]string{"R001", "Asha", "ninety", "85", "95", "100", "90", "100"},
	))
	out := filepath.Join(dir, "report.xlsx")

	err := cli.run([]string{"admin", "report", "-out", out, bad})
	if _, ok := errors.Cause(err).(*core.ValidationError); !ok {
		t.Fatalf("expected *core.ValidationError, got %T: %v", err, err)
	}
	if _, statErr := os.Stat(out); !os.IsNotExist(statErr) {
		t.Error("report written despite failed validation")
	}
}
