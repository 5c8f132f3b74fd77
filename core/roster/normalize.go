package roster

import (
	"fmt"
	"strconv"

	"github.com/pkg/errors"

	"github.com/trezcool/alama/core"
)

var errBadUpload = errors.New("uploaded table failed validation")

// Normalize validates one raw uploaded table and reshapes it into a
// ClassDataset tagged with the given class label.
//
// Constraint violations (missing column, non-numeric score, out-of-range
// score, duplicate registration id within the upload) are collected per
// row/column into a single core.ValidationError; a blank score cell is
// read as 0, matching the upstream ingest convention.
func Normalize(table RawTable, class string) (ClassDataset, error) {
	class = core.CleanString(class)
	if class == "" {
		return ClassDataset{}, core.NewValidationError(errBadUpload,
			core.FieldError{Field: "class", Error: "class label is required"})
	}

	cols, fldErrs := mapColumns(table.Header)
	if len(fldErrs) > 0 {
		return ClassDataset{}, core.NewValidationError(errBadUpload, fldErrs...)
	}

	ds := ClassDataset{Class: class, Records: make([]StudentRecord, 0, len(table.Rows))}
	seen := make(map[string]int, len(table.Rows)) // regNo -> first row no

	for i, row := range table.Rows {
		rowNo := i + 2 // 1-based, after the header row

		rec := StudentRecord{
			RegNo:  core.CleanString(cell(row, cols[ColumnRegNo])),
			Name:   core.CleanString(cell(row, cols[ColumnName])),
			Class:  class,
			Scores: make(map[Subject]float64, len(Subjects)),
		}

		if rec.RegNo == "" {
			fldErrs = append(fldErrs, core.RowFieldError(rowNo, ColumnRegNo, "registration id is required"))
		} else if first, dup := seen[rec.RegNo]; dup {
			fldErrs = append(fldErrs, core.RowFieldError(rowNo, ColumnRegNo,
				fmt.Sprintf("duplicate registration id %q (first seen on row %d)", rec.RegNo, first)))
		} else {
			seen[rec.RegNo] = rowNo
		}
		if rec.Name == "" {
			fldErrs = append(fldErrs, core.RowFieldError(rowNo, ColumnName, "student name is required"))
		}

		for _, sub := range Subjects {
			raw := core.CleanString(cell(row, cols[string(sub)]))
			if raw == "" {
				rec.Scores[sub] = 0
				continue
			}
			score, err := strconv.ParseFloat(raw, 64)
			if err != nil {
				fldErrs = append(fldErrs, core.RowFieldError(rowNo, string(sub),
					fmt.Sprintf("score %q is not numeric", raw)))
				continue
			}
			if score < 0 || score > 100 {
				fldErrs = append(fldErrs, core.RowFieldError(rowNo, string(sub),
					fmt.Sprintf("score %v is out of range [0, 100]", score)))
				continue
			}
			rec.Scores[sub] = score
		}

		ds.Records = append(ds.Records, rec)
	}

	if len(fldErrs) > 0 {
		return ClassDataset{}, core.NewValidationError(errBadUpload, fldErrs...)
	}
	return ds, nil
}

// ClassLabel resolves the class label for an uploaded table: the first
// non-blank Class cell wins, else the fallback (usually the file name).
func ClassLabel(table RawTable, fallback string) string {
	classIdx := -1
	for i, col := range table.Header {
		if CanonicalColumn(core.CleanString(col)) == ColumnClass {
			classIdx = i
			break
		}
	}
	if classIdx >= 0 {
		for _, row := range table.Rows {
			if class := core.CleanString(cell(row, classIdx)); class != "" {
				return class
			}
		}
	}
	return core.CleanString(fallback)
}

// mapColumns resolves canonical column names to their index in the header,
// reporting every required column that is missing.
func mapColumns(header []string) (map[string]int, []core.FieldError) {
	cols := make(map[string]int, len(header))
	for i, h := range header {
		cols[CanonicalColumn(core.CleanString(h))] = i
	}

	required := []string{ColumnRegNo, ColumnName}
	for _, sub := range Subjects {
		required = append(required, string(sub))
	}

	var fldErrs []core.FieldError
	for _, col := range required {
		if _, ok := cols[col]; !ok {
			fldErrs = append(fldErrs, core.FieldError{Field: col, Error: "required column is missing"})
		}
	}
	return cols, fldErrs
}

func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return row[i]
}
