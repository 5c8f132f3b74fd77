package report

import (
	"strconv"

	"github.com/trezcool/alama/core/roster"
)

// BuildDocument assembles a computed aggregate into the exportable
// multi-section document. Values are copied from the aggregate verbatim
// (formatted at the precision already applied by the Aggregator — no
// re-derivation). Building from an aggregate with no data is a
// core.ExportError.
func BuildDocument(rep AggregateReport, opts Options) (Document, error) {
	if !rep.HasData {
		return Document{}, errEmptyReport
	}

	doc := Document{Title: "Class Performance Report"}
	doc.Sections = append(doc.Sections,
		subjectAveragesSection(rep, opts),
		topStudentsSection(rep, opts),
		weakStudentsSection(rep, opts),
		classBreakdownSection(rep, opts),
	)
	return doc, nil
}

func subjectAveragesSection(rep AggregateReport, opts Options) Section {
	sec := Section{
		Name:    SectionSubjectAverages,
		Columns: []string{"Subject", "Average (%)"},
	}
	for _, sub := range roster.Subjects {
		sec.Rows = append(sec.Rows, []string{string(sub), ffmt(rep.SubjectAverages[sub], opts)})
	}
	return sec
}

func topStudentsSection(rep AggregateReport, opts Options) Section {
	sec := Section{
		Name:    SectionTopStudents,
		Columns: []string{"Rank", "Reg.no", "Name", "Class", "Total Marks", "Percentage"},
	}
	for i, s := range rep.Top {
		sec.Rows = append(sec.Rows, []string{
			ordinal(i + 1), s.RegNo, s.Name, s.Class, ffmt(s.Total, opts), ffmt(s.Percentage, opts),
		})
	}
	return sec
}

func weakStudentsSection(rep AggregateReport, opts Options) Section {
	sec := Section{
		Name:    SectionWeakStudents,
		Columns: []string{"Reg.no", "Name", "Class", "Subject", "Marks"},
	}
	for _, w := range rep.Weak {
		sec.Rows = append(sec.Rows, []string{w.RegNo, w.Name, w.Class, string(w.Subject), ffmt(w.Score, opts)})
	}
	return sec
}

func classBreakdownSection(rep AggregateReport, opts Options) Section {
	cols := []string{"Class", "Students"}
	for _, sub := range roster.Subjects {
		cols = append(cols, string(sub)+" Avg")
	}
	cols = append(cols, "Average (%)", "Pass Rate (%)")

	sec := Section{Name: SectionClassBreakdown, Columns: cols}
	for _, cs := range rep.Classes {
		row := []string{cs.Class, strconv.Itoa(cs.Students)}
		if cs.Students == 0 {
			for range roster.Subjects {
				row = append(row, noData)
			}
			row = append(row, noData, noData)
		} else {
			for _, sub := range roster.Subjects {
				row = append(row, ffmt(cs.SubjectAverages[sub], opts))
			}
			row = append(row, ffmt(cs.AveragePercentage, opts), ffmt(cs.PassRate, opts))
		}
		sec.Rows = append(sec.Rows, row)
	}
	return sec
}

const noData = "no data"

// ffmt renders a value at the aggregate's fixed precision.
func ffmt(v float64, opts Options) string {
	return strconv.FormatFloat(v, 'f', opts.Precision, 64)
}

func ordinal(n int) string {
	switch n {
	case 1:
		return "1st"
	case 2:
		return "2nd"
	case 3:
		return "3rd"
	default:
		return strconv.Itoa(n) + "th"
	}
}
