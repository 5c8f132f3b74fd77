package report

import (
	"reflect"
	"testing"

	"github.com/pkg/errors"

	"github.com/trezcool/alama/core"
)

func TestBuildDocument(t *testing.T) {
	rep := Aggregate(testDataset(), testOpts)

	doc, err := BuildDocument(rep, testOpts)
	if err != nil {
		t.Fatalf("BuildDocument() failed: %v", err)
	}
	if doc.Title != "Class Performance Report" {
		t.Errorf("title = %q", doc.Title)
	}

	wantSections := []string{
		SectionSubjectAverages,
		SectionTopStudents,
		SectionWeakStudents,
		SectionClassBreakdown,
	}
	if len(doc.Sections) != len(wantSections) {
		t.Fatalf("sections = %d, want %d", len(doc.Sections), len(wantSections))
	}
	for i, want := range wantSections {
		if doc.Sections[i].Name != want {
			t.Errorf("section %d = %q, want %q", i, doc.Sections[i].Name, want)
		}
	}

	// subject averages formatted at the aggregate's precision
	avgs := doc.Sections[0]
	if want := []string{"OOPs C++", "87.50"}; !reflect.DeepEqual(avgs.Rows[0], want) {
		t.Errorf("avg row = %v, want %v", avgs.Rows[0], want)
	}

	// top students carry rank ordinals
	top := doc.Sections[1]
	wantTop := [][]string{
		{"1st", "R003", "Chitra", "CSE-B", "590.00", "98.33"},
		{"2nd", "R001", "Asha", "CSE-A", "560.00", "93.33"},
		{"3rd", "R004", "Deepak", "CSE-B", "540.00", "90.00"},
	}
	if !reflect.DeepEqual(top.Rows, wantTop) {
		t.Errorf("top rows = %v, want %v", top.Rows, wantTop)
	}

	weak := doc.Sections[2]
	if want := []string{"R002", "Brian", "CSE-A", "DSA C++", "35.00"}; !reflect.DeepEqual(weak.Rows[0], want) {
		t.Errorf("weak row = %v, want %v", weak.Rows[0], want)
	}

	breakdown := doc.Sections[3]
	if got := len(breakdown.Columns); got != 10 { // Class, Students, 6 subjects, Average, Pass Rate
		t.Errorf("breakdown columns = %d, want 10", got)
	}
	if got := breakdown.Rows[0][0]; got != "CSE-A" {
		t.Errorf("breakdown class = %q", got)
	}
	if got := breakdown.Rows[0][1]; got != "2" {
		t.Errorf("breakdown student count = %q, want \"2\"", got)
	}
}

func TestBuildDocument_emptyReport(t *testing.T) {
	rep := AggregateReport{} // HasData false

	_, err := BuildDocument(rep, testOpts)
	if _, ok := errors.Cause(err).(*core.ExportError); !ok {
		t.Fatalf("expected *core.ExportError, got %T: %v", err, err)
	}
}

func TestBuildDocument_emptyClass(t *testing.T) {
	rep := Aggregate(testDataset(), testOpts)
	rep.Classes = append(rep.Classes, ClassStats{Class: "CSE-C"})

	doc, err := BuildDocument(rep, testOpts)
	if err != nil {
		t.Fatalf("BuildDocument() failed: %v", err)
	}
	breakdown := doc.Sections[3]
	row := breakdown.Rows[len(breakdown.Rows)-1]
	if row[0] != "CSE-C" || row[1] != "0" {
		t.Fatalf("empty class row = %v", row)
	}
	for _, cell := range row[2:] {
		if cell != "no data" {
			t.Errorf("empty class cell = %q, want \"no data\"", cell)
		}
	}
}

func TestOrdinal(t *testing.T) {
	tests := []struct {
		n    int
		want string
	}{
		{1, "1st"}, {2, "2nd"}, {3, "3rd"}, {4, "4th"}, {11, "11th"},
	}
	for _, tt := range tests {
		if got := ordinal(tt.n); got != tt.want {
			t.Errorf("ordinal(%d) = %q, want %q", tt.n, got, tt.want)
		}
	}
}
