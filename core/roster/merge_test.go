package roster

import (
	"reflect"
	"testing"

	"github.com/pkg/errors"

	"github.com/trezcool/alama/core"
)

func rec(regNo, name, class string) StudentRecord {
	scores := make(map[Subject]float64, len(Subjects))
	for _, sub := range Subjects {
		scores[sub] = 50
	}
	return StudentRecord{RegNo: regNo, Name: name, Class: class, Scores: scores}
}

func TestMerge(t *testing.T) {
	a := ClassDataset{Class: "CSE-A", Records: []StudentRecord{
		rec("R001", "Asha", "CSE-A"),
		rec("R002", "Brian", "CSE-A"),
	}}
	b := ClassDataset{Class: "CSE-B", Records: []StudentRecord{
		rec("R003", "Chitra", "CSE-B"),
		rec("R001", "Asha", "CSE-B"), // same student, second cohort
	}}

	merged, err := Merge(a, b)
	if err != nil {
		t.Fatalf("Merge() failed: %v", err)
	}

	if want := []string{"CSE-A", "CSE-B"}; !reflect.DeepEqual(merged.Classes, want) {
		t.Errorf("classes = %v, want %v", merged.Classes, want)
	}
	gotOrder := make([]string, 0, len(merged.Records))
	for _, r := range merged.Records {
		gotOrder = append(gotOrder, r.RegNo+"/"+r.Class)
	}
	wantOrder := []string{"R001/CSE-A", "R002/CSE-A", "R003/CSE-B", "R001/CSE-B"}
	if !reflect.DeepEqual(gotOrder, wantOrder) {
		t.Errorf("record order = %v, want %v", gotOrder, wantOrder)
	}
	if merged.CreatedAt.IsZero() {
		t.Error("CreatedAt not set")
	}
}

func TestMerge_nameConflict(t *testing.T) {
	a := ClassDataset{Class: "CSE-A", Records: []StudentRecord{rec("R001", "Asha", "CSE-A")}}
	b := ClassDataset{Class: "CSE-B", Records: []StudentRecord{rec("R001", "Anita", "CSE-B")}}

	_, err := Merge(a, b)
	cErr, ok := errors.Cause(err).(*core.ConflictError)
	if !ok {
		t.Fatalf("expected *core.ConflictError, got %T: %v", err, err)
	}
	if cErr.RegNo != "R001" {
		t.Errorf("RegNo = %q, want %q", cErr.RegNo, "R001")
	}
	if cErr.Names != [2]string{"Asha", "Anita"} {
		t.Errorf("Names = %v", cErr.Names)
	}
}

func TestMerge_duplicateClassLabel(t *testing.T) {
	a := ClassDataset{Class: "CSE-A", Records: []StudentRecord{rec("R001", "Asha", "CSE-A")}}
	b := ClassDataset{Class: "CSE-A", Records: []StudentRecord{rec("R002", "Brian", "CSE-A")}}

	merged, err := Merge(a, b)
	if err != nil {
		t.Fatalf("Merge() failed: %v", err)
	}
	if want := []string{"CSE-A"}; !reflect.DeepEqual(merged.Classes, want) {
		t.Errorf("classes = %v, want %v", merged.Classes, want)
	}
	if len(merged.Records) != 2 {
		t.Errorf("records = %d, want 2", len(merged.Records))
	}
}

func TestMerge_empty(t *testing.T) {
	merged, err := Merge()
	if err != nil {
		t.Fatalf("Merge() failed: %v", err)
	}
	if !merged.IsEmpty() {
		t.Error("expected empty dataset")
	}
}
