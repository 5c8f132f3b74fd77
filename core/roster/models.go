package roster

import (
	"time"
)

// Subject is one of the six fixed, named scoring categories. The set is a
// closed, ordered enumeration agreed upon by the whole system; uploaded
// headers must match these names (after alias canonicalization).
type Subject string

const (
	SubjectOOP      Subject = "OOPs C++"
	SubjectDSA      Subject = "DSA C++"
	SubjectMaths    Subject = "Mathematics"
	SubjectADS      Subject = "Applied Data Science"
	SubjectEmbedded Subject = "Embedded Systems"
	SubjectCloud    Subject = "Cloud Management"
)

// Subjects lists the six subjects in their canonical column order.
var Subjects = []Subject{
	SubjectOOP,
	SubjectDSA,
	SubjectMaths,
	SubjectADS,
	SubjectEmbedded,
	SubjectCloud,
}

// MaxTotal is the highest total a student can score across all subjects
// (six subjects, each out of 100).
const MaxTotal float64 = 600

// Required non-subject columns.
const (
	ColumnRegNo = "Reg.no"
	ColumnName  = "Name"
	ColumnClass = "Class"
)

// columnAliases canonicalizes common header variants seen in the wild.
var columnAliases = map[string]string{
	"OOPS C++":                          string(SubjectOOP),
	"OOP C++":                           string(SubjectOOP),
	"OOPs CPP":                          string(SubjectOOP),
	"Object Oriented Programming C++":   string(SubjectOOP),
	"DSA CPP":                           string(SubjectDSA),
	"DSA in C++":                        string(SubjectDSA),
	"Applied data science":              string(SubjectADS),
	"Applied DataScience":               string(SubjectADS),
	"Embedded System":                   string(SubjectEmbedded),
	"Embeded system":                    string(SubjectEmbedded),
	"Cloud Mgmt":                        string(SubjectCloud),
	"CloudMgmt":                         string(SubjectCloud),
	"Reg No":                            ColumnRegNo,
	"Reg_No":                            ColumnRegNo,
	"Registration No":                   ColumnRegNo,
}

// CanonicalColumn maps a raw header cell to its canonical column name;
// unknown headers pass through unchanged.
func CanonicalColumn(name string) string {
	if canon, ok := columnAliases[name]; ok {
		return canon
	}
	return name
}

// StudentRecord is one student's row of the merged dataset: immutable
// once normalized, always carrying a score for all six subjects.
type StudentRecord struct {
	RegNo  string              `json:"reg_no"`
	Name   string              `json:"name"`
	Class  string              `json:"class"`
	Scores map[Subject]float64 `json:"scores"`
}

// Total is the sum of the six subject scores.
func (r StudentRecord) Total() float64 {
	var total float64
	for _, sub := range Subjects {
		total += r.Scores[sub]
	}
	return total
}

// MinScore is the lowest of the six subject scores.
func (r StudentRecord) MinScore() float64 {
	min := r.Scores[Subjects[0]]
	for _, sub := range Subjects[1:] {
		if s := r.Scores[sub]; s < min {
			min = s
		}
	}
	return min
}

// ClassDataset is one normalized upload: the ordered records of a single
// class. Registration ids are unique within it.
type ClassDataset struct {
	Class   string          `json:"class"`
	Records []StudentRecord `json:"records"`
}

// Dataset is the merged view over one or more class datasets, owned by
// the account that uploaded them. Records keep insertion order of the
// input sequence, then input order within each class.
type Dataset struct {
	ID        string          `json:"id"`
	Owner     string          `json:"owner"`
	Classes   []string        `json:"classes"`
	Records   []StudentRecord `json:"records"`
	CreatedAt time.Time       `json:"created_at"` // UTC
}

func (ds Dataset) IsEmpty() bool { return len(ds.Records) == 0 }

// ByClass returns the records tagged with the given class, in order.
func (ds Dataset) ByClass(class string) []StudentRecord {
	var recs []StudentRecord
	for _, rec := range ds.Records {
		if rec.Class == class {
			recs = append(recs, rec)
		}
	}
	return recs
}

// RawTable is one uploaded table as decoded from a workbook: a header
// row and data rows, all cells still strings.
type RawTable struct {
	Header []string
	Rows   [][]string
}
