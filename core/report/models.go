package report

import (
	"time"

	"github.com/trezcool/alama/core/roster"
)

type (
	// StudentSummary is one student's computed line: total of the six
	// subject scores, percentage (total/600*100 at fixed precision) and
	// the weak-learner flag (any subject below the weak threshold).
	StudentSummary struct {
		RegNo      string                     `json:"reg_no"`
		Name       string                     `json:"name"`
		Class      string                     `json:"class"`
		Scores     map[roster.Subject]float64 `json:"scores"`
		Total      float64                    `json:"total"`
		Percentage float64                    `json:"percentage"`
		Weak       bool                       `json:"weak"`
	}

	// WeakEntry is one (student, subject) pair below the weak threshold.
	WeakEntry struct {
		RegNo   string         `json:"reg_no"`
		Name    string         `json:"name"`
		Class   string         `json:"class"`
		Subject roster.Subject `json:"subject"`
		Score   float64        `json:"score"`
	}

	// ClassStats compares one class against the others.
	ClassStats struct {
		Class             string                     `json:"class"`
		Students          int                        `json:"students"`
		SubjectAverages   map[roster.Subject]float64 `json:"subject_averages"`
		AveragePercentage float64                    `json:"average_percentage"`
		PassRate          float64                    `json:"pass_rate"` // % of students with Percentage >= pass threshold
	}

	// AggregateReport is the derived, read-only statistics view over a
	// merged dataset. It is recomputed on demand and never mutated in
	// place. On an empty dataset every statistic reports "no data":
	// HasData is false, maps are nil and slices empty.
	AggregateReport struct {
		GeneratedAt       time.Time                  `json:"generated_at"` // UTC
		HasData           bool                       `json:"has_data"`
		SubjectAverages   map[roster.Subject]float64 `json:"subject_averages"`
		AveragePercentage float64                    `json:"average_percentage"`
		Students          []StudentSummary           `json:"students"`
		Top               []StudentSummary           `json:"top"`
		Weak              []WeakEntry                `json:"weak"`
		Classes           []ClassStats               `json:"classes"`
	}
)

type (
	// Section is one flat table of the exported document, with a fixed
	// column order matching the corresponding computed aggregate.
	Section struct {
		Name    string     `json:"name"`
		Columns []string   `json:"columns"`
		Rows    [][]string `json:"rows"`
	}

	// Document is the exportable multi-sheet report. Its tables are owned
	// copies of the aggregate's values, never aliases of live state.
	Document struct {
		Title    string    `json:"title"`
		Sections []Section `json:"sections"`
	}
)

// Section names, in export order.
const (
	SectionSubjectAverages = "Subject Averages"
	SectionTopStudents     = "Top 3 Students"
	SectionWeakStudents    = "Weak Students"
	SectionClassBreakdown  = "Class Breakdown"
)
