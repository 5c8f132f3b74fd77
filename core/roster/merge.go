package roster

import (
	"time"

	"github.com/trezcool/alama/core"
)

// Merge concatenates normalized class datasets into one dataset,
// preserving insertion order of the input sequence and row order within
// each class.
//
// A registration id may appear once per class (a student can be enrolled
// in several cohorts), but if it maps to differing student names across
// classes the identity is ambiguous and a core.ConflictError is returned.
// Merging zero datasets yields a valid empty Dataset.
func Merge(datasets ...ClassDataset) (Dataset, error) {
	merged := Dataset{CreatedAt: time.Now().UTC()}
	names := make(map[string]string) // regNo -> name
	tagged := make(map[string]bool)  // class labels already listed

	for _, ds := range datasets {
		if !tagged[ds.Class] {
			merged.Classes = append(merged.Classes, ds.Class)
			tagged[ds.Class] = true
		}
		for _, rec := range ds.Records {
			if known, ok := names[rec.RegNo]; ok && known != rec.Name {
				return Dataset{}, core.NewConflictError(rec.RegNo, known, rec.Name)
			}
			names[rec.RegNo] = rec.Name
			merged.Records = append(merged.Records, rec)
		}
	}
	return merged, nil
}
