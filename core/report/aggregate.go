package report

import (
	"math"
	"sort"
	"time"

	"github.com/montanaflynn/stats"

	"github.com/trezcool/alama/core"
	"github.com/trezcool/alama/core/roster"
)

// Options are the recognized aggregation options (spec'd defaults live in
// core.Conf).
type Options struct {
	WeakThreshold float64
	PassThreshold float64
	TopN          int
	Precision     int
}

func DefaultOptions() Options {
	return Options{
		WeakThreshold: core.Conf.Report.WeakThreshold,
		PassThreshold: core.Conf.Report.PassThreshold,
		TopN:          core.Conf.Report.TopN,
		Precision:     core.Conf.Report.Precision,
	}
}

// Aggregate computes the full descriptive-statistics view over a merged
// dataset. It is a pure function: the dataset is never mutated and an
// empty dataset yields a report with HasData=false rather than an error.
func Aggregate(ds roster.Dataset, opts Options) AggregateReport {
	rep := AggregateReport{
		GeneratedAt: time.Now().UTC(),
		Students:    []StudentSummary{},
		Top:         []StudentSummary{},
		Weak:        []WeakEntry{},
		Classes:     []ClassStats{},
	}
	if ds.IsEmpty() {
		return rep
	}
	rep.HasData = true

	rep.SubjectAverages = subjectAverages(ds.Records, opts.Precision)
	rep.Students = summaries(ds.Records, opts)
	rep.AveragePercentage = meanPercentage(rep.Students, opts.Precision)
	rep.Top = topN(rep.Students, opts.TopN)
	rep.Weak = weakEntries(ds.Records, opts.WeakThreshold)
	rep.Classes = classStats(ds, opts)
	return rep
}

// subjectAverages is the arithmetic mean of each subject's scores across
// all records; nil when there are none.
func subjectAverages(recs []roster.StudentRecord, precision int) map[roster.Subject]float64 {
	if len(recs) == 0 {
		return nil
	}
	avgs := make(map[roster.Subject]float64, len(roster.Subjects))
	scores := make([]float64, len(recs))
	for _, sub := range roster.Subjects {
		for i, rec := range recs {
			scores[i] = rec.Scores[sub]
		}
		mean, _ := stats.Mean(scores)
		avgs[sub] = round(mean, precision)
	}
	return avgs
}

func summaries(recs []roster.StudentRecord, opts Options) []StudentSummary {
	sums := make([]StudentSummary, 0, len(recs))
	for _, rec := range recs {
		scores := make(map[roster.Subject]float64, len(rec.Scores))
		for sub, s := range rec.Scores {
			scores[sub] = s
		}
		total := rec.Total()
		sums = append(sums, StudentSummary{
			RegNo:      rec.RegNo,
			Name:       rec.Name,
			Class:      rec.Class,
			Scores:     scores,
			Total:      total,
			Percentage: round(total/roster.MaxTotal*100, opts.Precision),
			Weak:       rec.MinScore() < opts.WeakThreshold,
		})
	}
	return sums
}

func meanPercentage(sums []StudentSummary, precision int) float64 {
	if len(sums) == 0 {
		return 0
	}
	pcts := make([]float64, len(sums))
	for i, s := range sums {
		pcts[i] = s.Percentage
	}
	mean, _ := stats.Mean(pcts)
	return round(mean, precision)
}

// topN selects the n records with highest total marks; ties broken by
// ascending registration id so re-running on a reordered dataset yields
// the same ordered list.
func topN(sums []StudentSummary, n int) []StudentSummary {
	top := make([]StudentSummary, len(sums))
	copy(top, sums)
	sort.Slice(top, func(i, j int) bool {
		if top[i].Total != top[j].Total {
			return top[i].Total > top[j].Total
		}
		return top[i].RegNo < top[j].RegNo
	})
	if n > len(top) {
		n = len(top)
	}
	return top[:n]
}

// weakEntries lists every (student, subject) score below the threshold,
// ordered by subject (canonical order) then ascending score, then reg id.
func weakEntries(recs []roster.StudentRecord, threshold float64) []WeakEntry {
	entries := []WeakEntry{}
	for _, sub := range roster.Subjects {
		var subEntries []WeakEntry
		for _, rec := range recs {
			if s := rec.Scores[sub]; s < threshold {
				subEntries = append(subEntries, WeakEntry{
					RegNo:   rec.RegNo,
					Name:    rec.Name,
					Class:   rec.Class,
					Subject: sub,
					Score:   s,
				})
			}
		}
		sort.Slice(subEntries, func(i, j int) bool {
			if subEntries[i].Score != subEntries[j].Score {
				return subEntries[i].Score < subEntries[j].Score
			}
			return subEntries[i].RegNo < subEntries[j].RegNo
		})
		entries = append(entries, subEntries...)
	}
	return entries
}

// classStats compares classes: per-class subject averages, student count,
// class average percentage and pass rate. The pass criterion operates at
// percentage level (overall percentage >= pass threshold), distinct from
// the per-subject weak-learner threshold. A class with zero students
// yields "no data" (nil averages, zero count) rather than a division by
// zero.
func classStats(ds roster.Dataset, opts Options) []ClassStats {
	all := []ClassStats{}
	for _, class := range ds.Classes {
		recs := ds.ByClass(class)
		cs := ClassStats{Class: class, Students: len(recs)}
		if len(recs) > 0 {
			cs.SubjectAverages = subjectAverages(recs, opts.Precision)
			sums := summaries(recs, opts)
			cs.AveragePercentage = meanPercentage(sums, opts.Precision)
			var passed int
			for _, s := range sums {
				if s.Percentage >= opts.PassThreshold {
					passed++
				}
			}
			cs.PassRate = round(float64(passed)/float64(len(recs))*100, opts.Precision)
		}
		all = append(all, cs)
	}
	return all
}

// round applies the documented fixed-precision rounding (half away from
// zero) used for every exported percentage and average.
func round(v float64, precision int) float64 {
	pow := math.Pow(10, float64(precision))
	return math.Round(v*pow) / pow
}
