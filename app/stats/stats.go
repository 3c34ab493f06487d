// Package stats derives summary figures from a fetched student list: totals,
// averages, extrema, per-class breakdowns and a fixed five-bucket marks
// histogram. Everything here is a pure computation over the input slice.
package stats

import "rosterdesk/app/models"

// Bucket is one histogram cell: a fixed marks range and how many records
// landed in it.
type Bucket struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// ClassStats carries the per-class breakdown for one class label.
type ClassStats struct {
	Class   string          `json:"class"`
	Count   int             `json:"count"`
	Average float64         `json:"average"`
	Highest *models.Student `json:"highest,omitempty"`
	Lowest  *models.Student `json:"lowest,omitempty"`
}

// Summary is the full set of derived figures for a student list.
type Summary struct {
	Total     int             `json:"total"`
	Average   float64         `json:"average"`
	Highest   *models.Student `json:"highest,omitempty"`
	Lowest    *models.Student `json:"lowest,omitempty"`
	Classes   []ClassStats    `json:"classes"`
	Histogram []Bucket        `json:"histogram"`
}

// bucketLabels define the histogram ranges in ascending order. Buckets are
// half-open except the last, which is closed so that 100 is counted.
var bucketLabels = [5]string{"0-19", "20-39", "40-59", "60-79", "80-100"}

func newHistogram() []Bucket {
	h := make([]Bucket, len(bucketLabels))
	for i, label := range bucketLabels {
		h[i] = Bucket{Label: label}
	}
	return h
}

// bucketIndex maps a marks value to its histogram bucket, or -1 when the
// value falls outside [0, 100].
func bucketIndex(v int) int {
	if v < 0 || v > 100 {
		return -1
	}
	if v == 100 {
		return 4
	}
	return v / 20
}

type accumulator struct {
	sum    int
	graded int
}

// Summarize computes the summary for students in a single pass.
//
// Records with invalid marks still count toward totals but are excluded from
// the average, the histogram and the highest/lowest comparisons; comparing
// against an unparseable value would otherwise silently pick an arbitrary
// record. Ties on marks keep the record encountered first. Records with an
// empty class are excluded from the per-class breakdown only.
func Summarize(students []models.Student) Summary {
	s := Summary{Histogram: newHistogram()}

	var overall accumulator
	groups := make(map[string]*ClassStats)
	groupAcc := make(map[string]*accumulator)
	var order []string

	for i := range students {
		st := &students[i]
		s.Total++
		if !st.Marks.Valid {
			if st.StudentClass != "" {
				groupFor(st, groups, groupAcc, &order).Count++
			}
			continue
		}

		overall.sum += st.Marks.Value
		overall.graded++
		if s.Highest == nil || st.Marks.Value > s.Highest.Marks.Value {
			s.Highest = st
		}
		if s.Lowest == nil || st.Marks.Value < s.Lowest.Marks.Value {
			s.Lowest = st
		}
		if idx := bucketIndex(st.Marks.Value); idx >= 0 {
			s.Histogram[idx].Count++
		}

		if st.StudentClass != "" {
			g := groupFor(st, groups, groupAcc, &order)
			acc := groupAcc[st.StudentClass]
			g.Count++
			acc.sum += st.Marks.Value
			acc.graded++
			if g.Highest == nil || st.Marks.Value > g.Highest.Marks.Value {
				g.Highest = st
			}
			if g.Lowest == nil || st.Marks.Value < g.Lowest.Marks.Value {
				g.Lowest = st
			}
		}
	}

	if overall.graded > 0 {
		s.Average = float64(overall.sum) / float64(overall.graded)
	}

	s.Classes = make([]ClassStats, 0, len(order))
	for _, class := range order {
		g := groups[class]
		if acc := groupAcc[class]; acc.graded > 0 {
			g.Average = float64(acc.sum) / float64(acc.graded)
		}
		s.Classes = append(s.Classes, *g)
	}
	return s
}

func groupFor(st *models.Student, groups map[string]*ClassStats, groupAcc map[string]*accumulator, order *[]string) *ClassStats {
	g, ok := groups[st.StudentClass]
	if !ok {
		g = &ClassStats{Class: st.StudentClass}
		groups[st.StudentClass] = g
		groupAcc[st.StudentClass] = &accumulator{}
		*order = append(*order, st.StudentClass)
	}
	return g
}
