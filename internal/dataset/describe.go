package dataset

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"

	"github.com/KaramelBytes/dataset-explorer/internal/schema"
)

// Column kinds reported by Describe.
const (
	KindContinuous  = "continuous"
	KindCategorical = "categorical"
	KindOther       = "other"
)

// Summary is a per-column overview of a Dataset.
type Summary struct {
	Name   string
	Rows   int
	Cols   []ColumnSummary
	Groups []GroupCount
	// Skipped counts rows whose group label is not in the canonical order.
	Skipped int
}

// ColumnSummary captures the role and statistics of one column.
type ColumnSummary struct {
	Name    string
	Kind    string
	NonNull int
	Missing int
	// Continuous stats; Std is the sample standard deviation.
	Min, Max, Mean, Std float64
	// Categorical top values
	TopValues []CategoryCount
	Unique    int
}

type CategoryCount struct {
	Value string
	Count int
}

// GroupCount is the number of rows in one canonical group.
type GroupCount struct {
	Group string
	Rows  int
}

// Describe summarizes every column of ds using the roles declared in s.
func Describe(ds *Dataset, s schema.Schema) *Summary {
	sum := &Summary{Name: ds.Name(), Rows: ds.Rows()}
	continuous := make(map[string]bool, len(s.Continuous))
	for _, c := range s.Continuous {
		continuous[c] = true
	}
	for _, name := range ds.Columns() {
		cs := ColumnSummary{Name: name, Kind: KindOther}
		switch {
		case continuous[name]:
			cs.Kind = KindContinuous
			vals, _ := ds.Floats(name)
			clean := dropNaN(vals)
			cs.NonNull = len(clean)
			cs.Missing = len(vals) - len(clean)
			if len(clean) > 0 {
				cs.Min = floats.Min(clean)
				cs.Max = floats.Max(clean)
				cs.Mean, cs.Std = stat.MeanStdDev(clean, nil)
				if len(clean) < 2 {
					cs.Std = 0
				}
			}
		default:
			vals, _ := ds.Strings(name)
			counts := map[string]int{}
			for _, v := range vals {
				if v == "" {
					cs.Missing++
					continue
				}
				cs.NonNull++
				counts[v]++
			}
			if s.IsCategorical(name) || name == s.GroupField {
				cs.Kind = KindCategorical
				cs.TopValues = topValues(counts, 5)
				cs.Unique = len(counts)
			}
		}
		sum.Cols = append(sum.Cols, cs)
	}
	if s.GroupField != "" && ds.Has(s.GroupField) {
		labels, _ := ds.Strings(s.GroupField)
		counts := make([]int, len(s.GroupOrder))
		for _, l := range labels {
			idx := s.GroupIndex(l)
			if idx < 0 {
				sum.Skipped++
				continue
			}
			counts[idx]++
		}
		for i, g := range s.GroupOrder {
			sum.Groups = append(sum.Groups, GroupCount{Group: g, Rows: counts[i]})
		}
	}
	return sum
}

// Markdown renders a compact report of the summary.
func (s *Summary) Markdown() string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if s.Name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", s.Name))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\nColumns: %d\n\n", s.Rows, len(s.Cols)))
	b.WriteString("[SCHEMA]\n")
	for _, c := range s.Cols {
		b.WriteString(fmt.Sprintf("- %s: %s (non-null %d, missing %d)", c.Name, c.Kind, c.NonNull, c.Missing))
		switch c.Kind {
		case KindContinuous:
			if c.NonNull > 0 {
				b.WriteString(fmt.Sprintf(" — min %.4g, max %.4g, mean %.4g, std %.4g", c.Min, c.Max, c.Mean, c.Std))
			}
		case KindCategorical:
			if len(c.TopValues) > 0 {
				parts := make([]string, len(c.TopValues))
				for i, kv := range c.TopValues {
					parts[i] = fmt.Sprintf("%s(%d)", kv.Value, kv.Count)
				}
				b.WriteString(" — top: " + strings.Join(parts, ", "))
				if c.Unique > len(c.TopValues) {
					b.WriteString(fmt.Sprintf("; unique=%d", c.Unique))
				}
			}
		}
		b.WriteString("\n")
	}
	if len(s.Groups) > 0 {
		b.WriteString("\n[GROUPS]\n")
		for _, g := range s.Groups {
			b.WriteString(fmt.Sprintf("- %s: %d\n", g.Group, g.Rows))
		}
		if s.Skipped > 0 {
			b.WriteString(fmt.Sprintf("- (not canonical): %d\n", s.Skipped))
		}
	}
	return b.String()
}

func topValues(counts map[string]int, n int) []CategoryCount {
	tops := make([]CategoryCount, 0, len(counts))
	for k, v := range counts {
		tops = append(tops, CategoryCount{Value: k, Count: v})
	}
	sort.Slice(tops, func(i, j int) bool {
		if tops[i].Count == tops[j].Count {
			return tops[i].Value < tops[j].Value
		}
		return tops[i].Count > tops[j].Count
	})
	if len(tops) > n {
		tops = tops[:n]
	}
	return tops
}

func dropNaN(vals []float64) []float64 {
	out := make([]float64, 0, len(vals))
	for _, v := range vals {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}
