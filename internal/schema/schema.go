package schema

import (
	"fmt"
	"strings"
)

// Schema names the roles dataset columns play in the explorer.
type Schema struct {
	// Continuous lists numeric measurement columns offered for charts.
	// When empty it is derived from the dataset via Resolve.
	Continuous []string
	// Categorical is the denylist of label columns that cannot be charted directly.
	Categorical []string
	// GroupField is the categorical column used by the grouped error-bar chart.
	GroupField string
	// GroupOrder is the fixed order of GroupField categories on the x axis.
	GroupOrder []string
}

// Default returns the schema of the cleaned obesity survey dataset.
func Default() Schema {
	return Schema{
		Categorical: []string{"gender", "obesity_group", "transport"},
		GroupField:  "obesity_group",
		GroupOrder: []string{
			"insufficient_weight",
			"normal_weight",
			"overweight_level_i",
			"overweight_level_ii",
			"obesity_type_i",
			"obesity_type_ii",
			"obesity_type_iii",
		},
	}
}

// IsCategorical reports whether name is on the categorical denylist.
func (s Schema) IsCategorical(name string) bool {
	for _, c := range s.Categorical {
		if c == name {
			return true
		}
	}
	return false
}

// IsContinuous reports whether name is one of the continuous columns.
func (s Schema) IsContinuous(name string) bool {
	for _, c := range s.Continuous {
		if c == name {
			return true
		}
	}
	return false
}

// GroupIndex returns the canonical position of a group label, matching
// trimmed and case-insensitively, or -1 when the label is not canonical.
func (s Schema) GroupIndex(label string) int {
	l := strings.ToLower(strings.TrimSpace(label))
	for i, g := range s.GroupOrder {
		if strings.ToLower(g) == l {
			return i
		}
	}
	return -1
}

// Resolve checks the schema against the dataset's columns and fills in
// Continuous from numeric when it is empty. numeric lists the columns the
// loader typed as numbers, in dataset order.
func (s Schema) Resolve(columns, numeric []string) (Schema, error) {
	have := make(map[string]bool, len(columns))
	for _, c := range columns {
		have[c] = true
	}
	var missing []string
	if s.GroupField != "" && !have[s.GroupField] {
		missing = append(missing, s.GroupField)
	}
	for _, c := range s.Continuous {
		if !have[c] {
			missing = append(missing, c)
		}
	}
	if len(missing) > 0 {
		return s, fmt.Errorf("schema: columns missing from dataset: %s", strings.Join(missing, ", "))
	}
	out := s
	if len(s.Continuous) == 0 {
		for _, c := range numeric {
			if !s.IsCategorical(c) {
				out.Continuous = append(out.Continuous, c)
			}
		}
	}
	return out, nil
}
