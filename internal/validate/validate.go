package validate

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrForbiddenField matches selections that include a categorical column.
	ErrForbiddenField = errors.New("forbidden field")
	// ErrInsufficientSelection matches selections with too few or blank fields.
	ErrInsufficientSelection = errors.New("insufficient selection")
)

// ForbiddenFieldError lists every denylisted field in a selection.
type ForbiddenFieldError struct {
	Fields []string
}

func (e *ForbiddenFieldError) Error() string {
	return fmt.Sprintf("Error: You selected categorical variables: %s. Please select only continuous variables.", strings.Join(e.Fields, ", "))
}

func (e *ForbiddenFieldError) Is(target error) bool { return target == ErrForbiddenField }

// InsufficientSelectionError reports a selection below the required count.
type InsufficientSelectionError struct {
	Min int
	Got int
}

func (e *InsufficientSelectionError) Error() string {
	noun := "variables"
	if e.Min == 1 {
		noun = "variable"
	}
	return fmt.Sprintf("Error: Please select at least %d %s.", e.Min, noun)
}

func (e *InsufficientSelectionError) Is(target error) bool { return target == ErrInsufficientSelection }

// Fields checks a user selection against the categorical denylist and the
// minimum field count. On success the selection is returned unchanged.
func Fields(selected []string, forbidden []string, minCount int) ([]string, error) {
	deny := make(map[string]bool, len(forbidden))
	for _, f := range forbidden {
		deny[f] = true
	}
	var bad []string
	seen := map[string]bool{}
	for _, f := range selected {
		if deny[f] && !seen[f] {
			seen[f] = true
			bad = append(bad, f)
		}
	}
	if len(bad) > 0 {
		return nil, &ForbiddenFieldError{Fields: bad}
	}
	got := 0
	for _, f := range selected {
		if strings.TrimSpace(f) == "" {
			return nil, &InsufficientSelectionError{Min: minCount, Got: got}
		}
		got++
	}
	if got < minCount {
		return nil, &InsufficientSelectionError{Min: minCount, Got: got}
	}
	return selected, nil
}
