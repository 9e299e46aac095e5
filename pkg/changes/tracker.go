package changes

import (
	"fmt"
)

type fieldChange struct {
	column string
	label  string
	old    *string
}

// Tracker applies payload values to a model and remembers which fields
// actually changed, with their previous values.
type Tracker struct {
	changes []fieldChange
}

// Set assigns val to *dst when it differs and records the old value.
func Set[T comparable](tr *Tracker, column, label string, dst *T, val T) {
	if *dst == val {
		return
	}
	old := format(*dst)
	tr.changes = append(tr.changes, fieldChange{column, label, &old})
	*dst = val
}

// SetPtr is Set for nullable columns. Two nil pointers, or two pointers to
// equal values, are the same.
func SetPtr[T comparable](tr *Tracker, column, label string, dst **T, val *T) {
	if equalPtr(*dst, val) {
		return
	}
	var old *string
	if *dst != nil {
		s := format(**dst)
		old = &s
	}
	tr.changes = append(tr.changes, fieldChange{column, label, old})
	if val == nil {
		*dst = nil
		return
	}
	v := *val
	*dst = &v
}

// Touch records a change that isn't a column of the row itself, such as a
// replaced genre list.
func (tr *Tracker) Touch(label, old string) {
	tr.changes = append(tr.changes, fieldChange{label: label, old: &old})
}

// Changed reports whether anything was recorded.
func (tr *Tracker) Changed() bool {
	return len(tr.changes) > 0
}

// Columns lists the changed columns for a bun update.
func (tr *Tracker) Columns() []string {
	cols := make([]string, 0, len(tr.changes))
	for _, ch := range tr.changes {
		if ch.column != "" {
			cols = append(cols, ch.column)
		}
	}
	return cols
}

// Labels lists the display labels of every change in order.
func (tr *Tracker) Labels() []string {
	labels := make([]string, 0, len(tr.changes))
	for _, ch := range tr.changes {
		labels = append(labels, ch.label)
	}
	return labels
}

func equalPtr[T comparable](a, b *T) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

func format(v any) string {
	return fmt.Sprint(v)
}
