package listing

import (
	"cmp"
	"slices"
	"strings"
)

type Direction int

const (
	Ascending Direction = iota
	Descending
)

func (d Direction) String() string {
	if d == Descending {
		return "desc"
	}
	return "asc"
}

// Sort is a (field, direction) sort key. The zero value means unsorted.
type Sort struct {
	Field string
	Dir   Direction
}

// Toggle returns the key after the user selects field: the same field flips
// direction, a different field starts ascending.
func (s Sort) Toggle(field string) Sort {
	if s.Field == field {
		if s.Dir == Ascending {
			return Sort{Field: field, Dir: Descending}
		}
		return Sort{Field: field, Dir: Ascending}
	}
	return Sort{Field: field, Dir: Ascending}
}

// Field describes one column of T for searching and sorting.
type Field[T any] struct {
	Name string
	// Text is the searchable representation. Nil means not searchable.
	Text func(T) string
	// Compare is a total order. Nil falls back to a case-insensitive
	// comparison of Text.
	Compare func(a, b T) int
}

// Schema is the set of fields a view can search and sort by.
type Schema[T any] struct {
	fields []Field[T]
}

func NewSchema[T any](fields ...Field[T]) *Schema[T] {
	return &Schema[T]{fields: fields}
}

func (s *Schema[T]) field(name string) (Field[T], bool) {
	for _, f := range s.fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field[T]{}, false
}

// Fields lists the field names in declaration order.
func (s *Schema[T]) Fields() []string {
	out := make([]string, 0, len(s.fields))
	for _, f := range s.fields {
		out = append(out, f.Name)
	}
	return out
}

// Match reports whether any of the named text fields contains needle,
// ignoring case. With no names every searchable field is checked. An
// empty needle matches everything.
func (s *Schema[T]) Match(item T, needle string, in ...string) bool {
	needle = strings.ToLower(strings.TrimSpace(needle))
	if needle == "" {
		return true
	}
	for _, f := range s.fields {
		if f.Text == nil {
			continue
		}
		if len(in) > 0 && !slices.Contains(in, f.Name) {
			continue
		}
		if strings.Contains(strings.ToLower(f.Text(item)), needle) {
			return true
		}
	}
	return false
}

// Derive filters items by needle and stable-sorts the survivors by key.
// The input slice is never modified. An unknown or empty sort field keeps
// the input order.
func (s *Schema[T]) Derive(items []T, needle string, key Sort, in ...string) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if s.Match(it, needle, in...) {
			out = append(out, it)
		}
	}

	f, ok := s.field(key.Field)
	if !ok {
		return out
	}
	compare := f.Compare
	if compare == nil {
		if f.Text == nil {
			return out
		}
		compare = func(a, b T) int {
			return cmp.Compare(strings.ToLower(f.Text(a)), strings.ToLower(f.Text(b)))
		}
	}
	if key.Dir == Descending {
		asc := compare
		compare = func(a, b T) int { return asc(b, a) }
	}
	slices.SortStableFunc(out, compare)
	return out
}
