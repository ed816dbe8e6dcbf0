// Package spec describes repository reads as immutable query values.
//
// A specification says what to select: a predicate, an optional ordering and
// an optional page. Repositories decide how to run it, either by rendering
// the SQL clauses or, for in-memory stores, through Apply.
package spec

import (
	"slices"
	"strings"
)

// Page is a 1-based page of Size items.
type Page struct {
	Size   int
	Number int
}

// Offset returns the number of items skipped before this page.
func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

// Valid reports whether both size and number are positive.
func (p Page) Valid() bool {
	return p.Size > 0 && p.Number > 0
}

// Clauses is the SQL side of a specification. Clause text uses '?'
// placeholders; slice arguments are expanded with sqlx.In by the caller.
type Clauses interface {
	Where() (clause string, args []any)
	OrderBy() string
	Page() (Page, bool)
}

// Specification couples the SQL clauses with an equivalent in-memory
// predicate and ordering over T.
type Specification[T any] interface {
	Clauses
	Match(item T) bool
	// Less orders items; it must report false for every pair when the
	// specification is unordered.
	Less(a, b T) bool
}

// Apply evaluates s over items: filter, stable sort, then page.
// The input slice is not modified.
func Apply[T any](items []T, s Specification[T]) []T {
	out := make([]T, 0, len(items))
	for _, it := range items {
		if s.Match(it) {
			out = append(out, it)
		}
	}

	slices.SortStableFunc(out, func(a, b T) int {
		switch {
		case s.Less(a, b):
			return -1
		case s.Less(b, a):
			return 1
		default:
			return 0
		}
	})

	if p, ok := s.Page(); ok {
		offset := p.Offset()
		if offset < 0 || offset >= len(out) {
			return out[:0]
		}
		end := offset + p.Size
		if end > len(out) {
			end = len(out)
		}
		out = out[offset:end]
	}
	return out
}

// SQL appends the WHERE, ORDER BY and LIMIT/OFFSET clauses of s to base.
func SQL(base string, s Clauses) (string, []any) {
	var b strings.Builder
	b.WriteString(base)

	where, args := s.Where()
	if where != "" {
		b.WriteString(" WHERE ")
		b.WriteString(where)
	}
	if order := s.OrderBy(); order != "" {
		b.WriteString(" ORDER BY ")
		b.WriteString(order)
	}
	if p, ok := s.Page(); ok {
		b.WriteString(" LIMIT ? OFFSET ?")
		args = append(args, p.Size, p.Offset())
	}
	return b.String(), args
}

// where joins non-empty conditions with AND.
type where struct {
	conds []string
	args  []any
}

func (w *where) add(cond string, args ...any) {
	w.conds = append(w.conds, cond)
	w.args = append(w.args, args...)
}

func (w *where) String() string {
	return strings.Join(w.conds, " AND ")
}
