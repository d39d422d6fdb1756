// Package memquery implements gridify.Query[T] over an in-memory slice. It
// is the reference query source: every operation is a plain slice
// transform, and Where/OrderBy are only evaluated when the query is
// finally materialised via Count or ToListAsync, matching the deferred
// evaluation semantics an adapter over a real query builder would have.
package memquery

import (
	"context"
	"sort"

	"github.com/uniedit/gridify"
)

// Query is an in-memory, deferred gridify.Query[T] over a fixed record
// set and its field mapper.
type Query[T any] struct {
	records []T
	mapper  *gridify.FieldMapper[T]

	filters  []gridify.Expr
	ordering *gridify.Ordering
	skip     int
	take     int // 0 means unbounded
}

// New wraps records as a gridify.Query[T]. mapper is required: Where and
// OrderBy both need it to resolve compiled field names back to accessors.
func New[T any](records []T, mapper *gridify.FieldMapper[T]) *Query[T] {
	return &Query[T]{records: records, mapper: mapper}
}

func (q *Query[T]) clone() *Query[T] {
	next := *q
	next.filters = append([]gridify.Expr(nil), q.filters...)
	return &next
}

func (q *Query[T]) Where(expr gridify.Expr) gridify.Query[T] {
	next := q.clone()
	next.filters = append(next.filters, expr)
	return next
}

func (q *Query[T]) OrderBy(ordering gridify.Ordering) gridify.Query[T] {
	next := q.clone()
	o := ordering
	next.ordering = &o
	return next
}

func (q *Query[T]) Skip(n int) gridify.Query[T] {
	next := q.clone()
	next.skip = n
	return next
}

func (q *Query[T]) Take(n int) gridify.Query[T] {
	next := q.clone()
	next.take = n
	return next
}

func (q *Query[T]) materializeFiltered() []T {
	out := make([]T, 0, len(q.records))
	for _, rec := range q.records {
		if q.matches(rec) {
			out = append(out, rec)
		}
	}
	if q.ordering != nil {
		less := gridify.LessFunc[T](*q.ordering, q.mapper)
		sort.SliceStable(out, func(i, j int) bool { return less(out[i], out[j]) })
	}
	return out
}

func (q *Query[T]) matches(rec T) bool {
	for _, f := range q.filters {
		if !gridify.Eval[T](f, q.mapper)(rec) {
			return false
		}
	}
	return true
}

func (q *Query[T]) Count(ctx context.Context) (int64, error) {
	return int64(len(q.materializeFiltered())), nil
}

func (q *Query[T]) ToListAsync(ctx context.Context) ([]T, error) {
	filtered := q.materializeFiltered()

	start := q.skip
	if start > len(filtered) {
		start = len(filtered)
	}
	end := len(filtered)
	if q.take > 0 && start+q.take < end {
		end = start + q.take
	}

	windowed := make([]T, end-start)
	copy(windowed, filtered[start:end])
	return windowed, nil
}
