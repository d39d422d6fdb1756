package gridify

import "context"

// Query is the capability set the applier requires from any query source,
// in-memory or deferred against a database backend. Every method returns a
// new Query[T]; implementations must not mutate the receiver.
type Query[T any] interface {
	Where(expr Expr) Query[T]
	OrderBy(ordering Ordering) Query[T]
	Skip(n int) Query[T]
	Take(n int) Query[T]
	Count(ctx context.Context) (int64, error)
	ToListAsync(ctx context.Context) ([]T, error)
}
