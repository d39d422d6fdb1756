package gridify

import (
	"context"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
)

// CountCachePort lets GridifyQueryable/GridifyAsync skip the mandatory
// count query when an equivalent one was already answered recently. It is
// optional: callers that don't configure one via WithCountCache simply pay
// for one Count() per call.
type CountCachePort interface {
	Get(ctx context.Context, key string) (int64, bool, error)
	Set(ctx context.Context, key string, total int64) error
}

// MetricsPort lets GridifyQueryable/GridifyAsync report compile and query
// outcomes without the compiler depending on a concrete metrics backend.
// An Applier with no MetricsPort configured simply skips these calls.
type MetricsPort interface {
	RecordCompile(stage, outcome string, d time.Duration)
	RecordQuery(op string, d time.Duration)
}

// ApplierOption configures an Applier[T].
type ApplierOption[T any] func(*Applier[T])

// WithCountCache installs a CountCachePort that GridifyQueryable and
// GridifyAsync consult, keyed by filter+sort+direction, before issuing the
// mandatory pre-paging count. A cache miss or a nil port falls back to
// counting the source directly; a cache error is treated as a miss.
func WithCountCache[T any](port CountCachePort) ApplierOption[T] {
	return func(a *Applier[T]) { a.countCache = port }
}

// WithLogger installs a *zap.Logger the Applier uses to report compile and
// query materialisation failures. A nil logger (the default) is replaced
// with zap.NewNop(), matching the teacher's fallback for optional loggers.
func WithLogger[T any](logger *zap.Logger) ApplierOption[T] {
	return func(a *Applier[T]) {
		if logger == nil {
			logger = zap.NewNop()
		}
		a.logger = logger
	}
}

// WithMetrics installs a MetricsPort the Applier reports compile/query
// durations and outcomes to.
func WithMetrics[T any](m MetricsPort) ApplierOption[T] {
	return func(a *Applier[T]) { a.metrics = m }
}

// Applier is the Go realisation of QueryApplier: a stateless (beyond its
// optional count cache, logger, and metrics) composition point for
// filtering, ordering, and paging a Query[T].
type Applier[T any] struct {
	countCache CountCachePort
	logger     *zap.Logger
	metrics    MetricsPort
}

// NewApplier constructs an Applier[T] with the given options.
func NewApplier[T any](opts ...ApplierOption[T]) *Applier[T] {
	a := &Applier[T]{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func resolveMapper[T any](mapper *FieldMapper[T]) *FieldMapper[T] {
	if mapper != nil {
		return mapper
	}
	m := NewFieldMapper[T](false)
	GenerateMappings[T](m)
	return m
}

// ApplyFiltering compiles gq.Filter and composes it onto q via Where. An
// absent gq, empty filter, or whitespace-only filter returns q unchanged;
// the parser itself treats whitespace-only input as a syntax error, so the
// blank-vs-whitespace distinction has to be made here, before Parse sees it.
func ApplyFiltering[T any](q Query[T], gq *GridifyQuery, mapper *FieldMapper[T]) (Query[T], error) {
	filter := gq.filter()
	if strings.TrimSpace(filter) == "" {
		return q, nil
	}

	node, err := Parse(filter)
	if err != nil {
		return nil, err
	}

	m := resolveMapper(mapper)
	expr, err := CompilePredicate[T](node, m)
	if err != nil {
		return nil, err
	}
	return q.Where(expr), nil
}

// ApplyOrdering compiles gq.SortBy/gq.IsSortAsc and composes it onto q via
// OrderBy. An absent gq, empty sortBy, or whitespace-only sortBy returns q
// unchanged.
func ApplyOrdering[T any](q Query[T], gq *GridifyQuery, mapper *FieldMapper[T]) (Query[T], error) {
	sortBy := gq.sortBy()
	if strings.TrimSpace(sortBy) == "" {
		return q, nil
	}

	m := resolveMapper(mapper)
	ordering, err := CompileOrdering[T](sortBy, gq.isSortAsc(), m)
	if err != nil {
		return nil, err
	}
	if ordering == nil {
		return q, nil
	}
	return q.OrderBy(*ordering), nil
}

// ApplyPaging applies the skip/take window described by gq, substituting
// defaults for an absent gq or non-positive Page/PageSize.
func ApplyPaging[T any](q Query[T], gq *GridifyQuery) Query[T] {
	page := gq.effectivePage()
	size := gq.effectivePageSize()
	skip := (page - 1) * size
	return q.Skip(skip).Take(size)
}

// ApplyOrderingAndPaging composes ApplyOrdering then ApplyPaging.
func ApplyOrderingAndPaging[T any](q Query[T], gq *GridifyQuery, mapper *FieldMapper[T]) (Query[T], error) {
	q, err := ApplyOrdering[T](q, gq, mapper)
	if err != nil {
		return nil, err
	}
	return ApplyPaging[T](q, gq), nil
}

// ApplyEverything composes ApplyFiltering, ApplyOrdering, then ApplyPaging,
// in that order.
func ApplyEverything[T any](q Query[T], gq *GridifyQuery, mapper *FieldMapper[T]) (Query[T], error) {
	q, err := ApplyFiltering[T](q, gq, mapper)
	if err != nil {
		return nil, err
	}
	q, err = ApplyOrdering[T](q, gq, mapper)
	if err != nil {
		return nil, err
	}
	return ApplyPaging[T](q, gq), nil
}

// GridifyQueryable applies filtering and ordering, counts the filtered
// (pre-paging) source exactly once, then applies paging. The returned
// query is the paged window; totalItems is the filtered count.
func (a *Applier[T]) GridifyQueryable(ctx context.Context, q Query[T], gq *GridifyQuery, mapper *FieldMapper[T]) (Query[T], int64, error) {
	start := time.Now()
	q, err := ApplyFiltering[T](q, gq, mapper)
	a.recordCompile("filter", err, time.Since(start))
	if err != nil {
		a.logger.Warn("gridify: filter compilation failed", zap.String("filter", gq.filter()), zap.Error(err))
		return nil, 0, err
	}

	start = time.Now()
	q, err = ApplyOrdering[T](q, gq, mapper)
	a.recordCompile("ordering", err, time.Since(start))
	if err != nil {
		a.logger.Warn("gridify: ordering compilation failed", zap.String("sortBy", gq.sortBy()), zap.Error(err))
		return nil, 0, err
	}

	queryStart := time.Now()
	total, err := a.count(ctx, q, gq)
	a.recordQuery("count", time.Since(queryStart))
	if err != nil {
		a.logger.Warn("gridify: count query failed", zap.Error(err))
		return nil, 0, err
	}

	return ApplyPaging[T](q, gq), total, nil
}

// GridifyAsync is GridifyQueryable plus materialisation: it enumerates the
// paged window through the source's async materialisation capability and
// returns the complete Paging[T] envelope.
func (a *Applier[T]) GridifyAsync(ctx context.Context, q Query[T], gq *GridifyQuery, mapper *FieldMapper[T]) (*Paging[T], error) {
	paged, total, err := a.GridifyQueryable(ctx, q, gq, mapper)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	items, err := paged.ToListAsync(ctx)
	a.recordQuery("list", time.Since(start))
	if err != nil {
		a.logger.Warn("gridify: query materialisation failed", zap.Error(err))
		return nil, err
	}

	return &Paging[T]{Items: items, TotalItems: total}, nil
}

// GridifyQueryable is the free-function form of Applier[T].GridifyQueryable
// for callers with no need for a count cache, logger, or metrics.
func GridifyQueryable[T any](ctx context.Context, q Query[T], gq *GridifyQuery, mapper *FieldMapper[T]) (Query[T], int64, error) {
	a := Applier[T]{logger: zap.NewNop()}
	return a.GridifyQueryable(ctx, q, gq, mapper)
}

// GridifyAsync is the free-function form of Applier[T].GridifyAsync for
// callers with no need for a count cache, logger, or metrics.
func GridifyAsync[T any](ctx context.Context, q Query[T], gq *GridifyQuery, mapper *FieldMapper[T]) (*Paging[T], error) {
	a := Applier[T]{logger: zap.NewNop()}
	return a.GridifyAsync(ctx, q, gq, mapper)
}

// recordCompile reports a filter/ordering compilation outcome to the
// configured MetricsPort, if any.
func (a *Applier[T]) recordCompile(stage string, err error, d time.Duration) {
	if a.metrics == nil {
		return
	}
	a.metrics.RecordCompile(stage, compileOutcome(err), d)
}

func (a *Applier[T]) recordQuery(op string, d time.Duration) {
	if a.metrics == nil {
		return
	}
	a.metrics.RecordQuery(op, d)
}

// compileOutcome classifies a compile error into the outcome labels
// reported via MetricsPort.RecordCompile.
func compileOutcome(err error) string {
	if err == nil {
		return "ok"
	}
	var unknown *UnknownFieldError
	var unsupported *UnsupportedOperatorError
	var parse *ParseError
	switch {
	case errors.As(err, &unknown):
		return "unknown_field"
	case errors.As(err, &unsupported):
		return "unsupported_operator"
	case errors.As(err, &parse):
		return "parse_error"
	default:
		return "error"
	}
}

func (a *Applier[T]) count(ctx context.Context, q Query[T], gq *GridifyQuery) (int64, error) {
	if a.countCache == nil {
		return q.Count(ctx)
	}

	key := countCacheKey(gq)
	if total, hit, err := a.countCache.Get(ctx, key); err == nil && hit {
		return total, nil
	}

	total, err := q.Count(ctx)
	if err != nil {
		return 0, err
	}
	_ = a.countCache.Set(ctx, key, total)
	return total, nil
}

// countCacheKey identifies the filtered, ordered (but not yet paged)
// query a count belongs to. It deliberately excludes Page/PageSize: the
// same count serves every page of the same filter+sort.
func countCacheKey(gq *GridifyQuery) string {
	asc := "1"
	if !gq.isSortAsc() {
		asc = "0"
	}
	return gq.filter() + "\x00" + gq.sortBy() + "\x00" + asc
}
