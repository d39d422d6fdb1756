// Package gormquery implements gridify.Query[T] as a deferred gorm.DB
// query. A compiled gridify.Expr is translated into a clause.Expression tree so
// the filter is pushed down as SQL rather than evaluated in the process,
// the same way the compiler's own doc comments describe a database
// adapter's job.
package gormquery

import (
	"context"
	"fmt"

	"github.com/uniedit/gridify"
	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Query is a gorm-backed, deferred gridify.Query[T].
type Query[T any] struct {
	db     *gorm.DB
	logger *zap.Logger
}

// Option configures a Query constructed by New.
type Option func(*queryOptions)

type queryOptions struct {
	logger *zap.Logger
}

// WithLogger attaches a *zap.Logger the adapter uses to report predicate
// translation fallbacks. A nil logger is replaced with zap.NewNop().
func WithLogger(logger *zap.Logger) Option {
	return func(o *queryOptions) { o.logger = logger }
}

// New wraps db (already scoped to T's table, e.g. via db.Model(&T{})) as a
// gridify.Query[T].
func New[T any](db *gorm.DB, opts ...Option) *Query[T] {
	o := queryOptions{logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	return &Query[T]{db: db, logger: o.logger}
}

func (q *Query[T]) Where(expr gridify.Expr) gridify.Query[T] {
	clauseExpr, ok := toClause(expr)
	if !ok {
		q.logger.Warn("gormquery: predicate could not be translated to SQL, query executed unfiltered",
			zap.String("type", fmt.Sprintf("%T", expr)))
		return q
	}
	return &Query[T]{db: q.db.Clauses(clause.Where{Exprs: []clause.Expression{clauseExpr}}), logger: q.logger}
}

func (q *Query[T]) OrderBy(ordering gridify.Ordering) gridify.Query[T] {
	return &Query[T]{db: q.db.Order(clause.OrderByColumn{
		Column: clause.Column{Name: ordering.Column},
		Desc:   !ordering.Asc,
	}), logger: q.logger}
}

func (q *Query[T]) Skip(n int) gridify.Query[T] {
	return &Query[T]{db: q.db.Offset(n), logger: q.logger}
}

func (q *Query[T]) Take(n int) gridify.Query[T] {
	return &Query[T]{db: q.db.Limit(n), logger: q.logger}
}

func (q *Query[T]) Count(ctx context.Context) (int64, error) {
	var total int64
	err := q.db.WithContext(ctx).Count(&total).Error
	return total, err
}

func (q *Query[T]) ToListAsync(ctx context.Context) ([]T, error) {
	var out []T
	err := q.db.WithContext(ctx).Find(&out).Error
	return out, err
}

// toClause lowers a compiled Expr into a gorm clause.Expression tree. A
// collapsed leaf (a failed RHS parse) becomes a tautology or a
// contradiction expressed in SQL, so the SQL result stays consistent with
// the in-memory evaluator without a round trip through Go.
func toClause(e gridify.Expr) (clause.Expression, bool) {
	switch v := e.(type) {
	case gridify.CondExpr:
		return condClause(v), true
	case gridify.AndExpr:
		lhs, lok := toClause(v.LHS)
		rhs, rok := toClause(v.RHS)
		if !lok || !rok {
			return nil, false
		}
		return clause.And(lhs, rhs), true
	case gridify.OrExpr:
		lhs, lok := toClause(v.LHS)
		rhs, rok := toClause(v.RHS)
		if !lok || !rok {
			return nil, false
		}
		return clause.Or(lhs, rhs), true
	default:
		return nil, false
	}
}

func condClause(c gridify.CondExpr) clause.Expression {
	if c.Collapse != nil {
		if *c.Collapse {
			return clause.Expr{SQL: "1 = 1"}
		}
		return clause.Expr{SQL: "1 = 0"}
	}

	col := clause.Column{Name: c.Column}

	switch c.Op {
	case gridify.OpEq:
		return clause.Eq{Column: col, Value: c.Value}
	case gridify.OpNotEq:
		return clause.Neq{Column: col, Value: c.Value}
	case gridify.OpGt:
		return clause.Gt{Column: col, Value: c.Value}
	case gridify.OpLt:
		return clause.Lt{Column: col, Value: c.Value}
	case gridify.OpGtEq:
		return clause.Gte{Column: col, Value: c.Value}
	case gridify.OpLtEq:
		return clause.Lte{Column: col, Value: c.Value}
	case gridify.OpContains:
		return clause.Like{Column: col, Value: fmt.Sprintf("%%%v%%", c.Value)}
	case gridify.OpNotContains:
		return clause.Not(clause.Like{Column: col, Value: fmt.Sprintf("%%%v%%", c.Value)})
	case gridify.OpStartsWith:
		return clause.Like{Column: col, Value: fmt.Sprintf("%v%%", c.Value)}
	case gridify.OpEndsWith:
		return clause.Like{Column: col, Value: fmt.Sprintf("%%%v", c.Value)}
	default:
		return clause.Expr{SQL: "1 = 0"}
	}
}
