package gridify

import "strings"

// Expr is a compiled, backend-agnostic filter expression: pure data, no
// closures. A Query[T] implementation lowers it into whatever its backend
// needs. Eval in this file does that for in-memory evaluation; an adapter
// targeting a query builder does the equivalent against its own clause
// language.
type Expr interface {
	expr()
}

// CondExpr is a single compiled comparison. Value is the parsed RHS
// literal as boxed by the entry's kind parser (float64 for every numeric
// kind, uuid.UUID, time.Time, bool or string otherwise), or nil when
// Collapse is non-nil. Collapse, when non-nil, means the RHS literal
// failed to parse and this leaf is a compile-time constant: *Collapse is
// the constant result.
type CondExpr struct {
	Field    string
	Column   string
	Op       CmpOp
	Value    any
	Collapse *bool
}

func (CondExpr) expr() {}

// AndExpr is a strictly binary, short-circuiting conjunction.
type AndExpr struct {
	LHS, RHS Expr
}

func (AndExpr) expr() {}

// OrExpr is a strictly binary, short-circuiting disjunction.
type OrExpr struct {
	LHS, RHS Expr
}

func (OrExpr) expr() {}

// Eval lowers a compiled Expr into an in-memory predicate over T, by
// re-resolving each leaf's field against mapper to recover the kind-specific
// comparator the leaf's Op needs. It is the in-memory counterpart to a
// database adapter translating the same Expr into its own clause language.
func Eval[T any](e Expr, mapper *FieldMapper[T]) func(T) bool {
	switch v := e.(type) {
	case CondExpr:
		return evalCond(v, mapper)
	case AndExpr:
		lhs := Eval[T](v.LHS, mapper)
		rhs := Eval[T](v.RHS, mapper)
		return func(rec T) bool { return lhs(rec) && rhs(rec) }
	case OrExpr:
		lhs := Eval[T](v.LHS, mapper)
		rhs := Eval[T](v.RHS, mapper)
		return func(rec T) bool { return lhs(rec) || rhs(rec) }
	default:
		return func(T) bool { return true }
	}
}

func evalCond[T any](c CondExpr, mapper *FieldMapper[T]) func(T) bool {
	if c.Collapse != nil {
		result := *c.Collapse
		return func(T) bool { return result }
	}

	e, ok := mapper.lookup(c.Field)
	if !ok {
		return func(T) bool { return false }
	}

	return func(rec T) bool {
		lhs, present := e.get(rec)
		if !present {
			return nullHandling(c.Op)
		}
		if e.normalize != nil {
			lhs = e.normalize(lhs)
		}
		rhs := c.Value
		if e.normalize != nil && e.symmetric {
			rhs = e.normalize(rhs)
		}

		switch c.Op {
		case OpEq:
			return e.equal(lhs, rhs)
		case OpNotEq:
			return !e.equal(lhs, rhs)
		case OpGt:
			return e.compare(lhs, rhs) > 0
		case OpLt:
			return e.compare(lhs, rhs) < 0
		case OpGtEq:
			return e.compare(lhs, rhs) >= 0
		case OpLtEq:
			return e.compare(lhs, rhs) <= 0
		case OpContains:
			if e.kind.stringLike() {
				s, _ := e.strOf(lhs)
				needle, _ := rhs.(string)
				return strings.Contains(s, needle)
			}
			needle, _ := rhs.(string)
			return e.member(lhs, needle)
		case OpNotContains:
			if e.kind.stringLike() {
				s, _ := e.strOf(lhs)
				needle, _ := rhs.(string)
				return !strings.Contains(s, needle)
			}
			needle, _ := rhs.(string)
			return !e.member(lhs, needle)
		case OpStartsWith:
			s, _ := e.strOf(lhs)
			prefix, _ := rhs.(string)
			return strings.HasPrefix(s, prefix)
		case OpEndsWith:
			s, _ := e.strOf(lhs)
			suffix, _ := rhs.(string)
			return strings.HasSuffix(s, suffix)
		default:
			return false
		}
	}
}

// nullHandling decides the comparison result when the field accessor
// can't produce a value: everything is false except "not equal", which
// treats a missing value as always distinct.
func nullHandling(op CmpOp) bool {
	return op == OpNotEq
}
