package gridify

// PredicateCompiler compiles a parsed expression tree into a backend-
// agnostic Expr, resolving field names against a FieldMapper[T] along the
// way. The zero value is ready to use; it carries no state of its own.
type PredicateCompiler[T any] struct{}

// CompilePredicate is the free-function form of PredicateCompiler[T].Compile,
// convenient when a caller has no other use for the compiler value.
func CompilePredicate[T any](node Node, mapper *FieldMapper[T]) (Expr, error) {
	var c PredicateCompiler[T]
	return c.Compile(node, mapper)
}

// Compile resolves the field, checks operator support, then parses the RHS
// literal (with value-collapse on failure). Normalisation is not applied
// here; Eval applies it when the predicate is evaluated.
func (PredicateCompiler[T]) Compile(node Node, mapper *FieldMapper[T]) (Expr, error) {
	switch n := node.(type) {
	case Compare:
		return compileCompare(n, mapper)
	case And:
		lhs, err := (PredicateCompiler[T]{}).Compile(n.LHS, mapper)
		if err != nil {
			return nil, err
		}
		rhs, err := (PredicateCompiler[T]{}).Compile(n.RHS, mapper)
		if err != nil {
			return nil, err
		}
		return AndExpr{LHS: lhs, RHS: rhs}, nil
	case Or:
		lhs, err := (PredicateCompiler[T]{}).Compile(n.LHS, mapper)
		if err != nil {
			return nil, err
		}
		rhs, err := (PredicateCompiler[T]{}).Compile(n.RHS, mapper)
		if err != nil {
			return nil, err
		}
		return OrExpr{LHS: lhs, RHS: rhs}, nil
	default:
		return nil, &ParseError{Message: "unrecognised expression node"}
	}
}

func compileCompare[T any](n Compare, mapper *FieldMapper[T]) (Expr, error) {
	e, ok := mapper.lookup(n.Field)
	if !ok {
		return nil, &UnknownFieldError{Field: n.Field}
	}

	if !operatorSupported(e.kind, n.Op) {
		return nil, &UnsupportedOperatorError{Field: n.Field, Op: n.Op}
	}

	value, ok := e.parse(n.RHS)
	if !ok {
		collapse := n.Op.negatesToTrueOnCollapse()
		return CondExpr{Field: n.Field, Column: e.column, Op: n.Op, Collapse: &collapse}, nil
	}

	return CondExpr{Field: n.Field, Column: e.column, Op: n.Op, Value: value}, nil
}

// operatorSupported reports whether op can ever succeed against a value of
// kind, independent of any particular RHS literal. This is checked before
// RHS parsing so that, e.g., Contains against a boolean field surfaces an
// UnsupportedOperator rather than a silently collapsed predicate.
func operatorSupported(k fieldKind, op CmpOp) bool {
	switch op {
	case OpEq, OpNotEq:
		return k != kindOpaque
	case OpGt, OpLt, OpGtEq, OpLtEq:
		return k.orderable()
	case OpContains, OpNotContains:
		return k.stringLike() || k.membershipLike()
	case OpStartsWith, OpEndsWith:
		return k.stringLike()
	default:
		return false
	}
}
