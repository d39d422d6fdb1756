package gridify

// Ordering is a compiled sort instruction: pure data, like Expr, so a
// query source can lower it into whatever its backend needs (an in-memory
// less-func, a SQL ORDER BY clause, ...).
type Ordering struct {
	Field  string
	Column string
	Asc    bool
}

// OrderingCompiler resolves a sortBy field name against a FieldMapper[T].
// The zero value is ready to use.
type OrderingCompiler[T any] struct{}

// CompileOrdering is the free-function form of
// OrderingCompiler[T].Compile.
func CompileOrdering[T any](sortBy string, isSortAsc bool, mapper *FieldMapper[T]) (*Ordering, error) {
	var c OrderingCompiler[T]
	return c.Compile(sortBy, isSortAsc, mapper)
}

// Compile turns a sortBy field name into an Ordering: an empty sortBy
// means identity (no ordering); an unresolvable one is UnknownField.
func (OrderingCompiler[T]) Compile(sortBy string, isSortAsc bool, mapper *FieldMapper[T]) (*Ordering, error) {
	if sortBy == "" {
		return nil, nil
	}
	e, ok := mapper.lookup(sortBy)
	if !ok {
		return nil, &UnknownFieldError{Field: sortBy}
	}
	return &Ordering{Field: sortBy, Column: e.column, Asc: isSortAsc}, nil
}

// LessFunc builds an in-memory less-func over T from the ordering, for
// query sources that sort via comparison rather than a native ORDER BY.
func LessFunc[T any](o Ordering, mapper *FieldMapper[T]) func(a, b T) bool {
	e, ok := mapper.lookup(o.Field)
	if !ok {
		return func(T, T) bool { return false }
	}
	return func(a, b T) bool {
		av, _ := e.get(a)
		bv, _ := e.get(b)
		c := e.compare(av, bv)
		if o.Asc {
			return c < 0
		}
		return c > 0
	}
}
