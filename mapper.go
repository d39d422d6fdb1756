package gridify

import (
	"reflect"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"
)

// entry is the type-erased (on V, not on T) mapping-table row backing one
// field name. AddMap captures V-specific behaviour into these closures at
// registration time, so FieldMapper[T] itself never needs a second type
// parameter. Go has no generic methods, so a second parameter would have
// to live on a free function anyway (see AddMap).
type entry[T any] struct {
	column    string
	kind      fieldKind
	get       func(T) (any, bool)      // boxed LHS value, present
	normalize func(any) any            // optional; applied to LHS, and to RHS iff symmetric
	symmetric bool
	parse     func(string) (any, bool) // RHS literal -> boxed V, ok
	equal     func(a, b any) bool
	compare   func(a, b any) int // only valid when kind.orderable()
	strOf     func(any) (string, bool)
	member    func(collection any, needle string) bool
}

// FieldMapper maps case-configurable DSL field names to typed accessors on
// T. It is built once per record type and reused. It holds no lock:
// AddMap, RemoveMap and GenerateMappings must not run concurrently with each
// other or with lookups, so callers that mutate a shared mapper must
// serialise access themselves.
type FieldMapper[T any] struct {
	caseSensitive bool
	entries       map[string]*entry[T]
}

// NewFieldMapper creates an empty mapper. caseSensitive controls whether
// field-name lookups use ordinal or ASCII case-insensitive equality.
func NewFieldMapper[T any](caseSensitive bool) *FieldMapper[T] {
	return &FieldMapper[T]{caseSensitive: caseSensitive, entries: make(map[string]*entry[T])}
}

func (m *FieldMapper[T]) key(name string) string {
	if m.caseSensitive {
		return name
	}
	return strings.ToLower(name)
}

// HasMap reports whether name resolves under the mapper's case policy.
func (m *FieldMapper[T]) HasMap(name string) bool {
	_, ok := m.entries[m.key(name)]
	return ok
}

// GetMap returns the column name registered for name, if any. It is a
// read-only view of the mapping table; the typed accessor/parser/compare
// closures backing an entry stay internal to the package.
func (m *FieldMapper[T]) GetMap(name string) (column string, ok bool) {
	e, ok := m.entries[m.key(name)]
	if !ok {
		return "", false
	}
	return e.column, true
}

// RemoveMap unregisters name, a no-op if it was never registered.
func (m *FieldMapper[T]) RemoveMap(name string) {
	delete(m.entries, m.key(name))
}

func (m *FieldMapper[T]) lookup(name string) (*entry[T], bool) {
	e, ok := m.entries[m.key(name)]
	return e, ok
}

func (m *FieldMapper[T]) set(name string, e *entry[T]) {
	m.entries[m.key(name)] = e
}

// MapOption configures an AddMap call for a field whose accessor targets V.
type MapOption[V any] func(*mapOptions[V])

type mapOptions[V any] struct {
	normalize func(V) V
	symmetric bool
	column    string
}

// WithNormalizer applies fn to the accessor's result before comparison.
// fn is NOT applied to the RHS literal unless WithSymmetricNormalizer is
// also given. This asymmetry is intentional: it lets a caller implement
// case-insensitive matching by upper-casing only the LHS and writing
// filter literals already in that case.
func WithNormalizer[V any](fn func(V) V) MapOption[V] {
	return func(o *mapOptions[V]) { o.normalize = fn }
}

// WithSymmetricNormalizer applies fn to both the accessor's result and the
// parsed RHS literal, for callers who want the normalizer applied
// consistently on both sides of the comparison.
func WithSymmetricNormalizer[V any](fn func(V) V) MapOption[V] {
	return func(o *mapOptions[V]) { o.normalize = fn; o.symmetric = true }
}

// WithColumn overrides the column name a database adapter should use for
// this field; defaults to the snake_case of the Go field name used at
// generateMappings time, or to the DSL name itself for AddMap.
func WithColumn[V any](column string) MapOption[V] {
	return func(o *mapOptions[V]) { o.column = column }
}

// AddMap registers or overwrites (last-write-wins) the mapping from name to
// accessor. Go disallows generic methods, so the V type parameter has to
// live on this free function rather than on *FieldMapper[T].
func AddMap[T any, V any](m *FieldMapper[T], name string, accessor func(T) V, opts ...MapOption[V]) {
	var o mapOptions[V]
	for _, opt := range opts {
		opt(&o)
	}
	if o.column == "" {
		o.column = name
	}

	var zero V
	kind := kindOf(any(zero))

	normalizeTyped := o.normalize
	normalizeAny := func(v any) any {
		if normalizeTyped == nil {
			return v
		}
		typed, ok := v.(V)
		if !ok {
			return v
		}
		return normalizeTyped(typed)
	}

	get := func(rec T) (any, bool) {
		v := accessor(rec)
		return unwrapPresence(v)
	}

	e := &entry[T]{
		column:    o.column,
		kind:      kind,
		get:       get,
		normalize: normalizeAny,
		symmetric: o.symmetric,
		parse:     parserFor(kind),
		equal:     equalFor(kind),
		compare:   compareFor(kind),
		strOf:     stringOfFor(kind),
		member:    memberFor(kind),
	}
	m.set(name, e)
}

// unwrapPresence dereferences a pointer-typed accessor result, reporting
// absence for a nil pointer. Non-pointer results are always present.
func unwrapPresence(v any) (any, bool) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr {
		return v, true
	}
	if rv.IsNil() {
		return nil, false
	}
	return rv.Elem().Interface(), true
}

// GenerateMappings reflects over T's exported fields and registers
// name -> (r -> r.name) for each directly accessible value field; it never
// recurses into nested structs, since DSL field names are atoms, not
// paths. An existing entry with the same name, including one registered by
// AddMap, is overwritten (last write wins); call GenerateMappings before any
// manual AddMap calls if you want AddMap to be able to override a reflected
// mapping.
func GenerateMappings[T any](m *FieldMapper[T]) {
	var zero T
	rt := reflect.TypeOf(zero)
	if rt == nil {
		return
	}
	for rt.Kind() == reflect.Ptr {
		rt = rt.Elem()
	}
	if rt.Kind() != reflect.Struct {
		return
	}

	for i := 0; i < rt.NumField(); i++ {
		f := rt.Field(i)
		if !f.IsExported() {
			continue
		}
		if f.Type.Kind() == reflect.Struct && f.Type != reflect.TypeOf(time.Time{}) && f.Type != reflect.TypeOf(uuid.UUID{}) {
			continue // no recursion into nested records
		}

		name := f.Name
		column := snakeCase(name)
		kind := kindOfReflectType(f.Type)
		idx := i

		get := func(rec T) (any, bool) {
			rv := reflect.ValueOf(rec)
			for rv.Kind() == reflect.Ptr {
				if rv.IsNil() {
					return nil, false
				}
				rv = rv.Elem()
			}
			fv := rv.Field(idx)
			return unwrapPresence(fv.Interface())
		}

		e := &entry[T]{
			column:  column,
			kind:    kind,
			get:     get,
			parse:   parserFor(kind),
			equal:   equalFor(kind),
			compare: compareFor(kind),
			strOf:   stringOfFor(kind),
			member:  memberFor(kind),
		}
		m.set(name, e)
	}
}

func kindOfReflectType(t reflect.Type) fieldKind {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch {
	case t == reflect.TypeOf(uuid.UUID{}):
		return kindUUID
	case t == reflect.TypeOf(time.Time{}):
		return kindTime
	}
	switch t.Kind() {
	case reflect.String:
		return kindString
	case reflect.Bool:
		return kindBool
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return kindNumeric
	case reflect.Slice:
		if t.Elem().Kind() == reflect.String {
			return kindStringSlice
		}
	}
	return kindOpaque
}

// snakeCase converts an exported Go field name (PascalCase) to the
// snake_case column name a database adapter would use by convention.
func snakeCase(s string) string {
	runes := []rune(s)
	var b strings.Builder
	for i, r := range runes {
		if unicode.IsUpper(r) {
			// A run of capitals is one word ("ID" -> "id"); a new word starts
			// after a lower-case rune or at the last capital before one
			// ("HTTPServer" -> "http_server").
			if i > 0 && (!unicode.IsUpper(runes[i-1]) || (i+1 < len(runes) && unicode.IsLower(runes[i+1]))) {
				b.WriteByte('_')
			}
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(r)
		}
	}
	return b.String()
}
