package gridify

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type record struct {
	Name      string
	Age       int
	Active    bool
	ID        uuid.UUID
	CreatedAt time.Time
	Tags      []string
}

func newRecordMapper() *FieldMapper[record] {
	m := NewFieldMapper[record](false)
	AddMap(m, "name", func(r record) string { return r.Name })
	AddMap(m, "age", func(r record) int { return r.Age })
	AddMap(m, "active", func(r record) bool { return r.Active })
	AddMap(m, "id", func(r record) uuid.UUID { return r.ID })
	AddMap(m, "createdAt", func(r record) time.Time { return r.CreatedAt })
	AddMap(m, "tags", func(r record) []string { return r.Tags })
	return m
}

func compileAndEval(t *testing.T, filter string, rec record) bool {
	t.Helper()
	node, err := Parse(filter)
	require.NoError(t, err)
	expr, err := CompilePredicate[record](node, newRecordMapper())
	require.NoError(t, err)
	return Eval[record](expr, newRecordMapper())(rec)
}

func TestCompileEqString(t *testing.T) {
	assert.True(t, compileAndEval(t, "name==John", record{Name: "John"}))
	assert.False(t, compileAndEval(t, "name==John", record{Name: "Jane"}))
}

func TestCompileOrderedNumeric(t *testing.T) {
	assert.True(t, compileAndEval(t, "age>>7", record{Age: 8}))
	assert.False(t, compileAndEval(t, "age>>7", record{Age: 7}))
	assert.True(t, compileAndEval(t, "age>=7", record{Age: 7}))
}

func TestCompileContainsStartsEnds(t *testing.T) {
	assert.True(t, compileAndEval(t, "name=*oh", record{Name: "John"}))
	assert.True(t, compileAndEval(t, "name^=Jo", record{Name: "John"}))
	assert.True(t, compileAndEval(t, "name$=hn", record{Name: "John"}))
	assert.False(t, compileAndEval(t, "name=*xyz", record{Name: "John"}))
}

func TestCompileMembershipOnStringSlice(t *testing.T) {
	assert.True(t, compileAndEval(t, "tags=*red", record{Tags: []string{"red", "blue"}}))
	assert.False(t, compileAndEval(t, "tags=*green", record{Tags: []string{"red", "blue"}}))
	assert.True(t, compileAndEval(t, "tags!*green", record{Tags: []string{"red", "blue"}}))
}

func TestCompileUUIDEquality(t *testing.T) {
	id := uuid.New()
	assert.True(t, compileAndEval(t, "id=="+id.String(), record{ID: id}))
	assert.False(t, compileAndEval(t, "id=="+uuid.New().String(), record{ID: id}))
}

func TestCompileDateTime(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	assert.True(t, compileAndEval(t, "createdAt==2026-01-01T00:00:00Z", record{CreatedAt: now}))
	assert.True(t, compileAndEval(t, "createdAt>>2025-12-31T00:00:00Z", record{CreatedAt: now}))
}

func TestUnknownFieldError(t *testing.T) {
	node, err := Parse("bogus==1")
	require.NoError(t, err)
	_, err = CompilePredicate[record](node, newRecordMapper())
	require.Error(t, err)
	var unknown *UnknownFieldError
	require.ErrorAs(t, err, &unknown)
}

func TestUnsupportedOperatorError(t *testing.T) {
	node, err := Parse("active=*true")
	require.NoError(t, err)
	_, err = CompilePredicate[record](node, newRecordMapper())
	require.Error(t, err)
	var unsupported *UnsupportedOperatorError
	require.ErrorAs(t, err, &unsupported)
}

// Value-collapse duality: a broken RHS literal makes Eq select nothing and
// NotEq select everything.
func TestValueCollapseDuality(t *testing.T) {
	assert.False(t, compileAndEval(t, "age==not-a-number", record{Age: 42}))
	assert.True(t, compileAndEval(t, "age!=not-a-number", record{Age: 42}))

	assert.False(t, compileAndEval(t, "id==not-a-uuid", record{ID: uuid.New()}))
	assert.True(t, compileAndEval(t, "id!=not-a-uuid", record{ID: uuid.New()}))
}

func TestNullHandling(t *testing.T) {
	m := NewFieldMapper[record](false)
	AddMap(m, "nick", func(r record) *string { return nil })

	node, err := Parse("nick==x")
	require.NoError(t, err)
	expr, err := CompilePredicate[record](node, m)
	require.NoError(t, err)
	assert.False(t, Eval[record](expr, m)(record{}))

	node, err = Parse("nick!=x")
	require.NoError(t, err)
	expr, err = CompilePredicate[record](node, m)
	require.NoError(t, err)
	assert.True(t, Eval[record](expr, m)(record{}))
}

func TestAndOrComposition(t *testing.T) {
	rec := record{Name: "Jack", Age: 10}
	assert.True(t, compileAndEval(t, "name==Jack,age>>5", rec))
	assert.False(t, compileAndEval(t, "name==Jack,age>>50", rec))
	assert.True(t, compileAndEval(t, "name==Rose|age>>5", rec))
	assert.False(t, compileAndEval(t, "name==Rose|age>>50", rec))
}
