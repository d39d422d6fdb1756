package memquery

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uniedit/gridify"
)

type item struct {
	ID   int
	Name string
}

func newItemMapper() *gridify.FieldMapper[item] {
	m := gridify.NewFieldMapper[item](false)
	gridify.AddMap(m, "id", func(i item) int { return i.ID })
	gridify.AddMap(m, "name", func(i item) string { return i.Name })
	return m
}

func TestWhereFiltersAndIsChainable(t *testing.T) {
	ctx := context.Background()
	mapper := newItemMapper()
	items := []item{{1, "a"}, {2, "b"}, {3, "a"}}

	node, err := gridify.Parse("name==a")
	require.NoError(t, err)
	expr, err := gridify.CompilePredicate[item](node, mapper)
	require.NoError(t, err)

	q := New[item](items, mapper).Where(expr)
	count, err := q.Count(ctx)
	require.NoError(t, err)
	assert.EqualValues(t, 2, count)
}

func TestOrderBySortsAscending(t *testing.T) {
	ctx := context.Background()
	mapper := newItemMapper()
	items := []item{{3, "c"}, {1, "a"}, {2, "b"}}

	ordering, err := gridify.CompileOrdering[item]("id", true, mapper)
	require.NoError(t, err)

	q := New[item](items, mapper).OrderBy(*ordering)
	out, err := q.ToListAsync(ctx)
	require.NoError(t, err)
	require.Len(t, out, 3)
	assert.Equal(t, 1, out[0].ID)
	assert.Equal(t, 2, out[1].ID)
	assert.Equal(t, 3, out[2].ID)
}

func TestSkipTakeWindows(t *testing.T) {
	ctx := context.Background()
	mapper := newItemMapper()
	items := []item{{1, "a"}, {2, "b"}, {3, "c"}, {4, "d"}, {5, "e"}}

	q := New[item](items, mapper).Skip(2).Take(2)
	out, err := q.ToListAsync(ctx)
	require.NoError(t, err)
	assert.Equal(t, []item{{3, "c"}, {4, "d"}}, out)
}

func TestTakeZeroMeansUnbounded(t *testing.T) {
	ctx := context.Background()
	mapper := newItemMapper()
	items := []item{{1, "a"}, {2, "b"}}

	out, err := New[item](items, mapper).ToListAsync(ctx)
	require.NoError(t, err)
	assert.Len(t, out, 2)
}

func TestImmutability(t *testing.T) {
	ctx := context.Background()
	mapper := newItemMapper()
	items := []item{{1, "a"}, {2, "b"}}

	base := New[item](items, mapper)
	filtered := base.Skip(1)

	baseOut, err := base.ToListAsync(ctx)
	require.NoError(t, err)
	assert.Len(t, baseOut, 2, "base query must not be mutated by deriving filtered")

	filteredOut, err := filtered.ToListAsync(ctx)
	require.NoError(t, err)
	assert.Len(t, filteredOut, 1)
}
