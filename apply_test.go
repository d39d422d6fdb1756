package gridify_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uniedit/gridify"
	"github.com/uniedit/gridify/adapter/memquery"
)

type person struct {
	ID   int
	Name string
	GUID uuid.UUID
}

// seedDataset builds the 22-record dataset the property and scenario tests
// share: ids 1..22, a handful of named Jack/Rose/John records among
// otherwise-generated names, and a GUID on every record.
func seedDataset() []person {
	names := map[int]string{1: "John", 2: "Jack", 3: "Rose", 9: "Jack", 15: "Rose"}
	seed := make([]person, 22)
	for i := range seed {
		id := i + 1
		name, ok := names[id]
		if !ok {
			name = fmt.Sprintf("Guest%d", id)
		}
		seed[i] = person{ID: id, Name: name, GUID: uuid.New()}
	}
	return seed
}

func newPersonMapper() *gridify.FieldMapper[person] {
	m := gridify.NewFieldMapper[person](false)
	gridify.AddMap(m, "id", func(p person) int { return p.ID })
	gridify.AddMap(m, "name", func(p person) string { return p.Name })
	gridify.AddMap(m, "guid", func(p person) uuid.UUID { return p.GUID })
	return m
}

func newSource(t *testing.T, dataset []person) gridify.Query[person] {
	t.Helper()
	return memquery.New[person](dataset, newPersonMapper())
}

// Property 1: identity on absence.
func TestApplyFilteringIdentityOnAbsence(t *testing.T) {
	ctx := context.Background()
	dataset := seedDataset()

	for _, gq := range []*gridify.GridifyQuery{nil, {}, {Filter: ""}} {
		q, err := gridify.ApplyFiltering[person](newSource(t, dataset), gq, newPersonMapper())
		require.NoError(t, err)
		items, err := q.ToListAsync(ctx)
		require.NoError(t, err)
		assert.Equal(t, dataset, items)
	}
}

// A whitespace-only filter is identity too, not a parse error: the parser
// rejects "   " outright, so ApplyFiltering has to catch this before
// handing the string to Parse.
func TestApplyFilteringIdentityOnWhitespace(t *testing.T) {
	ctx := context.Background()
	dataset := seedDataset()

	q, err := gridify.ApplyFiltering[person](newSource(t, dataset), &gridify.GridifyQuery{Filter: "   "}, newPersonMapper())
	require.NoError(t, err)
	items, err := q.ToListAsync(ctx)
	require.NoError(t, err)
	assert.Equal(t, dataset, items)
}

// Same identity-on-whitespace rule applies to sortBy.
func TestApplyOrderingIdentityOnWhitespace(t *testing.T) {
	dataset := seedDataset()

	q, err := gridify.ApplyOrdering[person](newSource(t, dataset), &gridify.GridifyQuery{SortBy: "  "}, newPersonMapper())
	require.NoError(t, err)
	items, err := q.ToListAsync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, dataset, items)
}

// S1
func TestScenarioS1SingleEqualityMatch(t *testing.T) {
	ctx := context.Background()
	gq := &gridify.GridifyQuery{Filter: "name==John"}
	paging, err := gridify.GridifyAsync[person](ctx, newSource(t, seedDataset()), gq, newPersonMapper())
	require.NoError(t, err)
	require.Len(t, paging.Items, 1)
	assert.Equal(t, "John", paging.Items[0].Name)
	assert.EqualValues(t, 1, paging.TotalItems)
}

// S2
func TestScenarioS2UnionOfOrClauses(t *testing.T) {
	ctx := context.Background()
	gq := &gridify.GridifyQuery{Filter: "name==Jack|name==Rose|id>>7"}
	paging, err := gridify.GridifyAsync[person](ctx, newSource(t, seedDataset()), gq, newPersonMapper())
	require.NoError(t, err)

	for _, p := range paging.Items {
		assert.True(t, p.Name == "Jack" || p.Name == "Rose" || p.ID > 7)
	}
	// Jack(2,9), Rose(3,15), plus every id 8..22 (union, not double counted).
	assert.EqualValues(t, len(paging.Items), paging.TotalItems)
}

// S3
func TestScenarioS3AndOfOrGroups(t *testing.T) {
	ctx := context.Background()
	gq := &gridify.GridifyQuery{Filter: "(name=*J|name=*S),(id<<5)"}
	paging, err := gridify.GridifyAsync[person](ctx, newSource(t, seedDataset()), gq, newPersonMapper())
	require.NoError(t, err)

	for _, p := range paging.Items {
		assert.True(t, p.ID < 5)
		assert.Condition(t, func() bool {
			for _, r := range p.Name {
				if r == 'J' || r == 'S' {
					return true
				}
			}
			return false
		})
	}
}

// S4
func TestScenarioS4MalformedGUIDCollapses(t *testing.T) {
	ctx := context.Background()
	dataset := seedDataset()

	eqPaging, err := gridify.GridifyAsync[person](ctx, newSource(t, dataset), &gridify.GridifyQuery{Filter: "guid==e2cec5dd-208d-4bb5-a852-"}, newPersonMapper())
	require.NoError(t, err)
	assert.Empty(t, eqPaging.Items)
	assert.EqualValues(t, 0, eqPaging.TotalItems)

	neqPaging, err := gridify.GridifyAsync[person](ctx, newSource(t, dataset), &gridify.GridifyQuery{Filter: "guid!=e2cec5dd-208d-4bb5-a852-", PageSize: len(dataset)}, newPersonMapper())
	require.NoError(t, err)
	assert.Len(t, neqPaging.Items, len(dataset))
	assert.EqualValues(t, len(dataset), neqPaging.TotalItems)
}

// S5
func TestScenarioS5OrderingDescendingByName(t *testing.T) {
	ctx := context.Background()
	dataset := seedDataset()
	gq := &gridify.GridifyQuery{SortBy: "Name", IsSortAsc: false, PageSize: len(dataset)}

	paging, err := gridify.GridifyAsync[person](ctx, newSource(t, dataset), gq, newPersonMapper())
	require.NoError(t, err)
	require.Len(t, paging.Items, len(dataset))

	for i := 1; i < len(paging.Items); i++ {
		assert.GreaterOrEqual(t, paging.Items[i-1].Name, paging.Items[i].Name)
	}
}

// S6
func TestScenarioS6PagingWindow(t *testing.T) {
	ctx := context.Background()
	dataset := seedDataset()
	gq := &gridify.GridifyQuery{Page: 2, PageSize: 5}

	paging, err := gridify.GridifyAsync[person](ctx, newSource(t, dataset), gq, newPersonMapper())
	require.NoError(t, err)
	require.Len(t, paging.Items, 5)
	assert.Equal(t, dataset[5:10], paging.Items)
}

// Property 4: paging window correctness and exact totalItems.
func TestApplyPagingWindowAndTotal(t *testing.T) {
	ctx := context.Background()
	dataset := seedDataset()
	gq := &gridify.GridifyQuery{Filter: "id>>10", Page: 1, PageSize: 3}

	paging, err := gridify.GridifyAsync[person](ctx, newSource(t, dataset), gq, newPersonMapper())
	require.NoError(t, err)
	assert.Len(t, paging.Items, 3)
	assert.EqualValues(t, 12, paging.TotalItems) // ids 11..22
}

// Non-positive page/pageSize silently substitute defaults.
func TestApplyPagingDefaultsOnInvalidInput(t *testing.T) {
	ctx := context.Background()
	dataset := seedDataset()

	paging, err := gridify.GridifyAsync[person](ctx, newSource(t, dataset), &gridify.GridifyQuery{Page: 0, PageSize: -1}, newPersonMapper())
	require.NoError(t, err)
	assert.Len(t, paging.Items, gridify.DefaultPageSize())
}
