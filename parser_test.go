package gridify

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEmptyFilterRejected(t *testing.T) {
	for _, s := range []string{"", "   ", "\t\n"} {
		_, err := Parse(s)
		require.Error(t, err)
		var parseErr *ParseError
		require.ErrorAs(t, err, &parseErr)
	}
}

func TestParseSingleCompare(t *testing.T) {
	node, err := Parse("name==John")
	require.NoError(t, err)
	cmp, ok := node.(Compare)
	require.True(t, ok)
	assert.Equal(t, "name", cmp.Field)
	assert.Equal(t, OpEq, cmp.Op)
	assert.Equal(t, "John", cmp.RHS)
}

func TestParseAndBindsTighterThanOr(t *testing.T) {
	// a==1,b==2|c==3  ==  (a==1,b==2) | c==3
	node, err := Parse("a==1,b==2|c==3")
	require.NoError(t, err)

	or, ok := node.(Or)
	require.True(t, ok)

	and, ok := or.LHS.(And)
	require.True(t, ok)
	assert.Equal(t, "a", and.LHS.(Compare).Field)
	assert.Equal(t, "b", and.RHS.(Compare).Field)
	assert.Equal(t, "c", or.RHS.(Compare).Field)
}

func TestParseLeftAssociative(t *testing.T) {
	node, err := Parse("a==1,b==2,c==3")
	require.NoError(t, err)

	outer, ok := node.(And)
	require.True(t, ok)
	assert.Equal(t, "c", outer.RHS.(Compare).Field)

	inner, ok := outer.LHS.(And)
	require.True(t, ok)
	assert.Equal(t, "a", inner.LHS.(Compare).Field)
	assert.Equal(t, "b", inner.RHS.(Compare).Field)
}

func TestParseExplicitGroupingOverridesPrecedence(t *testing.T) {
	// a==1,(b==2|c==3)
	node, err := Parse("a==1,(b==2|c==3)")
	require.NoError(t, err)

	and, ok := node.(And)
	require.True(t, ok)
	assert.Equal(t, "a", and.LHS.(Compare).Field)

	or, ok := and.RHS.(Or)
	require.True(t, ok)
	assert.Equal(t, "b", or.LHS.(Compare).Field)
	assert.Equal(t, "c", or.RHS.(Compare).Field)
}

func TestParseRedundantParensCollapse(t *testing.T) {
	node, err := Parse("((a==1))")
	require.NoError(t, err)
	_, ok := node.(Compare)
	assert.True(t, ok)
}

func TestParseUnmatchedParenErrors(t *testing.T) {
	_, err := Parse("(a==1")
	require.Error(t, err)
}

func TestParseTrailingInputErrors(t *testing.T) {
	_, err := Parse("a==1)")
	require.Error(t, err)
}

func TestParseIdempotenceViaRender(t *testing.T) {
	inputs := []string{
		"name==John",
		"a==1,b==2|c==3",
		"a==1,(b==2|c==3)",
		"name=*oh,id>>7|id<<2",
	}
	for _, s := range inputs {
		first, err := Parse(s)
		require.NoError(t, err, s)

		rendered := Render(first)
		second, err := Parse(rendered)
		require.NoError(t, err, rendered)

		assert.Equal(t, Render(first), Render(second), s)
	}
}
