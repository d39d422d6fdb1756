package gridify

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type widget struct {
	Name     string
	Price    float64
	InStock  bool
	Nickname *string
	Tags     []string
}

func TestAddMapCaseInsensitiveLookup(t *testing.T) {
	m := NewFieldMapper[widget](false)
	AddMap(m, "Name", func(w widget) string { return w.Name })

	assert.True(t, m.HasMap("name"))
	assert.True(t, m.HasMap("NAME"))
	_, ok := m.lookup("name")
	require.True(t, ok)
}

func TestAddMapCaseSensitiveLookup(t *testing.T) {
	m := NewFieldMapper[widget](true)
	AddMap(m, "Name", func(w widget) string { return w.Name })

	assert.True(t, m.HasMap("Name"))
	assert.False(t, m.HasMap("name"))
}

func TestAddMapLastWriteWins(t *testing.T) {
	m := NewFieldMapper[widget](false)
	AddMap(m, "price", func(w widget) float64 { return w.Price })
	AddMap(m, "price", func(w widget) float64 { return w.Price * 2 })

	e, ok := m.lookup("price")
	require.True(t, ok)
	v, present := e.get(widget{Price: 10})
	require.True(t, present)
	assert.Equal(t, 20.0, v)
}

func TestAddMapNormalizerAsymmetricByDefault(t *testing.T) {
	m := NewFieldMapper[widget](false)
	AddMap(m, "name", func(w widget) string { return w.Name }, WithNormalizer(strings.ToUpper))

	e, _ := m.lookup("name")
	lhs, _ := e.get(widget{Name: "john"})
	lhs = e.normalize(lhs)
	assert.Equal(t, "JOHN", lhs)

	rhs, ok := e.parse("john")
	require.True(t, ok)
	assert.Equal(t, "john", rhs, "RHS literal is not normalised by default")
}

func TestAddMapSymmetricNormalizer(t *testing.T) {
	m := NewFieldMapper[widget](false)
	AddMap(m, "name", func(w widget) string { return w.Name }, WithSymmetricNormalizer(strings.ToUpper))

	e, _ := m.lookup("name")
	assert.True(t, e.symmetric)
}

func TestAddMapPointerFieldAbsentWhenNil(t *testing.T) {
	m := NewFieldMapper[widget](false)
	AddMap(m, "nickname", func(w widget) *string { return w.Nickname })

	e, _ := m.lookup("nickname")
	_, present := e.get(widget{})
	assert.False(t, present)

	name := "Bob"
	_, present = e.get(widget{Nickname: &name})
	assert.True(t, present)
}

func TestGenerateMappingsReflectsExportedFields(t *testing.T) {
	m := NewFieldMapper[widget](false)
	GenerateMappings[widget](m)

	assert.True(t, m.HasMap("Name"))
	assert.True(t, m.HasMap("Price"))
	assert.True(t, m.HasMap("InStock"))
	assert.True(t, m.HasMap("Tags"))

	e, ok := m.lookup("Price")
	require.True(t, ok)
	assert.Equal(t, "price", e.column)
	assert.Equal(t, kindNumeric, e.kind)
}

func TestRemoveMap(t *testing.T) {
	m := NewFieldMapper[widget](false)
	AddMap(m, "name", func(w widget) string { return w.Name })
	require.True(t, m.HasMap("name"))

	m.RemoveMap("name")
	assert.False(t, m.HasMap("name"))
}
