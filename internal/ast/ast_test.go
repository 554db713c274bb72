package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mocheck/internal/source"
)

func TestArenaIsOneBased(t *testing.T) {
	a := NewArena[int](0)
	assert.Nil(t, a.Get(0))
	id := a.Allocate(7)
	require.Equal(t, uint32(1), id)
	assert.Equal(t, 7, *a.Get(id))
	assert.Nil(t, a.Get(2))
	assert.Equal(t, uint32(1), a.Len())
}

func TestBuilderWalk(t *testing.T) {
	b := NewBuilder(Hints{})
	file := b.NewFile(source.Span{})
	pkg := b.NewClass(Class{Name: "P", Kind: ClassPackage})
	m := b.NewClass(Class{Name: "M", Kind: ClassModel})
	inner := b.NewClass(Class{Name: "R", Kind: ClassRecord})
	other := b.NewClass(Class{Name: "F", Kind: ClassFunction})
	b.PushClass(file, pkg)
	b.PushChild(pkg, m)
	b.PushChild(m, inner)
	b.PushClass(file, other)

	var seen []string
	b.Walk(file, func(_ ClassID, cls *Class, depth int) bool {
		seen = append(seen, cls.Name+":"+string(rune('0'+depth)))
		return true
	})
	assert.Equal(t, []string{"P:0", "M:1", "R:2", "F:0"}, seen)

	seen = nil
	b.Walk(file, func(_ ClassID, cls *Class, _ int) bool {
		seen = append(seen, cls.Name)
		return cls.Kind != ClassModel
	})
	assert.Equal(t, []string{"P", "M", "F"}, seen)
}

func TestPrefixString(t *testing.T) {
	p := PrefixPartial | PrefixEncapsulated | PrefixFinal
	assert.Equal(t, "final encapsulated partial", p.String())
	assert.True(t, p.Has(PrefixPartial))
	assert.False(t, p.Has(PrefixInner))
	assert.Equal(t, "expandable connector", ClassExpandableConnector.String())
	assert.Equal(t, "enumeration", SpecEnumeration.String())
}
