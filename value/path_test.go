package value

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertPathCreatesIntermediates(t *testing.T) {
	root := NewStruct()
	leaf, _ := NewLogical([]uint64{1}, []byte{1})
	require.NoError(t, InsertPath(&root, "a.b.c", leaf))

	got, ok := Lookup(&root, "a.b.c")
	require.True(t, ok)
	assert.Equal(t, KindLogical, got.Kind)

	mid, ok := Lookup(&root, "a.b")
	require.True(t, ok)
	assert.Equal(t, KindStruct, mid.Kind)
}

func TestInsertPathCollisionFails(t *testing.T) {
	root := NewStruct()
	leaf, _ := NewLogical([]uint64{1}, []byte{1})
	require.NoError(t, InsertPath(&root, "a", leaf))

	err := InsertPath(&root, "a.b", leaf)
	require.Error(t, err)
}

func TestInsertPathOverwritesExistingLeaf(t *testing.T) {
	root := NewStruct()
	leaf1, _ := NewLogical([]uint64{1}, []byte{1})
	leaf2, _ := NewLogical([]uint64{1}, []byte{0})
	require.NoError(t, InsertPath(&root, "a.b", leaf1))
	require.NoError(t, InsertPath(&root, "a.b", leaf2))

	got, ok := Lookup(&root, "a.b")
	require.True(t, ok)
	assert.Equal(t, byte(0), got.LogicalData[0])
}

func TestLookupMissing(t *testing.T) {
	root := NewStruct()
	_, ok := Lookup(&root, "missing.path")
	assert.False(t, ok)
}

func TestFlattenOrdersByInsertion(t *testing.T) {
	root := NewStruct()
	leaf, _ := NewLogical([]uint64{1}, []byte{1})
	require.NoError(t, InsertPath(&root, "b", leaf))
	require.NoError(t, InsertPath(&root, "a.x", leaf))

	flat := Flatten(&root, "")
	var names []string
	for _, f := range flat {
		names = append(names, f.Name)
	}
	assert.Equal(t, []string{"b", "a.x"}, names)
}

func TestFlattenEmptyScalarStruct(t *testing.T) {
	root := NewStruct()
	inner := NewStruct()
	require.NoError(t, root.SetField("empty", inner))

	flat := Flatten(&root, "")
	require.Len(t, flat, 1)
	assert.Equal(t, "empty", flat[0].Name)
	assert.Equal(t, KindStruct, flat[0].Leaf.Kind)
}

func TestFlattenNonStructRoot(t *testing.T) {
	leaf, _ := NewLogical([]uint64{1}, []byte{1})
	flat := Flatten(&leaf, "")
	require.Len(t, flat, 1)
	assert.Equal(t, "<root>", flat[0].Name)
}

func TestBuildSubtreeStripsPrefix(t *testing.T) {
	leaf, _ := NewLogical([]uint64{1}, []byte{1})
	fields := []LeafPath{
		{Name: "a.b.c", Leaf: leaf},
		{Name: "a.b.d", Leaf: leaf},
		{Name: "other", Leaf: leaf},
	}
	sub, found := BuildSubtree("a.b", fields)
	require.True(t, found)
	_, ok := Lookup(&sub, "c")
	assert.True(t, ok)
	_, ok = Lookup(&sub, "d")
	assert.True(t, ok)
	_, ok = Lookup(&sub, "other")
	assert.False(t, ok)
}
