package writer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllocatorSequential(t *testing.T) {
	a := NewAllocator(100)
	off1 := a.Allocate(10)
	off2 := a.Allocate(0)
	off3 := a.Allocate(20)

	assert.Equal(t, uint64(100), off1)
	assert.Equal(t, uint64(110), off2)
	assert.Equal(t, uint64(110), off3)
	assert.Equal(t, uint64(130), a.EndOfFile())
}

func TestAllocatorBlocksSorted(t *testing.T) {
	a := NewAllocator(0)
	a.Allocate(5)
	a.Allocate(7)
	blocks := a.Blocks()
	assert.Len(t, blocks, 2)
	assert.Equal(t, uint64(0), blocks[0].Offset)
	assert.Equal(t, uint64(5), blocks[1].Offset)
}
