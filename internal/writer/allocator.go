// Package writer assembles an encoded leaf set into a GBF file: it assigns
// payload offsets, applies the compression policy, builds the header, and
// commits the result atomically.
package writer

import "sort"

// AllocatedBlock tracks one leaf's region of the payload area.
type AllocatedBlock struct {
	Offset uint64
	Size   uint64
}

// Allocator assigns payload offsets sequentially, in the order leaves are
// submitted. GBF has no freed-space reuse or alignment requirement: the
// payload is simply the concatenation of each leaf's compressed bytes in
// flatten order.
type Allocator struct {
	blocks     []AllocatedBlock
	nextOffset uint64
}

// NewAllocator creates an allocator whose first block begins at
// initialOffset. With 0, as Write uses it, offsets are relative to
// payload_start.
func NewAllocator(initialOffset uint64) *Allocator {
	return &Allocator{blocks: make([]AllocatedBlock, 0, 16), nextOffset: initialOffset}
}

// Allocate reserves the next size bytes of payload space and returns the
// offset at which they begin. size may be zero (an empty leaf still gets a
// well-defined offset).
func (a *Allocator) Allocate(size uint64) uint64 {
	addr := a.nextOffset
	a.blocks = append(a.blocks, AllocatedBlock{Offset: addr, Size: size})
	a.nextOffset = addr + size
	return addr
}

// EndOfFile returns the offset one past the last allocated byte, i.e.
// initialOffset plus the total size allocated so far.
func (a *Allocator) EndOfFile() uint64 {
	return a.nextOffset
}

// Blocks returns a copy of all allocated blocks sorted by offset, used by
// tests to inspect the layout.
func (a *Allocator) Blocks() []AllocatedBlock {
	blocks := make([]AllocatedBlock, len(a.blocks))
	copy(blocks, a.blocks)
	sort.Slice(blocks, func(i, j int) bool { return blocks[i].Offset < blocks[j].Offset })
	return blocks
}
