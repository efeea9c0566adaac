package vulka

import (
	"fmt"
)

// Allocation is a carve-out of a larger device memory block.
type Allocation struct {
	Offset uint64
	Size   uint64
}

func (a *Allocation) String() string {
	return fmt.Sprintf("[%d %d]", a.Offset, a.Size)
}

// IAllocator hands out offsets within a fixed-size block.
type IAllocator interface {
	Allocate(size uint64, align uint64) *Allocation
	Free(a *Allocation)
}

// LinearAllocator is a first-fit allocator over a fixed-size block. It keeps
// live allocations sorted by offset and fills gaps left by frees.
type LinearAllocator struct {
	Size   uint64
	allocs []*Allocation
}

func makeAlignUp(a uint64, align uint64) uint64 {
	m := a % align
	if m == 0 {
		return a
	}
	return (a - m) + align
}

func (p *LinearAllocator) Free(fa *Allocation) {
	for i, a := range p.allocs {
		if a == fa {
			p.allocs = append(p.allocs[:i], p.allocs[i+1:]...)
			return
		}
	}
}

// Allocate returns the first aligned gap that fits, or nil when the block
// has no room.
func (p *LinearAllocator) Allocate(size uint64, align uint64) *Allocation {
	if align == 0 {
		align = 1
	}
	if size == 0 || size > p.Size {
		return nil
	}

	// Head of the block.
	if len(p.allocs) == 0 || p.allocs[0].Offset >= size {
		na := &Allocation{Offset: 0, Size: size}
		p.allocs = append([]*Allocation{na}, p.allocs...)
		return na
	}

	// Gaps between neighbors.
	for i := 0; i+1 < len(p.allocs); i++ {
		c := p.allocs[i]
		n := p.allocs[i+1]

		lo := makeAlignUp(c.Offset+c.Size, align)
		if n.Offset >= lo && n.Offset-lo >= size {
			na := &Allocation{Offset: lo, Size: size}
			p.allocs = append(p.allocs[:i+1], append([]*Allocation{na}, p.allocs[i+1:]...)...)
			return na
		}
	}

	// Tail of the block.
	last := p.allocs[len(p.allocs)-1]
	lo := makeAlignUp(last.Offset+last.Size, align)
	if lo <= p.Size && p.Size-lo >= size {
		na := &Allocation{Offset: lo, Size: size}
		p.allocs = append(p.allocs, na)
		return na
	}

	return nil
}

func (p *LinearAllocator) String() string {
	return fmt.Sprintf("%v", p.allocs)
}
