/*
alloc - In-guest doubly-linked memory block allocator.

Copyright 2026, vm68k contributors.

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
SOFTWARE.
*/

// Package alloc implements the block allocator used by the hosted-DOS
// runtime: a doubly-linked list of 16-byte headers living directly inside
// guest memory, walked and spliced the same way a guest debugger would
// see it.
package alloc

import (
	"fmt"

	"github.com/rcornwell/vm68k/memory"
)

// Header field offsets, relative to a block's base address.
const (
	offPrev   = 0x00
	offParent = 0x04
	offEnd    = 0x08
	offNext   = 0x0c

	headerSize = 0x10

	// SentinelBase marks an allocator-sentinel "largest gap" reply: the
	// low 24 bits carry the largest available gap, minus one header.
	SentinelBase = 0x81000000
	// SentinelFull marks "no memory at all".
	SentinelFull = 0x82000000
)

// Result codes returned by Free and Resize, per spec.md section 7.
const (
	OK            = 0
	ErrNoBlock    = -9
	ErrCorruptList = -7
)

// Allocator manages a free list of blocks inside [base, limit) of a
// memory.MemoryMap, using the SuperData function code for every access,
// exactly as the hosted-DOS runtime's allocator operates against the
// guest address space.
type Allocator struct {
	mem       *memory.MemoryMap
	limit     uint32
	lastBlock uint32 // 0 means the list is empty.
}

// New installs a zero-length sentinel root block immediately below base
// (so the sentinel's "end" equals base itself) and returns an Allocator
// managing [base, limit). The sentinel is never itself freed; its payload
// address, base, is the top-level parent token returned by Root.
func New(mem *memory.MemoryMap, base, limit uint32) (*Allocator, error) {
	a := &Allocator{mem: mem, limit: limit &^ 0xf}
	base &^= 0xf
	root := base - headerSize
	if err := a.putl(root+offPrev, 0); err != nil {
		return nil, err
	}
	if err := a.putl(root+offParent, 0); err != nil {
		return nil, err
	}
	if err := a.putl(root+offEnd, root+headerSize); err != nil {
		return nil, err
	}
	if err := a.putl(root+offNext, 0); err != nil {
		return nil, err
	}
	a.lastBlock = root
	return a, nil
}

// Root returns the sentinel root block's payload address, usable as the
// top-level parent for Alloc/AllocLargest.
func (a *Allocator) Root() uint32 {
	// Walk to the head of the list: the sentinel has prev == 0.
	block := a.lastBlock
	for {
		prev, err := a.getl(block + offPrev)
		if err != nil || prev == 0 {
			break
		}
		block = prev
	}
	return block + headerSize
}

func (a *Allocator) getl(addr uint32) (uint32, error) {
	v, err := a.mem.Get32(addr, memory.SuperData)
	if err != nil {
		return 0, fmt.Errorf("alloc: read %#x: %w", addr, err)
	}
	return v, nil
}

func (a *Allocator) putl(addr, v uint32) error {
	if err := a.mem.Put32(addr, v, memory.SuperData); err != nil {
		return fmt.Errorf("alloc: write %#x: %w", addr, err)
	}
	return nil
}

func (a *Allocator) removeBlock(block uint32) error {
	prev, err := a.getl(block + offPrev)
	if err != nil {
		return err
	}
	next, err := a.getl(block + offNext)
	if err != nil {
		return err
	}
	if err := a.putl(prev+offNext, next); err != nil {
		return err
	}
	if next != 0 {
		if err := a.putl(next+offPrev, prev); err != nil {
			return err
		}
	} else {
		a.lastBlock = prev
	}
	return nil
}

func (a *Allocator) makeBlock(block, length, prev, parent uint32) error {
	next, err := a.getl(prev + offNext)
	if err != nil {
		return err
	}
	if err := a.putl(block+offPrev, prev); err != nil {
		return err
	}
	if err := a.putl(block+offParent, parent); err != nil {
		return err
	}
	if err := a.putl(block+offEnd, block+length); err != nil {
		return err
	}
	if err := a.putl(block+offNext, next); err != nil {
		return err
	}
	if err := a.putl(prev+offNext, block); err != nil {
		return err
	}
	if next != 0 {
		if err := a.putl(next+offPrev, block); err != nil {
			return err
		}
	} else {
		a.lastBlock = block
	}
	return nil
}

// freeByParent cascades: every block whose parent field equals parent
// (the freed block's header address) is itself freed first.
func (a *Allocator) freeByParent(parent uint32) error {
	block := a.lastBlock
	for block != 0 {
		p, err := a.getl(block + offParent)
		if err != nil {
			return err
		}
		prev, err := a.getl(block + offPrev)
		if err != nil {
			return err
		}
		if p == parent {
			if err := a.freeByParent(block); err != nil {
				return err
			}
			if err := a.removeBlock(block); err != nil {
				return err
			}
		}
		block = prev
	}
	return nil
}

// Free releases the block whose payload address is memptr, cascading to
// every descendant whose parent field ultimately chains to it.
func (a *Allocator) Free(memptr uint32) (int32, error) {
	block := memptr - headerSize

	cur := a.lastBlock
	for cur != 0 {
		if cur == block {
			if err := a.freeByParent(block); err != nil {
				return 0, err
			}
			if err := a.removeBlock(block); err != nil {
				return 0, err
			}
			return OK, nil
		}
		prev, err := a.getl(cur + offPrev)
		if err != nil {
			return 0, err
		}
		cur = prev
	}
	return ErrNoBlock, nil
}

// Alloc walks the free list from the tail backward looking for the first
// gap large enough to hold len bytes plus a header, splicing a new block
// in at the start of the gap, right after the block whose end opens it.
// parent is the owning block's payload
// address (or Root() for a top-level allocation); 0 means no owner.
func (a *Allocator) Alloc(length, parent uint32) (int32, error) {
	length += headerSize
	var maxFree uint32

	end := a.limit
	block := a.lastBlock
	for block != 0 {
		blockEnd, err := a.getl(block + offEnd)
		if err != nil {
			return 0, err
		}
		candidate := (blockEnd + 0xf) &^ 0xf
		free := end - candidate
		if free >= length {
			parentHdr := uint32(0)
			if parent != 0 {
				parentHdr = parent - headerSize
			}
			if err := a.makeBlock(candidate, length, block, parentHdr); err != nil {
				return 0, err
			}
			return int32(candidate + headerSize), nil
		}
		if free > maxFree {
			maxFree = free
		}
		end = block
		prev, err := a.getl(block + offPrev)
		if err != nil {
			return 0, err
		}
		block = prev
	}

	if maxFree > headerSize {
		return int32(SentinelBase + (maxFree - headerSize)), nil
	}
	full := uint32(SentinelFull)
	return int32(full), nil
}

// AllocLargest claims the single largest available gap in its entirety.
func (a *Allocator) AllocLargest(parent uint32) (int32, error) {
	var prevBlock, largest, maxFree uint32

	end := a.limit
	block := a.lastBlock
	for block != 0 {
		blockEnd, err := a.getl(block + offEnd)
		if err != nil {
			return 0, err
		}
		candidate := (blockEnd + 0xf) &^ 0xf
		free := end - candidate
		if free > maxFree {
			prevBlock = block
			largest = candidate
			maxFree = free
		}
		end = block
		prev, err := a.getl(block + offPrev)
		if err != nil {
			return 0, err
		}
		block = prev
	}

	if maxFree > headerSize {
		parentHdr := uint32(0)
		if parent != 0 {
			parentHdr = parent - headerSize
		}
		if err := a.makeBlock(largest, maxFree, prevBlock, parentHdr); err != nil {
			return 0, err
		}
		return int32(largest + headerSize), nil
	}
	full := uint32(SentinelFull)
	return int32(full), nil
}

// Resize grows or shrinks the block at memptr in place to newLen bytes,
// failing if the next block boundary does not leave room.
func (a *Allocator) Resize(memptr, newLen uint32) (int32, error) {
	newEnd := memptr + newLen
	block := memptr - headerSize

	next := a.limit
	cur := a.lastBlock
	for cur != 0 {
		if cur+headerSize > next {
			return ErrCorruptList, nil
		}
		if cur == block {
			if next < newEnd {
				maxLen := next - block
				if maxLen == headerSize {
					full := uint32(SentinelFull)
					return int32(full), nil
				}
				return int32(SentinelBase + (maxLen - headerSize)), nil
			}
			if err := a.putl(block+offEnd, newEnd); err != nil {
				return 0, err
			}
			return OK, nil
		}
		next = cur
		prev, err := a.getl(cur + offPrev)
		if err != nil {
			return 0, err
		}
		cur = prev
	}
	return ErrNoBlock, nil
}
