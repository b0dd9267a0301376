/*
alloc - tests.

Copyright 2026, vm68k contributors.
*/

package alloc_test

import (
	"testing"

	"github.com/rcornwell/vm68k/alloc"
	"github.com/rcornwell/vm68k/memory"
)

func newArena(t *testing.T) (*memory.MemoryMap, *alloc.Allocator) {
	t.Helper()
	mm := memory.NewMemoryMap()
	mm.Fill(0, 0, memory.NewRAM(0, memory.AddressSpace))
	a, err := alloc.New(mm, 0x100000, 0x200000)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return mm, a
}

// Scenario S4.
func TestAllocSequenceAndCascadeFree(t *testing.T) {
	_, a := newArena(t)
	root := a.Root()

	v, err := a.Alloc(0x100, root)
	if err != nil {
		t.Fatalf("alloc a: %v", err)
	}
	if uint32(v) != 0x100010 {
		t.Fatalf("alloc a = %#x, want %#x", uint32(v), 0x100010)
	}

	v2, err := a.Alloc(0x100, uint32(v))
	if err != nil {
		t.Fatalf("alloc b: %v", err)
	}
	if uint32(v2) != 0x100120 {
		t.Fatalf("alloc b = %#x, want %#x", uint32(v2), 0x100120)
	}

	code, err := a.Free(uint32(v))
	if err != nil {
		t.Fatalf("free a: %v", err)
	}
	if code != alloc.OK {
		t.Fatalf("free a returned %d, want OK", code)
	}

	v3, err := a.Alloc(0x100, root)
	if err != nil {
		t.Fatalf("alloc again: %v", err)
	}
	if uint32(v3) != 0x100010 {
		t.Fatalf("alloc after cascade free = %#x, want %#x (list not restored)", uint32(v3), 0x100010)
	}
}

// Invariant 5: free(alloc(n, p)) returns the allocator to its prior state.
func TestFreeUndoesAlloc(t *testing.T) {
	_, a := newArena(t)
	root := a.Root()

	before, err := a.Alloc(0x40, root)
	if err != nil {
		t.Fatalf("alloc: %v", err)
	}
	code, err := a.Free(uint32(before))
	if err != nil || code != alloc.OK {
		t.Fatalf("free: code=%d err=%v", code, err)
	}
	after, err := a.Alloc(0x40, root)
	if err != nil {
		t.Fatalf("realloc: %v", err)
	}
	if after != before {
		t.Errorf("realloc landed at %#x, want %#x", uint32(after), uint32(before))
	}
}

func TestFreeUnknownBlockIsErrNoBlock(t *testing.T) {
	_, a := newArena(t)
	code, err := a.Free(0x150000)
	if err != nil {
		t.Fatalf("Free: %v", err)
	}
	if code != alloc.ErrNoBlock {
		t.Errorf("Free(unknown) = %d, want %d", code, alloc.ErrNoBlock)
	}
}

func TestAllocExhaustionReturnsSentinel(t *testing.T) {
	mm := memory.NewMemoryMap()
	mm.Fill(0, 0, memory.NewRAM(0, memory.AddressSpace))
	a, err := alloc.New(mm, 0x100000, 0x100100)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	root := a.Root()
	v, err := a.Alloc(0x1000, root)
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	if uint32(v)&0xff000000 == 0 {
		t.Errorf("expected a sentinel failure code, got %#x", uint32(v))
	}
}

func TestResizeGrowsInPlace(t *testing.T) {
	_, a := newArena(t)
	root := a.Root()
	v, err := a.Alloc(0x10, root)
	if err != nil {
		t.Fatalf("Alloc: %v", err)
	}
	code, err := a.Resize(uint32(v), 0x100)
	if err != nil {
		t.Fatalf("Resize: %v", err)
	}
	if code != alloc.OK {
		t.Errorf("Resize = %d, want OK", code)
	}
}
