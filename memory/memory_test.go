/*
memory - tests.

Copyright 2026, vm68k contributors.
*/

package memory_test

import (
	"errors"
	"testing"

	"github.com/rcornwell/vm68k/memory"
)

func newMap() *memory.MemoryMap {
	m := memory.NewMemoryMap()
	m.Fill(0, 0x10000, memory.NewRAM(0, 0x10000))
	return m
}

// Invariant 1: word round-trip at every aligned address.
func TestWordRoundTrip(t *testing.T) {
	m := newMap()
	values := []uint16{0, 1, 0x00ff, 0xff00, 0x8000, 0x7fff, 0xffff}
	for addr := uint32(0); addr < 0x100; addr += 2 {
		for _, v := range values {
			if err := m.Put16(addr, v, memory.SuperData); err != nil {
				t.Fatalf("Put16(%#x): %v", addr, err)
			}
			got, err := m.Get16(addr, memory.SuperData)
			if err != nil {
				t.Fatalf("Get16(%#x): %v", addr, err)
			}
			if got != v {
				t.Errorf("addr %#x: got %#04x want %#04x", addr, got, v)
			}
		}
	}
}

// Invariant 2: a long written at addr = 2 (mod 4) straddles two pages
// when those pages are backed separately, and reads back identical.
func TestLongOverPageBoundary(t *testing.T) {
	m := memory.NewMemoryMap()
	loPage := memory.NewRAM(0, memory.PageSize)
	hiPage := memory.NewRAM(memory.PageSize, memory.PageSize)
	m.Fill(0, memory.PageSize, loPage)
	m.Fill(memory.PageSize, 2*memory.PageSize, hiPage)

	addr := uint32(memory.PageSize - 2) // addr%4 == 2 on a 4096-size page
	const want uint32 = 0xdeadbeef

	if err := m.Put32(addr, want, memory.SuperData); err != nil {
		t.Fatalf("Put32: %v", err)
	}
	hi, err := loPage.Get16(addr, memory.SuperData)
	if err != nil {
		t.Fatalf("loPage.Get16: %v", err)
	}
	lo, err := hiPage.Get16(memory.PageSize, memory.SuperData)
	if err != nil {
		t.Fatalf("hiPage.Get16: %v", err)
	}
	if uint32(hi)<<16|uint32(lo) != want {
		t.Errorf("halves landed wrong: hi=%#04x lo=%#04x want=%#08x", hi, lo, want)
	}

	got, err := m.Get32(addr, memory.SuperData)
	if err != nil {
		t.Fatalf("Get32: %v", err)
	}
	if got != want {
		t.Errorf("got %#08x want %#08x", got, want)
	}
}

// Invariant 8: odd address raises AddressError with the fields populated.
func TestOddAddressFault(t *testing.T) {
	m := newMap()
	_, err := m.Get16(1, memory.SuperData)
	var addrErr *memory.AddressError
	if !errors.As(err, &addrErr) {
		t.Fatalf("expected *AddressError, got %v (%T)", err, err)
	}
	if !addrErr.Read || addrErr.FC != memory.SuperData || addrErr.Address != 1 {
		t.Errorf("unexpected AddressError fields: %+v", addrErr)
	}
}

func TestUnmappedRaisesBusError(t *testing.T) {
	m := memory.NewMemoryMap()
	_, err := m.Get8(0x010000, memory.SuperData)
	var busErr *memory.BusError
	if !errors.As(err, &busErr) {
		t.Fatalf("expected *BusError, got %v (%T)", err, err)
	}
}

func TestFillWrapsToEndOfSpace(t *testing.T) {
	m := memory.NewMemoryMap()
	ram := memory.NewRAM(0xf00000, memory.AddressSpace-0xf00000)
	m.Fill(0xf00000, 0, ram)

	if _, err := m.Get8(memory.AddressSpace-1, memory.SuperData); err != nil {
		t.Errorf("expected last page mapped, got %v", err)
	}
	if _, err := m.Get8(0xefffff, memory.SuperData); err == nil {
		t.Errorf("expected page below fill start to remain unmapped")
	}
}

func TestCStringRoundTrip(t *testing.T) {
	m := newMap()
	if err := m.PutCString(0x100, "HELLO", memory.SuperData); err != nil {
		t.Fatalf("PutCString: %v", err)
	}
	got, err := m.GetCString(0x100, memory.SuperData)
	if err != nil {
		t.Fatalf("GetCString: %v", err)
	}
	if got != "HELLO" {
		t.Errorf("got %q want %q", got, "HELLO")
	}
}
