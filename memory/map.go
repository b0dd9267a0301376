/*
memory - Paged 24-bit address space dispatch.

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

package memory

const (
	// AddressBits is the width of the MC68000's external address bus.
	AddressBits = 24
	// AddressSpace is the total size of the 24-bit address space.
	AddressSpace = 1 << AddressBits

	// PageShift/PageSize divide the address space into 4 KiB pages.
	PageShift = 12
	PageSize  = 1 << PageShift
	NPages    = AddressSpace / PageSize

	// AddressMask strips any bits above the 24-bit external bus; guest
	// addresses computed in 32-bit arithmetic (e.g. PC-relative branches)
	// are wrapped through this before indexing the page table.
	AddressMask = AddressSpace - 1
)

// MemoryMap dispatches accesses to one Memory backend per 4 KiB page. It
// is itself a Memory, so it composes: a MemoryMap can back a page of an
// outer MemoryMap, though nothing in this module does that.
type MemoryMap struct {
	pages [NPages]Memory
}

// NewMemoryMap returns a map with every page pointing at the default
// bus-error backend, per spec.md invariant: "the map never returns a
// null backend."
func NewMemoryMap() *MemoryMap {
	m := &MemoryMap{}
	for i := range m.pages {
		m.pages[i] = defaultBackend
	}
	return m
}

// Fill installs backend for every page covering [first, last). A last
// of zero (or a last that wraps past AddressSpace) denotes "through the
// top of the address space", matching the C++ original's use of the
// page just past end-of-space as the fill's exclusive upper bound.
func (m *MemoryMap) Fill(first, last uint32, backend Memory) {
	firstPage := (first & AddressMask) >> PageShift
	var lastPage uint32
	if last == 0 || last > AddressSpace {
		lastPage = NPages
	} else {
		lastPage = ((last - 1) & AddressMask) >> PageShift
		lastPage++
	}
	for p := firstPage; p < lastPage && p < NPages; p++ {
		m.pages[p] = backend
	}
}

func (m *MemoryMap) pageOf(addr uint32) Memory {
	return m.pages[(addr&AddressMask)>>PageShift]
}

func samePage(a, b uint32) bool {
	return (a & AddressMask >> PageShift) == (b & AddressMask >> PageShift)
}

// Get8 reads a single byte; bytes have no alignment constraint.
func (m *MemoryMap) Get8(addr uint32, fc FuncCode) (uint8, error) {
	return m.pageOf(addr).Get8(addr, fc)
}

// Get16 reads an aligned word, raising AddressError for odd addr before
// any backend is consulted.
func (m *MemoryMap) Get16(addr uint32, fc FuncCode) (uint16, error) {
	if addr&1 != 0 {
		return 0, &AddressError{Read: true, FC: fc, Address: addr}
	}
	return m.pageOf(addr).Get16(addr, fc)
}

// Get32 reads an aligned long. When addr and addr+2 land on the same
// page it delegates to that page's native Get32; otherwise it performs
// two Get16 calls and combines them high word first, since the access
// straddles a page boundary no single backend can service atomically.
func (m *MemoryMap) Get32(addr uint32, fc FuncCode) (uint32, error) {
	if addr&1 != 0 {
		return 0, &AddressError{Read: true, FC: fc, Address: addr}
	}
	if samePage(addr, addr+2) {
		return m.pageOf(addr).Get32(addr, fc)
	}
	hi, err := m.pageOf(addr).Get16(addr, fc)
	if err != nil {
		return 0, err
	}
	lo, err := m.pageOf(addr + 2).Get16(addr+2, fc)
	if err != nil {
		return 0, err
	}
	return uint32(hi)<<16 | uint32(lo), nil
}

// Put8 writes a single byte.
func (m *MemoryMap) Put8(addr uint32, value uint8, fc FuncCode) error {
	return m.pageOf(addr).Put8(addr, value, fc)
}

// Put16 writes an aligned word.
func (m *MemoryMap) Put16(addr uint32, value uint16, fc FuncCode) error {
	if addr&1 != 0 {
		return &AddressError{Read: false, FC: fc, Address: addr}
	}
	return m.pageOf(addr).Put16(addr, value, fc)
}

// Put32 writes an aligned long, symmetric with Get32.
func (m *MemoryMap) Put32(addr uint32, value uint32, fc FuncCode) error {
	if addr&1 != 0 {
		return &AddressError{Read: false, FC: fc, Address: addr}
	}
	if samePage(addr, addr+2) {
		return m.pageOf(addr).Put32(addr, value, fc)
	}
	if err := m.pageOf(addr).Put16(addr, uint16(value>>16), fc); err != nil {
		return err
	}
	return m.pageOf(addr+2).Put16(addr+2, uint16(value), fc)
}

// Read transfers len(data) bytes starting at addr into data, byte by byte, so
// that a read spanning any number of page boundaries always goes through
// each page's own Get8.
func (m *MemoryMap) Read(addr uint32, data []byte, fc FuncCode) error {
	for i := range data {
		v, err := m.Get8(addr+uint32(i), fc)
		if err != nil {
			return err
		}
		data[i] = v
	}
	return nil
}

// Write transfers data to guest memory starting at addr, byte by byte.
func (m *MemoryMap) Write(addr uint32, data []byte, fc FuncCode) error {
	for i, b := range data {
		if err := m.Put8(addr+uint32(i), b, fc); err != nil {
			return err
		}
	}
	return nil
}

// GetCString reads a NUL-terminated byte string starting at addr.
func (m *MemoryMap) GetCString(addr uint32, fc FuncCode) (string, error) {
	var s []byte
	for {
		c, err := m.Get8(addr, fc)
		if err != nil {
			return "", err
		}
		if c == 0 {
			break
		}
		s = append(s, c)
		addr++
	}
	return string(s), nil
}

// PutCString writes s followed by a terminating NUL at addr.
func (m *MemoryMap) PutCString(addr uint32, s string, fc FuncCode) error {
	for i := 0; i < len(s); i++ {
		if err := m.Put8(addr+uint32(i), s[i], fc); err != nil {
			return err
		}
	}
	return m.Put8(addr+uint32(len(s)), 0, fc)
}
