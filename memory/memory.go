/*
memory - Memory backend interface and bus fault types.

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

// Package memory implements the MC68000 24-bit address space: the uniform
// Memory backend interface, the paged MemoryMap that dispatches to
// per-page backends, and the bus/address fault types those backends and
// the map itself raise.
package memory

import "fmt"

// FuncCode is the 3-bit function code that tags every bus cycle with the
// privilege level and the nature (data/program) of the access.
type FuncCode uint8

const (
	UserData     FuncCode = 1
	UserProgram  FuncCode = 2
	_reservedFC3 FuncCode = 3
	_reservedFC4 FuncCode = 4
	SuperData    FuncCode = 5
	SuperProgram FuncCode = 6
	_reservedFC7 FuncCode = 7
)

// String names a function code the way a bus analyzer would.
func (fc FuncCode) String() string {
	switch fc {
	case UserData:
		return "user-data"
	case UserProgram:
		return "user-program"
	case SuperData:
		return "super-data"
	case SuperProgram:
		return "super-program"
	default:
		return fmt.Sprintf("fc(%d)", uint8(fc))
	}
}

// Memory is the uniform backend interface every page of the 24-bit
// address space is ultimately dispatched to. The MemoryMap calls a
// backend's own Get32/Put32 for a long access within one page and
// synthesizes it from two word accesses only when it straddles a page
// boundary, so every backend implements Get32/Put32 itself.
type Memory interface {
	Get8(addr uint32, fc FuncCode) (uint8, error)
	Get16(addr uint32, fc FuncCode) (uint16, error)
	Get32(addr uint32, fc FuncCode) (uint32, error)

	Put8(addr uint32, value uint8, fc FuncCode) error
	Put16(addr uint32, value uint16, fc FuncCode) error
	Put32(addr uint32, value uint32, fc FuncCode) error

	// Read and Write transfer a block of bytes starting at addr. The
	// MemoryMap's own Read/Write go byte by byte through Get8/Put8 and
	// never call a backend's Read/Write.
	Read(addr uint32, data []byte, fc FuncCode) error
	Write(addr uint32, data []byte, fc FuncCode) error
}

// BusError is raised by any backend that rejects an access outright: an
// unmapped page, a write to ROM, a disabled device register.
type BusError struct {
	Read    bool
	FC      FuncCode
	Address uint32
}

func (e *BusError) Error() string {
	dir := "write"
	if e.Read {
		dir = "read"
	}
	return fmt.Sprintf("bus error: %s %s at %#08x", dir, e.FC, e.Address)
}

// AddressError is raised when a word or long access is attempted at an
// odd address; it is detected by the MemoryMap before any backend is
// consulted, so no backend ever needs to check alignment itself.
type AddressError struct {
	Read    bool
	FC      FuncCode
	Address uint32
}

func (e *AddressError) Error() string {
	dir := "write"
	if e.Read {
		dir = "read"
	}
	return fmt.Sprintf("address error: %s %s at %#08x", dir, e.FC, e.Address)
}
