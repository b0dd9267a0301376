/*
memory - Flat RAM backend.

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

import "encoding/binary"

// RAM is a flat, read/write backend sized to cover one or more pages.
// It is the minimal concrete Memory implementation needed to exercise the
// CPU core end to end; the SCC/MFP/DMAC/OPM/... device register pages that
// a full X68000 host would map over RAM are out of this core's scope and
// are represented only by the Memory interface they would implement.
type RAM struct {
	base uint32
	data []byte
}

// NewRAM allocates a RAM backend of size bytes starting at base.
func NewRAM(base, size uint32) *RAM {
	return &RAM{base: base, data: make([]byte, size)}
}

func (r *RAM) off(addr uint32) uint32 { return addr - r.base }

func (r *RAM) Get8(addr uint32, _ FuncCode) (uint8, error) {
	return r.data[r.off(addr)], nil
}

func (r *RAM) Get16(addr uint32, _ FuncCode) (uint16, error) {
	o := r.off(addr)
	return binary.BigEndian.Uint16(r.data[o : o+2]), nil
}

func (r *RAM) Get32(addr uint32, _ FuncCode) (uint32, error) {
	o := r.off(addr)
	return binary.BigEndian.Uint32(r.data[o : o+4]), nil
}

func (r *RAM) Put8(addr uint32, value uint8, _ FuncCode) error {
	r.data[r.off(addr)] = value
	return nil
}

func (r *RAM) Put16(addr uint32, value uint16, _ FuncCode) error {
	o := r.off(addr)
	binary.BigEndian.PutUint16(r.data[o:o+2], value)
	return nil
}

func (r *RAM) Put32(addr uint32, value uint32, _ FuncCode) error {
	o := r.off(addr)
	binary.BigEndian.PutUint32(r.data[o:o+4], value)
	return nil
}

func (r *RAM) Read(addr uint32, data []byte, _ FuncCode) error {
	o := r.off(addr)
	copy(data, r.data[o:])
	return nil
}

func (r *RAM) Write(addr uint32, data []byte, _ FuncCode) error {
	o := r.off(addr)
	copy(r.data[o:], data)
	return nil
}
