/*
memory - Default page backend.

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

// defaultMemory rejects every access with a BusError. It backs every page
// of a freshly constructed MemoryMap until Fill installs a real backend.
type defaultMemory struct{}

var defaultBackend Memory = defaultMemory{}

func (defaultMemory) Get8(addr uint32, fc FuncCode) (uint8, error) {
	return 0, &BusError{Read: true, FC: fc, Address: addr}
}

func (defaultMemory) Get16(addr uint32, fc FuncCode) (uint16, error) {
	return 0, &BusError{Read: true, FC: fc, Address: addr}
}

func (defaultMemory) Get32(addr uint32, fc FuncCode) (uint32, error) {
	return 0, &BusError{Read: true, FC: fc, Address: addr}
}

func (defaultMemory) Put8(addr uint32, _ uint8, fc FuncCode) error {
	return &BusError{Read: false, FC: fc, Address: addr}
}

func (defaultMemory) Put16(addr uint32, _ uint16, fc FuncCode) error {
	return &BusError{Read: false, FC: fc, Address: addr}
}

func (defaultMemory) Put32(addr uint32, _ uint32, fc FuncCode) error {
	return &BusError{Read: false, FC: fc, Address: addr}
}

func (defaultMemory) Read(addr uint32, _ []byte, fc FuncCode) error {
	return &BusError{Read: true, FC: fc, Address: addr}
}

func (defaultMemory) Write(addr uint32, _ []byte, fc FuncCode) error {
	return &BusError{Read: false, FC: fc, Address: addr}
}
