/*
capability - External collaborator interfaces for the CPU core.

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

// Package capability declares the collaborator interfaces the CPU core
// consumes but does not implement: the graphical console, image-backed
// floppy disks, and the host filesystem bridge for the hosted-DOS layer.
// Concrete implementations live outside this module's scope; these
// contracts exist so the core can be exercised in tests against fakes.
package capability

import "github.com/rcornwell/vm68k/memory"

// Console receives framebuffer damage notifications and supplies glyph
// bitmaps for text VRAM rendering.
type Console interface {
	// UpdateArea reports that the w x h pixel rectangle at (x, y) in
	// text VRAM has changed.
	UpdateArea(x, y, w, h int)

	// GetB16Image fills buf with the 16x16 alphanumeric glyph bitmap
	// for code.
	GetB16Image(code uint16, buf []byte) error

	// GetK16Image fills buf with the 16x16 Kanji glyph bitmap for code.
	GetK16Image(code uint16, buf []byte) error

	// Time returns a monotonic time value used by timer devices.
	Time() int64
}

// DiskStatus is the status32 convention shared by every Disk operation:
// zero on success, non-zero high byte indicates an error class.
type DiskStatus uint32

const (
	DiskOK             DiskStatus = 0
	DiskCHSOutOfRange  DiskStatus = 0x40040000
	DiskShortRead      DiskStatus = 0x40200000
	DiskPartialSector  DiskStatus = 0x40202000
)

// DiskPosition encodes (unit, cylinder, head, sector) as the 32-bit value
// the original firmware passes to seek/read/write/verify.
type DiskPosition uint32

// Decode splits the position into its four fields.
func (p DiskPosition) Decode() (unit, cyl, head, sector uint8) {
	return uint8(p >> 24), uint8(p >> 16), uint8(p >> 8), uint8(p)
}

// Disk is an image-file-backed floppy disk.
type Disk interface {
	Seek(mode int, pos DiskPosition) DiskStatus
	Read(mode int, pos DiskPosition, mm *memory.MemoryMap, bufAddr uint32, nbytes int) DiskStatus
	Write(mode int, pos DiskPosition, mm *memory.MemoryMap, bufAddr uint32, nbytes int) DiskStatus
	Verify(mode int, pos DiskPosition, mm *memory.MemoryMap, bufAddr uint32, nbytes int) DiskStatus
}

// HostFs bridges guest file I/O, addressed through the hosted-DOS file
// table, to the host filesystem.
type HostFs interface {
	Open(path string, flags int) (handle int, err error)
	Close(handle int) error
	Read(handle int, buf []byte) (n int, err error)
	Write(handle int, buf []byte) (n int, err error)
	Seek(handle int, offset int64, whence int) (pos int64, err error)
	Chmod(path string, mode uint16) error
	Create(path string, mode uint16) (handle int, err error)
}
