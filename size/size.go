/*
size - Operand width model for the MC68000 integer data path.

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

// Package size models the three MC68000 operand widths and the
// conversions between their signed, unsigned and stack-aligned forms.
package size

// Size is one of the three MC68000 operand widths, in bytes.
type Size uint8

const (
	Byte Size = 1
	Word Size = 2
	Long Size = 4
)

// String returns the assembler suffix for the size (.B, .W, .L).
func (s Size) String() string {
	switch s {
	case Byte:
		return ".B"
	case Word:
		return ".W"
	case Long:
		return ".L"
	default:
		return ".?"
	}
}

// Bits returns the width of the size in bits.
func (s Size) Bits() uint {
	return uint(s) * 8
}

// Mask returns a bitmask covering every valid bit for the size.
func (s Size) Mask() uint32 {
	switch s {
	case Byte:
		return 0xff
	case Word:
		return 0xffff
	default:
		return 0xffffffff
	}
}

// MSB returns the sign-bit mask for the size.
func (s Size) MSB() uint32 {
	switch s {
	case Byte:
		return 0x80
	case Word:
		return 0x8000
	default:
		return 0x80000000
	}
}

// StackWidth returns the number of bytes the size occupies on A7: byte
// operands are padded to a word so the stack pointer stays word-aligned.
func (s Size) StackWidth() uint32 {
	if s == Byte {
		return 2
	}
	return uint32(s)
}

// Truncate masks v down to the size's valid bit range.
func (s Size) Truncate(v uint32) uint32 {
	return v & s.Mask()
}

// SignExtend sign-extends the low s-width bits of v to a full 32-bit value.
func (s Size) SignExtend(v uint32) int32 {
	switch s {
	case Byte:
		return int32(int8(v))
	case Word:
		return int32(int16(v))
	default:
		return int32(v)
	}
}

// Unsigned returns v truncated to the size, interpreted as unsigned.
func (s Size) Unsigned(v uint32) uint32 {
	return s.Truncate(v)
}

// Signed returns v truncated to the size, sign-extended to int32.
func (s Size) Signed(v uint32) int32 {
	return s.SignExtend(s.Truncate(v))
}
