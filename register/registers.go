/*
register - Data/address register file.

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

// Package register holds the MC68000 register file (D0-D7, A0-A7, PC,
// SSP/USP) and the deferred-evaluation status register described in
// spec.md section 4.2.
package register

import "github.com/rcornwell/vm68k/size"

// Registers is the MC68000 programmer-visible register file, minus the
// status register (see StatusRegister).
type Registers struct {
	D [8]uint32 // Data registers D0-D7.
	A [8]uint32 // Address registers A0-A7; A[7] aliases SSP or USP.
	PC uint32   // Program counter (24 bits significant on the real bus).

	SSP uint32 // Supervisor stack pointer, shadowed into A[7] when S=1.
	USP uint32 // User stack pointer, shadowed into A[7] when S=0.
}

// GetData reads sz bits of D[n], zero-extended into the low bits of the
// returned value.
func (r *Registers) GetData(n uint8, sz size.Size) uint32 {
	return sz.Truncate(r.D[n])
}

// SetData writes sz bits of v into D[n], preserving the untouched upper
// bits — byte and word writes to a data register never disturb the rest
// of the register.
func (r *Registers) SetData(n uint8, sz size.Size, v uint32) {
	mask := sz.Mask()
	r.D[n] = (r.D[n] &^ mask) | (v & mask)
}

// GetAddr reads sz bits of A[n]. Callers that need the full 32-bit
// address-register semantics (e.g. EA computation) should read A[n]
// directly; GetAddr exists for MOVE/MOVEA operand decode parity with
// GetData.
func (r *Registers) GetAddr(n uint8, sz size.Size) uint32 {
	return sz.Truncate(r.A[n])
}

// SetAddr writes v into A[n]. Unlike data registers, any write to an
// address register — byte, word, or long — sign-extends to the full 32
// bits; a plain MOVE.W #imm,An is specified as sign-extending, and no
// MC68000 instruction writes a "partial" address register.
func (r *Registers) SetAddr(n uint8, sz size.Size, v uint32) {
	r.A[n] = uint32(sz.SignExtend(v))
}
