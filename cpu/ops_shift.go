/*
cpu - ASx, LSx, ROXx, ROx shifts and rotates (opcode family 0xE).

Copyright 2026, vm68k contributors.
*/

package cpu

import (
	"github.com/rcornwell/vm68k/register"
	"github.com/rcornwell/vm68k/size"
)

// shiftKind names the four rotate/shift families sharing family 0xE's
// type field (bits 4-3 in the register form, bits 10-9 in the memory
// form).
type shiftKind uint8

const (
	shiftArith shiftKind = iota
	shiftLogical
	shiftRotateX
	shiftRotate
)

func b2u(b bool) uint32 {
	if b {
		return 1
	}
	return 0
}

// doArithShift performs count single-bit arithmetic shifts, sign-filling
// on the right and reporting the last bit shifted out.
func doArithShift(sz size.Size, v uint32, count uint32, left bool) (raw uint32, lastOut bool) {
	raw = sz.Truncate(v)
	if count == 0 {
		return raw, false
	}
	signBit := raw&sz.MSB() != 0
	for i := uint32(0); i < count; i++ {
		if left {
			lastOut = raw&sz.MSB() != 0
			raw = (raw << 1) & sz.Mask()
		} else {
			lastOut = raw&1 != 0
			raw >>= 1
			if signBit {
				raw |= sz.MSB()
			}
		}
	}
	return raw, lastOut
}

func doLogicalShift(sz size.Size, v uint32, count uint32, left bool) (raw uint32, lastOut bool) {
	raw = sz.Truncate(v)
	if count == 0 {
		return raw, false
	}
	for i := uint32(0); i < count; i++ {
		if left {
			lastOut = raw&sz.MSB() != 0
			raw = (raw << 1) & sz.Mask()
		} else {
			lastOut = raw&1 != 0
			raw >>= 1
		}
	}
	return raw, lastOut
}

func doRotate(sz size.Size, v uint32, count uint32, left bool) (raw uint32, lastOut bool) {
	raw = sz.Truncate(v)
	bits := sz.Bits()
	if count == 0 {
		return raw, false
	}
	count %= uint32(bits)
	if count == 0 {
		count = uint32(bits)
	}
	for i := uint32(0); i < count; i++ {
		if left {
			msb := raw&sz.MSB() != 0
			raw = ((raw << 1) | b2u(msb)) & sz.Mask()
			lastOut = msb
		} else {
			lsb := raw&1 != 0
			raw = (raw >> 1) | (b2u(lsb) << (bits - 1))
			lastOut = lsb
		}
	}
	return raw, lastOut
}

func doRotateX(sz size.Size, v uint32, count uint32, left bool, xIn bool) (raw uint32, xOut bool) {
	raw = sz.Truncate(v)
	x := xIn
	for i := uint32(0); i < count; i++ {
		if left {
			msb := raw&sz.MSB() != 0
			raw = ((raw << 1) | b2u(x)) & sz.Mask()
			x = msb
		} else {
			lsb := raw&1 != 0
			raw = (raw >> 1) | (b2u(x) << (sz.Bits() - 1))
			x = lsb
		}
	}
	return raw, x
}

// applyShiftCC materializes N/Z/V/C (and, for the non-rotate kinds, X)
// from the shift result. For every kind the CCR bits are composed
// directly from raw and lastOut/xOut rather than through a
// register.Tester, so the carry-out is the bit that actually shifted
// out at any operand width and count. A zero-count ASx/LSx clears C and
// leaves X unchanged.
func applyShiftCC(ctx *Context, sz size.Size, kind shiftKind, left bool, raw uint32, dest uint32, count uint32, lastOut bool, xOut bool) {
	switch kind {
	case shiftArith, shiftLogical:
		// lastOut is the bit that actually shifted out in either
		// direction, so C and X take it directly.
		var bits uint8
		if raw&sz.MSB() != 0 {
			bits |= 0x8
		}
		if sz.Truncate(raw) == 0 {
			bits |= 0x4
		}
		if count == 0 {
			ctx.SR.SetCC(register.TesterBitset, int32(bits), 0, 0)
		} else {
			if lastOut {
				bits |= 0x11
			}
			ctx.SR.SetCCR(bits)
		}
	case shiftRotateX:
		var bits uint8
		if raw&sz.MSB() != 0 {
			bits |= 0x8
		}
		if sz.Truncate(raw) == 0 {
			bits |= 0x4
		}
		if xOut {
			bits |= 0x11
		}
		ctx.SR.SetCCX(register.TesterBitset, int32(bits), 0, 0)
	case shiftRotate:
		var bits uint8
		if raw&sz.MSB() != 0 {
			bits |= 0x8
		}
		if sz.Truncate(raw) == 0 {
			bits |= 0x4
		}
		if lastOut {
			bits |= 0x1
		}
		ctx.SR.SetCC(register.TesterBitset, int32(bits), 0, 0)
	}
}

func shiftRegHandler(sz size.Size, left bool, kind shiftKind, useReg bool) Handler {
	return func(ctx *Context, op uint16) error {
		reg := uint8(op) & 7
		cntField := uint8(op>>9) & 7
		var count uint32
		if useReg {
			count = ctx.Regs.D[cntField] % 64
		} else {
			if cntField == 0 {
				cntField = 8
			}
			count = uint32(cntField)
		}

		dest := ctx.Regs.GetData(reg, sz)
		var raw uint32
		var lastOut, xOut bool
		switch kind {
		case shiftArith:
			raw, lastOut = doArithShift(sz, dest, count, left)
		case shiftLogical:
			raw, lastOut = doLogicalShift(sz, dest, count, left)
		case shiftRotateX:
			raw, xOut = doRotateX(sz, dest, count, left, ctx.SR.X())
			lastOut = xOut
		case shiftRotate:
			raw, lastOut = doRotate(sz, dest, count, left)
		}
		ctx.Regs.SetData(reg, sz, raw)
		applyShiftCC(ctx, sz, kind, left, raw, dest, count, lastOut, xOut)
		return nil
	}
}

func shiftMemHandler(left bool, kind shiftKind) Handler {
	return func(ctx *Context, op uint16) error {
		mode, reg := eaFields(op)
		ea, err := decodeEA(ctx, mode, reg, size.Word)
		if err != nil {
			return err
		}
		dest, err := ea.Get()
		if err != nil {
			return err
		}

		var raw uint32
		var lastOut, xOut bool
		switch kind {
		case shiftArith:
			raw, lastOut = doArithShift(size.Word, dest, 1, left)
		case shiftLogical:
			raw, lastOut = doLogicalShift(size.Word, dest, 1, left)
		case shiftRotateX:
			raw, xOut = doRotateX(size.Word, dest, 1, left, ctx.SR.X())
			lastOut = xOut
		case shiftRotate:
			raw, lastOut = doRotate(size.Word, dest, 1, left)
		}
		applyShiftCC(ctx, size.Word, kind, left, raw, dest, 1, lastOut, xOut)
		return ea.Put(raw)
	}
}

func installShifts(eu *ExecUnit) {
	sizes := map[uint16]size.Size{0: size.Byte, 1: size.Word, 2: size.Long}
	kinds := []shiftKind{shiftArith, shiftLogical, shiftRotateX, shiftRotate}

	const regMask = uint16(0x0e07)
	for dBit, left := range map[uint16]bool{0: false, 1: true} {
		for szBits, sz := range sizes {
			for tt, kind := range kinds {
				for iBit := uint16(0); iBit < 2; iBit++ {
					base := 0xe000 | dBit<<8 | szBits<<6 | iBit<<5 | uint16(tt)<<3
					eu.SetInstruction(base, regMask, shiftRegHandler(sz, left, kind, iBit == 1))
				}
			}
		}
	}

	const memMask = uint16(0x003f)
	for dBit, left := range map[uint16]bool{0: false, 1: true} {
		for tt, kind := range kinds {
			base := 0xe000 | uint16(tt)<<9 | dBit<<8 | 3<<6
			eu.SetInstruction(base, memMask, shiftMemHandler(left, kind))
		}
	}
}
