/*
cpu - AND, MULU, MULS, ABCD, EXG (opcode family 0xC).

Copyright 2026, vm68k contributors.
*/

package cpu

import (
	"github.com/rcornwell/vm68k/register"
	"github.com/rcornwell/vm68k/size"
)

func andEaToDn(sz size.Size) Handler {
	return func(ctx *Context, op uint16) error {
		reg := regField(op, 9)
		mode, eaReg := eaFields(op)
		ea, err := decodeEA(ctx, mode, eaReg, sz)
		if err != nil {
			return err
		}
		src, err := ea.Get()
		if err != nil {
			return err
		}
		dst := ctx.Regs.GetData(reg, sz)
		ctx.Regs.SetData(reg, sz, doLogic(ctx, sz, dst, src, andOp))
		return nil
	}
}

func andDnToEa(sz size.Size) Handler {
	return func(ctx *Context, op uint16) error {
		reg := regField(op, 9)
		mode, eaReg := eaFields(op)
		ea, err := decodeEA(ctx, mode, eaReg, sz)
		if err != nil {
			return err
		}
		dst, err := ea.Get()
		if err != nil {
			return err
		}
		src := ctx.Regs.GetData(reg, sz)
		return ea.Put(doLogic(ctx, sz, dst, src, andOp))
	}
}

func muluHandler(ctx *Context, op uint16) error {
	reg := regField(op, 9)
	mode, eaReg := eaFields(op)
	ea, err := decodeEA(ctx, mode, eaReg, size.Word)
	if err != nil {
		return err
	}
	src, err := ea.Get()
	if err != nil {
		return err
	}
	result := ctx.Regs.GetData(reg, size.Word) * (src & 0xffff)
	ctx.Regs.D[reg] = result
	ctx.SR.SetCC(register.TesterGeneral, size.Long.Signed(result), 0, 0)
	return nil
}

func mulsHandler(ctx *Context, op uint16) error {
	reg := regField(op, 9)
	mode, eaReg := eaFields(op)
	ea, err := decodeEA(ctx, mode, eaReg, size.Word)
	if err != nil {
		return err
	}
	src, err := ea.Get()
	if err != nil {
		return err
	}
	result := int32(size.Word.SignExtend(ctx.Regs.GetData(reg, size.Word))) *
		int32(size.Word.SignExtend(src))
	ctx.Regs.D[reg] = uint32(result)
	ctx.SR.SetCC(register.TesterGeneral, result, 0, 0)
	return nil
}

// abcdHandler adds two BCD-packed bytes plus the X flag; the memory form
// operates on predecremented -(Ay),-(Ax) pairs, the register form on Dy,Dx.
func abcdHandler(memory bool) Handler {
	return func(ctx *Context, op uint16) error {
		dstReg := regField(op, 9)
		srcReg := uint8(op) & 7

		var src, dst uint32
		var dstOp *Operand
		var err error
		if memory {
			srcOp, err2 := decodeEA(ctx, 4, srcReg, size.Byte)
			if err2 != nil {
				return err2
			}
			dstOp, err = decodeEA(ctx, 4, dstReg, size.Byte)
			if err != nil {
				return err
			}
			if src, err = srcOp.Get(); err != nil {
				return err
			}
			if dst, err = dstOp.Get(); err != nil {
				return err
			}
		} else {
			src = ctx.Regs.GetData(srcReg, size.Byte)
			dst = ctx.Regs.GetData(dstReg, size.Byte)
		}

		x := uint32(0)
		if ctx.SR.X() {
			x = 1
		}
		lo := (dst & 0xf) + (src & 0xf) + x
		hi := (dst >> 4 & 0xf) + (src >> 4 & 0xf)
		if lo > 9 {
			lo -= 10
			hi++
		}
		carry := false
		if hi > 9 {
			hi -= 10
			carry = true
		}
		result := (hi<<4 | lo) & 0xff

		// Z is sticky: ABCD clears it on a nonzero result but leaves a
		// prior zero indication alone so a multi-byte BCD chain can test
		// Z only after its last digit.
		prevZ := ctx.SR.Z()
		var bits uint8
		if result&0x80 != 0 {
			bits |= 0x8
		}
		if result == 0 && prevZ {
			bits |= 0x4
		}
		if carry {
			bits |= 0x11
		}
		ctx.SR.SetCCR(bits)

		if memory {
			return dstOp.Put(result)
		}
		ctx.Regs.SetData(dstReg, size.Byte, result)
		return nil
	}
}

func exgDataHandler(ctx *Context, op uint16) error {
	x, y := regField(op, 9), uint8(op)&7
	ctx.Regs.D[x], ctx.Regs.D[y] = ctx.Regs.D[y], ctx.Regs.D[x]
	return nil
}

func exgAddrHandler(ctx *Context, op uint16) error {
	x, y := regField(op, 9), uint8(op)&7
	ctx.Regs.A[x], ctx.Regs.A[y] = ctx.Regs.A[y], ctx.Regs.A[x]
	return nil
}

func exgDataAddrHandler(ctx *Context, op uint16) error {
	x, y := regField(op, 9), uint8(op)&7
	ctx.Regs.D[x], ctx.Regs.A[y] = ctx.Regs.A[y], ctx.Regs.D[x]
	return nil
}

func installFamilyC(eu *ExecUnit) {
	const base = uint16(0xc000)
	const mask = uint16(0x0e3f)

	eu.SetInstruction(base|0<<6, mask, andEaToDn(size.Byte))
	eu.SetInstruction(base|1<<6, mask, andEaToDn(size.Word))
	eu.SetInstruction(base|2<<6, mask, andEaToDn(size.Long))
	eu.SetInstruction(base|3<<6, mask, muluHandler)
	eu.SetInstruction(base|4<<6, mask, andDnToEa(size.Byte))
	eu.SetInstruction(base|5<<6, mask, andDnToEa(size.Word))
	eu.SetInstruction(base|6<<6, mask, andDnToEa(size.Long))
	eu.SetInstruction(base|7<<6, mask, mulsHandler)

	const xmask = uint16(0x0e07)
	eu.SetInstruction(base|4<<6|0x00, xmask, abcdHandler(false))
	eu.SetInstruction(base|4<<6|0x08, xmask, abcdHandler(true))
	eu.SetInstruction(base|5<<6|0x00, xmask, exgDataHandler)
	eu.SetInstruction(base|5<<6|0x08, xmask, exgAddrHandler)
	eu.SetInstruction(base|6<<6|0x08, xmask, exgDataAddrHandler)
}
