/*
cpu - OR, DIVU, DIVS, SBCD (opcode family 0x8).

Copyright 2026, vm68k contributors.
*/

package cpu

import (
	"github.com/rcornwell/vm68k/register"
	"github.com/rcornwell/vm68k/size"
)

func orEaToDn(sz size.Size) Handler {
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
		ctx.Regs.SetData(reg, sz, doLogic(ctx, sz, dst, src, orOp))
		return nil
	}
}

func orDnToEa(sz size.Size) Handler {
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
		return ea.Put(doLogic(ctx, sz, dst, src, orOp))
	}
}

func divuHandler(ctx *Context, op uint16) error {
	reg := regField(op, 9)
	mode, eaReg := eaFields(op)
	ea, err := decodeEA(ctx, mode, eaReg, size.Word)
	if err != nil {
		return err
	}
	divisor, err := ea.Get()
	if err != nil {
		return err
	}
	divisor &= 0xffff
	if divisor == 0 {
		return &ZeroDivide{}
	}
	dividend := ctx.Regs.D[reg]
	q := dividend / divisor
	r := dividend % divisor
	if q > 0xffff {
		ctx.SR.SetCC(register.TesterBitset, 0x02, 0, 0) // V set, rest undefined-but-cleared
		return nil
	}
	ctx.Regs.D[reg] = (r << 16) | (q & 0xffff)
	ctx.SR.SetCC(register.TesterGeneral, size.Word.Signed(q), 0, 0)
	return nil
}

func divsHandler(ctx *Context, op uint16) error {
	reg := regField(op, 9)
	mode, eaReg := eaFields(op)
	ea, err := decodeEA(ctx, mode, eaReg, size.Word)
	if err != nil {
		return err
	}
	divisor, err := ea.Get()
	if err != nil {
		return err
	}
	sdiv := size.Word.SignExtend(divisor)
	if sdiv == 0 {
		return &ZeroDivide{}
	}
	dividend := int32(ctx.Regs.D[reg])
	q := dividend / sdiv
	r := dividend % sdiv
	if q > 0x7fff || q < -0x8000 {
		ctx.SR.SetCC(register.TesterBitset, 0x02, 0, 0)
		return nil
	}
	ctx.Regs.D[reg] = uint32(r)<<16 | uint32(q)&0xffff
	ctx.SR.SetCC(register.TesterGeneral, q, 0, 0)
	return nil
}

func sbcdHandler(memory bool) Handler {
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
		lo := int32(dst&0xf) - int32(src&0xf) - int32(x)
		hi := int32(dst>>4&0xf) - int32(src>>4&0xf)
		if lo < 0 {
			lo += 10
			hi--
		}
		carry := false
		if hi < 0 {
			hi += 10
			carry = true
		}
		result := uint32(hi<<4|lo) & 0xff

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

func installFamily8(eu *ExecUnit) {
	const base = uint16(0x8000)
	const mask = uint16(0x0e3f)

	eu.SetInstruction(base|0<<6, mask, orEaToDn(size.Byte))
	eu.SetInstruction(base|1<<6, mask, orEaToDn(size.Word))
	eu.SetInstruction(base|2<<6, mask, orEaToDn(size.Long))
	eu.SetInstruction(base|3<<6, mask, divuHandler)
	eu.SetInstruction(base|4<<6, mask, orDnToEa(size.Byte))
	eu.SetInstruction(base|5<<6, mask, orDnToEa(size.Word))
	eu.SetInstruction(base|6<<6, mask, orDnToEa(size.Long))
	eu.SetInstruction(base|7<<6, mask, divsHandler)

	const xmask = uint16(0x0e07)
	eu.SetInstruction(base|4<<6|0x00, xmask, sbcdHandler(false))
	eu.SetInstruction(base|4<<6|0x08, xmask, sbcdHandler(true))
}
