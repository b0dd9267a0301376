/*
cpu - CMP, CMPA, CMPM, EOR (opcode family 0xB).

Copyright 2026, vm68k contributors.
*/

package cpu

import "github.com/rcornwell/vm68k/size"

func cmpHandler(sz size.Size) Handler {
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
		doCmp(ctx, sz, ctx.Regs.GetData(reg, sz), src)
		return nil
	}
}

func cmpaHandler(sz size.Size) Handler {
	return func(ctx *Context, op uint16) error {
		reg := regField(op, 9)
		mode, eaReg := eaFields(op)
		ea, err := decodeEA(ctx, mode, eaReg, sz)
		if err != nil {
			return err
		}
		v, err := ea.Get()
		if err != nil {
			return err
		}
		var sv uint32
		if sz == size.Word {
			sv = uint32(size.Word.SignExtend(v))
		} else {
			sv = v
		}
		doCmp(ctx, size.Long, ctx.Regs.A[reg], sv)
		return nil
	}
}

func eorHandler(sz size.Size) Handler {
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
		return ea.Put(doLogic(ctx, sz, dst, src, eorOp))
	}
}

func cmpmHandler(sz size.Size) Handler {
	return func(ctx *Context, op uint16) error {
		dstReg := regField(op, 9)
		srcReg := uint8(op) & 7
		srcOp, err := decodeEA(ctx, 3, srcReg, sz)
		if err != nil {
			return err
		}
		dstOp, err := decodeEA(ctx, 3, dstReg, sz)
		if err != nil {
			return err
		}
		src, err := srcOp.Get()
		if err != nil {
			return err
		}
		dst, err := dstOp.Get()
		if err != nil {
			return err
		}
		doCmp(ctx, sz, dst, src)
		return nil
	}
}

func installFamilyB(eu *ExecUnit) {
	const base = uint16(0xb000)
	const mask = uint16(0x0e3f)

	eu.SetInstruction(base|0<<6, mask, cmpHandler(size.Byte))
	eu.SetInstruction(base|1<<6, mask, cmpHandler(size.Word))
	eu.SetInstruction(base|2<<6, mask, cmpHandler(size.Long))
	eu.SetInstruction(base|3<<6, mask, cmpaHandler(size.Word))
	eu.SetInstruction(base|4<<6, mask, eorHandler(size.Byte))
	eu.SetInstruction(base|5<<6, mask, eorHandler(size.Word))
	eu.SetInstruction(base|6<<6, mask, eorHandler(size.Long))
	eu.SetInstruction(base|7<<6, mask, cmpaHandler(size.Long))

	const xmask = uint16(0x0e07)
	for opmode, sz := range map[uint16]size.Size{4: size.Byte, 5: size.Word, 6: size.Long} {
		eu.SetInstruction(base|opmode<<6|0x08, xmask, cmpmHandler(sz))
	}
}
