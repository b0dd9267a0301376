/*
cpu - SUB, SUBA, SUBX (opcode family 0x9).

Copyright 2026, vm68k contributors.
*/

package cpu

import "github.com/rcornwell/vm68k/size"

func subEaFromDn(sz size.Size) Handler {
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
		ctx.Regs.SetData(reg, sz, doSub(ctx, sz, dst, src))
		return nil
	}
}

func subDnFromEa(sz size.Size) Handler {
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
		return ea.Put(doSub(ctx, sz, dst, src))
	}
}

func subaHandler(sz size.Size) Handler {
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
		var sv int32
		if sz == size.Word {
			sv = size.Word.SignExtend(v)
		} else {
			sv = int32(v)
		}
		ctx.Regs.A[reg] = uint32(int32(ctx.Regs.A[reg]) - sv)
		return nil
	}
}

func subxHandler(sz size.Size, predecrement bool) Handler {
	return func(ctx *Context, op uint16) error {
		dstReg := regField(op, 9)
		srcReg := uint8(op) & 7

		var src, dst uint32
		var dstOp *Operand
		var err error
		if predecrement {
			srcOp, err2 := decodeEA(ctx, 4, srcReg, sz)
			if err2 != nil {
				return err2
			}
			dstOp, err = decodeEA(ctx, 4, dstReg, sz)
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
			src = ctx.Regs.GetData(srcReg, sz)
			dst = ctx.Regs.GetData(dstReg, sz)
		}

		raw := doSubX(ctx, sz, dst, src)
		if predecrement {
			return dstOp.Put(raw)
		}
		ctx.Regs.SetData(dstReg, sz, raw)
		return nil
	}
}

func installFamily9(eu *ExecUnit) {
	const base = uint16(0x9000)
	const mask = uint16(0x0e3f)

	eu.SetInstruction(base|0<<6, mask, subEaFromDn(size.Byte))
	eu.SetInstruction(base|1<<6, mask, subEaFromDn(size.Word))
	eu.SetInstruction(base|2<<6, mask, subEaFromDn(size.Long))
	eu.SetInstruction(base|3<<6, mask, subaHandler(size.Word))
	eu.SetInstruction(base|4<<6, mask, subDnFromEa(size.Byte))
	eu.SetInstruction(base|5<<6, mask, subDnFromEa(size.Word))
	eu.SetInstruction(base|6<<6, mask, subDnFromEa(size.Long))
	eu.SetInstruction(base|7<<6, mask, subaHandler(size.Long))

	const xmask = uint16(0x0e07)
	for opmode, sz := range map[uint16]size.Size{4: size.Byte, 5: size.Word, 6: size.Long} {
		eu.SetInstruction(base|opmode<<6|0x00, xmask, subxHandler(sz, false))
		eu.SetInstruction(base|opmode<<6|0x08, xmask, subxHandler(sz, true))
	}
}
