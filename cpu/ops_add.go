/*
cpu - ADD, ADDA, ADDX, ADDQ/SUBQ-adjacent arithmetic (opcode family 0xD).

Copyright 2026, vm68k contributors.
*/

package cpu

import "github.com/rcornwell/vm68k/size"

func addEaToDn(sz size.Size) Handler {
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
		ctx.Regs.SetData(reg, sz, doAdd(ctx, sz, dst, src))
		return nil
	}
}

func addDnToEa(sz size.Size) Handler {
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
		return ea.Put(doAdd(ctx, sz, dst, src))
	}
}

func addaHandler(sz size.Size) Handler {
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
		ctx.Regs.A[reg] = uint32(int32(ctx.Regs.A[reg]) + sv)
		return nil
	}
}

// addxHandler implements ADDX Dy,Dx (predecrement=false) and
// ADDX -(Ay),-(Ax) (predecrement=true). The X flag feeds in as a carry.
func addxHandler(sz size.Size, predecrement bool) Handler {
	return func(ctx *Context, op uint16) error {
		dstReg := regField(op, 9)
		srcReg := uint8(op) & 7

		var src, dst uint32
		var dstOp, srcOp *Operand
		var err error
		if predecrement {
			srcOp, err = decodeEA(ctx, 4, srcReg, sz)
			if err != nil {
				return err
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

		raw := doAddX(ctx, sz, dst, src)
		if predecrement {
			return dstOp.Put(raw)
		}
		ctx.Regs.SetData(dstReg, sz, raw)
		return nil
	}
}

func installFamilyD(eu *ExecUnit) {
	const base = uint16(0xd000)
	const mask = uint16(0x0e3f)

	eu.SetInstruction(base|0<<6, mask, addEaToDn(size.Byte))
	eu.SetInstruction(base|1<<6, mask, addEaToDn(size.Word))
	eu.SetInstruction(base|2<<6, mask, addEaToDn(size.Long))
	eu.SetInstruction(base|3<<6, mask, addaHandler(size.Word))
	eu.SetInstruction(base|4<<6, mask, addDnToEa(size.Byte))
	eu.SetInstruction(base|5<<6, mask, addDnToEa(size.Word))
	eu.SetInstruction(base|6<<6, mask, addDnToEa(size.Long))
	eu.SetInstruction(base|7<<6, mask, addaHandler(size.Long))

	// ADDX overrides the register/predecrement corner of opmodes 4-6.
	const xmask = uint16(0x0e07)
	for opmode, sz := range map[uint16]size.Size{4: size.Byte, 5: size.Word, 6: size.Long} {
		eu.SetInstruction(base|opmode<<6|0x00, xmask, addxHandler(sz, false))
		eu.SetInstruction(base|opmode<<6|0x08, xmask, addxHandler(sz, true))
	}
}
