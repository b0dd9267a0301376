/*
cpu - ADDQ, SUBQ, Scc, DBcc (opcode family 0x5).

Copyright 2026, vm68k contributors.
*/

package cpu

import "github.com/rcornwell/vm68k/size"

func quickData(op uint16) uint32 {
	d := uint8(op>>9) & 7
	if d == 0 {
		d = 8
	}
	return uint32(d)
}

func addqHandler(sz size.Size) Handler {
	return func(ctx *Context, op uint16) error {
		data := quickData(op)
		mode, reg := eaFields(op)
		if mode == 1 {
			ctx.Regs.A[reg] += data
			return nil
		}
		ea, err := decodeEA(ctx, mode, reg, sz)
		if err != nil {
			return err
		}
		dst, err := ea.Get()
		if err != nil {
			return err
		}
		return ea.Put(doAdd(ctx, sz, dst, data))
	}
}

func subqHandler(sz size.Size) Handler {
	return func(ctx *Context, op uint16) error {
		data := quickData(op)
		mode, reg := eaFields(op)
		if mode == 1 {
			ctx.Regs.A[reg] -= data
			return nil
		}
		ea, err := decodeEA(ctx, mode, reg, sz)
		if err != nil {
			return err
		}
		dst, err := ea.Get()
		if err != nil {
			return err
		}
		return ea.Put(doSub(ctx, sz, dst, data))
	}
}

func sccHandler(ctx *Context, op uint16) error {
	cond := uint8(op>>8) & 0xf
	mode, reg := eaFields(op)
	ea, err := decodeEA(ctx, mode, reg, size.Byte)
	if err != nil {
		return err
	}
	v := uint32(0)
	if ctx.SR.Cond(cond) {
		v = 0xff
	}
	return ea.Put(v)
}

func dbccHandler(ctx *Context, op uint16) error {
	cond := uint8(op>>8) & 0xf
	reg := uint8(op) & 7
	disp, err := ctx.NextWord()
	if err != nil {
		return err
	}
	base := ctx.Regs.PC - 2
	if ctx.SR.Cond(cond) {
		return nil
	}
	dn := ctx.Regs.GetData(reg, size.Word)
	dn = (dn - 1) & 0xffff
	ctx.Regs.SetData(reg, size.Word, dn)
	if int16(dn) != -1 {
		ctx.Regs.PC = uint32(int32(base) + size.Word.SignExtend(uint32(disp)))
	}
	return nil
}

func installFamily5(eu *ExecUnit) {
	sizes := map[uint16]size.Size{0: size.Byte, 1: size.Word, 2: size.Long}
	const eaMask = uint16(0x0e3f)

	for szBits, sz := range sizes {
		eu.SetInstruction(0x5000|szBits<<6, eaMask, addqHandler(sz))
		eu.SetInstruction(0x5100|szBits<<6, eaMask, subqHandler(sz))
	}

	eu.SetInstruction(0x50c0, 0x0f3f, sccHandler)
	eu.SetInstruction(0x50c8, 0x0f07, dbccHandler)
}
