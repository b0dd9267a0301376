/*
cpu - Bcc, BRA, BSR (opcode family 0x6).

Copyright 2026, vm68k contributors.
*/

package cpu

import "github.com/rcornwell/vm68k/size"

// branchHandler decodes the 8-bit displacement in the opcode, falling
// back to a 16-bit extension word when it is zero. The displacement is
// always relative to the address immediately following the opcode word,
// whether or not an extension word followed it.
func branchHandler(ctx *Context, op uint16) error {
	cond := uint8(op>>8) & 0xf
	dispByte := int8(op)
	base := ctx.Regs.PC

	var disp int32
	if dispByte == 0 {
		w, err := ctx.NextWord()
		if err != nil {
			return err
		}
		disp = size.Word.SignExtend(uint32(w))
	} else {
		disp = int32(dispByte)
	}
	target := uint32(int32(base) + disp)

	switch cond {
	case 0x0: // BRA
		ctx.Regs.PC = target
	case 0x1: // BSR
		if err := ctx.PushLong(ctx.Regs.PC); err != nil {
			return err
		}
		ctx.Regs.PC = target
	default:
		if ctx.SR.Cond(cond) {
			ctx.Regs.PC = target
		}
	}
	return nil
}

func installBranch(eu *ExecUnit) {
	eu.SetInstruction(0x6000, 0x0fff, branchHandler)
}
