/*
cpu - MOVEQ (opcode family 0x7).

Copyright 2026, vm68k contributors.
*/

package cpu

import "github.com/rcornwell/vm68k/register"

func moveqHandler(ctx *Context, op uint16) error {
	reg := regField(op, 9)
	data := int32(int8(op))
	ctx.Regs.D[reg] = uint32(data)
	ctx.SR.SetCC(register.TesterGeneral, data, 0, 0)
	return nil
}

func installMoveq(eu *ExecUnit) {
	eu.SetInstruction(0x7000, 0x0eff, moveqHandler)
}
