/*
cpu - MOVE and MOVEA (opcode families 0x1, 0x2, 0x3).

Copyright 2026, vm68k contributors.
*/

package cpu

import (
	"github.com/rcornwell/vm68k/register"
	"github.com/rcornwell/vm68k/size"
)

// moveHandler decodes the source operand before the destination, matching
// the instruction's actual extension-word fetch order; MOVE's destination
// mode/register fields sit at bits 8-6/11-9, swapped relative to every
// other two-operand instruction, and a destination mode of 1 (address
// register direct) makes the instruction MOVEA rather than MOVE.
func moveHandler(sz size.Size) Handler {
	return func(ctx *Context, op uint16) error {
		destMode := uint8(op>>6) & 7
		destReg := uint8(op>>9) & 7
		srcMode := uint8(op>>3) & 7
		srcReg := uint8(op) & 7

		srcEA, err := decodeEA(ctx, srcMode, srcReg, sz)
		if err != nil {
			return err
		}
		v, err := srcEA.Get()
		if err != nil {
			return err
		}

		if destMode == 1 {
			var sv int32
			if sz == size.Word {
				sv = size.Word.SignExtend(v)
			} else {
				sv = int32(v)
			}
			ctx.Regs.A[destReg] = uint32(sv)
			return nil
		}

		dstEA, err := decodeEA(ctx, destMode, destReg, sz)
		if err != nil {
			return err
		}
		ctx.SR.SetCC(register.TesterGeneral, sz.Signed(v), 0, 0)
		return dstEA.Put(v)
	}
}

func installMove(eu *ExecUnit) {
	const mask = uint16(0x0fff)
	eu.SetInstruction(0x1000, mask, moveHandler(size.Byte))
	eu.SetInstruction(0x3000, mask, moveHandler(size.Word))
	eu.SetInstruction(0x2000, mask, moveHandler(size.Long))
}
