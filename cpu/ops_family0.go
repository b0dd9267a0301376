/*
cpu - Immediate arithmetic/logic, bit manipulation, and MOVEP (opcode
family 0x0).

Copyright 2026, vm68k contributors.
*/

package cpu

import (
	"github.com/rcornwell/vm68k/register"
	"github.com/rcornwell/vm68k/size"
)

func immediate(ctx *Context, sz size.Size) (uint32, error) {
	if sz == size.Long {
		return ctx.NextLong()
	}
	w, err := ctx.NextWord()
	return uint32(w) & sz.Mask(), err
}

func oriHandler(sz size.Size) Handler {
	return func(ctx *Context, op uint16) error {
		imm, err := immediate(ctx, sz)
		if err != nil {
			return err
		}
		mode, reg := eaFields(op)
		ea, err := decodeEA(ctx, mode, reg, sz)
		if err != nil {
			return err
		}
		dst, err := ea.Get()
		if err != nil {
			return err
		}
		return ea.Put(doLogic(ctx, sz, dst, imm, orOp))
	}
}

func andiHandler(sz size.Size) Handler {
	return func(ctx *Context, op uint16) error {
		imm, err := immediate(ctx, sz)
		if err != nil {
			return err
		}
		mode, reg := eaFields(op)
		ea, err := decodeEA(ctx, mode, reg, sz)
		if err != nil {
			return err
		}
		dst, err := ea.Get()
		if err != nil {
			return err
		}
		return ea.Put(doLogic(ctx, sz, dst, imm, andOp))
	}
}

func eoriHandler(sz size.Size) Handler {
	return func(ctx *Context, op uint16) error {
		imm, err := immediate(ctx, sz)
		if err != nil {
			return err
		}
		mode, reg := eaFields(op)
		ea, err := decodeEA(ctx, mode, reg, sz)
		if err != nil {
			return err
		}
		dst, err := ea.Get()
		if err != nil {
			return err
		}
		return ea.Put(doLogic(ctx, sz, dst, imm, eorOp))
	}
}

func subiHandler(sz size.Size) Handler {
	return func(ctx *Context, op uint16) error {
		imm, err := immediate(ctx, sz)
		if err != nil {
			return err
		}
		mode, reg := eaFields(op)
		ea, err := decodeEA(ctx, mode, reg, sz)
		if err != nil {
			return err
		}
		dst, err := ea.Get()
		if err != nil {
			return err
		}
		return ea.Put(doSub(ctx, sz, dst, imm))
	}
}

func addiHandler(sz size.Size) Handler {
	return func(ctx *Context, op uint16) error {
		imm, err := immediate(ctx, sz)
		if err != nil {
			return err
		}
		mode, reg := eaFields(op)
		ea, err := decodeEA(ctx, mode, reg, sz)
		if err != nil {
			return err
		}
		dst, err := ea.Get()
		if err != nil {
			return err
		}
		return ea.Put(doAdd(ctx, sz, dst, imm))
	}
}

func cmpiHandler(sz size.Size) Handler {
	return func(ctx *Context, op uint16) error {
		imm, err := immediate(ctx, sz)
		if err != nil {
			return err
		}
		mode, reg := eaFields(op)
		ea, err := decodeEA(ctx, mode, reg, sz)
		if err != nil {
			return err
		}
		dst, err := ea.Get()
		if err != nil {
			return err
		}
		doCmp(ctx, sz, dst, imm)
		return nil
	}
}

func oriToCCRHandler(ctx *Context, op uint16) error {
	imm, err := ctx.NextWord()
	if err != nil {
		return err
	}
	ctx.SR.SetCCR(ctx.SR.CCR() | uint8(imm))
	return nil
}

func oriToSRHandler(ctx *Context, op uint16) error {
	imm, err := ctx.NextWord()
	if err != nil {
		return err
	}
	if !ctx.SR.Supervisor {
		return &PrivilegeViolation{Opcode: op}
	}
	ctx.SetSR(ctx.GetSR() | imm)
	return nil
}

func andiToCCRHandler(ctx *Context, op uint16) error {
	imm, err := ctx.NextWord()
	if err != nil {
		return err
	}
	ctx.SR.SetCCR(ctx.SR.CCR() & uint8(imm))
	return nil
}

func andiToSRHandler(ctx *Context, op uint16) error {
	imm, err := ctx.NextWord()
	if err != nil {
		return err
	}
	if !ctx.SR.Supervisor {
		return &PrivilegeViolation{Opcode: op}
	}
	ctx.SetSR(ctx.GetSR() & imm)
	return nil
}

func eoriToCCRHandler(ctx *Context, op uint16) error {
	imm, err := ctx.NextWord()
	if err != nil {
		return err
	}
	ctx.SR.SetCCR(ctx.SR.CCR() ^ uint8(imm))
	return nil
}

func eoriToSRHandler(ctx *Context, op uint16) error {
	imm, err := ctx.NextWord()
	if err != nil {
		return err
	}
	if !ctx.SR.Supervisor {
		return &PrivilegeViolation{Opcode: op}
	}
	ctx.SetSR(ctx.GetSR() ^ imm)
	return nil
}

// bitHandler implements BTST/BCHG/BCLR/BSET. subop selects the operation;
// dynamic selects whether the bit number comes from a data register
// (dynamic form) or an extension word (static form).
func bitHandler(subop uint8, dynamic bool) Handler {
	return func(ctx *Context, op uint16) error {
		var bitNo uint32
		if dynamic {
			bitNo = ctx.Regs.D[regField(op, 9)]
		} else {
			w, err := ctx.NextWord()
			if err != nil {
				return err
			}
			bitNo = uint32(w)
		}

		mode, reg := eaFields(op)
		sz := size.Byte
		if mode == 0 {
			sz = size.Long
		}
		ea, err := decodeEA(ctx, mode, reg, sz)
		if err != nil {
			return err
		}
		v, err := ea.Get()
		if err != nil {
			return err
		}
		bit := uint(bitNo) & uint(sz.Bits()-1)
		mask := uint32(1) << bit
		set := v&mask != 0

		r := int32(0)
		if set {
			r = 1
		}
		ctx.SR.SetCC(register.TesterGeneral, r, 0, 0)

		switch subop {
		case 0: // BTST
			return nil
		case 1: // BCHG
			v ^= mask
		case 2: // BCLR
			v &^= mask
		case 3: // BSET
			v |= mask
		}
		return ea.Put(v)
	}
}

func movepHandler(ctx *Context, op uint16) error {
	dReg := regField(op, 9)
	opmode := (op >> 6) & 3
	aReg := uint8(op) & 7

	disp, err := ctx.NextWord()
	if err != nil {
		return err
	}
	addr := ctx.Regs.A[aReg] + uint32(size.Word.SignExtend(uint32(disp)))

	switch opmode {
	case 0, 1: // memory to register, word/long
		n := 2
		if opmode == 1 {
			n = 4
		}
		var v uint32
		for i := 0; i < n; i++ {
			b, err := ctx.Mem.Get8(addr+uint32(2*i), ctx.DataFC())
			if err != nil {
				return err
			}
			v = v<<8 | uint32(b)
		}
		sz := size.Word
		if n == 4 {
			sz = size.Long
		}
		ctx.Regs.SetData(dReg, sz, v)
	case 2, 3: // register to memory, word/long
		n := 2
		v := ctx.Regs.GetData(dReg, size.Word)
		if opmode == 3 {
			n = 4
			v = ctx.Regs.GetData(dReg, size.Long)
		}
		for i := n - 1; i >= 0; i-- {
			if err := ctx.Mem.Put8(addr+uint32(2*i), uint8(v), ctx.DataFC()); err != nil {
				return err
			}
			v >>= 8
		}
	}
	return nil
}

func installFamily0(eu *ExecUnit) {
	sizes := map[uint16]size.Size{0: size.Byte, 1: size.Word, 2: size.Long}
	const eaMask = uint16(0x003f)

	for szBits, sz := range sizes {
		eu.SetInstruction(0x0000|szBits<<6, eaMask, oriHandler(sz))
		eu.SetInstruction(0x0200|szBits<<6, eaMask, andiHandler(sz))
		eu.SetInstruction(0x0400|szBits<<6, eaMask, subiHandler(sz))
		eu.SetInstruction(0x0600|szBits<<6, eaMask, addiHandler(sz))
		eu.SetInstruction(0x0a00|szBits<<6, eaMask, eoriHandler(sz))
		eu.SetInstruction(0x0c00|szBits<<6, eaMask, cmpiHandler(sz))
	}

	eu.SetInstruction(0x003c, 0, oriToCCRHandler)
	eu.SetInstruction(0x007c, 0, oriToSRHandler)
	eu.SetInstruction(0x023c, 0, andiToCCRHandler)
	eu.SetInstruction(0x027c, 0, andiToSRHandler)
	eu.SetInstruction(0x0a3c, 0, eoriToCCRHandler)
	eu.SetInstruction(0x0a7c, 0, eoriToSRHandler)

	for subop := uint8(0); subop < 4; subop++ {
		eu.SetInstruction(0x0800|uint16(subop)<<6, eaMask, bitHandler(subop, false))
		eu.SetInstruction(0x0100|uint16(subop)<<6, 0x0e3f, bitHandler(subop, true))
	}

	eu.SetInstruction(0x0108, 0x0ec7, movepHandler)
}
