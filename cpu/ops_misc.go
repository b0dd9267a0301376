/*
cpu - NEGX/CLR/NEG/NOT/NBCD/TST/TAS, SWAP/EXT/LEA/PEA, MOVEM, CHK,
LINK/UNLK, privileged/system control, JSR/JMP/TRAP (opcode family 0x4).

Copyright 2026, vm68k contributors.
*/

package cpu

import (
	"github.com/rcornwell/vm68k/register"
	"github.com/rcornwell/vm68k/size"
)

func unaryHandler(sz size.Size, op func(v uint32) uint32, tester register.Tester) Handler {
	return func(ctx *Context, opcode uint16) error {
		mode, reg := eaFields(opcode)
		ea, err := decodeEA(ctx, mode, reg, sz)
		if err != nil {
			return err
		}
		v, err := ea.Get()
		if err != nil {
			return err
		}
		raw := op(v) & sz.Mask()
		ctx.SR.SetCC(tester, sz.Signed(raw), 0, 0)
		return ea.Put(raw)
	}
}

func negxHandler(sz size.Size) Handler {
	return func(ctx *Context, op uint16) error {
		mode, reg := eaFields(op)
		ea, err := decodeEA(ctx, mode, reg, sz)
		if err != nil {
			return err
		}
		dst, err := ea.Get()
		if err != nil {
			return err
		}
		raw := doSubX(ctx, sz, 0, dst)
		return ea.Put(raw)
	}
}

func clrHandler(sz size.Size) Handler {
	return func(ctx *Context, op uint16) error {
		mode, reg := eaFields(op)
		ea, err := decodeEA(ctx, mode, reg, sz)
		if err != nil {
			return err
		}
		ctx.SR.SetCC(register.TesterGeneral, 0, 0, 0)
		return ea.Put(0)
	}
}

func negHandler(sz size.Size) Handler {
	return func(ctx *Context, op uint16) error {
		mode, reg := eaFields(op)
		ea, err := decodeEA(ctx, mode, reg, sz)
		if err != nil {
			return err
		}
		dst, err := ea.Get()
		if err != nil {
			return err
		}
		return ea.Put(doSub(ctx, sz, 0, dst))
	}
}

func notHandler(sz size.Size) Handler {
	return unaryHandler(sz, func(v uint32) uint32 { return ^v }, register.TesterGeneral)
}

func moveFromSRHandler(ctx *Context, op uint16) error {
	mode, reg := eaFields(op)
	ea, err := decodeEA(ctx, mode, reg, size.Word)
	if err != nil {
		return err
	}
	return ea.Put(uint32(ctx.GetSR()))
}

func moveToCCRHandler(ctx *Context, op uint16) error {
	mode, reg := eaFields(op)
	ea, err := decodeEA(ctx, mode, reg, size.Word)
	if err != nil {
		return err
	}
	v, err := ea.Get()
	if err != nil {
		return err
	}
	ctx.SR.SetCCR(uint8(v))
	return nil
}

func moveToSRHandler(ctx *Context, op uint16) error {
	if !ctx.SR.Supervisor {
		return &PrivilegeViolation{Opcode: op}
	}
	mode, reg := eaFields(op)
	ea, err := decodeEA(ctx, mode, reg, size.Word)
	if err != nil {
		return err
	}
	v, err := ea.Get()
	if err != nil {
		return err
	}
	ctx.SetSR(uint16(v))
	return nil
}

// nbcdHandler is SBCD with an implicit zero source: 0 - dst - X in BCD.
func nbcdHandler(ctx *Context, op uint16) error {
	mode, reg := eaFields(op)
	ea, err := decodeEA(ctx, mode, reg, size.Byte)
	if err != nil {
		return err
	}
	dst, err := ea.Get()
	if err != nil {
		return err
	}
	x := uint32(0)
	if ctx.SR.X() {
		x = 1
	}
	lo := int32(0) - int32(dst&0xf) - int32(x)
	hi := int32(0) - int32(dst>>4&0xf)
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
	return ea.Put(result)
}

func peaHandler(ctx *Context, op uint16) error {
	mode, reg := eaFields(op)
	ea, err := decodeEA(ctx, mode, reg, size.Long)
	if err != nil {
		return err
	}
	return ctx.PushLong(ea.Addr())
}

func swapHandler(ctx *Context, op uint16) error {
	reg := uint8(op) & 7
	v := ctx.Regs.D[reg]
	nv := v<<16 | v>>16
	ctx.Regs.D[reg] = nv
	ctx.SR.SetCC(register.TesterGeneral, int32(nv), 0, 0)
	return nil
}

func tasHandler(ctx *Context, op uint16) error {
	mode, reg := eaFields(op)
	ea, err := decodeEA(ctx, mode, reg, size.Byte)
	if err != nil {
		return err
	}
	v, err := ea.Get()
	if err != nil {
		return err
	}
	ctx.SR.SetCC(register.TesterGeneral, size.Byte.Signed(v), 0, 0)
	return ea.Put(v | 0x80)
}

func tstHandler(sz size.Size) Handler {
	return func(ctx *Context, op uint16) error {
		mode, reg := eaFields(op)
		ea, err := decodeEA(ctx, mode, reg, sz)
		if err != nil {
			return err
		}
		v, err := ea.Get()
		if err != nil {
			return err
		}
		ctx.SR.SetCC(register.TesterGeneral, sz.Signed(v), 0, 0)
		return nil
	}
}

func extHandler(toLong bool) Handler {
	return func(ctx *Context, op uint16) error {
		reg := uint8(op) & 7
		if toLong {
			v := size.Word.SignExtend(ctx.Regs.D[reg])
			ctx.Regs.SetData(reg, size.Long, uint32(v))
			ctx.SR.SetCC(register.TesterGeneral, v, 0, 0)
			return nil
		}
		v := size.Byte.SignExtend(ctx.Regs.D[reg])
		ctx.Regs.SetData(reg, size.Word, uint32(v)&0xffff)
		ctx.SR.SetCC(register.TesterGeneral, size.Word.Signed(uint32(v)), 0, 0)
		return nil
	}
}

// movemHandler moves a register subset named by a mask extension word
// to or from memory. Predecrement addressing (store direction only)
// enumerates the mask bit 0..15 as A7..A0,D7..D0 and updates An with the
// final address; every other mode uses the D0..D7,A0..A7 order.
func movemHandler(toReg bool, sz size.Size) Handler {
	return func(ctx *Context, op uint16) error {
		maskWord, err := ctx.NextWord()
		if err != nil {
			return err
		}
		mode, reg := eaFields(op)
		step := uint32(sz)

		if !toReg && mode == 4 {
			addr := ctx.Regs.A[reg]
			// The predecrement mask reverses bit order (bit0=A7..bit15=D0)
			// but registers are still stored D0 first, so the scan must
			// walk the mask from bit15 down to bit0 to recover that order.
			for i := 15; i >= 0; i-- {
				if maskWord&(1<<uint(i)) == 0 {
					continue
				}
				var v uint32
				if i < 8 {
					v = ctx.Regs.A[7-i]
				} else {
					v = ctx.Regs.D[15-i]
				}
				addr -= step
				if err := ctx.writeMem(addr, sz, v&sz.Mask()); err != nil {
					return err
				}
			}
			ctx.Regs.A[reg] = addr
			return nil
		}

		var addr uint32
		if mode == 3 {
			addr = ctx.Regs.A[reg]
		} else {
			ea, err := decodeEA(ctx, mode, reg, sz)
			if err != nil {
				return err
			}
			addr = ea.Addr()
		}

		for i := 0; i < 16; i++ {
			if maskWord&(1<<uint(i)) == 0 {
				continue
			}
			if toReg {
				v, err := ctx.readMem(addr, sz)
				if err != nil {
					return err
				}
				sv := uint32(sz.SignExtend(v))
				if i < 8 {
					ctx.Regs.D[i] = sv
				} else {
					ctx.Regs.A[i-8] = sv
				}
			} else {
				var v uint32
				if i < 8 {
					v = ctx.Regs.D[i]
				} else {
					v = ctx.Regs.A[i-8]
				}
				if err := ctx.writeMem(addr, sz, v&sz.Mask()); err != nil {
					return err
				}
			}
			addr += step
		}
		if mode == 3 {
			ctx.Regs.A[reg] = addr
		}
		return nil
	}
}

func chkHandler(ctx *Context, op uint16) error {
	reg := regField(op, 9)
	mode, eaReg := eaFields(op)
	ea, err := decodeEA(ctx, mode, eaReg, size.Word)
	if err != nil {
		return err
	}
	bound, err := ea.Get()
	if err != nil {
		return err
	}
	v := size.Word.SignExtend(ctx.Regs.GetData(reg, size.Word))
	b := size.Word.SignExtend(bound)
	if v < 0 || v > b {
		ctx.SR.SetCC(register.TesterGeneral, v, 0, 0)
		return &CHKException{}
	}
	return nil
}

func leaHandler(ctx *Context, op uint16) error {
	reg := regField(op, 9)
	mode, eaReg := eaFields(op)
	ea, err := decodeEA(ctx, mode, eaReg, size.Long)
	if err != nil {
		return err
	}
	ctx.Regs.A[reg] = ea.Addr()
	return nil
}

func linkHandler(ctx *Context, op uint16) error {
	reg := uint8(op) & 7
	disp, err := ctx.NextWord()
	if err != nil {
		return err
	}
	if err := ctx.PushLong(ctx.Regs.A[reg]); err != nil {
		return err
	}
	ctx.Regs.A[reg] = ctx.Regs.A[7]
	ctx.Regs.A[7] = uint32(int32(ctx.Regs.A[7]) + size.Word.SignExtend(uint32(disp)))
	return nil
}

func unlkHandler(ctx *Context, op uint16) error {
	reg := uint8(op) & 7
	ctx.Regs.A[7] = ctx.Regs.A[reg]
	v, err := ctx.PopLong()
	if err != nil {
		return err
	}
	ctx.Regs.A[reg] = v
	return nil
}

func moveUSPHandler(ctx *Context, op uint16) error {
	if !ctx.SR.Supervisor {
		return &PrivilegeViolation{Opcode: op}
	}
	reg := uint8(op) & 7
	if op&0x8 != 0 {
		ctx.Regs.A[reg] = ctx.Regs.USP
	} else {
		ctx.Regs.USP = ctx.Regs.A[reg]
	}
	return nil
}

func resetHandler(ctx *Context, op uint16) error {
	if !ctx.SR.Supervisor {
		return &PrivilegeViolation{Opcode: op}
	}
	return nil
}

func nopHandler(ctx *Context, op uint16) error { return nil }

func stopHandler(ctx *Context, op uint16) error {
	if !ctx.SR.Supervisor {
		return &PrivilegeViolation{Opcode: op}
	}
	imm, err := ctx.NextWord()
	if err != nil {
		return err
	}
	ctx.SetSR(imm)
	ctx.stopped = true
	return nil
}

func rteHandler(ctx *Context, op uint16) error {
	if !ctx.SR.Supervisor {
		return &PrivilegeViolation{Opcode: op}
	}
	sr, err := ctx.PopWord()
	if err != nil {
		return err
	}
	pc, err := ctx.PopLong()
	if err != nil {
		return err
	}
	ctx.SetSR(sr)
	ctx.Regs.PC = pc
	return nil
}

func rtsHandler(ctx *Context, op uint16) error {
	pc, err := ctx.PopLong()
	if err != nil {
		return err
	}
	ctx.Regs.PC = pc
	return nil
}

func trapvHandler(ctx *Context, op uint16) error {
	if ctx.SR.V() {
		return &TRAPVException{}
	}
	return nil
}

func rtrHandler(ctx *Context, op uint16) error {
	ccr, err := ctx.PopWord()
	if err != nil {
		return err
	}
	pc, err := ctx.PopLong()
	if err != nil {
		return err
	}
	ctx.SR.SetCCR(uint8(ccr))
	ctx.Regs.PC = pc
	return nil
}

func jsrHandler(ctx *Context, op uint16) error {
	mode, reg := eaFields(op)
	ea, err := decodeEA(ctx, mode, reg, size.Long)
	if err != nil {
		return err
	}
	target := ea.Addr()
	if err := ctx.PushLong(ctx.Regs.PC); err != nil {
		return err
	}
	ctx.Regs.PC = target
	return nil
}

func jmpHandler(ctx *Context, op uint16) error {
	mode, reg := eaFields(op)
	ea, err := decodeEA(ctx, mode, reg, size.Long)
	if err != nil {
		return err
	}
	ctx.Regs.PC = ea.Addr()
	return nil
}

func trapHandler(ctx *Context, op uint16) error {
	return &Trap{N: uint8(op) & 0xf}
}

func installFamily4(eu *ExecUnit) {
	sizes := map[uint16]size.Size{0: size.Byte, 1: size.Word, 2: size.Long}
	const eaMask = uint16(0x003f)

	for szBits, sz := range sizes {
		eu.SetInstruction(0x4000|szBits<<6, eaMask, negxHandler(sz))
		eu.SetInstruction(0x4200|szBits<<6, eaMask, clrHandler(sz))
		eu.SetInstruction(0x4400|szBits<<6, eaMask, negHandler(sz))
		eu.SetInstruction(0x4600|szBits<<6, eaMask, notHandler(sz))
		eu.SetInstruction(0x4a00|szBits<<6, eaMask, tstHandler(sz))
	}
	eu.SetInstruction(0x40c0, eaMask, moveFromSRHandler)
	eu.SetInstruction(0x44c0, eaMask, moveToCCRHandler)
	eu.SetInstruction(0x46c0, eaMask, moveToSRHandler)

	eu.SetInstruction(0x4800, eaMask, nbcdHandler)
	eu.SetInstruction(0x4840, eaMask, peaHandler)
	eu.SetInstruction(0x4840, 0x0007, swapHandler) // Dn corner of PEA.
	eu.SetInstruction(0x4880, eaMask, movemHandler(false, size.Word))
	eu.SetInstruction(0x48c0, eaMask, movemHandler(false, size.Long))
	eu.SetInstruction(0x4880, 0x0007, extHandler(false)) // Dn corner of MOVEM.W reg->mem.
	eu.SetInstruction(0x48c0, 0x0007, extHandler(true))  // Dn corner of MOVEM.L reg->mem.
	eu.SetInstruction(0x4c80, eaMask, movemHandler(true, size.Word))
	eu.SetInstruction(0x4cc0, eaMask, movemHandler(true, size.Long))

	eu.SetInstruction(0x4ac0, eaMask, tasHandler)
	eu.SetInstruction(0x4afc, 0, illegalHandler)

	eu.SetInstruction(0x4180, 0x0e3f, chkHandler)
	eu.SetInstruction(0x41c0, 0x0e3f, leaHandler)

	eu.SetInstruction(0x4e50, 0x0007, linkHandler)
	eu.SetInstruction(0x4e58, 0x0007, unlkHandler)
	eu.SetInstruction(0x4e60, 0x000f, moveUSPHandler)

	eu.SetInstruction(0x4e70, 0, resetHandler)
	eu.SetInstruction(0x4e71, 0, nopHandler)
	eu.SetInstruction(0x4e72, 0, stopHandler)
	eu.SetInstruction(0x4e73, 0, rteHandler)
	eu.SetInstruction(0x4e75, 0, rtsHandler)
	eu.SetInstruction(0x4e76, 0, trapvHandler)
	eu.SetInstruction(0x4e77, 0, rtrHandler)

	eu.SetInstruction(0x4e80, eaMask, jsrHandler)
	eu.SetInstruction(0x4ec0, eaMask, jmpHandler)
	eu.SetInstruction(0x4e40, 0x000f, trapHandler)
}
