/*
cpu - Effective address decoding.

Copyright 2026, vm68k contributors.
*/

package cpu

import "github.com/rcornwell/vm68k/size"

// Operand is a resolved effective address: either a register (data or
// address) or a memory location, always tagged with the size the
// instruction is operating at.
type Operand struct {
	ctx  *Context
	sz   size.Size
	kind operandKind
	reg  uint8
	addr uint32
	imm  uint32
}

type operandKind uint8

const (
	kindDataReg operandKind = iota
	kindAddrReg
	kindMemory
	kindImmediate
)

// Get reads the operand's current value, sign-irrelevant (callers apply
// size.Signed/Unsigned as needed).
func (o *Operand) Get() (uint32, error) {
	switch o.kind {
	case kindDataReg:
		return o.ctx.Regs.GetData(o.reg, o.sz), nil
	case kindAddrReg:
		return o.ctx.Regs.GetAddr(o.reg, o.sz), nil
	case kindImmediate:
		return o.imm, nil
	default:
		return o.ctx.readMem(o.addr, o.sz)
	}
}

// Put writes v into the operand. Writing to an immediate operand is a
// decoder bug and panics.
func (o *Operand) Put(v uint32) error {
	switch o.kind {
	case kindDataReg:
		o.ctx.Regs.SetData(o.reg, o.sz, v)
		return nil
	case kindAddrReg:
		o.ctx.Regs.SetAddr(o.reg, o.sz, v)
		return nil
	case kindImmediate:
		panic("cpu: write to immediate operand")
	default:
		return o.ctx.writeMem(o.addr, o.sz, v)
	}
}

// Addr returns the memory address a memory-kind operand resolved to; it
// panics for register/immediate operands. Used by LEA/PEA/JMP/JSR, which
// want the address itself rather than its contents.
func (o *Operand) Addr() uint32 {
	if o.kind != kindMemory {
		panic("cpu: Addr of non-memory operand")
	}
	return o.addr
}

func (c *Context) readMem(addr uint32, sz size.Size) (uint32, error) {
	switch sz {
	case size.Byte:
		v, err := c.Mem.Get8(addr, c.dfc)
		return uint32(v), err
	case size.Word:
		v, err := c.Mem.Get16(addr, c.dfc)
		return uint32(v), err
	default:
		return c.Mem.Get32(addr, c.dfc)
	}
}

func (c *Context) writeMem(addr uint32, sz size.Size, v uint32) error {
	switch sz {
	case size.Byte:
		return c.Mem.Put8(addr, uint8(v), c.dfc)
	case size.Word:
		return c.Mem.Put16(addr, uint16(v), c.dfc)
	default:
		return c.Mem.Put32(addr, v, c.dfc)
	}
}

// stepWidth returns the amount (An)+ or -(An) adjusts the address
// register by: size.StackWidth except that byte access through A7
// always steps by 2 to keep the stack word-aligned, which StackWidth
// already encodes for size.Byte — but (An)+/-(An) on *any* address
// register besides A7 steps by exactly the operand size for byte too.
func stepWidth(sz size.Size, reg uint8) uint32 {
	if sz == size.Byte && reg == 7 {
		return 2
	}
	return uint32(sz)
}

// decodeEA resolves a (mode, reg) field pair into an Operand, consuming
// extension words from the instruction stream via ctx.NextWord/NextLong
// as needed. Extension-word displacements for mode 7/2 and 7/3 are
// relative to the address of the extension word itself, per the 68000
// PRM.
func decodeEA(ctx *Context, mode, reg uint8, sz size.Size) (*Operand, error) {
	switch mode {
	case 0:
		return &Operand{ctx: ctx, sz: sz, kind: kindDataReg, reg: reg}, nil
	case 1:
		return &Operand{ctx: ctx, sz: sz, kind: kindAddrReg, reg: reg}, nil
	case 2:
		return &Operand{ctx: ctx, sz: sz, kind: kindMemory, addr: ctx.Regs.A[reg]}, nil
	case 3:
		addr := ctx.Regs.A[reg]
		ctx.Regs.A[reg] += stepWidth(sz, reg)
		return &Operand{ctx: ctx, sz: sz, kind: kindMemory, addr: addr}, nil
	case 4:
		ctx.Regs.A[reg] -= stepWidth(sz, reg)
		return &Operand{ctx: ctx, sz: sz, kind: kindMemory, addr: ctx.Regs.A[reg]}, nil
	case 5:
		disp, err := ctx.NextWord()
		if err != nil {
			return nil, err
		}
		addr := ctx.Regs.A[reg] + uint32(size.Word.SignExtend(uint32(disp)))
		return &Operand{ctx: ctx, sz: sz, kind: kindMemory, addr: addr}, nil
	case 6:
		base := ctx.Regs.A[reg]
		addr, err := decodeIndexed(ctx, base)
		if err != nil {
			return nil, err
		}
		return &Operand{ctx: ctx, sz: sz, kind: kindMemory, addr: addr}, nil
	case 7:
		return decodeEAMode7(ctx, reg, sz)
	}
	return nil, &IllegalInstruction{}
}

// decodeIndexed consumes the brief extension word used by d8(An,Xn) and
// d8(PC,Xn) and returns base + index + displacement.
func decodeIndexed(ctx *Context, base uint32) (uint32, error) {
	ext, err := ctx.NextWord()
	if err != nil {
		return 0, err
	}
	xreg := uint8(ext>>12) & 0x7
	isAddr := ext&0x8000 != 0
	isLong := ext&0x800 != 0
	disp := size.Byte.SignExtend(uint32(ext & 0xff))

	var index int32
	if isAddr {
		if isLong {
			index = int32(ctx.Regs.A[xreg])
		} else {
			index = int32(ctx.Regs.A[xreg] & 0xffff)
			index = int32(int16(index))
		}
	} else {
		if isLong {
			index = int32(ctx.Regs.D[xreg])
		} else {
			index = int32(int16(ctx.Regs.D[xreg] & 0xffff))
		}
	}
	return uint32(int32(base) + index + disp), nil
}

func decodeEAMode7(ctx *Context, reg uint8, sz size.Size) (*Operand, error) {
	switch reg {
	case 0: // absolute short
		w, err := ctx.NextWord()
		if err != nil {
			return nil, err
		}
		addr := uint32(size.Word.SignExtend(uint32(w)))
		return &Operand{ctx: ctx, sz: sz, kind: kindMemory, addr: addr}, nil
	case 1: // absolute long
		addr, err := ctx.NextLong()
		if err != nil {
			return nil, err
		}
		return &Operand{ctx: ctx, sz: sz, kind: kindMemory, addr: addr}, nil
	case 2: // d16(PC)
		pcBase := ctx.Regs.PC
		disp, err := ctx.NextWord()
		if err != nil {
			return nil, err
		}
		addr := pcBase + uint32(size.Word.SignExtend(uint32(disp)))
		return &Operand{ctx: ctx, sz: sz, kind: kindMemory, addr: addr}, nil
	case 3: // d8(PC,Xn)
		pcBase := ctx.Regs.PC
		addr, err := decodeIndexed(ctx, pcBase)
		if err != nil {
			return nil, err
		}
		return &Operand{ctx: ctx, sz: sz, kind: kindMemory, addr: addr}, nil
	case 4: // immediate
		if sz == size.Long {
			v, err := ctx.NextLong()
			if err != nil {
				return nil, err
			}
			return &Operand{ctx: ctx, sz: sz, kind: kindImmediate, imm: v}, nil
		}
		v, err := ctx.NextWord()
		if err != nil {
			return nil, err
		}
		return &Operand{ctx: ctx, sz: sz, kind: kindImmediate, imm: uint32(v) & sz.Mask()}, nil
	}
	return nil, &IllegalInstruction{}
}
