/*
cpu - Opcode decoder/dispatch table.

Copyright 2026, vm68k contributors.
*/

package cpu

// Handler executes one instruction, advancing PC itself, and returns a
// non-nil error when the instruction raises an exception or hits a
// host-fatal condition.
type Handler func(ctx *Context, opcode uint16) error

// ExecUnit is the flat 65536-entry opcode dispatch table. It is built
// once at startup from a list of (base, mask, handler) installations and
// never mutated afterward, so concurrent CPUs may share one ExecUnit.
type ExecUnit struct {
	table [65536]Handler
}

func illegalHandler(ctx *Context, opcode uint16) error {
	return &IllegalInstruction{Opcode: opcode}
}

// NewExecUnit returns an ExecUnit with every entry wired to raise
// IllegalInstruction, then installs the full MC68000 instruction set.
func NewExecUnit() *ExecUnit {
	eu := &ExecUnit{}
	for i := range eu.table {
		eu.table[i] = illegalHandler
	}
	installFamily0(eu)
	installMove(eu)
	installFamily4(eu)
	installFamily5(eu)
	installBranch(eu)
	installMoveq(eu)
	installFamily8(eu)
	installFamily9(eu)
	installFamilyB(eu)
	installFamilyC(eu)
	installFamilyD(eu)
	installShifts(eu)
	return eu
}

// SetInstruction installs handler at every opcode i for which
// i &^ mask == base, the mask-based bulk installer spec.md describes:
// mask's 1-bits are the "don't care" positions (register/mode/size
// fields the handler itself decodes from the opcode it's called with).
func (eu *ExecUnit) SetInstruction(base, mask uint16, handler Handler) {
	for i := 0; i < 65536; i++ {
		if uint16(i)&^mask == base {
			eu.table[i] = handler
		}
	}
}

// Lookup returns the handler installed for opcode.
func (eu *ExecUnit) Lookup(opcode uint16) Handler {
	return eu.table[opcode]
}
