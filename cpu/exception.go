/*
cpu - Guest-observable exception taxonomy.

Copyright 2026, vm68k contributors.
*/

package cpu

import "fmt"

// Exception is any condition an instruction handler can raise that the
// execution loop catches and turns into a vectored exception, rather than
// propagating to the host. memory.BusError and memory.AddressError are
// handled specially by handleException since they need the 14-byte
// group-0 frame; every other Exception gets the short frame.
type Exception interface {
	error
	Vector() uint8
}

// IllegalInstruction is raised by the default ExecUnit entry.
type IllegalInstruction struct{ Opcode uint16 }

func (e *IllegalInstruction) Error() string {
	return fmt.Sprintf("illegal instruction %#04x", e.Opcode)
}
func (e *IllegalInstruction) Vector() uint8 { return VectorIllegalInstruction }

// ZeroDivide is raised by DIVU/DIVS when the divisor is zero.
type ZeroDivide struct{}

func (e *ZeroDivide) Error() string  { return "zero divide" }
func (e *ZeroDivide) Vector() uint8 { return VectorZeroDivide }

// PrivilegeViolation is raised when a supervisor-only instruction
// executes with S=0.
type PrivilegeViolation struct{ Opcode uint16 }

func (e *PrivilegeViolation) Error() string {
	return fmt.Sprintf("privilege violation %#04x", e.Opcode)
}
func (e *PrivilegeViolation) Vector() uint8 { return VectorPrivilegeViolation }

// Trap is raised by the TRAP #n instruction.
type Trap struct{ N uint8 }

func (e *Trap) Error() string  { return fmt.Sprintf("trap #%d", e.N) }
func (e *Trap) Vector() uint8 { return VectorTrapBase + e.N }

// CHKException is raised by CHK when the register operand is out of the
// bound operand's range.
type CHKException struct{}

func (e *CHKException) Error() string  { return "chk exception" }
func (e *CHKException) Vector() uint8 { return VectorCHK }

// TRAPVException is raised by TRAPV when V is set.
type TRAPVException struct{}

func (e *TRAPVException) Error() string  { return "trapv exception" }
func (e *TRAPVException) Vector() uint8 { return VectorTRAPV }
