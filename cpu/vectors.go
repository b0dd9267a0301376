/*
cpu - Exception vector table constants.

Copyright 2026, vm68k contributors.
*/

package cpu

// Vector numbers for guest memory [0, 0x400), per the MC68000 vector
// table: each entry is a 4-byte PC loaded when the corresponding
// exception is raised.
const (
	VectorResetSSP          = 0
	VectorResetPC           = 1
	VectorBusError          = 2
	VectorAddressError      = 3
	VectorIllegalInstruction = 4
	VectorZeroDivide        = 5
	VectorCHK               = 6
	VectorTRAPV             = 7
	VectorPrivilegeViolation = 8
	VectorTrace             = 9
	// VectorTrapBase is TRAP #0; TRAP #n uses VectorTrapBase+n.
	VectorTrapBase = 0x20
)
