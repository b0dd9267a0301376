/*
cpu - Instruction-level end-to-end tests.

Copyright 2026, vm68k contributors.
*/

package cpu_test

import (
	"errors"
	"testing"

	"github.com/rcornwell/vm68k/cpu"
	"github.com/rcornwell/vm68k/memory"
)

const (
	ramBase    = 0
	ramSize    = 0x20000
	progBase   = 0x1000
	initialSSP = 0x8000
)

// newTestContext builds a Context over a single flat RAM backend covering
// the whole low address space, with the reset vector pointing at progBase
// and SSP at initialSSP.
func newTestContext(t *testing.T) (*cpu.Context, *memory.MemoryMap) {
	t.Helper()
	mem := memory.NewMemoryMap()
	ram := memory.NewRAM(ramBase, ramSize)
	mem.Fill(ramBase, ramBase+ramSize, ram)
	if err := mem.Put32(0, initialSSP, memory.SuperData); err != nil {
		t.Fatalf("seeding reset SSP: %v", err)
	}
	if err := mem.Put32(4, progBase, memory.SuperData); err != nil {
		t.Fatalf("seeding reset PC: %v", err)
	}
	exec := cpu.NewExecUnit()
	ctx, err := cpu.NewContext(mem, exec)
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}
	return ctx, mem
}

func putWord(t *testing.T, mem *memory.MemoryMap, addr uint32, v uint16) {
	t.Helper()
	if err := mem.Put16(addr, v, memory.SuperData); err != nil {
		t.Fatalf("seeding word at %#x: %v", addr, err)
	}
}

func putLong(t *testing.T, mem *memory.MemoryMap, addr uint32, v uint32) {
	t.Helper()
	if err := mem.Put32(addr, v, memory.SuperData); err != nil {
		t.Fatalf("seeding long at %#x: %v", addr, err)
	}
}

// Scenario S1: ADDQ.W #1,D0 with D0=0x0000FFFF wraps to zero.
func TestScenarioS1AddqWrap(t *testing.T) {
	ctx, mem := newTestContext(t)
	putWord(t, mem, progBase, 0x5240) // ADDQ.W #1,D0

	ctx.Regs.D[0] = 0x0000FFFF
	if err := ctx.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}

	if ctx.Regs.D[0] != 0 {
		t.Errorf("D0 = %#08x, want 0", ctx.Regs.D[0])
	}
	if !ctx.SR.Z() || ctx.SR.N() || ctx.SR.V() || !ctx.SR.C() || !ctx.SR.X() {
		t.Errorf("CCR: Z=%v N=%v V=%v C=%v X=%v, want Z=1 N=0 V=0 C=1 X=1",
			ctx.SR.Z(), ctx.SR.N(), ctx.SR.V(), ctx.SR.C(), ctx.SR.X())
	}
}

// Scenario S2: DIVS.W #0,D0 raises ZeroDivide without touching D0 and
// vectors through the short exception frame.
func TestScenarioS2DivsZeroDivide(t *testing.T) {
	ctx, mem := newTestContext(t)
	putWord(t, mem, progBase, 0x81FC)   // DIVS.W #<imm>,D0
	putWord(t, mem, progBase+2, 0x0000) // immediate divisor

	const handler = 0x2000
	putLong(t, mem, uint32(cpu.VectorZeroDivide)*4, handler)

	ctx.Regs.D[0] = 0x12345678
	wantSR := ctx.SR.SR()

	if err := ctx.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}

	if ctx.Regs.PC != handler {
		t.Errorf("PC = %#x, want %#x", ctx.Regs.PC, handler)
	}
	if ctx.Regs.D[0] != 0x12345678 {
		t.Errorf("D0 = %#08x, want unchanged 0x12345678", ctx.Regs.D[0])
	}

	a7 := ctx.Regs.A[7]
	if a7 != initialSSP-6 {
		t.Fatalf("A7 = %#x, want %#x (6-byte short frame)", a7, initialSSP-6)
	}
	gotSR, err := mem.Get16(a7, memory.SuperData)
	if err != nil {
		t.Fatalf("reading pushed SR: %v", err)
	}
	if gotSR != wantSR {
		t.Errorf("pushed SR = %#04x, want %#04x", gotSR, wantSR)
	}
	gotPC, err := mem.Get32(a7+2, memory.SuperData)
	if err != nil {
		t.Fatalf("reading pushed PC: %v", err)
	}
	if gotPC != progBase {
		t.Errorf("pushed PC = %#x, want %#x", gotPC, progBase)
	}
}

// Scenario S3: MOVEM.L D0-D2,-(A7) stores registers D0 first (highest new
// address) through D2 last (lowest, final A7).
func TestScenarioS3MovemPredecrement(t *testing.T) {
	ctx, mem := newTestContext(t)
	putWord(t, mem, progBase, 0x48E7)   // MOVEM.L <list>,-(A7)
	putWord(t, mem, progBase+2, 0xE000) // D0,D1,D2

	ctx.Regs.D[0], ctx.Regs.D[1], ctx.Regs.D[2] = 1, 2, 3
	ctx.Regs.A[7] = 0x1000

	if err := ctx.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}

	if ctx.Regs.A[7] != 0xFF4 {
		t.Fatalf("A7 = %#x, want 0xFF4", ctx.Regs.A[7])
	}
	cases := []struct {
		addr uint32
		want uint32
	}{
		{0xFF4, 3},
		{0xFF8, 2},
		{0xFFC, 1},
	}
	for _, c := range cases {
		got, err := mem.Get32(c.addr, memory.SuperData)
		if err != nil {
			t.Fatalf("reading %#x: %v", c.addr, err)
		}
		if got != c.want {
			t.Errorf("mem[%#x] = %d, want %d", c.addr, got, c.want)
		}
	}
}

// Scenario S5: with mask=2, posting (3,0x40) then (6,0x45) then (3,0x41)
// services the priority-6 vector first, then the two priority-3 posts in
// the order software re-lowers the mask and steps again.
func TestScenarioS5InterruptPriority(t *testing.T) {
	ctx, mem := newTestContext(t)

	const vHi, vLo1, vLo2 = 0x45, 0x40, 0x41
	const tHi, tLo1, tLo2 = 0x3000, 0x3100, 0x3200
	putLong(t, mem, uint32(vHi)*4, tHi)
	putLong(t, mem, uint32(vLo1)*4, tLo1)
	putLong(t, mem, uint32(vLo2)*4, tLo2)
	putWord(t, mem, tHi, 0x4E71)  // NOP
	putWord(t, mem, tLo1, 0x4E71)
	putWord(t, mem, tLo2, 0x4E71)

	ctx.SR.InterruptMask = 2
	ctx.Interrupt(3, vLo1)
	ctx.Interrupt(6, vHi)
	ctx.Interrupt(3, vLo2)

	if err := ctx.Step(); err != nil {
		t.Fatalf("Step 1: %v", err)
	}
	if ctx.Regs.PC != tHi+2 {
		t.Errorf("after step 1, PC = %#x, want %#x (priority 6 serviced first)", ctx.Regs.PC, tHi+2)
	}

	ctx.SR.InterruptMask = 2 // software (RTE) lowers the mask back
	if err := ctx.Step(); err != nil {
		t.Fatalf("Step 2: %v", err)
	}
	if ctx.Regs.PC != tLo1+2 {
		t.Errorf("after step 2, PC = %#x, want %#x (vec 0x40 serviced next)", ctx.Regs.PC, tLo1+2)
	}

	ctx.SR.InterruptMask = 2
	if err := ctx.Step(); err != nil {
		t.Fatalf("Step 3: %v", err)
	}
	if ctx.Regs.PC != tLo2+2 {
		t.Errorf("after step 3, PC = %#x, want %#x (vec 0x41 serviced last)", ctx.Regs.PC, tLo2+2)
	}
}

// Invariant 7: priorities {3, 5, 3} posted in that order with mask=2
// service the priority-5 vector first, then the two priority-3 vectors
// in FIFO order.
func TestInvariantInterruptPriorityFIFO(t *testing.T) {
	ctx, mem := newTestContext(t)

	const v5, v3a, v3b = 0x50, 0x51, 0x52
	const t5, t3a, t3b = 0x4000, 0x4100, 0x4200
	putLong(t, mem, uint32(v5)*4, t5)
	putLong(t, mem, uint32(v3a)*4, t3a)
	putLong(t, mem, uint32(v3b)*4, t3b)
	putWord(t, mem, t5, 0x4E71)
	putWord(t, mem, t3a, 0x4E71)
	putWord(t, mem, t3b, 0x4E71)

	ctx.SR.InterruptMask = 2
	ctx.Interrupt(3, v3a)
	ctx.Interrupt(5, v5)
	ctx.Interrupt(3, v3b)

	if err := ctx.Step(); err != nil {
		t.Fatalf("Step 1: %v", err)
	}
	if ctx.Regs.PC != t5+2 {
		t.Errorf("priority 5 should service first: PC = %#x, want %#x", ctx.Regs.PC, t5+2)
	}
	ctx.SR.InterruptMask = 2
	if err := ctx.Step(); err != nil {
		t.Fatalf("Step 2: %v", err)
	}
	if ctx.Regs.PC != t3a+2 {
		t.Errorf("first posted priority-3 should service next: PC = %#x, want %#x", ctx.Regs.PC, t3a+2)
	}
	ctx.SR.InterruptMask = 2
	if err := ctx.Step(); err != nil {
		t.Fatalf("Step 3: %v", err)
	}
	if ctx.Regs.PC != t3b+2 {
		t.Errorf("second posted priority-3 should service last: PC = %#x, want %#x", ctx.Regs.PC, t3b+2)
	}
}

// Scenario S6 / Invariant 8 companion: an access to an address no Fill
// ever covered raises BusError through a real instruction's operand read,
// pushing the 14-byte group-0 frame and vectoring through the bus-error
// entry.
func TestScenarioS6BusErrorFrame(t *testing.T) {
	mem := memory.NewMemoryMap()
	ram := memory.NewRAM(0, 0x10000) // deliberately excludes 0x010000
	mem.Fill(0, 0x10000, ram)
	if err := mem.Put32(0, initialSSP, memory.SuperData); err != nil {
		t.Fatalf("seeding SSP: %v", err)
	}
	if err := mem.Put32(4, progBase, memory.SuperData); err != nil {
		t.Fatalf("seeding PC: %v", err)
	}
	const handler = 0x1800
	if err := mem.Put32(uint32(cpu.VectorBusError)*4, handler, memory.SuperData); err != nil {
		t.Fatalf("seeding bus error vector: %v", err)
	}

	exec := cpu.NewExecUnit()
	ctx, err := cpu.NewContext(mem, exec)
	if err != nil {
		t.Fatalf("NewContext: %v", err)
	}

	putWord(t, mem, progBase, 0x4A79)       // TST.W $010000 (absolute long)
	putLong(t, mem, progBase+2, 0x00010000)

	if err := ctx.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}

	if ctx.Regs.PC != handler {
		t.Errorf("PC = %#x, want %#x", ctx.Regs.PC, handler)
	}
	if got, want := ctx.Regs.A[7], uint32(initialSSP-14); got != want {
		t.Errorf("A7 = %#x, want %#x (14-byte group-0 frame)", got, want)
	}
}

// Invariant 9: executing the reserved illegal opcode 0x4AFC traps and
// leaves registers unchanged except for the pushed exception frame.
func TestInvariantIllegalOpcodeTrap(t *testing.T) {
	ctx, mem := newTestContext(t)
	putWord(t, mem, progBase, 0x4AFC)

	const handler = 0x2800
	putLong(t, mem, uint32(cpu.VectorIllegalInstruction)*4, handler)

	ctx.Regs.D[3] = 0xDEADBEEF
	if err := ctx.Step(); err != nil {
		t.Fatalf("Step: %v", err)
	}

	if ctx.Regs.PC != handler {
		t.Errorf("PC = %#x, want %#x", ctx.Regs.PC, handler)
	}
	if ctx.Regs.D[3] != 0xDEADBEEF {
		t.Errorf("D3 = %#08x, want unchanged", ctx.Regs.D[3])
	}
	if got, want := ctx.Regs.A[7], uint32(initialSSP-6); got != want {
		t.Errorf("A7 = %#x, want %#x", got, want)
	}
}

// Invariant 10: BSR to +4 followed by RTS returns PC to the return
// address just past the BSR word and restores A7 to its pre-call value.
func TestInvariantBsrRtsRoundTrip(t *testing.T) {
	ctx, mem := newTestContext(t)
	putWord(t, mem, progBase, 0x6104)     // BSR +4
	putWord(t, mem, progBase+6, 0x4E75)   // RTS at the branch target

	startA7 := ctx.Regs.A[7]
	wantPC := uint32(progBase + 2) // return address: just past the BSR word

	if err := ctx.Step(); err != nil { // execute BSR
		t.Fatalf("Step (BSR): %v", err)
	}
	if ctx.Regs.PC != progBase+6 {
		t.Fatalf("after BSR, PC = %#x, want %#x", ctx.Regs.PC, progBase+6)
	}
	if err := ctx.Step(); err != nil { // execute RTS
		t.Fatalf("Step (RTS): %v", err)
	}

	if ctx.Regs.PC != wantPC {
		t.Errorf("PC = %#x, want %#x", ctx.Regs.PC, wantPC)
	}
	if ctx.Regs.A[7] != startA7 {
		t.Errorf("A7 = %#x, want %#x", ctx.Regs.A[7], startA7)
	}
}

// Invariant 3: setting S raises supervisor state, swapping A7 into SSP
// and loading the previous user value into USP; reversing restores it.
func TestInvariantPrivilegeSwap(t *testing.T) {
	ctx, _ := newTestContext(t)
	ctx.SetSupervisorState(false)
	ctx.Regs.A[7] = 0x5555
	oldSSP := ctx.Regs.SSP

	ctx.SetSupervisorState(true)
	if ctx.Regs.A[7] != oldSSP {
		t.Errorf("A7 after swap to supervisor = %#x, want old SSP %#x", ctx.Regs.A[7], oldSSP)
	}
	if ctx.Regs.USP != 0x5555 {
		t.Errorf("USP = %#x, want 0x5555 (preserved user value)", ctx.Regs.USP)
	}

	ctx.SetSupervisorState(false)
	if ctx.Regs.A[7] != 0x5555 {
		t.Errorf("A7 after swap back to user = %#x, want 0x5555", ctx.Regs.A[7])
	}
}

// Invariant 8: an odd-address word read raises AddressError before any
// backend is consulted.
func TestInvariantOddAddressFault(t *testing.T) {
	_, mem := newTestContext(t)
	_, err := mem.Get16(1, memory.SuperData)

	var addrErr *memory.AddressError
	if !errors.As(err, &addrErr) {
		t.Fatalf("Get16(1): got %v, want *memory.AddressError", err)
	}
	if !addrErr.Read || addrErr.FC != memory.SuperData || addrErr.Address != 1 {
		t.Errorf("AddressError = %+v, want {Read:true FC:SuperData Address:1}", addrErr)
	}
}
