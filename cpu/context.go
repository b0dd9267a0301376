/*
cpu - Per-CPU execution context.

Copyright 2026, vm68k contributors.

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
SOFTWARE.
*/

// Package cpu implements the MC68000 instruction fetch/decode/execute
// loop: the per-CPU Context, the ExecUnit opcode table, effective-address
// decoding, and the guest-observable exception taxonomy.
package cpu

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/rcornwell/vm68k/memory"
	"github.com/rcornwell/vm68k/register"
)

// Context owns one CPU's register state, its reference to the shared
// MemoryMap, and the interrupt queue array that external goroutines post
// into.
type Context struct {
	Regs register.Registers
	SR   *register.StatusRegister
	Mem  *memory.MemoryMap
	Exec *ExecUnit

	pfc memory.FuncCode
	dfc memory.FuncCode

	mu          sync.Mutex
	interrupted bool
	queues      [8][]uint8 // indexed 1..7; index 0 unused.
	stopped     bool       // set by STOP, cleared when an interrupt is serviced.
}

// NewContext returns a Context reset to the power-up state: supervisor
// mode, SSP loaded from the reset vector at address 0 and PC from 4.
func NewContext(mem *memory.MemoryMap, exec *ExecUnit) (*Context, error) {
	c := &Context{
		Mem:  mem,
		Exec: exec,
		SR:   register.NewStatusRegister(),
	}
	c.updateFuncCodes()

	ssp, err := mem.Get32(0, memory.SuperData)
	if err != nil {
		return nil, fmt.Errorf("cpu: reading reset SSP: %w", err)
	}
	pc, err := mem.Get32(4, memory.SuperData)
	if err != nil {
		return nil, fmt.Errorf("cpu: reading reset PC: %w", err)
	}
	c.Regs.SSP = ssp
	c.Regs.A[7] = ssp
	c.Regs.PC = pc
	return c, nil
}

func (c *Context) updateFuncCodes() {
	if c.SR.Supervisor {
		c.pfc, c.dfc = memory.SuperProgram, memory.SuperData
	} else {
		c.pfc, c.dfc = memory.UserProgram, memory.UserData
	}
}

// SetSupervisorState transitions S, swapping A7 between SSP and USP on
// every edge (a same-state call is a no-op) and refreshing the cached
// function codes.
func (c *Context) SetSupervisorState(supervisor bool) {
	if supervisor == c.SR.Supervisor {
		return
	}
	if c.SR.Supervisor {
		c.Regs.SSP = c.Regs.A[7]
		c.Regs.A[7] = c.Regs.USP
	} else {
		c.Regs.USP = c.Regs.A[7]
		c.Regs.A[7] = c.Regs.SSP
	}
	c.SR.Supervisor = supervisor
	c.updateFuncCodes()
}

// GetSR materializes the 16-bit status register.
func (c *Context) GetSR() uint16 { return c.SR.SR() }

// SetSR overwrites the status register, performing the privilege
// transition (A7/SSP/USP swap) implied by a change to S.
func (c *Context) SetSR(v uint16) {
	supervisor := v&0x2000 != 0
	c.SetSupervisorState(supervisor)
	c.SR.SetSR(v)
}

// Interrupt posts a pending interrupt at the given priority (1-7) with
// the given vector number. It is safe to call from any goroutine; it
// never blocks on instruction execution.
func (c *Context) Interrupt(priority, vector uint8) {
	if priority < 1 || priority > 7 {
		return
	}
	c.mu.Lock()
	c.queues[priority] = append(c.queues[priority], vector)
	c.interrupted = true
	c.mu.Unlock()
}

func (c *Context) pendingPriority() uint8 {
	for p := uint8(7); p >= 1; p-- {
		if len(c.queues[p]) > 0 {
			return p
		}
	}
	return 0
}

// handleInterrupts services the highest pending interrupt if it is
// priority 7 (non-maskable) or strictly above the current interrupt
// mask, pushing a short exception frame and raising the mask to the
// serviced priority. Lower-priority posts are left queued.
func (c *Context) handleInterrupts() error {
	c.mu.Lock()
	prio := c.pendingPriority()
	if prio == 0 {
		c.interrupted = false
		c.mu.Unlock()
		return nil
	}
	if prio != 7 && prio <= c.SR.InterruptMask {
		c.mu.Unlock()
		return nil
	}
	vector := c.queues[prio][0]
	c.queues[prio] = c.queues[prio][1:]
	c.interrupted = c.pendingPriority() != 0
	c.mu.Unlock()

	if err := c.raiseShort(vector); err != nil {
		return err
	}
	c.SR.InterruptMask = prio
	c.stopped = false
	return nil
}

// NextWord fetches the word at PC using the program function code and
// advances PC by 2. Instruction handlers call it to read extension words.
func (c *Context) NextWord() (uint16, error) {
	v, err := c.Mem.Get16(c.Regs.PC, c.pfc)
	if err != nil {
		return 0, err
	}
	c.Regs.PC += 2
	return v, nil
}

// NextLong fetches the long at PC using the program function code and
// advances PC by 4.
func (c *Context) NextLong() (uint32, error) {
	v, err := c.Mem.Get32(c.Regs.PC, c.pfc)
	if err != nil {
		return 0, err
	}
	c.Regs.PC += 4
	return v, nil
}

// PushLong decrements A7 by 4 and writes v at the new A7, using the data
// function code of the current privilege level (supervisor or user data,
// matching the stack pointer in use).
func (c *Context) PushLong(v uint32) error {
	c.Regs.A[7] -= 4
	return c.Mem.Put32(c.Regs.A[7], v, c.stackFC())
}

// PopLong reads the long at A7 and increments A7 by 4.
func (c *Context) PopLong() (uint32, error) {
	v, err := c.Mem.Get32(c.Regs.A[7], c.stackFC())
	if err != nil {
		return 0, err
	}
	c.Regs.A[7] += 4
	return v, nil
}

// PushWord decrements A7 by 2 and writes v at the new A7.
func (c *Context) PushWord(v uint16) error {
	c.Regs.A[7] -= 2
	return c.Mem.Put16(c.Regs.A[7], v, c.stackFC())
}

// PopWord reads the word at A7 and increments A7 by 2.
func (c *Context) PopWord() (uint16, error) {
	v, err := c.Mem.Get16(c.Regs.A[7], c.stackFC())
	if err != nil {
		return 0, err
	}
	c.Regs.A[7] += 2
	return v, nil
}

func (c *Context) stackFC() memory.FuncCode {
	if c.SR.Supervisor {
		return memory.SuperData
	}
	return memory.UserData
}

// DataFC and ProgramFC expose the cached function codes for the
// addressing-mode decoder.
func (c *Context) DataFC() memory.FuncCode    { return c.dfc }
func (c *Context) ProgramFC() memory.FuncCode { return c.pfc }

// raiseShort pushes the 6-byte SR+PC frame the 68000 calls the "short"
// exception format, forces supervisor mode, and loads PC from the
// vector table.
func (c *Context) raiseShort(vector uint8) error {
	oldSR := c.SR.SR()
	oldPC := c.Regs.PC
	c.SetSupervisorState(true)
	if err := c.PushLong(oldPC); err != nil {
		return err
	}
	if err := c.PushWord(oldSR); err != nil {
		return err
	}
	newPC, err := c.Mem.Get32(uint32(vector)*4, memory.SuperData)
	if err != nil {
		return err
	}
	c.Regs.PC = newPC
	return nil
}

// raiseGroup0 pushes the 14-byte bus/address-error frame: SR, PC, the
// faulting opcode, the faulting address, and a status word describing
// the access, then vectors as raiseShort does.
func (c *Context) raiseGroup0(vector uint8, opcode uint16, address uint32, read bool, fc memory.FuncCode) error {
	oldSR := c.SR.SR()
	oldPC := c.Regs.PC
	c.SetSupervisorState(true)

	status := uint16(fc) & 0x7
	if read {
		status |= 0x10
	}
	if err := c.PushWord(status); err != nil {
		return err
	}
	if err := c.PushLong(address); err != nil {
		return err
	}
	if err := c.PushWord(opcode); err != nil {
		return err
	}
	if err := c.PushLong(oldPC); err != nil {
		return err
	}
	if err := c.PushWord(oldSR); err != nil {
		return err
	}

	newPC, err := c.Mem.Get32(uint32(vector)*4, memory.SuperData)
	if err != nil {
		return err
	}
	c.Regs.PC = newPC
	return nil
}

// handleException catches a guest-observable exception returned by an
// instruction handler and turns it into a vectored frame. Any error that
// is neither a memory.BusError/AddressError nor a cpu.Exception is
// host-fatal and is returned unchanged to the caller of Step.
func (c *Context) handleException(lastOpcode uint16, err error) error {
	var busErr *memory.BusError
	if errors.As(err, &busErr) {
		return c.raiseGroup0(VectorBusError, lastOpcode, busErr.Address, busErr.Read, busErr.FC)
	}
	var addrErr *memory.AddressError
	if errors.As(err, &addrErr) {
		return c.raiseGroup0(VectorAddressError, lastOpcode, addrErr.Address, addrErr.Read, addrErr.FC)
	}
	var exc Exception
	if errors.As(err, &exc) {
		return c.raiseShort(exc.Vector())
	}
	slog.Error("cpu: host-fatal condition", "error", err)
	return err
}

// Step executes one instruction: servicing a pending interrupt if one is
// due, fetching the opcode word, and invoking its handler. A returned
// error is a host-fatal condition; guest-observable exceptions are
// caught internally and resume execution at the vector.
func (c *Context) Step() error {
	c.mu.Lock()
	pending := c.interrupted
	c.mu.Unlock()
	if pending {
		if err := c.handleInterrupts(); err != nil {
			return c.handleException(0, err)
		}
	}
	if c.stopped {
		return nil
	}

	pc := c.Regs.PC
	op, err := c.NextWord()
	if err != nil {
		return c.handleException(0, err)
	}

	if err := c.Exec.Lookup(op)(c, op); err != nil {
		c.Regs.PC = pc // handlers that fault partway should not have committed PC past the opcode.
		return c.handleException(op, err)
	}
	return nil
}

// Run steps the CPU until a host-fatal error occurs or stop returns true.
func (c *Context) Run(stop func() bool) error {
	for !stop() {
		if err := c.Step(); err != nil {
			return err
		}
	}
	return nil
}
