/*
register - Status register and deferred condition-code evaluation.

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

package register

// Flag names one of the six primitive conditions a Tester evaluates.
// The other ten MC68000 branch conditions are computed in Cond rather
// than duplicated per tester: NE, CC, HI, PL, GE and GT are the logical
// negation of these six, VC/VS come from V, and the always-true/
// always-false pair never consult a Flag.
type Flag uint8

const (
	FlagCS Flag = iota // Carry set.
	FlagLS             // Lower or same (unsigned).
	FlagEQ             // Equal / zero.
	FlagMI             // Minus / negative.
	FlagLT             // Less than (signed).
	FlagLE             // Less than or equal (signed).
)

// Tester is a tagged union over the four arithmetic condition-evaluation
// strategies plus the "raw bits" strategy installed after a direct CCR
// write. A single eval switch replaces the per-instruction-family
// virtual dispatch the original C++ used one subclass per family for.
type Tester uint8

const (
	// TesterGeneral covers MOVE, logical ops, and any instruction whose
	// flags depend only on the result (never on dest/src individually).
	TesterGeneral Tester = iota
	TesterAdd
	TesterSub // Also used by CMP/CMPA/CMPM.
	// TesterAsr derives C from bit s-1 of the pre-shift operand d for a
	// right shift by s. The cpu shift handlers do not use it: they
	// compose their CCR bits directly from the shift itself (see
	// cpu.applyShiftCC).
	TesterAsr
	// TesterBitset is installed whenever the CCR/SR is overwritten
	// directly (MOVE to CCR/SR, ANDI/ORI/EORI to CCR/SR, RTE, RTR) so
	// that subsequent reads reproduce the bits that were written rather
	// than re-deriving them from a stale result triple.
	TesterBitset
)

// eval computes one condition for the operand triple [result, dest, src].
func (t Tester) eval(flag Flag, v [3]int32) bool {
	r, d, s := v[0], v[1], v[2]
	switch t {
	case TesterAdd:
		switch flag {
		case FlagCS:
			return (r >= 0 && (d < 0 || s < 0)) || (d < 0 && s < 0)
		case FlagLS:
			return r == 0 || t.eval(FlagCS, v)
		case FlagEQ:
			return r == 0
		case FlagMI:
			return r < 0
		case FlagLT:
			return int64(d)+int64(s) < 0
		case FlagLE:
			return int64(d)+int64(s) <= 0
		}
	case TesterSub:
		switch flag {
		case FlagCS:
			return uint32(d) < uint32(s)
		case FlagLS:
			return uint32(d) <= uint32(s)
		case FlagEQ:
			return r == 0
		case FlagMI:
			return r < 0
		case FlagLT:
			return d < s
		case FlagLE:
			return d <= s
		}
	case TesterAsr:
		switch flag {
		case FlagCS:
			return s >= 1 && uint32(d)&(1<<uint(s-1)) != 0
		case FlagLS:
			return r == 0 || t.eval(FlagCS, v)
		case FlagEQ:
			return r == 0
		case FlagMI:
			return r < 0
		case FlagLT:
			return r < 0
		case FlagLE:
			return r <= 0
		}
	case TesterBitset:
		switch flag {
		case FlagCS:
			return r&0x1 != 0
		case FlagEQ:
			return r&0x4 != 0
		case FlagMI:
			return r&0x8 != 0
		case FlagLT:
			return (r&0x8 != 0) != (r&0x2 != 0)
		case FlagLS:
			return t.eval(FlagEQ, v) || t.eval(FlagCS, v)
		case FlagLE:
			return t.eval(FlagEQ, v) || t.eval(FlagLT, v)
		}
	default: // TesterGeneral
		switch flag {
		case FlagCS:
			return false
		case FlagLS:
			return uint32(r) <= 0
		case FlagEQ:
			return r == 0
		case FlagMI:
			return r < 0
		case FlagLT:
			return r < 0
		case FlagLE:
			return r <= 0
		}
	}
	return false
}

// StatusRegister is the MC68000 SR: the system byte (T, S, interrupt
// mask) plus the lazily-materialized CCR (X, N, Z, V, C).
type StatusRegister struct {
	Trace        bool  // T bit.
	Supervisor   bool  // S bit.
	InterruptMask uint8 // I2 I1 I0, 0-7.

	ccTester Tester
	ccValues [3]int32

	xTester Tester
	xValues [3]int32
}

// NewStatusRegister returns a StatusRegister reset to the power-up state:
// supervisor mode, interrupt mask 7, CCR all clear.
func NewStatusRegister() *StatusRegister {
	sr := &StatusRegister{Supervisor: true, InterruptMask: 7}
	sr.ccTester = TesterBitset
	sr.xTester = TesterBitset
	return sr
}

// SetCC records the operand triple and tester for an instruction that
// affects the general flags (N, Z, V, C) but never X — result-only ops
// such as NOT/TST/CLR, MOVE, logical ops, Scc-adjacent bit tests.
func (sr *StatusRegister) SetCC(t Tester, result, dest, src int32) {
	sr.ccTester = t
	sr.ccValues = [3]int32{result, dest, src}
}

// SetCCX records the operand triple and tester for an instruction that
// affects X in lockstep with the general flags — ADD, SUB, ASx, LSx and
// their variants.
func (sr *StatusRegister) SetCCX(t Tester, result, dest, src int32) {
	sr.SetCC(t, result, dest, src)
	sr.xTester = t
	sr.xValues = [3]int32{result, dest, src}
}

func (sr *StatusRegister) flag(f Flag) bool { return sr.ccTester.eval(f, sr.ccValues) }

// C, N, Z, V, X materialize one CCR bit by invoking the stored tester.
func (sr *StatusRegister) C() bool { return sr.flag(FlagCS) }
func (sr *StatusRegister) Z() bool { return sr.flag(FlagEQ) }
func (sr *StatusRegister) N() bool { return sr.flag(FlagMI) }
// V is not one of the six primitives a Tester evaluates — lt/le already
// fold the overflow-corrected sign relation a branch needs — but the
// materialized CCR byte needs an explicit bit, so V is derived here from
// the classic two's-complement overflow rule: for ADD, operands of like
// sign overflow when the result's sign differs from theirs; for SUB,
// operands of unlike sign overflow when the result's sign differs from
// the minuend's. Shifts and result-only ops never set V.
func (sr *StatusRegister) V() bool {
	d, s, r := sr.ccValues[1], sr.ccValues[2], sr.ccValues[0]
	switch sr.ccTester {
	case TesterBitset:
		return r&0x2 != 0
	case TesterAdd:
		return (d < 0) == (s < 0) && (r < 0) != (d < 0)
	case TesterSub:
		return (d < 0) != (s < 0) && (r < 0) != (d < 0)
	default: // TesterGeneral, TesterAsr
		return false
	}
}
func (sr *StatusRegister) X() bool { return sr.xTester.eval(FlagCS, sr.xValues) }

// Cond evaluates one of the sixteen Bcc/Scc/DBcc condition codes, each
// defined directly over the tester's six primitives or their negation
// per spec: ne=!eq, cc=!cs, hi=!ls, pl=!mi, ge=!lt, gt=!le.
func (sr *StatusRegister) Cond(code uint8) bool {
	switch code {
	case 0x0:
		return true // T
	case 0x1:
		return false // F
	case 0x2:
		return !sr.flag(FlagLS) // HI
	case 0x3:
		return sr.flag(FlagLS) // LS
	case 0x4:
		return !sr.flag(FlagCS) // CC
	case 0x5:
		return sr.flag(FlagCS) // CS
	case 0x6:
		return !sr.flag(FlagEQ) // NE
	case 0x7:
		return sr.flag(FlagEQ) // EQ
	case 0x8:
		return !sr.V() // VC
	case 0x9:
		return sr.V() // VS
	case 0xa:
		return !sr.flag(FlagMI) // PL
	case 0xb:
		return sr.flag(FlagMI) // MI
	case 0xc:
		return !sr.flag(FlagLT) // GE
	case 0xd:
		return sr.flag(FlagLT) // LT
	case 0xe:
		return !sr.flag(FlagLE) // GT
	case 0xf:
		return sr.flag(FlagLE) // LE
	}
	return false
}

// CCR materializes the low byte of SR: X<<4 | N<<3 | Z<<2 | V<<1 | C.
func (sr *StatusRegister) CCR() uint8 {
	var v uint8
	if sr.X() {
		v |= 0x10
	}
	if sr.N() {
		v |= 0x08
	}
	if sr.Z() {
		v |= 0x04
	}
	if sr.V() {
		v |= 0x02
	}
	if sr.C() {
		v |= 0x01
	}
	return v
}

// SetCCR installs the bitset tester over a raw byte, so subsequent reads
// reproduce exactly these bits rather than re-deriving them.
func (sr *StatusRegister) SetCCR(v uint8) {
	sr.ccTester = TesterBitset
	sr.ccValues = [3]int32{int32(v), 0, 0}
	sr.xTester = TesterBitset
	sr.xValues = [3]int32{int32(v >> 4), 0, 0}
}

// systemByte materializes T, S, and the interrupt mask into the SR's
// upper byte.
func (sr *StatusRegister) systemByte() uint8 {
	var v uint8
	if sr.Trace {
		v |= 0x80
	}
	if sr.Supervisor {
		v |= 0x20
	}
	v |= sr.InterruptMask & 0x7
	return v
}

// SR materializes the full 16-bit status register.
func (sr *StatusRegister) SR() uint16 {
	return uint16(sr.systemByte())<<8 | uint16(sr.CCR())
}

// SetSR overwrites the entire status register, installing the bitset
// tester over the CCR half and updating T/S/mask from the system byte.
// It does not itself swap A7/SSP/USP; callers that need the privilege
// transition (cpu.Context) must do that alongside calling SetSR.
func (sr *StatusRegister) SetSR(v uint16) {
	sys := uint8(v >> 8)
	sr.Trace = sys&0x80 != 0
	sr.Supervisor = sys&0x20 != 0
	sr.InterruptMask = sys & 0x7
	sr.SetCCR(uint8(v))
}
