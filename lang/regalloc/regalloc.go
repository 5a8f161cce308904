// Package regalloc implements the per-function linear-scan register
// allocator: a fixed six-register pool, no spill, no coalescing, no
// live-range splitting (spec.md §4.6).
package regalloc

import (
	"fmt"

	"github.com/tane-lang/tanec/lang/ir"
)

// Phys is one of the six physical integer registers the allocator ever
// hands out. RAX, RDI, RSI, RDX, RCX, R8, R9 are reserved for ABI plumbing
// and are never assigned here.
type Phys uint8

const ( //nolint:revive
	R10 Phys = iota
	R11
	R12
	R13
	R14
	R15
)

var physNames = [...]string{R10: "r10", R11: "r11", R12: "r12", R13: "r13", R14: "r14", R15: "r15"}

func (p Phys) String() string { return physNames[p] }

// pool seeds each allocator's LIFO free list. Alloc pops from the end, so
// the first allocations take R15, R14, ... in turn, and released registers
// are pushed back on the end so the most recently freed register is reused
// first.
var pool = [...]Phys{R10, R11, R12, R13, R14, R15}

// Error reports exhaustion of the fixed register pool: spec.md §4.6 defines
// no spilling, so this is always fatal.
type Error struct {
	VReg ir.VReg
}

func (e *Error) Error() string {
	return fmt.Sprintf("register allocator: no free register for v%d (pool exhausted)", e.VReg)
}

// Allocator tracks the live assignment for each VReg of one IRFunc and the
// LIFO free list of unassigned physical registers.
type Allocator struct {
	lastUse  []int32 // lastUse[v] = last instruction index at which v appears
	assigned []Phys
	live     []bool // whether assigned[v] is currently bound
	free     []Phys // LIFO: free[len-1] is popped next
}

// New computes last-use positions for every VReg in fn and seeds a fresh
// allocator with the full register pool free.
func New(fn *ir.IRFunc) *Allocator {
	a := &Allocator{
		lastUse:  make([]int32, fn.NumVRegs),
		assigned: make([]Phys, fn.NumVRegs),
		live:     make([]bool, fn.NumVRegs),
	}
	for i := range a.lastUse {
		a.lastUse[i] = -1
	}
	for idx, in := range fn.Instrs {
		a.touch(in.S1, int32(idx))
		a.touch(in.S2, int32(idx))
		a.touch(in.T, int32(idx))
		for _, arg := range in.Args {
			a.touch(arg, int32(idx))
		}
	}

	a.free = make([]Phys, len(pool))
	copy(a.free, pool[:])
	return a
}

func (a *Allocator) touch(v ir.VReg, idx int32) {
	if v == ir.NoVReg {
		return
	}
	if idx > a.lastUse[v] {
		a.lastUse[v] = idx
	}
}

// ExpireAt releases every VReg whose live assignment's last use is strictly
// before pos, returning each one's physical register to the free pool
// (spec.md §4.6 step 2). Call this before allocating at each instruction
// position.
func (a *Allocator) ExpireAt(pos int32) {
	for v := range a.live {
		if a.live[v] && a.lastUse[v] < pos {
			a.free = append(a.free, a.assigned[v])
			a.live[v] = false
		}
	}
}

// Alloc returns v's existing physical register, or assigns the next free
// one. Exhausting the free pool is fatal (spec.md §4.6 step 3).
func (a *Allocator) Alloc(v ir.VReg) (Phys, error) {
	if a.live[v] {
		return a.assigned[v], nil
	}
	if len(a.free) == 0 {
		return 0, &Error{VReg: v}
	}
	p := a.free[len(a.free)-1]
	a.free = a.free[:len(a.free)-1]
	a.assigned[v] = p
	a.live[v] = true
	return p, nil
}
