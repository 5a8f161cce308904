package ir

import "github.com/tane-lang/tanec/lang/sema"

// VReg is a virtual register handle, unique within the function that
// produced it. NoVReg denotes "no operand".
type VReg int32

const NoVReg VReg = -1

// Instr is one three-address instruction: up to two source operands, one
// destination, an immediate (labels, offsets, string ids, function symbol
// handles) and a variadic args list used only by CALL (spec.md §4.5).
type Instr struct {
	Op   Opcode
	S1   VReg
	S2   VReg
	T    VReg
	Imm  int32
	Args []VReg
}

// IRFunc is one compiled function: its frame size (from FuncSem), the
// parameter symbols in declaration order, and its linear instruction list.
type IRFunc struct {
	Name       string
	LocalBytes int32
	Params     []sema.SymbolHandle
	Instrs     []Instr

	// NumVRegs is the count of distinct virtual registers used, so the
	// allocator can size its live-range tables.
	NumVRegs int32
}

// StringPool interns string literals in first-insertion order; ids are
// zero-based indices stable for the lifetime of the IRModule.
type StringPool struct {
	values []string
	ids    *idTable
}

func newStringPool() *StringPool {
	return &StringPool{ids: newIDTable()}
}

// Intern returns s's pool id, inserting it if this is the first occurrence.
func (p *StringPool) Intern(s string) int32 {
	if id, ok := p.ids.get(s); ok {
		return id
	}
	id := int32(len(p.values))
	p.values = append(p.values, s)
	p.ids.put(s, id)
	return id
}

// Values returns the interned strings in pool-id order.
func (p *StringPool) Values() []string { return p.values }

// IRModule is the result of lowering one translation unit: its functions,
// the interned string-literal pool, and the symbol/scope pools the binder
// produced (spec.md §3's IRModule definition).
type IRModule struct {
	Functions []*IRFunc
	Strings   *StringPool
	SymbolMod *sema.Module
}
