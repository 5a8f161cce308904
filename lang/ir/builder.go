package ir

import (
	"fmt"

	"github.com/tane-lang/tanec/lang/ast"
	"github.com/tane-lang/tanec/lang/sema"
)

// Build lowers every top-level fn in root (a bound TranslationUnit) into an
// IRModule, using mod's FuncSem/Symbol side tables (spec.md §4.5).
func Build(arena *ast.Arena, root ast.Handle, mod *sema.Module) *IRModule {
	im := &IRModule{Strings: newStringPool(), SymbolMod: mod}

	tu := arena.Get(root)
	for _, item := range tu.Body {
		im.Functions = append(im.Functions, buildFunc(arena, item, mod, im.Strings))
	}
	return im
}

func buildFunc(arena *ast.Arena, h ast.Handle, mod *sema.Module, strings *StringPool) *IRFunc {
	n := arena.Get(h)
	fsem := mod.FuncSems[h]

	b := &builder{arena: arena, mod: mod, strings: strings, fn: &IRFunc{
		Name:       n.Name,
		LocalBytes: fsem.LocalBytes,
		Params:     fsem.Params,
	}}
	b.lowerStmt(n.Body[0])
	b.fn.NumVRegs = int32(b.nextVReg)
	return b.fn
}

type builder struct {
	arena   *ast.Arena
	mod     *sema.Module
	strings *StringPool

	fn *IRFunc

	nextVReg  VReg
	nextLabel int32
}

func (b *builder) freshVReg() VReg {
	v := b.nextVReg
	b.nextVReg++
	return v
}

// newLabel dispenses the next label id, unique within the function being
// built (spec.md §4.5).
func (b *builder) newLabel() int32 {
	id := b.nextLabel
	b.nextLabel++
	return id
}

func (b *builder) emit(i Instr) {
	b.fn.Instrs = append(b.fn.Instrs, i)
}

func (b *builder) lowerStmt(h ast.Handle) {
	n := b.arena.Get(h)
	switch n.Kind {
	case ast.Block:
		for _, s := range n.Body {
			b.lowerStmt(s)
		}

	case ast.ReturnStmt:
		v := b.lowerExpr(n.LHS)
		b.emit(Instr{Op: RET, S1: v, S2: NoVReg, T: NoVReg})

	case ast.IfStmt:
		b.lowerIf(n)

	case ast.WhileStmt:
		start := b.newLabel()
		end := b.newLabel()
		b.emit(Instr{Op: LLABEL, Imm: start, S1: NoVReg, S2: NoVReg, T: NoVReg})
		cond := b.lowerExpr(n.Cond)
		b.emit(Instr{Op: JZ, S1: cond, S2: NoVReg, T: NoVReg, Imm: end})
		b.lowerStmt(n.Then)
		b.emit(Instr{Op: JMP, S1: NoVReg, S2: NoVReg, T: NoVReg, Imm: start})
		b.emit(Instr{Op: LLABEL, Imm: end, S1: NoVReg, S2: NoVReg, T: NoVReg})

	case ast.LetStmt, ast.ImportStmt:
		// the stack slot (or imported symbol) was reserved during binding;
		// nothing to lower.

	case ast.AssignStmt:
		val := b.lowerExpr(n.RHS)
		lhs := b.arena.Get(n.LHS)
		sym := b.mod.Symbol(sema.SymbolHandle(lhs.Sym))
		addr := b.freshVReg()
		b.emit(Instr{Op: FRAME_ADDR, T: addr, S1: NoVReg, S2: NoVReg, Imm: sym.StackOffset})
		b.emit(Instr{Op: SAVE, S1: addr, S2: val, T: NoVReg})

	case ast.ExprStmt:
		b.lowerExpr(n.LHS)

	default:
		panic(fmt.Sprintf("internal error: unexpected statement kind %s", n.Kind))
	}
}

func (b *builder) lowerIf(n *ast.Node) {
	cond := b.lowerExpr(n.Cond)
	elseLabel := b.newLabel()
	b.emit(Instr{Op: JZ, S1: cond, S2: NoVReg, T: NoVReg, Imm: elseLabel})
	b.lowerStmt(n.Then)

	if n.Else == ast.NoNode {
		b.emit(Instr{Op: LLABEL, Imm: elseLabel, S1: NoVReg, S2: NoVReg, T: NoVReg})
		return
	}

	endLabel := b.newLabel()
	b.emit(Instr{Op: JMP, S1: NoVReg, S2: NoVReg, T: NoVReg, Imm: endLabel})
	b.emit(Instr{Op: LLABEL, Imm: elseLabel, S1: NoVReg, S2: NoVReg, T: NoVReg})
	b.lowerStmt(n.Else) // either another IfStmt or a Block; both are Stmt kinds
	b.emit(Instr{Op: LLABEL, Imm: endLabel, S1: NoVReg, S2: NoVReg, T: NoVReg})
}

func (b *builder) lowerExpr(h ast.Handle) VReg {
	n := b.arena.Get(h)
	switch n.Kind {
	case ast.Number:
		t := b.freshVReg()
		b.emit(Instr{Op: MOV_IMM, T: t, S1: NoVReg, S2: NoVReg, Imm: n.Val})
		return t

	case ast.String:
		id := b.strings.Intern(n.Str)
		n.StrPoolID = id
		t := b.freshVReg()
		b.emit(Instr{Op: LEA_STRING, T: t, S1: NoVReg, S2: NoVReg, Imm: id})
		return t

	case ast.Ident:
		sym := b.mod.Symbol(sema.SymbolHandle(n.Sym))
		addr := b.freshVReg()
		b.emit(Instr{Op: FRAME_ADDR, T: addr, S1: NoVReg, S2: NoVReg, Imm: sym.StackOffset})
		val := b.freshVReg()
		b.emit(Instr{Op: LOAD, T: val, S1: addr, S2: NoVReg})
		return val

	case ast.BinOp:
		l := b.lowerExpr(n.LHS)
		r := b.lowerExpr(n.RHS)
		t := b.freshVReg()
		b.emit(Instr{Op: opcodeForOp(n.Op), T: t, S1: l, S2: r})
		return t

	case ast.Call:
		var args []VReg
		for _, a := range n.Args {
			args = append(args, b.lowerExpr(a))
		}
		t := b.freshVReg()
		b.emit(Instr{Op: CALL, T: t, S1: NoVReg, S2: NoVReg, Imm: int32(n.Sym), Args: args})
		return t

	case ast.Switch:
		return b.lowerSwitch(n)

	default:
		panic(fmt.Sprintf("internal error: unexpected expression kind %s", n.Kind))
	}
}

// lowerSwitch lowers cond once, then each arm in order: compare against the
// arm's case value, skip to the next arm on mismatch, otherwise move the
// arm's result into switch_result and jump to the end. Falling off the last
// arm without a match leaves switch_result's vreg uninitialised, matching
// spec.md §9's documented fall-through hazard.
func (b *builder) lowerSwitch(n *ast.Node) VReg {
	cond := b.lowerExpr(n.Cond)
	result := b.freshVReg() // switch_result
	end := b.newLabel()

	for _, c := range n.Body {
		cn := b.arena.Get(c)
		next := b.newLabel()

		caseVal := b.lowerExpr(cn.LHS)
		cmp := b.freshVReg()
		b.emit(Instr{Op: EQUAL, T: cmp, S1: cond, S2: caseVal})
		b.emit(Instr{Op: JZ, S1: cmp, S2: NoVReg, T: NoVReg, Imm: next})

		armResult := b.lowerExpr(cn.RHS)
		b.emit(Instr{Op: MOV, T: result, S1: armResult, S2: NoVReg})
		b.emit(Instr{Op: JMP, S1: NoVReg, S2: NoVReg, T: NoVReg, Imm: end})

		b.emit(Instr{Op: LLABEL, Imm: next, S1: NoVReg, S2: NoVReg, T: NoVReg})
	}

	b.emit(Instr{Op: LLABEL, Imm: end, S1: NoVReg, S2: NoVReg, T: NoVReg})
	return result
}

func opcodeForOp(op ast.Op) Opcode {
	switch op {
	case ast.OpAdd:
		return ADD
	case ast.OpSub:
		return SUB
	case ast.OpMul:
		return MUL
	case ast.OpDiv:
		return DIV
	case ast.OpMod:
		return MOD
	case ast.OpBitAnd:
		return BIT_AND
	case ast.OpBitOr:
		return BIT_OR
	case ast.OpBitXor:
		return BIT_XOR
	case ast.OpShl:
		return LSHIFT
	case ast.OpShr:
		return RSHIFT
	case ast.OpAnd:
		return LOGICAL_AND
	case ast.OpOr:
		return LOGICAL_OR
	case ast.OpEq:
		return EQUAL
	case ast.OpNeq:
		return NEQUAL
	case ast.OpLt:
		return LT
	case ast.OpLe:
		return LE
	}
	panic(fmt.Sprintf("internal error: unexpected operator %d", op))
}
