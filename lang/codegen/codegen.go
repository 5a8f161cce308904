// Package codegen implements the emitter: the pass that streams GNU-assembler
// Intel-syntax text for an IRModule, per spec.md §4.7.
package codegen

import (
	"fmt"
	"io"
	"strings"

	"github.com/tane-lang/tanec/lang/ir"
	"github.com/tane-lang/tanec/lang/regalloc"
	"github.com/tane-lang/tanec/lang/sema"
)

// abiParamRegs lists, in order, the System V AMD64 integer argument
// registers the prologue copies the first up-to-six parameters from.
var abiParamRegs = [...]string{"rdi", "rsi", "rdx", "rcx", "r8", "r9"}

// maxParams is the number of ABI registers available for parameter passing;
// exceeding it is fatal (spec.md §4.7 step 2).
const maxParams = len(abiParamRegs)

// Error reports a fatal emission failure: too many parameters, or register
// allocation exhaustion surfaced from the underlying allocator.
type Error struct {
	Func string
	Msg  string
}

func (e *Error) Error() string { return fmt.Sprintf("codegen: %s: %s", e.Func, e.Msg) }

// Emit streams the whole module's assembly to w: a .rodata section holding
// the interned string literals (spec.md §9's resolution of LEA_STRING, see
// SPEC_FULL.md), followed by .text and one function body per IRFunc.
func Emit(w io.Writer, mod *ir.IRModule) error {
	fmt.Fprintln(w, ".intel_syntax noprefix")

	if strs := mod.Strings.Values(); len(strs) > 0 {
		fmt.Fprintln(w, ".section .rodata")
		for id, s := range strs {
			fmt.Fprintf(w, ".Lstr%d:\n\t.asciz \"%s\"\n", id, escapeAsciz(s))
		}
	}

	fmt.Fprintln(w, ".text")
	for _, fn := range mod.Functions {
		if err := emitFunc(w, fn, mod.SymbolMod); err != nil {
			return err
		}
	}
	return nil
}

func emitFunc(w io.Writer, fn *ir.IRFunc, symMod *sema.Module) error {
	if len(fn.Params) > maxParams {
		return &Error{Func: fn.Name, Msg: fmt.Sprintf("%d parameters exceeds the %d-register ABI budget", len(fn.Params), maxParams)}
	}

	fmt.Fprintf(w, ".global %s\n%s:\n", fn.Name, fn.Name)
	fmt.Fprintln(w, "\tpush rbp")
	fmt.Fprintln(w, "\tmov rbp, rsp")
	fmt.Fprintf(w, "\tsub rsp, %d\n", fn.LocalBytes)

	for i, ph := range fn.Params {
		sym := symMod.Symbol(ph)
		fmt.Fprintf(w, "\tmov [rbp - %d], %s\n", sym.StackOffset, abiParamRegs[i])
	}

	alloc := regalloc.New(fn)
	e := &emitter{w: w, fn: fn, alloc: alloc, symMod: symMod}
	for idx, instr := range fn.Instrs {
		alloc.ExpireAt(int32(idx))
		if err := e.instr(instr); err != nil {
			return err
		}
	}

	fmt.Fprintf(w, "ret_%s:\n", fn.Name)
	fmt.Fprintln(w, "\tmov rsp, rbp")
	fmt.Fprintln(w, "\tpop rbp")
	fmt.Fprintln(w, "\tret")
	return nil
}

type emitter struct {
	w      io.Writer
	fn     *ir.IRFunc
	alloc  *regalloc.Allocator
	symMod *sema.Module
}

func (e *emitter) fail(format string, args ...any) error {
	return &Error{Func: e.fn.Name, Msg: fmt.Sprintf(format, args...)}
}

// reg allocates (or retrieves) the physical register bound to v.
func (e *emitter) reg(v ir.VReg) (regalloc.Phys, error) {
	p, err := e.alloc.Alloc(v)
	if err != nil {
		return 0, e.fail("%s", err)
	}
	return p, nil
}

func (e *emitter) label(id int32) string {
	return fmt.Sprintf(".L%s%d", e.fn.Name, id)
}

func (e *emitter) printf(format string, args ...any) {
	fmt.Fprintf(e.w, "\t"+format+"\n", args...)
}

func (e *emitter) instr(in ir.Instr) error {
	switch in.Op {
	case ir.MOV_IMM:
		rt, err := e.reg(in.T)
		if err != nil {
			return err
		}
		e.printf("mov %s, %d", rt, in.Imm)

	case ir.MOV:
		rt, r1, err := e.reg2(in.T, in.S1)
		if err != nil {
			return err
		}
		e.printf("mov %s, %s", rt, r1)

	case ir.ADD, ir.SUB, ir.MUL:
		return e.arith(in)

	case ir.DIV, ir.MOD:
		return e.divmod(in)

	case ir.BIT_AND, ir.BIT_OR, ir.BIT_XOR:
		return e.bitwise(in)

	case ir.LSHIFT, ir.RSHIFT:
		return e.shift(in)

	case ir.EQUAL, ir.NEQUAL, ir.LT, ir.LE:
		return e.compare(in)

	case ir.LOGICAL_AND, ir.LOGICAL_OR:
		return e.logical(in)

	case ir.FRAME_ADDR:
		rt, err := e.reg(in.T)
		if err != nil {
			return err
		}
		e.printf("lea %s, [rbp - %d]", rt, in.Imm)

	case ir.LOAD:
		rt, r1, err := e.reg2(in.T, in.S1)
		if err != nil {
			return err
		}
		e.printf("mov %s, [%s]", rt, r1)

	case ir.SAVE:
		r1, r2, err := e.reg2(in.S1, in.S2)
		if err != nil {
			return err
		}
		e.printf("mov [%s], %s", r1, r2)

	case ir.LEA_STRING:
		rt, err := e.reg(in.T)
		if err != nil {
			return err
		}
		e.printf("lea %s, [rip+.Lstr%d]", rt, in.Imm)

	case ir.LLABEL:
		fmt.Fprintf(e.w, "%s:\n", e.label(in.Imm))

	case ir.JMP:
		e.printf("jmp %s", e.label(in.Imm))

	case ir.JZ:
		r1, err := e.reg(in.S1)
		if err != nil {
			return err
		}
		e.printf("cmp %s, 0", r1)
		e.printf("je %s", e.label(in.Imm))

	case ir.JNZ:
		r1, err := e.reg(in.S1)
		if err != nil {
			return err
		}
		e.printf("cmp %s, 0", r1)
		e.printf("jne %s", e.label(in.Imm))

	case ir.CALL:
		return e.call(in)

	case ir.RET:
		r1, err := e.reg(in.S1)
		if err != nil {
			return err
		}
		e.printf("mov rax, %s", r1)
		e.printf("jmp ret_%s", e.fn.Name)

	default:
		return e.fail("unhandled opcode %s", in.Op)
	}
	return nil
}

func (e *emitter) reg2(a, b ir.VReg) (regalloc.Phys, regalloc.Phys, error) {
	ra, err := e.reg(a)
	if err != nil {
		return 0, 0, err
	}
	rb, err := e.reg(b)
	if err != nil {
		return 0, 0, err
	}
	return ra, rb, nil
}

func (e *emitter) arith(in ir.Instr) error {
	rt, r1, err := e.reg2(in.T, in.S1)
	if err != nil {
		return err
	}
	r2, err := e.reg(in.S2)
	if err != nil {
		return err
	}
	if rt != r1 {
		e.printf("mov %s, %s", rt, r1)
	}
	switch in.Op {
	case ir.ADD:
		e.printf("add %s, %s", rt, r2)
	case ir.SUB:
		e.printf("sub %s, %s", rt, r2)
	case ir.MUL:
		e.printf("imul %s, %s", rt, r2)
	}
	return nil
}

func (e *emitter) divmod(in ir.Instr) error {
	rt, r1, err := e.reg2(in.T, in.S1)
	if err != nil {
		return err
	}
	r2, err := e.reg(in.S2)
	if err != nil {
		return err
	}
	if r1.String() != "rax" {
		e.printf("mov rax, %s", r1)
	}
	e.printf("cqo")
	e.printf("idiv %s", r2)
	if in.Op == ir.DIV {
		e.printf("mov %s, rax", rt)
	} else {
		e.printf("mov %s, rdx", rt)
	}
	return nil
}

func (e *emitter) bitwise(in ir.Instr) error {
	rt, r1, err := e.reg2(in.T, in.S1)
	if err != nil {
		return err
	}
	r2, err := e.reg(in.S2)
	if err != nil {
		return err
	}
	if rt != r1 {
		e.printf("mov %s, %s", rt, r1)
	}
	switch in.Op {
	case ir.BIT_AND:
		e.printf("and %s, %s", rt, r2)
	case ir.BIT_OR:
		e.printf("or %s, %s", rt, r2)
	case ir.BIT_XOR:
		e.printf("xor %s, %s", rt, r2)
	}
	return nil
}

func (e *emitter) shift(in ir.Instr) error {
	rt, r1, err := e.reg2(in.T, in.S1)
	if err != nil {
		return err
	}
	r2, err := e.reg(in.S2)
	if err != nil {
		return err
	}
	if rt != r1 {
		e.printf("mov %s, %s", rt, r1)
	}
	e.printf("mov cl, %s", byteName(r2))
	if in.Op == ir.LSHIFT {
		e.printf("shl %s, cl", rt)
	} else {
		e.printf("shr %s, cl", rt)
	}
	return nil
}

func (e *emitter) compare(in ir.Instr) error {
	rt, r1, err := e.reg2(in.T, in.S1)
	if err != nil {
		return err
	}
	r2, err := e.reg(in.S2)
	if err != nil {
		return err
	}
	e.printf("cmp %s, %s", r1, r2)
	switch in.Op {
	case ir.EQUAL:
		e.printf("sete al")
	case ir.NEQUAL:
		e.printf("setne al")
	case ir.LT:
		e.printf("setl al")
	case ir.LE:
		e.printf("setle al")
	}
	e.printf("movzx %s, al", rt)
	return nil
}

func (e *emitter) logical(in ir.Instr) error {
	rt, r1, err := e.reg2(in.T, in.S1)
	if err != nil {
		return err
	}
	r2, err := e.reg(in.S2)
	if err != nil {
		return err
	}
	e.printf("cmp %s, 0", r1)
	e.printf("setne al")
	e.printf("cmp %s, 0", r2)
	e.printf("setne cl")
	if in.Op == ir.LOGICAL_AND {
		e.printf("and al, cl")
	} else {
		e.printf("or al, cl")
	}
	e.printf("movzx %s, al", rt)
	return nil
}

func (e *emitter) call(in ir.Instr) error {
	if len(in.Args) > maxParams {
		return e.fail("call with %d arguments exceeds the %d-register ABI budget", len(in.Args), maxParams)
	}
	for i, arg := range in.Args {
		r, err := e.reg(arg)
		if err != nil {
			return err
		}
		e.printf("mov %s, %s", abiParamRegs[i], r)
	}
	sym := e.symMod.Symbol(sema.SymbolHandle(in.Imm))
	e.printf("call %s", sym.Name)

	rt, err := e.reg(in.T)
	if err != nil {
		return err
	}
	e.printf("mov %s, rax", rt)
	return nil
}

func byteName(p regalloc.Phys) string {
	return p.String() + "b"
}

func escapeAsciz(s string) string {
	var b strings.Builder
	for _, c := range []byte(s) {
		switch c {
		case '\\':
			b.WriteString(`\\`)
		case '"':
			b.WriteString(`\"`)
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}
