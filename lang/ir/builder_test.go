package ir_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tane-lang/tanec/lang/ir"
	"github.com/tane-lang/tanec/lang/parser"
	"github.com/tane-lang/tanec/lang/sema"
	"github.com/tane-lang/tanec/lang/token"
)

func build(t *testing.T, src string) *ir.IRModule {
	t.Helper()
	file := token.NewFile("t.tn", len(src))
	arena, root, err := parser.ParseFile(file, []byte(src))
	require.NoError(t, err)
	mod, err := sema.Bind(context.Background(), file, arena, root, nil)
	require.NoError(t, err)
	return ir.Build(arena, root, mod)
}

func TestBuildNumberLiteral(t *testing.T) {
	im := build(t, `fn main() { return 42; }`)
	require.Len(t, im.Functions, 1)
	fn := im.Functions[0]

	require.Equal(t, ir.MOV_IMM, fn.Instrs[0].Op)
	require.Equal(t, int32(42), fn.Instrs[0].Imm)
	require.Equal(t, ir.RET, fn.Instrs[1].Op)
	require.Equal(t, fn.Instrs[0].T, fn.Instrs[1].S1)
}

func TestBuildVariableReadIsFrameAddrThenLoad(t *testing.T) {
	im := build(t, `fn main() { let mut x; x = 1; return x; }`)
	fn := im.Functions[0]

	// x = 1: MOV_IMM, FRAME_ADDR, SAVE
	require.Equal(t, ir.MOV_IMM, fn.Instrs[0].Op)
	require.Equal(t, ir.FRAME_ADDR, fn.Instrs[1].Op)
	require.Equal(t, ir.SAVE, fn.Instrs[2].Op)
	require.Equal(t, fn.Instrs[1].T, fn.Instrs[2].S1)
	require.Equal(t, fn.Instrs[0].T, fn.Instrs[2].S2)

	// return x: FRAME_ADDR, LOAD, RET
	require.Equal(t, ir.FRAME_ADDR, fn.Instrs[3].Op)
	require.Equal(t, ir.LOAD, fn.Instrs[4].Op)
	require.Equal(t, ir.RET, fn.Instrs[5].Op)
	require.Equal(t, fn.Instrs[4].T, fn.Instrs[5].S1)
}

func TestBuildBinaryOpLowersLeftThenRight(t *testing.T) {
	im := build(t, `fn main() { return 1 + 2; }`)
	fn := im.Functions[0]
	require.Equal(t, ir.MOV_IMM, fn.Instrs[0].Op)
	require.Equal(t, int32(1), fn.Instrs[0].Imm)
	require.Equal(t, ir.MOV_IMM, fn.Instrs[1].Op)
	require.Equal(t, int32(2), fn.Instrs[1].Imm)
	require.Equal(t, ir.ADD, fn.Instrs[2].Op)
	require.Equal(t, fn.Instrs[0].T, fn.Instrs[2].S1)
	require.Equal(t, fn.Instrs[1].T, fn.Instrs[2].S2)
}

func TestBuildStringLiteralInternsAndEmitsLeaString(t *testing.T) {
	im := build(t, `fn main() { return "hi"; }`)
	fn := im.Functions[0]
	require.Equal(t, ir.LEA_STRING, fn.Instrs[0].Op)
	require.Equal(t, int32(0), fn.Instrs[0].Imm)
	require.Equal(t, []string{"hi"}, im.Strings.Values())
}

func TestBuildStringLiteralDedupes(t *testing.T) {
	im := build(t, `fn main() { if 1 { return "hi"; } return "hi"; }`)
	require.Equal(t, []string{"hi"}, im.Strings.Values())
}

func TestBuildIfWithoutElse(t *testing.T) {
	im := build(t, `fn main() { if 1 { return 1; } return 0; }`)
	fn := im.Functions[0]

	var ops []ir.Opcode
	for _, in := range fn.Instrs {
		ops = append(ops, in.Op)
	}
	// MOV_IMM(1), JZ else, MOV_IMM(1), RET, LLABEL else, MOV_IMM(0), RET
	require.Equal(t, []ir.Opcode{ir.MOV_IMM, ir.JZ, ir.MOV_IMM, ir.RET, ir.LLABEL, ir.MOV_IMM, ir.RET}, ops)
}

func TestBuildWhileLoopShape(t *testing.T) {
	im := build(t, `fn main() { while 1 { return 0; } }`)
	fn := im.Functions[0]

	var ops []ir.Opcode
	for _, in := range fn.Instrs {
		ops = append(ops, in.Op)
	}
	require.Equal(t, []ir.Opcode{ir.LLABEL, ir.MOV_IMM, ir.JZ, ir.MOV_IMM, ir.RET, ir.JMP, ir.LLABEL}, ops)
}

func TestBuildSwitchLeavesResultUninitializedOnFallThrough(t *testing.T) {
	im := build(t, `fn main() { return switch 1 { 2 => 20, }; }`)
	fn := im.Functions[0]

	var ops []ir.Opcode
	for _, in := range fn.Instrs {
		ops = append(ops, in.Op)
	}
	// cond MOV_IMM; arm: case MOV_IMM, EQUAL, JZ, (result MOV_IMM, MOV, JMP skipped on mismatch), LLABEL next, LLABEL end, RET
	require.Equal(t, []ir.Opcode{
		ir.MOV_IMM, ir.MOV_IMM, ir.EQUAL, ir.JZ, ir.MOV_IMM, ir.MOV, ir.JMP, ir.LLABEL, ir.LLABEL, ir.RET,
	}, ops)
}

func TestBuildCallEmitsArgsInOrder(t *testing.T) {
	loader := stubLoader{"m": {{Name: "f", ParamNames: []string{"a", "b"}}}}
	file := token.NewFile("t.tn", 64)
	src := `fn main() { import m; return f(1, 2); }`
	arena, root, err := parser.ParseFile(file, []byte(src))
	require.NoError(t, err)
	mod, err := sema.Bind(context.Background(), file, arena, root, loader)
	require.NoError(t, err)
	im := ir.Build(arena, root, mod)

	fn := im.Functions[0]
	call := fn.Instrs[len(fn.Instrs)-2] // last is RET
	require.Equal(t, ir.CALL, call.Op)
	require.Len(t, call.Args, 2)
	require.Equal(t, int32(1), fn.Instrs[0].Imm)
	require.Equal(t, int32(2), fn.Instrs[1].Imm)
	require.Equal(t, []ir.VReg{fn.Instrs[0].T, fn.Instrs[1].T}, call.Args)
}

type stubLoader map[string][]sema.ImportedSymbol

func (s stubLoader) Load(_ context.Context, name string) ([]sema.ImportedSymbol, error) {
	return s[name], nil
}
