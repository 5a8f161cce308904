package codegen_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tane-lang/tanec/lang/codegen"
	"github.com/tane-lang/tanec/lang/ir"
	"github.com/tane-lang/tanec/lang/parser"
	"github.com/tane-lang/tanec/lang/sema"
	"github.com/tane-lang/tanec/lang/token"
)

func emit(t *testing.T, src string) string {
	t.Helper()
	file := token.NewFile("t.tn", len(src))
	arena, root, err := parser.ParseFile(file, []byte(src))
	require.NoError(t, err)
	mod, err := sema.Bind(context.Background(), file, arena, root, nil)
	require.NoError(t, err)
	im := ir.Build(arena, root, mod)

	var buf strings.Builder
	require.NoError(t, codegen.Emit(&buf, im))
	return buf.String()
}

func TestEmitPrologueAndEpilogue(t *testing.T) {
	out := emit(t, `fn main() { return 42; }`)
	require.Contains(t, out, ".global main\nmain:\n")
	require.Contains(t, out, "push rbp")
	require.Contains(t, out, "mov rbp, rsp")
	require.Contains(t, out, "sub rsp, 0")
	require.Contains(t, out, "ret_main:")
	require.Contains(t, out, "mov rsp, rbp")
	require.Contains(t, out, "pop rbp")
}

func TestEmitReturnValueGoesThroughRax(t *testing.T) {
	out := emit(t, `fn main() { return 42; }`)
	require.Contains(t, out, "mov rax, r")
	require.Contains(t, out, "jmp ret_main")
}

func TestEmitParamsCopiedFromABIRegisters(t *testing.T) {
	out := emit(t, `fn add(a, b) { return a + b; }`)
	require.Contains(t, out, "mov [rbp - 8], rdi")
	require.Contains(t, out, "mov [rbp - 16], rsi")
}

func TestEmitDivEmitsCqoAndIdiv(t *testing.T) {
	out := emit(t, `fn main() { return 10 / 3; }`)
	require.Contains(t, out, "cqo")
	require.Contains(t, out, "idiv")
}

func TestEmitModMovesFromRdx(t *testing.T) {
	out := emit(t, `fn main() { return 10 % 3; }`)
	require.Contains(t, out, "cqo")
	require.Contains(t, out, "idiv")
	require.True(t, strings.Contains(out, "mov r") && strings.Contains(out, ", rdx"))
}

func TestEmitComparisonUsesSetccAndMovzx(t *testing.T) {
	out := emit(t, `fn main() { return 1 < 2; }`)
	require.Contains(t, out, "setl al")
	require.Contains(t, out, "movzx")
}

func TestEmitStringLiteralGetsRodataAndRipRelativeLea(t *testing.T) {
	out := emit(t, `fn main() { return "hi"; }`)
	require.Contains(t, out, ".section .rodata")
	require.Contains(t, out, ".Lstr0:")
	require.Contains(t, out, `.asciz "hi"`)
	require.Contains(t, out, "lea r")
	require.Contains(t, out, "[rip+.Lstr0]")
}

func TestEmitLabelsAreFunctionScoped(t *testing.T) {
	out := emit(t, `fn main() { if 1 { return 1; } return 0; }`)
	require.Contains(t, out, ".Lmain0:")
}

func TestEmitCallMovesArgsAndResult(t *testing.T) {
	loader := stubLoader{"m": {{Name: "f", ParamNames: []string{"a"}}}}
	file := token.NewFile("t.tn", 64)
	src := `fn main() { import m; return f(1); }`
	arena, root, err := parser.ParseFile(file, []byte(src))
	require.NoError(t, err)
	mod, err := sema.Bind(context.Background(), file, arena, root, loader)
	require.NoError(t, err)
	im := ir.Build(arena, root, mod)

	var buf strings.Builder
	require.NoError(t, codegen.Emit(&buf, im))
	out := buf.String()
	require.Contains(t, out, "mov rdi, r")
	require.Contains(t, out, "call f")
	require.Regexp(t, `mov r1[0-5], rax`, out)
}

func TestEmitTooManyParamsIsFatal(t *testing.T) {
	file := token.NewFile("t.tn", 64)
	src := `fn f(a, b, c, d, e, g, h) { return a; }`
	arena, root, err := parser.ParseFile(file, []byte(src))
	require.NoError(t, err)
	mod, err := sema.Bind(context.Background(), file, arena, root, nil)
	require.NoError(t, err)
	im := ir.Build(arena, root, mod)

	var buf strings.Builder
	err = codegen.Emit(&buf, im)
	require.Error(t, err)
}

type stubLoader map[string][]sema.ImportedSymbol

func (s stubLoader) Load(_ context.Context, name string) ([]sema.ImportedSymbol, error) {
	return s[name], nil
}
