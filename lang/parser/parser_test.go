package parser_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tane-lang/tanec/lang/ast"
	"github.com/tane-lang/tanec/lang/parser"
	"github.com/tane-lang/tanec/lang/token"
)

func parse(t *testing.T, src string) (*ast.Arena, ast.Handle) {
	t.Helper()
	file := token.NewFile("t.tn", len(src))
	arena, root, err := parser.ParseFile(file, []byte(src))
	require.NoError(t, err)
	return arena, root
}

func TestParseSimpleFunction(t *testing.T) {
	arena, root := parse(t, `fn main() { return 42; }`)
	tu := arena.Get(root)
	require.Equal(t, ast.TranslationUnit, tu.Kind)
	require.Len(t, tu.Body, 1)

	fn := arena.Get(tu.Body[0])
	require.Equal(t, ast.FuncDef, fn.Kind)
	require.Equal(t, "main", fn.Name)
	require.False(t, fn.Public)
	require.Empty(t, fn.Params)

	block := arena.Get(fn.Body[0])
	require.Equal(t, ast.Block, block.Kind)
	require.Len(t, block.Body, 1)

	ret := arena.Get(block.Body[0])
	require.Equal(t, ast.ReturnStmt, ret.Kind)
	num := arena.Get(ret.LHS)
	require.Equal(t, ast.Number, num.Kind)
	require.Equal(t, int32(42), num.Val)
}

func TestParsePubFunctionWithParams(t *testing.T) {
	arena, root := parse(t, `pub fn add(a, b) { return a + b; }`)
	fn := arena.Get(arena.Get(root).Body[0])
	require.True(t, fn.Public)
	require.Len(t, fn.Params, 2)
	require.Equal(t, "a", arena.Get(fn.Params[0]).Name)
	require.Equal(t, "b", arena.Get(fn.Params[1]).Name)
}

func TestParseAssignmentLookahead(t *testing.T) {
	arena, root := parse(t, `fn main() { let mut x; x = 5; return x; }`)
	block := arena.Get(arena.Get(arena.Get(root).Body[0]).Body[0])
	require.Len(t, block.Body, 3)

	let := arena.Get(block.Body[0])
	require.Equal(t, ast.LetStmt, let.Kind)
	require.True(t, let.Mutable)

	assign := arena.Get(block.Body[1])
	require.Equal(t, ast.AssignStmt, assign.Kind)
	require.Equal(t, "x", arena.Get(assign.LHS).Name)
}

func TestParseIfElseIfChain(t *testing.T) {
	arena, root := parse(t, `fn main() {
		if 1 { return 1; } else if 2 { return 2; } else { return 3; }
	}`)
	block := arena.Get(arena.Get(arena.Get(root).Body[0]).Body[0])
	ifStmt := arena.Get(block.Body[0])
	require.Equal(t, ast.IfStmt, ifStmt.Kind)

	elseIf := arena.Get(ifStmt.Else)
	require.Equal(t, ast.IfStmt, elseIf.Kind)
	require.NotEqual(t, ast.NoNode, elseIf.Else)
	require.Equal(t, ast.Block, arena.Get(elseIf.Else).Kind)
}

func TestParseWhile(t *testing.T) {
	arena, root := parse(t, `fn main() { while 1 { return 0; } }`)
	block := arena.Get(arena.Get(arena.Get(root).Body[0]).Body[0])
	w := arena.Get(block.Body[0])
	require.Equal(t, ast.WhileStmt, w.Kind)
}

func TestParseImport(t *testing.T) {
	arena, root := parse(t, `fn main() { import mathlib; return 0; }`)
	block := arena.Get(arena.Get(arena.Get(root).Body[0]).Body[0])
	require.Equal(t, ast.ImportStmt, arena.Get(block.Body[0]).Kind)
	require.Equal(t, "mathlib", arena.Get(block.Body[0]).Name)
}

func TestParseUnaryMinusLowersToSubtraction(t *testing.T) {
	arena, root := parse(t, `fn main() { return -5; }`)
	block := arena.Get(arena.Get(arena.Get(root).Body[0]).Body[0])
	ret := arena.Get(block.Body[0])
	bin := arena.Get(ret.LHS)
	require.Equal(t, ast.BinOp, bin.Kind)
	require.Equal(t, ast.OpSub, bin.Op)
	require.Equal(t, int32(0), arena.Get(bin.LHS).Val)
	require.Equal(t, int32(5), arena.Get(bin.RHS).Val)
}

func TestParseOperatorPrecedence(t *testing.T) {
	// 1 + 2 * 3 should parse as 1 + (2 * 3)
	arena, root := parse(t, `fn main() { return 1 + 2 * 3; }`)
	block := arena.Get(arena.Get(arena.Get(root).Body[0]).Body[0])
	ret := arena.Get(block.Body[0])
	add := arena.Get(ret.LHS)
	require.Equal(t, ast.OpAdd, add.Op)
	require.Equal(t, int32(1), arena.Get(add.LHS).Val)

	mul := arena.Get(add.RHS)
	require.Equal(t, ast.OpMul, mul.Op)
}

func TestParseCallAndSwitch(t *testing.T) {
	arena, root := parse(t, `fn main() {
		return switch f(1, 2) {
			1 => 10,
			2 => 20,
		};
	}`)
	block := arena.Get(arena.Get(arena.Get(root).Body[0]).Body[0])
	ret := arena.Get(block.Body[0])
	sw := arena.Get(ret.LHS)
	require.Equal(t, ast.Switch, sw.Kind)

	call := arena.Get(sw.Cond)
	require.Equal(t, ast.Call, call.Kind)
	require.Equal(t, "f", call.Name)
	require.Len(t, call.Args, 2)

	require.Len(t, sw.Body, 2)
	arm0 := arena.Get(sw.Body[0])
	require.Equal(t, ast.Case, arm0.Kind)
	require.Equal(t, int32(1), arena.Get(arm0.LHS).Val)
	require.Equal(t, int32(10), arena.Get(arm0.RHS).Val)
}

func TestParseErrorIsFatal(t *testing.T) {
	file := token.NewFile("t.tn", 20)
	_, _, err := parser.ParseFile(file, []byte(`fn main() { return ; }`))
	require.Error(t, err)
}
