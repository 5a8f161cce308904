package sema

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tane-lang/tanec/lang/token"
)

// Exercises the binder's internal scope-stack invariants directly, since
// every code path reachable through Bind keeps push/pop balanced and never
// triggers the "leave the module scope" guard on its own.
func TestPopScopePastModuleScopeIsFatal(t *testing.T) {
	mod := &Module{}
	mod.newScope(NoScope) // module scope, handle 0
	b := &binder{file: token.NewFile("t.tn", 1), mod: mod, cur: ModuleScope}

	require.Panics(t, func() { b.popScope(0) })
}

func TestInsertAndLookupWalksParentChain(t *testing.T) {
	mod := &Module{}
	mod.newScope(NoScope) // module scope
	b := &binder{file: token.NewFile("t.tn", 1), mod: mod, cur: ModuleScope}

	b.insert(0, Symbol{Kind: Variable, Name: "outer"})
	b.pushScope()
	b.insert(0, Symbol{Kind: Variable, Name: "inner"})

	require.Equal(t, SymbolHandle(0), b.lookup(0, "outer"))
	require.Equal(t, SymbolHandle(1), b.lookup(0, "inner"))
}
