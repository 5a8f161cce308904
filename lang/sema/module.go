package sema

import (
	"context"

	"github.com/tane-lang/tanec/lang/ast"
)

// ImportedSymbol is one function interface entry returned by an
// ImportLoader, ready to be frozen into a Function Symbol in the importing
// module's scope. Per spec.md §4.3, parameter symbols created from
// ParamNames populate the function's Params slot only; they are never
// inserted into any scope.
type ImportedSymbol struct {
	Name       string
	ParamNames []string
}

// ImportLoader resolves a module name to the ordered sequence of symbols it
// exports. lang/tnlib.Loader is the production implementation; the binder
// only depends on this interface so that lang/sema never imports
// lang/tnlib (which itself needs to invoke the compiler front end, a
// dependency lang/compile breaks by injecting a Loader built around a
// callback - see SPEC_FULL.md §2).
type ImportLoader interface {
	Load(ctx context.Context, moduleName string) ([]ImportedSymbol, error)
}

// Module is the result of binding one translation unit: its symbol pool,
// scope pool, and the per-function side tables the IR builder consumes.
type Module struct {
	Symbols []Symbol
	Scopes  []Scope

	// FuncSems maps a FuncDef AST node handle to its computed frame layout.
	FuncSems map[ast.Handle]*FuncSem
}

func (m *Module) Symbol(h SymbolHandle) *Symbol { return &m.Symbols[h] }
func (m *Module) Scope(h ScopeHandle) *Scope     { return &m.Scopes[h] }

func (m *Module) newSymbol(sym Symbol) SymbolHandle {
	m.Symbols = append(m.Symbols, sym)
	return SymbolHandle(len(m.Symbols) - 1)
}

func (m *Module) newScope(parent ScopeHandle) ScopeHandle {
	m.Scopes = append(m.Scopes, Scope{Parent: parent, names: newNameTable()})
	return ScopeHandle(len(m.Scopes) - 1)
}
