package sema

import "github.com/dolthub/swiss"

// nameTable wraps a swiss.Map for a Scope's name→symbol lookup. Iteration
// order over a swiss.Map is unspecified, so callers that need declaration
// order use Scope.order instead of ranging over the map directly.
type nameTable struct {
	m *swiss.Map[string, SymbolHandle]
}

func newNameTable() *nameTable {
	return &nameTable{m: swiss.NewMap[string, SymbolHandle](8)}
}

func (t *nameTable) get(name string) (SymbolHandle, bool) {
	return t.m.Get(name)
}

func (t *nameTable) put(name string, h SymbolHandle) {
	t.m.Put(name, h)
}
