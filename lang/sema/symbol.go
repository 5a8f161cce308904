// Package sema implements the binder: the depth-first AST walk that resolves
// identifiers, builds the scope tree, lays out per-function stack frames and
// pulls in imported module interfaces, per spec.md §4.4.
package sema

// SymbolHandle indexes a Symbol within a Module's symbol pool.
type SymbolHandle int32

// NoSymbol is the handle sentinel meaning "unresolved".
const NoSymbol SymbolHandle = -1

// Kind distinguishes the two symbol flavors the binder ever creates.
type Kind uint8

const (
	Variable Kind = iota
	Function
)

// Symbol is an append-only entry in a Module's symbol pool. Once inserted,
// Name, Kind and Params are frozen; StackOffset is assigned at insertion time
// and never revisited (spec.md §3's Symbol definition).
type Symbol struct {
	Kind Kind
	Name string

	Mutable  bool
	Public   bool
	External bool // declared by an imported module, not this one

	// StackOffset is a positive, 8-byte-increasing byte offset from the frame
	// pointer. Meaningful for Variable symbols and for a Function's own
	// parameter symbols; zero for everything else.
	StackOffset int32

	// Params is the ordered list of parameter symbols. Populated only for
	// Function symbols.
	Params []SymbolHandle
}

// ScopeHandle indexes a Scope within a Module's scope pool.
type ScopeHandle int32

// NoScope is the handle sentinel meaning "no parent" (the module scope).
const NoScope ScopeHandle = -1

// ModuleScope is the handle of the root scope created for every Module.
const ModuleScope ScopeHandle = 0

// Scope is a lexical region of the scope tree. names supports O(1) lookup by
// spelling; order preserves insertion order for deterministic enumeration
// (diagnostics, interface writing) since swiss.Map iteration order is not
// stable across builds.
type Scope struct {
	Parent ScopeHandle
	names  *nameTable
	order  []string
}

// Lookup returns the symbol bound to name directly in this scope, without
// walking to the parent.
func (s *Scope) Lookup(name string) (SymbolHandle, bool) {
	return s.names.get(name)
}

// Names returns the names declared directly in this scope, in declaration
// order.
func (s *Scope) Names() []string {
	return s.order
}

// FuncSem is the per-function side table the binder records for each FuncDef
// AST node: the stack frame size and the parameter symbol list the IR
// builder needs to size the frame and wire up argument loads (spec.md §3).
type FuncSem struct {
	LocalBytes int32
	Params     []SymbolHandle
}
