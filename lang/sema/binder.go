package sema

import (
	"context"
	"fmt"

	"github.com/tane-lang/tanec/lang/ast"
	"github.com/tane-lang/tanec/lang/token"
)

// Error is a fatal binding error: an unresolved name, a duplicate
// declaration, or an import failure, carrying the position it was detected
// at (spec.md §4.4).
type Error struct {
	Pos token.Position
	Msg string
}

func (e *Error) Error() string { return fmt.Sprintf("%s: %s", e.Pos, e.Msg) }

// Bind performs the binder's single depth-first pass over root (a
// TranslationUnit node): import resolution, function declaration, and
// scope/stack layout, per spec.md §4.4. loader may be nil if the unit
// imports nothing.
func Bind(ctx context.Context, file *token.File, arena *ast.Arena, root ast.Handle, loader ImportLoader) (mod *Module, err error) {
	b := &binder{ctx: ctx, file: file, arena: arena, loader: loader, mod: &Module{FuncSems: make(map[ast.Handle]*FuncSem)}}
	b.cur = b.mod.newScope(NoScope) // module scope, handle 0

	defer func() {
		if r := recover(); r != nil {
			berr, ok := r.(*Error)
			if !ok {
				panic(r)
			}
			mod, err = nil, berr
		}
	}()

	tu := arena.Get(root)
	for _, item := range tu.Body {
		b.bindFuncDef(item)
	}
	return b.mod, nil
}

type binder struct {
	ctx    context.Context
	file   *token.File
	arena  *ast.Arena
	loader ImportLoader
	mod    *Module

	cur ScopeHandle

	// frameOffset tracks the next 8-byte stack slot to assign within the
	// function currently being bound; reset on entry to each FuncDef.
	frameOffset int32
}

func (b *binder) fail(pos int32, format string, args ...any) {
	panic(&Error{Pos: b.file.Position(int(pos)), Msg: fmt.Sprintf(format, args...)})
}

func (b *binder) pushScope() {
	b.cur = b.mod.newScope(b.cur)
}

// popScope leaves the current scope. Attempting to leave the module scope
// is fatal (spec.md §4.4).
func (b *binder) popScope(pos int32) {
	s := b.mod.Scope(b.cur)
	if s.Parent == NoScope {
		b.fail(pos, "internal error: attempted to leave the module scope")
	}
	b.cur = s.Parent
}

// insert declares name in the current scope. Collisions within the same
// scope are fatal; shadowing an outer scope's binding is allowed.
func (b *binder) insert(pos int32, sym Symbol) SymbolHandle {
	scope := b.mod.Scope(b.cur)
	if _, ok := scope.Lookup(sym.Name); ok {
		b.fail(pos, "%q already declared in this scope", sym.Name)
	}
	h := b.mod.newSymbol(sym)
	scope.names.put(sym.Name, h)
	scope.order = append(scope.order, sym.Name)
	return h
}

// lookup resolves name by walking from the current scope through parent
// links. An unresolved name is fatal.
func (b *binder) lookup(pos int32, name string) SymbolHandle {
	for s := b.cur; s != NoScope; {
		scope := b.mod.Scope(s)
		if h, ok := scope.Lookup(name); ok {
			return h
		}
		s = scope.Parent
	}
	b.fail(pos, "undefined: %s", name)
	panic("unreachable")
}

func (b *binder) nextStackOffset() int32 {
	b.frameOffset += 8
	return b.frameOffset
}

// bindFuncDef implements binder tasks 1 and 2 for one top-level item: import
// statements insert symbols directly into the module scope; fn items create
// a parameter scope, bind the body, and insert the function's own symbol
// into the module scope.
func (b *binder) bindFuncDef(h ast.Handle) {
	n := b.arena.Get(h)
	if n.Kind == ast.ImportStmt {
		b.bindImport(h)
		return
	}

	savedOffset := b.frameOffset
	b.frameOffset = 0
	b.pushScope() // parameter scope

	var params []SymbolHandle
	for _, p := range n.Params {
		pn := b.arena.Get(p)
		sh := b.insert(pn.Pos, Symbol{Kind: Variable, Name: pn.Name, Mutable: true, StackOffset: b.nextStackOffset()})
		pn.Sym = ast.SymHandle(sh)
		params = append(params, sh)
	}

	// the function body is the sole Block child; it pushes its own scope.
	b.bindStmt(n.Body[0])

	b.popScope(n.Pos) // parameter scope

	fsem := &FuncSem{LocalBytes: b.frameOffset, Params: params}
	b.mod.FuncSems[h] = fsem
	b.frameOffset = savedOffset

	fh := b.insert(n.Pos, Symbol{Kind: Function, Name: n.Name, Public: n.Public, Params: params})
	n.Sym = ast.SymHandle(fh)
}

func (b *binder) bindImport(h ast.Handle) {
	n := b.arena.Get(h)
	if b.loader == nil {
		b.fail(n.Pos, "import %q: no module loader configured", n.Name)
	}
	syms, err := b.loader.Load(b.ctx, n.Name)
	if err != nil {
		b.fail(n.Pos, "import %q: %s", n.Name, err)
	}

	for _, is := range syms {
		var params []SymbolHandle
		for _, pname := range is.ParamNames {
			// parameter symbols of an imported function are not visible in
			// any scope; they exist only to populate Params.
			params = append(params, b.mod.newSymbol(Symbol{Kind: Variable, Name: pname, Mutable: true}))
		}
		savedCur := b.cur
		b.cur = ModuleScope
		b.insert(n.Pos, Symbol{Kind: Function, Name: is.Name, External: true, Params: params})
		b.cur = savedCur
	}
}

// bindStmt walks one Stmt node, per spec.md §4.4 task 3.
func (b *binder) bindStmt(h ast.Handle) {
	n := b.arena.Get(h)
	switch n.Kind {
	case ast.Block:
		b.pushScope()
		for _, s := range n.Body {
			b.bindStmt(s)
		}
		b.popScope(n.Pos)

	case ast.ReturnStmt:
		b.bindExpr(n.LHS)

	case ast.IfStmt:
		b.bindExpr(n.Cond)
		b.bindStmt(n.Then)
		if n.Else != ast.NoNode {
			b.bindStmt(n.Else)
		}

	case ast.WhileStmt:
		b.bindExpr(n.Cond)
		b.bindStmt(n.Then)

	case ast.LetStmt:
		sh := b.insert(n.Pos, Symbol{Kind: Variable, Name: n.Name, Mutable: n.Mutable, StackOffset: b.nextStackOffset()})
		n.Sym = ast.SymHandle(sh)

	case ast.ImportStmt:
		b.bindImport(h)

	case ast.AssignStmt:
		b.bindExpr(n.RHS)
		lhs := b.arena.Get(n.LHS)
		sh := b.lookup(lhs.Pos, lhs.Name)
		lhs.Sym = ast.SymHandle(sh)

	case ast.ExprStmt:
		b.bindExpr(n.LHS)

	default:
		b.fail(n.Pos, "internal error: unexpected statement kind %s", n.Kind)
	}
}

// bindExpr walks one Expr node, resolving identifiers and calls.
func (b *binder) bindExpr(h ast.Handle) {
	n := b.arena.Get(h)
	switch n.Kind {
	case ast.Number, ast.String:
		// nothing to resolve

	case ast.Ident:
		sh := b.lookup(n.Pos, n.Name)
		n.Sym = ast.SymHandle(sh)

	case ast.BinOp:
		b.bindExpr(n.LHS)
		b.bindExpr(n.RHS)

	case ast.Call:
		sh := b.lookup(n.Pos, n.Name)
		n.Sym = ast.SymHandle(sh)
		for _, a := range n.Args {
			b.bindExpr(a)
		}

	case ast.Switch:
		b.bindExpr(n.Cond)
		for _, c := range n.Body {
			// spec.md §4.4 scopes every switch-arm body; the grammar only
			// ever places expressions there, so this never has anything to
			// bind, but the scope still opens and closes like any other.
			b.pushScope()
			cn := b.arena.Get(c)
			b.bindExpr(cn.LHS)
			b.bindExpr(cn.RHS)
			b.popScope(n.Pos)
		}

	default:
		b.fail(n.Pos, "internal error: unexpected expression kind %s", n.Kind)
	}
}
