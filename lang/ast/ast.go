// Package ast defines the arena-backed abstract syntax tree produced by the
// parser. Every node lives in a single flat Arena and is addressed by a
// dense Handle rather than a pointer, per spec.md §3's "arenas addressed by
// dense integer handles" data model — a tagged variant over inheritance
// (spec.md §9), not a tree of interface-typed node pointers.
package ast

import "fmt"

// Handle addresses a Node within an Arena. NoNode denotes "absent".
type Handle int32

// NoNode is the handle sentinel meaning "no node here".
const NoNode Handle = -1

// SymHandle is the binder-assigned resolved-symbol slot on a Node. It is an
// opaque int32 here (ast does not depend on sema, to keep the dependency
// arrow pointing the conventional front-end-to-back-end direction); sema
// defines the strongly-typed SymbolHandle this value round-trips through.
type SymHandle int32

// NoSym is the SymHandle sentinel meaning "not yet resolved" / "absent".
const NoSym SymHandle = -1

// Kind tags the variant a Node represents.
type Kind uint8

//nolint:revive
const (
	Invalid Kind = iota
	TranslationUnit
	FuncDef
	Block
	ReturnStmt
	IfStmt
	WhileStmt
	LetStmt
	ImportStmt
	AssignStmt
	ExprStmt
	Ident
	Number
	String
	BinOp
	UnaryOp
	Call
	Switch
	Case

	maxKind
)

var kindNames = [...]string{
	Invalid:         "<invalid>",
	TranslationUnit: "TranslationUnit",
	FuncDef:         "FuncDef",
	Block:           "Block",
	ReturnStmt:      "ReturnStmt",
	IfStmt:          "IfStmt",
	WhileStmt:       "WhileStmt",
	LetStmt:         "LetStmt",
	ImportStmt:      "ImportStmt",
	AssignStmt:      "AssignStmt",
	ExprStmt:        "ExprStmt",
	Ident:           "Ident",
	Number:          "Number",
	String:          "String",
	BinOp:           "BinOp",
	UnaryOp:         "UnaryOp",
	Call:            "Call",
	Switch:          "Switch",
	Case:            "Case",
}

func (k Kind) String() string {
	if k >= maxKind {
		return fmt.Sprintf("Kind(%d)", k)
	}
	return kindNames[k]
}

// Op distinguishes which operator a BinOp/UnaryOp node carries.
type Op uint8

//nolint:revive
const (
	OpNone Op = iota
	OpAdd
	OpSub
	OpMul
	OpDiv
	OpMod
	OpBitAnd
	OpBitOr
	OpBitXor
	OpShl
	OpShr
	OpAnd // &&
	OpOr  // ||
	OpEq
	OpNeq
	OpLt
	OpLe
)

// Node is the single tagged-variant record every AST construct is
// represented with; which fields are meaningful is determined by Kind. It is
// created only by the parser; after parsing, only Sym (written by the
// binder) and StrPoolID (written by the IR builder when it interns a string
// literal) are ever mutated, per spec.md §3's lifecycle rule.
type Node struct {
	Kind Kind
	Pos  int32 // byte offset into source, for diagnostics

	LHS, RHS Handle // binary/unary operand, assignment sides
	Body     []Handle
	Params   []Handle // Ident handles naming a FuncDef's parameters
	Args     []Handle // Call argument expressions

	Cond, Then, Else Handle // If/While condition and branches

	Name string // identifier text, or FuncDef/LetStmt/ImportStmt declared name
	Str  string // String literal raw text
	Val  int32  // Number literal value
	Op   Op     // BinOp/UnaryOp operator

	Mutable bool // LetStmt "mut", or a parameter (always mutable)
	Public  bool // FuncDef "pub"

	Sym       SymHandle // resolved symbol, filled by the binder
	StrPoolID int32     // string-literal pool id, filled by the IR builder
}

// Arena holds all Node values created while parsing one translation unit. It
// is owned exclusively by the compilation that created it and is never
// shared across compilations (spec.md §5).
type Arena struct {
	nodes []Node
}

// New appends a zero-valued node of the given kind and position, returning
// its handle.
func (a *Arena) New(kind Kind, pos int32) Handle {
	h := Handle(len(a.nodes))
	a.nodes = append(a.nodes, Node{Kind: kind, Pos: pos, LHS: NoNode, RHS: NoNode,
		Cond: NoNode, Then: NoNode, Else: NoNode, Sym: NoSym})
	return h
}

// Get returns a pointer to the node at h, so callers can mutate it in place
// (e.g. the binder writing Sym, the IR builder writing StrPoolID).
func (a *Arena) Get(h Handle) *Node {
	return &a.nodes[h]
}

// Len returns the number of nodes in the arena.
func (a *Arena) Len() int { return len(a.nodes) }
