package ast

// Visitor is called by Walk for every node reached from a root, in
// depth-first pre-order: a node before its children, children in the field
// order Walk documents. This is not the order the nodes were appended to the
// Arena (the parser appends a BinOp after both of its operands, for example).
// Walk continues into a node's children only if Visitor returns true.
type Visitor func(h Handle, n *Node) bool

// Walk visits root and every node reachable from it through LHS, RHS, Body,
// Params, Args, Cond, Then and Else, in that field order, skipping NoNode
// handles. It mirrors the teacher's ast.Walk visitor shape, generalized from
// dispatch-on-interface-type to dispatch-on-handle.
func Walk(a *Arena, root Handle, v Visitor) {
	if root == NoNode {
		return
	}
	n := a.Get(root)
	if !v(root, n) {
		return
	}
	Walk(a, n.LHS, v)
	Walk(a, n.RHS, v)
	for _, h := range n.Body {
		Walk(a, h, v)
	}
	for _, h := range n.Params {
		Walk(a, h, v)
	}
	for _, h := range n.Args {
		Walk(a, h, v)
	}
	Walk(a, n.Cond, v)
	Walk(a, n.Then, v)
	Walk(a, n.Else, v)
}
