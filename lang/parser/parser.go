// Package parser implements the recursive-descent parser that turns a Tane
// token stream into an ast.Arena, per the grammar in spec.md §4.2.
package parser

import (
	"fmt"

	"github.com/tane-lang/tanec/lang/ast"
	"github.com/tane-lang/tanec/lang/scanner"
	"github.com/tane-lang/tanec/lang/token"
)

// Error is a fatal parse error with the source position it occurred at.
type Error = scanner.Error

// ParseFile tokenizes and parses src, returning the resulting arena and the
// handle of its root TranslationUnit node. Parse errors are fatal: the first
// one encountered is returned and parsing stops, per spec.md §4.2 ("Parse
// errors are fatal and terminate compilation").
//
// The scanning and parsing stages are split across Scan and ParseStream so a
// caller that needs to tell a lexical failure from a syntax failure (both
// surface as the same *scanner.Error type, since Error is an alias of it)
// can do so by which call returned the error, rather than by a type switch.
func ParseFile(file *token.File, src []byte) (arena *ast.Arena, root ast.Handle, err error) {
	stream, err := Scan(file, src)
	if err != nil {
		return nil, ast.NoNode, err
	}
	return ParseStream(file, stream)
}

// Scan tokenizes src in source mode, exposed so callers can distinguish a
// scanning failure from a parsing failure; see ParseFile.
func Scan(file *token.File, src []byte) (*scanner.Stream, error) {
	return scanner.Scan(file, src, scanner.ModeSource)
}

// ParseStream parses an already-scanned token stream, returning the
// resulting arena and the handle of its root TranslationUnit node.
func ParseStream(file *token.File, stream *scanner.Stream) (arena *ast.Arena, root ast.Handle, err error) {
	p := &parser{stream: stream, file: file, arena: &ast.Arena{}}

	defer func() {
		if r := recover(); r != nil {
			perr, ok := r.(*Error)
			if !ok {
				panic(r)
			}
			arena, root, err = nil, ast.NoNode, perr
		}
	}()

	root = p.parseFile()
	return p.arena, root, nil
}

type parser struct {
	stream *scanner.Stream
	file   *token.File
	arena  *ast.Arena
}

func (p *parser) cur() token.Token { return p.stream.Peek() }

func (p *parser) pos() int32 { return p.cur().Offset }

func (p *parser) fail(format string, args ...any) {
	panic(&Error{Pos: p.file.Position(int(p.pos())), Msg: fmt.Sprintf(format, args...)})
}

// expect consumes the current token if it has the given kind, otherwise
// fails fatally.
func (p *parser) expect(kind token.Kind) token.Token {
	tok := p.cur()
	if tok.Kind != kind {
		p.fail("expected %s, found %s", kind.GoString(), tok.Kind.GoString())
	}
	p.stream.Consume(kind)
	return tok
}

func (p *parser) expectIdent() string {
	tok := p.cur()
	h, ok := p.stream.ConsumeIdent()
	if !ok {
		p.fail("expected identifier, found %s", tok.Kind.GoString())
	}
	return p.stream.GetToken(h).StrVal
}
