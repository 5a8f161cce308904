package tnlib

import (
	"bufio"
	"fmt"
	"io"

	"github.com/tane-lang/tanec/lang/scanner"
	"github.com/tane-lang/tanec/lang/sema"
	"github.com/tane-lang/tanec/lang/token"
)

// FuncDecl is one exported function entry from a parsed .tnlib interface.
type FuncDecl struct {
	Name   string
	Params []string
}

// Error reports a malformed .tnlib file.
type Error = scanner.Error

// Version is the only .tnlib format version this reader/writer understands
// (spec.md §6).
const Version = 1

// ParseInterface reads a .tnlib file per the grammar in spec.md §6:
//
//	tnlib <integer-version>
//	module <identifier>
//	{ fn <identifier> ( [ <identifier> { , <identifier> } ] ) ; }
//	end
func ParseInterface(r io.Reader) (moduleName string, decls []FuncDecl, err error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return "", nil, err
	}

	file := token.NewFile("<tnlib>", len(src))
	stream, err := scanner.Scan(file, src, scanner.ModeInterface)
	if err != nil {
		return "", nil, err
	}

	p := &ifaceParser{stream: stream, file: file}
	defer func() {
		if r := recover(); r != nil {
			perr, ok := r.(*Error)
			if !ok {
				panic(r)
			}
			moduleName, decls, err = "", nil, perr
		}
	}()

	moduleName = p.parse()
	return moduleName, p.decls, nil
}

type ifaceParser struct {
	stream *scanner.Stream
	file   *token.File
	decls  []FuncDecl
}

func (p *ifaceParser) cur() token.Token { return p.stream.Peek() }

func (p *ifaceParser) fail(format string, args ...any) {
	panic(&Error{Pos: p.file.Position(int(p.cur().Offset)), Msg: fmt.Sprintf(format, args...)})
}

func (p *ifaceParser) expect(kind token.Kind) token.Token {
	tok := p.cur()
	if tok.Kind != kind {
		p.fail("expected %s, found %s", kind.GoString(), tok.Kind.GoString())
	}
	p.stream.Consume(kind)
	return tok
}

func (p *ifaceParser) expectIdent() string {
	tok := p.cur()
	h, ok := p.stream.ConsumeIdent()
	if !ok {
		p.fail("expected identifier, found %s", tok.Kind.GoString())
	}
	return p.stream.GetToken(h).StrVal
}

func (p *ifaceParser) parse() string {
	p.expect(token.KW_TNLIB)
	version := p.expect(token.NUMBER)
	if version.IntVal != Version {
		p.fail("unsupported tnlib version %d", version.IntVal)
	}

	p.expect(token.KW_MODULE)
	name := p.expectIdent()

	for p.cur().Kind == token.KW_FN {
		p.expect(token.KW_FN)
		fname := p.expectIdent()
		p.expect(token.LPAREN)
		var params []string
		if p.cur().Kind != token.RPAREN {
			params = append(params, p.expectIdent())
			for p.stream.Consume(token.COMMA) {
				params = append(params, p.expectIdent())
			}
		}
		p.expect(token.RPAREN)
		p.expect(token.SEMI)
		p.decls = append(p.decls, FuncDecl{Name: fname, Params: params})
	}

	p.expect(token.KW_END)
	p.expect(token.EOF)
	return name
}

// WriteInterface writes moduleName's .tnlib text for every public,
// locally-declared function symbol in mod's module scope, in declaration
// order (spec.md §4.8).
func WriteInterface(w io.Writer, moduleName string, mod *sema.Module) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "tnlib %d\n", Version)
	fmt.Fprintf(bw, "module %s\n", moduleName)

	scope := mod.Scope(sema.ModuleScope)
	for _, name := range scope.Names() {
		h, _ := scope.Lookup(name)
		sym := mod.Symbol(h)
		if sym.Kind != sema.Function || sym.External || !sym.Public {
			continue
		}

		params := make([]string, len(sym.Params))
		for i, ph := range sym.Params {
			params[i] = mod.Symbol(ph).Name
		}
		fmt.Fprintf(bw, "fn %s(%s);\n", sym.Name, joinComma(params))
	}

	fmt.Fprint(bw, "end\n")
	return bw.Flush()
}

func joinComma(ss []string) string {
	out := ""
	for i, s := range ss {
		if i > 0 {
			out += ", "
		}
		out += s
	}
	return out
}
