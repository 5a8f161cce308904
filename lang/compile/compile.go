// Package compile strings together the scanner, parser, binder, IR builder
// and code generator into the single-pass pipeline described by spec.md §7:
// tokenize, parse, bind, lower, allocate-and-emit, stopping at the first
// error. It also supplies the bind-only path that lang/tnlib.Loader invokes
// to compile an imported module's interface on demand.
package compile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/tane-lang/tanec/lang/ast"
	"github.com/tane-lang/tanec/lang/codegen"
	"github.com/tane-lang/tanec/lang/ir"
	"github.com/tane-lang/tanec/lang/parser"
	"github.com/tane-lang/tanec/lang/sema"
	"github.com/tane-lang/tanec/lang/tnlib"
	"github.com/tane-lang/tanec/lang/token"
)

// Error taxonomy. Every failure returned by Pipeline.Compile (or by
// CompileInterfaceOnly) wraps exactly one of these sentinels, so callers can
// classify a failure with errors.Is without parsing message text.
var (
	ErrUsage    = errors.New("usage error")
	ErrIO       = errors.New("I/O error")
	ErrLex      = errors.New("lexical error")
	ErrParse    = errors.New("syntax error")
	ErrResolve  = errors.New("module resolution error")
	ErrSemantic = errors.New("semantic error")
	ErrLowering = errors.New("lowering error")
	ErrBudget   = errors.New("budget exceeded")
)

// maxSourceBytes bounds a single translation unit so that every byte offset
// fits the int32 Offset/Pos fields of tokens and AST nodes.
const maxSourceBytes = 1 << 30

// Pipeline runs the full tokenize-through-emit sequence for one entry
// source file, resolving imports against a search path of directories.
type Pipeline struct {
	// SearchDirs lists directories, in priority order, searched for
	// imported modules' .tnlib/.tn files (spec.md §4.3, §6).
	SearchDirs []string
}

// Compile reads path, compiles it to x86-64 assembly written to w, and
// writes a .tnlib interface file alongside path (same base name, .tnlib
// extension) if moduleName is non-empty. moduleName is also the name
// importers use to refer to this module; pass "" to skip writing an
// interface (e.g. for a program's entry file, which nothing imports).
func (p *Pipeline) Compile(ctx context.Context, w io.Writer, path, moduleName string) error {
	arena, root, file, err := p.parseFile(path)
	if err != nil {
		return err
	}

	loader := tnlib.NewLoader(&tnlib.Resolver{Dirs: p.SearchDirs}, p.compileForImport(ctx))
	mod, err := sema.Bind(ctx, file, arena, root, loader)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrSemantic, err)
	}

	im := ir.Build(arena, root, mod)

	if err := codegen.Emit(w, im); err != nil {
		return fmt.Errorf("%w: %s", ErrBudget, err)
	}

	if moduleName != "" {
		ifacePath := strings.TrimSuffix(path, filepath.Ext(path)) + ".tnlib"
		if err := writeInterfaceFile(ifacePath, moduleName, mod); err != nil {
			return err
		}
	}
	return nil
}

// CompileInterfaceOnly runs tokenize-through-bind for path under moduleName
// and writes its .tnlib interface next to it, without lowering or emitting
// assembly. This is the CompileFunc lang/tnlib.Loader calls when a module
// has source but no pre-built interface (spec.md §4.3): importers only ever
// need the imported module's public signatures, not its generated code.
func (p *Pipeline) CompileInterfaceOnly(ctx context.Context, path, moduleName string) error {
	arena, root, file, err := p.parseFile(path)
	if err != nil {
		return err
	}

	loader := tnlib.NewLoader(&tnlib.Resolver{Dirs: p.SearchDirs}, p.compileForImport(ctx))
	mod, err := sema.Bind(ctx, file, arena, root, loader)
	if err != nil {
		return fmt.Errorf("%w: %s", ErrSemantic, err)
	}

	ifacePath := strings.TrimSuffix(path, filepath.Ext(path)) + ".tnlib"
	return writeInterfaceFile(ifacePath, moduleName, mod)
}

// compileForImport adapts CompileInterfaceOnly to tnlib.CompileFunc's
// signature, closing over ctx and p so lang/tnlib never needs to import
// lang/compile (SPEC_FULL.md §2's dependency-injection note).
func (p *Pipeline) compileForImport(ctx context.Context) tnlib.CompileFunc {
	return func(_ context.Context, path, moduleName string) error {
		return p.CompileInterfaceOnly(ctx, path, moduleName)
	}
}

// parseFile reads path and runs it through the scanner and parser, wrapping
// I/O and syntax errors with this package's sentinels.
func (p *Pipeline) parseFile(path string) (arena *ast.Arena, root ast.Handle, file *token.File, err error) {
	src, err := os.ReadFile(path)
	if err != nil {
		return nil, ast.NoNode, nil, fmt.Errorf("%w: reading %q: %s", ErrIO, path, err)
	}
	if len(src) > maxSourceBytes {
		return nil, ast.NoNode, nil, fmt.Errorf("%w: %q exceeds maximum source size", ErrBudget, path)
	}

	file = token.NewFile(path, len(src))

	stream, err := parser.Scan(file, src)
	if err != nil {
		return nil, ast.NoNode, nil, fmt.Errorf("%w: %s", ErrLex, err)
	}

	arena, root, err = parser.ParseStream(file, stream)
	if err != nil {
		return nil, ast.NoNode, nil, fmt.Errorf("%w: %s", ErrParse, err)
	}
	return arena, root, file, nil
}

func writeInterfaceFile(path, moduleName string, mod *sema.Module) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("%w: creating interface file %q: %s", ErrIO, path, err)
	}
	defer f.Close()

	if err := tnlib.WriteInterface(f, moduleName, mod); err != nil {
		return fmt.Errorf("%w: writing interface file %q: %s", ErrIO, path, err)
	}
	return nil
}
