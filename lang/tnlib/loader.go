package tnlib

import (
	"context"
	"fmt"
	"os"

	"github.com/dolthub/swiss"

	"github.com/tane-lang/tanec/lang/sema"
)

// CompileFunc bind-only-compiles the .tn source at path under the given
// module name, producing its .tnlib interface as a side effect, without
// emitting assembly. lang/compile.Pipeline supplies this so that lang/tnlib
// never imports lang/compile directly (see SPEC_FULL.md §2's dependency-
// injection note on breaking the tnlib↔compile cycle).
type CompileFunc func(ctx context.Context, path, moduleName string) error

// Loader implements sema.ImportLoader. It caches already-loaded module
// names across one compilation: a cyclic import sees itself as already
// loaded and gets back an empty symbol list (spec.md §4.3's documented
// cycle-breaking behaviour; see SPEC_FULL.md §9).
type Loader struct {
	resolver *Resolver
	compile  CompileFunc
	loaded   *swiss.Map[string, struct{}]
}

// NewLoader builds a Loader searching r's directories, invoking compile for
// modules with no pre-built .tnlib on disk.
func NewLoader(r *Resolver, compile CompileFunc) *Loader {
	return &Loader{resolver: r, compile: compile, loaded: swiss.NewMap[string, struct{}](8)}
}

// Load implements sema.ImportLoader.
func (l *Loader) Load(ctx context.Context, name string) ([]sema.ImportedSymbol, error) {
	if _, ok := l.loaded.Get(name); ok {
		return nil, nil
	}
	l.loaded.Put(name, struct{}{})

	path, ok := l.resolver.ResolveTnlib(name)
	if !ok {
		tnPath, ok2 := l.resolver.ResolveTn(name)
		if !ok2 {
			return nil, fmt.Errorf("module %q not found in search path", name)
		}
		if err := l.compile(ctx, tnPath, name); err != nil {
			return nil, fmt.Errorf("compiling imported module %q: %w", name, err)
		}
		path, ok = l.resolver.ResolveTnlib(name)
		if !ok {
			return nil, fmt.Errorf("module %q: bind-only compilation did not produce an interface file", name)
		}
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening interface for module %q: %w", name, err)
	}
	defer f.Close()

	_, decls, err := ParseInterface(f)
	if err != nil {
		return nil, fmt.Errorf("parsing interface for module %q: %w", name, err)
	}

	syms := make([]sema.ImportedSymbol, len(decls))
	for i, d := range decls {
		syms[i] = sema.ImportedSymbol{Name: d.Name, ParamNames: d.Params}
	}
	return syms, nil
}
