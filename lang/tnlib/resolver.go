// Package tnlib implements the module search-path resolver, the interface
// loader, and the .tnlib interface reader/writer, per spec.md §4.3 and §4.8.
package tnlib

import (
	"os"
	"path/filepath"
)

// Resolver holds an ordered list of search directories and locates the
// first existing <dir>/<name>.tnlib or <dir>/<name>.tn file.
type Resolver struct {
	Dirs []string
}

// ResolveTnlib returns the path to name's compiled interface, if any exists
// in the search path.
func (r *Resolver) ResolveTnlib(name string) (string, bool) {
	return r.resolve(name, ".tnlib")
}

// ResolveTn returns the path to name's source file, if any exists in the
// search path.
func (r *Resolver) ResolveTn(name string) (string, bool) {
	return r.resolve(name, ".tn")
}

func (r *Resolver) resolve(name, ext string) (string, bool) {
	for _, dir := range r.Dirs {
		path := filepath.Join(dir, name+ext)
		if _, err := os.Stat(path); err == nil {
			return path, true
		}
	}
	return "", false
}
