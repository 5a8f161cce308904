// Package maincmd implements the tanec command-line driver: flag parsing,
// compile pipeline invocation, and exit-code mapping, per spec.md §6.
package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"

	"github.com/tane-lang/tanec/lang/compile"
)

const binName = "tanec"

// stdlibDir is the build-fixed standard library search directory appended
// to every compilation's module search path (spec.md §6: "one additional
// standard library directory fixed by the build").
const stdlibDir = "/usr/local/lib/tane"

var (
	shortUsage = fmt.Sprintf(`
usage: %s [<option>...] <input>
Run '%[1]s --help' for details.
`, binName)

	longUsage = fmt.Sprintf(`usage: %s [<option>...] <input>
       %[1]s -h|--help
       %[1]s -v|--version

Ahead-of-time compiler for the Tane programming language. Compiles one
translation unit, plus its transitively-imported module interfaces, to
x86-64 GNU-assembler Intel-syntax text.

Valid flag options are:
       -h --help                 Show this help and exit.
       -v --version              Print version and exit.
       -o <file>                 Output assembly path (default out.s).
       -c <code>                 Compile the literal string <code> instead
                                 of reading a file; mutually exclusive with
                                 the positional <input>.
       -i <dir>                  Append <dir> to the module search path.
                                 May be repeated.
`, binName)
)

// Cmd is the tanec command, populated by mainer.Parser from argv and
// dispatched by Main.
type Cmd struct {
	BuildVersion string
	BuildDate    string

	Help    bool `flag:"h,help"`
	Version bool `flag:"v,version"`

	Output string   `flag:"o"`
	Code   string   `flag:"c"`
	Dirs   []string `flag:"i"`

	args []string
}

func (c *Cmd) SetArgs(args []string)    { c.args = args }
func (c *Cmd) SetFlags(map[string]bool) {}

// Validate checks the flag/positional combination, per spec.md §6: the
// positional input filename and -c are mutually exclusive, and exactly one
// of them must be given (unless -h/-v was requested).
func (c *Cmd) Validate() error {
	if c.Help || c.Version {
		return nil
	}

	if c.Code != "" && len(c.args) > 0 {
		return fmt.Errorf("%w: cannot give both -c and a positional input file", compile.ErrUsage)
	}
	if c.Code == "" && len(c.args) == 0 {
		return fmt.Errorf("%w: no input: give a source file or -c <code>", compile.ErrUsage)
	}
	if len(c.args) > 1 {
		return fmt.Errorf("%w: only one positional input file is allowed", compile.ErrUsage)
	}
	if c.Output == "" {
		c.Output = "out.s"
	}
	return nil
}

func (c *Cmd) Main(args []string, stdio mainer.Stdio) mainer.ExitCode {
	p := mainer.Parser{
		EnvVars:   false,
		EnvPrefix: binName + "_",
	}
	if err := p.Parse(args, c); err != nil {
		fmt.Fprintf(stdio.Stderr, "invalid arguments: %s\n%s", err, shortUsage)
		return mainer.Failure
	}

	switch {
	case c.Help:
		fmt.Fprint(stdio.Stdout, longUsage)
		return mainer.Success
	case c.Version:
		fmt.Fprintf(stdio.Stdout, "%s %s %s\n", binName, c.BuildVersion, c.BuildDate)
		return mainer.Success
	}

	ctx := mainer.CancelOnSignal(context.Background(), os.Interrupt)
	if err := c.run(ctx, stdio); err != nil {
		fmt.Fprintf(stdio.Stderr, "%s\n", err)
		return exitCodeFor(err)
	}
	return mainer.Success
}

// exitCodeFor maps lang/compile's error taxonomy onto spec.md §6's exit
// code policy: 0 on success, 1 on any usage, parse, semantic, or I/O
// error. Every error maps to mainer.Failure (1); an invalid flag/argument
// combination is caught earlier by Validate and exits from Main with the
// same status.
func exitCodeFor(err error) mainer.ExitCode {
	return mainer.Failure
}

func (c *Cmd) run(ctx context.Context, stdio mainer.Stdio) error {
	var searchDirs []string
	if cwd, err := os.Getwd(); err == nil {
		searchDirs = append(searchDirs, cwd)
	}
	searchDirs = append(searchDirs, stdlibDir)
	searchDirs = append(searchDirs, c.Dirs...)

	pipeline := &compile.Pipeline{SearchDirs: searchDirs}

	inputPath, cleanup, err := c.resolveInput()
	if err != nil {
		return err
	}
	if cleanup != nil {
		defer cleanup()
	}

	out, err := os.Create(c.Output)
	if err != nil {
		return fmt.Errorf("%w: creating output file %q: %s", compile.ErrIO, c.Output, err)
	}
	defer out.Close()

	// The entry translation unit has no module name: nothing can import the
	// program being compiled, so no .tnlib is written for it.
	return pipeline.Compile(ctx, out, inputPath, "")
}

// resolveInput returns the path to compile, materializing -c's literal
// source into a temp file so the rest of the pipeline only ever deals in
// file paths (spec.md §4.3's resolver operates on directories and file
// names, not in-memory buffers).
func (c *Cmd) resolveInput() (path string, cleanup func(), err error) {
	if c.Code == "" {
		return c.args[0], nil, nil
	}

	tmp, err := os.CreateTemp("", "tanec-*.tn")
	if err != nil {
		return "", nil, fmt.Errorf("%w: %s", compile.ErrIO, err)
	}
	if _, err := tmp.WriteString(c.Code); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return "", nil, fmt.Errorf("%w: %s", compile.ErrIO, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return "", nil, fmt.Errorf("%w: %s", compile.ErrIO, err)
	}
	name := tmp.Name()
	return name, func() { os.Remove(name) }, nil
}
