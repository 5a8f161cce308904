package token

import gotoken "go/token"

// Position is a human-readable source location, the form diagnostics are
// rendered in. It is an alias of go/token.Position so that go/scanner.Error
// (aliased as Error in lang/scanner, lang/parser and lang/tnlib) can carry
// our positions directly.
type Position = gotoken.Position

// File tracks the newline offsets of a single source buffer, so that a byte
// offset produced by the scanner can be turned into a (line, col) pair on
// demand. A File is owned exclusively by the compilation (outer or a
// recursively loaded module) that created it; it is never shared across
// compilations, matching the arena-ownership rule of spec.md §5.
type File struct {
	Name string
	Size int

	// lineOffsets[i] is the byte offset of the first character of line i+1
	// (line 1 always starts at offset 0, so lineOffsets[0] == 0).
	lineOffsets []int32
}

// NewFile creates a File for a buffer of the given size.
func NewFile(name string, size int) *File {
	return &File{Name: name, Size: size, lineOffsets: []int32{0}}
}

// AddLine records that a new line begins at the given offset. Offsets must
// be added in increasing order, as the scanner advances through the buffer.
func (f *File) AddLine(offset int) {
	n := len(f.lineOffsets)
	if n > 0 && int(f.lineOffsets[n-1]) >= offset {
		return
	}
	f.lineOffsets = append(f.lineOffsets, int32(offset))
}

// Position converts a byte offset into this file into a 1-based line and
// column.
func (f *File) Position(offset int) Position {
	// binary search for the line whose start offset is <= offset
	lo, hi := 0, len(f.lineOffsets)-1
	line := 0
	for lo <= hi {
		mid := (lo + hi) / 2
		if int(f.lineOffsets[mid]) <= offset {
			line = mid
			lo = mid + 1
		} else {
			hi = mid - 1
		}
	}
	col := offset - int(f.lineOffsets[line]) + 1
	return Position{Filename: f.Name, Offset: offset, Line: line + 1, Column: col}
}
