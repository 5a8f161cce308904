package scanner

import (
	"fmt"

	"github.com/tane-lang/tanec/lang/token"
)

// Stream is the append-only token arena produced by Scan, exposing the
// cursor API spec.md §4.1 requires: consume, expect, expect_num,
// expect_ident, consume_ident, peek_kind, get_token.
type Stream struct {
	toks []token.Token
	pos  int
}

// GetToken returns the token at the given handle.
func (s *Stream) GetToken(h token.Handle) token.Token {
	return s.toks[h]
}

// Cur returns the handle of the token under the cursor.
func (s *Stream) Cur() token.Handle {
	return token.Handle(s.pos)
}

// Peek returns the token under the cursor without advancing it.
func (s *Stream) Peek() token.Token {
	return s.toks[s.pos]
}

// PeekKind reports whether the token offset positions past the cursor has
// the given kind, without consuming anything.
func (s *Stream) PeekKind(kind token.Kind, offset int) bool {
	i := s.pos + offset
	if i < 0 || i >= len(s.toks) {
		return false
	}
	return s.toks[i].Kind == kind
}

func (s *Stream) advance() token.Handle {
	h := token.Handle(s.pos)
	if s.pos < len(s.toks)-1 {
		s.pos++
	}
	return h
}

// Consume advances the cursor and returns true if the current token has the
// given kind, otherwise it leaves the cursor untouched and returns false.
func (s *Stream) Consume(kind token.Kind) bool {
	if s.toks[s.pos].Kind != kind {
		return false
	}
	s.advance()
	return true
}

// Expect consumes the current token if it has the given kind, otherwise it
// returns a fatal error describing what was expected (spec.md §4.1: expect
// is fatal on mismatch).
func (s *Stream) Expect(kind token.Kind, file *token.File) (token.Token, error) {
	tok := s.toks[s.pos]
	if tok.Kind != kind {
		return token.Token{}, &Error{
			Pos: file.Position(int(tok.Offset)),
			Msg: fmt.Sprintf("expected %s, found %s", kind.GoString(), tok.Kind.GoString()),
		}
	}
	s.advance()
	return tok, nil
}

// ExpectNum consumes a NUMBER token and returns its integer value, or a
// fatal error if the current token is not a number.
func (s *Stream) ExpectNum(file *token.File) (int32, error) {
	tok, err := s.Expect(token.NUMBER, file)
	if err != nil {
		return 0, err
	}
	return tok.IntVal, nil
}

// ExpectIdent consumes an IDENT token and returns its handle, or a fatal
// error if the current token is not an identifier.
func (s *Stream) ExpectIdent(file *token.File) (token.Handle, error) {
	if s.toks[s.pos].Kind != token.IDENT {
		tok := s.toks[s.pos]
		return token.NoToken, &Error{
			Pos: file.Position(int(tok.Offset)),
			Msg: fmt.Sprintf("expected identifier, found %s", tok.Kind.GoString()),
		}
	}
	return s.advance(), nil
}

// ConsumeIdent consumes and returns the current token's handle if it is an
// identifier.
func (s *Stream) ConsumeIdent() (token.Handle, bool) {
	if s.toks[s.pos].Kind != token.IDENT {
		return token.NoToken, false
	}
	return s.advance(), true
}
