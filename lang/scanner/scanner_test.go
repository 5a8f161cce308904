package scanner_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tane-lang/tanec/lang/scanner"
	"github.com/tane-lang/tanec/lang/token"
)

func scanAll(t *testing.T, src string, mode scanner.Mode) []token.Token {
	t.Helper()
	file := token.NewFile("test.tn", len(src))
	stream, err := scanner.Scan(file, []byte(src), mode)
	require.NoError(t, err)

	var toks []token.Token
	for i := 0; ; i++ {
		tok := stream.GetToken(token.Handle(i))
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	return toks
}

func kinds(toks []token.Token) []token.Kind {
	ks := make([]token.Kind, len(toks))
	for i, t := range toks {
		ks[i] = t.Kind
	}
	return ks
}

func TestScanPunctuation(t *testing.T) {
	toks := scanAll(t, "+ - * / % = == != < <= << >> & ^ | && || ( ) { } ; , =>", scanner.ModeSource)
	require.Equal(t, []token.Kind{
		token.PLUS, token.MINUS, token.STAR, token.SLASH, token.PERCENT,
		token.ASSIGN, token.EQ, token.NEQ, token.LT, token.LE, token.SHL, token.SHR,
		token.AMP, token.CARET, token.PIPE, token.ANDAND, token.OROR,
		token.LPAREN, token.RPAREN, token.LBRACE, token.RBRACE, token.SEMI, token.COMMA,
		token.FATARROW, token.EOF,
	}, kinds(toks))
}

func TestScanGreedyTwoChar(t *testing.T) {
	toks := scanAll(t, "= ==", scanner.ModeSource)
	require.Equal(t, token.ASSIGN, toks[0].Kind)
	require.Equal(t, token.EQ, toks[1].Kind)
}

func TestScanIdentAndKeyword(t *testing.T) {
	toks := scanAll(t, "fn foo pub", scanner.ModeSource)
	require.Equal(t, token.KW_FN, toks[0].Kind)
	require.Equal(t, token.IDENT, toks[1].Kind)
	require.Equal(t, "foo", toks[1].StrVal)
	require.Equal(t, token.KW_PUB, toks[2].Kind)
}

func TestInterfaceModeKeywords(t *testing.T) {
	toks := scanAll(t, "tnlib module fn end", scanner.ModeInterface)
	require.Equal(t, []token.Kind{token.KW_TNLIB, token.KW_MODULE, token.KW_FN, token.KW_END, token.EOF}, kinds(toks))

	// "end" and "module" are plain identifiers in source mode.
	toks = scanAll(t, "end module", scanner.ModeSource)
	require.Equal(t, []token.Kind{token.IDENT, token.IDENT, token.EOF}, kinds(toks))
}

func TestScanNumber(t *testing.T) {
	toks := scanAll(t, "42 007", scanner.ModeSource)
	require.Equal(t, int32(42), toks[0].IntVal)
	require.Equal(t, int32(7), toks[1].IntVal)
}

func TestScanString(t *testing.T) {
	toks := scanAll(t, `"hello world"`, scanner.ModeSource)
	require.Equal(t, token.STRING, toks[0].Kind)
	require.Equal(t, "hello world", toks[0].StrVal)
}

func TestScanUnterminatedString(t *testing.T) {
	file := token.NewFile("t.tn", 6)
	_, err := scanner.Scan(file, []byte(`"oops`), scanner.ModeSource)
	require.Error(t, err)
	require.Contains(t, err.Error(), "unterminated string literal")
}

func TestScanIllegalCharacter(t *testing.T) {
	file := token.NewFile("t.tn", 1)
	_, err := scanner.Scan(file, []byte(`@`), scanner.ModeSource)
	require.Error(t, err)
	require.Contains(t, err.Error(), "illegal character")
}

func TestStreamCursor(t *testing.T) {
	file := token.NewFile("t.tn", 5)
	stream, err := scanner.Scan(file, []byte("fn x;"), scanner.ModeSource)
	require.NoError(t, err)

	require.True(t, stream.PeekKind(token.KW_FN, 0))
	require.False(t, stream.Consume(token.IDENT))
	require.True(t, stream.Consume(token.KW_FN))

	h, ok := stream.ConsumeIdent()
	require.True(t, ok)
	require.Equal(t, "x", stream.GetToken(h).StrVal)

	_, err = stream.Expect(token.SEMI, file)
	require.NoError(t, err)

	_, err = stream.ExpectIdent(file)
	require.Error(t, err)
}
