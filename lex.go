package apeval

import (
	"strconv"
	"strings"
	"unicode"
	"unicode/utf8"
)

type lexToken struct {
	text string
	kind tokenKind
	pos  int
}

func (t lexToken) String() string {
	return t.kind.String() + ":" + t.text + "@" + strconv.Itoa(t.pos)
}

type tokenKind int8

const (
	tokenNone tokenKind = iota
	// tokenEOF indicates the end of the input.
	tokenEOF
	// tokenNum is a numeric literal, digits with an optional fraction.
	tokenNum
	// tokenIdent is a function or constant name.
	tokenIdent
	// tokenOp is an operator symbol from the catalog.
	tokenOp
	// tokenOpen is an open bracket.
	tokenOpen
	// tokenClose is a close bracket.
	tokenClose
	// tokenSep is the function argument separator.
	tokenSep
)

func (k tokenKind) String() string {
	switch k {
	case tokenNone:
		return "None"
	case tokenEOF:
		return "EOF"
	case tokenNum:
		return "Num"
	case tokenIdent:
		return "Ident"
	case tokenOp:
		return "Op"
	case tokenOpen:
		return "Open"
	case tokenClose:
		return "Close"
	case tokenSep:
		return "Sep"
	default:
		return "tokenKind(" + strconv.Itoa(int(k)) + ")"
	}
}

// lexer scans tokens from an expression string. The symbols it recognizes
// as operators and brackets come from the catalog. Restarting a scan means
// creating a new lexer over the same string.
type lexer struct {
	src string
	cat *Catalog
	i   int // byte offset into src
	col int // rune column of src[i], 1-based
}

func lex(src string, cat *Catalog) *lexer {
	return &lexer{src: src, cat: cat, col: 1}
}

// next scans the next token. Once the input is exhausted, every call
// returns an EOF token.
func (l *lexer) next() (lexToken, error) {
	for l.i < len(l.src) {
		r, sz := utf8.DecodeRuneInString(l.src[l.i:])
		if !unicode.IsSpace(r) {
			break
		}
		l.i += sz
		l.col++
	}
	tok := lexToken{pos: l.col}
	if l.i >= len(l.src) {
		tok.kind = tokenEOF
		return tok, nil
	}
	r, _ := utf8.DecodeRuneInString(l.src[l.i:])
	switch {
	case '0' <= r && r <= '9':
		tok.text = l.scanNum()
		tok.kind = tokenNum
		return tok, nil
	case unicode.IsLetter(r):
		tok.text = l.scanIdent()
		tok.kind = tokenIdent
		return tok, nil
	case r == ',':
		l.advance(1)
		tok.text = ","
		tok.kind = tokenSep
		return tok, nil
	}
	// Operators and brackets, longest symbol first.
	for _, sym := range l.cat.symbols {
		if strings.HasPrefix(l.src[l.i:], sym) {
			l.advance(utf8.RuneCountInString(sym))
			tok.text = sym
			switch {
			case l.cat.closes[sym]:
				tok.kind = tokenClose
			default:
				if _, ok := l.cat.opens[sym]; ok {
					tok.kind = tokenOpen
				} else {
					tok.kind = tokenOp
				}
			}
			return tok, nil
		}
	}
	return tok, &LexError{Text: string(r), Col: l.col}
}

// advance consumes n runes.
func (l *lexer) advance(n int) {
	for ; n > 0; n-- {
		_, sz := utf8.DecodeRuneInString(l.src[l.i:])
		l.i += sz
		l.col++
	}
}

// scanNum consumes a maximal digits[.digits] run. A dot with no following
// digit is left unconsumed; it lexes separately, as an error.
func (l *lexer) scanNum() string {
	start := l.i
	for l.i < len(l.src) && '0' <= l.src[l.i] && l.src[l.i] <= '9' {
		l.i++
		l.col++
	}
	if l.i+1 < len(l.src) && l.src[l.i] == '.' && '0' <= l.src[l.i+1] && l.src[l.i+1] <= '9' {
		l.i++
		l.col++
		for l.i < len(l.src) && '0' <= l.src[l.i] && l.src[l.i] <= '9' {
			l.i++
			l.col++
		}
	}
	return l.src[start:l.i]
}

// scanIdent consumes a maximal run of letters.
func (l *lexer) scanIdent() string {
	start := l.i
	for l.i < len(l.src) {
		r, sz := utf8.DecodeRuneInString(l.src[l.i:])
		if !unicode.IsLetter(r) {
			break
		}
		l.i += sz
		l.col++
	}
	return l.src[start:l.i]
}

// LexError indicates input that matches no token rule. It implements
// InputError.
type LexError struct {
	// Text is the offending text.
	Text string
	// Col is the rune column of the offending text.
	Col int
}

func (err *LexError) Error() string {
	return errpos(err.Col, "invalid token "+strconv.Quote(err.Text))
}

func (err *LexError) Pos() int {
	return err.Col
}
