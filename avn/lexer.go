// Copyright 2025 Kim Wittenburg. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package avn

import (
	"strconv"
	"strings"

	"github.com/go-asn1rt/asn1rt"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokLBrace
	tokRBrace
	tokComma
	tokColon
	tokIdent
	tokInt
	tokString
	tokHexString
	tokBinString
)

// token is one lexical unit of a value-notation document. text carries the
// identifier name, the unescaped quoted-string content, or the hex/binary
// digits between a pair of single quotes (with whitespace stripped); num
// carries the parsed value of a tokInt.
type token struct {
	kind tokenKind
	text string
	num  int64
}

// lexer scans a value-notation document into tokens, most-significant
// concern first: whitespace and layout carry no meaning, so every scan
// starts by skipping it.
type lexer struct {
	data []rune
	pos  int
}

func newLexer(s string) *lexer {
	return &lexer{data: []rune(s)}
}

func (l *lexer) peekRune() (rune, bool) {
	if l.pos >= len(l.data) {
		return 0, false
	}
	return l.data[l.pos], true
}

func isIdentStart(r rune) bool {
	return r == '_' || (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

func isIdentCont(r rune) bool {
	return isIdentStart(r) || r == '-' || (r >= '0' && r <= '9')
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

// next scans and returns the next token, advancing past it.
func (l *lexer) next() (token, error) {
	for {
		r, ok := l.peekRune()
		if !ok {
			return token{kind: tokEOF}, nil
		}
		if r == ' ' || r == '\t' || r == '\n' || r == '\r' {
			l.pos++
			continue
		}
		break
	}

	r, _ := l.peekRune()
	switch {
	case r == '{':
		l.pos++
		return token{kind: tokLBrace}, nil
	case r == '}':
		l.pos++
		return token{kind: tokRBrace}, nil
	case r == ',':
		l.pos++
		return token{kind: tokComma}, nil
	case r == ':':
		l.pos++
		return token{kind: tokColon}, nil
	case r == '"':
		return l.scanQuotedString()
	case r == '\'':
		return l.scanBitOrHexString()
	case r == '-' || isDigit(r):
		return l.scanInt()
	case isIdentStart(r):
		return l.scanIdent()
	default:
		return token{}, asn1rt.ErrMalformedHeader
	}
}

func (l *lexer) scanQuotedString() (token, error) {
	l.pos++ // opening quote
	start := l.pos
	for {
		r, ok := l.peekRune()
		if !ok {
			return token{}, asn1rt.ErrTruncated
		}
		if r == '"' {
			text := string(l.data[start:l.pos])
			l.pos++
			return token{kind: tokString, text: text}, nil
		}
		l.pos++
	}
}

// scanBitOrHexString reads 'XXXX'B or 'XX XX'H, stripping interior
// whitespace from the returned text.
func (l *lexer) scanBitOrHexString() (token, error) {
	l.pos++ // opening quote
	var sb strings.Builder
	for {
		r, ok := l.peekRune()
		if !ok {
			return token{}, asn1rt.ErrTruncated
		}
		if r == '\'' {
			l.pos++
			break
		}
		if r != ' ' && r != '\t' {
			sb.WriteRune(r)
		}
		l.pos++
	}
	suffix, ok := l.peekRune()
	if !ok {
		return token{}, asn1rt.ErrTruncated
	}
	l.pos++
	switch suffix {
	case 'B', 'b':
		return token{kind: tokBinString, text: sb.String()}, nil
	case 'H', 'h':
		return token{kind: tokHexString, text: sb.String()}, nil
	default:
		return token{}, asn1rt.ErrMalformedHeader
	}
}

func (l *lexer) scanInt() (token, error) {
	start := l.pos
	if r, _ := l.peekRune(); r == '-' {
		l.pos++
	}
	digitsStart := l.pos
	for {
		r, ok := l.peekRune()
		if !ok || !isDigit(r) {
			break
		}
		l.pos++
	}
	if l.pos == digitsStart {
		return token{}, asn1rt.ErrMalformedHeader
	}
	n, err := strconv.ParseInt(string(l.data[start:l.pos]), 10, 64)
	if err != nil {
		return token{}, asn1rt.ErrMalformedHeader
	}
	return token{kind: tokInt, num: n}, nil
}

func (l *lexer) scanIdent() (token, error) {
	start := l.pos
	l.pos++
	for {
		r, ok := l.peekRune()
		if !ok || !isIdentCont(r) {
			break
		}
		l.pos++
	}
	return token{kind: tokIdent, text: string(l.data[start:l.pos])}, nil
}
