// Package lexer implements the lowest level of PDF/PostScript processing:
// a byte-oriented tokeniser over an immutable input slice.
//
// Ported and generalised from a Java-derived tokeniser design (token
// lookahead, octal/backslash string escapes, hex string padding) to expose
// the cursor operations the rest of pdfcore needs: rewinding one token,
// saving/restoring position, and scanning for a literal substring from
// either end (used to locate "startxref" from the file tail).
package lexer

import (
	"encoding/hex"
	"strconv"
	"strings"

	"github.com/go-pdfkit/pdfcore/pdferr"
)

// Kind classifies a Token.
type Kind uint8

const (
	EOF Kind = iota
	Integer
	Real
	Literal    // literal (...) string
	Hex        // hex <...> string
	Name       // /Name
	ArrayStart // [
	ArrayEnd   // ]
	DictStart  // <<
	DictEnd    // >>
	Other      // bare keyword: true, false, null, R, obj, stream, content operators...
)

func (k Kind) String() string {
	switch k {
	case EOF:
		return "EOF"
	case Integer:
		return "Integer"
	case Real:
		return "Real"
	case Literal:
		return "Literal"
	case Hex:
		return "Hex"
	case Name:
		return "Name"
	case ArrayStart:
		return "ArrayStart"
	case ArrayEnd:
		return "ArrayEnd"
	case DictStart:
		return "DictStart"
	case DictEnd:
		return "DictEnd"
	default:
		return "Other"
	}
}

// Token is a single lexical unit. Value holds the raw decoded bytes (for
// Literal/Hex, escapes already resolved; for Name, '#HH' escapes already
// resolved; for Integer/Real, the ASCII digits).
type Token struct {
	Kind  Kind
	Value []byte
}

func (t Token) String() string { return string(t.Value) }

// Is reports whether t is an Other token equal to lit (used for bare
// keywords: "obj", "endobj", "stream", "xref", "trailer", "R", ...).
func (t Token) Is(lit string) bool {
	return t.Kind == Other && string(t.Value) == lit
}

func (t Token) ToInt() (int64, error) {
	return strconv.ParseInt(string(t.Value), 10, 64)
}

func (t Token) ToUint() (uint64, error) {
	return strconv.ParseUint(string(t.Value), 10, 64)
}

func (t Token) ToReal() (float64, error) {
	return strconv.ParseFloat(string(t.Value), 64)
}

func isWhitespace(b byte) bool {
	switch b {
	case 0, 9, 10, 12, 13, 32:
		return true
	default:
		return false
	}
}

func isDelimiter(b byte) bool {
	switch b {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	default:
		return isWhitespace(b)
	}
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// Lexer tokenises an immutable byte slice. The zero value is not usable;
// use New.
type Lexer struct {
	data []byte
	pos  int // cursor for the next raw scan

	// one-token rewind support: position just before the most recently
	// returned token, so Back() can restore it without re-scanning.
	prevPos int
	lastTok Token
	lastErr error
	hasLast bool
}

// New creates a Lexer over data. data is never copied or mutated.
func New(data []byte) *Lexer {
	return &Lexer{data: data}
}

// Pos returns the current cursor position (the offset Next will resume
// scanning from).
func (lx *Lexer) Pos() int { return lx.pos }

// SetPos moves the cursor to pos, discarding any pending rewind state.
func (lx *Lexer) SetPos(pos int) {
	lx.pos = pos
	lx.hasLast = false
}

// Bytes returns the remaining, unconsumed input.
func (lx *Lexer) Bytes() []byte {
	if lx.pos >= len(lx.data) {
		return nil
	}
	return lx.data[lx.pos:]
}

// FullBytes returns the entire underlying input, for callers that need
// to slice between two absolute positions obtained from Pos/SeekSubstr.
func (lx *Lexer) FullBytes() []byte { return lx.data }

// Len returns the total length of the underlying input.
func (lx *Lexer) Len() int { return len(lx.data) }

func (lx *Lexer) read() (byte, bool) {
	if lx.pos >= len(lx.data) {
		return 0, false
	}
	b := lx.data[lx.pos]
	lx.pos++
	return b, true
}

// Peek returns the next token without consuming it.
func (lx *Lexer) Peek() (Token, error) {
	save := lx.pos
	savePrev := lx.prevPos
	tk, err := lx.Next()
	lx.pos = save
	lx.prevPos = savePrev
	lx.hasLast = false
	return tk, err
}

// Next reads and consumes the next token. At end of input it returns a
// zero-value EOF token with a nil error.
func (lx *Lexer) Next() (Token, error) {
	lx.prevPos = lx.pos
	tk, err := lx.scan()
	lx.lastTok, lx.lastErr = tk, err
	lx.hasLast = true
	return tk, err
}

// Back rewinds the cursor by exactly one token: the token most recently
// returned by Next will be returned again by the following Next call.
// Calling Back twice in a row, or calling it without a prior Next, panics
// (mirrors the one-token lookahead contract of the rest of pdfcore).
func (lx *Lexer) Back() {
	if !lx.hasLast {
		panic("lexer: Back called without a preceding Next")
	}
	lx.pos = lx.prevPos
	lx.hasLast = false
}

// NextExpect consumes the next token and requires it to be an Other
// token equal to literal.
func (lx *Lexer) NextExpect(literal string) error {
	tk, err := lx.Next()
	if err != nil {
		return err
	}
	if !tk.Is(literal) {
		return pdferr.New(pdferr.UnexpectedLexeme, "expected %q, found %q", literal, tk.Value)
	}
	return nil
}

// SeekSubstr advances the cursor to the first occurrence of pattern at or
// after the current position, and returns its offset. It does not
// consume the match.
func (lx *Lexer) SeekSubstr(pattern []byte) (int, bool) {
	idx := indexFrom(lx.data, pattern, lx.pos)
	if idx < 0 {
		return 0, false
	}
	lx.pos = idx
	lx.hasLast = false
	return idx, true
}

// SeekSubstrBack returns the last occurrence of pattern within the first
// Pos()+len(pattern)+4096 bytes of the input, falling back to the last
// occurrence in the whole input when that prefix holds none; a caller
// searching from the end of the input calls SetPos(len(input)) first.
// It positions the cursor right after the match.
func (lx *Lexer) SeekSubstrBack(pattern []byte) (int, bool) {
	idx := strings.LastIndex(string(lx.data[:min(lx.pos+len(pattern)+4096, len(lx.data))]), string(pattern))
	if idx < 0 {
		idx = strings.LastIndex(string(lx.data), string(pattern))
	}
	if idx < 0 {
		return 0, false
	}
	lx.pos = idx + len(pattern)
	lx.hasLast = false
	return idx, true
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func indexFrom(data, pattern []byte, from int) int {
	if from > len(data) {
		return -1
	}
	idx := strings.Index(string(data[from:]), string(pattern))
	if idx < 0 {
		return -1
	}
	return from + idx
}

// scan performs one raw tokenisation step, advancing lx.pos.
func (lx *Lexer) scan() (Token, error) {
	var ch byte
	var ok bool
	for {
		ch, ok = lx.read()
		if !ok {
			return Token{Kind: EOF}, nil
		}
		if !isWhitespace(ch) {
			break
		}
	}

	switch ch {
	case '[':
		return Token{Kind: ArrayStart}, nil
	case ']':
		return Token{Kind: ArrayEnd}, nil
	case '/':
		return lx.scanName()
	case '>':
		ch, ok = lx.read()
		if !ok || ch != '>' {
			return Token{}, pdferr.New(pdferr.UnexpectedLexeme, "stray '>'")
		}
		return Token{Kind: DictEnd}, nil
	case '<':
		return lx.scanLtOrHex()
	case '%':
		// comment: skip to EOL and recurse. The "%PDF-" header and
		// "%%EOF" trailer marker are matched by callers at a higher
		// level (they look for the literal bytes directly), not here.
		for {
			ch, ok = lx.read()
			if !ok || ch == '\r' || ch == '\n' {
				break
			}
		}
		return lx.scan()
	case '(':
		return lx.scanLiteralString()
	default:
		lx.pos--
		if tk, ok := lx.scanNumber(); ok {
			return tk, nil
		}
		return lx.scanKeyword()
	}
}

func (lx *Lexer) scanName() (Token, error) {
	var out []byte
	for {
		ch, ok := lx.read()
		if !ok || isDelimiter(ch) {
			if ok {
				lx.pos--
			}
			break
		}
		if ch == '#' {
			h1, ok1 := lx.read()
			h2, ok2 := lx.read()
			if !ok1 || !ok2 {
				return Token{}, pdferr.New(pdferr.UnexpectedEOF, "truncated #HH escape in name")
			}
			var dst [1]byte
			if _, err := hex.Decode(dst[:], []byte{h1, h2}); err != nil {
				return Token{}, pdferr.Wrap(pdferr.UnexpectedLexeme, err, "invalid #HH escape in name")
			}
			out = append(out, dst[0])
			continue
		}
		out = append(out, ch)
	}
	return Token{Kind: Name, Value: out}, nil
}

func (lx *Lexer) scanLtOrHex() (Token, error) {
	v1, ok1 := lx.read()
	if v1 == '<' {
		return Token{Kind: DictStart}, nil
	}
	var out []byte
	for {
		for ok1 && isWhitespace(v1) {
			v1, ok1 = lx.read()
		}
		if v1 == '>' {
			break
		}
		d1, ok := hexDigit(v1)
		if !ok {
			return Token{}, pdferr.New(pdferr.UnexpectedLexeme, "invalid hex digit %q", v1)
		}
		v2, ok2 := lx.read()
		for ok2 && isWhitespace(v2) {
			v2, ok2 = lx.read()
		}
		if v2 == '>' {
			// odd length: pad final nibble with 0, as required.
			out = append(out, d1<<4)
			break
		}
		d2, ok := hexDigit(v2)
		if !ok {
			return Token{}, pdferr.New(pdferr.UnexpectedLexeme, "invalid hex digit %q", v2)
		}
		out = append(out, d1<<4|d2)
		v1, ok1 = lx.read()
	}
	return Token{Kind: Hex, Value: out}, nil
}

func hexDigit(c byte) (byte, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	default:
		return 0, false
	}
}

func (lx *Lexer) scanLiteralString() (Token, error) {
	var out []byte
	nesting := 0
	for {
		ch, ok := lx.read()
		if !ok {
			return Token{}, pdferr.New(pdferr.UnexpectedEOF, "unterminated literal string")
		}
		switch ch {
		case '(':
			nesting++
		case ')':
			if nesting == 0 {
				return Token{Kind: Literal, Value: out}, nil
			}
			nesting--
		case '\\':
			esc, ok2, lineBreak := lx.readEscape()
			if lineBreak {
				continue
			}
			if !ok2 {
				continue
			}
			out = append(out, esc)
			continue
		case '\r':
			ch = '\n'
			nxt, ok2 := lx.read()
			if ok2 && nxt != '\n' {
				lx.pos--
			}
		}
		out = append(out, ch)
	}
}

// readEscape consumes the character(s) after a backslash inside a literal
// string. Returns the decoded byte, whether a byte was produced, and
// whether the escape was a line continuation (backslash-EOL, producing no
// byte).
func (lx *Lexer) readEscape() (byte, bool, bool) {
	ch, ok := lx.read()
	if !ok {
		return 0, false, false
	}
	switch ch {
	case 'n':
		return '\n', true, false
	case 'r':
		return '\r', true, false
	case 't':
		return '\t', true, false
	case 'b':
		return '\b', true, false
	case 'f':
		return '\f', true, false
	case '(', ')', '\\':
		return ch, true, false
	case '\r':
		nxt, ok2 := lx.read()
		if ok2 && nxt != '\n' {
			lx.pos--
		}
		return 0, false, true
	case '\n':
		return 0, false, true
	default:
		if ch < '0' || ch > '7' {
			return ch, true, false
		}
		octal := ch - '0'
		for i := 0; i < 2; i++ {
			nxt, ok2 := lx.read()
			if !ok2 || nxt < '0' || nxt > '7' {
				if ok2 {
					lx.pos--
				}
				return octal, true, false
			}
			octal = octal<<3 + (nxt - '0')
		}
		return octal & 0xff, true, false
	}
}

// scanNumber attempts to scan a PDF Integer or Real at the current
// position. Returns ok=false (restoring the position) if what follows is
// not a number, so the caller falls through to keyword scanning.
func (lx *Lexer) scanNumber() (Token, bool) {
	mark := lx.pos
	var sb []byte
	c, ok := lx.read()
	if c == '+' || c == '-' {
		sb = append(sb, c)
		c, ok = lx.read()
	}
	hasDigit := false
	for isDigit(c) {
		sb = append(sb, c)
		c, ok = lx.read()
		hasDigit = true
	}
	isReal := false
	if c == '.' {
		isReal = true
		sb = append(sb, c)
		c, ok = lx.read()
		for isDigit(c) {
			sb = append(sb, c)
			c, ok = lx.read()
			hasDigit = true
		}
	}
	if !hasDigit {
		lx.pos = mark
		return Token{}, false
	}
	// Tolerate the exponential notation some non-conformant writers emit
	// (6.02E23), even though 7.3.3 disallows it for conforming writers.
	if c == 'e' || c == 'E' {
		expMark := lx.pos - 1 // position of the 'e'/'E' itself
		expBuf := []byte{c}
		c, ok = lx.read()
		if c == '+' || c == '-' {
			expBuf = append(expBuf, c)
			c, ok = lx.read()
		}
		if isDigit(c) {
			isReal = true
			for isDigit(c) {
				expBuf = append(expBuf, c)
				c, ok = lx.read()
			}
			sb = append(sb, expBuf...)
		} else {
			// not actually an exponent: rewind to just before the 'e'
			// so the delimiter stands and the keyword scanner (or the
			// next number) handles it.
			lx.pos = expMark
			if isReal {
				return Token{Kind: Real, Value: sb}, true
			}
			return Token{Kind: Integer, Value: sb}, true
		}
	}
	if ok {
		lx.pos--
	}
	if isReal {
		return Token{Kind: Real, Value: sb}, true
	}
	return Token{Kind: Integer, Value: sb}, true
}

func (lx *Lexer) scanKeyword() (Token, error) {
	var out []byte
	ch, ok := lx.read()
	if !ok {
		return Token{Kind: EOF}, nil
	}
	out = append(out, ch)
	for {
		ch, ok = lx.read()
		if !ok || isDelimiter(ch) {
			if ok {
				lx.pos--
			}
			break
		}
		out = append(out, ch)
	}
	return Token{Kind: Other, Value: out}, nil
}

// StreamPosition reports the byte offset, relative to the start of the
// input, of the content immediately following a "stream" keyword token
// just consumed: it skips a single optional CR, then an LF if one is
// present (7.3.8.2); a missing LF is not reported.
func (lx *Lexer) StreamPosition() int {
	pos := lx.pos
	if pos < len(lx.data) && lx.data[pos] == '\r' {
		pos++
	}
	if pos < len(lx.data) && lx.data[pos] == '\n' {
		pos++
	}
	return pos
}

// SkipBytes consumes exactly n bytes from the current position (clamped
// to the input length) and returns them, re-synchronising the lexer so
// the next Next() call starts scanning right after. Used to read raw
// stream/inline-image payloads the lexer itself cannot tokenise.
func (lx *Lexer) SkipBytes(n int) []byte {
	target := lx.pos + n
	if target > len(lx.data) {
		target = len(lx.data)
	}
	out := lx.data[lx.pos:target]
	lx.SetPos(target)
	return out
}
