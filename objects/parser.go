package objects

import (
	"github.com/go-pdfkit/pdfcore/lexer"
	"github.com/go-pdfkit/pdfcore/pdferr"
)

// maxDepth bounds array/dictionary nesting so a pathological or malicious
// file cannot blow the stack.
const maxDepth = 16

// Resolve looks up an indirect reference's value, used while parsing so a
// Stream's /Length key (itself sometimes a reference) can be read. Pass
// NoResolve in contexts where further dereferencing is forbidden (for
// example inside an object stream's sub-objects, per spec.md §4.6).
type Resolve func(Reference) (Primitive, error)

// NoResolve always fails; it is the Resolve implementation handed to
// contexts where indirect references must not appear.
func NoResolve(ref Reference) (Primitive, error) {
	return nil, pdferr.New(pdferr.UnexpectedPrimitive, "indirect reference %s not allowed here", ref)
}

// Cipher decrypts/encrypts byte payloads using a key derived per indirect
// object. It is the collaborator interface package cipher implements.
type Cipher interface {
	Decrypt(objNumber uint32, objGeneration uint16, data []byte) ([]byte, error)
	Encrypt(objNumber uint32, objGeneration uint16, data []byte) ([]byte, error)
}

// DecryptContext carries the identity of the indirect object currently
// being parsed, so strings and stream payloads found inside it can be
// decrypted with the correct per-object key. A nil DecryptContext (or a
// nil Cipher within it) disables decryption.
type DecryptContext struct {
	Cipher     Cipher
	ObjNumber  uint32
	ObjGen     uint16
	// SkipStrings is set while parsing the Encrypt dictionary itself or a
	// Metadata stream, both of which are never encrypted per spec.
	SkipStrings bool
}

// Parser is a recursive-descent parser over a Lexer producing Primitive
// values.
type Parser struct {
	lx *lexer.Lexer

	resolve Resolve
	dec     *DecryptContext

	// ContentStreamMode disables indirect references (bare "N G R" is
	// never valid inside a content stream) and instead treats any bare
	// keyword as an Operator; package content builds the operator+operand
	// tuples on top of this.
	ContentStreamMode bool

	// AllowLengthRecovery enables the fallback path for open question #2:
	// when the declared /Length is not immediately followed by
	// "endstream", rescan forward for the first occurrence of the bytes
	// "endstream" instead of failing outright. UsedLengthRecovery
	// records whether that fallback fired, so a caller (storage.Open) can
	// log it.
	AllowLengthRecovery bool
	UsedLengthRecovery  bool

	depth int
}

// New creates a Parser over raw bytes, with no indirect-reference
// resolution and no decryption (suitable for object-stream sub-objects
// and content streams).
func New(data []byte) *Parser {
	return &Parser{lx: lexer.New(data), resolve: NoResolve}
}

// NewWithResolver creates a Parser able to resolve indirect references
// (needed to read a Stream's /Length when it is itself a reference) and
// optionally decrypt strings/stream payloads as it parses.
func NewWithResolver(data []byte, resolve Resolve, dec *DecryptContext) *Parser {
	if resolve == nil {
		resolve = NoResolve
	}
	return &Parser{lx: lexer.New(data), resolve: resolve, dec: dec}
}

// FromLexer builds a Parser sharing an existing Lexer (so parsing can
// resume exactly where the caller's own scanning over xref/trailer
// keywords left off).
func FromLexer(lx *lexer.Lexer, resolve Resolve, dec *DecryptContext) *Parser {
	if resolve == nil {
		resolve = NoResolve
	}
	return &Parser{lx: lx, resolve: resolve, dec: dec}
}

// Lexer exposes the underlying lexer, e.g. so a caller can read the
// "stream" keyword and following raw bytes after ParseObject returns a
// Dict.
func (p *Parser) Lexer() *lexer.Lexer { return p.lx }

// ParseObject parses exactly one PDF object from the current position.
func (p *Parser) ParseObject() (Primitive, error) {
	tk, err := p.lx.Next()
	if err != nil {
		return nil, err
	}
	return p.parseFromToken(tk)
}

func (p *Parser) parseFromToken(tk lexer.Token) (Primitive, error) {
	switch tk.Kind {
	case lexer.EOF:
		return nil, pdferr.New(pdferr.UnexpectedEOF, "expected object, found EOF")
	case lexer.Name:
		return Name(tk.Value), nil
	case lexer.Literal:
		return p.decryptString(String(append([]byte(nil), tk.Value...)))
	case lexer.Hex:
		return p.decryptString(String(append([]byte(nil), tk.Value...)))
	case lexer.Real:
		f, err := tk.ToReal()
		if err != nil {
			return nil, pdferr.Wrap(pdferr.UnexpectedLexeme, err, "invalid real %q", tk.Value)
		}
		return Real(f), nil
	case lexer.Integer:
		return p.parseIntegerOrReference(tk)
	case lexer.ArrayStart:
		return p.parseArray()
	case lexer.DictStart:
		return p.parseDictOrStream()
	case lexer.Other:
		return p.parseKeyword(string(tk.Value))
	default:
		return nil, pdferr.New(pdferr.UnexpectedLexeme, "unexpected token kind %s", tk.Kind)
	}
}

func (p *Parser) decryptString(s String) (Primitive, error) {
	if p.dec == nil || p.dec.Cipher == nil || p.dec.SkipStrings {
		return s, nil
	}
	out, err := p.dec.Cipher.Decrypt(p.dec.ObjNumber, p.dec.ObjGen, s)
	if err != nil {
		return nil, pdferr.Wrap(pdferr.DecryptError, err, "decrypting string")
	}
	return String(out), nil
}

func (p *Parser) parseKeyword(kw string) (Primitive, error) {
	switch kw {
	case "null":
		return Null{}, nil
	case "true":
		return Boolean(true), nil
	case "false":
		return Boolean(false), nil
	default:
		if p.ContentStreamMode {
			return Operator(kw), nil
		}
		return nil, pdferr.New(pdferr.UnexpectedLexeme, "unexpected keyword %q", kw)
	}
}

// Operator is a bare content-stream keyword returned in ContentStreamMode;
// package content re-exports this to build the operator+operand tuples
// (spec.md §4.7).
type Operator string

func (Operator) isPrimitive()     {}
func (o Operator) String() string { return string(o) }

// parseIntegerOrReference implements the "N G R" disambiguation: a bare
// integer followed by another integer followed by the literal "R" is a
// Reference; otherwise it's a plain Integer.
func (p *Parser) parseIntegerOrReference(tk lexer.Token) (Primitive, error) {
	n, err := tk.ToInt()
	if err != nil {
		return nil, pdferr.Wrap(pdferr.UnexpectedLexeme, err, "invalid integer %q", tk.Value)
	}
	if p.ContentStreamMode {
		return Integer(n), nil
	}

	// Lookahead spans two further tokens; the lexer only guarantees a
	// single token of rewind, so record explicit checkpoints instead of
	// chaining Back() calls.
	afterN := p.lx.Pos()
	tk2, err := p.lx.Next()
	if err != nil {
		return nil, err
	}
	if tk2.Kind != lexer.Integer {
		p.lx.SetPos(afterN)
		return Integer(n), nil
	}
	gen, err := tk2.ToInt()
	if err != nil {
		p.lx.SetPos(afterN)
		return Integer(n), nil
	}

	tk3, err := p.lx.Next()
	if err != nil {
		return nil, err
	}
	if !tk3.Is("R") {
		p.lx.SetPos(afterN)
		return Integer(n), nil
	}
	if n < 0 || n > 0xFFFFFFFF || gen < 0 || gen > 0xFFFF {
		return nil, pdferr.New(pdferr.UnexpectedPrimitive, "reference numbers out of range: %d %d", n, gen)
	}
	return Reference{Number: uint32(n), Generation: uint16(gen)}, nil
}

func (p *Parser) parseArray() (Array, error) {
	p.depth++
	defer func() { p.depth-- }()
	if p.depth > maxDepth {
		return nil, pdferr.New(pdferr.DepthExceeded, "array nesting exceeds %d", maxDepth)
	}

	var out Array
	for {
		tk, err := p.lx.Next()
		if err != nil {
			return nil, err
		}
		switch tk.Kind {
		case lexer.ArrayEnd:
			return out, nil
		case lexer.EOF:
			return nil, pdferr.New(pdferr.UnexpectedEOF, "unterminated array")
		default:
			v, err := p.parseFromToken(tk)
			if err != nil {
				return nil, err
			}
			out = append(out, v)
		}
	}
}

func (p *Parser) parseDictOrStream() (Primitive, error) {
	p.depth++
	d, err := p.parseDictBody()
	p.depth--
	if err != nil {
		return nil, err
	}

	save := p.lx.Pos()
	tk, err := p.lx.Next()
	if err != nil {
		return nil, err
	}
	if !tk.Is("stream") {
		p.lx.SetPos(save)
		return d, nil
	}

	length, err := p.streamLength(d)
	if err != nil {
		return nil, err
	}

	start := p.lx.StreamPosition() // end of "stream", past the CR?LF
	p.lx.SetPos(start)
	raw := p.lx.SkipBytes(length)

	if err := p.expectEndstream(raw, length); err != nil {
		if !p.AllowLengthRecovery {
			return nil, err
		}
		recovered, rerr := p.recoverStreamContent(start)
		if rerr != nil {
			return nil, err
		}
		raw = recovered
		p.UsedLengthRecovery = true
	}

	if p.dec != nil && p.dec.Cipher != nil && !p.dec.SkipStrings {
		raw, err = p.dec.Cipher.Decrypt(p.dec.ObjNumber, p.dec.ObjGen, raw)
		if err != nil {
			return nil, pdferr.Wrap(pdferr.DecryptError, err, "decrypting stream")
		}
	}

	return Stream{Dict: d, Content: raw}, nil
}

func (p *Parser) streamLength(d Dict) (int, error) {
	lengthObj, ok := d["Length"]
	if !ok {
		return 0, pdferr.New(pdferr.MissingRequiredKey, "stream missing /Length")
	}
	if ref, ok := lengthObj.(Reference); ok {
		resolved, err := p.resolve(ref)
		if err != nil {
			return 0, pdferr.Wrap(pdferr.MissingRequiredKey, err, "resolving stream /Length")
		}
		lengthObj = resolved
	}
	n, ok := AsInt(lengthObj)
	if !ok || n < 0 {
		return 0, pdferr.New(pdferr.UnexpectedPrimitive, "stream /Length is not a non-negative integer")
	}
	return int(n), nil
}

// expectEndstream validates that "endstream" follows the declared Length
// (module a single optional CR), matching spec.md's invariant. If it does
// not, the stream parse falls back to recoverStreamContent when
// AllowLengthRecovery is set.
func (p *Parser) expectEndstream(raw []byte, length int) error {
	save := p.lx.Pos()
	tk, err := p.lx.Next()
	if err != nil {
		return err
	}
	if tk.Is("endstream") {
		return nil
	}
	p.lx.SetPos(save)
	return pdferr.New(pdferr.UnexpectedLexeme, "expected endstream after %d-byte stream content", length)
}

// recoverStreamContent implements the open-question #2 fallback: when
// the declared /Length didn't land on "endstream", rescan forward from
// start for the first occurrence of the bytes "endstream" and treat
// everything before it (minus a single trailing EOL) as the content.
func (p *Parser) recoverStreamContent(start int) ([]byte, error) {
	p.lx.SetPos(start)
	pos, ok := p.lx.SeekSubstr([]byte("endstream"))
	if !ok {
		return nil, pdferr.New(pdferr.UnexpectedLexeme, "no endstream found while recovering stream content")
	}
	content := p.lx.FullBytes()[start:pos]
	content = trimTrailingEOL(content)
	p.lx.SetPos(pos)
	if _, err := p.lx.Next(); err != nil { // consume "endstream"
		return nil, err
	}
	return content, nil
}

func trimTrailingEOL(b []byte) []byte {
	if len(b) > 0 && b[len(b)-1] == '\n' {
		b = b[:len(b)-1]
	}
	if len(b) > 0 && b[len(b)-1] == '\r' {
		b = b[:len(b)-1]
	}
	return b
}

func (p *Parser) parseDictBody() (Dict, error) {
	if p.depth > maxDepth {
		return nil, pdferr.New(pdferr.DepthExceeded, "dictionary nesting exceeds %d", maxDepth)
	}
	d := Dict{}
	for {
		tk, err := p.lx.Next()
		if err != nil {
			return nil, err
		}
		switch tk.Kind {
		case lexer.DictEnd:
			return d, nil
		case lexer.EOF:
			return nil, pdferr.New(pdferr.UnexpectedEOF, "unterminated dictionary")
		case lexer.Name:
			key := Name(tk.Value)
			val, err := p.ParseObject()
			if err != nil {
				return nil, err
			}
			// "Specifying the null object as the value of a dictionary
			// entry shall be equivalent to omitting the entry entirely."
			if _, isNull := val.(Null); !isNull {
				d[key] = val
			}
		default:
			return nil, pdferr.New(pdferr.UnexpectedLexeme, "expected dictionary key, found %s", tk.Kind)
		}
	}
}
