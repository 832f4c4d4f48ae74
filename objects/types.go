// Package objects implements the PDF primitive data model (spec.md §3) and
// the recursive-descent parser that turns a token stream into it.
package objects

import "fmt"

// Primitive is the tagged union of PDF primitive values: Null, Integer,
// Real, Boolean, Name, String, Array, Dict, Stream, Reference.
type Primitive interface {
	isPrimitive()
	fmt.Stringer
}

type Null struct{}

func (Null) isPrimitive()   {}
func (Null) String() string { return "null" }

type Boolean bool

func (Boolean) isPrimitive() {}
func (b Boolean) String() string {
	if b {
		return "true"
	}
	return "false"
}

type Integer int64

func (Integer) isPrimitive()     {}
func (i Integer) String() string { return fmt.Sprintf("%d", int64(i)) }

type Real float64

func (Real) isPrimitive() {}
func (r Real) String() string {
	return formatReal(float64(r))
}

// formatReal renders a float the way PDF requires: no exponent, and no
// unnecessary trailing zeros/point.
func formatReal(f float64) string {
	s := fmt.Sprintf("%.6f", f)
	// trim trailing zeros, then a trailing '.'
	i := len(s)
	for i > 0 && s[i-1] == '0' {
		i--
	}
	if i > 0 && s[i-1] == '.' {
		i--
	}
	if i == 0 || (i == 1 && s[0] == '-') {
		return "0"
	}
	return s[:i]
}

// Name is an interned short byte string, written on the wire as /Name with
// optional #HH escapes. Equality is plain Go string equality.
type Name string

func (Name) isPrimitive()     {}
func (n Name) String() string { return "/" + string(n) }

// String is an arbitrary byte string; PDF strings are not textual.
type String []byte

func (String) isPrimitive()     {}
func (s String) String() string { return fmt.Sprintf("(%s)", escapeLiteral(s)) }

func escapeLiteral(b []byte) []byte {
	var out []byte
	for _, c := range b {
		switch c {
		case '(', ')', '\\':
			out = append(out, '\\', c)
		case '\n':
			out = append(out, '\\', 'n')
		case '\r':
			out = append(out, '\\', 'r')
		default:
			out = append(out, c)
		}
	}
	return out
}

// Array is an ordered sequence of Primitive.
type Array []Primitive

func (Array) isPrimitive() {}
func (a Array) String() string {
	s := "["
	for i, e := range a {
		if i > 0 {
			s += " "
		}
		s += e.String()
	}
	return s + "]"
}

// Dict maps a Name to a Primitive. Insertion order is not preserved (the
// teacher's own model.ObjDict is a plain map too); insertion order only
// matters for serialisation, and serialisation sorts keys for
// determinism.
type Dict map[Name]Primitive

func (Dict) isPrimitive() {}
func (d Dict) String() string {
	s := "<<"
	for _, k := range sortedKeys(d) {
		s += k.String() + " " + d[k].String() + " "
	}
	return s + ">>"
}

func sortedKeys(d Dict) []Name {
	out := make([]Name, 0, len(d))
	for k := range d {
		out = append(out, k)
	}
	// simple insertion sort: dicts are small, and we avoid importing sort
	// here just to keep this file dependency-free; callers needing a
	// sorted view elsewhere use sort.Slice directly.
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && out[j-1] > out[j]; j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

// SortedKeys exposes Dict's deterministic key order to other packages
// (the writer, tests comparing serialised output).
func (d Dict) SortedKeys() []Name { return sortedKeys(d) }

// Stream is a Dict describing a byte payload, plus the payload bytes.
// As the parser returns it, Content is still filter-encoded (and already
// decrypted when the parser was given a DecryptContext); storage.Resolve
// replaces it with the filter-decoded bytes via the Filter collaborator
// interface.
type Stream struct {
	Dict    Dict
	Content []byte // filter-encoded from the parser; filter-decoded once resolved through storage
}

func (Stream) isPrimitive() {}
func (s Stream) String() string {
	return fmt.Sprintf("%s stream(%d bytes)", s.Dict, len(s.Content))
}

// Reference is an indirect reference: object number + generation number.
// It is the wire representation of model.PlainRef.
type Reference struct {
	Number     uint32
	Generation uint16
}

func (Reference) isPrimitive() {}
func (r Reference) String() string { return fmt.Sprintf("%d %d R", r.Number, r.Generation) }

// AsInt extracts an Integer, tolerating a Real with an integral value
// (several producers emit reals where an integer is expected).
func AsInt(p Primitive) (int64, bool) {
	switch v := p.(type) {
	case Integer:
		return int64(v), true
	case Real:
		return int64(v), true
	default:
		return 0, false
	}
}

// AsReal extracts a Real or Integer as a float64.
func AsReal(p Primitive) (float64, bool) {
	switch v := p.(type) {
	case Real:
		return float64(v), true
	case Integer:
		return float64(v), true
	default:
		return 0, false
	}
}

// AsName extracts a Name.
func AsName(p Primitive) (Name, bool) {
	n, ok := p.(Name)
	return n, ok
}

// AsDict extracts a Dict, also accepting a Stream (returning its Dict).
func AsDict(p Primitive) (Dict, bool) {
	switch v := p.(type) {
	case Dict:
		return v, true
	case Stream:
		return v.Dict, true
	default:
		return nil, false
	}
}

// AsArray extracts an Array.
func AsArray(p Primitive) (Array, bool) {
	a, ok := p.(Array)
	return a, ok
}

// AsString extracts a String.
func AsString(p Primitive) (String, bool) {
	s, ok := p.(String)
	return s, ok
}

// AsBool extracts a Boolean.
func AsBool(p Primitive) (bool, bool) {
	b, ok := p.(Boolean)
	return bool(b), ok
}
