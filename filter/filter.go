// Package filter implements the Filter collaborator interface (spec.md
// §6): pluggable stream codecs consuming raw bytes and producing decoded
// bytes. The core (storage, objstm, writer) depends only on the Filter
// interface; this package is the reference set of implementations wired
// in so the module works end-to-end.
package filter

import (
	"bytes"
	"compress/zlib"
	"io"

	"github.com/go-pdfkit/pdfcore/objects"
	"github.com/go-pdfkit/pdfcore/pdferr"
)

// Filter decodes/encodes a stream payload given its DecodeParms.
type Filter interface {
	Decode(params objects.Dict, input []byte) ([]byte, error)
	Encode(params objects.Dict, input []byte) ([]byte, error)
}

// Registry maps filter names to implementations. A fresh Registry with
// the standard codecs is returned by NewRegistry; callers may register
// additional or replacement filters (e.g. a real JBIG2/JPX decoder).
type Registry struct {
	byName map[objects.Name]Filter
}

// NewRegistry returns a Registry with the filters this package implements
// already wired in, and named stubs for the image codecs spec.md places
// out of scope.
func NewRegistry() *Registry {
	r := &Registry{byName: make(map[objects.Name]Filter)}
	r.Register("FlateDecode", flateFilter{})
	r.Register("LZWDecode", lzwFilter{})
	r.Register("ASCII85Decode", ascii85Filter{})
	r.Register("ASCIIHexDecode", asciiHexFilter{})
	r.Register("RunLengthDecode", runLengthFilter{})
	for _, name := range []objects.Name{"CCITTFaxDecode", "DCTDecode", "JBIG2Decode", "JPXDecode"} {
		r.Register(name, unsupportedFilter{name: string(name)})
	}
	return r
}

// Register installs (or replaces) the Filter for name.
func (r *Registry) Register(name objects.Name, f Filter) {
	r.byName[name] = f
}

// Lookup returns the Filter registered for name, if any.
func (r *Registry) Lookup(name objects.Name) (Filter, bool) {
	f, ok := r.byName[name]
	return f, ok
}

// Chain is an ordered pipeline of filters with their per-filter params, as
// declared by a stream's /Filter (+ /DecodeParms) entries, which may each
// be a single name/dict or a parallel array.
type Chain struct {
	Filters []objects.Name
	Params  []objects.Dict
	reg     *Registry
}

// ParseChain builds a Chain from a stream dictionary's /Filter and
// /DecodeParms entries. filterObj and parmsObj must already be resolved
// (direct objects): per 7.4, these entries on a cross-reference stream
// dictionary must be direct, and in general the caller resolves any
// indirection before calling ParseChain.
func ParseChain(reg *Registry, filterObj, parmsObj objects.Primitive) (Chain, error) {
	var names []objects.Name
	switch v := filterObj.(type) {
	case nil:
	case objects.Name:
		names = []objects.Name{v}
	case objects.Array:
		for _, e := range v {
			n, ok := objects.AsName(e)
			if !ok {
				return Chain{}, pdferr.New(pdferr.UnexpectedPrimitive, "non-name entry in /Filter array")
			}
			names = append(names, n)
		}
	default:
		return Chain{}, pdferr.New(pdferr.UnexpectedPrimitive, "/Filter must be a name or array of names")
	}

	params := make([]objects.Dict, len(names))
	switch v := parmsObj.(type) {
	case nil:
	case objects.Dict:
		if len(params) > 0 {
			params[0] = v
		}
	case objects.Array:
		for i := range v {
			if i >= len(params) {
				break
			}
			if d, ok := objects.AsDict(v[i]); ok {
				params[i] = d
			}
		}
	}

	return Chain{Filters: names, Params: params, reg: reg}, nil
}

// Decode runs input through every filter in the chain, in order.
func (c Chain) Decode(input []byte) ([]byte, error) {
	out := input
	for i, name := range c.Filters {
		f, ok := c.reg.Lookup(name)
		if !ok {
			return nil, pdferr.New(pdferr.FilterError, "unregistered filter %q", name)
		}
		decoded, err := f.Decode(c.Params[i], out)
		if err != nil {
			return nil, pdferr.Wrap(pdferr.FilterError, err, "decoding with %q", name)
		}
		out = decoded
	}
	return out, nil
}

// Encode runs input through every filter in the chain, in reverse order
// (the last-applied filter on decode is the first-applied on encode).
func (c Chain) Encode(input []byte) ([]byte, error) {
	out := input
	for i := len(c.Filters) - 1; i >= 0; i-- {
		name := c.Filters[i]
		f, ok := c.reg.Lookup(name)
		if !ok {
			return nil, pdferr.New(pdferr.FilterError, "unregistered filter %q", name)
		}
		encoded, err := f.Encode(c.Params[i], out)
		if err != nil {
			return nil, pdferr.Wrap(pdferr.FilterError, err, "encoding with %q", name)
		}
		out = encoded
	}
	return out, nil
}

type flateFilter struct{}

func (flateFilter) Decode(params objects.Dict, input []byte) ([]byte, error) {
	r, err := zlib.NewReader(bytes.NewReader(input))
	if err != nil {
		return nil, err
	}
	defer r.Close()
	decoded, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return applyPredictor(params, decoded)
}

func (flateFilter) Encode(_ objects.Dict, input []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := zlib.NewWriter(&buf)
	if _, err := w.Write(input); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type unsupportedFilter struct{ name string }

func (u unsupportedFilter) Decode(objects.Dict, []byte) ([]byte, error) {
	return nil, pdferr.New(pdferr.FilterError, "%s is an image codec, outside pdfcore's scope (spec.md §1): supply a Filter implementation", u.name)
}

func (u unsupportedFilter) Encode(objects.Dict, []byte) ([]byte, error) {
	return nil, pdferr.New(pdferr.FilterError, "%s is an image codec, outside pdfcore's scope (spec.md §1): supply a Filter implementation", u.name)
}
