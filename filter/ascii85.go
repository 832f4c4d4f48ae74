package filter

import (
	"bytes"
	"encoding/ascii85"

	"github.com/go-pdfkit/pdfcore/objects"
	"github.com/go-pdfkit/pdfcore/pdferr"
)

// ascii85Filter implements PDF's ASCII85Decode, which is btoa-style
// base85 terminated by "~>" rather than the plain stdlib encoding/ascii85
// framing, so the terminator is stripped before delegating to the
// standard library decoder.
type ascii85Filter struct{}

func (ascii85Filter) Decode(_ objects.Dict, input []byte) ([]byte, error) {
	trimmed := bytes.TrimSpace(input)
	trimmed = bytes.TrimSuffix(trimmed, []byte("~>"))
	dst := make([]byte, len(trimmed))
	n, _, err := ascii85.Decode(dst, trimmed, true)
	if err != nil {
		return nil, pdferr.Wrap(pdferr.FilterError, err, "ASCII85Decode")
	}
	return dst[:n], nil
}

func (ascii85Filter) Encode(_ objects.Dict, input []byte) ([]byte, error) {
	var buf bytes.Buffer
	w := ascii85.NewEncoder(&buf)
	if _, err := w.Write(input); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	buf.WriteString("~>")
	return buf.Bytes(), nil
}

type asciiHexFilter struct{}

func (asciiHexFilter) Decode(_ objects.Dict, input []byte) ([]byte, error) {
	trimmed := bytes.TrimSpace(input)
	trimmed = bytes.TrimSuffix(trimmed, []byte(">"))
	trimmed = bytes.Map(func(r rune) rune {
		switch r {
		case ' ', '\t', '\r', '\n', '\f', 0:
			return -1
		default:
			return r
		}
	}, trimmed)
	if len(trimmed)%2 != 0 {
		trimmed = append(trimmed, '0')
	}
	out := make([]byte, len(trimmed)/2)
	for i := range out {
		hi, ok1 := hexVal(trimmed[2*i])
		lo, ok2 := hexVal(trimmed[2*i+1])
		if !ok1 || !ok2 {
			return nil, pdferr.New(pdferr.FilterError, "ASCIIHexDecode: invalid hex digit")
		}
		out[i] = hi<<4 | lo
	}
	return out, nil
}

func (asciiHexFilter) Encode(_ objects.Dict, input []byte) ([]byte, error) {
	var buf bytes.Buffer
	const hexDigits = "0123456789ABCDEF"
	for _, b := range input {
		buf.WriteByte(hexDigits[b>>4])
		buf.WriteByte(hexDigits[b&0xf])
	}
	buf.WriteByte('>')
	return buf.Bytes(), nil
}

func hexVal(c byte) (byte, bool) {
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

type runLengthFilter struct{}

func (runLengthFilter) Decode(_ objects.Dict, input []byte) ([]byte, error) {
	var out bytes.Buffer
	i := 0
	for i < len(input) {
		length := input[i]
		i++
		switch {
		case length == 128:
			return out.Bytes(), nil // EOD marker
		case length < 128:
			n := int(length) + 1
			if i+n > len(input) {
				return nil, pdferr.New(pdferr.FilterError, "RunLengthDecode: literal run past end of input")
			}
			out.Write(input[i : i+n])
			i += n
		default:
			if i >= len(input) {
				return nil, pdferr.New(pdferr.FilterError, "RunLengthDecode: repeat run past end of input")
			}
			n := 257 - int(length)
			b := input[i]
			i++
			for j := 0; j < n; j++ {
				out.WriteByte(b)
			}
		}
	}
	return out.Bytes(), nil
}

func (runLengthFilter) Encode(_ objects.Dict, input []byte) ([]byte, error) {
	var out bytes.Buffer
	i := 0
	for i < len(input) {
		// find a run of identical bytes
		j := i + 1
		for j < len(input) && j-i < 128 && input[j] == input[i] {
			j++
		}
		if j-i >= 2 {
			out.WriteByte(byte(257 - (j - i)))
			out.WriteByte(input[i])
			i = j
			continue
		}
		// literal run: collect until the next run of >=2 identical bytes
		start := i
		i++
		for i < len(input) && i-start < 128 {
			if i+1 < len(input) && input[i] == input[i+1] {
				break
			}
			i++
		}
		out.WriteByte(byte(i - start - 1))
		out.Write(input[start:i])
	}
	out.WriteByte(128)
	return out.Bytes(), nil
}
