package filter

import (
	"bytes"
	"io"

	"github.com/hhrutter/lzw"

	"github.com/go-pdfkit/pdfcore/objects"
)

// lzwFilter wires in the teacher's actual LZW dependency: stdlib's
// compress/lzw does not implement PDF's "early change" variant (the code
// width increases one code early), so we use the same third-party
// implementation the teacher's go.mod carries.
type lzwFilter struct{}

func (lzwFilter) Decode(params objects.Dict, input []byte) ([]byte, error) {
	early := earlyChange(params)
	r := lzw.NewReader(bytes.NewReader(input), early)
	defer r.Close()
	decoded, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return applyPredictor(params, decoded)
}

func (lzwFilter) Encode(params objects.Dict, input []byte) ([]byte, error) {
	raw, err := undoPredictor(params, input)
	if err != nil {
		return nil, err
	}
	early := earlyChange(params)
	var buf bytes.Buffer
	w := lzw.NewWriter(&buf, early)
	if _, err := w.Write(raw); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func earlyChange(params objects.Dict) bool {
	if params == nil {
		return true
	}
	if v, ok := objects.AsInt(params["EarlyChange"]); ok {
		return v != 0
	}
	return true
}
