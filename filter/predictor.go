package filter

import (
	"github.com/go-pdfkit/pdfcore/objects"
	"github.com/go-pdfkit/pdfcore/pdferr"
)

// applyPredictor reverses the PNG/TIFF predictor optionally applied on
// top of Flate/LZW decoding, per 7.4.4.4 "LZW and Flate Predictor
// Functions". Predictor 1 (the default) means no predictor was used.
func applyPredictor(params objects.Dict, data []byte) ([]byte, error) {
	predictor, _ := objects.AsInt(params["Predictor"])
	if predictor <= 1 {
		return data, nil
	}
	colors := intOr(params, "Colors", 1)
	bpc := intOr(params, "BitsPerComponent", 8)
	columns := intOr(params, "Columns", 1)
	bytesPerPixel := (colors*bpc + 7) / 8
	rowLen := (colors*bpc*columns + 7) / 8

	if predictor == 2 {
		return applyTIFFPredictor(data, rowLen, bytesPerPixel, colors, bpc, columns)
	}
	// predictor >= 10: PNG predictors, one tag byte per row.
	return applyPNGPredictor(data, rowLen, bytesPerPixel)
}

func undoPredictor(params objects.Dict, data []byte) ([]byte, error) {
	predictor, _ := objects.AsInt(params["Predictor"])
	if predictor <= 1 {
		return data, nil
	}
	// Re-encoding with a predictor is rarely needed by callers of this
	// library (writers typically emit Predictor 1); supporting it is
	// future work tracked by the mirrored decode path above.
	return nil, pdferr.New(pdferr.FilterError, "encoding with Predictor %d is not supported", predictor)
}

func intOr(d objects.Dict, key objects.Name, def int64) int {
	if v, ok := objects.AsInt(d[key]); ok {
		return int(v)
	}
	return int(def)
}

func applyTIFFPredictor(data []byte, rowLen, bytesPerPixel, colors, bpc, columns int) ([]byte, error) {
	if rowLen == 0 {
		return data, nil
	}
	if bpc != 8 {
		// sub-byte TIFF predictor is rarely produced in the wild; bail
		// out clearly rather than silently mis-decode.
		return nil, pdferr.New(pdferr.FilterError, "TIFF predictor with %d-bit components is not supported", bpc)
	}
	out := append([]byte(nil), data...)
	for start := 0; start+rowLen <= len(out); start += rowLen {
		row := out[start : start+rowLen]
		for i := bytesPerPixel; i < len(row); i++ {
			row[i] += row[i-bytesPerPixel]
		}
	}
	return out, nil
}

func applyPNGPredictor(data []byte, rowLen, bytesPerPixel int) ([]byte, error) {
	stride := rowLen + 1 // one tag byte per row
	if stride <= 1 {
		return data, nil
	}
	nRows := len(data) / stride
	out := make([]byte, 0, nRows*rowLen)
	prev := make([]byte, rowLen)
	for r := 0; r < nRows; r++ {
		row := data[r*stride : r*stride+stride]
		tag := row[0]
		cur := append([]byte(nil), row[1:]...)
		for i := range cur {
			var a, b, c byte
			if i >= bytesPerPixel {
				a = cur[i-bytesPerPixel]
				c = prev[i-bytesPerPixel]
			}
			b = prev[i]
			switch tag {
			case 0: // None
			case 1: // Sub
				cur[i] += a
			case 2: // Up
				cur[i] += b
			case 3: // Average
				cur[i] += byte((int(a) + int(b)) / 2)
			case 4: // Paeth
				cur[i] += paeth(a, b, c)
			default:
				return nil, pdferr.New(pdferr.FilterError, "unknown PNG predictor tag %d", tag)
			}
		}
		out = append(out, cur...)
		prev = cur
	}
	return out, nil
}

func paeth(a, b, c byte) byte {
	p := int(a) + int(b) - int(c)
	pa, pb, pc := abs(p-int(a)), abs(p-int(b)), abs(p-int(c))
	if pa <= pb && pa <= pc {
		return a
	}
	if pb <= pc {
		return b
	}
	return c
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
