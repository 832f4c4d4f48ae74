// Package cipher implements the Cipher collaborator interface (spec.md
// §6) backing the PDF standard security handler: RC4-40/128 and
// AES-128/256, with per-object key derivation via MD5 (spec.md §4.4).
package cipher

import (
	"crypto/md5"
	"crypto/rc4"
	"crypto/sha256"

	"github.com/go-pdfkit/pdfcore/pdferr"
)

// Algorithm identifies the encryption algorithm named by a document's
// /Encrypt dictionary (/V and /CF/.../CFM).
type Algorithm uint8

const (
	RC4 Algorithm = iota
	AES128
	AES256
)

// padding is the standard password-padding string from the PDF spec
// (7.6.3.3), applied to user/owner passwords shorter than 32 bytes.
var padding = [32]byte{
	0x28, 0xBF, 0x4E, 0x5E, 0x4E, 0x75, 0x8A, 0x41,
	0x64, 0x00, 0x4E, 0x56, 0xFF, 0xFA, 0x01, 0x08,
	0x2E, 0x2E, 0x00, 0xB6, 0xD0, 0x68, 0x3E, 0x80,
	0x2F, 0x0C, 0xA9, 0xFE, 0x64, 0x53, 0x69, 0x7A,
}

// PadPassword pads or truncates a password to exactly 32 bytes per
// 7.6.3.3 algorithm 2, step (a).
func PadPassword(password []byte) [32]byte {
	var out [32]byte
	n := copy(out[:], password)
	copy(out[n:], padding[:])
	return out
}

// StandardHandler derives per-object keys from a document encryption key
// and decrypts/encrypts payloads with RC4 or AES, implementing the
// objects.Cipher interface.
type StandardHandler struct {
	DocKey    []byte
	Algorithm Algorithm
	KeyLength int // in bytes, from 5 to 16 for RC4; 16 or 32 for AES
}

// ObjectKey derives the per-object key by mixing the document key with
// the object's (number, generation) under MD5, truncated to
// min(KeyLength+5, 16) bytes (spec.md §4.4), except for AES256 (V5/R6)
// where the document key is used directly, unextended.
func (h StandardHandler) ObjectKey(objNumber uint32, objGeneration uint16) []byte {
	if h.Algorithm == AES256 {
		return h.DocKey
	}

	hsh := md5.New()
	hsh.Write(h.DocKey)
	hsh.Write([]byte{
		byte(objNumber), byte(objNumber >> 8), byte(objNumber >> 16),
		byte(objGeneration), byte(objGeneration >> 8),
	})
	if h.Algorithm == AES128 {
		hsh.Write([]byte{0x73, 0x41, 0x6C, 0x54}) // "sAlT", AES extra salt per 7.6.2 algorithm 1
	}
	sum := hsh.Sum(nil)

	n := h.KeyLength + 5
	if n > 16 {
		n = 16
	}
	if n < 1 {
		n = 1
	}
	return sum[:n]
}

// Decrypt implements objects.Cipher.
func (h StandardHandler) Decrypt(objNumber uint32, objGeneration uint16, data []byte) ([]byte, error) {
	key := h.ObjectKey(objNumber, objGeneration)
	switch h.Algorithm {
	case RC4:
		return rc4Crypt(key, data)
	case AES128, AES256:
		return aesCBCDecrypt(key, data)
	default:
		return nil, pdferr.New(pdferr.DecryptError, "unknown algorithm")
	}
}

// Encrypt implements objects.Cipher.
func (h StandardHandler) Encrypt(objNumber uint32, objGeneration uint16, data []byte) ([]byte, error) {
	key := h.ObjectKey(objNumber, objGeneration)
	switch h.Algorithm {
	case RC4:
		return rc4Crypt(key, data) // RC4 is self-inverse
	case AES128, AES256:
		return aesCBCEncrypt(key, data)
	default:
		return nil, pdferr.New(pdferr.DecryptError, "unknown algorithm")
	}
}

func rc4Crypt(key, data []byte) ([]byte, error) {
	c, err := rc4.NewCipher(key)
	if err != nil {
		return nil, pdferr.Wrap(pdferr.DecryptError, err, "building RC4 cipher")
	}
	out := make([]byte, len(data))
	c.XORKeyStream(out, data)
	return out, nil
}

func validateAESKey(key []byte) error {
	switch len(key) {
	case 16, 24, 32:
		return nil
	default:
		return pdferr.New(pdferr.DecryptError, "invalid AES key length %d", len(key))
	}
}

// sha256Sum returns the SHA-256 digest of the concatenated parts.
func sha256Sum(parts ...[]byte) []byte {
	h := sha256.New()
	for _, p := range parts {
		h.Write(p)
	}
	return h.Sum(nil)
}
